package bot

import (
	"strings"

	"github.com/m3rciful/calcbot/core/calc/dialogue"
)

// Callback uniques carried by the inline keyboards.
const (
	callbackOperation = "calc_op"
	callbackCancel    = "calc_cancel"
)

// Unrecognized reasons, also used as log values.
const (
	reasonEmptyPayload    = "empty_callback_payload"
	reasonUnknownCallback = "unknown_callback"
	reasonUnsupported     = "unsupported_message"
)

// eventFromCallback maps an inline button press to a dialogue event.
func eventFromCallback(userID int64, unique, payload string) dialogue.Event {
	switch unique {
	case callbackCancel:
		return dialogue.CancelCommand{UserID: userID}
	case callbackOperation:
		payload = strings.TrimSpace(payload)
		if payload == "" {
			return dialogue.Unrecognized{UserID: userID, Reason: reasonEmptyPayload}
		}
		return dialogue.MenuSelection{UserID: userID, OperationID: payload}
	}
	return dialogue.Unrecognized{UserID: userID, Reason: reasonUnknownCallback}
}

// eventFromText maps a plain message. Length limits are enforced by the machine.
func eventFromText(userID int64, text string) dialogue.Event {
	return dialogue.TextInput{UserID: userID, Text: text}
}
