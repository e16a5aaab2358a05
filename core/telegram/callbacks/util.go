// Package callbacks decodes the callback data produced by telebot inline buttons.
package callbacks

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

// Key joins unique and payload the way telebot encodes button data.
func Key(unique, payload string) string {
	if payload == "" {
		return "\f" + unique
	}
	return "\f" + unique + "|" + payload
}

// ParseCallbackData splits telebot's "\f<unique>|<payload>" encoding.
// When a specific handler matched, telebot has already split the data and
// cb.Unique is set; the generic OnCallback handler receives it raw.
func ParseCallbackData(cb *tele.Callback) (string, string) {
	if cb == nil {
		return "", ""
	}
	if cb.Unique != "" {
		return cb.Unique, cb.Data
	}
	raw := strings.TrimPrefix(cb.Data, "\f")
	unique, payload, _ := strings.Cut(raw, "|")
	return strings.TrimSpace(unique), payload
}

// CallbackKey returns the unique part of the current callback.
func CallbackKey(c tele.Context) string {
	k, _ := ParseCallbackData(c.Callback())
	return k
}

// CallbackPayload returns the payload part of the current callback.
func CallbackPayload(c tele.Context) string {
	_, p := ParseCallbackData(c.Callback())
	return p
}
