// Package keyboard builds inline keyboards from plain button descriptions.
package keyboard

import tele "gopkg.in/telebot.v4"

// InlineBtn describes one inline button; Unique routes the callback and Data is its payload.
type InlineBtn struct {
	Text   string
	Unique string
	Data   string
}

// DefaultCancelText labels cancel buttons unless overridden.
const DefaultCancelText = "❌ Cancel"

// InlineButtonsRows builds an inline keyboard from rows of InlineBtn.
func InlineButtonsRows(rows ...[]InlineBtn) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	inline := make([][]tele.InlineButton, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		r := make([]tele.InlineButton, len(row))
		for j, btn := range row {
			r[j] = *markup.Data(btn.Text, btn.Unique, btn.Data).Inline()
		}
		inline = append(inline, r)
	}
	markup.InlineKeyboard = inline
	return markup
}

// InlineButtonsNPerRow lays buttons out left to right, n per row (at least one).
func InlineButtonsNPerRow(buttons []InlineBtn, n int) *tele.ReplyMarkup {
	n = max(n, 1)
	rows := make([][]InlineBtn, 0, (len(buttons)+n-1)/n)
	for i := 0; i < len(buttons); i += n {
		rows = append(rows, buttons[i:min(i+n, len(buttons))])
	}
	return InlineButtonsRows(rows...)
}

// SingleCancelMarkup returns a keyboard with one cancel button routed to unique.
// An optional label replaces DefaultCancelText.
func SingleCancelMarkup(unique string, label ...string) *tele.ReplyMarkup {
	text := DefaultCancelText
	if len(label) > 0 && label[0] != "" {
		text = label[0]
	}
	return InlineButtonsRows([]InlineBtn{{Text: text, Unique: unique}})
}
