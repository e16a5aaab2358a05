package keyboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInlineButtonsNPerRow(t *testing.T) {
	buttons := []InlineBtn{
		{Text: "➕ Add", Unique: "calc_op", Data: "add"},
		{Text: "➖ Subtract", Unique: "calc_op", Data: "subtract"},
		{Text: "✖️ Multiply", Unique: "calc_op", Data: "multiply"},
		{Text: "➗ Divide", Unique: "calc_op", Data: "divide"},
		{Text: "🧮 Expression", Unique: "calc_op", Data: "expression"},
	}

	markup := InlineButtonsNPerRow(buttons, 2)
	require.Len(t, markup.InlineKeyboard, 3)
	assert.Len(t, markup.InlineKeyboard[0], 2)
	assert.Len(t, markup.InlineKeyboard[2], 1)

	first := markup.InlineKeyboard[0][0]
	assert.Equal(t, "➕ Add", first.Text)
	assert.Equal(t, "calc_op", first.Unique)
	assert.Equal(t, "add", first.Data)

	assert.Len(t, InlineButtonsNPerRow(buttons, 0).InlineKeyboard, len(buttons))
	assert.Empty(t, InlineButtonsNPerRow(nil, 3).InlineKeyboard)
}

func TestSingleCancelMarkup(t *testing.T) {
	markup := SingleCancelMarkup("calc_cancel")
	require.Len(t, markup.InlineKeyboard, 1)
	require.Len(t, markup.InlineKeyboard[0], 1)
	btn := markup.InlineKeyboard[0][0]
	assert.Equal(t, DefaultCancelText, btn.Text)
	assert.Equal(t, "calc_cancel", btn.Unique)

	assert.Equal(t, "Stop", SingleCancelMarkup("x", "Stop").InlineKeyboard[0][0].Text)
}
