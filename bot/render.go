package bot

import (
	"context"
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/calcbot/core/calc/dialogue"
	"github.com/m3rciful/calcbot/core/calc/ops"
	"github.com/m3rciful/calcbot/core/telegram/format"
	tghelpers "github.com/m3rciful/calcbot/core/telegram/helpers"
	"github.com/m3rciful/calcbot/core/telegram/keyboard"
)

const (
	menuText      = "Choose an operation:"
	cancelledText = "Operation cancelled. Use /start to choose another one."
	menuColumns   = 2
)

// outgoing is a rendered message ready for the sender.
type outgoing struct {
	Text       string
	Markup     *tele.ReplyMarkup
	MarkdownV2 bool
}

// render turns a dialogue action into a Telegram message.
func render(a dialogue.Action, reg *ops.Registry) (outgoing, error) {
	switch a := a.(type) {
	case dialogue.ShowMenu:
		return outgoing{Text: menuText, Markup: menuMarkup(reg)}, nil
	case dialogue.PromptForInput:
		return outgoing{
			Text:   promptText(reg, a.OperationID),
			Markup: keyboard.SingleCancelMarkup(callbackCancel),
		}, nil
	case dialogue.ShowResult:
		return outgoing{Text: "✅ *Result:* " + format.EscapeV2(a.Text), MarkdownV2: true}, nil
	case dialogue.ShowError:
		return outgoing{Text: "⚠️ " + a.Text}, nil
	case dialogue.ShowCancelled:
		return outgoing{Text: cancelledText}, nil
	}
	return outgoing{}, fmt.Errorf("render: unsupported action %T", a)
}

// menuMarkup lays out every registry entry, cancel included, as a menu selection.
func menuMarkup(reg *ops.Registry) *tele.ReplyMarkup {
	menu := reg.Menu()
	buttons := make([]keyboard.InlineBtn, 0, len(menu))
	for _, op := range menu {
		buttons = append(buttons, keyboard.InlineBtn{Text: op.Label, Unique: callbackOperation, Data: op.ID})
	}
	return keyboard.InlineButtonsNPerRow(buttons, menuColumns)
}

func promptText(reg *ops.Registry, opID string) string {
	op, ok := reg.Lookup(opID)
	if !ok {
		return "Send your input."
	}
	var b strings.Builder
	b.WriteString(op.Label)
	b.WriteString(" selected.")
	if op.Hint != "" {
		b.WriteString("\n")
		b.WriteString(op.Hint)
	}
	return b.String()
}

// emitter renders actions onto the update they answer. After a button press
// the first message replaces the keyboard message; the rest are sent anew.
type emitter struct {
	c    tele.Context
	reg  *ops.Registry
	edit bool
}

func newEmitter(c tele.Context, reg *ops.Registry) *emitter {
	return &emitter{c: c, reg: reg, edit: c.Callback() != nil}
}

func (e *emitter) Emit(_ context.Context, a dialogue.Action) error {
	msg, err := render(a, e.reg)
	if err != nil {
		return err
	}
	edit := e.edit
	e.edit = false
	return send(e.c, msg, edit)
}

func send(c tele.Context, msg outgoing, edit bool) error {
	switch {
	case edit && msg.MarkdownV2:
		return tghelpers.EditOrSendMDV2(c, msg.Text, msg.Markup)
	case edit:
		return tghelpers.EditOrSendText(c, msg.Text, msg.Markup)
	case msg.MarkdownV2:
		return tghelpers.SendMDV2(c, msg.Text, msg.Markup)
	default:
		return tghelpers.SendText(c, msg.Text, msg.Markup)
	}
}

var _ dialogue.Emitter = (*emitter)(nil)
