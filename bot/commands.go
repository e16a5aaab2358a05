package bot

import (
	"fmt"
	"log/slog"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/calcbot/core/buildinfo"
	"github.com/m3rciful/calcbot/core/calc/dialogue"
	"github.com/m3rciful/calcbot/core/calc/ops"
	"github.com/m3rciful/calcbot/core/history"
	"github.com/m3rciful/calcbot/core/logger"
	"github.com/m3rciful/calcbot/core/telegram/commands"
	"github.com/m3rciful/calcbot/core/telegram/format"
	tghelpers "github.com/m3rciful/calcbot/core/telegram/helpers"
)

const helpText = `I am a calculator bot.

/start opens the operation menu. Pick an operation, then send:
• two numbers separated by a space for add, subtract, multiply and divide, e.g. 10 5
• an expression for the expression mode, e.g. (100 + 50) / 2

Shortcuts:
/calc <expression> evaluates right away, e.g. /calc 2 * (3 + 4)
/multiply <a> <b> multiplies two numbers, e.g. /multiply 6 7
/history shows your recent calculations
/cancel aborts the current operation`

func (a *App) commandSet() map[string]commands.Command {
	return map[string]commands.Command{
		"/start":    {Handler: a.onStartCommand, Description: "Open the calculator menu"},
		"/cancel":   {Handler: a.onCancelCommand, Description: "Cancel the current operation"},
		"/help":     {Handler: a.onHelp, Description: "How to use the calculator"},
		"/calc":     {Handler: a.onCalc, Description: "Evaluate an expression: /calc 2 * (3 + 4)"},
		"/multiply": {Handler: a.onMultiply, Description: "Multiply two numbers: /multiply 6 7", Aliases: []string{"kali"}},
		"/history":  {Handler: a.onHistory, Description: "Show your recent calculations"},
		"/stats":    {Handler: a.onStats, Description: "Bot statistics", AdminOnly: true},
		"/about":    {Handler: a.onAbout, Description: "Build information", Hidden: true},
	}
}

func (a *App) onHelp(c tele.Context) error {
	return tghelpers.SendText(c, helpText)
}

func (a *App) onCalc(c tele.Context) error {
	return a.oneShot(c, ops.Expression, "Usage: /calc <expression>, e.g. /calc (100 + 50) / 2")
}

func (a *App) onMultiply(c tele.Context) error {
	return a.oneShot(c, ops.Multiply, "Usage: /multiply <a> <b>, e.g. /multiply 6 7")
}

// oneShot evaluates the command payload without touching the user's session.
func (a *App) oneShot(c tele.Context, opID, usage string) error {
	input := strings.TrimSpace(commandPayload(c))
	if input == "" {
		return tghelpers.SendText(c, usage)
	}
	calc := a.machine.Evaluate(tghelpers.BuildContext(c), senderID(c), opID, input)
	if calc.Err != nil {
		return tghelpers.SendText(c, "⚠️ "+dialogue.Message(calc.Err))
	}
	return tghelpers.SendMDV2(c, "✅ *Result:* "+format.EscapeV2(calc.Text))
}

// commandPayload prefers telebot's parsed payload and falls back to the text after the command.
func commandPayload(c tele.Context) string {
	if m := c.Message(); m != nil && m.Payload != "" {
		return m.Payload
	}
	_, rest, _ := strings.Cut(strings.TrimSpace(c.Text()), " ")
	return rest
}

func (a *App) onHistory(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	entries, err := a.history.Recent(ctx, senderID(c), a.cfg.Calc.HistorySize)
	if err != nil {
		logger.Warn(ctx, component, "history.read",
			slog.String("status", "fail"),
			slog.String("err", err.Error()),
		)
		return tghelpers.SendText(c, "History is unavailable right now.")
	}
	return tghelpers.SendText(c, formatHistory(entries))
}

func formatHistory(entries []history.Entry) string {
	if len(entries) == 0 {
		return "No calculations yet. Use /start to begin."
	}
	var b strings.Builder
	b.WriteString("Recent calculations:")
	for _, e := range entries {
		b.WriteString("\n")
		if e.Failed() {
			fmt.Fprintf(&b, "✗ %s: %s → %s", e.Operation, e.Input, e.ErrCode)
			continue
		}
		fmt.Fprintf(&b, "✓ %s: %s → %s", e.Operation, e.Input, e.Result)
	}
	return b.String()
}

func (a *App) onStats(c tele.Context) error {
	text := fmt.Sprintf("Active sessions: %d", a.sessions.Len())
	if d := tghelpers.CurrentDispatcher(); d != nil {
		st := d.Stats()
		text += fmt.Sprintf("\nMessages sent: %d\nSend failures: %d\nRetries: %d\nQueued: %d",
			st.Sent, st.Failed, st.Retried, st.Queued)
	}
	return tghelpers.SendText(c, text)
}

func (a *App) onAbout(c tele.Context) error {
	return tghelpers.SendText(c, "calcbot "+buildinfo.String())
}
