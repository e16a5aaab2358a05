package bot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/calcbot/core/bootstrap"
	"github.com/m3rciful/calcbot/core/calc/dialogue"
	"github.com/m3rciful/calcbot/core/calc/ops"
	coreconfig "github.com/m3rciful/calcbot/core/config"
	"github.com/m3rciful/calcbot/core/history"
	coretelegram "github.com/m3rciful/calcbot/core/telegram"
)

const uid int64 = 4242

type message struct {
	Text   string
	Opts   *tele.SendOptions
	Edited bool
}

// fakeContext records outbound calls instead of talking to Telegram.
type fakeContext struct {
	tele.Context
	out       *[]message
	responded int
}

func (f *fakeContext) record(what interface{}, edited bool, opts []interface{}) {
	m := message{Edited: edited}
	m.Text, _ = what.(string)
	for _, o := range opts {
		if so, ok := o.(*tele.SendOptions); ok {
			m.Opts = so
		}
	}
	*f.out = append(*f.out, m)
}

func (f *fakeContext) Send(what interface{}, opts ...interface{}) error {
	f.record(what, false, opts)
	return nil
}

func (f *fakeContext) EditOrSend(what interface{}, opts ...interface{}) error {
	f.record(what, true, opts)
	return nil
}

func (f *fakeContext) Respond(...*tele.CallbackResponse) error {
	f.responded++
	return nil
}

type harness struct {
	app *App
	out []message
}

func newHarness(t *testing.T, mutate ...func(*coreconfig.Config)) *harness {
	t.Helper()
	cfg := &coreconfig.Config{Telegram: coreconfig.TelegramConfig{Token: "test", AdminID: 1}}
	for _, m := range mutate {
		m(cfg)
	}
	require.NoError(t, coreconfig.Normalize(cfg))
	app, err := New(cfg, &bootstrap.Result{History: history.NewMemoryStore(cfg.Calc.HistorySize)})
	require.NoError(t, err)
	return &harness{app: app}
}

func (h *harness) text(text, payload string) *fakeContext {
	return &fakeContext{out: &h.out, Context: tele.NewContext(nil, tele.Update{
		ID: 1,
		Message: &tele.Message{
			Sender:  &tele.User{ID: uid},
			Chat:    &tele.Chat{ID: uid, Type: tele.ChatPrivate},
			Text:    text,
			Payload: payload,
		},
	})}
}

func (h *harness) callback(data string) *fakeContext {
	return &fakeContext{out: &h.out, Context: tele.NewContext(nil, tele.Update{
		ID: 2,
		Callback: &tele.Callback{
			Sender:  &tele.User{ID: uid},
			Data:    data,
			Message: &tele.Message{ID: 10, Chat: &tele.Chat{ID: uid}},
		},
	})}
}

func (h *harness) command(t *testing.T, name string) tele.HandlerFunc {
	t.Helper()
	cmd, ok := h.app.Registry().Commands()[name]
	require.True(t, ok, name)
	return cmd.Handler
}

func (h *harness) last(t *testing.T) message {
	t.Helper()
	require.NotEmpty(t, h.out)
	return h.out[len(h.out)-1]
}

func TestMenuToResultFlow(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.command(t, "/start")(h.text("/start", "")))
	menu := h.last(t)
	assert.Equal(t, menuText, menu.Text)
	require.NotNil(t, menu.Opts)
	require.NotNil(t, menu.Opts.ReplyMarkup)
	rows := menu.Opts.ReplyMarkup.InlineKeyboard
	require.Len(t, rows, 3)
	assert.Equal(t, callbackOperation, rows[0][0].Unique)
	assert.Equal(t, ops.Add, rows[0][0].Data)
	assert.Equal(t, callbackOperation, rows[2][1].Unique)
	assert.Equal(t, ops.Cancel, rows[2][1].Data)

	cb, ok := h.app.Registry().GetCallback(callbackOperation)
	require.True(t, ok)
	require.NoError(t, cb(h.callback("\fcalc_op|add")))
	prompt := h.last(t)
	assert.True(t, prompt.Edited)
	assert.Contains(t, prompt.Text, "➕ Add selected.")
	assert.Equal(t, callbackCancel, prompt.Opts.ReplyMarkup.InlineKeyboard[0][0].Unique)

	require.NoError(t, h.app.Registry().TextFallback()(h.text("10 5", "")))
	res := h.last(t)
	assert.False(t, res.Edited)
	assert.Equal(t, `✅ *Result:* 10 \+ 5 \= 15`, res.Text)
	assert.Equal(t, tele.ModeMarkdownV2, res.Opts.ParseMode)

	entries, err := h.app.history.Recent(context.Background(), uid, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "15", entries[0].Result)
}

func TestErrorsAndCancel(t *testing.T) {
	h := newHarness(t)
	cb, _ := h.app.Registry().GetCallback(callbackOperation)
	cancel, _ := h.app.Registry().GetCallback(callbackCancel)

	require.NoError(t, cb(h.callback("\fcalc_op|divide")))
	require.NoError(t, h.app.Registry().TextFallback()(h.text("4 0", "")))
	assert.Equal(t, "⚠️ Division by zero is not allowed.", h.last(t).Text)

	require.NoError(t, cb(h.callback("\fcalc_op|expression")))
	require.NoError(t, cancel(h.callback("\fcalc_cancel")))
	assert.Equal(t, cancelledText, h.last(t).Text)
	pending, ok := h.app.sessions.Get(uid).PendingOperation()
	assert.False(t, ok, pending)

	require.NoError(t, h.app.Registry().TextFallback()(h.text("hello", "")))
	assert.Contains(t, h.last(t).Text, "/start")
}

func TestMenuCancelEntry(t *testing.T) {
	h := newHarness(t)
	cb, _ := h.app.Registry().GetCallback(callbackOperation)

	require.NoError(t, cb(h.callback("\fcalc_op|cancel")))
	assert.Equal(t, cancelledText, h.last(t).Text)

	// a stale menu pressed while awaiting keeps the pending operation
	require.NoError(t, cb(h.callback("\fcalc_op|subtract")))
	require.NoError(t, cb(h.callback("\fcalc_op|cancel")))
	assert.Contains(t, h.last(t).Text, "selected.")
	op, ok := h.app.sessions.Get(uid).PendingOperation()
	require.True(t, ok)
	assert.Equal(t, ops.Subtract, op)
}

func TestUnsupportedUpdates(t *testing.T) {
	h := newHarness(t, func(cfg *coreconfig.Config) { cfg.Calc.MaxExpressionLength = 8 })
	cb, _ := h.app.Registry().GetCallback(callbackOperation)

	require.NoError(t, cb(h.callback("\fcalc_op|expression")))
	require.NoError(t, h.app.Registry().TextFallback()(h.text("1+2+3+4+5+6", "")))
	assert.Equal(t, "⚠️ "+dialogue.Message(dialogue.ErrInputTooLong), h.last(t).Text)
	_, awaiting := h.app.sessions.Get(uid).PendingOperation()
	assert.False(t, awaiting)

	require.NoError(t, h.command(t, "/calc")(h.text("/calc 1+2+3+4+5+6", "1+2+3+4+5+6")))
	assert.Equal(t, "⚠️ "+dialogue.Message(dialogue.ErrInputTooLong), h.last(t).Text)

	require.NoError(t, h.app.Registry().MediaFallback()(h.text("", "")))
	assert.Equal(t, "⚠️ "+dialogue.Message(dialogue.ErrUnexpectedEvent), h.last(t).Text)

	ctx := h.callback("\fmystery|1")
	require.NoError(t, h.app.Registry().CallbackNotFound()(ctx))
	assert.Equal(t, 1, ctx.responded)
}

func TestOneShotCommands(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.command(t, "/calc")(h.text("/calc 2 * (3 + 4)", "2 * (3 + 4)")))
	assert.Equal(t, `✅ *Result:* 2 \* \(3 \+ 4\) \= 14`, h.last(t).Text)

	require.NoError(t, h.command(t, "/multiply")(h.text("/kali 6 7", "")))
	assert.Equal(t, `✅ *Result:* 6 \* 7 \= 42`, h.last(t).Text)

	require.NoError(t, h.command(t, "/multiply")(h.text("/multiply 6", "6")))
	assert.Equal(t, "⚠️ "+dialogue.Message(dialogue.ErrWrongArity), h.last(t).Text)

	require.NoError(t, h.command(t, "/calc")(h.text("/calc", "")))
	assert.Contains(t, h.last(t).Text, "Usage: /calc")

	assert.Equal(t, 0, h.app.sessions.Len())

	require.NoError(t, h.command(t, "/history")(h.text("/history", "")))
	hist := h.last(t).Text
	assert.Contains(t, hist, "✗ multiply: 6 → WRONG_ARITY")
	assert.Contains(t, hist, "✓ multiply: 6 7 → 42")
	assert.Contains(t, hist, "✓ expression: 2 * (3 + 4) → 14")
}

func TestInfoCommands(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.command(t, "/help")(h.text("/help", "")))
	assert.Equal(t, helpText, h.last(t).Text)

	require.NoError(t, h.command(t, "/stats")(h.text("/stats", "")))
	assert.Equal(t, "Active sessions: 0", h.last(t).Text)

	require.NoError(t, h.command(t, "/about")(h.text("/about", "")))
	assert.Contains(t, h.last(t).Text, "calcbot dev")

	require.NoError(t, h.command(t, "/history")(h.text("/history", "")))
	assert.Equal(t, "No calculations yet. Use /start to begin.", h.last(t).Text)
}

func TestRegistryWiring(t *testing.T) {
	h := newHarness(t)
	reg := h.app.Registry()

	assert.Equal(t, []string{callbackCancel, callbackOperation}, reg.ListCallbacks())
	assert.True(t, reg.Commands()["/stats"].AdminOnly)
	key, _, ok := reg.LookupCommand("kali")
	require.True(t, ok)
	assert.Equal(t, "/multiply", key)

	opts, err := h.app.TelegramRunOptions()
	require.NoError(t, err)
	assert.Same(t, h.app.cfg, opts.Config)
	assert.Same(t, reg, opts.Registry)
	assert.Equal(t, coreconfig.DefaultSenderQueueSize, opts.DispatcherOptions.QueueSize)
	assert.NotEmpty(t, opts.Middlewares)

	endpoints := map[any]bool{}
	for _, r := range opts.Routes {
		endpoints[r.Endpoint] = true
	}
	for _, ep := range []any{"/start", "/cancel", "/kali", tele.OnCallback, tele.OnText, tele.OnPhoto} {
		assert.True(t, endpoints[ep], ep)
	}
}

func TestLifecycleStopsJanitor(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, h.app.onStart(ctx, coretelegram.Runtime{}))
	require.NoError(t, h.app.onStop(context.Background(), coretelegram.Runtime{}))
	require.NoError(t, h.app.onStop(context.Background(), coretelegram.Runtime{}))
}

func TestNewRequiresConfig(t *testing.T) {
	_, err := New(nil, nil)
	assert.Error(t, err)
}
