package helpers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/calcbot/core/logger"
	"github.com/m3rciful/calcbot/core/telegram/sender"
)

type sendCtx struct {
	tele.Context
	sent []*tele.SendOptions
}

func (s *sendCtx) Send(_ interface{}, opts ...interface{}) error {
	so, _ := opts[0].(*tele.SendOptions)
	s.sent = append(s.sent, so)
	return nil
}

func (s *sendCtx) EditOrSend(what interface{}, opts ...interface{}) error {
	return s.Send(what, opts...)
}

func newSendCtx() *sendCtx {
	return &sendCtx{Context: tele.NewContext(nil, tele.Update{
		ID:      5,
		Message: &tele.Message{Sender: &tele.User{ID: 3}, Chat: &tele.Chat{ID: 4}},
	})}
}

func TestBuildContextCachesMeta(t *testing.T) {
	c := newSendCtx()
	ctx := BuildContext(c)
	assert.Equal(t, "5:4:3", logger.RIDFrom(ctx))
	assert.Equal(t, int64(3), logger.UserIDFrom(ctx))
	assert.Equal(t, int64(4), logger.ChatIDFrom(ctx))
	assert.Equal(t, 5, logger.UpdateIDFrom(ctx))

	ctx = WithHandler(c, "calc")
	assert.Equal(t, "calc", logger.HandlerFrom(BuildContext(c)))
	assert.Equal(t, ctx, BuildContext(c))

	assert.Equal(t, context.Background(), BuildContext(nil))
}

func TestSendInlineWithoutDispatcher(t *testing.T) {
	SetDispatcher(nil)
	c := newSendCtx()
	markup := &tele.ReplyMarkup{}

	require.NoError(t, SendText(c, "plain"))
	require.NoError(t, SendMDV2(c, `\*bold\*`, markup))
	require.NoError(t, EditOrSendMDV2(c, "x"))
	require.Len(t, c.sent, 3)
	assert.Empty(t, c.sent[0].ParseMode)
	assert.Nil(t, c.sent[0].ReplyMarkup)
	assert.Equal(t, tele.ModeMarkdownV2, c.sent[1].ParseMode)
	assert.Same(t, markup, c.sent[1].ReplyMarkup)
	assert.Equal(t, tele.ModeMarkdownV2, c.sent[2].ParseMode)
}

func TestSendThroughDispatcher(t *testing.T) {
	d := sender.NewDispatcher(sender.Options{Workers: 1, QueueSize: 4})
	SetDispatcher(d)
	t.Cleanup(func() { SetDispatcher(nil) })
	assert.Same(t, d, CurrentDispatcher())

	c := newSendCtx()
	require.NoError(t, SendText(c, "queued"))
	require.NoError(t, EditOrSendText(c, "queued too"))
	d.Close()

	assert.Len(t, c.sent, 2)
	assert.Equal(t, uint64(2), d.Stats().Sent)

	// a closed queue falls back to sending inline
	require.NoError(t, SendText(c, "late"))
	assert.Len(t, c.sent, 3)
}
