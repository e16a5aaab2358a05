package helpers

import (
	"errors"
	"log/slog"
	"sync/atomic"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/calcbot/core/logger"
	"github.com/m3rciful/calcbot/core/telegram/sender"
)

var globalDispatcher atomic.Pointer[sender.Dispatcher]

// SetDispatcher wires the asynchronous sender used by the helpers; nil sends inline.
func SetDispatcher(d *sender.Dispatcher) {
	globalDispatcher.Store(d)
}

// CurrentDispatcher returns the dispatcher set by SetDispatcher.
func CurrentDispatcher() *sender.Dispatcher {
	return globalDispatcher.Load()
}

// sendAsync hands run to the dispatcher, falling back to a direct call when the queue refuses it.
func sendAsync(c tele.Context, action string, run func() error) error {
	disp := CurrentDispatcher()
	if disp == nil {
		return run()
	}
	ctx := BuildContext(c)
	err := disp.Enqueue(ctx, action, run)
	if errors.Is(err, sender.ErrQueueFull) || errors.Is(err, sender.ErrQueueClosed) {
		logger.Warn(ctx, "tg.sender", "queue.fallback",
			slog.String("status", "skip"),
			slog.String("action", action),
			slog.String("err", err.Error()),
		)
		return run()
	}
	return err
}

func first(markup []*tele.ReplyMarkup) *tele.ReplyMarkup {
	if len(markup) > 0 {
		return markup[0]
	}
	return nil
}

// SendText sends plain text with an optional keyboard.
func SendText(c tele.Context, text string, markup ...*tele.ReplyMarkup) error {
	opts := &tele.SendOptions{ReplyMarkup: first(markup)}
	return sendAsync(c, "send.text", func() error {
		return c.Send(text, opts)
	})
}

// SendMDV2 sends MarkdownV2 text; the caller escapes it.
func SendMDV2(c tele.Context, text string, markup ...*tele.ReplyMarkup) error {
	opts := &tele.SendOptions{ParseMode: tele.ModeMarkdownV2, ReplyMarkup: first(markup)}
	return sendAsync(c, "send.mdv2", func() error {
		return c.Send(text, opts)
	})
}

// EditOrSendText edits the message behind a callback, or sends a new one.
func EditOrSendText(c tele.Context, text string, markup ...*tele.ReplyMarkup) error {
	opts := &tele.SendOptions{ReplyMarkup: first(markup)}
	return sendAsync(c, "edit_or_send.text", func() error {
		return c.EditOrSend(text, opts)
	})
}

// EditOrSendMDV2 is EditOrSendText with MarkdownV2 parse mode.
func EditOrSendMDV2(c tele.Context, text string, markup ...*tele.ReplyMarkup) error {
	opts := &tele.SendOptions{ParseMode: tele.ModeMarkdownV2, ReplyMarkup: first(markup)}
	return sendAsync(c, "edit_or_send.mdv2", func() error {
		return c.EditOrSend(text, opts)
	})
}
