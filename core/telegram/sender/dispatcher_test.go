package sender

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func newTestDispatcher(opts Options) *Dispatcher {
	d := NewDispatcher(opts)
	d.sleep = func(ctx context.Context, _ time.Duration) error { return ctx.Err() }
	return d
}

func TestDispatcherDeliversInBackground(t *testing.T) {
	d := newTestDispatcher(Options{Workers: 2, QueueSize: 8})
	var calls atomic.Int32
	for i := 0; i < 5; i++ {
		require.NoError(t, d.Enqueue(context.Background(), "send.text", func() error {
			calls.Add(1)
			return nil
		}))
	}
	d.Close()

	assert.Equal(t, int32(5), calls.Load())
	st := d.Stats()
	assert.Equal(t, uint64(5), st.Sent)
	assert.Zero(t, st.Failed)
	assert.Zero(t, d.ErrorCount())
}

func TestDispatcherRetriesTransientErrors(t *testing.T) {
	d := newTestDispatcher(Options{Workers: 1, MaxRetries: 3})
	var calls atomic.Int32
	require.NoError(t, d.Enqueue(context.Background(), "send.text", func() error {
		if calls.Add(1) < 3 {
			return timeoutErr{}
		}
		return nil
	}))
	d.Close()

	assert.Equal(t, int32(3), calls.Load())
	st := d.Stats()
	assert.Equal(t, uint64(1), st.Sent)
	assert.Equal(t, uint64(2), st.Retried)
	assert.Zero(t, st.Failed)
}

func TestDispatcherGivesUp(t *testing.T) {
	d := newTestDispatcher(Options{Workers: 1, MaxRetries: 2})
	var permanent, transient atomic.Int32
	require.NoError(t, d.Enqueue(context.Background(), "send.text", func() error {
		permanent.Add(1)
		return errors.New("Bad Request: chat not found (400)")
	}))
	require.NoError(t, d.Enqueue(context.Background(), "send.text", func() error {
		transient.Add(1)
		return timeoutErr{}
	}))
	d.Close()

	assert.Equal(t, int32(1), permanent.Load())
	assert.Equal(t, int32(3), transient.Load())
	assert.Equal(t, uint64(2), d.ErrorCount())
}

func TestDispatcherJobSurvivesHandlerContext(t *testing.T) {
	d := newTestDispatcher(Options{Workers: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran atomic.Bool
	require.NoError(t, d.Enqueue(ctx, "send.text", func() error {
		ran.Store(true)
		return nil
	}))
	d.Close()
	assert.True(t, ran.Load())
}

func TestDispatcherQueueFullAndClosed(t *testing.T) {
	d := newTestDispatcher(Options{Workers: 1, QueueSize: 1})
	started := make(chan struct{})
	release := make(chan struct{})
	noop := func() error { return nil }

	require.NoError(t, d.Enqueue(context.Background(), "block", func() error {
		close(started)
		<-release
		return nil
	}))
	<-started
	require.NoError(t, d.Enqueue(context.Background(), "queued", noop))
	assert.ErrorIs(t, d.Enqueue(context.Background(), "overflow", noop), ErrQueueFull)

	close(release)
	d.Close()
	d.Close()
	assert.ErrorIs(t, d.Enqueue(context.Background(), "late", noop), ErrQueueClosed)
	assert.Error(t, d.Enqueue(context.Background(), "nil", nil))
}

func TestSanitizeErrorMessage(t *testing.T) {
	err := errors.New(`Post "https://api.telegram.org/bot123456:AAE-x_y/sendMessage": timeout`)
	assert.Equal(t, `Post "https://api.telegram.org/bot<redacted>/sendMessage": timeout`, sanitizeErrorMessage(err))
	assert.Empty(t, sanitizeErrorMessage(nil))
}

func TestClassifyError(t *testing.T) {
	assert.Equal(t, "timeout", classifyError(context.DeadlineExceeded))
	assert.Equal(t, "timeout", classifyError(timeoutErr{}))
	assert.Equal(t, "unknown", classifyError(errors.New("boom")))
	assert.Empty(t, classifyError(nil))
}
