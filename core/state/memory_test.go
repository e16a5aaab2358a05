package state

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionVariant(t *testing.T) {
	idle := Idle()
	assert.Equal(t, StateIdle, idle.State())
	_, ok := idle.PendingOperation()
	assert.False(t, ok)

	var zero Session
	assert.Equal(t, idle, zero)

	waiting := AwaitingInput("add")
	assert.Equal(t, StateAwaitingInput, waiting.State())
	op, ok := waiting.PendingOperation()
	assert.True(t, ok)
	assert.Equal(t, "add", op)

	assert.Equal(t, idle, AwaitingInput(""))
}

func TestMemoryManagerLazyIdle(t *testing.T) {
	m := NewMemoryManager()
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, Idle(), m.Get(42))
	assert.Equal(t, 1, m.Len())
}

func TestMemoryManagerSetReset(t *testing.T) {
	m := NewMemoryManager()
	m.Set(1, AwaitingInput("divide"))
	m.Set(2, AwaitingInput("add"))

	assert.Equal(t, AwaitingInput("divide"), m.Get(1))
	m.Reset(1)
	assert.Equal(t, Idle(), m.Get(1))
	assert.Equal(t, AwaitingInput("add"), m.Get(2))

	m.Reset(1)
	assert.Equal(t, Idle(), m.Get(1))
}

func TestMemoryManagerSweep(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	m := NewMemoryManager(WithIdleTTL(time.Minute), WithClock(clock))

	m.Set(1, AwaitingInput("add"))
	now = now.Add(30 * time.Second)
	m.Set(2, Idle())

	now = now.Add(45 * time.Second)
	assert.Equal(t, 1, m.Sweep(now))
	assert.Equal(t, 1, m.Len())

	// user 1 was evicted and starts over idle
	assert.Equal(t, Idle(), m.Get(1))
}

func TestMemoryManagerSweepKeepsLockedSessions(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemoryManager(WithIdleTTL(time.Second), WithClock(func() time.Time { return now }))
	m.Set(7, AwaitingInput("expression"))

	err := m.WithLock(context.Background(), 7, func(ctx context.Context) error {
		assert.Equal(t, 0, m.Sweep(now.Add(time.Hour)))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, m.Sweep(now.Add(time.Hour)))
}

func TestMemoryManagerSweepDisabled(t *testing.T) {
	m := NewMemoryManager()
	m.Set(1, Idle())
	assert.Equal(t, 0, m.Sweep(time.Now().Add(24*time.Hour)))
}

func TestWithLockSerializesSameUser(t *testing.T) {
	m := NewMemoryManager()
	ctx := context.Background()

	var active, maxActive int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.WithLock(ctx, 1, func(context.Context) error {
				n := atomic.AddInt32(&active, 1)
				for {
					old := atomic.LoadInt32(&maxActive)
					if n <= old || atomic.CompareAndSwapInt32(&maxActive, old, n) {
						break
					}
				}
				time.Sleep(100 * time.Microsecond)
				atomic.AddInt32(&active, -1)
				return nil
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), maxActive)
}

func TestWithLockDifferentUsersDoNotBlock(t *testing.T) {
	m := NewMemoryManager()
	ctx := context.Background()

	entered := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = m.WithLock(ctx, 1, func(context.Context) error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered

	done := make(chan struct{})
	go func() {
		_ = m.WithLock(ctx, 2, func(context.Context) error { return nil })
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("user 2 was blocked by user 1")
	}
	close(release)
}

func TestWithLockReleasesLockEntries(t *testing.T) {
	m := NewMemoryManager()
	ctx := context.Background()
	for i := int64(0); i < 1000; i++ {
		require.NoError(t, m.WithLock(ctx, i, func(context.Context) error { return nil }))
	}
	m.locksMu.Lock()
	defer m.locksMu.Unlock()
	assert.Empty(t, m.locks)
}

func TestWithLockCancelledContext(t *testing.T) {
	m := NewMemoryManager()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := m.WithLock(ctx, 1, func(context.Context) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
