package state

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/m3rciful/calcbot/core/logger"
)

type entry struct {
	session Session
	touched time.Time
}

// lockEntry is a per-user mutex shared by everyone currently waiting on it.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// MemoryManager is the in-memory Manager implementation.
type MemoryManager struct {
	mu       sync.RWMutex
	sessions map[int64]*entry

	locksMu sync.Mutex
	locks   map[int64]*lockEntry

	idleTTL time.Duration
	now     func() time.Time
}

// Option configures a MemoryManager.
type Option func(*MemoryManager)

// WithIdleTTL enables eviction of sessions untouched for longer than d.
func WithIdleTTL(d time.Duration) Option {
	return func(m *MemoryManager) {
		m.idleTTL = d
	}
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(m *MemoryManager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewMemoryManager constructs an empty in-memory session store.
func NewMemoryManager(opts ...Option) *MemoryManager {
	m := &MemoryManager{
		sessions: make(map[int64]*entry),
		locks:    make(map[int64]*lockEntry),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get returns the session for a user, creating an idle one on first access.
func (m *MemoryManager) Get(userID int64) Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[userID]
	if !ok {
		e = &entry{session: Idle()}
		m.sessions[userID] = e
	}
	e.touched = m.now()
	return e.session
}

// Set replaces the session for a user.
func (m *MemoryManager) Set(userID int64, s Session) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[userID]
	if !ok {
		e = &entry{}
		m.sessions[userID] = e
	}
	e.session = s
	e.touched = m.now()
}

// Reset puts the user back into the idle state.
func (m *MemoryManager) Reset(userID int64) {
	m.Set(userID, Idle())
}

// Len reports the number of stored sessions.
func (m *MemoryManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *MemoryManager) acquire(userID int64) *lockEntry {
	m.locksMu.Lock()
	defer m.locksMu.Unlock()

	l, ok := m.locks[userID]
	if !ok {
		l = &lockEntry{}
		m.locks[userID] = l
	}
	l.refs++
	return l
}

func (m *MemoryManager) release(userID int64) {
	m.locksMu.Lock()
	defer m.locksMu.Unlock()

	l, ok := m.locks[userID]
	if !ok {
		return
	}
	l.refs--
	if l.refs <= 0 {
		delete(m.locks, userID)
	}
}

func (m *MemoryManager) locked(userID int64) bool {
	m.locksMu.Lock()
	defer m.locksMu.Unlock()
	_, ok := m.locks[userID]
	return ok
}

// WithLock executes fn while holding the user's lock. Different users never block each other.
func (m *MemoryManager) WithLock(ctx context.Context, userID int64, fn func(ctx context.Context) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	l := m.acquire(userID)
	l.mu.Lock()
	defer func() {
		l.mu.Unlock()
		m.release(userID)
	}()
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}

// Sweep evicts sessions idle for longer than the configured TTL and returns how many were removed.
// Sessions whose lock is held or awaited are kept.
func (m *MemoryManager) Sweep(now time.Time) int {
	if m.idleTTL <= 0 {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	for id, e := range m.sessions {
		if now.Sub(e.touched) <= m.idleTTL || m.locked(id) {
			continue
		}
		delete(m.sessions, id)
		evicted++
	}
	return evicted
}

// RunJanitor sweeps idle sessions every interval until ctx is done.
func (m *MemoryManager) RunJanitor(ctx context.Context, interval time.Duration) {
	if m.idleTTL <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			start := time.Now()
			if n := m.Sweep(m.now()); n > 0 {
				logger.Debug(ctx, "state", "sessions.evicted",
					slog.String("status", "ok"),
					slog.Int("count", n),
					slog.Int("remaining", m.Len()),
					slog.Duration("duration", logger.Took(start)),
				)
			}
		}
	}
}

var _ Manager = (*MemoryManager)(nil)
