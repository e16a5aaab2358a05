package history

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps the last N entries per user in memory.
type MemoryStore struct {
	mu      sync.RWMutex
	perUser int
	seq     int64
	entries map[int64][]Entry
	now     func() time.Time
}

// NewMemoryStore returns a store retaining up to perUser entries per user (default 20).
func NewMemoryStore(perUser int) *MemoryStore {
	if perUser <= 0 {
		perUser = 20
	}
	return &MemoryStore{
		perUser: perUser,
		entries: make(map[int64][]Entry),
		now:     time.Now,
	}
}

// Append stores e, dropping the user's oldest entry when full.
func (s *MemoryStore) Append(_ context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	e.ID = s.seq
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now()
	}
	list := append(s.entries[e.UserID], e)
	if len(list) > s.perUser {
		list = append([]Entry(nil), list[len(list)-s.perUser:]...)
	}
	s.entries[e.UserID] = list
	return nil
}

// Recent returns up to limit entries for userID, newest first.
func (s *MemoryStore) Recent(_ context.Context, userID int64, limit int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.entries[userID]
	if limit <= 0 || limit > len(list) {
		limit = len(list)
	}
	out := make([]Entry, 0, limit)
	for i := len(list) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, list[i])
	}
	return out, nil
}

var _ Store = (*MemoryStore)(nil)
