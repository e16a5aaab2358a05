// Package history records calculation attempts so users can review them with /history.
package history

import (
	"context"
	"time"
)

// Entry is one recorded calculation attempt.
type Entry struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Operation string    `db:"operation"`
	Input     string    `db:"input"`
	Result    string    `db:"result"`
	ErrCode   string    `db:"err_code"`
	CreatedAt time.Time `db:"created_at"`
}

// Failed reports whether the attempt ended with an error.
func (e Entry) Failed() bool { return e.ErrCode != "" }

// Store appends and lists calculation attempts.
type Store interface {
	Append(ctx context.Context, e Entry) error
	// Recent returns up to limit entries for the user, newest first.
	Recent(ctx context.Context, userID int64, limit int) ([]Entry, error)
}
