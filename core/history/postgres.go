package history

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/calcbot/core/logger"
)

// PostgresStore persists entries in the calculations table.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore wraps an open connection; migrations must already be applied.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const insertEntrySQL = `
INSERT INTO calculations (user_id, operation, input, result, err_code)
VALUES (:user_id, :operation, :input, :result, :err_code)`

const recentEntriesSQL = `
SELECT id, user_id, operation, input, result, err_code, created_at
FROM calculations
WHERE user_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2`

// Append inserts e.
func (s *PostgresStore) Append(ctx context.Context, e Entry) error {
	start := time.Now()
	if _, err := s.db.NamedExecContext(ctx, insertEntrySQL, e); err != nil {
		logger.Error(ctx, "calc.history", "history.append",
			slog.String("status", "fail"),
			slog.String("operation", e.Operation),
			slog.String("err", err.Error()),
			slog.Duration("duration", logger.Took(start)),
		)
		return fmt.Errorf("history append: %w", err)
	}
	logger.Debug(ctx, "calc.history", "history.append",
		slog.String("status", "ok"),
		slog.String("operation", e.Operation),
		slog.Duration("duration", logger.Took(start)),
	)
	return nil
}

// Recent returns up to limit entries for userID, newest first.
func (s *PostgresStore) Recent(ctx context.Context, userID int64, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}
	var out []Entry
	if err := s.db.SelectContext(ctx, &out, recentEntriesSQL, userID, limit); err != nil {
		return nil, fmt.Errorf("history recent: %w", err)
	}
	return out, nil
}

var _ Store = (*PostgresStore)(nil)
