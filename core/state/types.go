package state

import "context"

// State identifies a finite-state-machine step used in conversations.
type State string

const (
	// StateIdle indicates there is no active conversation with the user.
	StateIdle State = "idle"
	// StateAwaitingInput indicates an operation was chosen and its input is expected.
	StateAwaitingInput State = "awaiting_input"
)

// Session is either idle or awaiting input for exactly one pending operation.
// The zero value is idle.
type Session struct {
	pending string
}

// Idle returns the resting session.
func Idle() Session { return Session{} }

// AwaitingInput returns a session waiting for the operands of op.
// An empty op yields an idle session.
func AwaitingInput(op string) Session { return Session{pending: op} }

// State reports the FSM state derived from the pending operation.
func (s Session) State() State {
	if s.pending == "" {
		return StateIdle
	}
	return StateAwaitingInput
}

// PendingOperation returns the operation awaiting input, if any.
func (s Session) PendingOperation() (string, bool) {
	return s.pending, s.pending != ""
}

// Manager stores sessions and serializes work per user.
type Manager interface {
	// Get returns the user's session, or an idle one when none exists.
	Get(userID int64) Session
	Set(userID int64, s Session)
	// Reset is equivalent to Set(userID, Idle()).
	Reset(userID int64)
	// WithLock runs fn while holding the user's exclusive lock.
	WithLock(ctx context.Context, userID int64, fn func(ctx context.Context) error) error
	// Len reports the number of stored sessions.
	Len() int
}
