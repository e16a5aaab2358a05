// Package dialogue drives the calculator conversation: it validates each
// inbound event against the user's session, computes results and returns the
// outbound actions for the transport to render.
package dialogue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/m3rciful/calcbot/core/calc/expr"
	"github.com/m3rciful/calcbot/core/calc/ops"
	"github.com/m3rciful/calcbot/core/history"
	"github.com/m3rciful/calcbot/core/logger"
	"github.com/m3rciful/calcbot/core/state"
)

const component = "calc.dialogue"

// Emitter delivers outbound actions. Delivery errors never affect session state.
type Emitter interface {
	Emit(ctx context.Context, a Action) error
}

// EmitterFunc adapts a function to Emitter.
type EmitterFunc func(ctx context.Context, a Action) error

// Emit calls f.
func (f EmitterFunc) Emit(ctx context.Context, a Action) error { return f(ctx, a) }

// Machine is the dialogue orchestrator.
type Machine struct {
	sessions state.Manager
	ops      *ops.Registry
	history  history.Store
	maxInput int
}

// Option configures a Machine.
type Option func(*Machine)

// WithHistory records every calculation attempt in s.
func WithHistory(s history.Store) Option {
	return func(m *Machine) {
		m.history = s
	}
}

// WithMaxInputLength rejects text input longer than n runes with ErrInputTooLong.
// Zero or negative n disables the limit.
func WithMaxInputLength(n int) Option {
	return func(m *Machine) {
		m.maxInput = max(n, 0)
	}
}

// NewMachine wires the machine to its session store and operation registry.
func NewMachine(sessions state.Manager, reg *ops.Registry, opts ...Option) *Machine {
	if sessions == nil {
		sessions = state.NewMemoryManager()
	}
	if reg == nil {
		reg = ops.Default()
	}
	m := &Machine{sessions: sessions, ops: reg}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Registry exposes the operation registry used by the machine.
func (m *Machine) Registry() *ops.Registry { return m.ops }

// Sessions exposes the session store used by the machine.
func (m *Machine) Sessions() state.Manager { return m.sessions }

// Handle processes ev to completion under the user's lock and returns the actions to render.
func (m *Machine) Handle(ctx context.Context, ev Event) []Action {
	if ctx == nil {
		ctx = context.Background()
	}
	if ev == nil {
		return Transition(m.ops, state.Idle(), nil).Actions
	}

	var step Step
	start := time.Now()
	err := m.sessions.WithLock(ctx, ev.User(), func(ctx context.Context) error {
		current := m.sessions.Get(ev.User())
		step = transition(m.ops, current, ev, m.maxInput)
		m.sessions.Set(ev.User(), step.Next)
		m.logTransition(ctx, ev, current, step, start)
		return nil
	})
	if err != nil {
		logger.Warn(ctx, component, "dialogue.lock",
			slog.String("status", "fail"),
			slog.Int64("user_id", ev.User()),
			slog.String("err", err.Error()),
		)
		return []Action{failure(ev.User(), fmt.Errorf("%w: %v", ErrUnexpectedEvent, err))}
	}

	if step.Calculation != nil {
		m.record(ctx, step.Calculation)
	}
	return step.Actions
}

// OnEvent handles ev and emits each resulting action in order.
func (m *Machine) OnEvent(ctx context.Context, ev Event, out Emitter) {
	actions := m.Handle(ctx, ev)
	if out == nil {
		return
	}
	for _, a := range actions {
		if err := out.Emit(ctx, a); err != nil {
			logger.Warn(ctx, component, "dialogue.emit",
				slog.String("status", "fail"),
				slog.String("action", fmt.Sprintf("%T", a)),
				slog.Int64("user_id", a.Recipient()),
				slog.String("err", err.Error()),
			)
		}
	}
}

// Evaluate runs a one-shot calculation for userID and records it. The session is left untouched.
func (m *Machine) Evaluate(ctx context.Context, userID int64, opID, input string) Calculation {
	if ctx == nil {
		ctx = context.Background()
	}
	c := Calculation{UserID: userID, OperationID: opID, Input: input}
	c.Value, c.Text, c.Err = computeLimited(m.ops, opID, input, m.maxInput)
	if errors.Is(c.Err, ErrUnknownOperation) {
		return c
	}
	m.record(ctx, &c)
	return c
}

func (m *Machine) record(ctx context.Context, c *Calculation) {
	if m.history == nil {
		return
	}
	e := history.Entry{
		UserID:    c.UserID,
		Operation: c.OperationID,
		Input:     logger.SanitizeLimit(c.Input, 512),
		ErrCode:   Code(c.Err),
	}
	if c.Err == nil {
		e.Result = expr.FormatNumber(c.Value)
	}
	if err := m.history.Append(ctx, e); err != nil {
		logger.Warn(ctx, component, "history.record",
			slog.String("status", "fail"),
			slog.Int64("user_id", c.UserID),
			slog.String("err", err.Error()),
		)
	}
}

func (m *Machine) logTransition(ctx context.Context, ev Event, from state.Session, step Step, start time.Time) {
	attrs := []slog.Attr{
		slog.String("status", "ok"),
		slog.Int64("user_id", ev.User()),
		slog.String("kind", eventName(ev)),
		slog.String("from", string(from.State())),
		slog.String("to", string(step.Next.State())),
		slog.Int("actions", len(step.Actions)),
		slog.Duration("duration", logger.Took(start)),
	}
	if op, ok := step.Next.PendingOperation(); ok {
		attrs = append(attrs, slog.String("op", op))
	}
	if c := step.Calculation; c != nil {
		attrs = append(attrs, slog.String("operation", c.OperationID))
		if c.Err != nil {
			attrs = append(attrs,
				slog.String("outcome", "fail"),
				slog.String("err_code", Code(c.Err)),
			)
		} else {
			attrs = append(attrs, slog.String("outcome", "ok"))
		}
	}
	for _, a := range step.Actions {
		if e, ok := a.(ShowError); ok && step.Calculation == nil {
			attrs = append(attrs, slog.String("err_code", Code(e.Err)))
		}
	}
	logger.LogEvent(ctx, logger.Component(component), slog.LevelDebug, "dialogue.transition", attrs...)
}
