package dialogue

import (
	"fmt"
	"unicode/utf8"

	"github.com/m3rciful/calcbot/core/calc/ops"
	"github.com/m3rciful/calcbot/core/state"
)

// Step is the result of applying one event to a session.
type Step struct {
	Next    state.Session
	Actions []Action
	// Calculation is set when the event was a calculation attempt.
	Calculation *Calculation
}

// Transition computes the next session and the actions for ev. It is pure.
func Transition(reg *ops.Registry, sess state.Session, ev Event) Step {
	return transition(reg, sess, ev, 0)
}

// transition is Transition with an input length limit in runes; zero disables it.
func transition(reg *ops.Registry, sess state.Session, ev Event, maxInput int) Step {
	if ev == nil {
		return Step{Next: sess, Actions: []Action{ShowError{
			Text: Message(ErrUnexpectedEvent),
			Err:  fmt.Errorf("%w: nil event", ErrUnexpectedEvent),
		}}}
	}
	uid := ev.User()

	if u, ok := ev.(Unrecognized); ok {
		return Step{Next: sess, Actions: []Action{failure(uid, fmt.Errorf("%w: %s", ErrUnexpectedEvent, u.Reason))}}
	}

	pending, awaiting := sess.PendingOperation()
	if !awaiting {
		return fromIdle(reg, sess, ev)
	}

	switch e := ev.(type) {
	case CancelCommand:
		return Step{Next: state.Idle(), Actions: []Action{ShowCancelled{UserID: uid}}}
	case MenuSelection, StartCommand:
		// stray or duplicated button press: keep waiting for the same input
		return Step{Next: sess, Actions: []Action{PromptForInput{UserID: uid, OperationID: pending}}}
	case TextInput:
		calc := &Calculation{UserID: uid, OperationID: pending, Input: e.Text}
		calc.Value, calc.Text, calc.Err = computeLimited(reg, pending, e.Text, maxInput)
		step := Step{Next: state.Idle(), Calculation: calc}
		if calc.Err != nil {
			step.Actions = []Action{failure(uid, calc.Err)}
		} else {
			step.Actions = []Action{ShowResult{UserID: uid, Text: calc.Text, Value: calc.Value}}
		}
		return step
	default:
		return Step{Next: sess, Actions: []Action{failure(uid, fmt.Errorf("%w: %T", ErrUnexpectedEvent, ev))}}
	}
}

func fromIdle(reg *ops.Registry, sess state.Session, ev Event) Step {
	uid := ev.User()
	switch e := ev.(type) {
	case StartCommand:
		return Step{Next: sess, Actions: []Action{ShowMenu{UserID: uid}}}
	case CancelCommand:
		return Step{Next: sess, Actions: []Action{ShowCancelled{UserID: uid}}}
	case MenuSelection:
		op, ok := reg.Lookup(e.OperationID)
		if !ok {
			return Step{Next: sess, Actions: []Action{failure(uid, fmt.Errorf("%w: %q", ErrUnknownOperation, e.OperationID))}}
		}
		if !op.Computable() {
			return Step{Next: sess, Actions: []Action{ShowCancelled{UserID: uid}}}
		}
		return Step{
			Next:    state.AwaitingInput(op.ID),
			Actions: []Action{PromptForInput{UserID: uid, OperationID: op.ID}},
		}
	case TextInput:
		return Step{Next: sess, Actions: []Action{failure(uid, fmt.Errorf("%w: text while idle", ErrUnexpectedEvent))}}
	default:
		return Step{Next: sess, Actions: []Action{failure(uid, fmt.Errorf("%w: %T", ErrUnexpectedEvent, ev))}}
	}
}

// computeLimited looks up opID and computes input, rejecting input over maxInput runes.
func computeLimited(reg *ops.Registry, opID, input string, maxInput int) (float64, string, error) {
	op, ok := reg.Lookup(opID)
	if !ok || !op.Computable() {
		return 0, "", fmt.Errorf("%w: %q", ErrUnknownOperation, opID)
	}
	if n := utf8.RuneCountInString(input); maxInput > 0 && n > maxInput {
		return 0, "", fmt.Errorf("%w: %d characters, limit %d", ErrInputTooLong, n, maxInput)
	}
	return Compute(op, input)
}

func failure(uid int64, err error) ShowError {
	return ShowError{UserID: uid, Text: Message(err), Err: err}
}
