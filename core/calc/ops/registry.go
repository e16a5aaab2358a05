// Package ops declares the calculator operations offered in the menu.
package ops

import "github.com/m3rciful/calcbot/core/calc/expr"

// Arity describes what input an operation expects.
type Arity int

const (
	// ArityControl marks menu entries that do not compute anything.
	ArityControl Arity = iota
	// ArityBinary expects exactly two numeric operands.
	ArityBinary
	// ArityExpression expects one free-form arithmetic expression.
	ArityExpression
)

// String returns a stable name used in logs.
func (a Arity) String() string {
	switch a {
	case ArityBinary:
		return "binary"
	case ArityExpression:
		return "expression"
	default:
		return "control"
	}
}

// Operation identifiers.
const (
	Add        = "add"
	Subtract   = "subtract"
	Multiply   = "multiply"
	Divide     = "divide"
	Expression = "expression"
	Cancel     = "cancel"
)

// Operation is an immutable menu entry.
type Operation struct {
	ID     string
	Arity  Arity
	Symbol expr.Operator
	Label  string
	Hint   string
}

// Computable reports whether selecting the operation leads to an input prompt.
func (o Operation) Computable() bool {
	return o.Arity != ArityControl
}

// Registry maps operation identifiers to operations. It is read-only after construction.
type Registry struct {
	byID  map[string]Operation
	order []string
}

// New builds a registry; later duplicates of an id are ignored.
func New(list ...Operation) *Registry {
	r := &Registry{byID: make(map[string]Operation, len(list))}
	for _, op := range list {
		if op.ID == "" {
			continue
		}
		if _, exists := r.byID[op.ID]; exists {
			continue
		}
		r.byID[op.ID] = op
		r.order = append(r.order, op.ID)
	}
	return r
}

// Default returns the standard calculator menu.
func Default() *Registry {
	return New(
		Operation{ID: Add, Arity: ArityBinary, Symbol: expr.OpAdd, Label: "➕ Add",
			Hint: "Send two numbers separated by a space, e.g. 10 5."},
		Operation{ID: Subtract, Arity: ArityBinary, Symbol: expr.OpSubtract, Label: "➖ Subtract",
			Hint: "Send two numbers separated by a space, e.g. 10 5."},
		Operation{ID: Multiply, Arity: ArityBinary, Symbol: expr.OpMultiply, Label: "✖️ Multiply",
			Hint: "Send two numbers separated by a space, e.g. 5 12."},
		Operation{ID: Divide, Arity: ArityBinary, Symbol: expr.OpDivide, Label: "➗ Divide",
			Hint: "Send two numbers separated by a space, e.g. 10 4."},
		Operation{ID: Expression, Arity: ArityExpression, Label: "🧮 Expression",
			Hint: "Send an expression using + - * / and parentheses, e.g. (100 + 50) / 2."},
		Operation{ID: Cancel, Arity: ArityControl, Label: "❌ Cancel"},
	)
}

// Lookup returns the operation registered under id.
func (r *Registry) Lookup(id string) (Operation, bool) {
	if r == nil {
		return Operation{}, false
	}
	op, ok := r.byID[id]
	return op, ok
}

// Menu lists operations in registration order.
func (r *Registry) Menu() []Operation {
	if r == nil {
		return nil
	}
	out := make([]Operation, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}
