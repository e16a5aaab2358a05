// Package expr evaluates restricted arithmetic expressions over + - * / and
// parentheses. Input is tokenized and parsed by a recursive-descent parser;
// nothing is ever handed to a general purpose interpreter.
package expr

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Operator is one of the four binary arithmetic operators.
type Operator byte

const (
	OpAdd      Operator = '+'
	OpSubtract Operator = '-'
	OpMultiply Operator = '*'
	OpDivide   Operator = '/'
)

// String returns the operator glyph.
func (o Operator) String() string { return string(o) }

const (
	// MaxDepth bounds parenthesis and unary-sign nesting.
	MaxDepth = 64
	// MaxLength bounds the accepted input size in bytes.
	MaxLength = 1024
)

// Evaluate parses and computes s.
func Evaluate(s string) (float64, error) {
	if err := checkAlphabet(s); err != nil {
		return 0, err
	}
	if strings.TrimSpace(s) == "" {
		return 0, fmt.Errorf("%w: empty input", ErrInvalidExpression)
	}
	if len(s) > MaxLength {
		return 0, fmt.Errorf("%w: input longer than %d characters", ErrInvalidExpression, MaxLength)
	}
	toks, err := tokenize(s)
	if err != nil {
		return 0, err
	}
	p := &parser{toks: toks}
	v, err := p.expression(0)
	if err != nil {
		return 0, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return 0, p.unexpected(t)
	}
	return v, nil
}

// ApplyBinary computes a op b.
func ApplyBinary(op Operator, a, b float64) (float64, error) {
	var v float64
	switch op {
	case OpAdd:
		v = a + b
	case OpSubtract:
		v = a - b
	case OpMultiply:
		v = a * b
	case OpDivide:
		if b == 0 {
			return 0, ErrDivisionByZero
		}
		v = a / b
	default:
		return 0, fmt.Errorf("%w: unknown operator %q", ErrInvalidExpression, byte(op))
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, ErrOutOfRange
	}
	return v, nil
}

// FormatNumber renders v in the shortest decimal form, falling back to
// exponent notation for very large or very small magnitudes.
func FormatNumber(v float64) string {
	if v == 0 {
		return "0"
	}
	abs := math.Abs(v)
	if abs >= 1e15 || abs < 1e-6 {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) unexpected(t token) error {
	switch t.kind {
	case tokEOF:
		return fmt.Errorf("%w: unexpected end of input", ErrInvalidExpression)
	case tokRParen:
		return fmt.Errorf("%w: unbalanced ')' at position %d", ErrInvalidExpression, t.pos)
	case tokLParen:
		return fmt.Errorf("%w: unexpected '(' at position %d", ErrInvalidExpression, t.pos)
	case tokOperator:
		return fmt.Errorf("%w: misplaced operator %q at position %d", ErrInvalidExpression, byte(t.op), t.pos)
	default:
		return fmt.Errorf("%w: unexpected number at position %d", ErrInvalidExpression, t.pos)
	}
}

// expression := term (('+' | '-') term)*
func (p *parser) expression(depth int) (float64, error) {
	left, err := p.term(depth)
	if err != nil {
		return 0, err
	}
	for {
		t := p.peek()
		if t.kind != tokOperator || (t.op != OpAdd && t.op != OpSubtract) {
			return left, nil
		}
		p.next()
		right, err := p.term(depth)
		if err != nil {
			return 0, err
		}
		if left, err = ApplyBinary(t.op, left, right); err != nil {
			return 0, err
		}
	}
}

// term := factor (('*' | '/') factor)*
func (p *parser) term(depth int) (float64, error) {
	left, err := p.factor(depth)
	if err != nil {
		return 0, err
	}
	for {
		t := p.peek()
		if t.kind != tokOperator || (t.op != OpMultiply && t.op != OpDivide) {
			return left, nil
		}
		p.next()
		right, err := p.factor(depth)
		if err != nil {
			return 0, err
		}
		if left, err = ApplyBinary(t.op, left, right); err != nil {
			return 0, err
		}
	}
}

// factor := ('+' | '-') factor | number | '(' expression ')'
func (p *parser) factor(depth int) (float64, error) {
	if depth > MaxDepth {
		return 0, fmt.Errorf("%w: nesting deeper than %d", ErrInvalidExpression, MaxDepth)
	}
	t := p.next()
	switch t.kind {
	case tokNumber:
		return t.num, nil
	case tokOperator:
		if t.op != OpAdd && t.op != OpSubtract {
			return 0, p.unexpected(t)
		}
		v, err := p.factor(depth + 1)
		if err != nil {
			return 0, err
		}
		if t.op == OpSubtract {
			v = -v
		}
		return v, nil
	case tokLParen:
		v, err := p.expression(depth + 1)
		if err != nil {
			return 0, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			if closing.kind == tokEOF {
				return 0, fmt.Errorf("%w: unbalanced '(' at position %d", ErrInvalidExpression, t.pos)
			}
			return 0, p.unexpected(closing)
		}
		return v, nil
	default:
		return 0, p.unexpected(t)
	}
}
