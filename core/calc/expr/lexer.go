package expr

import (
	"fmt"
	"strconv"
	"strings"
)

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokOperator
	tokLParen
	tokRParen
	tokEOF
)

type token struct {
	kind tokenKind
	op   Operator
	num  float64
	pos  int
}

// allowed reports whether r belongs to the arithmetic alphabet.
func allowed(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case r == '.', r == ' ', r == '(', r == ')':
		return true
	case r == '+', r == '-', r == '*', r == '/':
		return true
	}
	return false
}

// checkAlphabet rejects the whole input on the first foreign rune.
func checkAlphabet(s string) error {
	for i, r := range s {
		if !allowed(r) {
			return fmt.Errorf("%w %q at position %d", ErrInvalidCharacter, r, i)
		}
	}
	return nil
}

// tokenize splits an already alphabet-checked input into tokens.
func tokenize(s string) ([]token, error) {
	toks := make([]token, 0, len(s)/2+1)
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == ' ':
			i++
		case c == '(':
			toks = append(toks, token{kind: tokLParen, pos: i})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen, pos: i})
			i++
		case c == '+' || c == '-' || c == '*' || c == '/':
			toks = append(toks, token{kind: tokOperator, op: Operator(c), pos: i})
			i++
		default:
			start := i
			dots := 0
			for i < len(s) && (isDigit(s[i]) || s[i] == '.') {
				if s[i] == '.' {
					dots++
				}
				i++
			}
			lit := s[start:i]
			if dots > 1 || strings.Trim(lit, ".") == "" {
				return nil, fmt.Errorf("%w: malformed number %q at position %d", ErrInvalidExpression, lit, start)
			}
			v, err := strconv.ParseFloat(lit, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: number %q at position %d", ErrOutOfRange, lit, start)
			}
			toks = append(toks, token{kind: tokNumber, num: v, pos: start})
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(s)}), nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
