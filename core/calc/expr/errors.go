package expr

import "errors"

var (
	// ErrInvalidCharacter is returned when the input contains a rune outside the arithmetic alphabet.
	ErrInvalidCharacter = errors.New("invalid character")
	// ErrInvalidExpression is returned for empty or syntactically malformed input.
	ErrInvalidExpression = errors.New("invalid expression")
	// ErrDivisionByZero is returned when a divisor evaluates to zero.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrOutOfRange is returned when an intermediate or final value is not finite.
	ErrOutOfRange = errors.New("result out of range")
)
