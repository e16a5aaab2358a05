package dialogue

import (
	"errors"

	"github.com/m3rciful/calcbot/core/calc/expr"
)

var (
	// ErrWrongArity is returned when a binary operation does not receive exactly two operands.
	ErrWrongArity = errors.New("wrong number of operands")
	// ErrInvalidNumber is returned when an operand is not a plain decimal number.
	ErrInvalidNumber = errors.New("invalid number")
	// ErrUnknownOperation is returned for menu selections missing from the registry.
	ErrUnknownOperation = errors.New("unknown operation")
	// ErrInputTooLong is returned when the user input exceeds the configured length limit.
	ErrInputTooLong = errors.New("input too long")
	// ErrUnexpectedEvent is returned for events that make no sense in the current state.
	ErrUnexpectedEvent = errors.New("unexpected event for state")
)

// Message maps a dialogue or evaluator error to the text shown to the user.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, expr.ErrInvalidCharacter):
		return "Invalid character in expression. Only digits, '.', + - * / ( ) and spaces are allowed."
	case errors.Is(err, expr.ErrDivisionByZero):
		return "Division by zero is not allowed."
	case errors.Is(err, expr.ErrOutOfRange):
		return "A number or the result is out of range."
	case errors.Is(err, expr.ErrInvalidExpression):
		return "Invalid expression. Check the operators and parentheses and try again."
	case errors.Is(err, ErrInputTooLong):
		return "Input is too long. Send a shorter expression."
	case errors.Is(err, ErrWrongArity):
		return "Please send exactly TWO numbers separated by a space, e.g. 5 12."
	case errors.Is(err, ErrInvalidNumber):
		return "Invalid input. Make sure you entered valid numbers."
	case errors.Is(err, ErrUnknownOperation):
		return "Unknown operation. Use /start to open the menu."
	case errors.Is(err, ErrUnexpectedEvent):
		return "I didn't understand that. Use /start to choose an operation."
	default:
		return "Something went wrong. Use /start to try again."
	}
}

// Code returns a stable upper-case identifier for err, used as err_code in logs.
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, expr.ErrInvalidCharacter):
		return "INVALID_CHARACTER"
	case errors.Is(err, expr.ErrDivisionByZero):
		return "DIVISION_BY_ZERO"
	case errors.Is(err, expr.ErrOutOfRange):
		return "OUT_OF_RANGE"
	case errors.Is(err, expr.ErrInvalidExpression):
		return "INVALID_EXPRESSION"
	case errors.Is(err, ErrInputTooLong):
		return "INPUT_TOO_LONG"
	case errors.Is(err, ErrWrongArity):
		return "WRONG_ARITY"
	case errors.Is(err, ErrInvalidNumber):
		return "INVALID_NUMBER"
	case errors.Is(err, ErrUnknownOperation):
		return "UNKNOWN_OPERATION"
	case errors.Is(err, ErrUnexpectedEvent):
		return "UNEXPECTED_EVENT"
	default:
		return "UNKNOWN_ERROR"
	}
}
