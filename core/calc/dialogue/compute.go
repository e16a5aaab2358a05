package dialogue

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/m3rciful/calcbot/core/calc/expr"
	"github.com/m3rciful/calcbot/core/calc/ops"
)

// operandRe accepts plain signed decimals only; strconv alone would also take inf, nan and hex floats.
var operandRe = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)$`)

// Calculation is the outcome of one calculation attempt.
type Calculation struct {
	UserID      int64
	OperationID string
	Input       string
	Text        string
	Value       float64
	Err         error
}

// Compute runs op against the raw user input. It never touches session state.
func Compute(op ops.Operation, input string) (float64, string, error) {
	switch op.Arity {
	case ops.ArityBinary:
		a, b, err := ParseOperands(input)
		if err != nil {
			return 0, "", err
		}
		v, err := expr.ApplyBinary(op.Symbol, a, b)
		if err != nil {
			return 0, "", err
		}
		return v, fmt.Sprintf("%s %s %s = %s",
			expr.FormatNumber(a), op.Symbol, expr.FormatNumber(b), expr.FormatNumber(v)), nil
	case ops.ArityExpression:
		v, err := expr.Evaluate(input)
		if err != nil {
			return 0, "", err
		}
		return v, fmt.Sprintf("%s = %s", strings.Join(strings.Fields(input), " "), expr.FormatNumber(v)), nil
	default:
		return 0, "", fmt.Errorf("%w: %q is not computable", ErrUnknownOperation, op.ID)
	}
}

// ParseOperands splits input into exactly two finite decimal numbers.
func ParseOperands(input string) (float64, float64, error) {
	fields := strings.Fields(input)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("%w: got %d", ErrWrongArity, len(fields))
	}
	var out [2]float64
	for i, f := range fields {
		if !operandRe.MatchString(f) {
			return 0, 0, fmt.Errorf("%w: %q", ErrInvalidNumber, f)
		}
		// the syntax is already checked, so ParseFloat only fails on range
		v, err := strconv.ParseFloat(f, 64)
		if err != nil || math.IsInf(v, 0) {
			return 0, 0, fmt.Errorf("%w: number %q", expr.ErrOutOfRange, f)
		}
		out[i] = v
	}
	return out[0], out[1], nil
}
