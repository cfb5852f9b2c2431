package problemgen

import (
	"errors"
	"fmt"
	"slices"
)

// ErrInvalidExpression is returned when numbers and operators do not form a
// well-shaped expression.
var ErrInvalidExpression = errors.New("invalid expression")

// Evaluate computes an expression with standard precedence: multiplication
// and division bind tighter than addition and subtraction, and operators of
// equal precedence apply left to right. Division by zero is not guarded and
// yields ±Inf or NaN.
func Evaluate(numbers []float64, ops []OperationType) (float64, error) {
	if len(numbers) == 0 || len(ops) == 0 {
		return 0, fmt.Errorf("%w: empty numbers or operators", ErrInvalidExpression)
	}
	if len(numbers) != len(ops)+1 {
		return 0, fmt.Errorf("%w: %d numbers for %d operators", ErrInvalidExpression, len(numbers), len(ops))
	}

	nums := slices.Clone(numbers)
	rest := slices.Clone(ops)

	// First pass: collapse multiply/divide in place without advancing, so
	// chains like a*b/c reduce left to right.
	for i := 0; i < len(rest); {
		switch rest[i] {
		case OpMultiply:
			nums[i] *= nums[i+1]
		case OpDivide:
			nums[i] /= nums[i+1]
		case OpAdd, OpSubtract:
			i++
			continue
		default:
			return 0, fmt.Errorf("%w: unknown operator %q", ErrInvalidExpression, rest[i])
		}
		nums = slices.Delete(nums, i+1, i+2)
		rest = slices.Delete(rest, i, i+1)
	}

	result := nums[0]
	for i, op := range rest {
		if op == OpAdd {
			result += nums[i+1]
		} else {
			result -= nums[i+1]
		}
	}
	return result, nil
}

// EvaluateInts is Evaluate for integer operands.
func EvaluateInts(numbers []int, ops []OperationType) (float64, error) {
	fs := make([]float64, len(numbers))
	for i, n := range numbers {
		fs[i] = float64(n)
	}
	return Evaluate(fs, ops)
}
