package problemgen

import (
	"fmt"
	"math"
)

// ValidAddition reports whether a + b stays within max.
func ValidAddition(a, b, max int) bool {
	return a+b <= max
}

// ValidSubtraction reports whether a - b is non-negative.
func ValidSubtraction(a, b int) bool {
	return a >= b
}

// ValidMultiplication reports whether a × b stays within max.
func ValidMultiplication(a, b, max int) bool {
	return a*b <= max
}

// ValidDivision reports whether a ÷ b is an exact integer division.
func ValidDivision(a, b int) bool {
	return b != 0 && a%b == 0
}

// ValidateExpression is the final gate every generated question passes.
func ValidateExpression(numbers []int, ops []OperationType, min, max int) bool {
	return CheckExpression(numbers, ops, min, max) == nil
}

// CheckExpression reports why an expression fails the final gate, or nil.
//
// The expression must reduce with precedence so that every multiply and
// divide step starts from an integer, every divide is exact, the running
// total never goes negative, and the result is an integer in [min, max].
// A leading zero dividend is rejected outright.
func CheckExpression(numbers []int, ops []OperationType, min, max int) *ValidationError {
	reject := func(format string, args ...any) *ValidationError {
		return &ValidationError{
			Validator: "expression",
			Message:   fmt.Sprintf(format, args...),
			Retryable: true,
		}
	}

	if len(ops) == 0 || len(numbers) != len(ops)+1 {
		return reject("%d numbers for %d operators", len(numbers), len(ops))
	}
	if ops[0] == OpDivide && numbers[0] == 0 {
		return reject("leading dividend is zero")
	}

	vals := make([]float64, len(numbers))
	for i, n := range numbers {
		vals[i] = float64(n)
	}
	rest := make([]OperationType, len(ops))
	copy(rest, ops)

	for i := 0; i < len(rest); {
		op := rest[i]
		if !op.Valid() {
			return reject("unknown operator %q", op)
		}
		if !op.binds() {
			i++
			continue
		}
		if !isInteger(vals[i]) {
			return reject("non-integer operand %g before %s", vals[i], op.Symbol())
		}
		if op == OpMultiply {
			vals[i] *= vals[i+1]
		} else {
			if vals[i+1] == 0 {
				return reject("division by zero")
			}
			if math.Mod(vals[i], vals[i+1]) != 0 {
				return reject("%g is not divisible by %g", vals[i], vals[i+1])
			}
			vals[i] /= vals[i+1]
		}
		vals = append(vals[:i+1], vals[i+2:]...)
		rest = append(rest[:i], rest[i+1:]...)
	}

	result := vals[0]
	for i, op := range rest {
		if op == OpAdd {
			result += vals[i+1]
		} else {
			result -= vals[i+1]
		}
		if result < 0 {
			return reject("running total goes negative")
		}
	}

	if !isInteger(result) {
		return reject("result %g is not an integer", result)
	}
	if result < float64(min) || result > float64(max) {
		return reject("result %g outside [%d, %d]", result, min, max)
	}
	return nil
}

func isInteger(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f) && f == math.Trunc(f)
}
