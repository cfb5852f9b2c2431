package problemgen

import "fmt"

// Validator checks a generated question for correctness.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier for this validator (for error messages
	// and logging), e.g. "structural", "expression", "answer-check".
	Name() string

	// Validate checks the question and returns nil if it passes.
	// Returns a ValidationError if the question fails the check.
	Validate(q *Question, b Bounds) *ValidationError
}

// ValidationError describes why a question failed validation.
type ValidationError struct {
	Validator string // Name of the validator that failed
	Message   string // Human-readable description of the failure
	Retryable bool   // Whether regeneration is likely to fix this
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// StructuralValidator checks operand and operator counts and that every
// operator is known.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q *Question, _ Bounds) *ValidationError {
	if len(q.Operators) < 1 || len(q.Operators) > 3 {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("expected 1 to 3 operators, got %d", len(q.Operators)),
			Retryable: false,
		}
	}
	if len(q.Numbers) != len(q.Operators)+1 {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("%d numbers for %d operators", len(q.Numbers), len(q.Operators)),
			Retryable: false,
		}
	}
	for _, op := range q.Operators {
		if !op.Valid() {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("unknown operator %q", op),
				Retryable: false,
			}
		}
	}
	for _, n := range q.Numbers {
		if n < 0 {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("negative operand %d", n),
				Retryable: true,
			}
		}
	}
	return nil
}

// ExpressionValidator runs CheckExpression against the bounds.
type ExpressionValidator struct{}

func (v *ExpressionValidator) Name() string { return "expression" }

func (v *ExpressionValidator) Validate(q *Question, b Bounds) *ValidationError {
	return CheckExpression(q.Numbers, q.Operators, b.Min, b.Max)
}

// AnswerCheckValidator re-evaluates the expression and compares it against
// the stored answer.
type AnswerCheckValidator struct{}

func (v *AnswerCheckValidator) Name() string { return "answer-check" }

func (v *AnswerCheckValidator) Validate(q *Question, _ Bounds) *ValidationError {
	got, err := EvaluateInts(q.Numbers, q.Operators)
	if err != nil {
		return &ValidationError{
			Validator: v.Name(),
			Message:   err.Error(),
			Retryable: false,
		}
	}
	if got != float64(q.Answer) {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("computed %g, answer says %d", got, q.Answer),
			Retryable: false,
		}
	}
	return nil
}

// runValidators runs the chain in order and returns the first failure.
func runValidators(validators []Validator, q *Question, b Bounds) *ValidationError {
	for _, v := range validators {
		if verr := v.Validate(q, b); verr != nil {
			return verr
		}
	}
	return nil
}
