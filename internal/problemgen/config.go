package problemgen

import "go.uber.org/zap"

// Config controls the behavior of the Generator.
type Config struct {
	// Validators is the ordered list of validators to run on every
	// generated question. They execute in order; the first failure
	// stops the pipeline. The expression gate always runs, whether or
	// not it is listed here.
	Validators []Validator

	// MaxAttempts bounds the retries for a single question of a fixed
	// shape before the generator gives up.
	MaxAttempts int

	// MaxSlotAttempts bounds how many shapes the batch orchestrator tries
	// for one slot before leaving it empty.
	MaxSlotAttempts int

	// Logger receives debug output about exhausted slots.
	Logger *zap.Logger
}

// DefaultConfig returns a Config with the standard validator chain
// and recommended defaults.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&ExpressionValidator{},
			&AnswerCheckValidator{},
		},
		MaxAttempts:     50,
		MaxSlotAttempts: 100,
		Logger:          zap.NewNop(),
	}
}
