package problemgen

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrExhausted is returned when no candidate passed validation within the
// attempt budget. It is an expected outcome for narrow or impossible ranges.
var ErrExhausted = errors.New("generation attempts exhausted")

const (
	// chainDivisorMax bounds the divisors of an all-divide chain.
	chainDivisorMax = 10
	// chainFactorMax bounds the factors of an all-multiply chain.
	chainFactorMax = 10
	// termDivisorMax bounds divisors picked for a running product in
	// mixed chains.
	termDivisorMax = 100
)

// Generator produces arithmetic questions by rejection sampling.
type Generator struct {
	rng    *rand.Rand
	config Config
}

// New creates a Generator. A nil rng is replaced with a time-seeded PCG
// source. The expression validator is appended to the chain when the
// config does not already include it.
func New(rng *rand.Rand, cfg Config) *Generator {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	defaults := DefaultConfig()
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaults.MaxAttempts
	}
	if cfg.MaxSlotAttempts <= 0 {
		cfg.MaxSlotAttempts = defaults.MaxSlotAttempts
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	hasGate := slices.ContainsFunc(cfg.Validators, func(v Validator) bool {
		_, ok := v.(*ExpressionValidator)
		return ok
	})
	if !hasGate {
		cfg.Validators = append(slices.Clone(cfg.Validators), &ExpressionValidator{})
	}
	return &Generator{rng: rng, config: cfg}
}

// RandomInt returns a uniform integer in [min, max]. An empty range yields min.
func (g *Generator) RandomInt(min, max int) int {
	if max <= min {
		return min
	}
	return min + g.rng.IntN(max-min+1)
}

// DivisiblePair returns a dividend and divisor such that the dividend is a
// non-zero multiple of the divisor and at most max. It reports false when
// no pair could be drawn, e.g. when max < 2.
func (g *Generator) DivisiblePair(min, max int) (dividend, divisor int, ok bool) {
	if max < 2 {
		return 0, 0, false
	}
	for range g.config.MaxAttempts {
		divisor = g.RandomInt(2, max)
		maxQuotient := max / divisor
		quotient := g.RandomInt(maxInt(min/divisor, 1), maxQuotient)
		dividend = divisor * quotient
		if dividend < divisor || dividend == 0 || dividend > max {
			continue
		}
		return dividend, divisor, true
	}
	return 0, 0, false
}

// Binary generates a two-operand question.
func (g *Generator) Binary(op OperationType, min, max int) (*Question, error) {
	if !op.Valid() {
		return nil, fmt.Errorf("%w: unknown operator %q", ErrInvalidExpression, op)
	}
	ops := []OperationType{op}

	for range g.config.MaxAttempts {
		var a, b int
		switch op {
		case OpDivide:
			var ok bool
			a, b, ok = g.DivisiblePair(min, max)
			if !ok {
				continue
			}
		case OpMultiply:
			lo := maxInt(min, 1)
			a, b = g.RandomInt(lo, max), g.RandomInt(lo, max)
			if !ValidMultiplication(a, b, max) {
				continue
			}
		case OpAdd:
			a, b = g.RandomInt(min, max), g.RandomInt(min, max)
			if !ValidAddition(a, b, max) {
				continue
			}
		case OpSubtract:
			a, b = g.RandomInt(min, max), g.RandomInt(min, max)
			if !ValidSubtraction(a, b) {
				continue
			}
		}
		if q := g.accept([]int{a, b}, ops, min, max); q != nil {
			return q, nil
		}
	}
	return nil, fmt.Errorf("binary %s in [%d, %d]: %w", op, min, max, ErrExhausted)
}

// Ternary generates a three-operand question for exactly two operators.
func (g *Generator) Ternary(ops []OperationType, min, max int) (*Question, error) {
	if len(ops) != 2 {
		return nil, fmt.Errorf("%w: ternary needs 2 operators, got %d", ErrInvalidExpression, len(ops))
	}
	return g.chain(ops, min, max)
}

// Quaternary generates a four-operand question for exactly three operators.
func (g *Generator) Quaternary(ops []OperationType, min, max int) (*Question, error) {
	if len(ops) != 3 {
		return nil, fmt.Errorf("%w: quaternary needs 3 operators, got %d", ErrInvalidExpression, len(ops))
	}
	return g.chain(ops, min, max)
}

// Generate dispatches on the number of operators.
func (g *Generator) Generate(ops []OperationType, min, max int) (*Question, error) {
	switch len(ops) {
	case 1:
		return g.Binary(ops[0], min, max)
	case 2:
		return g.Ternary(ops, min, max)
	case 3:
		return g.Quaternary(ops, min, max)
	}
	return nil, fmt.Errorf("%w: %d operators", ErrInvalidExpression, len(ops))
}

func (g *Generator) chain(ops []OperationType, min, max int) (*Question, error) {
	for _, op := range ops {
		if !op.Valid() {
			return nil, fmt.Errorf("%w: unknown operator %q", ErrInvalidExpression, op)
		}
	}

	var draw func() ([]int, bool)
	switch {
	case allOf(ops, OpDivide):
		draw = func() ([]int, bool) { return g.divideChain(len(ops), min, max) }
	case allOf(ops, OpMultiply):
		draw = func() ([]int, bool) { return g.multiplyChain(len(ops), min, max) }
	case slices.Contains(ops, OpDivide):
		draw = func() ([]int, bool) { return g.mixedWithDivide(ops, min, max) }
	default:
		draw = func() ([]int, bool) { return g.randomFill(ops, min, max), true }
	}

	for range g.config.MaxAttempts {
		numbers, ok := draw()
		if !ok {
			continue
		}
		if q := g.accept(numbers, ops, min, max); q != nil {
			return q, nil
		}
	}
	return nil, fmt.Errorf("chain %v in [%d, %d]: %w", ops, min, max, ErrExhausted)
}

// divideChain builds a ÷ b ÷ c [÷ d] backwards from the result.
func (g *Generator) divideChain(n, min, max int) ([]int, bool) {
	numbers := make([]int, n+1)
	numbers[0] = g.RandomInt(min, max)
	for i := 1; i <= n; i++ {
		numbers[i] = g.RandomInt(1, chainDivisorMax)
		numbers[0] *= numbers[i]
	}
	if numbers[0] == 0 {
		return nil, false
	}
	return numbers, true
}

// multiplyChain builds a × b × c [× d] forwards, keeping the running product
// within max.
func (g *Generator) multiplyChain(n, min, max int) ([]int, bool) {
	lo, hi := maxInt(min, 1), minInt(max, chainFactorMax)
	if hi < lo {
		hi = lo
	}
	numbers := make([]int, 0, n+1)
	product := g.RandomInt(lo, hi)
	numbers = append(numbers, product)
	for range n {
		allowed := max / product
		if allowed < 2 {
			return nil, false
		}
		f := g.RandomInt(2, minInt(allowed, chainFactorMax))
		numbers = append(numbers, f)
		product *= f
	}
	return numbers, true
}

// mixedWithDivide fills random operands and then places a divisible pair
// wherever a divide starts a new term. A divide that continues a term gets
// a divisor of the running term instead.
func (g *Generator) mixedWithDivide(ops []OperationType, min, max int) ([]int, bool) {
	numbers := g.randomFill(ops, min, max)
	term := numbers[0]
	for i, op := range ops {
		startsTerm := i == 0 || !ops[i-1].binds()
		switch op {
		case OpDivide:
			if startsTerm {
				a, b, ok := g.DivisiblePair(min, max)
				if !ok {
					return nil, false
				}
				numbers[i], numbers[i+1] = a, b
				term = a / b
				continue
			}
			d, ok := g.divisorOf(term)
			if !ok {
				return nil, false
			}
			numbers[i+1] = d
			term /= d
		case OpMultiply:
			term *= numbers[i+1]
		default:
			term = numbers[i+1]
		}
	}
	return numbers, true
}

func (g *Generator) randomFill(ops []OperationType, min, max int) []int {
	lo := min
	if slices.Contains(ops, OpMultiply) {
		lo = maxInt(min, 1)
	}
	numbers := make([]int, len(ops)+1)
	for i := range numbers {
		numbers[i] = g.RandomInt(lo, max)
	}
	return numbers
}

// divisorOf picks a random divisor of n in [2, termDivisorMax].
func (g *Generator) divisorOf(n int) (int, bool) {
	var divisors []int
	for d := 2; d <= minInt(n, termDivisorMax); d++ {
		if n%d == 0 {
			divisors = append(divisors, d)
		}
	}
	if len(divisors) == 0 {
		return 0, false
	}
	return divisors[g.rng.IntN(len(divisors))], true
}

// accept assembles a question and runs the validator chain over it.
func (g *Generator) accept(numbers []int, ops []OperationType, min, max int) *Question {
	q := &Question{
		Numbers:   numbers,
		Operators: slices.Clone(ops),
	}
	if v, err := EvaluateInts(numbers, ops); err == nil && isInteger(v) {
		q.Answer = int(v)
	}
	if verr := runValidators(g.config.Validators, q, Bounds{Min: min, Max: max}); verr != nil {
		return nil
	}
	q.ID = uuid.NewString()
	q.Expression = FormatExpression(numbers, ops)
	return q
}

func allOf(ops []OperationType, want OperationType) bool {
	for _, op := range ops {
		if op != want {
			return false
		}
	}
	return true
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
