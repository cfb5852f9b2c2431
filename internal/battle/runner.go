package battle

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/mathquest/internal/problemgen"
)

// ErrRunnerStopped is returned by Runner commands after Run has returned.
var ErrRunnerStopped = errors.New("battle runner stopped")

// DefaultTickInterval is how often a Runner polls the engine's timers.
const DefaultTickInterval = 50 * time.Millisecond

// Runner owns an Engine in a single goroutine. Callers send commands over
// channels and receive state snapshots on Updates.
type Runner struct {
	engine   *Engine
	interval time.Duration
	cmds     chan func()
	updates  chan State
	done     chan struct{}
}

// NewRunner wraps an engine. The engine must not be used directly afterwards.
// A non-positive interval uses DefaultTickInterval.
func NewRunner(e *Engine, interval time.Duration) *Runner {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	r := &Runner{
		engine:   e,
		interval: interval,
		cmds:     make(chan func()),
		updates:  make(chan State, 1),
		done:     make(chan struct{}),
	}
	prev := e.onChange
	e.onChange = func(s State) {
		if prev != nil {
			prev(s)
		}
		r.publish(s)
	}
	return r
}

// Updates delivers the latest state after each change. Intermediate states
// are dropped when the reader falls behind. The channel closes when Run
// returns.
func (r *Runner) Updates() <-chan State { return r.updates }

// Run processes commands and timer ticks until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	defer close(r.updates)
	defer close(r.done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.engine.Tick(r.engine.clock.Now())
		case cmd := <-r.cmds:
			cmd()
		}
	}
}

// Start begins the preparation countdown.
func (r *Runner) Start(ctx context.Context) error {
	return r.do(ctx, func() { r.engine.StartPrepareTimer() })
}

// Submit answers the current question.
func (r *Runner) Submit(ctx context.Context, answer int) (bool, error) {
	var ok bool
	err := r.do(ctx, func() { ok = r.engine.SubmitAnswer(answer) })
	return ok, err
}

// Retreat ends the battle and returns its record.
func (r *Runner) Retreat(ctx context.Context) (Record, error) {
	var rec Record
	err := r.do(ctx, func() { rec = r.engine.Retreat() })
	return rec, err
}

// Snapshot returns the current state.
func (r *Runner) Snapshot(ctx context.Context) (State, error) {
	var s State
	err := r.do(ctx, func() { s = r.engine.State() })
	return s, err
}

// Record returns the current battle record.
func (r *Runner) Record(ctx context.Context) (Record, error) {
	var rec Record
	err := r.do(ctx, func() { rec = r.engine.Record() })
	return rec, err
}

func (r *Runner) do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	cmd := func() {
		defer close(finished)
		fn()
	}
	select {
	case r.cmds <- cmd:
	case <-r.done:
		return ErrRunnerStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	<-finished
	return nil
}

// publish keeps only the newest snapshot in the buffer. It runs on the Run
// goroutine, the only sender.
func (r *Runner) publish(s State) {
	select {
	case r.updates <- s:
		return
	default:
	}
	select {
	case <-r.updates:
	default:
	}
	select {
	case r.updates <- s:
	default:
	}
}

// GeneratorSupplier returns a supplier that generates a batch of questions
// from qc on every call. batch overrides qc.QuestionCount.
func GeneratorSupplier(g *problemgen.Generator, qc problemgen.QuestionConfig, batch int) QuestionSupplier {
	if batch < 1 {
		batch = 1
	}
	qc.QuestionCount = batch
	return func() []problemgen.Question {
		return g.GenerateQuestions(qc)
	}
}
