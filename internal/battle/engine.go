package battle

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/mathquest/internal/problemgen"
)

const (
	prepareStep   = time.Second
	countdownStep = 100 * time.Millisecond

	attackGrowth = 1.1
	minDamage    = 0.1
)

// Engine runs one battle at a time. It is not safe for concurrent use; a
// single goroutine (a Bubble Tea program or a Runner) must own it.
type Engine struct {
	cfg              Config
	questionType     string
	questionTypeName string
	supplier         QuestionSupplier

	clock    Clock
	sounds   SoundHooks
	settings Settings
	logger   *zap.Logger
	onChange func(State)
	onEnd    func(Record)

	state             State
	sched             scheduler
	recordID          string
	startedAt         time.Time
	endedAt           time.Time
	questionStartedAt time.Time
	prepareStartedAt  time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the time source. Defaults to SystemClock.
func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithSounds sets the sound hooks. Defaults to NopSounds.
func WithSounds(s SoundHooks) Option {
	return func(e *Engine) { e.sounds = s }
}

// WithSettings sets the audio preferences. Defaults to both enabled.
func WithSettings(s Settings) Option {
	return func(e *Engine) { e.settings = s }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithOnChange registers a callback invoked with a snapshot after every
// state change.
func WithOnChange(fn func(State)) Option {
	return func(e *Engine) { e.onChange = fn }
}

// WithOnEnd registers a callback invoked once with the record when a battle
// ends.
func WithOnEnd(fn func(Record)) Option {
	return func(e *Engine) { e.onEnd = fn }
}

// New creates an idle engine.
func New(cfg Config, questionType, questionTypeName string, supplier QuestionSupplier, opts ...Option) *Engine {
	e := &Engine{
		cfg:              cfg,
		questionType:     questionType,
		questionTypeName: questionTypeName,
		supplier:         supplier,
		clock:            SystemClock{},
		sounds:           NopSounds{},
		settings:         Settings{SoundEnabled: true, MusicEnabled: true},
		logger:           zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.sounds == nil {
		e.sounds = NopSounds{}
	}
	if e.clock == nil {
		e.clock = SystemClock{}
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	e.state = e.baseline()
	return e
}

func (e *Engine) baseline() State {
	return State{
		Phase:            PhaseIdle,
		PlayerHP:         e.cfg.PlayerHP,
		EnemyHP:          e.cfg.EnemyHP,
		EnemyAttack:      e.cfg.EnemyBaseAttack,
		TimeRemaining:    e.cfg.QuestionTime,
		PrepareRemaining: int(math.Ceil(e.cfg.PrepareTime)),
	}
}

// Config returns the battle parameters.
func (e *Engine) Config() Config { return e.cfg }

// State returns a copy of the current state.
func (e *Engine) State() State { return e.state.clone() }

// NextDeadline reports when the next timer task is due.
func (e *Engine) NextDeadline() (time.Time, bool) { return e.sched.next() }

// StartPrepareTimer moves an idle battle into the preparing countdown. With
// no preparation time the battle starts immediately.
func (e *Engine) StartPrepareTimer() {
	if e.state.Phase != PhaseIdle {
		return
	}
	now := e.clock.Now()
	e.state.Phase = PhasePreparing
	e.state.PrepareRemaining = int(math.Ceil(e.cfg.PrepareTime))
	if e.settings.MusicEnabled {
		e.play(SoundHooks.PlayBGM)
	}
	e.logger.Info("battle preparing",
		zap.String("question_type", e.questionType),
		zap.Int("prepare_seconds", e.state.PrepareRemaining),
	)

	if e.state.PrepareRemaining <= 0 {
		e.startBattle(now)
		return
	}
	e.prepareStartedAt = now
	e.sched.start(taskPrepare, now, prepareStep)
	e.notify()
}

// StartBattle resets every battle counter, draws the first question and
// starts the answer countdown and the enemy attack timer. It has no effect
// while a battle is already being answered or has ended.
func (e *Engine) StartBattle() {
	if e.state.Phase == PhaseAnswering || e.state.Phase == PhaseEnded {
		return
	}
	e.startBattle(e.clock.Now())
}

func (e *Engine) startBattle(at time.Time) {
	e.sched.stopAll()
	e.state = e.baseline()
	e.state.Phase = PhaseAnswering
	e.state.PrepareRemaining = 0
	e.recordID = uuid.NewString()
	e.startedAt = at
	e.endedAt = time.Time{}

	e.appendLog(at, LogInfo, "The battle begins!", 0)
	e.logger.Info("battle started",
		zap.String("battle_id", e.recordID),
		zap.String("question_type", e.questionType),
	)

	e.nextQuestion(at)
	e.sched.start(taskAttack, at, e.cfg.AttackInterval())
	e.notify()
}

// SubmitAnswer scores an answer to the question on screen. It returns false
// without scoring when no question is being answered, when the question was
// not shown before the submission, or when its countdown had already run out;
// a late answer counts as that question's timeout. Other timers that fell due
// before the submission fire first.
func (e *Engine) SubmitAnswer(answer int) bool {
	now := e.clock.Now()
	shown := e.state.QuestionCount
	fired := e.fire(now, taskQuestion)
	if e.state.Phase != PhaseAnswering || e.state.CurrentQuestion == nil || e.state.Result != ResultNone ||
		e.state.QuestionCount != shown {
		if fired {
			e.notify()
		}
		return false
	}

	elapsed := now.Sub(e.questionStartedAt)
	if elapsed > e.cfg.QuestionDuration() {
		e.state.TimeRemaining = 0
		e.handleTimeUp(now)
		e.notify()
		return false
	}

	q := e.state.CurrentQuestion
	if answer == q.Answer {
		remaining := math.Max(0, e.cfg.QuestionTime-elapsed.Seconds())
		damage := Damage(remaining)
		e.state.EnemyHP = math.Max(0, round1(e.state.EnemyHP-damage))
		e.state.Combo++
		e.state.MaxCombo = max(e.state.MaxCombo, e.state.Combo)
		e.state.CorrectCount++
		e.state.TotalDamage = round1(e.state.TotalDamage + damage)
		e.state.LastDamage = damage
		e.appendLog(now, LogCorrect, fmt.Sprintf("Correct! %s = %d. You deal %.1f damage.", q.Expression, q.Answer, damage), damage)
		e.effect(SoundHooks.PlayCorrect)
	} else {
		e.state.EnemyAttack = NextAttack(e.state.EnemyAttack)
		e.state.Combo = 0
		e.state.LastDamage = 0
		e.appendLog(now, LogWrong, fmt.Sprintf("Wrong! %s = %d. Enemy attack rises to %.1f.", q.Expression, q.Answer, e.state.EnemyAttack), e.state.EnemyAttack)
		e.effect(SoundHooks.PlayWrong)
	}

	switch {
	case e.state.EnemyHP <= 0:
		e.endBattle(ResultVictory, now)
	case e.state.PlayerHP <= 0:
		e.endBattle(ResultDefeat, now)
	default:
		e.nextQuestion(now)
	}
	e.notify()
	return true
}

// Retreat ends the battle at once and returns its record. Retreating from a
// battle that already ended returns the existing record.
func (e *Engine) Retreat() Record {
	if e.state.Phase == PhaseEnded {
		return e.Record()
	}
	now := e.clock.Now()
	e.state.IsRetreated = true
	e.endBattle(ResultRetreat, now)
	e.notify()
	return e.Record()
}

// ResetBattle stops every timer and returns the engine to idle.
func (e *Engine) ResetBattle() {
	e.sched.stopAll()
	if e.state.Phase == PhasePreparing || e.state.Phase == PhaseAnswering {
		if e.settings.MusicEnabled {
			e.play(SoundHooks.StopBGM)
		}
	}
	e.state = e.baseline()
	e.recordID = ""
	e.startedAt = time.Time{}
	e.endedAt = time.Time{}
	e.questionStartedAt = time.Time{}
	e.prepareStartedAt = time.Time{}
	e.notify()
}

// Record summarizes the battle so far. Duration runs to the end of the
// battle, or to now while it is still going.
func (e *Engine) Record() Record {
	end := e.endedAt
	if end.IsZero() {
		end = e.clock.Now()
	}
	var duration time.Duration
	if !e.startedAt.IsZero() && end.After(e.startedAt) {
		duration = end.Sub(e.startedAt)
	}
	var accuracy float64
	if e.state.QuestionCount > 0 {
		accuracy = round1(float64(e.state.CorrectCount) / float64(e.state.QuestionCount) * 100)
	}
	return Record{
		ID:               e.recordID,
		QuestionType:     e.questionType,
		QuestionTypeName: e.questionTypeName,
		Result:           e.state.Result,
		StartedAt:        e.startedAt,
		EndedAt:          e.endedAt,
		Duration:         duration,
		QuestionCount:    e.state.QuestionCount,
		CorrectCount:     e.state.CorrectCount,
		Accuracy:         accuracy,
		MaxCombo:         e.state.MaxCombo,
		TotalDamage:      e.state.TotalDamage,
		PlayerHPLeft:     e.state.PlayerHP,
		EnemyHPLeft:      e.state.EnemyHP,
		Config:           e.cfg,
	}
}

// Tick fires every timer task due at or before now, earliest first. A task
// that fell more than one period behind, e.g. after the process was
// suspended, fires once at now rather than once per missed period.
func (e *Engine) Tick(now time.Time) {
	if e.fire(now, numTasks) {
		e.notify()
	}
}

func (e *Engine) fire(now time.Time, skip taskKind) bool {
	fired := false
	for {
		k, at, ok := e.sched.due(now, skip)
		if !ok {
			break
		}
		if e.sched.advance(k, now) {
			at = now
		}
		switch k {
		case taskPrepare:
			e.onPrepareTick(now)
		case taskQuestion:
			e.onQuestionTick(now)
		case taskAttack:
			e.onAttackTick(at)
		}
		fired = true
	}
	return fired
}

func (e *Engine) onPrepareTick(now time.Time) {
	if e.state.Phase != PhasePreparing {
		e.sched.stop(taskPrepare)
		return
	}
	elapsed := int(now.Sub(e.prepareStartedAt) / prepareStep)
	e.state.PrepareRemaining = max(0, int(math.Ceil(e.cfg.PrepareTime))-elapsed)
	if e.state.PrepareRemaining == 0 {
		e.sched.stop(taskPrepare)
		e.startBattle(now)
	}
}

func (e *Engine) onQuestionTick(now time.Time) {
	if e.state.Phase != PhaseAnswering || e.state.Result != ResultNone {
		return
	}
	remaining := e.cfg.QuestionTime - now.Sub(e.questionStartedAt).Seconds()
	if remaining > 0 {
		e.state.TimeRemaining = remaining
		return
	}
	e.state.TimeRemaining = 0
	e.handleTimeUp(now)
}

// handleTimeUp counts as a wrong answer but never ends the battle by itself.
func (e *Engine) handleTimeUp(at time.Time) {
	e.state.EnemyAttack = NextAttack(e.state.EnemyAttack)
	e.state.Combo = 0
	e.state.LastDamage = 0
	msg := "Time's up!"
	if q := e.state.CurrentQuestion; q != nil {
		msg = fmt.Sprintf("Time's up! %s = %d.", q.Expression, q.Answer)
	}
	e.appendLog(at, LogTimeout, msg+fmt.Sprintf(" Enemy attack rises to %.1f.", e.state.EnemyAttack), e.state.EnemyAttack)
	e.effect(SoundHooks.PlayWrong)
	e.nextQuestion(at)
}

func (e *Engine) onAttackTick(at time.Time) {
	if e.state.Phase != PhaseAnswering || e.state.Result != ResultNone {
		return
	}
	hit := e.state.EnemyAttack
	e.state.PlayerHP = math.Max(0, round1(e.state.PlayerHP-hit))
	e.appendLog(at, LogAttack, fmt.Sprintf("The enemy attacks for %.1f damage.", hit), hit)
	e.effect(SoundHooks.PlayAttack)
	if e.state.PlayerHP <= 0 {
		e.endBattle(ResultDefeat, at)
	}
}

// nextQuestion draws from the supplier, reusing the current question when the
// supplier returns nothing, and restarts the answer countdown.
func (e *Engine) nextQuestion(at time.Time) {
	var batch []problemgen.Question
	if e.supplier != nil {
		batch = e.supplier()
	}
	if len(batch) > 0 {
		q := batch[0]
		e.state.CurrentQuestion = &q
	} else if e.state.CurrentQuestion != nil {
		e.logger.Warn("question supplier returned no questions, reusing current question")
	} else {
		e.logger.Warn("question supplier returned no questions")
	}
	if e.state.CurrentQuestion != nil {
		e.state.QuestionCount++
	}
	e.state.TimeRemaining = e.cfg.QuestionTime
	e.questionStartedAt = at
	e.sched.start(taskQuestion, at, countdownStep)
}

// endBattle is idempotent; only the first call has any effect.
func (e *Engine) endBattle(result Result, at time.Time) {
	if e.state.Phase == PhaseEnded {
		return
	}
	e.sched.stopAll()
	if e.settings.MusicEnabled {
		e.play(SoundHooks.StopBGM)
	}
	e.state.Phase = PhaseEnded
	e.state.Result = result
	e.endedAt = at
	if e.recordID == "" {
		e.recordID = uuid.NewString()
	}

	switch result {
	case ResultVictory:
		e.effect(SoundHooks.PlayVictory)
		e.appendLog(at, LogVictory, "Victory! The enemy is defeated.", 0)
	case ResultDefeat:
		e.effect(SoundHooks.PlayDefeat)
		e.appendLog(at, LogDefeat, "Defeat... You have fallen.", 0)
	case ResultRetreat:
		e.appendLog(at, LogRetreat, "You retreat from the battle.", 0)
	}

	rec := e.Record()
	e.logger.Info("battle ended",
		zap.String("battle_id", rec.ID),
		zap.String("result", string(result)),
		zap.Int("questions", rec.QuestionCount),
		zap.Int("correct", rec.CorrectCount),
		zap.Duration("duration", rec.Duration),
	)
	if e.onEnd != nil {
		e.onEnd(rec)
	}
}

func (e *Engine) appendLog(at time.Time, kind LogKind, msg string, value float64) {
	e.state.Log = append(e.state.Log, LogEntry{At: at, Kind: kind, Message: msg, Value: value})
}

func (e *Engine) notify() {
	if e.onChange != nil {
		e.onChange(e.State())
	}
}

// effect plays a sound effect when effects are enabled.
func (e *Engine) effect(fn func(SoundHooks)) {
	if e.settings.SoundEnabled {
		e.play(fn)
	}
}

// play calls a sound hook. A panicking hook is logged and otherwise ignored.
func (e *Engine) play(fn func(SoundHooks)) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("sound hook panicked", zap.Any("panic", r))
		}
	}()
	fn(e.sounds)
}

// Damage is the damage dealt by a correct answer with the given seconds
// remaining: rounded up to one decimal, never below 0.1.
func Damage(remaining float64) float64 {
	d := math.Ceil(remaining*10-1e-9) / 10
	return math.Max(minDamage, d)
}

// NextAttack grows an attack value by 10%, rounded to one decimal.
func NextAttack(attack float64) float64 {
	return round1(attack * attackGrowth)
}
