package battle

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/abhisek/mathquest/internal/problemgen"
)

// Phase is the engine's state-machine state.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhasePreparing Phase = "preparing"
	PhaseAnswering Phase = "answering"
	PhaseEnded     Phase = "ended"
)

// Result is how a battle ended. The zero value means no result yet.
type Result string

const (
	ResultNone    Result = ""
	ResultVictory Result = "victory"
	ResultDefeat  Result = "defeat"
	ResultRetreat Result = "retreat"
)

// Config holds the immutable parameters of one battle. Times are in seconds.
type Config struct {
	PlayerHP            float64 `json:"player_hp" mapstructure:"player_hp"`
	EnemyHP             float64 `json:"enemy_hp" mapstructure:"enemy_hp"`
	EnemyBaseAttack     float64 `json:"enemy_base_attack" mapstructure:"enemy_base_attack"`
	PrepareTime         float64 `json:"prepare_time" mapstructure:"prepare_time"`
	QuestionTime        float64 `json:"question_time" mapstructure:"question_time"`
	EnemyAttackInterval float64 `json:"enemy_attack_interval" mapstructure:"enemy_attack_interval"`
	QuestionCount       int     `json:"question_count" mapstructure:"question_count"`
}

// DefaultConfig returns the standard battle parameters.
func DefaultConfig() Config {
	return Config{
		PlayerHP:            100,
		EnemyHP:             100,
		EnemyBaseAttack:     10,
		PrepareTime:         3,
		QuestionTime:        10,
		EnemyAttackInterval: 5,
		QuestionCount:       1,
	}
}

// Validate checks that every parameter is usable.
func (c Config) Validate() error {
	var errs []error
	if c.PlayerHP <= 0 {
		errs = append(errs, fmt.Errorf("player_hp must be positive, got %g", c.PlayerHP))
	}
	if c.EnemyHP <= 0 {
		errs = append(errs, fmt.Errorf("enemy_hp must be positive, got %g", c.EnemyHP))
	}
	if c.EnemyBaseAttack < 0 {
		errs = append(errs, fmt.Errorf("enemy_base_attack must be non-negative, got %g", c.EnemyBaseAttack))
	}
	if c.PrepareTime < 0 {
		errs = append(errs, fmt.Errorf("prepare_time must be non-negative, got %g", c.PrepareTime))
	}
	if c.QuestionTime <= 0 {
		errs = append(errs, fmt.Errorf("question_time must be positive, got %g", c.QuestionTime))
	}
	if c.EnemyAttackInterval <= 0 {
		errs = append(errs, fmt.Errorf("enemy_attack_interval must be positive, got %g", c.EnemyAttackInterval))
	}
	if c.QuestionCount < 1 {
		errs = append(errs, fmt.Errorf("question_count must be at least 1, got %d", c.QuestionCount))
	}
	return errors.Join(errs...)
}

// PrepareDuration returns PrepareTime as a duration.
func (c Config) PrepareDuration() time.Duration { return seconds(c.PrepareTime) }

// QuestionDuration returns QuestionTime as a duration.
func (c Config) QuestionDuration() time.Duration { return seconds(c.QuestionTime) }

// AttackInterval returns EnemyAttackInterval as a duration.
func (c Config) AttackInterval() time.Duration { return seconds(c.EnemyAttackInterval) }

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// Settings are the player's audio preferences.
type Settings struct {
	SoundEnabled bool `json:"sound_enabled" mapstructure:"sound_enabled"`
	MusicEnabled bool `json:"music_enabled" mapstructure:"music_enabled"`
}

// LogKind classifies a battle log entry.
type LogKind string

const (
	LogInfo    LogKind = "info"
	LogCorrect LogKind = "correct"
	LogWrong   LogKind = "wrong"
	LogTimeout LogKind = "timeout"
	LogAttack  LogKind = "attack"
	LogVictory LogKind = "victory"
	LogDefeat  LogKind = "defeat"
	LogRetreat LogKind = "retreat"
)

// LogEntry is one line of the battle log.
type LogEntry struct {
	At      time.Time `json:"at"`
	Kind    LogKind   `json:"kind"`
	Message string    `json:"message"`
	Value   float64   `json:"value,omitempty"`
}

// State is a snapshot of a battle. Values returned by Engine.State are
// copies and may be kept or modified freely.
type State struct {
	Phase            Phase
	PlayerHP         float64
	EnemyHP          float64
	EnemyAttack      float64
	CurrentQuestion  *problemgen.Question
	TimeRemaining    float64
	PrepareRemaining int
	Result           Result
	QuestionCount    int
	CorrectCount     int
	Combo            int
	MaxCombo         int
	TotalDamage      float64
	LastDamage       float64
	IsRetreated      bool
	Log              []LogEntry
}

func (s State) clone() State {
	out := s
	if s.CurrentQuestion != nil {
		q := *s.CurrentQuestion
		q.Numbers = append([]int(nil), q.Numbers...)
		q.Operators = append([]problemgen.OperationType(nil), q.Operators...)
		out.CurrentQuestion = &q
	}
	out.Log = append([]LogEntry(nil), s.Log...)
	return out
}

// Record summarizes a finished battle.
type Record struct {
	ID               string        `json:"id"`
	QuestionType     string        `json:"question_type"`
	QuestionTypeName string        `json:"question_type_name"`
	Result           Result        `json:"result"`
	StartedAt        time.Time     `json:"started_at"`
	EndedAt          time.Time     `json:"ended_at"`
	Duration         time.Duration `json:"duration"`
	QuestionCount    int           `json:"question_count"`
	CorrectCount     int           `json:"correct_count"`
	Accuracy         float64       `json:"accuracy"`
	MaxCombo         int           `json:"max_combo"`
	TotalDamage      float64       `json:"total_damage"`
	PlayerHPLeft     float64       `json:"player_hp_left"`
	EnemyHPLeft      float64       `json:"enemy_hp_left"`
	Config           Config        `json:"config"`
}

// QuestionSupplier returns the next batch of questions. The engine uses the
// first question of each batch.
type QuestionSupplier func() []problemgen.Question

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
