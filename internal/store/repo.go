package store

import (
	"context"
	"time"

	entschema "github.com/abhisek/mathquest/ent/schema"
	"github.com/abhisek/mathquest/internal/battle"
	"github.com/abhisek/mathquest/internal/problemgen"
)

// QueryOpts configures history queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // ended_at >= From
	To     time.Time // ended_at <= To
}

// BattleEntry is a stored battle record with its global sequence number.
type BattleEntry struct {
	Sequence int64         `json:"sequence"`
	Record   battle.Record `json:"record"`
}

// BattleStats aggregates every stored battle.
type BattleStats struct {
	Battles     int     `json:"battles"`
	Victories   int     `json:"victories"`
	Defeats     int     `json:"defeats"`
	Retreats    int     `json:"retreats"`
	BestCombo   int     `json:"best_combo"`
	Questions   int     `json:"questions"`
	Correct     int     `json:"correct"`
	TotalDamage float64 `json:"total_damage"`
	Accuracy    float64 `json:"accuracy"`
}

// WinRate is the share of battles won, as a percentage.
func (s BattleStats) WinRate() float64 {
	if s.Battles == 0 {
		return 0
	}
	return float64(s.Victories) / float64(s.Battles) * 100
}

// BattleRepo persists finished battles.
type BattleRepo interface {
	// Save stores a battle record. The record ID must be unique.
	Save(ctx context.Context, rec battle.Record) error

	// Get returns the battle with the given ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*BattleEntry, error)

	// Recent returns battles newest first.
	Recent(ctx context.Context, opts QueryOpts) ([]BattleEntry, error)

	// Stats aggregates all stored battles.
	Stats(ctx context.Context) (BattleStats, error)

	// Reset deletes every stored battle.
	Reset(ctx context.Context) error
}

// PracticeAnswer is one answered question of a practice session. It is
// stored as JSON in the answers column.
type PracticeAnswer = entschema.PracticeAnswer

// PracticeData captures a finished practice session.
type PracticeData struct {
	ID        string                    `json:"id"`
	Config    problemgen.QuestionConfig `json:"config"`
	Requested int                       `json:"requested"`
	Generated int                       `json:"generated"`
	Correct   int                       `json:"correct"`
	StartedAt time.Time                 `json:"started_at"`
	EndedAt   time.Time                 `json:"ended_at"`
	Answers   []PracticeAnswer          `json:"answers"`
}

// PracticeEntry is a stored practice session with its sequence number.
type PracticeEntry struct {
	Sequence int64        `json:"sequence"`
	Data     PracticeData `json:"data"`
}

// PracticeRepo persists practice sessions.
type PracticeRepo interface {
	// AppendPractice stores a finished session. An empty ID is filled in.
	AppendPractice(ctx context.Context, data PracticeData) error

	// Recent returns sessions newest first.
	Recent(ctx context.Context, opts QueryOpts) ([]PracticeEntry, error)

	// Reset deletes every stored session.
	Reset(ctx context.Context) error
}
