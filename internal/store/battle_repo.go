package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/mathquest/internal/battle"
)

var battleColumns = []string{
	"id", "sequence", "question_type", "question_type_name", "result",
	"started_at", "ended_at", "duration_ms", "question_count", "correct_count",
	"accuracy", "max_combo", "total_damage", "player_hp_left", "enemy_hp_left",
	"config",
}

type battleRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *battleRepo) Save(ctx context.Context, rec battle.Record) error {
	if rec.ID == "" {
		return fmt.Errorf("save battle: empty record id")
	}
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	cfg, err := json.Marshal(rec.Config)
	if err != nil {
		return fmt.Errorf("marshal battle config: %w", err)
	}

	var startedAt sql.NullTime
	if !rec.StartedAt.IsZero() {
		startedAt = sql.NullTime{Time: rec.StartedAt.UTC(), Valid: true}
	}
	endedAt := rec.EndedAt
	if endedAt.IsZero() {
		endedAt = time.Now()
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(battleRecordsTable).
		Columns(battleColumns...).
		Values(
			rec.ID, seqNum, rec.QuestionType, rec.QuestionTypeName, string(rec.Result),
			startedAt, endedAt.UTC(), rec.Duration.Milliseconds(), rec.QuestionCount, rec.CorrectCount,
			rec.Accuracy, rec.MaxCombo, rec.TotalDamage, rec.PlayerHPLeft, rec.EnemyHPLeft,
			string(cfg),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save battle record: %w", err)
	}
	return nil
}

func (r *battleRepo) Get(ctx context.Context, id string) (*BattleEntry, error) {
	b := entsql.Dialect(dialect.SQLite)
	query, args := b.Select(battleColumns...).
		From(b.Table(battleRecordsTable)).
		Where(entsql.EQ("id", id)).
		Query()

	entries, err := r.query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("battle %s: %w", id, ErrNotFound)
	}
	return &entries[0], nil
}

func (r *battleRepo) Recent(ctx context.Context, opts QueryOpts) ([]BattleEntry, error) {
	b := entsql.Dialect(dialect.SQLite)
	sel := b.Select(battleColumns...).From(b.Table(battleRecordsTable))
	applyQueryOpts(sel, opts, "ended_at")
	query, args := sel.Query()
	return r.query(ctx, query, args)
}

func (r *battleRepo) Stats(ctx context.Context) (BattleStats, error) {
	var stats BattleStats
	b := entsql.Dialect(dialect.SQLite)

	query, args := b.Select("result", entsql.Count("*")).
		From(b.Table(battleRecordsTable)).
		GroupBy("result").
		Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return stats, fmt.Errorf("query battle results: %w", err)
	}
	for rows.Next() {
		var result string
		var n int
		if err := rows.Scan(&result, &n); err != nil {
			rows.Close()
			return stats, fmt.Errorf("scan battle results: %w", err)
		}
		stats.Battles += n
		switch battle.Result(result) {
		case battle.ResultVictory:
			stats.Victories = n
		case battle.ResultDefeat:
			stats.Defeats = n
		case battle.ResultRetreat:
			stats.Retreats = n
		}
	}
	if err := rows.Close(); err != nil {
		return stats, fmt.Errorf("close battle results: %w", err)
	}
	if stats.Battles == 0 {
		return stats, nil
	}

	query, args = b.Select(
		entsql.Max("max_combo"),
		entsql.Sum("question_count"),
		entsql.Sum("correct_count"),
		entsql.Sum("total_damage"),
	).From(b.Table(battleRecordsTable)).Query()

	var bestCombo, questions, correct sql.NullInt64
	var damage sql.NullFloat64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&bestCombo, &questions, &correct, &damage); err != nil {
		return stats, fmt.Errorf("query battle totals: %w", err)
	}
	stats.BestCombo = int(bestCombo.Int64)
	stats.Questions = int(questions.Int64)
	stats.Correct = int(correct.Int64)
	stats.TotalDamage = damage.Float64
	if stats.Questions > 0 {
		stats.Accuracy = float64(stats.Correct) / float64(stats.Questions) * 100
	}
	return stats, nil
}

func (r *battleRepo) Reset(ctx context.Context) error {
	query, args := entsql.Dialect(dialect.SQLite).Delete(battleRecordsTable).Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("reset battle records: %w", err)
	}
	return nil
}

func (r *battleRepo) query(ctx context.Context, query string, args []any) ([]BattleEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query battle records: %w", err)
	}
	defer rows.Close()

	var entries []BattleEntry
	for rows.Next() {
		var (
			e          BattleEntry
			result     string
			startedAt  sql.NullTime
			durationMs int64
			cfg        []byte
		)
		err := rows.Scan(
			&e.Record.ID, &e.Sequence, &e.Record.QuestionType, &e.Record.QuestionTypeName, &result,
			&startedAt, &e.Record.EndedAt, &durationMs, &e.Record.QuestionCount, &e.Record.CorrectCount,
			&e.Record.Accuracy, &e.Record.MaxCombo, &e.Record.TotalDamage, &e.Record.PlayerHPLeft, &e.Record.EnemyHPLeft,
			&cfg,
		)
		if err != nil {
			return nil, fmt.Errorf("scan battle record: %w", err)
		}
		e.Record.Result = battle.Result(result)
		e.Record.EndedAt = e.Record.EndedAt.UTC()
		if startedAt.Valid {
			e.Record.StartedAt = startedAt.Time.UTC()
		}
		e.Record.Duration = time.Duration(durationMs) * time.Millisecond
		if err := json.Unmarshal(cfg, &e.Record.Config); err != nil {
			return nil, fmt.Errorf("unmarshal battle config: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate battle records: %w", err)
	}
	return entries, nil
}

// applyQueryOpts adds the sequence and time filters, newest-first ordering
// and the limit to a selector.
func applyQueryOpts(sel *entsql.Selector, opts QueryOpts, timeColumn string) {
	if opts.After > 0 {
		sel.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		sel.Where(entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE(timeColumn, opts.From.UTC()))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE(timeColumn, opts.To.UTC()))
	}
	sel.OrderBy(entsql.Desc("sequence"))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
}
