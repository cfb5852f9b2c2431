package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

var practiceColumns = []string{
	"id", "sequence", "started_at", "ended_at", "config",
	"requested", "generated", "correct", "answers",
}

type practiceRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *practiceRepo) AppendPractice(ctx context.Context, data PracticeData) error {
	if data.ID == "" {
		data.ID = uuid.NewString()
	}
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	cfg, err := json.Marshal(data.Config)
	if err != nil {
		return fmt.Errorf("marshal practice config: %w", err)
	}
	answers := data.Answers
	if answers == nil {
		answers = []PracticeAnswer{}
	}
	ans, err := json.Marshal(answers)
	if err != nil {
		return fmt.Errorf("marshal practice answers: %w", err)
	}
	endedAt := data.EndedAt
	if endedAt.IsZero() {
		endedAt = time.Now()
	}
	startedAt := data.StartedAt
	if startedAt.IsZero() {
		startedAt = endedAt
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(practiceSessionsTable).
		Columns(practiceColumns...).
		Values(
			data.ID, seqNum, startedAt.UTC(), endedAt.UTC(), string(cfg),
			data.Requested, data.Generated, data.Correct, string(ans),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("append practice session: %w", err)
	}
	return nil
}

func (r *practiceRepo) Recent(ctx context.Context, opts QueryOpts) ([]PracticeEntry, error) {
	b := entsql.Dialect(dialect.SQLite)
	sel := b.Select(practiceColumns...).From(b.Table(practiceSessionsTable))
	applyQueryOpts(sel, opts, "ended_at")
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query practice sessions: %w", err)
	}
	defer rows.Close()

	var entries []PracticeEntry
	for rows.Next() {
		var (
			e        PracticeEntry
			cfg, ans []byte
		)
		err := rows.Scan(
			&e.Data.ID, &e.Sequence, &e.Data.StartedAt, &e.Data.EndedAt, &cfg,
			&e.Data.Requested, &e.Data.Generated, &e.Data.Correct, &ans,
		)
		if err != nil {
			return nil, fmt.Errorf("scan practice session: %w", err)
		}
		e.Data.StartedAt = e.Data.StartedAt.UTC()
		e.Data.EndedAt = e.Data.EndedAt.UTC()
		if err := json.Unmarshal(cfg, &e.Data.Config); err != nil {
			return nil, fmt.Errorf("unmarshal practice config: %w", err)
		}
		if err := json.Unmarshal(ans, &e.Data.Answers); err != nil {
			return nil, fmt.Errorf("unmarshal practice answers: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate practice sessions: %w", err)
	}
	return entries, nil
}

func (r *practiceRepo) Reset(ctx context.Context) error {
	query, args := entsql.Dialect(dialect.SQLite).Delete(practiceSessionsTable).Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("reset practice sessions: %w", err)
	}
	return nil
}
