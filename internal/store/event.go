package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

// sequenceCounter issues the global sequence number shared by battle
// records and practice sessions, so history from both tables can be merged
// in order. The counter row lives in its own table because ent has no
// database-level atomic counter.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

// newSequenceCounter creates the counter table. A new counter starts after
// the highest sequence already stored, so a database whose counter table
// was dropped never reuses numbers.
func newSequenceCounter(ctx context.Context, db *sql.DB) (*sequenceCounter, error) {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}

	seed := fmt.Sprintf(`INSERT OR IGNORE INTO global_sequence (id, next_val)
		SELECT 1, COALESCE(MAX(sequence), 0) + 1 FROM (
			SELECT sequence FROM %s UNION ALL SELECT sequence FROM %s
		)`, battleRecordsTable, practiceSessionsTable)
	if _, err := db.ExecContext(ctx, seed); err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}
	return &sequenceCounter{db: db}, nil
}

// Next returns the next sequence number. The RETURNING clause makes the
// increment atomic in the database; the mutex orders callers in-process.
func (c *sequenceCounter) Next(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var seq int64
	if err := c.db.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq); err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}
