package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/abhisek/mathquest/internal/battle"
	"github.com/abhisek/mathquest/internal/problemgen"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

var base = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func testRecord(id string, result battle.Result, ended time.Time) battle.Record {
	return battle.Record{
		ID:               id,
		QuestionType:     "mixed",
		QuestionTypeName: "Mixed",
		Result:           result,
		StartedAt:        ended.Add(-30 * time.Second),
		EndedAt:          ended,
		Duration:         30 * time.Second,
		QuestionCount:    4,
		CorrectCount:     3,
		Accuracy:         75,
		MaxCombo:         2,
		TotalDamage:      21.5,
		PlayerHPLeft:     80,
		EnemyHPLeft:      0,
		Config:           battle.DefaultConfig(),
	}
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil db")
	}
	if err := s.DB().Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so journal_mode is skipped here.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestWithPragmas(t *testing.T) {
	got := withPragmas("file:test.db?mode=rwc")
	if want := "file:test.db?mode=rwc&_pragma="; got[:len(want)] != want {
		t.Errorf("withPragmas = %q, want prefix %q", got, want)
	}
	got = withPragmas("test.db")
	if want := "test.db?_pragma="; got[:len(want)] != want {
		t.Errorf("withPragmas = %q, want prefix %q", got, want)
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()
	ctx := context.Background()

	sc, err := newSequenceCounter(ctx, db)
	if err != nil {
		t.Fatalf("new sequence counter: %v", err)
	}

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := sc.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	// Should be monotonically increasing starting from 1.
	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func TestSequenceCounterResumesAfterStoredRows(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.BattleRepo().Save(ctx, testRecord("b1", battle.ResultVictory, base)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.BattleRepo().Save(ctx, testRecord("b2", battle.ResultDefeat, base.Add(time.Minute))); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := s.DB().ExecContext(ctx, `DROP TABLE global_sequence`); err != nil {
		t.Fatalf("drop counter: %v", err)
	}

	sc, err := newSequenceCounter(ctx, s.DB())
	if err != nil {
		t.Fatalf("new sequence counter: %v", err)
	}
	seq, err := sc.Next(ctx)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if seq != 3 {
		t.Errorf("seq = %d, want 3", seq)
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range []string{"battle_records", "practice_sessions", "global_sequence"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("query sqlite_master for %s: %v", table, err)
			continue
		}
		if name != table {
			t.Errorf("table name = %q, want %q", name, table)
		}
	}
}

func TestBattleSaveAndGet(t *testing.T) {
	s := openTestStore(t)
	repo := s.BattleRepo()
	ctx := context.Background()

	rec := testRecord("b-1", battle.ResultVictory, base)
	if err := repo.Save(ctx, rec); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.Get(ctx, "b-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Sequence != 1 {
		t.Errorf("sequence = %d, want 1", got.Sequence)
	}
	if got.Record.Result != battle.ResultVictory {
		t.Errorf("result = %q, want victory", got.Record.Result)
	}
	if !got.Record.EndedAt.Equal(rec.EndedAt) {
		t.Errorf("ended_at = %v, want %v", got.Record.EndedAt, rec.EndedAt)
	}
	if !got.Record.StartedAt.Equal(rec.StartedAt) {
		t.Errorf("started_at = %v, want %v", got.Record.StartedAt, rec.StartedAt)
	}
	if got.Record.Duration != 30*time.Second {
		t.Errorf("duration = %v, want 30s", got.Record.Duration)
	}
	if got.Record.TotalDamage != 21.5 {
		t.Errorf("total damage = %v, want 21.5", got.Record.TotalDamage)
	}
	if got.Record.Config != battle.DefaultConfig() {
		t.Errorf("config = %+v, want defaults", got.Record.Config)
	}
}

func TestBattleSaveRequiresID(t *testing.T) {
	s := openTestStore(t)
	if err := s.BattleRepo().Save(context.Background(), battle.Record{}); err == nil {
		t.Fatal("expected error for empty id")
	}
}

func TestBattleSaveWithoutStart(t *testing.T) {
	s := openTestStore(t)
	repo := s.BattleRepo()
	ctx := context.Background()

	rec := testRecord("b-idle", battle.ResultRetreat, base)
	rec.StartedAt = time.Time{}
	if err := repo.Save(ctx, rec); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := repo.Get(ctx, "b-idle")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Record.StartedAt.IsZero() {
		t.Errorf("started_at = %v, want zero", got.Record.StartedAt)
	}
}

func TestBattleGetNotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.BattleRepo().Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestBattleRecentNewestFirst(t *testing.T) {
	s := openTestStore(t)
	repo := s.BattleRepo()
	ctx := context.Background()

	ids := []string{"b-1", "b-2", "b-3", "b-4"}
	for i, id := range ids {
		rec := testRecord(id, battle.ResultVictory, base.Add(time.Duration(i)*time.Minute))
		if err := repo.Save(ctx, rec); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}

	all, err := repo.Recent(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("len = %d, want 4", len(all))
	}
	if all[0].Record.ID != "b-4" || all[3].Record.ID != "b-1" {
		t.Errorf("order = %s..%s, want b-4..b-1", all[0].Record.ID, all[3].Record.ID)
	}

	limited, err := repo.Recent(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("recent limit: %v", err)
	}
	if len(limited) != 2 || limited[1].Record.ID != "b-3" {
		t.Errorf("limited = %+v, want b-4, b-3", limited)
	}

	after, err := repo.Recent(ctx, QueryOpts{After: 2})
	if err != nil {
		t.Fatalf("recent after: %v", err)
	}
	if len(after) != 2 {
		t.Errorf("after len = %d, want 2", len(after))
	}

	window, err := repo.Recent(ctx, QueryOpts{From: base.Add(time.Minute), To: base.Add(2 * time.Minute)})
	if err != nil {
		t.Fatalf("recent window: %v", err)
	}
	if len(window) != 2 || window[0].Record.ID != "b-3" || window[1].Record.ID != "b-2" {
		t.Errorf("window = %+v, want b-3, b-2", window)
	}
}

func TestBattleStats(t *testing.T) {
	s := openTestStore(t)
	repo := s.BattleRepo()
	ctx := context.Background()

	empty, err := repo.Stats(ctx)
	if err != nil {
		t.Fatalf("stats (empty): %v", err)
	}
	if empty.Battles != 0 || empty.WinRate() != 0 {
		t.Errorf("empty stats = %+v", empty)
	}

	results := []battle.Result{battle.ResultVictory, battle.ResultVictory, battle.ResultDefeat, battle.ResultRetreat}
	for i, res := range results {
		rec := testRecord(string(rune('a'+i)), res, base.Add(time.Duration(i)*time.Minute))
		rec.MaxCombo = i + 1
		if err := repo.Save(ctx, rec); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	stats, err := repo.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Battles != 4 || stats.Victories != 2 || stats.Defeats != 1 || stats.Retreats != 1 {
		t.Errorf("counts = %+v", stats)
	}
	if stats.BestCombo != 4 {
		t.Errorf("best combo = %d, want 4", stats.BestCombo)
	}
	if stats.Questions != 16 || stats.Correct != 12 {
		t.Errorf("questions/correct = %d/%d, want 16/12", stats.Questions, stats.Correct)
	}
	if stats.Accuracy != 75 {
		t.Errorf("accuracy = %v, want 75", stats.Accuracy)
	}
	if stats.TotalDamage != 86 {
		t.Errorf("total damage = %v, want 86", stats.TotalDamage)
	}
	if stats.WinRate() != 50 {
		t.Errorf("win rate = %v, want 50", stats.WinRate())
	}
}

func TestBattleReset(t *testing.T) {
	s := openTestStore(t)
	repo := s.BattleRepo()
	ctx := context.Background()

	if err := repo.Save(ctx, testRecord("b-1", battle.ResultDefeat, base)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	entries, err := repo.Recent(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("len = %d after reset, want 0", len(entries))
	}
}

func TestPracticeAppendAndRecent(t *testing.T) {
	s := openTestStore(t)
	repo := s.PracticeRepo()
	ctx := context.Background()

	cfg := problemgen.QuestionConfig{
		OperandCount:  problemgen.OperandsMixed,
		MinValue:      1,
		MaxValue:      50,
		Operations:    []problemgen.OperationType{problemgen.OpAdd, problemgen.OpDivide},
		QuestionCount: 2,
	}
	data := PracticeData{
		Config:    cfg,
		Requested: 2,
		Generated: 2,
		Correct:   1,
		StartedAt: base,
		EndedAt:   base.Add(time.Minute),
		Answers: []PracticeAnswer{
			{QuestionID: "q1", Expression: "2 + 3", Answer: 5, Given: "5", Correct: true, TimeMs: 1200},
			{QuestionID: "q2", Expression: "8 ÷ 2", Answer: 4, Given: "3", Correct: false, TimeMs: 900},
		},
	}
	if err := repo.AppendPractice(ctx, data); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := repo.AppendPractice(ctx, PracticeData{Config: cfg, EndedAt: base.Add(2 * time.Minute)}); err != nil {
		t.Fatalf("append empty: %v", err)
	}

	entries, err := repo.Recent(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len = %d, want 2", len(entries))
	}
	if entries[0].Data.ID == "" || entries[1].Data.ID == "" {
		t.Error("expected generated ids")
	}
	if len(entries[0].Data.Answers) != 0 {
		t.Errorf("newest answers = %d, want 0", len(entries[0].Data.Answers))
	}

	got := entries[1].Data
	if got.Correct != 1 || got.Requested != 2 {
		t.Errorf("counts = %+v", got)
	}
	if len(got.Answers) != 2 || got.Answers[1].Given != "3" {
		t.Errorf("answers = %+v", got.Answers)
	}
	if len(got.Config.Operations) != 2 || got.Config.Operations[1] != problemgen.OpDivide {
		t.Errorf("config operations = %v", got.Config.Operations)
	}
	if got.Config.OperandCount != problemgen.OperandsMixed {
		t.Errorf("operand count = %v, want mixed", got.Config.OperandCount)
	}
	if !got.StartedAt.Equal(base) {
		t.Errorf("started_at = %v, want %v", got.StartedAt, base)
	}

	if err := repo.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	entries, err = repo.Recent(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("recent after reset: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("len = %d after reset, want 0", len(entries))
	}
}

func TestSequenceSharedAcrossRepos(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.BattleRepo().Save(ctx, testRecord("b-1", battle.ResultVictory, base)); err != nil {
		t.Fatalf("save battle: %v", err)
	}
	if err := s.PracticeRepo().AppendPractice(ctx, PracticeData{EndedAt: base}); err != nil {
		t.Fatalf("append practice: %v", err)
	}
	if err := s.BattleRepo().Save(ctx, testRecord("b-2", battle.ResultDefeat, base)); err != nil {
		t.Fatalf("save battle: %v", err)
	}

	practice, err := s.PracticeRepo().Recent(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("recent practice: %v", err)
	}
	if len(practice) != 1 || practice[0].Sequence != 2 {
		t.Errorf("practice sequence = %+v, want 2", practice)
	}
	b2, err := s.BattleRepo().Get(ctx, "b-2")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if b2.Sequence != 3 {
		t.Errorf("battle sequence = %d, want 3", b2.Sequence)
	}
}
