package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	battleRecordsTable    = "battle_records"
	practiceSessionsTable = "practice_sessions"
)

var (
	// BattleRecordsColumns holds the columns for the "battle_records" table.
	BattleRecordsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Size: 36},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "question_type", Type: field.TypeString},
		{Name: "question_type_name", Type: field.TypeString},
		{Name: "result", Type: field.TypeString, Size: 16},
		{Name: "started_at", Type: field.TypeTime, Nullable: true},
		{Name: "ended_at", Type: field.TypeTime},
		{Name: "duration_ms", Type: field.TypeInt64},
		{Name: "question_count", Type: field.TypeInt},
		{Name: "correct_count", Type: field.TypeInt},
		{Name: "accuracy", Type: field.TypeFloat64},
		{Name: "max_combo", Type: field.TypeInt},
		{Name: "total_damage", Type: field.TypeFloat64},
		{Name: "player_hp_left", Type: field.TypeFloat64},
		{Name: "enemy_hp_left", Type: field.TypeFloat64},
		{Name: "config", Type: field.TypeJSON},
	}
	// BattleRecordsTable holds the schema information for the "battle_records" table.
	BattleRecordsTable = &schema.Table{
		Name:       battleRecordsTable,
		Columns:    BattleRecordsColumns,
		PrimaryKey: []*schema.Column{BattleRecordsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "battlerecord_ended_at",
				Unique:  false,
				Columns: []*schema.Column{BattleRecordsColumns[6]},
			},
			{
				Name:    "battlerecord_result",
				Unique:  false,
				Columns: []*schema.Column{BattleRecordsColumns[4]},
			},
		},
	}

	// PracticeSessionsColumns holds the columns for the "practice_sessions" table.
	PracticeSessionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Size: 36},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "started_at", Type: field.TypeTime},
		{Name: "ended_at", Type: field.TypeTime},
		{Name: "config", Type: field.TypeJSON},
		{Name: "requested", Type: field.TypeInt},
		{Name: "generated", Type: field.TypeInt},
		{Name: "correct", Type: field.TypeInt},
		{Name: "answers", Type: field.TypeJSON},
	}
	// PracticeSessionsTable holds the schema information for the "practice_sessions" table.
	PracticeSessionsTable = &schema.Table{
		Name:       practiceSessionsTable,
		Columns:    PracticeSessionsColumns,
		PrimaryKey: []*schema.Column{PracticeSessionsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "practicesession_ended_at",
				Unique:  false,
				Columns: []*schema.Column{PracticeSessionsColumns[3]},
			},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		BattleRecordsTable,
		PracticeSessionsTable,
	}
)
