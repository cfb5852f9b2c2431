package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"

	"github.com/abhisek/mathquest/internal/battle"
)

// BattleRecord stores one finished battle.
type BattleRecord struct {
	ent.Schema
}

func (BattleRecord) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (BattleRecord) Fields() []ent.Field {
	return []ent.Field{
		field.String("question_type").
			Comment("Stable ID of the question mix, e.g. add-divide/2/0-100"),
		field.String("question_type_name").
			Comment("Display label of the question mix"),
		field.String("result").
			MaxLen(16).
			Comment("victory, defeat or retreat"),
		field.Time("started_at").
			Optional().
			Nillable().
			Comment("Zero when the battle never left the countdown"),
		field.Time("ended_at"),
		field.Int64("duration_ms"),
		field.Int("question_count").
			Comment("Questions shown, including the one pending at the end"),
		field.Int("correct_count"),
		field.Float("accuracy").
			Comment("Percentage rounded to one decimal"),
		field.Int("max_combo"),
		field.Float("total_damage"),
		field.Float("player_hp_left"),
		field.Float("enemy_hp_left"),
		field.JSON("config", battle.Config{}),
	}
}

func (BattleRecord) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("ended_at"),
		index.Fields("result"),
	}
}
