package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"

	"github.com/abhisek/mathquest/internal/problemgen"
)

// PracticeSession stores one finished practice quiz.
type PracticeSession struct {
	ent.Schema
}

func (PracticeSession) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

// PracticeAnswer is the serialized form of one answered question.
type PracticeAnswer struct {
	QuestionID string `json:"question_id"`
	Expression string `json:"expression"`
	Answer     int    `json:"answer"`
	Given      string `json:"given"`
	Correct    bool   `json:"correct"`
	TimeMs     int64  `json:"time_ms"`
}

func (PracticeSession) Fields() []ent.Field {
	return []ent.Field{
		field.Time("started_at"),
		field.Time("ended_at"),
		field.JSON("config", problemgen.QuestionConfig{}),
		field.Int("requested").
			Comment("Slots asked of the generator"),
		field.Int("generated").
			Comment("Slots that produced a question"),
		field.Int("correct"),
		field.JSON("answers", []PracticeAnswer{}),
	}
}

func (PracticeSession) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("ended_at"),
	}
}
