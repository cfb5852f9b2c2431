package problemgen

import "go.uber.org/zap"

// SlotResult is the outcome of filling one slot of a batch.
type SlotResult struct {
	// Question is nil when the slot exhausted its attempts.
	Question *Question
	// Attempts is the number of shapes tried for this slot.
	Attempts int
}

// Generated reports whether the slot holds a question.
func (r SlotResult) Generated() bool { return r.Question != nil }

// Exhausted reports whether the slot was given up on.
func (r SlotResult) Exhausted() bool { return r.Question == nil }

// GenerateSlots fills cfg.QuestionCount slots. Each slot re-rolls its operand
// count and operator sequence up to MaxSlotAttempts times; slots that never
// succeed are reported as exhausted rather than dropped.
func (g *Generator) GenerateSlots(cfg QuestionConfig) []SlotResult {
	if cfg.QuestionCount <= 0 {
		return nil
	}
	results := make([]SlotResult, 0, cfg.QuestionCount)
	for slot := range cfg.QuestionCount {
		res := g.fillSlot(cfg)
		if res.Exhausted() {
			g.config.Logger.Debug("question slot exhausted",
				zap.Int("slot", slot),
				zap.Int("attempts", res.Attempts),
				zap.Int("min", cfg.MinValue),
				zap.Int("max", cfg.MaxValue),
			)
		}
		results = append(results, res)
	}
	return results
}

// GenerateQuestions returns the generated questions of a batch in slot order.
// The result may be shorter than cfg.QuestionCount; exhausted slots are
// silently dropped.
func (g *Generator) GenerateQuestions(cfg QuestionConfig) []Question {
	slots := g.GenerateSlots(cfg)
	questions := make([]Question, 0, len(slots))
	for _, s := range slots {
		if s.Generated() {
			questions = append(questions, *s.Question)
		}
	}
	return questions
}

func (g *Generator) fillSlot(cfg QuestionConfig) SlotResult {
	if len(cfg.Operations) == 0 {
		return SlotResult{}
	}
	for attempt := 1; attempt <= g.config.MaxSlotAttempts; attempt++ {
		ops := make([]OperationType, g.operandCount(cfg.OperandCount)-1)
		for i := range ops {
			ops[i] = cfg.Operations[g.rng.IntN(len(cfg.Operations))]
		}
		q, err := g.Generate(ops, cfg.MinValue, cfg.MaxValue)
		if err == nil {
			return SlotResult{Question: q, Attempts: attempt}
		}
	}
	return SlotResult{Attempts: g.config.MaxSlotAttempts}
}

func (g *Generator) operandCount(c OperandCount) int {
	if c >= OperandsTwo && c <= OperandsFour {
		return int(c)
	}
	return 2 + g.rng.IntN(3)
}
