package problemgen

import (
	"encoding/json"
	"testing"
)

func validQuestion() *Question {
	return &Question{
		Numbers:   []int{12, 3, 4},
		Operators: []OperationType{OpDivide, OpAdd},
		Answer:    8,
	}
}

func TestStructuralValidator(t *testing.T) {
	v := &StructuralValidator{}

	if err := v.Validate(validQuestion(), Bounds{Max: 100}); err != nil {
		t.Fatalf("expected valid question, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(q *Question)
	}{
		{"no operators", func(q *Question) { q.Operators = nil; q.Numbers = []int{1} }},
		{"too many operators", func(q *Question) {
			q.Operators = []OperationType{OpAdd, OpAdd, OpAdd, OpAdd}
			q.Numbers = []int{1, 1, 1, 1, 1}
		}},
		{"count mismatch", func(q *Question) { q.Numbers = []int{1, 2} }},
		{"unknown operator", func(q *Question) { q.Operators[1] = "pow" }},
		{"negative operand", func(q *Question) { q.Numbers[2] = -4 }},
	}
	for _, tc := range tests {
		q := validQuestion()
		tc.mutate(q)
		if err := v.Validate(q, Bounds{Max: 100}); err == nil {
			t.Errorf("%s: expected rejection", tc.name)
		}
	}
}

func TestAnswerCheckValidator(t *testing.T) {
	v := &AnswerCheckValidator{}

	if err := v.Validate(validQuestion(), Bounds{}); err != nil {
		t.Fatalf("expected match, got %v", err)
	}

	q := validQuestion()
	q.Answer = 9
	err := v.Validate(q, Bounds{})
	if err == nil {
		t.Fatal("expected mismatch")
	}
	if err.Validator != "answer-check" {
		t.Errorf("validator = %q", err.Validator)
	}
}

func TestExpressionValidator_UsesBounds(t *testing.T) {
	v := &ExpressionValidator{}
	if err := v.Validate(validQuestion(), Bounds{Min: 0, Max: 100}); err != nil {
		t.Errorf("expected accept, got %v", err)
	}
	if err := v.Validate(validQuestion(), Bounds{Min: 10, Max: 100}); err == nil {
		t.Error("expected reject below min")
	}
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Validator: "expression", Message: "bad"}
	if got, want := err.Error(), `validator "expression": bad`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestParseOperation(t *testing.T) {
	tests := map[string]OperationType{
		"add": OpAdd, "+": OpAdd, " Subtract ": OpSubtract, "×": OpMultiply,
		"*": OpMultiply, "divide": OpDivide, "÷": OpDivide, "/": OpDivide,
	}
	for in, want := range tests {
		got, err := ParseOperation(in)
		if err != nil || got != want {
			t.Errorf("ParseOperation(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseOperation("pow"); err == nil {
		t.Error("expected error for unknown operation")
	}
}

func TestParseOperandCount(t *testing.T) {
	for in, want := range map[string]OperandCount{"2": 2, "3": 3, "4": 4, "mixed": OperandsMixed, "MIXED": OperandsMixed} {
		got, err := ParseOperandCount(in)
		if err != nil || got != want {
			t.Errorf("ParseOperandCount(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	for _, in := range []string{"1", "5", "0", "two"} {
		if _, err := ParseOperandCount(in); err == nil {
			t.Errorf("ParseOperandCount(%q): expected error", in)
		}
	}
}

func TestOperandCount_JSON(t *testing.T) {
	var cfg QuestionConfig
	if err := json.Unmarshal([]byte(`{"operand_count":"mixed","max_value":10}`), &cfg); err != nil {
		t.Fatalf("unmarshal mixed: %v", err)
	}
	if cfg.OperandCount != OperandsMixed {
		t.Errorf("got %v, want mixed", cfg.OperandCount)
	}
	if err := json.Unmarshal([]byte(`{"operand_count":3}`), &cfg); err != nil {
		t.Fatalf("unmarshal 3: %v", err)
	}
	if cfg.OperandCount != OperandsThree {
		t.Errorf("got %v, want 3", cfg.OperandCount)
	}
	if err := json.Unmarshal([]byte(`{"operand_count":7}`), &cfg); err == nil {
		t.Error("expected error for 7 operands")
	}
}

func TestQuestionConfig_Validate(t *testing.T) {
	ok := QuestionConfig{OperandCount: OperandsTwo, MinValue: 0, MaxValue: 10, Operations: []OperationType{OpAdd}, QuestionCount: 5}
	if err := ok.Validate(); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
	bad := ok
	bad.MinValue = 20
	if err := bad.Validate(); err == nil {
		t.Error("expected min > max to fail")
	}
	bad = ok
	bad.Operations = []OperationType{"pow"}
	if err := bad.Validate(); err == nil {
		t.Error("expected unknown operation to fail")
	}
	bad = ok
	bad.MaxValue = MaxValueLimit + 1
	if err := bad.Validate(); err == nil {
		t.Error("expected max above the limit to fail")
	}
	bad.MaxValue = MaxValueLimit
	if err := bad.Validate(); err != nil {
		t.Errorf("expected max at the limit to pass, got %v", err)
	}
}

func TestFormatExpression(t *testing.T) {
	got := FormatExpression([]int{12, 3, 4}, []OperationType{OpDivide, OpAdd})
	if got != "12 ÷ 3 + 4" {
		t.Errorf("got %q", got)
	}
}
