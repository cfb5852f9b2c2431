package problemgen

import (
	"errors"
	"math"
	"testing"
)

func TestEvaluate_Precedence(t *testing.T) {
	tests := []struct {
		name    string
		numbers []float64
		ops     []OperationType
		want    float64
	}{
		{"multiply before add", []float64{10, 5, 3}, []OperationType{OpMultiply, OpAdd}, 53},
		{"add then multiply", []float64{20, 5, 3}, []OperationType{OpAdd, OpMultiply}, 35},
		{"divide chain left to right", []float64{100, 5, 2}, []OperationType{OpDivide, OpDivide}, 10},
		{"mixed multiply divide", []float64{6, 4, 3}, []OperationType{OpMultiply, OpDivide}, 8},
		{"two products", []float64{2, 3, 4, 5}, []OperationType{OpMultiply, OpAdd, OpMultiply}, 26},
		{"subtract then add", []float64{10, 2, 3}, []OperationType{OpSubtract, OpAdd}, 11},
		{"subtract a quotient", []float64{20, 12, 4}, []OperationType{OpSubtract, OpDivide}, 17},
		{"binary", []float64{7, 8}, []OperationType{OpAdd}, 15},
		{"four operands mixed", []float64{8, 2, 3, 1}, []OperationType{OpDivide, OpMultiply, OpSubtract}, 11},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Evaluate(tc.numbers, tc.ops)
			if err != nil {
				t.Fatalf("Evaluate: %v", err)
			}
			if got != tc.want {
				t.Errorf("Evaluate(%v, %v) = %g, want %g", tc.numbers, tc.ops, got, tc.want)
			}
		})
	}
}

func TestEvaluate_DoesNotMutateInputs(t *testing.T) {
	numbers := []float64{2, 3, 4}
	ops := []OperationType{OpMultiply, OpMultiply}

	if _, err := Evaluate(numbers, ops); err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(numbers) != 3 || numbers[0] != 2 || len(ops) != 2 {
		t.Errorf("inputs were mutated: %v %v", numbers, ops)
	}
}

func TestEvaluate_InvalidShape(t *testing.T) {
	tests := []struct {
		name    string
		numbers []float64
		ops     []OperationType
	}{
		{"empty", nil, nil},
		{"no operators", []float64{1}, nil},
		{"too few numbers", []float64{1}, []OperationType{OpAdd}},
		{"too many numbers", []float64{1, 2, 3}, []OperationType{OpAdd}},
		{"unknown operator", []float64{1, 2}, []OperationType{"modulo"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Evaluate(tc.numbers, tc.ops)
			if !errors.Is(err, ErrInvalidExpression) {
				t.Errorf("expected ErrInvalidExpression, got %v", err)
			}
		})
	}
}

func TestEvaluate_DivisionByZeroIsUnguarded(t *testing.T) {
	got, err := Evaluate([]float64{5, 0}, []OperationType{OpDivide})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !math.IsInf(got, 1) {
		t.Errorf("5 ÷ 0 = %g, want +Inf", got)
	}
}

func TestEvaluateInts(t *testing.T) {
	got, err := EvaluateInts([]int{12, 3, 4}, []OperationType{OpDivide, OpAdd})
	if err != nil {
		t.Fatalf("EvaluateInts: %v", err)
	}
	if got != 8 {
		t.Errorf("got %g, want 8", got)
	}
}
