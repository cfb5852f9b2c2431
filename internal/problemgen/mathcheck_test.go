package problemgen

import "testing"

func TestStepPredicates(t *testing.T) {
	if !ValidAddition(40, 60, 100) || ValidAddition(41, 60, 100) {
		t.Error("ValidAddition boundary wrong")
	}
	if !ValidSubtraction(5, 5) || ValidSubtraction(4, 5) {
		t.Error("ValidSubtraction boundary wrong")
	}
	if !ValidMultiplication(10, 10, 100) || ValidMultiplication(11, 10, 100) {
		t.Error("ValidMultiplication boundary wrong")
	}
	if !ValidDivision(12, 4) || ValidDivision(12, 5) || ValidDivision(12, 0) {
		t.Error("ValidDivision wrong")
	}
}

func TestCheckExpression(t *testing.T) {
	tests := []struct {
		name    string
		numbers []int
		ops     []OperationType
		min     int
		max     int
		ok      bool
	}{
		{"precedence in range", []int{10, 5, 3}, []OperationType{OpMultiply, OpAdd}, 0, 100, true},
		{"precedence out of range", []int{10, 5, 3}, []OperationType{OpMultiply, OpAdd}, 0, 50, false},
		{"below min", []int{2, 3}, []OperationType{OpAdd}, 10, 100, false},
		{"exact divide", []int{12, 3, 4}, []OperationType{OpDivide, OpAdd}, 0, 100, true},
		{"inexact divide", []int{7, 2}, []OperationType{OpDivide}, 0, 100, false},
		{"inexact second divide", []int{24, 4, 4}, []OperationType{OpDivide, OpDivide}, 0, 100, false},
		{"divide after multiply", []int{3, 4, 6}, []OperationType{OpMultiply, OpDivide}, 0, 100, true},
		{"leading zero dividend", []int{0, 5}, []OperationType{OpDivide}, 0, 100, false},
		{"zero dividend later is fine", []int{5, 0, 5}, []OperationType{OpAdd, OpDivide}, 0, 100, true},
		{"division by zero", []int{5, 0}, []OperationType{OpDivide}, 0, 100, false},
		{"negative running total", []int{3, 5, 10}, []OperationType{OpSubtract, OpAdd}, 0, 100, false},
		{"zero result allowed", []int{5, 5}, []OperationType{OpSubtract}, 0, 100, true},
		{"shape mismatch", []int{1, 2}, []OperationType{OpAdd, OpAdd}, 0, 100, false},
		{"unknown operator", []int{1, 2}, []OperationType{"pow"}, 0, 100, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			verr := CheckExpression(tc.numbers, tc.ops, tc.min, tc.max)
			if tc.ok && verr != nil {
				t.Errorf("expected accept, got %v", verr)
			}
			if !tc.ok && verr == nil {
				t.Error("expected reject, got accept")
			}
			if got := ValidateExpression(tc.numbers, tc.ops, tc.min, tc.max); got != tc.ok {
				t.Errorf("ValidateExpression = %v, want %v", got, tc.ok)
			}
		})
	}
}

func TestCheckExpression_NamesValidator(t *testing.T) {
	verr := CheckExpression([]int{7, 2}, []OperationType{OpDivide}, 0, 100)
	if verr == nil {
		t.Fatal("expected rejection")
	}
	if verr.Validator != "expression" {
		t.Errorf("validator = %q, want expression", verr.Validator)
	}
	if !verr.Retryable {
		t.Error("expected retryable rejection")
	}
}
