package problemgen

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CheckAnswer compares the learner's input against the correct answer.
// Returns true if the answer is correct.
//
// Normalization rules:
// - Whitespace is trimmed
// - Leading zeros are ignored (e.g., "007" matches "7")
// - Integral decimals are accepted (e.g., "7.0" matches "7")
func CheckAnswer(learnerAnswer string, question *Question) bool {
	if question == nil {
		return false
	}
	n, err := ParseAnswer(learnerAnswer)
	if err != nil {
		return false
	}
	return n == question.Answer
}

// ParseAnswer normalizes typed input into an integer answer.
func ParseAnswer(input string) (int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, fmt.Errorf("empty answer")
	}
	if n, err := strconv.ParseInt(input, 10, 64); err == nil {
		return int(n), nil
	}
	f, err := strconv.ParseFloat(input, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer: %w", err)
	}
	if math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return 0, fmt.Errorf("not a whole number: %q", input)
	}
	// float64(math.MaxInt) rounds up to 2^63, which is itself out of range.
	if f < math.MinInt || f >= math.MaxInt {
		return 0, fmt.Errorf("answer out of range: %q", input)
	}
	return int(f), nil
}
