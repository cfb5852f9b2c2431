package problemgen

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// OperationType is one of the four arithmetic operations a question may use.
type OperationType string

const (
	OpAdd      OperationType = "add"
	OpSubtract OperationType = "subtract"
	OpMultiply OperationType = "multiply"
	OpDivide   OperationType = "divide"
)

// AllOperations returns every supported operation in display order.
func AllOperations() []OperationType {
	return []OperationType{OpAdd, OpSubtract, OpMultiply, OpDivide}
}

// Symbol returns the glyph shown to the learner.
func (o OperationType) Symbol() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSubtract:
		return "-"
	case OpMultiply:
		return "×"
	case OpDivide:
		return "÷"
	default:
		return "?"
	}
}

// Valid reports whether o is a known operation.
func (o OperationType) Valid() bool {
	switch o {
	case OpAdd, OpSubtract, OpMultiply, OpDivide:
		return true
	}
	return false
}

// binds reports whether o is evaluated in the first (multiplicative) pass.
func (o OperationType) binds() bool {
	return o == OpMultiply || o == OpDivide
}

// ParseOperation accepts an operation name or its symbol.
func ParseOperation(s string) (OperationType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "add", "addition", "+":
		return OpAdd, nil
	case "subtract", "subtraction", "sub", "-":
		return OpSubtract, nil
	case "multiply", "multiplication", "mul", "*", "x", "×":
		return OpMultiply, nil
	case "divide", "division", "div", "/", "÷":
		return OpDivide, nil
	}
	return "", fmt.Errorf("unknown operation %q", s)
}

// ParseOperations parses a list of operation names, dropping duplicates.
func ParseOperations(names []string) ([]OperationType, error) {
	ops := make([]OperationType, 0, len(names))
	seen := make(map[OperationType]bool, len(names))
	for _, name := range names {
		op, err := ParseOperation(name)
		if err != nil {
			return nil, err
		}
		if seen[op] {
			continue
		}
		seen[op] = true
		ops = append(ops, op)
	}
	return ops, nil
}

// OperandCount is the number of numbers in a question. OperandsMixed picks
// 2, 3 or 4 independently for each question.
type OperandCount int

const (
	OperandsMixed OperandCount = 0
	OperandsTwo   OperandCount = 2
	OperandsThree OperandCount = 3
	OperandsFour  OperandCount = 4
)

// Valid reports whether c is mixed or between 2 and 4.
func (c OperandCount) Valid() bool {
	return c == OperandsMixed || (c >= OperandsTwo && c <= OperandsFour)
}

func (c OperandCount) String() string {
	if c == OperandsMixed {
		return "mixed"
	}
	return strconv.Itoa(int(c))
}

// ParseOperandCount accepts "2", "3", "4" or "mixed".
func ParseOperandCount(s string) (OperandCount, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "mixed" || s == "" {
		return OperandsMixed, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid operand count %q", s)
	}
	c := OperandCount(n)
	if c == OperandsMixed || !c.Valid() {
		return 0, fmt.Errorf("operand count must be 2, 3, 4 or mixed, got %d", n)
	}
	return c, nil
}

// MarshalJSON encodes mixed as the string "mixed" and fixed counts as numbers.
func (c OperandCount) MarshalJSON() ([]byte, error) {
	if c == OperandsMixed {
		return []byte(`"mixed"`), nil
	}
	return []byte(strconv.Itoa(int(c))), nil
}

// UnmarshalText lets config decoders and flags set an operand count from a
// string such as "3" or "mixed".
func (c *OperandCount) UnmarshalText(text []byte) error {
	parsed, err := ParseOperandCount(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c *OperandCount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := ParseOperandCount(s)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("operand count: %w", err)
	}
	parsed, err := ParseOperandCount(strconv.Itoa(n))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Question is a generated arithmetic expression with its integer answer.
type Question struct {
	ID         string          `json:"id"`
	Expression string          `json:"expression"`
	Answer     int             `json:"answer"`
	Numbers    []int           `json:"numbers"`
	Operators  []OperationType `json:"operators"`
}

// QuestionConfig describes a batch of questions to generate.
type QuestionConfig struct {
	OperandCount  OperandCount    `json:"operand_count" mapstructure:"operand_count"`
	MinValue      int             `json:"min_value" mapstructure:"min_value"`
	MaxValue      int             `json:"max_value" mapstructure:"max_value"`
	Operations    []OperationType `json:"operations" mapstructure:"operations"`
	QuestionCount int             `json:"question_count" mapstructure:"question_count"`
}

// MaxValueLimit caps QuestionConfig.MaxValue so every operand, intermediate
// result and answer stays exact under float64 evaluation and within int.
const MaxValueLimit = 1_000_000

// Bounds is the inclusive range every answer must fall in.
type Bounds struct {
	Min int
	Max int
}

// Bounds returns the answer range of the config.
func (c QuestionConfig) Bounds() Bounds {
	return Bounds{Min: c.MinValue, Max: c.MaxValue}
}

// Validate checks the config invariants. Generation itself never fails on an
// invalid config; callers taking user input should call this first.
func (c QuestionConfig) Validate() error {
	if !c.OperandCount.Valid() {
		return fmt.Errorf("operand count must be 2, 3, 4 or mixed, got %d", int(c.OperandCount))
	}
	if c.MinValue < 0 {
		return fmt.Errorf("min value must be non-negative, got %d", c.MinValue)
	}
	if c.MaxValue > MaxValueLimit {
		return fmt.Errorf("max value must be at most %d, got %d", MaxValueLimit, c.MaxValue)
	}
	if c.MinValue > c.MaxValue {
		return fmt.Errorf("min value %d exceeds max value %d", c.MinValue, c.MaxValue)
	}
	if c.QuestionCount < 0 {
		return fmt.Errorf("question count must be non-negative, got %d", c.QuestionCount)
	}
	for _, op := range c.Operations {
		if !op.Valid() {
			return fmt.Errorf("unknown operation %q", op)
		}
	}
	return nil
}

// FormatExpression renders numbers and operators as "a op b op c".
func FormatExpression(numbers []int, ops []OperationType) string {
	var b strings.Builder
	for i, n := range numbers {
		if i > 0 {
			b.WriteByte(' ')
			if i-1 < len(ops) {
				b.WriteString(ops[i-1].Symbol())
			}
			b.WriteByte(' ')
		}
		b.WriteString(strconv.Itoa(n))
	}
	return b.String()
}

// TypeID identifies the question mix, e.g. "add-divide/2/0-100".
func (c QuestionConfig) TypeID() string {
	names := make([]string, len(c.Operations))
	for i, op := range c.Operations {
		names[i] = string(op)
	}
	if len(names) == 0 {
		names = []string{"none"}
	}
	return fmt.Sprintf("%s/%s/%d-%d", strings.Join(names, "-"), c.OperandCount, c.MinValue, c.MaxValue)
}

// TypeName is a display label for the question mix, e.g. "+ ÷ (2 numbers, 0-100)".
func (c QuestionConfig) TypeName() string {
	symbols := make([]string, len(c.Operations))
	for i, op := range c.Operations {
		symbols[i] = op.Symbol()
	}
	operands := "mixed length"
	if c.OperandCount != OperandsMixed {
		operands = fmt.Sprintf("%d numbers", int(c.OperandCount))
	}
	return fmt.Sprintf("%s (%s, %d-%d)", strings.Join(symbols, " "), operands, c.MinValue, c.MaxValue)
}
