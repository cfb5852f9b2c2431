// Package schema validates JSON documents (config files, API request bodies)
// against JSON Schema definitions.
package schema

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/mathquest/internal/problemgen"
)

// Schema is a named JSON Schema definition.
type Schema struct {
	Name       string
	Definition map[string]any
}

// ErrInvalidDocument indicates a document that does not conform to its schema.
type ErrInvalidDocument struct {
	Schema  string
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidDocument) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Schema, e.Err)
}

func (e *ErrInvalidDocument) Unwrap() error { return e.Err }

// compiled caches compiled schemas by name.
var compiled sync.Map // map[string]*jsonschema.Schema

// Validate checks raw JSON against s. Returns *ErrInvalidDocument on failure.
func Validate(s *Schema, raw json.RawMessage) error {
	if s == nil {
		return nil
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return &ErrInvalidDocument{Schema: s.Name, Content: raw, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	c, err := compile(s)
	if err != nil {
		return &ErrInvalidDocument{Schema: s.Name, Content: raw, Err: fmt.Errorf("compile schema: %w", err)}
	}

	if err := c.Validate(parsed); err != nil {
		return &ErrInvalidDocument{Schema: s.Name, Content: raw, Err: err}
	}
	return nil
}

// ValidateValue marshals v to JSON and validates the result against s.
func ValidateValue(s *Schema, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", s.Name, err)
	}
	return Validate(s, raw)
}

func compile(s *Schema) (*jsonschema.Schema, error) {
	if cached, ok := compiled.Load(s.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The compiler wants a decoded JSON value, not Go maps with typed slices.
	defBytes, err := json.Marshal(s.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var def any
	if err := json.Unmarshal(defBytes, &def); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", s.Name)
	if err := c.AddResource(url, def); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	sch, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	compiled.Store(s.Name, sch)
	return sch, nil
}

// operandCount accepts 2, 3, 4 or "mixed".
var operandCount = map[string]any{
	"oneOf": []any{
		map[string]any{"type": "integer", "enum": []any{2, 3, 4}},
		map[string]any{"type": "string", "enum": []any{"mixed", "2", "3", "4"}},
	},
}

// operation accepts operation names and their symbols.
var operation = map[string]any{
	"type": "string",
	"enum": []any{
		"add", "addition", "+",
		"subtract", "subtraction", "sub", "-",
		"multiply", "multiplication", "mul", "*", "x", "×",
		"divide", "division", "div", "/", "÷",
	},
}

// questionConfigProperties describes a question generation request.
func questionConfigProperties() map[string]any {
	return map[string]any{
		"operand_count":  operandCount,
		"min_value":      map[string]any{"type": "integer", "minimum": 0, "maximum": problemgen.MaxValueLimit},
		"max_value":      map[string]any{"type": "integer", "minimum": 0, "maximum": problemgen.MaxValueLimit},
		"operations":     map[string]any{"type": "array", "items": operation},
		"question_count": map[string]any{"type": "integer", "minimum": 0, "maximum": 500},
	}
}

// QuestionConfig validates a question generation request body.
var QuestionConfig = &Schema{
	Name: "question-config",
	Definition: map[string]any{
		"type":                 "object",
		"properties":           questionConfigProperties(),
		"required":             []any{"max_value", "operations"},
		"additionalProperties": false,
	},
}

// Config validates the merged application configuration.
var Config = &Schema{
	Name: "mathquest-config",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"env":       map[string]any{"type": "string", "enum": []any{"development", "production"}},
			"log_level": map[string]any{"type": "string", "enum": []any{"debug", "info", "warn", "error"}},
			"log_file":  map[string]any{"type": "string"},
			"db_path":   map[string]any{"type": "string"},
			"questions": map[string]any{
				"type":       "object",
				"properties": questionConfigProperties(),
			},
			"battle": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"player_hp":             map[string]any{"type": "number", "exclusiveMinimum": 0},
					"enemy_hp":              map[string]any{"type": "number", "exclusiveMinimum": 0},
					"enemy_base_attack":     map[string]any{"type": "number", "minimum": 0},
					"prepare_time":          map[string]any{"type": "number", "minimum": 0},
					"question_time":         map[string]any{"type": "number", "exclusiveMinimum": 0},
					"enemy_attack_interval": map[string]any{"type": "number", "exclusiveMinimum": 0},
					"question_count":        map[string]any{"type": "integer", "minimum": 1},
				},
			},
			"settings": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"sound_enabled": map[string]any{"type": "boolean"},
					"music_enabled": map[string]any{"type": "boolean"},
				},
			},
			"server": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"addr": map[string]any{"type": "string", "minLength": 1},
				},
			},
		},
	},
}
