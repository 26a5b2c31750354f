package opentdb

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema is a named JSON Schema definition for one endpoint's response body.
type Schema struct {
	Name       string
	Definition map[string]any
}

var countSchema = &Schema{
	Name: "opentdb-count",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"overall"},
		"properties": map[string]any{
			"overall": map[string]any{
				"type":     "object",
				"required": []any{"total_num_of_verified_questions"},
				"properties": map[string]any{
					"total_num_of_verified_questions": map[string]any{"type": "integer", "minimum": 0},
				},
			},
		},
	},
}

var tokenSchema = &Schema{
	Name: "opentdb-token",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"response_code"},
		"properties": map[string]any{
			"response_code": map[string]any{"type": "integer"},
			"token":         map[string]any{"type": "string"},
		},
	},
}

var questionsSchema = &Schema{
	Name: "opentdb-questions",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"response_code", "results"},
		"properties": map[string]any{
			"response_code": map[string]any{"type": "integer"},
			"results": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"required": []any{
						"category", "type", "difficulty", "question",
						"correct_answer", "incorrect_answers",
					},
					"properties": map[string]any{
						"category":       map[string]any{"type": "string"},
						"type":           map[string]any{"type": "string"},
						"difficulty":     map[string]any{"type": "string"},
						"question":       map[string]any{"type": "string"},
						"correct_answer": map[string]any{"type": "string"},
						"incorrect_answers": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
					},
				},
			},
		},
	},
}

// schemaCache caches compiled JSON schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// validateBody checks that raw is JSON conforming to schema.
func validateBody(schema *Schema, raw []byte) error {
	if schema == nil {
		return nil
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	compiled, err := compiledSchema(schema)
	if err != nil {
		return fmt.Errorf("compile schema %q: %w", schema.Name, err)
	}

	if err := compiled.Validate(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

func compiledSchema(schema *Schema) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(schema.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The compiler wants a decoded JSON value, so normalize the Go literal
	// through a marshal/unmarshal round trip.
	defBytes, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	schemaURL := fmt.Sprintf("schema://%s.json", schema.Name)
	if err := c.AddResource(schemaURL, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}

	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(schema.Name, compiled)
	return compiled, nil
}
