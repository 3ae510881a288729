package curriculum

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

var languageEnum = []any{"greek", "latin"}

// vocabularySetSchema describes a vocabulary/*.yml document.
var vocabularySetSchema = map[string]any{
	"type":     "object",
	"required": []any{"language", "set", "name", "items"},
	"properties": map[string]any{
		"language":    map[string]any{"enum": languageEnum},
		"set":         map[string]any{"type": "string", "minLength": 1},
		"name":        map[string]any{"type": "string"},
		"description": map[string]any{"type": "string"},
		"items": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []any{"lemma", "pos", "definition", "difficulty"},
				"properties": map[string]any{
					"lemma":          map[string]any{"type": "string", "minLength": 1},
					"pos":            map[string]any{"type": "string"},
					"definition":     map[string]any{"type": "string"},
					"difficulty":     map[string]any{"type": "integer", "minimum": 1, "maximum": 10},
					"frequency_rank": map[string]any{"type": []any{"integer", "null"}},
					"forms":          map[string]any{"type": []any{"object", "null"}},
					"notes":          map[string]any{"type": []any{"string", "null"}},
				},
			},
		},
	},
}

// grammarFileSchema describes a grammar/**/*.yml document.
var grammarFileSchema = map[string]any{
	"type":     "object",
	"required": []any{"language", "category", "concepts"},
	"properties": map[string]any{
		"language": map[string]any{"enum": languageEnum},
		"category": map[string]any{"enum": []any{"morphology", "syntax", "phonology", "prosody"}},
		"concepts": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []any{"name", "subcategory", "difficulty", "description"},
				"properties": map[string]any{
					"id":            map[string]any{"type": "string"},
					"name":          map[string]any{"type": "string", "minLength": 1},
					"subcategory":   map[string]any{"type": "string"},
					"difficulty":    map[string]any{"type": "integer", "minimum": 1, "maximum": 10},
					"prerequisites": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"description":   map[string]any{"type": "string"},
				},
			},
		},
	},
}

var compiled sync.Map // name -> *jsonschema.Schema

func compileSchema(name string, def map[string]any) (*jsonschema.Schema, error) {
	if s, ok := compiled.Load(name); ok {
		return s.(*jsonschema.Schema), nil
	}
	doc, err := toJSONValue(def)
	if err != nil {
		return nil, err
	}
	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://curriculum/%s.json", name)
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	s, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", name, err)
	}
	compiled.Store(name, s)
	return s, nil
}

// checkShape validates a decoded YAML document against the named schema.
func checkShape(name string, def map[string]any, doc any) error {
	s, err := compileSchema(name, def)
	if err != nil {
		return err
	}
	v, err := toJSONValue(doc)
	if err != nil {
		return err
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCurriculum, err)
	}
	return nil
}

// toJSONValue round-trips v through encoding/json so the validator sees
// float64 numbers and map[string]any objects.
func toJSONValue(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCurriculum, err)
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}
