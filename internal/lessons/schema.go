package lessons

import "github.com/abhisek/logos/internal/llm"

var exampleItem = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"text":        map[string]any{"type": "string", "description": "Example sentence in the target language"},
		"translation": map[string]any{"type": "string", "description": "English translation"},
	},
	"required":             []any{"text", "translation"},
	"additionalProperties": false,
}

var paradigmCell = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"label": map[string]any{"type": "string", "description": "Grammatical slot, e.g. 'genitive plural' or '3rd person singular'"},
		"form":  map[string]any{"type": "string", "description": "The inflected form"},
	},
	"required":             []any{"label", "form"},
	"additionalProperties": false,
}

func lessonProperties(withParadigm bool) map[string]any {
	props := map[string]any{
		"explanation": map[string]any{
			"type":        "string",
			"description": "Clear explanation pitched at the learner's level",
		},
		"examples": map[string]any{
			"type":        "array",
			"description": "3 to 5 examples with translations",
			"items":       exampleItem,
		},
		"summary": map[string]any{
			"type":        "string",
			"description": "Two or three sentences recapping the key points",
		},
	}
	if withParadigm {
		props["paradigm_table"] = map[string]any{
			"type":        "array",
			"description": "Paradigm forms when the concept has one; empty otherwise",
			"items":       paradigmCell,
		}
	}
	return props
}

// GrammarLessonSchema defines the JSON schema for generated grammar lessons.
var GrammarLessonSchema = &llm.Schema{
	Name:        "grammar-lesson",
	Description: "A lesson introducing one grammar concept",
	Definition: map[string]any{
		"type":                 "object",
		"properties":           lessonProperties(true),
		"required":             []any{"explanation", "examples", "paradigm_table", "summary"},
		"additionalProperties": false,
	},
}

// VocabularyLessonSchema defines the JSON schema for generated vocabulary lessons.
var VocabularyLessonSchema = &llm.Schema{
	Name:        "vocabulary-lesson",
	Description: "A lesson reviewing a handful of words",
	Definition: map[string]any{
		"type":                 "object",
		"properties":           lessonProperties(false),
		"required":             []any{"explanation", "examples", "summary"},
		"additionalProperties": false,
	},
}

// ErrorExplanationSchema defines the JSON schema for mistake explanations.
var ErrorExplanationSchema = &llm.Schema{
	Name:        "error-explanation",
	Description: "Why an answer was wrong and a tip to avoid the mistake",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"explanation": map[string]any{"type": "string", "description": "What went wrong and why"},
			"tip":         map[string]any{"type": "string", "description": "One short, actionable tip"},
		},
		"required":             []any{"explanation", "tip"},
		"additionalProperties": false,
	},
}

// ConceptExplanationSchema defines the JSON schema for concept explanations.
var ConceptExplanationSchema = &llm.Schema{
	Name:        "concept-explanation",
	Description: "A focused explanation of a grammar concept",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"explanation": map[string]any{"type": "string"},
			"example":     map[string]any{"type": "string", "description": "One example with its translation"},
		},
		"required":             []any{"explanation", "example"},
		"additionalProperties": false,
	},
}
