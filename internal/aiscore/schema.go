package aiscore

import "github.com/abhisek/logos/internal/llm"

var errorItem = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"type":        map[string]any{"type": "string", "description": "Error category, e.g. grammar, vocabulary, meaning, style"},
		"location":    map[string]any{"type": "string", "description": "Where in the response the error occurs"},
		"error":       map[string]any{"type": "string", "description": "What is wrong"},
		"expected":    map[string]any{"type": "string", "description": "What was expected"},
		"explanation": map[string]any{"type": "string", "description": "Brief pedagogical explanation"},
	},
	"required":             []any{"type", "location", "error", "expected", "explanation"},
	"additionalProperties": false,
}

// ScoreSchema defines the JSON schema for scored responses.
var ScoreSchema = &llm.Schema{
	Name:        "exercise-score",
	Description: "Score, errors and feedback for a learner's free-form answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"score": map[string]any{
				"type":        "integer",
				"minimum":     0,
				"maximum":     MaxScore,
				"description": "Integer score from 0 to 5",
			},
			"max_score": map[string]any{
				"type":        "integer",
				"description": "Always 5",
			},
			"errors": map[string]any{
				"type":  "array",
				"items": errorItem,
			},
			"corrected_response": map[string]any{
				"type":        "string",
				"description": "Corrected version of the learner's response, or a model answer",
			},
			"feedback": map[string]any{
				"type":        "string",
				"description": "One or two sentences of overall feedback",
			},
		},
		"required":             []any{"score", "max_score", "errors", "corrected_response", "feedback"},
		"additionalProperties": false,
	},
}
