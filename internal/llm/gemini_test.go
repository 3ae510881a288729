package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestGeminiModelMapping(t *testing.T) {
	assert.Equal(t, "gemini-2.0-flash", resolveModel("gemini-flash", geminiModels))
	assert.Equal(t, "gemini-2.0-pro", resolveModel("gemini-pro", geminiModels))
	assert.Equal(t, "gemini-2.5-flash", resolveModel("gemini-2.5-flash", geminiModels))
}

func TestBuildGeminiSchema(t *testing.T) {
	s := buildGeminiSchema(gradeSchema().Definition)

	assert.Equal(t, genai.TypeObject, s.Type)
	require.Len(t, s.Properties, 3)
	assert.Equal(t, genai.TypeInteger, s.Properties["score"].Type)
	require.NotNil(t, s.Properties["max_score"].Minimum)
	assert.Equal(t, 1.0, *s.Properties["max_score"].Minimum)
	assert.Equal(t, []string{"feedback", "max_score", "score"}, s.PropertyOrdering)
	assert.ElementsMatch(t, []string{"score", "max_score", "feedback"}, s.Required)
}

func TestBuildGeminiSchema_NestedArrays(t *testing.T) {
	def := map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"type": map[string]any{"type": "string", "enum": []any{"grammar", "vocabulary"}},
				"weight": map[string]any{"type": "number", "maximum": 1.0},
			},
		},
	}
	s := buildGeminiSchema(def)

	assert.Equal(t, genai.TypeArray, s.Type)
	require.NotNil(t, s.Items)
	assert.Equal(t, []string{"grammar", "vocabulary"}, s.Items.Properties["type"].Enum)
	require.NotNil(t, s.Items.Properties["weight"].Maximum)
	assert.Equal(t, 1.0, *s.Items.Properties["weight"].Maximum)
}

func TestGeminiContents(t *testing.T) {
	got := geminiContents([]Message{
		{Role: RoleUser, Content: "λόγος"},
		{Role: RoleAssistant, Content: "word"},
	})
	require.Len(t, got, 2)
	assert.Equal(t, "user", got[0].Role)
	assert.Equal(t, "model", got[1].Role)
	assert.Equal(t, "word", got[1].Parts[0].Text)
}

func TestGeminiConfig(t *testing.T) {
	req := SingleTurn("grader", "amo", gradeSchema())
	req.MaxTokens = 256
	req.Temperature = 0.2

	cfg := geminiConfig(req)
	assert.Equal(t, int32(256), cfg.MaxOutputTokens)
	require.NotNil(t, cfg.Temperature)
	assert.InDelta(t, 0.2, *cfg.Temperature, 1e-6)
	assert.Equal(t, "application/json", cfg.ResponseMIMEType)
	assert.Equal(t, "grader", cfg.SystemInstruction.Parts[0].Text)

	assert.Nil(t, geminiConfig(Request{}).ResponseSchema)
}
