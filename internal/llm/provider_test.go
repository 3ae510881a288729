package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gradeSchema is a cut-down scoring schema.
func gradeSchema() *Schema {
	return &Schema{
		Name:        "translation-score",
		Description: "Grade of a learner translation",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"score":     map[string]any{"type": "integer", "minimum": 0},
				"max_score": map[string]any{"type": "integer", "minimum": 1},
				"feedback":  map[string]any{"type": "string"},
			},
			"required":             []string{"score", "max_score", "feedback"},
			"additionalProperties": false,
		},
	}
}

func TestMockProvider_ReplaysInOrder(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"score":4,"max_score":5,"feedback":"good"}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Content: json.RawMessage(`{"score":1,"max_score":5,"feedback":"wrong case"}`)},
	)
	ctx := WithPurpose(context.Background(), "translation-score")

	first, err := mock.Generate(ctx, SingleTurn("grader", "puella rosam amat", gradeSchema()))
	require.NoError(t, err)
	assert.JSONEq(t, `{"score":4,"max_score":5,"feedback":"good"}`, string(first.Content))
	assert.Equal(t, 10, first.Usage.InputTokens)
	assert.Equal(t, StopEnd, first.StopReason)

	second, err := mock.Generate(ctx, SingleTurn("grader", "puellae rosa", gradeSchema()))
	require.NoError(t, err)
	assert.Contains(t, string(second.Content), "wrong case")

	_, err = mock.Generate(ctx, SingleTurn("grader", "rosa", gradeSchema()))
	var unavail *ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavail, "the queue is drained")

	assert.Equal(t, 3, mock.CallCount())
	assert.Equal(t, []string{"translation-score", "translation-score", "translation-score"}, mock.Purposes)
	assert.Equal(t, "puella rosam amat", mock.Calls[0].Messages[0].Content)
}

func TestMockProvider_RejectsFixtureOutsideSchema(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{"score":"four"}`)})

	_, err := mock.Generate(context.Background(), SingleTurn("", "x", gradeSchema()))
	var inv *ErrInvalidResponse
	require.ErrorAs(t, err, &inv)
	assert.Contains(t, inv.Error(), "translation-score")
}

func TestMockProvider_EmptyQueue(t *testing.T) {
	_, err := NewMockProvider().Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	require.ErrorAs(t, err, &unavail)
	assert.Equal(t, "llm: provider unavailable", err.Error())
}

func TestMockProvider_ConfiguredError(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrRateLimit{Err: errors.New("429")}})
	mock.AddResponse(MockResponse{Content: json.RawMessage(`"ok"`)})

	_, err := mock.Generate(context.Background(), Request{})
	var rl *ErrRateLimit
	require.ErrorAs(t, err, &rl)

	resp, err := mock.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, `"ok"`, string(resp.Content))
	assert.Equal(t, "mock", mock.ModelID())
}

func TestContextLabels(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, UnknownPurpose, PurposeFrom(ctx))
	assert.Empty(t, LearnerFrom(ctx))

	ctx = WithLearner(WithPurpose(ctx, "composition-score"), "u1")
	assert.Equal(t, "composition-score", PurposeFrom(ctx))
	assert.Equal(t, "u1", LearnerFrom(ctx))

	assert.Equal(t, UnknownPurpose, PurposeFrom(WithPurpose(context.Background(), "")))
}

func TestSingleTurn(t *testing.T) {
	req := SingleTurn("sys", "translate", nil)
	assert.Equal(t, "sys", req.System)
	require.Len(t, req.Messages, 1)
	assert.Equal(t, RoleUser, req.Messages[0].Role)
	assert.Nil(t, req.Schema)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"anthropic without key", Config{Provider: ProviderAnthropic}, "LOGOS_ANTHROPIC_API_KEY"},
		{"anthropic with key", Config{Provider: ProviderAnthropic, Anthropic: AnthropicConfig{APIKey: "sk-test"}}, ""},
		{"openai without key", Config{Provider: ProviderOpenAI}, "LOGOS_OPENAI_API_KEY"},
		{"openai with key", Config{Provider: ProviderOpenAI, OpenAI: OpenAIConfig{APIKey: "sk-test"}}, ""},
		{"gemini without key", Config{Provider: ProviderGemini}, "LOGOS_GEMINI_API_KEY"},
		{"mock", Config{Provider: ProviderMock}, ""},
		{"unknown", Config{Provider: "ollama"}, "unknown LLM provider"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
