package aiscore

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/logos/internal/curriculum"
	"github.com/abhisek/logos/internal/curriculum/curriculumtest"
	"github.com/abhisek/logos/internal/exercise"
	"github.com/abhisek/logos/internal/llm"
)

func mockScore(score int) llm.MockResponse {
	return llm.MockResponse{Content: json.RawMessage(`{
		"score": ` + strconv.Itoa(score) + `,
		"max_score": 5,
		"errors": [{"type": "grammar", "location": "puella", "error": "wrong case", "expected": "puellam", "explanation": "Direct objects take the accusative."}],
		"corrected_response": "puellam amo",
		"feedback": "Watch the object's case."
	}`)}
}

func TestScoreTranslation(t *testing.T) {
	mock := llm.NewMockProvider(mockScore(4))
	s := New(mock, DefaultConfig())

	res, err := s.ScoreTranslation(context.Background(), TranslationInput{
		Source:    "I love the girl.",
		Response:  "puella amo",
		Direction: exercise.ToTarget,
		Language:  curriculum.Latin,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, res.RawScore)
	assert.Equal(t, 5, res.MaxScore)
	assert.InDelta(t, 0.8, res.Score, 1e-9)
	assert.True(t, res.Correct, "4 of 5 reaches the threshold")
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "puellam", res.Errors[0].Expected)

	require.Equal(t, 1, mock.CallCount())
	req := mock.Calls[0]
	assert.Equal(t, ScoreSchema, req.Schema)
	assert.Contains(t, req.Messages[0].Content, "English to Latin translation")
	assert.Contains(t, req.Messages[0].Content, "Learner's translation: puella amo")
}

func TestScoreComposition_BelowThreshold(t *testing.T) {
	s := New(llm.NewMockProvider(mockScore(3)), DefaultConfig())
	res, err := s.ScoreComposition(context.Background(), curriculum.Greek, "Describe your home.", "οἶκος", 5)
	require.NoError(t, err)
	assert.False(t, res.Correct)
	assert.InDelta(t, 0.6, res.Score, 1e-9)
}

func TestScoreExercise_Dispatch(t *testing.T) {
	cat := curriculumtest.Latin()
	concept, _ := cat.Concept(curriculumtest.FirstDeclension)
	item, _ := cat.Item(curriculumtest.Rosa)

	tests := []struct {
		name   string
		ex     exercise.Exercise
		prompt string
	}{
		{"to english", exercise.Translation("puella rosam amat", exercise.ToEnglish, curriculum.Latin, 2), "Latin to English translation"},
		{"comprehension", exercise.ComprehensionQuestion("Marcus in villa habitat.", "Ubi habitat Marcus?", curriculum.Latin, 2), "Question: Ubi habitat Marcus?"},
		{"composition", exercise.CompositionPrompt("your family", curriculum.Latin, 8), "Learner level: advanced"},
		{"drill", exercise.FillBlankDrill(exercise.FillBlankInput{ConceptID: concept.ID, Sentence: "___", Hint: concept.Name, Language: curriculum.Latin}), "Concept: First Declension"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.NewMockProvider(mockScore(5))
			res, err := New(mock, DefaultConfig()).ScoreExercise(context.Background(), tt.ex, "answer")
			require.NoError(t, err)
			assert.True(t, res.Correct)
			assert.True(t, strings.Contains(mock.Calls[0].Messages[0].Content, tt.prompt), mock.Calls[0].Messages[0].Content)
		})
	}

	_, err := New(llm.NewMockProvider(), DefaultConfig()).ScoreExercise(context.Background(), exercise.Recall(item), "rose")
	assert.True(t, errors.Is(err, ErrNotJudged))
}

func TestScore_ProviderError(t *testing.T) {
	s := New(llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{}}), DefaultConfig())
	_, err := s.ScoreComprehension(context.Background(), curriculum.Latin, "p", "q", "a")
	var unavail *llm.ErrProviderUnavailable
	assert.True(t, errors.As(err, &unavail))
}

func TestScoreOutput_Clamps(t *testing.T) {
	res := scoreOutput{Score: 9, MaxScore: 0}.result()
	assert.Equal(t, MaxScore, res.MaxScore)
	assert.Equal(t, MaxScore, res.RawScore)
	assert.Equal(t, 1.0, res.Score)
}
