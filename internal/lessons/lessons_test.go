package lessons

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/logos/internal/capacity"
	"github.com/abhisek/logos/internal/curriculum"
	"github.com/abhisek/logos/internal/curriculum/curriculumtest"
	"github.com/abhisek/logos/internal/exercise"
	"github.com/abhisek/logos/internal/learner"
	"github.com/abhisek/logos/internal/llm"
	"github.com/abhisek/logos/internal/session"
)

func concept(t *testing.T, id string) curriculum.GrammarConcept {
	t.Helper()
	c, ok := curriculumtest.Latin().Concept(id)
	require.True(t, ok, "fixture concept %s", id)
	return c
}

func item(t *testing.T, id string) curriculum.VocabularyItem {
	t.Helper()
	it, ok := curriculumtest.Latin().Item(id)
	require.True(t, ok, "fixture item %s", id)
	return it
}

func TestBuildGrammarLesson(t *testing.T) {
	c := concept(t, curriculumtest.FirstDeclension)
	l := BuildGrammarLesson(c, capacity.Writing)

	assert.Equal(t, "First Declension", l.Title)
	assert.Equal(t, "In this lesson, we will learn about First Declension. Feminine a-stem nouns.", l.Explanation)
	assert.Equal(t, "Key points: First Declension (morphology/nouns). Focus on writing exercises.", l.Summary)
	assert.Equal(t, []string{
		"Practice: Apply First Declension in a sentence.",
		"Identify: Find examples of First Declension in a text.",
	}, l.PracticePrompts)
	assert.Empty(t, l.Examples)
	assert.Empty(t, l.Paradigm)
}

func TestBuildVocabularyLesson(t *testing.T) {
	l := BuildVocabularyLesson([]curriculum.VocabularyItem{
		item(t, curriculumtest.Rosa),
		item(t, curriculumtest.Sed),
	})

	assert.Equal(t, "Vocabulary Review", l.Title)
	assert.Equal(t, "Let's review these 2 vocabulary items: rosa, sed", l.Explanation)
	assert.Equal(t, "Reviewed 2 items. Keep practicing!", l.Summary)
	assert.Equal(t, []string{"Define: rosa", "Define: sed"}, l.PracticePrompts)
}

func TestForTopic(t *testing.T) {
	snap := learner.New("learner-1", curriculumtest.Latin())
	snap.Capacity = capacity.State{Reading: 3, Writing: 1, Listening: 2, Speaking: 2}

	t.Run("concept", func(t *testing.T) {
		l, ok := ForTopic(snap, session.Topic{ConceptID: curriculumtest.PresentActive, Name: "Present Active Indicative"})
		require.True(t, ok)
		assert.Equal(t, "Present Active Indicative", l.Title)
		assert.Contains(t, l.Summary, "Focus on writing exercises.")
	})

	t.Run("lemmas", func(t *testing.T) {
		l, ok := ForTopic(snap, session.Topic{Lemmas: []string{"amō", "missing", "et"}})
		require.True(t, ok)
		assert.Equal(t, "Let's review these 2 vocabulary items: amō, et", l.Explanation)
	})

	t.Run("empty or unknown", func(t *testing.T) {
		_, ok := ForTopic(snap, session.Topic{})
		assert.False(t, ok)
		_, ok = ForTopic(snap, session.Topic{ConceptID: "no-such-concept"})
		assert.False(t, ok)
		_, ok = ForTopic(snap, session.Topic{Lemmas: []string{"missing"}})
		assert.False(t, ok)
	})
}

func TestForTopic_FollowsNextTopic(t *testing.T) {
	snap := learner.New("learner-1", curriculumtest.Latin())
	l, ok := ForTopic(snap, session.NextTopic(snap))
	require.True(t, ok)
	assert.Contains(t, l.Explanation, "In this lesson, we will learn about")
}

const grammarLessonJSON = `{
	"explanation": "First-declension nouns end in -a in the nominative singular.",
	"examples": [
		{"text": "puella rosam amat", "translation": "the girl loves the rose"},
		{"text": "rosae pulchrae sunt", "translation": "the roses are beautiful"},
		{"text": "nauta puellam videt", "translation": "the sailor sees the girl"}
	],
	"paradigm_table": [
		{"label": "nominative singular", "form": "rosa"},
		{"label": "genitive singular", "form": "rosae"}
	],
	"summary": "Learn the endings -a, -ae, -am."
}`

func TestGenerateGrammarLesson(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(grammarLessonJSON)})
	svc := NewService(mock, DefaultConfig())

	l, err := svc.GenerateGrammarLesson(context.Background(), concept(t, curriculumtest.FirstDeclension))
	require.NoError(t, err)

	assert.Equal(t, "First Declension", l.Title)
	assert.Len(t, l.Examples, 3)
	require.Len(t, l.Paradigm, 2)
	assert.Equal(t, ParadigmCell{Label: "genitive singular", Form: "rosae"}, l.Paradigm[1])

	require.Equal(t, 1, mock.CallCount())
	assert.Equal(t, []string{"grammar-lesson"}, mock.Purposes)
	req := mock.Calls[0]
	assert.Equal(t, GrammarLessonSchema, req.Schema)
	assert.Equal(t, DefaultConfig().MaxTokens, req.MaxTokens)
	assert.Contains(t, req.Messages[0].Content, "Write a lesson on a Latin grammar concept.")
	assert.Contains(t, req.Messages[0].Content, "Category: morphology / nouns")
	assert.Contains(t, req.Messages[0].Content, "Learner level: beginner")
}

func TestGenerateGrammarLesson_RejectsMissingParadigm(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{
		"explanation": "x", "examples": [], "summary": "y"
	}`)})
	_, err := NewService(mock, DefaultConfig()).GenerateGrammarLesson(context.Background(), concept(t, curriculumtest.FirstDeclension))

	var invalid *llm.ErrInvalidResponse
	assert.ErrorAs(t, err, &invalid)
}

func TestGenerateVocabularyLesson(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{
		"explanation": "Two common words.",
		"examples": [{"text": "dominus et servus", "translation": "master and slave"}],
		"summary": "dominus and et."
	}`)})
	svc := NewService(mock, DefaultConfig())

	l, err := svc.GenerateVocabularyLesson(context.Background(), []curriculum.VocabularyItem{
		item(t, curriculumtest.Dominus),
		item(t, curriculumtest.Et),
	})
	require.NoError(t, err)
	assert.Equal(t, "Vocabulary Lesson", l.Title)
	assert.Empty(t, l.Paradigm)

	assert.Equal(t, []string{"vocabulary-lesson"}, mock.Purposes)
	msg := mock.Calls[0].Messages[0].Content
	assert.Contains(t, msg, "- dominus (master, lord)")
	assert.Contains(t, msg, "- et (and)")
}

func TestGenerateVocabularyLesson_NoItems(t *testing.T) {
	mock := llm.NewMockProvider()
	_, err := NewService(mock, DefaultConfig()).GenerateVocabularyLesson(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoItems)
	assert.Zero(t, mock.CallCount())
}

func TestGenerateForTopic(t *testing.T) {
	snap := learner.New("learner-1", curriculumtest.Latin())
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(grammarLessonJSON)})
	svc := NewService(mock, DefaultConfig())

	l, err := svc.GenerateForTopic(context.Background(), snap, session.NextTopic(snap))
	require.NoError(t, err)
	assert.NotEmpty(t, l.Title)
	assert.Equal(t, []string{"grammar-lesson"}, mock.Purposes)

	_, err = svc.GenerateForTopic(context.Background(), snap, session.Topic{})
	assert.ErrorIs(t, err, ErrNoTopic)
	_, err = svc.GenerateForTopic(context.Background(), snap, session.Topic{Lemmas: []string{"missing"}})
	assert.ErrorIs(t, err, ErrNoItems)
	assert.Equal(t, 1, mock.CallCount())
}

func TestExplainError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{
		"explanation": "rosa is nominative; the object needs the accusative.",
		"tip": "Direct objects of amō take -am."
	}`)})
	svc := NewService(mock, DefaultConfig())

	ex := exercise.Recall(item(t, curriculumtest.Rosa))
	got, err := svc.ExplainError(context.Background(), ex, "rosa", "rosam", 0)
	require.NoError(t, err)
	assert.Equal(t, "Direct objects of amō take -am.", got.Tip)

	assert.Equal(t, []string{"error-explanation"}, mock.Purposes)
	msg := mock.Calls[0].Messages[0].Content
	assert.Contains(t, msg, "Learner's answer: rosa")
	assert.Contains(t, msg, "Expected: rosam")
	assert.Contains(t, msg, "Score: 0.00")
}

func TestExplainConcept_Defaults(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{
		"explanation": "The ablative expresses means, manner and place.",
		"example": "gladiō pugnat: he fights with a sword"
	}`)})
	svc := NewService(mock, DefaultConfig())

	got, err := svc.ExplainConcept(context.Background(), concept(t, curriculumtest.Ablative), 0, "")
	require.NoError(t, err)
	assert.Contains(t, got.Example, "gladiō")

	assert.Equal(t, []string{"concept-explanation"}, mock.Purposes)
	msg := mock.Calls[0].Messages[0].Content
	assert.Contains(t, msg, "Focus: general overview")
	assert.Contains(t, msg, "Learner level: beginner")
}

func TestService_ProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrRateLimit{}})
	_, err := NewService(mock, DefaultConfig()).ExplainConcept(context.Background(), concept(t, curriculumtest.Ablative), 5, "ablative of means")

	var rl *llm.ErrRateLimit
	assert.True(t, errors.As(err, &rl))
	assert.Contains(t, err.Error(), "concept-explanation")
}
