package lessons

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/abhisek/logos/internal/curriculum"
	"github.com/abhisek/logos/internal/exercise"
	"github.com/abhisek/logos/internal/learner"
	"github.com/abhisek/logos/internal/llm"
	"github.com/abhisek/logos/internal/session"
)

// DefaultConceptLevel is used when ExplainConcept is given no level.
const DefaultConceptLevel = 3

var (
	// ErrNoItems is returned when a vocabulary lesson is asked for nothing.
	ErrNoItems = errors.New("lessons: no vocabulary items")
	// ErrNoTopic is returned when a topic names nothing to teach.
	ErrNoTopic = errors.New("lessons: nothing to teach")
)

// Config holds generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{MaxTokens: 2048, Temperature: 0.7}
}

// Service generates lessons and explanations through an LLM provider.
type Service struct {
	provider llm.Provider
	cfg      Config
}

// NewService creates a Service.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg}
}

// GenerateGrammarLesson writes a lesson on c, with a paradigm table when
// the concept has one.
func (s *Service) GenerateGrammarLesson(ctx context.Context, c curriculum.GrammarConcept) (Content, error) {
	var out Content
	err := s.generate(ctx, "grammar-lesson", grammarLessonTemplate, GrammarLessonSchema, map[string]string{
		"Language":    languageName(c.Language),
		"Name":        c.Name,
		"Category":    string(c.Category),
		"Subcategory": c.Subcategory,
		"Description": c.Description,
		"Level":       levelName(c.Difficulty),
	}, &out)
	if err != nil {
		return Content{}, err
	}
	out.Title = c.Name
	return out, nil
}

// GenerateVocabularyLesson writes a lesson on items, pitched at the
// hardest of them.
func (s *Service) GenerateVocabularyLesson(ctx context.Context, items []curriculum.VocabularyItem) (Content, error) {
	if len(items) == 0 {
		return Content{}, ErrNoItems
	}
	words := make([]string, len(items))
	difficulty := 0
	for i, it := range items {
		words[i] = it.Lemma
		if it.Definition != "" {
			words[i] += " (" + it.Definition + ")"
		}
		difficulty = max(difficulty, it.Difficulty)
	}

	var out Content
	err := s.generate(ctx, "vocabulary-lesson", vocabularyLessonTemplate, VocabularyLessonSchema, map[string]any{
		"Language": languageName(items[0].Language),
		"Words":    words,
		"Level":    levelName(difficulty),
	}, &out)
	if err != nil {
		return Content{}, err
	}
	out.Title = "Vocabulary Lesson"
	return out, nil
}

// GenerateForTopic writes the lesson for t: a grammar lesson when t names
// a concept, a vocabulary lesson for its lemmas otherwise.
func (s *Service) GenerateForTopic(ctx context.Context, snap *learner.Snapshot, t session.Topic) (Content, error) {
	if snap.Catalog == nil || t.Empty() {
		return Content{}, ErrNoTopic
	}
	if t.ConceptID != "" {
		c, ok := snap.Catalog.Concept(t.ConceptID)
		if !ok {
			return Content{}, fmt.Errorf("%w: unknown concept %q", ErrNoTopic, t.ConceptID)
		}
		return s.GenerateGrammarLesson(ctx, c)
	}
	return s.GenerateVocabularyLesson(ctx, topicItems(snap.Catalog, t.Lemmas))
}

// ExplainError explains why response to ex was wrong. expected may be
// empty when no reference answer exists.
func (s *Service) ExplainError(ctx context.Context, ex exercise.Exercise, response, expected string, score float64) (ErrorExplanation, error) {
	var out ErrorExplanation
	err := s.generate(ctx, "error-explanation", errorTemplate, ErrorExplanationSchema, map[string]string{
		"Language": languageName(ex.Language),
		"Kind":     string(ex.Kind),
		"Prompt":   ex.Prompt,
		"Response": response,
		"Expected": expected,
		"Score":    strconv.FormatFloat(score, 'f', 2, 64),
	}, &out)
	return out, err
}

// ExplainConcept explains c for a learner at level (1-10). An empty focus
// asks for a general overview.
func (s *Service) ExplainConcept(ctx context.Context, c curriculum.GrammarConcept, level int, focus string) (ConceptExplanation, error) {
	if level <= 0 {
		level = DefaultConceptLevel
	}
	if focus == "" {
		focus = "general overview"
	}
	var out ConceptExplanation
	err := s.generate(ctx, "concept-explanation", conceptTemplate, ConceptExplanationSchema, map[string]string{
		"Language": languageName(c.Language),
		"Name":     c.Name,
		"Level":    levelName(level),
		"Context":  focus,
	}, &out)
	return out, err
}

func (s *Service) generate(ctx context.Context, purpose string, t *template.Template, schema *llm.Schema, data any, out any) error {
	ctx = llm.WithPurpose(ctx, purpose)

	userMsg, err := render(t, data)
	if err != nil {
		return fmt.Errorf("build %s prompt: %w", purpose, err)
	}

	req := llm.SingleTurn(systemPrompt, userMsg, schema)
	req.MaxTokens = s.cfg.MaxTokens
	req.Temperature = s.cfg.Temperature
	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return fmt.Errorf("%s: %w", purpose, err)
	}
	if err := json.Unmarshal(resp.Content, out); err != nil {
		return fmt.Errorf("parse %s response: %w", purpose, err)
	}
	return nil
}

func languageName(l curriculum.Language) string {
	s := string(l)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func levelName(difficulty int) string {
	switch {
	case difficulty >= 7:
		return "advanced"
	case difficulty >= 4:
		return "intermediate"
	}
	return "beginner"
}
