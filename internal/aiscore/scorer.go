// Package aiscore judges free-form answers (translations, compositions,
// comprehension answers and open grammar drills) with an LLM.
package aiscore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/abhisek/logos/internal/curriculum"
	"github.com/abhisek/logos/internal/exercise"
	"github.com/abhisek/logos/internal/llm"
)

// MaxScore is the top of the raw scale.
const MaxScore = 5

// CorrectRatio is the share of the maximum needed to count as correct.
const CorrectRatio = 0.8

// ErrNotJudged is returned for exercises that are checked locally.
var ErrNotJudged = errors.New("aiscore: exercise is not judged by the model")

// ErrorDetail is one problem found in a response.
type ErrorDetail struct {
	Type        string `json:"type"`
	Location    string `json:"location"`
	Error       string `json:"error"`
	Expected    string `json:"expected"`
	Explanation string `json:"explanation"`
}

// Result is a judged response.
type Result struct {
	Score             float64       `json:"score"` // RawScore / MaxScore
	RawScore          int           `json:"raw_score"`
	MaxScore          int           `json:"max_score"`
	Correct           bool          `json:"correct"`
	Feedback          string        `json:"feedback"`
	CorrectedResponse string        `json:"corrected_response"`
	Errors            []ErrorDetail `json:"errors"`
}

type scoreOutput struct {
	Score             int           `json:"score"`
	MaxScore          int           `json:"max_score"`
	Errors            []ErrorDetail `json:"errors"`
	CorrectedResponse string        `json:"corrected_response"`
	Feedback          string        `json:"feedback"`
}

func (o scoreOutput) result() Result {
	maxScore := o.MaxScore
	if maxScore <= 0 {
		maxScore = MaxScore
	}
	raw := min(max(o.Score, 0), maxScore)
	return Result{
		Score:             float64(raw) / float64(maxScore),
		RawScore:          raw,
		MaxScore:          maxScore,
		Correct:           float64(raw) >= float64(maxScore)*CorrectRatio,
		Feedback:          o.Feedback,
		CorrectedResponse: o.CorrectedResponse,
		Errors:            o.Errors,
	}
}

// Config holds generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{MaxTokens: 1024, Temperature: 0.2}
}

// Scorer judges responses through an LLM provider.
type Scorer struct {
	provider llm.Provider
	cfg      Config
}

// New creates a Scorer.
func New(provider llm.Provider, cfg Config) *Scorer {
	return &Scorer{provider: provider, cfg: cfg}
}

// TranslationInput is a translation to judge.
type TranslationInput struct {
	Source    string
	Response  string
	Direction exercise.Direction
	Language  curriculum.Language
	Reference string
}

// ScoreTranslation judges a translation.
func (s *Scorer) ScoreTranslation(ctx context.Context, in TranslationInput) (Result, error) {
	lang := languageName(in.Language)
	direction := lang + " to English"
	if in.Direction == exercise.ToTarget {
		direction = "English to " + lang
	}
	return s.score(ctx, "translation-score", translationTemplate, map[string]string{
		"Direction": direction,
		"Language":  lang,
		"Source":    in.Source,
		"Response":  in.Response,
		"Reference": in.Reference,
	})
}

// ScoreComposition judges free writing against its prompt.
func (s *Scorer) ScoreComposition(ctx context.Context, lang curriculum.Language, prompt, response string, difficulty int) (Result, error) {
	return s.score(ctx, "composition-score", compositionTemplate, map[string]string{
		"Language": languageName(lang),
		"Level":    levelName(difficulty),
		"Prompt":   prompt,
		"Response": response,
	})
}

// ScoreComprehension judges an answer to a question about a passage.
func (s *Scorer) ScoreComprehension(ctx context.Context, lang curriculum.Language, passage, question, response string) (Result, error) {
	return s.score(ctx, "comprehension-score", comprehensionTemplate, map[string]string{
		"Language": languageName(lang),
		"Passage":  passage,
		"Question": question,
		"Response": response,
	})
}

// ScoreDrill judges an open grammar drill.
func (s *Scorer) ScoreDrill(ctx context.Context, lang curriculum.Language, concept, prompt, response string) (Result, error) {
	return s.score(ctx, "drill-score", drillTemplate, map[string]string{
		"Language": languageName(lang),
		"Concept":  concept,
		"Prompt":   prompt,
		"Response": response,
	})
}

// ScoreExercise judges response to ex according to its kind. Exercises
// that have a local answer key return ErrNotJudged.
func (s *Scorer) ScoreExercise(ctx context.Context, ex exercise.Exercise, response string) (Result, error) {
	if !ex.NeedsJudge() {
		return Result{}, ErrNotJudged
	}
	switch p := ex.Payload.(type) {
	case exercise.FreeFormPayload:
		switch {
		case ex.Kind.IsTranslation():
			return s.ScoreTranslation(ctx, TranslationInput{
				Source:    p.SourceText,
				Response:  response,
				Direction: p.Direction,
				Language:  ex.Language,
				Reference: p.Reference,
			})
		case ex.Kind == exercise.Comprehension:
			return s.ScoreComprehension(ctx, ex.Language, p.SourceText, p.Question, response)
		default:
			return s.ScoreComposition(ctx, ex.Language, ex.Prompt, response, ex.Difficulty)
		}
	case exercise.FillBlankPayload:
		return s.ScoreDrill(ctx, ex.Language, p.Hint, ex.Prompt, response)
	}
	return Result{}, fmt.Errorf("%w: %s", ErrNotJudged, ex.Kind)
}

func (s *Scorer) score(ctx context.Context, purpose string, t *template.Template, data map[string]string) (Result, error) {
	ctx = llm.WithPurpose(ctx, purpose)

	userMsg, err := render(t, data)
	if err != nil {
		return Result{}, fmt.Errorf("build %s prompt: %w", purpose, err)
	}

	req := llm.SingleTurn(systemPrompt, userMsg, ScoreSchema)
	req.MaxTokens = s.cfg.MaxTokens
	req.Temperature = s.cfg.Temperature
	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", purpose, err)
	}

	var out scoreOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return Result{}, fmt.Errorf("parse %s response: %w", purpose, err)
	}
	return out.result(), nil
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
