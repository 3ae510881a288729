package session

import (
	"errors"
	"fmt"
)

// ErrSessionComplete is returned when a result is recorded on a finished plan.
var ErrSessionComplete = errors.New("session: all exercises already answered")

// Type is the kind of session.
type Type string

const (
	TypePlacement  Type = "placement"
	TypeLesson     Type = "lesson"
	TypePractice   Type = "practice"
	TypeEvaluation Type = "evaluation"
)

// ParseType parses a session type name.
func ParseType(s string) (Type, error) {
	switch t := Type(s); t {
	case TypePlacement, TypeLesson, TypePractice, TypeEvaluation:
		return t, nil
	}
	return "", fmt.Errorf("session: unknown type %q", s)
}

// Status is the state of a plan.
type Status string

const (
	StatusPlanned    Status = "planned"
	StatusInProgress Status = "in_progress"
	StatusComplete   Status = "complete"
)

// Default exercise counts per session type.
const (
	DefaultPracticeCount   = 15
	DefaultLessonCount     = 8
	DefaultEvaluationCount = 20
)

// Counts holds the number of exercises per session type.
type Counts struct {
	Practice   int `toml:"practice_count"`
	Lesson     int `toml:"lesson_count"`
	Evaluation int `toml:"evaluation_count"`
}

// DefaultCounts returns the default exercise counts.
func DefaultCounts() Counts {
	return Counts{
		Practice:   DefaultPracticeCount,
		Lesson:     DefaultLessonCount,
		Evaluation: DefaultEvaluationCount,
	}
}

// For returns the exercise count for t. Placement sessions carry no
// exercises; their probes are scored by the placement package.
func (c Counts) For(t Type) int {
	switch t {
	case TypePractice:
		return c.Practice
	case TypeLesson:
		return c.Lesson
	case TypeEvaluation:
		return c.Evaluation
	}
	return 0
}
