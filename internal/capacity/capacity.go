// Package capacity tracks the four skill capacities with an ELO-style
// rating updated after every scored exercise.
package capacity

import (
	"errors"
	"fmt"
	"math"

	"github.com/abhisek/logos/internal/exercise"
)

// ErrUnknownCapacity is returned for a capacity name outside the four.
var ErrUnknownCapacity = errors.New("capacity: unknown capacity")

// Capacity names a skill dimension.
type Capacity string

const (
	Reading   Capacity = "reading"
	Writing   Capacity = "writing"
	Listening Capacity = "listening"
	Speaking  Capacity = "speaking"
)

// All returns the capacities in display order.
func All() []Capacity {
	return []Capacity{Reading, Writing, Listening, Speaking}
}

// Rating parameters.
const (
	KMax           = 2.0
	KMin           = 0.5
	KDecaySessions = 50
	ScalingFactor  = 4.0

	// MinutesPerSession converts study time into a session count for the
	// K-factor.
	MinutesPerSession = 30
)

// State holds the capacity levels for one learner and language.
type State struct {
	Reading           float64 `json:"reading"`
	Writing           float64 `json:"writing"`
	Listening         float64 `json:"listening"`
	Speaking          float64 `json:"speaking"`
	TotalStudyMinutes int     `json:"total_study_minutes"`
}

// Level returns the level of c.
func (s State) Level(c Capacity) (float64, error) {
	switch c {
	case Reading:
		return s.Reading, nil
	case Writing:
		return s.Writing, nil
	case Listening:
		return s.Listening, nil
	case Speaking:
		return s.Speaking, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCapacity, c)
}

func (s State) withLevel(c Capacity, v float64) State {
	switch c {
	case Reading:
		s.Reading = v
	case Writing:
		s.Writing = v
	case Listening:
		s.Listening = v
	case Speaking:
		s.Speaking = v
	}
	return s
}

// Sessions estimates completed sessions from study time.
func (s State) Sessions() int {
	return SessionsFromStudyTime(s.TotalStudyMinutes)
}

// SessionsFromStudyTime converts minutes into whole 30-minute sessions.
func SessionsFromStudyTime(minutes int) int {
	if minutes <= 0 {
		return 0
	}
	return minutes / MinutesPerSession
}

// Expected is the probability of success at level against difficulty.
func Expected(level, difficulty float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (difficulty-level)/ScalingFactor))
}

// KFactor decays linearly from KMax to KMin over KDecaySessions sessions.
func KFactor(sessions int) float64 {
	if sessions >= KDecaySessions {
		return KMin
	}
	if sessions < 0 {
		sessions = 0
	}
	return KMax - (KMax-KMin)*float64(sessions)/KDecaySessions
}

// Adjustment is the level change for one exercise.
func Adjustment(level, difficulty, score float64, sessions int) float64 {
	return KFactor(sessions) * (score - Expected(level, difficulty))
}

// Update applies one scored exercise to capacity c. Levels never drop
// below zero. The input state is returned unchanged on error.
func Update(s State, c Capacity, difficulty, score float64) (State, error) {
	level, err := s.Level(c)
	if err != nil {
		return s, err
	}
	next := math.Max(0, level+Adjustment(level, difficulty, score, s.Sessions()))
	return s.withLevel(c, next), nil
}

// Weakest returns the capacity with the lowest level; ties go to the
// earlier capacity in All order.
func (s State) Weakest() Capacity {
	best := Reading
	bestLevel := s.Reading
	for _, c := range All()[1:] {
		if l, _ := s.Level(c); l < bestLevel {
			best, bestLevel = c, l
		}
	}
	return best
}

var exerciseCapacity = map[exercise.Kind]Capacity{
	exercise.DefinitionRecall:      Reading,
	exercise.DefinitionRecognition: Reading,
	exercise.FormIdentification:    Reading,
	exercise.TranslationToEnglish:  Reading,
	exercise.Comprehension:         Reading,
	exercise.FormProduction:        Writing,
	exercise.FillBlank:             Writing,
	exercise.TranslationToTarget:   Writing,
	exercise.Composition:           Writing,
	exercise.ErrorCorrection:       Writing,
	exercise.Dictation:             Listening,
	exercise.OralComprehension:     Listening,
	exercise.Pronunciation:         Speaking,
	exercise.OralResponse:          Speaking,
}

// ForExercise returns the capacity exercised by kind.
func ForExercise(kind exercise.Kind) (Capacity, bool) {
	c, ok := exerciseCapacity[kind]
	return c, ok
}
