package mastery

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotIntroduced is returned when attempts are recorded before the
	// concept's lesson was completed.
	ErrNotIntroduced = errors.New("mastery: concept not introduced; complete a lesson first")
	// ErrNotProficient is returned when mastery is confirmed below Proficient.
	ErrNotProficient = errors.New("mastery: learner must be proficient to confirm mastery")
)

// Thresholds.
const (
	ErrorRateAlpha = 0.1

	FamiliarMaxErrorRate = 0.40
	FamiliarMinAttempts  = 10

	ProficientMaxErrorRate = 0.15
	ProficientMinAttempts  = 20

	InactivityDays = 14
)

// regressionThreshold is the maintenance error rate per level.
var regressionThreshold = map[Level]float64{
	Familiar:   FamiliarMaxErrorRate,
	Proficient: ProficientMaxErrorRate,
	Mastered:   ProficientMaxErrorRate,
}

// Progress is a learner's mastery record for one grammar concept. A zero
// LastPracticed means the concept was never practiced.
type Progress struct {
	LearnerID       string    `json:"learner_id"`
	ConceptID       string    `json:"concept_id"`
	Level           Level     `json:"level"`
	TimesPracticed  int       `json:"times_practiced"`
	RecentErrorRate float64   `json:"recent_error_rate"`
	LastPracticed   time.Time `json:"last_practiced"`
}

// NewProgress returns an Unknown record.
func NewProgress(learnerID, conceptID string) Progress {
	return Progress{LearnerID: learnerID, ConceptID: conceptID}
}

func (p Progress) transition(to Level, trigger string) *StateTransition {
	return &StateTransition{ConceptID: p.ConceptID, From: p.Level, To: to, Trigger: trigger}
}

// CompleteLesson advances Unknown to Introduced. Other levels are unchanged.
func CompleteLesson(p Progress) (Progress, *StateTransition) {
	if p.Level != Unknown {
		return p, nil
	}
	tr := p.transition(Introduced, TriggerLessonComplete)
	p.Level = Introduced
	return p, tr
}

// RecordAttempt counts one practice attempt, updates the error-rate EMA and
// auto-advances at most one level. Proficient to Mastered only happens
// through ConfirmMastery.
func RecordAttempt(p Progress, correct bool, now time.Time) (Progress, *StateTransition, error) {
	if p.Level == Unknown {
		return p, nil, ErrNotIntroduced
	}

	p.TimesPracticed++
	p.LastPracticed = now
	errVal := 0.0
	if !correct {
		errVal = 1.0
	}
	p.RecentErrorRate = (1-ErrorRateAlpha)*p.RecentErrorRate + ErrorRateAlpha*errVal

	if p.Level == Introduced {
		tr := p.transition(Practicing, TriggerFirstAttempt)
		p.Level = Practicing
		return p, tr, nil
	}

	if CanAdvance(p) && (p.Level == Practicing || p.Level == Familiar) {
		tr := p.transition(p.Level+1, TriggerThreshold)
		p.Level++
		return p, tr, nil
	}
	return p, nil, nil
}

// ConfirmMastery advances Proficient to Mastered.
func ConfirmMastery(p Progress) (Progress, *StateTransition, error) {
	if p.Level != Proficient {
		return p, nil, fmt.Errorf("%w: currently %s", ErrNotProficient, p.Level)
	}
	tr := p.transition(Mastered, TriggerConfirmed)
	p.Level = Mastered
	return p, tr, nil
}

// CanAdvance reports whether the next level is reachable now. Unknown and
// Introduced always can; Proficient only by confirmation; Mastered never.
func CanAdvance(p Progress) bool {
	switch p.Level {
	case Unknown, Introduced:
		return true
	case Practicing:
		return p.RecentErrorRate < FamiliarMaxErrorRate && p.TimesPracticed >= FamiliarMinAttempts
	case Familiar:
		return p.RecentErrorRate < ProficientMaxErrorRate && p.TimesPracticed >= ProficientMinAttempts
	}
	return false
}

// CheckRegression drops one level from Familiar or above when the concept
// has been idle for more than InactivityDays and the error rate is at or
// above the level's maintenance threshold.
func CheckRegression(p Progress, now time.Time) (Progress, *StateTransition) {
	if p.Level <= Practicing || p.LastPracticed.IsZero() {
		return p, nil
	}
	idle := now.Sub(p.LastPracticed).Hours() / 24.0
	if idle <= InactivityDays {
		return p, nil
	}
	threshold, ok := regressionThreshold[p.Level]
	if !ok || p.RecentErrorRate < threshold {
		return p, nil
	}
	tr := p.transition(p.Level-1, TriggerInactivity)
	p.Level--
	return p, tr
}
