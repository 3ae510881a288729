package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/logos/internal/exercise"
)

// ActivityResult is the outcome of one answered exercise.
type ActivityResult struct {
	Index       int           `json:"index"`
	Kind        exercise.Kind `json:"kind"`
	Prompt      string        `json:"prompt"`
	Response    string        `json:"response"`
	Score       float64       `json:"score"`
	Correct     bool          `json:"correct"`
	Feedback    string        `json:"feedback,omitempty"`
	TimeTakenMs int           `json:"time_taken_ms"`
	HintUsed    bool          `json:"hint_used"`
}

// Plan is an ordered batch of exercises and the results recorded so far.
// A plan has a single owner; callers serialize access per plan ID.
type Plan struct {
	ID        string              `json:"id"`
	LearnerID string              `json:"learner_id"`
	Type      Type                `json:"type"`
	Topic     string              `json:"topic,omitempty"`
	Exercises []exercise.Exercise `json:"exercises"`
	Results   []ActivityResult    `json:"results"`
	StartedAt time.Time           `json:"started_at"`
	// ShownAt is when the current exercise was last displayed.
	ShownAt   time.Time           `json:"shown_at,omitzero"`
}

// NewPlan creates a plan with a fresh ID.
func NewPlan(learnerID string, t Type, exercises []exercise.Exercise, now time.Time) *Plan {
	return &Plan{
		ID:        uuid.NewString(),
		LearnerID: learnerID,
		Type:      t,
		Exercises: exercises,
		StartedAt: now,
		ShownAt:   now,
	}
}

// Status derives the plan state from the recorded results. A plan with no
// exercises is complete.
func (p *Plan) Status() Status {
	switch {
	case len(p.Results) >= len(p.Exercises):
		return StatusComplete
	case len(p.Results) > 0:
		return StatusInProgress
	}
	return StatusPlanned
}

// NextExercise returns the exercise at the current result count.
func (p *Plan) NextExercise() (exercise.Exercise, bool) {
	i := len(p.Results)
	if i >= len(p.Exercises) {
		return exercise.Exercise{}, false
	}
	return p.Exercises[i], true
}

// Remaining is the number of unanswered exercises.
func (p *Plan) Remaining() int {
	return max(0, len(p.Exercises)-len(p.Results))
}

// MarkShown records that the current exercise was displayed at now.
func (p *Plan) MarkShown(now time.Time) {
	p.ShownAt = now
}

// ElapsedMs is the time since the current exercise was shown, or 0 when
// that is unknown.
func (p *Plan) ElapsedMs(now time.Time) int {
	if p.ShownAt.IsZero() || now.Before(p.ShownAt) {
		return 0
	}
	return int(now.Sub(p.ShownAt).Milliseconds())
}

// RecordResult appends r as given.
func (p *Plan) RecordResult(r ActivityResult) {
	p.Results = append(p.Results, r)
}
