// Package session sequences exercises for one learner, applies each scored
// result to the learner snapshot and summarizes the session.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/abhisek/logos/internal/capacity"
	"github.com/abhisek/logos/internal/exercise"
	"github.com/abhisek/logos/internal/learner"
	"github.com/abhisek/logos/internal/mastery"
	"github.com/abhisek/logos/internal/spacedrep"
)

// Effects reports what one recorded result changed.
type Effects struct {
	Review        *spacedrep.Progress       `json:"review,omitempty"`
	Transitions   []mastery.StateTransition `json:"transitions,omitempty"`
	Capacity      capacity.Capacity         `json:"capacity,omitempty"`
	CapacityDelta float64                   `json:"capacity_delta"`
	Adjustment    Adjustment                `json:"adjustment"`
}

// Orchestrator drives one plan against one snapshot. It is not safe for
// concurrent use.
type Orchestrator struct {
	snap   *learner.Snapshot
	plan   *Plan
	logger *slog.Logger
}

// NewOrchestrator binds a plan to the snapshot it updates.
func NewOrchestrator(snap *learner.Snapshot, plan *Plan, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		snap:   snap,
		plan:   plan,
		logger: logger.With("session_id", plan.ID, "learner_id", snap.LearnerID),
	}
}

// Plan returns the plan being driven.
func (o *Orchestrator) Plan() *Plan { return o.plan }

// Snapshot returns the snapshot being updated.
func (o *Orchestrator) Snapshot() *learner.Snapshot { return o.snap }

// Record attaches r to the current exercise, appends it to the plan and
// applies it to the snapshot: vocabulary results are reviewed, grammar
// results count as mastery attempts, and every kind with a capacity moves
// that capacity's level.
func (o *Orchestrator) Record(r ActivityResult, now time.Time) (Effects, error) {
	ex, ok := o.plan.NextExercise()
	if !ok {
		return Effects{}, ErrSessionComplete
	}
	r.Index = len(o.plan.Results)
	r.Kind = ex.Kind
	r.Prompt = ex.Prompt
	o.plan.RecordResult(r)

	var eff Effects
	if itemID, ok := ex.ItemID(); ok {
		q := spacedrep.QualityFromOutcome(r.Correct, r.TimeTakenMs, r.HintUsed)
		p, err := o.snap.ReviewVocabulary(itemID, q, now)
		if err != nil {
			return eff, err
		}
		eff.Review = &p
	}

	if conceptID, ok := ex.ConceptID(); ok {
		trs, err := o.grammarAttempt(conceptID, r.Correct, now)
		if err != nil {
			return eff, err
		}
		eff.Transitions = trs
	}

	if c, ok := capacity.ForExercise(ex.Kind); ok {
		delta, err := o.snap.UpdateCapacity(c, float64(ex.Difficulty), r.Score)
		if err != nil {
			return eff, fmt.Errorf("update capacity: %w", err)
		}
		eff.Capacity = c
		eff.CapacityDelta = delta
	}

	eff.Adjustment = ShouldAdaptDifficulty(o.plan.Results)
	o.logger.Info("result recorded",
		"index", r.Index,
		"kind", string(ex.Kind),
		"correct", r.Correct,
		"score", r.Score,
		"adjustment", string(eff.Adjustment),
	)
	for _, tr := range eff.Transitions {
		o.logger.Info("mastery transition", "transition", tr.String())
	}
	return eff, nil
}

// grammarAttempt introduces the concept during lessons, then counts the
// attempt. Outside lessons an unintroduced concept is logged and skipped.
func (o *Orchestrator) grammarAttempt(conceptID string, correct bool, now time.Time) ([]mastery.StateTransition, error) {
	var trs []mastery.StateTransition
	if o.plan.Type == TypeLesson {
		if _, tr := o.snap.CompleteLesson(conceptID); tr != nil {
			trs = append(trs, *tr)
		}
	}
	_, tr, err := o.snap.RecordGrammarAttempt(conceptID, correct, now)
	if errors.Is(err, mastery.ErrNotIntroduced) {
		o.logger.Warn("attempt on unintroduced concept", "concept_id", conceptID)
		return trs, nil
	}
	if err != nil {
		return trs, err
	}
	if tr != nil {
		trs = append(trs, *tr)
	}
	return trs, nil
}

// Current returns the exercise awaiting an answer.
func (o *Orchestrator) Current() (exercise.Exercise, bool) {
	return o.plan.NextExercise()
}

// Finish records the session's study time on the snapshot and returns the
// summary.
func (o *Orchestrator) Finish(now time.Time) Summary {
	o.snap.RecordStudyTime(o.plan.StartedAt, now)
	s := ComputeSummary(o.plan, now)
	o.logger.Info("session finished",
		"type", string(s.Type),
		"total", s.Total,
		"accuracy", s.Accuracy,
		"duration_ms", s.Duration().Milliseconds(),
	)
	return s
}
