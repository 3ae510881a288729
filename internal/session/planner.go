package session

import (
	"time"

	"github.com/abhisek/logos/internal/exercise"
	"github.com/abhisek/logos/internal/learner"
	"github.com/abhisek/logos/internal/selector"
)

// Planner builds a session plan from the current learner state.
type Planner interface {
	// BuildPlan creates a plan of the recommended type.
	BuildPlan(snap *learner.Snapshot, now time.Time) *Plan
	// BuildPlanOfType creates a plan of type t.
	BuildPlanOfType(snap *learner.Snapshot, t Type, now time.Time) *Plan
}

// DefaultPlanner fills plans from a selector.
type DefaultPlanner struct {
	Selector selector.Selector
	Counts   Counts
}

// NewPlanner creates a new DefaultPlanner.
func NewPlanner(sel selector.Selector, counts Counts) *DefaultPlanner {
	return &DefaultPlanner{Selector: sel, Counts: counts}
}

// BuildPlan creates a plan of the type RecommendType picks.
func (p *DefaultPlanner) BuildPlan(snap *learner.Snapshot, now time.Time) *Plan {
	return p.BuildPlanOfType(snap, RecommendType(snap, now), now)
}

// BuildPlanOfType creates a plan of type t. Lesson plans open with a drill
// on the next topic's concept, ahead of the selected exercises.
func (p *DefaultPlanner) BuildPlanOfType(snap *learner.Snapshot, t Type, now time.Time) *Plan {
	count := p.Counts.For(t)
	topic := NextTopic(snap)

	var exs []exercise.Exercise
	if t == TypeLesson && topic.ConceptID != "" {
		if c, ok := snap.Catalog.Concept(topic.ConceptID); ok {
			exs = append(exs, selector.GrammarDrill(c))
		}
	}
	if remaining := count - len(exs); remaining > 0 {
		exs = append(exs, p.Selector.Select(snap, remaining, now)...)
	}

	plan := NewPlan(snap.LearnerID, t, exs, now)
	plan.Topic = topic.String()
	return plan
}
