package session

import (
	"time"

	"github.com/abhisek/logos/internal/exercise"
)

// KindSummary aggregates results of one exercise kind.
type KindSummary struct {
	Total    int     `json:"total"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}

// Summary aggregates a session's results.
type Summary struct {
	SessionID     string                        `json:"session_id"`
	LearnerID     string                        `json:"learner_id"`
	Type          Type                          `json:"type"`
	Total         int                           `json:"total"`
	Correct       int                           `json:"correct"`
	Incorrect     int                           `json:"incorrect"`
	Accuracy      float64                       `json:"accuracy"`
	AverageTimeMs float64                       `json:"average_time_ms"`
	StartedAt     time.Time                     `json:"started_at"`
	EndedAt       time.Time                     `json:"ended_at"`
	ByKind        map[exercise.Kind]KindSummary `json:"by_kind,omitempty"`
}

// Duration is the wall time between start and end.
func (s Summary) Duration() time.Duration {
	return s.EndedAt.Sub(s.StartedAt)
}

// ComputeSummary aggregates the plan's results. A plan with no results
// has zero accuracy.
func ComputeSummary(p *Plan, now time.Time) Summary {
	s := Summary{
		SessionID: p.ID,
		LearnerID: p.LearnerID,
		Type:      p.Type,
		Total:     len(p.Results),
		StartedAt: p.StartedAt,
		EndedAt:   now,
	}
	if s.Total == 0 {
		return s
	}

	s.ByKind = make(map[exercise.Kind]KindSummary)
	var totalMs int
	for _, r := range p.Results {
		totalMs += r.TimeTakenMs
		k := s.ByKind[r.Kind]
		k.Total++
		if r.Correct {
			s.Correct++
			k.Correct++
		}
		s.ByKind[r.Kind] = k
	}
	for kind, k := range s.ByKind {
		k.Accuracy = float64(k.Correct) / float64(k.Total)
		s.ByKind[kind] = k
	}

	s.Incorrect = s.Total - s.Correct
	s.Accuracy = float64(s.Correct) / float64(s.Total)
	s.AverageTimeMs = float64(totalMs) / float64(s.Total)
	return s
}
