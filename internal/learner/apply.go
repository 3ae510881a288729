package learner

import (
	"fmt"
	"time"

	"github.com/abhisek/logos/internal/capacity"
	"github.com/abhisek/logos/internal/mastery"
	"github.com/abhisek/logos/internal/placement"
	"github.com/abhisek/logos/internal/spacedrep"
)

// ReviewVocabulary applies one SM-2 review to the item's record, creating
// the record on first exposure. On error the snapshot is unchanged.
func (s *Snapshot) ReviewVocabulary(itemID string, q spacedrep.Quality, now time.Time) (spacedrep.Progress, error) {
	i := s.vocabularyIndex(itemID)
	cur := spacedrep.NewProgress(s.LearnerID, itemID)
	if i >= 0 {
		cur = s.Vocabulary[i]
	}
	next, err := spacedrep.Review(cur, q, now)
	if err != nil {
		return cur, fmt.Errorf("review %s: %w", itemID, err)
	}
	if i >= 0 {
		s.Vocabulary[i] = next
	} else {
		s.Vocabulary = append(s.Vocabulary, next)
	}
	return next, nil
}

// CompleteLesson introduces a concept, creating its record if needed.
func (s *Snapshot) CompleteLesson(conceptID string) (mastery.Progress, *mastery.StateTransition) {
	i := s.grammarIndex(conceptID)
	cur := mastery.NewProgress(s.LearnerID, conceptID)
	if i >= 0 {
		cur = s.Grammar[i]
	}
	next, tr := mastery.CompleteLesson(cur)
	if i >= 0 {
		s.Grammar[i] = next
	} else {
		s.Grammar = append(s.Grammar, next)
	}
	return next, tr
}

// RecordGrammarAttempt records a practice attempt on a concept. The
// concept must have been introduced.
func (s *Snapshot) RecordGrammarAttempt(conceptID string, correct bool, now time.Time) (mastery.Progress, *mastery.StateTransition, error) {
	i := s.grammarIndex(conceptID)
	if i < 0 {
		return mastery.Progress{}, nil, fmt.Errorf("attempt on %s: %w", conceptID, mastery.ErrNotIntroduced)
	}
	next, tr, err := mastery.RecordAttempt(s.Grammar[i], correct, now)
	if err != nil {
		return s.Grammar[i], nil, fmt.Errorf("attempt on %s: %w", conceptID, err)
	}
	s.Grammar[i] = next
	return next, tr, nil
}

// ConfirmMastery promotes a Proficient concept to Mastered.
func (s *Snapshot) ConfirmMastery(conceptID string) (mastery.Progress, *mastery.StateTransition, error) {
	i := s.grammarIndex(conceptID)
	if i < 0 {
		return mastery.Progress{}, nil, fmt.Errorf("confirm %s: %w", conceptID, mastery.ErrNotProficient)
	}
	next, tr, err := mastery.ConfirmMastery(s.Grammar[i])
	if err != nil {
		return s.Grammar[i], nil, fmt.Errorf("confirm %s: %w", conceptID, err)
	}
	s.Grammar[i] = next
	return next, tr, nil
}

// CheckRegression runs the inactivity check on every grammar record and
// returns the transitions that fired.
func (s *Snapshot) CheckRegression(now time.Time) []mastery.StateTransition {
	var out []mastery.StateTransition
	for i := range s.Grammar {
		next, tr := mastery.CheckRegression(s.Grammar[i], now)
		s.Grammar[i] = next
		if tr != nil {
			out = append(out, *tr)
		}
	}
	return out
}

// RefreshStrength recomputes every vocabulary strength from elapsed time.
func (s *Snapshot) RefreshStrength(now time.Time) {
	for i := range s.Vocabulary {
		s.Vocabulary[i] = spacedrep.RefreshStrength(s.Vocabulary[i], now)
	}
}

// UpdateCapacity applies one scored exercise to capacity c and returns the
// level change.
func (s *Snapshot) UpdateCapacity(c capacity.Capacity, difficulty, score float64) (float64, error) {
	before, err := s.Capacity.Level(c)
	if err != nil {
		return 0, err
	}
	next, err := capacity.Update(s.Capacity, c, difficulty, score)
	if err != nil {
		return 0, err
	}
	s.Capacity = next
	after, _ := next.Level(c)
	return after - before, nil
}

// RecordStudyTime adds the session's duration to the study total and marks
// the session time. Non-positive durations only mark the time.
func (s *Snapshot) RecordStudyTime(start, end time.Time) {
	if mins := int(end.Sub(start) / time.Minute); mins > 0 {
		s.Capacity.TotalStudyMinutes += mins
	}
	s.LastSessionAt = end
}

// ApplyPlacement seeds material the placement test showed the learner
// knows: demonstrated concepts are introduced and demonstrated vocabulary
// gets a first successful review. Identifiers missing from the catalog
// are skipped. It returns the grammar transitions.
func (s *Snapshot) ApplyPlacement(res placement.Result, now time.Time) ([]mastery.StateTransition, error) {
	var out []mastery.StateTransition
	for _, id := range res.DemonstratedGrammar {
		if _, ok := s.Catalog.Concept(id); !ok {
			continue
		}
		if _, tr := s.CompleteLesson(id); tr != nil {
			tr.Trigger = mastery.TriggerPlacement
			out = append(out, *tr)
		}
	}
	for _, id := range res.DemonstratedVocabulary {
		if _, ok := s.Catalog.Item(id); !ok {
			continue
		}
		if _, seen := s.Vocab(id); seen {
			continue
		}
		if _, err := s.ReviewVocabulary(id, spacedrep.QualitySlow, now); err != nil {
			return out, err
		}
	}
	s.LastSessionAt = now
	return out, nil
}
