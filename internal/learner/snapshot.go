// Package learner holds the per-learner aggregate the engine works on:
// capacity levels, vocabulary retention and grammar mastery records for
// one language, plus the curriculum they refer to.
package learner

import (
	"time"

	"github.com/abhisek/logos/internal/capacity"
	"github.com/abhisek/logos/internal/curriculum"
	"github.com/abhisek/logos/internal/mastery"
	"github.com/abhisek/logos/internal/spacedrep"
)

// Default strength thresholds.
const (
	WeakThreshold   = 0.3
	StrongThreshold = 0.7

	// ReviewThreshold is the number of due items that makes practice the
	// recommended session.
	ReviewThreshold = 5
)

// Snapshot is one learner's state in one language. It is owned by a
// single caller at a time; apply methods replace records in place.
type Snapshot struct {
	LearnerID     string
	Language      curriculum.Language
	Capacity      capacity.State
	LastSessionAt time.Time // zero when no session was ever completed
	Vocabulary    []spacedrep.Progress
	Grammar       []mastery.Progress
	Catalog       *curriculum.Catalog
}

// New returns an empty snapshot for a new learner.
func New(learnerID string, cat *curriculum.Catalog) *Snapshot {
	return &Snapshot{LearnerID: learnerID, Language: cat.Language, Catalog: cat}
}

// HasSessions reports whether the learner ever completed a session.
func (s *Snapshot) HasSessions() bool {
	return !s.LastSessionAt.IsZero()
}

// VocabularyFact resolves the curriculum item behind a progress record.
func (s *Snapshot) VocabularyFact(p spacedrep.Progress) (curriculum.VocabularyItem, bool) {
	if s.Catalog == nil {
		return curriculum.VocabularyItem{}, false
	}
	return s.Catalog.Item(p.ItemID)
}

// GrammarConcept resolves the curriculum concept behind a progress record.
func (s *Snapshot) GrammarConcept(p mastery.Progress) (curriculum.GrammarConcept, bool) {
	if s.Catalog == nil {
		return curriculum.GrammarConcept{}, false
	}
	return s.Catalog.Concept(p.ConceptID)
}

// DueForReview returns vocabulary due at now, most overdue first.
func (s *Snapshot) DueForReview(now time.Time) []spacedrep.Progress {
	return spacedrep.DueItems(s.Vocabulary, now)
}

// WeakVocabulary returns records with strength below threshold.
func (s *Snapshot) WeakVocabulary(threshold float64) []spacedrep.Progress {
	var out []spacedrep.Progress
	for _, v := range s.Vocabulary {
		if v.Strength < threshold {
			out = append(out, v)
		}
	}
	return out
}

// StrongVocabulary returns records with strength above threshold.
func (s *Snapshot) StrongVocabulary(threshold float64) []spacedrep.Progress {
	var out []spacedrep.Progress
	for _, v := range s.Vocabulary {
		if v.Strength > threshold {
			out = append(out, v)
		}
	}
	return out
}

// GrammarAtLevel returns grammar records at exactly level.
func (s *Snapshot) GrammarAtLevel(level mastery.Level) []mastery.Progress {
	var out []mastery.Progress
	for _, g := range s.Grammar {
		if g.Level == level {
			out = append(out, g)
		}
	}
	return out
}

// GrammarLevel returns the learner's level for a concept; Unknown when
// there is no record.
func (s *Snapshot) GrammarLevel(conceptID string) mastery.Level {
	if i := s.grammarIndex(conceptID); i >= 0 {
		return s.Grammar[i].Level
	}
	return mastery.Unknown
}

// NextGrammarConcepts lists concepts that are not yet introduced and whose
// prerequisites are all at Proficient or above, in topological order.
func (s *Snapshot) NextGrammarConcepts() []curriculum.GrammarConcept {
	if s.Catalog == nil {
		return nil
	}
	proficient := func(id string) bool { return s.GrammarLevel(id) >= mastery.Proficient }
	var out []curriculum.GrammarConcept
	for _, c := range s.Catalog.Concepts() {
		if s.GrammarLevel(c.ID) >= mastery.Introduced {
			continue
		}
		if s.Catalog.Graph().IsUnlocked(c.ID, proficient) {
			out = append(out, c)
		}
	}
	return out
}

// WeakestCapacity returns the capacity with the lowest level.
func (s *Snapshot) WeakestCapacity() capacity.Capacity {
	return s.Capacity.Weakest()
}

func (s *Snapshot) vocabularyIndex(itemID string) int {
	for i := range s.Vocabulary {
		if s.Vocabulary[i].ItemID == itemID {
			return i
		}
	}
	return -1
}

func (s *Snapshot) grammarIndex(conceptID string) int {
	for i := range s.Grammar {
		if s.Grammar[i].ConceptID == conceptID {
			return i
		}
	}
	return -1
}

// Vocab returns the progress record for an item.
func (s *Snapshot) Vocab(itemID string) (spacedrep.Progress, bool) {
	if i := s.vocabularyIndex(itemID); i >= 0 {
		return s.Vocabulary[i], true
	}
	return spacedrep.Progress{}, false
}

// GrammarProgress returns the mastery record for a concept.
func (s *Snapshot) GrammarProgress(conceptID string) (mastery.Progress, bool) {
	if i := s.grammarIndex(conceptID); i >= 0 {
		return s.Grammar[i], true
	}
	return mastery.Progress{}, false
}
