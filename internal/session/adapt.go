package session

import (
	"time"

	"github.com/abhisek/logos/internal/learner"
)

// Adjustment is a difficulty recommendation.
type Adjustment string

const (
	Easier Adjustment = "easier"
	Same   Adjustment = "same"
	Harder Adjustment = "harder"
)

// AdaptWindow is the number of trailing results inspected.
const AdaptWindow = 5

// ShouldAdaptDifficulty looks at the last AdaptWindow results: three or
// more recent results all wrong means easier, a full window all right
// means harder.
func ShouldAdaptDifficulty(results []ActivityResult) Adjustment {
	recent := results
	if len(recent) > AdaptWindow {
		recent = recent[len(recent)-AdaptWindow:]
	}
	if len(recent) == 0 {
		return Same
	}

	correct := 0
	for _, r := range recent {
		if r.Correct {
			correct++
		}
	}
	switch {
	case correct == 0 && len(recent) >= 3:
		return Easier
	case correct == len(recent) && len(recent) >= AdaptWindow:
		return Harder
	}
	return Same
}

// RecommendType picks the session type for a learner: placement for a
// learner with no history, practice when reviews pile up, a lesson when a
// concept is ready to be introduced, practice otherwise.
func RecommendType(snap *learner.Snapshot, now time.Time) Type {
	switch {
	case !snap.HasSessions():
		return TypePlacement
	case len(snap.DueForReview(now)) >= learner.ReviewThreshold:
		return TypePractice
	case len(snap.NextGrammarConcepts()) > 0:
		return TypeLesson
	}
	return TypePractice
}

// Topic is what a session should focus on.
type Topic struct {
	ConceptID string   `json:"concept_id,omitempty"`
	Name      string   `json:"name,omitempty"`
	Lemmas    []string `json:"lemmas,omitempty"`
}

// Empty reports whether there is nothing to focus on.
func (t Topic) Empty() bool {
	return t.ConceptID == "" && len(t.Lemmas) == 0
}

// String renders the topic for display.
func (t Topic) String() string {
	switch {
	case t.ConceptID != "":
		return t.Name
	case len(t.Lemmas) > 0:
		s := "vocabulary review:"
		for _, l := range t.Lemmas {
			s += " " + l
		}
		return s
	}
	return ""
}

// maxTopicLemmas bounds the weak vocabulary listed in a topic.
const maxTopicLemmas = 5

// NextTopic returns the first concept ready for introduction, else up to
// five weak vocabulary lemmas, else an empty topic.
func NextTopic(snap *learner.Snapshot) Topic {
	if next := snap.NextGrammarConcepts(); len(next) > 0 {
		return Topic{ConceptID: next[0].ID, Name: next[0].Name}
	}
	var t Topic
	for _, rec := range snap.WeakVocabulary(learner.WeakThreshold) {
		item, ok := snap.VocabularyFact(rec)
		if !ok {
			continue
		}
		t.Lemmas = append(t.Lemmas, item.Lemma)
		if len(t.Lemmas) == maxTopicLemmas {
			break
		}
	}
	return t
}
