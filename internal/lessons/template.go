package lessons

import (
	"fmt"
	"strings"

	"github.com/abhisek/logos/internal/capacity"
	"github.com/abhisek/logos/internal/curriculum"
	"github.com/abhisek/logos/internal/learner"
	"github.com/abhisek/logos/internal/session"
)

// BuildGrammarLesson renders a lesson for c from the curriculum alone. The
// summary steers practice toward the learner's weakest capacity.
func BuildGrammarLesson(c curriculum.GrammarConcept, weakest capacity.Capacity) Content {
	explanation := fmt.Sprintf("In this lesson, we will learn about %s.", c.Name)
	if c.Description != "" {
		explanation += " " + c.Description
	}
	area := string(c.Category)
	if c.Subcategory != "" {
		area += "/" + c.Subcategory
	}
	return Content{
		Title:       c.Name,
		Explanation: explanation,
		Summary:     fmt.Sprintf("Key points: %s (%s). Focus on %s exercises.", c.Name, area, weakest),
		PracticePrompts: []string{
			fmt.Sprintf("Practice: Apply %s in a sentence.", c.Name),
			fmt.Sprintf("Identify: Find examples of %s in a text.", c.Name),
		},
	}
}

// BuildVocabularyLesson renders a review of items.
func BuildVocabularyLesson(items []curriculum.VocabularyItem) Content {
	lemmas := make([]string, len(items))
	prompts := make([]string, len(items))
	for i, it := range items {
		lemmas[i] = it.Lemma
		prompts[i] = "Define: " + it.Lemma
	}
	return Content{
		Title:           "Vocabulary Review",
		Explanation:     fmt.Sprintf("Let's review these %d vocabulary items: %s", len(items), strings.Join(lemmas, ", ")),
		Summary:         fmt.Sprintf("Reviewed %d items. Keep practicing!", len(items)),
		PracticePrompts: prompts,
	}
}

// ForTopic builds the template lesson for t. It reports false when the
// topic is empty or names nothing in the learner's catalog.
func ForTopic(snap *learner.Snapshot, t session.Topic) (Content, bool) {
	if snap.Catalog == nil || t.Empty() {
		return Content{}, false
	}
	if t.ConceptID != "" {
		c, ok := snap.Catalog.Concept(t.ConceptID)
		if !ok {
			return Content{}, false
		}
		return BuildGrammarLesson(c, snap.WeakestCapacity()), true
	}
	items := topicItems(snap.Catalog, t.Lemmas)
	if len(items) == 0 {
		return Content{}, false
	}
	return BuildVocabularyLesson(items), true
}

// topicItems resolves lemmas to one catalog item each, in order.
func topicItems(cat *curriculum.Catalog, lemmas []string) []curriculum.VocabularyItem {
	var items []curriculum.VocabularyItem
	for _, l := range lemmas {
		if found := cat.ItemsByLemma(l); len(found) > 0 {
			items = append(items, found[0])
		}
	}
	return items
}
