// Package curriculumtest provides a small Latin catalog for tests.
package curriculumtest

import "github.com/abhisek/logos/internal/curriculum"

// Concept ids in the fixture catalog.
const (
	FirstDeclension  = "first-declension"
	SecondDeclension = "second-declension"
	PresentActive    = "present-active"
	Ablative         = "ablative-uses"
)

// Item ids in the fixture catalog.
const (
	Rosa    = "rosa:noun"
	Amo     = "amō:verb"
	Et      = "et:conjunction"
	Dominus = "dominus:noun"
	Sed     = "sed:conjunction"
)

// Concepts returns the fixture grammar concepts.
func Concepts() []curriculum.GrammarConcept {
	return []curriculum.GrammarConcept{
		{ID: FirstDeclension, Name: "First Declension", Language: curriculum.Latin, Category: curriculum.CategoryMorphology, Subcategory: "nouns", Difficulty: 1, Description: "Feminine a-stem nouns."},
		{ID: PresentActive, Name: "Present Active Indicative", Language: curriculum.Latin, Category: curriculum.CategoryMorphology, Subcategory: "verbs", Difficulty: 2, Description: "Present tense of the first conjugation."},
		{ID: SecondDeclension, Name: "Second Declension", Language: curriculum.Latin, Category: curriculum.CategoryMorphology, Subcategory: "nouns", Difficulty: 2, Prerequisites: []string{FirstDeclension}, Description: "Masculine o-stem nouns."},
		{ID: Ablative, Name: "Uses of the Ablative", Language: curriculum.Latin, Category: curriculum.CategorySyntax, Subcategory: "cases", Difficulty: 4, Prerequisites: []string{FirstDeclension, SecondDeclension}, Description: "Means, manner and place."},
	}
}

// Items returns the fixture vocabulary.
func Items() []curriculum.VocabularyItem {
	return []curriculum.VocabularyItem{
		{
			ID: Rosa, Set: "core", Lemma: "rosa", POS: "noun", Definition: "rose", Language: curriculum.Latin, Difficulty: 1, FrequencyRank: 900,
			Forms: curriculum.Paradigm{Slots: map[string]string{
				"nominative_singular": "rosa",
				"genitive_singular":   "rosae",
				"accusative_singular": "rosam",
			}},
		},
		{
			ID: Amo, Set: "core", Lemma: "amō", POS: "verb", Definition: "to love", Language: curriculum.Latin, Difficulty: 1, FrequencyRank: 120,
			Forms: curriculum.Paradigm{Tables: map[string]map[string]string{
				"present_active_indicative": {"1s": "amō", "2s": "amās", "3s": "amat"},
			}},
		},
		{ID: Et, Set: "core", Lemma: "et", POS: "conjunction", Definition: "and", Language: curriculum.Latin, Difficulty: 1, FrequencyRank: 1},
		{ID: Dominus, Set: "core", Lemma: "dominus", POS: "noun", Definition: "master, lord", Language: curriculum.Latin, Difficulty: 2, FrequencyRank: 300},
		{ID: Sed, Set: "core", Lemma: "sed", POS: "conjunction", Definition: "but", Language: curriculum.Latin, Difficulty: 1, FrequencyRank: 20},
	}
}

// Latin returns the fixture catalog. It panics if the fixture is invalid.
func Latin() *curriculum.Catalog {
	c, err := curriculum.NewCatalog(curriculum.Latin, Concepts(), Items())
	if err != nil {
		panic(err)
	}
	return c
}
