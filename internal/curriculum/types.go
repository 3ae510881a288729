// Package curriculum holds the immutable curriculum facts the engine reads:
// grammar concepts with their prerequisite graph and vocabulary items with
// their paradigm tables.
package curriculum

import (
	"errors"
	"fmt"
)

// ErrInvalidCurriculum is returned when curriculum data fails validation.
var ErrInvalidCurriculum = errors.New("curriculum: invalid curriculum")

// Language is a target language.
type Language string

const (
	Greek Language = "greek"
	Latin Language = "latin"
)

// Languages returns the supported target languages.
func Languages() []Language {
	return []Language{Greek, Latin}
}

// ParseLanguage validates a language name.
func ParseLanguage(s string) (Language, error) {
	switch Language(s) {
	case Greek, Latin:
		return Language(s), nil
	default:
		return "", fmt.Errorf("curriculum: unknown language %q", s)
	}
}

// Category groups grammar concepts.
type Category string

const (
	CategoryMorphology Category = "morphology"
	CategorySyntax     Category = "syntax"
	CategoryPhonology  Category = "phonology"
	CategoryProsody    Category = "prosody"
)

func validCategory(c Category) bool {
	switch c {
	case CategoryMorphology, CategorySyntax, CategoryPhonology, CategoryProsody:
		return true
	}
	return false
}

// Parts of speech accepted in vocabulary sets.
var partsOfSpeech = map[string]bool{
	"noun": true, "verb": true, "adjective": true, "adverb": true,
	"preposition": true, "conjunction": true, "particle": true,
	"pronoun": true, "interjection": true,
}

// GrammarConcept is a node in the prerequisite graph.
type GrammarConcept struct {
	ID            string
	Name          string
	Language      Language
	Category      Category
	Subcategory   string
	Difficulty    int // 1-10
	Prerequisites []string
	Description   string
}

// VocabularyItem is a single lexical entry.
type VocabularyItem struct {
	ID            string
	Set           string
	Lemma         string
	POS           string
	Definition    string
	Language      Language
	Difficulty    int // 1-10
	FrequencyRank int // 0 when unranked
	Forms         Paradigm
	Notes         string
}

// HasForms reports whether the item carries a non-empty paradigm.
func (v VocabularyItem) HasForms() bool {
	return !v.Forms.Empty()
}

// ItemID derives the stable identifier of a vocabulary entry.
func ItemID(lemma, pos string) string {
	return lemma + ":" + pos
}
