package curriculum

import "github.com/abhisek/logos/internal/textnorm"

// Catalog is the read-only curriculum for one language. It is safe to share
// between goroutines.
type Catalog struct {
	Language Language
	graph    *Graph
	items    []VocabularyItem
	byItem   map[string]int
	byLemma  map[string][]int
}

// NewCatalog validates and indexes the curriculum for a language.
func NewCatalog(lang Language, concepts []GrammarConcept, items []VocabularyItem) (*Catalog, error) {
	g, err := NewGraph(concepts)
	if err != nil {
		return nil, err
	}
	if err := validateVocabulary(items); err != nil {
		return nil, err
	}
	c := &Catalog{
		Language: lang,
		graph:    g,
		items:    append([]VocabularyItem(nil), items...),
		byItem:   make(map[string]int, len(items)),
		byLemma:  make(map[string][]int),
	}
	for i, v := range c.items {
		c.byItem[v.ID] = i
		key := textnorm.Fold(v.Lemma)
		c.byLemma[key] = append(c.byLemma[key], i)
	}
	return c, nil
}

// Graph returns the prerequisite graph.
func (c *Catalog) Graph() *Graph { return c.graph }

// Concept looks up a grammar concept.
func (c *Catalog) Concept(id string) (GrammarConcept, bool) {
	return c.graph.Concept(id)
}

// Concepts returns all concepts in topological order.
func (c *Catalog) Concepts() []GrammarConcept {
	return c.graph.Concepts()
}

// Item looks up a vocabulary item.
func (c *Catalog) Item(id string) (VocabularyItem, bool) {
	i, ok := c.byItem[id]
	if !ok {
		return VocabularyItem{}, false
	}
	return c.items[i], true
}

// Items returns all vocabulary items in load order.
func (c *Catalog) Items() []VocabularyItem {
	return append([]VocabularyItem(nil), c.items...)
}

// ItemsByLemma returns the items whose lemma folds to the same key.
func (c *Catalog) ItemsByLemma(lemma string) []VocabularyItem {
	var out []VocabularyItem
	for _, i := range c.byLemma[textnorm.Fold(lemma)] {
		out = append(out, c.items[i])
	}
	return out
}
