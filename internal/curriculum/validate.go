package curriculum

import (
	"fmt"
	"sort"
	"strings"
)

// validateConcepts performs the structural checks on a concept set and
// returns one error describing every problem found.
func validateConcepts(concepts []GrammarConcept) error {
	var errs []string

	ids := make(map[string]bool, len(concepts))
	for _, c := range concepts {
		if c.ID == "" {
			errs = append(errs, fmt.Sprintf("concept %q has no id", c.Name))
			continue
		}
		if ids[c.ID] {
			errs = append(errs, fmt.Sprintf("duplicate concept id: %q", c.ID))
		}
		ids[c.ID] = true
		if c.Difficulty < 1 || c.Difficulty > 10 {
			errs = append(errs, fmt.Sprintf("concept %q: difficulty must be 1-10, got %d", c.ID, c.Difficulty))
		}
		if c.Category != "" && !validCategory(c.Category) {
			errs = append(errs, fmt.Sprintf("concept %q: invalid category %q", c.ID, c.Category))
		}
	}

	for _, c := range concepts {
		for _, pre := range c.Prerequisites {
			if !ids[pre] {
				errs = append(errs, fmt.Sprintf("concept %q has unresolved prerequisite %q", c.ID, pre))
			}
		}
	}

	// Cycle check (Kahn)
	inDegree := make(map[string]int, len(concepts))
	adj := make(map[string][]string)
	for _, c := range concepts {
		inDegree[c.ID] = 0
	}
	for _, c := range concepts {
		for _, pre := range c.Prerequisites {
			if ids[pre] {
				inDegree[c.ID]++
				adj[pre] = append(adj[pre], c.ID)
			}
		}
	}
	var queue []string
	for id, d := range inDegree {
		if d == 0 {
			queue = append(queue, id)
		}
	}
	visited := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		visited++
		for _, dep := range adj[id] {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				queue = append(queue, dep)
			}
		}
	}
	if visited < len(inDegree) {
		var cyc []string
		for id, d := range inDegree {
			if d > 0 {
				cyc = append(cyc, id)
			}
		}
		sort.Strings(cyc)
		errs = append(errs, fmt.Sprintf("cycle detected involving concepts: %s", strings.Join(cyc, ", ")))
	}

	if len(concepts) > 0 {
		hasRoot := false
		for _, c := range concepts {
			if len(c.Prerequisites) == 0 {
				hasRoot = true
				break
			}
		}
		if !hasRoot {
			errs = append(errs, "no root concepts found (at least one concept must have no prerequisites)")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w:\n  %s", ErrInvalidCurriculum, strings.Join(errs, "\n  "))
	}
	return nil
}

// validateVocabulary checks item ranges and (lemma, pos) uniqueness.
func validateVocabulary(items []VocabularyItem) error {
	var errs []string
	seen := make(map[string]bool, len(items))
	for _, v := range items {
		if seen[v.ID] {
			errs = append(errs, fmt.Sprintf("duplicate vocabulary item: %s (%s)", v.Lemma, v.POS))
		}
		seen[v.ID] = true
		if v.Difficulty < 1 || v.Difficulty > 10 {
			errs = append(errs, fmt.Sprintf("item %q: difficulty must be 1-10, got %d", v.ID, v.Difficulty))
		}
		if !partsOfSpeech[v.POS] {
			errs = append(errs, fmt.Sprintf("item %q: invalid part of speech %q", v.ID, v.POS))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w:\n  %s", ErrInvalidCurriculum, strings.Join(errs, "\n  "))
	}
	return nil
}
