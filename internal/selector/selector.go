// Package selector builds a batch of exercises for a learner snapshot.
package selector

import (
	"math/rand/v2"
	"time"

	"github.com/abhisek/logos/internal/curriculum"
	"github.com/abhisek/logos/internal/exercise"
	"github.com/abhisek/logos/internal/learner"
	"github.com/abhisek/logos/internal/spacedrep"
)

// Config holds the selector thresholds.
type Config struct {
	WeakThreshold   float64 `toml:"weak_threshold"`
	StrongThreshold float64 `toml:"strong_threshold"`
	ReviewMix       float64 `toml:"review_mix"` // share of count given to strong items
}

// DefaultConfig returns the default thresholds.
func DefaultConfig() Config {
	return Config{
		WeakThreshold:   learner.WeakThreshold,
		StrongThreshold: learner.StrongThreshold,
		ReviewMix:       0.10,
	}
}

// Selector picks exercises for a snapshot.
type Selector interface {
	Select(snap *learner.Snapshot, count int, now time.Time) []exercise.Exercise
}

// Adaptive fills a batch in priority order: due vocabulary, weak
// vocabulary, a small slice of strong vocabulary as recall review, then
// grammar drills. The batch is shuffled and cut to count.
type Adaptive struct {
	cfg Config
	rng *rand.Rand
	gen *exercise.Generator
}

// New returns an Adaptive selector drawing randomness from rng.
func New(cfg Config, rng *rand.Rand) *Adaptive {
	return &Adaptive{cfg: cfg, rng: rng, gen: exercise.NewGenerator(rng)}
}

type batch struct {
	count int
	out   []exercise.Exercise
	used  map[string]bool
}

func (b *batch) full() bool { return len(b.out) >= b.count }

func (b *batch) add(key string, ex exercise.Exercise) {
	b.used[key] = true
	b.out = append(b.out, ex)
}

// Select returns at most count exercises. A snapshot with nothing to work
// on yields an empty batch.
func (a *Adaptive) Select(snap *learner.Snapshot, count int, now time.Time) []exercise.Exercise {
	if count <= 0 {
		return nil
	}
	b := &batch{count: count, used: make(map[string]bool)}
	pool := definitionPool(snap)

	vocab := func(records []spacedrep.Progress, limit int, render func(curriculum.VocabularyItem) exercise.Exercise) {
		added := 0
		for _, rec := range records {
			if b.full() || added >= limit {
				return
			}
			if b.used[rec.ItemID] {
				continue
			}
			item, ok := snap.VocabularyFact(rec)
			if !ok {
				continue
			}
			b.add(rec.ItemID, render(item))
			added++
		}
	}
	random := func(item curriculum.VocabularyItem) exercise.Exercise {
		return a.gen.ForVocabulary(item, pool)
	}

	vocab(snap.DueForReview(now), count, random)
	vocab(snap.WeakVocabulary(a.cfg.WeakThreshold), count, random)
	vocab(snap.StrongVocabulary(a.cfg.StrongThreshold), a.reviewSlots(count), exercise.Recall)

	for _, g := range snap.Grammar {
		if b.full() {
			break
		}
		key := "concept:" + g.ConceptID
		if b.used[key] {
			continue
		}
		c, ok := snap.GrammarConcept(g)
		if !ok {
			continue
		}
		b.add(key, GrammarDrill(c))
	}

	a.rng.Shuffle(len(b.out), func(i, j int) { b.out[i], b.out[j] = b.out[j], b.out[i] })
	if len(b.out) > count {
		b.out = b.out[:count]
	}
	return b.out
}

func (a *Adaptive) reviewSlots(count int) int {
	return max(1, int(float64(count)*a.cfg.ReviewMix))
}

// GrammarDrill renders a concept as an open fill-blank drill. The expected
// answer is left empty so the response goes to a judge.
func GrammarDrill(c curriculum.GrammarConcept) exercise.Exercise {
	return exercise.FillBlankDrill(exercise.FillBlankInput{
		ConceptID:  c.ID,
		Sentence:   "[" + c.Name + "] exercise: ___",
		Hint:       c.Name,
		Language:   c.Language,
		Difficulty: c.Difficulty,
	})
}

// definitionPool collects distractor candidates from every vocabulary
// record the learner has seen.
func definitionPool(snap *learner.Snapshot) []string {
	var pool []string
	for _, rec := range snap.Vocabulary {
		if item, ok := snap.VocabularyFact(rec); ok {
			pool = append(pool, item.Definition)
		}
	}
	return pool
}
