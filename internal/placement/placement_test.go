package placement

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore_Empty(t *testing.T) {
	res := Score(nil)
	assert.Equal(t, 0.0, res.TotalScore)
	assert.Equal(t, AbsoluteBeginner, res.StartingUnit)
}

func TestScore_AllCorrect(t *testing.T) {
	res := Score([]Response{
		{Category: Vocabulary, Difficulty: 1, Correct: true},
		{Category: Grammar, Difficulty: 7, Correct: true},
		{Category: Reading, Difficulty: 3, Correct: true},
	})
	assert.InDelta(t, 1.0, res.TotalScore, 1e-9)
	assert.Equal(t, Fluent, res.StartingUnit)
}

func TestScore_VocabularyOnly(t *testing.T) {
	res := Score([]Response{
		{Category: Vocabulary, Difficulty: 2, Correct: true, ItemID: "rosa:noun"},
		{Category: Vocabulary, Difficulty: 5, Correct: true, ItemID: "amō:verb"},
		{Category: Alphabet, Difficulty: 1, Correct: true},
	})
	assert.Equal(t, 0.40, res.TotalScore)
	assert.Equal(t, Intermediate, res.StartingUnit)
	assert.Equal(t, []string{"rosa:noun", "amō:verb"}, res.DemonstratedVocabulary)
	assert.Empty(t, res.DemonstratedGrammar)
}

func TestScore_DifficultyWeighting(t *testing.T) {
	res := Score([]Response{
		{Category: Grammar, Difficulty: 1, Correct: false, ItemID: "g1"},
		{Category: Grammar, Difficulty: 3, Correct: true, ItemID: "g2"},
		{Category: Grammar, Difficulty: 4, Correct: true},
	})
	assert.InDelta(t, 7.0/8.0, res.GrammarScore, 1e-9)
	assert.InDelta(t, 7.0/8.0*GrammarWeight, res.TotalScore, 1e-9)
	assert.Equal(t, []string{"g2"}, res.DemonstratedGrammar)
}

func TestUnitForScore(t *testing.T) {
	tests := []struct {
		score float64
		want  StartingUnit
	}{
		{0, AbsoluteBeginner},
		{0.099, AbsoluteBeginner},
		{0.10, SomeExposure},
		{0.30, Intermediate},
		{0.59, Intermediate},
		{0.60, Advanced},
		{0.80, Fluent},
		{1, Fluent},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, UnitForScore(tt.score), "score %v", tt.score)
	}
}

func TestShouldStopEarly(t *testing.T) {
	wrong := func(d int) Response { return Response{Category: Vocabulary, Difficulty: d} }
	right := func(d int) Response { return Response{Category: Vocabulary, Difficulty: d, Correct: true} }

	assert.False(t, ShouldStopEarly(nil))
	assert.False(t, ShouldStopEarly([]Response{wrong(1), wrong(2)}))
	assert.True(t, ShouldStopEarly([]Response{wrong(1), wrong(2), wrong(1)}))
	assert.True(t, ShouldStopEarly([]Response{wrong(1), right(5), wrong(2), wrong(1)}))
	assert.False(t, ShouldStopEarly([]Response{wrong(1), right(2), wrong(2), wrong(1)}))
}
