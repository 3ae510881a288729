package curriculum_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/logos/internal/curriculum"
	"github.com/abhisek/logos/internal/curriculum/curriculumtest"
)

func conceptIDs(cs []curriculum.GrammarConcept) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.ID
	}
	return out
}

func TestGraph_TopologicalOrder(t *testing.T) {
	g, err := curriculum.NewGraph(curriculumtest.Concepts())
	require.NoError(t, err)

	order := conceptIDs(g.Concepts())
	require.Len(t, order, 4)
	for _, c := range g.Concepts() {
		for _, pre := range c.Prerequisites {
			assert.Less(t, g.TopoIndex(pre), g.TopoIndex(c.ID), "%s must precede %s", pre, c.ID)
		}
	}
	assert.Equal(t, []string{curriculumtest.FirstDeclension, curriculumtest.PresentActive}, conceptIDs(g.Roots()))
}

func TestGraph_PrerequisitesAndDependents(t *testing.T) {
	g, err := curriculum.NewGraph(curriculumtest.Concepts())
	require.NoError(t, err)

	assert.ElementsMatch(t,
		[]string{curriculumtest.FirstDeclension, curriculumtest.SecondDeclension},
		conceptIDs(g.Prerequisites(curriculumtest.Ablative)))
	assert.Equal(t,
		[]string{curriculumtest.Ablative, curriculumtest.SecondDeclension},
		conceptIDs(g.Dependents(curriculumtest.FirstDeclension)))
	assert.Nil(t, g.Prerequisites("missing"))
	assert.Equal(t, -1, g.TopoIndex("missing"))
}

func TestGraph_IsUnlocked(t *testing.T) {
	g, err := curriculum.NewGraph(curriculumtest.Concepts())
	require.NoError(t, err)

	met := map[string]bool{curriculumtest.FirstDeclension: true}
	has := func(id string) bool { return met[id] }
	assert.True(t, g.IsUnlocked(curriculumtest.SecondDeclension, has))
	assert.False(t, g.IsUnlocked(curriculumtest.Ablative, has))
	assert.False(t, g.IsUnlocked("missing", has))
}

func TestNewGraph_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		concepts []curriculum.GrammarConcept
		want     string
	}{
		{
			name: "duplicate",
			concepts: []curriculum.GrammarConcept{
				{ID: "a", Difficulty: 1}, {ID: "a", Difficulty: 1},
			},
			want: "duplicate concept id",
		},
		{
			name: "dangling",
			concepts: []curriculum.GrammarConcept{
				{ID: "a", Difficulty: 1, Prerequisites: []string{"zzz"}},
			},
			want: "unresolved prerequisite",
		},
		{
			name: "cycle",
			concepts: []curriculum.GrammarConcept{
				{ID: "r", Difficulty: 1},
				{ID: "a", Difficulty: 1, Prerequisites: []string{"b"}},
				{ID: "b", Difficulty: 1, Prerequisites: []string{"a"}},
			},
			want: "cycle detected involving concepts: a, b",
		},
		{
			name: "difficulty",
			concepts: []curriculum.GrammarConcept{
				{ID: "a", Difficulty: 11},
			},
			want: "difficulty must be 1-10",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := curriculum.NewGraph(tt.concepts)
			require.Error(t, err)
			assert.True(t, errors.Is(err, curriculum.ErrInvalidCurriculum))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestCatalog_Lookups(t *testing.T) {
	cat := curriculumtest.Latin()

	item, ok := cat.Item(curriculumtest.Rosa)
	require.True(t, ok)
	assert.Equal(t, "rose", item.Definition)
	assert.True(t, item.HasForms())

	_, ok = cat.Item("nope:noun")
	assert.False(t, ok)

	byLemma := cat.ItemsByLemma("AMO")
	require.Len(t, byLemma, 1)
	assert.Equal(t, curriculumtest.Amo, byLemma[0].ID)

	c, ok := cat.Concept(curriculumtest.Ablative)
	require.True(t, ok)
	assert.Equal(t, curriculum.CategorySyntax, c.Category)
}

func TestNewCatalog_RejectsBadVocabulary(t *testing.T) {
	items := []curriculum.VocabularyItem{
		{ID: "x:noun", Lemma: "x", POS: "noun", Difficulty: 1},
		{ID: "x:noun", Lemma: "x", POS: "noun", Difficulty: 1},
		{ID: "y:thing", Lemma: "y", POS: "thing", Difficulty: 1},
	}
	_, err := curriculum.NewCatalog(curriculum.Latin, nil, items)
	require.ErrorIs(t, err, curriculum.ErrInvalidCurriculum)
	assert.Contains(t, err.Error(), "duplicate vocabulary item")
	assert.Contains(t, err.Error(), `invalid part of speech "thing"`)
}
