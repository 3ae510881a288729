package exercise_test

import (
	"encoding/json"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/logos/internal/curriculum"
	"github.com/abhisek/logos/internal/curriculum/curriculumtest"
	"github.com/abhisek/logos/internal/exercise"
)

func item(t *testing.T, id string) curriculum.VocabularyItem {
	t.Helper()
	it, ok := curriculumtest.Latin().Item(id)
	require.True(t, ok)
	return it
}

func seeded(seed uint64) *exercise.Generator {
	return exercise.NewGenerator(rand.New(rand.NewPCG(seed, seed+1)))
}

func TestRecall(t *testing.T) {
	ex := exercise.Recall(item(t, curriculumtest.Et))
	assert.Equal(t, exercise.DefinitionRecall, ex.Kind)
	assert.Equal(t, "What is the meaning of 'et'?", ex.Prompt)
	assert.Equal(t, "and", ex.Expected)
	id, ok := ex.ItemID()
	assert.True(t, ok)
	assert.Equal(t, curriculumtest.Et, id)
	assert.False(t, ex.NeedsJudge())
}

func TestRecognition_OptionsContainAnswerOnce(t *testing.T) {
	g := seeded(7)
	rosa := item(t, curriculumtest.Rosa)
	pool := []string{"rose", "and", "but", "to love", "master, lord", "and"}

	distractors := g.Distractors(rosa.Definition, pool, exercise.DistractorCount)
	require.Len(t, distractors, 3)
	assert.NotContains(t, distractors, "rose")

	ex := g.Recognition(rosa, distractors)
	assert.Len(t, ex.Options, 4)
	count := 0
	for _, o := range ex.Options {
		if o == "rose" {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.ElementsMatch(t, append([]string{"rose"}, distractors...), ex.Options)
}

func TestDistractors_SmallPool(t *testing.T) {
	g := seeded(1)
	assert.Equal(t, []string{"and"}, g.Distractors("rose", []string{"rose", "and", "and"}, 3))
	assert.Nil(t, g.Distractors("rose", []string{"rose"}, 3))
}

func TestProduceAndIdentifyForm(t *testing.T) {
	amo := item(t, curriculumtest.Amo)
	form := curriculum.Form{Text: "amat", Features: curriculum.Features{Category: "present_active_indicative", Slot: "3s"}}

	p := exercise.ProduceForm(amo, form)
	assert.Equal(t, exercise.FormProduction, p.Kind)
	assert.Equal(t, "Give the category: present_active_indicative, slot: 3s form of 'amō':", p.Prompt)
	assert.Equal(t, "amat", p.Expected)

	i := exercise.IdentifyForm(amo, form)
	assert.Equal(t, exercise.FormIdentification, i.Kind)
	assert.Equal(t, "category=present_active_indicative, slot=3s", i.Expected)
	assert.Equal(t, map[string]string{"category": "present_active_indicative", "slot": "3s"}, exercise.ParseAnswer(i.Expected))
}

func TestFillBlankDrill(t *testing.T) {
	ex := exercise.FillBlankDrill(exercise.FillBlankInput{
		ConceptID: "first-declension",
		Sentence:  "puella ___ amat",
		Expected:  "rosam",
		Hint:      "accusative",
		Language:  curriculum.Latin,
	})
	assert.Equal(t, "Fill in the blank: puella ___ amat\n(Hint: accusative)", ex.Prompt)
	cid, ok := ex.ConceptID()
	assert.True(t, ok)
	assert.Equal(t, "first-declension", cid)

	noHint := exercise.FillBlankDrill(exercise.FillBlankInput{Sentence: "___ est"})
	assert.Equal(t, "Fill in the blank: ___ est", noHint.Prompt)
	assert.True(t, noHint.NeedsJudge(), "empty expected response is delegated")
}

func TestTranslation_KindFollowsDirection(t *testing.T) {
	en := exercise.Translation("puella rosam amat", exercise.ToEnglish, curriculum.Latin, 3)
	assert.Equal(t, exercise.TranslationToEnglish, en.Kind)
	assert.Empty(t, en.Expected)
	assert.Contains(t, en.Prompt, "(into English)")

	tg := exercise.Translation("the girl loves the rose", exercise.ToTarget, curriculum.Latin, 3)
	assert.Equal(t, exercise.TranslationToTarget, tg.Kind)
	assert.Contains(t, tg.Prompt, "(into Latin)")
	assert.True(t, tg.NeedsJudge())
}

func TestForVocabulary_RespectsForms(t *testing.T) {
	g := seeded(42)
	et := item(t, curriculumtest.Et)
	rosa := item(t, curriculumtest.Rosa)
	pool := []string{"rose", "and", "but"}

	seen := map[exercise.Kind]bool{}
	for i := 0; i < 200; i++ {
		ex := g.ForVocabulary(et, pool)
		assert.Contains(t, []exercise.Kind{exercise.DefinitionRecall, exercise.DefinitionRecognition}, ex.Kind)
		seen[g.ForVocabulary(rosa, pool).Kind] = true
	}
	assert.Len(t, seen, 4, "items with forms reach every vocabulary kind")
}

func TestExercise_JSONRoundTrip(t *testing.T) {
	amo := item(t, curriculumtest.Amo)
	batch := []exercise.Exercise{
		exercise.Recall(amo),
		exercise.IdentifyForm(amo, curriculum.Form{Text: "amās", Features: curriculum.Features{Category: "present_active_indicative", Slot: "2s"}}),
		exercise.FillBlankDrill(exercise.FillBlankInput{ConceptID: "c", Sentence: "___", ValidForms: []string{"a", "b"}}),
		exercise.Translation("x", exercise.ToTarget, curriculum.Greek, 2),
	}
	data, err := json.Marshal(batch)
	require.NoError(t, err)

	var got []exercise.Exercise
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, batch, got)
}

func TestExercise_UnmarshalUnknownKind(t *testing.T) {
	var ex exercise.Exercise
	err := json.Unmarshal([]byte(`{"kind":"crossword","prompt":"?"}`), &ex)
	assert.Error(t, err)
}

func TestParseKind(t *testing.T) {
	k, err := exercise.ParseKind("dictation")
	require.NoError(t, err)
	assert.Equal(t, exercise.Dictation, k)
	assert.True(t, exercise.TranslationToTarget.IsTranslation())
	assert.False(t, exercise.FillBlank.FreeForm())
}
