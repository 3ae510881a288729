package exercise

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/abhisek/logos/internal/curriculum"
)

// DistractorCount is the number of wrong options in recognition items.
const DistractorCount = 3

// Direction is a translation direction.
type Direction string

const (
	ToEnglish Direction = "to_english"
	ToTarget  Direction = "to_target"
)

// Recall shows a lemma and asks for its meaning.
func Recall(item curriculum.VocabularyItem) Exercise {
	return Exercise{
		Kind:       DefinitionRecall,
		Prompt:     fmt.Sprintf("What is the meaning of '%s'?", item.Lemma),
		Expected:   item.Definition,
		Language:   item.Language,
		Difficulty: item.Difficulty,
		Payload:    VocabularyPayload{ItemID: item.ID, Lemma: item.Lemma},
	}
}

// ProduceForm asks for the form at a paradigm position.
func ProduceForm(item curriculum.VocabularyItem, form curriculum.Form) Exercise {
	return Exercise{
		Kind:       FormProduction,
		Prompt:     fmt.Sprintf("Give the %s form of '%s':", describeFeatures(form.Features), item.Lemma),
		Expected:   form.Text,
		Language:   item.Language,
		Difficulty: item.Difficulty,
		Payload:    FormPayload{ItemID: item.ID, Lemma: item.Lemma, Form: form.Text, Features: form.Features},
	}
}

// IdentifyForm shows an inflected form and asks for its position.
// The expected answer is a "key=value, ..." parse.
func IdentifyForm(item curriculum.VocabularyItem, form curriculum.Form) Exercise {
	return Exercise{
		Kind:       FormIdentification,
		Prompt:     fmt.Sprintf("Identify the morphological properties of '%s' (from %s):", form.Text, item.Lemma),
		Expected:   FormatParse(form.Features),
		Language:   item.Language,
		Difficulty: item.Difficulty,
		Payload:    FormPayload{ItemID: item.ID, Lemma: item.Lemma, Form: form.Text, Features: form.Features},
	}
}

// FillBlankInput describes a fill-in-the-blank drill.
type FillBlankInput struct {
	ConceptID  string
	Sentence   string
	Expected   string
	Hint       string
	ValidForms []string
	Language   curriculum.Language
	Difficulty int
}

// FillBlankDrill builds a fill-in-the-blank exercise. The hint, when set,
// is appended to the prompt.
func FillBlankDrill(in FillBlankInput) Exercise {
	prompt := "Fill in the blank: " + in.Sentence
	if in.Hint != "" {
		prompt += "\n(Hint: " + in.Hint + ")"
	}
	return Exercise{
		Kind:       FillBlank,
		Prompt:     prompt,
		Expected:   in.Expected,
		Language:   in.Language,
		Difficulty: in.Difficulty,
		Payload: FillBlankPayload{
			ConceptID:  in.ConceptID,
			Sentence:   in.Sentence,
			Hint:       in.Hint,
			ValidForms: in.ValidForms,
		},
	}
}

// Translation builds an unscored translation exercise. The kind follows
// the direction.
func Translation(source string, dir Direction, lang curriculum.Language, difficulty int) Exercise {
	kind := TranslationToEnglish
	label := "into English"
	if dir == ToTarget {
		kind = TranslationToTarget
		label = "into " + titleCase(string(lang))
	}
	return Exercise{
		Kind:       kind,
		Prompt:     fmt.Sprintf("Translate the following (%s):\n\n%s", label, source),
		Language:   lang,
		Difficulty: difficulty,
		Payload:    FreeFormPayload{SourceText: source, Direction: dir},
	}
}

// ComprehensionQuestion asks a question about a passage.
func ComprehensionQuestion(passage, question string, lang curriculum.Language, difficulty int) Exercise {
	return Exercise{
		Kind:       Comprehension,
		Prompt:     fmt.Sprintf("Read the passage and answer the question.\n\n%s\n\nQuestion: %s", passage, question),
		Language:   lang,
		Difficulty: difficulty,
		Payload:    FreeFormPayload{SourceText: passage, Question: question},
	}
}

// CompositionPrompt asks for free writing in the target language.
func CompositionPrompt(topic string, lang curriculum.Language, difficulty int) Exercise {
	return Exercise{
		Kind:       Composition,
		Prompt:     fmt.Sprintf("Write a short composition in %s: %s", titleCase(string(lang)), topic),
		Language:   lang,
		Difficulty: difficulty,
		Payload:    FreeFormPayload{SourceText: topic},
	}
}

// FormatParse renders features as the expected identification answer.
func FormatParse(f curriculum.Features) string {
	if f.Category == "" {
		return "slot=" + f.Slot
	}
	return "category=" + f.Category + ", slot=" + f.Slot
}

// ParseAnswer reads a "key=value, key=value" answer into a map. Parts
// without "=" are ignored.
func ParseAnswer(s string) map[string]string {
	out := make(map[string]string)
	for _, part := range strings.Split(s, ",") {
		k, v, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		out[k] = strings.TrimSpace(v)
	}
	return out
}

func describeFeatures(f curriculum.Features) string {
	if f.Category == "" {
		return "slot: " + f.Slot
	}
	return "category: " + f.Category + ", slot: " + f.Slot
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Generator builds exercises that need randomness. The source is injected
// so batches are reproducible under a fixed seed.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator returns a generator drawing from rng.
func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

// Recognition shows a lemma with the correct definition shuffled among
// distractors.
func (g *Generator) Recognition(item curriculum.VocabularyItem, distractors []string) Exercise {
	options := append([]string{item.Definition}, distractors...)
	g.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return Exercise{
		Kind:       DefinitionRecognition,
		Prompt:     fmt.Sprintf("Select the correct meaning of '%s':", item.Lemma),
		Expected:   item.Definition,
		Options:    options,
		Language:   item.Language,
		Difficulty: item.Difficulty,
		Payload:    VocabularyPayload{ItemID: item.ID, Lemma: item.Lemma},
	}
}

// Distractors picks up to count distinct definitions from pool, never the
// correct one.
func (g *Generator) Distractors(correct string, pool []string, count int) []string {
	seen := map[string]bool{correct: true}
	var candidates []string
	for _, d := range pool {
		if !seen[d] {
			seen[d] = true
			candidates = append(candidates, d)
		}
	}
	if count > len(candidates) {
		count = len(candidates)
	}
	if count <= 0 {
		return nil
	}
	out := make([]string, 0, count)
	for _, i := range g.rng.Perm(len(candidates))[:count] {
		out = append(out, candidates[i])
	}
	return out
}

// ForVocabulary picks a random exercise kind supported by item: recall or
// recognition always, form production or identification when the item has
// a paradigm. pool feeds recognition distractors.
func (g *Generator) ForVocabulary(item curriculum.VocabularyItem, pool []string) Exercise {
	kinds := []Kind{DefinitionRecall, DefinitionRecognition}
	forms := item.Forms.Flatten()
	if len(forms) > 0 {
		kinds = append(kinds, FormProduction, FormIdentification)
	}

	switch kinds[g.rng.IntN(len(kinds))] {
	case DefinitionRecognition:
		return g.Recognition(item, g.Distractors(item.Definition, pool, DistractorCount))
	case FormProduction:
		return ProduceForm(item, forms[g.rng.IntN(len(forms))])
	case FormIdentification:
		return IdentifyForm(item, forms[g.rng.IntN(len(forms))])
	default:
		return Recall(item)
	}
}
