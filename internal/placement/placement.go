// Package placement scores a placement test and maps it to a starting
// curriculum unit.
package placement

// Category is a probe category. Alphabet probes are recorded but do not
// contribute to the score.
type Category string

const (
	Vocabulary Category = "vocabulary"
	Grammar    Category = "grammar"
	Reading    Category = "reading"
	Alphabet   Category = "alphabet"
)

// Category weights in the combined score.
const (
	VocabularyWeight = 0.40
	GrammarWeight    = 0.35
	ReadingWeight    = 0.25
)

// StartingUnit is a curriculum starting position.
type StartingUnit int

const (
	AbsoluteBeginner StartingUnit = 1
	SomeExposure     StartingUnit = 2
	Intermediate     StartingUnit = 4
	Advanced         StartingUnit = 7
	Fluent           StartingUnit = 9
)

func (u StartingUnit) String() string {
	switch u {
	case AbsoluteBeginner:
		return "absolute-beginner"
	case SomeExposure:
		return "some-exposure"
	case Intermediate:
		return "intermediate"
	case Advanced:
		return "advanced"
	case Fluent:
		return "fluent"
	}
	return "unit"
}

// Response is one answered probe.
type Response struct {
	Category   Category `json:"probe_type"`
	Difficulty int      `json:"difficulty"`
	Correct    bool     `json:"correct"`
	ItemID     string   `json:"item_id,omitempty"` // item id or concept id
}

// Result is the outcome of a placement test.
type Result struct {
	TotalScore             float64      `json:"total_score"`
	VocabularyScore        float64      `json:"vocabulary_score"`
	GrammarScore           float64      `json:"grammar_score"`
	ReadingScore           float64      `json:"reading_score"`
	StartingUnit           StartingUnit `json:"starting_unit"`
	DemonstratedVocabulary []string     `json:"demonstrated_vocabulary,omitempty"`
	DemonstratedGrammar    []string     `json:"demonstrated_grammar,omitempty"`
}

// UnitForScore maps a combined score in [0, 1] to a starting unit.
// Lower bounds are inclusive.
func UnitForScore(score float64) StartingUnit {
	switch {
	case score >= 0.80:
		return Fluent
	case score >= 0.60:
		return Advanced
	case score >= 0.30:
		return Intermediate
	case score >= 0.10:
		return SomeExposure
	}
	return AbsoluteBeginner
}

// Score computes per-category difficulty-weighted accuracy, the weighted
// total and the starting unit.
func Score(responses []Response) Result {
	if len(responses) == 0 {
		return Result{StartingUnit: AbsoluteBeginner}
	}

	byCat := make(map[Category][]Response)
	for _, r := range responses {
		byCat[r.Category] = append(byCat[r.Category], r)
	}

	res := Result{
		VocabularyScore: categoryScore(byCat[Vocabulary]),
		GrammarScore:    categoryScore(byCat[Grammar]),
		ReadingScore:    categoryScore(byCat[Reading]),
	}
	res.TotalScore = res.VocabularyScore*VocabularyWeight +
		res.GrammarScore*GrammarWeight +
		res.ReadingScore*ReadingWeight
	res.StartingUnit = UnitForScore(res.TotalScore)
	res.DemonstratedVocabulary = demonstrated(byCat[Vocabulary])
	res.DemonstratedGrammar = demonstrated(byCat[Grammar])
	return res
}

// ShouldStopEarly reports whether the test should end: at least three
// probes of difficulty 2 or less were answered and none was correct.
func ShouldStopEarly(responses []Response) bool {
	basic := 0
	for _, r := range responses {
		if r.Difficulty > 2 {
			continue
		}
		if r.Correct {
			return false
		}
		basic++
	}
	return basic >= 3
}

func categoryScore(rs []Response) float64 {
	var sum, total float64
	for _, r := range rs {
		w := float64(r.Difficulty)
		total += w
		if r.Correct {
			sum += w
		}
	}
	if total <= 0 {
		return 0
	}
	return sum / total
}

func demonstrated(rs []Response) []string {
	var out []string
	for _, r := range rs {
		if r.Correct && r.ItemID != "" {
			out = append(out, r.ItemID)
		}
	}
	return out
}
