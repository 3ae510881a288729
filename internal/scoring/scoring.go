// Package scoring grades closed-form answers by string comparison that
// ignores case, surrounding and repeated whitespace and diacritics.
package scoring

import (
	"fmt"
	"sort"
	"strings"

	"github.com/abhisek/logos/internal/textnorm"
)

// Result is the grade for one response.
type Result struct {
	Score    float64 `json:"score"` // 0-1
	Correct  bool    `json:"correct"`
	Feedback string  `json:"feedback"`
	Expected string  `json:"expected"`
}

const feedbackCorrect = "Correct!"

func pass(expected string) Result {
	return Result{Score: 1, Correct: true, Feedback: feedbackCorrect, Expected: expected}
}

func fail(expected, feedback string) Result {
	return Result{Feedback: feedback, Expected: expected}
}

// Exact compares response and expected after folding.
func Exact(response, expected string) Result {
	if textnorm.Fold(response) == textnorm.Fold(expected) {
		return pass(expected)
	}
	return fail(expected, "Expected: "+expected)
}

// Form accepts any of validForms. lemma is reported on failure.
func Form(response, lemma string, validForms []string) Result {
	if matchAny(response, validForms) {
		return pass(lemma)
	}
	return fail(lemma, "Expected a form of: "+lemma)
}

// Synonym accepts expected or any synonym.
func Synonym(response, expected string, synonyms []string) Result {
	if matchAny(response, append([]string{expected}, synonyms...)) {
		return pass(expected)
	}
	return fail(expected, "Expected: "+expected)
}

// FillBlank accepts expected or any of validForms.
func FillBlank(response, expected string, validForms []string) Result {
	if matchAny(response, append([]string{expected}, validForms...)) {
		return pass(expected)
	}
	return fail(expected, "Expected: "+expected)
}

// Parsing gives partial credit over the fields in expected. Extra fields
// in response are ignored. An empty expectation scores full marks.
func Parsing(response, expected map[string]string) Result {
	if len(expected) == 0 {
		return Result{Score: 1, Correct: true, Feedback: "No fields to check."}
	}

	keys := make([]string, 0, len(expected))
	for k := range expected {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var wrong []string
	for _, k := range keys {
		if textnorm.Fold(response[k]) != textnorm.Fold(expected[k]) {
			wrong = append(wrong, k)
		}
	}

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + expected[k]
	}
	exp := strings.Join(parts, ", ")

	res := Result{
		Score:    float64(len(keys)-len(wrong)) / float64(len(keys)),
		Correct:  len(wrong) == 0,
		Feedback: feedbackCorrect,
		Expected: exp,
	}
	if !res.Correct {
		msgs := make([]string, len(wrong))
		for i, k := range wrong {
			msgs[i] = fmt.Sprintf("%s: expected '%s'", k, expected[k])
		}
		res.Feedback = "Incorrect fields: " + strings.Join(msgs, ", ")
	}
	return res
}

// Synonyms splits a dictionary definition such as "master, lord; owner"
// into its alternative glosses.
func Synonyms(definition string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(definition, func(r rune) bool { return r == ',' || r == ';' }) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func matchAny(response string, candidates []string) bool {
	key := textnorm.Fold(response)
	if key == "" {
		return false
	}
	for _, c := range candidates {
		if textnorm.Fold(c) == key {
			return true
		}
	}
	return false
}
