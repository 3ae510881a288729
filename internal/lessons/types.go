// Package lessons produces lesson content for grammar concepts and weak
// vocabulary, and explains mistakes and concepts on request. Template
// lessons need nothing but the curriculum; generated lessons and
// explanations go through an LLM provider.
package lessons

// Example is a sentence illustrating the lesson, with its translation.
type Example struct {
	Text        string `json:"text"`
	Translation string `json:"translation"`
}

// ParadigmCell is one labelled form of a paradigm table, e.g.
// "nominative singular" / "puella".
type ParadigmCell struct {
	Label string `json:"label"`
	Form  string `json:"form"`
}

// Content is a lesson ready for display.
type Content struct {
	Title           string         `json:"title"`
	Explanation     string         `json:"explanation"`
	Examples        []Example      `json:"examples"`
	Paradigm        []ParadigmCell `json:"paradigm_table"` // empty when the topic has none
	Summary         string         `json:"summary"`
	PracticePrompts []string       `json:"practice_prompts"`
}

// ErrorExplanation says why an answer was wrong and how to avoid it.
type ErrorExplanation struct {
	Explanation string `json:"explanation"`
	Tip         string `json:"tip"`
}

// ConceptExplanation is an on-demand explanation of a concept.
type ConceptExplanation struct {
	Explanation string `json:"explanation"`
	Example     string `json:"example"`
}
