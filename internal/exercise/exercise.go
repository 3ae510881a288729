// Package exercise builds presentable exercises from curriculum facts.
// Each exercise carries a payload variant matching its kind: closed-form
// kinds hold the fields a local scorer needs, open-form kinds hold free
// text for an external judge.
package exercise

import (
	"encoding/json"
	"fmt"

	"github.com/abhisek/logos/internal/curriculum"
)

// Exercise is a generated, ephemeral exercise. Expected is empty when
// scoring is delegated to the AI scorer.
type Exercise struct {
	Kind       Kind
	Prompt     string
	Expected   string
	Options    []string
	Language   curriculum.Language
	Difficulty int
	Payload    Payload
}

// Payload is the kind-specific part of an exercise.
type Payload interface {
	payload()
}

// VocabularyPayload backs definition recall and recognition.
type VocabularyPayload struct {
	ItemID string `json:"item_id"`
	Lemma  string `json:"lemma"`
}

// FormPayload backs form production and identification.
type FormPayload struct {
	ItemID   string              `json:"item_id"`
	Lemma    string              `json:"lemma"`
	Form     string              `json:"form"`
	Features curriculum.Features `json:"features"`
}

// FillBlankPayload backs grammar drills. ValidForms lists alternatives
// accepted besides Expected.
type FillBlankPayload struct {
	ConceptID  string   `json:"concept_id,omitempty"`
	Sentence   string   `json:"sentence"`
	Hint       string   `json:"hint,omitempty"`
	ValidForms []string `json:"valid_forms,omitempty"`
}

// FreeFormPayload backs kinds judged by the AI scorer.
type FreeFormPayload struct {
	SourceText string    `json:"source_text"`
	Direction  Direction `json:"direction,omitempty"`
	Reference  string    `json:"reference,omitempty"`
	Question   string    `json:"question,omitempty"`
}

func (VocabularyPayload) payload() {}
func (FormPayload) payload()       {}
func (FillBlankPayload) payload()  {}
func (FreeFormPayload) payload()   {}

// ItemID returns the vocabulary item the exercise drills, if any.
func (e Exercise) ItemID() (string, bool) {
	switch p := e.Payload.(type) {
	case VocabularyPayload:
		return p.ItemID, p.ItemID != ""
	case FormPayload:
		return p.ItemID, p.ItemID != ""
	}
	return "", false
}

// ConceptID returns the grammar concept the exercise drills, if any.
func (e Exercise) ConceptID() (string, bool) {
	if p, ok := e.Payload.(FillBlankPayload); ok {
		return p.ConceptID, p.ConceptID != ""
	}
	return "", false
}

// NeedsJudge reports whether the exercise cannot be scored locally.
func (e Exercise) NeedsJudge() bool {
	return e.Kind.FreeForm() || e.Expected == ""
}

type exerciseJSON struct {
	Kind       Kind                `json:"kind"`
	Prompt     string              `json:"prompt"`
	Expected   string              `json:"expected,omitempty"`
	Options    []string            `json:"options,omitempty"`
	Language   curriculum.Language `json:"language"`
	Difficulty int                 `json:"difficulty,omitempty"`
	Payload    json.RawMessage     `json:"payload,omitempty"`
}

// MarshalJSON encodes the payload alongside the kind tag.
func (e Exercise) MarshalJSON() ([]byte, error) {
	out := exerciseJSON{
		Kind:       e.Kind,
		Prompt:     e.Prompt,
		Expected:   e.Expected,
		Options:    e.Options,
		Language:   e.Language,
		Difficulty: e.Difficulty,
	}
	if e.Payload != nil {
		b, err := json.Marshal(e.Payload)
		if err != nil {
			return nil, err
		}
		out.Payload = b
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the payload variant selected by the kind tag.
func (e *Exercise) UnmarshalJSON(data []byte) error {
	var in exerciseJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if _, err := ParseKind(string(in.Kind)); err != nil {
		return err
	}
	*e = Exercise{
		Kind:       in.Kind,
		Prompt:     in.Prompt,
		Expected:   in.Expected,
		Options:    in.Options,
		Language:   in.Language,
		Difficulty: in.Difficulty,
	}
	if len(in.Payload) == 0 || string(in.Payload) == "null" {
		return nil
	}
	p, err := decodePayload(in.Kind, in.Payload)
	if err != nil {
		return fmt.Errorf("exercise %s payload: %w", in.Kind, err)
	}
	e.Payload = p
	return nil
}

func decodePayload(k Kind, raw json.RawMessage) (Payload, error) {
	switch k {
	case DefinitionRecall, DefinitionRecognition:
		var p VocabularyPayload
		err := json.Unmarshal(raw, &p)
		return p, err
	case FormProduction, FormIdentification:
		var p FormPayload
		err := json.Unmarshal(raw, &p)
		return p, err
	case FillBlank:
		var p FillBlankPayload
		err := json.Unmarshal(raw, &p)
		return p, err
	default:
		var p FreeFormPayload
		err := json.Unmarshal(raw, &p)
		return p, err
	}
}
