package exercise

import "fmt"

// Kind is the exercise type tag.
type Kind string

const (
	DefinitionRecall      Kind = "definition_recall"
	DefinitionRecognition Kind = "definition_recognition"
	FormProduction        Kind = "form_production"
	FormIdentification    Kind = "form_identification"
	FillBlank             Kind = "fill_blank"
	TranslationToEnglish  Kind = "translation_to_english"
	TranslationToTarget   Kind = "translation_to_target"
	Comprehension         Kind = "comprehension"
	Composition           Kind = "composition"
	ErrorCorrection       Kind = "error_correction"
	Dictation             Kind = "dictation"
	OralComprehension     Kind = "oral_comprehension"
	Pronunciation         Kind = "pronunciation"
	OralResponse          Kind = "oral_response"
)

// AllKinds returns every exercise kind.
func AllKinds() []Kind {
	return []Kind{
		DefinitionRecall, DefinitionRecognition, FormProduction, FormIdentification,
		FillBlank, TranslationToEnglish, TranslationToTarget, Comprehension,
		Composition, ErrorCorrection, Dictation, OralComprehension,
		Pronunciation, OralResponse,
	}
}

// ParseKind validates a kind name.
func ParseKind(s string) (Kind, error) {
	for _, k := range AllKinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("exercise: unknown kind %q", s)
}

// IsTranslation reports whether k is either translation direction.
func (k Kind) IsTranslation() bool {
	return k == TranslationToEnglish || k == TranslationToTarget
}

// FreeForm reports whether responses to k need an external judge.
func (k Kind) FreeForm() bool {
	switch k {
	case TranslationToEnglish, TranslationToTarget, Comprehension, Composition,
		ErrorCorrection, Dictation, OralComprehension, Pronunciation, OralResponse:
		return true
	}
	return false
}
