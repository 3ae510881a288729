package scoring

import "github.com/abhisek/logos/internal/exercise"

// Check grades a response to a closed-form exercise. It returns false
// when the exercise must be judged externally: free-form kinds and drills
// without an expected answer.
func Check(ex exercise.Exercise, response string) (Result, bool) {
	if ex.NeedsJudge() {
		return Result{}, false
	}
	switch ex.Kind {
	case exercise.DefinitionRecall:
		return Synonym(response, ex.Expected, Synonyms(ex.Expected)), true
	case exercise.DefinitionRecognition, exercise.FormProduction:
		return Exact(response, ex.Expected), true
	case exercise.FormIdentification:
		return Parsing(exercise.ParseAnswer(response), exercise.ParseAnswer(ex.Expected)), true
	case exercise.FillBlank:
		var valid []string
		if p, ok := ex.Payload.(exercise.FillBlankPayload); ok {
			valid = p.ValidForms
		}
		return FillBlank(response, ex.Expected, valid), true
	}
	return Result{}, false
}
