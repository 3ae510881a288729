package aiscore

import (
	"bytes"
	"text/template"
)

const systemPrompt = `You are an expert in Ancient Greek and Latin with extensive experience in classical language pedagogy. You evaluate learner responses to language exercises with precision and helpful feedback.

Always respond with valid JSON matching the requested format. Do not include any text outside the JSON object.`

var translationTemplate = template.Must(template.New("translation").Parse(`Score this {{.Direction}} translation exercise.

Source language: {{.Language}}
Source text: {{.Source}}
Learner's translation: {{.Response}}

Evaluate the translation for:
1. Accuracy of meaning
2. Correct grammar and syntax
3. Appropriate vocabulary choices
4. Natural fluency in the target language
{{if .Reference}}
A reference translation: {{.Reference}}
{{end}}
Score from 0 to 5. Error types are grammar, vocabulary, meaning or style.`))

var compositionTemplate = template.Must(template.New("composition").Parse(`Score this free composition exercise.

Language: {{.Language}}
Learner level: {{.Level}}
Prompt given to learner: {{.Prompt}}
Learner's composition: {{.Response}}

Evaluate for:
1. Grammar correctness (morphology, syntax, agreement)
2. Vocabulary range and appropriateness
3. Coherence and relevance to the prompt
4. Complexity appropriate to the stated level

Score from 0 to 5. Error types are grammar, vocabulary, meaning or style.`))

var comprehensionTemplate = template.Must(template.New("comprehension").Parse(`Score this reading comprehension exercise.

Language of the passage: {{.Language}}
Passage: {{.Passage}}
Question: {{.Question}}
Learner's answer: {{.Response}}

Evaluate whether the learner's answer:
1. Correctly addresses the question
2. Demonstrates understanding of the passage
3. Is supported by evidence from the text

Score from 0 to 5. Error types are comprehension, inference or detail. Give a model answer as the corrected response.`))

var drillTemplate = template.Must(template.New("drill").Parse(`Score this grammar drill.

Language: {{.Language}}
Concept: {{.Concept}}
Drill: {{.Prompt}}
Learner's answer: {{.Response}}

Judge whether the answer correctly applies the concept. Score from 0 to 5. Error types are grammar or vocabulary.`))

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
