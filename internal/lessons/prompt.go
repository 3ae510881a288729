package lessons

import (
	"bytes"
	"text/template"
)

const systemPrompt = `You are a patient tutor of Ancient Greek and Latin. You write short, accurate lessons for adult learners, always with real forms and idiomatic translations.

Always respond with valid JSON matching the requested format. Do not include any text outside the JSON object.`

var grammarLessonTemplate = template.Must(template.New("grammar-lesson").Parse(`Write a lesson on a {{.Language}} grammar concept.

Concept: {{.Name}}
Category: {{.Category}}{{if .Subcategory}} / {{.Subcategory}}{{end}}
{{if .Description}}Description: {{.Description}}
{{end}}Learner level: {{.Level}}

Include:
1. A clear explanation appropriate for the learner's level
2. 3 to 5 examples with translations
3. A paradigm table if the concept has one (declension, conjugation), otherwise an empty list
4. A brief summary of the key points`))

var vocabularyLessonTemplate = template.Must(template.New("vocabulary-lesson").Parse(`Write a vocabulary lesson in {{.Language}} for these words:
{{range .Words}}- {{.}}
{{end}}
Learner level: {{.Level}}

Include an explanation of each word's meaning and usage, one example sentence per word with a translation, and a summary.`))

var errorTemplate = template.Must(template.New("error-explanation").Parse(`A {{.Language}} learner answered an exercise incorrectly.

Exercise type: {{.Kind}}
Prompt: {{.Prompt}}
Learner's answer: {{.Response}}
{{if .Expected}}Expected: {{.Expected}}
{{end}}Score: {{.Score}}

Explain the mistake briefly and give one tip for avoiding it next time.`))

var conceptTemplate = template.Must(template.New("concept-explanation").Parse(`Explain this {{.Language}} grammar concept.

Concept: {{.Name}}
Learner level: {{.Level}}
Focus: {{.Context}}

Keep it short and give one example with its translation.`))

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
