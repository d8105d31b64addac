package prompt

import (
	"strings"
	"text/template"

	"github.com/khanhduong/wikiquiz/internal/apperr"
)

// Template names accepted by Render.
const (
	Analysis      = "analysis"
	Quiz          = "quiz"
	RelatedTopics = "related_topics"
)

const analysisTemplate = `You are an assistant that analyzes Wikipedia articles to extract structured data.
Given the article text below (which may be truncated), extract the following as JSON:
1. title: Short article title.
2. summary: 2-4 sentence overview.
3. key_entities: with keys 'people', 'organizations', 'locations' as arrays of strings.
4. sections: ordered list of major section titles.

Use ONLY information present in the article text. Do not invent facts.
Return ONLY valid JSON with keys: title, summary, key_entities, sections. No surrounding prose.

Article text:
{{.article_text}}
`

const quizTemplate = `You are a quiz generator for Wikipedia articles.
Using ONLY the factual content from the article text below, create a diverse quiz
of 5 to 10 multiple-choice questions.

For each question, output an object with keys:
 - question: the question text
 - options: an array of 4 answer options (strings)
 - answer: the exact text of the correct option
 - explanation: 1-2 sentence explanation grounded in the article
 - difficulty: one of 'easy', 'medium', 'hard'

Avoid hallucinations and do not use information that is not clearly supported by the text.
Return ONLY a JSON array of question objects. No surrounding prose.

Article text:
{{.article_text}}
`

const relatedTopicsTemplate = `You are an assistant that suggests follow-up Wikipedia topics.
Based on the article text below, suggest 5 to 8 related Wikipedia article topics
that a learner should read next. Suggest only topics supported by the article content.

Return ONLY a JSON array of strings, each string being a Wikipedia topic title. No surrounding prose.

Article text:
{{.article_text}}
`

type entry struct {
	tmpl     *template.Template
	required []string
}

var templates = map[string]entry{
	Analysis: {
		tmpl:     mustParse(Analysis, analysisTemplate),
		required: []string{"article_text"},
	},
	Quiz: {
		tmpl:     mustParse(Quiz, quizTemplate),
		required: []string{"article_text"},
	},
	RelatedTopics: {
		tmpl:     mustParse(RelatedTopics, relatedTopicsTemplate),
		required: []string{"article_text"},
	},
}

func mustParse(name, text string) *template.Template {
	return template.Must(template.New(name).Option("missingkey=error").Parse(text))
}

// Render substitutes vars into the named template. It does no I/O and
// is deterministic: the same inputs always produce the same prompt.
// A missing required variable is a wiring bug and fails loudly rather
// than handing the model a broken prompt.
func Render(name string, vars map[string]string) (string, error) {
	e, ok := templates[name]
	if !ok {
		return "", apperr.New(apperr.KindMissingVariable, "unknown prompt template %q", name)
	}
	for _, v := range e.required {
		if _, present := vars[v]; !present {
			return "", apperr.New(apperr.KindMissingVariable,
				"template %q requires variable %q", name, v)
		}
	}

	var sb strings.Builder
	if err := e.tmpl.Execute(&sb, vars); err != nil {
		return "", apperr.Wrap(apperr.KindMissingVariable, err, "rendering template %q", name)
	}
	return sb.String(), nil
}

// Required returns the variable names the named template needs.
func Required(name string) []string {
	return templates[name].required
}
