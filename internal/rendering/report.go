// Package rendering provides the self-contained HTML report and its plain-text alternative.
package rendering

import (
	"embed"
	"html/template"
	"os"
	"strings"
	"time"

	"github.com/jonathan/strategy-profiler/internal/catalog"
	"github.com/jonathan/strategy-profiler/internal/types"
)

//go:embed templates/report.html.tmpl
var templateFS embed.FS

const defaultTemplate = "templates/report.html.tmpl"

// ReportData is the value passed to the report template.
type ReportData struct {
	Score         types.ScoreResult
	Feedback      types.FeedbackBundle
	Suggestions   types.SuggestionBundle
	DominantLabel string
	Breakdown     []BreakdownItem
	Answers       []AnswerItem
	Year          int
}

// BreakdownItem is one tile of the strategy breakdown.
type BreakdownItem struct {
	Code  types.StrategyCode
	Label string
	Count int
}

// AnswerItem pairs a scored question with the respondent's answer.
type AnswerItem struct {
	Question string
	Answer   string
}

// Renderer composes report documents.
type Renderer struct {
	tmpl    *template.Template
	ref     *catalog.Reference
	catalog *catalog.Catalog
	now     func() time.Time
}

// Option configures a Renderer.
type Option func(*Renderer) error

// WithTemplateFile replaces the embedded template with one read from path.
func WithTemplateFile(path string) Option {
	return func(r *Renderer) error {
		content, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return &TemplateError{Source: path, Message: "template file not found", Cause: err}
			}
			return &TemplateError{Source: path, Message: "failed to read template file", Cause: err}
		}
		tmpl, err := parseTemplate(path, string(content))
		if err != nil {
			return err
		}
		r.tmpl = tmpl
		return nil
	}
}

// WithClock sets the time source used for the footer year.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) error {
		r.now = now
		return nil
	}
}

// NewRenderer creates a Renderer. The catalog supplies question text for the
// answers appendix; a nil catalog omits it.
func NewRenderer(ref *catalog.Reference, cat *catalog.Catalog, opts ...Option) (*Renderer, error) {
	if ref == nil {
		ref = catalog.DefaultReference()
	}
	r := &Renderer{ref: ref, catalog: cat, now: time.Now}

	content, err := templateFS.ReadFile(defaultTemplate)
	if err != nil {
		return nil, &TemplateError{Source: embeddedSource, Message: "template missing", Cause: err}
	}
	if r.tmpl, err = parseTemplate(embeddedSource, string(content)); err != nil {
		return nil, err
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func parseTemplate(source, content string) (*template.Template, error) {
	tmpl, err := template.New(source).Funcs(template.FuncMap{
		"lines":      lines,
		"paragraphs": paragraphs,
		"trusted":    trusted,
	}).Parse(content)
	if err != nil {
		return nil, &TemplateError{
			Source:  source,
			Message: "failed to parse template",
			Cause:   err,
		}
	}
	return tmpl, nil
}

// Render produces the HTML report.
func (r *Renderer) Render(score types.ScoreResult, fb types.FeedbackBundle, sg types.SuggestionBundle, responses types.ResponseSet) (string, error) {
	data := r.buildData(score, fb, sg, responses)

	var out strings.Builder
	if err := r.tmpl.Execute(&out, data); err != nil {
		return "", &TemplateError{
			Source:  r.tmpl.Name(),
			Message: "failed to execute template",
			Cause:   err,
		}
	}
	return out.String(), nil
}

func (r *Renderer) buildData(score types.ScoreResult, fb types.FeedbackBundle, sg types.SuggestionBundle, responses types.ResponseSet) *ReportData {
	data := &ReportData{
		Score:         score,
		Feedback:      fb,
		Suggestions:   sg,
		DominantLabel: r.ref.Label(score.DominantStrategy),
		Year:          r.now().Year(),
	}
	for _, code := range types.StrategyCodes() {
		data.Breakdown = append(data.Breakdown, BreakdownItem{
			Code:  code,
			Label: r.ref.Label(code),
			Count: score.StrategyCounts[code],
		})
	}
	if r.catalog != nil {
		for _, q := range r.catalog.StrategyQuestions() {
			text, ok := types.ChoiceText(responses[q.ID])
			if !ok || text == "" {
				continue
			}
			data.Answers = append(data.Answers, AnswerItem{Question: q.Text, Answer: text})
		}
	}
	return data
}

// lines escapes text and turns newlines into line breaks.
func lines(text string) template.HTML {
	parts := strings.Split(strings.TrimSpace(text), "\n")
	for i, p := range parts {
		parts[i] = markupEscaper.Replace(strings.TrimSpace(p))
	}
	return template.HTML(strings.Join(parts, "<br>\n")) //nolint:gosec // every part is escaped above
}

// markupEscaper escapes only the characters that can open markup, leaving
// quotes and apostrophes in built-in report text as written.
var markupEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// trusted renders built-in report text (feedback, suggestions, reference
// labels) in element content. User answers never go through it.
func trusted(text string) template.HTML {
	return template.HTML(markupEscaper.Replace(text)) //nolint:gosec // markup characters are escaped
}

// paragraphs splits text on blank lines.
func paragraphs(text string) []string {
	var out []string
	for _, p := range strings.Split(strings.TrimSpace(text), "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
