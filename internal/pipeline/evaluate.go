// Package pipeline runs the questionnaire core (score, feedback, suggestions,
// report) and fans the result out to storage and email.
package pipeline

import (
	"go.uber.org/zap"

	"github.com/jonathan/strategy-profiler/internal/catalog"
	"github.com/jonathan/strategy-profiler/internal/feedback"
	"github.com/jonathan/strategy-profiler/internal/observability"
	"github.com/jonathan/strategy-profiler/internal/rendering"
	"github.com/jonathan/strategy-profiler/internal/scoring"
	"github.com/jonathan/strategy-profiler/internal/suggestions"
	"github.com/jonathan/strategy-profiler/internal/types"
)

// Report is everything the core derives from one response set.
type Report struct {
	Score       types.ScoreResult      `json:"score"`
	Feedback    types.FeedbackBundle   `json:"feedback"`
	Suggestions types.SuggestionBundle `json:"suggestions"`
	HTML        string                 `json:"-"`
	Text        string                 `json:"-"`
}

// Evaluator runs the synchronous core.
type Evaluator struct {
	scorer      *scoring.Scorer
	feedback    *feedback.Generator
	suggestions *suggestions.Generator
	renderer    *rendering.Renderer
	logger      *zap.Logger
	metrics     *observability.Metrics
}

// EvaluatorOptions holds the optional collaborators of an Evaluator.
type EvaluatorOptions struct {
	Logger  *zap.Logger
	Metrics *observability.Metrics
}

// NewEvaluator wires the core over one catalog and reference set.
func NewEvaluator(cat *catalog.Catalog, ref *catalog.Reference, renderer *rendering.Renderer, opts EvaluatorOptions) *Evaluator {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Evaluator{
		scorer:      scoring.NewScorer(cat, scoring.WithLogger(opts.Logger)),
		feedback:    feedback.New(ref),
		suggestions: suggestions.New(ref),
		renderer:    renderer,
		logger:      opts.Logger,
		metrics:     opts.Metrics,
	}
}

// Evaluate scores responses and renders the report. A rendering failure is
// the only error; scoring never fails.
func (e *Evaluator) Evaluate(responses types.ResponseSet) (*Report, error) {
	score := e.scorer.Score(responses)
	report := &Report{
		Score:       score,
		Feedback:    e.feedback.Generate(score),
		Suggestions: e.suggestions.Generate(score),
	}
	e.metrics.RecordAssessment(string(score.DominantStrategy))

	html, err := e.renderer.Render(report.Score, report.Feedback, report.Suggestions, responses)
	if err != nil {
		return nil, err
	}
	report.HTML = html

	text, err := rendering.PlainText(html)
	if err != nil {
		e.logger.Warn("failed to derive plain text report", zap.Error(err))
	}
	report.Text = text

	e.logger.Debug("assessment evaluated",
		zap.String("dominant", string(score.DominantStrategy)),
		zap.Int("overall", score.Overall),
		zap.Bool("has_tie", score.HasTie))
	return report, nil
}
