// Package scoring provides the strategy tally for a questionnaire response set.
package scoring

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/jonathan/strategy-profiler/internal/catalog"
	"github.com/jonathan/strategy-profiler/internal/types"
)

// Outcome classifies how a single strategy question resolved.
type Outcome int

const (
	// Matched means the answer equals one of the question's options.
	Matched Outcome = iota
	// Unmatched means the question contributes nothing, for a benign reason.
	Unmatched
	// Malformed means the answer or catalog entry could not be interpreted.
	Malformed
)

func (o Outcome) String() string {
	switch o {
	case Matched:
		return "matched"
	case Unmatched:
		return "unmatched"
	case Malformed:
		return "malformed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// UnmatchedReason explains an Unmatched resolution.
type UnmatchedReason string

const (
	ReasonAbsent        UnmatchedReason = "absent"
	ReasonNoOptionMatch UnmatchedReason = "no_option_match"
)

// ErrNotChoice is the cause of a Malformed resolution whose answer has no comparable string.
var ErrNotChoice = errors.New("answer is not a single choice")

// Resolution is the per-question result of matching an answer to a strategy code.
type Resolution struct {
	QuestionID string
	Outcome    Outcome
	Code       types.StrategyCode // set when Matched
	Reason     UnmatchedReason    // set when Unmatched
	Err        error              // set when Malformed
}

// Scorer tallies strategy answers against a catalog.
type Scorer struct {
	catalog *catalog.Catalog
	logger  *zap.Logger
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithLogger sets the logger used for malformed resolutions.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Scorer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewScorer creates a scorer for the given catalog.
func NewScorer(cat *catalog.Catalog, opts ...Option) *Scorer {
	s := &Scorer{catalog: cat, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resolve maps one strategy question's answer to a Resolution.
func (s *Scorer) Resolve(responses types.ResponseSet, id string) Resolution {
	q, ok := s.catalog.Question(id)
	if !ok {
		return Resolution{QuestionID: id, Outcome: Malformed, Err: fmt.Errorf("question %s not in catalog", id)}
	}
	if len(q.Options) != len(q.StrategyValues) {
		return Resolution{QuestionID: id, Outcome: Malformed,
			Err: fmt.Errorf("question %s has %d options but %d strategy values", id, len(q.Options), len(q.StrategyValues))}
	}

	ans, present := responses[id]
	if !present || ans == nil {
		return Resolution{QuestionID: id, Outcome: Unmatched, Reason: ReasonAbsent}
	}
	text, ok := types.ChoiceText(ans)
	if !ok {
		return Resolution{QuestionID: id, Outcome: Malformed,
			Err: fmt.Errorf("%w: got %s", ErrNotChoice, ans.Kind())}
	}
	code, ok := q.StrategyFor(text)
	if !ok {
		return Resolution{QuestionID: id, Outcome: Unmatched, Reason: ReasonNoOptionMatch}
	}
	return Resolution{QuestionID: id, Outcome: Matched, Code: code}
}

// ResolveAll resolves every strategy question in catalog order.
func (s *Scorer) ResolveAll(responses types.ResponseSet) []Resolution {
	ids := s.catalog.StrategyQuestionIDs()
	out := make([]Resolution, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.Resolve(responses, id))
	}
	return out
}

// Score tallies the response set. It never fails: malformed questions are
// logged and contribute nothing.
func (s *Scorer) Score(responses types.ResponseSet) types.ScoreResult {
	counts := make(types.StrategyCounts, 4)
	for _, code := range types.StrategyCodes() {
		counts[code] = 0
	}

	for _, res := range s.ResolveAll(responses) {
		switch res.Outcome {
		case Matched:
			counts[res.Code]++
		case Malformed:
			s.logger.Warn("skipping malformed strategy answer",
				zap.String("question_id", res.QuestionID), zap.Error(res.Err))
		}
	}

	return Summarize(counts, catalog.StrategyQuestionCount)
}

// Summarize derives dominance, ties and the overall percentage from counts.
// The dominant code is the first maximum in G, B, C, H order; with no
// matched answers it is B and every code counts as tied.
func Summarize(counts types.StrategyCounts, questions int) types.ScoreResult {
	order := types.StrategyCodes()

	dominant := order[0]
	top := counts[dominant]
	for _, code := range order[1:] {
		if counts[code] > top {
			dominant, top = code, counts[code]
		}
	}
	if counts.Total() == 0 {
		dominant = types.StrategyDiplomat
	}

	var tied []types.StrategyCode
	for _, code := range order {
		if counts[code] == top {
			tied = append(tied, code)
		}
	}
	hasTie := len(tied) > 1
	if !hasTie {
		tied = nil
	}

	overall := 0
	if questions > 0 {
		overall = int(math.Round(float64(counts[dominant]) / float64(questions) * 100))
	}

	return types.ScoreResult{
		StrategyCounts:   counts,
		DominantStrategy: dominant,
		HasTie:           hasTie,
		TiedStrategies:   tied,
		Overall:          overall,
	}
}
