package db

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/strategy-profiler/internal/types"
)

// DefaultListLimit caps ListAssessmentResults when no limit is given.
const DefaultListLimit = 100

// Response ids outside the scored catalog that are copied onto the record.
const (
	ResponseAge          = "age"
	ResponseDivorceStage = "divorce_stage"
)

// AssessmentResult is one persisted submission.
//
// The five category scores are kept for compatibility with earlier
// dashboards and are always written as 0.
type AssessmentResult struct {
	ID               uuid.UUID          `json:"id"`
	Email            string             `json:"email"`
	Age              string             `json:"age"`
	DivorceStage     string             `json:"divorce_stage"`
	OverallScore     float64            `json:"overall_score"`
	DominantStrategy types.StrategyCode `json:"dominant_strategy"`
	LegalScore       float64            `json:"legal_score"`
	EmotionalScore   float64            `json:"emotional_score"`
	FinancialScore   float64            `json:"financial_score"`
	ChildrenScore    float64            `json:"children_score"`
	RecoveryScore    float64            `json:"recovery_score"`
	Responses        json.RawMessage    `json:"responses,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
}

// ResultFilters narrows ListAssessmentResults.
type ResultFilters struct {
	Email string
	Limit int
}

func (f ResultFilters) limit() int {
	if f.Limit <= 0 {
		return DefaultListLimit
	}
	return f.Limit
}

// NewAssessmentResult builds the record for a scored submission.
// ID and CreatedAt are assigned by the store on save.
func NewAssessmentResult(email string, score types.ScoreResult, responses types.ResponseSet) (*AssessmentResult, error) {
	raw, err := json.Marshal(responses)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal responses: %w", err)
	}
	return &AssessmentResult{
		Email:            email,
		Age:              responses.Text(ResponseAge),
		DivorceStage:     responses.Text(ResponseDivorceStage),
		OverallScore:     float64(score.Overall),
		DominantStrategy: score.DominantStrategy,
		Responses:        raw,
	}, nil
}

// prepare fills the fields every backend assigns before insert.
func (r *AssessmentResult) prepare(now time.Time) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now.UTC()
	}
	if len(r.Responses) == 0 {
		r.Responses = json.RawMessage("{}")
	}
}
