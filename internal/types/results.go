package types

// ScoreResult is the tally of strategy answers for one response set.
type ScoreResult struct {
	StrategyCounts   StrategyCounts `json:"strategy_counts"`
	DominantStrategy StrategyCode   `json:"dominant_strategy"`
	HasTie           bool           `json:"has_tie"`
	TiedStrategies   []StrategyCode `json:"tied_strategies"`
	Overall          int            `json:"overall"`
}

// FeedbackBundle holds the narrative feedback for a ScoreResult.
// TieNote and Overall are empty when they do not apply.
type FeedbackBundle struct {
	Strategy     string `json:"strategy"`
	TieNote      string `json:"tie_note,omitempty"`
	Distribution string `json:"distribution"`
	Overall      string `json:"overall,omitempty"`
}

// Matchup is one rendered matchup row for the dominant strategy.
type Matchup struct {
	ExType string `json:"ex_type"`
	Risk   string `json:"risk"`
	Tip    string `json:"tip"`
}

// SuggestionBundle holds the improvement suggestions for a ScoreResult.
type SuggestionBundle struct {
	General        []string  `json:"general"`
	Matchups       []Matchup `json:"matchups,omitempty"`
	Recommendation string    `json:"recommendation,omitempty"`
}
