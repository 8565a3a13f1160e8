package types

// QuestionType tags how a question is presented and how its answer is shaped.
type QuestionType string

const (
	QuestionOpenEnded      QuestionType = "open_ended"
	QuestionSingleChoice   QuestionType = "single_choice"
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionRating         QuestionType = "rating"
	QuestionConditional    QuestionType = "conditional"
	QuestionEmail          QuestionType = "email"
)

// FollowUp is the secondary prompt of a conditional question.
type FollowUp struct {
	Text      string `json:"text"`
	Condition string `json:"condition"` // main option that reveals the follow-up
}

// Question is a single prompt in the questionnaire.
type Question struct {
	ID             string         `json:"id"`
	Text           string         `json:"text"`
	Type           QuestionType   `json:"type"`
	Options        []string       `json:"options,omitempty"`
	StrategyValues []StrategyCode `json:"strategy_values,omitempty"`
	MainOptions    []string       `json:"main_options,omitempty"`
	FollowUp       *FollowUp      `json:"follow_up,omitempty"`
	Scale          int            `json:"scale,omitempty"` // rating questions only
}

// Clone returns a deep copy of the question.
func (q Question) Clone() Question {
	out := q
	out.Options = append([]string(nil), q.Options...)
	out.StrategyValues = append([]StrategyCode(nil), q.StrategyValues...)
	out.MainOptions = append([]string(nil), q.MainOptions...)
	if q.FollowUp != nil {
		fu := *q.FollowUp
		out.FollowUp = &fu
	}
	return out
}

// StrategyFor returns the strategy code mapped to option, if any.
func (q Question) StrategyFor(option string) (StrategyCode, bool) {
	for i, opt := range q.Options {
		if opt == option && i < len(q.StrategyValues) {
			return q.StrategyValues[i], true
		}
	}
	return "", false
}

// Section is an ordered group of questions shown together.
type Section struct {
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// Clone returns a deep copy of the section.
func (s Section) Clone() Section {
	out := Section{Title: s.Title, Questions: make([]Question, len(s.Questions))}
	for i, q := range s.Questions {
		out.Questions[i] = q.Clone()
	}
	return out
}
