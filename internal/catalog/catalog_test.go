package catalog

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/strategy-profiler/internal/types"
)

func TestNew_BuiltInQuestionnaire(t *testing.T) {
	c := New()

	sections := c.Sections()
	require.Len(t, sections, 2)
	assert.Equal(t, "Divorce Strategy Profiler", sections[0].Title)
	assert.Equal(t, "Email for Results", sections[1].Title)
	require.Len(t, sections[0].Questions, StrategyQuestionCount)

	for i, q := range sections[0].Questions {
		assert.Equal(t, fmt.Sprintf("question_%d", i+1), q.ID)
		assert.Equal(t, types.QuestionSingleChoice, q.Type)
		require.Len(t, q.Options, 4, q.ID)
		assert.Equal(t, types.StrategyCodes(), q.StrategyValues, q.ID)
	}

	email, ok := c.Question("email")
	require.True(t, ok)
	assert.Equal(t, types.QuestionEmail, email.Type)
	assert.Empty(t, email.Options)
}

func TestCatalog_StrategyQuestionIDs(t *testing.T) {
	ids := New().StrategyQuestionIDs()
	require.Len(t, ids, 10)
	assert.Equal(t, "question_1", ids[0])
	assert.Equal(t, "question_10", ids[9])
}

func TestCatalog_StrategyCodeFor(t *testing.T) {
	c := New()

	code, ok := c.StrategyCodeFor("question_1", "Reject immediately—no matter how reasonable—and threaten court.")
	require.True(t, ok)
	assert.Equal(t, types.StrategyTerminator, code)

	code, ok = c.StrategyCodeFor("question_3", "I propose mediation or collaborative law.")
	require.True(t, ok)
	assert.Equal(t, types.StrategyDiplomat, code)

	_, ok = c.StrategyCodeFor("question_1", "accept quickly just to move on.")
	assert.False(t, ok, "no case folding")
	_, ok = c.StrategyCodeFor("email", "x")
	assert.False(t, ok)
	_, ok = c.StrategyCodeFor("missing", "x")
	assert.False(t, ok)
}

func TestCatalog_AccessorsReturnCopies(t *testing.T) {
	c := New()

	sections := c.Sections()
	sections[0].Questions[0].Options[0] = "tampered"

	q, ok := c.Question("question_1")
	require.True(t, ok)
	assert.Equal(t, "Accept quickly just to move on.", q.Options[0])

	q.Options[0] = "tampered"
	again, _ := c.Question("question_1")
	assert.Equal(t, "Accept quickly just to move on.", again.Options[0])
}

func TestCatalog_Section(t *testing.T) {
	c := New()
	assert.Equal(t, 2, c.NumSections())

	s, ok := c.Section(1)
	require.True(t, ok)
	assert.Equal(t, "Email for Results", s.Title)

	_, ok = c.Section(2)
	assert.False(t, ok)
	_, ok = c.Section(-1)
	assert.False(t, ok)
}

func TestNewFromSections_Invariants(t *testing.T) {
	tests := []struct {
		name     string
		sections []types.Section
		wantErr  string
	}{
		{
			name: "mismatched strategy values",
			sections: []types.Section{{Title: "s", Questions: []types.Question{
				{ID: "q", Type: types.QuestionSingleChoice, Options: []string{"a", "b"}, StrategyValues: []types.StrategyCode{"G"}},
			}}},
			wantErr: "2 options but 1 strategy values",
		},
		{
			name: "duplicate id",
			sections: []types.Section{{Title: "s", Questions: []types.Question{
				{ID: "q", Type: types.QuestionOpenEnded},
				{ID: "q", Type: types.QuestionOpenEnded},
			}}},
			wantErr: "duplicate question id",
		},
		{
			name: "unknown code",
			sections: []types.Section{{Title: "s", Questions: []types.Question{
				{ID: "q", Type: types.QuestionSingleChoice, Options: []string{"a"}, StrategyValues: []types.StrategyCode{"Z"}},
			}}},
			wantErr: "unknown strategy code",
		},
		{
			name: "missing id",
			sections: []types.Section{{Title: "s", Questions: []types.Question{
				{Type: types.QuestionOpenEnded},
			}}},
			wantErr: "without an id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFromSections(tt.sections)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCatalog_ParseResponses(t *testing.T) {
	c := New()
	raw := map[string]json.RawMessage{
		"question_1":    json.RawMessage(`"Accept quickly just to move on."`),
		"question_2":    json.RawMessage(`null`),
		"email":         json.RawMessage(`"person@example.com"`),
		"age":           json.RawMessage(`"41"`),
		"concerns":      json.RawMessage(`["money","kids"]`),
		"divorce_stage": json.RawMessage(`"Separated"`),
	}

	rs, err := c.ParseResponses(raw)
	require.NoError(t, err)

	assert.Equal(t, types.ChoiceAnswer{Option: "Accept quickly just to move on."}, rs["question_1"])
	assert.Equal(t, types.EmailAnswer{Address: "person@example.com"}, rs["email"])
	assert.Equal(t, types.TextAnswer{Text: "41"}, rs["age"])
	assert.Equal(t, types.MultiChoiceAnswer{Options: []string{"money", "kids"}}, rs["concerns"])
	_, present := rs["question_2"]
	assert.False(t, present, "null means unanswered")
}

func TestCatalog_ParseResponses_ShapeMismatch(t *testing.T) {
	_, err := New().ParseResponses(map[string]json.RawMessage{
		"question_4": json.RawMessage(`["a","b"]`),
	})
	require.Error(t, err)

	var shapeErr *types.AnswerShapeError
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, "question_4", shapeErr.QuestionID)
	assert.Equal(t, types.QuestionSingleChoice, shapeErr.Expected)
}
