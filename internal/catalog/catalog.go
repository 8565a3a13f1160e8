// Package catalog provides the immutable questionnaire and the strategy reference data.
package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jonathan/strategy-profiler/internal/types"
)

// StrategyQuestionCount is the number of scored questions.
const StrategyQuestionCount = 10

// Catalog is the ordered, read-only questionnaire.
type Catalog struct {
	sections []types.Section
	byID     map[string]types.Question
	strategy []string // ids of scored questions, in order
}

// New returns the built-in questionnaire.
// It panics if the built-in data violates a catalog invariant.
func New() *Catalog {
	c, err := NewFromSections(defaultSections())
	if err != nil {
		panic(fmt.Sprintf("built-in questionnaire is invalid: %v", err))
	}
	return c
}

// NewFromSections builds a catalog, checking that ids are unique and that
// every option list lines up with its strategy values.
func NewFromSections(sections []types.Section) (*Catalog, error) {
	c := &Catalog{
		sections: make([]types.Section, len(sections)),
		byID:     make(map[string]types.Question),
	}
	for i, s := range sections {
		c.sections[i] = s.Clone()
		for _, q := range s.Questions {
			if q.ID == "" {
				return nil, fmt.Errorf("section %q has a question without an id", s.Title)
			}
			if _, dup := c.byID[q.ID]; dup {
				return nil, fmt.Errorf("duplicate question id %q", q.ID)
			}
			if len(q.StrategyValues) > 0 {
				if len(q.StrategyValues) != len(q.Options) {
					return nil, fmt.Errorf("question %s: %d options but %d strategy values",
						q.ID, len(q.Options), len(q.StrategyValues))
				}
				for _, code := range q.StrategyValues {
					if !code.Valid() {
						return nil, fmt.Errorf("question %s: unknown strategy code %q", q.ID, code)
					}
				}
				c.strategy = append(c.strategy, q.ID)
			}
			c.byID[q.ID] = q.Clone()
		}
	}
	return c, nil
}

// Sections returns a copy of every section in display order.
func (c *Catalog) Sections() []types.Section {
	out := make([]types.Section, len(c.sections))
	for i, s := range c.sections {
		out[i] = s.Clone()
	}
	return out
}

// NumSections returns the number of sections.
func (c *Catalog) NumSections() int {
	return len(c.sections)
}

// Section returns a copy of the section at index i.
func (c *Catalog) Section(i int) (types.Section, bool) {
	if i < 0 || i >= len(c.sections) {
		return types.Section{}, false
	}
	return c.sections[i].Clone(), true
}

// Question looks up a question by id.
func (c *Catalog) Question(id string) (types.Question, bool) {
	q, ok := c.byID[id]
	if !ok {
		return types.Question{}, false
	}
	return q.Clone(), true
}

// StrategyQuestionIDs returns the ids of the scored questions in order.
func (c *Catalog) StrategyQuestionIDs() []string {
	return append([]string(nil), c.strategy...)
}

// StrategyQuestions returns the scored questions in order.
func (c *Catalog) StrategyQuestions() []types.Question {
	out := make([]types.Question, 0, len(c.strategy))
	for _, id := range c.strategy {
		out = append(out, c.byID[id].Clone())
	}
	return out
}

// StrategyCodeFor maps an answer to the strategy code of the matching option.
func (c *Catalog) StrategyCodeFor(id, option string) (types.StrategyCode, bool) {
	q, ok := c.byID[id]
	if !ok {
		return "", false
	}
	return q.StrategyFor(option)
}

// ParseResponses decodes raw answers using each question's type. Ids not in
// the catalog are decoded by JSON shape and kept. JSON null means unanswered.
func (c *Catalog) ParseResponses(raw map[string]json.RawMessage) (types.ResponseSet, error) {
	out := make(types.ResponseSet, len(raw))
	for id, msg := range raw {
		if isNull(msg) {
			continue
		}
		var (
			ans types.Answer
			err error
		)
		if q, ok := c.byID[id]; ok {
			ans, err = types.DecodeAnswerAs(q.Type, msg)
		} else {
			ans, err = types.DecodeAnswer(msg)
		}
		if err != nil {
			var shapeErr *types.AnswerShapeError
			if errors.As(err, &shapeErr) {
				shapeErr.QuestionID = id
				return nil, shapeErr
			}
			return nil, fmt.Errorf("response %s: %w", id, err)
		}
		out[id] = ans
	}
	return out, nil
}

func isNull(msg json.RawMessage) bool {
	trimmed := bytes.TrimSpace(msg)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
