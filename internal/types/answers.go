package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// Answer is one of the tagged answer variants stored in a ResponseSet.
type Answer interface {
	Kind() QuestionType
	isAnswer()
}

// TextAnswer is free text for an open-ended question, or any string answer
// whose question is not in the catalog.
type TextAnswer struct {
	Text string
}

// ChoiceAnswer is the option label picked for a single-choice question.
type ChoiceAnswer struct {
	Option string
}

// MultiChoiceAnswer is the set of option labels picked for a multiple-choice question.
type MultiChoiceAnswer struct {
	Options []string
}

// RatingAnswer is a numeric rating.
type RatingAnswer struct {
	Value int
}

// ConditionalAnswer holds the main choice and the optional follow-up of a conditional question.
type ConditionalAnswer struct {
	Main     *string
	FollowUp *string
}

// EmailAnswer is the contact address entered by the respondent.
type EmailAnswer struct {
	Address string
}

func (TextAnswer) Kind() QuestionType        { return QuestionOpenEnded }
func (ChoiceAnswer) Kind() QuestionType      { return QuestionSingleChoice }
func (MultiChoiceAnswer) Kind() QuestionType { return QuestionMultipleChoice }
func (RatingAnswer) Kind() QuestionType      { return QuestionRating }
func (ConditionalAnswer) Kind() QuestionType { return QuestionConditional }
func (EmailAnswer) Kind() QuestionType       { return QuestionEmail }

func (TextAnswer) isAnswer()        {}
func (ChoiceAnswer) isAnswer()      {}
func (MultiChoiceAnswer) isAnswer() {}
func (RatingAnswer) isAnswer()      {}
func (ConditionalAnswer) isAnswer() {}
func (EmailAnswer) isAnswer()       {}

func (a TextAnswer) MarshalJSON() ([]byte, error)   { return json.Marshal(a.Text) }
func (a ChoiceAnswer) MarshalJSON() ([]byte, error) { return json.Marshal(a.Option) }
func (a RatingAnswer) MarshalJSON() ([]byte, error) { return json.Marshal(a.Value) }
func (a EmailAnswer) MarshalJSON() ([]byte, error)  { return json.Marshal(a.Address) }

func (a MultiChoiceAnswer) MarshalJSON() ([]byte, error) {
	if a.Options == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(a.Options)
}

type conditionalWire struct {
	Main     *string `json:"main"`
	FollowUp *string `json:"follow_up,omitempty"`
}

func (a ConditionalAnswer) MarshalJSON() ([]byte, error) {
	if a.Main == nil {
		return nil, errMissingMain
	}
	return json.Marshal(conditionalWire{Main: a.Main, FollowUp: a.FollowUp})
}

// ChoiceText returns the string a strategy question should be matched with.
// Only ChoiceAnswer and TextAnswer carry a comparable string.
func ChoiceText(a Answer) (string, bool) {
	switch v := a.(type) {
	case ChoiceAnswer:
		return v.Option, true
	case TextAnswer:
		return v.Text, true
	default:
		return "", false
	}
}

// AnswerShapeError reports an answer whose JSON shape does not fit its question type.
type AnswerShapeError struct {
	QuestionID string
	Expected   QuestionType
	Cause      error
}

func (e *AnswerShapeError) Error() string {
	if e.QuestionID == "" {
		return fmt.Sprintf("answer is not a valid %s: %v", e.Expected, e.Cause)
	}
	return fmt.Sprintf("answer for %s is not a valid %s: %v", e.QuestionID, e.Expected, e.Cause)
}

func (e *AnswerShapeError) Unwrap() error {
	return e.Cause
}

// DecodeAnswerAs decodes raw into the Answer variant for the given question type.
func DecodeAnswerAs(t QuestionType, raw json.RawMessage) (Answer, error) {
	var (
		ans Answer
		err error
	)
	switch t {
	case QuestionOpenEnded:
		var s string
		err = json.Unmarshal(raw, &s)
		ans = TextAnswer{Text: s}
	case QuestionSingleChoice:
		var s string
		err = json.Unmarshal(raw, &s)
		ans = ChoiceAnswer{Option: s}
	case QuestionMultipleChoice:
		ans, err = decodeMulti(raw)
	case QuestionRating:
		ans, err = decodeRating(raw)
	case QuestionConditional:
		var w conditionalWire
		err = json.Unmarshal(raw, &w)
		if err == nil && w.Main == nil {
			err = errMissingMain
		}
		ans = ConditionalAnswer{Main: w.Main, FollowUp: w.FollowUp}
	case QuestionEmail:
		var s string
		err = json.Unmarshal(raw, &s)
		ans = EmailAnswer{Address: s}
	default:
		return nil, fmt.Errorf("unsupported question type %q", t)
	}
	if err != nil {
		return nil, &AnswerShapeError{Expected: t, Cause: err}
	}
	return ans, nil
}

var errMissingMain = errors.New("conditional answer has no main choice")

// decodeRating accepts whole numbers, including ones written as 3.0.
func decodeRating(raw json.RawMessage) (Answer, error) {
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, err
	}
	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return nil, fmt.Errorf("rating %v is not a whole number", f)
	}
	return RatingAnswer{Value: int(f)}, nil
}

// decodeMulti accepts either a list of labels or the legacy checkbox map
// {"label": true, ...}, in which only checked labels are kept.
func decodeMulti(raw json.RawMessage) (Answer, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var checked map[string]bool
		if err := json.Unmarshal(trimmed, &checked); err != nil {
			return nil, err
		}
		opts := make([]string, 0, len(checked))
		for label, on := range checked {
			if on {
				opts = append(opts, label)
			}
		}
		sort.Strings(opts)
		return MultiChoiceAnswer{Options: opts}, nil
	}
	var opts []string
	if err := json.Unmarshal(trimmed, &opts); err != nil {
		return nil, err
	}
	return MultiChoiceAnswer{Options: opts}, nil
}

// DecodeAnswer infers the variant from the JSON shape alone: strings become
// TextAnswer, arrays MultiChoiceAnswer, numbers RatingAnswer, objects with a
// "main" key ConditionalAnswer and other objects (checkbox maps)
// MultiChoiceAnswer.
func DecodeAnswer(raw json.RawMessage) (Answer, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty answer")
	}
	switch trimmed[0] {
	case '"':
		return DecodeAnswerAs(QuestionOpenEnded, trimmed)
	case '[':
		return DecodeAnswerAs(QuestionMultipleChoice, trimmed)
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &fields); err != nil {
			return nil, &AnswerShapeError{Expected: QuestionConditional, Cause: err}
		}
		if _, ok := fields["main"]; !ok {
			return DecodeAnswerAs(QuestionMultipleChoice, trimmed)
		}
		return DecodeAnswerAs(QuestionConditional, trimmed)
	case 'n':
		return nil, fmt.Errorf("null answer")
	default:
		return DecodeAnswerAs(QuestionRating, trimmed)
	}
}

// ResponseSet maps question ids to answers. Extra ids outside the catalog
// (for example "age" or "divorce_stage") are kept as they are.
type ResponseSet map[string]Answer

// UnmarshalJSON decodes each answer by shape. Catalog-aware decoding lives in catalog.ParseResponses.
func (rs *ResponseSet) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(ResponseSet, len(raw))
	for id, msg := range raw {
		if bytes.Equal(bytes.TrimSpace(msg), []byte("null")) {
			continue
		}
		ans, err := DecodeAnswer(msg)
		if err != nil {
			return fmt.Errorf("response %s: %w", id, err)
		}
		out[id] = ans
	}
	*rs = out
	return nil
}

// Text returns the string value of a text-like answer, trimmed; empty when absent.
func (rs ResponseSet) Text(id string) string {
	switch v := rs[id].(type) {
	case TextAnswer:
		return strings.TrimSpace(v.Text)
	case ChoiceAnswer:
		return strings.TrimSpace(v.Option)
	case EmailAnswer:
		return strings.TrimSpace(v.Address)
	case RatingAnswer:
		return fmt.Sprintf("%d", v.Value)
	default:
		return ""
	}
}

// Clone returns a shallow copy of the set; answer values are immutable.
func (rs ResponseSet) Clone() ResponseSet {
	out := make(ResponseSet, len(rs))
	for k, v := range rs {
		out[k] = v
	}
	return out
}
