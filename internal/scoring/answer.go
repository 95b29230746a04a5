package scoring

import (
	"encoding/json"
	"fmt"
)

type AnswerKind int

const (
	KindEmpty AnswerKind = iota
	KindString
	KindNumber
	KindBool
	KindList
)

// AnswerValue is the tagged union of the value shapes a form field can
// produce: a string, a number, a boolean, or a list of selected options.
// It keeps the evaluator type-safe instead of passing interface{} around.
type AnswerValue struct {
	Kind AnswerKind
	Str  string
	Num  float64
	Bool bool
	List []string
}

func Str(s string) AnswerValue      { return AnswerValue{Kind: KindString, Str: s} }
func Num(n float64) AnswerValue     { return AnswerValue{Kind: KindNumber, Num: n} }
func Bool(b bool) AnswerValue       { return AnswerValue{Kind: KindBool, Bool: b} }
func List(vs ...string) AnswerValue { return AnswerValue{Kind: KindList, List: vs} }

// IsEmpty reports whether the value counts as unanswered for required-field
// validation: absent, empty string, empty list, or an unchecked box.
func (v AnswerValue) IsEmpty() bool {
	switch v.Kind {
	case KindEmpty:
		return true
	case KindString:
		return v.Str == ""
	case KindBool:
		return !v.Bool
	case KindList:
		return len(v.List) == 0
	}
	return false
}

func (v AnswerValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindString:
		return json.Marshal(v.Str)
	case KindNumber:
		return json.Marshal(v.Num)
	case KindBool:
		return json.Marshal(v.Bool)
	case KindList:
		if v.List == nil {
			return json.Marshal([]string{})
		}
		return json.Marshal(v.List)
	}
	return []byte("null"), nil
}

func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = AnswerValue{}
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Str(s)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = Bool(b)
	case '[':
		var l []string
		if err := json.Unmarshal(data, &l); err != nil {
			return fmt.Errorf("answer list must contain only strings: %w", err)
		}
		*v = List(l...)
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("unsupported answer value %s", data)
		}
		*v = Num(n)
	}
	return nil
}

// Answers maps question id to the respondent's value.
type Answers map[string]AnswerValue

// ParseAnswers decodes a stored answers document.
func ParseAnswers(raw []byte) (Answers, error) {
	var a Answers
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("parse answers: %w", err)
	}
	return a, nil
}

// MarshalTo encodes the answers for storage.
func (a Answers) MarshalTo() ([]byte, error) {
	return json.Marshal(a)
}
