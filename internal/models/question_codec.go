package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// QuestionList is an ordered list of questions with a type-discriminated JSON form:
// every element is the variant's own object plus a "type" member.
type QuestionList []Question

func (l QuestionList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, q := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		data, err := EncodeQuestion(q)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i, err)
		}
		buf.Write(data)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func (l *QuestionList) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}
	out := make(QuestionList, 0, len(raws))
	for i, raw := range raws {
		q, err := DecodeQuestion(raw)
		if err != nil {
			return fmt.Errorf("question %d: %w", i, err)
		}
		out = append(out, q)
	}
	*l = out
	return nil
}

// EncodeQuestion marshals one question with its "type" discriminator. Unknown
// questions are written back exactly as they were read.
func EncodeQuestion(q Question) ([]byte, error) {
	if q == nil {
		return nil, fmt.Errorf("nil question")
	}
	if u, ok := q.(*UnknownQuestion); ok && len(u.Raw) > 0 {
		return u.Raw, nil
	}
	data, err := json.Marshal(q)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	typ, err := json.Marshal(q.Type())
	if err != nil {
		return nil, err
	}
	fields["type"] = typ
	// map keys marshal sorted, so the encoding is deterministic
	return json.Marshal(fields)
}

// DecodeQuestion unmarshals one question, dispatching on its "type" member.
func DecodeQuestion(data []byte) (Question, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("invalid question: %w", err)
	}

	q := newQuestion(QuestionType(head.Type))
	if q == nil {
		unknown := &UnknownQuestion{Kind: head.Type, Raw: append([]byte(nil), data...)}
		if err := json.Unmarshal(data, &unknown.QuestionBase); err != nil {
			return nil, fmt.Errorf("invalid question: %w", err)
		}
		return unknown, nil
	}
	if err := json.Unmarshal(data, q); err != nil {
		return nil, fmt.Errorf("invalid %s question: %w", head.Type, err)
	}
	return q, nil
}

// NewQuestion returns an empty question of the given type, or nil for unknown types.
func NewQuestion(t QuestionType) Question {
	return newQuestion(t)
}

func newQuestion(t QuestionType) Question {
	switch t {
	case TypeMultipleChoice:
		return &MultipleChoice{}
	case TypeComplexMultipleChoice:
		return &ComplexMultipleChoice{}
	case TypeTrueFalse:
		return &TrueFalse{}
	case TypeShortAnswer:
		return &ShortAnswer{}
	case TypeEssay:
		return &Essay{}
	case TypeMatching:
		return &Matching{}
	case TypeTable:
		return &Table{}
	case TypeTableMultipleChoice:
		return &TableMultipleChoice{}
	case TypeTableComplexMultipleChoice:
		return &TableComplexMultipleChoice{}
	case TypeStimulus:
		return &Stimulus{}
	default:
		return nil
	}
}
