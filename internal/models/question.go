package models

type QuestionType string

const (
	TypeMultipleChoice             QuestionType = "multiple_choice"
	TypeComplexMultipleChoice      QuestionType = "complex_multiple_choice"
	TypeTrueFalse                  QuestionType = "true_false"
	TypeShortAnswer                QuestionType = "short_answer"
	TypeEssay                      QuestionType = "essay"
	TypeMatching                   QuestionType = "matching"
	TypeTable                      QuestionType = "table"
	TypeTableMultipleChoice        QuestionType = "table_multiple_choice"
	TypeTableComplexMultipleChoice QuestionType = "table_complex_multiple_choice"
	TypeStimulus                   QuestionType = "stimulus"
)

// QuestionTypes lists every known variant in declaration order.
var QuestionTypes = []QuestionType{
	TypeMultipleChoice,
	TypeComplexMultipleChoice,
	TypeTrueFalse,
	TypeShortAnswer,
	TypeEssay,
	TypeMatching,
	TypeTable,
	TypeTableMultipleChoice,
	TypeTableComplexMultipleChoice,
	TypeStimulus,
}

// IsKnown reports whether t names one of the supported variants.
func (t QuestionType) IsKnown() bool {
	for _, known := range QuestionTypes {
		if known == t {
			return true
		}
	}
	return false
}

// Question is the tagged union over question variants. Every variant embeds
// QuestionBase; the unexported marker keeps the set closed to this package.
type Question interface {
	QuestionID() string
	Number() string
	Type() QuestionType
	Base() *QuestionBase
	isQuestion()
}

// QuestionBase carries the fields common to all variants.
type QuestionBase struct {
	ID            string `json:"id"`
	DisplayNumber string `json:"number"`
	Body          string `json:"body"`
}

func (b *QuestionBase) QuestionID() string  { return b.ID }
func (b *QuestionBase) Number() string      { return b.DisplayNumber }
func (b *QuestionBase) Base() *QuestionBase { return b }
func (b *QuestionBase) isQuestion()         {}

// Choice is one option of a choice-bearing question.
type Choice struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// ChoiceList is embedded by every choice-bearing variant.
type ChoiceList struct {
	Choices    []Choice `json:"choices"`
	TwoColumns bool     `json:"two_columns,omitempty"`
}

// Options exposes the choice list of a choice-bearing variant.
func (c *ChoiceList) Options() *ChoiceList { return c }

// IndexOf returns the position of a choice ID, or -1.
func (c *ChoiceList) IndexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, choice := range c.Choices {
		if choice.ID == id {
			return i
		}
	}
	return -1
}

// HasChoices is implemented by MultipleChoice, ComplexMultipleChoice and the table-choice variants.
type HasChoices interface {
	Question
	Options() *ChoiceList
}

// HasGrid is implemented by the table variants.
type HasGrid interface {
	Question
	TableGrid() *TableGrid
}

type MultipleChoice struct {
	QuestionBase
	ChoiceList
	Answer string `json:"answer,omitempty"`
}

func (*MultipleChoice) Type() QuestionType { return TypeMultipleChoice }

type ComplexMultipleChoice struct {
	QuestionBase
	ChoiceList
	Answers []string `json:"answers,omitempty"`
}

func (*ComplexMultipleChoice) Type() QuestionType { return TypeComplexMultipleChoice }

// TrueFalse keys are the literal strings "true" or "false".
type TrueFalse struct {
	QuestionBase
	Answer string `json:"answer,omitempty"`
}

func (*TrueFalse) Type() QuestionType { return TypeTrueFalse }

type ShortAnswer struct {
	QuestionBase
	ModelAnswer string `json:"model_answer,omitempty"`
}

func (*ShortAnswer) Type() QuestionType { return TypeShortAnswer }

type Essay struct {
	QuestionBase
	ReserveSpace bool   `json:"reserve_space,omitempty"`
	ModelAnswer  string `json:"model_answer,omitempty"`
}

func (*Essay) Type() QuestionType { return TypeEssay }

// MatchingItem is an entry of either side of a matching question.
type MatchingItem struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// MatchPair links a prompt to its answer.
type MatchPair struct {
	PromptID string `json:"prompt_id"`
	AnswerID string `json:"answer_id"`
}

type Matching struct {
	QuestionBase
	Prompts []MatchingItem `json:"prompts"`
	Answers []MatchingItem `json:"answers"`
	Key     []MatchPair    `json:"key,omitempty"`
}

func (*Matching) Type() QuestionType { return TypeMatching }

// RemovePrompt deletes a prompt and every key pair that references it.
func (m *Matching) RemovePrompt(id string) bool {
	items, removed := removeItem(m.Prompts, id)
	if !removed {
		return false
	}
	m.Prompts = items
	m.Key = filterPairs(m.Key, func(p MatchPair) bool { return p.PromptID != id })
	return true
}

// RemoveAnswer deletes an answer and every key pair that references it.
func (m *Matching) RemoveAnswer(id string) bool {
	items, removed := removeItem(m.Answers, id)
	if !removed {
		return false
	}
	m.Answers = items
	m.Key = filterPairs(m.Key, func(p MatchPair) bool { return p.AnswerID != id })
	return true
}

// PromptIndex returns the position of a prompt ID, or -1.
func (m *Matching) PromptIndex(id string) int {
	return itemIndex(m.Prompts, id)
}

// AnswerIndex returns the position of an answer ID, or -1.
func (m *Matching) AnswerIndex(id string) int {
	return itemIndex(m.Answers, id)
}

type Table struct {
	QuestionBase
	Grid TableGrid `json:"grid"`
}

func (*Table) Type() QuestionType       { return TypeTable }
func (t *Table) TableGrid() *TableGrid { return &t.Grid }

// TableMultipleChoice keys one choice ID per grid row ID.
type TableMultipleChoice struct {
	QuestionBase
	ChoiceList
	Grid       TableGrid         `json:"grid"`
	RowAnswers map[string]string `json:"row_answers,omitempty"`
}

func (*TableMultipleChoice) Type() QuestionType       { return TypeTableMultipleChoice }
func (t *TableMultipleChoice) TableGrid() *TableGrid { return &t.Grid }

// TableComplexMultipleChoice keys a set of choice IDs per grid row ID.
type TableComplexMultipleChoice struct {
	QuestionBase
	ChoiceList
	Grid       TableGrid           `json:"grid"`
	RowAnswers map[string][]string `json:"row_answers,omitempty"`
}

func (*TableComplexMultipleChoice) Type() QuestionType       { return TypeTableComplexMultipleChoice }
func (t *TableComplexMultipleChoice) TableGrid() *TableGrid { return &t.Grid }

// Stimulus is a description block: body only, never numbered, never keyed.
type Stimulus struct {
	QuestionBase
}

func (*Stimulus) Type() QuestionType { return TypeStimulus }

// UnknownQuestion preserves a stored question whose type this build does not know.
type UnknownQuestion struct {
	QuestionBase
	Kind string `json:"-"`
	Raw  []byte `json:"-"`
}

func (u *UnknownQuestion) Type() QuestionType { return QuestionType(u.Kind) }

func removeItem(items []MatchingItem, id string) ([]MatchingItem, bool) {
	idx := itemIndex(items, id)
	if idx < 0 {
		return items, false
	}
	out := make([]MatchingItem, 0, len(items)-1)
	out = append(out, items[:idx]...)
	return append(out, items[idx+1:]...), true
}

func itemIndex(items []MatchingItem, id string) int {
	for i, item := range items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func filterPairs(pairs []MatchPair, keep func(MatchPair) bool) []MatchPair {
	out := pairs[:0:0]
	for _, p := range pairs {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
