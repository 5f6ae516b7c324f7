package models

import (
	"encoding/json"
	"fmt"
)

type ExamStatus string

const (
	StatusDraft     ExamStatus = "draft"
	StatusPublished ExamStatus = "published"
)

// Direction is the text/numbering locale axis of an exam.
type Direction string

const (
	DirectionLTR Direction = "ltr"
	DirectionRTL Direction = "rtl"
)

// IsRTL reports whether the direction is right-to-left (Arabic numbering).
func (d Direction) IsRTL() bool {
	return d == DirectionRTL
}

// Exam is the root of the document model. It owns its sections exclusively.
type Exam struct {
	ID           string     `json:"id"`
	Title        string     `json:"title" validate:"required,min=1,max=200"`
	Subject      string     `json:"subject" validate:"max=120"`
	ClassLabel   string     `json:"class_label" validate:"max=60"`
	Date         string     `json:"date" validate:"max=40"`
	Duration     string     `json:"duration" validate:"max=60"`
	Instructions string     `json:"instructions"`
	Sections     []Section  `json:"sections" validate:"dive"`
	Status       ExamStatus `json:"status" validate:"omitempty,exam_status"`
	Direction    Direction  `json:"direction" validate:"omitempty,direction"`
	Columns      int        `json:"columns" validate:"omitempty,oneof=1 2"`
}

// Section groups questions under one instruction line and an optional stimulus passage.
type Section struct {
	ID          string       `json:"id"`
	Instruction string       `json:"instruction"`
	Stimulus    string       `json:"stimulus,omitempty"`
	Questions   QuestionList `json:"questions"`
}

// TextDirection returns the exam direction, defaulting to ltr.
func (e *Exam) TextDirection() Direction {
	if e.Direction == DirectionRTL {
		return DirectionRTL
	}
	return DirectionLTR
}

// PreviewColumns returns the preview column count, defaulting to 1.
func (e *Exam) PreviewColumns() int {
	if e.Columns == 2 {
		return 2
	}
	return 1
}

// IsPublished reports whether the exam has left the draft state.
func (e *Exam) IsPublished() bool {
	return e.Status == StatusPublished
}

// QuestionCount counts every question of every section, stimulus blocks included.
func (e *Exam) QuestionCount() int {
	count := 0
	for _, section := range e.Sections {
		count += len(section.Questions)
	}
	return count
}

// FindQuestion locates a question by its stable ID.
func (e *Exam) FindQuestion(id string) (sectionIndex, questionIndex int, question Question, ok bool) {
	for si, section := range e.Sections {
		for qi, q := range section.Questions {
			if q.QuestionID() == id {
				return si, qi, q, true
			}
		}
	}
	return -1, -1, nil, false
}

// Clone returns a deep copy of the exam. Renderers never need it; services use it to
// mutate a working copy and persist only on success.
func (e *Exam) Clone() (*Exam, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to clone exam: %w", err)
	}
	var clone Exam
	if err := json.Unmarshal(data, &clone); err != nil {
		return nil, fmt.Errorf("failed to clone exam: %w", err)
	}
	return &clone, nil
}
