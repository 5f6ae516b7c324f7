package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ExamRecord stores an exam as one JSON document; only the listing fields are columns.
type ExamRecord struct {
	ID        string         `json:"id" gorm:"primaryKey;size:36"`
	Title     string         `json:"title" gorm:"not null;size:200;index"`
	Subject   string         `json:"subject" gorm:"size:120;index"`
	Status    ExamStatus     `json:"status" gorm:"size:20;default:draft;index"`
	Document  datatypes.JSON `json:"document" gorm:"type:jsonb;not null"`
	Version   int            `json:"version" gorm:"default:1"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (ExamRecord) TableName() string {
	return "exams"
}

// NewExamRecord serializes an exam into its storage record.
func NewExamRecord(exam *Exam) (*ExamRecord, error) {
	doc, err := json.Marshal(exam)
	if err != nil {
		return nil, fmt.Errorf("failed to encode exam document: %w", err)
	}
	status := exam.Status
	if status == "" {
		status = StatusDraft
	}
	return &ExamRecord{
		ID:       exam.ID,
		Title:    exam.Title,
		Subject:  exam.Subject,
		Status:   status,
		Document: datatypes.JSON(doc),
	}, nil
}

// ToExam decodes the stored document.
func (r *ExamRecord) ToExam() (*Exam, error) {
	var exam Exam
	if err := json.Unmarshal(r.Document, &exam); err != nil {
		return nil, fmt.Errorf("failed to decode exam document %s: %w", r.ID, err)
	}
	exam.ID = r.ID
	return &exam, nil
}

// RenderProfile is a named, persisted RenderConfig (paper, typography, kop branding).
type RenderProfile struct {
	Name      string                           `json:"name" gorm:"primaryKey;size:100"`
	Config    datatypes.JSONType[RenderConfig] `json:"config" gorm:"type:jsonb;not null"`
	CreatedAt time.Time                        `json:"created_at"`
	UpdatedAt time.Time                        `json:"updated_at"`
}

func (RenderProfile) TableName() string {
	return "render_profiles"
}

// NewRenderProfile wraps a config under a profile name.
func NewRenderProfile(name string, cfg RenderConfig) *RenderProfile {
	return &RenderProfile{Name: name, Config: datatypes.NewJSONType(cfg)}
}
