package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/exam-document-service/internal/models"
)

// EventType represents the exam lifecycle events this service emits
type EventType string

const (
	EventExamPublished EventType = "exam.published"
	EventExamRendered  EventType = "exam.rendered"
)

const (
	eventSource  = "exam-document-service"
	eventVersion = "1.0"
)

// Event is the envelope of every published event
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// ExamPublishedEvent is emitted once an exam leaves the draft state.
type ExamPublishedEvent struct {
	ExamID        string    `json:"exam_id"`
	Title         string    `json:"title"`
	QuestionCount int       `json:"question_count"`
	PublishedAt   time.Time `json:"published_at"`
}

// ExamRenderedEvent is emitted for every successful render, cached or not.
type ExamRenderedEvent struct {
	ExamID   string      `json:"exam_id,omitempty"`
	Format   string      `json:"format"`
	Mode     models.Mode `json:"mode"`
	Bytes    int         `json:"bytes"`
	CacheHit bool        `json:"cache_hit"`
}

// NewEvent wraps a payload in an envelope with a fresh ID.
func NewEvent(eventType EventType, data interface{}) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}

// NewExamPublishedEvent builds the envelope for a published exam.
func NewExamPublishedEvent(exam *models.Exam, at time.Time) *Event {
	return NewEvent(EventExamPublished, ExamPublishedEvent{
		ExamID:        exam.ID,
		Title:         exam.Title,
		QuestionCount: exam.QuestionCount(),
		PublishedAt:   at,
	})
}
