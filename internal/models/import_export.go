package models

import "time"

type ImportJobStatus string

const (
	ImportProcessing ImportJobStatus = "processing"
	ImportCompleted  ImportJobStatus = "completed"
	ImportFailed     ImportJobStatus = "failed"
)

// ImportValidationError describes one rejected cell of an imported question sheet.
type ImportValidationError struct {
	Row     int    `json:"row"`
	Column  string `json:"column"`
	Message string `json:"message"`
	Value   string `json:"value"`
}

// ImportSummary reports the outcome of importing a question sheet into a section.
type ImportSummary struct {
	ExamID         string                  `json:"exam_id"`
	SectionIndex   int                     `json:"section_index"`
	TotalRows      int                     `json:"total_rows"`
	ProcessedRows  int                     `json:"processed_rows"`
	SuccessCount   int                     `json:"success_count"`
	ErrorCount     int                     `json:"error_count"`
	CreatedIDs     []string                `json:"created_ids"`
	Errors         []ImportValidationError `json:"errors"`
	Status         ImportJobStatus         `json:"status"`
	ProcessingTime time.Duration           `json:"processing_time"`
}
