package repositories

import (
	"context"
	"errors"

	"github.com/SAP-F-2025/exam-document-service/internal/models"
)

// ErrNotFound is returned by every repository when the addressed row does not exist.
var ErrNotFound = errors.New("record not found")

// ===== SHARED FILTER STRUCTS =====

type ExamFilters struct {
	Status    *models.ExamStatus `json:"status"`
	Search    string             `json:"search"`
	Limit     int                `json:"limit"`
	Offset    int                `json:"offset"`
	SortBy    string             `json:"sort_by"`    // "created_at", "updated_at", "title"
	SortOrder string             `json:"sort_order"` // "asc", "desc"
}

// ===== REPOSITORIES =====

// ExamRepository stores whole exams as JSON documents.
type ExamRepository interface {
	Create(ctx context.Context, exam *models.Exam) error
	GetByID(ctx context.Context, id string) (*models.Exam, error)
	// Update replaces the stored document and bumps its version.
	Update(ctx context.Context, exam *models.Exam) error
	Delete(ctx context.Context, id string) error // Soft delete
	// List returns listing records without their documents.
	List(ctx context.Context, filters ExamFilters) ([]*models.ExamRecord, int64, error)
}

// RenderProfileRepository stores named render configurations.
type RenderProfileRepository interface {
	// Save creates the profile or replaces the config of an existing one.
	Save(ctx context.Context, profile *models.RenderProfile) error
	GetByName(ctx context.Context, name string) (*models.RenderProfile, error)
	List(ctx context.Context) ([]*models.RenderProfile, error)
}

// Repository groups the repositories so services take one dependency.
type Repository interface {
	Exam() ExamRepository
	RenderProfile() RenderProfileRepository
}
