package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/exam-document-service/internal/models"
	"github.com/SAP-F-2025/exam-document-service/internal/repositories"
)

type ExamPostgreSQL struct {
	db *gorm.DB
}

func NewExamPostgreSQL(db *gorm.DB) repositories.ExamRepository {
	return &ExamPostgreSQL{db: db}
}

// Create inserts a new exam document at version 1
func (e *ExamPostgreSQL) Create(ctx context.Context, exam *models.Exam) error {
	record, err := models.NewExamRecord(exam)
	if err != nil {
		return err
	}
	record.Version = 1
	if err := e.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to create exam: %w", err)
	}
	return nil
}

// GetByID loads and decodes an exam document
func (e *ExamPostgreSQL) GetByID(ctx context.Context, id string) (*models.Exam, error) {
	var record models.ExamRecord
	err := e.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repositories.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}
	return record.ToExam()
}

// Update replaces the document and listing columns in place
func (e *ExamPostgreSQL) Update(ctx context.Context, exam *models.Exam) error {
	record, err := models.NewExamRecord(exam)
	if err != nil {
		return err
	}
	result := e.db.WithContext(ctx).
		Model(&models.ExamRecord{}).
		Where("id = ?", exam.ID).
		Updates(map[string]interface{}{
			"title":    record.Title,
			"subject":  record.Subject,
			"status":   record.Status,
			"document": record.Document,
			"version":  gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update exam: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// Delete soft-deletes an exam
func (e *ExamPostgreSQL) Delete(ctx context.Context, id string) error {
	result := e.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ExamRecord{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete exam: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// List pages through exams without loading their documents
func (e *ExamPostgreSQL) List(ctx context.Context, filters repositories.ExamFilters) ([]*models.ExamRecord, int64, error) {
	query := e.db.WithContext(ctx).Model(&models.ExamRecord{})
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if s := strings.TrimSpace(filters.Search); s != "" {
		pattern := "%" + strings.ToLower(s) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(subject) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count exams: %w", err)
	}

	var records []*models.ExamRecord
	err := query.
		Select("id", "title", "subject", "status", "version", "created_at", "updated_at").
		Order(orderClause(filters.SortBy, filters.SortOrder)).
		Limit(pageSize(filters.Limit)).
		Offset(max(filters.Offset, 0)).
		Find(&records).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list exams: %w", err)
	}
	return records, total, nil
}

var sortColumns = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"title":      "title",
}

// orderClause only emits whitelisted columns.
func orderClause(sortBy, sortOrder string) string {
	column, ok := sortColumns[sortBy]
	if !ok {
		column = "updated_at"
	}
	direction := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		direction = "ASC"
	}
	return column + " " + direction
}

func pageSize(limit int) int {
	if limit <= 0 {
		return 20
	}
	return min(limit, 100)
}
