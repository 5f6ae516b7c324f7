package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/SAP-F-2025/exam-document-service/internal/errors"
	"github.com/SAP-F-2025/exam-document-service/internal/grid"
	"github.com/SAP-F-2025/exam-document-service/internal/models"
)

func gridConflict(t *testing.T) error {
	t.Helper()
	g := models.TableGrid{Rows: []models.GridRow{{ID: "r", Cells: []models.Cell{{ID: "c"}}}}}
	err := grid.NewEngine().RemoveRow(&g, 0)
	if err == nil {
		t.Fatal("expected removing the last row to be rejected")
	}
	return err
}

func TestErrorClassification(t *testing.T) {
	conflict := gridConflict(t)

	tests := []struct {
		name       string
		err        error
		notFound   bool
		validation bool
		business   bool
		conflict   bool
	}{
		{"wrapped exam not found", fmt.Errorf("load: %w", ErrExamNotFound), true, false, false, false},
		{"profile not found", ErrProfileNotFound, true, false, false, false},
		{"validation errors", apperrors.ValidationErrors{{Field: "title"}}, false, true, false, false},
		{"single validation error", NewValidationError("op", "bad", nil), false, true, false, false},
		{"unsupported format", ErrUnsupportedFormat, false, true, false, false},
		{"business rule", NewBusinessRuleError("rule", "msg", nil), false, false, true, false},
		{"not a table", ErrQuestionNotTable, false, false, true, false},
		{"not editable", ErrExamNotEditable, false, false, false, true},
		{"grid conflict", conflict, false, false, false, true},
		{"plain", errors.New("boom"), false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.notFound, IsNotFound(tt.err))
			assert.Equal(t, tt.validation, IsValidation(tt.err))
			assert.Equal(t, tt.business, IsBusinessRule(tt.err))
			assert.Equal(t, tt.conflict, IsConflict(tt.err))
		})
	}
	assert.True(t, IsGridError(conflict))
	assert.False(t, IsGridError(ErrConflict))
}

func TestServiceLogger_LevelFollowsErrorClass(t *testing.T) {
	var buf bytes.Buffer
	logger := NewServiceLogger(slog.New(slog.NewTextHandler(&buf, nil)), LogConfig{Service: serviceName, Component: "test"})
	ctx := context.Background()

	logger.LogOperation(ctx, "get_exam", "exam-1", "exam", time.Millisecond, ErrExamNotFound)
	assert.Contains(t, buf.String(), "level=INFO")
	assert.Contains(t, buf.String(), "status=not_found")

	buf.Reset()
	logger.LogOperation(ctx, "grid_remove_row", "q1", "question", time.Millisecond, gridConflict(t))
	assert.Contains(t, buf.String(), "level=WARN")

	buf.Reset()
	logger.LogOperation(ctx, "create_exam", "exam-1", "exam", time.Millisecond, errors.New("db down"))
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "caller_func")

	buf.Reset()
	logger.WithOperation(ctx, "create_exam").LogResult("exam-1", "exam", apperrors.ValidationErrors{{Field: "title", Message: "is required"}})
	assert.Contains(t, buf.String(), "validation_errors_count=1")
	assert.Contains(t, buf.String(), "Validation failed")
}
