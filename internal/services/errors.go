package services

import (
	"errors"
	"fmt"

	apperrors "github.com/SAP-F-2025/exam-document-service/internal/errors"
	"github.com/SAP-F-2025/exam-document-service/internal/grid"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrConflict         = errors.New("resource conflict")

	// Exam specific errors
	ErrExamNotFound      = errors.New("exam not found")
	ErrExamNotEditable   = errors.New("exam cannot be edited in current status")
	ErrExamInvalidStatus = errors.New("invalid exam status transition")
	ErrSectionNotFound   = errors.New("section not found")

	// Question specific errors
	ErrQuestionNotFound     = errors.New("question not found")
	ErrQuestionNotTable     = errors.New("question has no table grid")
	ErrQuestionNotMatching  = errors.New("question is not a matching question")
	ErrMatchingItemNotFound = errors.New("matching item not found")
	ErrDuplicateQuestionID  = errors.New("question id already exists in exam")

	// Render specific errors
	ErrUnsupportedFormat = errors.New("unsupported output format")
	ErrProfileNotFound   = errors.New("render profile not found")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

type BusinessRuleError struct {
	Rule    string                 `json:"rule"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (bre *BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule violation (%s): %s", bre.Rule, bre.Message)
}

// ===== ERROR HELPERS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

func NewBusinessRuleError(rule, message string, context map[string]interface{}) *BusinessRuleError {
	return &BusinessRuleError{
		Rule:    rule,
		Message: message,
		Context: context,
	}
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrExamNotFound) ||
		errors.Is(err, ErrSectionNotFound) ||
		errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, ErrMatchingItemNotFound) ||
		errors.Is(err, ErrProfileNotFound)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) || errors.Is(err, ErrUnsupportedFormat) {
		return true
	}
	var ve apperrors.ValidationErrors
	if errors.As(err, &ve) {
		return true
	}
	var single *apperrors.ValidationError
	return errors.As(err, &single)
}

// IsBusinessRule checks if error represents a business rule violation
func IsBusinessRule(err error) bool {
	var bre *BusinessRuleError
	return errors.As(err, &bre) ||
		errors.Is(err, ErrQuestionNotTable) ||
		errors.Is(err, ErrQuestionNotMatching)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrExamNotEditable) ||
		errors.Is(err, ErrExamInvalidStatus) ||
		errors.Is(err, ErrDuplicateQuestionID) ||
		grid.IsStructuralConflict(err)
}

// IsGridError checks if error was raised by the grid engine
func IsGridError(err error) bool {
	var ge *grid.Error
	return errors.As(err, &ge)
}
