package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/SAP-F-2025/exam-document-service/internal/models"
)

// Validator is the main validator instance that combines all validation types
type Validator struct {
	structValidator   *validator.Validate
	businessValidator *BusinessValidator
	questionValidator *QuestionValidator
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()

	// Register all custom validators once
	registerCustomValidators(structValidator)

	questions := NewQuestionValidator()
	return &Validator{
		structValidator:   structValidator,
		businessValidator: NewBusinessValidator(questions),
		questionValidator: questions,
	}
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// ValidateBusiness validates business rules only
func (v *Validator) ValidateBusiness(s interface{}) ValidationErrors {
	return v.businessValidator.Validate(s)
}

// Validate performs complete validation (struct + business rules).
// Struct failures are returned as ValidationErrors too.
func (v *Validator) Validate(s interface{}) error {
	if err := v.ValidateStruct(s); err != nil {
		if errs := ToValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return err
	}

	if errors := v.ValidateBusiness(s); len(errors) > 0 {
		return errors
	}

	return nil
}

// Question returns the question validator
func (v *Validator) Question() *QuestionValidator {
	return v.questionValidator
}

// Business returns the business validator
func (v *Validator) Business() *BusinessValidator {
	return v.businessValidator
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("question_type", validateQuestionType)
	validate.RegisterValidation("exam_status", oneOf(models.StatusDraft, models.StatusPublished))
	validate.RegisterValidation("direction", oneOf(models.DirectionLTR, models.DirectionRTL))
	validate.RegisterValidation("paper_size", oneOf(models.PaperA4, models.PaperF4, models.PaperLegal, models.PaperLetter))
	validate.RegisterValidation("render_mode", oneOf(models.ModeQuestions, models.ModeAnswerKey))
	validate.RegisterValidation("render_format", oneOf("html", "docx", "xlsx"))

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateQuestionType(fl validator.FieldLevel) bool {
	return models.QuestionType(fl.Field().String()).IsKnown()
}

// oneOf builds a validation function accepting exactly the given string values.
func oneOf[T ~string](values ...T) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		for _, v := range values {
			if string(v) == value {
				return true
			}
		}
		return false
	}
}
