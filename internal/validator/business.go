package validator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/SAP-F-2025/exam-document-service/internal/models"
)

// BusinessValidator checks the cross-field rules of exams and render configurations
// that struct tags cannot express.
type BusinessValidator struct {
	questions *QuestionValidator
}

func NewBusinessValidator(questions *QuestionValidator) *BusinessValidator {
	return &BusinessValidator{questions: questions}
}

// Validate dispatches on the value type; unknown types have no business rules.
func (v *BusinessValidator) Validate(s interface{}) ValidationErrors {
	switch value := s.(type) {
	case *models.Exam:
		return v.ValidateExam(value)
	case *models.RenderConfig:
		return v.ValidateRenderConfig(value)
	case models.RenderConfig:
		return v.ValidateRenderConfig(&value)
	}
	return nil
}

// ValidateExam checks every question and requires question IDs unique across the exam.
func (v *BusinessValidator) ValidateExam(exam *models.Exam) ValidationErrors {
	var errs ValidationErrors
	if exam.Columns != 0 && exam.Columns != 1 && exam.Columns != 2 {
		errs = append(errs, fieldError("columns", "must be 1 or 2", exam.Columns))
	}

	seen := make(map[string]string)
	for si, section := range exam.Sections {
		for qi, q := range section.Questions {
			path := fmt.Sprintf("sections[%d].questions[%d]", si, qi)
			if q == nil {
				errs = append(errs, fieldError(path, "is required", nil))
				continue
			}
			if id := q.QuestionID(); id != "" {
				if first, dup := seen[id]; dup {
					errs = append(errs, fieldError(path+".id", "duplicates the question at "+first, id))
				} else {
					seen[id] = path
				}
			}
			errs = append(errs, v.questions.ValidateQuestion(path, q)...)
		}
	}
	return errs
}

// ValidateRenderConfig checks logos and header lines.
func (v *BusinessValidator) ValidateRenderConfig(cfg *models.RenderConfig) ValidationErrors {
	var errs ValidationErrors
	for name, logo := range map[string]*models.Logo{"left_logo": cfg.LeftLogo, "right_logo": cfg.RightLogo} {
		if logo == nil {
			continue
		}
		if !strings.HasPrefix(logo.ContentType, "image/") {
			errs = append(errs, fieldError(name+".content_type", "must be an image type", logo.ContentType))
		}
		if len(logo.Data) == 0 {
			errs = append(errs, fieldError(name+".data", "is required", nil))
		}
	}
	for i, line := range cfg.HeaderLines {
		if len(line) > 200 {
			errs = append(errs, fieldError(fmt.Sprintf("header_lines[%d]", i), "must be at most 200 characters", len(line)))
		}
	}
	sort.SliceStable(errs, func(i, j int) bool { return errs[i].Field < errs[j].Field })
	return errs
}
