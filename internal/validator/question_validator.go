package validator

import (
	"fmt"
	"sort"

	"github.com/SAP-F-2025/exam-document-service/internal/grid"
	"github.com/SAP-F-2025/exam-document-service/internal/models"
)

// QuestionValidator handles question-specific validation: stored keys must point at
// existing choices, items and rows, and table grids must keep their invariants.
type QuestionValidator struct{}

// NewQuestionValidator creates a new question validator
func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{}
}

// ValidateQuestion validates one question; path prefixes every reported field.
func (v *QuestionValidator) ValidateQuestion(path string, q models.Question) ValidationErrors {
	var errs ValidationErrors
	if q.QuestionID() == "" {
		errs = append(errs, fieldError(path+".id", "is required", nil))
	}

	switch q := q.(type) {
	case *models.MultipleChoice:
		errs = append(errs, v.validateChoices(path, &q.ChoiceList)...)
		if q.Answer != "" && q.IndexOf(q.Answer) < 0 {
			errs = append(errs, fieldError(path+".answer", "must reference an existing choice", q.Answer))
		}
	case *models.ComplexMultipleChoice:
		errs = append(errs, v.validateChoices(path, &q.ChoiceList)...)
		errs = append(errs, v.validateChoiceRefs(path+".answers", &q.ChoiceList, q.Answers)...)
	case *models.TrueFalse:
		if q.Answer != "" && q.Answer != "true" && q.Answer != "false" {
			errs = append(errs, fieldError(path+".answer", "must be true or false", q.Answer))
		}
	case *models.Matching:
		errs = append(errs, v.validateMatching(path, q)...)
	case *models.Table:
		errs = append(errs, v.ValidateGrid(path+".grid", &q.Grid)...)
	case *models.TableMultipleChoice:
		errs = append(errs, v.ValidateGrid(path+".grid", &q.Grid)...)
		errs = append(errs, v.validateChoices(path, &q.ChoiceList)...)
		for _, rowID := range sortedKeys(q.RowAnswers) {
			field := fmt.Sprintf("%s.row_answers[%s]", path, rowID)
			if q.Grid.RowIndex(rowID) < 0 {
				errs = append(errs, fieldError(field, "must reference an existing row", rowID))
			}
			if choice := q.RowAnswers[rowID]; choice != "" && q.IndexOf(choice) < 0 {
				errs = append(errs, fieldError(field, "must reference an existing choice", choice))
			}
		}
	case *models.TableComplexMultipleChoice:
		errs = append(errs, v.ValidateGrid(path+".grid", &q.Grid)...)
		errs = append(errs, v.validateChoices(path, &q.ChoiceList)...)
		for _, rowID := range sortedKeys(q.RowAnswers) {
			field := fmt.Sprintf("%s.row_answers[%s]", path, rowID)
			if q.Grid.RowIndex(rowID) < 0 {
				errs = append(errs, fieldError(field, "must reference an existing row", rowID))
			}
			errs = append(errs, v.validateChoiceRefs(field, &q.ChoiceList, q.RowAnswers[rowID])...)
		}
	}
	return errs
}

// ValidateGrid reports the first broken grid invariant.
func (v *QuestionValidator) ValidateGrid(path string, g *models.TableGrid) ValidationErrors {
	if err := grid.Validate(g); err != nil {
		return ValidationErrors{fieldError(path, err.Error(), nil)}
	}
	return nil
}

func (v *QuestionValidator) validateChoices(path string, list *models.ChoiceList) ValidationErrors {
	var errs ValidationErrors
	seen := make(map[string]bool, len(list.Choices))
	for i, choice := range list.Choices {
		field := fmt.Sprintf("%s.choices[%d].id", path, i)
		switch {
		case choice.ID == "":
			errs = append(errs, fieldError(field, "is required", nil))
		case seen[choice.ID]:
			errs = append(errs, fieldError(field, "must be unique", choice.ID))
		}
		seen[choice.ID] = true
	}
	return errs
}

func (v *QuestionValidator) validateChoiceRefs(field string, list *models.ChoiceList, ids []string) ValidationErrors {
	var errs ValidationErrors
	for _, id := range ids {
		if list.IndexOf(id) < 0 {
			errs = append(errs, fieldError(field, "must reference an existing choice", id))
		}
	}
	return errs
}

func (v *QuestionValidator) validateMatching(path string, m *models.Matching) ValidationErrors {
	var errs ValidationErrors
	for side, items := range [2][]models.MatchingItem{m.Prompts, m.Answers} {
		name := [2]string{"prompts", "answers"}[side]
		seen := make(map[string]bool, len(items))
		for i, item := range items {
			field := fmt.Sprintf("%s.%s[%d].id", path, name, i)
			switch {
			case item.ID == "":
				errs = append(errs, fieldError(field, "is required", nil))
			case seen[item.ID]:
				errs = append(errs, fieldError(field, "must be unique", item.ID))
			}
			seen[item.ID] = true
		}
	}
	for i, pair := range m.Key {
		field := fmt.Sprintf("%s.key[%d]", path, i)
		if m.PromptIndex(pair.PromptID) < 0 {
			errs = append(errs, fieldError(field+".prompt_id", "must reference an existing prompt", pair.PromptID))
		}
		if m.AnswerIndex(pair.AnswerID) < 0 {
			errs = append(errs, fieldError(field+".answer_id", "must reference an existing answer", pair.AnswerID))
		}
	}
	return errs
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
