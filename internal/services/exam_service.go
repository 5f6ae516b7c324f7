package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/exam-document-service/internal/events"
	"github.com/SAP-F-2025/exam-document-service/internal/models"
	"github.com/SAP-F-2025/exam-document-service/internal/repositories"
	"github.com/SAP-F-2025/exam-document-service/internal/validator"
)

type examService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	validator *validator.Validator
	logger    *ServiceLogger
	newID     func() string
	now       func() time.Time
}

func NewExamService(repo repositories.Repository, publisher events.EventPublisher, validator *validator.Validator, logger *slog.Logger) ExamService {
	return &examService{
		repo:      repo,
		publisher: publisher,
		validator: validator,
		logger:    NewServiceLogger(logger, LogConfig{Service: serviceName, Component: "exam"}),
		newID:     uuid.NewString,
		now:       time.Now,
	}
}

// ===== CORE CRUD OPERATIONS =====

func (s *examService) Create(ctx context.Context, exam *models.Exam) (created *models.Exam, err error) {
	op := s.logger.WithOperation(ctx, "create_exam")
	defer func() { op.LogResult(idOf(created), "exam", err) }()

	if exam == nil {
		return nil, NewValidationError("exam", "is required", nil)
	}

	created = exam
	created.ID = s.newID()
	created.Status = models.StatusDraft
	s.assignIDs(created)

	if err = s.validator.Validate(created); err != nil {
		return nil, err
	}
	if err = s.repo.Exam().Create(ctx, created); err != nil {
		return nil, fmt.Errorf("failed to create exam: %w", err)
	}
	return created, nil
}

func (s *examService) GetByID(ctx context.Context, id string) (*models.Exam, error) {
	return s.load(ctx, id)
}

func (s *examService) List(ctx context.Context, filters repositories.ExamFilters) (*ExamListResponse, error) {
	records, total, err := s.repo.Exam().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list exams: %w", err)
	}
	return &ExamListResponse{
		Exams:  records,
		Total:  total,
		Limit:  filters.Limit,
		Offset: filters.Offset,
	}, nil
}

func (s *examService) Update(ctx context.Context, id string, exam *models.Exam) (*models.Exam, error) {
	if exam == nil {
		return nil, NewValidationError("exam", "is required", nil)
	}
	return s.mutate(ctx, id, "update_exam", func(working *models.Exam) error {
		next := *exam
		next.ID = working.ID
		next.Status = working.Status
		*working = next
		s.assignIDs(working)
		return nil
	})
}

func (s *examService) Delete(ctx context.Context, id string) (err error) {
	op := s.logger.WithOperation(ctx, "delete_exam")
	defer func() { op.LogResult(id, "exam", err) }()

	if err = s.repo.Exam().Delete(ctx, id); err != nil {
		return mapExamRepoError(err)
	}
	return nil
}

// Publish moves a draft exam to published. Published exams are read-only for content edits.
func (s *examService) Publish(ctx context.Context, id string) (exam *models.Exam, err error) {
	op := s.logger.WithOperation(ctx, "publish_exam")
	defer func() { op.LogResult(id, "exam", err) }()

	exam, err = s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if exam.IsPublished() {
		return nil, ErrExamInvalidStatus
	}
	if exam.QuestionCount() == 0 {
		return nil, NewBusinessRuleError("exam_has_questions", "an exam needs at least one question to be published",
			map[string]interface{}{"exam_id": id})
	}
	if err = s.validator.Validate(exam); err != nil {
		return nil, err
	}

	exam.Status = models.StatusPublished
	if err = s.repo.Exam().Update(ctx, exam); err != nil {
		return nil, mapExamRepoError(err)
	}

	s.publish(ctx, events.NewExamPublishedEvent(exam, s.now().UTC()))
	return exam, nil
}

// ===== STRUCTURE EDITS =====

func (s *examService) AddSection(ctx context.Context, id string, section models.Section) (*models.Exam, error) {
	return s.mutate(ctx, id, "add_section", func(exam *models.Exam) error {
		if section.Questions == nil {
			section.Questions = models.QuestionList{}
		}
		exam.Sections = append(exam.Sections, section)
		s.assignIDs(exam)
		return nil
	})
}

func (s *examService) AddQuestion(ctx context.Context, id string, sectionIndex int, question models.Question) (*models.Exam, error) {
	if question == nil {
		return nil, NewValidationError("question", "is required", nil)
	}
	return s.mutate(ctx, id, "add_question", func(exam *models.Exam) error {
		if sectionIndex < 0 || sectionIndex >= len(exam.Sections) {
			return fmt.Errorf("%w: %d", ErrSectionNotFound, sectionIndex)
		}
		if qid := question.QuestionID(); qid != "" {
			if _, _, _, exists := exam.FindQuestion(qid); exists {
				return fmt.Errorf("%w: %s", ErrDuplicateQuestionID, qid)
			}
		}
		section := &exam.Sections[sectionIndex]
		section.Questions = append(section.Questions, question)
		s.assignIDs(exam)
		return nil
	})
}

func (s *examService) RemoveQuestion(ctx context.Context, id, questionID string) (*models.Exam, error) {
	return s.mutate(ctx, id, "remove_question", func(exam *models.Exam) error {
		si, qi, _, ok := exam.FindQuestion(questionID)
		if !ok {
			return ErrQuestionNotFound
		}
		questions := exam.Sections[si].Questions
		exam.Sections[si].Questions = append(questions[:qi:qi], questions[qi+1:]...)
		return nil
	})
}

// RenumberQuestions writes 1..n into the display numbers. Questions of an unknown
// type keep their stored form but still take a position in the sequence.
func (s *examService) RenumberQuestions(ctx context.Context, id string) (*models.Exam, error) {
	return s.mutate(ctx, id, "renumber_questions", func(exam *models.Exam) error {
		n := 0
		for _, section := range exam.Sections {
			for _, q := range section.Questions {
				if q.Type() == models.TypeStimulus {
					continue
				}
				n++
				if _, unknown := q.(*models.UnknownQuestion); unknown {
					continue
				}
				q.Base().DisplayNumber = strconv.Itoa(n)
			}
		}
		return nil
	})
}

// RemoveMatchingItem deletes a prompt or answer together with every key pair that references it.
func (s *examService) RemoveMatchingItem(ctx context.Context, id, questionID string, side MatchingSide, itemID string) (*models.Exam, error) {
	if side != SidePrompt && side != SideAnswer {
		return nil, NewValidationError("side", "must be prompt or answer", side)
	}
	return s.mutate(ctx, id, "remove_matching_item", func(exam *models.Exam) error {
		_, _, q, ok := exam.FindQuestion(questionID)
		if !ok {
			return ErrQuestionNotFound
		}
		matching, ok := q.(*models.Matching)
		if !ok {
			return ErrQuestionNotMatching
		}
		var removed bool
		if side == SidePrompt {
			removed = matching.RemovePrompt(itemID)
		} else {
			removed = matching.RemoveAnswer(itemID)
		}
		if !removed {
			return fmt.Errorf("%w: %s %s", ErrMatchingItemNotFound, side, itemID)
		}
		return nil
	})
}

// ===== HELPERS =====

func (s *examService) load(ctx context.Context, id string) (*models.Exam, error) {
	exam, err := s.repo.Exam().GetByID(ctx, id)
	if err != nil {
		return nil, mapExamRepoError(err)
	}
	return exam, nil
}

// mutate applies fn to a working copy of a draft exam, validates the result and
// persists it. Any failure leaves the stored exam as it was.
func (s *examService) mutate(ctx context.Context, id, operation string, fn func(*models.Exam) error) (exam *models.Exam, err error) {
	op := s.logger.WithOperation(ctx, operation)
	defer func() { op.LogResult(id, "exam", err) }()

	return editExam(ctx, s.repo, s.validator, id, fn)
}

func editExam(ctx context.Context, repo repositories.Repository, v *validator.Validator, id string, fn func(*models.Exam) error) (*models.Exam, error) {
	current, err := repo.Exam().GetByID(ctx, id)
	if err != nil {
		return nil, mapExamRepoError(err)
	}
	if current.IsPublished() {
		return nil, ErrExamNotEditable
	}

	working, err := current.Clone()
	if err != nil {
		return nil, err
	}
	if err := fn(working); err != nil {
		return nil, err
	}
	if err := v.Validate(working); err != nil {
		return nil, err
	}
	if err := repo.Exam().Update(ctx, working); err != nil {
		return nil, mapExamRepoError(err)
	}
	return working, nil
}

// assignIDs gives every section and question without a stable ID a fresh one.
func (s *examService) assignIDs(exam *models.Exam) {
	for si := range exam.Sections {
		section := &exam.Sections[si]
		if section.ID == "" {
			section.ID = s.newID()
		}
		if section.Questions == nil {
			section.Questions = models.QuestionList{}
		}
		for _, q := range section.Questions {
			if base := q.Base(); base.ID == "" {
				base.ID = s.newID()
			}
		}
	}
}

func (s *examService) publish(ctx context.Context, event *events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Logger().WarnContext(ctx, "Failed to publish event", "event_type", event.Type, "error", err)
	}
}

func mapExamRepoError(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrExamNotFound
	}
	return err
}

func idOf(exam *models.Exam) string {
	if exam == nil {
		return ""
	}
	return exam.ID
}
