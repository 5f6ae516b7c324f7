package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/exam-document-service/internal/events"
	"github.com/SAP-F-2025/exam-document-service/internal/models"
	"github.com/SAP-F-2025/exam-document-service/internal/repositories"
	"github.com/SAP-F-2025/exam-document-service/internal/validator"
)

func newTestExamService(repo *MockRepository, publisher events.EventPublisher) *examService {
	return &examService{
		repo:      repo,
		publisher: publisher,
		validator: validator.New(),
		logger:    NewServiceLogger(discardLogger(), LogConfig{Service: serviceName, Component: "exam"}),
		newID:     sequentialIDs("id"),
		now:       func() time.Time { return time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC) },
	}
}

func TestExamService_Create(t *testing.T) {
	repo := newMockRepository()
	repo.exams.On("Create", mock.Anything, mock.AnythingOfType("*models.Exam")).Return(nil)
	svc := newTestExamService(repo, nil)

	exam := &models.Exam{
		ID:     "client-chosen",
		Title:  "Math",
		Status: models.StatusPublished,
		Sections: []models.Section{{
			Instruction: "Answer briefly",
			Questions:   models.QuestionList{&models.ShortAnswer{QuestionBase: models.QuestionBase{Body: "2 + 2"}}},
		}},
	}

	created, err := svc.Create(context.Background(), exam)
	require.NoError(t, err)
	assert.Equal(t, "id-1", created.ID)
	assert.Equal(t, models.StatusDraft, created.Status)
	assert.Equal(t, "id-2", created.Sections[0].ID)
	assert.Equal(t, "id-3", created.Sections[0].Questions[0].QuestionID())
	repo.exams.AssertExpectations(t)
}

func TestExamService_CreateRejectsInvalidExam(t *testing.T) {
	repo := newMockRepository()
	svc := newTestExamService(repo, nil)

	_, err := svc.Create(context.Background(), &models.Exam{Title: ""})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	repo.exams.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestExamService_GetByIDNotFound(t *testing.T) {
	repo := newMockRepository()
	repo.exams.On("GetByID", mock.Anything, "missing").Return((*models.Exam)(nil), repositories.ErrNotFound)
	svc := newTestExamService(repo, nil)

	_, err := svc.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrExamNotFound)
	assert.True(t, IsNotFound(err))
}

func TestExamService_List(t *testing.T) {
	repo := newMockRepository()
	filters := repositories.ExamFilters{Limit: 10, Offset: 20}
	records := []*models.ExamRecord{{ID: "exam-1", Title: "Science"}}
	repo.exams.On("List", mock.Anything, filters).Return(records, int64(21), nil)
	svc := newTestExamService(repo, nil)

	resp, err := svc.List(context.Background(), filters)
	require.NoError(t, err)
	assert.Equal(t, records, resp.Exams)
	assert.Equal(t, int64(21), resp.Total)
	assert.Equal(t, 10, resp.Limit)
	assert.Equal(t, 20, resp.Offset)
}

func TestExamService_Update(t *testing.T) {
	repo := newMockRepository()
	repo.exams.On("GetByID", mock.Anything, "exam-1").Return(sampleExam(), nil)
	repo.exams.On("Update", mock.Anything, mock.AnythingOfType("*models.Exam")).Return(nil)
	svc := newTestExamService(repo, nil)

	incoming := sampleExam()
	incoming.ID = "other"
	incoming.Title = "Physics"
	incoming.Status = models.StatusPublished

	updated, err := svc.Update(context.Background(), "exam-1", incoming)
	require.NoError(t, err)
	assert.Equal(t, "exam-1", updated.ID)
	assert.Equal(t, "Physics", updated.Title)
	assert.Equal(t, models.StatusDraft, updated.Status)
}

func TestExamService_Delete(t *testing.T) {
	repo := newMockRepository()
	repo.exams.On("Delete", mock.Anything, "exam-1").Return(nil)
	repo.exams.On("Delete", mock.Anything, "missing").Return(repositories.ErrNotFound)
	svc := newTestExamService(repo, nil)

	assert.NoError(t, svc.Delete(context.Background(), "exam-1"))
	assert.ErrorIs(t, svc.Delete(context.Background(), "missing"), ErrExamNotFound)
}

func TestExamService_AddSection(t *testing.T) {
	repo := newMockRepository()
	repo.exams.On("GetByID", mock.Anything, "exam-1").Return(sampleExam(), nil)
	repo.exams.On("Update", mock.Anything, mock.AnythingOfType("*models.Exam")).Return(nil)
	svc := newTestExamService(repo, nil)

	exam, err := svc.AddSection(context.Background(), "exam-1", models.Section{Instruction: "Essay"})
	require.NoError(t, err)
	require.Len(t, exam.Sections, 2)
	assert.Equal(t, "id-1", exam.Sections[1].ID)
	assert.NotNil(t, exam.Sections[1].Questions)
}

func TestExamService_AddQuestion(t *testing.T) {
	repo := newMockRepository()
	stored := sampleExam()
	repo.exams.On("GetByID", mock.Anything, "exam-1").Return(stored, nil)
	repo.exams.On("Update", mock.Anything, mock.MatchedBy(func(e *models.Exam) bool {
		return len(e.Sections[0].Questions) == 5
	})).Return(nil)
	svc := newTestExamService(repo, nil)

	tf := &models.TrueFalse{QuestionBase: models.QuestionBase{Body: "The sky is blue"}, Answer: "true"}
	exam, err := svc.AddQuestion(context.Background(), "exam-1", 0, tf)
	require.NoError(t, err)
	require.Len(t, exam.Sections[0].Questions, 5)
	assert.Equal(t, "id-1", exam.Sections[0].Questions[4].QuestionID())
	assert.Len(t, stored.Sections[0].Questions, 4, "stored exam is never mutated in place")
	repo.exams.AssertExpectations(t)
}

func TestExamService_AddQuestionRejections(t *testing.T) {
	published := sampleExam()
	published.Status = models.StatusPublished

	tests := []struct {
		name     string
		exam     *models.Exam
		section  int
		question models.Question
		check    func(t *testing.T, err error)
	}{
		{
			name:     "published exam",
			exam:     published,
			question: &models.Essay{QuestionBase: models.QuestionBase{Body: "Explain"}},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrExamNotEditable)
				assert.True(t, IsConflict(err))
			},
		},
		{
			name:     "section out of range",
			exam:     sampleExam(),
			section:  3,
			question: &models.Essay{QuestionBase: models.QuestionBase{Body: "Explain"}},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrSectionNotFound)
			},
		},
		{
			name:     "duplicate id",
			exam:     sampleExam(),
			question: &models.Essay{QuestionBase: models.QuestionBase{ID: "q1", Body: "Explain"}},
			check: func(t *testing.T, err error) {
				assert.True(t, IsConflict(err))
			},
		},
		{
			name: "dangling answer key",
			exam: sampleExam(),
			question: &models.MultipleChoice{
				QuestionBase: models.QuestionBase{Body: "Pick"},
				ChoiceList:   models.ChoiceList{Choices: []models.Choice{{ID: "a", Text: "A"}}},
				Answer:       "z",
			},
			check: func(t *testing.T, err error) {
				assert.True(t, IsValidation(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockRepository()
			repo.exams.On("GetByID", mock.Anything, "exam-1").Return(tt.exam, nil)
			svc := newTestExamService(repo, nil)

			_, err := svc.AddQuestion(context.Background(), "exam-1", tt.section, tt.question)
			require.Error(t, err)
			tt.check(t, err)
			repo.exams.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		})
	}
}

func TestExamService_RemoveQuestion(t *testing.T) {
	repo := newMockRepository()
	repo.exams.On("GetByID", mock.Anything, "exam-1").Return(sampleExam(), nil)
	repo.exams.On("Update", mock.Anything, mock.AnythingOfType("*models.Exam")).Return(nil)
	svc := newTestExamService(repo, nil)

	exam, err := svc.RemoveQuestion(context.Background(), "exam-1", "st1")
	require.NoError(t, err)
	var ids []string
	for _, q := range exam.Sections[0].Questions {
		ids = append(ids, q.QuestionID())
	}
	assert.Equal(t, []string{"q1", "q2", "q3"}, ids)

	_, err = svc.RemoveQuestion(context.Background(), "exam-1", "nope")
	assert.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestExamService_RenumberQuestions(t *testing.T) {
	repo := newMockRepository()
	stored := sampleExam()
	stored.Sections[0].Questions[0].Base().DisplayNumber = "7"
	repo.exams.On("GetByID", mock.Anything, "exam-1").Return(stored, nil)
	repo.exams.On("Update", mock.Anything, mock.AnythingOfType("*models.Exam")).Return(nil)
	svc := newTestExamService(repo, nil)

	exam, err := svc.RenumberQuestions(context.Background(), "exam-1")
	require.NoError(t, err)

	var numbers []string
	for _, q := range exam.Sections[0].Questions {
		numbers = append(numbers, q.Number())
	}
	assert.Equal(t, []string{"1", "", "2", "3"}, numbers)
}

func TestExamService_RemoveMatchingItem(t *testing.T) {
	repo := newMockRepository()
	repo.exams.On("GetByID", mock.Anything, "exam-1").Return(sampleExam(), nil)
	repo.exams.On("Update", mock.Anything, mock.AnythingOfType("*models.Exam")).Return(nil)
	svc := newTestExamService(repo, nil)
	ctx := context.Background()

	exam, err := svc.RemoveMatchingItem(ctx, "exam-1", "q2", SidePrompt, "p1")
	require.NoError(t, err)
	_, _, q, _ := exam.FindQuestion("q2")
	matching := q.(*models.Matching)
	assert.Equal(t, []models.MatchingItem{{ID: "p2", Text: "Cat"}}, matching.Prompts)
	assert.Equal(t, []models.MatchPair{{PromptID: "p2", AnswerID: "a2"}}, matching.Key)

	_, err = svc.RemoveMatchingItem(ctx, "exam-1", "q2", SideAnswer, "zz")
	assert.ErrorIs(t, err, ErrMatchingItemNotFound)

	_, err = svc.RemoveMatchingItem(ctx, "exam-1", "q1", SideAnswer, "a1")
	assert.ErrorIs(t, err, ErrQuestionNotMatching)

	_, err = svc.RemoveMatchingItem(ctx, "exam-1", "q2", MatchingSide("middle"), "a1")
	assert.True(t, IsValidation(err))
}

func TestExamService_Publish(t *testing.T) {
	repo := newMockRepository()
	repo.exams.On("GetByID", mock.Anything, "exam-1").Return(sampleExam(), nil)
	repo.exams.On("Update", mock.Anything, mock.MatchedBy(func(e *models.Exam) bool {
		return e.Status == models.StatusPublished
	})).Return(nil)
	publisher := events.NewMockEventPublisher(discardLogger())
	svc := newTestExamService(repo, publisher)

	exam, err := svc.Publish(context.Background(), "exam-1")
	require.NoError(t, err)
	assert.True(t, exam.IsPublished())

	published := publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventExamPublished, published[0].Type)
	data := published[0].Data.(events.ExamPublishedEvent)
	assert.Equal(t, "exam-1", data.ExamID)
	assert.Equal(t, 4, data.QuestionCount)
	assert.Equal(t, time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC), data.PublishedAt)
}

func TestExamService_PublishRejections(t *testing.T) {
	already := sampleExam()
	already.Status = models.StatusPublished
	empty := &models.Exam{ID: "exam-1", Title: "Empty", Status: models.StatusDraft}

	tests := []struct {
		name  string
		exam  *models.Exam
		check func(t *testing.T, err error)
	}{
		{"already published", already, func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrExamInvalidStatus) }},
		{"no questions", empty, func(t *testing.T, err error) { assert.True(t, IsBusinessRule(err)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockRepository()
			repo.exams.On("GetByID", mock.Anything, "exam-1").Return(tt.exam, nil)
			publisher := events.NewMockEventPublisher(discardLogger())
			svc := newTestExamService(repo, publisher)

			_, err := svc.Publish(context.Background(), "exam-1")
			require.Error(t, err)
			tt.check(t, err)
			assert.Empty(t, publisher.GetPublishedEvents())
			repo.exams.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		})
	}
}
