package services

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/SAP-F-2025/exam-document-service/internal/models"
	"github.com/SAP-F-2025/exam-document-service/internal/repositories"
)

// MockExamRepository is a mock implementation of ExamRepository
type MockExamRepository struct {
	mock.Mock
}

func (m *MockExamRepository) Create(ctx context.Context, exam *models.Exam) error {
	args := m.Called(ctx, exam)
	return args.Error(0)
}

func (m *MockExamRepository) GetByID(ctx context.Context, id string) (*models.Exam, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*models.Exam), args.Error(1)
}

func (m *MockExamRepository) Update(ctx context.Context, exam *models.Exam) error {
	args := m.Called(ctx, exam)
	return args.Error(0)
}

func (m *MockExamRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockExamRepository) List(ctx context.Context, filters repositories.ExamFilters) ([]*models.ExamRecord, int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*models.ExamRecord), args.Get(1).(int64), args.Error(2)
}

// MockRenderProfileRepository is a mock implementation of RenderProfileRepository
type MockRenderProfileRepository struct {
	mock.Mock
}

func (m *MockRenderProfileRepository) Save(ctx context.Context, profile *models.RenderProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockRenderProfileRepository) GetByName(ctx context.Context, name string) (*models.RenderProfile, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(*models.RenderProfile), args.Error(1)
}

func (m *MockRenderProfileRepository) List(ctx context.Context) ([]*models.RenderProfile, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.RenderProfile), args.Error(1)
}

type MockRepository struct {
	exams    *MockExamRepository
	profiles *MockRenderProfileRepository
}

func newMockRepository() *MockRepository {
	return &MockRepository{exams: &MockExamRepository{}, profiles: &MockRenderProfileRepository{}}
}

func (m *MockRepository) Exam() repositories.ExamRepository                   { return m.exams }
func (m *MockRepository) RenderProfile() repositories.RenderProfileRepository { return m.profiles }

// MockCacheService is a mock implementation of CacheService
type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheService) Get(ctx context.Context, key string, dest interface{}) error {
	args := m.Called(ctx, key, dest)
	return args.Error(0)
}

func (m *MockCacheService) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheService) DeletePattern(ctx context.Context, pattern string) error {
	args := m.Called(ctx, pattern)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// sequentialIDs returns an ID source yielding prefix-1, prefix-2, ...
func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return prefix + "-" + strconv.Itoa(n)
	}
}

// sampleExam is a valid draft exam: a multiple-choice question, a stimulus, a matching
// question and a table-choice question over a 2x2 grid.
func sampleExam() *models.Exam {
	return &models.Exam{
		ID:     "exam-1",
		Title:  "Science",
		Status: models.StatusDraft,
		Sections: []models.Section{{
			ID:          "s1",
			Instruction: "Choose the best answer",
			Questions: models.QuestionList{
				&models.MultipleChoice{
					QuestionBase: models.QuestionBase{ID: "q1", Body: "Largest planet?"},
					ChoiceList:   models.ChoiceList{Choices: []models.Choice{{ID: "a", Text: "Mars"}, {ID: "b", Text: "Jupiter"}}},
					Answer:       "b",
				},
				&models.Stimulus{QuestionBase: models.QuestionBase{ID: "st1", Body: "Read the passage"}},
				&models.Matching{
					QuestionBase: models.QuestionBase{ID: "q2", Body: "Match"},
					Prompts:      []models.MatchingItem{{ID: "p1", Text: "Dog"}, {ID: "p2", Text: "Cat"}},
					Answers:      []models.MatchingItem{{ID: "a1", Text: "Woof"}, {ID: "a2", Text: "Meow"}},
					Key:          []models.MatchPair{{PromptID: "p1", AnswerID: "a1"}, {PromptID: "p2", AnswerID: "a2"}},
				},
				&models.TableMultipleChoice{
					QuestionBase: models.QuestionBase{ID: "q3", Body: "Classify"},
					ChoiceList:   models.ChoiceList{Choices: []models.Choice{{ID: "a", Text: "Yes"}, {ID: "b", Text: "No"}}},
					Grid: models.TableGrid{Rows: []models.GridRow{
						{ID: "r1", Cells: []models.Cell{{ID: "c11", Content: "Iron"}, {ID: "c12"}}},
						{ID: "r2", Cells: []models.Cell{{ID: "c21", Content: "Wood"}, {ID: "c22"}}},
					}},
					RowAnswers: map[string]string{"r1": "a", "r2": "b"},
				},
			},
		}},
	}
}
