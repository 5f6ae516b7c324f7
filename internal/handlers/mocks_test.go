package handlers

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/SAP-F-2025/exam-document-service/internal/grid"
	"github.com/SAP-F-2025/exam-document-service/internal/models"
	"github.com/SAP-F-2025/exam-document-service/internal/render"
	"github.com/SAP-F-2025/exam-document-service/internal/repositories"
	"github.com/SAP-F-2025/exam-document-service/internal/services"
)

type MockExamService struct {
	mock.Mock
}

func (m *MockExamService) examResult(args mock.Arguments) (*models.Exam, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Exam), args.Error(1)
}

func (m *MockExamService) Create(ctx context.Context, exam *models.Exam) (*models.Exam, error) {
	return m.examResult(m.Called(ctx, exam))
}

func (m *MockExamService) GetByID(ctx context.Context, id string) (*models.Exam, error) {
	return m.examResult(m.Called(ctx, id))
}

func (m *MockExamService) List(ctx context.Context, filters repositories.ExamFilters) (*services.ExamListResponse, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ExamListResponse), args.Error(1)
}

func (m *MockExamService) Update(ctx context.Context, id string, exam *models.Exam) (*models.Exam, error) {
	return m.examResult(m.Called(ctx, id, exam))
}

func (m *MockExamService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockExamService) Publish(ctx context.Context, id string) (*models.Exam, error) {
	return m.examResult(m.Called(ctx, id))
}

func (m *MockExamService) AddSection(ctx context.Context, id string, section models.Section) (*models.Exam, error) {
	return m.examResult(m.Called(ctx, id, section))
}

func (m *MockExamService) AddQuestion(ctx context.Context, id string, sectionIndex int, question models.Question) (*models.Exam, error) {
	return m.examResult(m.Called(ctx, id, sectionIndex, question))
}

func (m *MockExamService) RemoveQuestion(ctx context.Context, id, questionID string) (*models.Exam, error) {
	return m.examResult(m.Called(ctx, id, questionID))
}

func (m *MockExamService) RenumberQuestions(ctx context.Context, id string) (*models.Exam, error) {
	return m.examResult(m.Called(ctx, id))
}

func (m *MockExamService) RemoveMatchingItem(ctx context.Context, id, questionID string, side services.MatchingSide, itemID string) (*models.Exam, error) {
	return m.examResult(m.Called(ctx, id, questionID, side, itemID))
}

type MockGridService struct {
	mock.Mock
}

func (m *MockGridService) Apply(ctx context.Context, examID, questionID string, op services.GridOperation) (*models.TableGrid, error) {
	args := m.Called(ctx, examID, questionID, op)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TableGrid), args.Error(1)
}

func (m *MockGridService) Eligibility(ctx context.Context, examID, questionID string, cellIDs []string) (grid.Eligibility, error) {
	args := m.Called(ctx, examID, questionID, cellIDs)
	return args.Get(0).(grid.Eligibility), args.Error(1)
}

type MockRenderService struct {
	mock.Mock
}

func (m *MockRenderService) Render(ctx context.Context, req services.RenderRequest) (*render.Output, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*render.Output), args.Error(1)
}

func (m *MockRenderService) SaveProfile(ctx context.Context, name string, cfg models.RenderConfig) (*models.RenderProfile, error) {
	args := m.Called(ctx, name, cfg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RenderProfile), args.Error(1)
}

func (m *MockRenderService) GetProfile(ctx context.Context, name string) (*models.RenderProfile, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RenderProfile), args.Error(1)
}

func (m *MockRenderService) ListProfiles(ctx context.Context) ([]*models.RenderProfile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RenderProfile), args.Error(1)
}

type MockImportExportService struct {
	mock.Mock
}

func (m *MockImportExportService) ImportQuestions(ctx context.Context, examID string, sectionIndex int, file io.Reader, filename string) (*models.ImportSummary, error) {
	args := m.Called(ctx, examID, sectionIndex, file, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ImportSummary), args.Error(1)
}

func (m *MockImportExportService) ExportQuestions(ctx context.Context, examID string, format services.ExportFormat) (*services.ExportFile, error) {
	args := m.Called(ctx, examID, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ExportFile), args.Error(1)
}

type mockServiceManager struct {
	exam         *MockExamService
	grid         *MockGridService
	render       *MockRenderService
	importExport *MockImportExportService
}

func newMockServiceManager() *mockServiceManager {
	return &mockServiceManager{
		exam:         &MockExamService{},
		grid:         &MockGridService{},
		render:       &MockRenderService{},
		importExport: &MockImportExportService{},
	}
}

func (m *mockServiceManager) Exam() services.ExamService                 { return m.exam }
func (m *mockServiceManager) Grid() services.GridService                 { return m.grid }
func (m *mockServiceManager) Render() services.RenderService             { return m.render }
func (m *mockServiceManager) ImportExport() services.ImportExportService { return m.importExport }
