package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/exam-document-service/internal/grid"
	"github.com/SAP-F-2025/exam-document-service/internal/models"
	"github.com/SAP-F-2025/exam-document-service/internal/validator"
)

func newTestGridService(repo *MockRepository) *gridService {
	return &gridService{
		repo:      repo,
		engine:    grid.NewEngineWithIDs(sequentialIDs("g")),
		validator: validator.New(),
		logger:    NewServiceLogger(discardLogger(), LogConfig{Service: serviceName, Component: "grid"}),
	}
}

// verticallyMerged returns the sample exam with c11 spanning both rows of q3.
func verticallyMerged() *models.Exam {
	exam := sampleExam()
	q := exam.Sections[0].Questions[3].(*models.TableMultipleChoice)
	q.Grid.Rows[0].Cells[0].RowSpan = 2
	q.Grid.Rows[1].Cells[0] = models.Cell{ID: "c21", Merged: true}
	return exam
}

func TestGridService_ApplyMerge(t *testing.T) {
	repo := newMockRepository()
	repo.exams.On("GetByID", mock.Anything, "exam-1").Return(sampleExam(), nil)
	repo.exams.On("Update", mock.Anything, mock.AnythingOfType("*models.Exam")).Return(nil)
	svc := newTestGridService(repo)

	g, err := svc.Apply(context.Background(), "exam-1", "q3", GridOperation{Op: OpMerge, CellIDs: []string{"c11", "c12"}})
	require.NoError(t, err)

	master := g.Rows[0].Cells[0]
	assert.Equal(t, 2, master.ColSpan)
	assert.Equal(t, "Iron", master.Content)
	assert.True(t, g.Rows[0].Cells[1].Merged)
	repo.exams.AssertNumberOfCalls(t, "Update", 1)
}

func TestGridService_RemoveRowDropsRowAnswers(t *testing.T) {
	repo := newMockRepository()
	repo.exams.On("GetByID", mock.Anything, "exam-1").Return(sampleExam(), nil)
	repo.exams.On("Update", mock.Anything, mock.MatchedBy(func(e *models.Exam) bool {
		q := e.Sections[0].Questions[3].(*models.TableMultipleChoice)
		_, kept := q.RowAnswers["r2"]
		return q.Grid.RowCount() == 1 && !kept && q.RowAnswers["r1"] == "a"
	})).Return(nil)
	svc := newTestGridService(repo)

	g, err := svc.Apply(context.Background(), "exam-1", "q3", GridOperation{Op: OpRemoveRow, Index: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, g.RowCount())
	repo.exams.AssertExpectations(t)
}

func TestGridService_SetSizing(t *testing.T) {
	repo := newMockRepository()
	repo.exams.On("GetByID", mock.Anything, "exam-1").Return(sampleExam(), nil)
	repo.exams.On("Update", mock.Anything, mock.AnythingOfType("*models.Exam")).Return(nil)
	svc := newTestGridService(repo)
	height := 12.5

	g, err := svc.Apply(context.Background(), "exam-1", "q3", GridOperation{Op: OpSetRowHeight, Index: 0, Height: &height})
	require.NoError(t, err)
	require.NotNil(t, g.Rows[0].Height)
	assert.Equal(t, 12.5, *g.Rows[0].Height)

	g, err = svc.Apply(context.Background(), "exam-1", "q3", GridOperation{Op: OpSetAlignment, CellID: "c12", Align: models.AlignMiddle})
	require.NoError(t, err)
	assert.Equal(t, models.AlignMiddle, g.Rows[0].Cells[1].VAlign)
}

func TestGridService_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		exam       *models.Exam
		questionID string
		op         GridOperation
		check      func(t *testing.T, err error)
	}{
		{
			name:       "single cell merge",
			exam:       sampleExam(),
			questionID: "q3",
			op:         GridOperation{Op: OpMerge, CellIDs: []string{"c11"}},
			check: func(t *testing.T, err error) {
				assert.True(t, grid.IsInvalidSelection(err))
				assert.True(t, IsGridError(err))
			},
		},
		{
			name:       "remove row crossed by span",
			exam:       verticallyMerged(),
			questionID: "q3",
			op:         GridOperation{Op: OpRemoveRow, Index: 0},
			check: func(t *testing.T, err error) {
				assert.True(t, grid.IsStructuralConflict(err))
				assert.True(t, IsConflict(err))
			},
		},
		{
			name:       "not a table question",
			exam:       sampleExam(),
			questionID: "q1",
			op:         GridOperation{Op: OpAddRow},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrQuestionNotTable)
			},
		},
		{
			name:       "unknown question",
			exam:       sampleExam(),
			questionID: "nope",
			op:         GridOperation{Op: OpAddRow},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrQuestionNotFound)
			},
		},
		{
			name:       "unsupported operation",
			exam:       sampleExam(),
			questionID: "q3",
			op:         GridOperation{Op: "rotate"},
			check: func(t *testing.T, err error) {
				assert.True(t, IsValidation(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockRepository()
			repo.exams.On("GetByID", mock.Anything, "exam-1").Return(tt.exam, nil)
			svc := newTestGridService(repo)

			_, err := svc.Apply(context.Background(), "exam-1", tt.questionID, tt.op)
			require.Error(t, err)
			tt.check(t, err)
			repo.exams.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		})
	}
}

func TestGridService_Eligibility(t *testing.T) {
	repo := newMockRepository()
	repo.exams.On("GetByID", mock.Anything, "plain").Return(sampleExam(), nil)
	repo.exams.On("GetByID", mock.Anything, "merged").Return(verticallyMerged(), nil)
	svc := newTestGridService(repo)
	ctx := context.Background()

	got, err := svc.Eligibility(ctx, "plain", "q3", []string{"c11", "c12"})
	require.NoError(t, err)
	assert.Equal(t, grid.Eligibility{CanMerge: true}, got)

	got, err = svc.Eligibility(ctx, "merged", "q3", []string{"c11"})
	require.NoError(t, err)
	assert.Equal(t, grid.Eligibility{CanSplit: true}, got)

	_, err = svc.Eligibility(ctx, "plain", "q1", []string{"c11"})
	assert.ErrorIs(t, err, ErrQuestionNotTable)
}
