package services

import (
	"context"
	"log/slog"

	"github.com/SAP-F-2025/exam-document-service/internal/grid"
	"github.com/SAP-F-2025/exam-document-service/internal/models"
	"github.com/SAP-F-2025/exam-document-service/internal/repositories"
	"github.com/SAP-F-2025/exam-document-service/internal/validator"
	"github.com/SAP-F-2025/exam-document-service/pkg/monitoring"
)

type gridService struct {
	repo      repositories.Repository
	engine    *grid.Engine
	validator *validator.Validator
	logger    *ServiceLogger
}

func NewGridService(repo repositories.Repository, engine *grid.Engine, validator *validator.Validator, logger *slog.Logger) GridService {
	if engine == nil {
		engine = grid.NewEngine()
	}
	return &gridService{
		repo:      repo,
		engine:    engine,
		validator: validator,
		logger:    NewServiceLogger(logger, LogConfig{Service: serviceName, Component: "grid"}),
	}
}

func (s *gridService) Apply(ctx context.Context, examID, questionID string, op GridOperation) (result *models.TableGrid, err error) {
	logged := s.logger.WithOperation(ctx, "grid_"+string(op.Op))
	defer func() {
		logged.LogResult(questionID, "question", err)
		status := "success"
		if err != nil {
			status = "rejected"
		}
		monitoring.GridOperations.WithLabelValues(string(op.Op), status).Inc()
	}()

	exam, err := editExam(ctx, s.repo, s.validator, examID, func(exam *models.Exam) error {
		q, g, err := tableQuestion(exam, questionID)
		if err != nil {
			return err
		}

		var removedRow string
		if op.Op == OpRemoveRow && op.Index >= 0 && op.Index < g.RowCount() {
			removedRow = g.Rows[op.Index].ID
		}
		if err := s.apply(g, op); err != nil {
			return err
		}
		if removedRow != "" {
			dropRowAnswers(q, removedRow)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	_, g, err := tableQuestion(exam, questionID)
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (s *gridService) Eligibility(ctx context.Context, examID, questionID string, cellIDs []string) (grid.Eligibility, error) {
	exam, err := s.repo.Exam().GetByID(ctx, examID)
	if err != nil {
		return grid.Eligibility{}, mapExamRepoError(err)
	}
	_, g, err := tableQuestion(exam, questionID)
	if err != nil {
		return grid.Eligibility{}, err
	}
	return s.engine.Eligibility(g, cellIDs), nil
}

func (s *gridService) apply(g *models.TableGrid, op GridOperation) error {
	switch op.Op {
	case OpAddRow:
		return s.engine.AddRow(g, op.Index)
	case OpRemoveRow:
		return s.engine.RemoveRow(g, op.Index)
	case OpAddColumn:
		return s.engine.AddColumn(g, op.Index)
	case OpRemoveColumn:
		return s.engine.RemoveColumn(g, op.Index)
	case OpSetRowHeight:
		return s.engine.SetRowHeight(g, op.Index, op.Height)
	case OpSetColumnWidth:
		return s.engine.SetColumnWidth(g, op.Index, op.Width)
	case OpSetAlignment:
		return s.engine.SetCellAlignment(g, op.CellID, op.Align)
	case OpSetContent:
		return s.engine.SetCellContent(g, op.CellID, op.Content)
	case OpMerge:
		return s.engine.Merge(g, op.CellIDs)
	case OpSplit:
		return s.engine.Split(g, op.CellID)
	default:
		return NewValidationError("op", "unsupported grid operation", op.Op)
	}
}

func tableQuestion(exam *models.Exam, questionID string) (models.Question, *models.TableGrid, error) {
	_, _, q, ok := exam.FindQuestion(questionID)
	if !ok {
		return nil, nil, ErrQuestionNotFound
	}
	withGrid, ok := q.(models.HasGrid)
	if !ok {
		return nil, nil, ErrQuestionNotTable
	}
	return q, withGrid.TableGrid(), nil
}

// dropRowAnswers removes the per-row key of a deleted grid row.
func dropRowAnswers(q models.Question, rowID string) {
	switch v := q.(type) {
	case *models.TableMultipleChoice:
		delete(v.RowAnswers, rowID)
	case *models.TableComplexMultipleChoice:
		delete(v.RowAnswers, rowID)
	}
}
