package services

import (
	"context"
	"io"

	"github.com/SAP-F-2025/exam-document-service/internal/grid"
	"github.com/SAP-F-2025/exam-document-service/internal/models"
	"github.com/SAP-F-2025/exam-document-service/internal/render"
	"github.com/SAP-F-2025/exam-document-service/internal/repositories"
)

// ===== EXAM =====

type ExamService interface {
	Create(ctx context.Context, exam *models.Exam) (*models.Exam, error)
	GetByID(ctx context.Context, id string) (*models.Exam, error)
	List(ctx context.Context, filters repositories.ExamFilters) (*ExamListResponse, error)
	// Update replaces the content of a draft exam. Status only changes through Publish.
	Update(ctx context.Context, id string, exam *models.Exam) (*models.Exam, error)
	Delete(ctx context.Context, id string) error
	Publish(ctx context.Context, id string) (*models.Exam, error)

	AddSection(ctx context.Context, id string, section models.Section) (*models.Exam, error)
	AddQuestion(ctx context.Context, id string, sectionIndex int, question models.Question) (*models.Exam, error)
	RemoveQuestion(ctx context.Context, id, questionID string) (*models.Exam, error)
	// RenumberQuestions assigns sequential display numbers across the exam, skipping stimulus blocks.
	RenumberQuestions(ctx context.Context, id string) (*models.Exam, error)
	RemoveMatchingItem(ctx context.Context, id, questionID string, side MatchingSide, itemID string) (*models.Exam, error)
}

type ExamListResponse struct {
	Exams  []*models.ExamRecord `json:"exams"`
	Total  int64                `json:"total"`
	Limit  int                  `json:"limit"`
	Offset int                  `json:"offset"`
}

// MatchingSide selects the column of a matching question.
type MatchingSide string

const (
	SidePrompt MatchingSide = "prompt"
	SideAnswer MatchingSide = "answer"
)

// ===== GRID =====

type GridService interface {
	// Apply runs one operation on the grid of a table question and persists the result.
	// A rejected operation leaves the stored exam untouched.
	Apply(ctx context.Context, examID, questionID string, op GridOperation) (*models.TableGrid, error)
	Eligibility(ctx context.Context, examID, questionID string, cellIDs []string) (grid.Eligibility, error)
}

type GridOp string

const (
	OpAddRow         GridOp = "add_row"
	OpRemoveRow      GridOp = "remove_row"
	OpAddColumn      GridOp = "add_column"
	OpRemoveColumn   GridOp = "remove_column"
	OpSetRowHeight   GridOp = "set_row_height"
	OpSetColumnWidth GridOp = "set_column_width"
	OpSetAlignment   GridOp = "set_cell_alignment"
	OpSetContent     GridOp = "set_cell_content"
	OpMerge          GridOp = "merge"
	OpSplit          GridOp = "split"
)

// GridOperation is one edit of a table grid. Which fields are read depends on Op:
// Index for row/column structure and sizing, Height/Width in millimeters (nil resets
// to auto), CellID for single-cell edits and split, CellIDs for merge.
type GridOperation struct {
	Op      GridOp               `json:"op" binding:"required"`
	Index   int                  `json:"index"`
	Height  *float64             `json:"height,omitempty"`
	Width   *float64             `json:"width,omitempty"`
	CellID  string               `json:"cell_id,omitempty"`
	CellIDs []string             `json:"cell_ids,omitempty"`
	Align   models.VerticalAlign `json:"align,omitempty"`
	Content string               `json:"content,omitempty"`
}

// ===== RENDER =====

type RenderService interface {
	Render(ctx context.Context, req RenderRequest) (*render.Output, error)

	SaveProfile(ctx context.Context, name string, cfg models.RenderConfig) (*models.RenderProfile, error)
	GetProfile(ctx context.Context, name string) (*models.RenderProfile, error)
	ListProfiles(ctx context.Context) ([]*models.RenderProfile, error)
}

// RenderRequest names the exam by ID or carries it inline, and likewise the config
// by profile name or inline. Inline values win.
type RenderRequest struct {
	ExamID      string               `json:"exam_id,omitempty"`
	Exam        *models.Exam         `json:"exam,omitempty"`
	ProfileName string               `json:"profile,omitempty"`
	Config      *models.RenderConfig `json:"config,omitempty"`
	Mode        models.Mode          `json:"mode,omitempty"`
	Format      render.Format        `json:"format,omitempty"`
}

// ===== IMPORT / EXPORT =====

type ImportExportService interface {
	ImportQuestions(ctx context.Context, examID string, sectionIndex int, file io.Reader, filename string) (*models.ImportSummary, error)
	ExportQuestions(ctx context.Context, examID string, format ExportFormat) (*ExportFile, error)
}

type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportXLSX ExportFormat = "xlsx"
)

// ExportFile is an exported question sheet with its download metadata.
type ExportFile struct {
	ContentType string
	FileName    string
	Data        []byte
}
