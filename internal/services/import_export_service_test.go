package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/exam-document-service/internal/models"
	"github.com/SAP-F-2025/exam-document-service/internal/render/markup"
	"github.com/SAP-F-2025/exam-document-service/internal/richtext"
	"github.com/SAP-F-2025/exam-document-service/internal/validator"
)

func newTestImportExportService(repo *MockRepository) *importExportService {
	return &importExportService{
		repo:      repo,
		validator: validator.New(),
		logger:    NewServiceLogger(discardLogger(), LogConfig{Service: serviceName, Component: "import_export"}),
		newID:     sequentialIDs("imp"),
	}
}

const questionSheet = `question_type,question_text,option_a,option_b,option_c,correct_answer,model_answer
multiple_choice,Largest planet?,Mars,Jupiter,Venus,B,
true_false,The sky is blue,,,,TRUE,
multiple_choice,Only one option,Alone,,,A,
drawing,Draw a cell,,,,,
short_answer,Capital of France,,,,,Paris
complex_multiple_choice,Pick the gases,Oxygen,Iron,Helium,"A, C",
`

func TestImportExportService_ImportCSV(t *testing.T) {
	repo := newMockRepository()
	repo.exams.On("GetByID", mock.Anything, "exam-1").Return(sampleExam(), nil)
	repo.exams.On("Update", mock.Anything, mock.MatchedBy(func(e *models.Exam) bool {
		return len(e.Sections[0].Questions) == 8
	})).Return(nil)
	svc := newTestImportExportService(repo)

	summary, err := svc.ImportQuestions(context.Background(), "exam-1", 0, strings.NewReader(questionSheet), "questions.CSV")
	require.NoError(t, err)

	assert.Equal(t, models.ImportCompleted, summary.Status)
	assert.Equal(t, 6, summary.TotalRows)
	assert.Equal(t, 6, summary.ProcessedRows)
	assert.Equal(t, 4, summary.SuccessCount)
	assert.Equal(t, 2, summary.ErrorCount)
	assert.Equal(t, []string{"imp-1", "imp-2", "imp-3", "imp-4"}, summary.CreatedIDs)

	require.Len(t, summary.Errors, 2)
	assert.Equal(t, models.ImportValidationError{Row: 4, Column: "options", Message: "must have at least 2 options"}, summary.Errors[0])
	assert.Equal(t, 5, summary.Errors[1].Row)
	assert.Equal(t, "question_type", summary.Errors[1].Column)
	repo.exams.AssertExpectations(t)
}

func TestImportExportService_ParseRowVariants(t *testing.T) {
	svc := newTestImportExportService(newMockRepository())
	headers := map[string]int{"question_type": 0, "question_text": 1, "option_a": 2, "option_b": 3, "correct_answer": 4, "model_answer": 5, "number": 6}

	q, errs := svc.parseRow([]string{"multiple_choice", "Pick", "Yes", "No", "b", "", "3a"}, headers, 2)
	require.Empty(t, errs)
	mc := q.(*models.MultipleChoice)
	assert.Equal(t, "b", mc.Answer)
	assert.Equal(t, "3a", mc.Number())
	assert.Equal(t, []models.Choice{{ID: "a", Text: "Yes"}, {ID: "b", Text: "No"}}, mc.Choices)

	q, errs = svc.parseRow([]string{"complex_multiple_choice", "Pick", "Yes", "No", "A,B"}, headers, 3)
	require.Empty(t, errs)
	assert.Equal(t, []string{"a", "b"}, q.(*models.ComplexMultipleChoice).Answers)

	_, errs = svc.parseRow([]string{"multiple_choice", "Pick", "Yes", "No", "A,B"}, headers, 4)
	require.Len(t, errs, 1)
	assert.Equal(t, "correct_answer", errs[0].Column)

	_, errs = svc.parseRow([]string{"multiple_choice", "Pick", "Yes", "No", "E"}, headers, 5)
	require.Len(t, errs, 1)
	assert.Equal(t, "must reference a filled option letter", errs[0].Message)

	_, errs = svc.parseRow([]string{"true_false", "Sky", "", "", "maybe"}, headers, 6)
	require.Len(t, errs, 1)

	q, errs = svc.parseRow([]string{"essay", "Discuss", "", "", "", "Model text"}, headers, 7)
	require.Empty(t, errs)
	assert.Equal(t, "Model text", q.(*models.Essay).ModelAnswer)

	q, errs = svc.parseRow([]string{"stimulus", "Read this", "", "", "", "", "9"}, headers, 8)
	require.Empty(t, errs)
	assert.Equal(t, "", q.Number())

	_, errs = svc.parseRow([]string{"essay", ""}, headers, 9)
	require.Len(t, errs, 1)
	assert.Equal(t, "question_text", errs[0].Column)

	q, errs = svc.parseRow([]string{"", "", ""}, headers, 10)
	assert.Nil(t, q)
	assert.Empty(t, errs)
}

func TestImportExportService_ImportExcel(t *testing.T) {
	f := excelize.NewFile()
	rows := [][]interface{}{
		{"Question_Type", "Question_Text", "Option_A", "Option_B", "Correct_Answer"},
		{"multiple_choice", "Largest planet?", "Mars", "Jupiter", "B"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	repo := newMockRepository()
	repo.exams.On("GetByID", mock.Anything, "exam-1").Return(sampleExam(), nil)
	repo.exams.On("Update", mock.Anything, mock.AnythingOfType("*models.Exam")).Return(nil)
	svc := newTestImportExportService(repo)

	summary, err := svc.ImportQuestions(context.Background(), "exam-1", 0, bytes.NewReader(buf.Bytes()), "sheet.xlsx")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.SuccessCount)
	assert.Zero(t, summary.ErrorCount)
}

func TestImportExportService_ImportRejections(t *testing.T) {
	repo := newMockRepository()
	repo.exams.On("GetByID", mock.Anything, "exam-1").Return(sampleExam(), nil)
	svc := newTestImportExportService(repo)
	ctx := context.Background()

	_, err := svc.ImportQuestions(ctx, "exam-1", 0, strings.NewReader("x"), "questions.pdf")
	assert.True(t, IsValidation(err))

	_, err = svc.ImportQuestions(ctx, "exam-1", 0, strings.NewReader("question_type\nessay\n"), "q.csv")
	assert.True(t, IsValidation(err))

	_, err = svc.ImportQuestions(ctx, "exam-1", 0, strings.NewReader("question_type,question_text\n"), "q.csv")
	assert.True(t, IsValidation(err))

	_, err = svc.ImportQuestions(ctx, "exam-1", 0, strings.NewReader("not a workbook"), "q.xlsx")
	assert.True(t, IsValidation(err))

	_, err = svc.ImportQuestions(ctx, "exam-1", 4, strings.NewReader(questionSheet), "q.csv")
	assert.ErrorIs(t, err, ErrSectionNotFound)

	repo.exams.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestImportExportService_ExportCSV(t *testing.T) {
	repo := newMockRepository()
	repo.exams.On("GetByID", mock.Anything, "exam-1").Return(sampleExam(), nil)
	svc := newTestImportExportService(repo)

	file, err := svc.ExportQuestions(context.Background(), "exam-1", ExportCSV)
	require.NoError(t, err)
	assert.Equal(t, "science.csv", file.FileName)
	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)

	records, err := csv.NewReader(bytes.NewReader(file.Data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, exportHeaders, records[0])
	assert.Equal(t, []string{"1", "", "multiple_choice", "Largest planet?", "Mars", "Jupiter", "", "", "", "B", ""}, records[1])
	assert.Equal(t, "stimulus", records[2][2])
	assert.Equal(t, "matching", records[3][2])
	assert.Equal(t, "table_multiple_choice", records[4][2])
}

func TestImportExportService_ExportExcel(t *testing.T) {
	repo := newMockRepository()
	repo.exams.On("GetByID", mock.Anything, "exam-1").Return(sampleExam(), nil)
	svc := newTestImportExportService(repo)

	file, err := svc.ExportQuestions(context.Background(), "exam-1", ExportXLSX)
	require.NoError(t, err)
	assert.Equal(t, "science.xlsx", file.FileName)

	f, err := excelize.OpenReader(bytes.NewReader(file.Data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, "question_type", rows[0][2])
	assert.Equal(t, "Jupiter", rows[1][5])

	_, err = svc.ExportQuestions(context.Background(), "exam-1", "pdf")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestImportExportService_PlainCellsKeepMarkupCharacters(t *testing.T) {
	svc := newTestImportExportService(newMockRepository())
	headers := map[string]int{"question_type": 0, "question_text": 1, "option_a": 2, "option_b": 3, "correct_answer": 4, "model_answer": 5}

	q, errs := svc.parseRow([]string{"multiple_choice", "If a<b & b>c, which is largest?", "a", "c > a", "B"}, headers, 2)
	require.Empty(t, errs)
	mc := q.(*models.MultipleChoice)
	assert.Equal(t, "If a<b & b>c, which is largest?", richtext.PlainText(mc.Body))
	assert.Equal(t, "c > a", richtext.PlainText(mc.Choices[1].Text))

	q, errs = svc.parseRow([]string{"short_answer", "Compare <x>", "", "", "", "x<y"}, headers, 3)
	require.Empty(t, errs)
	assert.Equal(t, "x<y", richtext.PlainText(q.(*models.ShortAnswer).ModelAnswer))

	row := questionToRow(0, mc)
	assert.Equal(t, "If a<b & b>c, which is largest?", row[3])
	assert.Equal(t, "c > a", row[5])

	exam := &models.Exam{Title: "Logic", Sections: []models.Section{{Questions: models.QuestionList{mc}}}}
	out := markup.Render(exam, models.DefaultRenderConfig(), models.ModeQuestions)
	assert.Contains(t, out, "If a&lt;b &amp; b&gt;c, which is largest?")
}
