package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/exam-document-service/internal/models"
	"github.com/SAP-F-2025/exam-document-service/internal/render"
	"github.com/SAP-F-2025/exam-document-service/internal/repositories"
	"github.com/SAP-F-2025/exam-document-service/internal/richtext"
	"github.com/SAP-F-2025/exam-document-service/internal/validator"
)

const exportSheetName = "Questions"

// optionColumns name the choice columns of a question sheet; the column letter is the choice ID.
var optionColumns = []string{"option_a", "option_b", "option_c", "option_d", "option_e"}

var exportHeaders = append(append([]string{"section", "number", "question_type", "question_text"},
	optionColumns...), "correct_answer", "model_answer")

type importExportService struct {
	repo      repositories.Repository
	validator *validator.Validator
	logger    *ServiceLogger
	newID     func() string
}

func NewImportExportService(repo repositories.Repository, validator *validator.Validator, logger *slog.Logger) ImportExportService {
	return &importExportService{
		repo:      repo,
		validator: validator,
		logger:    NewServiceLogger(logger, LogConfig{Service: serviceName, Component: "import_export"}),
		newID:     uuid.NewString,
	}
}

// ===== IMPORT OPERATIONS =====

// ImportQuestions appends the valid rows of a CSV or XLSX question sheet to one section.
// Invalid rows are reported per cell and skipped; the rest are saved together.
func (s *importExportService) ImportQuestions(ctx context.Context, examID string, sectionIndex int, file io.Reader, filename string) (summary *models.ImportSummary, err error) {
	op := s.logger.WithOperation(ctx, "import_questions")
	defer func() { op.LogResult(examID, "exam", err) }()
	start := time.Now()

	var rows [][]string
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv":
		rows, err = readCSV(file)
	case ".xlsx":
		rows, err = readExcel(file)
	default:
		return nil, NewValidationError("file", "unsupported file format", ext)
	}
	if err != nil {
		return nil, err
	}

	if len(rows) < 2 {
		return nil, NewValidationError("file", "sheet must have header row and at least one data row", len(rows))
	}

	// Parse header
	headerMap := make(map[string]int)
	for i, header := range rows[0] {
		headerMap[strings.ToLower(strings.TrimSpace(header))] = i
	}
	for _, col := range []string{"question_type", "question_text"} {
		if _, exists := headerMap[col]; !exists {
			return nil, NewValidationError("headers", fmt.Sprintf("missing required column: %s", col), col)
		}
	}

	summary = &models.ImportSummary{
		ExamID:       examID,
		SectionIndex: sectionIndex,
		TotalRows:    len(rows) - 1, // Exclude header
		Status:       models.ImportProcessing,
	}

	var questions []models.Question
	for rowIndex, record := range rows[1:] {
		question, rowErrors := s.parseRow(record, headerMap, rowIndex+2)
		summary.ProcessedRows++
		if len(rowErrors) > 0 {
			summary.Errors = append(summary.Errors, rowErrors...)
			summary.ErrorCount++
			continue
		}
		if question != nil {
			question.Base().ID = s.newID()
			questions = append(questions, question)
		}
	}

	if len(questions) > 0 {
		_, err = editExam(ctx, s.repo, s.validator, examID, func(exam *models.Exam) error {
			if sectionIndex < 0 || sectionIndex >= len(exam.Sections) {
				return fmt.Errorf("%w: %d", ErrSectionNotFound, sectionIndex)
			}
			section := &exam.Sections[sectionIndex]
			section.Questions = append(section.Questions, questions...)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	for _, q := range questions {
		summary.CreatedIDs = append(summary.CreatedIDs, q.QuestionID())
	}
	summary.SuccessCount = len(questions)
	summary.Status = models.ImportCompleted
	summary.ProcessingTime = time.Since(start)

	s.logger.Logger().InfoContext(ctx, "Question import completed",
		"exam_id", examID,
		"total_rows", summary.TotalRows,
		"success_count", summary.SuccessCount,
		"error_count", summary.ErrorCount)

	return summary, nil
}

func readCSV(reader io.Reader) ([][]string, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, NewValidationError("file", fmt.Sprintf("failed to read CSV: %v", err), nil)
	}
	return records, nil
}

func readExcel(reader io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, NewValidationError("file", fmt.Sprintf("failed to open Excel file: %v", err), nil)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, NewValidationError("file", "Excel file has no sheets", nil)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel rows: %w", err)
	}
	return rows, nil
}

// parseRow builds one question from a sheet row. The caller assigns its ID.
func (s *importExportService) parseRow(record []string, headerMap map[string]int, rowNum int) (models.Question, []models.ImportValidationError) {
	getColumn := func(name string) string {
		if index, exists := headerMap[name]; exists && index < len(record) {
			return strings.TrimSpace(record[index])
		}
		return ""
	}
	rowError := func(column, message, value string) []models.ImportValidationError {
		return []models.ImportValidationError{{Row: rowNum, Column: column, Message: message, Value: value}}
	}

	// Rows with no cells at all are trailing padding, not questions
	if strings.TrimSpace(strings.Join(record, "")) == "" {
		return nil, nil
	}

	typeStr := strings.ToLower(getColumn("question_type"))
	if typeStr == "" {
		return nil, rowError("question_type", "required field", typeStr)
	}
	text := getColumn("question_text")
	if text == "" {
		return nil, rowError("question_text", "required field", text)
	}

	// sheet cells are plain text; stored fields are rich fragments
	base := models.QuestionBase{DisplayNumber: getColumn("number"), Body: richtext.FromPlain(text)}
	answer := getColumn("correct_answer")

	switch qt := models.QuestionType(typeStr); qt {
	case models.TypeMultipleChoice, models.TypeComplexMultipleChoice:
		choices := models.ChoiceList{}
		for i, col := range optionColumns {
			if option := getColumn(col); option != "" {
				choices.Choices = append(choices.Choices, models.Choice{ID: string(rune('a' + i)), Text: richtext.FromPlain(option)})
			}
		}
		if len(choices.Choices) < 2 {
			return nil, rowError("options", "must have at least 2 options", "")
		}
		keys, errs := parseChoiceKeys(answer, &choices, rowNum)
		if len(errs) > 0 {
			return nil, errs
		}
		if qt == models.TypeMultipleChoice {
			if len(keys) > 1 {
				return nil, rowError("correct_answer", "multiple choice takes a single answer", answer)
			}
			q := &models.MultipleChoice{QuestionBase: base, ChoiceList: choices}
			if len(keys) == 1 {
				q.Answer = keys[0]
			}
			return q, nil
		}
		return &models.ComplexMultipleChoice{QuestionBase: base, ChoiceList: choices, Answers: keys}, nil

	case models.TypeTrueFalse:
		answer = strings.ToLower(answer)
		if answer != "" && answer != "true" && answer != "false" {
			return nil, rowError("correct_answer", "must be 'true' or 'false'", answer)
		}
		return &models.TrueFalse{QuestionBase: base, Answer: answer}, nil

	case models.TypeShortAnswer:
		return &models.ShortAnswer{QuestionBase: base, ModelAnswer: richtext.FromPlain(getColumn("model_answer"))}, nil

	case models.TypeEssay:
		reserve, _ := strconv.ParseBool(getColumn("reserve_space"))
		return &models.Essay{QuestionBase: base, ReserveSpace: reserve, ModelAnswer: richtext.FromPlain(getColumn("model_answer"))}, nil

	case models.TypeStimulus:
		base.DisplayNumber = ""
		return &models.Stimulus{QuestionBase: base}, nil

	default:
		return nil, rowError("question_type", "unsupported question type", typeStr)
	}
}

// parseChoiceKeys reads answers such as "B" or "A,C" into choice IDs.
func parseChoiceKeys(answer string, choices *models.ChoiceList, rowNum int) ([]string, []models.ImportValidationError) {
	if answer == "" {
		return nil, nil
	}
	var keys []string
	for _, part := range strings.Split(answer, ",") {
		id := strings.ToLower(strings.TrimSpace(part))
		if choices.IndexOf(id) < 0 {
			return nil, []models.ImportValidationError{{
				Row: rowNum, Column: "correct_answer", Message: "must reference a filled option letter", Value: answer,
			}}
		}
		keys = append(keys, id)
	}
	return keys, nil
}

// ===== EXPORT OPERATIONS =====

func (s *importExportService) ExportQuestions(ctx context.Context, examID string, format ExportFormat) (file *ExportFile, err error) {
	op := s.logger.WithOperation(ctx, "export_questions")
	defer func() { op.LogResult(examID, "exam", err) }()

	exam, err := s.repo.Exam().GetByID(ctx, examID)
	if err != nil {
		return nil, mapExamRepoError(err)
	}

	rows := [][]string{exportHeaders}
	for si, section := range exam.Sections {
		for _, q := range section.Questions {
			rows = append(rows, questionToRow(si, q))
		}
	}

	var data []byte
	var contentType string
	switch format {
	case ExportCSV:
		data, err = writeCSV(rows)
		contentType = "text/csv; charset=utf-8"
	case ExportXLSX:
		data, err = writeExcel(rows)
		contentType = render.FormatXLSX.ContentType()
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}

	return &ExportFile{
		ContentType: contentType,
		FileName:    render.FileName(exam, models.ModeQuestions, render.Format(format)),
		Data:        data,
	}, nil
}

// questionToRow flattens a question into the import columns. Variants the sheet
// cannot carry keep only their type and text.
func questionToRow(section int, q models.Question) []string {
	row := make([]string, len(exportHeaders))
	row[0] = strconv.Itoa(section + 1)
	row[1] = q.Number()
	row[2] = string(q.Type())
	row[3] = richtext.PlainLines(q.Base().Body)

	setChoices := func(list *models.ChoiceList) {
		for i, choice := range list.Choices {
			if i < len(optionColumns) {
				row[4+i] = richtext.PlainLines(choice.Text)
			}
		}
	}
	letterOf := func(list *models.ChoiceList, id string) string {
		if i := list.IndexOf(id); i >= 0 && i < len(optionColumns) {
			return strings.ToUpper(string(rune('a' + i)))
		}
		return ""
	}

	answerCol, modelCol := 4+len(optionColumns), 5+len(optionColumns)
	switch v := q.(type) {
	case *models.MultipleChoice:
		setChoices(&v.ChoiceList)
		row[answerCol] = letterOf(&v.ChoiceList, v.Answer)
	case *models.ComplexMultipleChoice:
		setChoices(&v.ChoiceList)
		var letters []string
		for _, id := range v.Answers {
			if letter := letterOf(&v.ChoiceList, id); letter != "" {
				letters = append(letters, letter)
			}
		}
		row[answerCol] = strings.Join(letters, ",")
	case *models.TrueFalse:
		row[answerCol] = v.Answer
	case *models.ShortAnswer:
		row[modelCol] = richtext.PlainLines(v.ModelAnswer)
	case *models.Essay:
		row[modelCol] = richtext.PlainLines(v.ModelAnswer)
	}
	return row
}

func writeCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("failed to write CSV: %w", err)
	}
	return buf.Bytes(), nil
}

func writeExcel(rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheetName); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(exportSheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write Excel row: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}
