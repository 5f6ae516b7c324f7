// Package sheet writes the answer key of an exam as a spreadsheet, one row per keyed
// question, using the same answer resolution as the document projections.
package sheet

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/exam-document-service/internal/models"
	"github.com/SAP-F-2025/exam-document-service/internal/render"
	"github.com/SAP-F-2025/exam-document-service/internal/richtext"
)

// SheetName is the only sheet of the workbook.
const SheetName = "Answer Key"

var headers = []interface{}{"No", "Section", "Type", "Answer"}

// AnswerKeyWorkbook builds the .xlsx answer key of exam.
func AnswerKeyWorkbook(exam *models.Exam, cfg models.RenderConfig) ([]byte, error) {
	dir := exam.TextDirection()
	labels := render.ResolveLabels(cfg.Labels, dir)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(SheetName, "A1", &headers); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", "D1", bold); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	row := 2
	seq := 0
	for si := range exam.Sections {
		var questions []render.NumberedQuestion
		questions, seq = render.SectionQuestions(exam, si, seq)
		section := sectionTitle(exam, si)

		for _, nq := range questions {
			answer := render.ResolveAnswer(nq.Question, labels, dir)
			if answer.Omitted {
				continue
			}
			values := []interface{}{nq.Label, section, string(nq.Question.Type()), answerText(answer, labels)}
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return nil, err
			}
			if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", row, err)
			}
			row++
		}
	}

	if err := f.SetColWidth(SheetName, "B", "B", 30); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(SheetName, "D", "D", 60); err != nil {
		return nil, err
	}
	if dir.IsRTL() {
		rtl := true
		if err := f.SetSheetView(SheetName, -1, &excelize.ViewOptions{RightToLeft: &rtl}); err != nil {
			return nil, fmt.Errorf("failed to set sheet direction: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Output builds the workbook and wraps it with its download metadata.
func Output(exam *models.Exam, cfg models.RenderConfig) (render.Output, error) {
	data, err := AnswerKeyWorkbook(exam, cfg)
	if err != nil {
		return render.Output{}, err
	}
	return render.NewOutput(exam, models.ModeAnswerKey, render.FormatXLSX, data), nil
}

func sectionTitle(exam *models.Exam, si int) string {
	enumerator, instruction := render.SectionHeading(exam, si)
	return strings.TrimSpace(enumerator + " " + richtext.PlainText(instruction))
}

// answerText flattens a resolved answer to one cell. Items and grid rows are joined with "; ".
func answerText(answer render.Answer, labels models.Labels) string {
	if answer.Empty {
		return labels.NoAnswer
	}
	var parts []string
	if answer.Grid != nil {
		for _, r := range answer.Grid.Rows {
			var cells []string
			for _, c := range r.Cells {
				if !c.Merged {
					cells = append(cells, richtext.PlainText(c.Content))
				}
			}
			parts = append(parts, strings.Join(cells, " | "))
		}
		return strings.Join(parts, "; ")
	}
	for _, item := range answer.Items {
		line := item.Lead()
		if text := item.Text.PlainText(); text != "" {
			line = strings.TrimSpace(line + " " + text)
		}
		parts = append(parts, line)
	}
	return strings.Join(parts, "; ")
}
