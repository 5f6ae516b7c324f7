package sheet

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/exam-document-service/internal/models"
	"github.com/SAP-F-2025/exam-document-service/internal/render"
)

func testExam(dir models.Direction) *models.Exam {
	return &models.Exam{
		Title:     "Science",
		Direction: dir,
		Sections: []models.Section{
			{
				Instruction: "<b>Choose</b> the best answer",
				Questions: models.QuestionList{
					&models.Stimulus{QuestionBase: models.QuestionBase{ID: "s1", Body: "Passage"}},
					&models.MultipleChoice{
						QuestionBase: models.QuestionBase{ID: "q1", Body: "Largest planet?"},
						ChoiceList:   models.ChoiceList{Choices: []models.Choice{{ID: "a", Text: "Mars"}, {ID: "b", Text: "<i>Jupiter</i>"}}},
						Answer:       "b",
					},
					&models.ShortAnswer{QuestionBase: models.QuestionBase{ID: "q2", Body: "Capital?"}},
				},
			},
			{
				Instruction: "Tables",
				Questions: models.QuestionList{
					&models.Table{
						QuestionBase: models.QuestionBase{ID: "q3", Body: "Fill"},
						Grid: models.TableGrid{Rows: []models.GridRow{
							{ID: "r1", Cells: []models.Cell{{ID: "a", Content: "x", ColSpan: 2}, {ID: "b", Merged: true}}},
							{ID: "r2", Cells: []models.Cell{{ID: "c", Content: "y"}, {ID: "d", Content: "z"}}},
						}},
					},
					&models.Matching{
						QuestionBase: models.QuestionBase{ID: "q4", Body: "Match"},
						Prompts:      []models.MatchingItem{{ID: "p1", Text: "Dog"}},
						Answers:      []models.MatchingItem{{ID: "n1", Text: "Woof"}},
						Key:          []models.MatchPair{{PromptID: "p1", AnswerID: "n1"}},
					},
				},
			},
		},
	}
}

func readRows(t *testing.T, data []byte) (*excelize.File, [][]string) {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	return f, rows
}

func TestAnswerKeyWorkbook(t *testing.T) {
	data, err := AnswerKeyWorkbook(testExam(models.DirectionLTR), models.DefaultRenderConfig())
	require.NoError(t, err)

	f, rows := readRows(t, data)
	assert.Equal(t, []string{SheetName}, f.GetSheetList())
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"No", "Section", "Type", "Answer"}, rows[0])
	assert.Equal(t, []string{"1", "I. Choose the best answer", "multiple_choice", "b. Jupiter"}, rows[1])
	assert.Equal(t, []string{"2", "I. Choose the best answer", "short_answer", render.NoAnswerLTR}, rows[2])
	assert.Equal(t, []string{"3", "II. Tables", "table", "x; y | z"}, rows[3])
	assert.Equal(t, "1 → a", rows[4][3])

	styleID, err := f.GetCellStyle(SheetName, "A1")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)
}

func TestAnswerKeyWorkbook_RightToLeft(t *testing.T) {
	data, err := AnswerKeyWorkbook(testExam(models.DirectionRTL), models.DefaultRenderConfig())
	require.NoError(t, err)

	f, rows := readRows(t, data)
	view, err := f.GetSheetView(SheetName, -1)
	require.NoError(t, err)
	require.NotNil(t, view.RightToLeft)
	assert.True(t, *view.RightToLeft)

	assert.Equal(t, "١", rows[1][0])
	assert.Equal(t, "Choose the best answer", rows[1][1])
	assert.Equal(t, "ب. Jupiter", rows[1][3])
	assert.Equal(t, render.NoAnswerRTL, rows[2][3])
}

func TestOutput(t *testing.T) {
	out, err := Output(testExam(models.DirectionLTR), models.DefaultRenderConfig())
	require.NoError(t, err)
	assert.Equal(t, "science-answer-key.xlsx", out.FileName)
	assert.Equal(t, render.FormatXLSX.ContentType(), out.ContentType)
}
