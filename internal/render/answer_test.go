package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/exam-document-service/internal/models"
	"github.com/SAP-F-2025/exam-document-service/internal/richtext"
)

func choices(texts ...string) models.ChoiceList {
	list := models.ChoiceList{}
	for i, text := range texts {
		list.Choices = append(list.Choices, models.Choice{ID: string(rune('p' + i)), Text: text})
	}
	return list
}

func tableGrid(rowIDs ...string) models.TableGrid {
	g := models.TableGrid{}
	for _, id := range rowIDs {
		g.Rows = append(g.Rows, models.GridRow{ID: id, Cells: []models.Cell{{ID: id + "-c"}}})
	}
	return g
}

func TestResolveAnswer(t *testing.T) {
	ltr := ResolveLabels(models.Labels{}, models.DirectionLTR)

	tests := []struct {
		name     string
		question models.Question
		want     Answer
	}{
		{
			name:     "multiple choice",
			question: &models.MultipleChoice{ChoiceList: choices("one", "two", "three", "four"), Answer: "r"},
			want:     Answer{Items: []AnswerItem{{Letter: "c", Text: richtext.Parse("three")}}},
		},
		{
			name:     "multiple choice dangling",
			question: &models.MultipleChoice{ChoiceList: choices("one"), Answer: "gone"},
			want:     Answer{Empty: true},
		},
		{
			name:     "complex multiple choice in choice order",
			question: &models.ComplexMultipleChoice{ChoiceList: choices("one", "two", "three"), Answers: []string{"r", "gone", "p"}},
			want:     Answer{Items: []AnswerItem{{Letter: "a", Text: richtext.Parse("one")}, {Letter: "c", Text: richtext.Parse("three")}}},
		},
		{
			name:     "true false",
			question: &models.TrueFalse{Answer: "false"},
			want:     Answer{Items: []AnswerItem{{Text: richtext.Parse("False")}}},
		},
		{
			name:     "true false unset",
			question: &models.TrueFalse{Answer: "yes"},
			want:     Answer{Empty: true},
		},
		{
			name:     "short answer",
			question: &models.ShortAnswer{ModelAnswer: "<b>Jakarta</b>"},
			want:     Answer{Items: []AnswerItem{{Text: richtext.Parse("<b>Jakarta</b>")}}},
		},
		{
			name:     "essay blank markup",
			question: &models.Essay{ModelAnswer: "<p> </p>"},
			want:     Answer{Empty: true},
		},
		{
			name: "matching in prompt order",
			question: &models.Matching{
				Prompts: []models.MatchingItem{{ID: "p1"}, {ID: "p2"}, {ID: "p3"}},
				Answers: []models.MatchingItem{{ID: "a1"}, {ID: "a2"}},
				Key:     []models.MatchPair{{PromptID: "p3", AnswerID: "a1"}, {PromptID: "p1", AnswerID: "a2"}, {PromptID: "p2", AnswerID: "gone"}},
			},
			want: Answer{Items: []AnswerItem{{Prefix: "1 →", Letter: "b"}, {Prefix: "3 →", Letter: "a"}}},
		},
		{
			name: "table multiple choice by row",
			question: &models.TableMultipleChoice{
				ChoiceList: choices("yes", "no"),
				Grid:       tableGrid("r1", "r2", "r3"),
				RowAnswers: map[string]string{"r1": "q", "r3": "p", "ghost": "p"},
			},
			want: Answer{Items: []AnswerItem{{Prefix: "Row 1:", Letter: "b", Text: richtext.Parse("no")}, {Prefix: "Row 3:", Letter: "a", Text: richtext.Parse("yes")}}},
		},
		{
			name: "table complex multiple choice by row",
			question: &models.TableComplexMultipleChoice{
				ChoiceList: choices("x", "y", "z"),
				Grid:       tableGrid("r1", "r2"),
				RowAnswers: map[string][]string{"r2": {"r", "p"}},
			},
			want: Answer{Items: []AnswerItem{{Prefix: "Row 2:", Letter: "a, c"}}},
		},
		{
			name:     "table blank grid",
			question: &models.Table{Grid: tableGrid("r1")},
			want:     Answer{Empty: true},
		},
		{
			name:     "stimulus omitted",
			question: &models.Stimulus{},
			want:     Answer{Omitted: true},
		},
		{
			name:     "unknown variant",
			question: &models.UnknownQuestion{Kind: "drawing"},
			want:     Answer{Empty: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveAnswer(tt.question, ltr, models.DirectionLTR))
		})
	}
}

func TestResolveAnswer_TableGridIsTheAnswer(t *testing.T) {
	q := &models.Table{Grid: tableGrid("r1")}
	q.Grid.Rows[0].Cells[0].Content = "42"

	got := ResolveAnswer(q, ResolveLabels(models.Labels{}, models.DirectionLTR), models.DirectionLTR)
	require.NotNil(t, got.Grid)
	assert.False(t, got.Empty)
	assert.Same(t, &q.Grid, got.Grid)
}

func TestResolveAnswer_RTL(t *testing.T) {
	rtl := ResolveLabels(models.Labels{}, models.DirectionRTL)

	mc := &models.MultipleChoice{ChoiceList: choices("a", "b", "c"), Answer: "q"}
	assert.Equal(t, "ب", ResolveAnswer(mc, rtl, models.DirectionRTL).Items[0].Letter)

	tf := &models.TrueFalse{Answer: "true"}
	assert.Equal(t, "صح", ResolveAnswer(tf, rtl, models.DirectionRTL).Items[0].Text.PlainText())

	table := &models.TableMultipleChoice{ChoiceList: choices("a"), Grid: tableGrid("r1", "r2"), RowAnswers: map[string]string{"r2": "p"}}
	assert.Equal(t, "صف ٢:", ResolveAnswer(table, rtl, models.DirectionRTL).Items[0].Prefix)
}

func TestResolveLabels(t *testing.T) {
	ltr := ResolveLabels(models.Labels{True: "Benar"}, models.DirectionLTR)
	assert.Equal(t, "Benar", ltr.True)
	assert.Equal(t, "False", ltr.False)
	assert.Equal(t, NoAnswerLTR, ltr.NoAnswer)

	rtl := ResolveLabels(models.Labels{}, models.DirectionRTL)
	assert.Equal(t, NoAnswerRTL, rtl.NoAnswer)
}

func TestAnswerItem_Lead(t *testing.T) {
	assert.Equal(t, "c.", AnswerItem{Letter: "c", Text: richtext.Parse("x")}.Lead())
	assert.Equal(t, "1 → b", AnswerItem{Prefix: "1 →", Letter: "b"}.Lead())
	assert.Equal(t, "Row 2: a, c", AnswerItem{Prefix: "Row 2:", Letter: "a, c"}.Lead())
	assert.Equal(t, "", AnswerItem{Text: richtext.Parse("free")}.Lead())
	assert.Equal(t, "c", AnswerItem{Letter: "c", Text: richtext.Parse("<p> </p>")}.Lead())
}

func TestSectionQuestions(t *testing.T) {
	exam := &models.Exam{
		Direction: models.DirectionRTL,
		Sections: []models.Section{
			{Questions: models.QuestionList{&models.Stimulus{}, &models.ShortAnswer{}, &models.Essay{}}},
			{Questions: models.QuestionList{&models.TrueFalse{QuestionBase: models.QuestionBase{DisplayNumber: "10"}}}},
		},
	}

	first, seq := SectionQuestions(exam, 0, 0)
	require.Len(t, first, 3)
	assert.Equal(t, "", first[0].Label)
	assert.Equal(t, "١", first[1].Label)
	assert.Equal(t, "٢", first[2].Label)
	assert.Equal(t, 2, seq)

	second, seq := SectionQuestions(exam, 1, seq)
	assert.Equal(t, "١٠", second[0].Label)
	assert.Equal(t, 3, seq)
}

func TestFileName(t *testing.T) {
	exam := &models.Exam{Title: "Midterm Exam: Biology!"}
	assert.Equal(t, "midterm-exam-biology.html", FileName(exam, models.ModeQuestions, FormatHTML))
	assert.Equal(t, "midterm-exam-biology-answer-key.docx", FileName(exam, models.ModeAnswerKey, FormatDOCX))
	assert.Equal(t, "exam.xlsx", FileName(&models.Exam{Title: "!!"}, models.ModeQuestions, FormatXLSX))
}
