package markup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/SAP-F-2025/exam-document-service/internal/models"
	"github.com/SAP-F-2025/exam-document-service/internal/render"
)

func base(id string, body string) models.QuestionBase {
	return models.QuestionBase{ID: id, Body: body}
}

func mcQuestion(answer string) *models.MultipleChoice {
	return &models.MultipleChoice{
		QuestionBase: base("q1", "Which planet is largest?"),
		ChoiceList: models.ChoiceList{Choices: []models.Choice{
			{ID: "c0", Text: "Mercury"},
			{ID: "c1", Text: "Venus"},
			{ID: "c2", Text: "Jupiter"},
			{ID: "c3", Text: "Mars"},
		}},
		Answer: answer,
	}
}

func singleQuestionExam(q models.Question) *models.Exam {
	return &models.Exam{
		Title:    "Science",
		Subject:  "Physics",
		Date:     "2026-10-15",
		Sections: []models.Section{{Instruction: "Choose the best answer.", Questions: models.QuestionList{q}}},
	}
}

func fullExam(dir models.Direction) *models.Exam {
	merged := models.TableGrid{Rows: []models.GridRow{
		{ID: "r1", Cells: []models.Cell{{ID: "a", Content: "A B C D", RowSpan: 2, ColSpan: 2}, {ID: "b", Merged: true}, {ID: "x", Content: "side"}}},
		{ID: "r2", Cells: []models.Cell{{ID: "c", Merged: true}, {ID: "d", Merged: true}, {ID: "y", Content: "low", VAlign: models.AlignBottom}}},
	}}
	return &models.Exam{
		Title:        "Final Exam",
		Subject:      "General",
		ClassLabel:   "XII",
		Date:         "2026-10-15",
		Duration:     "90 minutes",
		Instructions: "Write your name.\nAnswer every question.",
		Direction:    dir,
		Sections: []models.Section{
			{
				Instruction: "Multiple choice",
				Stimulus:    "Read the passage.",
				Questions: models.QuestionList{
					&models.Stimulus{QuestionBase: base("s1", "A short story.")},
					mcQuestion("c2"),
					&models.ComplexMultipleChoice{
						QuestionBase: base("q2", "Pick primes"),
						ChoiceList:   models.ChoiceList{Choices: []models.Choice{{ID: "p2", Text: "2"}, {ID: "p4", Text: "4"}, {ID: "p5", Text: "5"}}, TwoColumns: true},
						Answers:      []string{"p2", "p5"},
					},
				},
			},
			{
				Instruction: "Other",
				Questions: models.QuestionList{
					&models.TrueFalse{QuestionBase: base("q3", "The sun is a star."), Answer: "true"},
					&models.ShortAnswer{QuestionBase: base("q4", "Capital of France?"), ModelAnswer: "Paris"},
					&models.Essay{QuestionBase: base("q5", "Discuss."), ReserveSpace: true},
					&models.Matching{
						QuestionBase: base("q6", "Match"),
						Prompts:      []models.MatchingItem{{ID: "m1", Text: "Dog"}, {ID: "m2", Text: "Cat"}},
						Answers:      []models.MatchingItem{{ID: "n1", Text: "Meow"}, {ID: "n2", Text: "Woof"}},
						Key:          []models.MatchPair{{PromptID: "m1", AnswerID: "n2"}, {PromptID: "m2", AnswerID: "n1"}},
					},
					&models.Table{QuestionBase: base("q7", "Fill the table"), Grid: merged},
					&models.TableMultipleChoice{
						QuestionBase: base("q8", "Classify"),
						ChoiceList:   models.ChoiceList{Choices: []models.Choice{{ID: "yes", Text: "Yes"}, {ID: "no", Text: "No"}}},
						Grid:         models.TableGrid{Rows: []models.GridRow{{ID: "row1", Cells: []models.Cell{{ID: "k", Content: "Whale"}}}}},
						RowAnswers:   map[string]string{"row1": "yes"},
					},
					&models.UnknownQuestion{QuestionBase: base("q9", "Draw a map"), Kind: "drawing"},
				},
			},
		},
	}
}

func TestRender_MultipleChoiceScenario(t *testing.T) {
	exam := singleQuestionExam(mcQuestion("c2"))
	cfg := models.DefaultRenderConfig()

	questions := Render(exam, cfg, models.ModeQuestions)
	for _, letter := range []string{"a.", "b.", "c.", "d."} {
		assert.Contains(t, questions, `<span class="letter">`+letter+`</span>`)
	}
	assert.NotContains(t, questions, `<span class="letter">e.</span>`)

	key := Render(exam, cfg, models.ModeAnswerKey)
	assert.Contains(t, key, `<span class="lead">c.</span> Jupiter`)
	assert.NotContains(t, key, render.NoAnswerLTR)
}

func TestRender_NoAnswerMarker(t *testing.T) {
	exam := singleQuestionExam(mcQuestion(""))

	key := Render(exam, models.DefaultRenderConfig(), models.ModeAnswerKey)
	assert.Contains(t, key, `<span class="no-answer">`+render.NoAnswerLTR+`</span>`)

	exam.Direction = models.DirectionRTL
	key = Render(exam, models.DefaultRenderConfig(), models.ModeAnswerKey)
	assert.Contains(t, key, render.NoAnswerRTL)
}

func TestRender_Deterministic(t *testing.T) {
	cfg := models.DefaultRenderConfig()
	cfg.HeaderLines = []string{"Ministry of Education", "Example High School"}
	cfg.LeftLogo = &models.Logo{Data: []byte("png"), ContentType: "image/png"}

	for _, mode := range []models.Mode{models.ModeQuestions, models.ModeAnswerKey} {
		first := Render(fullExam(models.DirectionLTR), cfg, mode)
		second := Render(fullExam(models.DirectionLTR), cfg, mode)
		assert.Equal(t, first, second, string(mode))
	}
}

func TestRender_DirectionChangesNumbering(t *testing.T) {
	cfg := models.DefaultRenderConfig()
	ltr := Render(fullExam(models.DirectionLTR), cfg, models.ModeQuestions)
	rtl := Render(fullExam(models.DirectionRTL), cfg, models.ModeQuestions)

	assert.Contains(t, ltr, `dir="ltr"`)
	assert.Contains(t, rtl, `dir="rtl"`)

	assert.Contains(t, ltr, `<span class="enum">I.</span>`)
	assert.Contains(t, ltr, `<span class="enum">II.</span>`)
	assert.NotContains(t, rtl, `class="enum"`)

	assert.Contains(t, ltr, `<span class="q-num">1.</span>`)
	assert.Contains(t, rtl, `<span class="q-num">١.</span>`)
	assert.Contains(t, ltr, `<span class="letter">a.</span>`)
	assert.Contains(t, rtl, `<span class="letter">أ.</span>`)

	assert.Equal(t, strings.Count(ltr, `class="question"`), strings.Count(rtl, `class="question"`))
	assert.Equal(t, strings.Count(ltr, `data-type=`), strings.Count(rtl, `data-type=`))
}

func TestRender_AnswerKeyCompleteness(t *testing.T) {
	key := Render(fullExam(models.DirectionLTR), models.DefaultRenderConfig(), models.ModeAnswerKey)

	assert.Contains(t, key, "Final Exam - Answer Key")
	assert.Contains(t, key, `<span class="lead">c.</span> Jupiter`)
	assert.Contains(t, key, `<span class="lead">a.</span> 2`)
	assert.Contains(t, key, `<span class="lead">c.</span> 5`)
	assert.Contains(t, key, `<p class="answer-item">True</p>`)
	assert.Contains(t, key, `<p class="answer-item">Paris</p>`)
	assert.Contains(t, key, `<span class="lead">1 → b</span>`)
	assert.Contains(t, key, `<span class="lead">2 → a</span>`)
	assert.Contains(t, key, `<span class="lead">Row 1: a.</span> Yes`)
	assert.Contains(t, key, `<td rowspan="2" colspan="2">A B C D</td>`)

	// essay without model answer and the unknown variant are flagged, the stimulus is left out
	assert.Equal(t, 2, strings.Count(key, `class="no-answer"`))
	assert.NotContains(t, key, `data-question="s1"`)
}

func TestRender_QuestionBodies(t *testing.T) {
	out := Render(fullExam(models.DirectionLTR), models.DefaultRenderConfig(), models.ModeQuestions)

	assert.Contains(t, out, `<div class="question stimulus-block">A short story.</div>`)
	assert.Contains(t, out, `<div class="stimulus">Read the passage.</div>`)
	assert.Contains(t, out, `<ol class="choices two-col">`)
	assert.Contains(t, out, `<span class="tf-box">True</span><span class="tf-box">False</span>`)
	assert.Equal(t, 3, strings.Count(out, `class="essay-line"`))
	assert.Contains(t, out, `<td>1.</td><td>Dog</td><td class="gap"></td><td>a.</td><td>Meow</td>`)
	assert.Contains(t, out, `<td rowspan="2" colspan="2">A B C D</td><td>side</td>`)
	assert.Contains(t, out, `<td style="vertical-align:bottom">low</td>`)
	assert.Contains(t, out, `<div class="unsupported">Unsupported question type: drawing</div>`)
	assert.Contains(t, out, "<p>Write your name.</p><p>Answer every question.</p>")
	assert.Contains(t, out, "<td>: 15 October 2026</td>")
	assert.Contains(t, out, `<td class="score" rowspan="3">Score</td>`)
}

func TestRender_BlockAlignmentAndBlankFragments(t *testing.T) {
	exam := singleQuestionExam(&models.ShortAnswer{
		QuestionBase: base("q1", `<p style="text-align:center">Centered <b>body</b></p>`),
		ModelAnswer:  "<p> </p>",
	})
	exam.Sections[0].Stimulus = `<p style="text-align:right">Passage</p>`

	out := Render(exam, models.DefaultRenderConfig(), models.ModeQuestions)
	assert.Contains(t, out, `<div class="q-body" style="text-align:center">Centered <b>body</b>`)
	assert.Contains(t, out, `<div class="stimulus" style="text-align:right">Passage</div>`)

	exam.Sections[0].Stimulus = "<p><br></p>"
	exam.Sections[0].Instruction = "<p> </p>"
	out = Render(exam, models.DefaultRenderConfig(), models.ModeQuestions)
	assert.NotContains(t, out, `class="stimulus"`)
	assert.Contains(t, out, `<p class="section-title"><span class="enum">I.</span> `)

	key := Render(exam, models.DefaultRenderConfig(), models.ModeAnswerKey)
	assert.Contains(t, key, `class="no-answer"`)
}

func TestRender_RaggedGridPrintsEveryCell(t *testing.T) {
	w := 20.0
	ragged := models.TableGrid{
		Rows: []models.GridRow{
			{ID: "r1", Cells: []models.Cell{{ID: "a", Content: "head"}}},
			{ID: "r2", Cells: []models.Cell{{ID: "b", Content: "left"}, {ID: "c", Content: "right"}}},
		},
		ColumnWidths: []*float64{&w},
	}
	out := Render(singleQuestionExam(&models.Table{QuestionBase: base("q1", "Ragged"), Grid: ragged}), models.DefaultRenderConfig(), models.ModeQuestions)

	assert.Contains(t, out, `<colgroup><col style="width:20mm"><col></colgroup>`)
	assert.Contains(t, out, "<tr><td>left</td><td>right</td></tr>")
}

func TestRender_TwoColumnSections(t *testing.T) {
	exam := fullExam(models.DirectionLTR)
	exam.Columns = 2

	assert.Contains(t, Render(exam, models.DefaultRenderConfig(), models.ModeQuestions), `<div class="sections columns-2">`)
	assert.Contains(t, Render(exam, models.DefaultRenderConfig(), models.ModeAnswerKey), `<div class="sections">`)
}

func TestRender_HeaderCollapsesMissingLogos(t *testing.T) {
	exam := singleQuestionExam(mcQuestion("c0"))
	cfg := models.DefaultRenderConfig()

	assert.NotContains(t, Render(exam, cfg, models.ModeQuestions), `class="kop"`)

	cfg.HeaderLines = []string{"School"}
	cfg.RightLogo = &models.Logo{Data: []byte{1, 2, 3}, ContentType: "image/png"}
	cfg.LeftLogo = &models.Logo{Data: []byte{1}, ContentType: "text/plain"}
	out := Render(exam, cfg, models.ModeQuestions)
	assert.Equal(t, 1, strings.Count(out, `class="kop-logo"`))
	assert.Contains(t, out, `<td class="kop-text"><div class="kop-line">School</div></td><td class="kop-logo"><img src="data:image/png;base64,AQID"`)
}

func TestRender_PageGeometry(t *testing.T) {
	cfg := models.RenderConfig{
		PaperSize:   models.PaperF4,
		Margins:     models.Margins{Top: 10, Right: 15.5, Bottom: 10, Left: 25},
		FontFamily:  `Arial"</style>`,
		FontSize:    11,
		LineSpacing: 1.5,
	}
	out := Render(singleQuestionExam(mcQuestion("")), cfg, models.ModeQuestions)

	assert.Contains(t, out, "@page { size: 215mm 330mm; margin: 10mm 15.5mm 10mm 25mm; }")
	assert.Contains(t, out, `font-family: "Arial/style", serif; font-size: 11pt; line-height: 1.5;`)
}

func TestRender_EscapesUntrustedContent(t *testing.T) {
	q := mcQuestion("c0")
	q.Body = `<script>alert(1)</script><b onclick="x()">bold</b>`
	exam := singleQuestionExam(q)
	exam.Title = "<Title & Co>"

	out := Render(exam, models.DefaultRenderConfig(), models.ModeQuestions)
	assert.NotContains(t, out, "alert(1)")
	assert.NotContains(t, out, "onclick")
	assert.Contains(t, out, "<b>bold</b>")
	assert.Contains(t, out, "<title>&lt;Title &amp; Co&gt;</title>")
}
