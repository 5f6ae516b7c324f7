package markup

import (
	"strconv"

	"github.com/SAP-F-2025/exam-document-service/internal/models"
	"github.com/SAP-F-2025/exam-document-service/internal/numbering"
	"github.com/SAP-F-2025/exam-document-service/internal/render"
	"github.com/SAP-F-2025/exam-document-service/internal/richtext"
)

// question emits the body of one question followed by its variant-specific block.
func (w *writer) question(nq render.NumberedQuestion) {
	q := nq.Question
	body := richtext.Parse(q.Base().Body)
	if _, ok := q.(*models.Stimulus); ok {
		w.WriteString(`<div class="question stimulus-block"` + blockStyle(body.Align) + ">")
		w.writeFragment(body)
		w.WriteString("</div>\n")
		return
	}

	w.WriteString(`<div class="question" data-type="`)
	w.text(string(q.Type()))
	w.WriteString(`"><div class="q-head"><span class="q-num">`)
	w.text(nq.Label + ".")
	w.WriteString(`</span><div class="q-body"` + blockStyle(body.Align) + ">")
	w.writeFragment(body)
	w.WriteString("</div></div>")

	switch v := q.(type) {
	case *models.MultipleChoice:
		w.choices(&v.ChoiceList)
	case *models.ComplexMultipleChoice:
		w.choices(&v.ChoiceList)
	case *models.TrueFalse:
		w.trueFalse()
	case *models.ShortAnswer:
		w.WriteString(`<div class="answer-line"></div>`)
	case *models.Essay:
		if v.ReserveSpace {
			for i := 0; i < essayLines; i++ {
				w.WriteString(`<div class="essay-line"></div>`)
			}
		}
	case *models.Matching:
		w.matching(v)
	case *models.Table:
		w.grid(&v.Grid)
	case *models.TableMultipleChoice:
		w.grid(&v.Grid)
		w.choices(&v.ChoiceList)
	case *models.TableComplexMultipleChoice:
		w.grid(&v.Grid)
		w.choices(&v.ChoiceList)
	default:
		w.WriteString(`<div class="unsupported">`)
		w.text(w.labels.Unsupported + ": " + string(q.Type()))
		w.WriteString("</div>")
	}
	w.WriteString("</div>\n")
}

// essayLines matches the reserved rows of the office document.
const essayLines = 3

func (w *writer) choices(list *models.ChoiceList) {
	if len(list.Choices) == 0 {
		return
	}
	class := "choices"
	if list.TwoColumns {
		class += " two-col"
	}
	w.WriteString(`<ol class="` + class + `">`)
	for i, choice := range list.Choices {
		w.WriteString(`<li><span class="letter">`)
		w.text(numbering.ChoiceLetter(i, w.dir) + ".")
		w.WriteString(`</span> <span class="choice-text">`)
		w.writeRich(choice.Text)
		w.WriteString("</span></li>")
	}
	w.WriteString("</ol>")
}

func (w *writer) trueFalse() {
	w.WriteString(`<div class="tf"><span class="tf-box">`)
	w.text(w.labels.True)
	w.WriteString(`</span><span class="tf-box">`)
	w.text(w.labels.False)
	w.WriteString("</span></div>")
}

// matching lays prompts and answers side by side; the shorter list leaves blank cells.
func (w *writer) matching(m *models.Matching) {
	rows := max(len(m.Prompts), len(m.Answers))
	if rows == 0 {
		return
	}
	w.WriteString(`<table class="matching">`)
	for i := 0; i < rows; i++ {
		w.WriteString("<tr>")
		if i < len(m.Prompts) {
			w.WriteString("<td>")
			w.text(numbering.OrdinalNumeral(i+1, w.dir) + ".")
			w.WriteString("</td><td>")
			w.writeRich(m.Prompts[i].Text)
			w.WriteString("</td>")
		} else {
			w.WriteString("<td></td><td></td>")
		}
		w.WriteString(`<td class="gap"></td>`)
		if i < len(m.Answers) {
			w.WriteString("<td>")
			w.text(numbering.ChoiceLetter(i, w.dir) + ".")
			w.WriteString("</td><td>")
			w.writeRich(m.Answers[i].Text)
			w.WriteString("</td>")
		} else {
			w.WriteString("<td></td><td></td>")
		}
		w.WriteString("</tr>")
	}
	w.WriteString("</table>")
}

// grid emits a table grid with its spans, sizes and alignment. Merged cells are skipped.
func (w *writer) grid(g *models.TableGrid) {
	if g.RowCount() == 0 {
		return
	}
	w.WriteString(`<table class="grid">`)
	if len(g.ColumnWidths) > 0 {
		w.WriteString("<colgroup>")
		for c := 0; c < g.WidestRow(); c++ {
			if width := g.ColumnWidth(c); width != nil {
				w.WriteString(`<col style="width:` + mm(*width) + `">`)
			} else {
				w.WriteString("<col>")
			}
		}
		w.WriteString("</colgroup>")
	}
	for _, row := range g.Rows {
		if row.Height != nil {
			w.WriteString(`<tr style="height:` + mm(*row.Height) + `">`)
		} else {
			w.WriteString("<tr>")
		}
		for _, cell := range row.Cells {
			if cell.Merged {
				continue
			}
			w.WriteString("<td")
			rows, cols := cell.Span()
			if rows > 1 {
				w.WriteString(` rowspan="` + strconv.Itoa(rows) + `"`)
			}
			if cols > 1 {
				w.WriteString(` colspan="` + strconv.Itoa(cols) + `"`)
			}
			if cell.VAlign != models.AlignDefault && cell.VAlign.IsValid() {
				w.WriteString(` style="vertical-align:` + string(cell.VAlign) + `"`)
			}
			w.WriteString(">")
			w.writeRich(cell.Content)
			w.WriteString("</td>")
		}
		w.WriteString("</tr>")
	}
	w.WriteString("</table>")
}
