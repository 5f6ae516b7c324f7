package office

import (
	"github.com/SAP-F-2025/exam-document-service/internal/grid"
	"github.com/SAP-F-2025/exam-document-service/internal/models"
	"github.com/SAP-F-2025/exam-document-service/internal/numbering"
	"github.com/SAP-F-2025/exam-document-service/internal/render"
	"github.com/SAP-F-2025/exam-document-service/internal/richtext"
)

// Layout constants in twips.
const (
	bodyIndent     = 360
	questionBefore = 120
)

// reservedRowHeight is the height of one reserved answer row in millimeters.
const reservedRowHeight = 10

// essayRows matches the reserved lines of the markup document.
const essayRows = 3

// ===== TABLE HELPERS =====

func single() *border {
	return &border{Val: "single", Size: 4, Color: "000000"}
}

func allBorders() *borders {
	return &borders{Top: single(), Left: single(), Bottom: single(), Right: single(), InsideH: single(), InsideV: single()}
}

func (b *builder) table(widths []int, bd *borders) *table {
	total := 0
	cols := make([]gridCol, len(widths))
	for i, w := range widths {
		cols[i] = gridCol{W: w}
		total += w
	}
	t := &table{
		Props: tblPr{Width: width{W: total, Type: "dxa"}, Borders: bd, Layout: &layout{Type: "fixed"}},
		Grid:  tblGrid{Cols: cols},
	}
	if b.dir.IsRTL() {
		t.Props.BidiVisual = &empty{}
	}
	return t
}

func (b *builder) cell(w int, paragraphs []*paragraph, bd *borders) tableCell {
	if len(paragraphs) == 0 {
		paragraphs = []*paragraph{b.paragraph(paraOpts{})}
	}
	return tableCell{Props: tcPr{Width: &width{W: w, Type: "dxa"}, Borders: bd}, Paragraphs: paragraphs}
}

// boxed wraps a fragment in a bordered single-cell table.
func (b *builder) boxed(f richtext.Fragment) *table {
	t := b.table([]int{b.contentWidth}, allBorders())
	p := b.richParagraph(paraOpts{}, nil, f)
	t.Rows = []tableRow{{Cells: []tableCell{b.cell(b.contentWidth, []*paragraph{p}, nil)}}}
	return t
}

// ===== QUESTIONS =====

func (b *builder) numberRun(label string) run {
	return b.textRun(label+". ", richtext.Style{})
}

func (b *builder) question(nq render.NumberedQuestion) {
	q := nq.Question
	body := richtext.Parse(q.Base().Body)
	if _, ok := q.(*models.Stimulus); ok {
		b.add(b.richParagraph(paraOpts{before: questionBefore}, nil, body))
		return
	}

	b.add(b.richParagraph(paraOpts{before: questionBefore}, []run{b.numberRun(nq.Label)}, body))

	switch v := q.(type) {
	case *models.MultipleChoice:
		b.choices(&v.ChoiceList)
	case *models.ComplexMultipleChoice:
		b.choices(&v.ChoiceList)
	case *models.TrueFalse:
		line := "[   ] " + b.labels.True + "   [   ] " + b.labels.False
		b.add(b.paragraph(paraOpts{indent: bodyIndent}, b.plain(line, false)))
	case *models.ShortAnswer:
		b.add(b.reserve(1))
	case *models.Essay:
		if v.ReserveSpace {
			b.add(b.reserve(essayRows))
		}
	case *models.Matching:
		b.matching(v)
	case *models.Table:
		b.grid(&v.Grid)
	case *models.TableMultipleChoice:
		b.grid(&v.Grid)
		b.choices(&v.ChoiceList)
	case *models.TableComplexMultipleChoice:
		b.grid(&v.Grid)
		b.choices(&v.ChoiceList)
	default:
		placeholder := "[" + b.labels.Unsupported + ": " + string(q.Type()) + "]"
		b.add(b.paragraph(paraOpts{indent: bodyIndent}, []run{b.textRun(placeholder, richtext.Style{Italic: true})}))
	}
}

func (b *builder) choiceRuns(i int, choice models.Choice) []run {
	return append([]run{b.textRun(numbering.ChoiceLetter(i, b.dir)+". ", richtext.Style{})}, b.rich(choice.Text)...)
}

// choices prints one lettered paragraph per choice, or packs them row-major into a
// borderless two-column table.
func (b *builder) choices(list *models.ChoiceList) {
	if len(list.Choices) == 0 {
		return
	}
	if !list.TwoColumns {
		for i, choice := range list.Choices {
			b.add(b.paragraph(paraOpts{indent: bodyIndent}, b.choiceRuns(i, choice)))
		}
		return
	}

	colW := (b.contentWidth - bodyIndent) / 2
	t := b.table([]int{bodyIndent, colW, colW}, nil)
	for i := 0; i < len(list.Choices); i += 2 {
		row := tableRow{Cells: []tableCell{b.cell(bodyIndent, nil, nil)}}
		for j := i; j < i+2; j++ {
			var paragraphs []*paragraph
			if j < len(list.Choices) {
				paragraphs = []*paragraph{b.paragraph(paraOpts{}, b.choiceRuns(j, list.Choices[j]))}
			}
			row.Cells = append(row.Cells, b.cell(colW, paragraphs, nil))
		}
		t.Rows = append(t.Rows, row)
	}
	b.add(t)
}

// reserve builds blank answer rows with only a bottom border.
func (b *builder) reserve(rows int) *table {
	w := b.contentWidth - bodyIndent
	t := b.table([]int{bodyIndent, w}, nil)
	line := &borders{Bottom: single()}
	for i := 0; i < rows; i++ {
		t.Rows = append(t.Rows, tableRow{
			Props: &trPr{Height: &rowHeight{Val: MillimetersToTwips(reservedRowHeight), Rule: "atLeast"}},
			Cells: []tableCell{b.cell(bodyIndent, nil, nil), b.cell(w, nil, line)},
		})
	}
	return t
}

// matching lays numbered prompts beside lettered answers.
func (b *builder) matching(m *models.Matching) {
	rows := max(len(m.Prompts), len(m.Answers))
	if rows == 0 {
		return
	}
	w := b.contentWidth - bodyIndent
	numW, gapW := w*7/100, w*8/100
	textW := (w - 2*numW - gapW) / 2
	widths := []int{bodyIndent, numW, textW, gapW, numW, textW}
	t := b.table(widths, nil)

	for i := 0; i < rows; i++ {
		cells := []tableCell{b.cell(bodyIndent, nil, nil)}
		if i < len(m.Prompts) {
			cells = append(cells,
				b.cell(numW, []*paragraph{b.paragraph(paraOpts{}, b.plain(numbering.OrdinalNumeral(i+1, b.dir)+".", false))}, nil),
				b.cell(textW, []*paragraph{b.paragraph(paraOpts{}, b.rich(m.Prompts[i].Text))}, nil))
		} else {
			cells = append(cells, b.cell(numW, nil, nil), b.cell(textW, nil, nil))
		}
		cells = append(cells, b.cell(gapW, nil, nil))
		if i < len(m.Answers) {
			cells = append(cells,
				b.cell(numW, []*paragraph{b.paragraph(paraOpts{}, b.plain(numbering.ChoiceLetter(i, b.dir)+".", false))}, nil),
				b.cell(textW, []*paragraph{b.paragraph(paraOpts{}, b.rich(m.Answers[i].Text))}, nil))
		} else {
			cells = append(cells, b.cell(numW, nil, nil), b.cell(textW, nil, nil))
		}
		t.Rows = append(t.Rows, tableRow{Cells: cells})
	}
	b.add(t)
}

// ===== TABLE GRIDS =====

// gridWidths converts column widths to twips; automatic columns share what is left.
func (b *builder) gridWidths(g *models.TableGrid) []int {
	cols := g.WidestRow()
	widths := make([]int, cols)
	used, auto := 0, 0
	for c := 0; c < cols; c++ {
		if w := g.ColumnWidth(c); w != nil {
			widths[c] = MillimetersToTwips(*w)
			used += widths[c]
		} else {
			auto++
		}
	}
	if auto > 0 {
		share := max((b.contentWidth-used)/auto, MillimetersToTwips(10))
		for c := range widths {
			if g.ColumnWidth(c) == nil {
				widths[c] = share
			}
		}
	}
	return widths
}

func verticalAlign(a models.VerticalAlign) *val {
	switch a {
	case models.AlignTop:
		return &val{Val: "top"}
	case models.AlignMiddle:
		return &val{Val: "center"}
	case models.AlignBottom:
		return &val{Val: "bottom"}
	}
	return nil
}

// grid maps a table grid onto a table: column spans become gridSpan, row spans become
// a vMerge restart followed by continuation cells in the rows below. A grid whose spans
// are inconsistent is printed without spans, short rows padded to the widest one.
func (b *builder) grid(g *models.TableGrid) {
	cols := g.WidestRow()
	if cols == 0 {
		return
	}
	widths := b.gridWidths(g)
	owners, err := grid.Owners(g)
	if err != nil {
		owners = nil
	}
	spanWidth := func(c, span int) int {
		total := 0
		for i := c; i < c+span && i < cols; i++ {
			total += widths[i]
		}
		return total
	}

	t := b.table(widths, allBorders())
	for r, row := range g.Rows {
		tr := tableRow{}
		if row.Height != nil {
			tr.Props = &trPr{Height: &rowHeight{Val: MillimetersToTwips(*row.Height), Rule: "atLeast"}}
		}
		for c := 0; c < cols; {
			if c >= len(row.Cells) {
				tr.Cells = append(tr.Cells, b.cell(widths[c], nil, nil))
				c++
				continue
			}
			cell := row.Cells[c]
			if owners == nil {
				content := cell.Content
				if cell.Merged {
					content = ""
				}
				tr.Cells = append(tr.Cells, b.gridCell(widths[c], content, cell.VAlign))
				c++
				continue
			}

			own := owners[r][c]
			switch {
			case own.Row == r && own.Col == c:
				rows, span := cell.Span()
				tc := b.gridCell(spanWidth(c, span), cell.Content, cell.VAlign)
				if span > 1 {
					tc.Props.GridSpan = &intVal{Val: span}
				}
				if rows > 1 {
					tc.Props.VMerge = &vMerge{Val: "restart"}
				}
				tr.Cells = append(tr.Cells, tc)
				c += span
			case own.Row < r && own.Col == c:
				_, span := g.Rows[own.Row].Cells[own.Col].Span()
				tc := b.cell(spanWidth(c, span), nil, nil)
				tc.Props.VMerge = &vMerge{}
				if span > 1 {
					tc.Props.GridSpan = &intVal{Val: span}
				}
				tr.Cells = append(tr.Cells, tc)
				c += span
			default:
				c++
			}
		}
		t.Rows = append(t.Rows, tr)
	}
	b.add(t)
}

func (b *builder) gridCell(w int, content string, align models.VerticalAlign) tableCell {
	tc := b.cell(w, []*paragraph{b.richParagraph(paraOpts{}, nil, richtext.Parse(content))}, nil)
	tc.Props.VAlign = verticalAlign(align)
	return tc
}

// ===== ANSWER KEY =====

func (b *builder) answer(nq render.NumberedQuestion) {
	resolved := render.ResolveAnswer(nq.Question, b.labels, b.dir)
	if resolved.Omitted {
		return
	}
	number := []run{b.numberRun(nq.Label)}
	opts := paraOpts{before: questionBefore}

	switch {
	case resolved.Empty:
		b.add(b.paragraph(opts, number, []run{b.textRun(b.labels.NoAnswer, richtext.Style{Italic: true})}))
	case resolved.Grid != nil:
		b.add(b.paragraph(opts, number))
		b.grid(resolved.Grid)
	default:
		for i, item := range resolved.Items {
			if i == 0 {
				b.add(b.paragraph(opts, number, b.itemRuns(item)))
				continue
			}
			b.add(b.paragraph(paraOpts{indent: bodyIndent}, b.itemRuns(item)))
		}
	}
}

func (b *builder) itemRuns(item render.AnswerItem) []run {
	var runs []run
	if lead := item.Lead(); lead != "" {
		if !item.Text.IsEmpty() {
			lead += " "
		}
		runs = append(runs, b.textRun(lead, richtext.Style{}))
	}
	return append(runs, b.fragmentRuns(item.Text, richtext.Style{})...)
}
