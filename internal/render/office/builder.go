package office

import (
	"strings"

	"github.com/SAP-F-2025/exam-document-service/internal/models"
	"github.com/SAP-F-2025/exam-document-service/internal/numbering"
	"github.com/SAP-F-2025/exam-document-service/internal/render"
	"github.com/SAP-F-2025/exam-document-service/internal/richtext"
)

// Display boxes in millimeters. Inline images never exceed them whatever their resolution.
const (
	imageBoxWidth  = 120
	imageBoxHeight = 90
	logoBox        = 25
	logoColumn     = 30
)

type builder struct {
	exam         *models.Exam
	cfg          models.RenderConfig
	mode         models.Mode
	dir          models.Direction
	labels       models.Labels
	media        *mediaRegistry
	blocks       []block
	drawings     int
	contentWidth int
}

func newBuilder(exam *models.Exam, cfg models.RenderConfig, mode models.Mode) *builder {
	dir := exam.TextDirection()
	pageW, _ := PageSize(cfg.PaperSize)
	return &builder{
		exam:         exam,
		cfg:          cfg,
		mode:         mode,
		dir:          dir,
		labels:       render.ResolveLabels(cfg.Labels, dir),
		media:        newMediaRegistry(firstMediaRel),
		contentWidth: max(pageW-MillimetersToTwips(cfg.Margins.Left)-MillimetersToTwips(cfg.Margins.Right), MillimetersToTwips(50)),
	}
}

func (b *builder) add(blocks ...block) {
	b.blocks = append(b.blocks, blocks...)
}

func (b *builder) build() {
	b.header()
	title := b.exam.Title
	if b.mode == models.ModeAnswerKey {
		title += " - " + b.labels.AnswerKey
	}
	b.add(b.paragraph(paraOpts{align: "center", after: 120}, b.plain(title, true)))
	b.meta()
	if b.mode == models.ModeQuestions {
		for _, line := range strings.Split(strings.ReplaceAll(b.exam.Instructions, "\r\n", "\n"), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				b.add(b.paragraph(paraOpts{}, b.plain(line, false)))
			}
		}
	}
	b.sections()
}

// ===== PARAGRAPHS AND RUNS =====

type paraOpts struct {
	align  string
	indent int
	before int
	after  int
}

func (b *builder) paragraph(opts paraOpts, runs ...[]run) *paragraph {
	props := &pPr{}
	if b.dir.IsRTL() {
		props.Bidi = &empty{}
	}
	if opts.before > 0 || opts.after > 0 {
		props.Spacing = &spacing{Before: opts.before, After: opts.after}
	}
	if opts.indent > 0 {
		props.Ind = &indent{Left: opts.indent}
	}
	if opts.align != "" {
		props.Jc = &val{Val: opts.align}
	}
	p := &paragraph{Props: props}
	for _, rs := range runs {
		p.Runs = append(p.Runs, rs...)
	}
	return p
}

func (b *builder) runProps(style richtext.Style) *rPr {
	props := &rPr{}
	if style.Bold {
		props.Bold, props.BoldCS = &empty{}, &empty{}
	}
	if style.Italic {
		props.Italic, props.ItalicCS = &empty{}, &empty{}
	}
	if style.Underline {
		props.Underline = &val{Val: "single"}
	}
	switch {
	case style.Subscript:
		props.VertAlign = &val{Val: "subscript"}
	case style.Superscript:
		props.VertAlign = &val{Val: "superscript"}
	}
	if b.dir.IsRTL() {
		props.RTL = &empty{}
	}
	if *props == (rPr{}) {
		return nil
	}
	return props
}

func (b *builder) textRun(s string, style richtext.Style) run {
	t := &text{Value: s}
	if strings.TrimSpace(s) != s {
		t.Space = "preserve"
	}
	return run{Props: b.runProps(style), Text: t}
}

func (b *builder) plain(s string, bold bool) []run {
	if s == "" {
		return nil
	}
	return []run{b.textRun(s, richtext.Style{Bold: bold})}
}

// rich maps parsed runs one to one onto document runs.
func (b *builder) rich(fragment string) []run {
	return b.fragmentRuns(richtext.Parse(fragment), richtext.Style{})
}

// fragmentRuns maps a parsed fragment onto document runs with extra style flags switched
// on for every text run.
func (b *builder) fragmentRuns(f richtext.Fragment, extra richtext.Style) []run {
	var out []run
	for _, r := range f.Runs {
		switch r.Kind {
		case richtext.KindText:
			style := r.Style
			style.Bold = style.Bold || extra.Bold
			style.Italic = style.Italic || extra.Italic
			out = append(out, b.textRun(r.Text, style))
		case richtext.KindBreak:
			out = append(out, run{Break: &empty{}})
		case richtext.KindImage:
			if img, ok := b.image(r.Image.Data, r.Image.Alt, imageBoxWidth, imageBoxHeight); ok {
				out = append(out, img)
			}
		}
	}
	return out
}

func (b *builder) image(data []byte, descr string, boxW, boxH float64) (run, bool) {
	item, ok := b.media.add(data)
	if !ok {
		return run{}, false
	}
	b.drawings++
	cx, cy := fitBox(item.Width, item.Height, boxW, boxH)
	return run{Drawing: newDrawing(b.drawings, item.RelID, item.Name, descr, cx, cy)}, true
}

// richParagraph lays out a parsed fragment after lead, aligned the way the fragment asks.
func (b *builder) richParagraph(opts paraOpts, lead []run, f richtext.Fragment) *paragraph {
	opts.align = alignment(f.Align)
	return b.paragraph(opts, lead, b.fragmentRuns(f, richtext.Style{}))
}

func alignment(align richtext.Alignment) string {
	switch align {
	case richtext.AlignCenter:
		return "center"
	case richtext.AlignRight:
		return "right"
	case richtext.AlignJustify:
		return "both"
	case richtext.AlignLeft:
		return "left"
	}
	return ""
}

// ===== HEADER AND META =====

// header builds the kop table. Missing logos drop their column and the text column
// takes the freed width.
func (b *builder) header() {
	left, right := usableLogo(b.cfg.LeftLogo), usableLogo(b.cfg.RightLogo)
	if left == nil && right == nil && len(b.cfg.HeaderLines) == 0 {
		return
	}
	logos := 0
	if left != nil {
		logos++
	}
	if right != nil {
		logos++
	}
	// on narrow pages the logo columns shrink so the text column keeps half the width
	logoMM, boxMM := float64(logoColumn), float64(logoBox)
	if logos > 0 {
		if limit := TwipsToMillimeters(b.contentWidth) / float64(2*logos); limit < logoMM {
			boxMM = boxMM * limit / logoMM
			logoMM = limit
		}
	}
	logoW := MillimetersToTwips(logoMM)
	var widths []int
	var cells []tableCell
	textW := b.contentWidth - logos*logoW

	logoCell := func(l *models.Logo) tableCell {
		p := b.paragraph(paraOpts{align: "center"})
		if img, ok := b.image(l.Data, "", boxMM, boxMM); ok {
			p.Runs = append(p.Runs, img)
		}
		return tableCell{Props: tcPr{Width: &width{W: logoW, Type: "dxa"}, VAlign: &val{Val: "center"}}, Paragraphs: []*paragraph{p}}
	}

	if left != nil {
		widths = append(widths, logoW)
		cells = append(cells, logoCell(left))
	}
	var lines []*paragraph
	for i, line := range b.cfg.HeaderLines {
		lines = append(lines, b.paragraph(paraOpts{align: "center"}, b.plain(line, i == 0)))
	}
	widths = append(widths, textW)
	cells = append(cells, b.cell(textW, lines, nil))
	if right != nil {
		widths = append(widths, logoW)
		cells = append(cells, logoCell(right))
	}

	t := b.table(widths, nil)
	t.Props.Borders = &borders{Bottom: &border{Val: "double", Size: 6, Color: "000000"}}
	t.Rows = []tableRow{{Cells: cells}}
	b.add(t, b.paragraph(paraOpts{}))
}

func usableLogo(l *models.Logo) *models.Logo {
	if l == nil || len(l.Data) == 0 || !strings.HasPrefix(l.ContentType, "image/") {
		return nil
	}
	return l
}

// meta builds the identity table; the score cell is merged down all three rows.
func (b *builder) meta() {
	e := b.exam
	w := b.contentWidth
	labelW, scoreW := w*14/100, w*16/100
	valueW := (w - 2*labelW - scoreW) / 2
	widths := []int{labelW, valueW, labelW, valueW, scoreW}

	label := func(s string) tableCell { return b.cell(labelW, []*paragraph{b.paragraph(paraOpts{}, b.plain(s, false))}, nil) }
	value := func(s string) tableCell {
		return b.cell(valueW, []*paragraph{b.paragraph(paraOpts{}, b.plain(": "+s, false))}, nil)
	}
	box := &borders{Top: single(), Left: single(), Bottom: single(), Right: single()}
	score := func(restart bool) tableCell {
		c := b.cell(scoreW, nil, box)
		c.Props.VAlign = &val{Val: "top"}
		if restart {
			c.Props.VMerge = &vMerge{Val: "restart"}
			c.Paragraphs = []*paragraph{b.paragraph(paraOpts{align: "center"}, b.plain(b.labels.Score, false))}
		} else {
			c.Props.VMerge = &vMerge{}
		}
		return c
	}
	nameValue := b.cell(valueW, nil, &borders{Bottom: &border{Val: "dotted", Size: 4, Color: "000000"}})

	t := b.table(widths, nil)
	t.Rows = []tableRow{
		{Cells: []tableCell{label(b.labels.Name), nameValue, label(b.labels.Subject), value(e.Subject), score(true)}},
		{Cells: []tableCell{label(b.labels.Class), value(e.ClassLabel), label(b.labels.Date), value(numbering.FormatDate(e.Date, b.dir, b.cfg.Locale)), score(false)}},
		{Cells: []tableCell{label(b.labels.Duration), value(numbering.LocalizeDigits(e.Duration, b.dir)), b.cell(labelW, nil, nil), b.cell(valueW, nil, nil), score(false)}},
	}
	b.add(t, b.paragraph(paraOpts{}))
}

// ===== SECTIONS =====

func (b *builder) sections() {
	seq := 0
	for si, section := range b.exam.Sections {
		var questions []render.NumberedQuestion
		questions, seq = render.SectionQuestions(b.exam, si, seq)

		enumerator, heading := render.SectionHeading(b.exam, si)
		if instruction := richtext.Parse(heading); enumerator != "" || !instruction.IsEmpty() {
			var runs []run
			if enumerator != "" {
				runs = append(runs, b.textRun(enumerator+" ", richtext.Style{Bold: true}))
			}
			runs = append(runs, b.fragmentRuns(instruction, richtext.Style{Bold: true})...)
			b.add(b.paragraph(paraOpts{before: 240, after: 120}, runs))
		}

		if b.mode == models.ModeQuestions {
			if stimulus := richtext.Parse(section.Stimulus); !stimulus.IsEmpty() {
				b.add(b.boxed(stimulus), b.paragraph(paraOpts{}))
			}
		}
		for _, nq := range questions {
			if b.mode == models.ModeAnswerKey {
				b.answer(nq)
			} else {
				b.question(nq)
			}
		}
	}
}
