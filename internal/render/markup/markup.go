// Package markup renders an exam into one self-contained HTML document for preview
// and printing. Rendering is a pure function of its inputs and never fails: content
// gaps are printed as visible markers.
package markup

import (
	"html"
	"strings"

	"github.com/SAP-F-2025/exam-document-service/internal/models"
	"github.com/SAP-F-2025/exam-document-service/internal/numbering"
	"github.com/SAP-F-2025/exam-document-service/internal/render"
	"github.com/SAP-F-2025/exam-document-service/internal/richtext"
)

type writer struct {
	strings.Builder
	exam   *models.Exam
	cfg    models.RenderConfig
	mode   models.Mode
	dir    models.Direction
	labels models.Labels
}

// Render produces the HTML document for exam. The output is byte-identical for equal inputs.
func Render(exam *models.Exam, cfg models.RenderConfig, mode models.Mode) string {
	cfg = cfg.WithDefaults()
	dir := exam.TextDirection()
	w := &writer{
		exam:   exam,
		cfg:    cfg,
		mode:   mode,
		dir:    dir,
		labels: render.ResolveLabels(cfg.Labels, dir),
	}
	w.document()
	return w.String()
}

func (w *writer) text(s string) {
	w.WriteString(html.EscapeString(s))
}

func (w *writer) lang() string {
	if w.dir.IsRTL() {
		return "ar"
	}
	return w.cfg.Locale
}

func (w *writer) document() {
	w.WriteString("<!DOCTYPE html>\n<html lang=\"")
	w.text(w.lang())
	w.WriteString(`" dir="`)
	w.text(string(w.dir))
	w.WriteString("\">\n<head>\n<meta charset=\"utf-8\">\n<title>")
	w.text(w.exam.Title)
	w.WriteString("</title>\n<style>\n")
	w.WriteString(stylesheet(w.cfg))
	w.WriteString("</style>\n</head>\n<body>\n")

	w.header()
	w.WriteString(`<h1 class="title">`)
	w.text(w.exam.Title)
	if w.mode == models.ModeAnswerKey {
		w.WriteString(" - ")
		w.text(w.labels.AnswerKey)
	}
	w.WriteString("</h1>\n")
	w.meta()
	if w.mode == models.ModeQuestions {
		w.instructions()
	}
	w.sections()

	w.WriteString(shrinkScript)
	w.WriteString("</body>\n</html>\n")
}

// ===== HEADER AND META =====

// header emits the kop table: optional logos around centered institution lines.
// Absent logos drop their column and the text cell takes the width.
func (w *writer) header() {
	left, right := usableLogo(w.cfg.LeftLogo), usableLogo(w.cfg.RightLogo)
	if left == nil && right == nil && len(w.cfg.HeaderLines) == 0 {
		return
	}
	w.WriteString("<table class=\"kop\"><tr>")
	if left != nil {
		w.logo(left)
	}
	w.WriteString(`<td class="kop-text">`)
	for _, line := range w.cfg.HeaderLines {
		w.WriteString(`<div class="kop-line">`)
		w.text(line)
		w.WriteString("</div>")
	}
	w.WriteString("</td>")
	if right != nil {
		w.logo(right)
	}
	w.WriteString("</tr></table>\n")
}

func (w *writer) logo(l *models.Logo) {
	w.WriteString(`<td class="kop-logo"><img src="`)
	w.WriteString(dataURI(l.ContentType, l.Data))
	w.WriteString(`" alt=""></td>`)
}

func usableLogo(l *models.Logo) *models.Logo {
	if l == nil || len(l.Data) == 0 || !strings.HasPrefix(l.ContentType, "image/") {
		return nil
	}
	return l
}

// meta emits the identity block; the score box spans all three rows.
func (w *writer) meta() {
	e := w.exam
	date := numbering.FormatDate(e.Date, w.dir, w.cfg.Locale)
	duration := numbering.LocalizeDigits(e.Duration, w.dir)

	w.WriteString("<table class=\"meta\">\n<tr>")
	w.metaPair(w.labels.Name, "", true)
	w.metaPair(w.labels.Subject, e.Subject, false)
	w.WriteString(`<td class="score" rowspan="3">`)
	w.text(w.labels.Score)
	w.WriteString("</td></tr>\n<tr>")
	w.metaPair(w.labels.Class, e.ClassLabel, false)
	w.metaPair(w.labels.Date, date, false)
	w.WriteString("</tr>\n<tr>")
	w.metaPair(w.labels.Duration, duration, false)
	w.WriteString("<td></td><td></td></tr>\n</table>\n")
}

func (w *writer) metaPair(label, value string, blank bool) {
	w.WriteString("<td>")
	w.text(label)
	w.WriteString("</td>")
	if blank {
		w.WriteString(`<td class="blank"></td>`)
		return
	}
	w.WriteString("<td>: ")
	w.text(value)
	w.WriteString("</td>")
}

// instructions prints the general instructions one paragraph per line.
func (w *writer) instructions() {
	lines := instructionLines(w.exam.Instructions)
	if len(lines) == 0 {
		return
	}
	w.WriteString(`<div class="instructions">`)
	for _, line := range lines {
		w.WriteString("<p>")
		w.text(line)
		w.WriteString("</p>")
	}
	w.WriteString("</div>\n")
}

func instructionLines(s string) []string {
	var out []string
	for _, line := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// ===== SECTIONS =====

func (w *writer) sections() {
	class := "sections"
	if w.mode == models.ModeQuestions && w.exam.PreviewColumns() == 2 {
		class += " columns-2"
	}
	w.WriteString(`<div class="` + class + "\">\n")

	seq := 0
	for si, section := range w.exam.Sections {
		var questions []render.NumberedQuestion
		questions, seq = render.SectionQuestions(w.exam, si, seq)

		w.WriteString(`<section class="section">`)
		w.sectionTitle(si)
		if w.mode == models.ModeQuestions {
			if stimulus := richtext.Parse(section.Stimulus); !stimulus.IsEmpty() {
				w.WriteString(`<div class="stimulus"` + blockStyle(stimulus.Align) + ">")
				w.writeFragment(stimulus)
				w.WriteString("</div>")
			}
		}
		for _, nq := range questions {
			if w.mode == models.ModeAnswerKey {
				w.answer(nq)
			} else {
				w.question(nq)
			}
		}
		w.WriteString("</section>\n")
	}
	w.WriteString("</div>\n")
}

func (w *writer) sectionTitle(si int) {
	enumerator, heading := render.SectionHeading(w.exam, si)
	instruction := richtext.Parse(heading)
	if enumerator == "" && instruction.IsEmpty() {
		return
	}
	w.WriteString(`<p class="section-title">`)
	if enumerator != "" {
		w.WriteString(`<span class="enum">`)
		w.text(enumerator)
		w.WriteString("</span> ")
	}
	w.writeFragment(instruction)
	w.WriteString("</p>")
}

// ===== ANSWER KEY =====

func (w *writer) answer(nq render.NumberedQuestion) {
	resolved := render.ResolveAnswer(nq.Question, w.labels, w.dir)
	if resolved.Omitted {
		return
	}
	w.WriteString(`<div class="answer" data-question="`)
	w.text(nq.Question.QuestionID())
	w.WriteString(`"><span class="q-num">`)
	w.text(nq.Label + ".")
	w.WriteString(`</span><div class="q-body">`)

	switch {
	case resolved.Empty:
		w.WriteString(`<span class="no-answer">`)
		w.text(w.labels.NoAnswer)
		w.WriteString("</span>")
	case resolved.Grid != nil:
		w.grid(resolved.Grid)
	default:
		for _, item := range resolved.Items {
			w.WriteString(`<p class="answer-item">`)
			if lead := item.Lead(); lead != "" {
				w.WriteString(`<span class="lead">`)
				w.text(lead)
				w.WriteString("</span>")
				if !item.Text.IsEmpty() {
					w.WriteString(" ")
				}
			}
			w.writeFragment(item.Text)
			w.WriteString("</p>")
		}
	}
	w.WriteString("</div></div>\n")
}
