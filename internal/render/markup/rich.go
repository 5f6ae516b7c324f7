package markup

import (
	"encoding/base64"
	"html"
	"strings"

	"github.com/SAP-F-2025/exam-document-service/internal/richtext"
)

// writeRich re-emits a fragment from its parsed runs, so only the supported inline
// subset ever reaches the document.
func (w *writer) writeRich(fragment string) {
	w.writeFragment(richtext.Parse(fragment))
}

func (w *writer) writeFragment(f richtext.Fragment) {
	for _, run := range f.Runs {
		switch run.Kind {
		case richtext.KindBreak:
			w.WriteString("<br>")
		case richtext.KindText:
			open, closing := styleTags(run.Style)
			w.WriteString(open)
			w.WriteString(html.EscapeString(run.Text))
			w.WriteString(closing)
		case richtext.KindImage:
			open, closing := styleTags(run.Style)
			w.WriteString(open)
			w.WriteString(`<img class="inline-image" src="`)
			w.WriteString(dataURI(run.Image.ContentType, run.Image.Data))
			w.WriteString(`" alt="`)
			w.WriteString(html.EscapeString(run.Image.Alt))
			w.WriteString(`">`)
			w.WriteString(closing)
		}
	}
}

// blockStyle returns the style attribute for a block alignment, or "".
func blockStyle(align richtext.Alignment) string {
	if align != richtext.AlignNone {
		return ` style="text-align:` + string(align) + `"`
	}
	return ""
}

func styleTags(s richtext.Style) (open, closing string) {
	var o, c []string
	add := func(on bool, tag string) {
		if on {
			o = append(o, "<"+tag+">")
			c = append([]string{"</" + tag + ">"}, c...)
		}
	}
	add(s.Bold, "b")
	add(s.Italic, "i")
	add(s.Underline, "u")
	add(s.Subscript, "sub")
	add(s.Superscript, "sup")
	return strings.Join(o, ""), strings.Join(c, "")
}

func dataURI(contentType string, data []byte) string {
	return "data:" + html.EscapeString(contentType) + ";base64," + base64.StdEncoding.EncodeToString(data)
}
