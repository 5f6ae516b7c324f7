package markup

import (
	"fmt"
	"strings"

	"github.com/SAP-F-2025/exam-document-service/internal/models"
	"github.com/SAP-F-2025/exam-document-service/internal/render"
)

func mm(v float64) string {
	return render.FormatNumber(v) + "mm"
}

// stylesheet is the embedded CSS. Logical properties keep one sheet valid for both directions.
func stylesheet(cfg models.RenderConfig) string {
	width, height := cfg.PaperSize.Dimensions()
	m := cfg.Margins

	var b strings.Builder
	fmt.Fprintf(&b, "@page { size: %s %s; margin: %s %s %s %s; }\n",
		mm(width), mm(height), mm(m.Top), mm(m.Right), mm(m.Bottom), mm(m.Left))
	fmt.Fprintf(&b, "body { margin: 0; font-family: \"%s\", serif; font-size: %spt; line-height: %s; }\n",
		cssFontName(cfg.FontFamily), render.FormatNumber(cfg.FontSize), render.FormatNumber(cfg.LineSpacing))
	b.WriteString(`.kop { width: 100%; border-collapse: collapse; border-bottom: 3px double #000; margin-bottom: 4mm; }
.kop-logo { width: 25mm; text-align: center; vertical-align: middle; }
.kop-logo img { max-width: 25mm; max-height: 25mm; }
.kop-text { text-align: center; vertical-align: middle; overflow: hidden; }
.kop-line { white-space: nowrap; }
.kop-line:first-child { font-weight: bold; }
.title { text-align: center; font-size: 1.2em; margin: 2mm 0; }
.meta { width: 100%; border-collapse: collapse; margin-bottom: 4mm; }
.meta td { padding: 1mm 2mm; vertical-align: top; }
.meta .blank { border-bottom: 1px dotted #000; min-width: 40mm; }
.meta .score { width: 25mm; border: 1px solid #000; text-align: center; }
.instructions p { margin: 0; }
.section { margin-top: 4mm; }
.section-title { font-weight: bold; margin: 0 0 2mm 0; }
.stimulus { border: 1px solid #000; padding: 2mm; margin-bottom: 2mm; }
.question { margin-bottom: 3mm; }
.q-head { display: flex; gap: 2mm; }
.q-num { min-width: 7mm; }
.q-body { flex: 1; }
.choices { list-style: none; margin: 1mm 0 0 0; padding-inline-start: 9mm; }
.choices.two-col { display: grid; grid-template-columns: 1fr 1fr; column-gap: 6mm; }
.letter { display: inline-block; min-width: 6mm; }
.tf { padding-inline-start: 9mm; margin-top: 1mm; }
.tf-box { display: inline-block; border: 1px solid #000; padding: 0 3mm; margin-inline-end: 6mm; }
.answer-line, .essay-line { border-bottom: 1px solid #000; height: 8mm; margin-inline-start: 9mm; }
.matching, .grid { border-collapse: collapse; margin: 1mm 0 0 9mm; }
.matching td { padding: 1mm 2mm; vertical-align: top; }
.matching .gap { width: 12mm; }
.grid td { border: 1px solid #000; padding: 1mm 2mm; }
.inline-image { max-width: 80mm; max-height: 60mm; vertical-align: middle; }
.answer { display: flex; gap: 2mm; margin-bottom: 2mm; }
.answer-item { margin: 0; }
.no-answer { font-style: italic; color: #a00; }
.unsupported { font-style: italic; border: 1px dashed #888; padding: 1mm 2mm; }
.columns-2 { column-count: 2; column-gap: 8mm; }
.columns-2 .section { break-inside: avoid; page-break-inside: avoid; }
[dir="rtl"] .matching, [dir="rtl"] .grid { margin: 1mm 9mm 0 0; }
`)
	return b.String()
}

// cssFontName drops characters that could end the declaration or the style element.
func cssFontName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', '"', '\\', ';', '{', '}':
			return -1
		}
		return r
	}, name)
}

// shrinkScript fits each header line into its cell after layout, since text width is
// only known to the viewer.
const shrinkScript = `<script>
(function () {
  var lines = document.querySelectorAll('.kop-line');
  for (var i = 0; i < lines.length; i++) {
    var el = lines[i];
    var size = parseFloat(window.getComputedStyle(el).fontSize);
    while (el.scrollWidth > el.clientWidth && size > 6) {
      size -= 0.5;
      el.style.fontSize = size + 'px';
    }
  }
})();
</script>
`
