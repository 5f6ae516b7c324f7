// Package office renders an exam into a WordprocessingML (.docx) package carrying the
// same questions, order and answers as the markup projection.
package office

import (
	"fmt"

	"github.com/SAP-F-2025/exam-document-service/internal/models"
	"github.com/SAP-F-2025/exam-document-service/internal/render"
)

// Render produces the .docx package for exam. Equal inputs produce byte-identical
// packages. Content gaps never fail the render; errors only come from serialization.
func Render(exam *models.Exam, cfg models.RenderConfig, mode models.Mode) ([]byte, error) {
	cfg = cfg.WithDefaults()
	b := newBuilder(exam, cfg, mode)
	b.build()

	pageW, pageH := PageSize(cfg.PaperSize)
	doc := document{
		W: nsW, R: nsR, WP: nsWP, A: nsA, Pic: nsPic,
		Body: body{
			Blocks: b.blocks,
			Section: sectPr{
				Size: pgSz{W: pageW, H: pageH},
				Margins: pgMar{
					Top:    MillimetersToTwips(cfg.Margins.Top),
					Right:  MillimetersToTwips(cfg.Margins.Right),
					Bottom: MillimetersToTwips(cfg.Margins.Bottom),
					Left:   MillimetersToTwips(cfg.Margins.Left),
					Header: 708,
					Footer: 708,
				},
			},
		},
	}
	if b.dir.IsRTL() {
		doc.Body.Section.Bidi = &empty{}
	}

	documentXML, err := marshalPart(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}

	parts := []part{
		{name: "[Content_Types].xml", data: []byte(contentTypesXML)},
		{name: "_rels/.rels", data: []byte(packageRelsXML)},
		{name: "docProps/core.xml", data: coreXML(exam)},
		{name: "word/document.xml", data: documentXML},
		{name: "word/styles.xml", data: stylesXML(cfg)},
		{name: "word/settings.xml", data: []byte(settingsXML)},
		{name: "word/_rels/document.xml.rels", data: documentRelsXML(b.media.items)},
	}
	for _, item := range b.media.items {
		parts = append(parts, part{name: "word/media/" + item.Name, data: item.Data})
	}
	return writePackage(parts)
}

// Output renders the package and wraps it with its download metadata.
func Output(exam *models.Exam, cfg models.RenderConfig, mode models.Mode) (render.Output, error) {
	data, err := Render(exam, cfg, mode)
	if err != nil {
		return render.Output{}, err
	}
	return render.NewOutput(exam, mode, render.FormatDOCX, data), nil
}
