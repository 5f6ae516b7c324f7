package office

import (
	"encoding/xml"
)

// WordprocessingML elements are written with literal prefixes; the namespaces are
// declared once on the document root.
const (
	nsW   = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsWP  = "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
	nsA   = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsPic = "http://schemas.openxmlformats.org/drawingml/2006/picture"
)

type document struct {
	XMLName xml.Name `xml:"w:document"`
	W       string   `xml:"xmlns:w,attr"`
	R       string   `xml:"xmlns:r,attr"`
	WP      string   `xml:"xmlns:wp,attr"`
	A       string   `xml:"xmlns:a,attr"`
	Pic     string   `xml:"xmlns:pic,attr"`
	Body    body     `xml:"w:body"`
}

// block is a body-level element: a paragraph or a table.
type block interface {
	isBlock()
}

type body struct {
	Blocks  []block
	Section sectPr
}

// MarshalXML keeps paragraphs and tables in document order.
func (b body) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, blk := range b.Blocks {
		if err := e.Encode(blk); err != nil {
			return err
		}
	}
	if err := e.Encode(b.Section); err != nil {
		return err
	}
	return e.EncodeToken(start.End())
}

type empty struct{}

type val struct {
	Val string `xml:"w:val,attr"`
}

type intVal struct {
	Val int `xml:"w:val,attr"`
}

// ===== PARAGRAPHS AND RUNS =====

type paragraph struct {
	XMLName xml.Name `xml:"w:p"`
	Props   *pPr     `xml:"w:pPr,omitempty"`
	Runs    []run    `xml:"w:r"`
}

func (*paragraph) isBlock() {}

type pPr struct {
	Bidi    *empty   `xml:"w:bidi,omitempty"`
	Spacing *spacing `xml:"w:spacing,omitempty"`
	Ind     *indent  `xml:"w:ind,omitempty"`
	Jc      *val     `xml:"w:jc,omitempty"`
}

type spacing struct {
	Before int `xml:"w:before,attr"`
	After  int `xml:"w:after,attr"`
}

type indent struct {
	Left    int `xml:"w:left,attr,omitempty"`
	Hanging int `xml:"w:hanging,attr,omitempty"`
}

type run struct {
	Props   *rPr     `xml:"w:rPr,omitempty"`
	Text    *text    `xml:"w:t,omitempty"`
	Break   *empty   `xml:"w:br,omitempty"`
	Drawing *drawing `xml:"w:drawing,omitempty"`
}

type rPr struct {
	Bold      *empty `xml:"w:b,omitempty"`
	BoldCS    *empty `xml:"w:bCs,omitempty"`
	Italic    *empty `xml:"w:i,omitempty"`
	ItalicCS  *empty `xml:"w:iCs,omitempty"`
	Underline *val   `xml:"w:u,omitempty"`
	VertAlign *val   `xml:"w:vertAlign,omitempty"`
	RTL       *empty `xml:"w:rtl,omitempty"`
}

type text struct {
	Space string `xml:"xml:space,attr,omitempty"`
	Value string `xml:",chardata"`
}

// ===== TABLES =====

type table struct {
	XMLName xml.Name   `xml:"w:tbl"`
	Props   tblPr      `xml:"w:tblPr"`
	Grid    tblGrid    `xml:"w:tblGrid"`
	Rows    []tableRow `xml:"w:tr"`
}

func (*table) isBlock() {}

type tblPr struct {
	BidiVisual *empty   `xml:"w:bidiVisual,omitempty"`
	Width      width    `xml:"w:tblW"`
	Borders    *borders `xml:"w:tblBorders,omitempty"`
	Layout     *layout  `xml:"w:tblLayout,omitempty"`
}

type width struct {
	W    int    `xml:"w:w,attr"`
	Type string `xml:"w:type,attr"`
}

type layout struct {
	Type string `xml:"w:type,attr"`
}

type tblGrid struct {
	Cols []gridCol `xml:"w:gridCol"`
}

type gridCol struct {
	W int `xml:"w:w,attr"`
}

type tableRow struct {
	Props *trPr       `xml:"w:trPr,omitempty"`
	Cells []tableCell `xml:"w:tc"`
}

type trPr struct {
	Height *rowHeight `xml:"w:trHeight,omitempty"`
}

type rowHeight struct {
	Val  int    `xml:"w:val,attr"`
	Rule string `xml:"w:hRule,attr,omitempty"`
}

type tableCell struct {
	Props tcPr `xml:"w:tcPr"`
	// Paragraphs is never empty; a cell must end with a paragraph.
	Paragraphs []*paragraph `xml:"w:p"`
}

type tcPr struct {
	Width    *width   `xml:"w:tcW,omitempty"`
	GridSpan *intVal  `xml:"w:gridSpan,omitempty"`
	VMerge   *vMerge  `xml:"w:vMerge,omitempty"`
	Borders  *borders `xml:"w:tcBorders,omitempty"`
	VAlign   *val     `xml:"w:vAlign,omitempty"`
}

// vMerge with an empty value continues the merge started by "restart" above it.
type vMerge struct {
	Val string `xml:"w:val,attr,omitempty"`
}

type borders struct {
	Top     *border `xml:"w:top,omitempty"`
	Left    *border `xml:"w:left,omitempty"`
	Bottom  *border `xml:"w:bottom,omitempty"`
	Right   *border `xml:"w:right,omitempty"`
	InsideH *border `xml:"w:insideH,omitempty"`
	InsideV *border `xml:"w:insideV,omitempty"`
}

type border struct {
	Val   string `xml:"w:val,attr"`
	Size  int    `xml:"w:sz,attr"`
	Space int    `xml:"w:space,attr"`
	Color string `xml:"w:color,attr"`
}

// ===== SECTION =====

type sectPr struct {
	XMLName xml.Name `xml:"w:sectPr"`
	Size    pgSz     `xml:"w:pgSz"`
	Margins pgMar    `xml:"w:pgMar"`
	Bidi    *empty   `xml:"w:bidi,omitempty"`
}

type pgSz struct {
	W int `xml:"w:w,attr"`
	H int `xml:"w:h,attr"`
}

type pgMar struct {
	Top    int `xml:"w:top,attr"`
	Right  int `xml:"w:right,attr"`
	Bottom int `xml:"w:bottom,attr"`
	Left   int `xml:"w:left,attr"`
	Header int `xml:"w:header,attr"`
	Footer int `xml:"w:footer,attr"`
	Gutter int `xml:"w:gutter,attr"`
}

// ===== DRAWINGS =====

type drawing struct {
	Inline inline `xml:"wp:inline"`
}

type inline struct {
	DistT   int     `xml:"distT,attr"`
	DistB   int     `xml:"distB,attr"`
	DistL   int     `xml:"distL,attr"`
	DistR   int     `xml:"distR,attr"`
	Extent  extent  `xml:"wp:extent"`
	DocPr   docPr   `xml:"wp:docPr"`
	Graphic graphic `xml:"a:graphic"`
}

type extent struct {
	Cx int64 `xml:"cx,attr"`
	Cy int64 `xml:"cy,attr"`
}

type docPr struct {
	ID    int    `xml:"id,attr"`
	Name  string `xml:"name,attr"`
	Descr string `xml:"descr,attr,omitempty"`
}

type graphic struct {
	Data graphicData `xml:"a:graphicData"`
}

type graphicData struct {
	URI string  `xml:"uri,attr"`
	Pic picture `xml:"pic:pic"`
}

type picture struct {
	NvPicPr nvPicPr  `xml:"pic:nvPicPr"`
	Fill    blipFill `xml:"pic:blipFill"`
	SpPr    spPr     `xml:"pic:spPr"`
}

type nvPicPr struct {
	CNvPr    cNvPr `xml:"pic:cNvPr"`
	CNvPicPr empty `xml:"pic:cNvPicPr"`
}

type cNvPr struct {
	ID   int    `xml:"id,attr"`
	Name string `xml:"name,attr"`
}

type blipFill struct {
	Blip    blip    `xml:"a:blip"`
	Stretch stretch `xml:"a:stretch"`
}

type blip struct {
	Embed string `xml:"r:embed,attr"`
}

type stretch struct {
	FillRect empty `xml:"a:fillRect"`
}

type spPr struct {
	Xfrm xfrm     `xml:"a:xfrm"`
	Geom prstGeom `xml:"a:prstGeom"`
}

type xfrm struct {
	Off offset `xml:"a:off"`
	Ext extent `xml:"a:ext"`
}

type offset struct {
	X int64 `xml:"x,attr"`
	Y int64 `xml:"y,attr"`
}

type prstGeom struct {
	Prst  string `xml:"prst,attr"`
	AvLst empty  `xml:"a:avLst"`
}

func newDrawing(id int, relID, name, descr string, cx, cy int64) *drawing {
	return &drawing{Inline: inline{
		Extent: extent{Cx: cx, Cy: cy},
		DocPr:  docPr{ID: id, Name: name, Descr: descr},
		Graphic: graphic{Data: graphicData{
			URI: nsPic,
			Pic: picture{
				NvPicPr: nvPicPr{CNvPr: cNvPr{ID: id, Name: name}},
				Fill:    blipFill{Blip: blip{Embed: relID}},
				SpPr: spPr{
					Xfrm: xfrm{Ext: extent{Cx: cx, Cy: cy}},
					Geom: prstGeom{Prst: "rect"},
				},
			},
		}},
	}}
}
