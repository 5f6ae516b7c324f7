package richtext

import (
	"encoding/base64"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/unicode/norm"
)

var blockElements = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Li: true, atom.Ul: true, atom.Ol: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Blockquote: true, atom.Tr: true,
}

var voidElements = map[atom.Atom]bool{
	atom.Area: true, atom.Base: true, atom.Col: true, atom.Embed: true, atom.Hr: true,
	atom.Input: true, atom.Link: true, atom.Meta: true, atom.Param: true, atom.Source: true,
	atom.Track: true, atom.Wbr: true,
}

// charRef matches a named or numeric character reference such as "&lt;" or "&#60;".
var charRef = regexp.MustCompile(`&(#[0-9]+|#[xX][0-9a-fA-F]+|[A-Za-z][A-Za-z0-9]*);`)

type frame struct {
	tag   string
	style Style
}

type parser struct {
	runs    []Run
	stack   []frame
	pending bool
	skip    int
	align   Alignment
	images  map[string]*Image
}

// Parse converts a fragment into runs. Fragments with neither tags nor character
// references are plain text whose newlines are line breaks; inside markup, whitespace collapses.
func Parse(fragment string) Fragment {
	if !IsMarkup(fragment) {
		return Fragment{Runs: parsePlain(fragment)}
	}

	p := &parser{images: make(map[string]*Image)}
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			// io.EOF or truncated markup; keep what was read so far
			break
		}
		tok := z.Token()
		switch tt {
		case html.StartTagToken:
			p.start(tok, false)
		case html.SelfClosingTagToken:
			p.start(tok, true)
		case html.EndTagToken:
			p.end(tok)
		case html.TextToken:
			if p.skip == 0 {
				p.text(tok.Data)
			}
		}
	}
	return Fragment{Runs: finish(p.runs), Align: p.align}
}

// IsMarkup reports whether Parse reads fragment as markup rather than plain text.
func IsMarkup(fragment string) bool {
	return strings.Contains(fragment, "<") || charRef.MatchString(fragment)
}

// Plain wraps text that is never markup, such as a label, as a fragment.
func Plain(text string) Fragment {
	return Fragment{Runs: parsePlain(text)}
}

// FromPlain encodes plain text as a fragment that Parse reads back as the same
// text: markup characters are escaped and newlines become <br>.
func FromPlain(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = html.EscapeString(line)
	}
	return strings.Join(lines, "<br>")
}

func parsePlain(fragment string) []Run {
	fragment = strings.ReplaceAll(fragment, "\r\n", "\n")
	var runs []Run
	for i, line := range strings.Split(fragment, "\n") {
		if i > 0 {
			runs = append(runs, Run{Kind: KindBreak})
		}
		if line = strings.TrimRight(line, "\r"); line != "" {
			runs = append(runs, Run{Kind: KindText, Text: norm.NFC.String(line)})
		}
	}
	return trimBreaks(runs)
}

func (p *parser) style() Style {
	if len(p.stack) == 0 {
		return Style{}
	}
	return p.stack[len(p.stack)-1].style
}

func (p *parser) start(tok html.Token, selfClosing bool) {
	if p.skip > 0 {
		if tok.DataAtom == atom.Script || tok.DataAtom == atom.Style {
			p.skip++
		}
		return
	}

	switch tok.DataAtom {
	case atom.Script, atom.Style:
		if !selfClosing {
			p.skip++
		}
		return
	case atom.Br:
		p.runs = append(p.runs, Run{Kind: KindBreak})
		p.pending = false
		return
	case atom.Img:
		p.image(tok)
		return
	}

	style := p.style()
	switch tok.DataAtom {
	case atom.B, atom.Strong:
		style.Bold = true
	case atom.I, atom.Em:
		style.Italic = true
	case atom.U, atom.Ins:
		style.Underline = true
	case atom.Sub:
		style.Subscript, style.Superscript = true, false
	case atom.Sup:
		style.Superscript, style.Subscript = true, false
	}

	align := AlignNone
	for _, attr := range tok.Attr {
		switch strings.ToLower(attr.Key) {
		case "style":
			style, align = applyCSS(style, align, attr.Val)
		case "align":
			if a := parseAlignment(attr.Val); a != AlignNone {
				align = a
			}
		}
	}

	if blockElements[tok.DataAtom] {
		p.pending = true
		if p.align == AlignNone {
			p.align = align
		}
	}
	if selfClosing || voidElements[tok.DataAtom] {
		return
	}
	p.stack = append(p.stack, frame{tag: tok.Data, style: style})
}

func (p *parser) end(tok html.Token) {
	if p.skip > 0 {
		if tok.DataAtom == atom.Script || tok.DataAtom == atom.Style {
			p.skip--
		}
		return
	}
	if blockElements[tok.DataAtom] {
		p.pending = true
	}
	// unmatched end tags are ignored; a match closes every frame opened after it
	for i := len(p.stack) - 1; i >= 0; i-- {
		if p.stack[i].tag == tok.Data {
			p.stack = p.stack[:i]
			return
		}
	}
}

func (p *parser) text(data string) {
	text := collapseSpace(norm.NFC.String(data))
	if strings.TrimSpace(text) == "" {
		if p.pending || len(p.runs) == 0 || p.runs[len(p.runs)-1].Kind == KindBreak {
			return
		}
		text = " "
	}
	p.flushBreak()
	p.runs = append(p.runs, Run{Kind: KindText, Text: text, Style: p.style()})
}

func (p *parser) image(tok html.Token) {
	var src, alt string
	for _, attr := range tok.Attr {
		switch strings.ToLower(attr.Key) {
		case "src":
			src = strings.TrimSpace(attr.Val)
		case "alt":
			alt = attr.Val
		}
	}
	img, ok := p.images[src]
	if !ok {
		img = decodeDataURI(src)
		p.images[src] = img
	}
	if img == nil {
		return
	}
	p.flushBreak()
	run := *img
	run.Alt = alt
	p.runs = append(p.runs, Run{Kind: KindImage, Style: p.style(), Image: &run})
}

// flushBreak turns a pending block boundary into a single break between content.
func (p *parser) flushBreak() {
	if p.pending && len(p.runs) > 0 && p.runs[len(p.runs)-1].Kind != KindBreak {
		p.runs = append(p.runs, Run{Kind: KindBreak})
	}
	p.pending = false
}

// decodeDataURI returns nil for anything but a decodable data:image/... URI.
func decodeDataURI(src string) *Image {
	if len(src) < 5 || !strings.EqualFold(src[:5], "data:") {
		return nil
	}
	meta, payload, ok := strings.Cut(src[5:], ",")
	if !ok {
		return nil
	}
	params := strings.Split(meta, ";")
	contentType := strings.ToLower(strings.TrimSpace(params[0]))
	if !strings.HasPrefix(contentType, "image/") {
		return nil
	}

	isBase64 := false
	for _, param := range params[1:] {
		if strings.EqualFold(strings.TrimSpace(param), "base64") {
			isBase64 = true
		}
	}

	var data []byte
	if isBase64 {
		payload = strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, payload)
		var err error
		if data, err = base64.StdEncoding.DecodeString(payload); err != nil {
			if data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "=")); err != nil {
				return nil
			}
		}
	} else {
		decoded, err := url.PathUnescape(payload)
		if err != nil {
			return nil
		}
		data = []byte(decoded)
	}
	if len(data) == 0 {
		return nil
	}
	return &Image{Data: data, ContentType: contentType}
}

func applyCSS(style Style, align Alignment, css string) (Style, Alignment) {
	for _, decl := range strings.Split(css, ";") {
		prop, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		value = strings.ToLower(strings.TrimSpace(value))
		switch prop {
		case "font-weight":
			switch value {
			case "bold", "bolder", "600", "700", "800", "900":
				style.Bold = true
			case "normal", "lighter", "400":
				style.Bold = false
			}
		case "font-style":
			style.Italic = value == "italic" || value == "oblique"
		case "text-decoration", "text-decoration-line":
			if strings.Contains(value, "underline") {
				style.Underline = true
			}
		case "vertical-align":
			switch value {
			case "sub":
				style.Subscript, style.Superscript = true, false
			case "super":
				style.Superscript, style.Subscript = true, false
			}
		case "text-align":
			if a := parseAlignment(value); a != AlignNone {
				align = a
			}
		}
	}
	return style, align
}

func parseAlignment(value string) Alignment {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "left", "start":
		return AlignLeft
	case "center", "middle":
		return AlignCenter
	case "right", "end":
		return AlignRight
	case "justify":
		return AlignJustify
	}
	return AlignNone
}

func collapseSpace(s string) string {
	var b strings.Builder
	space := false
	for _, r := range s {
		if unicode.IsSpace(r) && r != '\u00a0' {
			if !space {
				b.WriteByte(' ')
			}
			space = true
			continue
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}

// finish trims whitespace at line edges, drops empty text, trims outer breaks
// and merges neighbouring text runs of equal style.
func finish(runs []Run) []Run {
	for i := range runs {
		if runs[i].Kind != KindText {
			continue
		}
		if i == 0 || runs[i-1].Kind == KindBreak {
			runs[i].Text = strings.TrimLeft(runs[i].Text, " ")
		}
		if i == len(runs)-1 || runs[i+1].Kind == KindBreak {
			runs[i].Text = strings.TrimRight(runs[i].Text, " ")
		}
	}

	out := runs[:0]
	for _, run := range runs {
		if run.Kind == KindText && run.Text == "" {
			continue
		}
		if run.Kind == KindText && len(out) > 0 {
			last := &out[len(out)-1]
			if last.Kind == KindText && last.Style == run.Style {
				if strings.HasSuffix(last.Text, " ") {
					run.Text = strings.TrimLeft(run.Text, " ")
				}
				last.Text += run.Text
				continue
			}
			if last.Kind == KindText && strings.HasSuffix(last.Text, " ") {
				run.Text = strings.TrimLeft(run.Text, " ")
				if run.Text == "" {
					continue
				}
			}
		}
		out = append(out, run)
	}
	return trimBreaks(out)
}

func trimBreaks(runs []Run) []Run {
	for len(runs) > 0 && runs[0].Kind == KindBreak {
		runs = runs[1:]
	}
	for len(runs) > 0 && runs[len(runs)-1].Kind == KindBreak {
		runs = runs[:len(runs)-1]
	}
	if len(runs) == 0 {
		return nil
	}
	return runs
}
