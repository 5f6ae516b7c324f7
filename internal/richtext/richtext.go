// Package richtext turns an inline-formatted fragment into a flat sequence of styled runs.
//
// The accepted subset is the one the exam editor produces: bold/strong, italic/em,
// underline, sub, sup, br, block separators, inline data-URI images and the equivalent
// span styles. Anything else is transparent; script and style bodies are dropped.
// Parsing never fails, it only yields fewer runs.
package richtext

import "strings"

type Kind int

const (
	KindText Kind = iota
	KindImage
	KindBreak
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindImage:
		return "image"
	case KindBreak:
		return "break"
	default:
		return "unknown"
	}
}

// Style is the formatting accumulated from every enclosing element of a run.
type Style struct {
	Bold        bool `json:"bold,omitempty"`
	Italic      bool `json:"italic,omitempty"`
	Underline   bool `json:"underline,omitempty"`
	Subscript   bool `json:"subscript,omitempty"`
	Superscript bool `json:"superscript,omitempty"`
}

// Image is the decoded payload of an inline data URI.
type Image struct {
	Data        []byte `json:"-"`
	ContentType string `json:"content_type"`
	Alt         string `json:"alt,omitempty"`
}

// Run is one unit of output: styled text, an image, or a forced line break.
type Run struct {
	Kind  Kind   `json:"kind"`
	Text  string `json:"text,omitempty"`
	Style Style  `json:"style"`
	Image *Image `json:"image,omitempty"`
}

type Alignment string

const (
	AlignNone    Alignment = ""
	AlignLeft    Alignment = "left"
	AlignCenter  Alignment = "center"
	AlignRight   Alignment = "right"
	AlignJustify Alignment = "justify"
)

// Fragment is a parsed field: its runs plus the first explicit block alignment found.
type Fragment struct {
	Runs  []Run     `json:"runs"`
	Align Alignment `json:"align,omitempty"`
}

// IsEmpty reports whether the fragment carries no text and no image.
func (f Fragment) IsEmpty() bool {
	for _, run := range f.Runs {
		if run.Kind == KindImage || (run.Kind == KindText && strings.TrimSpace(run.Text) != "") {
			return false
		}
	}
	return true
}

// PlainText returns the text content with breaks folded into spaces.
func (f Fragment) PlainText() string {
	var b strings.Builder
	for _, run := range f.Runs {
		switch run.Kind {
		case KindText:
			b.WriteString(run.Text)
		case KindBreak:
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// PlainLines returns the text content with one line per break.
// Spaces inside a line are collapsed.
func (f Fragment) PlainLines() string {
	var b strings.Builder
	for _, run := range f.Runs {
		switch run.Kind {
		case KindText:
			b.WriteString(run.Text)
		case KindBreak:
			b.WriteByte('\n')
		}
	}
	lines := strings.Split(b.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// PlainText parses a fragment and returns its text with breaks folded into spaces.
func PlainText(fragment string) string {
	return Parse(fragment).PlainText()
}

// PlainLines parses a fragment and returns its text with one line per break.
func PlainLines(fragment string) string {
	return Parse(fragment).PlainLines()
}
