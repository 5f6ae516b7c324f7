package models

type PaperSize string

const (
	PaperA4     PaperSize = "A4"
	PaperF4     PaperSize = "F4"
	PaperLegal  PaperSize = "Legal"
	PaperLetter PaperSize = "Letter"
)

// Dimensions returns the portrait width and height of the paper in millimeters.
// Unknown sizes fall back to A4.
func (p PaperSize) Dimensions() (widthMM, heightMM float64) {
	switch p {
	case PaperF4:
		return 215, 330
	case PaperLegal:
		return 215.9, 355.6
	case PaperLetter:
		return 215.9, 279.4
	default:
		return 210, 297
	}
}

// Mode selects which projection of the exam is rendered.
type Mode string

const (
	ModeQuestions Mode = "questions"
	ModeAnswerKey Mode = "answer_key"
)

// Margins are page margins in millimeters.
type Margins struct {
	Top    float64 `json:"top" validate:"gte=0,lte=100"`
	Right  float64 `json:"right" validate:"gte=0,lte=100"`
	Bottom float64 `json:"bottom" validate:"gte=0,lte=100"`
	Left   float64 `json:"left" validate:"gte=0,lte=100"`
}

// Logo is encoded image data shown in the kop header.
type Logo struct {
	Data        []byte `json:"data"`
	ContentType string `json:"content_type"`
}

// Labels overrides the localized fixed strings of the rendered documents.
// Empty fields keep the per-direction defaults.
type Labels struct {
	True        string `json:"true,omitempty"`
	False       string `json:"false,omitempty"`
	NoAnswer    string `json:"no_answer,omitempty"`
	Name        string `json:"name,omitempty"`
	Subject     string `json:"subject,omitempty"`
	Class       string `json:"class,omitempty"`
	Date        string `json:"date,omitempty"`
	Duration    string `json:"duration,omitempty"`
	Score       string `json:"score,omitempty"`
	AnswerKey   string `json:"answer_key,omitempty"`
	Row         string `json:"row,omitempty"`
	Unsupported string `json:"unsupported,omitempty"`
}

// RenderConfig is the paper/typography/branding configuration supplied per render call.
type RenderConfig struct {
	PaperSize   PaperSize `json:"paper_size" validate:"omitempty,paper_size"`
	Margins     Margins   `json:"margins"`
	LineSpacing float64   `json:"line_spacing" validate:"omitempty,gte=0.5,lte=4"`
	FontFamily  string    `json:"font_family" validate:"max=80"`
	FontSize    float64   `json:"font_size" validate:"omitempty,gte=6,lte=72"`
	LeftLogo    *Logo     `json:"left_logo,omitempty"`
	RightLogo   *Logo     `json:"right_logo,omitempty"`
	HeaderLines []string  `json:"header_lines,omitempty" validate:"max=6"`
	Locale      string    `json:"locale,omitempty" validate:"omitempty,oneof=en id"`
	Labels      Labels    `json:"labels"`
}

// DefaultRenderConfig returns the configuration used when a caller supplies none.
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		PaperSize:   PaperA4,
		Margins:     Margins{Top: 20, Right: 20, Bottom: 20, Left: 20},
		LineSpacing: 1.15,
		FontFamily:  "Times New Roman",
		FontSize:    12,
		Locale:      "en",
	}
}

// WithDefaults fills zero-valued fields from DefaultRenderConfig.
func (c RenderConfig) WithDefaults() RenderConfig {
	def := DefaultRenderConfig()
	if c.PaperSize == "" {
		c.PaperSize = def.PaperSize
	}
	if c.Margins == (Margins{}) {
		c.Margins = def.Margins
	}
	if c.LineSpacing <= 0 {
		c.LineSpacing = def.LineSpacing
	}
	if c.FontFamily == "" {
		c.FontFamily = def.FontFamily
	}
	if c.FontSize <= 0 {
		c.FontSize = def.FontSize
	}
	if c.Locale == "" {
		c.Locale = def.Locale
	}
	return c
}
