package render

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/SAP-F-2025/exam-document-service/internal/models"
)

// Format is the file type of a rendered document.
type Format string

const (
	FormatHTML Format = "html"
	FormatDOCX Format = "docx"
	FormatXLSX Format = "xlsx"
)

// IsValid reports whether f is a supported output format.
func (f Format) IsValid() bool {
	switch f {
	case FormatHTML, FormatDOCX, FormatXLSX:
		return true
	}
	return false
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/octet-stream"
}

// Output is a rendered document ready to be served or stored.
type Output struct {
	ContentType string `json:"content_type"`
	FileName    string `json:"file_name"`
	Data        []byte `json:"-"`
}

// NewOutput wraps rendered bytes with the content type and file name of the format.
func NewOutput(exam *models.Exam, mode models.Mode, format Format, data []byte) Output {
	return Output{ContentType: format.ContentType(), FileName: FileName(exam, mode, format), Data: data}
}

// FileName derives a download name from the exam title, e.g. "midterm-exam-answer-key.docx".
func FileName(exam *models.Exam, mode models.Mode, format Format) string {
	base := slug(exam.Title)
	if base == "" {
		base = "exam"
	}
	if mode == models.ModeAnswerKey {
		base += "-answer-key"
	}
	return fmt.Sprintf("%s.%s", base, format)
}

func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
