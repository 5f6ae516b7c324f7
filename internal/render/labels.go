// Package render holds what the document projections share: fixed labels, question
// numbering, answer-key resolution and output descriptors. The projections themselves
// live in the markup, office and sheet subpackages.
package render

import (
	"github.com/SAP-F-2025/exam-document-service/internal/models"
)

// NoAnswerLTR and NoAnswerRTL are the default markers printed for an unresolved key.
const (
	NoAnswerLTR = "(no answer)"
	NoAnswerRTL = "(لا إجابة)"
)

var defaultLabels = map[models.Direction]models.Labels{
	models.DirectionLTR: {
		True:        "True",
		False:       "False",
		NoAnswer:    NoAnswerLTR,
		Name:        "Name",
		Subject:     "Subject",
		Class:       "Class",
		Date:        "Date",
		Duration:    "Duration",
		Score:       "Score",
		AnswerKey:   "Answer Key",
		Row:         "Row",
		Unsupported: "Unsupported question type",
	},
	models.DirectionRTL: {
		True:        "صح",
		False:       "خطأ",
		NoAnswer:    NoAnswerRTL,
		Name:        "الاسم",
		Subject:     "المادة",
		Class:       "الصف",
		Date:        "التاريخ",
		Duration:    "المدة",
		Score:       "الدرجة",
		AnswerKey:   "مفتاح الإجابة",
		Row:         "صف",
		Unsupported: "نوع سؤال غير مدعوم",
	},
}

// ResolveLabels returns the direction defaults overlaid with the non-empty overrides.
func ResolveLabels(overrides models.Labels, dir models.Direction) models.Labels {
	out := defaultLabels[models.DirectionLTR]
	if dir.IsRTL() {
		out = defaultLabels[models.DirectionRTL]
	}
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&out.True, overrides.True)
	set(&out.False, overrides.False)
	set(&out.NoAnswer, overrides.NoAnswer)
	set(&out.Name, overrides.Name)
	set(&out.Subject, overrides.Subject)
	set(&out.Class, overrides.Class)
	set(&out.Date, overrides.Date)
	set(&out.Duration, overrides.Duration)
	set(&out.Score, overrides.Score)
	set(&out.AnswerKey, overrides.AnswerKey)
	set(&out.Row, overrides.Row)
	set(&out.Unsupported, overrides.Unsupported)
	return out
}
