package render

import (
	"strconv"

	"github.com/SAP-F-2025/exam-document-service/internal/models"
	"github.com/SAP-F-2025/exam-document-service/internal/numbering"
)

// NumberedQuestion is a question in document order with its printed number.
type NumberedQuestion struct {
	Section  int
	Index    int
	Question models.Question
	// Label is empty for stimulus blocks, which are never numbered.
	Label string
}

// QuestionLabel is the printed number of a question: its display number when assigned,
// otherwise its running position, with digits localized to the direction.
func QuestionLabel(q models.Question, seq int, dir models.Direction) string {
	if q.Type() == models.TypeStimulus {
		return ""
	}
	if n := q.Number(); n != "" {
		return numbering.LocalizeDigits(n, dir)
	}
	return numbering.OrdinalNumeral(seq, dir)
}

// SectionQuestions numbers the questions of one section, continuing from seq
// (the count of numbered questions before it). It returns the new count.
func SectionQuestions(exam *models.Exam, section, seq int) ([]NumberedQuestion, int) {
	dir := exam.TextDirection()
	questions := exam.Sections[section].Questions
	out := make([]NumberedQuestion, 0, len(questions))
	for i, q := range questions {
		if q.Type() != models.TypeStimulus {
			seq++
		}
		out = append(out, NumberedQuestion{Section: section, Index: i, Question: q, Label: QuestionLabel(q, seq, dir)})
	}
	return out, seq
}

// SectionHeading is the instruction line of a section with its enumerator.
func SectionHeading(exam *models.Exam, section int) (enumerator, instruction string) {
	return numbering.SectionEnumerator(section, exam.TextDirection()), exam.Sections[section].Instruction
}

// FormatNumber prints a length or size with the shortest exact decimal form.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
