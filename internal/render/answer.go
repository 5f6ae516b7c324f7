package render

import (
	"strings"

	"github.com/SAP-F-2025/exam-document-service/internal/models"
	"github.com/SAP-F-2025/exam-document-service/internal/numbering"
	"github.com/SAP-F-2025/exam-document-service/internal/richtext"
)

// AnswerItem is one printable line of a resolved key: "<prefix> <letter>. <text>".
// Any part may be empty.
type AnswerItem struct {
	Prefix string
	Letter string
	// Text is parsed once here and printed as is by every projection.
	Text richtext.Fragment
}

// Lead is the plain part of the item printed before its rich text.
func (a AnswerItem) Lead() string {
	var parts []string
	if a.Prefix != "" {
		parts = append(parts, a.Prefix)
	}
	if a.Letter != "" {
		if !a.Text.IsEmpty() {
			parts = append(parts, a.Letter+".")
		} else {
			parts = append(parts, a.Letter)
		}
	}
	return strings.Join(parts, " ")
}

// Answer is the human-readable form of a question's key.
type Answer struct {
	// Omitted marks questions without a key concept; they are left out of answer keys.
	Omitted bool
	// Empty marks an unset or dangling key; projections print the no-answer marker.
	Empty bool
	Items []AnswerItem
	// Grid is set for plain table questions, whose answer is the grid itself.
	Grid *models.TableGrid
}

// ResolveAnswer resolves the stored key of q against the same choice ordering the
// question body is printed with.
func ResolveAnswer(q models.Question, labels models.Labels, dir models.Direction) Answer {
	var items []AnswerItem

	switch v := q.(type) {
	case *models.MultipleChoice:
		if idx := v.IndexOf(v.Answer); idx >= 0 {
			items = append(items, AnswerItem{Letter: numbering.ChoiceLetter(idx, dir), Text: richtext.Parse(v.Choices[idx].Text)})
		}

	case *models.ComplexMultipleChoice:
		chosen := stringSet(v.Answers)
		for idx, choice := range v.Choices {
			if chosen[choice.ID] {
				items = append(items, AnswerItem{Letter: numbering.ChoiceLetter(idx, dir), Text: richtext.Parse(choice.Text)})
			}
		}

	case *models.TrueFalse:
		switch v.Answer {
		case "true":
			items = append(items, AnswerItem{Text: richtext.Plain(labels.True)})
		case "false":
			items = append(items, AnswerItem{Text: richtext.Plain(labels.False)})
		}

	case *models.ShortAnswer:
		if text := richtext.Parse(v.ModelAnswer); !text.IsEmpty() {
			items = append(items, AnswerItem{Text: text})
		}

	case *models.Essay:
		if text := richtext.Parse(v.ModelAnswer); !text.IsEmpty() {
			items = append(items, AnswerItem{Text: text})
		}

	case *models.Matching:
		for pi, prompt := range v.Prompts {
			for _, pair := range v.Key {
				if pair.PromptID != prompt.ID {
					continue
				}
				ai := v.AnswerIndex(pair.AnswerID)
				if ai < 0 {
					continue
				}
				items = append(items, AnswerItem{
					Prefix: numbering.OrdinalNumeral(pi+1, dir) + " →",
					Letter: numbering.ChoiceLetter(ai, dir),
				})
			}
		}

	case *models.Table:
		if GridIsBlank(&v.Grid) {
			return Answer{Empty: true}
		}
		return Answer{Grid: &v.Grid}

	case *models.TableMultipleChoice:
		for ri, row := range v.Grid.Rows {
			idx := v.IndexOf(v.RowAnswers[row.ID])
			if idx < 0 {
				continue
			}
			items = append(items, AnswerItem{
				Prefix: rowPrefix(labels, ri, dir),
				Letter: numbering.ChoiceLetter(idx, dir),
				Text:   richtext.Parse(v.Choices[idx].Text),
			})
		}

	case *models.TableComplexMultipleChoice:
		for ri, row := range v.Grid.Rows {
			chosen := stringSet(v.RowAnswers[row.ID])
			var letters []string
			for idx, choice := range v.Choices {
				if chosen[choice.ID] {
					letters = append(letters, numbering.ChoiceLetter(idx, dir))
				}
			}
			if len(letters) > 0 {
				items = append(items, AnswerItem{Prefix: rowPrefix(labels, ri, dir), Letter: strings.Join(letters, ", ")})
			}
		}

	case *models.Stimulus:
		return Answer{Omitted: true}
	}

	if len(items) == 0 {
		return Answer{Empty: true}
	}
	return Answer{Items: items}
}

func rowPrefix(labels models.Labels, row int, dir models.Direction) string {
	return labels.Row + " " + numbering.OrdinalNumeral(row+1, dir) + ":"
}

// IsBlank reports whether a rich fragment has neither text nor images.
func IsBlank(fragment string) bool {
	if strings.TrimSpace(fragment) == "" {
		return true
	}
	return richtext.Parse(fragment).IsEmpty()
}

// GridIsBlank reports whether no rendered cell of the grid carries content.
func GridIsBlank(g *models.TableGrid) bool {
	for _, row := range g.Rows {
		for _, cell := range row.Cells {
			if !cell.Merged && !IsBlank(cell.Content) {
				return false
			}
		}
	}
	return true
}

func stringSet(values []string) map[string]bool {
	out := make(map[string]bool, len(values))
	for _, v := range values {
		out[v] = true
	}
	return out
}
