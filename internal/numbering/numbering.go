// Package numbering maps integers to the numeral and letter systems used by the
// renderers: Latin digits and letters under ltr, Arabic-Indic digits and Arabic
// letters under rtl, and Roman numerals for section enumerators.
package numbering

import (
	"strconv"
	"strings"

	"github.com/SAP-F-2025/exam-document-service/internal/models"
)

// arabicLetters is the abjadi ordering used for lettered options in Arabic exams.
var arabicLetters = [28]string{
	"أ", "ب", "ج", "د", "ه", "و", "ز", "ح", "ط", "ي", "ك", "ل", "م", "ن",
	"س", "ع", "ف", "ص", "ق", "ر", "ش", "ت", "ث", "خ", "ذ", "ض", "ظ", "غ",
}

var romanTable = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

// OrdinalNumeral renders n with Latin digits under ltr and Arabic-Indic digits under rtl.
func OrdinalNumeral(n int, dir models.Direction) string {
	return LocalizeDigits(strconv.Itoa(n), dir)
}

// LocalizeDigits substitutes ASCII digits with Arabic-Indic digits under rtl.
// Other characters are kept, so externally assigned numbers like "12a" survive.
func LocalizeDigits(s string, dir models.Direction) string {
	if !dir.IsRTL() {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) * 2)
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune('٠' + (r - '0'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ChoiceLetter returns the letter of the option at index. Under ltr it is 'a'+index,
// continuing past 'z' as "aa", "ab", ...; under rtl it comes from the 28-entry
// Arabic table and falls back to the Latin form beyond it. Negative indices yield "".
func ChoiceLetter(index int, dir models.Direction) string {
	if index < 0 {
		return ""
	}
	if dir.IsRTL() && index < len(arabicLetters) {
		return arabicLetters[index]
	}
	return latinLetter(index)
}

func latinLetter(index int) string {
	var buf []byte
	for n := index + 1; n > 0; n = (n - 1) / 26 {
		buf = append(buf, byte('a'+(n-1)%26))
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}

// Roman encodes n as a subtractive Roman numeral. Non-positive values yield "".
func Roman(n int) string {
	if n <= 0 {
		return ""
	}
	var b strings.Builder
	for _, entry := range romanTable {
		for n >= entry.value {
			b.WriteString(entry.symbol)
			n -= entry.value
		}
	}
	return b.String()
}

// SectionEnumerator returns the leading token of the section at zero-based index:
// "I.", "II.", ... under ltr and nothing under rtl.
func SectionEnumerator(index int, dir models.Direction) string {
	if dir.IsRTL() {
		return ""
	}
	return Roman(index+1) + "."
}
