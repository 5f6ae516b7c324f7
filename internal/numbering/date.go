package numbering

import (
	"fmt"
	"strings"
	"time"

	"github.com/SAP-F-2025/exam-document-service/internal/models"
)

var monthNames = map[string][12]string{
	"en": {"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"},
	"id": {"Januari", "Februari", "Maret", "April", "Mei", "Juni", "Juli", "Agustus", "September", "Oktober", "November", "Desember"},
	"ar": {"يناير", "فبراير", "مارس", "أبريل", "مايو", "يونيو", "يوليو", "أغسطس", "سبتمبر", "أكتوبر", "نوفمبر", "ديسمبر"},
}

// FormatDate formats an ISO date (YYYY-MM-DD) as "day month year" with month names of
// the locale under ltr and Arabic month names with Arabic-Indic digits under rtl.
// Input that does not parse is returned trimmed, with digits localized.
func FormatDate(value string, dir models.Direction, locale string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return LocalizeDigits(value, dir)
	}

	names, ok := monthNames[locale]
	if dir.IsRTL() {
		names = monthNames["ar"]
	} else if !ok {
		names = monthNames["en"]
	}
	formatted := fmt.Sprintf("%d %s %d", t.Day(), names[t.Month()-1], t.Year())
	return LocalizeDigits(formatted, dir)
}
