package templates

import (
	"math"
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/csg33k/vessel-reports/internal/domain"
)

var idr = message.NewPrinter(language.Indonesian)

// rupiah renders an amount as "Rp 1.500.000".
func rupiah(v float64) string {
	if v == math.Trunc(v) {
		return idr.Sprintf("Rp %.0f", v)
	}
	return idr.Sprintf("Rp %.2f", v)
}

// seq turns a 0-based index into the 1-based row number shown to users.
func seq(i int) string {
	return strconv.Itoa(i + 1)
}

func storedDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(domain.StoredDate)
}

func longDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(domain.LongDate)
}
