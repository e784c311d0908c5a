package domain

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Indonesian grouping: 1.250.000 or 1.250.000,50
var groupedAmount = regexp.MustCompile(`^-?\d{1,3}(\.\d{3})+(,\d+)?$`)

// ParseAmount interprets a cost as typed on the form. Plain numbers
// ("150000", "1250.5"), Indonesian grouping ("1.250.000,50") and an
// optional "Rp" prefix are accepted.
func ParseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, "Rp"); ok {
		s = strings.TrimSpace(strings.TrimPrefix(rest, "."))
	}
	if s == "" {
		return 0, false
	}
	if groupedAmount.MatchString(s) {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	} else if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
