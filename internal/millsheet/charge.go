package millsheet

import (
	"regexp"
	"strings"
)

// Charge/melt numbers: a labeled pattern first, then two generic shapes that
// show up unlabeled in certificate tables.
var (
	reChargeLabeled = regexp.MustCompile(`(?i)(?:溶[鋼銅]番号|CHARGE\s*N[oO]\.?|鋼番)\s*[:\s]*([A-Z0-9]{4,12})`)

	chargeGenericPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b([A-Z]{1,2}\d{4,8})\b`),
		regexp.MustCompile(`\b(\d{1,2}[A-Z]\d{4,6})\b`),
	}
)

func extractChargeNo(text string) string {
	if m := reChargeLabeled.FindStringSubmatch(text); m != nil {
		candidate := strings.ToUpper(m[1])
		if validChargeNo(candidate) {
			return candidate
		}
		// A labeled candidate that fails validation is final: the label names
		// the charge number, so the generic shapes must not override it.
		return ""
	}

	for _, re := range chargeGenericPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			candidate := strings.ToUpper(m[1])
			if validChargeNo(candidate) {
				return candidate
			}
		}
	}
	return ""
}

// validChargeNo accepts 4-12 uppercase ASCII alphanumerics.
func validChargeNo(s string) bool {
	if len(s) < 4 || len(s) > 12 {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}
