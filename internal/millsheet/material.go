package millsheet

import (
	"regexp"
	"strings"
)

// Steel-grade patterns, most specific families first. The final pattern is a
// catch-all for other JIS S-codes, so list order is the precedence contract.
var materialPatterns = []*regexp.Regexp{
	// structural steel: SS400 etc.
	regexp.MustCompile(`(?i)\b(SS\s*[234]\d{2})\b`),
	// hot/cold rolled sheet: SPHC, SPCC, ...
	regexp.MustCompile(`(?i)\b(SPH[CDE]|SPC[CDE])\b`),
	// electrogalvanized: SECC, SECD
	regexp.MustCompile(`(?i)\b(SEC[CD])\b`),
	// hot-dip galvanized: SGCC, SGHC
	regexp.MustCompile(`(?i)\b(SG[CH]C)\b`),
	// machine-structural carbon steel: S45C etc.
	regexp.MustCompile(`(?i)\b(S\d{2}C)\b`),
	// chrome-molybdenum: SCM435 etc.
	regexp.MustCompile(`(?i)\b(SCM\d{3})\b`),
	// stainless: SUS304, SUS 316L
	regexp.MustCompile(`(?i)\b(SUS\s*\d{3}[A-Z]?)\b`),
	// carbon tool steel: SK85 etc.
	regexp.MustCompile(`(?i)\b(SK\d{1,2})\b`),
	// weld-structural: SM490A etc.
	regexp.MustCompile(`(?i)\b(SM\d{3}[A-C]?)\b`),
	// carbon steel tube: STK400 etc.
	regexp.MustCompile(`(?i)\b(STK\d{3})\b`),
	// square steel tube: STKR400 etc.
	regexp.MustCompile(`(?i)\b(STKR\d{3})\b`),
	// catch-all S-code
	regexp.MustCompile(`(?i)\b(S[A-Z]{1,3}\d{2,3}[A-Z]?)\b`),
}

func extractMaterial(text string) string {
	for _, re := range materialPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		return strings.ReplaceAll(strings.ToUpper(m[1]), " ", "")
	}
	return ""
}
