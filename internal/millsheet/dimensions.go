package millsheet

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Dimension extraction looks for thickness x width x length triples (or
// thickness x width pairs) across the notations OCR produces for one and the
// same ruling: split decimals, comma widths, coil markers, kanji labels.
// Patterns are ordered from the most OCR-specific shape to the most general;
// each pattern may match several times and every match is validated
// independently, so the driver is first VALID match wins, not first match.
//
// Word boundaries here are ASCII: the coil alternatives carry their own
// per-token boundary so a kana token does not need one.

// reDimSection narrows the search to the line(s) following a DIMENSIONS/寸法
// label; the whole text is the fallback search space.
var reDimSection = regexp.MustCompile(`(?i)(?:DIMENSIONS?|寸法)[^\n]*\n?([^\n]+)`)

// dimPattern ties a matcher to the arity of its capture groups, which decides
// how the groups reassemble into thickness/width/length.
type dimPattern struct {
	re     *regexp.Regexp
	groups int
}

var dimPatterns = []dimPattern{
	// "22. 00X1, 540XCOIL": thickness and width each split by OCR spacing
	{regexp.MustCompile(`(?i)(\d{1,2})\.\s*(\d{2})\s*[xX×]\s*(\d)[,.]?\s*(\d{3})\s*[xX×]\s*(COIL\b|コイル|C\b)`), 5},
	// "22.00X1.540XCOIL": thousands separator read as a decimal point
	{regexp.MustCompile(`(?i)(\d{1,2}\.?\d{0,2})[xX×](\d\.\d{3})[xX×](COIL\b|コイル|C\b)`), 3},
	// "1.60X1,535XCOIL": comma width
	{regexp.MustCompile(`(?i)(\d+\.?\d*)\s*[xX×]\s*(\d{1,2},\d{3})\s*[xX×]\s*(COIL\b|コイル|C\b)`), 3},
	// "1.6x1535xCOIL": the standard coil form
	{regexp.MustCompile(`(?i)(\d+\.?\d*)\s*[xX×]\s*(\d{3,4})\s*[xX×]\s*(COIL\b|コイル|C\b)`), 3},
	// "1.6X1219X2438": numeric length
	{regexp.MustCompile(`(?i)(\d+\.?\d*)\s*[xX×]\s*(\d{3,4})\s*[xX×]\s*(\d{3,4})`), 3},
	// "t1.6 x 1219 x COIL"
	{regexp.MustCompile(`(?i)t\s*(\d+\.?\d*)\s*[xX×]\s*(\d+\.?\d*)\s*[xX×]\s*(COIL|コイル|C|\d+\.?\d*)`), 3},
	// "板厚1.6 幅1219"
	{regexp.MustCompile(`(?i)板厚\s*(\d+\.?\d*)\s*.*?幅\s*(\d+\.?\d*)`), 2},
	// "1.6t x 1219W"
	{regexp.MustCompile(`(?i)(\d+\.?\d*)\s*[tT]\s*[xX×]\s*(\d+\.?\d*)\s*[wW]?`), 2},
}

// Looser thickness-only patterns, used when no full form validates.
var thicknessOnlyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:寸法|Size)[\s\S]{0,100}?(\d{1,2}\.\d{1,2})\s*[xX×]`),
	regexp.MustCompile(`(?i)(\d{1,2}\.\d{2})\s*[xX×]\s*\d`),
}

// A 1-2 digit integer part with exactly three decimals is a mangled
// thousands separator, not a real decimal width.
var reWidthSplitDecimal = regexp.MustCompile(`^\d{1,2}\.\d{3}$`)

func extractDimensions(text string) string {
	if section := reDimSection.FindString(text); section != "" {
		if dims := tryDimensions(section); dims != "" {
			return dims
		}
	}
	if dims := tryDimensions(text); dims != "" {
		return dims
	}
	return extractThicknessOnly(text)
}

func tryDimensions(text string) string {
	for _, p := range dimPatterns {
		for _, m := range p.re.FindAllStringSubmatch(text, -1) {
			if dims := assembleDimensions(m, p.groups); dims != "" {
				return dims
			}
		}
	}
	return ""
}

func assembleDimensions(m []string, groups int) string {
	switch groups {
	case 5:
		thickness := m[1] + "." + m[2]
		width := m[3] + m[4]
		length := m[5]
		if validDimensions(thickness, width, length, true) {
			return formatThickness(thickness) + "x" + width + "x" + normalizeLength(length)
		}
	case 3:
		thickness := m[1]
		width := processWidth(m[2])
		length := m[3]
		if validDimensions(thickness, width, length, true) {
			return formatThickness(thickness) + "x" + width + "x" + normalizeLength(length)
		}
	case 2:
		thickness := m[1]
		width := processWidth(m[2])
		if validDimensions(thickness, width, "", false) {
			return formatThickness(thickness) + "x" + width
		}
	}
	return ""
}

func extractThicknessOnly(text string) string {
	for _, re := range thicknessOnlyPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if t, err := strconv.ParseFloat(m[1], 64); err == nil && t >= 0.1 && t <= 100.0 {
			return formatThickness(m[1])
		}
	}
	return ""
}

// processWidth strips thousands separators and repairs the split-decimal OCR
// failure: "1.540" means 1540, not one-and-a-half.
func processWidth(raw string) string {
	width := strings.ReplaceAll(raw, ",", "")
	if reWidthSplitDecimal.MatchString(width) {
		width = strings.ReplaceAll(width, ".", "")
	}
	return width
}

// validDimensions checks physical plausibility: thickness 0.1-100mm, width
// 100-5000mm and wider than thick, numeric length at least 100mm. Coil
// tokens stand in for any length.
func validDimensions(thickness, width, length string, hasLength bool) bool {
	t, err := strconv.ParseFloat(strings.ReplaceAll(thickness, ",", ""), 64)
	if err != nil {
		return false
	}
	w, err := strconv.ParseFloat(strings.ReplaceAll(width, ",", ""), 64)
	if err != nil {
		return false
	}
	if t < 0.1 || t > 100.0 {
		return false
	}
	if w < 100.0 || w > 5000.0 {
		return false
	}
	if w <= t {
		return false
	}
	if hasLength && !isCoilToken(length) {
		if l, err := strconv.ParseFloat(strings.ReplaceAll(length, ",", ""), 64); err == nil && l < 100.0 {
			return false
		}
	}
	return true
}

func isCoilToken(s string) bool {
	switch strings.ToUpper(s) {
	case "COIL", "コイル", "C":
		return true
	}
	return false
}

// formatThickness prints whole values as integers ("22.00" -> "22") and
// everything else to at most two decimals with trailing zeros dropped.
func formatThickness(s string) string {
	t, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	if t == math.Trunc(t) {
		return strconv.Itoa(int(t))
	}
	formatted := strconv.FormatFloat(t, 'f', 2, 64)
	formatted = strings.TrimRight(formatted, "0")
	return strings.TrimRight(formatted, ".")
}

// normalizeLength folds the spelled-out coil markers to "C"; every other
// length token passes through as captured.
func normalizeLength(s string) string {
	if strings.ToUpper(s) == "COIL" || s == "コイル" {
		return "C"
	}
	return s
}
