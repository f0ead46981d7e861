package millsheet

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Issue-date extraction runs three strategies in strict priority order:
// a date next to an issue-date label, a western month-name date, then the
// Japanese/numeric notations. First hit wins. The output is always
// YY-MM-DD. There is deliberately no calendar-validity check: month 13 or
// day 32 pass through, a known tolerance of the heuristic.

// Labels with a bounded lookahead window to the numeric date they announce.
var dateLabelPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)発行日[\s\S]{0,50}?(\d{4}[./]\d{1,2}[./]\d{1,2})`),
	regexp.MustCompile(`(?i)Date\s*of\s*Issue[\s\S]{0,30}?(\d{4}[./]\d{1,2}[./]\d{1,2})`),
	regexp.MustCompile(`(?i)発行年月日[\s\S]{0,30}?(\d{4}[./]\d{1,2}[./]\d{1,2})`),
}

var monthsByName = map[string]int{
	"JAN": 1, "JANUARY": 1,
	"FEB": 2, "FEBRUARY": 2,
	"MAR": 3, "MARCH": 3,
	"APR": 4, "APRIL": 4,
	"MAY": 5,
	"JUN": 6, "JUNE": 6,
	"JUL": 7, "JULY": 7,
	"AUG": 8, "AUGUST": 8,
	"SEP": 9, "SEPTEMBER": 9,
	"OCT": 10, "OCTOBER": 10,
	"NOV": 11, "NOVEMBER": 11,
	"DEC": 12, "DECEMBER": 12,
}

// Month-name dates in the three orderings seen on certificates,
// e.g. "AUG.04.2025", "04-AUG-2025", "2025/AUG/04".
var englishDatePatterns = []struct {
	re    *regexp.Regexp
	order string
}{
	{regexp.MustCompile(`(?i)([A-Z]{3,9})\s*[.\-/,]\s*(\d{1,2})\s*[.\-/,]\s*(\d{4})`), "mdy"},
	{regexp.MustCompile(`(?i)(\d{1,2})\s*[.\-/,]\s*([A-Z]{3,9})\s*[.\-/,]\s*(\d{4})`), "dmy"},
	{regexp.MustCompile(`(?i)(\d{4})\s*[.\-/,]\s*([A-Z]{3,9})\s*[.\-/,]\s*(\d{1,2})`), "ymd"},
}

// Numeric and era notations, most common first. Era years convert by fixed
// offset: Reiwa N = 2018+N, Heisei N = 1988+N.
var numericDatePatterns = []struct {
	re  *regexp.Regexp
	era string
}{
	{regexp.MustCompile(`(?i)(\d{4})年(\d{1,2})月(\d{1,2})日`), ""},
	{regexp.MustCompile(`(?i)(\d{4})/(\d{1,2})/(\d{1,2})`), ""},
	{regexp.MustCompile(`(?i)(\d{4})-(\d{1,2})-(\d{1,2})`), ""},
	{regexp.MustCompile(`(?i)(\d{4})\.(\d{1,2})\.(\d{1,2})`), ""},
	{regexp.MustCompile(`(?i)令和(\d{1,2})年(\d{1,2})月(\d{1,2})日`), "reiwa"},
	{regexp.MustCompile(`(?i)R(\d{1,2})\.(\d{1,2})\.(\d{1,2})`), "reiwa"},
	{regexp.MustCompile(`(?i)平成(\d{1,2})年(\d{1,2})月(\d{1,2})日`), "heisei"},
}

var reNumericDate = regexp.MustCompile(`(\d{4})[./\-](\d{1,2})[./\-](\d{1,2})`)

func extractDate(text string) string {
	if d := extractLabeledDate(text); d != "" {
		return d
	}
	if d := extractEnglishDate(text); d != "" {
		return d
	}
	return extractNumericDate(text)
}

func extractLabeledDate(text string) string {
	for _, re := range dateLabelPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if d := parseNumericDate(m[1]); d != "" {
			return d
		}
	}
	return ""
}

func extractEnglishDate(text string) string {
	for _, p := range englishDatePatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		var monthTok, dayTok, yearTok string
		switch p.order {
		case "mdy":
			monthTok, dayTok, yearTok = m[1], m[2], m[3]
		case "dmy":
			dayTok, monthTok, yearTok = m[1], m[2], m[3]
		case "ymd":
			yearTok, monthTok, dayTok = m[1], m[2], m[3]
		}
		month, ok := monthsByName[strings.ToUpper(monthTok)]
		if !ok {
			// the month token decides the whole strategy: a matched shape
			// with an unknown month name is not retried as another ordering
			return ""
		}
		day, _ := strconv.Atoi(dayTok)
		year, _ := strconv.Atoi(yearTok)
		return formatDate(year, month, day)
	}
	return ""
}

func extractNumericDate(text string) string {
	for _, p := range numericDatePatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		first, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])

		year := first
		switch p.era {
		case "reiwa":
			year = 2018 + first
		case "heisei":
			year = 1988 + first
		}
		return formatDate(year, month, day)
	}
	return ""
}

func parseNumericDate(s string) string {
	m := reNumericDate.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	return formatDate(year, month, day)
}

func formatDate(year, month, day int) string {
	return fmt.Sprintf("%02d-%02d-%02d", year%100, month, day)
}
