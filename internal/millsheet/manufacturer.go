package millsheet

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Maker maps a canonical manufacturer display name to the textual variants a
// certificate may carry for it: alternate kanji forms, mill suffixes,
// romanized spellings.
type Maker struct {
	Name     string   `json:"name"`
	Variants []string `json:"variants"`
}

// DefaultMakers returns the built-in priority table. Table order is match
// priority: the first maker with any variant found in the text wins.
func DefaultMakers() []Maker {
	return []Maker{
		{Name: "東京製鉄", Variants: []string{"東京製鉄", "東京製鐵", "東京製鉄所", "東京製鐵所", "TOKYO STEEL", "TOKYOSTEEL"}},
		{Name: "中山製鋼", Variants: []string{"中山製鋼", "中山製鉄", "中山製鋼所", "中山製鉄所", "NAKAYAMA STEEL", "NAKAYAMA"}},
		{Name: "神戸製鋼", Variants: []string{"神戸製鋼", "神戸製鉄", "神戸製鋼所", "神戸製鉄所", "KOBE STEEL", "KOBELCO"}},
	}
}

// Fallbacks for mills outside the priority table: a run ending in a
// steelworks suffix, a run ending in a corporate marker, or an explicit
// maker label.
var makerGenericPatterns = []*regexp.Regexp{
	regexp.MustCompile(`([^\s\n]{2,15}(?:製鉄|製鋼|製鐵))`),
	regexp.MustCompile(`([^\s\n]{2,15}(?:株式会社|㈱))`),
	regexp.MustCompile(`(?:製造者|メーカー)[：:]\s*([^\n]+)`),
}

func extractManufacturer(text string, makers []Maker) string {
	upper := strings.ToUpper(text)
	for _, mk := range makers {
		for _, variant := range mk.Variants {
			if strings.Contains(upper, strings.ToUpper(variant)) {
				return mk.Name
			}
		}
	}

	for _, re := range makerGenericPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		if n := utf8.RuneCountInString(name); n >= 2 && n <= 20 {
			return name
		}
	}
	return ""
}
