package millsheet

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// maxFilenameRunes caps a sanitized part; counted in code points so kanji
// names are not cut mid-rune.
const maxFilenameRunes = 50

var (
	newlineToSpace = strings.NewReplacer("\r", " ", "\n", " ")
	// \p{Zs} covers the ideographic and no-break spaces raw OCR values carry
	reWhitespaceRun = regexp.MustCompile(`[\s\p{Zs}]+`)
	reUnderscoreRun = regexp.MustCompile(`_+`)
)

// Sanitize makes s safe for use as a filename component: line breaks become
// spaces, filesystem-reserved characters become underscores, whitespace and
// underscore runs collapse to a single underscore, leading/trailing
// underscores are trimmed, and the result is capped at 50 code points.
// Sanitize is idempotent.
func Sanitize(s string) string {
	s = newlineToSpace.Replace(s)
	s = strings.Map(func(r rune) rune {
		switch r {
		case '\\', '/', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, s)
	s = reWhitespaceRun.ReplaceAllString(s, "_")
	s = reUnderscoreRun.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if runes := []rune(s); len(runes) > maxFilenameRunes {
		// truncation can expose a trailing underscore, trim again
		s = strings.Trim(string(runes[:maxFilenameRunes]), "_")
	}
	return s
}

// BuildFilename synthesizes the canonical name for rec: the present fields in
// the order date, material, dimensions, manufacturer, charge number, each
// sanitized, joined by underscores, with a .pdf extension. When every field
// is absent the original stem is kept with a _renamed marker.
func BuildFilename(rec Record, originalName string) string {
	parts := make([]string, 0, 5)
	for _, field := range []string{rec.Date, rec.Material, rec.Dimensions, rec.Manufacturer, rec.ChargeNo} {
		if field == "" {
			continue
		}
		if s := Sanitize(field); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		base := filepath.Base(originalName)
		stem := strings.TrimSuffix(base, filepath.Ext(base))
		return Sanitize(stem) + "_renamed.pdf"
	}
	return strings.Join(parts, "_") + ".pdf"
}

// UniqueName resolves filename against the contents of dir: if the name is
// taken, a _1, _2, ... counter goes before the extension until a free name is
// found. The check is advisory only; the rename that follows must still
// refuse to replace an existing file (see the rename package).
func UniqueName(dir, filename string) string {
	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)

	name := filename
	for counter := 1; ; counter++ {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			return name
		}
		name = fmt.Sprintf("%s_%d%s", stem, counter, ext)
	}
}
