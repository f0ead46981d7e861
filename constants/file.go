package constants

import (
	"path/filepath"
	"strings"
)

// AllowedExtensions holds the default file extensions picked up when scanning
// or watching a directory for millsheets.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsPDF reports whether path carries a .pdf extension, case-insensitively.
func IsPDF(path string) bool {
	return NormalizeExt(filepath.Ext(path)) == "pdf"
}
