// Package ingest discovers candidate documents: a one-shot recursive scan
// for the batch CLI and an fsnotify watcher for the daemon. Discovery only
// finds paths; deciding what to do with them is the caller's job.
package ingest

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/hiraoka-dev/millsheet-renamer/constants"
)

// DirStats summarizes one directory scan.
type DirStats struct {
	Scanned uint32 // entries visited
	Matched uint32 // PDFs collected
	Skipped uint32 // hidden or non-PDF entries
	Failed  uint32 // entries the walk could not read
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".")
}

// ScanDirectory walks root and returns the absolute paths of every PDF
// under it, skipping hidden files and directories. Unreadable entries are
// counted in stats and skipped; only a broken root fails the scan.
func ScanDirectory(root string) ([]string, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root path is required")
	}

	var paths []string
	var stats DirStats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			stats.Failed++
			return nil
		}
		stats.Scanned++
		if IsHidden(path) && path != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			stats.Skipped++
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !constants.IsPDF(path) {
			stats.Skipped++
			return nil
		}

		abs, absErr := filepath.Abs(path)
		if absErr != nil {
			stats.Failed++
			return nil
		}
		paths = append(paths, abs)
		stats.Matched++
		return nil
	})
	if err != nil {
		return nil, stats, err
	}
	return paths, stats, nil
}
