// Package rename moves a processed document onto its synthesized name without
// ever replacing an existing file. Uniquify-then-rename is a check-then-act
// sequence, so the two are serialized per directory and the final claim on
// the target name uses an exclusive create rather than a bare existence check.
package rename

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/hiraoka-dev/millsheet-renamer/internal/common"
	"github.com/hiraoka-dev/millsheet-renamer/internal/millsheet"
)

// Renamer renames documents in place: the new name lands in the same
// directory as the source. Safe for concurrent use.
type Renamer struct {
	logger *slog.Logger

	mu   sync.Mutex
	dirs map[string]*sync.Mutex
}

func New(logger *slog.Logger) *Renamer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renamer{logger: logger, dirs: make(map[string]*sync.Mutex)}
}

// Rename gives src the candidate filename, resolving collisions with a
// numeric suffix, and returns the final path. If the target springs into
// existence between the uniqueness check and the rename (another process,
// another machine on the same share), the rename fails with
// common.ErrRenameConflict and src is left untouched.
func (r *Renamer) Rename(src, candidate string) (string, error) {
	dir := filepath.Dir(src)

	// Already carrying the candidate name: nothing to do. This makes
	// reprocessing a previously renamed document a no-op instead of
	// stacking a numeric suffix onto it.
	if filepath.Base(src) == candidate {
		r.logger.Debug("rename.noop", "path", src)
		return src, nil
	}

	lock := r.dirLock(dir)
	lock.Lock()
	defer lock.Unlock()

	name := millsheet.UniqueName(dir, candidate)
	dst := filepath.Join(dir, name)

	if err := claimAndRename(src, dst); err != nil {
		return "", err
	}

	r.logger.Debug("rename.ok", "from", filepath.Base(src), "to", name, "dir", dir)
	return dst, nil
}

func (r *Renamer) dirLock(dir string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	lock, ok := r.dirs[dir]
	if !ok {
		lock = &sync.Mutex{}
		r.dirs[dir] = lock
	}
	return lock
}

// claimAndRename claims dst with an exclusive create, then renames src over
// the placeholder it owns. Any concurrent claimant loses at the create, not
// by silently overwriting.
func claimAndRename(src, dst string) error {
	f, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return common.NewAppError("RENAME_CONFLICT",
				fmt.Sprintf("target %q appeared before rename", filepath.Base(dst)), common.ErrRenameConflict)
		}
		return fmt.Errorf("claim target: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("claim target: %w", err)
	}

	if err := os.Rename(src, dst); err != nil {
		// the placeholder is ours to remove; the source is intact
		_ = os.Remove(dst)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
