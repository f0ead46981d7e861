package ocr

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// stubRunner fakes pdftoppm: it records the invocation and drops a file next
// to the output prefix the way the real binary would.
type stubRunner struct {
	name     string
	args     []string
	suffix   string // "-1.png", "-01.png", or "" to produce nothing
	err      error
	stderr   string
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.name = name
	s.args = args
	if s.err != nil {
		return nil, []byte(s.stderr), s.err
	}
	if s.suffix != "" {
		prefix := args[len(args)-1]
		if err := os.WriteFile(prefix+s.suffix, []byte("png"), 0o644); err != nil {
			return nil, nil, err
		}
	}
	return nil, nil, nil
}

func TestRasterizerRenderFirstPage(t *testing.T) {
	t.Parallel()

	work := t.TempDir()
	runner := &stubRunner{suffix: "-1.png"}
	r := NewRasterizer(RasterConfig{DPI: 300, WorkDir: work}, nil).WithRunner(runner)

	res, err := r.RenderFirstPage(context.Background(), "/docs/cert.pdf")
	require.NoError(t, err)

	require.Equal(t, "pdftoppm", runner.name)
	require.Equal(t, []string{"-png", "-f", "1", "-l", "1", "-r", "300", "/docs/cert.pdf",
		filepath.Join(res.ArtifactDir, "page")}, runner.args)

	require.FileExists(t, res.ImagePath)
	require.Equal(t, res.ArtifactDir, filepath.Dir(res.ImagePath))
	require.Contains(t, res.ArtifactDir, work)
}

func TestRasterizerZeroPaddedOutput(t *testing.T) {
	t.Parallel()

	runner := &stubRunner{suffix: "-01.png"}
	r := NewRasterizer(RasterConfig{WorkDir: t.TempDir()}, nil).WithRunner(runner)

	res, err := r.RenderFirstPage(context.Background(), "cert.pdf")
	require.NoError(t, err)
	require.Equal(t, "page-01.png", filepath.Base(res.ImagePath))
}

func TestRasterizerCommandFailure(t *testing.T) {
	t.Parallel()

	runner := &stubRunner{err: errors.New("exit status 1"), stderr: "Syntax Error: couldn't read xref table"}
	r := NewRasterizer(RasterConfig{WorkDir: t.TempDir()}, nil).WithRunner(runner)

	_, err := r.RenderFirstPage(context.Background(), "broken.pdf")
	require.Error(t, err)
	require.Contains(t, err.Error(), "pdftoppm")
	require.Contains(t, err.Error(), "xref")
}

func TestRasterizerNoImageProduced(t *testing.T) {
	t.Parallel()

	r := NewRasterizer(RasterConfig{WorkDir: t.TempDir()}, nil).WithRunner(&stubRunner{})

	_, err := r.RenderFirstPage(context.Background(), "empty.pdf")
	require.Error(t, err)
	require.Contains(t, err.Error(), "no image")
}

func TestRasterizerDefaults(t *testing.T) {
	t.Parallel()

	runner := &stubRunner{suffix: "-1.png"}
	r := NewRasterizer(RasterConfig{WorkDir: t.TempDir()}, nil).WithRunner(runner)

	_, err := r.RenderFirstPage(context.Background(), "cert.pdf")
	require.NoError(t, err)
	require.Contains(t, runner.args, "300") // default DPI
}

func TestPreflightRejectsGarbage(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "not-a-pdf.pdf")
	require.NoError(t, os.WriteFile(path, []byte("plain text, no pdf header"), 0o644))

	_, err := Preflight(path)
	require.Error(t, err)
}

func TestPreflightMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Preflight(filepath.Join(t.TempDir(), "missing.pdf"))
	require.Error(t, err)
}
