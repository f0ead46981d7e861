package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// RasterConfig configures the first-page rasterizer.
type RasterConfig struct {
	PopplerPath string // pdftoppm binary name or absolute path; if empty -> "pdftoppm"
	DPI         int    // rasterization DPI, default 300
	Timeout     time.Duration
	WorkDir     string // parent for per-document artifact dirs; if empty -> os.TempDir()
}

// RasterResult describes one rendered page and where its artifacts live.
type RasterResult struct {
	ImagePath   string
	ArtifactDir string // remove this directory to clean up
	Duration    time.Duration
}

// Rasterizer renders the first page of a PDF to a PNG via poppler's pdftoppm.
// It is an explicitly constructed service: no global state, so tests can
// substitute the Runner and callers own the returned artifact directory.
type Rasterizer struct {
	cfg    RasterConfig
	runner Runner
	logger *slog.Logger
}

func NewRasterizer(cfg RasterConfig, logger *slog.Logger) *Rasterizer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.PopplerPath == "" {
		cfg.PopplerPath = "pdftoppm"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &Rasterizer{cfg: cfg, runner: execRunner{}, logger: logger}
}

// WithRunner swaps the external-command runner. Tests use this to fake
// pdftoppm without a poppler install.
func (r *Rasterizer) WithRunner(runner Runner) *Rasterizer {
	r.runner = runner
	return r
}

// RenderFirstPage renders page 1 of pdfPath at the configured DPI and returns
// the generated PNG. The caller removes RasterResult.ArtifactDir when done
// with the image.
func (r *Rasterizer) RenderFirstPage(ctx context.Context, pdfPath string) (RasterResult, error) {
	start := time.Now()

	dir, err := os.MkdirTemp(r.cfg.WorkDir, "millsheet-raster-*")
	if err != nil {
		return RasterResult{}, fmt.Errorf("create artifact dir: %w", err)
	}

	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	prefix := filepath.Join(dir, "page")
	// pdftoppm -png -f 1 -l 1 -r <dpi> <in.pdf> <dir/page>
	_, errb, err := r.runner.Run(ctx, r.cfg.PopplerPath,
		"-png", "-f", "1", "-l", "1", "-r", strconv.Itoa(r.cfg.DPI), pdfPath, prefix)
	if err != nil {
		_ = os.RemoveAll(dir)
		return RasterResult{}, fmt.Errorf("pdftoppm: %w: %s", err, truncate(string(errb), 512))
	}

	img, err := locateRenderedPage(prefix)
	if err != nil {
		_ = os.RemoveAll(dir)
		return RasterResult{}, err
	}

	res := RasterResult{ImagePath: img, ArtifactDir: dir, Duration: time.Since(start)}
	r.logger.Debug("rasterize.ok",
		"pdf", filepath.Base(pdfPath),
		"image", filepath.Base(img),
		"dpi", r.cfg.DPI,
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

// locateRenderedPage finds the PNG pdftoppm produced. Depending on the build
// it names the file page-1.png or zero-pads to page-01.png.
func locateRenderedPage(prefix string) (string, error) {
	for _, name := range []string{prefix + "-1.png", prefix + "-01.png"} {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
	}
	matches, _ := filepath.Glob(prefix + "-*.png")
	if len(matches) > 0 {
		return matches[0], nil
	}
	return "", fmt.Errorf("pdftoppm produced no image")
}
