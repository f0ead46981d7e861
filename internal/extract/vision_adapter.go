package extract

import (
	"context"
	"log/slog"

	"github.com/hiraoka-dev/millsheet-renamer/internal/ocr"
)

// VisionAdapter binds the Cloud Vision client to the TextExtractor contract.
type VisionAdapter struct {
	c      *ocr.VisionClient
	logger *slog.Logger
}

func NewVisionAdapter(c *ocr.VisionClient, logger *slog.Logger) *VisionAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &VisionAdapter{c: c, logger: logger}
}

func (a *VisionAdapter) ExtractText(ctx context.Context, imagePath string) (string, error) {
	res, err := a.c.Annotate(ctx, imagePath)
	if err != nil {
		return "", err
	}
	a.logger.Debug("vision.extract.ok",
		"bytes", len(res.Text),
		"locale", res.Locale,
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res.Text, nil
}
