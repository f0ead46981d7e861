package extract

import (
	"context"
	"fmt"
	"os"

	"github.com/hiraoka-dev/millsheet-renamer/internal/ocr"
)

// RasterAdapter binds the poppler rasterizer to the Rasterizer contract,
// adding the pdfcpu preflight so a corrupt or empty PDF fails before any
// external tool runs.
type RasterAdapter struct {
	r *ocr.Rasterizer
}

func NewRasterAdapter(r *ocr.Rasterizer) *RasterAdapter {
	return &RasterAdapter{r: r}
}

func (a *RasterAdapter) RenderFirstPage(ctx context.Context, pdfPath string) (string, func(), error) {
	if _, err := ocr.Preflight(pdfPath); err != nil {
		return "", nil, fmt.Errorf("preflight: %w", err)
	}
	res, err := a.r.RenderFirstPage(ctx, pdfPath)
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { _ = os.RemoveAll(res.ArtifactDir) }
	return res.ImagePath, cleanup, nil
}
