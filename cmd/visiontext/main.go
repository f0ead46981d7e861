package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/hiraoka-dev/millsheet-renamer/constants"
	"github.com/hiraoka-dev/millsheet-renamer/internal/common"
	"github.com/hiraoka-dev/millsheet-renamer/internal/extract"
	"github.com/hiraoka-dev/millsheet-renamer/internal/ocr"
)

// visiontext runs the OCR half of the pipeline on one document and prints
// the raw text to stdout. Useful for tuning extraction patterns against a
// problem certificate without touching the file.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if len(os.Args) != 2 {
		logger.Error("usage", "cmd", "visiontext <pdf-or-image>")
		os.Exit(2)
	}
	path := os.Args[1]

	cfg := common.LoadConfig()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	visionClient, err := ocr.NewVisionClient(ctx, ocr.VisionConfig{
		CredentialsFile: cfg.Vision.CredentialsFile,
		CredentialsJSON: cfg.Vision.CredentialsJSON,
		Endpoint:        cfg.Vision.Endpoint,
		Timeout:         cfg.Vision.Timeout,
	}, logger)
	if err != nil {
		logger.Error("failed to initialize vision client", "error", err)
		os.Exit(1)
	}

	imagePath := path
	if constants.IsPDF(path) {
		rasterizer := ocr.NewRasterizer(ocr.RasterConfig{
			PopplerPath: cfg.Raster.PopplerPath,
			DPI:         cfg.Raster.DPI,
			Timeout:     cfg.Raster.Timeout,
			WorkDir:     cfg.Raster.WorkDir,
		}, logger)

		rendered, cleanup, rerr := extract.NewRasterAdapter(rasterizer).RenderFirstPage(ctx, path)
		if rerr != nil {
			logger.Error("rasterization failed", "path", path, "error", rerr)
			os.Exit(1)
		}
		defer cleanup()
		imagePath = rendered
	}

	start := time.Now()
	res, err := visionClient.Annotate(ctx, imagePath)
	if err != nil {
		logger.Error("text extraction failed", "path", path, "error", err, "duration_ms", time.Since(start).Milliseconds())
		os.Exit(1)
	}

	logger.Info("text extraction OK",
		"path", path,
		"locale", res.Locale,
		"bytes", len(res.Text),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	if res.Text == "" {
		logger.Warn("no text detected")
	}
	fmt.Print(res.Text)
}
