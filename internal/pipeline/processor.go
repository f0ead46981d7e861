// Package pipeline coordinates the per-document flow: rasterize the first
// page, OCR it, parse the fields, derive the new filename, rename. Each
// document yields exactly one Outcome; a failure at any stage is captured in
// the Outcome rather than returned, so batch callers never lose track of
// which file produced which result.
package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/hiraoka-dev/millsheet-renamer/constants"
	"github.com/hiraoka-dev/millsheet-renamer/internal/common"
	"github.com/hiraoka-dev/millsheet-renamer/internal/extract"
	"github.com/hiraoka-dev/millsheet-renamer/internal/millsheet"
	"github.com/hiraoka-dev/millsheet-renamer/internal/rename"
)

// Config holds per-processor behavior toggles.
type Config struct {
	// DryRun computes the new name but leaves the file untouched.
	DryRun bool
}

// Outcome is the result of processing a single document.
type Outcome struct {
	JobID       uuid.UUID
	SourcePath  string
	Record      millsheet.Record
	NewName     string
	RenamedPath string
	Status      constants.DocStatus
	Err         error
	Duration    time.Duration
}

// Processor runs the rasterize → OCR → parse → rename flow for one document
// at a time. It is safe for concurrent use.
type Processor struct {
	logger  *slog.Logger
	cfg     Config
	raster  extract.Rasterizer
	text    extract.TextExtractor
	parser  *millsheet.Parser
	renamer *rename.Renamer
}

func NewProcessor(logger *slog.Logger, cfg Config, raster extract.Rasterizer, text extract.TextExtractor, parser *millsheet.Parser, renamer *rename.Renamer) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if parser == nil {
		parser = millsheet.NewParser()
	}
	return &Processor{
		logger:  logger,
		cfg:     cfg,
		raster:  raster,
		text:    text,
		parser:  parser,
		renamer: renamer,
	}
}

// Process runs the full flow for one PDF. The returned Outcome always has
// SourcePath, JobID, Status, and Duration set; Err is non-nil only when
// Status is FAILED.
func (p *Processor) Process(ctx context.Context, pdfPath string) Outcome {
	start := time.Now()
	out := Outcome{
		JobID:      uuid.New(),
		SourcePath: pdfPath,
	}
	defer func() { out.Duration = time.Since(start) }()

	// 1) Rasterize first page.
	imagePath, cleanup, err := p.raster.RenderFirstPage(ctx, pdfPath)
	if err != nil {
		p.logger.Error("pipeline.raster.failed", "job_id", out.JobID, "path", pdfPath, "err", err)
		out.Status = constants.DocStatusFailed
		out.Err = common.NewAppError("RASTER_FAILED", "rasterize first page", err)
		return out
	}
	defer cleanup()

	// 2) OCR.
	text, err := p.text.ExtractText(ctx, imagePath)
	if err != nil {
		p.logger.Error("pipeline.ocr.failed", "job_id", out.JobID, "path", pdfPath, "err", err)
		out.Status = constants.DocStatusFailed
		out.Err = common.NewAppError("VISION_FAILED", "extract text", err)
		return out
	}
	if text == "" {
		p.logger.Warn("pipeline.ocr.empty", "job_id", out.JobID, "path", pdfPath)
		out.Status = constants.DocStatusFailed
		out.Err = common.NewAppError("EMPTY_TEXT", "no text detected in first page", common.ErrEmptyText)
		return out
	}

	// 3) Parse fields and derive the name. Parsing never fails; absent
	// fields are simply omitted from the name.
	out.Record = p.parser.Parse(text)
	out.NewName = millsheet.BuildFilename(out.Record, filepath.Base(pdfPath))
	p.logger.Info("pipeline.parse.ok",
		"job_id", out.JobID,
		"path", pdfPath,
		"new_name", out.NewName,
		"fallback", out.Record.Empty(),
	)

	if p.cfg.DryRun {
		out.Status = constants.DocStatusDryRun
		return out
	}

	// 4) Rename.
	renamed, err := p.renamer.Rename(pdfPath, out.NewName)
	if err != nil {
		p.logger.Error("pipeline.rename.failed", "job_id", out.JobID, "path", pdfPath, "err", err)
		out.Status = constants.DocStatusFailed
		out.Err = common.NewAppError("RENAME_FAILED", "rename document", err)
		return out
	}
	out.RenamedPath = renamed

	if out.Record.Empty() {
		out.Status = constants.DocStatusFallback
	} else {
		out.Status = constants.DocStatusRenamed
	}
	p.logger.Info("pipeline.done",
		"job_id", out.JobID,
		"path", pdfPath,
		"renamed_path", renamed,
		"status", out.Status,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return out
}
