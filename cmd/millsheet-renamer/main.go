package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/hiraoka-dev/millsheet-renamer/constants"
	"github.com/hiraoka-dev/millsheet-renamer/internal/async"
	"github.com/hiraoka-dev/millsheet-renamer/internal/catalog"
	"github.com/hiraoka-dev/millsheet-renamer/internal/common"
	"github.com/hiraoka-dev/millsheet-renamer/internal/export"
	"github.com/hiraoka-dev/millsheet-renamer/internal/extract"
	"github.com/hiraoka-dev/millsheet-renamer/internal/ingest"
	"github.com/hiraoka-dev/millsheet-renamer/internal/millsheet"
	"github.com/hiraoka-dev/millsheet-renamer/internal/ocr"
	"github.com/hiraoka-dev/millsheet-renamer/internal/pipeline"
	"github.com/hiraoka-dev/millsheet-renamer/internal/rename"
	repo "github.com/hiraoka-dev/millsheet-renamer/internal/repository"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	// Parse CLI flags
	var (
		dir         = flag.String("dir", "", "directory to scan for PDFs (recursively); positional args name individual files")
		workers     = flag.Int("workers", 0, "concurrent documents (defaults to BATCH_WORKERS)")
		dryRun      = flag.Bool("dry-run", false, "compute new names without renaming anything")
		report      = flag.String("report", "", "write an XLSX batch report to this path (optional)")
		catalogPath = flag.String("catalog", "", "maker catalog JSON (optional, defaults to the built-in table)")
		dpi         = flag.Int("dpi", 0, "rasterization DPI (defaults to RASTER_DPI)")
		journalPath = flag.String("journal", "", "SQLite journal file (overrides JOURNAL_DSN)")
		inmem       = flag.Bool("inmem", false, "use an in-memory SQLite journal")
		logLevel    = flag.String("log-level", "info", "log level: debug, info, warn, error")
		logJSON     = flag.Bool("log-json", true, "emit JSON logs (false for plain text)")
	)
	flag.Parse()

	if *dir == "" && flag.NArg() == 0 {
		printError("Error: --dir or at least one PDF path is required\n")
		flag.Usage()
		os.Exit(1)
	}

	// Setup logger
	opts := &slog.HandlerOptions{Level: parseLevel(*logLevel)}
	var handler slog.Handler = slog.NewJSONHandler(os.Stderr, opts)
	if !*logJSON {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx := context.Background()

	// Load configuration and apply flag overrides
	cfg := common.LoadConfig()
	if *dpi > 0 {
		cfg.Raster.DPI = *dpi
	}
	if *workers > 0 {
		cfg.Batch.Workers = *workers
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Journal (best-effort: a dead journal degrades to logging, it never
	// blocks the batch)
	var journal repo.Journal
	var err error
	switch {
	case *inmem:
		journal, err = repo.OpenSQLite(ctx, ":memory:", logger)
	case *journalPath != "":
		journal, err = repo.OpenSQLite(ctx, *journalPath, logger)
	default:
		journal, err = repo.Open(ctx, cfg.Journal, logger)
	}
	if err != nil {
		logger.Warn("journal unavailable, continuing without it", "error", err)
		journal = nil
	} else {
		defer func() {
			if cerr := journal.Close(); cerr != nil {
				logger.Error("close journal", "error", cerr)
			}
		}()
	}

	// Maker catalog
	cat := catalog.Default()
	if *catalogPath != "" {
		cat, err = catalog.Load(*catalogPath)
		if err != nil {
			logger.Error("failed to load maker catalog", "path", *catalogPath, "error", err)
			os.Exit(1)
		}
		logger.Info("maker catalog loaded", "path", *catalogPath, "makers", len(cat.Makers))
	}

	// Wire the pipeline
	rasterizer := ocr.NewRasterizer(ocr.RasterConfig{
		PopplerPath: cfg.Raster.PopplerPath,
		DPI:         cfg.Raster.DPI,
		Timeout:     cfg.Raster.Timeout,
		WorkDir:     cfg.Raster.WorkDir,
	}, logger)

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

	parser := millsheet.NewParser(millsheet.WithMakers(cat.Makers))
	processor := pipeline.NewProcessor(logger,
		pipeline.Config{DryRun: *dryRun},
		extract.NewRasterAdapter(rasterizer),
		extract.NewVisionAdapter(visionClient, logger),
		parser,
		rename.New(logger),
	)

	// Collect inputs
	paths, err := collectPaths(*dir, flag.Args(), logger)
	if err != nil {
		logger.Error("failed to collect documents", "error", err)
		os.Exit(1)
	}
	if len(paths) == 0 {
		printError("No PDF documents found\n")
		os.Exit(1)
	}

	batchID := uuid.New()
	logger.Info("starting batch", "batch_id", batchID, "documents", len(paths), "workers", cfg.Batch.Workers, "dry_run", *dryRun)

	// Process
	counts := map[constants.DocStatus]int{}
	outcomes := make([]pipeline.Outcome, 0, len(paths))
	for out := range async.RunBatch(ctx, processor, paths, cfg.Batch.Workers, cfg.Batch.ProcessTimeout) {
		counts[out.Status]++
		outcomes = append(outcomes, out)

		if journal != nil {
			if jerr := journal.Record(ctx, journalEntry(batchID, out)); jerr != nil {
				logger.Warn("journal write failed", "path", out.SourcePath, "error", jerr)
			}
		}
	}

	// Report
	if *report != "" {
		xlsxBytes, xerr := export.NewService(logger).WriteReport(outcomes)
		if xerr != nil {
			logger.Error("failed to build report", "error", xerr)
			os.Exit(1)
		}
		if werr := os.WriteFile(*report, xlsxBytes, 0644); werr != nil {
			logger.Error("failed to write report file", "path", *report, "error", werr)
			os.Exit(1)
		}
		logger.Info("report written", "path", *report, "rows", len(outcomes))
	}

	// Log summary
	logger.Info("batch complete",
		"batch_id", batchID,
		"documents", len(paths),
		"renamed", counts[constants.DocStatusRenamed],
		"fallback", counts[constants.DocStatusFallback],
		"dry_run", counts[constants.DocStatusDryRun],
		"failed", counts[constants.DocStatusFailed],
	)

	fmt.Printf("Batch complete!\n")
	fmt.Printf("- Documents: %d\n", len(paths))
	fmt.Printf("- Renamed: %d\n", counts[constants.DocStatusRenamed])
	fmt.Printf("- Fallback names: %d\n", counts[constants.DocStatusFallback])
	if *dryRun {
		fmt.Printf("- Dry-run (untouched): %d\n", counts[constants.DocStatusDryRun])
	}
	fmt.Printf("- Failures: %d\n", counts[constants.DocStatusFailed])
	if *report != "" {
		fmt.Printf("- Report: %s\n", *report)
	}

	if counts[constants.DocStatusFailed] > 0 {
		os.Exit(1)
	}
}

// collectPaths merges the scanned directory with explicitly named files.
func collectPaths(dir string, args []string, logger *slog.Logger) ([]string, error) {
	var paths []string
	if dir != "" {
		scanned, stats, err := ingest.ScanDirectory(dir)
		if err != nil {
			return nil, err
		}
		logger.Info("scan complete", "dir", dir, "matched", stats.Matched, "skipped", stats.Skipped, "failed", stats.Failed)
		paths = append(paths, scanned...)
	}
	for _, arg := range args {
		if !constants.IsPDF(arg) {
			logger.Warn("skipping non-PDF argument", "path", arg)
			continue
		}
		abs, err := filepath.Abs(arg)
		if err != nil {
			return nil, err
		}
		paths = append(paths, abs)
	}
	return paths, nil
}

func journalEntry(batchID uuid.UUID, out pipeline.Outcome) repo.Entry {
	e := repo.Entry{
		BatchID:      batchID,
		SourcePath:   out.SourcePath,
		RenamedPath:  out.RenamedPath,
		Date:         out.Record.Date,
		Material:     out.Record.Material,
		Dimensions:   out.Record.Dimensions,
		Manufacturer: out.Record.Manufacturer,
		ChargeNo:     out.Record.ChargeNo,
		Status:       out.Status,
	}
	if out.Err != nil {
		e.ErrorText = out.Err.Error()
	}
	sumPath := out.RenamedPath
	if sumPath == "" {
		sumPath = out.SourcePath
	}
	if sum, err := ingest.Checksum(sumPath); err == nil {
		e.Checksum = sum
	}
	return e
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
