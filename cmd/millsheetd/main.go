package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/hiraoka-dev/millsheet-renamer/internal/async"
	"github.com/hiraoka-dev/millsheet-renamer/internal/catalog"
	"github.com/hiraoka-dev/millsheet-renamer/internal/common"
	"github.com/hiraoka-dev/millsheet-renamer/internal/extract"
	"github.com/hiraoka-dev/millsheet-renamer/internal/ingest"
	"github.com/hiraoka-dev/millsheet-renamer/internal/millsheet"
	"github.com/hiraoka-dev/millsheet-renamer/internal/ocr"
	"github.com/hiraoka-dev/millsheet-renamer/internal/pipeline"
	"github.com/hiraoka-dev/millsheet-renamer/internal/rename"
	repo "github.com/hiraoka-dev/millsheet-renamer/internal/repository"
)

// millsheetd watches one or more hot folders and renames every millsheet PDF
// that lands in them. Configuration is environment-driven; see common.LoadConfig.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if len(cfg.Watch.Roots) == 0 {
		logger.Error("WATCH_ROOTS env var is required (comma-separated directories)")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Journal: the daemon needs it for dedupe, so a dead journal is fatal here.
	journal, err := repo.Open(ctx, cfg.Journal, logger)
	if err != nil {
		logger.Error("failed to open journal", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := journal.Close(); cerr != nil {
			logger.Error("close journal", "error", cerr)
		}
	}()
	if err := journal.HealthCheck(ctx); err != nil {
		logger.Error("journal health check failed", "error", err)
		os.Exit(1)
	}

	// Maker catalog
	cat := catalog.Default()
	if path := os.Getenv("MAKER_CATALOG"); path != "" {
		cat, err = catalog.Load(path)
		if err != nil {
			logger.Error("failed to load maker catalog", "path", path, "error", err)
			os.Exit(1)
		}
		logger.Info("maker catalog loaded", "path", path, "makers", len(cat.Makers))
	}

	// Pipeline wiring
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

	processor := pipeline.NewProcessor(logger,
		pipeline.Config{},
		extract.NewRasterAdapter(rasterizer),
		extract.NewVisionAdapter(visionClient, logger),
		millsheet.NewParser(millsheet.WithMakers(cat.Makers)),
		rename.New(logger),
	)

	queue := async.NewProcessorQueue(processor, logger,
		async.WithWorkers(cfg.Batch.Workers),
		async.WithQueueSize(cfg.Batch.QueueSize),
		async.WithProcessTimeout(cfg.Batch.ProcessTimeout),
	)

	// Journal consumer: one goroutine drains outcomes so the workers never
	// block on the journal.
	batchID := uuid.New()
	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		for out := range queue.Outcomes() {
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
			if sum, cerr := ingest.Checksum(sumPath); cerr == nil {
				e.Checksum = sum
			}
			if jerr := journal.Record(context.Background(), e); jerr != nil {
				logger.Warn("journal write failed", "path", out.SourcePath, "error", jerr)
			}
		}
	}()

	// Watcher
	events, watchErrs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       cfg.Watch.Roots,
		InitialScan: cfg.Watch.InitialScan,
		Debounce:    cfg.Watch.Debounce,
	})
	if err != nil {
		logger.Error("failed to start watcher", "error", err)
		os.Exit(1)
	}
	logger.Info("millsheetd watching", "roots", cfg.Watch.Roots, "workers", cfg.Batch.Workers)

	// Intake loop: checksum, dedupe against the journal, enqueue.
	for events != nil || watchErrs != nil {
		select {
		case path, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			sum, cerr := ingest.Checksum(path)
			if cerr != nil {
				// likely still being copied; the next write event retries
				logger.Warn("cannot read document yet", "path", path, "error", cerr)
				continue
			}
			seen, serr := journal.SeenSource(ctx, path, sum)
			if serr != nil {
				logger.Warn("dedupe lookup failed", "path", path, "error", serr)
			}
			if seen {
				logger.Info("skipping already-processed document", "path", path)
				continue
			}
			if qerr := queue.Enqueue(ctx, async.Job{ID: uuid.New(), Path: path, SubmittedAt: time.Now()}); qerr != nil {
				logger.Warn("enqueue refused", "path", path, "error", qerr)
			}
		case werr, ok := <-watchErrs:
			if !ok {
				watchErrs = nil
				continue
			}
			logger.Error("watcher error", "error", werr)
		}
	}

	logger.Info("shutting down")
	queue.Shutdown(context.Background())
	<-consumerDone
	logger.Info("millsheetd stopped")
}
