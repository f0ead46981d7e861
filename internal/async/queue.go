// Package async provides the two concurrency shapes the renamer needs: a
// long-lived worker queue for the watch daemon and a one-shot bounded batch
// runner for the CLI.
package async

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/hiraoka-dev/millsheet-renamer/internal/pipeline"
)

// Job is one document submission.
type Job struct {
	ID          uuid.UUID
	Path        string
	SubmittedAt time.Time
}

// Processor is the per-document flow the workers run.
type Processor interface {
	Process(ctx context.Context, pdfPath string) pipeline.Outcome
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}

// ErrShuttingDown is returned by Enqueue once Shutdown has begun.
var ErrShuttingDown = errors.New("queue is shutting down")
