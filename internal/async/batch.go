package async

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hiraoka-dev/millsheet-renamer/internal/pipeline"
)

// RunBatch processes paths with at most workers in flight and streams the
// outcomes as they complete. The returned channel is buffered for the whole
// batch, so the caller may consume lazily; it closes when every submitted
// path has produced its outcome. Cancelling ctx stops submission of further
// paths; in-flight documents run to completion under their own timeout.
func RunBatch(ctx context.Context, proc Processor, paths []string, workers int, timeout time.Duration) <-chan pipeline.Outcome {
	if workers < 1 {
		workers = 1
	}
	out := make(chan pipeline.Outcome, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	go func() {
		defer close(out)
		for _, path := range paths {
			if gctx.Err() != nil {
				break
			}
			g.Go(func() error {
				jctx := context.Background()
				var cancel context.CancelFunc
				if timeout > 0 {
					jctx, cancel = context.WithTimeout(jctx, timeout)
					defer cancel()
				}
				out <- proc.Process(jctx, path)
				return nil
			})
		}
		_ = g.Wait()
	}()
	return out
}
