package async

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/hiraoka-dev/millsheet-renamer/constants"
	"github.com/hiraoka-dev/millsheet-renamer/internal/pipeline"
)

// countingProc records every path it was asked to process.
type countingProc struct {
	mu    sync.Mutex
	paths []string
	delay time.Duration
}

func (p *countingProc) Process(_ context.Context, pdfPath string) pipeline.Outcome {
	if p.delay > 0 {
		time.Sleep(p.delay)
	}
	p.mu.Lock()
	p.paths = append(p.paths, pdfPath)
	p.mu.Unlock()
	return pipeline.Outcome{
		JobID:      uuid.New(),
		SourcePath: pdfPath,
		Status:     constants.DocStatusRenamed,
	}
}

func (p *countingProc) seen() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := append([]string(nil), p.paths...)
	sort.Strings(out)
	return out
}

func TestQueueProcessesAllJobs(t *testing.T) {
	proc := &countingProc{}
	q := NewProcessorQueue(proc, nil, WithWorkers(3), WithQueueSize(16))

	want := []string{"a.pdf", "b.pdf", "c.pdf", "d.pdf", "e.pdf"}
	for _, p := range want {
		require.NoError(t, q.Enqueue(context.Background(), Job{ID: uuid.New(), Path: p, SubmittedAt: time.Now()}))
	}

	got := make([]string, 0, len(want))
	done := make(chan struct{})
	go func() {
		defer close(done)
		for out := range q.Outcomes() {
			got = append(got, out.SourcePath)
		}
	}()

	q.Shutdown(context.Background())
	<-done

	sort.Strings(got)
	require.Equal(t, want, got)
	require.Equal(t, want, proc.seen())
}

func TestQueueRejectsEnqueueAfterShutdown(t *testing.T) {
	q := NewProcessorQueue(&countingProc{}, nil, WithWorkers(1))
	go func() {
		for range q.Outcomes() {
		}
	}()
	q.Shutdown(context.Background())

	err := q.Enqueue(context.Background(), Job{ID: uuid.New(), Path: "late.pdf"})
	require.ErrorIs(t, err, ErrShuttingDown)
}

func TestQueueShutdownIsIdempotent(t *testing.T) {
	q := NewProcessorQueue(&countingProc{}, nil, WithWorkers(1))
	go func() {
		for range q.Outcomes() {
		}
	}()
	q.Shutdown(context.Background())
	q.Shutdown(context.Background()) // second call must not panic
}

func TestRunBatchBoundsConcurrency(t *testing.T) {
	var mu sync.Mutex
	inFlight, peak := 0, 0

	proc := procFunc(func(_ context.Context, pdfPath string) pipeline.Outcome {
		mu.Lock()
		inFlight++
		if inFlight > peak {
			peak = inFlight
		}
		mu.Unlock()

		time.Sleep(20 * time.Millisecond)

		mu.Lock()
		inFlight--
		mu.Unlock()
		return pipeline.Outcome{SourcePath: pdfPath, Status: constants.DocStatusDryRun}
	})

	paths := []string{"1.pdf", "2.pdf", "3.pdf", "4.pdf", "5.pdf", "6.pdf"}
	var got []string
	for out := range RunBatch(context.Background(), proc, paths, 2, 0) {
		got = append(got, out.SourcePath)
	}

	sort.Strings(got)
	require.Equal(t, paths, got)
	require.LessOrEqual(t, peak, 2)
	require.Positive(t, peak)
}

func TestRunBatchEmptyInput(t *testing.T) {
	ch := RunBatch(context.Background(), &countingProc{}, nil, 4, time.Second)
	_, ok := <-ch
	require.False(t, ok, "channel should close immediately for an empty batch")
}

// procFunc adapts a function to the Processor interface.
type procFunc func(ctx context.Context, pdfPath string) pipeline.Outcome

func (f procFunc) Process(ctx context.Context, pdfPath string) pipeline.Outcome {
	return f(ctx, pdfPath)
}
