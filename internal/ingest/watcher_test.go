package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func collectEvent(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case p, ok := <-ch:
		require.True(t, ok, "event channel closed early")
		return p
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for watcher event")
		return ""
	}
}

func TestStartWatcherInitialScan(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "existing.pdf"))
	touch(t, filepath.Join(root, "skip.txt"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, _, err := StartWatcher(ctx, WatchConfig{Roots: []string{root}, InitialScan: true})
	require.NoError(t, err)

	p := collectEvent(t, events)
	require.Equal(t, "existing.pdf", filepath.Base(p))
}

func TestStartWatcherEmitsNewFiles(t *testing.T) {
	root := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, _, err := StartWatcher(ctx, WatchConfig{Roots: []string{root}})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(root, "dropped.pdf"), []byte("%PDF-1.4\n"), 0o644))

	p := collectEvent(t, events)
	require.Equal(t, "dropped.pdf", filepath.Base(p))
}

func TestStartWatcherRequiresRoots(t *testing.T) {
	_, _, err := StartWatcher(context.Background(), WatchConfig{})
	require.Error(t, err)
}

func TestStartWatcherStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	events, _, err := StartWatcher(ctx, WatchConfig{Roots: []string{t.TempDir()}})
	require.NoError(t, err)

	cancel()
	select {
	case _, ok := <-events:
		require.False(t, ok, "event channel should close after cancel")
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for channel close")
	}
}
