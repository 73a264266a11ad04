package inbox

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	dir := t.TempDir()
	pdfPath := filepath.Join(dir, "report.pdf")
	require.NoError(t, os.WriteFile(pdfPath, []byte("%PDF-1.4"), 0o644))
	subdir := filepath.Join(dir, "folder.pdf")
	require.NoError(t, os.Mkdir(subdir, 0o755))

	tests := []struct {
		name     string
		event    fsnotify.Event
		expected bool
	}{
		{
			name:     "created pdf",
			event:    fsnotify.Event{Name: pdfPath, Op: fsnotify.Create},
			expected: true,
		},
		{
			name:     "written pdf",
			event:    fsnotify.Event{Name: pdfPath, Op: fsnotify.Write},
			expected: true,
		},
		{
			name:     "uppercase extension",
			event:    fsnotify.Event{Name: filepath.Join(dir, "SCAN.PDF"), Op: fsnotify.Create},
			expected: true,
		},
		{
			name:     "chmod ignored",
			event:    fsnotify.Event{Name: pdfPath, Op: fsnotify.Chmod},
			expected: false,
		},
		{
			name:     "remove ignored",
			event:    fsnotify.Event{Name: pdfPath, Op: fsnotify.Remove},
			expected: false,
		},
		{
			name:     "non-pdf ignored",
			event:    fsnotify.Event{Name: filepath.Join(dir, "notes.txt"), Op: fsnotify.Create},
			expected: false,
		},
		{
			name:     "hidden file ignored",
			event:    fsnotify.Event{Name: filepath.Join(dir, ".partial.pdf"), Op: fsnotify.Write},
			expected: false,
		},
		{
			name:     "directory with pdf suffix ignored",
			event:    fsnotify.Event{Name: subdir, Op: fsnotify.Create},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, ok := classify(tt.event)
			assert.Equal(t, tt.expected, ok)
			if ok {
				assert.Equal(t, tt.event.Name, path)
			}
		})
	}
}

func TestWatchReportsSettledDrop(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w, err := Watch(ctx, dir)
	require.NoError(t, err)
	defer w.Close()

	path := filepath.Join(dir, "dropped.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 body"), 0o644))

	select {
	case got := <-w.Events():
		assert.Equal(t, path, got)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for drop event")
	}
}

func TestWatchCoalescesWriteBurst(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w, err := Watch(ctx, dir)
	require.NoError(t, err)
	defer w.Close()

	path := filepath.Join(dir, "burst.pdf")
	f, err := os.Create(path)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, err := f.Write([]byte("chunk "))
		require.NoError(t, err)
		time.Sleep(20 * time.Millisecond)
	}
	require.NoError(t, f.Close())

	select {
	case got := <-w.Events():
		assert.Equal(t, path, got)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for drop event")
	}

	// The burst must collapse into one event.
	select {
	case extra := <-w.Events():
		t.Fatalf("unexpected second event for %s", extra)
	case <-time.After(2 * settleWindow):
	}
}

func TestWatchIgnoresNonPDFDrops(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w, err := Watch(ctx, dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.md"), []byte("hi"), 0o644))

	select {
	case got := <-w.Events():
		t.Fatalf("unexpected event for %s", got)
	case <-time.After(2 * settleWindow):
	}
}
