package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docvault/internal/core/domain"
)

func newTestWatcher(svc *testServices) (*folderWatcher, *[]string) {
	var lines []string
	w := newFolderWatcher(svc.ingest, svc.pipeline, time.Millisecond, func(format string, a ...any) {
		lines = append(lines, fmt.Sprintf(format, a...))
	})
	return w, &lines
}

func TestFolderWatcher_IgnoresUnsupportedFiles(t *testing.T) {
	w, _ := newTestWatcher(newTestServices())

	w.handleEvent(fsnotify.Event{Name: "/docs/notes.txt", Op: fsnotify.Create})
	w.handleEvent(fsnotify.Event{Name: "/docs/.~lock.pdf", Op: fsnotify.Create})
	w.handleEvent(fsnotify.Event{Name: "/docs/lease.pdf", Op: fsnotify.Chmod})

	assert.Empty(t, w.pending)
}

func TestFolderWatcher_CoalescesEvents(t *testing.T) {
	w, _ := newTestWatcher(newTestServices())

	w.handleEvent(fsnotify.Event{Name: "/docs/lease.pdf", Op: fsnotify.Create})
	w.handleEvent(fsnotify.Event{Name: "/docs/lease.pdf", Op: fsnotify.Write})
	w.handleEvent(fsnotify.Event{Name: "/docs/lease.pdf", Op: fsnotify.Write})

	require.Len(t, w.pending, 1)
	assert.True(t, w.pending["/docs/lease.pdf"].Has(fsnotify.Create))
	assert.True(t, w.pending["/docs/lease.pdf"].Has(fsnotify.Write))

	select {
	case <-w.ready:
	case <-time.After(time.Second):
		t.Fatal("debounce timer never fired")
	}
}

func TestFolderWatcher_FlushAddsExistingFiles(t *testing.T) {
	svc := newTestServices()
	w, lines := newTestWatcher(svc)

	path := filepath.Join(t.TempDir(), "lease.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF"), 0o600))

	w.handleEvent(fsnotify.Event{Name: path, Op: fsnotify.Create})
	w.flush(context.Background())

	assert.Equal(t, []string{path}, svc.ingest.added)
	assert.Empty(t, w.pending)
	require.Len(t, *lines, 1)
	assert.Contains(t, (*lines)[0], "+ ")
}

func TestFolderWatcher_FlushRemovesDeletedFiles(t *testing.T) {
	svc := newTestServices()
	path := filepath.Join(t.TempDir(), "gone.docx")
	svc.pipeline.files = []domain.FileInfo{
		{ID: "keep", FilePath: "/elsewhere/other.docx", FileName: "other.docx"},
		{ID: "d1", FilePath: path, FileName: "gone.docx"},
	}
	w, lines := newTestWatcher(svc)

	w.handleEvent(fsnotify.Event{Name: path, Op: fsnotify.Remove})
	w.flush(context.Background())

	assert.Empty(t, svc.ingest.added)
	assert.Equal(t, []string{"d1"}, svc.pipeline.removed)
	assert.Equal(t, []string{"- gone.docx"}, *lines)
}

func TestFolderWatcher_FlushReportsIngestErrors(t *testing.T) {
	svc := newTestServices()
	svc.ingest.addErr = domain.ErrInvalidInput
	w, lines := newTestWatcher(svc)

	path := filepath.Join(t.TempDir(), "broken.pdf")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	w.handleEvent(fsnotify.Event{Name: path, Op: fsnotify.Write})
	w.flush(context.Background())

	require.Len(t, *lines, 1)
	assert.Contains(t, (*lines)[0], "✗")
}

func TestFolderWatcher_AddTreeSkipsHiddenDirs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "contracts", "2026"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))

	fw, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer fw.Close()

	w, _ := newTestWatcher(newTestServices())
	require.NoError(t, w.addTree(fw, dir))

	watched := fw.WatchList()
	assert.Contains(t, watched, dir)
	assert.Contains(t, watched, filepath.Join(dir, "contracts", "2026"))
	assert.NotContains(t, watched, filepath.Join(dir, ".git"))
}

func TestWatchCmd_RejectsFile(t *testing.T) {
	svc := newTestServices()
	path := filepath.Join(t.TempDir(), "lease.pdf")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	_, err := runCommand(t, svc, "watch", path)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
