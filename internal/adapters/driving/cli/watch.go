package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docvault/internal/core/domain"
	"github.com/custodia-labs/docvault/internal/core/ports/driving"
	"github.com/custodia-labs/docvault/internal/logger"
)

const defaultWatchDebounce = 500 * time.Millisecond

var (
	watchDebounce  time.Duration
	watchSkipFirst bool
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Load documents as they appear in a folder",
	Long: `Watch a folder and keep the index in sync with it.

New or changed .pdf and .docx files are loaded, and deleted files are
unloaded. Files already in the folder are loaded when the watch starts
unless --skip-existing is set. Stop with Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", defaultWatchDebounce,
		"Wait this long after the last change to a file before loading it")
	watchCmd.Flags().BoolVar(&watchSkipFirst, "skip-existing", false, "Do not load files already in the folder")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	ctx := commandContext(cmd)
	if _, err := ready(ctx); err != nil {
		return err
	}

	dir, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, dir)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer fw.Close()

	w := newFolderWatcher(ingestService, pipelineService, watchDebounce, func(format string, a ...any) {
		cmd.Printf(format+"\n", a...)
	})
	if err := w.addTree(fw, dir); err != nil {
		return err
	}

	if !watchSkipFirst {
		w.ingestExisting(ctx, dir)
	}

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", dir)
	return w.run(ctx, fw)
}

// folderWatcher turns file system events into ingest and remove calls.
// Events for one path are coalesced until the path has been quiet for the
// debounce interval.
type folderWatcher struct {
	ingest   driving.IngestService
	pipeline driving.PipelineService
	debounce time.Duration
	report   func(format string, args ...any)
	log      logger.Component

	mu      sync.Mutex
	pending map[string]fsnotify.Op
	timer   *time.Timer
	ready   chan struct{}
}

func newFolderWatcher(
	ingest driving.IngestService,
	pipeline driving.PipelineService,
	debounce time.Duration,
	report func(format string, args ...any),
) *folderWatcher {
	if debounce <= 0 {
		debounce = defaultWatchDebounce
	}
	return &folderWatcher{
		ingest:   ingest,
		pipeline: pipeline,
		debounce: debounce,
		report:   report,
		log:      logger.With("watch"),
		pending:  make(map[string]fsnotify.Op),
		ready:    make(chan struct{}, 1),
	}
}

// addTree watches dir and every non-hidden directory below it.
func (w *folderWatcher) addTree(fw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

func (w *folderWatcher) ingestExisting(ctx context.Context, dir string) {
	results, err := w.ingest.AddPaths(ctx, []string{dir})
	if err != nil {
		w.report("Could not scan %s: %v", dir, err)
		return
	}
	for _, r := range results {
		w.reportResult(r.Path, r.File, r.Err)
	}
}

func (w *folderWatcher) run(ctx context.Context, fw *fsnotify.Watcher) error {
	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(fw, event.Name); err != nil {
						w.log.Warn("%v", err)
					}
					continue
				}
			}
			w.handleEvent(event)
		case <-w.ready:
			w.flush(ctx)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error: %v", err)
		}
	}
}

// handleEvent records an event for a supported file and restarts the
// debounce timer.
func (w *folderWatcher) handleEvent(event fsnotify.Event) {
	if _, ok := domain.FormatFromPath(event.Name); !ok {
		return
	}
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[event.Name] |= event.Op
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case w.ready <- struct{}{}:
		default:
		}
	})
}

func (w *folderWatcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

// flush processes every pending path. A path that no longer exists is
// unloaded; any other path is (re)loaded.
func (w *folderWatcher) flush(ctx context.Context) {
	w.mu.Lock()
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	w.pending = make(map[string]fsnotify.Op)
	w.mu.Unlock()

	sort.Strings(paths)
	for _, path := range paths {
		if ctx.Err() != nil {
			return
		}
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			w.unload(ctx, path)
			continue
		}
		info, err := w.ingest.AddFile(ctx, path)
		w.reportResult(path, info, err)
	}
}

func (w *folderWatcher) unload(ctx context.Context, path string) {
	files, err := w.pipeline.ListDocuments()
	if err != nil {
		w.log.Warn("listing documents: %v", err)
		return
	}
	for _, f := range files {
		if f.FilePath != path {
			continue
		}
		if err := w.pipeline.RemoveDocument(ctx, f.ID); err != nil {
			w.report("✗ %s: %v", f.FileName, err)
			return
		}
		w.report("- %s", f.FileName)
		return
	}
}

func (w *folderWatcher) reportResult(path string, info domain.FileInfo, err error) {
	if err != nil {
		w.report("✗ %s: %v", path, err)
		return
	}
	w.report("+ %s (%d pages, %d chunks)", info.FileName, info.TotalPages, info.ChunkCount)
}
