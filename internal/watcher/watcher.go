// Package watcher keeps the retrieval engine in sync with a directory on
// disk. File creates and writes trigger re-ingestion; removes and renames
// trigger deletion of the file's chunks.
package watcher

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/quarry-labs/quarry-cli/internal/core/ports/driving"
	"github.com/quarry-labs/quarry-cli/internal/logger"
)

// DefaultDebounce coalesces write bursts from editors and copy tools.
const DefaultDebounce = 500 * time.Millisecond

// Watcher mirrors filesystem changes in a directory into the engine.
type Watcher struct {
	ingestor driving.Ingestor
	scope    driving.IngestScope
	debounce time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer

	// engineMu serialises mutating engine calls. Debounce timers fire on
	// their own goroutines while the event loop handles removes; the store
	// requires a single logical writer.
	engineMu sync.Mutex
}

// Option configures the watcher.
type Option func(*Watcher)

// WithDebounce sets the write-coalescing window.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// New creates a watcher that feeds the given ingestor. Every ingestion it
// triggers carries the given scope.
func New(ingestor driving.Ingestor, scope driving.IngestScope, opts ...Option) *Watcher {
	w := &Watcher{
		ingestor: ingestor,
		scope:    scope,
		debounce: DefaultDebounce,
		pending:  make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Watch blocks, processing filesystem events for dir until ctx is
// cancelled. The directory contents present at startup are not ingested;
// callers wanting a full initial sync should run ProcessDirectory first.
func (w *Watcher) Watch(ctx context.Context, dir string) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	if err := fsw.Add(dir); err != nil {
		return err
	}

	logger.Info("Watching %s", dir)

	for {
		select {
		case <-ctx.Done():
			w.cancelPending()
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watch error: %v", err)
		}
	}
}

// handleEvent maps one fsnotify event to an engine operation.
func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if skipPath(event.Name) {
		return
	}

	switch {
	case event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename):
		// The old path is gone either way; renames re-arrive as creates.
		w.cancelPath(event.Name)
		w.remove(ctx, event.Name)

	case event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write):
		w.scheduleIngest(ctx, event.Name)
	}
	// Chmod events carry no content change and are ignored.
}

// scheduleIngest (re)arms the debounce timer for a path.
func (w *Watcher) scheduleIngest(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[path]; ok {
		timer.Stop()
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.ingest(ctx, path)
	})
}

// remove drops every chunk indexed for path.
func (w *Watcher) remove(ctx context.Context, path string) {
	w.engineMu.Lock()
	defer w.engineMu.Unlock()

	res, err := w.ingestor.DeleteBySource(ctx, path)
	if err != nil {
		logger.Warn("Failed to delete %s: %v", path, err)
		return
	}
	if res.Success {
		logger.Info("Removed %s (%d chunks)", path, res.RemovedCount)
	}
}

// ingest replaces any previously indexed content for path.
func (w *Watcher) ingest(ctx context.Context, path string) {
	w.engineMu.Lock()
	defer w.engineMu.Unlock()

	if _, err := w.ingestor.DeleteBySource(ctx, path); err != nil {
		logger.Warn("Failed to clear previous chunks for %s: %v", path, err)
		return
	}

	res, err := w.ingestor.ProcessFile(ctx, path, w.scope)
	if err != nil {
		logger.Debug("Skipping %s: %v", path, err)
		return
	}
	logger.Info("Ingested %s: %d chunks", path, len(res.ChunkIDs))
}

func (w *Watcher) cancelPath(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if timer, ok := w.pending[path]; ok {
		timer.Stop()
		delete(w.pending, path)
	}
}

func (w *Watcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
}

// skipPath filters hidden files and editor temp artifacts.
func skipPath(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") || strings.HasSuffix(base, ".swp")
}
