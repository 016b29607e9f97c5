package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mgpai22/kara/internal/logging"
)

// handles one transcript file found in the inbox
type EventHandler func(ctx context.Context, filePath string) error

const defaultSettleDelay = 500 * time.Millisecond

// Watcher renders transcripts dropped into an inbox directory.
type Watcher struct {
	inputDir      string
	handler       EventHandler
	logger        *logging.Logger
	watcher       *fsnotify.Watcher
	maxConcurrent int
	semaphore     chan struct{}
	settle        time.Duration
	wg            sync.WaitGroup

	mu      sync.Mutex
	pending map[string]bool
}

func New(inputDir string, handler EventHandler, logger *logging.Logger, maxConcurrent int) (*Watcher, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(inputDir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}

	return &Watcher{
		inputDir:      inputDir,
		handler:       handler,
		logger:        logger,
		watcher:       fw,
		maxConcurrent: maxConcurrent,
		semaphore:     make(chan struct{}, maxConcurrent),
		settle:        defaultSettleDelay,
		pending:       make(map[string]bool),
	}, nil
}

// Start processes transcripts already in the inbox, then blocks handling
// new ones until ctx is cancelled. In-flight handlers finish before it
// returns.
func (w *Watcher) Start(ctx context.Context) error {
	w.logger.Infow("Watching for transcripts",
		"dir", w.inputDir,
		"max_concurrent", w.maxConcurrent,
	)

	if err := w.scanExisting(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.Infow("Waiting for ongoing renders to complete")
			w.wg.Wait()
			w.logger.Infow("Watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !IsTranscriptFile(event.Name) {
				w.logger.Debugw("Ignoring non-transcript file", "path", event.Name)
				continue
			}
			if err := w.dispatch(ctx, event.Name); err != nil {
				return err
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Errorw("Watcher error", "error", err)
		}
	}
}

func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

func (w *Watcher) scanExisting(ctx context.Context) error {
	entries, err := os.ReadDir(w.inputDir)
	if err != nil {
		return fmt.Errorf("read inbox: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && IsTranscriptFile(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		if err := w.dispatch(ctx, filepath.Join(w.inputDir, name)); err != nil {
			return err
		}
	}
	return nil
}

// dispatch runs the handler once per path, even when a file produces a
// create followed by several writes.
func (w *Watcher) dispatch(ctx context.Context, path string) error {
	w.mu.Lock()
	if w.pending[path] {
		w.mu.Unlock()
		return nil
	}
	w.pending[path] = true
	w.mu.Unlock()

	w.logger.Infow("Transcript detected", "path", path)

	select {
	case w.semaphore <- struct{}{}:
	case <-ctx.Done():
		w.release(path)
		return ctx.Err()
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() { <-w.semaphore }()
		defer w.release(path)

		// wait for the writer to finish
		select {
		case <-time.After(w.settle):
		case <-ctx.Done():
			return
		}

		if err := w.handler(ctx, path); err != nil {
			w.logger.Errorw("Failed to process transcript", "path", path, "error", err)
		}
	}()
	return nil
}

func (w *Watcher) release(path string) {
	w.mu.Lock()
	delete(w.pending, path)
	w.mu.Unlock()
}

// IsTranscriptFile reports whether path looks like a transcript JSON file.
func IsTranscriptFile(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return strings.EqualFold(filepath.Ext(base), ".json")
}
