// Package trigger turns external "upload finished" evidence into refresh
// signal fires.
package trigger

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"call-insights-dashboard/internal/observability/logging"
	"call-insights-dashboard/internal/observability/metrics"
	"call-insights-dashboard/internal/refresh"
)

// Watcher fires the refresh signal when the backend rewrites one of its
// output files. A burst of writes inside the debounce window fires once.
type Watcher struct {
	watcher  *fsnotify.Watcher
	notifier refresh.Notifier
	debounce time.Duration
	metrics  *metrics.Metrics
	logger   zerolog.Logger

	files map[string]bool // watched file paths
	dirs  map[string]bool // directories watched as a whole

	mu    sync.Mutex
	timer *time.Timer
}

// NewWatcher watches paths. A path naming a directory matches any file in
// it; a path naming a file matches only that file, which need not exist yet.
func NewWatcher(paths []string, debounce time.Duration, notifier refresh.Notifier, m *metrics.Metrics) (*Watcher, error) {
	if m == nil {
		m = metrics.DefaultMetrics
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		watcher:  fw,
		notifier: notifier,
		debounce: debounce,
		metrics:  m,
		logger:   logging.WithComponent("file-watcher"),
		files:    map[string]bool{},
		dirs:     map[string]bool{},
	}

	added := map[string]bool{}
	for _, p := range paths {
		p = filepath.Clean(p)
		dir := filepath.Dir(p)
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			w.dirs[p] = true
			dir = p
		} else {
			w.files[p] = true
		}
		if added[dir] {
			continue
		}
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		added[dir] = true
	}

	return w, nil
}

// Run handles file system events until ctx is cancelled or the watcher is
// closed.
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Info().Int("files", len(w.files)).Int("dirs", len(w.dirs)).Msg("Watching backend output")

	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if w.matches(event) {
				w.schedule(event.Name)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error().Err(err).Msg("File watcher error")
		}
	}
}

func (w *Watcher) matches(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return false
	}
	name := filepath.Clean(event.Name)
	if strings.HasSuffix(name, ".tmp") {
		return false
	}
	return w.files[name] || w.dirs[filepath.Dir(name)]
}

// schedule fires once the debounce window after the last matching event
// has passed.
func (w *Watcher) schedule(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.logger.Info().Str("path", name).Msg("Backend output changed, firing refresh")
		w.metrics.RecordTrigger("watcher")
		w.notifier.Fire()
	})
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

// Close stops the pending fire, if any, and releases the watcher.
func (w *Watcher) Close() error {
	w.stopTimer()
	return w.watcher.Close()
}
