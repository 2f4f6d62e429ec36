package trigger

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"call-insights-dashboard/internal/observability/metrics"
)

type countingNotifier struct{ n atomic.Int32 }

func (c *countingNotifier) Fire() { c.n.Add(1) }

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func startWatcher(t *testing.T, paths []string, debounce time.Duration) (*countingNotifier, *metrics.Metrics) {
	t.Helper()
	n := &countingNotifier{}
	m := metrics.NewMetrics(prometheus.NewRegistry())
	w, err := NewWatcher(paths, debounce, n, m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		w.Close()
	})
	return n, m
}

func TestWatcher_FiresOnWatchedFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "transcript.json")
	n, m := startWatcher(t, []string{target}, 20*time.Millisecond)

	if err := os.WriteFile(filepath.Join(dir, "other.json"), []byte("[]"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(target, []byte("[]"), 0o644); err != nil {
		t.Fatal(err)
	}

	waitFor(t, func() bool { return n.n.Load() == 1 })
	time.Sleep(100 * time.Millisecond)
	if got := n.n.Load(); got != 1 {
		t.Errorf("expected unrelated file to be ignored, got %d fires", got)
	}
	if got := testutil.ToFloat64(m.TriggerFires.WithLabelValues("watcher")); got != 1 {
		t.Errorf("expected 1 watcher trigger, got %v", got)
	}
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	n, _ := startWatcher(t, []string{dir}, 200*time.Millisecond)

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(filepath.Join(dir, "summary.json"), []byte(`{"summary": "x"}`), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	waitFor(t, func() bool { return n.n.Load() >= 1 })
	time.Sleep(300 * time.Millisecond)
	if got := n.n.Load(); got != 1 {
		t.Errorf("expected burst to fire once, got %d", got)
	}
}

func TestWatcher_IgnoresTempFiles(t *testing.T) {
	dir := t.TempDir()
	n, _ := startWatcher(t, []string{dir}, 10*time.Millisecond)

	if err := os.WriteFile(filepath.Join(dir, "summary.json.tmp"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(150 * time.Millisecond)
	if got := n.n.Load(); got != 0 {
		t.Errorf("expected temp file to be ignored, got %d fires", got)
	}
}

func TestNewWatcher_MissingDirectory(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope", "transcript.json")
	if _, err := NewWatcher([]string{missing}, 0, &countingNotifier{}, nil); err == nil {
		t.Error("expected error for unwatchable directory")
	}
}
