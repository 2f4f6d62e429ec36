// Package app is the composition root: it owns the refresh signal, the three
// panels and the triggers that fire the signal.
package app

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"call-insights-dashboard/internal/config"
	"call-insights-dashboard/internal/events"
	"call-insights-dashboard/internal/fetcher"
	"call-insights-dashboard/internal/observability/logging"
	"call-insights-dashboard/internal/observability/metrics"
	"call-insights-dashboard/internal/refresh"
	"call-insights-dashboard/internal/trigger"
	"call-insights-dashboard/internal/view"
)

// runner is a trigger adapter running until its context ends.
type runner interface {
	Run(ctx context.Context) error
	Close() error
}

// Option customizes an Application.
type Option func(*Application)

// WithMetrics records into m instead of the default registry.
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Application) { a.Metrics = m }
}

// WithHTTPClient sends backend requests through client.
func WithHTTPClient(client fetcher.Doer) Option {
	return func(a *Application) { a.client = client }
}

// Application holds process-wide state for the dashboard.
type Application struct {
	StartupTime time.Time
	SessionID   string
	Logger      zerolog.Logger
	Cfg         *config.Configuration
	Metrics     *metrics.Metrics
	Bus         *refresh.Signal

	client     fetcher.Doer
	transcript *view.TranscriptView
	insights   *view.InsightsView
	history    *view.HistoryView
	triggers   map[string]runner

	mu       sync.Mutex
	ready    bool
	cancel   context.CancelFunc
	running  sync.WaitGroup
	shutdown bool
}

// New constructs the bus, fetchers, panels and the configured triggers. No
// panel is mounted until Start.
func New(cfg *config.Configuration, opts ...Option) (*Application, error) {
	a := &Application{
		Cfg:       cfg,
		SessionID: uuid.NewString(),
		triggers:  map[string]runner{},
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.Metrics == nil {
		a.Metrics = metrics.DefaultMetrics
	}
	if a.client == nil {
		a.client = &http.Client{
			Timeout:   cfg.Backend.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	a.Logger = logging.WithComponent("application").With().
		Str("sessionId", a.SessionID).
		Logger()

	a.Bus = refresh.New(a.Metrics)

	fo := fetcher.Options{Client: a.client, Metrics: a.Metrics}
	tf, err := fetcher.NewTranscript(cfg.Backend.Endpoint(cfg.Backend.TranscriptPath), fo)
	if err != nil {
		return nil, fmt.Errorf("transcript fetcher: %w", err)
	}
	sf, err := fetcher.NewInsights(cfg.Backend.Endpoint(cfg.Backend.SummaryPath), fo)
	if err != nil {
		return nil, fmt.Errorf("insights fetcher: %w", err)
	}
	hf, err := fetcher.NewHistory(cfg.Backend.Endpoint(cfg.Backend.HistoryPath), fo)
	if err != nil {
		return nil, fmt.Errorf("history fetcher: %w", err)
	}

	a.transcript = view.NewTranscriptView(tf, a.Bus, a.SessionID)
	a.insights = view.NewInsightsView(sf, a.Bus, a.SessionID)
	a.history = view.NewHistoryView(hf, a.Bus, a.SessionID)

	if cfg.Kafka.Enabled && len(cfg.Kafka.Brokers) > 0 {
		a.triggers["kafka"] = events.NewConsumer(events.ConsumerConfig{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.TopicRefresh,
			GroupID: cfg.Kafka.GroupID,
			Metrics: a.Metrics,
		}, a.Bus)
	}
	if cfg.Watch.Enabled && len(cfg.Watch.Paths) > 0 {
		w, err := trigger.NewWatcher(cfg.Watch.Paths, cfg.Watch.Debounce, a.Bus, a.Metrics)
		if err != nil {
			return nil, fmt.Errorf("file watcher: %w", err)
		}
		a.triggers["watcher"] = w
	}

	a.Logger.Info().
		Str("backend", cfg.Backend.BaseURL).
		Int("triggers", len(a.triggers)).
		Msg("Call insights dashboard application created")
	return a, nil
}

// Start mounts every panel and launches the triggers.
func (a *Application) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.shutdown {
		return fmt.Errorf("application already shut down")
	}
	if a.cancel != nil {
		return nil
	}

	a.StartupTime = time.Now().UTC()
	runCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	a.transcript.Mount(runCtx)
	a.insights.Mount(runCtx)
	a.history.Mount(runCtx)

	for name, t := range a.triggers {
		a.running.Add(1)
		go func(name string, t runner) {
			defer a.running.Done()
			if err := t.Run(runCtx); err != nil {
				a.Logger.Error().Err(err).Str("trigger", name).Msg("Trigger stopped")
			}
		}(name, t)
	}

	a.ready = true
	a.Logger.Info().
		Time("startupTime", a.StartupTime).
		Msg("Call insights dashboard starting")
	return nil
}

// Shutdown stops the triggers and unmounts every panel. It is safe to call
// more than once.
func (a *Application) Shutdown() {
	a.mu.Lock()
	if a.shutdown {
		a.mu.Unlock()
		return
	}
	a.shutdown = true
	a.ready = false
	cancel := a.cancel
	a.mu.Unlock()

	a.Logger.Info().Msg("Call insights dashboard shutting down")

	if cancel != nil {
		cancel()
	}
	for name, t := range a.triggers {
		if err := t.Close(); err != nil {
			a.Logger.Warn().Err(err).Str("trigger", name).Msg("Error closing trigger")
		}
	}
	a.running.Wait()

	a.transcript.Unmount()
	a.insights.Unmount()
	a.history.Unmount()
}

// Ready reports whether the panels are mounted and the process is serving.
func (a *Application) Ready() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ready
}

// Wait blocks until every refresh started so far has completed.
func (a *Application) Wait() {
	a.transcript.Wait()
	a.insights.Wait()
	a.history.Wait()
}

// Transcript renders the transcript panel.
func (a *Application) Transcript() view.TranscriptPanel { return a.transcript.Render() }

// SetFilter replaces the transcript search term.
func (a *Application) SetFilter(term string) { a.transcript.SetFilter(term) }

// Insights renders the insights sidebar.
func (a *Application) Insights() view.InsightsPanel { return a.insights.Render() }

// History renders the history panel.
func (a *Application) History() view.HistoryPanel { return a.history.Render() }
