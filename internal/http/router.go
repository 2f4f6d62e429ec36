package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"call-insights-dashboard/internal/models"
	"call-insights-dashboard/internal/observability/metrics"
	"call-insights-dashboard/internal/refresh"
	"call-insights-dashboard/internal/view"
)

// maxRequestBytes caps request bodies on the write endpoints.
const maxRequestBytes = 64 << 10

// Dashboard is the set of mounted panels the router serves.
type Dashboard interface {
	Transcript() view.TranscriptPanel
	SetFilter(term string)
	Insights() view.InsightsPanel
	History() view.HistoryPanel
	Ready() bool
}

type filterRequest struct {
	Term *string `json:"term"`
}

type handlers struct {
	dashboard Dashboard
	notifier  refresh.Notifier
	metrics   *metrics.Metrics
}

// NewRouter constructs the HTTP router for the dashboard.
func NewRouter(d Dashboard, notifier refresh.Notifier, m *metrics.Metrics) http.Handler {
	if m == nil {
		m = metrics.DefaultMetrics
	}
	h := &handlers{dashboard: d, notifier: notifier, metrics: m}

	r := chi.NewRouter()

	// Basic middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(m))
	r.Use(middleware.Recoverer)

	r.Get("/", dashboardHandler)
	r.Get("/favicon.ico", faviconHandler)

	// Health endpoints
	r.Get("/v1/liveness", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/v1/readiness", h.readiness)

	// API routes
	r.Route("/v1", func(r chi.Router) {
		r.Get("/transcript", h.transcript)
		r.Put("/transcript/filter", h.setFilter)
		r.Get("/insights", h.insights)
		r.Get("/history", h.history)
		r.Post("/refresh", h.refresh)
	})

	return r
}

func (h *handlers) readiness(w http.ResponseWriter, _ *http.Request) {
	if !h.dashboard.Ready() {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (h *handlers) transcript(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.dashboard.Transcript())
}

func (h *handlers) setFilter(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if err := decodeBody(r, &req); err != nil || req.Term == nil {
		writeError(w, http.StatusBadRequest, `expected {"term": "..."}`)
		return
	}
	h.dashboard.SetFilter(*req.Term)
	writeJSON(w, http.StatusOK, h.dashboard.Transcript())
}

func (h *handlers) insights(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.dashboard.Insights())
}

func (h *handlers) history(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.dashboard.History())
}

// refresh fires the signal. The body, when present, only feeds the log line.
func (h *handlers) refresh(w http.ResponseWriter, r *http.Request) {
	var event models.RefreshEvent
	if err := decodeBody(r, &event); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "malformed refresh event")
		return
	}

	log.Info().
		Str("requestId", middleware.GetReqID(r.Context())).
		Str("fileName", event.FileName).
		Msg("Refresh requested over HTTP")
	h.metrics.RecordTrigger("http")
	h.notifier.Fire()

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBytes))
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
