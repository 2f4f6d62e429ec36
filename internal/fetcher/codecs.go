package fetcher

import (
	"call-insights-dashboard/internal/models"
	"call-insights-dashboard/internal/schema"
)

// Insights fallback strings.
const (
	SummaryPlaceholder     = "Waiting for analysis..."
	SummaryNotFound        = "No summary found."
	SummaryLoadFailed      = "Failed to load summary from server."
	SummaryConnectionError = "Connection error. Ensure backend is running."
)

// TranscriptCodec normalizes /get-transcript. Status codes are not checked
// and failures keep the transcript already on screen.
type TranscriptCodec struct{}

func (TranscriptCodec) Placeholder() []models.TranscriptMessage { return nil }

func (TranscriptCodec) Decode(_ int, body []byte) ([]models.TranscriptMessage, Outcome, error) {
	msgs, err := schema.NormalizeTranscript(body)
	if err != nil {
		return nil, OutcomeFailed, err
	}
	if len(msgs) == 0 {
		return []models.TranscriptMessage{}, OutcomeEmpty, nil
	}
	return msgs, OutcomeLoaded, nil
}

func (TranscriptCodec) Fail(error) ([]models.TranscriptMessage, bool) { return nil, false }

// InsightsCodec normalizes /get-summary. Every failure class maps to its own
// display string; the raw error is never shown.
type InsightsCodec struct{}

func (InsightsCodec) Placeholder() models.InsightsSummary { return SummaryPlaceholder }

func (InsightsCodec) Decode(status int, body []byte) (models.InsightsSummary, Outcome, error) {
	if status < 200 || status > 299 {
		return SummaryLoadFailed, OutcomeHTTPError, nil
	}
	summary, found, err := schema.NormalizeSummary(body)
	if err != nil {
		return "", OutcomeFailed, err
	}
	if !found {
		return SummaryNotFound, OutcomeEmpty, nil
	}
	return summary, OutcomeLoaded, nil
}

func (InsightsCodec) Fail(error) (models.InsightsSummary, bool) {
	return SummaryConnectionError, true
}

// HistoryCodec normalizes /history with the same policy as transcripts.
type HistoryCodec struct{}

func (HistoryCodec) Placeholder() []models.HistoryEntry { return nil }

func (HistoryCodec) Decode(_ int, body []byte) ([]models.HistoryEntry, Outcome, error) {
	entries, err := schema.NormalizeHistory(body)
	if err != nil {
		return nil, OutcomeFailed, err
	}
	if len(entries) == 0 {
		return []models.HistoryEntry{}, OutcomeEmpty, nil
	}
	return entries, OutcomeLoaded, nil
}

func (HistoryCodec) Fail(error) ([]models.HistoryEntry, bool) { return nil, false }

// NewTranscript creates the transcript panel fetcher.
func NewTranscript(endpoint string, opts Options) (*Fetcher[[]models.TranscriptMessage], error) {
	return New[[]models.TranscriptMessage]("transcript", endpoint, TranscriptCodec{}, opts)
}

// NewInsights creates the insights panel fetcher.
func NewInsights(endpoint string, opts Options) (*Fetcher[models.InsightsSummary], error) {
	return New[models.InsightsSummary]("insights", endpoint, InsightsCodec{}, opts)
}

// NewHistory creates the history panel fetcher.
func NewHistory(endpoint string, opts Options) (*Fetcher[[]models.HistoryEntry], error) {
	return New[[]models.HistoryEntry]("history", endpoint, HistoryCodec{}, opts)
}
