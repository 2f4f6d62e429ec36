package view

import (
	"context"

	"call-insights-dashboard/internal/fetcher"
	"call-insights-dashboard/internal/models"
	"call-insights-dashboard/internal/observability/logging"
	"call-insights-dashboard/internal/refresh"
)

// History panel copy.
const (
	HistoryLoadingText = "Loading history..."
	HistoryEmptyTitle  = "No recent analyses"
)

// HistorySource is the history fetcher as seen by the view.
type HistorySource interface {
	Refresh(ctx context.Context) fetcher.Outcome
	Reset()
	State() fetcher.State[[]models.HistoryEntry]
}

// HistoryPanel is the rendered list of analysed uploads.
type HistoryPanel struct {
	State       PanelState            `json:"state"`
	Status      string                `json:"status,omitempty"`
	Entries     []models.HistoryEntry `json:"entries"`
	Placeholder *Placeholder          `json:"placeholder,omitempty"`
}

// HistoryView lists previously analysed uploads, newest first.
type HistoryView struct {
	*lifecycle
	source HistorySource
}

// NewHistoryView creates an unmounted history panel.
func NewHistoryView(source HistorySource, bus refresh.Subscriber, sessionId string) *HistoryView {
	return &HistoryView{
		lifecycle: newLifecycle(bus, source, logging.WithView("history", sessionId)),
		source:    source,
	}
}

// Render builds the panel with the same precedence as the transcript.
func (v *HistoryView) Render() HistoryPanel {
	st := v.source.State()
	switch {
	case st.Loading:
		return HistoryPanel{State: PanelLoading, Status: HistoryLoadingText, Entries: []models.HistoryEntry{}}
	case len(st.Value) > 0:
		return HistoryPanel{State: PanelContent, Entries: append([]models.HistoryEntry(nil), st.Value...)}
	default:
		return HistoryPanel{State: PanelEmpty, Entries: []models.HistoryEntry{}, Placeholder: &Placeholder{Title: HistoryEmptyTitle}}
	}
}
