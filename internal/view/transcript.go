package view

import (
	"context"
	"strings"
	"sync"

	"call-insights-dashboard/internal/fetcher"
	"call-insights-dashboard/internal/models"
	"call-insights-dashboard/internal/observability/logging"
	"call-insights-dashboard/internal/refresh"
)

// Transcript panel copy.
const (
	TranscriptLoadingText = "AI is processing audio..."
	TranscriptEmptyTitle  = "No active transcription"
	TranscriptEmptyHint   = "Upload a call file from the sidebar to begin."
)

// TranscriptSource is the transcript fetcher as seen by the view.
type TranscriptSource interface {
	Refresh(ctx context.Context) fetcher.Outcome
	Reset()
	State() fetcher.State[[]models.TranscriptMessage]
}

// RenderedMessage is one transcript bubble.
type RenderedMessage struct {
	Speaker string `json:"speaker"`
	Role    Role   `json:"role"`
	Label   string `json:"label"`
	Align   string `json:"align"`
	Time    string `json:"time"`
	Text    string `json:"text"`
}

// TranscriptPanel is the rendered transcript panel.
type TranscriptPanel struct {
	State       PanelState        `json:"state"`
	Status      string            `json:"status,omitempty"`
	Filter      string            `json:"filter"`
	Total       int               `json:"total"`
	Messages    []RenderedMessage `json:"messages"`
	Placeholder *Placeholder      `json:"placeholder,omitempty"`
}

// TranscriptView is the transcript panel with its live search filter.
type TranscriptView struct {
	*lifecycle
	source TranscriptSource

	mu     sync.RWMutex
	filter string
}

// NewTranscriptView creates an unmounted transcript panel.
func NewTranscriptView(source TranscriptSource, bus refresh.Subscriber, sessionId string) *TranscriptView {
	return &TranscriptView{
		lifecycle: newLifecycle(bus, source, logging.WithView("transcript", sessionId)),
		source:    source,
	}
}

// SetFilter replaces the search term. It never refetches.
func (v *TranscriptView) SetFilter(term string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.filter = term
}

// Filter returns the current search term.
func (v *TranscriptView) Filter() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.filter
}

// Render builds the panel from the last fetched transcript. Loading wins
// over stale content; a transcript that the filter narrows to nothing still
// renders as content.
func (v *TranscriptView) Render() TranscriptPanel {
	st := v.source.State()
	term := v.Filter()

	switch {
	case st.Loading:
		return TranscriptPanel{State: PanelLoading, Status: TranscriptLoadingText, Filter: term, Messages: []RenderedMessage{}}
	case len(st.Value) > 0:
		matched := FilterMessages(st.Value, term)
		rendered := make([]RenderedMessage, 0, len(matched))
		for _, m := range matched {
			rendered = append(rendered, renderMessage(m))
		}
		return TranscriptPanel{
			State:    PanelContent,
			Filter:   term,
			Total:    len(st.Value),
			Messages: rendered,
		}
	default:
		return TranscriptPanel{
			State:       PanelEmpty,
			Filter:      term,
			Messages:    []RenderedMessage{},
			Placeholder: &Placeholder{Title: TranscriptEmptyTitle, Hint: TranscriptEmptyHint},
		}
	}
}

// FilterMessages returns the messages whose text contains term, ignoring
// case. An empty term returns msgs unchanged.
func FilterMessages(msgs []models.TranscriptMessage, term string) []models.TranscriptMessage {
	if term == "" {
		return msgs
	}
	needle := strings.ToLower(term)
	var out []models.TranscriptMessage
	for _, m := range msgs {
		if strings.Contains(strings.ToLower(m.Text), needle) {
			out = append(out, m)
		}
	}
	return out
}

func renderMessage(m models.TranscriptMessage) RenderedMessage {
	role := ClassifySpeaker(m.Speaker)
	return RenderedMessage{
		Speaker: m.Speaker,
		Role:    role,
		Label:   role.Label(),
		Align:   role.Align(),
		Time:    m.Time,
		Text:    m.Text,
	}
}
