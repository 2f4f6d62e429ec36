package view

import (
	"context"

	"call-insights-dashboard/internal/fetcher"
	"call-insights-dashboard/internal/models"
	"call-insights-dashboard/internal/observability/logging"
	"call-insights-dashboard/internal/refresh"
)

// InsightsLoadingText replaces the summary while it is being fetched.
const InsightsLoadingText = "Generating summary..."

// Demo analytics. They are not derived from any fetch and stay on the panel
// until a sentiment/topic pipeline exists on the backend.
var (
	demoSentiment = models.SentimentGauge{Emoji: "😊", Percent: 85, Label: "85% Positive"}

	demoKeywords = []string{
		"Account Access",
		"Authentication",
		"Password Reset",
		"Security",
		"Error Message",
		"Customer Support",
		"Resolution",
		"Login Issue",
	}

	demoActionItems = []models.ActionItem{
		{ID: "1", Text: "Follow up with customer in 24 hours", Completed: false},
		{ID: "2", Text: "Update account security documentation", Completed: true},
		{ID: "3", Text: "Log issue in tracking system", Completed: true},
		{ID: "4", Text: "Send satisfaction survey", Completed: false},
	}
)

// InsightsSource is the summary fetcher as seen by the view.
type InsightsSource interface {
	Refresh(ctx context.Context) fetcher.Outcome
	Reset()
	State() fetcher.State[models.InsightsSummary]
}

// InsightsPanel is the rendered AI insights sidebar.
type InsightsPanel struct {
	Loading     bool                  `json:"loading"`
	Status      string                `json:"status,omitempty"`
	Summary     string                `json:"summary,omitempty"`
	Sentiment   models.SentimentGauge `json:"sentiment"`
	Keywords    []string              `json:"keywords"`
	ActionItems []models.ActionItem   `json:"actionItems"`
}

// InsightsView is the insights sidebar.
type InsightsView struct {
	*lifecycle
	source InsightsSource
}

// NewInsightsView creates an unmounted insights panel.
func NewInsightsView(source InsightsSource, bus refresh.Subscriber, sessionId string) *InsightsView {
	return &InsightsView{
		lifecycle: newLifecycle(bus, source, logging.WithView("insights", sessionId)),
		source:    source,
	}
}

// Render builds the sidebar. While loading the summary text is suppressed.
func (v *InsightsView) Render() InsightsPanel {
	st := v.source.State()

	p := InsightsPanel{
		Sentiment:   demoSentiment,
		Keywords:    append([]string(nil), demoKeywords...),
		ActionItems: append([]models.ActionItem(nil), demoActionItems...),
	}
	if st.Loading {
		p.Loading = true
		p.Status = InsightsLoadingText
		return p
	}
	p.Summary = string(st.Value)
	return p
}
