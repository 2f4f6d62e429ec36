package models

// InsightsSummary is the executive summary string for the active call.
type InsightsSummary string

// RawSummary is the backend summary payload before normalization.
type RawSummary struct {
	Summary any `json:"summary"`
}

// SentimentGauge is the customer sentiment readout.
type SentimentGauge struct {
	Emoji   string `json:"emoji"`
	Percent int    `json:"percent"`
	Label   string `json:"label"`
}

// ActionItem is one follow-up step for the call.
type ActionItem struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}
