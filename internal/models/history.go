package models

// HistoryEntry is one previously analysed upload as listed by the backend.
type HistoryEntry struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Timestamp string `json:"timestamp"`
	Status    string `json:"status"`
}
