package models

// RefreshEventType is the eventType carried by upload-completed notifications.
const RefreshEventType = "dashboard.upload.completed"

// RefreshEvent announces that the backend finished processing an upload.
// Consumers treat it as a bare "data changed" pulse; the fields are for logs.
type RefreshEvent struct {
	EventType string `json:"eventType"`
	EventID   string `json:"eventId"`
	FileName  string `json:"fileName,omitempty"`
	Source    string `json:"source,omitempty"`
	Timestamp int64  `json:"timestamp"`
}
