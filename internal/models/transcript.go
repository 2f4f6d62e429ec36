// Package models defines the data structures shown on the dashboard panels.
package models

// TranscriptMessage is one normalized utterance of the active call.
type TranscriptMessage struct {
	Speaker string `json:"speaker" validate:"required"`
	Text    string `json:"text"`
	Time    string `json:"time" validate:"clock"`
}

// RawTranscriptRecord is a backend transcript row before normalization.
// Fields stay untyped because the backend emits whatever its CSV held.
type RawTranscriptRecord struct {
	Speaker       any `json:"speaker"`
	Text          any `json:"text"`
	Transcription any `json:"transcription"`
	Start         any `json:"start"`
}
