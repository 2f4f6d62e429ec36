package schema

import (
	"errors"
	"testing"

	"call-insights-dashboard/internal/models"
)

func TestNormalizeTranscript_Records(t *testing.T) {
	body := []byte(`[
		{"speaker": "SPEAKER_00", "text": "Thanks for calling", "start": 125},
		{"speaker": "SPEAKER_01", "transcription": "I cannot log in", "start": 3725.9},
		{"text": "", "transcription": "fallback text"},
		{"speaker": "", "start": 0}
	]`)

	got, err := NormalizeTranscript(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []models.TranscriptMessage{
		{Speaker: "SPEAKER_00", Text: "Thanks for calling", Time: "02:05"},
		{Speaker: "SPEAKER_01", Text: "I cannot log in", Time: "02:05"},
		{Speaker: UnknownSpeaker, Text: "fallback text", Time: ZeroClock},
		{Speaker: UnknownSpeaker, Text: "", Time: ZeroClock},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d messages, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("message %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestNormalizeTranscript_StringStart(t *testing.T) {
	tests := []struct {
		start   string
		want    string
		wantErr bool
	}{
		{`"125"`, "02:05", false},
		{`" 65.5 "`, "01:05", false},
		{`"0"`, ZeroClock, false},
		{`""`, ZeroClock, false},
		{`"   "`, ZeroClock, false},
		{`"soon"`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.start, func(t *testing.T) {
			got, err := NormalizeTranscript([]byte(`[{"speaker": "SPEAKER_00", "text": "hi", "start": ` + tt.start + `}]`))
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedPayload) {
					t.Fatalf("expected malformed payload error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != 1 || got[0].Time != tt.want {
				t.Errorf("expected time %s, got %+v", tt.want, got)
			}
		})
	}
}

func TestNormalizeTranscript_EmptyPayloads(t *testing.T) {
	for _, body := range []string{`[]`, `null`, `{"detail": "Internal Server Error"}`, `""`, `42`, `true`} {
		t.Run(body, func(t *testing.T) {
			got, err := NormalizeTranscript([]byte(body))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != 0 {
				t.Errorf("expected empty result, got %v", got)
			}
		})
	}
}

func TestNormalizeTranscript_Malformed(t *testing.T) {
	for _, body := range []string{``, `[{"speaker":`, `"oops"`, `[null]`, `[{"start": 1e300}]`} {
		t.Run(body, func(t *testing.T) {
			_, err := NormalizeTranscript([]byte(body))
			if !errors.Is(err, ErrMalformedPayload) {
				t.Errorf("expected ErrMalformedPayload, got %v", err)
			}
		})
	}
}

func TestNormalizeTranscript_NonObjectRecords(t *testing.T) {
	got, err := NormalizeTranscript([]byte(`["loose text", 7]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, m := range got {
		if m.Speaker != UnknownSpeaker || m.Text != "" || m.Time != ZeroClock {
			t.Errorf("expected placeholder message, got %+v", m)
		}
	}
}

func TestNormalizeTranscript_NumericSpeaker(t *testing.T) {
	got, err := NormalizeTranscript([]byte(`[{"speaker": 100, "text": "hi"}]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0].Speaker != "100" {
		t.Errorf("expected numeric speaker to be kept, got %q", got[0].Speaker)
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		start float64
		want  string
	}{
		{125, "02:05"},
		{3725, "02:05"},
		{59.999, "00:59"},
		{1, "00:01"},
		{3599, "59:59"},
		{-0.5, "59:59"},
	}
	for _, tt := range tests {
		got, err := FormatClock(tt.start)
		if err != nil {
			t.Fatalf("FormatClock(%v): unexpected error: %v", tt.start, err)
		}
		if got != tt.want {
			t.Errorf("FormatClock(%v) = %s, want %s", tt.start, got, tt.want)
		}
	}
}

func TestNormalizeSummary(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantText  models.InsightsSummary
		wantFound bool
		wantErr   bool
	}{
		{"summary", `{"summary": "Ana called to reset her password."}`, "Ana called to reset her password.", true, false},
		{"empty summary", `{"summary": ""}`, "", false, false},
		{"missing field", `{"other": 1}`, "", false, false},
		{"null summary", `{"summary": null}`, "", false, false},
		{"numeric summary", `{"summary": 3}`, "3", true, false},
		{"object summary", `{"summary": {"text": "hi", "score": 1}}`, `{"score":1,"text":"hi"}`, true, false},
		{"array summary", `{"summary": ["greeting", "reset"]}`, `["greeting","reset"]`, true, false},
		{"empty array summary", `{"summary": []}`, `[]`, true, false},
		{"array body", `[]`, "", false, false},
		{"null body", `null`, "", false, true},
		{"invalid body", `<html>`, "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found, err := NormalizeSummary([]byte(tt.body))
			if (err != nil) != tt.wantErr {
				t.Fatalf("unexpected error state: %v", err)
			}
			if got != tt.wantText || found != tt.wantFound {
				t.Errorf("got (%q, %v), want (%q, %v)", got, found, tt.wantText, tt.wantFound)
			}
		})
	}
}

func TestNormalizeHistory(t *testing.T) {
	body := []byte(`[
		{"id": 2, "name": "call-2.wav", "timestamp": "10:15 AM", "status": "Ready"},
		"junk",
		{"id": 1, "name": "chat.txt", "timestamp": "09:02 AM", "status": "Ready"}
	]`)

	got, err := NormalizeHistory(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].ID != 2 || got[0].Name != "call-2.wav" || got[1].Status != "Ready" {
		t.Errorf("unexpected entries %+v", got)
	}

	if empty, err := NormalizeHistory([]byte(`{}`)); err != nil || len(empty) != 0 {
		t.Errorf("expected empty history for object body, got %v, %v", empty, err)
	}
}

func TestValidator_Clock(t *testing.T) {
	v := New()

	if err := v.Validate(models.TranscriptMessage{Speaker: "A", Time: "02:05"}); err != nil {
		t.Errorf("expected valid message, got %v", err)
	}
	if err := v.Validate(models.TranscriptMessage{Speaker: "A", Time: "2:5"}); !errors.Is(err, ErrMalformedPayload) {
		t.Errorf("expected clock violation, got %v", err)
	}
	if err := v.Validate(models.TranscriptMessage{Time: "00:00"}); !errors.Is(err, ErrMalformedPayload) {
		t.Errorf("expected missing speaker violation, got %v", err)
	}
}
