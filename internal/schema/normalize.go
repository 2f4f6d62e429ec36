package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"call-insights-dashboard/internal/models"
)

const (
	// UnknownSpeaker labels records that carry no speaker.
	UnknownSpeaker = "UNKNOWN"
	// ZeroClock is the display time of records without a start offset.
	ZeroClock = "00:00"

	// maxInstantMillis bounds the offsets that map to a calendar instant.
	maxInstantMillis = 8.64e15
)

// payloadKind classifies the top-level JSON value of a body.
type payloadKind int

const (
	kindNull payloadKind = iota
	kindArray
	kindObject
	kindString
	kindOther
)

func classify(body []byte) (payloadKind, json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return kindOther, nil, fmt.Errorf("%w: empty body", ErrMalformedPayload)
	}
	if !json.Valid(trimmed) {
		return kindOther, nil, fmt.Errorf("%w: invalid JSON", ErrMalformedPayload)
	}
	switch trimmed[0] {
	case 'n':
		return kindNull, trimmed, nil
	case '[':
		return kindArray, trimmed, nil
	case '{':
		return kindObject, trimmed, nil
	case '"':
		return kindString, trimmed, nil
	default:
		return kindOther, trimmed, nil
	}
}

// NormalizeTranscript converts a /get-transcript body into messages in
// backend order. A nil slice with a nil error means the payload was empty;
// object, number and boolean bodies count as empty. A non-empty string body,
// a null record or an unrepresentable start offset is malformed.
func NormalizeTranscript(body []byte) ([]models.TranscriptMessage, error) {
	kind, raw, err := classify(body)
	if err != nil {
		return nil, err
	}

	switch kind {
	case kindArray:
	case kindString:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil || s != "" {
			return nil, fmt.Errorf("%w: transcript body is a string", ErrMalformedPayload)
		}
		return nil, nil
	default:
		return nil, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if len(items) == 0 {
		return nil, nil
	}

	messages := make([]models.TranscriptMessage, 0, len(items))
	for i, item := range items {
		var rec models.RawTranscriptRecord
		switch k, _, _ := classify(item); k {
		case kindNull:
			return nil, fmt.Errorf("%w: record %d is null", ErrMalformedPayload, i)
		case kindObject:
			if err := json.Unmarshal(item, &rec); err != nil {
				return nil, fmt.Errorf("%w: record %d: %v", ErrMalformedPayload, i, err)
			}
		}

		msg, err := normalizeRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if err := defaultValidator.Validate(msg); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func normalizeRecord(rec models.RawTranscriptRecord) (models.TranscriptMessage, error) {
	speaker := displayString(rec.Speaker)
	if speaker == "" {
		speaker = UnknownSpeaker
	}

	text := displayString(rec.Text)
	if text == "" {
		text = displayString(rec.Transcription)
	}

	clock := ZeroClock
	if start, ok := startOffset(rec.Start); ok {
		c, err := FormatClock(start)
		if err != nil {
			return models.TranscriptMessage{}, err
		}
		clock = c
	}

	return models.TranscriptMessage{Speaker: speaker, Text: text, Time: clock}, nil
}

// startOffset coerces a record's start to seconds. Numbers are taken as-is
// and strings are parsed; a string that is not a number yields NaN so the
// record is rejected. ok is false when the record has no offset.
func startOffset(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, t != 0
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN(), true
		}
		return f, true
	}
	return 0, false
}

// FormatClock renders a start offset in seconds as the minutes and seconds of
// the UTC instant that many seconds after the epoch. Hours are discarded and
// fractional milliseconds truncate toward zero, so 125 and 3725 both give "02:05".
func FormatClock(startSeconds float64) (string, error) {
	ms := startSeconds * 1000
	if math.IsNaN(ms) || math.Abs(ms) > maxInstantMillis {
		return "", fmt.Errorf("%w: start offset %v out of range", ErrMalformedPayload, startSeconds)
	}
	return time.UnixMilli(int64(ms)).UTC().Format("04:05"), nil
}

// NormalizeSummary extracts the summary string from a /get-summary body.
// found is false when the payload carries no usable summary. An object or
// array summary is returned as its JSON text. A null body is malformed.
func NormalizeSummary(body []byte) (summary models.InsightsSummary, found bool, err error) {
	kind, raw, err := classify(body)
	if err != nil {
		return "", false, err
	}

	switch kind {
	case kindNull:
		return "", false, fmt.Errorf("%w: summary body is null", ErrMalformedPayload)
	case kindObject:
		var rs models.RawSummary
		if err := json.Unmarshal(raw, &rs); err != nil {
			return "", false, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		switch v := rs.Summary.(type) {
		case map[string]any, []any:
			// Structured summaries are shown as compact JSON.
			b, err := json.Marshal(v)
			if err != nil {
				return "", false, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
			}
			return models.InsightsSummary(b), true, nil
		}
		if s := displayString(rs.Summary); s != "" {
			return models.InsightsSummary(s), true, nil
		}
	}
	return "", false, nil
}

type rawHistoryEntry struct {
	ID        any `json:"id"`
	Name      any `json:"name"`
	Timestamp any `json:"timestamp"`
	Status    any `json:"status"`
}

// NormalizeHistory converts a /history body into entries in backend order.
// Non-array bodies and non-object entries are treated as empty.
func NormalizeHistory(body []byte) ([]models.HistoryEntry, error) {
	kind, raw, err := classify(body)
	if err != nil {
		return nil, err
	}
	if kind != kindArray {
		return nil, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	var entries []models.HistoryEntry
	for _, item := range items {
		if k, _, _ := classify(item); k != kindObject {
			continue
		}
		var rh rawHistoryEntry
		if err := json.Unmarshal(item, &rh); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		entry := models.HistoryEntry{
			Name:      displayString(rh.Name),
			Timestamp: displayString(rh.Timestamp),
			Status:    displayString(rh.Status),
		}
		if id, ok := rh.ID.(float64); ok {
			entry.ID = int(id)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// displayString coerces a decoded JSON scalar to display text. Empty strings,
// zero, false, null and composite values yield "".
func displayString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == 0 || math.IsNaN(t) {
			return ""
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		if t {
			return "true"
		}
	}
	return ""
}
