package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/segmentio/kafka-go"

	"call-insights-dashboard/internal/models"
	"call-insights-dashboard/internal/observability/metrics"
)

type recordingWriter struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func enabledPublisher(w messageWriter, m *metrics.Metrics) *Publisher {
	return &Publisher{
		writer:    w,
		principal: "test-svc",
		topic:     "test.refresh",
		enabled:   true,
		metrics:   m,
		now:       func() time.Time { return time.UnixMilli(1700000000000) },
	}
}

func TestNewPublisher_DisabledMode(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{"nil config", nil},
		{"disabled", &Config{Enabled: false, Brokers: []string{"localhost:9092"}}},
		{"no brokers", &Config{Enabled: true, Brokers: []string{}}},
		{"empty brokers", &Config{Enabled: true, Brokers: nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPublisher(tt.cfg)
			if p == nil {
				t.Fatal("expected non-nil publisher")
			}
			if p.enabled {
				t.Error("expected publisher to be disabled")
			}
			if p.writer != nil {
				t.Error("expected nil writer when disabled")
			}
		})
	}
}

func TestNewPublisher_ConfigValues(t *testing.T) {
	p := NewPublisher(&Config{
		Enabled:   false,
		Brokers:   []string{"localhost:9092"},
		Topic:     "test.refresh",
		Principal: "test-principal",
	})

	if p.principal != "test-principal" {
		t.Errorf("expected principal 'test-principal', got %s", p.principal)
	}
	if p.topic != "test.refresh" {
		t.Errorf("expected topic 'test.refresh', got %s", p.topic)
	}
}

func TestPublisher_PublishRefresh_Disabled(t *testing.T) {
	m := metrics.NewMetrics(prometheus.NewRegistry())
	p := NewPublisher(&Config{Enabled: false, Topic: "test.refresh", Metrics: m})

	if err := p.PublishRefresh(context.Background(), models.RefreshEvent{FileName: "call.wav"}); err != nil {
		t.Errorf("expected no error when disabled, got %v", err)
	}
	if got := testutil.ToFloat64(m.KafkaPublishTotal.WithLabelValues("test.refresh")); got != 1 {
		t.Errorf("expected log-only publish to be counted, got %v", got)
	}
}

func TestPublisher_PublishRefresh_FillsDefaults(t *testing.T) {
	w := &recordingWriter{}
	p := enabledPublisher(w, metrics.NewMetrics(prometheus.NewRegistry()))

	if err := p.PublishRefresh(context.Background(), models.RefreshEvent{FileName: "call.wav", Source: "cli"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(w.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(w.msgs))
	}

	msg := w.msgs[0]
	if string(msg.Key) != "call.wav" {
		t.Errorf("expected key call.wav, got %s", msg.Key)
	}
	var event models.RefreshEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if event.EventType != models.RefreshEventType {
		t.Errorf("expected eventType %s, got %s", models.RefreshEventType, event.EventType)
	}
	if event.EventID == "" {
		t.Error("expected generated eventId")
	}
	if event.Timestamp != 1700000000000 {
		t.Errorf("expected timestamp from clock, got %d", event.Timestamp)
	}

	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	if headers["eventType"] != models.RefreshEventType || headers["principal"] != "test-svc" {
		t.Errorf("unexpected headers %v", headers)
	}
}

func TestPublisher_PublishRefresh_WriteError(t *testing.T) {
	m := metrics.NewMetrics(prometheus.NewRegistry())
	w := &recordingWriter{err: errors.New("broker down")}
	p := enabledPublisher(w, m)

	if err := p.PublishRefresh(context.Background(), models.RefreshEvent{}); err == nil {
		t.Fatal("expected write error")
	}
	if got := testutil.ToFloat64(m.KafkaPublishErrors.WithLabelValues("test.refresh")); got != 1 {
		t.Errorf("expected 1 publish error, got %v", got)
	}
}

func TestPublisher_Close(t *testing.T) {
	if err := NewPublisher(&Config{Enabled: false}).Close(); err != nil {
		t.Errorf("expected no error closing disabled publisher, got %v", err)
	}

	w := &recordingWriter{}
	if err := enabledPublisher(w, metrics.NewMetrics(prometheus.NewRegistry())).Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !w.closed {
		t.Error("expected writer to be closed")
	}
}
