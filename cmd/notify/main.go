// Command notify announces a completed upload so running dashboards refresh.
// By default it publishes to the Kafka refresh topic configured through the
// environment; with -http it POSTs the dashboard's refresh endpoint instead.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"call-insights-dashboard/internal/config"
	"call-insights-dashboard/internal/events"
	"call-insights-dashboard/internal/models"
	"call-insights-dashboard/internal/observability/logging"
)

func main() {
	file := flag.String("file", "", "Name of the uploaded file")
	source := flag.String("source", "notify-cli", "Source recorded on the event")
	httpURL := flag.String("http", "", "Dashboard base URL; POST /v1/refresh instead of publishing to Kafka")
	timeout := flag.Duration("timeout", 10*time.Second, "Overall timeout")
	flag.Parse()

	cfg := config.Load()
	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Observability.LogLevel
	logCfg.Format = "console"
	logCfg.Service = "notify"
	logging.Init(logCfg)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	event := models.RefreshEvent{
		EventType: models.RefreshEventType,
		EventID:   uuid.NewString(),
		FileName:  *file,
		Source:    *source,
		Timestamp: time.Now().UnixMilli(),
	}

	if *httpURL != "" {
		if err := postRefresh(ctx, *httpURL, event); err != nil {
			log.Fatal().Err(err).Msg("Failed to request refresh")
		}
		log.Info().Str("eventId", event.EventID).Msg("Refresh accepted")
		return
	}

	publisher := events.NewPublisher(&events.Config{
		Enabled:   cfg.Kafka.Enabled,
		Brokers:   cfg.Kafka.Brokers,
		Topic:     cfg.Kafka.TopicRefresh,
		Principal: cfg.Kafka.Principal,
	})
	defer publisher.Close()

	if err := publisher.PublishRefresh(ctx, event); err != nil {
		log.Fatal().Err(err).Msg("Failed to publish refresh event")
	}
	log.Info().
		Str("eventId", event.EventID).
		Str("topic", cfg.Kafka.TopicRefresh).
		Msg("Refresh event published")
}

func postRefresh(ctx context.Context, baseURL string, event models.RefreshEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	url := strings.TrimRight(baseURL, "/") + "/v1/refresh"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("unexpected status %s from %s", resp.Status, url)
	}
	return nil
}
