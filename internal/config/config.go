// Package config loads dashboard configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Configuration is the root configuration for the dashboard process.
type Configuration struct {
	Service       ServiceConfig
	Backend       BackendConfig
	Kafka         KafkaConfig
	Watch         WatchConfig
	Observability ObservabilityConfig
}

// ServiceConfig holds the listening surfaces of the dashboard itself.
type ServiceConfig struct {
	Principal string `validate:"required"`
	HTTPPort  string `validate:"required,numeric"`
	GRPCPort  string `validate:"omitempty,numeric"` // empty disables the gRPC health service
}

// BackendConfig describes the analysis backend the panels poll.
type BackendConfig struct {
	BaseURL        string        `validate:"required,url"`
	TranscriptPath string        `validate:"required,startswith=/"`
	SummaryPath    string        `validate:"required,startswith=/"`
	HistoryPath    string        `validate:"required,startswith=/"`
	Timeout        time.Duration `validate:"gt=0"`
}

// KafkaConfig configures the upload-notification topic.
type KafkaConfig struct {
	Enabled      bool
	Brokers      []string `validate:"required_if=Enabled true"`
	TopicRefresh string   `validate:"required"`
	GroupID      string
	Principal    string
}

// WatchConfig configures the backend output file watcher.
type WatchConfig struct {
	Enabled  bool
	Paths    []string      `validate:"required_if=Enabled true"`
	Debounce time.Duration `validate:"gte=0"`
}

// ObservabilityConfig holds logging and metrics settings.
type ObservabilityConfig struct {
	LogLevel    string `validate:"oneof=trace debug info warn error fatal panic disabled"`
	LogFormat   string `validate:"oneof=json console"`
	MetricsAddr string
}

// Load reads the configuration from environment variables, falling back to
// defaults for anything unset or unparsable.
func Load() *Configuration {
	principal := envOrDefault("SERVICE_PRINCIPAL", "svc-call-insights-dashboard")

	return &Configuration{
		Service: ServiceConfig{
			Principal: principal,
			HTTPPort:  envOrDefault("HTTP_PORT", "8080"),
			GRPCPort:  os.Getenv("GRPC_PORT"),
		},
		Backend: BackendConfig{
			BaseURL:        strings.TrimRight(envOrDefault("BACKEND_BASE_URL", "http://localhost:8000"), "/"),
			TranscriptPath: envOrDefault("BACKEND_TRANSCRIPT_PATH", "/get-transcript"),
			SummaryPath:    envOrDefault("BACKEND_SUMMARY_PATH", "/get-summary"),
			HistoryPath:    envOrDefault("BACKEND_HISTORY_PATH", "/history"),
			Timeout:        envOrDefaultDuration("BACKEND_TIMEOUT", 10*time.Second),
		},
		Kafka: KafkaConfig{
			Enabled:      envOrDefaultBool("KAFKA_ENABLED", false),
			Brokers:      envOrDefaultList("KAFKA_BROKERS", nil),
			TopicRefresh: envOrDefault("KAFKA_TOPIC_REFRESH", "dashboard.upload.completed"),
			GroupID:      envOrDefault("KAFKA_GROUP_ID", "call-insights-dashboard"),
			Principal:    envOrDefault("KAFKA_PRINCIPAL", principal),
		},
		Watch: WatchConfig{
			Enabled:  envOrDefaultBool("WATCH_ENABLED", false),
			Paths:    envOrDefaultList("WATCH_PATHS", nil),
			Debounce: envOrDefaultDuration("WATCH_DEBOUNCE", 250*time.Millisecond),
		},
		Observability: ObservabilityConfig{
			LogLevel:    strings.ToLower(envOrDefault("LOG_LEVEL", "info")),
			LogFormat:   strings.ToLower(envOrDefault("LOG_FORMAT", "json")),
			MetricsAddr: envOrDefault("METRICS_ADDR", ":9090"),
		},
	}
}

// Validate checks the loaded configuration against its struct constraints.
func (c *Configuration) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Endpoint joins the backend base URL with one of its paths.
func (b BackendConfig) Endpoint(path string) string {
	return b.BaseURL + path
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

// envOrDefaultList splits a comma-separated value, dropping blank entries.
func envOrDefaultList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
