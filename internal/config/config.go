package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Forecast feed configuration.
	KafkaEnabled       bool
	KafkaBrokers       []string
	KafkaTopic         string
	BatchSize          int
	BatchFlushInterval time.Duration
	PublishQueueSize   int

	// OpenTelemetry configuration. Tracing is off when OTLPEndpoint is empty.
	OTLPEndpoint string
	OTLPHeaders  map[string]string
	ServiceName  string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	queueSize, err := parsePublishQueueSize()
	if err != nil {
		return nil, err
	}

	kafkaEnabled, err := parseBool("KAFKA_ENABLED", false)
	if err != nil {
		return nil, err
	}

	httpAddr, err := parseHTTPAddr()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        httpAddr,
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		KafkaEnabled:       kafkaEnabled,
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:         sharedcfg.EnvOrDefault("KAFKA_TOPIC", "weather-forecasts"),
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,
		PublishQueueSize:   queueSize,

		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OTLPHeaders:  parseHeaders(os.Getenv("OTEL_EXPORTER_OTLP_HEADERS")),
		ServiceName:  sharedcfg.EnvOrDefault("OTEL_SERVICE_NAME", "weather-forecast-service"),
	}

	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_ENABLED is true")
	}

	return cfg, nil
}

// parseHTTPAddr prefers HTTP_ADDR, then the PORT and SERVER_PORT variables
// that app hosts inject.
func parseHTTPAddr() (string, error) {
	if addr := os.Getenv("HTTP_ADDR"); addr != "" {
		return addr, nil
	}
	for _, key := range []string{"PORT", "SERVER_PORT"} {
		s := os.Getenv(key)
		if s == "" {
			continue
		}
		port, err := strconv.Atoi(s)
		if err != nil || port < 1 || port > 65535 {
			return "", fmt.Errorf("invalid %s: must be 1-65535", key)
		}
		return ":" + s, nil
	}
	return ":8080", nil
}

func parsePublishQueueSize() (int, error) {
	s := os.Getenv("PUBLISH_QUEUE_SIZE")
	if s == "" {
		return 100, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, errors.New("invalid PUBLISH_QUEUE_SIZE: must be a positive integer")
	}
	return n, nil
}

func parseBool(key string, fallback bool) (bool, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s: must be true or false", key)
	}
	return v, nil
}

// parseHeaders reads the OTLP "k1=v1,k2=v2" header list. Malformed pairs are skipped.
func parseHeaders(s string) map[string]string {
	headers := map[string]string{}
	for _, pair := range strings.Split(s, ",") {
		k, v, ok := strings.Cut(pair, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			continue
		}
		headers[k] = strings.TrimSpace(v)
	}
	return headers
}
