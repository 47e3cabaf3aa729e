package observability_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/couchcryptid/weather-forecast-service/internal/config"
	"github.com/couchcryptid/weather-forecast-service/internal/observability"
)

func TestNewLogger_SetsDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	logger := observability.NewLogger(&config.Config{LogLevel: "debug", LogFormat: "json", ServiceName: "weather-forecast-service"})

	assert.Same(t, logger, slog.Default())
	assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
}

func TestSetupTracing_NoEndpoint(t *testing.T) {
	shutdown, err := observability.SetupTracing(context.Background(), &config.Config{ServiceName: "test"})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))

	fields := otel.GetTextMapPropagator().Fields()
	assert.Contains(t, fields, "traceparent")
	assert.Contains(t, fields, "baggage")
}

func TestSetupTracing_WithEndpoint(t *testing.T) {
	shutdown, err := observability.SetupTracing(context.Background(), &config.Config{
		ServiceName:  "test",
		OTLPEndpoint: "http://127.0.0.1:4317",
		OTLPHeaders:  map[string]string{"x-api-key": "secret"},
	})
	require.NoError(t, err)
	assert.IsType(t, &sdktrace.TracerProvider{}, otel.GetTracerProvider())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = shutdown(ctx)
}

func TestNewMetricsForTesting_Independent(t *testing.T) {
	a := observability.NewMetricsForTesting()
	b := observability.NewMetricsForTesting()

	a.ForecastsGenerated.Add(5)
	a.PublishDropped.Inc()

	assert.InDelta(t, 5, testutil.ToFloat64(a.ForecastsGenerated), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(b.ForecastsGenerated), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(a.PublishDropped), 0)
}
