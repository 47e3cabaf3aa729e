package forecast

import (
	"context"
	"log/slog"
	"math/rand/v2"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/couchcryptid/weather-forecast-service/internal/domain"
	"github.com/couchcryptid/weather-forecast-service/internal/observability"
)

// Publisher receives every generated batch. pipeline.Publisher implements it.
type Publisher interface {
	Submit(event domain.ForecastIssued) bool
	CheckReadiness(ctx context.Context) error
}

// RandFactory returns the random source for one batch.
type RandFactory func() domain.Rand

// Service generates forecast batches for the HTTP layer and feeds them to an
// optional publisher.
type Service struct {
	newRand   RandFactory
	publisher Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewService creates a Service. Pass a nil publisher to disable the forecast
// feed and a nil factory to seed a fresh generator for every call.
func NewService(newRand RandFactory, publisher Publisher, logger *slog.Logger, metrics *observability.Metrics) *Service {
	if newRand == nil {
		newRand = freshRand
	}
	return &Service{
		newRand:   newRand,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}
}

// Forecasts generates a batch of domain.ForecastDays records starting tomorrow.
// Feed publication is best-effort and never fails the call.
func (s *Service) Forecasts(ctx context.Context) []domain.WeatherForecast {
	forecasts := domain.GenerateForecasts(s.newRand())

	// Annotates the request span started by otelhttp, if any.
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(
		attribute.Int("forecast.count", len(forecasts)),
		attribute.String("forecast.first_date", forecasts[0].Date().String()),
	)

	s.metrics.ForecastsGenerated.Add(float64(len(forecasts)))
	for _, f := range forecasts {
		s.metrics.TemperatureC.Observe(float64(f.TemperatureC()))
	}

	if s.publisher != nil {
		event := domain.NewForecastIssued(forecasts)
		queued := s.publisher.Submit(event)
		span.AddEvent("forecast.submitted", trace.WithAttributes(
			attribute.String("event.id", event.ID),
			attribute.Bool("event.queued", queued),
		))
		if queued {
			s.logger.DebugContext(ctx, "forecast batch queued", "event_id", event.ID)
		}
	}

	return forecasts
}

// CheckReadiness reports the publisher's readiness, or nil when the feed is disabled.
func (s *Service) CheckReadiness(ctx context.Context) error {
	if s.publisher == nil {
		return nil
	}
	return s.publisher.CheckReadiness(ctx)
}

func freshRand() domain.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
