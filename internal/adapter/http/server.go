package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/couchcryptid/weather-forecast-service/internal/domain"
	"github.com/couchcryptid/weather-forecast-service/internal/observability"
)

// ForecastPath is the route serving generated forecasts.
const ForecastPath = "/api/weatherforecast"

// ForecastService produces forecast batches and reports readiness.
type ForecastService interface {
	sharedobs.ReadinessChecker
	Forecasts(ctx context.Context) []domain.WeatherForecast
}

// Server exposes the forecast API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	forecasts  ForecastService
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /, /api/weatherforecast, /healthz,
// /readyz, and /metrics routes.
func NewServer(addr string, forecasts ForecastService, logger *slog.Logger, metrics *observability.Metrics) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      traced(instrument(mux, metrics)),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		forecasts: forecasts,
		logger:    logger,
	}

	mux.HandleFunc("GET /{$}", handleHome)
	mux.HandleFunc("GET "+ForecastPath, s.handleForecasts)
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(forecasts))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func handleHome(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, map[string]string{"weatherforecast": ForecastPath})
}

func (s *Server) handleForecasts(w http.ResponseWriter, r *http.Request) {
	forecasts := s.forecasts.Forecasts(r.Context())
	s.logger.DebugContext(r.Context(), "forecasts generated", "count", len(forecasts))
	sharedobs.WriteJSON(w, http.StatusOK, forecasts)
}

// traced wraps h in OpenTelemetry server spans, skipping probe and scrape routes.
func traced(h http.Handler) http.Handler {
	return otelhttp.NewHandler(h, "http.server",
		otelhttp.WithFilter(func(r *http.Request) bool {
			switch r.URL.Path {
			case "/healthz", "/readyz", "/metrics":
				return false
			}
			return true
		}),
	)
}
