package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/couchcryptid/weather-forecast-service/internal/adapter/http"
	"github.com/couchcryptid/weather-forecast-service/internal/domain"
	"github.com/couchcryptid/weather-forecast-service/internal/forecast"
	"github.com/couchcryptid/weather-forecast-service/internal/observability"
)

type forecastBody struct {
	Date         string `json:"date"`
	TemperatureC int    `json:"temperatureC"`
	TemperatureF int    `json:"temperatureF"`
	Summary      string `json:"summary"`
}

type stubService struct {
	readyErr error
}

func (s *stubService) CheckReadiness(_ context.Context) error { return s.readyErr }

func (s *stubService) Forecasts(_ context.Context) []domain.WeatherForecast {
	return []domain.WeatherForecast{domain.NewWeatherForecast(domain.Date{Year: 2024, Month: time.January, Day: 2}, 10, "선선함")}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, svc httpadapter.ForecastService) (*httpadapter.Server, *observability.Metrics) {
	t.Helper()
	metrics := observability.NewMetricsForTesting()
	return httpadapter.NewServer(":0", svc, discardLogger(), metrics), metrics
}

func newForecastServer(t *testing.T) (*httpadapter.Server, *observability.Metrics) {
	t.Helper()
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2024, time.January, 1, 8, 0, 0, 0, time.UTC)))
	t.Cleanup(func() { domain.SetClock(nil) })

	metrics := observability.NewMetricsForTesting()
	rng := func() domain.Rand { return rand.New(rand.NewPCG(99, 1)) }
	svc := forecast.NewService(rng, nil, discardLogger(), metrics)
	return httpadapter.NewServer(":0", svc, discardLogger(), metrics), metrics
}

func get(srv http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHomeReturnsForecastLink(t *testing.T) {
	srv, _ := newTestServer(t, &stubService{})

	for range 3 {
		rec := get(srv, "/")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"weatherforecast":"/api/weatherforecast"}`, rec.Body.String())
	}
}

func TestForecastReturnsFiveRecords(t *testing.T) {
	srv, _ := newForecastServer(t)

	rec := get(srv, httpadapter.ForecastPath)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body []forecastBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 5)

	for i, f := range body {
		assert.Equal(t, fmt.Sprintf("2024-01-%02d", i+2), f.Date)
		assert.GreaterOrEqual(t, f.TemperatureC, -20)
		assert.LessOrEqual(t, f.TemperatureC, 54)
		assert.Equal(t, 32+int(math.Floor(float64(f.TemperatureC)/0.5556)), f.TemperatureF)
		assert.True(t, domain.IsSummary(f.Summary), "unexpected summary %q", f.Summary)
	}
}

func TestForecastSerializesFields(t *testing.T) {
	srv, _ := newTestServer(t, &stubService{})

	rec := get(srv, httpadapter.ForecastPath)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"date":"2024-01-02","temperatureC":10,"temperatureF":49,"summary":"선선함"}]`, rec.Body.String())
}

func TestUnknownRouteReturns404(t *testing.T) {
	srv, metrics := newTestServer(t, &stubService{})

	rec := get(srv, "/api/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues(http.MethodGet, "unmatched", "404")), 0)
}

func TestWrongMethodReturns405(t *testing.T) {
	srv, _ := newTestServer(t, &stubService{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, httpadapter.ForecastPath, nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRequestMetricsUseRoutePattern(t *testing.T) {
	srv, metrics := newTestServer(t, &stubService{})

	get(srv, "/")
	get(srv, httpadapter.ForecastPath)
	get(srv, httpadapter.ForecastPath)

	assert.InDelta(t, 1, testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues(http.MethodGet, "/", "200")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues(http.MethodGet, httpadapter.ForecastPath, "200")), 0)
}

func TestHealthzReturns200(t *testing.T) {
	srv, _ := newTestServer(t, &stubService{})

	rec := get(srv, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	srv, _ := newTestServer(t, &stubService{})

	rec := get(srv, "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	srv, _ := newTestServer(t, &stubService{readyErr: fmt.Errorf("forecast publisher is not running")})

	rec := get(srv, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "forecast publisher is not running", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, &stubService{})

	rec := get(srv, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
