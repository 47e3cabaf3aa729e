package domain

import (
	"time"

	"github.com/google/uuid"
)

// ForecastIssued is the envelope published to the forecast feed for every
// generated batch.
type ForecastIssued struct {
	ID        string            `json:"id"`
	IssuedAt  time.Time         `json:"issued_at"`
	Forecasts []WeatherForecast `json:"forecasts"`
}

// NewForecastIssued wraps a batch with a random ID and the current clock time.
func NewForecastIssued(forecasts []WeatherForecast) ForecastIssued {
	return ForecastIssued{
		ID:        uuid.NewString(),
		IssuedAt:  clock.Now().UTC(),
		Forecasts: forecasts,
	}
}
