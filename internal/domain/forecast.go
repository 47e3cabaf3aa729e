package domain

import (
	"encoding/json"
	"math"
	"slices"
)

// Temperature bounds for generated forecasts, inclusive.
const (
	MinTemperatureC = -20
	MaxTemperatureC = 54
)

// ForecastDays is the number of records in a forecast batch.
const ForecastDays = 5

// fahrenheitDivisor approximates 5/9 the same way the hosted sample apps do.
const fahrenheitDivisor = 0.5556

// Summaries is the fixed set of localized weather descriptions, coldest first.
var Summaries = []string{
	"매우 추움",
	"쌀쌀함",
	"추움",
	"선선함",
	"온화함",
	"따뜻함",
	"포근함",
	"더움",
	"무더움",
	"타는 듯함",
}

// IsSummary reports whether s is one of the fixed summaries.
func IsSummary(s string) bool {
	return slices.Contains(Summaries, s)
}

// CelsiusToFahrenheit applies the forecast conversion: 32 + floor(c / 0.5556).
func CelsiusToFahrenheit(c int) int {
	return 32 + int(math.Floor(float64(c)/fahrenheitDivisor))
}

// WeatherForecast is one day's synthetic forecast. It is immutable: the
// Fahrenheit value is derived once in NewWeatherForecast.
type WeatherForecast struct {
	date         Date
	temperatureC int
	temperatureF int
	summary      string
}

// NewWeatherForecast builds a forecast and derives its Fahrenheit temperature.
func NewWeatherForecast(date Date, temperatureC int, summary string) WeatherForecast {
	return WeatherForecast{
		date:         date,
		temperatureC: temperatureC,
		temperatureF: CelsiusToFahrenheit(temperatureC),
		summary:      summary,
	}
}

func (f WeatherForecast) Date() Date { return f.date }
func (f WeatherForecast) TemperatureC() int { return f.temperatureC }
func (f WeatherForecast) TemperatureF() int { return f.temperatureF }
func (f WeatherForecast) Summary() string { return f.summary }

// forecastJSON is the wire shape of a WeatherForecast.
type forecastJSON struct {
	Date         Date   `json:"date"`
	TemperatureC int    `json:"temperatureC"`
	TemperatureF int    `json:"temperatureF"`
	Summary      string `json:"summary"`
}

func (f WeatherForecast) MarshalJSON() ([]byte, error) {
	return json.Marshal(forecastJSON{
		Date:         f.date,
		TemperatureC: f.temperatureC,
		TemperatureF: f.temperatureF,
		Summary:      f.summary,
	})
}

// UnmarshalJSON decodes a forecast and re-derives TemperatureF from
// TemperatureC, discarding whatever Fahrenheit value was encoded.
func (f *WeatherForecast) UnmarshalJSON(data []byte) error {
	var raw forecastJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*f = NewWeatherForecast(raw.Date, raw.TemperatureC, raw.Summary)
	return nil
}
