package domain

// Rand is the random source used to draw temperatures and summaries.
// *math/rand/v2.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// GenerateForecasts returns ForecastDays records starting tomorrow. Today is
// read once from the package clock so a batch never straddles midnight.
func GenerateForecasts(rng Rand) []WeatherForecast {
	today := DateOf(clock.Now())

	forecasts := make([]WeatherForecast, 0, ForecastDays)
	for offset := 1; offset <= ForecastDays; offset++ {
		tempC := MinTemperatureC + rng.IntN(MaxTemperatureC-MinTemperatureC+1)
		summary := Summaries[rng.IntN(len(Summaries))]
		forecasts = append(forecasts, NewWeatherForecast(today.AddDays(offset), tempC, summary))
	}
	return forecasts
}
