// Command forecastgen writes reproducible forecast fixtures. It pins the
// domain clock and seeds the generator so the same flags always produce the
// same batch, in both the HTTP response shape and the Kafka event envelope.
//
// Usage:
//
//	go run ./cmd/forecastgen \
//	  -date 2024-01-01 -seed 42 \
//	  -out data/mock/forecast_240101.json \
//	  -event-out data/mock/forecast_issued_240101.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/weather-forecast-service/internal/domain"
	"github.com/jonboulle/clockwork"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	date := flag.String("date", "", "issue date (YYYY-MM-DD); forecasts start the following day")
	seed := flag.Uint64("seed", 1, "generator seed")
	out := flag.String("out", "", "output path for the forecast array fixture")
	eventOut := flag.String("event-out", "", "optional output path for the ForecastIssued event fixture")
	flag.Parse()

	if *date == "" || *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -date, -out")
	}

	issued, err := domain.ParseDate(*date)
	if err != nil {
		return err
	}

	// Fixed clock so dates and IssuedAt are reproducible.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(issued.Year, issued.Month, issued.Day, 6, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	forecasts := domain.GenerateForecasts(rand.New(rand.NewPCG(*seed, *seed)))
	for _, f := range forecasts {
		log.Printf("%s: %d°C / %d°F %s", f.Date(), f.TemperatureC(), f.TemperatureF(), f.Summary())
	}

	if err := writeJSON(*out, forecasts); err != nil {
		return fmt.Errorf("writing forecast fixture: %w", err)
	}
	log.Printf("wrote %d forecasts to %s", len(forecasts), *out)

	if *eventOut != "" {
		ev := domain.NewForecastIssued(forecasts)
		if err := writeJSON(*eventOut, ev); err != nil {
			return fmt.Errorf("writing event fixture: %w", err)
		}
		log.Printf("wrote event %s to %s", ev.ID, *eventOut)
	}
	return nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}
