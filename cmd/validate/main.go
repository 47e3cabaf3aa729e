// Command validate checks the forecast API's observable contract against a
// running service, or against a fixture written by forecastgen. It verifies
// the root link, record count, date sequence, temperature range, Fahrenheit
// derivation, and summary set.
//
// Usage:
//
//	go run ./cmd/validate -url http://localhost:8080 -n 5
//	go run ./cmd/validate -file data/mock/forecast_240101.json -today 2024-01-01
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/couchcryptid/weather-forecast-service/internal/adapter/forecastapi"
	"github.com/couchcryptid/weather-forecast-service/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	baseURL := flag.String("url", "", "base URL of a running service")
	file := flag.String("file", "", "path to a forecast JSON fixture")
	today := flag.String("today", "", "server date (YYYY-MM-DD) the batch was generated on; defaults to the local date")
	rounds := flag.Int("n", 3, "number of forecast batches to fetch from -url")
	timeout := flag.Duration("timeout", 10*time.Second, "per-request timeout")
	flag.Parse()

	if (*baseURL == "") == (*file == "") {
		fmt.Fprintln(os.Stderr, "exactly one of -url or -file is required")
		flag.Usage()
		os.Exit(1)
	}

	ref := domain.DateOf(time.Now())
	if *today != "" {
		d, err := domain.ParseDate(*today)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
			os.Exit(1)
		}
		ref = d
	}

	var code int
	if *file != "" {
		code = runFile(*file, ref)
	} else {
		code = runURL(*baseURL, *rounds, *timeout, ref)
	}
	os.Exit(code)
}

func runFile(path string, today domain.Date) int {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: read fixture: %v\n", err)
		return 1
	}
	var batch []forecastapi.Forecast
	if err := json.Unmarshal(data, &batch); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: decode fixture: %v\n", err)
		return 1
	}

	fmt.Println("=== Forecast Fixture Validation ===")
	return report(validateBatches([][]forecastapi.Forecast{batch}, today))
}

func runURL(baseURL string, rounds int, timeout time.Duration, today domain.Date) int {
	client := forecastapi.NewClient(baseURL, timeout, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	fmt.Println("=== Forecast API Validation ===")
	fmt.Println(baseURL)

	home := &phase{name: "Root link"}
	links, err := client.Home(ctx)
	if err != nil {
		home.errorf("GET /: %v", err)
	} else {
		checkHome(home, links)
	}

	batches := make([][]forecastapi.Forecast, 0, rounds)
	for i := range rounds {
		batch, err := client.Forecasts(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: fetch batch %d: %v\n", i+1, err)
			return 1
		}
		batches = append(batches, batch)
	}

	return report(append([]*phase{home}, validateBatches(batches, today)...))
}

func report(phases []*phase) int {
	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-32s %s\n", p.name, status)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func checkHome(p *phase, links map[string]string) {
	if len(links) != 1 || links["weatherforecast"] != "/api/weatherforecast" {
		p.errorf(`want {"weatherforecast":"/api/weatherforecast"}, got %v`, links)
	}
}

// validateBatches runs every per-record phase over all batches.
func validateBatches(batches [][]forecastapi.Forecast, today domain.Date) []*phase {
	count := &phase{name: "Record count"}
	dates := &phase{name: "Date sequence"}
	temps := &phase{name: "Temperature range"}
	fahrenheit := &phase{name: "Fahrenheit derivation"}
	summaries := &phase{name: "Summary set"}

	for b, batch := range batches {
		if len(batch) != domain.ForecastDays {
			count.errorf("batch %d: want %d records, got %d", b+1, domain.ForecastDays, len(batch))
		}
		checkDates(dates, b, batch, today)
		for i, f := range batch {
			if f.TemperatureC < domain.MinTemperatureC || f.TemperatureC > domain.MaxTemperatureC {
				temps.errorf("batch %d record %d: temperatureC %d outside [%d, %d]",
					b+1, i, f.TemperatureC, domain.MinTemperatureC, domain.MaxTemperatureC)
			}
			if want := domain.CelsiusToFahrenheit(f.TemperatureC); f.TemperatureF != want {
				fahrenheit.errorf("batch %d record %d: temperatureF %d, want %d for %d°C",
					b+1, i, f.TemperatureF, want, f.TemperatureC)
			}
			if !domain.IsSummary(f.Summary) {
				summaries.errorf("batch %d record %d: unknown summary %q", b+1, i, f.Summary)
			}
		}
	}

	return []*phase{count, dates, temps, fahrenheit, summaries}
}

// checkDates requires consecutive days starting the day after today. The
// server and this tool may straddle midnight, so a batch starting one day
// later is also accepted.
func checkDates(p *phase, b int, batch []forecastapi.Forecast, today domain.Date) {
	var prev domain.Date
	for i, f := range batch {
		d, err := domain.ParseDate(f.Date)
		if err != nil {
			p.errorf("batch %d record %d: %v", b+1, i, err)
			return
		}
		if i == 0 {
			if offset := today.DaysUntil(d); offset != 1 && offset != 2 {
				p.errorf("batch %d: first date %s is %d days from %s, want tomorrow", b+1, d, offset, today)
			}
		} else if prev.DaysUntil(d) != 1 {
			p.errorf("batch %d record %d: date %s does not follow %s", b+1, i, d, prev)
		}
		prev = d
	}
}
