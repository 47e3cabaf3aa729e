// Package domain models the synthetic weather forecast served by the API.
//
// # Forecast Records
//
// A forecast batch covers the five days following "today", where today is read
// once per batch from the package clock in server-local time:
//
//	offset 1..5  →  date = today + offset
//
// Each record draws its Celsius temperature uniformly from [-20, 54] and a
// summary uniformly from [Summaries]. The Fahrenheit value is derived at
// construction and cannot be set independently:
//
//	temperatureF = 32 + floor(temperatureC / 0.5556)
//
// The divisor is the rounded 5/9 used by the hosted sample apps, so results
// differ slightly from an exact conversion (10 °C → 49 °F rather than 50 °F).
//
// # Wire Format
//
//	{"date":"2024-01-02","temperatureC":10,"temperatureF":49,"summary":"선선함"}
//
// Dates serialize as ISO-8601 calendar dates without a time component.
package domain
