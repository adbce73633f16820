package weather

import (
	"context"
	"time"

	"github.com/i474232898/weather-dashboard/internal/forecast"
)

// ProviderReading represents a single provider's normalized reading
// that can be aggregated into Conditions.
type ProviderReading struct {
	ProviderName string
	Timestamp    time.Time
	Name         string

	TemperatureC float64
	HumidityPct  float64
	WindSpeedMS  float64
	UVIndex      float64
	Description  string
	Condition    Condition
}

// Provider abstracts a weather data source (e.g. OpenWeatherMap, WeatherAPI, Open-Meteo).
type Provider interface {
	Name() string
	Fetch(ctx context.Context, loc Location) (ProviderReading, error)
}

// ForecastProvider is a Provider that can also return raw forecast samples.
type ForecastProvider interface {
	Provider
	FetchForecast(ctx context.Context, loc Location, days int) ([]forecast.Sample, error)
}

// Store is the short-lived cache the service reads through.
type Store interface {
	SaveConditions(loc Location, c Conditions)
	GetConditions(loc Location) (Conditions, error)
	SaveSamples(loc Location, samples []forecast.Sample)
	GetSamples(loc Location) ([]forecast.Sample, error)
}
