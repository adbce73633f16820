package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-dashboard/internal/forecast"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

var errCityNotFound = errors.New("city not found")

// OpenMeteoProvider implements weather.ForecastProvider for Open-Meteo.
// It needs no API key: cities are resolved through the Open-Meteo
// geocoding endpoint and the coordinates are cached.
type OpenMeteoProvider struct {
	name       string
	baseURL    string
	geocodeURL string
	httpCfg    HTTPClientConfig
	circuit    *gobreaker.CircuitBreaker

	mu     sync.RWMutex
	places map[string]place
}

type place struct {
	Name      string
	Latitude  float64
	Longitude float64
}

func NewOpenMeteoProvider(client *http.Client) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		name:       "openmeteo",
		baseURL:    "https://api.open-meteo.com/v1/forecast",
		geocodeURL: "https://geocoding-api.open-meteo.com/v1/search",
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: defaultBackoff,
		},
		circuit: newCircuitBreaker("openmeteo"),
		places:  make(map[string]place),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) resolve(ctx context.Context, loc weather.Location) (place, error) {
	key := loc.Key()
	p.mu.RLock()
	pl, ok := p.places[key]
	p.mu.RUnlock()
	if ok {
		return pl, nil
	}

	values := url.Values{}
	values.Set("name", loc.City)
	values.Set("count", "10")
	values.Set("language", "en")
	values.Set("format", "json")

	var payload struct {
		Results []struct {
			Name        string  `json:"name"`
			Latitude    float64 `json:"latitude"`
			Longitude   float64 `json:"longitude"`
			CountryCode string  `json:"country_code"`
		} `json:"results"`
	}
	if err := getJSON(ctx, p.httpCfg, p.circuit, p.geocodeURL+"?"+values.Encode(), &payload); err != nil {
		return place{}, fmt.Errorf("openmeteo geocode: %w", err)
	}

	found := false
	for _, r := range payload.Results {
		if loc.Country != "" && !strings.EqualFold(r.CountryCode, loc.Country) {
			continue
		}
		pl = place{Name: r.Name, Latitude: r.Latitude, Longitude: r.Longitude}
		found = true
		break
	}
	if !found {
		return place{}, fmt.Errorf("openmeteo geocode %q: %w", loc.Query(), errCityNotFound)
	}

	p.mu.Lock()
	p.places[key] = pl
	p.mu.Unlock()
	return pl, nil
}

type openMeteoPayload struct {
	CurrentWeather struct {
		Time        int64   `json:"time"`
		Temperature float64 `json:"temperature"`
		WindSpeed   float64 `json:"windspeed"`
		WeatherCode int     `json:"weathercode"`
	} `json:"current_weather"`
	Hourly struct {
		Time        []int64   `json:"time"`
		Temperature []float64 `json:"temperature_2m"`
		Humidity    []float64 `json:"relative_humidity_2m"`
	} `json:"hourly"`
}

func (p *OpenMeteoProvider) query(ctx context.Context, pl place, days int) (openMeteoPayload, error) {
	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%f", pl.Latitude))
	values.Set("longitude", fmt.Sprintf("%f", pl.Longitude))
	values.Set("current_weather", "true")
	values.Set("hourly", "temperature_2m,relative_humidity_2m")
	values.Set("wind_speed_unit", "ms")
	values.Set("timeformat", "unixtime")
	values.Set("timezone", "UTC")
	values.Set("forecast_days", fmt.Sprintf("%d", days))

	var payload openMeteoPayload
	err := getJSON(ctx, p.httpCfg, p.circuit, p.baseURL+"?"+values.Encode(), &payload)
	return payload, err
}

func (p *OpenMeteoProvider) Fetch(ctx context.Context, loc weather.Location) (weather.ProviderReading, error) {
	pl, err := p.resolve(ctx, loc)
	if err != nil {
		return weather.ProviderReading{}, err
	}

	payload, err := p.query(ctx, pl, 1)
	if err != nil {
		return weather.ProviderReading{}, fmt.Errorf("openmeteo current: %w", err)
	}

	cw := payload.CurrentWeather
	ts := time.Now().UTC()
	if cw.Time > 0 {
		ts = time.Unix(cw.Time, 0).UTC()
	}

	// current_weather has no humidity; take the hourly value for the current hour.
	humidity := 0.0
	for i, t := range payload.Hourly.Time {
		if i >= len(payload.Hourly.Humidity) {
			break
		}
		if t <= cw.Time {
			humidity = payload.Hourly.Humidity[i]
		}
	}

	cond := mapOpenMeteoCondition(cw.WeatherCode)
	return weather.ProviderReading{
		ProviderName: p.name,
		Timestamp:    ts,
		Name:         pl.Name,
		TemperatureC: cw.Temperature,
		HumidityPct:  humidity,
		WindSpeedMS:  cw.WindSpeed,
		Description:  openMeteoDescription(cw.WeatherCode),
		Condition:    cond,
	}, nil
}

func (p *OpenMeteoProvider) FetchForecast(ctx context.Context, loc weather.Location, days int) ([]forecast.Sample, error) {
	if days <= 0 {
		days = forecast.DefaultHorizon
	}
	pl, err := p.resolve(ctx, loc)
	if err != nil {
		return nil, err
	}

	payload, err := p.query(ctx, pl, days)
	if err != nil {
		return nil, fmt.Errorf("openmeteo forecast: %w", err)
	}

	n := len(payload.Hourly.Time)
	if len(payload.Hourly.Temperature) < n {
		n = len(payload.Hourly.Temperature)
	}
	samples := make([]forecast.Sample, 0, n)
	for i := 0; i < n; i++ {
		samples = append(samples, forecast.Sample{
			Timestamp:   time.Unix(payload.Hourly.Time[i], 0).UTC(),
			Temperature: payload.Hourly.Temperature[i],
		})
	}
	return samples, nil
}

func mapOpenMeteoCondition(code int) weather.Condition {
	// Mapping based on WMO weather codes (simplified).
	switch {
	case code == 0:
		return weather.ConditionClear
	case code >= 1 && code <= 3:
		return weather.ConditionCloudy
	case code == 45 || code == 48:
		return weather.ConditionMist
	case code >= 51 && code <= 57:
		return weather.ConditionDrizzle
	case (code >= 61 && code <= 67) || (code >= 80 && code <= 82):
		return weather.ConditionRain
	case (code >= 71 && code <= 77) || code == 85 || code == 86:
		return weather.ConditionSnow
	case code >= 95:
		return weather.ConditionStorm
	default:
		return weather.ConditionUnknown
	}
}

func openMeteoDescription(code int) string {
	switch {
	case code == 0:
		return "clear sky"
	case code == 1:
		return "mainly clear"
	case code == 2:
		return "partly cloudy"
	case code == 3:
		return "overcast"
	}
	switch mapOpenMeteoCondition(code) {
	case weather.ConditionMist:
		return "fog"
	case weather.ConditionDrizzle:
		return "drizzle"
	case weather.ConditionRain:
		return "rain"
	case weather.ConditionSnow:
		return "snow"
	case weather.ConditionStorm:
		return "thunderstorm"
	default:
		return ""
	}
}

var _ weather.ForecastProvider = (*OpenMeteoProvider)(nil)
