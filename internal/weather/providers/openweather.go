package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-dashboard/internal/forecast"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// samplesPerDay is the number of 3-hour steps in the OpenWeatherMap forecast.
const samplesPerDay = 8

// OpenWeatherProvider implements weather.ForecastProvider for OpenWeatherMap.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(client *http.Client, apiKey string) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org/data/2.5",
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: defaultBackoff,
		},
		circuit: newCircuitBreaker("openweather"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

func (p *OpenWeatherProvider) endpoint(path string, loc weather.Location, extra url.Values) string {
	values := url.Values{}
	values.Set("appid", p.apiKey)
	values.Set("units", "metric")
	values.Set("q", loc.Query())
	for k, v := range extra {
		values[k] = v
	}
	return fmt.Sprintf("%s/%s?%s", p.baseURL, path, values.Encode())
}

type owmWeather struct {
	Main        string `json:"main"`
	Description string `json:"description"`
}

func (p *OpenWeatherProvider) Fetch(ctx context.Context, loc weather.Location) (weather.ProviderReading, error) {
	if p.apiKey == "" {
		return weather.ProviderReading{}, fmt.Errorf("openweather: %w: api key missing", ErrNotConfigured)
	}

	var payload struct {
		Dt   int64  `json:"dt"`
		Name string `json:"name"`
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity float64 `json:"humidity"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Weather []owmWeather `json:"weather"`
	}

	if err := getJSON(ctx, p.httpCfg, p.circuit, p.endpoint("weather", loc, nil), &payload); err != nil {
		return weather.ProviderReading{}, fmt.Errorf("openweather current: %w", err)
	}

	ts := time.Now().UTC()
	if payload.Dt > 0 {
		ts = time.Unix(payload.Dt, 0).UTC()
	}

	reading := weather.ProviderReading{
		ProviderName: p.name,
		Timestamp:    ts,
		Name:         payload.Name,
		TemperatureC: payload.Main.Temp,
		HumidityPct:  payload.Main.Humidity,
		WindSpeedMS:  payload.Wind.Speed,
		Condition:    weather.ConditionUnknown,
	}
	if len(payload.Weather) > 0 {
		reading.Condition = mapOpenWeatherCondition(payload.Weather[0].Main)
		reading.Description = payload.Weather[0].Description
	}
	return reading, nil
}

// FetchForecast returns the 3-hourly samples covering the requested days, in
// the order the API lists them.
func (p *OpenWeatherProvider) FetchForecast(ctx context.Context, loc weather.Location, days int) ([]forecast.Sample, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("openweather: %w: api key missing", ErrNotConfigured)
	}

	var payload struct {
		List []struct {
			Dt   int64 `json:"dt"`
			Main struct {
				Temp float64 `json:"temp"`
			} `json:"main"`
		} `json:"list"`
	}

	extra := url.Values{}
	if days > 0 {
		extra.Set("cnt", fmt.Sprintf("%d", days*samplesPerDay))
	}
	if err := getJSON(ctx, p.httpCfg, p.circuit, p.endpoint("forecast", loc, extra), &payload); err != nil {
		return nil, fmt.Errorf("openweather forecast: %w", err)
	}

	samples := make([]forecast.Sample, 0, len(payload.List))
	for _, item := range payload.List {
		samples = append(samples, forecast.Sample{
			Timestamp:   time.Unix(item.Dt, 0).UTC(),
			Temperature: item.Main.Temp,
		})
	}
	return samples, nil
}

func mapOpenWeatherCondition(main string) weather.Condition {
	switch main {
	case "Clear":
		return weather.ConditionClear
	case "Clouds":
		return weather.ConditionCloudy
	case "Rain":
		return weather.ConditionRain
	case "Drizzle":
		return weather.ConditionDrizzle
	case "Snow":
		return weather.ConditionSnow
	case "Thunderstorm":
		return weather.ConditionStorm
	case "Mist", "Fog", "Haze", "Smoke":
		return weather.ConditionMist
	default:
		return weather.ConditionUnknown
	}
}

var _ weather.ForecastProvider = (*OpenWeatherProvider)(nil)
