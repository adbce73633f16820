package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-dashboard/internal/forecast"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// WeatherAPIProvider implements weather.ForecastProvider for WeatherAPI.com.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewWeatherAPIProvider(client *http.Client, apiKey string) *WeatherAPIProvider {
	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		baseURL: "https://api.weatherapi.com/v1",
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: defaultBackoff,
		},
		circuit: newCircuitBreaker("weatherapi"),
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

func (p *WeatherAPIProvider) endpoint(path string, loc weather.Location, extra url.Values) string {
	values := url.Values{}
	values.Set("key", p.apiKey)
	values.Set("q", loc.Query())
	for k, v := range extra {
		values[k] = v
	}
	return fmt.Sprintf("%s/%s?%s", p.baseURL, path, values.Encode())
}

func (p *WeatherAPIProvider) Fetch(ctx context.Context, loc weather.Location) (weather.ProviderReading, error) {
	if p.apiKey == "" {
		return weather.ProviderReading{}, fmt.Errorf("weatherapi: %w: api key missing", ErrNotConfigured)
	}

	var payload struct {
		Location struct {
			Name string `json:"name"`
		} `json:"location"`
		Current struct {
			LastUpdatedEpoch int64   `json:"last_updated_epoch"`
			TempC            float64 `json:"temp_c"`
			Humidity         float64 `json:"humidity"`
			WindKph          float64 `json:"wind_kph"`
			UV               float64 `json:"uv"`
			Condition        struct {
				Text string `json:"text"`
			} `json:"condition"`
		} `json:"current"`
	}

	if err := getJSON(ctx, p.httpCfg, p.circuit, p.endpoint("current.json", loc, nil), &payload); err != nil {
		return weather.ProviderReading{}, fmt.Errorf("weatherapi current: %w", err)
	}

	ts := time.Now().UTC()
	if payload.Current.LastUpdatedEpoch > 0 {
		ts = time.Unix(payload.Current.LastUpdatedEpoch, 0).UTC()
	}

	return weather.ProviderReading{
		ProviderName: p.name,
		Timestamp:    ts,
		Name:         payload.Location.Name,
		TemperatureC: payload.Current.TempC,
		HumidityPct:  payload.Current.Humidity,
		// Convert wind from kph to m/s.
		WindSpeedMS: payload.Current.WindKph / 3.6,
		UVIndex:     payload.Current.UV,
		Description: strings.ToLower(payload.Current.Condition.Text),
		Condition:   mapWeatherAPICondition(payload.Current.Condition.Text),
	}, nil
}

// FetchForecast flattens the hourly entries of every forecast day.
func (p *WeatherAPIProvider) FetchForecast(ctx context.Context, loc weather.Location, days int) ([]forecast.Sample, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("weatherapi: %w: api key missing", ErrNotConfigured)
	}
	if days <= 0 {
		days = forecast.DefaultHorizon
	}

	var payload struct {
		Forecast struct {
			ForecastDay []struct {
				Hour []struct {
					TimeEpoch int64   `json:"time_epoch"`
					TempC     float64 `json:"temp_c"`
				} `json:"hour"`
			} `json:"forecastday"`
		} `json:"forecast"`
	}

	extra := url.Values{}
	extra.Set("days", fmt.Sprintf("%d", days))
	extra.Set("aqi", "no")
	extra.Set("alerts", "no")
	if err := getJSON(ctx, p.httpCfg, p.circuit, p.endpoint("forecast.json", loc, extra), &payload); err != nil {
		return nil, fmt.Errorf("weatherapi forecast: %w", err)
	}

	var samples []forecast.Sample
	for _, day := range payload.Forecast.ForecastDay {
		for _, h := range day.Hour {
			samples = append(samples, forecast.Sample{
				Timestamp:   time.Unix(h.TimeEpoch, 0).UTC(),
				Temperature: h.TempC,
			})
		}
	}
	return samples, nil
}

func mapWeatherAPICondition(text string) weather.Condition {
	switch {
	case text == "":
		return weather.ConditionUnknown
	case contains(text, "thunder") || contains(text, "storm"):
		return weather.ConditionStorm
	case contains(text, "drizzle"):
		return weather.ConditionDrizzle
	case contains(text, "rain") || contains(text, "shower"):
		return weather.ConditionRain
	case contains(text, "snow") || contains(text, "sleet") || contains(text, "blizzard"):
		return weather.ConditionSnow
	case contains(text, "mist") || contains(text, "fog"):
		return weather.ConditionMist
	case contains(text, "cloud") || contains(text, "overcast"):
		return weather.ConditionCloudy
	case contains(text, "sunny") || contains(text, "clear"):
		return weather.ConditionClear
	default:
		return weather.ConditionUnknown
	}
}

func contains(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

var _ weather.ForecastProvider = (*WeatherAPIProvider)(nil)
