package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

func newTestOpenWeather(t *testing.T, h http.HandlerFunc) *OpenWeatherProvider {
	srv := newTestServer(t, h)
	p := NewOpenWeatherProvider(srv.Client(), "test-key")
	p.baseURL = srv.URL
	p.httpCfg.Backoff = fastBackoff
	return p
}

func TestOpenWeatherProvider_Fetch(t *testing.T) {
	p := newTestOpenWeather(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/weather", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("appid"))
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		assert.Equal(t, "London,GB", r.URL.Query().Get("q"))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"dt":   1710158400,
			"name": "London",
			"main": map[string]interface{}{"temp": 11.6, "humidity": 81},
			"wind": map[string]interface{}{"speed": 4.1},
			"weather": []map[string]interface{}{
				{"main": "Drizzle", "description": "light intensity drizzle"},
			},
		})
	})

	r, err := p.Fetch(context.Background(), weather.Location{City: "London", Country: "GB"})

	require.NoError(t, err)
	assert.Equal(t, "openweathermap", r.ProviderName)
	assert.Equal(t, "London", r.Name)
	assert.Equal(t, 11.6, r.TemperatureC)
	assert.Equal(t, 81.0, r.HumidityPct)
	assert.Equal(t, 4.1, r.WindSpeedMS)
	assert.Equal(t, weather.ConditionDrizzle, r.Condition)
	assert.Equal(t, "light intensity drizzle", r.Description)
	assert.Equal(t, time.Unix(1710158400, 0).UTC(), r.Timestamp)
}

func TestOpenWeatherProvider_FetchForecast(t *testing.T) {
	p := newTestOpenWeather(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/forecast", r.URL.Path)
		assert.Equal(t, "40", r.URL.Query().Get("cnt"))
		w.Write([]byte(`{"list":[
			{"dt":1710158400,"main":{"temp":9.5}},
			{"dt":1710169200,"main":{"temp":8.25}}
		]}`))
	})

	samples, err := p.FetchForecast(context.Background(), weather.Location{City: "London"}, 5)

	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, time.Unix(1710158400, 0).UTC(), samples[0].Timestamp)
	assert.Equal(t, 9.5, samples[0].Temperature)
	assert.Equal(t, 8.25, samples[1].Temperature)
}

func TestOpenWeatherProvider_NotConfigured(t *testing.T) {
	p := NewOpenWeatherProvider(http.DefaultClient, "")

	_, err := p.Fetch(context.Background(), weather.Location{City: "London"})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = p.FetchForecast(context.Background(), weather.Location{City: "London"}, 5)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestOpenWeatherProvider_CityNotFound(t *testing.T) {
	p := newTestOpenWeather(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"cod":"404","message":"city not found"}`))
	})

	_, err := p.Fetch(context.Background(), weather.Location{City: "Atlantis"})

	assert.ErrorIs(t, err, ErrUnexpected)
}

func TestMapOpenWeatherCondition(t *testing.T) {
	tests := map[string]weather.Condition{
		"Clear":        weather.ConditionClear,
		"Clouds":       weather.ConditionCloudy,
		"Rain":         weather.ConditionRain,
		"Drizzle":      weather.ConditionDrizzle,
		"Snow":         weather.ConditionSnow,
		"Thunderstorm": weather.ConditionStorm,
		"Fog":          weather.ConditionMist,
		"Tornado":      weather.ConditionUnknown,
	}
	for in, want := range tests {
		assert.Equal(t, want, mapOpenWeatherCondition(in), in)
	}
}
