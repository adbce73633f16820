package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-dashboard/internal/chart"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

var configKeys = []string{
	"PORT", "APP_ENV", "LOG_LEVEL", "OPENWEATHER_API_KEY", "WEATHERAPI_API_KEY",
	"OPENMETEO_ENABLED", "HTTP_TIMEOUT", "FETCH_INTERVAL", "CACHE_MAX_AGE",
	"CACHE_MAX_ENTRIES", "DEFAULT_CITY", "PRESET_CITIES", "PRESETS_FILE",
	"CHART_WIDTH", "CHART_HEIGHT", "CHART_PADDING", "PLACEHOLDER_SEED",
	"PROVIDER_RPS", "PROVIDER_BURST",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.OpenMeteoEnabled)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 15*time.Minute, cfg.FetchInterval)
	assert.Equal(t, 10*time.Minute, cfg.CacheMaxAge)
	assert.Equal(t, 100, cfg.CacheMaxEntries)
	assert.Equal(t, weather.Location{City: "New York"}, cfg.DefaultCity)
	assert.Equal(t, []weather.Location{{City: "London"}, {City: "Tokyo"}, {City: "Paris"}, {City: "Sydney"}}, cfg.PresetCities)
	assert.Equal(t, chart.Surface{Width: 400, Height: 300, Padding: 40}, cfg.Chart)
	assert.Equal(t, int64(1), cfg.PlaceholderSeed)
	assert.Equal(t, 5.0, cfg.ProviderRPS)
	assert.Equal(t, 5, cfg.ProviderBurst)
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("OPENMETEO_ENABLED", "false")
	t.Setenv("HTTP_TIMEOUT", "3s")
	t.Setenv("DEFAULT_CITY", "Berlin:de")
	t.Setenv("PRESET_CITIES", "Oslo:NO, Lima ,,Cairo")
	t.Setenv("CHART_WIDTH", "800")
	t.Setenv("PLACEHOLDER_SEED", "42")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.OpenMeteoEnabled)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, weather.Location{City: "Berlin", Country: "DE"}, cfg.DefaultCity)
	assert.Equal(t, []weather.Location{{City: "Oslo", Country: "NO"}, {City: "Lima"}, {City: "Cairo"}}, cfg.PresetCities)
	assert.Equal(t, 800.0, cfg.Chart.Width)
	assert.Equal(t, int64(42), cfg.PlaceholderSeed)
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad duration", "FETCH_INTERVAL", "soon"},
		{"zero timeout", "HTTP_TIMEOUT", "0s"},
		{"bad bool", "OPENMETEO_ENABLED", "maybe"},
		{"bad env", "APP_ENV", "staging"},
		{"bad level", "LOG_LEVEL", "loud"},
		{"padding swallows chart", "CHART_PADDING", "200"},
		{"empty default city", "DEFAULT_CITY", ":US"},
		{"zero rps", "PROVIDER_RPS", "0"},
		{"NaN padding", "CHART_PADDING", "NaN"},
		{"infinite width", "CHART_WIDTH", "+Inf"},
		{"bad cache size", "CACHE_MAX_ENTRIES", "abc"},
		{"bad width", "CHART_WIDTH", "wide"},
		{"bad seed", "PLACEHOLDER_SEED", "1.5"},
		{"bad rps", "PROVIDER_RPS", "fast"},
		{"bad burst", "PROVIDER_BURST", "many"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestFromEnv_PresetsFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "presets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
default_city:
  city: Madrid
  country: ES
cities:
  - city: Rome
  - city: Vienna
    country: AT
`), 0o600))
	t.Setenv("PRESETS_FILE", path)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, weather.Location{City: "Madrid", Country: "ES"}, cfg.DefaultCity)
	assert.Equal(t, []weather.Location{{City: "Rome"}, {City: "Vienna", Country: "AT"}}, cfg.PresetCities)
}

func TestFromEnv_PresetsFileErrors(t *testing.T) {
	clearEnv(t)
	t.Setenv("PRESETS_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := FromEnv()
	assert.ErrorContains(t, err, "read PRESETS_FILE")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cities:\n  - country: FR\n"), 0o600))
	t.Setenv("PRESETS_FILE", path)
	_, err = FromEnv()
	assert.ErrorContains(t, err, "cities[0] needs a city")
}

func TestAppConfig_Locations(t *testing.T) {
	cfg := &AppConfig{
		DefaultCity:  weather.Location{City: "London"},
		PresetCities: []weather.Location{{City: "london"}, {City: "Tokyo"}, {City: ""}},
	}

	assert.Equal(t, []weather.Location{{City: "London"}, {City: "Tokyo"}}, cfg.Locations())
}
