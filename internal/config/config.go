package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/i474232898/weather-dashboard/internal/chart"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

type AppConfig struct {
	Port     string `validate:"required,numeric"`
	Env      string `validate:"oneof=development production test"`
	LogLevel string `validate:"oneof=debug info warn warning error"`

	OpenWeatherAPIKey string
	WeatherAPIKey     string
	OpenMeteoEnabled  bool

	// HTTPTimeout bounds a single provider round trip.
	HTTPTimeout time.Duration `validate:"gt=0"`

	// FetchInterval controls how often preset cities are refreshed.
	FetchInterval time.Duration `validate:"gt=0"`

	// Cache retention.
	CacheMaxAge     time.Duration `validate:"gt=0"`
	CacheMaxEntries int           `validate:"gte=0"` // 0 = unlimited

	// DefaultCity is shown when a request names no city.
	DefaultCity weather.Location
	// PresetCities fill the side panel.
	PresetCities []weather.Location `validate:"max=12"`

	Chart chart.Surface

	PlaceholderSeed int64

	ProviderRPS   float64 `validate:"gt=0"`
	ProviderBurst int     `validate:"gte=1"`
}

// Locations returns the default city followed by the presets, without duplicates.
func (c *AppConfig) Locations() []weather.Location {
	seen := make(map[string]bool, len(c.PresetCities)+1)
	out := make([]weather.Location, 0, len(c.PresetCities)+1)
	for _, loc := range append([]weather.Location{c.DefaultCity}, c.PresetCities...) {
		if loc.City == "" || seen[loc.Key()] {
			continue
		}
		seen[loc.Key()] = true
		out = append(out, loc)
	}
	return out
}

type presetsFile struct {
	DefaultCity *weather.Location  `yaml:"default_city"`
	Cities      []weather.Location `yaml:"cities"`
}

// Load reads configuration from the environment, seeded from .env when present.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds the configuration from environment variables with sensible defaults.
func FromEnv() (*AppConfig, error) {
	cfg := &AppConfig{}
	var err error

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.Env = getenvDefault("APP_ENV", "development")
	cfg.LogLevel = strings.ToLower(getenvDefault("LOG_LEVEL", "info"))

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.WeatherAPIKey = os.Getenv("WEATHERAPI_API_KEY")
	if cfg.OpenMeteoEnabled, err = getenvBool("OPENMETEO_ENABLED", true); err != nil {
		return nil, err
	}

	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.FetchInterval, err = getenvDuration("FETCH_INTERVAL", 15*time.Minute); err != nil {
		return nil, err
	}
	if cfg.CacheMaxAge, err = getenvDuration("CACHE_MAX_AGE", 10*time.Minute); err != nil {
		return nil, err
	}
	if cfg.CacheMaxEntries, err = getenvInt("CACHE_MAX_ENTRIES", 100); err != nil {
		return nil, err
	}

	if cfg.DefaultCity, err = parseLocation(getenvDefault("DEFAULT_CITY", "New York")); err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_CITY: %w", err)
	}
	if cfg.PresetCities, err = parseLocations(getenvDefault("PRESET_CITIES", "London,Tokyo,Paris,Sydney")); err != nil {
		return nil, fmt.Errorf("invalid PRESET_CITIES: %w", err)
	}
	if path := os.Getenv("PRESETS_FILE"); path != "" {
		if err := cfg.applyPresetsFile(path); err != nil {
			return nil, err
		}
	}

	if cfg.Chart.Width, err = getenvFloat("CHART_WIDTH", 400); err != nil {
		return nil, err
	}
	if cfg.Chart.Height, err = getenvFloat("CHART_HEIGHT", 300); err != nil {
		return nil, err
	}
	if cfg.Chart.Padding, err = getenvFloat("CHART_PADDING", 40); err != nil {
		return nil, err
	}
	if err := cfg.Chart.Validate(); err != nil {
		return nil, fmt.Errorf("invalid chart size: %w", err)
	}

	if cfg.PlaceholderSeed, err = getenvInt64("PLACEHOLDER_SEED", 1); err != nil {
		return nil, err
	}
	if cfg.ProviderRPS, err = getenvFloat("PROVIDER_RPS", 5); err != nil {
		return nil, err
	}
	if cfg.ProviderBurst, err = getenvInt("PROVIDER_BURST", 5); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *AppConfig) applyPresetsFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read PRESETS_FILE: %w", err)
	}

	var presets presetsFile
	if err := yaml.Unmarshal(raw, &presets); err != nil {
		return fmt.Errorf("parse PRESETS_FILE %s: %w", path, err)
	}

	if presets.DefaultCity != nil {
		if presets.DefaultCity.City == "" {
			return fmt.Errorf("PRESETS_FILE %s: default_city needs a city", path)
		}
		c.DefaultCity = *presets.DefaultCity
	}
	if len(presets.Cities) > 0 {
		for i, loc := range presets.Cities {
			if strings.TrimSpace(loc.City) == "" {
				return fmt.Errorf("PRESETS_FILE %s: cities[%d] needs a city", path, i)
			}
		}
		c.PresetCities = presets.Cities
	}
	return nil
}

// parseLocation accepts "City" or "City:CC".
func parseLocation(s string) (weather.Location, error) {
	city, country, _ := strings.Cut(strings.TrimSpace(s), ":")
	city = strings.TrimSpace(city)
	if city == "" {
		return weather.Location{}, fmt.Errorf("empty city in %q", s)
	}
	return weather.Location{City: city, Country: strings.ToUpper(strings.TrimSpace(country))}, nil
}

// parseLocations splits a comma-separated list of parseLocation entries.
func parseLocations(s string) ([]weather.Location, error) {
	var locs []weather.Location
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		loc, err := parseLocation(part)
		if err != nil {
			return nil, err
		}
		locs = append(locs, loc)
	}
	return locs, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getenvInt64(key string, def int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

// getenvFloat rejects NaN and infinities along with malformed numbers.
func getenvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid %s: %q is not a finite number", key, v)
	}
	return f, nil
}

func getenvBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
