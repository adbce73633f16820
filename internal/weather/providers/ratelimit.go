package providers

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/i474232898/weather-dashboard/internal/forecast"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// rateLimitedProvider wraps a Provider with a token-bucket limiter shared by
// current and forecast calls.
type rateLimitedProvider struct {
	provider weather.Provider
	limiter  *rate.Limiter
}

type rateLimitedForecastProvider struct {
	rateLimitedProvider
	forecaster weather.ForecastProvider
}

// RateLimited limits p to rps requests per second with the given burst.
// The result is a ForecastProvider whenever p is one.
func RateLimited(p weather.Provider, rps float64, burst int) weather.Provider {
	if burst < 1 {
		burst = 1
	}
	base := rateLimitedProvider{
		provider: p,
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
	}
	if fp, ok := p.(weather.ForecastProvider); ok {
		return &rateLimitedForecastProvider{rateLimitedProvider: base, forecaster: fp}
	}
	return &base
}

func (r *rateLimitedProvider) Name() string {
	return r.provider.Name()
}

func (r *rateLimitedProvider) Fetch(ctx context.Context, loc weather.Location) (weather.ProviderReading, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return weather.ProviderReading{}, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.provider.Fetch(ctx, loc)
}

func (r *rateLimitedForecastProvider) FetchForecast(ctx context.Context, loc weather.Location, days int) ([]forecast.Sample, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.forecaster.FetchForecast(ctx, loc, days)
}

var (
	_ weather.Provider         = (*rateLimitedProvider)(nil)
	_ weather.ForecastProvider = (*rateLimitedForecastProvider)(nil)
)
