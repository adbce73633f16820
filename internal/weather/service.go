package weather

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/i474232898/weather-dashboard/internal/chart"
	"github.com/i474232898/weather-dashboard/internal/forecast"
	"github.com/i474232898/weather-dashboard/internal/logger"
)

var (
	errNoProviders = errors.New("no weather providers configured")
	errNoReadings  = errors.New("no successful provider readings")
	errNoForecast  = errors.New("no forecast data available")
)

// Service orchestrates providers, the cache and the two chart cores.
// Provider failures never reach callers: they degrade to placeholder data.
type Service struct {
	store     Store
	providers []Provider
	log       logger.Logger
	now       func() time.Time

	placeholder       forecast.Placeholder
	fallbackTable     []float64
	matchCalendarDate bool

	rndMu sync.Mutex
	rnd   *rand.Rand
}

type Option func(*Service)

func WithLogger(l logger.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithNow overrides the clock used for the forecast reference date and the header clock.
func WithNow(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithSeed seeds both the missing-day placeholder and the mock card generator.
func WithSeed(seed int64) Option {
	return func(s *Service) {
		s.placeholder = forecast.NewSeededPlaceholder(seed)
		s.rnd = rand.New(rand.NewSource(seed))
	}
}

// WithPlaceholder sets the source for days the provider did not cover.
func WithPlaceholder(p forecast.Placeholder) Option {
	return func(s *Service) { s.placeholder = p }
}

// WithFallbackTable sets the series charted when every provider fails.
func WithFallbackTable(values ...float64) Option {
	return func(s *Service) { s.fallbackTable = values }
}

// WithCalendarDateMatching makes the normalizer match samples on the full
// date instead of the day of month.
func WithCalendarDateMatching(on bool) Option {
	return func(s *Service) { s.matchCalendarDate = on }
}

// NewService creates a new Service. store may be nil to disable caching.
func NewService(store Store, providers []Provider, opts ...Option) *Service {
	s := &Service{
		store:         store,
		providers:     providers,
		log:           logger.Discard(),
		now:           time.Now,
		placeholder:   forecast.NewSeededPlaceholder(forecast.DefaultSeed),
		fallbackTable: forecast.DefaultFallbackTable,
		rnd:           rand.New(rand.NewSource(forecast.DefaultSeed)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Current returns the aggregated current conditions for loc, falling back to
// a mock card when no provider answers.
func (s *Service) Current(ctx context.Context, loc Location) Conditions {
	c, err := s.conditions(ctx, loc)
	if err != nil {
		s.log.WithField("location", loc.Key()).Warnf("using mock conditions: %v", err)
		return s.mockConditions(loc)
	}
	return c
}

// Forecast returns exactly days daily points for loc starting today.
func (s *Service) Forecast(ctx context.Context, loc Location, days int) []forecast.DayPoint {
	if days <= 0 {
		days = forecast.DefaultHorizon
	}

	var samples []forecast.Sample
	if s.store != nil {
		if cached, err := s.store.GetSamples(loc); err == nil {
			samples = cached
		}
	}
	if samples == nil {
		fetched, err := s.fetchSamples(ctx, loc, days)
		if err != nil {
			s.log.WithField("location", loc.Key()).Warnf("using fallback forecast: %v", err)
			return forecast.Fallback(s.now(), days, forecast.NewFixedPlaceholder(s.fallbackTable...))
		}
		samples = fetched
	}

	n := forecast.Normalizer{Placeholder: s.placeholder, MatchCalendarDate: s.matchCalendarDate}
	return n.Select(samples, s.now(), days)
}

// Dashboard gathers conditions and the daily series concurrently and projects
// the series onto surface. The only error is an unusable surface.
func (s *Service) Dashboard(ctx context.Context, loc Location, surface chart.Surface) (Dashboard, error) {
	if err := surface.Validate(); err != nil {
		return Dashboard{}, err
	}

	var (
		wg    sync.WaitGroup
		cond  Conditions
		daily []forecast.DayPoint
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		cond = s.Current(ctx, loc)
	}()
	go func() {
		defer wg.Done()
		daily = s.Forecast(ctx, loc, forecast.DefaultHorizon)
	}()
	wg.Wait()

	proj, err := chart.Project(daily, surface)
	if err != nil {
		return Dashboard{}, fmt.Errorf("project forecast for %s: %w", loc, err)
	}

	return Dashboard{
		Conditions: cond,
		Daily:      daily,
		Chart:      proj,
		Surface:    surface,
		Clock:      NewClock(s.now()),
	}, nil
}

// SidePanel loads one card per location, independently and in parallel.
// Results keep the input order. A city without data gets a mock card.
func (s *Service) SidePanel(ctx context.Context, locs []Location) []CitySummary {
	out := make([]CitySummary, len(locs))

	var wg sync.WaitGroup
	for i, loc := range locs {
		i, loc := i, loc
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := s.conditions(ctx, loc)
			if err != nil {
				s.log.WithField("location", loc.Key()).Warnf("using mock city card: %v", err)
				out[i] = s.mockCitySummary(loc)
				return
			}
			out[i] = Summarize(c)
		}()
	}
	wg.Wait()

	return out
}

// Refresh re-fetches conditions and forecast samples for loc, bypassing the cache.
func (s *Service) Refresh(ctx context.Context, loc Location) error {
	_, condErr := s.fetchConditions(ctx, loc)
	_, fcErr := s.fetchSamples(ctx, loc, forecast.DefaultHorizon)
	return errors.Join(condErr, fcErr)
}

// conditions serves loc from the cache, fetching on a miss.
func (s *Service) conditions(ctx context.Context, loc Location) (Conditions, error) {
	if s.store != nil {
		if c, err := s.store.GetConditions(loc); err == nil {
			return c, nil
		}
	}
	return s.fetchConditions(ctx, loc)
}

// fetchConditions fetches data from all providers concurrently for the given location,
// aggregates successful readings, and caches the result.
func (s *Service) fetchConditions(ctx context.Context, loc Location) (Conditions, error) {
	if len(s.providers) == 0 {
		return Conditions{}, errNoProviders
	}

	var wg sync.WaitGroup
	results := make([]*ProviderReading, len(s.providers))

	log := s.log.WithField("location", loc.Key())
	for i, p := range s.providers {
		i, p := i, p
		wg.Add(1)
		go func() {
			defer wg.Done()

			r, err := p.Fetch(ctx, loc)
			if err != nil {
				// Log and continue; we want partial success when possible.
				log.Warnf("provider %s fetch failed: %v", p.Name(), err)
				return
			}
			results[i] = &r
		}()
	}
	wg.Wait()

	// Configured provider order, not completion order.
	readings := make([]ProviderReading, 0, len(results))
	for _, r := range results {
		if r != nil {
			readings = append(readings, *r)
		}
	}
	if len(readings) == 0 {
		return Conditions{}, errNoReadings
	}

	c := AggregateReadings(loc, readings)
	if s.store != nil {
		s.store.SaveConditions(loc, c)
	}
	log.Debugf("aggregated conditions from %d providers", len(readings))
	return c, nil
}

// fetchSamples asks forecast-capable providers in order and keeps the first
// non-empty answer. Samples from different providers are never mixed.
func (s *Service) fetchSamples(ctx context.Context, loc Location, days int) ([]forecast.Sample, error) {
	if days < forecast.DefaultHorizon {
		days = forecast.DefaultHorizon
	}

	log := s.log.WithField("location", loc.Key())
	for _, p := range s.providers {
		fp, ok := p.(ForecastProvider)
		if !ok {
			continue
		}

		samples, err := fp.FetchForecast(ctx, loc, days)
		if err != nil {
			log.Warnf("provider %s forecast failed: %v", fp.Name(), err)
			continue
		}
		if len(samples) == 0 {
			continue
		}

		if s.store != nil {
			s.store.SaveSamples(loc, samples)
		}
		log.Debugf("forecast from %s: %d samples", fp.Name(), len(samples))
		return samples, nil
	}
	return nil, errNoForecast
}

func (s *Service) mockConditions(loc Location) Conditions {
	s.rndMu.Lock()
	defer s.rndMu.Unlock()
	return MockConditions(loc, s.rnd, s.now())
}

func (s *Service) mockCitySummary(loc Location) CitySummary {
	s.rndMu.Lock()
	defer s.rndMu.Unlock()
	return MockCitySummary(loc, s.rnd, len(s.providers) > 0)
}
