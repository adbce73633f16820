package store

import (
	"errors"
	"sync"
	"time"

	"github.com/i474232898/weather-dashboard/internal/forecast"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

var (
	// ErrNotFound is returned when no fresh data is available for a given location.
	ErrNotFound = errors.New("no weather data for location")
)

// entry holds the latest conditions and forecast samples for a location.
type entry struct {
	conditions   *weather.Conditions
	conditionsAt time.Time

	samples   []forecast.Sample
	samplesAt time.Time

	touched time.Time
}

// MemoryStore is a concurrency-safe in-memory cache of provider results.
// It keeps only the latest value per location; older values are replaced.
type MemoryStore struct {
	mu sync.RWMutex

	// key: location key
	data map[string]*entry

	maxEntries int           // max number of locations kept
	maxAge     time.Duration // values older than this are misses

	now func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxEntries or maxAge is <= 0, it is treated as unlimited.
func NewMemoryStore(maxEntries int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string]*entry),
		maxEntries: maxEntries,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// SaveConditions replaces the cached conditions for a location.
func (s *MemoryStore) SaveConditions(loc weather.Location, c weather.Conditions) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.entryLocked(loc)
	e.conditions = &c
	e.conditionsAt = e.touched
}

// GetConditions returns the cached conditions if they are still fresh.
func (s *MemoryStore) GetConditions(loc weather.Location) (weather.Conditions, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[loc.Key()]
	if !ok || e.conditions == nil || s.expired(e.conditionsAt) {
		return weather.Conditions{}, ErrNotFound
	}
	return *e.conditions, nil
}

// SaveSamples replaces the cached forecast samples for a location.
func (s *MemoryStore) SaveSamples(loc weather.Location, samples []forecast.Sample) {
	cp := make([]forecast.Sample, len(samples))
	copy(cp, samples)

	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.entryLocked(loc)
	e.samples = cp
	e.samplesAt = e.touched
}

// GetSamples returns a copy of the cached samples if they are still fresh.
func (s *MemoryStore) GetSamples(loc weather.Location) ([]forecast.Sample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[loc.Key()]
	if !ok || e.samples == nil || s.expired(e.samplesAt) {
		return nil, ErrNotFound
	}
	cp := make([]forecast.Sample, len(e.samples))
	copy(cp, e.samples)
	return cp, nil
}

// Len reports how many locations are cached.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// entryLocked returns the entry for loc, creating it and enforcing the
// location limit when needed. Caller holds s.mu.
func (s *MemoryStore) entryLocked(loc weather.Location) *entry {
	key := loc.Key()
	now := s.now()

	e, ok := s.data[key]
	if !ok {
		if s.maxEntries > 0 && len(s.data) >= s.maxEntries {
			s.evictOldestLocked()
		}
		e = &entry{}
		s.data[key] = e
	}
	e.touched = now
	return e
}

func (s *MemoryStore) evictOldestLocked() {
	var (
		oldestKey string
		oldestAt  time.Time
	)
	for k, e := range s.data {
		if oldestKey == "" || e.touched.Before(oldestAt) {
			oldestKey, oldestAt = k, e.touched
		}
	}
	delete(s.data, oldestKey)
}

func (s *MemoryStore) expired(at time.Time) bool {
	return s.maxAge > 0 && s.now().Sub(at) > s.maxAge
}

var _ weather.Store = (*MemoryStore)(nil)
