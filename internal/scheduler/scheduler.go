package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/weather-dashboard/internal/logger"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

const refreshTimeout = 30 * time.Second

// Refresher re-fetches one location into the cache.
type Refresher interface {
	Refresh(ctx context.Context, loc weather.Location) error
}

// Scheduler periodically warms the cache for the preset cities.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   Refresher
	locations []weather.Location
	interval  time.Duration
	log       logger.Logger
}

// New creates a new Scheduler.
func New(locations []weather.Location, interval time.Duration, service Refresher, log logger.Logger) *Scheduler {
	if log == nil {
		log = logger.Discard()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		locations: locations,
		interval:  interval,
		log:       log.WithField("component", "scheduler"),
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
// The first run happens immediately.
func (s *Scheduler) Start() error {
	if len(s.locations) == 0 {
		s.log.Infof("no locations configured; nothing to schedule")
		return nil
	}

	interval := s.interval
	if interval < time.Second {
		interval = 15 * time.Minute
	}

	_, err := s.scheduler.Every(interval).SingletonMode().Do(s.RunOnce)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// RunOnce refreshes every location concurrently, one bounded context each.
func (s *Scheduler) RunOnce() {
	s.log.Debugf("running refresh for %d locations", len(s.locations))

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed int
	)
	for _, loc := range s.locations {
		loc := loc
		wg.Add(1)
		go func() {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
			defer cancel()

			if err := s.service.Refresh(ctx, loc); err != nil {
				s.log.WithField("location", loc.Key()).Warnf("refresh failed: %v", err)
				mu.Lock()
				failed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	s.log.WithFields(map[string]interface{}{
		"locations": len(s.locations),
		"failed":    failed,
	}).Infof("refresh completed")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
