package forecast

import (
	"math"
	"time"
)

// Normalizer reduces a raw sample list to one DayPoint per day.
//
// By default a sample belongs to a target day when their day-of-month
// matches, so a sample from the 3rd of next month can stand in for the 3rd
// of this month. MatchCalendarDate switches to full year/month/day matching.
type Normalizer struct {
	Placeholder       Placeholder
	MatchCalendarDate bool
}

// SelectDailyPoints picks, for each of horizonDays consecutive days starting
// at reference, the first sample falling on that day. Samples with a NaN or
// infinite temperature are ignored. Days without a sample
// get a temperature from src. The result always has horizonDays entries.
func SelectDailyPoints(samples []Sample, reference time.Time, horizonDays int, src Placeholder) []DayPoint {
	return Normalizer{Placeholder: src}.Select(samples, reference, horizonDays)
}

func (n Normalizer) Select(samples []Sample, reference time.Time, horizonDays int) []DayPoint {
	if horizonDays <= 0 {
		horizonDays = DefaultHorizon
	}
	src := n.placeholder()
	loc := reference.Location()

	points := make([]DayPoint, 0, horizonDays)
	for i := 0; i < horizonDays; i++ {
		target := reference.AddDate(0, 0, i)
		point := DayPoint{
			Label: Weekday(target),
			Date:  time.Date(target.Year(), target.Month(), target.Day(), 0, 0, 0, 0, loc),
		}

		if s, ok := n.find(samples, target, loc); ok {
			point.Temperature = s.Temperature
		} else {
			point.Temperature = src.Temperature()
			point.Synthetic = true
		}
		points = append(points, point)
	}
	return points
}

func (n Normalizer) find(samples []Sample, target time.Time, loc *time.Location) (Sample, bool) {
	for _, s := range samples {
		if math.IsNaN(s.Temperature) || math.IsInf(s.Temperature, 0) {
			continue
		}
		ts := s.Timestamp.In(loc)
		if ts.Day() != target.Day() {
			continue
		}
		if n.MatchCalendarDate && (ts.Year() != target.Year() || ts.Month() != target.Month()) {
			continue
		}
		return s, true
	}
	return Sample{}, false
}

func (n Normalizer) placeholder() Placeholder {
	if n.Placeholder != nil {
		return n.Placeholder
	}
	return NewSeededPlaceholder(DefaultSeed)
}

// Fallback builds a fully synthetic sequence for when no provider answered.
// Labels still follow the calendar from reference.
func Fallback(reference time.Time, horizonDays int, src Placeholder) []DayPoint {
	if src == nil {
		src = NewFixedPlaceholder(DefaultFallbackTable...)
	}
	return Normalizer{Placeholder: src}.Select(nil, reference, horizonDays)
}
