package forecast

import (
	"math"
	"time"
)

// DefaultHorizon is the number of days the dashboard charts.
const DefaultHorizon = 5

// Sample is one timestamped temperature reading from a weather provider.
// Providers typically return many per day at irregular spacing.
type Sample struct {
	Timestamp   time.Time `json:"timestamp"`
	Temperature float64   `json:"temperature"`
}

// DayPoint is one day's representative value for charting.
// Temperature keeps full precision for positioning; use Rounded for display.
type DayPoint struct {
	Label       string    `json:"label"`
	Date        time.Time `json:"date"`
	Temperature float64   `json:"temperature"`
	Synthetic   bool      `json:"synthetic"`
}

// Rounded returns the temperature rounded half-up to a whole degree.
func (p DayPoint) Rounded() int {
	return Round(p.Temperature)
}

// Round rounds half-up (2.5 -> 3, -2.5 -> -2), matching how the card UI
// has always displayed temperatures.
func Round(v float64) int {
	return int(math.Floor(v + 0.5))
}

// Weekday returns the abbreviated English weekday name for t.
func Weekday(t time.Time) string {
	return t.Weekday().String()[:3]
}
