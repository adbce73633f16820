package weather

import (
	"strings"
	"time"

	"github.com/i474232898/weather-dashboard/internal/chart"
	"github.com/i474232898/weather-dashboard/internal/forecast"
)

// Condition represents a normalized high-level weather condition.
type Condition string

const (
	ConditionUnknown Condition = "unknown"
	ConditionClear   Condition = "clear"
	ConditionCloudy  Condition = "cloudy"
	ConditionRain    Condition = "rain"
	ConditionDrizzle Condition = "drizzle"
	ConditionSnow    Condition = "snow"
	ConditionStorm   Condition = "storm"
	ConditionMist    Condition = "mist"
)

var conditionIcons = map[Condition]string{
	ConditionClear:   "☀️",
	ConditionCloudy:  "☁️",
	ConditionRain:    "🌧️",
	ConditionSnow:    "❄️",
	ConditionStorm:   "⛈️",
	ConditionDrizzle: "🌦️",
	ConditionMist:    "🌫️",
}

// Icon returns the emoji shown on city cards.
func (c Condition) Icon() string {
	if icon, ok := conditionIcons[c]; ok {
		return icon
	}
	return "🌤️"
}

// Scene says which parts of the main card animation are visible.
type Scene struct {
	Cloud bool `json:"cloud"`
	Sun   bool `json:"sun"`
	Rain  bool `json:"rain"`
}

func (c Condition) Scene() Scene {
	switch c {
	case ConditionRain, ConditionDrizzle:
		return Scene{Cloud: true, Rain: true}
	case ConditionClear:
		return Scene{Sun: true}
	default:
		return Scene{Cloud: true}
	}
}

// Label is the status text shown on city cards.
func (c Condition) Label() string {
	switch c {
	case ConditionClear:
		return "Clear"
	case ConditionCloudy:
		return "Clouds"
	case ConditionRain:
		return "Rain"
	case ConditionDrizzle:
		return "Drizzle"
	case ConditionSnow:
		return "Snow"
	case ConditionStorm:
		return "Thunderstorm"
	case ConditionMist:
		return "Mist"
	default:
		return "Unknown"
	}
}

// Location represents a city the dashboard can show.
// Country is optional and narrows the provider lookup.
type Location struct {
	City    string `json:"city"`
	Country string `json:"country,omitempty"`
}

// Key returns a canonical, case-insensitive key for indexing this location in stores.
func (l Location) Key() string {
	return strings.ToLower(strings.TrimSpace(l.City)) + ":" + strings.ToLower(strings.TrimSpace(l.Country))
}

// Query is the "city" or "city,country" form most providers accept.
func (l Location) Query() string {
	if l.Country == "" {
		return l.City
	}
	return l.City + "," + l.Country
}

func (l Location) String() string {
	return l.Query()
}

// Conditions is the aggregated current-weather view for the main card.
type Conditions struct {
	Location     Location  `json:"location"`
	Name         string    `json:"name"`
	Timestamp    time.Time `json:"timestamp"`
	TemperatureC float64   `json:"temperatureC"`
	Description  string    `json:"description"`
	Condition    Condition `json:"condition"`
	HumidityPct  float64   `json:"humidityPercent"`
	WindKmh      float64   `json:"windKmh"`
	UVIndex      float64   `json:"uvIndex,omitempty"`
	Scene        Scene     `json:"scene"`
	Mock         bool      `json:"mock,omitempty"`

	// Providers contributing to this reading.
	Providers []ProviderContribution `json:"providers,omitempty"`
}

// Display returns the temperature rounded the way the card shows it.
func (c Conditions) Display() int {
	return forecast.Round(c.TemperatureC)
}

// ProviderContribution describes data coming from a single provider used in aggregation.
type ProviderContribution struct {
	ProviderName string    `json:"provider"`
	Timestamp    time.Time `json:"timestamp"`
}

// CitySummary is one side-panel card.
type CitySummary struct {
	Location    Location  `json:"location"`
	Name        string    `json:"name"`
	Temperature int       `json:"temperature"`
	Status      string    `json:"status"`
	Icon        string    `json:"icon"`
	Condition   Condition `json:"condition"`
	Mock        bool      `json:"mock,omitempty"`
}

// Summarize reduces conditions to a side-panel card.
func Summarize(c Conditions) CitySummary {
	name := c.Name
	if name == "" {
		name = c.Location.City
	}
	return CitySummary{
		Location:    c.Location,
		Name:        name,
		Temperature: c.Display(),
		Status:      c.Condition.Label(),
		Icon:        c.Condition.Icon(),
		Condition:   c.Condition,
		Mock:        c.Mock,
	}
}

// Clock holds the header date and time strings.
type Clock struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

func NewClock(t time.Time) Clock {
	return Clock{
		Date: t.Format("Monday, January 2, 2006"),
		Time: t.Format("03:04:05 PM"),
	}
}

// Dashboard is everything the main view needs for one city.
type Dashboard struct {
	Conditions Conditions          `json:"conditions"`
	Daily      []forecast.DayPoint `json:"daily"`
	Chart      chart.Projection    `json:"chart"`
	Surface    chart.Surface       `json:"surface"`
	Clock      Clock               `json:"clock"`
}
