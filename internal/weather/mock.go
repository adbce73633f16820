package weather

import (
	"time"
)

// Randomizer is the subset of *rand.Rand the mock readings need.
type Randomizer interface {
	Intn(n int) int
}

var mockConditions = []Condition{ConditionClear, ConditionCloudy, ConditionRain, ConditionSnow}

// MockConditions builds the placeholder card shown when no provider answers.
// Values are drawn from rnd so a seeded source gives repeatable output.
func MockConditions(loc Location, rnd Randomizer, now time.Time) Conditions {
	cond := mockConditions[rnd.Intn(len(mockConditions))]
	temp := float64(rnd.Intn(30) + 5)
	humidity := float64(rnd.Intn(40) + 40)
	wind := float64(rnd.Intn(10) + 5)

	return Conditions{
		Location:     loc,
		Name:         loc.City,
		Timestamp:    now,
		TemperatureC: temp,
		Description:  TitleCase("partly cloudy"),
		Condition:    cond,
		HumidityPct:  humidity,
		WindKmh:      wind * msToKmh,
		Scene:        cond.Scene(),
		Mock:         true,
	}
}

var sidePanelMockConditions = []Condition{ConditionClear, ConditionCloudy, ConditionRain}

// MockCitySummary builds a side-panel card for a city no provider answered for.
// When providers are configured the failure is shown as Clear; without any
// provider the condition is drawn from clear, cloudy and rain.
func MockCitySummary(loc Location, rnd Randomizer, providersConfigured bool) CitySummary {
	temp := float64(rnd.Intn(30) + 5)
	cond := ConditionClear
	if !providersConfigured {
		cond = sidePanelMockConditions[rnd.Intn(len(sidePanelMockConditions))]
	}
	return Summarize(Conditions{
		Location:     loc,
		Name:         loc.City,
		TemperatureC: temp,
		Condition:    cond,
		Mock:         true,
	})
}
