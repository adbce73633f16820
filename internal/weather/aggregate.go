package weather

import (
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// msToKmh converts provider wind speeds (m/s) to the km/h the card shows.
const msToKmh = 3.6

// AggregateReadings combines multiple provider readings into a single Conditions value.
// Numeric fields are averaged; conditions are selected by majority (first seen wins a tie).
func AggregateReadings(loc Location, readings []ProviderReading) Conditions {
	if len(readings) == 0 {
		return Conditions{
			Location:  loc,
			Name:      loc.City,
			Timestamp: time.Now().UTC(),
			Condition: ConditionUnknown,
			Scene:     ConditionUnknown.Scene(),
		}
	}

	var (
		sumTemp     float64
		sumHumidity float64
		sumWind     float64
		sumUV       float64
		uvCount     int
	)

	conditionCounts := make(map[Condition]int)
	var order []Condition
	providers := make([]ProviderContribution, 0, len(readings))
	var newestTS time.Time
	name := ""

	for _, r := range readings {
		sumTemp += r.TemperatureC
		sumHumidity += r.HumidityPct
		sumWind += r.WindSpeedMS
		if r.UVIndex > 0 {
			sumUV += r.UVIndex
			uvCount++
		}

		if _, seen := conditionCounts[r.Condition]; !seen {
			order = append(order, r.Condition)
		}
		conditionCounts[r.Condition]++

		if r.Timestamp.After(newestTS) {
			newestTS = r.Timestamp
		}
		if name == "" {
			name = r.Name
		}

		providers = append(providers, ProviderContribution{
			ProviderName: r.ProviderName,
			Timestamp:    r.Timestamp,
		})
	}

	n := float64(len(readings))

	bestCond := ConditionUnknown
	bestCount := 0
	for _, cond := range order {
		if count := conditionCounts[cond]; count > bestCount {
			bestCount = count
			bestCond = cond
		}
	}

	description := ""
	for _, r := range readings {
		if r.Condition == bestCond && r.Description != "" {
			description = r.Description
			break
		}
	}

	if newestTS.IsZero() {
		newestTS = time.Now().UTC()
	}
	if name == "" {
		name = loc.City
	}

	c := Conditions{
		Location:     loc,
		Name:         name,
		Timestamp:    newestTS,
		TemperatureC: sumTemp / n,
		Description:  TitleCase(description),
		Condition:    bestCond,
		HumidityPct:  sumHumidity / n,
		WindKmh:      sumWind / n * msToKmh,
		Scene:        bestCond.Scene(),
		Providers:    providers,
	}
	if uvCount > 0 {
		c.UVIndex = sumUV / float64(uvCount)
	}
	return c
}

// TitleCase upper-cases the first letter of every word ("light rain" -> "Light Rain").
func TitleCase(s string) string {
	return cases.Title(language.English).String(s)
}
