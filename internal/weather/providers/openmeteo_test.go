package providers

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

const geocodeBody = `{"results":[
	{"name":"Paris","latitude":33.66,"longitude":-95.55,"country_code":"US"},
	{"name":"Paris","latitude":48.85,"longitude":2.35,"country_code":"FR"}
]}`

const openMeteoBody = `{
	"current_weather":{"time":1710158400,"temperature":12.3,"windspeed":3.5,"weathercode":61},
	"hourly":{
		"time":[1710154800,1710158400,1710162000],
		"temperature_2m":[11.0,12.3,13.1],
		"relative_humidity_2m":[70,72,75]
	}
}`

func newTestOpenMeteo(t *testing.T, geocodeCalls *int32) *OpenMeteoProvider {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search":
			atomic.AddInt32(geocodeCalls, 1)
			w.Write([]byte(geocodeBody))
		case "/forecast":
			assert.Equal(t, "48.850000", r.URL.Query().Get("latitude"))
			assert.Equal(t, "unixtime", r.URL.Query().Get("timeformat"))
			w.Write([]byte(openMeteoBody))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	p := NewOpenMeteoProvider(srv.Client())
	p.baseURL = srv.URL + "/forecast"
	p.geocodeURL = srv.URL + "/search"
	p.httpCfg.Backoff = fastBackoff
	return p
}

func TestOpenMeteoProvider_Fetch(t *testing.T) {
	var geocodeCalls int32
	p := newTestOpenMeteo(t, &geocodeCalls)
	paris := weather.Location{City: "Paris", Country: "FR"}

	r, err := p.Fetch(context.Background(), paris)

	require.NoError(t, err)
	assert.Equal(t, "openmeteo", r.ProviderName)
	assert.Equal(t, "Paris", r.Name)
	assert.Equal(t, 12.3, r.TemperatureC)
	assert.Equal(t, 72.0, r.HumidityPct)
	assert.Equal(t, 3.5, r.WindSpeedMS)
	assert.Equal(t, weather.ConditionRain, r.Condition)
	assert.Equal(t, "rain", r.Description)

	_, err = p.FetchForecast(context.Background(), paris, 5)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&geocodeCalls), "geocode result should be cached")
}

func TestOpenMeteoProvider_FetchForecast(t *testing.T) {
	var geocodeCalls int32
	p := newTestOpenMeteo(t, &geocodeCalls)

	samples, err := p.FetchForecast(context.Background(), weather.Location{City: "Paris", Country: "fr"}, 5)

	require.NoError(t, err)
	require.Len(t, samples, 3)
	assert.Equal(t, int64(1710154800), samples[0].Timestamp.Unix())
	assert.Equal(t, 13.1, samples[2].Temperature)
}

func TestOpenMeteoProvider_UnknownCity(t *testing.T) {
	var geocodeCalls int32
	p := newTestOpenMeteo(t, &geocodeCalls)

	_, err := p.Fetch(context.Background(), weather.Location{City: "Paris", Country: "JP"})

	assert.ErrorIs(t, err, errCityNotFound)
}

func TestMapOpenMeteoCondition(t *testing.T) {
	tests := map[int]weather.Condition{
		0:  weather.ConditionClear,
		2:  weather.ConditionCloudy,
		45: weather.ConditionMist,
		53: weather.ConditionDrizzle,
		63: weather.ConditionRain,
		81: weather.ConditionRain,
		73: weather.ConditionSnow,
		95: weather.ConditionStorm,
		30: weather.ConditionUnknown,
	}
	for in, want := range tests {
		assert.Equal(t, want, mapOpenMeteoCondition(in), "code %d", in)
	}
}
