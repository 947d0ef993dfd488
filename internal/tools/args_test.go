package tools

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vzahanych/weather-mcp/internal/config"
	"github.com/vzahanych/weather-mcp/internal/service"
)

func TestNumberArg(t *testing.T) {
	tests := []struct {
		name    string
		raw     any
		want    float64
		present bool
		wantErr bool
	}{
		{name: "missing", raw: nil, present: false},
		{name: "float", raw: 12.5, want: 12.5, present: true},
		{name: "int", raw: 7, want: 7, present: true},
		{name: "json number", raw: json.Number("-3.25"), want: -3.25, present: true},
		{name: "numeric string", raw: " 40.7 ", want: 40.7, present: true},
		{name: "word", raw: "north", wantErr: true},
		{name: "bool", raw: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := map[string]any{}
			if tt.raw != nil {
				args["x"] = tt.raw
			}

			got, present, err := numberArg(args, "x")
			if tt.wantErr {
				assert.ErrorIs(t, err, service.ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.present, present)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDaysArg(t *testing.T) {
	days, err := daysArg(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultForecastDays, days)

	days, err = daysArg(map[string]any{"days": 10.0})
	require.NoError(t, err)
	assert.Equal(t, 10, days)

	_, err = daysArg(map[string]any{"days": math.NaN()})
	assert.ErrorIs(t, err, service.ErrInvalidArgument)

	_, err = daysArg(map[string]any{"days": 1e12})
	assert.ErrorIs(t, err, service.ErrInvalidArgument)
}

func TestDefaultsFromConfig(t *testing.T) {
	assert.Equal(t,
		service.Coordinate{Latitude: FallbackLatitude, Longitude: FallbackLongitude},
		DefaultsFromConfig(config.WeatherConfig{}))

	lon := 139.6917
	assert.Equal(t,
		service.Coordinate{Latitude: FallbackLatitude, Longitude: lon},
		DefaultsFromConfig(config.WeatherConfig{DefaultLongitude: &lon}))
}
