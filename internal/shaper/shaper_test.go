package shaper

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vzahanych/weather-mcp/internal/service"
)

var nairobi = service.Coordinate{Latitude: -1.2864, Longitude: 36.8172}

func sampleConditions(precipitationType *string) service.CurrentConditions {
	return service.CurrentConditions{
		LocalObservationDateTime: "2025-11-05T10:17:00+03:00",
		WeatherText:              "Mostly cloudy",
		HasPrecipitation:         precipitationType != nil,
		PrecipitationType:        precipitationType,
		Temperature: service.MetricImperial{
			Metric: service.Measurement{Value: 22.4, Unit: "C"},
		},
		RelativeHumidity: 64,
		Wind: service.CurrentWind{
			Direction: service.WindDirection{Degrees: 90, Localized: "E", English: "E"},
			Speed: service.MetricImperial{
				Metric: service.Measurement{Value: 11.1, Unit: "km/h"},
			},
		},
	}
}

func sampleForecast(n int) []service.DailyForecast {
	out := make([]service.DailyForecast, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, service.DailyForecast{
			Date: fmt.Sprintf("2025-11-%02dT07:00:00+03:00", 5+i),
			Temperature: service.DailyTemperature{
				Minimum: service.Measurement{Value: float64(13 + i), Unit: "C"},
				Maximum: service.Measurement{Value: float64(25 + i), Unit: "C"},
			},
			Day: service.HalfDayForecast{
				IconPhrase:               "Partly sunny",
				PrecipitationProbability: 10 * i,
				Wind: service.ForecastWind{
					Speed: service.Measurement{Value: 14.8, Unit: "km/h"},
				},
			},
			Night: service.HalfDayForecast{
				IconPhrase:               "Clear",
				PrecipitationProbability: 5,
			},
		})
	}
	return out
}

func sampleBundle(days int) *service.ForecastBundle {
	return &service.ForecastBundle{
		Location: service.LocationDetails{
			Key:                "224758",
			LocalizedName:      "Nairobi",
			Country:            service.NamedArea{ID: "KE", LocalizedName: "Kenya"},
			AdministrativeArea: service.NamedArea{ID: "30", LocalizedName: "Nairobi"},
		},
		Current:  sampleConditions(nil),
		Forecast: sampleForecast(days),
	}
}

func TestShapeForecastResponse(t *testing.T) {
	doc := ShapeForecastResponse(nairobi, sampleBundle(5), 5)

	assert.Equal(t, ForecastLocation{
		Latitude:  -1.2864,
		Longitude: 36.8172,
		Name:      "Nairobi",
		Country:   "Kenya",
		Region:    "Nairobi",
	}, doc.Location)

	assert.Equal(t, CurrentSummary{
		Temperature:   22.4,
		TempUnit:      "C",
		Conditions:    "Mostly cloudy",
		Humidity:      64,
		WindSpeed:     11.1,
		WindUnit:      "km/h",
		WindDirection: "E",
	}, doc.Current)

	assert.Equal(t, Period{Days: 5, StartDate: "2025-11-05", EndDate: "2025-11-09"}, doc.Period)
	assert.Equal(t, DataSource, doc.DataSource)

	require.Len(t, doc.Forecast, 5)
	first := doc.Forecast[0]
	assert.Equal(t, "2025-11-05", first.Date)
	assert.Equal(t, 25.0, first.MaxTemp)
	assert.Equal(t, 13.0, first.MinTemp)
	assert.Equal(t, "C", first.TempUnit)
	assert.Equal(t, "Partly sunny", first.DayConditions)
	assert.Equal(t, 0, first.DayPrecipitationProbability)
	assert.Equal(t, "Clear", first.NightConditions)
	assert.Equal(t, 5, first.NightPrecipitationProbability)
	assert.Equal(t, 14.8, first.WindSpeed)
	assert.Equal(t, "km/h", first.WindUnit)

	for i, day := range doc.Forecast {
		assert.Equal(t, float64(25+i), day.MaxTemp, "entry %d out of order", i)
	}
}

func TestShapeForecastResponseStripsTimeOfDay(t *testing.T) {
	bundle := sampleBundle(1)
	bundle.Forecast[0].Date = "2025-11-05T00:00:00"

	doc := ShapeForecastResponse(nairobi, bundle, 1)
	assert.Equal(t, "2025-11-05", doc.Period.StartDate)
	assert.Equal(t, "2025-11-05", doc.Period.EndDate)
	assert.Equal(t, "2025-11-05", doc.Forecast[0].Date)
}

func TestShapeForecastResponseEmptyForecast(t *testing.T) {
	bundle := sampleBundle(0)

	doc := ShapeForecastResponse(nairobi, bundle, 3)
	assert.Equal(t, 3, doc.Period.Days)
	assert.Empty(t, doc.Period.StartDate)
	assert.Empty(t, doc.Period.EndDate)
	assert.NotNil(t, doc.Forecast)

	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"forecast":[]`)
}

func TestShapeForecastResponseJSONFields(t *testing.T) {
	raw, err := json.Marshal(ShapeForecastResponse(nairobi, sampleBundle(2), 2))
	require.NoError(t, err)

	var generic map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &generic))

	assert.ElementsMatch(t, []string{"location", "current", "period", "forecast", "data_source"}, keys(generic))

	day := generic["forecast"].([]interface{})[0].(map[string]interface{})
	assert.ElementsMatch(t, []string{
		"date", "max_temp", "min_temp", "temp_unit",
		"day_conditions", "day_precipitation_probability",
		"night_conditions", "night_precipitation_probability",
		"wind_speed", "wind_unit",
	}, keys(day))
}

func TestShapeCurrentConditionsResponseNoPrecipitation(t *testing.T) {
	conditions := sampleConditions(nil)

	doc := ShapeCurrentConditionsResponse(nairobi, &conditions)
	assert.Equal(t, CoordinateOnly{Latitude: -1.2864, Longitude: 36.8172}, doc.Location)
	assert.False(t, doc.Current.HasPrecipitation)
	assert.Equal(t, "none", doc.Current.PrecipitationType)
	assert.Equal(t, "Mostly cloudy", doc.Current.Conditions)
	assert.Equal(t, 64, doc.Current.Humidity)
	assert.Equal(t, DataSource, doc.DataSource)
}

func TestShapeCurrentConditionsResponseWithPrecipitation(t *testing.T) {
	rain := "Rain"
	conditions := sampleConditions(&rain)

	doc := ShapeCurrentConditionsResponse(nairobi, &conditions)
	assert.True(t, doc.Current.HasPrecipitation)
	assert.Equal(t, "Rain", doc.Current.PrecipitationType)
}

func TestShapeCurrentConditionsResponseJSONIsFlat(t *testing.T) {
	conditions := sampleConditions(nil)

	raw, err := json.Marshal(ShapeCurrentConditionsResponse(nairobi, &conditions))
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &doc))
	current := doc["current"].(map[string]interface{})
	assert.ElementsMatch(t, []string{
		"temperature", "temp_unit", "conditions", "humidity",
		"wind_speed", "wind_unit", "wind_direction",
		"has_precipitation", "precipitation_type",
	}, keys(current))
	assert.Equal(t, "none", current["precipitation_type"])
}

func keys(m map[string]interface{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
