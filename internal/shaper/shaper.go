// Package shaper turns provider results into the simplified documents returned
// by the weather tools. Everything here is pure: no I/O, no errors.
package shaper

import (
	"strings"

	"github.com/vzahanych/weather-mcp/internal/service"
)

const (
	DataSource          = "AccuWeather API"
	NoPrecipitation     = "none"
	dateLayoutSeparator = "T"
)

type ForecastLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Region    string  `json:"region"`
}

type CurrentSummary struct {
	Temperature   float64 `json:"temperature"`
	TempUnit      string  `json:"temp_unit"`
	Conditions    string  `json:"conditions"`
	Humidity      int     `json:"humidity"`
	WindSpeed     float64 `json:"wind_speed"`
	WindUnit      string  `json:"wind_unit"`
	WindDirection string  `json:"wind_direction"`
}

type Period struct {
	Days      int    `json:"days"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type ForecastDay struct {
	Date                          string  `json:"date"`
	MaxTemp                       float64 `json:"max_temp"`
	MinTemp                       float64 `json:"min_temp"`
	TempUnit                      string  `json:"temp_unit"`
	DayConditions                 string  `json:"day_conditions"`
	DayPrecipitationProbability   int     `json:"day_precipitation_probability"`
	NightConditions               string  `json:"night_conditions"`
	NightPrecipitationProbability int     `json:"night_precipitation_probability"`
	WindSpeed                     float64 `json:"wind_speed"`
	WindUnit                      string  `json:"wind_unit"`
}

// ForecastDocument is the get_weather_forecast result.
type ForecastDocument struct {
	Location   ForecastLocation `json:"location"`
	Current    CurrentSummary   `json:"current"`
	Period     Period           `json:"period"`
	Forecast   []ForecastDay    `json:"forecast"`
	DataSource string           `json:"data_source"`
}

type CoordinateOnly struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type CurrentDetail struct {
	CurrentSummary
	HasPrecipitation  bool   `json:"has_precipitation"`
	PrecipitationType string `json:"precipitation_type"`
}

// CurrentConditionsDocument is the get_current_conditions result.
type CurrentConditionsDocument struct {
	Location   CoordinateOnly `json:"location"`
	Current    CurrentDetail  `json:"current"`
	DataSource string         `json:"data_source"`
}

// ShapeForecastResponse builds the forecast document. The period covers the
// first and last shaped forecast entries; days echoes the requested count.
func ShapeForecastResponse(coord service.Coordinate, bundle *service.ForecastBundle, days int) ForecastDocument {
	forecast := make([]ForecastDay, 0, len(bundle.Forecast))
	for _, entry := range bundle.Forecast {
		forecast = append(forecast, shapeForecastDay(entry))
	}

	period := Period{Days: days}
	if len(forecast) > 0 {
		period.StartDate = forecast[0].Date
		period.EndDate = forecast[len(forecast)-1].Date
	}

	return ForecastDocument{
		Location: ForecastLocation{
			Latitude:  coord.Latitude,
			Longitude: coord.Longitude,
			Name:      bundle.Location.LocalizedName,
			Country:   bundle.Location.Country.LocalizedName,
			Region:    bundle.Location.AdministrativeArea.LocalizedName,
		},
		Current:    summarize(&bundle.Current),
		Period:     period,
		Forecast:   forecast,
		DataSource: DataSource,
	}
}

// ShapeCurrentConditionsResponse builds the current-conditions document.
// A missing precipitation type is reported as "none".
func ShapeCurrentConditionsResponse(coord service.Coordinate, conditions *service.CurrentConditions) CurrentConditionsDocument {
	precipitationType := NoPrecipitation
	if conditions.PrecipitationType != nil && *conditions.PrecipitationType != "" {
		precipitationType = *conditions.PrecipitationType
	}

	return CurrentConditionsDocument{
		Location: CoordinateOnly{
			Latitude:  coord.Latitude,
			Longitude: coord.Longitude,
		},
		Current: CurrentDetail{
			CurrentSummary:    summarize(conditions),
			HasPrecipitation:  conditions.HasPrecipitation,
			PrecipitationType: precipitationType,
		},
		DataSource: DataSource,
	}
}

func summarize(c *service.CurrentConditions) CurrentSummary {
	return CurrentSummary{
		Temperature:   c.Temperature.Metric.Value,
		TempUnit:      c.Temperature.Metric.Unit,
		Conditions:    c.WeatherText,
		Humidity:      c.RelativeHumidity,
		WindSpeed:     c.Wind.Speed.Metric.Value,
		WindUnit:      c.Wind.Speed.Metric.Unit,
		WindDirection: c.Wind.Direction.Localized,
	}
}

func shapeForecastDay(entry service.DailyForecast) ForecastDay {
	return ForecastDay{
		Date:                          calendarDate(entry.Date),
		MaxTemp:                       entry.Temperature.Maximum.Value,
		MinTemp:                       entry.Temperature.Minimum.Value,
		TempUnit:                      entry.Temperature.Maximum.Unit,
		DayConditions:                 entry.Day.IconPhrase,
		DayPrecipitationProbability:   entry.Day.PrecipitationProbability,
		NightConditions:               entry.Night.IconPhrase,
		NightPrecipitationProbability: entry.Night.PrecipitationProbability,
		WindSpeed:                     entry.Day.Wind.Speed.Value,
		WindUnit:                      entry.Day.Wind.Speed.Unit,
	}
}

// calendarDate keeps the YYYY-MM-DD part of an ISO-8601 timestamp.
func calendarDate(ts string) string {
	date, _, _ := strings.Cut(ts, dateLayoutSeparator)
	return date
}
