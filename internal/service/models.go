package service

import (
	"strconv"
)

// Coordinate is a WGS84 point. Latitude must lie in [-90,90] and longitude
// in [-180,180]; both must be finite.
type Coordinate struct {
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
}

// Query formats the coordinate the way the geoposition search expects it.
func (c Coordinate) Query() string {
	return strconv.FormatFloat(c.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(c.Longitude, 'f', -1, 64)
}

type NamedArea struct {
	ID            string `json:"ID"`
	LocalizedName string `json:"LocalizedName"`
}

type LocationDetails struct {
	Key                string    `json:"Key"`
	LocalizedName      string    `json:"LocalizedName"`
	Country            NamedArea `json:"Country"`
	AdministrativeArea NamedArea `json:"AdministrativeArea"`
}

type Measurement struct {
	Value    float64 `json:"Value"`
	Unit     string  `json:"Unit"`
	UnitType int     `json:"UnitType"`
}

type MetricImperial struct {
	Metric   Measurement `json:"Metric"`
	Imperial Measurement `json:"Imperial"`
}

type WindDirection struct {
	Degrees   float64 `json:"Degrees"`
	Localized string  `json:"Localized"`
	English   string  `json:"English"`
}

type CurrentWind struct {
	Direction WindDirection  `json:"Direction"`
	Speed     MetricImperial `json:"Speed"`
}

// CurrentConditions is a point-in-time observation. PrecipitationType is nil
// when the provider reports no precipitation.
type CurrentConditions struct {
	LocalObservationDateTime string         `json:"LocalObservationDateTime"`
	EpochTime                int64          `json:"EpochTime"`
	WeatherText              string         `json:"WeatherText"`
	WeatherIcon              int            `json:"WeatherIcon"`
	HasPrecipitation         bool           `json:"HasPrecipitation"`
	PrecipitationType        *string        `json:"PrecipitationType"`
	IsDayTime                bool           `json:"IsDayTime"`
	Temperature              MetricImperial `json:"Temperature"`
	RelativeHumidity         int            `json:"RelativeHumidity"`
	Wind                     CurrentWind    `json:"Wind"`
}

type DailyTemperature struct {
	Minimum Measurement `json:"Minimum"`
	Maximum Measurement `json:"Maximum"`
}

type ForecastWind struct {
	Speed     Measurement   `json:"Speed"`
	Direction WindDirection `json:"Direction"`
}

type HalfDayForecast struct {
	Icon                     int          `json:"Icon"`
	IconPhrase               string       `json:"IconPhrase"`
	HasPrecipitation         bool         `json:"HasPrecipitation"`
	PrecipitationProbability int          `json:"PrecipitationProbability"`
	Wind                     ForecastWind `json:"Wind"`
}

type DailyForecast struct {
	Date        string           `json:"Date"`
	EpochDate   int64            `json:"EpochDate"`
	Temperature DailyTemperature `json:"Temperature"`
	Day         HalfDayForecast  `json:"Day"`
	Night       HalfDayForecast  `json:"Night"`
}

// ForecastBundle is the result of FetchFullBundle. Forecast keeps the
// provider's chronological order.
type ForecastBundle struct {
	Location LocationDetails   `json:"location"`
	Current  CurrentConditions `json:"current"`
	Forecast []DailyForecast   `json:"forecast"`
}
