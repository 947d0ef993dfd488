package service

import "context"

// WeatherService is the provider-facing surface used by the tool layer.
type WeatherService interface {
	ResolveLocationKey(ctx context.Context, coord Coordinate) (string, error)
	FetchLocationDetails(ctx context.Context, locationKey string) (*LocationDetails, error)
	FetchCurrentConditions(ctx context.Context, locationKey string) (*CurrentConditions, error)
	FetchForecast(ctx context.Context, locationKey string, days int) ([]DailyForecast, error)
	FetchFullBundle(ctx context.Context, coord Coordinate, days int) (*ForecastBundle, error)
	Name() string
}

// CallRecorder receives one event per outbound provider call.
type CallRecorder interface {
	RecordWeatherServiceCall(ctx context.Context, service string, success bool)
}
