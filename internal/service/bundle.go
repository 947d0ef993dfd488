package service

import (
	"context"

	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// FetchFullBundle resolves coord to a location key, then fetches current
// conditions, the forecast and the location details concurrently. The first
// failure cancels the other calls and is returned as-is; no partial bundle is
// ever produced. All goroutines have exited by the time it returns.
func (s *AccuWeatherService) FetchFullBundle(ctx context.Context, coord Coordinate, days int) (*ForecastBundle, error) {
	if err := ValidateCoordinate(coord); err != nil {
		return nil, err
	}
	if err := validateDays(days, s.minDays, s.maxDays); err != nil {
		return nil, err
	}

	ctx, span := s.tele.GetTracer().Start(ctx, "accuweather.FetchFullBundle")
	defer span.End()

	span.SetAttributes(
		attribute.Float64("lat", coord.Latitude),
		attribute.Float64("lon", coord.Longitude),
		attribute.Int("days", days),
	)

	key, err := s.ResolveLocationKey(ctx, coord)
	if err != nil {
		span.SetAttributes(attribute.Bool("success", false))
		return nil, err
	}

	var (
		current  *CurrentConditions
		forecast []DailyForecast
		location *LocationDetails
	)

	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()

	p.Go(func(ctx context.Context) error {
		var err error
		current, err = s.FetchCurrentConditions(ctx, key)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		forecast, err = s.FetchForecast(ctx, key, days)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		location, err = s.FetchLocationDetails(ctx, key)
		return err
	})

	if err := p.Wait(); err != nil {
		span.SetAttributes(attribute.Bool("success", false))
		s.logger.Debug("Bundle fetch failed",
			zap.String("location_key", key),
			zap.Error(err))
		return nil, err
	}

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("days_returned", len(forecast)),
	)

	return &ForecastBundle{
		Location: *location,
		Current:  *current,
		Forecast: forecast,
	}, nil
}
