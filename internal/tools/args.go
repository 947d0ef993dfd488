package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/vzahanych/weather-mcp/internal/config"
	"github.com/vzahanych/weather-mcp/internal/service"
	"github.com/vzahanych/weather-mcp/pkg/logger"
)

const (
	FallbackLatitude    = -1.2864
	FallbackLongitude   = 36.8172
	DefaultForecastDays = 5

	HeaderDefaultLatitude  = "X-Default-Latitude"
	HeaderDefaultLongitude = "X-Default-Longitude"
	headerRequestID        = "X-Request-ID"

	argLatitude  = "latitude"
	argLongitude = "longitude"
	argDays      = "days"
)

type defaultsKey struct{}

type coordinateDefaults struct {
	latitude  *float64
	longitude *float64
}

// WithDefaultCoordinate attaches caller-supplied defaults to ctx. Either
// value may be nil, in which case the configured default is used for that
// field.
func WithDefaultCoordinate(ctx context.Context, latitude, longitude *float64) context.Context {
	if latitude == nil && longitude == nil {
		return ctx
	}
	return context.WithValue(ctx, defaultsKey{}, coordinateDefaults{
		latitude:  latitude,
		longitude: longitude,
	})
}

// HTTPContext copies the default-coordinate and request ID headers of r into
// ctx. Unparseable header values are ignored.
func HTTPContext(ctx context.Context, r *http.Request) context.Context {
	ctx = logger.WithRequestID(ctx, r.Header.Get(headerRequestID))
	return WithDefaultCoordinate(ctx,
		headerFloat(r.Header, HeaderDefaultLatitude),
		headerFloat(r.Header, HeaderDefaultLongitude),
	)
}

func headerFloat(h http.Header, name string) *float64 {
	raw := strings.TrimSpace(h.Get(name))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// DefaultsFromConfig picks the configured default coordinate, falling back
// per field to a fixed point.
func DefaultsFromConfig(cfg config.WeatherConfig) service.Coordinate {
	coord := service.Coordinate{Latitude: FallbackLatitude, Longitude: FallbackLongitude}
	if cfg.DefaultLatitude != nil {
		coord.Latitude = *cfg.DefaultLatitude
	}
	if cfg.DefaultLongitude != nil {
		coord.Longitude = *cfg.DefaultLongitude
	}
	return coord
}

// DefaultCoordinate overlays the defaults attached by WithDefaultCoordinate
// or HTTPContext on base.
func DefaultCoordinate(ctx context.Context, base service.Coordinate) service.Coordinate {
	if d, ok := ctx.Value(defaultsKey{}).(coordinateDefaults); ok {
		if d.latitude != nil {
			base.Latitude = *d.latitude
		}
		if d.longitude != nil {
			base.Longitude = *d.longitude
		}
	}
	return base
}

// resolveCoordinate applies, per field: explicit argument, then context
// default, then the handler default.
func resolveCoordinate(ctx context.Context, base service.Coordinate, args map[string]any) (service.Coordinate, error) {
	coord := DefaultCoordinate(ctx, base)

	lat, ok, err := numberArg(args, argLatitude)
	if err != nil {
		return coord, err
	}
	if ok {
		coord.Latitude = lat
	}

	lon, ok, err := numberArg(args, argLongitude)
	if err != nil {
		return coord, err
	}
	if ok {
		coord.Longitude = lon
	}

	return coord, nil
}

func daysArg(args map[string]any) (int, error) {
	v, ok, err := numberArg(args, argDays)
	if err != nil {
		return 0, err
	}
	if !ok {
		return DefaultForecastDays, nil
	}
	if v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
		return 0, fmt.Errorf("%w: days must be a whole number, got %v", service.ErrInvalidArgument, v)
	}
	return int(v), nil
}

// numberArg reads a numeric argument. A missing or null value reports
// ok=false; numeric strings are accepted.
func numberArg(args map[string]any, name string) (float64, bool, error) {
	raw, present := args[name]
	if !present || raw == nil {
		return 0, false, nil
	}

	switch v := raw.(type) {
	case float64:
		return v, true, nil
	case float32:
		return float64(v), true, nil
	case int:
		return float64(v), true, nil
	case int64:
		return float64(v), true, nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false, notANumber(name, raw)
		}
		return f, true, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false, notANumber(name, raw)
		}
		return f, true, nil
	default:
		return 0, false, notANumber(name, raw)
	}
}

func notANumber(name string, raw any) error {
	return fmt.Errorf("%w: %s must be a number, got %v", service.ErrInvalidArgument, name, raw)
}
