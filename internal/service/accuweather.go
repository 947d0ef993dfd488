package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/vzahanych/weather-mcp/internal/config"
	"github.com/vzahanych/weather-mcp/pkg/telemetry"
)

const (
	DefaultBaseURL   = "https://dataservice.accuweather.com"
	DefaultLanguage  = "en-us"
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "weather-mcp/1.0"

	// Provider plan limits for the daily forecast endpoint.
	MinForecastDays = 1
	MaxForecastDays = 15
)

const (
	opGeopositionSearch = "geoposition_search"
	opLocationDetails   = "location_details"
	opCurrentConditions = "current_conditions"
	opDailyForecast     = "daily_forecast"
)

// AccuWeatherService talks to the AccuWeather REST API. All fields are set at
// construction and never mutated, so one instance serves any number of
// concurrent callers.
type AccuWeatherService struct {
	apiKey    string
	language  string
	timeout   time.Duration
	userAgent string
	minDays   int
	maxDays   int
	client    *resty.Client
	transport http.RoundTripper
	logger    *zap.Logger
	tele      *telemetry.Telemetry
	recorder  CallRecorder
}

type Option func(*AccuWeatherService)

// WithTimeout overrides the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *AccuWeatherService) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func WithCallRecorder(r CallRecorder) Option {
	return func(s *AccuWeatherService) {
		s.recorder = r
	}
}

func WithUserAgent(ua string) Option {
	return func(s *AccuWeatherService) {
		if ua != "" {
			s.userAgent = ua
		}
	}
}

// WithTransport replaces the base round tripper. The transport is still
// wrapped for tracing.
func WithTransport(rt http.RoundTripper) Option {
	return func(s *AccuWeatherService) {
		if rt != nil {
			s.transport = rt
		}
	}
}

func NewAccuWeatherServiceWithConfig(cfg config.WeatherConfig, logger *zap.Logger, tele *telemetry.Telemetry, opts ...Option) *AccuWeatherService {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &AccuWeatherService{
		apiKey:    cfg.APIKey,
		language:  cfg.Language,
		timeout:   time.Duration(cfg.Timeout) * time.Second,
		userAgent: DefaultUserAgent,
		minDays:   cfg.MinDays,
		maxDays:   cfg.MaxDays,
		transport: http.DefaultTransport,
		logger:    logger.With(zap.String("service", "accuweather")),
		tele:      tele,
	}

	if s.language == "" {
		s.language = DefaultLanguage
	}
	if s.timeout <= 0 {
		s.timeout = DefaultTimeout
	}
	if s.minDays < MinForecastDays || s.maxDays > MaxForecastDays || s.minDays > s.maxDays {
		s.minDays, s.maxDays = MinForecastDays, MaxForecastDays
	}

	for _, opt := range opts {
		opt(s)
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	s.client = resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", s.userAgent).
		SetTransport(otelhttp.NewTransport(s.transport)).
		SetLogger(s.logger.Sugar())

	if s.apiKey == "" {
		s.logger.Warn("AccuWeather API key is not configured, provider calls will be rejected")
	}

	return s
}

func (s *AccuWeatherService) Name() string {
	return "accuweather"
}

// DayRange returns the inclusive bounds accepted by FetchForecast.
func (s *AccuWeatherService) DayRange() (int, int) {
	return s.minDays, s.maxDays
}

func (s *AccuWeatherService) ResolveLocationKey(ctx context.Context, coord Coordinate) (string, error) {
	if err := ValidateCoordinate(coord); err != nil {
		return "", err
	}

	ctx, span := s.tele.GetTracer().Start(ctx, "accuweather.ResolveLocationKey")
	defer span.End()

	span.SetAttributes(
		attribute.Float64("lat", coord.Latitude),
		attribute.Float64("lon", coord.Longitude),
	)

	body, err := s.get(ctx, opGeopositionSearch, "/locations/v1/cities/geoposition/search", nil, map[string]string{
		"q": coord.Query(),
	})
	if err != nil {
		return "", err
	}

	var location struct {
		Key string `json:"Key"`
	}
	if err := decode(opGeopositionSearch, body, &location); err != nil {
		return "", err
	}
	if location.Key == "" {
		return "", protocolError(opGeopositionSearch, "missing location key")
	}

	span.SetAttributes(attribute.String("location_key", location.Key))
	return location.Key, nil
}

func (s *AccuWeatherService) FetchLocationDetails(ctx context.Context, locationKey string) (*LocationDetails, error) {
	if err := validateLocationKey(locationKey); err != nil {
		return nil, err
	}

	ctx, span := s.tele.GetTracer().Start(ctx, "accuweather.FetchLocationDetails")
	defer span.End()
	span.SetAttributes(attribute.String("location_key", locationKey))

	body, err := s.get(ctx, opLocationDetails, "/locations/v1/{locationKey}", map[string]string{
		"locationKey": locationKey,
	}, nil)
	if err != nil {
		return nil, err
	}

	var details LocationDetails
	if err := decode(opLocationDetails, body, &details); err != nil {
		return nil, err
	}
	if details.Key == "" {
		return nil, protocolError(opLocationDetails, "missing location key")
	}

	return &details, nil
}

func (s *AccuWeatherService) FetchCurrentConditions(ctx context.Context, locationKey string) (*CurrentConditions, error) {
	if err := validateLocationKey(locationKey); err != nil {
		return nil, err
	}

	ctx, span := s.tele.GetTracer().Start(ctx, "accuweather.FetchCurrentConditions")
	defer span.End()
	span.SetAttributes(attribute.String("location_key", locationKey))

	body, err := s.get(ctx, opCurrentConditions, "/currentconditions/v1/{locationKey}", map[string]string{
		"locationKey": locationKey,
	}, map[string]string{
		"details": "true",
	})
	if err != nil {
		return nil, err
	}

	var conditions []CurrentConditions
	if err := decode(opCurrentConditions, body, &conditions); err != nil {
		return nil, err
	}
	if len(conditions) == 0 {
		return nil, protocolError(opCurrentConditions, "empty conditions array")
	}

	return &conditions[0], nil
}

// FetchForecast returns at most days entries in provider order, even when
// the provider returns more.
func (s *AccuWeatherService) FetchForecast(ctx context.Context, locationKey string, days int) ([]DailyForecast, error) {
	if err := validateLocationKey(locationKey); err != nil {
		return nil, err
	}
	if err := validateDays(days, s.minDays, s.maxDays); err != nil {
		return nil, err
	}

	ctx, span := s.tele.GetTracer().Start(ctx, "accuweather.FetchForecast")
	defer span.End()
	span.SetAttributes(
		attribute.String("location_key", locationKey),
		attribute.Int("days", days),
	)

	body, err := s.get(ctx, opDailyForecast, "/forecasts/v1/daily/{days}day/{locationKey}", map[string]string{
		"days":        strconv.Itoa(days),
		"locationKey": locationKey,
	}, map[string]string{
		"details": "true",
		"metric":  "true",
	})
	if err != nil {
		return nil, err
	}

	var payload struct {
		DailyForecasts []DailyForecast `json:"DailyForecasts"`
	}
	if err := decode(opDailyForecast, body, &payload); err != nil {
		return nil, err
	}
	if payload.DailyForecasts == nil {
		return nil, protocolError(opDailyForecast, "missing DailyForecasts")
	}

	forecast := payload.DailyForecasts
	if len(forecast) > days {
		s.logger.Debug("Truncating forecast to requested days",
			zap.Int("returned", len(forecast)),
			zap.Int("days", days))
		forecast = forecast[:days]
	}

	span.SetAttributes(attribute.Int("days_returned", len(forecast)))
	return forecast, nil
}

// get performs one GET under its own timeout. The timeout context is released
// on every return path.
func (s *AccuWeatherService) get(ctx context.Context, operation, path string, pathParams, query map[string]string) ([]byte, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	params := map[string]string{
		"apikey":   s.apiKey,
		"language": s.language,
	}
	for k, v := range query {
		params[k] = v
	}

	start := time.Now()
	resp, err := s.client.R().
		SetContext(callCtx).
		SetPathParams(pathParams).
		SetQueryParams(params).
		Get(path)
	elapsed := time.Since(start)

	if err != nil {
		err = s.transportError(ctx, callCtx, operation, err)
		s.finish(ctx, operation, elapsed, 0, err)
		return nil, err
	}

	if !resp.IsSuccess() {
		err := &UpstreamError{
			Operation:  operation,
			StatusCode: resp.StatusCode(),
			Status:     resp.Status(),
			Body:       strings.TrimSpace(string(resp.Body())),
		}
		s.finish(ctx, operation, elapsed, resp.StatusCode(), err)
		return nil, err
	}

	s.finish(ctx, operation, elapsed, resp.StatusCode(), nil)
	return resp.Body(), nil
}

// transportError separates the caller giving up, our own deadline firing and
// a plain delivery failure.
func (s *AccuWeatherService) transportError(parent, callCtx context.Context, operation string, err error) error {
	if parent.Err() != nil {
		return fmt.Errorf("accuweather %s: %w", operation, parent.Err())
	}

	var netErr net.Error
	if errors.Is(callCtx.Err(), context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: accuweather %s did not respond within %s", ErrUpstreamTimeout, operation, s.timeout)
	}

	return &UpstreamError{Operation: operation, Err: err}
}

func (s *AccuWeatherService) finish(ctx context.Context, operation string, elapsed time.Duration, status int, err error) {
	if s.recorder != nil {
		s.recorder.RecordWeatherServiceCall(ctx, s.Name()+"."+operation, err == nil)
	}

	fields := []zap.Field{
		zap.String("operation", operation),
		zap.Duration("latency", elapsed),
	}
	if status != 0 {
		fields = append(fields, zap.Int("status", status))
	}

	if err != nil {
		s.tele.RecordError(ctx, err, map[string]interface{}{
			"operation":   operation,
			"status_code": status,
		})
		s.logger.Warn("AccuWeather request failed", append(fields, zap.Error(err))...)
		return
	}

	s.logger.Debug("AccuWeather request completed", fields...)
}

func decode(operation string, body []byte, v interface{}) error {
	if err := json.Unmarshal(body, v); err != nil {
		return protocolError(operation, err.Error())
	}
	return nil
}
