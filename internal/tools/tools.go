// Package tools exposes the weather operations as MCP tools.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/vzahanych/weather-mcp/internal/config"
	"github.com/vzahanych/weather-mcp/internal/service"
	"github.com/vzahanych/weather-mcp/internal/shaper"
	"github.com/vzahanych/weather-mcp/pkg/logger"
	"github.com/vzahanych/weather-mcp/pkg/telemetry"
)

const (
	ServerName = "weather-mcp"

	ToolWeatherForecast   = "get_weather_forecast"
	ToolCurrentConditions = "get_current_conditions"
)

// CallRecorder receives one event per tool invocation.
type CallRecorder interface {
	RecordToolCall(ctx context.Context, tool string, success bool)
}

type Handler struct {
	svc      service.WeatherService
	defaults service.Coordinate
	minDays  int
	maxDays  int
	logger   *zap.Logger
	tele     *telemetry.Telemetry
	recorder CallRecorder
}

type Option func(*Handler)

func WithToolRecorder(r CallRecorder) Option {
	return func(h *Handler) {
		h.recorder = r
	}
}

// WithDefaults overrides the coordinate used when neither the arguments nor
// the request context supply one.
func WithDefaults(coord service.Coordinate) Option {
	return func(h *Handler) {
		h.defaults = coord
	}
}

func NewHandler(svc service.WeatherService, cfg config.WeatherConfig, log *zap.Logger, tele *telemetry.Telemetry, opts ...Option) *Handler {
	if log == nil {
		log = zap.NewNop()
	}

	h := &Handler{
		svc:      svc,
		defaults: DefaultsFromConfig(cfg),
		minDays:  service.MinForecastDays,
		maxDays:  service.MaxForecastDays,
		logger:   log.With(zap.String("component", "tools")),
		tele:     tele,
	}

	if r, ok := svc.(interface{ DayRange() (int, int) }); ok {
		h.minDays, h.maxDays = r.DayRange()
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// NewMCPServer builds an MCP server with both weather tools registered.
func NewMCPServer(h *Handler, version string) *server.MCPServer {
	s := server.NewMCPServer(ServerName, version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	h.Register(s)
	return s
}

func (h *Handler) Register(s *server.MCPServer) {
	s.AddTool(h.forecastTool(), h.GetWeatherForecast)
	s.AddTool(h.currentConditionsTool(), h.GetCurrentConditions)
}

func (h *Handler) forecastTool() mcp.Tool {
	return mcp.NewTool(ToolWeatherForecast,
		mcp.WithDescription("Get the current conditions and a daily weather forecast for a location."),
		latitudeParam(h.defaults),
		longitudeParam(h.defaults),
		mcp.WithNumber(argDays,
			mcp.Description(fmt.Sprintf("Number of forecast days (%d-%d)", h.minDays, h.maxDays)),
			mcp.DefaultNumber(DefaultForecastDays),
			mcp.Min(float64(h.minDays)),
			mcp.Max(float64(h.maxDays)),
		),
	)
}

func (h *Handler) currentConditionsTool() mcp.Tool {
	return mcp.NewTool(ToolCurrentConditions,
		mcp.WithDescription("Get the current weather conditions for a location."),
		latitudeParam(h.defaults),
		longitudeParam(h.defaults),
	)
}

func latitudeParam(defaults service.Coordinate) mcp.ToolOption {
	return mcp.WithNumber(argLatitude,
		mcp.Description(fmt.Sprintf("Latitude in decimal degrees (default %v)", defaults.Latitude)),
		mcp.Min(-90),
		mcp.Max(90),
	)
}

func longitudeParam(defaults service.Coordinate) mcp.ToolOption {
	return mcp.WithNumber(argLongitude,
		mcp.Description(fmt.Sprintf("Longitude in decimal degrees (default %v)", defaults.Longitude)),
		mcp.Min(-180),
		mcp.Max(180),
	)
}

// GetWeatherForecast handles get_weather_forecast. Failures are returned as
// error results, never as Go errors, so one bad request cannot take down the
// session.
func (h *Handler) GetWeatherForecast(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	coord, err := resolveCoordinate(ctx, h.defaults, args)
	if err != nil {
		return h.fail(ctx, ToolWeatherForecast, err), nil
	}
	days, err := daysArg(args)
	if err != nil {
		return h.fail(ctx, ToolWeatherForecast, err), nil
	}

	doc, err := h.Forecast(ctx, coord, days)
	if err != nil {
		return h.fail(ctx, ToolWeatherForecast, err), nil
	}
	return h.succeed(ctx, ToolWeatherForecast, doc), nil
}

// GetCurrentConditions handles get_current_conditions.
func (h *Handler) GetCurrentConditions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	coord, err := resolveCoordinate(ctx, h.defaults, req.GetArguments())
	if err != nil {
		return h.fail(ctx, ToolCurrentConditions, err), nil
	}

	doc, err := h.CurrentConditions(ctx, coord)
	if err != nil {
		return h.fail(ctx, ToolCurrentConditions, err), nil
	}
	return h.succeed(ctx, ToolCurrentConditions, doc), nil
}

// Forecast fetches and shapes the full forecast document for coord.
func (h *Handler) Forecast(ctx context.Context, coord service.Coordinate, days int) (shaper.ForecastDocument, error) {
	ctx, span := h.tele.GetTracer().Start(ctx, "tools.Forecast")
	defer span.End()
	span.SetAttributes(attribute.Int("days", days))

	bundle, err := h.svc.FetchFullBundle(ctx, coord, days)
	if err != nil {
		h.tele.RecordError(ctx, err, map[string]interface{}{"tool": ToolWeatherForecast})
		return shaper.ForecastDocument{}, err
	}
	return shaper.ShapeForecastResponse(coord, bundle, days), nil
}

// CurrentConditions fetches and shapes the current conditions for coord.
func (h *Handler) CurrentConditions(ctx context.Context, coord service.Coordinate) (shaper.CurrentConditionsDocument, error) {
	ctx, span := h.tele.GetTracer().Start(ctx, "tools.CurrentConditions")
	defer span.End()

	key, err := h.svc.ResolveLocationKey(ctx, coord)
	if err != nil {
		h.tele.RecordError(ctx, err, map[string]interface{}{"tool": ToolCurrentConditions})
		return shaper.CurrentConditionsDocument{}, err
	}

	conditions, err := h.svc.FetchCurrentConditions(ctx, key)
	if err != nil {
		h.tele.RecordError(ctx, err, map[string]interface{}{"tool": ToolCurrentConditions})
		return shaper.CurrentConditionsDocument{}, err
	}
	return shaper.ShapeCurrentConditionsResponse(coord, conditions), nil
}

func (h *Handler) succeed(ctx context.Context, tool string, doc any) *mcp.CallToolResult {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return h.fail(ctx, tool, fmt.Errorf("encode result: %w", err))
	}

	h.record(ctx, tool, true)
	logger.FromContext(ctx, h.logger).Debug("Tool call completed", zap.String("tool", tool))
	return mcp.NewToolResultText(string(data))
}

func (h *Handler) fail(ctx context.Context, tool string, err error) *mcp.CallToolResult {
	h.record(ctx, tool, false)

	kind := service.ErrorKind(err)
	log := logger.FromContext(ctx, h.logger).With(
		zap.String("tool", tool),
		zap.String("error_kind", kind),
		zap.Error(err),
	)
	if errors.Is(err, service.ErrInvalidArgument) {
		log.Info("Tool call rejected")
	} else {
		log.Warn("Tool call failed")
	}

	return mcp.NewToolResultError(FailureMessage(tool, err))
}

func (h *Handler) record(ctx context.Context, tool string, success bool) {
	if h.recorder != nil {
		h.recorder.RecordToolCall(ctx, tool, success)
	}
}

// FailureMessage renders err as the text of a failed tool result.
func FailureMessage(tool string, err error) string {
	var upstream *service.UpstreamError

	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		return "Invalid arguments: " + err.Error()
	case errors.Is(err, service.ErrUpstreamTimeout):
		return "The weather provider timed out: " + err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return "The request deadline was exceeded: " + err.Error()
	case errors.Is(err, context.Canceled):
		return "The request was cancelled"
	case errors.As(err, &upstream) && upstream.StatusCode != 0:
		return fmt.Sprintf("The weather provider rejected the %s request (HTTP %d): %s", describe(tool), upstream.StatusCode, err.Error())
	default:
		return fmt.Sprintf("Failed to get %s: %s", describe(tool), err.Error())
	}
}

func describe(tool string) string {
	switch tool {
	case ToolWeatherForecast:
		return "weather forecast"
	case ToolCurrentConditions:
		return "current conditions"
	default:
		return tool
	}
}
