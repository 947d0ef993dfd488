package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vzahanych/weather-mcp/internal/server/utils"
	"github.com/vzahanych/weather-mcp/internal/service"
	"github.com/vzahanych/weather-mcp/internal/shaper"
	"github.com/vzahanych/weather-mcp/internal/tools"
)

// WeatherTools is the part of the tool layer the REST mirror needs.
type WeatherTools interface {
	Forecast(ctx context.Context, coord service.Coordinate, days int) (shaper.ForecastDocument, error)
	CurrentConditions(ctx context.Context, coord service.Coordinate) (shaper.CurrentConditionsDocument, error)
}

// WeatherRequest carries the query parameters of the REST endpoints. Missing
// coordinates fall back to the X-Default-Latitude/X-Default-Longitude headers,
// then to the configured defaults.
type WeatherRequest struct {
	Lat  *float64 `form:"lat"`
	Lon  *float64 `form:"lon"`
	Days *int     `form:"days"`
}

type WeatherHandler struct {
	tools    WeatherTools
	defaults service.Coordinate
	logger   *zap.Logger
}

func NewWeatherHandler(t WeatherTools, defaults service.Coordinate, logger *zap.Logger) *WeatherHandler {
	return &WeatherHandler{
		tools:    t,
		defaults: defaults,
		logger:   logger,
	}
}

// GetForecast serves the get_weather_forecast document over plain HTTP.
func (h *WeatherHandler) GetForecast(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}

	days := tools.DefaultForecastDays
	if req.Days != nil {
		days = *req.Days
	}

	ctx := tools.HTTPContext(utils.GetContextFromGinContext(c), c.Request)
	doc, err := h.tools.Forecast(ctx, h.coordinate(ctx, req), days)
	if err != nil {
		h.fail(c, tools.ToolWeatherForecast, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// GetCurrentConditions serves the get_current_conditions document over plain
// HTTP.
func (h *WeatherHandler) GetCurrentConditions(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}

	ctx := tools.HTTPContext(utils.GetContextFromGinContext(c), c.Request)
	doc, err := h.tools.CurrentConditions(ctx, h.coordinate(ctx, req))
	if err != nil {
		h.fail(c, tools.ToolCurrentConditions, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *WeatherHandler) bind(c *gin.Context) (WeatherRequest, bool) {
	var req WeatherRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.logger.Warn("Invalid request parameters",
			zap.String("request_id", utils.GetRequestIDFromGinContext(c)),
			zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid arguments: " + err.Error()})
		return req, false
	}
	return req, true
}

func (h *WeatherHandler) coordinate(ctx context.Context, req WeatherRequest) service.Coordinate {
	coord := tools.DefaultCoordinate(ctx, h.defaults)
	if req.Lat != nil {
		coord.Latitude = *req.Lat
	}
	if req.Lon != nil {
		coord.Longitude = *req.Lon
	}
	return coord
}

func (h *WeatherHandler) fail(c *gin.Context, tool string, err error) {
	_ = c.Error(err)
	c.JSON(StatusForError(err), ErrorResponse{Error: tools.FailureMessage(tool, err)})
}

// StatusForError maps the provider error taxonomy onto HTTP status codes.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUpstreamTimeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, service.ErrUpstreamProtocol), errors.Is(err, service.ErrUpstreamError):
		return http.StatusBadGateway
	case errors.Is(err, context.Canceled):
		return 499
	default:
		return http.StatusInternalServerError
	}
}
