package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/vzahanych/weather-mcp/internal/config"
	"github.com/vzahanych/weather-mcp/internal/server/handlers"
	"github.com/vzahanych/weather-mcp/internal/server/middlewares"
	"github.com/vzahanych/weather-mcp/internal/service"
	"github.com/vzahanych/weather-mcp/internal/tools"
	"github.com/vzahanych/weather-mcp/pkg/telemetry"
)

const (
	MCPPath         = "/mcp"
	ShutdownTimeout = 30 * time.Second
)

type Server struct {
	engine *gin.Engine
	server *http.Server
	logger *zap.Logger
	tele   *telemetry.Telemetry
}

// Deps are the collaborators the HTTP surface is built from.
type Deps struct {
	Tools     handlers.WeatherTools
	MCP       *mcpserver.MCPServer
	Metrics   *handlers.MetricsHandler
	Defaults  service.Coordinate
	Readiness []handlers.ReadinessCheck
	Version   string
}

func NewServer(cfg config.ServerConfig, deps Deps, logger *zap.Logger, tele *telemetry.Telemetry) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.Metrics == nil {
		deps.Metrics = handlers.NewMetricsHandler(logger)
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	httpMetrics := middlewares.NewMetricsMiddleware()
	deps.Metrics.SetHTTPMetrics(httpMetrics)

	engine.Use(middlewares.RequestIDMiddleware())
	engine.Use(middlewares.LoggingMiddleware(logger, "/health", "/health/live", "/health/ready", "/metrics"))
	engine.Use(middlewares.RecoveryMiddleware(logger, true))
	engine.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	engine.Use(middlewares.TelemetryMiddleware(logger, tele))
	engine.Use(httpMetrics.Handler())

	s := &Server{
		engine: engine,
		logger: logger,
		tele:   tele,
		server: &http.Server{
			Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
			Handler:      engine,
			ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
			WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
			IdleTimeout:  time.Duration(cfg.IdleTimeout) * time.Second,
		},
	}

	s.setupRoutes(deps)
	return s
}

func (s *Server) setupRoutes(deps Deps) {
	// MCP streamable HTTP transport
	streamable := mcpserver.NewStreamableHTTPServer(deps.MCP,
		mcpserver.WithEndpointPath(MCPPath),
		mcpserver.WithHTTPContextFunc(tools.HTTPContext),
	)
	s.engine.Any(MCPPath, gin.WrapH(streamable))

	// REST mirrors of the tools
	weather := handlers.NewWeatherHandler(deps.Tools, deps.Defaults, s.logger)
	s.engine.GET("/weather/forecast", weather.GetForecast)
	s.engine.GET("/weather/current", weather.GetCurrentConditions)

	s.engine.GET("/", handlers.RootHandler(handlers.RootResponse{
		Name:        tools.ServerName,
		Version:     deps.Version,
		Description: "MCP server exposing AccuWeather current conditions and daily forecasts",
		MCPEndpoint: MCPPath,
		Transport:   "streamable-http",
		Tools: []handlers.ToolInfo{
			{Name: tools.ToolWeatherForecast, Description: "Current conditions plus a 1-15 day daily forecast"},
			{Name: tools.ToolCurrentConditions, Description: "Current conditions only"},
		},
	}))

	// Health endpoints (Kubernetes friendly)
	health := handlers.NewHealthHandler(s.logger, deps.Version, deps.Readiness...)
	s.engine.GET("/health", health.Health)
	s.engine.GET("/health/live", health.Liveness)
	s.engine.GET("/health/ready", health.Readiness)

	// Monitoring endpoints
	s.engine.GET("/metrics", deps.Metrics.ServeMetrics)
}

// Handler exposes the engine, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start serves until Shutdown is called. It returns nil after a clean
// shutdown.
func (s *Server) Start() error {
	s.logger.Info("Starting server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests for at most ShutdownTimeout.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, ShutdownTimeout)
	defer cancel()

	return s.server.Shutdown(ctx)
}
