package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vzahanych/weather-mcp/internal/config"
	"github.com/vzahanych/weather-mcp/internal/server/handlers"
	"github.com/vzahanych/weather-mcp/internal/service"
	"github.com/vzahanych/weather-mcp/internal/tools"
	"github.com/vzahanych/weather-mcp/pkg/logger"
	"github.com/vzahanych/weather-mcp/pkg/telemetry"
)

// Version is set at build time with -ldflags "-X ...cmd.Version=...".
var Version = "dev"

var (
	configPath string
	log        *zap.Logger
	tele       *telemetry.Telemetry
)

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weather-mcp",
		Short: "MCP server for AccuWeather forecasts",
		Long: `weather-mcp exposes the get_weather_forecast and get_current_conditions
tools over the Model Context Protocol, backed by the AccuWeather API.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeServices(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return shutdownServices()
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to configuration file (default: ./config.yaml)")

	cmd.AddCommand(serverCmd())
	cmd.AddCommand(stdioCmd())
	cmd.AddCommand(fetchCmd())

	return cmd
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return rootCmd().ExecuteContext(ctx)
}

func initializeServices(ctx context.Context) error {
	// 1. Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Version == "" {
		cfg.Version = Version
	}

	// 2. Set config
	// Having config in atomic allows changing it during runtime
	config.SetConfig(cfg)

	// 3. Initialize logger
	log, err = logger.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// 4. Telemetry is optional; run without tracing if the collector is unreachable
	tele, err = telemetry.New(ctx, cfg.Telemetry, cfg.Version)
	if err != nil {
		log.Warn("Failed to initialize telemetry", zap.Error(err))
	}

	return nil
}

func shutdownServices() error {
	if tele != nil {
		if err := tele.Shutdown(context.Background()); err != nil {
			log.Warn("Failed to shut down telemetry", zap.Error(err))
		}
	}
	if log != nil {
		_ = log.Sync()
	}
	return nil
}

// buildTools wires the provider client and the tool handler from the active
// config. metrics may be nil.
func buildTools(metrics *handlers.MetricsHandler) *tools.Handler {
	cfg := config.GetConfig()

	var (
		svcOpts  []service.Option
		toolOpts []tools.Option
	)
	if metrics != nil {
		svcOpts = append(svcOpts, service.WithCallRecorder(metrics))
		toolOpts = append(toolOpts, tools.WithToolRecorder(metrics))
	}

	svc := service.NewAccuWeatherServiceWithConfig(cfg.Weather, log, tele, svcOpts...)
	return tools.NewHandler(svc, cfg.Weather, log, tele, toolOpts...)
}
