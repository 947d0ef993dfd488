package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vzahanych/weather-mcp/internal/config"
	"github.com/vzahanych/weather-mcp/internal/server"
	"github.com/vzahanych/weather-mcp/internal/server/handlers"
	"github.com/vzahanych/weather-mcp/internal/tools"
)

func serverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Serve the MCP tools over streamable HTTP",
		Long:  `Start the HTTP server exposing the MCP endpoint at /mcp together with health, metrics and REST endpoints.`,
		RunE:  runServer,
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg := config.GetConfig()

	log.Info("Starting weather MCP server",
		zap.String("config_path", configPath),
		zap.String("version", cfg.Version),
		zap.Bool("telemetry_enabled", cfg.Telemetry.Enabled),
		zap.Int("server_port", cfg.Server.Port))

	metrics := handlers.NewMetricsHandler(log)
	handler := buildTools(metrics)

	srv := server.NewServer(cfg.Server, server.Deps{
		Tools:     handler,
		MCP:       tools.NewMCPServer(handler, cfg.Version),
		Metrics:   metrics,
		Defaults:  tools.DefaultsFromConfig(cfg.Weather),
		Readiness: []handlers.ReadinessCheck{apiKeyConfigured},
		Version:   cfg.Version,
	}, log, tele)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		if err != nil {
			log.Error("Server error", zap.Error(err))
		}
		return err
	case <-cmd.Context().Done():
		log.Info("Shutting down server")

		if err := srv.Shutdown(context.Background()); err != nil {
			log.Error("Error during server shutdown", zap.Error(err))
			return err
		}

		log.Info("Server shutdown complete")
		return nil
	}
}

func apiKeyConfigured() error {
	if config.GetConfig().Weather.APIKey == "" {
		return errors.New("weather.api_key is not configured")
	}
	return nil
}
