package cmd

import (
	"context"
	"errors"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vzahanych/weather-mcp/internal/config"
	"github.com/vzahanych/weather-mcp/internal/tools"
)

func stdioCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stdio",
		Short: "Serve the MCP tools over stdin/stdout",
		Long:  `Run the MCP server on stdin/stdout for clients that launch it as a subprocess. Logs go to stderr or the configured log file.`,
		RunE:  runStdio,
	}
}

func runStdio(cmd *cobra.Command, args []string) error {
	cfg := config.GetConfig()

	log.Info("Starting weather MCP server on stdio", zap.String("version", cfg.Version))

	handler := buildTools(nil)
	stdio := mcpserver.NewStdioServer(tools.NewMCPServer(handler, cfg.Version))

	err := stdio.Listen(cmd.Context(), os.Stdin, os.Stdout)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Stdio server error", zap.Error(err))
		return err
	}

	log.Info("Stdio server stopped")
	return nil
}
