package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vzahanych/weather-mcp/internal/config"
	"github.com/vzahanych/weather-mcp/internal/service"
	"github.com/vzahanych/weather-mcp/internal/tools"
)

func fetchCmd() *cobra.Command {
	var (
		lat, lon float64
		days     int
		current  bool
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch a forecast once and print it as JSON",
		Long:  `Run one tool call without an MCP client and print the resulting document to stdout.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			handler := buildTools(nil)

			coord := tools.DefaultsFromConfig(config.GetConfig().Weather)
			if cmd.Flags().Changed("lat") {
				coord.Latitude = lat
			}
			if cmd.Flags().Changed("lon") {
				coord.Longitude = lon
			}

			var (
				doc any
				err error
			)
			if current {
				doc, err = handler.CurrentConditions(cmd.Context(), coord)
			} else {
				doc, err = handler.Forecast(cmd.Context(), coord, days)
			}
			if err != nil {
				log.Debug("Fetch failed", zap.String("error_kind", service.ErrorKind(err)), zap.Error(err))
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(doc)
		},
	}

	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude in decimal degrees (default: weather.default_latitude)")
	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude in decimal degrees (default: weather.default_longitude)")
	cmd.Flags().IntVar(&days, "days", tools.DefaultForecastDays, "number of forecast days")
	cmd.Flags().BoolVar(&current, "current", false, "fetch current conditions only")

	return cmd
}
