package main

import (
	"os"

	"github.com/vzahanych/weather-mcp/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
