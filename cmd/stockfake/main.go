// Command stockfake runs the market simulation CLI and HTTP server.
package main

import (
	"fmt"
	"os"

	"stockfake/internal/cli"
	"stockfake/internal/config"
	"stockfake/internal/logging"
)

func main() {
	logger := logging.NewLogger()

	cfg, err := config.Load(config.DefaultConfigDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	rootCmd := cli.NewRootCmd(cfg, logger)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
