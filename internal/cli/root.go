// Package cli provides the command-line interface for the simulation.
package cli

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"stockfake/internal/config"
	"stockfake/internal/logging"
	"stockfake/internal/market"
	"stockfake/internal/store"
	"stockfake/internal/trading"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2024-01-01"
)

// App holds the application dependencies.
type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Market   *market.Service
	Store    store.DataStore
	Executor *trading.Executor
	Clock    *market.SimClock
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
		Market: market.NewService(logger),
		Clock:  market.NewSimClock(cfg.ClockStartTime()),
	}

	dataStore, err := store.NewSQLiteStore(cfg.DatabasePath())
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, some features may be unavailable")
	} else {
		app.Store = dataStore
		app.Executor = trading.NewExecutor(app.Market, dataStore, logger)
		logger.Debug().Msg("SQLite store initialized")
	}

	rootCmd := &cobra.Command{
		Use:   "stockfake",
		Short: "StockFake - a market simulation sandbox",
		Long: `StockFake is a stock and cryptocurrency market simulator.

Prices are deterministic functions of simulated time: move the clock to any
date, trigger historical crash events, and trade against the result without
real money or real market data.

Use 'stockfake help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/stockfake)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("at", "", "simulated date (YYYY-MM-DD, default: configured clock start)")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newServeCmd(app))
	addMarketCommands(rootCmd, app)
	addAccountCommands(rootCmd, app)

	return rootCmd
}

// simTime resolves the simulated time for a command: the --at flag when
// given, otherwise the configured clock start. Commands price against
// midday so the equity market is open on weekdays.
func (app *App) simTime(cmd *cobra.Command) (time.Time, error) {
	at, _ := cmd.Flags().GetString("at")
	t := app.Clock.Now()
	if at != "" {
		parsed, err := time.ParseInLocation("2006-01-02", at, time.UTC)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid --at date %q, want YYYY-MM-DD", at)
		}
		t = parsed
	}
	// Midday Eastern, inside regular trading hours on weekdays.
	return time.Date(t.Year(), t.Month(), t.Day(), 17, 0, 0, 0, time.UTC), nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("StockFake v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			showConfig(output, app.Config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("✓ Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	output.Bold("Server")
	output.Printf("  Host:           %s\n", cfg.Server.Host)
	output.Printf("  Port:           %d\n", cfg.Server.Port)
	output.Println()

	output.Bold("Market")
	output.Printf("  Clock Start:    %s\n", cfg.Market.ClockStart)
	output.Printf("  Starting Cash:  %s\n", FormatUSD(cfg.Market.StartingCash))
	output.Printf("  Data Dir:       %s\n", cfg.Market.DataDir)
}
