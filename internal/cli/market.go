package cli

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"stockfake/internal/market"
	"stockfake/internal/models"
)

// addMarketCommands adds quote, crypto, and crash commands.
func addMarketCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newQuoteCmd(app))
	rootCmd.AddCommand(newQuotesCmd(app))
	rootCmd.AddCommand(newCryptoCmd(app))
	rootCmd.AddCommand(newCrashCmd(app))
}

// applyCrashFlags activates a crash scenario for the lifetime of this
// process when --crash is given.
func applyCrashFlags(cmd *cobra.Command, app *App) error {
	event, _ := cmd.Flags().GetString("crash")
	if event == "" {
		return nil
	}
	startStr, _ := cmd.Flags().GetString("crash-start")
	if startStr == "" {
		return fmt.Errorf("--crash requires --crash-start (YYYY-MM-DD)")
	}
	start, err := time.ParseInLocation("2006-01-02", startStr, time.UTC)
	if err != nil {
		return fmt.Errorf("invalid --crash-start date %q, want YYYY-MM-DD", startStr)
	}
	return app.Market.Crash().Trigger(event, start)
}

func addCrashFlags(cmd *cobra.Command) {
	cmd.Flags().String("crash", "", "crash event to apply (see 'crash list')")
	cmd.Flags().String("crash-start", "", "crash start date (YYYY-MM-DD)")
}

func newQuoteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote SYMBOL",
		Short: "Show a stock quote at the simulated time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			at, err := app.simTime(cmd)
			if err != nil {
				return err
			}
			if err := applyCrashFlags(cmd, app); err != nil {
				return err
			}

			quote, err := app.Market.Quote(args[0], at)
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(quote)
			}

			output.Bold("%s  %s", quote.Symbol, quote.Name)
			output.Printf("  Sector:  %s\n", quote.Sector)
			output.Printf("  Price:   %s\n", FormatUSD(quote.Price))
			if quote.CrashAffected {
				drop := (quote.Price/quote.BasePrice - 1) * 100
				output.Printf("  Base:    %s (%s)\n", FormatUSD(quote.BasePrice), output.FormatPercent(drop))
			}
			output.Dim("As of %s", FormatDateTime(quote.AsOf))
			return nil
		},
	}
	addCrashFlags(cmd)
	return cmd
}

func newQuotesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quotes",
		Short: "Show quotes for all listed stocks",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			at, err := app.simTime(cmd)
			if err != nil {
				return err
			}
			if err := applyCrashFlags(cmd, app); err != nil {
				return err
			}

			quotes := app.Market.AllQuotes(at)
			if output.IsJSON() {
				return output.JSON(quotes)
			}

			output.Printf("Market: %s   %s\n\n", output.MarketStatus(string(market.EquityStatusAt(at))), FormatDateTime(at))
			table := NewTable(output, "SYMBOL", "NAME", "SECTOR", "PRICE")
			for _, q := range quotes {
				price := FormatUSD(q.Price)
				if q.CrashAffected {
					price = output.Red(price)
				}
				table.AddRow(q.Symbol, TruncateString(q.Name, 24), string(q.Sector), price)
			}
			table.Render()
			return nil
		},
	}
	addCrashFlags(cmd)
	return cmd
}

func newCryptoCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crypto",
		Short: "Cryptocurrency prices and staking",
	}

	prices := &cobra.Command{
		Use:   "prices",
		Short: "Show all launched cryptocurrencies at the simulated time",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			at, err := app.simTime(cmd)
			if err != nil {
				return err
			}

			quotes := app.Market.Crypto().AllPrices(at)
			if output.IsJSON() {
				return output.JSON(quotes)
			}
			if len(quotes) == 0 {
				output.Warning("No cryptocurrencies launched by %s", FormatDate(at))
				return nil
			}

			table := NewTable(output, "SYMBOL", "NAME", "PRICE")
			for _, q := range quotes {
				table.AddRow(q.Symbol, q.Name, "$"+FormatPrice(q.Price))
			}
			table.Render()
			return nil
		},
	}

	price := &cobra.Command{
		Use:   "price SYMBOL",
		Short: "Show one cryptocurrency price at the simulated time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			at, err := app.simTime(cmd)
			if err != nil {
				return err
			}

			symbol := args[0]
			p, ok := app.Market.Crypto().Price(symbol, at)
			if !ok {
				return fmt.Errorf("%s is not available at %s", symbol, FormatDate(at))
			}
			if output.IsJSON() {
				return output.JSON(map[string]interface{}{"symbol": symbol, "price": p, "as_of": at})
			}
			output.Printf("%s: $%s\n", symbol, FormatPrice(p))
			output.Dim("As of %s", FormatDate(at))
			return nil
		},
	}

	staking := &cobra.Command{
		Use:   "staking SYMBOL SHARES MONTHS",
		Short: "Estimate staking rewards over a holding period",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			at, err := app.simTime(cmd)
			if err != nil {
				return err
			}

			var shares float64
			var months int
			if _, err := fmt.Sscanf(args[1], "%f", &shares); err != nil || shares <= 0 {
				return fmt.Errorf("invalid shares %q", args[1])
			}
			if _, err := fmt.Sscanf(args[2], "%d", &months); err != nil || months <= 0 {
				return fmt.Errorf("invalid months %q", args[2])
			}

			symbol := args[0]
			from := at
			to := at.AddDate(0, months, 0)
			rewards := app.Market.Crypto().StakingRewards(symbol, shares, to, from)
			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"symbol": symbol, "shares": shares, "months": months, "rewards": rewards,
				})
			}
			if rewards == 0 {
				output.Warning("%s does not pay staking rewards", symbol)
				return nil
			}
			output.Printf("Staking %s %s for %d months earns %s %s\n",
				FormatQuantity(shares), symbol, months, FormatQuantity(rewards), symbol)
			return nil
		},
	}

	cmd.AddCommand(prices, price, staking)
	return cmd
}

func newCrashCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crash",
		Short: "Historical crash events",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List available crash events",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			events := app.Market.Crash().Catalog().Events()
			if output.IsJSON() {
				return output.JSON(events)
			}

			table := NewTable(output, "ID", "LABEL", "PANIC", "BOTTOM", "SECTORS")
			for _, ev := range events {
				table.AddRow(ev.ID, ev.Label,
					fmt.Sprintf("%.0fmo", ev.PanicMonths),
					fmt.Sprintf("%.0fmo", ev.BottomMonths),
					fmt.Sprintf("%d", len(ev.Sectors)))
			}
			table.Render()
			return nil
		},
	}

	preview := &cobra.Command{
		Use:   "preview EVENT",
		Short: "Show sector impact timelines for a crash event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			event, ok := app.Market.Crash().Catalog().Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown crash event %q, see 'crash list'", args[0])
			}
			if output.IsJSON() {
				return output.JSON(event)
			}

			output.Bold("%s (%s)", event.Label, event.ID)
			output.Printf("  Panic: %.0f months, bottom: %.0f months\n\n", event.PanicMonths, event.BottomMonths)
			sectors := make([]string, 0, len(event.Sectors))
			for sector := range event.Sectors {
				sectors = append(sectors, string(sector))
			}
			sort.Strings(sectors)

			table := NewTable(output, "SECTOR", "TROUGH", "RECOVERY", "TOTAL")
			for _, name := range sectors {
				sector := models.Sector(name)
				impact := event.Sectors[sector]
				table.AddRow(name,
					fmt.Sprintf("%.0f%%", impact.Trough*100),
					fmt.Sprintf("%.0fmo", impact.RecoveryMonths),
					fmt.Sprintf("%.0fmo", event.TotalMonths(sector)))
			}
			table.Render()
			return nil
		},
	}

	trigger := &cobra.Command{
		Use:   "trigger EVENT",
		Short: "Trigger a crash and show the impacted quotes",
		Long: `Trigger a crash event against this process's simulator and print the
affected quotes at the simulated time. State lives for the invocation;
use 'serve' for a session where the crash persists across requests.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			at, err := app.simTime(cmd)
			if err != nil {
				return err
			}

			startStr, _ := cmd.Flags().GetString("start")
			start := at
			if startStr != "" {
				start, err = time.ParseInLocation("2006-01-02", startStr, time.UTC)
				if err != nil {
					return fmt.Errorf("invalid --start date %q, want YYYY-MM-DD", startStr)
				}
			}

			if err := app.Market.Crash().Trigger(args[0], start); err != nil {
				return err
			}

			quotes := app.Market.AllQuotes(at)
			if output.IsJSON() {
				return output.JSON(quotes)
			}

			output.Warning("Crash %s triggered at %s, prices as of %s:", args[0], FormatDate(start), FormatDate(at))
			table := NewTable(output, "SYMBOL", "SECTOR", "PRICE", "IMPACT")
			for _, q := range quotes {
				if !q.CrashAffected {
					continue
				}
				drop := (q.Price/q.BasePrice - 1) * 100
				table.AddRow(q.Symbol, string(q.Sector), FormatUSD(q.Price), output.FormatPercent(drop))
			}
			table.Render()
			return nil
		},
	}
	trigger.Flags().String("start", "", "crash start date (YYYY-MM-DD, default: the simulated time)")

	reset := &cobra.Command{
		Use:   "reset",
		Short: "Clear any active crash in this process",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			app.Market.Crash().Reset()
			if output.IsJSON() {
				return output.JSON(map[string]bool{"active": false})
			}
			output.Success("No active crash")
			return nil
		},
	}

	cmd.AddCommand(list, preview, trigger, reset)
	return cmd
}
