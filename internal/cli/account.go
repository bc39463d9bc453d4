package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"stockfake/internal/models"
	"stockfake/internal/store"
	"stockfake/internal/trading"
)

// addAccountCommands adds account and trading commands.
func addAccountCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newAccountCmd(app))
	rootCmd.AddCommand(newTradeCmd(app, models.TradeSideBuy))
	rootCmd.AddCommand(newTradeCmd(app, models.TradeSideSell))
}

func requireStore(app *App) error {
	if app.Store == nil {
		return fmt.Errorf("data store unavailable, check the data directory")
	}
	return nil
}

func newAccountCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage simulation accounts",
	}

	create := &cobra.Command{
		Use:   "create NAME",
		Short: "Create an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireStore(app); err != nil {
				return err
			}
			output := NewOutput(cmd)
			cash, _ := cmd.Flags().GetFloat64("cash")
			if cash < 0 {
				return fmt.Errorf("starting cash must not be negative")
			}

			account, err := app.Store.CreateAccount(cmd.Context(), args[0], cash)
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(account)
			}
			output.Success("Created account %s", account.Name)
			output.Printf("  ID:   %s\n", account.ID)
			output.Printf("  Cash: %s\n", FormatUSD(account.Cash))
			return nil
		},
	}
	create.Flags().Float64("cash", 100000, "starting cash balance")

	list := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireStore(app); err != nil {
				return err
			}
			output := NewOutput(cmd)
			accounts, err := app.Store.ListAccounts(cmd.Context())
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(accounts)
			}
			if len(accounts) == 0 {
				output.Warning("No accounts yet, create one with 'account create NAME'")
				return nil
			}

			table := NewTable(output, "ID", "NAME", "CASH", "CREATED")
			for _, a := range accounts {
				table.AddRow(a.ID, a.Name, FormatUSD(a.Cash), FormatDate(a.CreatedAt))
			}
			table.Render()
			return nil
		},
	}

	portfolio := &cobra.Command{
		Use:   "portfolio ACCOUNT_ID",
		Short: "Show an account's portfolio at the simulated time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireStore(app); err != nil {
				return err
			}
			output := NewOutput(cmd)
			at, err := app.simTime(cmd)
			if err != nil {
				return err
			}

			pv, err := app.Executor.Portfolio(cmd.Context(), args[0], at)
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(pv)
			}

			output.Bold("%s", pv.Account.Name)
			output.Printf("  Cash:   %s\n", FormatUSD(pv.Account.Cash))
			output.Printf("  Equity: %s\n", FormatUSD(pv.Equity))
			output.Printf("  Total:  %s\n\n", FormatUSD(pv.TotalValue))

			if len(pv.Positions) == 0 {
				output.Dim("No open positions")
				return nil
			}
			table := NewTable(output, "SYMBOL", "TYPE", "QTY", "AVG", "PRICE", "VALUE", "P&L")
			for _, p := range pv.Positions {
				table.AddRow(
					p.Holding.Symbol,
					string(p.Holding.AssetType),
					FormatQuantity(p.Holding.Quantity),
					FormatUSD(p.Holding.AvgPrice),
					FormatUSD(p.MarketPrice),
					FormatUSD(p.MarketValue),
					output.FormatPnL(p.UnrealizedPL),
				)
			}
			table.Render()
			output.Dim("\nAs of %s", FormatDateTime(pv.AsOf))
			return nil
		},
	}

	transactions := &cobra.Command{
		Use:   "transactions ACCOUNT_ID",
		Short: "Show an account's trade history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireStore(app); err != nil {
				return err
			}
			output := NewOutput(cmd)
			symbol, _ := cmd.Flags().GetString("symbol")
			limit, _ := cmd.Flags().GetInt("limit")

			txns, err := app.Store.GetTransactions(cmd.Context(), store.TransactionFilter{
				AccountID: args[0],
				Symbol:    symbol,
				Limit:     limit,
			})
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(txns)
			}
			if len(txns) == 0 {
				output.Dim("No transactions")
				return nil
			}

			table := NewTable(output, "EXECUTED", "SIDE", "SYMBOL", "QTY", "PRICE", "FEE", "TOTAL")
			for _, t := range txns {
				side := output.Green(string(t.Side))
				if t.Side == models.TradeSideSell {
					side = output.Red(string(t.Side))
				}
				table.AddRow(
					FormatDateTime(t.ExecutedAt),
					side,
					t.Symbol,
					FormatQuantity(t.Quantity),
					FormatUSD(t.Price),
					FormatUSD(t.Fee),
					FormatUSD(t.Total),
				)
			}
			table.Render()
			return nil
		},
	}
	transactions.Flags().String("symbol", "", "filter by symbol")
	transactions.Flags().Int("limit", 50, "maximum rows")

	cmd.AddCommand(create, list, portfolio, transactions)
	return cmd
}

func newTradeCmd(app *App, side models.TradeSide) *cobra.Command {
	use := "buy"
	short := "Buy an asset at the simulated time"
	if side == models.TradeSideSell {
		use = "sell"
		short = "Sell an asset at the simulated time"
	}

	cmd := &cobra.Command{
		Use:   use + " ACCOUNT_ID SYMBOL QUANTITY",
		Short: short,
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireStore(app); err != nil {
				return err
			}
			output := NewOutput(cmd)
			at, err := app.simTime(cmd)
			if err != nil {
				return err
			}
			if err := applyCrashFlags(cmd, app); err != nil {
				return err
			}

			var qty float64
			if _, err := fmt.Sscanf(args[2], "%f", &qty); err != nil {
				return fmt.Errorf("invalid quantity %q", args[2])
			}

			txn, err := app.Executor.Execute(cmd.Context(), trading.TradeRequest{
				AccountID: args[0],
				Symbol:    args[1],
				Side:      side,
				Quantity:  qty,
			}, at)
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(txn)
			}

			output.Success("%s %s %s at %s", txn.Side, FormatQuantity(txn.Quantity), txn.Symbol, FormatUSD(txn.Price))
			if txn.Fee > 0 {
				output.Printf("  Fee:   %s\n", FormatUSD(txn.Fee))
			}
			output.Printf("  Total: %s\n", FormatUSD(txn.Total))
			return nil
		},
	}
	addCrashFlags(cmd)
	return cmd
}
