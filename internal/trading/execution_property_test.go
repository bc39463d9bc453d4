package trading

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/rs/zerolog"

	"stockfake/internal/market"
	"stockfake/internal/models"
	"stockfake/internal/store"
)

// Property: buying and immediately selling the full position at the same
// simulated instant restores the account's cash exactly for stocks, and
// restores it less the two trading fees for crypto.
func TestProperty_ExecuteRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "roundtrip.db")
	dataStore, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer dataStore.Close()

	svc := market.NewService(zerolog.Nop())
	exec := NewExecutor(svc, dataStore, zerolog.Nop())

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	stockSymbols := []string{"AAPL", "MSFT", "JPM", "XOM", "PG", "DUK"}
	// Midweek afternoon with the equity market open.
	at := time.Date(2021, time.June, 9, 17, 0, 0, 0, time.UTC)

	properties.Property("Stock round trip restores cash exactly", prop.ForAll(
		func(symbolIdx int, qty float64) bool {
			ctx := context.Background()
			account, err := dataStore.CreateAccount(ctx, "roundtrip", 1e9)
			if err != nil {
				t.Logf("CreateAccount failed: %v", err)
				return false
			}

			symbol := stockSymbols[symbolIdx%len(stockSymbols)]
			req := TradeRequest{AccountID: account.ID, Symbol: symbol, Side: models.TradeSideBuy, Quantity: qty}
			if _, err := exec.Execute(ctx, req, at); err != nil {
				t.Logf("buy failed: %v", err)
				return false
			}
			req.Side = models.TradeSideSell
			if _, err := exec.Execute(ctx, req, at); err != nil {
				t.Logf("sell failed: %v", err)
				return false
			}

			got, err := dataStore.GetAccount(ctx, account.ID)
			if err != nil {
				t.Logf("GetAccount failed: %v", err)
				return false
			}
			diff := got.Cash - 1e9
			if diff > 1e-3 || diff < -1e-3 {
				t.Logf("cash not restored: diff %v", diff)
				return false
			}
			return true
		},
		gen.IntRange(0, len(stockSymbols)-1),
		gen.Float64Range(0.5, 1000),
	))

	properties.Property("Crypto round trip loses exactly the two fees", prop.ForAll(
		func(qty float64) bool {
			ctx := context.Background()
			account, err := dataStore.CreateAccount(ctx, "roundtrip-crypto", 1e9)
			if err != nil {
				t.Logf("CreateAccount failed: %v", err)
				return false
			}

			req := TradeRequest{AccountID: account.ID, Symbol: "BTC", Side: models.TradeSideBuy, Quantity: qty}
			buy, err := exec.Execute(ctx, req, at)
			if err != nil {
				t.Logf("buy failed: %v", err)
				return false
			}
			req.Side = models.TradeSideSell
			sell, err := exec.Execute(ctx, req, at)
			if err != nil {
				t.Logf("sell failed: %v", err)
				return false
			}

			got, err := dataStore.GetAccount(ctx, account.ID)
			if err != nil {
				t.Logf("GetAccount failed: %v", err)
				return false
			}
			wantCash := 1e9 - buy.Fee - sell.Fee
			diff := got.Cash - wantCash
			if diff > 1e-3 || diff < -1e-3 {
				t.Logf("cash mismatch: got %v, want %v", got.Cash, wantCash)
				return false
			}
			return true
		},
		gen.Float64Range(0.0001, 1),
	))

	properties.TestingRun(t)
}
