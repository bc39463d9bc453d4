package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"stockfake/internal/models"
)

// Property: for any buy followed by a full sell at the same price with no
// fees, the account cash returns to the starting balance and the holding
// row is gone.
func TestProperty_TradeRoundTripConservesCash(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "property.db")
	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	symbols := []string{"AAPL", "MSFT", "JPM", "XOM", "BTC", "ETH"}

	properties.Property("Buy then full sell restores cash and clears the position", prop.ForAll(
		func(symbolIdx int, quantity float64, price float64, startingCash float64) bool {
			ctx := context.Background()
			symbol := symbols[symbolIdx%len(symbols)]
			cost := quantity * price
			if cost > startingCash {
				return true // not a fundable trade, skip
			}

			account, err := store.CreateAccount(ctx, "property", startingCash)
			if err != nil {
				t.Logf("CreateAccount failed: %v", err)
				return false
			}

			executedAt := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)

			buy := &models.Transaction{
				AccountID: account.ID, Symbol: symbol, AssetType: models.AssetStock,
				Side: models.TradeSideBuy, Quantity: quantity, Price: price,
				Total: cost, ExecutedAt: executedAt,
			}
			holding := &models.Holding{
				AccountID: account.ID, Symbol: symbol, AssetType: models.AssetStock,
				Quantity: quantity, AvgPrice: price,
			}
			if err := store.RecordTrade(ctx, startingCash-cost, holding, buy); err != nil {
				t.Logf("buy RecordTrade failed: %v", err)
				return false
			}

			sell := &models.Transaction{
				AccountID: account.ID, Symbol: symbol, AssetType: models.AssetStock,
				Side: models.TradeSideSell, Quantity: quantity, Price: price,
				Total: cost, ExecutedAt: executedAt.Add(time.Hour),
			}
			closed := &models.Holding{AccountID: account.ID, Symbol: symbol, AssetType: models.AssetStock, Quantity: 0}
			if err := store.RecordTrade(ctx, startingCash, closed, sell); err != nil {
				t.Logf("sell RecordTrade failed: %v", err)
				return false
			}

			got, err := store.GetAccount(ctx, account.ID)
			if err != nil {
				t.Logf("GetAccount failed: %v", err)
				return false
			}
			if got.Cash != startingCash {
				t.Logf("cash mismatch: expected %v, got %v", startingCash, got.Cash)
				return false
			}

			holdings, err := store.GetHoldings(ctx, account.ID)
			if err != nil {
				t.Logf("GetHoldings failed: %v", err)
				return false
			}
			if len(holdings) != 0 {
				t.Logf("expected no holdings, got %d", len(holdings))
				return false
			}

			return true
		},
		gen.IntRange(0, len(symbols)-1),
		gen.Float64Range(0.1, 500),
		gen.Float64Range(0.5, 5000),
		gen.Float64Range(1000, 1000000),
	))

	properties.TestingRun(t)
}
