package trading

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"stockfake/internal/errors"
	"stockfake/internal/market"
	"stockfake/internal/models"
	"stockfake/internal/store"
)

func newTestExecutor(t *testing.T) (*Executor, *models.Account) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "trading.db")
	s, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	account, err := s.CreateAccount(context.Background(), "trader", 100000)
	if err != nil {
		t.Fatal(err)
	}

	return NewExecutor(market.NewService(zerolog.Nop()), s, zerolog.Nop()), account
}

// A Wednesday during regular equity hours, in UTC.
func equityOpenTime() time.Time {
	return time.Date(2021, time.June, 9, 17, 0, 0, 0, time.UTC) // 13:00 ET
}

func weekendTime() time.Time {
	return time.Date(2021, time.June, 12, 17, 0, 0, 0, time.UTC)
}

func TestExecuteBuyStock(t *testing.T) {
	exec, account := newTestExecutor(t)
	ctx := context.Background()

	txn, err := exec.Execute(ctx, TradeRequest{
		AccountID: account.ID,
		Symbol:    "AAPL",
		Side:      models.TradeSideBuy,
		Quantity:  10,
	}, equityOpenTime())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if txn.AssetType != models.AssetStock {
		t.Errorf("expected stock asset type, got %v", txn.AssetType)
	}
	if txn.Fee != 0 {
		t.Errorf("expected no fee on stock trade, got %v", txn.Fee)
	}
	if txn.Price <= 0 {
		t.Errorf("expected positive execution price, got %v", txn.Price)
	}

	got, err := exec.store.GetAccount(ctx, account.ID)
	if err != nil {
		t.Fatal(err)
	}
	wantCash := 100000 - txn.Total
	if got.Cash != wantCash {
		t.Errorf("expected cash %v, got %v", wantCash, got.Cash)
	}

	holding, err := exec.store.GetHolding(ctx, account.ID, "AAPL")
	if err != nil {
		t.Fatal(err)
	}
	if holding.Quantity != 10 || holding.AvgPrice != txn.Price {
		t.Errorf("unexpected holding: %+v", holding)
	}
}

func TestExecuteBuyAveragesPrice(t *testing.T) {
	exec, account := newTestExecutor(t)
	ctx := context.Background()

	first := equityOpenTime()
	second := first.AddDate(1, 0, 0)

	req := TradeRequest{AccountID: account.ID, Symbol: "MSFT", Side: models.TradeSideBuy, Quantity: 5}
	t1, err := exec.Execute(ctx, req, first)
	if err != nil {
		t.Fatal(err)
	}
	t2, err := exec.Execute(ctx, req, second)
	if err != nil {
		t.Fatal(err)
	}

	holding, err := exec.store.GetHolding(ctx, account.ID, "MSFT")
	if err != nil {
		t.Fatal(err)
	}
	if holding.Quantity != 10 {
		t.Errorf("expected quantity 10, got %v", holding.Quantity)
	}
	wantAvg := (t1.Price*5 + t2.Price*5) / 10
	if diff := holding.AvgPrice - wantAvg; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("expected avg price %v, got %v", wantAvg, holding.AvgPrice)
	}
}

func TestExecuteSellValidation(t *testing.T) {
	exec, account := newTestExecutor(t)
	ctx := context.Background()
	at := equityOpenTime()

	// Selling with no position.
	_, err := exec.Execute(ctx, TradeRequest{
		AccountID: account.ID, Symbol: "JPM", Side: models.TradeSideSell, Quantity: 1,
	}, at)
	if !errors.Is(err, errors.ErrInsufficientUnits) {
		t.Errorf("expected ErrInsufficientUnits, got %v", err)
	}

	// Selling more than held.
	if _, err := exec.Execute(ctx, TradeRequest{
		AccountID: account.ID, Symbol: "JPM", Side: models.TradeSideBuy, Quantity: 5,
	}, at); err != nil {
		t.Fatal(err)
	}
	_, err = exec.Execute(ctx, TradeRequest{
		AccountID: account.ID, Symbol: "JPM", Side: models.TradeSideSell, Quantity: 6,
	}, at)
	if !errors.Is(err, errors.ErrInsufficientUnits) {
		t.Errorf("expected ErrInsufficientUnits, got %v", err)
	}
}

func TestExecuteInsufficientFunds(t *testing.T) {
	exec, account := newTestExecutor(t)

	_, err := exec.Execute(context.Background(), TradeRequest{
		AccountID: account.ID, Symbol: "AAPL", Side: models.TradeSideBuy, Quantity: 1e9,
	}, equityOpenTime())
	if !errors.Is(err, errors.ErrInsufficientFunds) {
		t.Errorf("expected ErrInsufficientFunds, got %v", err)
	}
}

func TestExecuteStockClosedMarket(t *testing.T) {
	exec, account := newTestExecutor(t)

	_, err := exec.Execute(context.Background(), TradeRequest{
		AccountID: account.ID, Symbol: "AAPL", Side: models.TradeSideBuy, Quantity: 1,
	}, weekendTime())
	if !errors.Is(err, errors.ErrMarketClosed) {
		t.Errorf("expected ErrMarketClosed, got %v", err)
	}
}

func TestExecuteCryptoOnWeekendWithFee(t *testing.T) {
	exec, account := newTestExecutor(t)
	ctx := context.Background()

	txn, err := exec.Execute(ctx, TradeRequest{
		AccountID: account.ID, Symbol: "BTC", Side: models.TradeSideBuy, Quantity: 0.001,
	}, weekendTime())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if txn.AssetType != models.AssetCrypto {
		t.Errorf("expected crypto asset type, got %v", txn.AssetType)
	}
	if txn.Fee <= 0 {
		t.Errorf("expected positive crypto trading fee, got %v", txn.Fee)
	}
	wantFee := 0.001 * txn.Price * 0.001
	if diff := txn.Fee - wantFee; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("expected fee %v, got %v", wantFee, txn.Fee)
	}
	if txn.Total != 0.001*txn.Price+txn.Fee {
		t.Errorf("expected total to include fee: %+v", txn)
	}
}

func TestExecuteCryptoBeforeLaunch(t *testing.T) {
	exec, account := newTestExecutor(t)

	// ETH launched mid 2015; 2014 has no ETH market.
	_, err := exec.Execute(context.Background(), TradeRequest{
		AccountID: account.ID, Symbol: "ETH", Side: models.TradeSideBuy, Quantity: 1,
	}, time.Date(2014, time.June, 2, 17, 0, 0, 0, time.UTC))
	if err == nil {
		t.Fatal("expected error trading ETH before launch")
	}
}

func TestExecuteInvalidRequests(t *testing.T) {
	exec, account := newTestExecutor(t)
	ctx := context.Background()
	at := equityOpenTime()

	tests := []struct {
		name string
		req  TradeRequest
		want error
	}{
		{"zero quantity", TradeRequest{AccountID: account.ID, Symbol: "AAPL", Side: models.TradeSideBuy, Quantity: 0}, errors.ErrInvalidTrade},
		{"negative quantity", TradeRequest{AccountID: account.ID, Symbol: "AAPL", Side: models.TradeSideBuy, Quantity: -5}, errors.ErrInvalidTrade},
		{"bad side", TradeRequest{AccountID: account.ID, Symbol: "AAPL", Side: "HOLD", Quantity: 1}, errors.ErrInvalidTrade},
		{"unknown symbol", TradeRequest{AccountID: account.ID, Symbol: "ZZZZ", Side: models.TradeSideBuy, Quantity: 1}, errors.ErrSymbolNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := exec.Execute(ctx, tt.req, at)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	_, err := exec.Execute(ctx, TradeRequest{AccountID: "missing", Symbol: "AAPL", Side: models.TradeSideBuy, Quantity: 1}, at)
	if !errors.Is(err, errors.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestPortfolioValuation(t *testing.T) {
	exec, account := newTestExecutor(t)
	ctx := context.Background()
	at := equityOpenTime()

	if _, err := exec.Execute(ctx, TradeRequest{
		AccountID: account.ID, Symbol: "AAPL", Side: models.TradeSideBuy, Quantity: 10,
	}, at); err != nil {
		t.Fatal(err)
	}

	pv, err := exec.Portfolio(ctx, account.ID, at)
	if err != nil {
		t.Fatalf("Portfolio failed: %v", err)
	}
	if len(pv.Positions) != 1 {
		t.Fatalf("expected 1 position, got %d", len(pv.Positions))
	}
	pos := pv.Positions[0]
	if pos.UnrealizedPL != 0 {
		t.Errorf("expected zero unrealized P&L at purchase time, got %v", pos.UnrealizedPL)
	}
	wantTotal := pv.Account.Cash + pos.MarketValue
	if pv.TotalValue != wantTotal {
		t.Errorf("expected total %v, got %v", wantTotal, pv.TotalValue)
	}

	// A year later the deterministic drift moves the mark.
	later, err := exec.Portfolio(ctx, account.ID, at.AddDate(1, 0, 0))
	if err != nil {
		t.Fatal(err)
	}
	if later.Positions[0].MarketValue == pos.MarketValue {
		t.Error("expected market value to move over a year")
	}
}
