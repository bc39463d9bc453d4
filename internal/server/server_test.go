package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"stockfake/internal/config"
	"stockfake/internal/market"
	"stockfake/internal/models"
	"stockfake/internal/store"
	"stockfake/internal/trading"
)

func newTestServer(t *testing.T) (*Server, *store.SQLiteStore) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "server.db")
	dataStore, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { dataStore.Close() })

	logger := zerolog.Nop()
	svc := market.NewService(logger)
	exec := trading.NewExecutor(svc, dataStore, logger)
	// Start on a Monday with the equity market open (14:30 UTC = 10:30 ET).
	clock := market.NewSimClock(time.Date(2021, time.June, 7, 14, 30, 0, 0, time.UTC))

	cfg := config.ServerConfig{Host: "127.0.0.1", Port: 0}
	return New(cfg, logger, svc, dataStore, exec, clock), dataStore
}

func doJSON(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

func TestIndexPage(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("StockFake")) {
		t.Error("expected index page body")
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("AAPL")) {
		t.Error("expected stock table on index page")
	}
}

func TestTimeEndpoints(t *testing.T) {
	s, _ := newTestServer(t)

	var resp struct {
		Now          time.Time           `json:"now"`
		EquityStatus models.MarketStatus `json:"equity_status"`
	}

	rec := doJSON(t, s, http.MethodGet, "/api/time", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	decode(t, rec, &resp)
	if resp.EquityStatus != models.MarketOpen {
		t.Errorf("expected OPEN at start, got %v", resp.EquityStatus)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/time/advance", map[string]int{"days": 5})
	if rec.Code != http.StatusOK {
		t.Fatalf("advance: expected 200, got %d", rec.Code)
	}
	decode(t, rec, &resp)
	// Five days after Monday lands on Saturday.
	if resp.EquityStatus != models.MarketClosed {
		t.Errorf("expected CLOSED on Saturday, got %v", resp.EquityStatus)
	}

	rec = doJSON(t, s, http.MethodPut, "/api/time", map[string]string{"time": "2008-09-15T14:30:00Z"})
	if rec.Code != http.StatusOK {
		t.Fatalf("set: expected 200, got %d", rec.Code)
	}
	decode(t, rec, &resp)
	if resp.Now.Year() != 2008 {
		t.Errorf("expected year 2008, got %v", resp.Now)
	}

	rec = doJSON(t, s, http.MethodPut, "/api/time", map[string]string{"time": "not-a-time"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad time, got %d", rec.Code)
	}
}

func TestQuoteEndpoints(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/quotes", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var quotes []models.Quote
	decode(t, rec, &quotes)
	if len(quotes) == 0 {
		t.Fatal("expected quotes")
	}

	rec = doJSON(t, s, http.MethodGet, "/api/quotes/AAPL", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var quote models.Quote
	decode(t, rec, &quote)
	if quote.Symbol != "AAPL" || quote.Price <= 0 {
		t.Errorf("unexpected quote: %+v", quote)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/quotes/ZZZZ", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown symbol, got %d", rec.Code)
	}
}

func TestCryptoEndpoints(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/crypto", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var prices []models.CryptoQuote
	decode(t, rec, &prices)
	if len(prices) == 0 {
		t.Fatal("expected crypto prices in 2021")
	}

	rec = doJSON(t, s, http.MethodGet, "/api/crypto/BTC", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	// Move before Bitcoin's launch; the quote disappears.
	doJSON(t, s, http.MethodPut, "/api/time", map[string]string{"time": "2005-01-03T12:00:00Z"})
	rec = doJSON(t, s, http.MethodGet, "/api/crypto/BTC", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 before launch, got %d", rec.Code)
	}
}

func TestCrashEndpoints(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/crash/events", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/crash/active", nil)
	var active struct {
		Active  bool   `json:"active"`
		EventID string `json:"event_id"`
	}
	decode(t, rec, &active)
	if active.Active {
		t.Error("expected no active crash initially")
	}

	rec = doJSON(t, s, http.MethodPost, "/api/crash/trigger", map[string]string{"event_id": "financial_crisis_2008"})
	if rec.Code != http.StatusOK {
		t.Fatalf("trigger: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, s, http.MethodGet, "/api/crash/active", nil)
	decode(t, rec, &active)
	if !active.Active || active.EventID != "financial_crisis_2008" {
		t.Errorf("unexpected active crash: %+v", active)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/crash/trigger", map[string]string{"event_id": "no_such_event"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown event, got %d", rec.Code)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/crash/reset", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("reset: expected 200, got %d", rec.Code)
	}
	rec = doJSON(t, s, http.MethodGet, "/api/crash/active", nil)
	decode(t, rec, &active)
	if active.Active {
		t.Error("expected no active crash after reset")
	}
}

func TestAccountAndTradeFlow(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/accounts", map[string]interface{}{"name": "player"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create account: expected 201, got %d", rec.Code)
	}
	var account models.Account
	decode(t, rec, &account)
	if account.Cash != 100000 {
		t.Errorf("expected default cash 100000, got %v", account.Cash)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/trade", map[string]interface{}{
		"account_id": account.ID, "symbol": "AAPL", "side": "BUY", "quantity": 10,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("trade: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var txn models.Transaction
	decode(t, rec, &txn)
	if txn.Quantity != 10 || txn.Side != models.TradeSideBuy {
		t.Errorf("unexpected transaction: %+v", txn)
	}

	rec = doJSON(t, s, http.MethodGet, fmt.Sprintf("/api/accounts/%s/portfolio", account.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("portfolio: expected 200, got %d", rec.Code)
	}
	var pv trading.PortfolioValue
	decode(t, rec, &pv)
	if len(pv.Positions) != 1 || pv.Positions[0].Holding.Symbol != "AAPL" {
		t.Errorf("unexpected portfolio: %+v", pv)
	}

	rec = doJSON(t, s, http.MethodGet, fmt.Sprintf("/api/accounts/%s/transactions", account.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("transactions: expected 200, got %d", rec.Code)
	}
	var txns []models.Transaction
	decode(t, rec, &txns)
	if len(txns) != 1 {
		t.Errorf("expected 1 transaction, got %d", len(txns))
	}

	// Weekend equity trade is rejected.
	doJSON(t, s, http.MethodPut, "/api/time", map[string]string{"time": "2021-06-12T14:30:00Z"})
	rec = doJSON(t, s, http.MethodPost, "/api/trade", map[string]interface{}{
		"account_id": account.ID, "symbol": "AAPL", "side": "BUY", "quantity": 1,
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for weekend equity trade, got %d", rec.Code)
	}

	// Crypto clears on the weekend.
	rec = doJSON(t, s, http.MethodPost, "/api/trade", map[string]interface{}{
		"account_id": account.ID, "symbol": "BTC", "side": "BUY", "quantity": 0.001,
	})
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201 for weekend crypto trade, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, s, http.MethodGet, "/api/accounts/missing-id", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown account, got %d", rec.Code)
	}
}
