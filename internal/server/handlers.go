package server

import (
	"encoding/json"
	"net/http"
	"time"

	"stockfake/internal/errors"
	"stockfake/internal/market"
	"stockfake/internal/models"
	"stockfake/internal/store"
	"stockfake/internal/trading"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps domain errors to HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errors.ErrSymbolNotFound),
		errors.Is(err, errors.ErrAccountNotFound),
		errors.Is(err, errors.ErrUnknownEvent),
		errors.Is(err, errors.ErrDataNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errors.ErrInvalidTrade):
		status = http.StatusBadRequest
	case errors.Is(err, errors.ErrMarketClosed),
		errors.Is(err, errors.ErrInsufficientFunds),
		errors.Is(err, errors.ErrInsufficientUnits):
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

// ============================================================================
// Simulated Time
// ============================================================================

type timeResponse struct {
	Now          time.Time           `json:"now"`
	EquityStatus models.MarketStatus `json:"equity_status"`
}

func (s *Server) handleGetTime(w http.ResponseWriter, r *http.Request) {
	now := s.clock.Now()
	writeJSON(w, http.StatusOK, timeResponse{Now: now, EquityStatus: market.EquityStatusAt(now)})
}

func (s *Server) handleSetTime(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Time string `json:"time"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	t, err := time.Parse(timeLayout, req.Time)
	if err != nil {
		badRequest(w, "time must be RFC 3339")
		return
	}
	s.clock.Set(t)
	now := s.clock.Now()
	writeJSON(w, http.StatusOK, timeResponse{Now: now, EquityStatus: market.EquityStatusAt(now)})
}

func (s *Server) handleAdvanceTime(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Days  int `json:"days"`
		Hours int `json:"hours"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if req.Days == 0 && req.Hours == 0 {
		badRequest(w, "days or hours required")
		return
	}
	s.clock.AdvanceDays(req.Days)
	now := s.clock.Advance(time.Duration(req.Hours) * time.Hour)
	writeJSON(w, http.StatusOK, timeResponse{Now: now, EquityStatus: market.EquityStatusAt(now)})
}

// ============================================================================
// Quotes
// ============================================================================

func (s *Server) handleQuotes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.market.AllQuotes(s.clock.Now()))
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	quote, err := s.market.Quote(r.PathValue("symbol"), s.clock.Now())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

// ============================================================================
// Crypto
// ============================================================================

func (s *Server) handleCryptoPrices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.market.Crypto().AllPrices(s.clock.Now()))
}

func (s *Server) handleCryptoPrice(w http.ResponseWriter, r *http.Request) {
	symbol := r.PathValue("symbol")
	now := s.clock.Now()
	price, ok := s.market.Crypto().Price(symbol, now)
	if !ok {
		writeError(w, errors.NewDataError("crypto", symbol, "not available at simulated time", errors.ErrDataNotFound))
		return
	}
	asset, _ := s.market.Crypto().Catalog().Get(symbol)
	writeJSON(w, http.StatusOK, models.CryptoQuote{Symbol: symbol, Name: asset.Name, Price: price})
}

// ============================================================================
// Crash Events
// ============================================================================

func (s *Server) handleCrashEvents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.market.Crash().Catalog().Events())
}

type crashActiveResponse struct {
	Active  bool      `json:"active"`
	EventID string    `json:"event_id,omitempty"`
	Start   time.Time `json:"start,omitempty"`
}

func (s *Server) handleCrashActive(w http.ResponseWriter, r *http.Request) {
	id, start, ok := s.market.Crash().Active()
	writeJSON(w, http.StatusOK, crashActiveResponse{Active: ok, EventID: id, Start: start})
}

func (s *Server) handleCrashTrigger(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EventID string `json:"event_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.EventID == "" {
		badRequest(w, "event_id required")
		return
	}
	start := s.clock.Now()
	if err := s.market.Crash().Trigger(req.EventID, start); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, crashActiveResponse{Active: true, EventID: req.EventID, Start: start})
}

func (s *Server) handleCrashReset(w http.ResponseWriter, r *http.Request) {
	s.market.Crash().Reset()
	writeJSON(w, http.StatusOK, crashActiveResponse{Active: false})
}

// ============================================================================
// Accounts
// ============================================================================

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         string   `json:"name"`
		StartingCash *float64 `json:"starting_cash"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		badRequest(w, "name required")
		return
	}
	cash := 100000.0
	if req.StartingCash != nil {
		if *req.StartingCash < 0 {
			badRequest(w, "starting_cash must not be negative")
			return
		}
		cash = *req.StartingCash
	}
	account, err := s.store.CreateAccount(r.Context(), req.Name, cash)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, account)
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.store.ListAccounts(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if accounts == nil {
		accounts = []models.Account{}
	}
	writeJSON(w, http.StatusOK, accounts)
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := s.store.GetAccount(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	pv, err := s.exec.Portfolio(r.Context(), r.PathValue("id"), s.clock.Now())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pv)
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	filter := store.TransactionFilter{
		AccountID: r.PathValue("id"),
		Symbol:    r.URL.Query().Get("symbol"),
	}
	txns, err := s.store.GetTransactions(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	if txns == nil {
		txns = []models.Transaction{}
	}
	writeJSON(w, http.StatusOK, txns)
}

// ============================================================================
// Trading
// ============================================================================

func (s *Server) handleTrade(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AccountID string  `json:"account_id"`
		Symbol    string  `json:"symbol"`
		Side      string  `json:"side"`
		Quantity  float64 `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	txn, err := s.exec.Execute(r.Context(), trading.TradeRequest{
		AccountID: req.AccountID,
		Symbol:    req.Symbol,
		Side:      models.TradeSide(req.Side),
		Quantity:  req.Quantity,
	}, s.clock.Now())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, txn)
}
