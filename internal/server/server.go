// Package server exposes the simulation over HTTP for the browser UI.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"stockfake/internal/config"
	"stockfake/internal/logging"
	"stockfake/internal/market"
	"stockfake/internal/store"
	"stockfake/internal/trading"
)

// Server wires the market service, trade executor, and portfolio store
// behind an HTTP API plus a single HTML page.
type Server struct {
	cfg    config.ServerConfig
	logger zerolog.Logger
	market *market.Service
	store  store.DataStore
	exec   *trading.Executor
	clock  *market.SimClock

	httpServer *http.Server
}

// New creates a server with all routes registered.
func New(cfg config.ServerConfig, logger zerolog.Logger, svc *market.Service, dataStore store.DataStore, exec *trading.Executor, clock *market.SimClock) *Server {
	s := &Server{
		cfg:    cfg,
		logger: logger,
		market: svc,
		store:  dataStore,
		exec:   exec,
		clock:  clock,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)

	mux.HandleFunc("GET /api/time", s.handleGetTime)
	mux.HandleFunc("PUT /api/time", s.handleSetTime)
	mux.HandleFunc("POST /api/time/advance", s.handleAdvanceTime)

	mux.HandleFunc("GET /api/quotes", s.handleQuotes)
	mux.HandleFunc("GET /api/quotes/{symbol}", s.handleQuote)

	mux.HandleFunc("GET /api/crypto", s.handleCryptoPrices)
	mux.HandleFunc("GET /api/crypto/{symbol}", s.handleCryptoPrice)

	mux.HandleFunc("GET /api/crash/events", s.handleCrashEvents)
	mux.HandleFunc("GET /api/crash/active", s.handleCrashActive)
	mux.HandleFunc("POST /api/crash/trigger", s.handleCrashTrigger)
	mux.HandleFunc("POST /api/crash/reset", s.handleCrashReset)

	mux.HandleFunc("POST /api/accounts", s.handleCreateAccount)
	mux.HandleFunc("GET /api/accounts", s.handleListAccounts)
	mux.HandleFunc("GET /api/accounts/{id}", s.handleGetAccount)
	mux.HandleFunc("GET /api/accounts/{id}/portfolio", s.handlePortfolio)
	mux.HandleFunc("GET /api/accounts/{id}/transactions", s.handleTransactions)

	mux.HandleFunc("POST /api/trade", s.handleTrade)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.logMiddleware(mux),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return s
}

// Handler returns the root handler, useful for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start runs the server until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.httpServer.Addr).Msg("http server listening")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info().Msg("shutting down http server")
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

// statusRecorder captures the response code for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logging.LogRequest(s.logger, r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}
