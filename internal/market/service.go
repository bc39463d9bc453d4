package market

import (
	"time"

	"github.com/rs/zerolog"

	"stockfake/internal/errors"
	"stockfake/internal/market/crash"
	"stockfake/internal/market/crypto"
	"stockfake/internal/market/stocks"
	"stockfake/internal/models"
)

// Service is the market data facade: stock quotes with crash impact applied,
// crypto prices, and the crash trigger/reset operations.
type Service struct {
	stocks *stocks.Catalog
	crash  *crash.Simulator
	crypto *crypto.Engine
	logger zerolog.Logger
}

// NewService creates a market service with the built-in catalogs.
func NewService(logger zerolog.Logger) *Service {
	return &Service{
		stocks: stocks.NewCatalog(),
		crash:  crash.NewSimulator(crash.NewCatalog(), logger),
		crypto: crypto.NewEngine(crypto.NewCatalog(), logger),
		logger: logger.With().Str("component", "market").Logger(),
	}
}

// Crash returns the crash simulator owned by this service.
func (s *Service) Crash() *crash.Simulator {
	return s.crash
}

// Crypto returns the crypto pricing engine.
func (s *Service) Crypto() *crypto.Engine {
	return s.crypto
}

// Stocks returns the stock catalog.
func (s *Service) Stocks() *stocks.Catalog {
	return s.stocks
}

// Quote returns the simulated stock quote at the given time, with any active
// crash impact applied to the generated base price.
func (s *Service) Quote(symbol string, at time.Time) (*models.Quote, error) {
	stock, ok := s.stocks.Get(symbol)
	if !ok {
		return nil, errors.NewDataError("quote", symbol, "not listed", errors.ErrSymbolNotFound)
	}

	base, ok := s.stocks.BasePrice(symbol, at)
	if !ok {
		return nil, errors.NewDataError("quote", symbol, "not yet listed at requested date", errors.ErrDataNotFound)
	}

	price := s.crash.PriceImpact(symbol, stock.Sector, base, at)

	s.logger.Debug().
		Str("symbol", symbol).
		Float64("price", price).
		Time("as_of", at).
		Msg("Quote computed")

	return &models.Quote{
		Symbol:        stock.Symbol,
		Name:          stock.Name,
		Sector:        stock.Sector,
		Price:         price,
		BasePrice:     base,
		CrashAffected: price != base,
		AsOf:          at,
	}, nil
}

// AllQuotes returns quotes for every listed stock available at the given
// time, in catalog symbol order.
func (s *Service) AllQuotes(at time.Time) []models.Quote {
	symbols := s.stocks.Symbols()
	quotes := make([]models.Quote, 0, len(symbols))
	for _, symbol := range symbols {
		q, err := s.Quote(symbol, at)
		if err != nil {
			continue
		}
		quotes = append(quotes, *q)
	}
	return quotes
}

// AssetPrice resolves a tradeable asset's price and type at the given time.
// Stocks take precedence; symbols unknown to both catalogs are an error.
func (s *Service) AssetPrice(symbol string, at time.Time) (float64, models.AssetType, error) {
	if _, ok := s.stocks.Get(symbol); ok {
		q, err := s.Quote(symbol, at)
		if err != nil {
			return 0, "", err
		}
		return q.Price, models.AssetStock, nil
	}

	if price, ok := s.crypto.Price(symbol, at); ok {
		return price, models.AssetCrypto, nil
	}

	return 0, "", errors.NewDataError("price", symbol, "unknown or unavailable asset", errors.ErrSymbolNotFound)
}

// TradingOpen reports whether the given asset type trades at the given
// simulated time.
func (s *Service) TradingOpen(assetType models.AssetType, at time.Time) bool {
	if assetType == models.AssetCrypto {
		return s.crypto.TradingOpen()
	}
	return IsEquityTradingOpen(at)
}
