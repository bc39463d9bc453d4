package crypto

import (
	"math"
	"time"

	"github.com/rs/zerolog"

	"stockfake/internal/market/calendar"
	"stockfake/internal/models"
)

// eventHalfLifeMonths is the half-life of a major event's price shock.
const eventHalfLifeMonths = 6.0

// Engine computes simulated cryptocurrency prices, fees, and staking rewards.
// All operations are pure functions of the caller-supplied timestamp and the
// immutable catalog.
type Engine struct {
	catalog *Catalog
	logger  zerolog.Logger
}

// NewEngine creates a pricing engine over the given catalog.
func NewEngine(catalog *Catalog, logger zerolog.Logger) *Engine {
	return &Engine{
		catalog: catalog,
		logger:  logger.With().Str("component", "crypto").Logger(),
	}
}

// Catalog returns the engine's asset catalog.
func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// Available reports whether the asset exists and has launched by the given
// time. Unknown symbols are simply unavailable.
func (e *Engine) Available(symbol string, at time.Time) bool {
	a, ok := e.catalog.Get(symbol)
	if !ok {
		return false
	}
	return !at.Before(a.Launch)
}

// Price returns the deterministic simulated price for symbol at the given
// time. ok is false for unknown symbols and for dates before launch.
//
// The price is a monotonically-seeded growth curve over elapsed calendar
// months since launch, stepped up at each elapsed halving and shocked by
// major events whose impact decays with a six-month half-life.
func (e *Engine) Price(symbol string, at time.Time) (float64, bool) {
	a, ok := e.catalog.Get(symbol)
	if !ok || at.Before(a.Launch) {
		return 0, false
	}

	months := calendar.MonthsBetween(a.Launch, at)
	price := a.BasePrice * math.Exp(a.Growth*math.Sqrt(months))

	for _, h := range a.Halvings {
		if !at.Before(h) {
			price *= a.HalvingBoost
		}
	}

	for _, ev := range a.Events {
		if at.Before(ev.Date) {
			continue
		}
		since := calendar.MonthsBetween(ev.Date, at)
		price *= 1 + ev.Impact*math.Exp2(-since/eventHalfLifeMonths)
	}

	return price, true
}

// TradingFee returns the fee for a trade with the given total cost. Unknown
// symbols have no fee schedule and return 0.
func (e *Engine) TradingFee(symbol string, totalCost float64) float64 {
	a, ok := e.catalog.Get(symbol)
	if !ok {
		return 0
	}
	return totalCost * a.FeeRate
}

// StakingRewards returns the reward accrued by shares between lastReward and
// asOf. Assets without staking support yield 0 rather than failing, so
// callers can probe capability generically. A non-positive elapsed interval
// also yields 0.
func (e *Engine) StakingRewards(symbol string, shares float64, asOf, lastReward time.Time) float64 {
	a, ok := e.catalog.Get(symbol)
	if !ok || a.Staking == nil {
		return 0
	}

	months := calendar.MonthsBetween(lastReward, asOf)
	if months <= 0 {
		return 0
	}

	return shares * a.Staking.AnnualRate * months / 12
}

// TradingOpen reports whether crypto trading is open. Crypto markets never
// close.
func (e *Engine) TradingOpen() bool {
	return true
}

// AllPrices returns a quote for every catalog asset available at the given
// time, ordered by launch date. Assets that have not launched are excluded
// entirely.
func (e *Engine) AllPrices(at time.Time) []models.CryptoQuote {
	quotes := make([]models.CryptoQuote, 0, len(e.catalog.byLaunch))
	for _, symbol := range e.catalog.byLaunch {
		price, ok := e.Price(symbol, at)
		if !ok {
			continue
		}
		a, _ := e.catalog.Get(symbol)
		quotes = append(quotes, models.CryptoQuote{
			Symbol: a.Symbol,
			Name:   a.Name,
			Price:  price,
		})
	}
	return quotes
}
