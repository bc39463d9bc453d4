package stocks

import (
	"hash/fnv"
	"math"
	"time"

	"stockfake/internal/market/calendar"
)

// annualDrift is the long-run compound growth rate of simulated stocks.
const annualDrift = 0.07

// seasonalAmplitude bounds the oscillation around the drift curve.
const seasonalAmplitude = 0.06

// BasePrice returns the deterministic simulated price of symbol at the given
// time, before any crash impact. ok is false for unknown symbols or dates
// before the listing date.
//
// The curve is a compound annual drift over the listing price with a bounded
// twelve-month oscillation whose phase is seeded by the symbol, so distinct
// stocks move out of step while each one replays identically.
func (c *Catalog) BasePrice(symbol string, at time.Time) (float64, bool) {
	s, ok := c.stocks[symbol]
	if !ok || at.Before(s.Listed) {
		return 0, false
	}

	months := calendar.MonthsBetween(s.Listed, at)
	years := months / 12

	price := s.BasePrice * math.Pow(1+annualDrift, years)
	price *= 1 + seasonalAmplitude*math.Sin(2*math.Pi*months/12+phase(symbol))
	return price, true
}

// phase maps a symbol to a stable oscillation phase in [0, 2*pi).
func phase(symbol string) float64 {
	h := fnv.New32a()
	h.Write([]byte(symbol))
	return 2 * math.Pi * float64(h.Sum32()) / float64(math.MaxUint32)
}
