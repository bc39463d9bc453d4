// Package market composes the simulated stock generator, the crash impact
// engine, and the crypto pricing engine behind one service used by the HTTP
// layer and the CLI.
package market

import (
	"time"

	"stockfake/internal/models"
)

// nyLocation is the timezone for equity market hours.
var nyLocation *time.Location

func init() {
	var err error
	nyLocation, err = time.LoadLocation("America/New_York")
	if err != nil {
		// Fallback to UTC-5
		nyLocation = time.FixedZone("EST", -5*60*60)
	}
}

// EquityStatusAt returns the equity market status at a point in simulated
// time. No wall-clock reads: the caller supplies the timestamp.
func EquityStatusAt(at time.Time) models.MarketStatus {
	t := at.In(nyLocation)

	// Weekend
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return models.MarketClosed
	}

	hour := t.Hour()
	minute := t.Minute()
	timeMinutes := hour*60 + minute

	// Pre-open: 9:00 - 9:30
	if timeMinutes >= 540 && timeMinutes < 570 {
		return models.MarketPreOpen
	}

	// Market open: 9:30 - 16:00
	if timeMinutes >= 570 && timeMinutes < 960 {
		return models.MarketOpen
	}

	return models.MarketClosed
}

// IsEquityTradingOpen reports whether equities trade at the given simulated
// time. Crypto trading has no hours restriction; see crypto.Engine.TradingOpen.
func IsEquityTradingOpen(at time.Time) bool {
	return EquityStatusAt(at) == models.MarketOpen
}

// NextEquityOpen returns the next equity market opening time at or after the
// given simulated time.
func NextEquityOpen(at time.Time) time.Time {
	t := at.In(nyLocation)

	next := time.Date(t.Year(), t.Month(), t.Day(), 9, 30, 0, 0, nyLocation)
	if !t.Before(next) {
		next = next.AddDate(0, 0, 1)
	}

	for next.Weekday() == time.Saturday || next.Weekday() == time.Sunday {
		next = next.AddDate(0, 0, 1)
	}

	return next
}
