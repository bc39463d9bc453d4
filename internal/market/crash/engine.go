package crash

import (
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"stockfake/internal/errors"
	"stockfake/internal/market/calendar"
	"stockfake/internal/models"
)

// bottomWobble is the amplitude of the residual volatility during the bottom
// phase, as a fraction of the trough multiplier. The wobble term is zero at
// both phase boundaries, keeping the curve continuous.
const bottomWobble = 0.02

// Simulator computes crash price impacts against a single active crash event.
// It is the explicit simulation context: callers own a Simulator per session
// or test scenario instead of sharing hidden global state, and must Reset
// between independent scenarios.
type Simulator struct {
	catalog *Catalog
	logger  zerolog.Logger

	mu     sync.RWMutex
	active *activeCrash
}

type activeCrash struct {
	event Event
	start time.Time
}

// NewSimulator creates a crash simulator over the given catalog.
func NewSimulator(catalog *Catalog, logger zerolog.Logger) *Simulator {
	return &Simulator{
		catalog: catalog,
		logger:  logger.With().Str("component", "crash").Logger(),
	}
}

// Catalog returns the event catalog the simulator was built over.
func (s *Simulator) Catalog() *Catalog {
	return s.catalog
}

// Trigger activates the named crash event starting at the given timestamp,
// replacing any previously active crash. The start timestamp is fixed for the
// lifetime of the activation.
func (s *Simulator) Trigger(eventID string, start time.Time) error {
	event, ok := s.catalog.Lookup(eventID)
	if !ok {
		return errors.NewEventError(eventID, "not in catalog", errors.ErrUnknownEvent)
	}

	s.mu.Lock()
	s.active = &activeCrash{event: event, start: start}
	s.mu.Unlock()

	s.logger.Info().
		Str("event_id", eventID).
		Time("start", start).
		Msg("Crash event triggered")
	return nil
}

// Reset clears the active crash. Idempotent.
func (s *Simulator) Reset() {
	s.mu.Lock()
	s.active = nil
	s.mu.Unlock()
}

// Active returns the active event ID and start time, if any.
func (s *Simulator) Active() (eventID string, start time.Time, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.active == nil {
		return "", time.Time{}, false
	}
	return s.active.event.ID, s.active.start, true
}

// PriceImpact applies the active crash multiplier for the sector to a
// caller-supplied base price. Unknown symbols and sectors are valid inputs:
// anything outside the active event's affected set passes through unchanged.
func (s *Simulator) PriceImpact(symbol string, sector models.Sector, basePrice float64, at time.Time) float64 {
	mult := s.Multiplier(sector, at)
	if mult != 1.0 {
		s.logger.Debug().
			Str("symbol", symbol).
			Str("sector", string(sector)).
			Float64("multiplier", mult).
			Msg("Crash impact applied")
	}
	return basePrice * mult
}

// Multiplier returns the dimensionless crash multiplier for a sector at the
// given time. It is 1.0 when no crash is active, before the crash starts, for
// unaffected sectors, and at or beyond the event's total duration. The curve
// is continuous across phase boundaries and always strictly positive.
func (s *Simulator) Multiplier(sector models.Sector, at time.Time) float64 {
	s.mu.RLock()
	active := s.active
	s.mu.RUnlock()

	if active == nil {
		return 1.0
	}
	if at.Before(active.start) {
		return 1.0
	}

	impact, ok := active.event.Sectors[sector]
	if !ok {
		return 1.0
	}

	elapsed := calendar.MonthsBetween(active.start, at)
	return phaseMultiplier(active.event, impact, elapsed)
}

// phaseMultiplier evaluates the piecewise recovery curve at elapsed months.
//
// Phases:
//
//	panic    [0, P):      linear fall from 1.0 to the trough
//	bottom   [P, P+B):    trough with a small sinusoidal wobble, zero at the edges
//	recovery [P+B, P+B+R): trough + (1-trough)*sqrt(progress), concave rise
//	healed   [P+B+R, inf): exactly 1.0
func phaseMultiplier(event Event, impact SectorImpact, elapsed float64) float64 {
	panicEnd := event.PanicMonths
	bottomEnd := panicEnd + event.BottomMonths
	total := bottomEnd + impact.RecoveryMonths
	trough := impact.Trough

	switch {
	case elapsed <= 0:
		return 1.0

	case elapsed < panicEnd:
		progress := elapsed / panicEnd
		return 1.0 - (1.0-trough)*progress

	case elapsed < bottomEnd:
		if event.BottomMonths <= 0 {
			return trough
		}
		progress := (elapsed - panicEnd) / event.BottomMonths
		return trough * (1.0 - bottomWobble*math.Sin(math.Pi*progress))

	case elapsed < total:
		if impact.RecoveryMonths <= 0 {
			return 1.0
		}
		progress := (elapsed - bottomEnd) / impact.RecoveryMonths
		return trough + (1.0-trough)*math.Sqrt(progress)

	default:
		// Fully healed. No overshoot, no re-crash.
		return 1.0
	}
}
