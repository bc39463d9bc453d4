// Package crash implements the market crash impact engine: a catalog of
// historical crash events and a simulator that computes time-decayed price
// multipliers for the sectors each event affects.
package crash

import (
	"sort"

	"stockfake/internal/models"
)

// SectorImpact describes how hard a crash hits one sector and how long that
// sector takes to heal.
type SectorImpact struct {
	// Trough is the price multiplier at the bottom of the crash (0 < Trough < 1).
	Trough float64
	// RecoveryMonths is the time from the end of the bottom phase until the
	// sector is fully recovered.
	RecoveryMonths float64
}

// Event is a historical crash event definition. Definitions are static: the
// catalog builds them once and nothing mutates them afterwards.
type Event struct {
	ID           string
	Label        string
	PanicMonths  float64
	BottomMonths float64
	Sectors      map[models.Sector]SectorImpact
}

// TotalMonths returns the full duration of the event for a sector, from
// trigger to complete recovery. Returns 0 if the sector is unaffected.
func (e Event) TotalMonths(sector models.Sector) float64 {
	impact, ok := e.Sectors[sector]
	if !ok {
		return 0
	}
	return e.PanicMonths + e.BottomMonths + impact.RecoveryMonths
}

// Affects reports whether the event impacts the given sector.
func (e Event) Affects(sector models.Sector) bool {
	_, ok := e.Sectors[sector]
	return ok
}

// Catalog is an immutable registry of crash events keyed by event ID.
type Catalog struct {
	events map[string]Event
}

// NewCatalog returns the built-in crash event catalog.
func NewCatalog() *Catalog {
	return &Catalog{events: builtinEvents()}
}

// Lookup returns the event definition for id.
func (c *Catalog) Lookup(id string) (Event, bool) {
	e, ok := c.events[id]
	return e, ok
}

// Events returns all event definitions sorted by ID.
func (c *Catalog) Events() []Event {
	out := make([]Event, 0, len(c.events))
	for _, e := range c.events {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// builtinEvents defines the crash archetypes. Phase lengths and recovery
// durations are in calendar months; troughs are the bottom multiplier for
// that sector. The Financial curve of the 2008 crisis spans 78 months
// (6.5 years) and the Technology curve of the dot-com crash spans 180 months
// (15 years), matching the historical recovery timelines.
func builtinEvents() map[string]Event {
	events := []Event{
		{
			ID:           "financial_crisis_2008",
			Label:        "2008 Global Financial Crisis",
			PanicMonths:  6,
			BottomMonths: 6,
			Sectors: map[models.Sector]SectorImpact{
				models.SectorFinancial:  {Trough: 0.40, RecoveryMonths: 66},
				models.SectorRealEstate: {Trough: 0.45, RecoveryMonths: 60},
				models.SectorConsumer:   {Trough: 0.62, RecoveryMonths: 36},
				models.SectorIndustrial: {Trough: 0.58, RecoveryMonths: 42},
				models.SectorEnergy:     {Trough: 0.55, RecoveryMonths: 45},
				models.SectorTechnology: {Trough: 0.65, RecoveryMonths: 30},
			},
		},
		{
			ID:           "dot_com_crash_2000",
			Label:        "2000 Dot-Com Crash",
			PanicMonths:  12,
			BottomMonths: 19,
			Sectors: map[models.Sector]SectorImpact{
				models.SectorTechnology: {Trough: 0.22, RecoveryMonths: 149},
				models.SectorTelecom:    {Trough: 0.30, RecoveryMonths: 120},
				models.SectorFinancial:  {Trough: 0.78, RecoveryMonths: 24},
				models.SectorConsumer:   {Trough: 0.85, RecoveryMonths: 17},
			},
		},
		{
			ID:           "covid_crash_2020",
			Label:        "2020 COVID-19 Crash",
			PanicMonths:  1,
			BottomMonths: 1,
			Sectors: map[models.Sector]SectorImpact{
				models.SectorTravel:     {Trough: 0.45, RecoveryMonths: 22},
				models.SectorEnergy:     {Trough: 0.50, RecoveryMonths: 18},
				models.SectorFinancial:  {Trough: 0.68, RecoveryMonths: 10},
				models.SectorRealEstate: {Trough: 0.72, RecoveryMonths: 12},
				models.SectorConsumer:   {Trough: 0.75, RecoveryMonths: 6},
				models.SectorTechnology: {Trough: 0.80, RecoveryMonths: 3},
			},
		},
		{
			ID:           "black_monday_1987",
			Label:        "1987 Black Monday",
			PanicMonths:  1,
			BottomMonths: 2,
			Sectors: map[models.Sector]SectorImpact{
				models.SectorFinancial:  {Trough: 0.70, RecoveryMonths: 20},
				models.SectorTechnology: {Trough: 0.72, RecoveryMonths: 18},
				models.SectorIndustrial: {Trough: 0.75, RecoveryMonths: 18},
				models.SectorConsumer:   {Trough: 0.78, RecoveryMonths: 15},
			},
		},
	}

	byID := make(map[string]Event, len(events))
	for _, e := range events {
		byID[e.ID] = e
	}
	return byID
}
