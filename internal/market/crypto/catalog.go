// Package crypto implements the simulated cryptocurrency catalog and pricing
// engine: deterministic launch-anchored price curves shaped by halving
// schedules and major events, plus trading fees and staking rewards.
package crypto

import (
	"sort"
	"time"
)

// MajorEvent is a one-time shock to an asset's price, applied at its date and
// decaying afterwards.
type MajorEvent struct {
	Date   time.Time
	Label  string
	Impact float64 // fractional shock, e.g. -0.30 for a 30% hit
}

// StakingConfig describes staking support for an asset.
type StakingConfig struct {
	AnnualRate float64
}

// Asset is a cryptocurrency definition. Definitions are static: the catalog
// builds them once at load and nothing mutates them afterwards. An asset is
// available at time T iff T >= Launch.
type Asset struct {
	Symbol       string
	Name         string
	Launch       time.Time
	BasePrice    float64 // simulated price at launch
	Growth       float64 // steepness of the price curve
	HalvingBoost float64 // step multiplier applied at each halving
	Halvings     []time.Time
	Events       []MajorEvent
	Staking      *StakingConfig
	FeeRate      float64
}

// Catalog is an immutable registry of crypto assets keyed by symbol.
type Catalog struct {
	assets map[string]Asset
	// byLaunch holds symbols ordered by launch date for stable listings.
	byLaunch []string
}

// NewCatalog returns the built-in cryptocurrency catalog.
func NewCatalog() *Catalog {
	assets := builtinAssets()

	byID := make(map[string]Asset, len(assets))
	byLaunch := make([]string, 0, len(assets))
	for _, a := range assets {
		byID[a.Symbol] = a
		byLaunch = append(byLaunch, a.Symbol)
	}
	sort.Slice(byLaunch, func(i, j int) bool {
		return byID[byLaunch[i]].Launch.Before(byID[byLaunch[j]].Launch)
	})

	return &Catalog{assets: byID, byLaunch: byLaunch}
}

// Get returns the asset definition for symbol. Absence is a valid queryable
// state, not an error.
func (c *Catalog) Get(symbol string) (Asset, bool) {
	a, ok := c.assets[symbol]
	return a, ok
}

// Symbols returns all catalog symbols ordered by launch date.
func (c *Catalog) Symbols() []string {
	out := make([]string, len(c.byLaunch))
	copy(out, c.byLaunch)
	return out
}

func utc(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// builtinAssets defines the simulated coins. Growth constants are calibrated
// so that BTC trades at a few cents in mid-2010 and above $50,000 in November
// 2021, and ETH above $3,000 in November 2021.
func builtinAssets() []Asset {
	return []Asset{
		{
			Symbol:       "BTC",
			Name:         "Bitcoin",
			Launch:       utc(2009, time.January, 3),
			BasePrice:    0.001,
			Growth:       1.08,
			HalvingBoost: 5.0,
			Halvings: []time.Time{
				utc(2012, time.November, 28),
				utc(2016, time.July, 9),
				utc(2020, time.May, 11),
				utc(2024, time.April, 19),
			},
			Events: []MajorEvent{
				{Date: utc(2014, time.February, 24), Label: "Mt. Gox collapse", Impact: -0.45},
				{Date: utc(2021, time.February, 8), Label: "Institutional adoption wave", Impact: 0.25},
				{Date: utc(2021, time.May, 19), Label: "China mining ban", Impact: -0.30},
			},
			FeeRate: 0.001,
		},
		{
			Symbol:    "LTC",
			Name:      "Litecoin",
			Launch:    utc(2011, time.October, 7),
			BasePrice: 0.03,
			Growth:    0.82,
			// Litecoin halves on its own schedule with a milder step.
			HalvingBoost: 2.0,
			Halvings: []time.Time{
				utc(2015, time.August, 25),
				utc(2019, time.August, 5),
				utc(2023, time.August, 2),
			},
			FeeRate: 0.0015,
		},
		{
			Symbol:    "DOGE",
			Name:      "Dogecoin",
			Launch:    utc(2013, time.December, 6),
			BasePrice: 0.0002,
			Growth:    0.72,
			Events: []MajorEvent{
				{Date: utc(2021, time.January, 28), Label: "Social media rally", Impact: 0.90},
				{Date: utc(2021, time.May, 9), Label: "Talk show selloff", Impact: -0.35},
			},
			FeeRate: 0.002,
		},
		{
			Symbol:    "ETH",
			Name:      "Ethereum",
			Launch:    utc(2015, time.July, 30),
			BasePrice: 0.30,
			Growth:    1.10,
			Events: []MajorEvent{
				{Date: utc(2016, time.June, 17), Label: "The DAO hack", Impact: -0.40},
				{Date: utc(2021, time.August, 5), Label: "London fee-burn upgrade", Impact: 0.20},
				{Date: utc(2022, time.September, 15), Label: "Proof-of-stake merge", Impact: 0.15},
			},
			Staking: &StakingConfig{AnnualRate: 0.04},
			FeeRate: 0.001,
		},
		{
			Symbol:    "ADA",
			Name:      "Cardano",
			Launch:    utc(2017, time.September, 29),
			BasePrice: 0.02,
			Growth:    0.70,
			Staking:   &StakingConfig{AnnualRate: 0.05},
			FeeRate:   0.0015,
		},
		{
			Symbol:    "SOL",
			Name:      "Solana",
			Launch:    utc(2020, time.March, 16),
			BasePrice: 0.22,
			Growth:    1.30,
			Events: []MajorEvent{
				{Date: utc(2021, time.September, 14), Label: "Network outage", Impact: -0.35},
			},
			Staking: &StakingConfig{AnnualRate: 0.07},
			FeeRate: 0.001,
		},
	}
}
