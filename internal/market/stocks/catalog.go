// Package stocks implements the simulated stock catalog and base price
// generator. Prices are deterministic functions of the supplied timestamp so
// the whole simulation replays identically for a given date.
package stocks

import (
	"sort"
	"time"

	"stockfake/internal/models"
)

// Stock is a listed company definition. Definitions are static catalog data.
type Stock struct {
	Symbol    string
	Name      string
	Sector    models.Sector
	BasePrice float64 // simulated price on the listing date
	Listed    time.Time
}

// Catalog is an immutable registry of listed stocks keyed by symbol.
type Catalog struct {
	stocks map[string]Stock
}

// NewCatalog returns the built-in stock catalog.
func NewCatalog() *Catalog {
	listings := builtinStocks()
	byID := make(map[string]Stock, len(listings))
	for _, s := range listings {
		byID[s.Symbol] = s
	}
	return &Catalog{stocks: byID}
}

// Get returns the stock definition for symbol.
func (c *Catalog) Get(symbol string) (Stock, bool) {
	s, ok := c.stocks[symbol]
	return s, ok
}

// Symbols returns all catalog symbols in lexical order.
func (c *Catalog) Symbols() []string {
	out := make([]string, 0, len(c.stocks))
	for symbol := range c.stocks {
		out = append(out, symbol)
	}
	sort.Strings(out)
	return out
}

func listed(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func builtinStocks() []Stock {
	return []Stock{
		{Symbol: "AAPL", Name: "Apple Inc.", Sector: models.SectorTechnology, BasePrice: 22, Listed: listed(1980, time.December, 12)},
		{Symbol: "MSFT", Name: "Microsoft Corporation", Sector: models.SectorTechnology, BasePrice: 21, Listed: listed(1986, time.March, 13)},
		{Symbol: "CSCO", Name: "Cisco Systems", Sector: models.SectorTechnology, BasePrice: 18, Listed: listed(1990, time.February, 16)},
		{Symbol: "JPM", Name: "JPMorgan Chase", Sector: models.SectorFinancial, BasePrice: 35, Listed: listed(1978, time.January, 3)},
		{Symbol: "GS", Name: "Goldman Sachs", Sector: models.SectorFinancial, BasePrice: 53, Listed: listed(1999, time.May, 4)},
		{Symbol: "BAC", Name: "Bank of America", Sector: models.SectorFinancial, BasePrice: 28, Listed: listed(1978, time.January, 3)},
		{Symbol: "XOM", Name: "Exxon Mobil", Sector: models.SectorEnergy, BasePrice: 40, Listed: listed(1978, time.January, 3)},
		{Symbol: "JNJ", Name: "Johnson & Johnson", Sector: models.SectorHealthcare, BasePrice: 33, Listed: listed(1978, time.January, 3)},
		{Symbol: "PG", Name: "Procter & Gamble", Sector: models.SectorConsumer, BasePrice: 30, Listed: listed(1978, time.January, 3)},
		{Symbol: "BA", Name: "Boeing", Sector: models.SectorIndustrial, BasePrice: 38, Listed: listed(1978, time.January, 3)},
		{Symbol: "SPG", Name: "Simon Property Group", Sector: models.SectorRealEstate, BasePrice: 24, Listed: listed(1993, time.December, 14)},
		{Symbol: "T", Name: "AT&T", Sector: models.SectorTelecom, BasePrice: 26, Listed: listed(1983, time.November, 21)},
		{Symbol: "DAL", Name: "Delta Air Lines", Sector: models.SectorTravel, BasePrice: 20, Listed: listed(2007, time.May, 3)},
		{Symbol: "DUK", Name: "Duke Energy", Sector: models.SectorUtilities, BasePrice: 31, Listed: listed(1978, time.January, 3)},
	}
}
