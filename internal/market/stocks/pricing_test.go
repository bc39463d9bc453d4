package stocks

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBasePriceDeterministic(t *testing.T) {
	catalog := NewCatalog()
	at := date(2008, time.September, 15)

	a, ok := catalog.BasePrice("AAPL", at)
	if !ok {
		t.Fatal("expected AAPL price")
	}
	b, _ := catalog.BasePrice("AAPL", at)
	if a != b {
		t.Errorf("price not deterministic: %v != %v", a, b)
	}
}

func TestBasePricePositive(t *testing.T) {
	catalog := NewCatalog()

	for _, symbol := range catalog.Symbols() {
		stock, _ := catalog.Get(symbol)
		for years := 0; years <= 40; years += 5 {
			at := stock.Listed.AddDate(years, 3, 7)
			price, ok := catalog.BasePrice(symbol, at)
			if !ok {
				t.Fatalf("%s unavailable %d years after listing", symbol, years)
			}
			if price <= 0 {
				t.Errorf("%s price not positive at +%d years: %v", symbol, years, price)
			}
		}
	}
}

func TestBasePriceBeforeListing(t *testing.T) {
	catalog := NewCatalog()
	stock, _ := catalog.Get("GS")

	if _, ok := catalog.BasePrice("GS", stock.Listed.AddDate(0, 0, -1)); ok {
		t.Error("expected no price before listing date")
	}
	if _, ok := catalog.BasePrice("GS", stock.Listed); !ok {
		t.Error("expected price on listing date")
	}
}

func TestBasePriceUnknownSymbol(t *testing.T) {
	catalog := NewCatalog()
	if _, ok := catalog.BasePrice("ZZZZ", date(2020, time.January, 1)); ok {
		t.Error("expected no price for unknown symbol")
	}
}

func TestBasePriceGrowsLongRun(t *testing.T) {
	catalog := NewCatalog()

	early, _ := catalog.BasePrice("JPM", date(1990, time.June, 1))
	late, _ := catalog.BasePrice("JPM", date(2020, time.June, 1))
	if late <= early {
		t.Errorf("expected long-run growth: %v <= %v", late, early)
	}
}

func TestDistinctSymbolsMoveOutOfStep(t *testing.T) {
	catalog := NewCatalog()
	at := date(2010, time.March, 1)

	// JPM and BAC listed the same day with different base prices and phases;
	// their ratio must differ from the listing-price ratio.
	jpm, _ := catalog.BasePrice("JPM", at)
	bac, _ := catalog.BasePrice("BAC", at)
	if jpm/bac == 35.0/28.0 {
		t.Error("expected symbol-seeded phases to desynchronize prices")
	}
}
