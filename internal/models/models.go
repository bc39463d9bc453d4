// Package models provides domain models for the trading simulation.
package models

import (
	"time"
)

// Sector represents an industry sector tag for a listed stock.
type Sector string

const (
	SectorFinancial  Sector = "FINANCIAL"
	SectorTechnology Sector = "TECHNOLOGY"
	SectorEnergy     Sector = "ENERGY"
	SectorHealthcare Sector = "HEALTHCARE"
	SectorConsumer   Sector = "CONSUMER"
	SectorIndustrial Sector = "INDUSTRIAL"
	SectorRealEstate Sector = "REAL_ESTATE"
	SectorTelecom    Sector = "TELECOM"
	SectorTravel     Sector = "TRAVEL"
	SectorUtilities  Sector = "UTILITIES"
)

// AssetType distinguishes equities from cryptocurrencies.
type AssetType string

const (
	AssetStock  AssetType = "STOCK"
	AssetCrypto AssetType = "CRYPTO"
)

// TradeSide represents the side of a trade.
type TradeSide string

const (
	TradeSideBuy  TradeSide = "BUY"
	TradeSideSell TradeSide = "SELL"
)

// MarketStatus represents the equity market status at a point in simulated time.
type MarketStatus string

const (
	MarketOpen    MarketStatus = "OPEN"
	MarketPreOpen MarketStatus = "PRE_OPEN"
	MarketClosed  MarketStatus = "CLOSED"
)

// Quote represents a simulated stock quote with any crash impact applied.
type Quote struct {
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	Sector        Sector    `json:"sector"`
	Price         float64   `json:"price"`
	BasePrice     float64   `json:"base_price"`
	CrashAffected bool      `json:"crash_affected"`
	AsOf          time.Time `json:"as_of"`
}

// CryptoQuote represents a simulated cryptocurrency price at a point in time.
type CryptoQuote struct {
	Symbol string  `json:"symbol"`
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
}

// Account represents a player account.
type Account struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Cash      float64   `json:"cash"`
	CreatedAt time.Time `json:"created_at"`
}

// Holding represents a position in an account's portfolio.
type Holding struct {
	AccountID string    `json:"account_id"`
	Symbol    string    `json:"symbol"`
	AssetType AssetType `json:"asset_type"`
	Quantity  float64   `json:"quantity"`
	AvgPrice  float64   `json:"avg_price"`
}

// Transaction represents an executed simulated trade.
type Transaction struct {
	ID         string    `json:"id"`
	AccountID  string    `json:"account_id"`
	Symbol     string    `json:"symbol"`
	AssetType  AssetType `json:"asset_type"`
	Side       TradeSide `json:"side"`
	Quantity   float64   `json:"quantity"`
	Price      float64   `json:"price"`
	Fee        float64   `json:"fee"`
	Total      float64   `json:"total"`
	ExecutedAt time.Time `json:"executed_at"`
}
