package trading

import (
	"context"
	"time"

	"stockfake/internal/models"
)

// PositionValue represents a holding marked to the simulated market.
type PositionValue struct {
	Holding      models.Holding `json:"holding"`
	MarketPrice  float64        `json:"market_price"`
	MarketValue  float64        `json:"market_value"`
	CostBasis    float64        `json:"cost_basis"`
	UnrealizedPL float64        `json:"unrealized_pl"`
}

// PortfolioValue represents an account snapshot at a simulated time.
type PortfolioValue struct {
	Account    models.Account  `json:"account"`
	Positions  []PositionValue `json:"positions"`
	Equity     float64         `json:"equity"`
	TotalValue float64         `json:"total_value"`
	AsOf       time.Time       `json:"as_of"`
}

// Portfolio marks all of an account's holdings to market at the given
// simulated time. A holding whose symbol cannot be priced at that time
// is valued at its cost basis.
func (e *Executor) Portfolio(ctx context.Context, accountID string, at time.Time) (*PortfolioValue, error) {
	account, err := e.store.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	holdings, err := e.store.GetHoldings(ctx, accountID)
	if err != nil {
		return nil, err
	}

	pv := &PortfolioValue{
		Account: *account,
		AsOf:    at,
	}

	for _, h := range holdings {
		price, _, err := e.market.AssetPrice(h.Symbol, at)
		if err != nil {
			price = h.AvgPrice
		}
		pos := PositionValue{
			Holding:     h,
			MarketPrice: price,
			MarketValue: h.Quantity * price,
			CostBasis:   h.Quantity * h.AvgPrice,
		}
		pos.UnrealizedPL = pos.MarketValue - pos.CostBasis
		pv.Positions = append(pv.Positions, pos)
		pv.Equity += pos.MarketValue
	}

	pv.TotalValue = account.Cash + pv.Equity
	return pv, nil
}
