// Package trading executes simulated trades against the portfolio store.
package trading

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"stockfake/internal/errors"
	"stockfake/internal/logging"
	"stockfake/internal/market"
	"stockfake/internal/models"
	"stockfake/internal/store"
)

// Executor validates and applies trades. Prices come from the market
// service at the simulated time, never from the caller.
type Executor struct {
	market *market.Service
	store  store.DataStore
	logger zerolog.Logger
}

// NewExecutor creates a trade executor.
func NewExecutor(svc *market.Service, dataStore store.DataStore, logger zerolog.Logger) *Executor {
	return &Executor{
		market: svc,
		store:  dataStore,
		logger: logger,
	}
}

// TradeRequest describes a buy or sell order.
type TradeRequest struct {
	AccountID string
	Symbol    string
	Side      models.TradeSide
	Quantity  float64
}

// Execute runs a trade at the given simulated time and returns the logged
// transaction. Equity trades outside market hours are rejected; crypto
// trades clear around the clock and carry the asset's trading fee.
func (e *Executor) Execute(ctx context.Context, req TradeRequest, at time.Time) (*models.Transaction, error) {
	if req.Quantity <= 0 {
		return nil, errors.NewTradeError(req.AccountID, req.Symbol, string(req.Side), "quantity must be positive", errors.ErrInvalidTrade)
	}
	if req.Side != models.TradeSideBuy && req.Side != models.TradeSideSell {
		return nil, errors.NewTradeError(req.AccountID, req.Symbol, string(req.Side), "unknown trade side", errors.ErrInvalidTrade)
	}

	price, assetType, err := e.market.AssetPrice(req.Symbol, at)
	if err != nil {
		return nil, err
	}

	if !e.market.TradingOpen(assetType, at) {
		return nil, errors.NewTradeError(req.AccountID, req.Symbol, string(req.Side), "market is closed", errors.ErrMarketClosed)
	}

	account, err := e.store.GetAccount(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}

	fee := 0.0
	if assetType == models.AssetCrypto {
		fee = e.market.Crypto().TradingFee(req.Symbol, req.Quantity*price)
	}

	var newCash float64
	var holding *models.Holding

	switch req.Side {
	case models.TradeSideBuy:
		total := req.Quantity*price + fee
		if total > account.Cash {
			return nil, errors.NewTradeError(req.AccountID, req.Symbol, string(req.Side), "not enough cash", errors.ErrInsufficientFunds)
		}
		newCash = account.Cash - total
		holding, err = e.buyHolding(ctx, req, assetType, price)
		if err != nil {
			return nil, err
		}
	case models.TradeSideSell:
		newCash = account.Cash + req.Quantity*price - fee
		holding, err = e.sellHolding(ctx, req)
		if err != nil {
			return nil, err
		}
	}

	txn := &models.Transaction{
		AccountID:  req.AccountID,
		Symbol:     req.Symbol,
		AssetType:  assetType,
		Side:       req.Side,
		Quantity:   req.Quantity,
		Price:      price,
		Fee:        fee,
		Total:      req.Quantity*price + feeSign(req.Side)*fee,
		ExecutedAt: at,
	}

	if err := e.store.RecordTrade(ctx, newCash, holding, txn); err != nil {
		return nil, err
	}

	logging.LogTrade(e.logger, req.AccountID, req.Symbol, string(req.Side), req.Quantity, price, fee)
	return txn, nil
}

// buyHolding computes the post-buy position with a volume weighted
// average price.
func (e *Executor) buyHolding(ctx context.Context, req TradeRequest, assetType models.AssetType, price float64) (*models.Holding, error) {
	existing, err := e.store.GetHolding(ctx, req.AccountID, req.Symbol)
	if err != nil {
		if errors.Is(err, errors.ErrDataNotFound) {
			return &models.Holding{
				AccountID: req.AccountID,
				Symbol:    req.Symbol,
				AssetType: assetType,
				Quantity:  req.Quantity,
				AvgPrice:  price,
			}, nil
		}
		return nil, err
	}

	newQty := existing.Quantity + req.Quantity
	existing.AvgPrice = (existing.AvgPrice*existing.Quantity + price*req.Quantity) / newQty
	existing.Quantity = newQty
	return existing, nil
}

// sellHolding computes the post-sell position. Short positions are not
// supported so the sale quantity is capped at what the account holds.
func (e *Executor) sellHolding(ctx context.Context, req TradeRequest) (*models.Holding, error) {
	existing, err := e.store.GetHolding(ctx, req.AccountID, req.Symbol)
	if err != nil {
		if errors.Is(err, errors.ErrDataNotFound) {
			return nil, errors.NewTradeError(req.AccountID, req.Symbol, string(req.Side), "no position to sell", errors.ErrInsufficientUnits)
		}
		return nil, err
	}
	if req.Quantity > existing.Quantity {
		return nil, errors.NewTradeError(req.AccountID, req.Symbol, string(req.Side), "sell quantity exceeds position", errors.ErrInsufficientUnits)
	}

	existing.Quantity -= req.Quantity
	return existing, nil
}

// feeSign makes buy totals include the fee as cost and sell totals
// report gross proceeds less the fee.
func feeSign(side models.TradeSide) float64 {
	if side == models.TradeSideBuy {
		return 1
	}
	return -1
}
