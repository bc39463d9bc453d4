// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"stockfake/internal/models"
)

// DataStore defines the interface for data persistence.
type DataStore interface {
	// Accounts
	CreateAccount(ctx context.Context, name string, startingCash float64) (*models.Account, error)
	GetAccount(ctx context.Context, id string) (*models.Account, error)
	ListAccounts(ctx context.Context) ([]models.Account, error)
	UpdateAccountCash(ctx context.Context, id string, cash float64) error

	// Holdings
	GetHolding(ctx context.Context, accountID, symbol string) (*models.Holding, error)
	GetHoldings(ctx context.Context, accountID string) ([]models.Holding, error)

	// Transactions
	GetTransactions(ctx context.Context, filter TransactionFilter) ([]models.Transaction, error)

	// RecordTrade applies a trade atomically: account cash, the affected
	// holding, and the transaction log move in one database transaction.
	RecordTrade(ctx context.Context, newCash float64, holding *models.Holding, txn *models.Transaction) error

	// Lifecycle
	Close() error
}

// TransactionFilter represents filters for querying transactions.
type TransactionFilter struct {
	AccountID string
	Symbol    string
	Side      models.TradeSide
	StartDate time.Time
	EndDate   time.Time
	Limit     int
}
