// Package store provides data persistence implementations.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"stockfake/internal/errors"
	"stockfake/internal/models"
)

// SQLiteStore implements DataStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based data store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool for concurrent access
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Player accounts
	CREATE TABLE IF NOT EXISTS accounts (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		cash REAL NOT NULL,
		created_at DATETIME NOT NULL
	);

	-- Portfolio holdings, one row per account and symbol
	CREATE TABLE IF NOT EXISTS holdings (
		account_id TEXT NOT NULL,
		symbol TEXT NOT NULL,
		asset_type TEXT NOT NULL,
		quantity REAL NOT NULL,
		avg_price REAL NOT NULL,
		PRIMARY KEY (account_id, symbol),
		FOREIGN KEY (account_id) REFERENCES accounts(id)
	);

	-- Executed trades
	CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL,
		symbol TEXT NOT NULL,
		asset_type TEXT NOT NULL,
		side TEXT NOT NULL,
		quantity REAL NOT NULL,
		price REAL NOT NULL,
		fee REAL NOT NULL,
		total REAL NOT NULL,
		executed_at DATETIME NOT NULL,
		FOREIGN KEY (account_id) REFERENCES accounts(id)
	);

	CREATE INDEX IF NOT EXISTS idx_holdings_account ON holdings(account_id);
	CREATE INDEX IF NOT EXISTS idx_transactions_account ON transactions(account_id);
	CREATE INDEX IF NOT EXISTS idx_transactions_symbol ON transactions(symbol);
	CREATE INDEX IF NOT EXISTS idx_transactions_executed_at ON transactions(executed_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ============================================================================
// Account Methods
// ============================================================================

// CreateAccount creates a new account with the given starting cash.
func (s *SQLiteStore) CreateAccount(ctx context.Context, name string, startingCash float64) (*models.Account, error) {
	account := &models.Account{
		ID:        uuid.New().String(),
		Name:      name,
		Cash:      startingCash,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (id, name, cash, created_at)
		VALUES (?, ?, ?, ?)
	`, account.ID, account.Name, account.Cash, account.CreatedAt)
	if err != nil {
		return nil, errors.NewDataError("account", account.ID, "failed to create", err)
	}

	return account, nil
}

// GetAccount retrieves an account by id.
func (s *SQLiteStore) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	var a models.Account
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, cash, created_at FROM accounts WHERE id = ?
	`, id).Scan(&a.ID, &a.Name, &a.Cash, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.ErrAccountNotFound
	}
	if err != nil {
		return nil, errors.NewDataError("account", id, "failed to query", err)
	}
	return &a, nil
}

// ListAccounts retrieves all accounts ordered by creation time.
func (s *SQLiteStore) ListAccounts(ctx context.Context) ([]models.Account, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, cash, created_at FROM accounts ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, errors.NewDataError("account", "", "failed to query", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var a models.Account
		if err := rows.Scan(&a.ID, &a.Name, &a.Cash, &a.CreatedAt); err != nil {
			return nil, errors.NewDataError("account", "", "failed to scan", err)
		}
		accounts = append(accounts, a)
	}

	return accounts, rows.Err()
}

// UpdateAccountCash sets an account's cash balance.
func (s *SQLiteStore) UpdateAccountCash(ctx context.Context, id string, cash float64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE accounts SET cash = ? WHERE id = ?`, cash, id)
	if err != nil {
		return errors.NewDataError("account", id, "failed to update cash", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.ErrAccountNotFound
	}
	return nil
}

// ============================================================================
// Holding Methods
// ============================================================================

// GetHolding retrieves a single holding, or ErrDataNotFound when the
// account has no position in the symbol.
func (s *SQLiteStore) GetHolding(ctx context.Context, accountID, symbol string) (*models.Holding, error) {
	var h models.Holding
	err := s.db.QueryRowContext(ctx, `
		SELECT account_id, symbol, asset_type, quantity, avg_price
		FROM holdings WHERE account_id = ? AND symbol = ?
	`, accountID, symbol).Scan(&h.AccountID, &h.Symbol, &h.AssetType, &h.Quantity, &h.AvgPrice)
	if err == sql.ErrNoRows {
		return nil, errors.NewDataError("holding", symbol, "no position", errors.ErrDataNotFound)
	}
	if err != nil {
		return nil, errors.NewDataError("holding", symbol, "failed to query", err)
	}
	return &h, nil
}

// GetHoldings retrieves all holdings for an account.
func (s *SQLiteStore) GetHoldings(ctx context.Context, accountID string) ([]models.Holding, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT account_id, symbol, asset_type, quantity, avg_price
		FROM holdings WHERE account_id = ? ORDER BY symbol ASC
	`, accountID)
	if err != nil {
		return nil, errors.NewDataError("holding", accountID, "failed to query", err)
	}
	defer rows.Close()

	var holdings []models.Holding
	for rows.Next() {
		var h models.Holding
		if err := rows.Scan(&h.AccountID, &h.Symbol, &h.AssetType, &h.Quantity, &h.AvgPrice); err != nil {
			return nil, errors.NewDataError("holding", accountID, "failed to scan", err)
		}
		holdings = append(holdings, h)
	}

	return holdings, rows.Err()
}

// ============================================================================
// Transaction Methods
// ============================================================================

// GetTransactions retrieves transactions matching the filter, newest first.
func (s *SQLiteStore) GetTransactions(ctx context.Context, filter TransactionFilter) ([]models.Transaction, error) {
	query := `SELECT id, account_id, symbol, asset_type, side, quantity, price, fee, total, executed_at
		FROM transactions WHERE 1=1`
	args := []interface{}{}

	if filter.AccountID != "" {
		query += " AND account_id = ?"
		args = append(args, filter.AccountID)
	}
	if filter.Symbol != "" {
		query += " AND symbol = ?"
		args = append(args, filter.Symbol)
	}
	if filter.Side != "" {
		query += " AND side = ?"
		args = append(args, string(filter.Side))
	}
	if !filter.StartDate.IsZero() {
		query += " AND executed_at >= ?"
		args = append(args, filter.StartDate)
	}
	if !filter.EndDate.IsZero() {
		query += " AND executed_at <= ?"
		args = append(args, filter.EndDate)
	}

	query += " ORDER BY executed_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewDataError("transaction", "", "failed to query", err)
	}
	defer rows.Close()

	var txns []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.AccountID, &t.Symbol, &t.AssetType, &t.Side, &t.Quantity, &t.Price, &t.Fee, &t.Total, &t.ExecutedAt); err != nil {
			return nil, errors.NewDataError("transaction", "", "failed to scan", err)
		}
		txns = append(txns, t)
	}

	return txns, rows.Err()
}

// RecordTrade applies a trade in one database transaction. A holding with
// zero quantity is removed rather than kept as an empty row.
func (s *SQLiteStore) RecordTrade(ctx context.Context, newCash float64, holding *models.Holding, txn *models.Transaction) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewDataError("trade", txn.Symbol, "failed to begin transaction", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `UPDATE accounts SET cash = ? WHERE id = ?`, newCash, txn.AccountID)
	if err != nil {
		return errors.NewDataError("trade", txn.Symbol, "failed to update cash", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.ErrAccountNotFound
	}

	if holding.Quantity <= 0 {
		_, err = tx.ExecContext(ctx, `
			DELETE FROM holdings WHERE account_id = ? AND symbol = ?
		`, holding.AccountID, holding.Symbol)
	} else {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO holdings (account_id, symbol, asset_type, quantity, avg_price)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(account_id, symbol) DO UPDATE SET
				quantity = excluded.quantity,
				avg_price = excluded.avg_price
		`, holding.AccountID, holding.Symbol, string(holding.AssetType), holding.Quantity, holding.AvgPrice)
	}
	if err != nil {
		return errors.NewDataError("trade", txn.Symbol, "failed to update holding", err)
	}

	if txn.ID == "" {
		txn.ID = uuid.New().String()
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO transactions (id, account_id, symbol, asset_type, side, quantity, price, fee, total, executed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, txn.ID, txn.AccountID, txn.Symbol, string(txn.AssetType), string(txn.Side), txn.Quantity, txn.Price, txn.Fee, txn.Total, txn.ExecutedAt)
	if err != nil {
		return errors.NewDataError("trade", txn.Symbol, "failed to log transaction", err)
	}

	if err := tx.Commit(); err != nil {
		return errors.NewDataError("trade", txn.Symbol, "failed to commit", err)
	}

	return nil
}
