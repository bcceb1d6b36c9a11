package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anyulbade/payment-wallet-service/internal/model"
	"github.com/anyulbade/payment-wallet-service/internal/money"
)

type WalletRepository struct {
	pool *pgxpool.Pool
}

func NewWalletRepository(pool *pgxpool.Pool) *WalletRepository {
	return &WalletRepository{pool: pool}
}

func (r *WalletRepository) Get(ctx context.Context, userID string) (*model.Wallet, error) {
	return getWallet(ctx, r.pool, userID, false)
}

func (r *WalletRepository) Create(ctx context.Context, w *model.Wallet) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO wallets (id, user_id, balance, currency, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		w.ID, w.UserID, w.Balance, w.Currency, w.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert wallet: %w", err)
	}
	return nil
}

func (r *WalletRepository) Update(ctx context.Context, w *model.Wallet) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE wallets SET balance = $2, currency = $3, updated_at = $4 WHERE user_id = $1`,
		w.UserID, w.Balance, w.Currency, w.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update wallet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("wallet for %s: %w", w.UserID, model.ErrNotFound)
	}
	return nil
}

// ApplyEntry locks the wallet row, appends txn and moves the balance by delta
// in one database transaction. The row lock serialises writers across
// service instances. Related records are inserted in the same transaction
// without a wallet id.
func (r *WalletRepository) ApplyEntry(ctx context.Context, txn *model.Transaction, delta float64, related ...*model.Transaction) (*model.Wallet, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	w, err := getWallet(ctx, tx, txn.UserID, true)
	if err != nil {
		return nil, err
	}

	balance := money.Add(w.Balance, delta)
	if balance < 0 {
		return nil, model.ErrInsufficientFunds
	}

	if _, err := tx.Exec(ctx, insertTransactionSQL, insertArgs(txn, &w.ID)...); err != nil {
		return nil, fmt.Errorf("insert transaction: %w", err)
	}
	for _, rel := range related {
		if _, err := tx.Exec(ctx, insertTransactionSQL, insertArgs(rel, nil)...); err != nil {
			return nil, fmt.Errorf("insert related transaction %s: %w", rel.ID, err)
		}
	}
	if _, err := tx.Exec(ctx,
		`UPDATE wallets SET balance = $2, updated_at = $3 WHERE id = $1`,
		w.ID, balance, txn.UpdatedAt); err != nil {
		return nil, fmt.Errorf("update balance: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit ledger entry: %w", err)
	}

	w.Balance = balance
	w.UpdatedAt = txn.UpdatedAt
	w.Transactions = append(w.Transactions, txn.ID)
	return w, nil
}

func getWallet(ctx context.Context, q querier, userID string, lock bool) (*model.Wallet, error) {
	query := `SELECT id, user_id, balance, currency, updated_at FROM wallets WHERE user_id = $1`
	if lock {
		query += ` FOR UPDATE`
	}

	w := &model.Wallet{}
	err := q.QueryRow(ctx, query, userID).Scan(&w.ID, &w.UserID, &w.Balance, &w.Currency, &w.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "wallet for "+userID)
	}

	rows, err := q.Query(ctx, `SELECT id FROM transactions WHERE wallet_id = $1 ORDER BY seq`, w.ID)
	if err != nil {
		return nil, fmt.Errorf("query wallet transactions: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan wallet transactions: %w", err)
	}
	w.Transactions = ids
	if w.Transactions == nil {
		w.Transactions = []string{}
	}
	return w, nil
}
