package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anyulbade/payment-wallet-service/internal/model"
)

const transactionColumns = `id, user_id, COALESCE(service_id, ''), amount, currency, status, type,
	payment_method_id, description, platform_fee, created_at, updated_at,
	COALESCE(sender, ''), COALESCE(recipient, ''), reference, COALESCE(correlation_id, '')`

const insertTransactionSQL = `INSERT INTO transactions (id, user_id, wallet_id, service_id, amount, currency, status, type,
	payment_method_id, description, platform_fee, created_at, updated_at, sender, recipient, reference, correlation_id)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

type TransactionRepository struct {
	pool *pgxpool.Pool
}

func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Insert stores txns in one database transaction.
func (r *TransactionRepository) Insert(ctx context.Context, txns ...*model.Transaction) error {
	if len(txns) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin batch transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, txn := range txns {
		queueInsert(batch, txn, nil)
	}

	br := tx.SendBatch(ctx, batch)
	for i := range txns {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("insert transaction %d: %w", i, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("close batch: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *TransactionRepository) UpdateStatus(ctx context.Context, txn *model.Transaction) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE transactions SET status = $3, updated_at = $4 WHERE id = $1 AND user_id = $2`,
		txn.ID, txn.UserID, txn.Status, txn.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update transaction status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transaction %s: %w", txn.ID, model.ErrNotFound)
	}
	return nil
}

func (r *TransactionRepository) FindByID(ctx context.Context, userID, id string) (*model.Transaction, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
	txn, err := scanTransaction(row)
	if err != nil {
		return nil, notFound(err, "transaction "+id)
	}
	return txn, nil
}

// ListByUser returns the user's transactions in append order.
func (r *TransactionRepository) ListByUser(ctx context.Context, userID string) ([]*model.Transaction, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE user_id = $1 ORDER BY seq`, userID)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txns []*model.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txns = append(txns, txn)
	}
	return txns, rows.Err()
}

func queueInsert(batch *pgx.Batch, txn *model.Transaction, walletID *string) {
	batch.Queue(insertTransactionSQL, insertArgs(txn, walletID)...)
}

func insertArgs(txn *model.Transaction, walletID *string) []any {
	return []any{
		txn.ID, txn.UserID, walletID, nullable(txn.ServiceID), txn.Amount, txn.Currency,
		txn.Status, txn.Type, txn.PaymentMethodID, txn.Description, txn.PlatformFee,
		txn.CreatedAt, txn.UpdatedAt, nullable(txn.Sender), nullable(txn.Recipient),
		txn.Reference, nullable(txn.CorrelationID),
	}
}

func scanTransaction(row pgx.Row) (*model.Transaction, error) {
	txn := &model.Transaction{}
	err := row.Scan(
		&txn.ID, &txn.UserID, &txn.ServiceID, &txn.Amount, &txn.Currency, &txn.Status, &txn.Type,
		&txn.PaymentMethodID, &txn.Description, &txn.PlatformFee, &txn.CreatedAt, &txn.UpdatedAt,
		&txn.Sender, &txn.Recipient, &txn.Reference, &txn.CorrelationID,
	)
	if err != nil {
		return nil, err
	}
	return txn, nil
}
