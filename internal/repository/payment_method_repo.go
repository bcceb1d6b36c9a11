package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anyulbade/payment-wallet-service/internal/model"
)

type PaymentMethodRepository struct {
	pool *pgxpool.Pool
}

func NewPaymentMethodRepository(pool *pgxpool.Pool) *PaymentMethodRepository {
	return &PaymentMethodRepository{pool: pool}
}

// ListByUser returns the user's methods in registration order.
func (r *PaymentMethodRepository) ListByUser(ctx context.Context, userID string) ([]*model.PaymentMethod, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, type, name, details, is_default, last_used_at, created_at
		FROM payment_methods WHERE user_id = $1 ORDER BY position, created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("query payment methods: %w", err)
	}
	defer rows.Close()

	var methods []*model.PaymentMethod
	for rows.Next() {
		pm := &model.PaymentMethod{}
		if err := rows.Scan(&pm.ID, &pm.UserID, &pm.Type, &pm.Name, &pm.Details, &pm.IsDefault, &pm.LastUsedAt, &pm.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment method: %w", err)
		}
		methods = append(methods, pm)
	}
	return methods, rows.Err()
}

// ReplaceAll swaps the user's stored list for methods in one transaction.
func (r *PaymentMethodRepository) ReplaceAll(ctx context.Context, userID string, methods []*model.PaymentMethod) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM payment_methods WHERE user_id = $1`, userID)
	for i, pm := range methods {
		batch.Queue(
			`INSERT INTO payment_methods (id, user_id, type, name, details, is_default, last_used_at, position, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			pm.ID, userID, pm.Type, pm.Name, pm.Details, pm.IsDefault, pm.LastUsedAt, i, pm.CreatedAt,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("replace payment methods: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("close batch: %w", err)
	}

	return tx.Commit(ctx)
}
