package kvstore

import (
	"context"
	"fmt"

	"github.com/anyulbade/payment-wallet-service/internal/model"
)

// TransactionStore is the append-only per-user transaction list.
type TransactionStore struct {
	kv KV
}

func NewTransactionStore(kv KV) *TransactionStore {
	return &TransactionStore{kv: kv}
}

// Insert appends all txns; txns of one user are written in a single document update.
func (s *TransactionStore) Insert(ctx context.Context, txns ...*model.Transaction) error {
	byUser := make(map[string][]*model.Transaction)
	var order []string
	for _, txn := range txns {
		if _, seen := byUser[txn.UserID]; !seen {
			order = append(order, txn.UserID)
		}
		byUser[txn.UserID] = append(byUser[txn.UserID], txn)
	}

	for _, userID := range order {
		existing, err := s.ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		existing = append(existing, byUser[userID]...)
		if err := setJSON(ctx, s.kv, userID, transactionsKey, existing); err != nil {
			return err
		}
	}
	return nil
}

func (s *TransactionStore) UpdateStatus(ctx context.Context, txn *model.Transaction) error {
	txns, err := s.ListByUser(ctx, txn.UserID)
	if err != nil {
		return err
	}
	for _, t := range txns {
		if t.ID == txn.ID {
			t.Status = txn.Status
			t.UpdatedAt = txn.UpdatedAt
			return setJSON(ctx, s.kv, txn.UserID, transactionsKey, txns)
		}
	}
	return fmt.Errorf("transaction %s: %w", txn.ID, model.ErrNotFound)
}

func (s *TransactionStore) FindByID(ctx context.Context, userID, id string) (*model.Transaction, error) {
	txns, err := s.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, t := range txns {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, fmt.Errorf("transaction %s: %w", id, model.ErrNotFound)
}

// ListByUser returns the user's transactions in append order.
func (s *TransactionStore) ListByUser(ctx context.Context, userID string) ([]*model.Transaction, error) {
	var txns []*model.Transaction
	if _, err := getJSON(ctx, s.kv, userID, transactionsKey, &txns); err != nil {
		return nil, err
	}
	return txns, nil
}
