package kvstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anyulbade/payment-wallet-service/internal/model"
	"github.com/anyulbade/payment-wallet-service/internal/money"
)

// WalletStore keeps the wallet record next to the user's transaction list.
// Callers must serialize writes per user.
type WalletStore struct {
	kv KV
}

func NewWalletStore(kv KV) *WalletStore {
	return &WalletStore{kv: kv}
}

func (s *WalletStore) Get(ctx context.Context, userID string) (*model.Wallet, error) {
	var w model.Wallet
	found, err := getJSON(ctx, s.kv, userID, walletKey, &w)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("wallet for %s: %w", userID, model.ErrNotFound)
	}
	return &w, nil
}

func (s *WalletStore) Create(ctx context.Context, w *model.Wallet) error {
	if w.Transactions == nil {
		w.Transactions = []string{}
	}
	return setJSON(ctx, s.kv, w.UserID, walletKey, w)
}

func (s *WalletStore) Update(ctx context.Context, w *model.Wallet) error {
	return setJSON(ctx, s.kv, w.UserID, walletKey, w)
}

// ApplyEntry appends txn to the ledger and moves the balance by delta (in wallet
// currency) in one atomic write. A delta that would make the balance negative
// is rejected with model.ErrInsufficientFunds and nothing is written. Related
// records join the ledger in the same write.
func (s *WalletStore) ApplyEntry(ctx context.Context, txn *model.Transaction, delta float64, related ...*model.Transaction) (*model.Wallet, error) {
	w, err := s.Get(ctx, txn.UserID)
	if err != nil {
		return nil, err
	}

	balance := money.Add(w.Balance, delta)
	if balance < 0 {
		return nil, model.ErrInsufficientFunds
	}

	var txns []*model.Transaction
	if _, err := getJSON(ctx, s.kv, txn.UserID, transactionsKey, &txns); err != nil {
		return nil, err
	}
	txns = append(txns, txn)
	txns = append(txns, related...)

	w.Balance = balance
	w.UpdatedAt = txn.UpdatedAt
	w.Transactions = append(w.Transactions, txn.ID)

	walletData, err := json.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("encode wallet: %w", err)
	}
	txnData, err := json.Marshal(txns)
	if err != nil {
		return nil, fmt.Errorf("encode transactions: %w", err)
	}

	if err := s.kv.SetMulti(ctx, txn.UserID, map[string][]byte{
		walletKey:       walletData,
		transactionsKey: txnData,
	}); err != nil {
		return nil, fmt.Errorf("apply ledger entry: %w", err)
	}
	return w, nil
}
