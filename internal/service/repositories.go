package service

import (
	"context"
	"time"

	"github.com/anyulbade/payment-wallet-service/internal/model"
)

// Clock supplies timestamps so tests can pin them.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

type UserRepository interface {
	Get(ctx context.Context, id string) (*model.User, error)
}

// WalletRepository persists wallets. ApplyEntry is the only way a balance
// moves: it appends txn to the ledger and adds delta (wallet currency) to the
// balance atomically, failing with model.ErrInsufficientFunds if the balance
// would go negative. Related records (a wallet payment and its commission)
// are appended in the same write but are not wallet entries.
type WalletRepository interface {
	Get(ctx context.Context, userID string) (*model.Wallet, error)
	Create(ctx context.Context, w *model.Wallet) error
	Update(ctx context.Context, w *model.Wallet) error
	ApplyEntry(ctx context.Context, txn *model.Transaction, delta float64, related ...*model.Transaction) (*model.Wallet, error)
}

// TransactionRepository is append-only; Insert stores all txns or none.
type TransactionRepository interface {
	Insert(ctx context.Context, txns ...*model.Transaction) error
	UpdateStatus(ctx context.Context, txn *model.Transaction) error
	FindByID(ctx context.Context, userID, id string) (*model.Transaction, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Transaction, error)
}

type PaymentMethodRepository interface {
	ListByUser(ctx context.Context, userID string) ([]*model.PaymentMethod, error)
	ReplaceAll(ctx context.Context, userID string, methods []*model.PaymentMethod) error
}

type AuditRepository interface {
	Record(ctx context.Context, e *model.AuditEvent) error
	ListByUser(ctx context.Context, userID string) ([]*model.AuditEvent, error)
}
