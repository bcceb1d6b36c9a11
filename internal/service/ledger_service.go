package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/anyulbade/payment-wallet-service/internal/model"
)

// TransactionInput carries the caller-supplied fields of a ledger record.
// Status defaults to completed.
type TransactionInput struct {
	UserID          string
	ServiceID       string
	Amount          float64
	Currency        string
	Type            model.TransactionType
	Status          model.TransactionStatus
	PaymentMethodID string
	Description     string
	PlatformFee     *float64
	Sender          string
	Recipient       string
	CorrelationID   string
}

// LedgerService is the append-only transaction log. Records change only
// through UpdateStatus, which enforces the status state machine.
type LedgerService struct {
	repo  TransactionRepository
	clock Clock
	locks *UserLocks
	refs  *referenceGenerator
}

func NewLedgerService(repo TransactionRepository, clock Clock, locks *UserLocks) *LedgerService {
	return &LedgerService{
		repo:  repo,
		clock: clock,
		locks: locks,
		refs:  newReferenceGenerator(),
	}
}

// Build turns input into a complete record with id, reference and
// timestamps. Every ledger write in the service goes through it.
func (l *LedgerService) Build(in TransactionInput) *model.Transaction {
	return l.fill(&model.Transaction{
		UserID:          in.UserID,
		ServiceID:       in.ServiceID,
		Amount:          in.Amount,
		Currency:        in.Currency,
		Status:          in.Status,
		Type:            in.Type,
		PaymentMethodID: in.PaymentMethodID,
		Description:     in.Description,
		PlatformFee:     in.PlatformFee,
		Sender:          in.Sender,
		Recipient:       in.Recipient,
		CorrelationID:   in.CorrelationID,
	})
}

// Append stores txn after filling any missing id, reference, status and
// timestamps.
func (l *LedgerService) Append(ctx context.Context, txn *model.Transaction) (*model.Transaction, error) {
	unlock, err := l.locks.Lock(ctx, txn.UserID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := l.appendLocked(ctx, txn); err != nil {
		return nil, err
	}
	return txn, nil
}

func (l *LedgerService) appendLocked(ctx context.Context, txns ...*model.Transaction) error {
	for _, txn := range txns {
		if txn.Amount <= 0 {
			return fmt.Errorf("append %s: %w", txn.Type, model.ErrInvalidAmount)
		}
		l.fill(txn)
	}
	if err := l.repo.Insert(ctx, txns...); err != nil {
		return fmt.Errorf("insert transactions: %w", err)
	}
	return nil
}

func (l *LedgerService) UpdateStatus(ctx context.Context, userID, id string, status model.TransactionStatus) (*model.Transaction, error) {
	unlock, err := l.locks.Lock(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	txn, err := l.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := l.transitionLocked(ctx, txn, status); err != nil {
		return nil, err
	}
	return txn, nil
}

func (l *LedgerService) transitionLocked(ctx context.Context, txn *model.Transaction, status model.TransactionStatus) error {
	if !txn.Status.CanTransitionTo(status) {
		return fmt.Errorf("%w: %s -> %s", model.ErrInvalidTransition, txn.Status, status)
	}
	txn.Status = status
	txn.UpdatedAt = l.clock.Now()
	if err := l.repo.UpdateStatus(ctx, txn); err != nil {
		return fmt.Errorf("update transaction status: %w", err)
	}
	return nil
}

func (l *LedgerService) Get(ctx context.Context, userID, id string) (*model.Transaction, error) {
	txn, err := l.repo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return txn, nil
}

// ListByUser returns the user's transactions, newest first.
func (l *LedgerService) ListByUser(ctx context.Context, userID string) ([]*model.Transaction, error) {
	txns, err := l.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	// Stored order is append order; reversing first keeps later appends ahead
	// of earlier ones that share a timestamp.
	slices.Reverse(txns)
	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].CreatedAt.After(txns[j].CreatedAt)
	})
	return txns, nil
}

func (l *LedgerService) fill(txn *model.Transaction) *model.Transaction {
	if txn.ID == "" {
		txn.ID = uuid.NewString()
	}
	if txn.Reference == "" {
		txn.Reference = l.refs.next()
	}
	if txn.Status == "" {
		txn.Status = model.StatusCompleted
	}
	if txn.CreatedAt.IsZero() {
		now := l.clock.Now()
		txn.CreatedAt = now
		txn.UpdatedAt = now
	}
	return txn
}

// referenceGenerator issues sortable, human readable TXN-<ULID> codes.
type referenceGenerator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func newReferenceGenerator() *referenceGenerator {
	return &referenceGenerator{entropy: ulid.Monotonic(rand.Reader, 0)}
}

func (g *referenceGenerator) next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	return "TXN-" + ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy).String()
}
