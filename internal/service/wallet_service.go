package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/anyulbade/payment-wallet-service/internal/metrics"
	"github.com/anyulbade/payment-wallet-service/internal/model"
	"github.com/anyulbade/payment-wallet-service/internal/money"
)

const ActionCurrencyChanged = "wallet.currency_changed"

type WalletService struct {
	wallets   WalletRepository
	audit     AuditRepository
	converter *CurrencyConverter
	ledger    *LedgerService
	methods   *PaymentMethodService
	clock     Clock
	locks     *UserLocks
}

func NewWalletService(
	wallets WalletRepository,
	audit AuditRepository,
	converter *CurrencyConverter,
	ledger *LedgerService,
	methods *PaymentMethodService,
	clock Clock,
	locks *UserLocks,
) *WalletService {
	return &WalletService{
		wallets:   wallets,
		audit:     audit,
		converter: converter,
		ledger:    ledger,
		methods:   methods,
		clock:     clock,
		locks:     locks,
	}
}

// walletEntry is one signed movement of wallet money. Amount is in Currency,
// the caller's currency, and is what the ledger records.
type walletEntry struct {
	Type            model.TransactionType
	Amount          float64
	Currency        string
	PaymentMethodID string
	Description     string
	CorrelationID   string
	Credit          bool
}

// Get returns the user's wallet, creating an empty one in the user's
// currency on first access.
func (s *WalletService) Get(ctx context.Context, user *model.User) (*model.Wallet, error) {
	unlock, err := s.locks.Lock(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	return s.getLocked(ctx, user)
}

func (s *WalletService) getLocked(ctx context.Context, user *model.User) (*model.Wallet, error) {
	w, err := s.wallets.Get(ctx, user.ID)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return nil, fmt.Errorf("get wallet: %w", err)
	}

	currency := user.Currency
	if s.converter.Validate(currency) != nil {
		currency = model.BaseCurrency
	}
	w = &model.Wallet{
		ID:           uuid.NewString(),
		UserID:       user.ID,
		Currency:     currency,
		UpdatedAt:    s.clock.Now(),
		Transactions: []string{},
	}
	if err := s.wallets.Create(ctx, w); err != nil {
		return nil, fmt.Errorf("create wallet: %w", err)
	}
	log.Info().Str("user_id", user.ID).Str("currency", currency).Msg("wallet created")
	return w, nil
}

func (s *WalletService) Deposit(ctx context.Context, user *model.User, amount float64, currency, paymentMethodID string) (*model.Transaction, error) {
	return s.move(ctx, user, walletEntry{
		Type:            model.TypeDeposit,
		Amount:          amount,
		Currency:        currency,
		PaymentMethodID: paymentMethodID,
		Description:     "Wallet deposit",
		Credit:          true,
	})
}

func (s *WalletService) Withdraw(ctx context.Context, user *model.User, amount float64, currency, paymentMethodID string) (*model.Transaction, error) {
	return s.move(ctx, user, walletEntry{
		Type:            model.TypeWithdrawal,
		Amount:          amount,
		Currency:        currency,
		PaymentMethodID: paymentMethodID,
		Description:     "Wallet withdrawal",
	})
}

// move resolves the payment method and applies the entry inside the user's
// critical section, then touches the method.
func (s *WalletService) move(ctx context.Context, user *model.User, e walletEntry) (*model.Transaction, error) {
	if !money.InRange(e.Amount) {
		return nil, model.ErrInvalidAmount
	}
	if err := s.converter.Validate(e.Currency); err != nil {
		return nil, err
	}

	unlock, err := s.locks.Lock(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	pm, err := s.methods.Resolve(ctx, user.ID, e.PaymentMethodID)
	if err != nil {
		return nil, err
	}
	e.PaymentMethodID = pm.ID

	txn, err := s.applyLocked(ctx, user, e)
	if err != nil {
		return nil, err
	}

	if err := s.methods.touchLocked(ctx, user.ID, pm.ID); err != nil {
		log.Warn().Err(err).Str("payment_method_id", pm.ID).Msg("failed to touch payment method")
	}
	return txn, nil
}

// applyLocked converts the entry into wallet currency, checks funds for
// debits and applies balance change and ledger append as one unit. Related
// records are committed in the same write. The caller holds the user's lock.
func (s *WalletService) applyLocked(ctx context.Context, user *model.User, e walletEntry, related ...*model.Transaction) (*model.Transaction, error) {
	w, err := s.getLocked(ctx, user)
	if err != nil {
		return nil, err
	}

	converted, err := s.converter.Convert(e.Amount, e.Currency, w.Currency)
	if err != nil {
		return nil, err
	}
	converted = money.Normalize(converted)
	if converted <= 0 {
		return nil, fmt.Errorf("%w: %v %s is below wallet precision", model.ErrInvalidAmount, e.Amount, e.Currency)
	}

	delta := converted
	if !e.Credit {
		if !money.Covers(w.Balance, converted) {
			return nil, fmt.Errorf("%w: balance %.2f %s, requested %.2f %s",
				model.ErrInsufficientFunds, w.Balance, w.Currency, converted, w.Currency)
		}
		delta = -converted
	}

	in := TransactionInput{
		UserID:          user.ID,
		Amount:          e.Amount,
		Currency:        e.Currency,
		Type:            e.Type,
		PaymentMethodID: e.PaymentMethodID,
		Description:     e.Description,
		CorrelationID:   e.CorrelationID,
	}
	if e.Credit {
		in.Recipient = user.ID
	} else {
		in.Sender = user.ID
	}
	txn := s.ledger.Build(in)

	w, err = s.wallets.ApplyEntry(ctx, txn, delta, related...)
	if err != nil {
		if errors.Is(err, model.ErrInsufficientFunds) {
			return nil, err
		}
		return nil, fmt.Errorf("apply wallet entry: %w", err)
	}

	metrics.MoneyMoved.WithLabelValues(string(txn.Type), txn.Currency).Add(txn.Amount)
	log.Info().
		Str("user_id", user.ID).
		Str("transaction_id", txn.ID).
		Str("type", string(txn.Type)).
		Float64("amount", txn.Amount).
		Str("currency", txn.Currency).
		Float64("balance", w.Balance).
		Str("wallet_currency", w.Currency).
		Msg("wallet entry applied")
	return txn, nil
}

// ChangeCurrency re-denominates the balance. It is not a money movement and
// adds nothing to the ledger; the change is written to the audit log.
func (s *WalletService) ChangeCurrency(ctx context.Context, user *model.User, currency string) (*model.Wallet, error) {
	unlock, err := s.locks.Lock(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	w, err := s.getLocked(ctx, user)
	if err != nil {
		return nil, err
	}

	converted, err := s.converter.Convert(w.Balance, w.Currency, currency)
	if err != nil {
		return nil, err
	}
	if w.Currency == currency {
		return w, nil
	}

	oldCurrency, oldBalance := w.Currency, w.Balance
	w.Balance = money.Normalize(converted)
	w.Currency = currency
	w.UpdatedAt = s.clock.Now()
	if err := s.wallets.Update(ctx, w); err != nil {
		return nil, fmt.Errorf("update wallet: %w", err)
	}

	event := &model.AuditEvent{
		ID:     uuid.NewString(),
		UserID: user.ID,
		Action: ActionCurrencyChanged,
		Details: map[string]string{
			"from":        oldCurrency,
			"to":          currency,
			"old_balance": strconv.FormatFloat(oldBalance, 'f', -1, 64),
			"new_balance": strconv.FormatFloat(w.Balance, 'f', -1, 64),
		},
		CreatedAt: w.UpdatedAt,
	}
	if err := s.audit.Record(ctx, event); err != nil {
		return nil, fmt.Errorf("record audit event: %w", err)
	}

	log.Info().
		Str("user_id", user.ID).
		Str("from", oldCurrency).
		Str("to", currency).
		Float64("balance", w.Balance).
		Msg("wallet currency changed")
	return w, nil
}

func (s *WalletService) AuditTrail(ctx context.Context, userID string) ([]*model.AuditEvent, error) {
	events, err := s.audit.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	return events, nil
}
