package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/anyulbade/payment-wallet-service/internal/metrics"
	"github.com/anyulbade/payment-wallet-service/internal/model"
)

// PaymentService is the boundary the rest of the application talks to.
// Expected business failures come back as unsuccessful responses; a Go error
// means the caller is not authenticated or storage failed.
type PaymentService struct {
	users      UserRepository
	methods    *PaymentMethodService
	ledger     *LedgerService
	wallets    *WalletService
	processor  *PaymentProcessor
	statements *StatementService
	converter  *CurrencyConverter
}

func NewPaymentService(
	users UserRepository,
	methods *PaymentMethodService,
	ledger *LedgerService,
	wallets *WalletService,
	processor *PaymentProcessor,
	statements *StatementService,
	converter *CurrencyConverter,
) *PaymentService {
	return &PaymentService{
		users:      users,
		methods:    methods,
		ledger:     ledger,
		wallets:    wallets,
		processor:  processor,
		statements: statements,
		converter:  converter,
	}
}

func (s *PaymentService) AddPaymentMethod(ctx context.Context, userID string, in NewPaymentMethod) (model.PaymentMethodResponse, error) {
	user, err := s.currentUser(ctx, userID)
	if err != nil {
		return model.PaymentMethodResponse{}, err
	}

	pm, err := s.methods.Add(ctx, user, in)
	resp, err := respond("add_payment_method", err)
	if err != nil {
		return model.PaymentMethodResponse{}, err
	}
	return model.PaymentMethodResponse{PaymentResponse: resp, Method: pm}, nil
}

func (s *PaymentService) RemovePaymentMethod(ctx context.Context, userID, id string) (model.PaymentResponse, error) {
	user, err := s.currentUser(ctx, userID)
	if err != nil {
		return model.PaymentResponse{}, err
	}
	return respond("remove_payment_method", s.methods.Remove(ctx, user.ID, id))
}

func (s *PaymentService) SetDefaultPaymentMethod(ctx context.Context, userID, id string) (model.PaymentResponse, error) {
	user, err := s.currentUser(ctx, userID)
	if err != nil {
		return model.PaymentResponse{}, err
	}
	return respond("set_default_payment_method", s.methods.SetDefault(ctx, user.ID, id))
}

// InitiatePayment charges req to a registered method through the gateway, or
// to the wallet when req.FromWallet is set. A declined payment reports its
// failed transaction alongside the failure kind.
func (s *PaymentService) InitiatePayment(ctx context.Context, userID string, req PaymentRequest) (model.PaymentResponse, error) {
	user, err := s.currentUser(ctx, userID)
	if err != nil {
		return model.PaymentResponse{}, err
	}

	var txn *model.Transaction
	if req.FromWallet {
		txn, err = s.processor.PayFromWallet(ctx, user, req)
	} else {
		txn, err = s.processor.ProcessPayment(ctx, user, req)
	}
	return respondWith("initiate_payment", txn, err)
}

func (s *PaymentService) RefundPayment(ctx context.Context, userID, paymentID string) (model.PaymentResponse, error) {
	user, err := s.currentUser(ctx, userID)
	if err != nil {
		return model.PaymentResponse{}, err
	}
	txn, err := s.processor.Refund(ctx, user, paymentID)
	return respondWith("refund_payment", txn, err)
}

func (s *PaymentService) DepositToWallet(ctx context.Context, userID string, amount float64, currency, paymentMethodID string) (model.PaymentResponse, error) {
	user, err := s.currentUser(ctx, userID)
	if err != nil {
		return model.PaymentResponse{}, err
	}
	txn, err := s.wallets.Deposit(ctx, user, amount, currency, paymentMethodID)
	return respondWith("deposit", txn, err)
}

func (s *PaymentService) WithdrawFromWallet(ctx context.Context, userID string, amount float64, currency, paymentMethodID string) (model.PaymentResponse, error) {
	user, err := s.currentUser(ctx, userID)
	if err != nil {
		return model.PaymentResponse{}, err
	}
	txn, err := s.wallets.Withdraw(ctx, user, amount, currency, paymentMethodID)
	return respondWith("withdraw", txn, err)
}

// ConvertCurrency needs no user; rates are global.
func (s *PaymentService) ConvertCurrency(amount float64, from, to string) model.ConversionResponse {
	result, err := s.converter.Convert(amount, from, to)
	metrics.Observe("convert_currency", err)
	if err != nil {
		return model.ConversionResponse{PaymentResponse: model.Failure(err), Amount: amount, From: from, To: to}
	}
	return model.ConversionResponse{
		PaymentResponse: model.PaymentResponse{Success: true},
		Amount:          amount,
		From:            from,
		To:              to,
		Result:          result,
	}
}

func (s *PaymentService) GetTransactionByID(ctx context.Context, userID, id string) (model.TransactionResponse, error) {
	user, err := s.currentUser(ctx, userID)
	if err != nil {
		return model.TransactionResponse{}, err
	}
	txn, err := s.ledger.Get(ctx, user.ID, id)
	resp, err := respondWith("get_transaction", txn, err)
	if err != nil {
		return model.TransactionResponse{}, err
	}
	return model.TransactionResponse{PaymentResponse: resp, Transaction: txn}, nil
}

func (s *PaymentService) UpdateUserCurrency(ctx context.Context, userID, currency string) (model.WalletResponse, error) {
	user, err := s.currentUser(ctx, userID)
	if err != nil {
		return model.WalletResponse{}, err
	}
	w, err := s.wallets.ChangeCurrency(ctx, user, currency)
	resp, err := respond("update_currency", err)
	if err != nil {
		return model.WalletResponse{}, err
	}
	return model.WalletResponse{PaymentResponse: resp, Wallet: w}, nil
}

func (s *PaymentService) PaymentMethods(ctx context.Context, userID string) ([]*model.PaymentMethod, error) {
	user, err := s.currentUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.methods.List(ctx, user.ID)
}

// Transactions returns the user's ledger, newest first.
func (s *PaymentService) Transactions(ctx context.Context, userID string) ([]*model.Transaction, error) {
	user, err := s.currentUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.ledger.ListByUser(ctx, user.ID)
}

func (s *PaymentService) Wallet(ctx context.Context, userID string) (*model.Wallet, error) {
	user, err := s.currentUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.wallets.Get(ctx, user)
}

func (s *PaymentService) AuditTrail(ctx context.Context, userID string) ([]*model.AuditEvent, error) {
	user, err := s.currentUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.wallets.AuditTrail(ctx, user.ID)
}

func (s *PaymentService) Statement(ctx context.Context, userID, currency string, from, to *time.Time) (*StatementSummary, error) {
	user, err := s.currentUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if currency == "" {
		currency = user.Currency
	}
	return s.statements.Summarize(ctx, user.ID, currency, from, to)
}

func (s *PaymentService) Currencies() []model.CurrencyInfo {
	return s.converter.Currencies()
}

func (s *PaymentService) currentUser(ctx context.Context, userID string) (*model.User, error) {
	if userID == "" {
		return nil, model.ErrNotAuthenticated
	}
	user, err := s.users.Get(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return nil, fmt.Errorf("%w: unknown user %s", model.ErrNotAuthenticated, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func respond(operation string, err error) (model.PaymentResponse, error) {
	return respondWith(operation, nil, err)
}

// respondWith folds err into the response. Infrastructure errors are
// returned as errors; txn, when present, is reported even on failure.
func respondWith(operation string, txn *model.Transaction, err error) (model.PaymentResponse, error) {
	metrics.Observe(operation, err)

	var resp model.PaymentResponse
	switch {
	case err == nil:
		resp.Success = true
	case model.IsBusinessError(err):
		resp = model.Failure(err)
		log.Debug().Err(err).Str("operation", operation).Msg("operation rejected")
	default:
		return model.PaymentResponse{}, err
	}

	if txn != nil {
		resp.TransactionID = txn.ID
		resp.Status = txn.Status
	}
	return resp, nil
}
