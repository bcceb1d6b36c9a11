package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/anyulbade/payment-wallet-service/internal/gateway"
	"github.com/anyulbade/payment-wallet-service/internal/metrics"
	"github.com/anyulbade/payment-wallet-service/internal/model"
	"github.com/anyulbade/payment-wallet-service/internal/money"
)

type PaymentRequest struct {
	Amount          float64
	Currency        string
	PaymentMethodID string
	Description     string
	ServiceID       string
	RecipientID     string
	FromWallet      bool
}

// PaymentProcessor records marketplace payments. Each completed payment is
// split into the gross payment record, carrying the platform fee, and a
// commission record for the fee; both share a correlation id.
type PaymentProcessor struct {
	ledger         *LedgerService
	methods        *PaymentMethodService
	wallets        *WalletService
	converter      *CurrencyConverter
	gateway        gateway.Gateway
	commissionRate float64
	timeout        time.Duration
	locks          *UserLocks
}

func NewPaymentProcessor(
	ledger *LedgerService,
	methods *PaymentMethodService,
	wallets *WalletService,
	converter *CurrencyConverter,
	gw gateway.Gateway,
	commissionRate float64,
	timeout time.Duration,
	locks *UserLocks,
) *PaymentProcessor {
	return &PaymentProcessor{
		ledger:         ledger,
		methods:        methods,
		wallets:        wallets,
		converter:      converter,
		gateway:        gw,
		commissionRate: commissionRate,
		timeout:        timeout,
		locks:          locks,
	}
}

// ProcessPayment charges a payment rail through the gateway. The payment is
// recorded as pending before submission and settles to completed or failed.
// On a declined or timed out submission the failed payment is returned
// together with the error.
func (p *PaymentProcessor) ProcessPayment(ctx context.Context, user *model.User, req PaymentRequest) (*model.Transaction, error) {
	if err := p.validate(req); err != nil {
		return nil, err
	}

	payment, method, err := p.recordPending(ctx, user, req)
	if err != nil {
		return nil, err
	}

	result := p.submit(ctx, method, payment)

	// Settle even if the caller went away, so the payment never stays pending.
	settleCtx := context.WithoutCancel(ctx)
	unlock, err := p.locks.Lock(settleCtx, user.ID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if result.Err != nil || !result.Approved {
		if err := p.ledger.transitionLocked(settleCtx, payment, model.StatusFailed); err != nil {
			return nil, err
		}
		failure := fmt.Errorf("%w: %s", model.ErrPaymentDeclined, result.Reason)
		if result.Err != nil {
			failure = fmt.Errorf("%w: %v", model.ErrGatewayTimeout, result.Err)
		}
		log.Warn().
			Err(failure).
			Str("user_id", user.ID).
			Str("transaction_id", payment.ID).
			Str("rail", string(method.Type)).
			Msg("payment failed")
		return payment, failure
	}

	if err := p.ledger.transitionLocked(settleCtx, payment, model.StatusCompleted); err != nil {
		return nil, err
	}
	if err := p.recordCommissionLocked(settleCtx, payment); err != nil {
		return nil, err
	}
	if err := p.methods.touchLocked(settleCtx, user.ID, method.ID); err != nil {
		log.Warn().Err(err).Str("payment_method_id", method.ID).Msg("failed to touch payment method")
	}

	log.Info().
		Str("user_id", user.ID).
		Str("transaction_id", payment.ID).
		Str("gateway_ref", result.GatewayRef).
		Float64("amount", payment.Amount).
		Str("currency", payment.Currency).
		Msg("payment completed")
	return payment, nil
}

func (p *PaymentProcessor) recordPending(ctx context.Context, user *model.User, req PaymentRequest) (*model.Transaction, *model.PaymentMethod, error) {
	unlock, err := p.locks.Lock(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	defer unlock()

	method, err := p.methods.Resolve(ctx, user.ID, req.PaymentMethodID)
	if err != nil {
		return nil, nil, err
	}

	payment := p.newPayment(user, req, method.ID, uuid.NewString(), model.StatusPending)
	if err := p.ledger.appendLocked(ctx, payment); err != nil {
		return nil, nil, err
	}
	return payment, method, nil
}

func (p *PaymentProcessor) submit(ctx context.Context, method *model.PaymentMethod, payment *model.Transaction) gateway.Result {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	results := p.gateway.Submit(ctx, gateway.Request{
		Reference:       payment.Reference,
		UserID:          payment.UserID,
		PaymentMethodID: method.ID,
		Rail:            method.Type,
		Amount:          payment.Amount,
		Currency:        payment.Currency,
		Description:     payment.Description,
	})

	var result gateway.Result
	select {
	case result = <-results:
	case <-ctx.Done():
		result = gateway.Result{Err: ctx.Err()}
	}

	outcome := "approved"
	switch {
	case result.Err != nil:
		outcome = "error"
	case !result.Approved:
		outcome = "declined"
	}
	metrics.GatewayLatency.WithLabelValues(string(method.Type), outcome).Observe(time.Since(start).Seconds())
	return result
}

// PayFromWallet funds a payment from the user's wallet: a withdrawal, the
// payment and its commission are recorded under one correlation id without a
// gateway round trip.
func (p *PaymentProcessor) PayFromWallet(ctx context.Context, user *model.User, req PaymentRequest) (*model.Transaction, error) {
	if err := p.validate(req); err != nil {
		return nil, err
	}

	unlock, err := p.locks.Lock(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	correlationID := uuid.NewString()
	payment := p.newPayment(user, req, model.WalletMethodID, correlationID, model.StatusCompleted)
	related := []*model.Transaction{payment}
	commission := p.buildCommission(payment)
	if commission != nil {
		related = append(related, commission)
	}

	if _, err := p.wallets.applyLocked(ctx, user, walletEntry{
		Type:            model.TypeWithdrawal,
		Amount:          req.Amount,
		Currency:        req.Currency,
		PaymentMethodID: model.WalletMethodID,
		Description:     "Wallet payment: " + req.Description,
		CorrelationID:   correlationID,
	}, related...); err != nil {
		return nil, err
	}
	if commission != nil {
		metrics.MoneyMoved.WithLabelValues(string(model.TypeCommission), commission.Currency).Add(commission.Amount)
	}

	log.Info().
		Str("user_id", user.ID).
		Str("transaction_id", payment.ID).
		Float64("amount", payment.Amount).
		Str("currency", payment.Currency).
		Msg("wallet payment completed")
	return payment, nil
}

// Refund reverses a completed payment: the payment and its commission move
// to refunded, and a wallet-funded payment is credited back to the wallet.
func (p *PaymentProcessor) Refund(ctx context.Context, user *model.User, paymentID string) (*model.Transaction, error) {
	unlock, err := p.locks.Lock(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	payment, err := p.ledger.Get(ctx, user.ID, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.Type != model.TypePayment {
		return nil, fmt.Errorf("%w: %s transactions cannot be refunded", model.ErrInvalidTransition, payment.Type)
	}
	if !payment.Status.CanTransitionTo(model.StatusRefunded) {
		return nil, fmt.Errorf("%w: %s -> %s", model.ErrInvalidTransition, payment.Status, model.StatusRefunded)
	}

	if payment.PaymentMethodID == model.WalletMethodID {
		if _, err := p.wallets.applyLocked(ctx, user, walletEntry{
			Type:            model.TypeRefund,
			Amount:          payment.Amount,
			Currency:        payment.Currency,
			PaymentMethodID: model.WalletMethodID,
			Description:     "Refund: " + payment.Description,
			CorrelationID:   payment.CorrelationID,
			Credit:          true,
		}); err != nil {
			return nil, err
		}
	}

	if err := p.ledger.transitionLocked(ctx, payment, model.StatusRefunded); err != nil {
		return nil, err
	}
	if err := p.refundCommissionLocked(ctx, payment); err != nil {
		return nil, err
	}

	log.Info().Str("user_id", user.ID).Str("transaction_id", payment.ID).Msg("payment refunded")
	return payment, nil
}

func (p *PaymentProcessor) validate(req PaymentRequest) error {
	if !money.InRange(req.Amount) {
		return model.ErrInvalidAmount
	}
	return p.converter.Validate(req.Currency)
}

func (p *PaymentProcessor) newPayment(user *model.User, req PaymentRequest, methodID, correlationID string, status model.TransactionStatus) *model.Transaction {
	fee := money.Fee(req.Amount, p.commissionRate)
	return p.ledger.Build(TransactionInput{
		UserID:          user.ID,
		ServiceID:       req.ServiceID,
		Amount:          req.Amount,
		Currency:        req.Currency,
		Type:            model.TypePayment,
		Status:          status,
		PaymentMethodID: methodID,
		Description:     req.Description,
		PlatformFee:     &fee,
		Sender:          user.ID,
		Recipient:       req.RecipientID,
		CorrelationID:   correlationID,
	})
}

// recordCommissionLocked appends the platform's share of a completed payment.
func (p *PaymentProcessor) recordCommissionLocked(ctx context.Context, payment *model.Transaction) error {
	commission := p.buildCommission(payment)
	if commission == nil {
		return nil
	}
	if err := p.ledger.appendLocked(ctx, commission); err != nil {
		return fmt.Errorf("record commission: %w", err)
	}
	metrics.MoneyMoved.WithLabelValues(string(model.TypeCommission), commission.Currency).Add(commission.Amount)
	return nil
}

// buildCommission returns the commission record for payment, or nil when the
// fee rounds to zero.
func (p *PaymentProcessor) buildCommission(payment *model.Transaction) *model.Transaction {
	if payment.PlatformFee == nil || *payment.PlatformFee <= 0 {
		return nil
	}
	return p.ledger.Build(TransactionInput{
		UserID:          payment.UserID,
		ServiceID:       payment.ServiceID,
		Amount:          *payment.PlatformFee,
		Currency:        payment.Currency,
		Type:            model.TypeCommission,
		PaymentMethodID: payment.PaymentMethodID,
		Description:     "Platform commission: " + payment.Description,
		Sender:          payment.Recipient,
		Recipient:       "platform",
		CorrelationID:   payment.CorrelationID,
	})
}

func (p *PaymentProcessor) refundCommissionLocked(ctx context.Context, payment *model.Transaction) error {
	txns, err := p.ledger.ListByUser(ctx, payment.UserID)
	if err != nil {
		return err
	}
	for _, txn := range txns {
		if txn.Type != model.TypeCommission || txn.CorrelationID != payment.CorrelationID {
			continue
		}
		if err := p.ledger.transitionLocked(ctx, txn, model.StatusRefunded); err != nil && !errors.Is(err, model.ErrInvalidTransition) {
			return err
		}
	}
	return nil
}
