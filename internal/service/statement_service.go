package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/anyulbade/payment-wallet-service/internal/model"
)

type StatementService struct {
	ledger    *LedgerService
	converter *CurrencyConverter
}

func NewStatementService(ledger *LedgerService, converter *CurrencyConverter) *StatementService {
	return &StatementService{ledger: ledger, converter: converter}
}

type StatementSummary struct {
	UserID            string                            `json:"userId"`
	Currency          string                            `json:"currency"`
	From              *time.Time                        `json:"from,omitempty"`
	To                *time.Time                        `json:"to,omitempty"`
	TotalTransactions int                               `json:"totalTransactions"`
	TotalsByType      map[model.TransactionType]float64 `json:"totalsByType"`
	CountsByStatus    map[model.TransactionStatus]int   `json:"countsByStatus"`
	NetWalletFlow     float64                           `json:"netWalletFlow"`
	PlatformFees      float64                           `json:"platformFees"`
	// Unconverted holds completed amounts, by original currency, whose
	// currency is no longer in the rate table.
	Unconverted map[string]float64 `json:"unconverted,omitempty"`
}

// Summarize aggregates the user's ledger between from and to, both optional
// and inclusive. Amounts are converted into currency; only completed records
// count towards totals. Records in a currency that has since left the rate
// table are reported in Unconverted instead.
func (s *StatementService) Summarize(ctx context.Context, userID, currency string, from, to *time.Time) (*StatementSummary, error) {
	if currency == "" {
		currency = model.BaseCurrency
	}
	if err := s.converter.Validate(currency); err != nil {
		return nil, err
	}

	txns, err := s.ledger.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &StatementSummary{
		UserID:         userID,
		Currency:       currency,
		From:           from,
		To:             to,
		TotalsByType:   make(map[model.TransactionType]float64),
		CountsByStatus: make(map[model.TransactionStatus]int),
	}
	totals := make(map[model.TransactionType]decimal.Decimal)
	net := decimal.Zero
	unconverted := make(map[string]decimal.Decimal)

	for _, txn := range txns {
		if from != nil && txn.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && txn.CreatedAt.After(*to) {
			continue
		}

		summary.TotalTransactions++
		summary.CountsByStatus[txn.Status]++

		if txn.Status != model.StatusCompleted {
			continue
		}
		amount, err := s.converter.Convert(txn.Amount, txn.Currency, currency)
		if errors.Is(err, model.ErrUnknownCurrency) {
			log.Warn().
				Str("user_id", userID).
				Str("transaction_id", txn.ID).
				Str("currency", txn.Currency).
				Msg("statement skips record in retired currency")
			unconverted[txn.Currency] = unconverted[txn.Currency].Add(decimal.NewFromFloat(txn.Amount))
			continue
		}
		if err != nil {
			return nil, err
		}
		d := decimal.NewFromFloat(amount)
		totals[txn.Type] = totals[txn.Type].Add(d)

		switch txn.Type {
		case model.TypeDeposit, model.TypeRefund:
			net = net.Add(d)
		case model.TypeWithdrawal:
			net = net.Sub(d)
		}
	}

	for typ, total := range totals {
		summary.TotalsByType[typ] = total.Round(2).InexactFloat64()
	}
	summary.NetWalletFlow = net.Round(2).InexactFloat64()
	summary.PlatformFees = summary.TotalsByType[model.TypeCommission]
	if len(unconverted) > 0 {
		summary.Unconverted = make(map[string]float64, len(unconverted))
		for code, total := range unconverted {
			summary.Unconverted[code] = total.Round(2).InexactFloat64()
		}
	}
	return summary, nil
}
