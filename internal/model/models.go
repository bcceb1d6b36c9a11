package model

import (
	"time"
)

const BaseCurrency = "USD"

type CurrencyInfo struct {
	Code         string  `json:"code"`
	Symbol       string  `json:"symbol"`
	Name         string  `json:"name"`
	ExchangeRate float64 `json:"exchangeRate"`
}

type User struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	CountryCode string `json:"countryCode"`
	Currency    string `json:"currency"`
}

type RailType string

const (
	RailVisa            RailType = "visa"
	RailMastercard      RailType = "mastercard"
	RailPayPal          RailType = "paypal"
	RailBankTransfer    RailType = "bank_transfer"
	RailMTNMobileMoney  RailType = "mtn_mobile_money"
	RailVodafoneCash    RailType = "vodafone_cash"
	RailAirtelTigoMoney RailType = "airteltigo_money"
	RailMPesa           RailType = "mpesa"

	// RailWallet marks ledger entries funded from the internal wallet. It is never registrable.
	RailWallet RailType = "wallet"
)

// WalletMethodID is the payment method id recorded on wallet-funded payments.
const WalletMethodID = "wallet"

type PaymentMethod struct {
	ID         string     `json:"id"`
	UserID     string     `json:"userId"`
	Type       RailType   `json:"type"`
	Name       string     `json:"name"`
	Details    string     `json:"details"`
	IsDefault  bool       `json:"isDefault"`
	LastUsedAt *time.Time `json:"lastUsedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusFailed    TransactionStatus = "failed"
	StatusRefunded  TransactionStatus = "refunded"
)

var statusTransitions = map[TransactionStatus][]TransactionStatus{
	StatusPending:   {StatusCompleted, StatusFailed},
	StatusCompleted: {StatusRefunded},
}

// CanTransitionTo reports whether the ledger state machine allows s -> next.
// Failed and refunded are terminal.
func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s TransactionStatus) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed, StatusRefunded:
		return true
	}
	return false
}

type TransactionType string

const (
	TypePayment    TransactionType = "payment"
	TypeRefund     TransactionType = "refund"
	TypeDeposit    TransactionType = "deposit"
	TypeWithdrawal TransactionType = "withdrawal"
	TypeCommission TransactionType = "commission"
)

type Transaction struct {
	ID              string            `json:"id"`
	UserID          string            `json:"userId"`
	ServiceID       string            `json:"serviceId,omitempty"`
	Amount          float64           `json:"amount"`
	Currency        string            `json:"currency"`
	Status          TransactionStatus `json:"status"`
	Type            TransactionType   `json:"type"`
	PaymentMethodID string            `json:"paymentMethodId"`
	Description     string            `json:"description"`
	PlatformFee     *float64          `json:"platformFee,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
	Sender          string            `json:"sender,omitempty"`
	Recipient       string            `json:"recipient,omitempty"`
	Reference       string            `json:"reference"`
	CorrelationID   string            `json:"correlationId,omitempty"`
}

type Wallet struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	Balance      float64   `json:"balance"`
	Currency     string    `json:"currency"`
	UpdatedAt    time.Time `json:"updatedAt"`
	Transactions []string  `json:"transactions"`
}

type AuditEvent struct {
	ID        string            `json:"id"`
	UserID    string            `json:"userId"`
	Action    string            `json:"action"`
	Details   map[string]string `json:"details,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

// PaymentResponse is the result shape of every money-moving operation.
// Business failures set Success=false and Error to the failure kind.
type PaymentResponse struct {
	Success       bool              `json:"success"`
	TransactionID string            `json:"transactionId,omitempty"`
	Status        TransactionStatus `json:"status,omitempty"`
	Error         ErrorKind         `json:"error,omitempty"`
	Message       string            `json:"message,omitempty"`
}

type PaymentMethodResponse struct {
	PaymentResponse
	Method *PaymentMethod `json:"method,omitempty"`
}

type WalletResponse struct {
	PaymentResponse
	Wallet *Wallet `json:"wallet,omitempty"`
}

type TransactionResponse struct {
	PaymentResponse
	Transaction *Transaction `json:"transaction,omitempty"`
}

type ConversionResponse struct {
	PaymentResponse
	Amount float64 `json:"amount"`
	From   string  `json:"from,omitempty"`
	To     string  `json:"to,omitempty"`
	Result float64 `json:"result"`
}
