package dto

// Amounts are not bound as required: a zero or negative amount is a business
// failure the payment service reports as InvalidAmount.

type AddPaymentMethodRequest struct {
	Type    string `json:"type" binding:"required"`
	Name    string `json:"name" binding:"required,max=100"`
	Details string `json:"details" binding:"max=255"`
}

type WalletTransferRequest struct {
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency" binding:"required,len=3"`
	PaymentMethodID string  `json:"paymentMethodId"`
}

type PaymentRequest struct {
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency" binding:"required,len=3"`
	PaymentMethodID string  `json:"paymentMethodId"`
	Description     string  `json:"description" binding:"max=255"`
	ServiceID       string  `json:"serviceId" binding:"max=64"`
	RecipientID     string  `json:"recipientId" binding:"max=64"`
	FromWallet      bool    `json:"fromWallet"`
}

type ChangeCurrencyRequest struct {
	Currency string `json:"currency" binding:"required,len=3"`
}

type ConvertQuery struct {
	Amount float64 `form:"amount" binding:"required"`
	From   string  `form:"from" binding:"required,len=3"`
	To     string  `form:"to" binding:"required,len=3"`
}
