package dto

import "github.com/anyulbade/payment-wallet-service/internal/model"

type TransactionListResponse struct {
	Data       []*model.Transaction `json:"data"`
	Pagination Pagination           `json:"pagination"`
}

type PaymentMethodListResponse struct {
	Data []*model.PaymentMethod `json:"data"`
}

type AuditListResponse struct {
	Data []*model.AuditEvent `json:"data"`
}

type CurrencyListResponse struct {
	Data []model.CurrencyInfo `json:"data"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ErrorListResponse struct {
	Error  string            `json:"error"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}
