package model

import "errors"

type ErrorKind string

const (
	KindInvalidAmount       ErrorKind = "InvalidAmount"
	KindUnknownCurrency     ErrorKind = "UnknownCurrency"
	KindUnsupportedRail     ErrorKind = "UnsupportedRail"
	KindNotFound            ErrorKind = "NotFound"
	KindCannotRemoveDefault ErrorKind = "CannotRemoveDefault"
	KindInsufficientFunds   ErrorKind = "InsufficientFunds"
	KindNoPaymentMethod     ErrorKind = "NoPaymentMethod"
	KindInvalidTransition   ErrorKind = "InvalidTransition"
	KindNotAuthenticated    ErrorKind = "NotAuthenticated"
	KindPaymentDeclined     ErrorKind = "PaymentDeclined"
	KindGatewayTimeout      ErrorKind = "GatewayTimeout"
	KindValidationFailed    ErrorKind = "ValidationFailed"
)

var (
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrUnknownCurrency     = errors.New("unknown currency")
	ErrUnsupportedRail     = errors.New("payment method type is not supported in this region")
	ErrNotFound            = errors.New("not found")
	ErrCannotRemoveDefault = errors.New("cannot remove the default payment method; set another default first")
	ErrInsufficientFunds   = errors.New("insufficient funds in wallet")
	ErrNoPaymentMethod     = errors.New("no payment method available; add one first")
	ErrInvalidTransition   = errors.New("invalid transaction status transition")
	ErrNotAuthenticated    = errors.New("no authenticated user")
	ErrPaymentDeclined     = errors.New("payment declined by gateway")
	ErrGatewayTimeout      = errors.New("payment gateway did not respond in time")
	ErrValidationFailed    = errors.New("validation failed")
)

var kinds = []struct {
	err  error
	kind ErrorKind
}{
	{ErrInvalidAmount, KindInvalidAmount},
	{ErrUnknownCurrency, KindUnknownCurrency},
	{ErrUnsupportedRail, KindUnsupportedRail},
	{ErrNotFound, KindNotFound},
	{ErrCannotRemoveDefault, KindCannotRemoveDefault},
	{ErrInsufficientFunds, KindInsufficientFunds},
	{ErrNoPaymentMethod, KindNoPaymentMethod},
	{ErrInvalidTransition, KindInvalidTransition},
	{ErrNotAuthenticated, KindNotAuthenticated},
	{ErrPaymentDeclined, KindPaymentDeclined},
	{ErrGatewayTimeout, KindGatewayTimeout},
	{ErrValidationFailed, KindValidationFailed},
}

// KindOf returns the failure kind err wraps, or "" for infrastructure errors.
func KindOf(err error) ErrorKind {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return ""
}

// IsBusinessError reports whether err is an expected failure that callers branch on,
// as opposed to a precondition or infrastructure error.
func IsBusinessError(err error) bool {
	kind := KindOf(err)
	return kind != "" && kind != KindNotAuthenticated
}

// Failure builds the unsuccessful response for a business error.
func Failure(err error) PaymentResponse {
	return PaymentResponse{
		Success: false,
		Error:   KindOf(err),
		Message: err.Error(),
	}
}
