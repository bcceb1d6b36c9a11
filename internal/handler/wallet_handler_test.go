package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anyulbade/payment-wallet-service/internal/dto"
	"github.com/anyulbade/payment-wallet-service/internal/middleware"
	"github.com/anyulbade/payment-wallet-service/internal/model"
)

func TestWalletAPI_Authentication(t *testing.T) {
	router := setupRouter(t, 0)

	t.Run("missing header", func(t *testing.T) {
		w := doRequest(t, router, http.MethodGet, "/api/v1/wallet", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, model.KindNotAuthenticated, decode[middleware.ErrorResponse](t, w).Kind)
	})

	t.Run("unknown user", func(t *testing.T) {
		w := doRequest(t, router, http.MethodGet, "/api/v1/wallet", "ghost", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("currencies are public", func(t *testing.T) {
		w := doRequest(t, router, http.MethodGet, "/api/v1/currencies", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, decode[dto.CurrencyListResponse](t, w).Data)
	})
}

func TestWalletAPI_DepositWithdraw(t *testing.T) {
	router := setupRouter(t, 0)
	pm := addMethod(t, router, userAma, "mtn_mobile_money")

	w := doRequest(t, router, http.MethodGet, "/api/v1/wallet", userAma, nil)
	require.Equal(t, http.StatusOK, w.Code)
	wallet := decode[model.Wallet](t, w)
	assert.Equal(t, "GHS", wallet.Currency)
	assert.Equal(t, 0.0, wallet.Balance)

	w = doRequest(t, router, http.MethodPost, "/api/v1/wallet/deposit", userAma,
		dto.WalletTransferRequest{Amount: 100, Currency: "GHS", PaymentMethodID: pm.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decode[model.PaymentResponse](t, w)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.TransactionID)
	assert.Equal(t, model.StatusCompleted, resp.Status)

	w = doRequest(t, router, http.MethodPost, "/api/v1/wallet/withdraw", userAma,
		dto.WalletTransferRequest{Amount: 150, Currency: "GHS"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp = decode[model.PaymentResponse](t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, model.KindInsufficientFunds, resp.Error)

	w = doRequest(t, router, http.MethodPost, "/api/v1/wallet/withdraw", userAma,
		dto.WalletTransferRequest{Amount: 40, Currency: "GHS"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doRequest(t, router, http.MethodGet, "/api/v1/wallet", userAma, nil)
	wallet = decode[model.Wallet](t, w)
	assert.Equal(t, 60.0, wallet.Balance)
	assert.Len(t, wallet.Transactions, 2)

	t.Run("zero amount", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPost, "/api/v1/wallet/deposit", userAma,
			dto.WalletTransferRequest{Amount: 0, Currency: "GHS"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, model.KindInvalidAmount, decode[model.PaymentResponse](t, w).Error)
	})

	t.Run("unknown currency", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPost, "/api/v1/wallet/deposit", userAma,
			dto.WalletTransferRequest{Amount: 10, Currency: "XYZ"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, model.KindUnknownCurrency, decode[model.PaymentResponse](t, w).Error)
	})

	t.Run("missing currency fails binding", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPost, "/api/v1/wallet/deposit", userAma, `{"amount": 10}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decode[dto.ErrorListResponse](t, w)
		require.Len(t, resp.Errors, 1)
		assert.Equal(t, "Currency", resp.Errors[0].Field)
	})
}

func TestWalletAPI_ChangeCurrency(t *testing.T) {
	router := setupRouter(t, 0)

	w := doRequest(t, router, http.MethodPut, "/api/v1/wallet/currency", userAma, dto.ChangeCurrencyRequest{Currency: "USD"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[model.WalletResponse](t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, "USD", resp.Wallet.Currency)

	w = doRequest(t, router, http.MethodGet, "/api/v1/wallet/audit", userAma, nil)
	require.Equal(t, http.StatusOK, w.Code)
	events := decode[dto.AuditListResponse](t, w).Data
	require.Len(t, events, 1)
	assert.Equal(t, "USD", events[0].Details["to"])

	w = doRequest(t, router, http.MethodPut, "/api/v1/wallet/currency", userAma, dto.ChangeCurrencyRequest{Currency: "ABC"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
