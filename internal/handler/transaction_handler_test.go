package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anyulbade/payment-wallet-service/internal/dto"
	"github.com/anyulbade/payment-wallet-service/internal/model"
	"github.com/anyulbade/payment-wallet-service/internal/service"
)

func TestTransactionAPI(t *testing.T) {
	router := setupRouter(t, 0)
	addMethod(t, router, userSam, "visa")

	var ids []string
	for _, amount := range []float64{10, 20, 30} {
		w := doRequest(t, router, http.MethodPost, "/api/v1/wallet/deposit", userSam,
			dto.WalletTransferRequest{Amount: amount, Currency: "USD"})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		ids = append(ids, decode[model.PaymentResponse](t, w).TransactionID)
	}
	w := doRequest(t, router, http.MethodPost, "/api/v1/payments", userSam,
		dto.PaymentRequest{Amount: 40, Currency: "USD"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	t.Run("paginated list", func(t *testing.T) {
		w := doRequest(t, router, http.MethodGet, "/api/v1/transactions?type=deposit&page=1&page_size=2", userSam, nil)
		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[dto.TransactionListResponse](t, w)
		assert.Equal(t, 3, resp.Pagination.TotalItems)
		assert.Equal(t, 2, resp.Pagination.TotalPages)
		require.Len(t, resp.Data, 2)
		assert.Equal(t, ids[2], resp.Data[0].ID, "newest first")
	})

	t.Run("status filter", func(t *testing.T) {
		w := doRequest(t, router, http.MethodGet, "/api/v1/transactions?status=refunded", userSam, nil)
		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[dto.TransactionListResponse](t, w)
		assert.Empty(t, resp.Data)
		assert.NotNil(t, resp.Data)

		w = doRequest(t, router, http.MethodGet, "/api/v1/transactions?status=lost", userSam, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("get by id", func(t *testing.T) {
		w := doRequest(t, router, http.MethodGet, "/api/v1/transactions/"+ids[0], userSam, nil)
		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[model.TransactionResponse](t, w)
		assert.Equal(t, 10.0, resp.Transaction.Amount)
		assert.Equal(t, model.TypeDeposit, resp.Transaction.Type)

		w = doRequest(t, router, http.MethodGet, "/api/v1/transactions/"+ids[0], userAma, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("summary", func(t *testing.T) {
		w := doRequest(t, router, http.MethodGet, "/api/v1/transactions/summary", userSam, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		summary := decode[service.StatementSummary](t, w)
		assert.Equal(t, "USD", summary.Currency)
		assert.Equal(t, 60.0, summary.TotalsByType[model.TypeDeposit])
		assert.Equal(t, 40.0, summary.TotalsByType[model.TypePayment])
		assert.Equal(t, 2.0, summary.PlatformFees)
		assert.Equal(t, 60.0, summary.NetWalletFlow)
	})

	t.Run("summary date range", func(t *testing.T) {
		w := doRequest(t, router, http.MethodGet, "/api/v1/transactions/summary?date_to=2000-01-01", userSam, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 0, decode[service.StatementSummary](t, w).TotalTransactions)

		w = doRequest(t, router, http.MethodGet, "/api/v1/transactions/summary?date_from=yesterday", userSam, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = doRequest(t, router, http.MethodGet, "/api/v1/transactions/summary?date_from=2026-02-01&date_to=2026-01-01", userSam, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("summary in unknown currency", func(t *testing.T) {
		w := doRequest(t, router, http.MethodGet, "/api/v1/transactions/summary?currency=XYZ", userSam, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
