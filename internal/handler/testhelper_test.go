package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/anyulbade/payment-wallet-service/internal/catalog"
	"github.com/anyulbade/payment-wallet-service/internal/gateway"
	"github.com/anyulbade/payment-wallet-service/internal/kvstore"
	"github.com/anyulbade/payment-wallet-service/internal/middleware"
	"github.com/anyulbade/payment-wallet-service/internal/model"
	"github.com/anyulbade/payment-wallet-service/internal/money"
	"github.com/anyulbade/payment-wallet-service/internal/service"
)

const (
	userAma = "user_ama"
	userSam = "user_sam"
)

// setupRouter wires the full API over the in-memory backend. The gateway
// declines payments above declineOver when it is non-zero.
func setupRouter(t *testing.T, declineOver float64) *gin.Engine {
	t.Helper()

	kv := kvstore.NewMemoryKV()
	users := kvstore.NewUserStore(kv)
	for _, u := range []*model.User{
		{ID: userAma, Name: "Ama Mensah", Email: "ama@example.com", CountryCode: "GH", Currency: "GHS"},
		{ID: userSam, Name: "Sam Carter", Email: "sam@example.com", CountryCode: "US", Currency: "USD"},
	} {
		require.NoError(t, users.Save(context.Background(), u))
	}

	clock := service.SystemClock{}
	locks := service.NewUserLocks()
	converter := service.NewCurrencyConverter(catalog.DefaultCurrencyTable())
	methods := service.NewPaymentMethodService(kvstore.NewPaymentMethodStore(kv), catalog.DefaultRegionRails(), clock, locks)
	ledger := service.NewLedgerService(kvstore.NewTransactionStore(kv), clock, locks)
	wallets := service.NewWalletService(kvstore.NewWalletStore(kv), kvstore.NewAuditStore(kv), converter, ledger, methods, clock, locks)
	gw := &gateway.Simulated{DeclineOver: declineOver}
	processor := service.NewPaymentProcessor(ledger, methods, wallets, converter, gw, money.DefaultCommissionRate, time.Second, locks)
	statements := service.NewStatementService(ledger, converter)
	payments := service.NewPaymentService(users, methods, ledger, wallets, processor, statements, converter)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.ErrorHandler())
	router.GET("/health", NewHealthHandler(kv, "memory").Health)
	RegisterRoutes(router.Group("/api/v1"), payments)
	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, path, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set(middleware.UserIDHeader, userID)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func addMethod(t *testing.T, router *gin.Engine, userID, rail string) *model.PaymentMethod {
	t.Helper()
	w := doRequest(t, router, http.MethodPost, "/api/v1/payment-methods", userID,
		map[string]string{"type": rail, "name": rail + " account", "details": "****4242"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[model.PaymentMethodResponse](t, w).Method
}
