package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anyulbade/payment-wallet-service/internal/dto"
	"github.com/anyulbade/payment-wallet-service/internal/middleware"
	"github.com/anyulbade/payment-wallet-service/internal/service"
)

type PaymentHandler struct {
	svc *service.PaymentService
}

func NewPaymentHandler(svc *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

// Create runs a payment through the gateway, or debits the wallet when
// fromWallet is set. A declined or timed out payment still reports its
// transaction id.
func (h *PaymentHandler) Create(c *gin.Context) {
	var req dto.PaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.svc.InitiatePayment(c.Request.Context(), middleware.UserID(c), service.PaymentRequest{
		Amount:          req.Amount,
		Currency:        req.Currency,
		PaymentMethodID: req.PaymentMethodID,
		Description:     req.Description,
		ServiceID:       req.ServiceID,
		RecipientID:     req.RecipientID,
		FromWallet:      req.FromWallet,
	})
	writeResult(c, http.StatusCreated, resp, resp, err)
}

func (h *PaymentHandler) Refund(c *gin.Context) {
	resp, err := h.svc.RefundPayment(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	writeResult(c, http.StatusOK, resp, resp, err)
}
