package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anyulbade/payment-wallet-service/internal/dto"
	"github.com/anyulbade/payment-wallet-service/internal/middleware"
	"github.com/anyulbade/payment-wallet-service/internal/model"
	"github.com/anyulbade/payment-wallet-service/internal/service"
)

type WalletHandler struct {
	svc *service.PaymentService
}

func NewWalletHandler(svc *service.PaymentService) *WalletHandler {
	return &WalletHandler{svc: svc}
}

func (h *WalletHandler) Get(c *gin.Context) {
	w, err := h.svc.Wallet(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, w)
}

func (h *WalletHandler) Deposit(c *gin.Context) {
	var req dto.WalletTransferRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.svc.DepositToWallet(c.Request.Context(), middleware.UserID(c), req.Amount, req.Currency, req.PaymentMethodID)
	writeResult(c, http.StatusCreated, resp, resp, err)
}

func (h *WalletHandler) Withdraw(c *gin.Context) {
	var req dto.WalletTransferRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.svc.WithdrawFromWallet(c.Request.Context(), middleware.UserID(c), req.Amount, req.Currency, req.PaymentMethodID)
	writeResult(c, http.StatusCreated, resp, resp, err)
}

func (h *WalletHandler) ChangeCurrency(c *gin.Context) {
	var req dto.ChangeCurrencyRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.svc.UpdateUserCurrency(c.Request.Context(), middleware.UserID(c), req.Currency)
	writeResult(c, http.StatusOK, resp.PaymentResponse, resp, err)
}

func (h *WalletHandler) Audit(c *gin.Context) {
	events, err := h.svc.AuditTrail(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	if events == nil {
		events = []*model.AuditEvent{}
	}
	c.JSON(http.StatusOK, dto.AuditListResponse{Data: events})
}
