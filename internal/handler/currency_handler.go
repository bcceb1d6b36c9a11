package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anyulbade/payment-wallet-service/internal/dto"
	"github.com/anyulbade/payment-wallet-service/internal/middleware"
	"github.com/anyulbade/payment-wallet-service/internal/service"
)

type CurrencyHandler struct {
	svc *service.PaymentService
}

func NewCurrencyHandler(svc *service.PaymentService) *CurrencyHandler {
	return &CurrencyHandler{svc: svc}
}

func (h *CurrencyHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, dto.CurrencyListResponse{Data: h.svc.Currencies()})
}

func (h *CurrencyHandler) Convert(c *gin.Context) {
	var q dto.ConvertQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, dto.BindingError(err))
		return
	}

	resp := h.svc.ConvertCurrency(q.Amount, q.From, q.To)
	if !resp.Success {
		c.JSON(middleware.StatusForKind(resp.Error), resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}
