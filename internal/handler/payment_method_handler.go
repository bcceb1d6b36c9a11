package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anyulbade/payment-wallet-service/internal/dto"
	"github.com/anyulbade/payment-wallet-service/internal/middleware"
	"github.com/anyulbade/payment-wallet-service/internal/model"
	"github.com/anyulbade/payment-wallet-service/internal/service"
)

type PaymentMethodHandler struct {
	svc *service.PaymentService
}

func NewPaymentMethodHandler(svc *service.PaymentService) *PaymentMethodHandler {
	return &PaymentMethodHandler{svc: svc}
}

func (h *PaymentMethodHandler) List(c *gin.Context) {
	methods, err := h.svc.PaymentMethods(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	if methods == nil {
		methods = []*model.PaymentMethod{}
	}
	c.JSON(http.StatusOK, dto.PaymentMethodListResponse{Data: methods})
}

func (h *PaymentMethodHandler) Add(c *gin.Context) {
	var req dto.AddPaymentMethodRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.svc.AddPaymentMethod(c.Request.Context(), middleware.UserID(c), service.NewPaymentMethod{
		Type:    model.RailType(req.Type),
		Name:    req.Name,
		Details: req.Details,
	})
	writeResult(c, http.StatusCreated, resp.PaymentResponse, resp, err)
}

func (h *PaymentMethodHandler) Remove(c *gin.Context) {
	resp, err := h.svc.RemovePaymentMethod(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	writeResult(c, http.StatusOK, resp, resp, err)
}

func (h *PaymentMethodHandler) SetDefault(c *gin.Context) {
	resp, err := h.svc.SetDefaultPaymentMethod(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	writeResult(c, http.StatusOK, resp, resp, err)
}
