package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/anyulbade/payment-wallet-service/internal/dto"
	"github.com/anyulbade/payment-wallet-service/internal/middleware"
	"github.com/anyulbade/payment-wallet-service/internal/model"
	"github.com/anyulbade/payment-wallet-service/internal/service"
)

type TransactionHandler struct {
	svc *service.PaymentService
}

func NewTransactionHandler(svc *service.PaymentService) *TransactionHandler {
	return &TransactionHandler{svc: svc}
}

// List returns the caller's ledger newest first, optionally filtered by
// type and status.
func (h *TransactionHandler) List(c *gin.Context) {
	txnType := model.TransactionType(c.Query("type"))
	status := model.TransactionStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		c.JSON(http.StatusBadRequest, dto.ErrorListResponse{Error: "invalid status: " + string(status)})
		return
	}

	txns, err := h.svc.Transactions(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	filtered := make([]*model.Transaction, 0, len(txns))
	for _, t := range txns {
		if txnType != "" && t.Type != txnType {
			continue
		}
		if status != "" && t.Status != status {
			continue
		}
		filtered = append(filtered, t)
	}

	p := dto.ParsePagination(c)
	c.JSON(http.StatusOK, dto.TransactionListResponse{
		Data:       dto.Page(filtered, p),
		Pagination: dto.NewPagination(p.Page, p.PageSize, len(filtered)),
	})
}

func (h *TransactionHandler) Get(c *gin.Context) {
	resp, err := h.svc.GetTransactionByID(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	writeResult(c, http.StatusOK, resp.PaymentResponse, resp, err)
}

// Summary aggregates the ledger over date_from..date_to, both optional.
// Dates are RFC 3339 or YYYY-MM-DD; a bare date_to covers the whole day.
func (h *TransactionHandler) Summary(c *gin.Context) {
	from, err := parseDate(c.Query("date_from"), false)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorListResponse{
			Error: "invalid date_from format, use RFC3339 or YYYY-MM-DD",
		})
		return
	}
	to, err := parseDate(c.Query("date_to"), true)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorListResponse{
			Error: "invalid date_to format, use RFC3339 or YYYY-MM-DD",
		})
		return
	}
	if from != nil && to != nil && to.Before(*from) {
		c.JSON(http.StatusBadRequest, dto.ErrorListResponse{Error: "date_to is before date_from"})
		return
	}

	summary, err := h.svc.Statement(c.Request.Context(), middleware.UserID(c), c.Query("currency"), from, to)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func parseDate(raw string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
