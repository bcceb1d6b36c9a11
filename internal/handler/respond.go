package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anyulbade/payment-wallet-service/internal/dto"
	"github.com/anyulbade/payment-wallet-service/internal/middleware"
	"github.com/anyulbade/payment-wallet-service/internal/model"
)

// writeResult sends body with okStatus when resp succeeded and with the
// failure kind's status otherwise. err goes to ErrorHandler.
func writeResult(c *gin.Context, okStatus int, resp model.PaymentResponse, body any, err error) {
	if err != nil {
		_ = c.Error(err)
		return
	}
	if !resp.Success {
		c.JSON(middleware.StatusForKind(resp.Error), body)
		return
	}
	c.JSON(okStatus, body)
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, dto.BindingError(err))
		return false
	}
	return true
}
