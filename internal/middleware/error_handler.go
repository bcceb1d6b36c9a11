package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"

	"github.com/anyulbade/payment-wallet-service/internal/model"
)

type ErrorResponse struct {
	Error   string          `json:"error"`
	Kind    model.ErrorKind `json:"kind,omitempty"`
	Details string          `json:"details,omitempty"`
}

var kindStatus = map[model.ErrorKind]int{
	model.KindInvalidAmount:       http.StatusBadRequest,
	model.KindUnknownCurrency:     http.StatusBadRequest,
	model.KindValidationFailed:    http.StatusBadRequest,
	model.KindNotAuthenticated:    http.StatusUnauthorized,
	model.KindNotFound:            http.StatusNotFound,
	model.KindCannotRemoveDefault: http.StatusConflict,
	model.KindInvalidTransition:   http.StatusConflict,
	model.KindUnsupportedRail:     http.StatusUnprocessableEntity,
	model.KindInsufficientFunds:   http.StatusUnprocessableEntity,
	model.KindNoPaymentMethod:     http.StatusUnprocessableEntity,
	model.KindPaymentDeclined:     http.StatusBadGateway,
	model.KindGatewayTimeout:      http.StatusGatewayTimeout,
}

// StatusForKind is the HTTP status an unsuccessful response of kind is sent with.
func StatusForKind(kind model.ErrorKind) int {
	if status, ok := kindStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// MapError maps failure kinds and database errors to a response. Anything
// unrecognised is logged and reported as a 500 without details.
func MapError(err error) (int, ErrorResponse) {
	if kind := model.KindOf(err); kind != "" {
		return StatusForKind(kind), ErrorResponse{Error: err.Error(), Kind: kind}
	}
	return MapDBError(err)
}

func MapDBError(err error) (int, ErrorResponse) {
	if errors.Is(err, pgx.ErrNoRows) {
		return http.StatusNotFound, ErrorResponse{Error: "resource not found"}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return http.StatusConflict, ErrorResponse{
				Error:   "resource already exists",
				Details: pgErr.Detail,
			}
		case "23503": // foreign_key_violation
			return http.StatusBadRequest, ErrorResponse{
				Error:   "referenced resource does not exist",
				Details: pgErr.Detail,
			}
		case "23514": // check_violation
			return http.StatusBadRequest, ErrorResponse{
				Error:   "constraint violation",
				Details: pgErr.Detail,
			}
		}
	}

	log.Error().Err(err).Msg("unhandled error")
	return http.StatusInternalServerError, ErrorResponse{Error: "internal server error"}
}

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			err := c.Errors.Last().Err
			status, resp := MapError(err)
			c.JSON(status, resp)
		}
	}
}
