package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AngelReyesZN/FoodStack-sub000/internal/models"
	"github.com/AngelReyesZN/FoodStack-sub000/internal/obs"
)

const (
	codeInvalidRequest    = "invalid_request"
	codeUnauthorized      = "unauthorized"
	codeSelfPurchase      = "self_purchase"
	codeNotFound          = "not_found"
	codeInsufficientStock = "insufficient_stock"
	codePartialFailure    = "partial_failure"
	codeInternal          = "internal"
)

// mapError picks the status and code for a domain error.
// Partial failure is checked first because it also wraps its cause.
func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrPartialFailure):
		return http.StatusInternalServerError, codePartialFailure
	case errors.Is(err, models.ErrInvalidRequest):
		return http.StatusBadRequest, codeInvalidRequest
	case errors.Is(err, models.ErrSelfPurchase):
		return http.StatusForbidden, codeSelfPurchase
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, codeNotFound
	case errors.Is(err, models.ErrInsufficientStock):
		return http.StatusConflict, codeInsufficientStock
	default:
		return http.StatusInternalServerError, codeInternal
	}
}

func respondError(c *gin.Context, err error) {
	status, code := mapError(err)
	msg := err.Error()
	if code == codeInternal {
		obs.Logger.Error("request failed",
			"request_id", c.GetString(requestIDKey),
			"path", c.FullPath(),
			"error", err,
		)
		msg = "internal error"
	}
	c.JSON(status, gin.H{"error": msg, "code": code})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg, "code": codeInvalidRequest})
}
