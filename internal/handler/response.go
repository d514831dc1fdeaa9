package handler

import (
	"errors"
	"log"
	"net/http"

	"referly/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Every endpoint answers with the same envelope: success plus data/message on
// the happy path, error plus a machine-readable error_code otherwise.

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": data})
}

func respondMessage(c *gin.Context, status int, message string, data interface{}) {
	body := gin.H{"success": true, "message": message}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{"success": false, "error": message, "error_code": code})
}

func badRequest(c *gin.Context, message string) {
	respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", message)
}

// respondServiceError maps service sentinels onto HTTP status + error code.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrRewardOutOfRange),
		errors.Is(err, service.ErrInvalidRole):
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, service.ErrInsufficientBalance):
		respondError(c, http.StatusBadRequest, "INSUFFICIENT_BALANCE", err.Error())
	case errors.Is(err, service.ErrHoldNotActive):
		respondError(c, http.StatusConflict, "INVALID_HOLD_STATE", err.Error())
	case errors.Is(err, service.ErrRequestNotOpen),
		errors.Is(err, service.ErrRequestNotClaimed):
		respondError(c, http.StatusConflict, "INVALID_REQUEST_STATE", err.Error())
	case errors.Is(err, service.ErrOwnRequest):
		respondError(c, http.StatusBadRequest, "OWN_REQUEST", err.Error())
	case errors.Is(err, service.ErrNotYours):
		respondError(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, service.ErrWalletSuspended):
		respondError(c, http.StatusForbidden, "WALLET_SUSPENDED", err.Error())
	case errors.Is(err, service.ErrInvalidSignature):
		respondError(c, http.StatusBadRequest, "INVALID_SIGNATURE", err.Error())
	case errors.Is(err, service.ErrOrderMismatch):
		respondError(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, service.ErrEmailExists),
		errors.Is(err, service.ErrUsernameExists):
		respondError(c, http.StatusConflict, "ALREADY_EXISTS", err.Error())
	case errors.Is(err, service.ErrInvalidCreds):
		respondError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", err.Error())
	case errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		respondError(c, http.StatusNotFound, "NOT_FOUND", "resource not found")
	case errors.Is(err, service.ErrWalletConflict):
		respondError(c, http.StatusConflict, "CONFLICT", err.Error())
	default:
		log.Printf("[http] internal error: %v", err)
		respondError(c, http.StatusInternalServerError, "INTERNAL", "internal server error")
	}
}
