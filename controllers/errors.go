package controllers

import (
	"errors"
	"net/http"

	"breakfast-backend/services"
	"breakfast-backend/utils"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps service-layer sentinels onto the wire error shape.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPropertyNotFound):
		utils.JSONError(c, http.StatusNotFound, "NOT_FOUND", "Property not found")
	case errors.Is(err, services.ErrRoomNotFound):
		utils.JSONError(c, http.StatusNotFound, "NOT_FOUND", "Room not found")
	case errors.Is(err, services.ErrNoEligibleGuest):
		utils.JSONError(c, http.StatusUnprocessableEntity, "NO_ELIGIBLE_GUEST",
			"No active guest with a breakfast package in this room today")
	case errors.Is(err, services.ErrNoPendingRecord):
		utils.JSONError(c, http.StatusUnprocessableEntity, "NO_PENDING_RECORD",
			"No pending consumption record for this room today")
	case errors.Is(err, services.ErrInvalidPaymentMethod):
		utils.JSONError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid payment method")
	case errors.Is(err, services.ErrPmsAdapterFailure):
		utils.JSONError(c, http.StatusBadGateway, "PMS_ADAPTER_FAILURE", err.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", err.Error())
	}
}
