package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"campusride/internal/domain"
	"campusride/internal/repository"
	"campusride/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrRideNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrParticipantNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidPickupAddress),
		errors.Is(err, service.ErrInvalidDestinationAddress),
		errors.Is(err, service.ErrInvalidVehicleClass),
		errors.Is(err, service.ErrInvalidCapacity),
		errors.Is(err, service.ErrInvalidShareCode),
		errors.Is(err, service.ErrInvalidRideID),
		errors.Is(err, service.ErrInvalidRideType),
		errors.Is(err, service.ErrInvalidRatingScore),
		errors.Is(err, service.ErrNotSharedRide),
		errors.Is(err, service.ErrRateeNotOnRide),
		errors.Is(err, domain.ErrFareMalformed),
		errors.Is(err, domain.ErrFareNegative):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, service.ErrRideAlreadyTaken),
		errors.Is(err, service.ErrRideFull),
		errors.Is(err, service.ErrAlreadyJoined),
		errors.Is(err, service.ErrRideNotActive),
		errors.Is(err, service.ErrRideNotCompleted),
		errors.Is(err, service.ErrAccountExists):
		return http.StatusConflict

	// Forbidden/Business rule errors
	case errors.Is(err, service.ErrNotRideParticipant),
		errors.Is(err, service.ErrOnlyCreatorCanCancel),
		errors.Is(err, service.ErrNotAssignedRider):
		return http.StatusForbidden

	// Authentication errors
	case errors.Is(err, service.ErrCredentialsInvalid):
		return http.StatusUnauthorized

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
