package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campusride/internal/domain"
	"campusride/internal/repository"
)

// AdminHandler handles administrative read-only endpoints. It queries the
// repositories directly; there is no business logic to mediate.
type AdminHandler struct {
	userRepo repository.UserRepository
	rideRepo repository.RideRepository
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(userRepo repository.UserRepository, rideRepo repository.RideRepository) *AdminHandler {
	return &AdminHandler{userRepo: userRepo, rideRepo: rideRepo}
}

// StatsResponse is the HTTP response for platform statistics.
type StatsResponse struct {
	Passengers int64 `json:"passengers"`
	Riders     int64 `json:"riders"`
	Rides      int64 `json:"rides"`
}

// ListUsers handles GET /v1/admin/users?role=PASSENGER
func (h *AdminHandler) ListUsers(c *gin.Context) {
	role := domain.Role(c.Query("role"))
	if role != "" && role != domain.RolePassenger && role != domain.RoleRider && role != domain.RoleAdmin {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown role"})
		return
	}

	users, err := h.userRepo.GetAll(c.Request.Context(), role)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]UserResponse, 0, len(users))
	for _, user := range users {
		response = append(response, toUserResponse(user))
	}

	respondJSON(c, http.StatusOK, response)
}

// ListRides handles GET /v1/admin/rides
func (h *AdminHandler) ListRides(c *gin.Context) {
	rides, err := h.rideRepo.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponses(rides))
}

// Stats handles GET /v1/admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	passengers, err := h.userRepo.CountByRole(ctx, domain.RolePassenger)
	if err != nil {
		respondError(c, err)
		return
	}

	riders, err := h.userRepo.CountByRole(ctx, domain.RoleRider)
	if err != nil {
		respondError(c, err)
		return
	}

	rides, err := h.rideRepo.Count(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, StatsResponse{
		Passengers: passengers,
		Riders:     riders,
		Rides:      rides,
	})
}
