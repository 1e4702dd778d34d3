package handler

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"campusride/internal/domain"
	"campusride/internal/media"
	"campusride/internal/middleware"
	"campusride/internal/repository"
	"campusride/internal/service"
)

const maxPhotoBytes = 5 << 20

// ProfileHandler handles HTTP requests for the authenticated user's own
// account: profile, photo, ride history and received ratings.
type ProfileHandler struct {
	accountService *service.AccountService
	rideService    *service.RideService
	ratingService  *service.RatingService
	userRepo       repository.UserRepository
	photos         media.Storage
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(
	accountService *service.AccountService,
	rideService *service.RideService,
	ratingService *service.RatingService,
	userRepo repository.UserRepository,
	photos media.Storage,
) *ProfileHandler {
	return &ProfileHandler{
		accountService: accountService,
		rideService:    rideService,
		ratingService:  ratingService,
		userRepo:       userRepo,
		photos:         photos,
	}
}

// UserResponse is the HTTP representation of an account. Role-specific
// fields are omitted when empty.
type UserResponse struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Email              string `json:"email,omitempty"`
	Phone              string `json:"phone,omitempty"`
	Role               string `json:"role"`
	Gender             string `json:"gender,omitempty"`
	RegistrationNumber string `json:"registration_number,omitempty"`
	LicenseNumber      string `json:"license_number,omitempty"`
	LicensePlate       string `json:"license_plate,omitempty"`
	PhotoURL           string `json:"photo_url,omitempty"`
	CreatedAt          string `json:"created_at,omitempty"`
}

// GetMe handles GET /v1/me
func (h *ProfileHandler) GetMe(c *gin.Context) {
	user, err := h.accountService.GetProfile(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toUserResponse(user))
}

// UploadPhoto handles POST /v1/me/photo. The previous photo, if any, is
// removed from storage after the new one is saved.
func (h *ProfileHandler) UploadPhoto(c *gin.Context) {
	userID := middleware.CallerID(c)

	user, err := h.accountService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "photo file is required"})
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "photo must be jpg or png"})
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxPhotoBytes+1))
	if err != nil {
		respondError(c, err)
		return
	}
	if len(data) > maxPhotoBytes {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "photo exceeds 5MB limit"})
		return
	}

	url, err := h.photos.Upload(c.Request.Context(), data, ext, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.userRepo.UpdatePhotoURL(c.Request.Context(), userID, url); err != nil {
		respondError(c, err)
		return
	}

	if user.PhotoURL != "" {
		_ = h.photos.Delete(c.Request.Context(), user.PhotoURL)
	}

	respondJSON(c, http.StatusOK, gin.H{"photo_url": url})
}

// PassengerRides handles GET /v1/passenger/rides
func (h *ProfileHandler) PassengerRides(c *gin.Context) {
	rides, err := h.rideService.ListByParticipant(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponses(rides))
}

// RiderRides handles GET /v1/rider/rides
func (h *ProfileHandler) RiderRides(c *gin.Context) {
	rides, err := h.rideService.ListByRider(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponses(rides))
}

// MyRatings handles GET /v1/me/ratings
func (h *ProfileHandler) MyRatings(c *gin.Context) {
	ratings, err := h.ratingService.ListReceived(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]RatingResponse, 0, len(ratings))
	var total int
	for _, r := range ratings {
		total += r.Score
		response = append(response, RatingResponse{
			ID:        r.ID,
			RideID:    r.RideID,
			RaterID:   r.RaterID,
			RateeID:   r.RateeID,
			Score:     r.Score,
			CreatedAt: r.CreatedAt.Format(time.RFC3339),
		})
	}

	var average float64
	if len(ratings) > 0 {
		average = float64(total) / float64(len(ratings))
	}

	respondJSON(c, http.StatusOK, gin.H{
		"ratings": response,
		"average": average,
	})
}

func toRideResponses(rides []*domain.Ride) []RideResponse {
	response := make([]RideResponse, 0, len(rides))
	for _, ride := range rides {
		response = append(response, toRideResponse(ride))
	}
	return response
}

func toUserResponse(user *domain.User) UserResponse {
	response := UserResponse{
		ID:                 user.ID,
		Name:               user.Name,
		Email:              user.Email,
		Phone:              user.Phone,
		Role:               string(user.Role),
		Gender:             user.Gender,
		RegistrationNumber: user.RegistrationNumber,
		LicenseNumber:      user.LicenseNumber,
		LicensePlate:       user.LicensePlate,
		PhotoURL:           user.PhotoURL,
	}
	if !user.CreatedAt.IsZero() {
		response.CreatedAt = user.CreatedAt.Format(time.RFC3339)
	}
	return response
}
