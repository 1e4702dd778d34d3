package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"campusride/internal/middleware"
	"campusride/internal/service"
)

// RatingHandler handles HTTP requests for ride ratings.
type RatingHandler struct {
	ratingService *service.RatingService
}

// NewRatingHandler creates a new RatingHandler.
func NewRatingHandler(ratingService *service.RatingService) *RatingHandler {
	return &RatingHandler{ratingService: ratingService}
}

// RateRequest is the request body for rating someone on a ride.
type RateRequest struct {
	RateeID string `json:"ratee_id" binding:"required"`
	Score   int    `json:"score" binding:"required"`
}

// RatingResponse is the HTTP representation of a rating.
type RatingResponse struct {
	ID        string `json:"id"`
	RideID    string `json:"ride_id"`
	RaterID   string `json:"rater_id"`
	RateeID   string `json:"ratee_id"`
	Score     int    `json:"score"`
	CreatedAt string `json:"created_at"`
}

// Rate handles POST /v1/rides/:id/rate
func (h *RatingHandler) Rate(c *gin.Context) {
	var req RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	rating, err := h.ratingService.Rate(c.Request.Context(), service.RateRequest{
		RideID:  c.Param("id"),
		RaterID: middleware.CallerID(c),
		RateeID: req.RateeID,
		Score:   req.Score,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, RatingResponse{
		ID:        rating.ID,
		RideID:    rating.RideID,
		RaterID:   rating.RaterID,
		RateeID:   rating.RateeID,
		Score:     rating.Score,
		CreatedAt: rating.CreatedAt.Format(time.RFC3339),
	})
}
