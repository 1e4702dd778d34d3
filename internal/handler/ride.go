package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"campusride/internal/domain"
	"campusride/internal/middleware"
	"campusride/internal/service"
)

// RideHandler handles HTTP requests for the ride lifecycle.
type RideHandler struct {
	rideService *service.RideService
}

// NewRideHandler creates a new RideHandler.
func NewRideHandler(rideService *service.RideService) *RideHandler {
	return &RideHandler{rideService: rideService}
}

// CreateRideRequest is the request body for creating a single ride.
type CreateRideRequest struct {
	PickupAddress      string  `json:"pickup_address" binding:"required"`
	DestinationAddress string  `json:"destination_address" binding:"required"`
	PickupLat          float64 `json:"pickup_lat"`
	PickupLng          float64 `json:"pickup_lng"`
	DestinationLat     float64 `json:"destination_lat"`
	DestinationLng     float64 `json:"destination_lng"`
	DistanceKm         float64 `json:"distance_km"`
	ScheduledAt        string  `json:"scheduled_at"`
	Fare               string  `json:"fare" binding:"required"`
	VehicleClass       string  `json:"vehicle_class"`
}

// CreateSharedRideRequest is the request body for creating a shared ride.
type CreateSharedRideRequest struct {
	CreateRideRequest

	Capacity int `json:"capacity"`
}

// JoinRideRequest is the request body for joining a shared ride.
type JoinRideRequest struct {
	ShareCode string `json:"share_code" binding:"required"`
}

// AcceptRideRequest is the request body for a rider accepting a ride.
type AcceptRideRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// RideResponse is the HTTP representation of a ride.
type RideResponse struct {
	ID                 string  `json:"id"`
	Type               string  `json:"type"`
	Status             string  `json:"status"`
	PickupAddress      string  `json:"pickup_address"`
	DestinationAddress string  `json:"destination_address"`
	PickupLat          float64 `json:"pickup_lat,omitempty"`
	PickupLng          float64 `json:"pickup_lng,omitempty"`
	DestinationLat     float64 `json:"destination_lat,omitempty"`
	DestinationLng     float64 `json:"destination_lng,omitempty"`
	DistanceKm         float64 `json:"distance_km,omitempty"`
	ScheduledAt        string  `json:"scheduled_at,omitempty"`
	Fare               string  `json:"fare"`
	VehicleClass       string  `json:"vehicle_class,omitempty"`
	PassengerID        string  `json:"passenger_id"`
	RiderID            string  `json:"rider_id,omitempty"`
	ShareCode          string  `json:"share_code,omitempty"`
	Capacity           int     `json:"capacity,omitempty"`
	AcceptLat          float64 `json:"accept_lat,omitempty"`
	AcceptLng          float64 `json:"accept_lng,omitempty"`
	AcceptedAt         string  `json:"accepted_at,omitempty"`
	CreatedAt          string  `json:"created_at"`
}

// RideDetailsResponse adds participant rows to a ride.
type RideDetailsResponse struct {
	RideResponse

	Participants []ParticipantResponse `json:"participants"`
}

// ParticipantResponse is one joined passenger.
type ParticipantResponse struct {
	PassengerID string `json:"passenger_id"`
	JoinedAt    string `json:"joined_at"`
}

// AvailableRideResponse is a pending ride offered to riders.
type AvailableRideResponse struct {
	RideResponse

	ParticipantCount int `json:"participant_count"`
	SeatsLeft        int `json:"seats_left,omitempty"`
}

// JoinRideResponse confirms a successful join.
type JoinRideResponse struct {
	RideID      string `json:"ride_id"`
	PassengerID string `json:"passenger_id"`
	JoinedAt    string `json:"joined_at"`
}

// CancelRideResponse reports what the cancellation did.
type CancelRideResponse struct {
	RideID  string `json:"ride_id"`
	Outcome string `json:"outcome"`
}

// CreateSingle handles POST /v1/rides/single
func (h *RideHandler) CreateSingle(c *gin.Context) {
	var req CreateRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	svcReq, err := h.toServiceRequest(c, req)
	if err != nil {
		respondError(c, err)
		return
	}

	ride, err := h.rideService.CreateSingle(c.Request.Context(), svcReq)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toRideResponse(ride))
}

// CreateShared handles POST /v1/rides/shared
func (h *RideHandler) CreateShared(c *gin.Context) {
	var req CreateSharedRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	svcReq, err := h.toServiceRequest(c, req.CreateRideRequest)
	if err != nil {
		respondError(c, err)
		return
	}

	ride, err := h.rideService.CreateShared(c.Request.Context(), service.CreateSharedRideRequest{
		CreateRideRequest: svcReq,
		Capacity:          req.Capacity,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toRideResponse(ride))
}

// Join handles POST /v1/rides/join
func (h *RideHandler) Join(c *gin.Context) {
	var req JoinRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	participant, err := h.rideService.Join(c.Request.Context(), middleware.CallerID(c), req.ShareCode)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, JoinRideResponse{
		RideID:      participant.RideID,
		PassengerID: participant.PassengerID,
		JoinedAt:    participant.JoinedAt.Format(time.RFC3339),
	})
}

// ListAvailableSingle handles GET /v1/rides/available/single
func (h *RideHandler) ListAvailableSingle(c *gin.Context) {
	h.listAvailable(c, domain.RideTypeSingle)
}

// ListAvailableShared handles GET /v1/rides/available/shared
func (h *RideHandler) ListAvailableShared(c *gin.Context) {
	h.listAvailable(c, domain.RideTypeShared)
}

func (h *RideHandler) listAvailable(c *gin.Context, rideType domain.RideType) {
	rides, err := h.rideService.ListAvailable(c.Request.Context(), rideType)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]AvailableRideResponse, 0, len(rides))
	for _, r := range rides {
		ar := AvailableRideResponse{
			RideResponse:     toRideResponse(r.Ride),
			ParticipantCount: r.ParticipantCount,
		}
		if r.Ride.IsShared() && r.Ride.Capacity > 0 {
			ar.SeatsLeft = r.Ride.Capacity - r.ParticipantCount
		}
		response = append(response, ar)
	}

	respondJSON(c, http.StatusOK, response)
}

// GetRide handles GET /v1/rides/:id
func (h *RideHandler) GetRide(c *gin.Context) {
	details, err := h.rideService.GetRide(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideDetailsResponse(details))
}

// Accept handles POST /v1/rides/:id/accept
func (h *RideHandler) Accept(c *gin.Context) {
	var req AcceptRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	details, err := h.rideService.Accept(c.Request.Context(), middleware.CallerID(c), c.Param("id"), req.Lat, req.Lng)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideDetailsResponse(details))
}

// Cancel handles POST /v1/rides/:id/cancel
func (h *RideHandler) Cancel(c *gin.Context) {
	rideID := c.Param("id")

	outcome, err := h.rideService.Cancel(c.Request.Context(), middleware.CallerID(c), rideID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, CancelRideResponse{
		RideID:  rideID,
		Outcome: string(outcome),
	})
}

// Complete handles POST /v1/rides/:id/complete
func (h *RideHandler) Complete(c *gin.Context) {
	rideID := c.Param("id")

	if err := h.rideService.Complete(c.Request.Context(), middleware.CallerID(c), rideID); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"ride_id": rideID,
		"status":  string(domain.RideStatusCompleted),
	})
}

func (h *RideHandler) toServiceRequest(c *gin.Context, req CreateRideRequest) (service.CreateRideRequest, error) {
	fare, err := domain.ParseFare(req.Fare)
	if err != nil {
		return service.CreateRideRequest{}, err
	}

	var scheduledAt time.Time
	if req.ScheduledAt != "" {
		scheduledAt, err = time.Parse(time.RFC3339, req.ScheduledAt)
		if err != nil {
			return service.CreateRideRequest{}, err
		}
	}

	return service.CreateRideRequest{
		PassengerID:        middleware.CallerID(c),
		PickupAddress:      req.PickupAddress,
		DestinationAddress: req.DestinationAddress,
		PickupLat:          req.PickupLat,
		PickupLng:          req.PickupLng,
		DestinationLat:     req.DestinationLat,
		DestinationLng:     req.DestinationLng,
		DistanceKm:         req.DistanceKm,
		ScheduledAt:        scheduledAt,
		Fare:               fare,
		VehicleClass:       domain.VehicleClass(req.VehicleClass),
	}, nil
}

func toRideResponse(ride *domain.Ride) RideResponse {
	response := RideResponse{
		ID:                 ride.ID,
		Type:               string(ride.Type),
		Status:             string(ride.Status),
		PickupAddress:      ride.PickupAddress,
		DestinationAddress: ride.DestinationAddress,
		PickupLat:          ride.PickupLat,
		PickupLng:          ride.PickupLng,
		DestinationLat:     ride.DestinationLat,
		DestinationLng:     ride.DestinationLng,
		DistanceKm:         ride.DistanceKm,
		Fare:               ride.Fare.String(),
		VehicleClass:       string(ride.VehicleClass),
		PassengerID:        ride.PassengerID,
		RiderID:            ride.RiderID,
		ShareCode:          ride.SharedCode,
		Capacity:           ride.Capacity,
		AcceptLat:          ride.AcceptLat,
		AcceptLng:          ride.AcceptLng,
		CreatedAt:          ride.CreatedAt.Format(time.RFC3339),
	}
	if !ride.ScheduledAt.IsZero() {
		response.ScheduledAt = ride.ScheduledAt.Format(time.RFC3339)
	}
	if !ride.AcceptedAt.IsZero() {
		response.AcceptedAt = ride.AcceptedAt.Format(time.RFC3339)
	}
	return response
}

func toRideDetailsResponse(details *service.RideDetails) RideDetailsResponse {
	response := RideDetailsResponse{
		RideResponse: toRideResponse(details.Ride),
		Participants: make([]ParticipantResponse, 0, len(details.Participants)),
	}
	for _, p := range details.Participants {
		response.Participants = append(response.Participants, ParticipantResponse{
			PassengerID: p.PassengerID,
			JoinedAt:    p.JoinedAt.Format(time.RFC3339),
		})
	}
	return response
}
