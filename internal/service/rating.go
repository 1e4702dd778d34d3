package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"campusride/internal/domain"
	"campusride/internal/repository"
)

// RatingService handles post-completion ratings between ride participants.
type RatingService struct {
	ratingRepo repository.RatingRepository
	rideRepo   repository.RideRepository
}

// NewRatingService creates a new RatingService.
func NewRatingService(ratingRepo repository.RatingRepository, rideRepo repository.RideRepository) *RatingService {
	return &RatingService{ratingRepo: ratingRepo, rideRepo: rideRepo}
}

// RateRequest contains the parameters for rating someone on a ride.
type RateRequest struct {
	RideID  string
	RaterID string
	RateeID string
	Score   int
}

// Rate stores a rating. The ride must be COMPLETED, and both rater and ratee
// must be related to it: the creator, a joined participant, or the assigned
// rider. Nothing prevents rater == ratee or repeat ratings for the same
// pair; that permissiveness is inherited product behavior.
func (s *RatingService) Rate(ctx context.Context, req RateRequest) (*domain.Rating, error) {
	if req.RideID == "" {
		return nil, ErrInvalidRideID
	}
	if !domain.ValidRatingScore(req.Score) {
		return nil, ErrInvalidRatingScore
	}

	ride, err := s.rideRepo.GetByID(ctx, req.RideID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRideNotFound
		}
		return nil, err
	}

	if ride.Status != domain.RideStatusCompleted {
		return nil, ErrRideNotCompleted
	}

	raterRelated, err := s.relatedToRide(ctx, ride, req.RaterID)
	if err != nil {
		return nil, err
	}
	if !raterRelated {
		return nil, ErrNotRideParticipant
	}

	rateeRelated, err := s.relatedToRide(ctx, ride, req.RateeID)
	if err != nil {
		return nil, err
	}
	if !rateeRelated {
		return nil, ErrRateeNotOnRide
	}

	rating := &domain.Rating{
		ID:        uuid.New().String(),
		RideID:    req.RideID,
		RaterID:   req.RaterID,
		RateeID:   req.RateeID,
		Score:     req.Score,
		CreatedAt: time.Now(),
	}

	if err := s.ratingRepo.Create(ctx, rating); err != nil {
		return nil, err
	}
	return rating, nil
}

// ListReceived returns ratings received by a user, newest first.
func (s *RatingService) ListReceived(ctx context.Context, userID string) ([]*domain.Rating, error) {
	return s.ratingRepo.ListByRatee(ctx, userID)
}

// relatedToRide reports whether the user is the ride's creator, its assigned
// rider, or one of its joined participants.
func (s *RatingService) relatedToRide(ctx context.Context, ride *domain.Ride, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	if ride.PassengerID == userID || (ride.RiderID != "" && ride.RiderID == userID) {
		return true, nil
	}
	return s.rideRepo.HasParticipant(ctx, ride.ID, userID)
}
