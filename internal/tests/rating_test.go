package tests

import (
	"context"
	"testing"
	"time"

	"campusride/internal/domain"
	"campusride/internal/service"
)

func completedRide(repo *MockRideRepository) *domain.Ride {
	ride := &domain.Ride{
		ID:          "ride-1",
		Type:        domain.RideTypeShared,
		Status:      domain.RideStatusCompleted,
		PassengerID: "passenger-1",
		RiderID:     "rider-1",
	}
	repo.AddRide(ride)
	repo.AddParticipant(context.Background(), &domain.RideParticipant{
		RideID:      ride.ID,
		PassengerID: "passenger-1",
		JoinedAt:    time.Now(),
	})
	repo.AddParticipant(context.Background(), &domain.RideParticipant{
		RideID:      ride.ID,
		PassengerID: "passenger-2",
		JoinedAt:    time.Now(),
	})
	return ride
}

func TestRate_StoresRating(t *testing.T) {
	rideRepo := NewMockRideRepository()
	ratingRepo := NewMockRatingRepository()
	svc := service.NewRatingService(ratingRepo, rideRepo)

	completedRide(rideRepo)

	rating, err := svc.Rate(context.Background(), service.RateRequest{
		RideID:  "ride-1",
		RaterID: "passenger-1",
		RateeID: "rider-1",
		Score:   5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rating.Score != 5 {
		t.Errorf("expected score 5, got %d", rating.Score)
	}
	if ratingRepo.CountRatings() != 1 {
		t.Errorf("expected 1 stored rating, got %d", ratingRepo.CountRatings())
	}
}

func TestRate_RequiresCompletedRide(t *testing.T) {
	rideRepo := NewMockRideRepository()
	svc := service.NewRatingService(NewMockRatingRepository(), rideRepo)

	for _, status := range []domain.RideStatus{
		domain.RideStatusPending,
		domain.RideStatusAccepted,
		domain.RideStatusCancelled,
	} {
		t.Run(string(status), func(t *testing.T) {
			id := "ride-" + string(status)
			rideRepo.AddRide(&domain.Ride{
				ID:          id,
				Type:        domain.RideTypeSingle,
				Status:      status,
				PassengerID: "passenger-1",
				RiderID:     "rider-1",
			})

			_, err := svc.Rate(context.Background(), service.RateRequest{
				RideID:  id,
				RaterID: "passenger-1",
				RateeID: "rider-1",
				Score:   4,
			})
			if err != service.ErrRideNotCompleted {
				t.Errorf("expected ErrRideNotCompleted, got %v", err)
			}
		})
	}
}

func TestRate_RejectsUnrelatedRater(t *testing.T) {
	rideRepo := NewMockRideRepository()
	svc := service.NewRatingService(NewMockRatingRepository(), rideRepo)

	completedRide(rideRepo)

	_, err := svc.Rate(context.Background(), service.RateRequest{
		RideID:  "ride-1",
		RaterID: "stranger-1",
		RateeID: "rider-1",
		Score:   3,
	})
	if err != service.ErrNotRideParticipant {
		t.Errorf("expected ErrNotRideParticipant, got %v", err)
	}
}

func TestRate_RejectsUnrelatedRatee(t *testing.T) {
	rideRepo := NewMockRideRepository()
	svc := service.NewRatingService(NewMockRatingRepository(), rideRepo)

	completedRide(rideRepo)

	_, err := svc.Rate(context.Background(), service.RateRequest{
		RideID:  "ride-1",
		RaterID: "passenger-1",
		RateeID: "stranger-1",
		Score:   3,
	})
	if err != service.ErrRateeNotOnRide {
		t.Errorf("expected ErrRateeNotOnRide, got %v", err)
	}
}

func TestRate_JoinedParticipantCanRate(t *testing.T) {
	rideRepo := NewMockRideRepository()
	svc := service.NewRatingService(NewMockRatingRepository(), rideRepo)

	completedRide(rideRepo)

	_, err := svc.Rate(context.Background(), service.RateRequest{
		RideID:  "ride-1",
		RaterID: "passenger-2",
		RateeID: "passenger-1",
		Score:   4,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRate_ScoreBounds(t *testing.T) {
	rideRepo := NewMockRideRepository()
	svc := service.NewRatingService(NewMockRatingRepository(), rideRepo)

	completedRide(rideRepo)

	for _, score := range []int{0, -1, 6} {
		_, err := svc.Rate(context.Background(), service.RateRequest{
			RideID:  "ride-1",
			RaterID: "passenger-1",
			RateeID: "rider-1",
			Score:   score,
		})
		if err != service.ErrInvalidRatingScore {
			t.Errorf("score %d: expected ErrInvalidRatingScore, got %v", score, err)
		}
	}
}
