package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"campusride/internal/domain"
	"campusride/internal/observability"
	"campusride/internal/redis"
	"campusride/internal/repository"
)

// RideService owns the ride lifecycle state machine:
//
//	PENDING --accept(rider)----------> ACCEPTED --complete--> COMPLETED
//	PENDING --cancel(creator)--------> CANCELLED
//	ACCEPTED --cancel(any related)---> CANCELLED
//
// ONGOING is accepted as an input state by Complete but no operation moves a
// ride into it; the trigger (rider arrival) was never wired up and is kept
// out deliberately.
type RideService struct {
	rideRepo repository.RideRepository
	codes    *ShareCodeGenerator
	cache    redis.RideCacheInterface
	capacity map[domain.VehicleClass]int
}

// NewRideService creates a new RideService. cache may be nil. Entries in
// capacityOverrides replace the default vehicle class seat mapping.
func NewRideService(
	rideRepo repository.RideRepository,
	codes *ShareCodeGenerator,
	cache redis.RideCacheInterface,
	capacityOverrides map[domain.VehicleClass]int,
) *RideService {
	return &RideService{
		rideRepo: rideRepo,
		codes:    codes,
		cache:    cache,
		capacity: capacityOverrides,
	}
}

// CreateRideRequest contains the shared parameters for creating a ride.
type CreateRideRequest struct {
	PassengerID        string
	PickupAddress      string
	DestinationAddress string
	PickupLat          float64
	PickupLng          float64
	DestinationLat     float64
	DestinationLng     float64
	DistanceKm         float64
	ScheduledAt        time.Time
	Fare               domain.Fare
	VehicleClass       domain.VehicleClass
}

// CreateSharedRideRequest adds the shared-ride parameters.
type CreateSharedRideRequest struct {
	CreateRideRequest

	// Capacity, when positive, overrides the vehicle class seat mapping.
	Capacity int
}

// RideDetails bundles a ride with its participant rows.
type RideDetails struct {
	Ride         *domain.Ride
	Participants []*domain.RideParticipant
}

// AvailableRide is a pending ride offered to riders, with its current
// participant count for seat accounting.
type AvailableRide struct {
	Ride             *domain.Ride
	ParticipantCount int
}

// CancelOutcome describes what a cancellation actually did.
type CancelOutcome string

const (
	// CancelOutcomeRideCancelled means the whole ride moved to CANCELLED.
	CancelOutcomeRideCancelled CancelOutcome = "RIDE_CANCELLED"

	// CancelOutcomeLeftRide means a non-creator participant left a pending
	// shared ride; the ride itself stays PENDING.
	CancelOutcomeLeftRide CancelOutcome = "LEFT_RIDE"
)

// CreateSingle creates a SINGLE ride in PENDING state and registers the
// creator as its participant.
func (s *RideService) CreateSingle(ctx context.Context, req CreateRideRequest) (*domain.Ride, error) {
	if err := s.validateCreate(req, false); err != nil {
		return nil, err
	}

	ride := s.newRide(req, domain.RideTypeSingle)
	if err := s.rideRepo.Create(ctx, ride); err != nil {
		return nil, err
	}

	if err := s.addCreatorParticipant(ctx, ride); err != nil {
		return nil, err
	}

	observability.RidesCreatedTotal.WithLabelValues(string(domain.RideTypeSingle)).Inc()
	return ride, nil
}

// CreateShared creates a SHARED ride in PENDING state with a unique join
// code and a seat capacity derived from the vehicle class (or given
// explicitly), and registers the creator as the first participant.
func (s *RideService) CreateShared(ctx context.Context, req CreateSharedRideRequest) (*domain.Ride, error) {
	if err := s.validateCreate(req.CreateRideRequest, true); err != nil {
		return nil, err
	}
	if req.Capacity < 0 {
		return nil, ErrInvalidCapacity
	}

	capacity := req.Capacity
	if capacity == 0 {
		capacity = s.capacityFor(req.VehicleClass)
	}

	code, err := s.codes.Generate(ctx)
	if err != nil {
		return nil, err
	}

	ride := s.newRide(req.CreateRideRequest, domain.RideTypeShared)
	ride.SharedCode = code
	ride.Capacity = capacity

	if err := s.rideRepo.Create(ctx, ride); err != nil {
		// A racing creation can grab the code between the generator's
		// uniqueness check and our insert; the unique index wins that race.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrShareCodeExhausted
		}
		return nil, err
	}

	if err := s.addCreatorParticipant(ctx, ride); err != nil {
		return nil, err
	}

	observability.RidesCreatedTotal.WithLabelValues(string(domain.RideTypeShared)).Inc()
	return ride, nil
}

// Join adds a passenger to a shared ride looked up by join code. The
// duplicate check and the capacity recount both happen inside the store's
// atomic insert, so joins racing for the last seat produce exactly one
// winner.
func (s *RideService) Join(ctx context.Context, passengerID, code string) (*domain.RideParticipant, error) {
	code = NormalizeShareCode(code)
	if len(code) != shareCodeLength {
		return nil, ErrInvalidShareCode
	}

	ride, err := s.rideRepo.GetBySharedCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRideNotFound
		}
		return nil, err
	}

	if !ride.IsShared() {
		return nil, ErrNotSharedRide
	}

	participant, err := s.rideRepo.AddParticipantWithinCapacity(ctx, ride.ID, passengerID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrCapacityExceeded):
			observability.RideJoinRejectionsTotal.WithLabelValues("full").Inc()
			return nil, ErrRideFull
		case errors.Is(err, repository.ErrDuplicate):
			observability.RideJoinRejectionsTotal.WithLabelValues("already_joined").Inc()
			return nil, ErrAlreadyJoined
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrRideNotFound
		}
		return nil, err
	}

	observability.RideJoinsTotal.Inc()
	return participant, nil
}

// ListAvailable returns PENDING rides of the given type for riders to pick
// from. Shared rides that have already filled their seats are dropped, a
// defensive re-check on top of the join-time capacity enforcement.
func (s *RideService) ListAvailable(ctx context.Context, rideType domain.RideType) ([]*AvailableRide, error) {
	if rideType != domain.RideTypeSingle && rideType != domain.RideTypeShared {
		return nil, ErrInvalidRideType
	}

	rides, err := s.rideRepo.ListPending(ctx, rideType)
	if err != nil {
		return nil, err
	}

	available := make([]*AvailableRide, 0, len(rides))
	for _, ride := range rides {
		count, err := s.rideRepo.CountParticipants(ctx, ride.ID)
		if err != nil {
			return nil, err
		}
		if ride.IsShared() && ride.Capacity > 0 && count >= ride.Capacity {
			continue
		}
		available = append(available, &AvailableRide{Ride: ride, ParticipantCount: count})
	}
	return available, nil
}

// Accept atomically claims a PENDING ride for a rider, recording where and
// when the rider accepted. Two riders racing on the same ride yield exactly
// one winner; the loser gets ErrRideAlreadyTaken.
func (s *RideService) Accept(ctx context.Context, riderID, rideID string, lat, lng float64) (*RideDetails, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}

	ok, err := s.rideRepo.AcceptPending(ctx, rideID, riderID, lat, lng, time.Now())
	if err != nil {
		return nil, err
	}
	if !ok {
		observability.RideAcceptConflictsTotal.Inc()
		return nil, ErrRideAlreadyTaken
	}

	s.invalidateCache(ctx, rideID)
	observability.RideAcceptsTotal.Inc()

	return s.loadDetails(ctx, rideID)
}

// Cancel applies the cancellation rules:
//
//   - the actor must be the creator or a joined participant;
//   - an ACCEPTED ride reverts to CANCELLED whoever cancels, and the
//     assigned rider and acceptance geo-stamp are cleared;
//   - a PENDING single ride may only be cancelled by its creator;
//   - a PENDING shared ride is cancelled wholesale by the creator, while a
//     non-creator participant merely leaves, freeing their seat.
//
// Rides that already reached COMPLETED or CANCELLED stay where they are.
func (s *RideService) Cancel(ctx context.Context, actorID, rideID string) (CancelOutcome, error) {
	if rideID == "" {
		return "", ErrInvalidRideID
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrRideNotFound
		}
		return "", err
	}

	isCreator := ride.PassengerID == actorID
	isParticipant, err := s.rideRepo.HasParticipant(ctx, rideID, actorID)
	if err != nil {
		return "", err
	}
	if !isCreator && !isParticipant {
		return "", ErrNotRideParticipant
	}

	switch ride.Status {
	case domain.RideStatusAccepted:
		ok, err := s.rideRepo.MarkCancelled(ctx, rideID, true)
		if err != nil {
			return "", err
		}
		if !ok {
			// Lost a race with a completion between the read and the update.
			return "", ErrRideNotActive
		}
		s.invalidateCache(ctx, rideID)
		observability.RideCancellationsTotal.WithLabelValues(string(domain.RideStatusAccepted)).Inc()
		return CancelOutcomeRideCancelled, nil

	case domain.RideStatusPending:
		if ride.Type == domain.RideTypeSingle {
			if !isCreator {
				return "", ErrOnlyCreatorCanCancel
			}
			ok, err := s.rideRepo.MarkCancelled(ctx, rideID, false)
			if err != nil {
				return "", err
			}
			if !ok {
				return "", ErrRideNotActive
			}
			s.invalidateCache(ctx, rideID)
			observability.RideCancellationsTotal.WithLabelValues(string(domain.RideStatusPending)).Inc()
			return CancelOutcomeRideCancelled, nil
		}

		// SHARED
		if isCreator {
			ok, err := s.rideRepo.MarkCancelled(ctx, rideID, false)
			if err != nil {
				return "", err
			}
			if !ok {
				return "", ErrRideNotActive
			}
			s.invalidateCache(ctx, rideID)
			observability.RideCancellationsTotal.WithLabelValues(string(domain.RideStatusPending)).Inc()
			return CancelOutcomeRideCancelled, nil
		}

		if err := s.rideRepo.RemoveParticipant(ctx, rideID, actorID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return "", ErrParticipantNotFound
			}
			return "", err
		}
		return CancelOutcomeLeftRide, nil

	default:
		return "", ErrRideNotActive
	}
}

// Complete marks an ACCEPTED or ONGOING ride COMPLETED and clears the
// acceptance geo-stamp. Only the assigned rider may complete.
func (s *RideService) Complete(ctx context.Context, riderID, rideID string) error {
	if rideID == "" {
		return ErrInvalidRideID
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRideNotFound
		}
		return err
	}

	if ride.RiderID != riderID {
		return ErrNotAssignedRider
	}
	if ride.Status != domain.RideStatusAccepted && ride.Status != domain.RideStatusOngoing {
		return ErrRideNotActive
	}

	ok, err := s.rideRepo.MarkCompleted(ctx, rideID)
	if err != nil {
		return err
	}
	if !ok {
		// Lost a race with a cancellation between the read and the update.
		return ErrRideNotActive
	}

	s.invalidateCache(ctx, rideID)
	observability.RideCompletionsTotal.Inc()
	return nil
}

// GetRide retrieves a ride with its participants, serving the ride entity
// from cache when possible.
func (s *RideService) GetRide(ctx context.Context, rideID string) (*RideDetails, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	if cached := s.cachedRide(ctx, rideID); cached != nil {
		participants, err := s.rideRepo.ListParticipants(ctx, rideID)
		if err != nil {
			return nil, err
		}
		return &RideDetails{Ride: cached, Participants: participants}, nil
	}

	details, err := s.loadDetails(ctx, rideID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRideNotFound
		}
		return nil, err
	}
	s.cacheRide(ctx, details.Ride)
	return details, nil
}

// ListByParticipant returns rides the passenger created or joined, newest first.
func (s *RideService) ListByParticipant(ctx context.Context, passengerID string) ([]*domain.Ride, error) {
	return s.rideRepo.ListByParticipant(ctx, passengerID)
}

// ListByRider returns rides accepted by the rider, newest first.
func (s *RideService) ListByRider(ctx context.Context, riderID string) ([]*domain.Ride, error) {
	return s.rideRepo.ListByRider(ctx, riderID)
}

func (s *RideService) validateCreate(req CreateRideRequest, shared bool) error {
	if req.PickupAddress == "" {
		return ErrInvalidPickupAddress
	}
	if req.DestinationAddress == "" {
		return ErrInvalidDestinationAddress
	}
	if req.Fare < 0 {
		return domain.ErrFareNegative
	}
	if shared && !domain.ValidVehicleClass(req.VehicleClass) {
		return ErrInvalidVehicleClass
	}
	if !shared && req.VehicleClass != "" && !domain.ValidVehicleClass(req.VehicleClass) {
		return ErrInvalidVehicleClass
	}
	return nil
}

func (s *RideService) newRide(req CreateRideRequest, rideType domain.RideType) *domain.Ride {
	now := time.Now()
	return &domain.Ride{
		ID:                 uuid.New().String(),
		Type:               rideType,
		Status:             domain.RideStatusPending,
		PickupAddress:      req.PickupAddress,
		DestinationAddress: req.DestinationAddress,
		PickupLat:          req.PickupLat,
		PickupLng:          req.PickupLng,
		DestinationLat:     req.DestinationLat,
		DestinationLng:     req.DestinationLng,
		DistanceKm:         req.DistanceKm,
		ScheduledAt:        req.ScheduledAt,
		Fare:               req.Fare,
		VehicleClass:       req.VehicleClass,
		PassengerID:        req.PassengerID,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// addCreatorParticipant inserts the creator's participant row. Single rides
// get one too, which keeps ride history queries uniform across both types.
func (s *RideService) addCreatorParticipant(ctx context.Context, ride *domain.Ride) error {
	return s.rideRepo.AddParticipant(ctx, &domain.RideParticipant{
		RideID:      ride.ID,
		PassengerID: ride.PassengerID,
		JoinedAt:    time.Now(),
	})
}

func (s *RideService) capacityFor(class domain.VehicleClass) int {
	if s.capacity != nil {
		if seats, ok := s.capacity[class]; ok {
			return seats
		}
	}
	return domain.DefaultSeatCapacity[class]
}

func (s *RideService) loadDetails(ctx context.Context, rideID string) (*RideDetails, error) {
	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	participants, err := s.rideRepo.ListParticipants(ctx, rideID)
	if err != nil {
		return nil, err
	}
	return &RideDetails{Ride: ride, Participants: participants}, nil
}

func (s *RideService) cacheRide(ctx context.Context, ride *domain.Ride) {
	if s.cache == nil {
		return
	}
	_ = s.cache.SetRide(ctx, &redis.CachedRide{
		ID:           ride.ID,
		Type:         string(ride.Type),
		Status:       string(ride.Status),
		PassengerID:  ride.PassengerID,
		RiderID:      ride.RiderID,
		SharedCode:   ride.SharedCode,
		Capacity:     ride.Capacity,
		FareCents:    ride.Fare.Cents(),
		Pickup:       ride.PickupAddress,
		Destination:  ride.DestinationAddress,
		VehicleClass: string(ride.VehicleClass),
		AcceptLat:    ride.AcceptLat,
		AcceptLng:    ride.AcceptLng,
		AcceptedAt:   ride.AcceptedAt,
		CreatedAt:    ride.CreatedAt,
		UpdatedAt:    ride.UpdatedAt,
	})
}

// cachedRide returns the cached ride entity, or nil on any miss or error.
func (s *RideService) cachedRide(ctx context.Context, rideID string) *domain.Ride {
	if s.cache == nil {
		return nil
	}
	cached, err := s.cache.GetRide(ctx, rideID)
	if err != nil || cached == nil {
		return nil
	}
	return &domain.Ride{
		ID:                 cached.ID,
		Type:               domain.RideType(cached.Type),
		Status:             domain.RideStatus(cached.Status),
		PassengerID:        cached.PassengerID,
		RiderID:            cached.RiderID,
		SharedCode:         cached.SharedCode,
		Capacity:           cached.Capacity,
		Fare:               domain.Fare(cached.FareCents),
		PickupAddress:      cached.Pickup,
		DestinationAddress: cached.Destination,
		VehicleClass:       domain.VehicleClass(cached.VehicleClass),
		AcceptLat:          cached.AcceptLat,
		AcceptLng:          cached.AcceptLng,
		AcceptedAt:         cached.AcceptedAt,
		CreatedAt:          cached.CreatedAt,
		UpdatedAt:          cached.UpdatedAt,
	}
}

func (s *RideService) invalidateCache(ctx context.Context, rideID string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.InvalidateRide(ctx, rideID)
}
