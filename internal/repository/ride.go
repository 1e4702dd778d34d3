package repository

import (
	"context"
	"time"

	"campusride/internal/domain"
)

// RideRepository defines the persistence operations for rides and their
// participants. Implementations must provide two race-safe primitives the
// lifecycle engine depends on: AcceptPending (compare-and-set on status) and
// AddParticipantWithinCapacity (duplicate- and capacity-checked insert inside
// one atomic unit).
type RideRepository interface {
	// Create persists a new ride. A shared code collision surfaces as
	// ErrDuplicate.
	Create(ctx context.Context, ride *domain.Ride) error

	// GetByID retrieves a ride by ID.
	GetByID(ctx context.Context, id string) (*domain.Ride, error)

	// GetBySharedCode retrieves a shared ride by its join code. The code is
	// matched exactly; callers normalize to uppercase first.
	GetBySharedCode(ctx context.Context, code string) (*domain.Ride, error)

	// SharedCodeExists reports whether any ride already holds the code.
	SharedCodeExists(ctx context.Context, code string) (bool, error)

	// ListPending retrieves all PENDING rides of the given type, oldest first.
	ListPending(ctx context.Context, rideType domain.RideType) ([]*domain.Ride, error)

	// ListByRider retrieves rides accepted by the rider, newest first.
	ListByRider(ctx context.Context, riderID string) ([]*domain.Ride, error)

	// ListByParticipant retrieves rides the passenger has a participant row
	// on (created or joined), newest join first.
	ListByParticipant(ctx context.Context, passengerID string) ([]*domain.Ride, error)

	// GetAll retrieves all rides, newest first.
	GetAll(ctx context.Context) ([]*domain.Ride, error)

	// Count returns the total number of rides ever created.
	Count(ctx context.Context) (int64, error)

	// AcceptPending atomically claims a PENDING ride for a rider, recording
	// the acceptance geo-stamp. It returns false when the ride was no longer
	// PENDING, which callers surface as a conflict.
	AcceptPending(ctx context.Context, rideID, riderID string, lat, lng float64, at time.Time) (bool, error)

	// MarkCompleted moves an ACCEPTED or ONGOING ride to COMPLETED and clears
	// the acceptance geo-stamp. Returns false when the ride was in neither
	// state.
	MarkCompleted(ctx context.Context, rideID string) (bool, error)

	// MarkCancelled moves a PENDING or ACCEPTED ride to CANCELLED. When
	// clearRider is set the assigned rider and acceptance geo-stamp are
	// cleared as well. Returns false when the ride was in neither state.
	MarkCancelled(ctx context.Context, rideID string, clearRider bool) (bool, error)

	// AddParticipant inserts a participant row. ErrDuplicate when the
	// (ride, passenger) pair already exists.
	AddParticipant(ctx context.Context, p *domain.RideParticipant) error

	// AddParticipantWithinCapacity inserts a participant row only if the
	// ride's current participant count is below its capacity, evaluated in
	// the same atomic unit as the insert. ErrCapacityExceeded when the ride
	// is full, ErrDuplicate when the passenger already joined.
	AddParticipantWithinCapacity(ctx context.Context, rideID, passengerID string) (*domain.RideParticipant, error)

	// RemoveParticipant deletes a participant row. ErrNotFound when the
	// passenger has no row on the ride.
	RemoveParticipant(ctx context.Context, rideID, passengerID string) error

	// HasParticipant reports whether the passenger has a row on the ride.
	HasParticipant(ctx context.Context, rideID, passengerID string) (bool, error)

	// ListParticipants retrieves all participant rows for a ride, oldest
	// join first.
	ListParticipants(ctx context.Context, rideID string) ([]*domain.RideParticipant, error)

	// CountParticipants returns the number of participant rows for a ride.
	CountParticipants(ctx context.Context, rideID string) (int, error)
}
