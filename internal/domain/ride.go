package domain

import "time"

// RideType distinguishes single-passenger rides from shared ones.
type RideType string

const (
	RideTypeSingle RideType = "SINGLE"
	RideTypeShared RideType = "SHARED"
)

// RideStatus represents the current status of a ride.
type RideStatus string

const (
	RideStatusPending   RideStatus = "PENDING"
	RideStatusAccepted  RideStatus = "ACCEPTED"
	RideStatusOngoing   RideStatus = "ONGOING"
	RideStatusCompleted RideStatus = "COMPLETED"
	RideStatusCancelled RideStatus = "CANCELLED"
)

// VehicleClass determines the seat capacity of a shared ride.
type VehicleClass string

const (
	VehicleClassCompact    VehicleClass = "COMPACT"
	VehicleClassMiniVan    VehicleClass = "MINI_VAN"
	VehicleClassVan        VehicleClass = "VAN"
	VehicleClassPremiumVan VehicleClass = "PREMIUM_VAN"
)

// DefaultSeatCapacity maps a vehicle class to its seat count. The mapping is
// policy, not physics; deployments can override it through configuration.
var DefaultSeatCapacity = map[VehicleClass]int{
	VehicleClassCompact:    4,
	VehicleClassMiniVan:    7,
	VehicleClassVan:        10,
	VehicleClassPremiumVan: 14,
}

// ValidVehicleClass reports whether the given class is known.
func ValidVehicleClass(v VehicleClass) bool {
	_, ok := DefaultSeatCapacity[v]
	return ok
}

// Ride represents a transportation request created by a passenger.
// Rides are never physically deleted; cancellation is a status.
type Ride struct {
	ID                 string
	Type               RideType
	Status             RideStatus
	PickupAddress      string
	DestinationAddress string
	PickupLat          float64
	PickupLng          float64
	DestinationLat     float64
	DestinationLng     float64
	DistanceKm         float64
	ScheduledAt        time.Time // zero when the ride is on demand
	Fare               Fare
	VehicleClass       VehicleClass

	// PassengerID is the creator and never changes after creation.
	PassengerID string

	// RiderID is set exactly once per acceptance cycle and cleared again
	// when a cancellation reverts an accepted ride.
	RiderID string

	// SharedCode and Capacity are present only on SHARED rides.
	SharedCode string
	Capacity   int

	// Acceptance geo-stamp. Present while ACCEPTED/ONGOING, cleared on
	// completion and on cancellation from ACCEPTED.
	AcceptLat  float64
	AcceptLng  float64
	AcceptedAt time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsShared reports whether the ride accepts additional participants.
func (r *Ride) IsShared() bool {
	return r.Type == RideTypeShared
}

// RideParticipant is one passenger joined to a ride. The creator gets a row
// at creation time, so the participant count always includes them.
// Unique per (ride, passenger) pair.
type RideParticipant struct {
	RideID      string
	PassengerID string
	JoinedAt    time.Time
}
