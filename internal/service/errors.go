package service

import "errors"

var (
	// ErrInvalidPickupAddress is returned when the pickup address is empty.
	ErrInvalidPickupAddress = errors.New("pickup address is required")

	// ErrInvalidDestinationAddress is returned when the destination address is empty.
	ErrInvalidDestinationAddress = errors.New("destination address is required")

	// ErrInvalidVehicleClass is returned when the vehicle class is unknown.
	ErrInvalidVehicleClass = errors.New("invalid vehicle class")

	// ErrInvalidCapacity is returned when an explicit capacity is not positive.
	ErrInvalidCapacity = errors.New("capacity must be a positive integer")

	// ErrInvalidShareCode is returned when a join code is not 4 characters.
	ErrInvalidShareCode = errors.New("share code must be 4 characters")

	// ErrInvalidRideID is returned when a ride ID is empty.
	ErrInvalidRideID = errors.New("invalid ride id")

	// ErrInvalidRideType is returned when a ride type is neither SINGLE nor SHARED.
	ErrInvalidRideType = errors.New("invalid ride type")

	// ErrInvalidRatingScore is returned when a rating score is outside [1,5].
	ErrInvalidRatingScore = errors.New("rating score must be between 1 and 5")

	// ErrRideNotFound is returned when a ride does not exist.
	ErrRideNotFound = errors.New("ride not found")

	// ErrNotSharedRide is returned when a join targets a non-shared ride.
	ErrNotSharedRide = errors.New("not a shared ride")

	// ErrRideFull is returned when a shared ride has no free seat.
	ErrRideFull = errors.New("ride is full")

	// ErrAlreadyJoined is returned when a passenger joins a ride twice.
	ErrAlreadyJoined = errors.New("already joined this ride")

	// ErrRideAlreadyTaken is returned when an accept loses the race on a
	// pending ride.
	ErrRideAlreadyTaken = errors.New("ride already accepted or unavailable")

	// ErrNotRideParticipant is returned when the actor has no relation to
	// the ride.
	ErrNotRideParticipant = errors.New("not part of this ride")

	// ErrOnlyCreatorCanCancel is returned when a non-creator cancels a
	// pending single ride.
	ErrOnlyCreatorCanCancel = errors.New("only the ride creator can cancel this ride")

	// ErrParticipantNotFound is returned when a leave finds no participant row.
	ErrParticipantNotFound = errors.New("participant not found")

	// ErrNotAssignedRider is returned when a rider completes a ride they
	// did not accept.
	ErrNotAssignedRider = errors.New("not the accepting rider")

	// ErrRideNotActive is returned when a complete targets a ride that is
	// neither ACCEPTED nor ONGOING.
	ErrRideNotActive = errors.New("ride is not active")

	// ErrRideNotCompleted is returned when a rating targets an uncompleted ride.
	ErrRideNotCompleted = errors.New("can rate only after completion")

	// ErrRateeNotOnRide is returned when the ratee has no relation to the ride.
	ErrRateeNotOnRide = errors.New("ratee not related to this ride")

	// ErrShareCodeExhausted is returned when share code generation runs out
	// of collision retries.
	ErrShareCodeExhausted = errors.New("failed to generate unique share code")

	// ErrCredentialsInvalid is returned on any failed login.
	ErrCredentialsInvalid = errors.New("invalid credentials")

	// ErrAccountExists is returned when registration hits a taken email,
	// phone or license plate.
	ErrAccountExists = errors.New("account details already in use")

	// ErrUserNotFound is returned when a user does not exist.
	ErrUserNotFound = errors.New("user not found")
)
