package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"campusride/internal/domain"
	"campusride/internal/repository"
)

// RideRepository is a PostgreSQL implementation of repository.RideRepository.
type RideRepository struct {
	q  Querier
	db *sql.DB
}

// NewRideRepository creates a new PostgreSQL ride repository.
func NewRideRepository(db *sql.DB) *RideRepository {
	return &RideRepository{q: db, db: db}
}

// NewRideRepositoryWithTx creates a ride repository scoped to a transaction.
// AddParticipantWithinCapacity is unavailable on a transaction-scoped
// repository because it opens its own transaction.
func NewRideRepositoryWithTx(tx *sql.Tx) *RideRepository {
	return &RideRepository{q: tx}
}

const rideColumns = `
	id, type, status, pickup_address, destination_address,
	pickup_lat, pickup_lng, destination_lat, destination_lng,
	distance_km, scheduled_at, fare_cents, vehicle_class,
	passenger_id, rider_id, shared_code, capacity,
	accept_lat, accept_lng, accepted_at, created_at, updated_at
`

// Create persists a new ride.
func (r *RideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	query := `
		INSERT INTO rides (` + rideColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
	`

	_, err := r.q.ExecContext(ctx, query,
		ride.ID,
		ride.Type,
		ride.Status,
		ride.PickupAddress,
		ride.DestinationAddress,
		nullFloat(ride.PickupLat),
		nullFloat(ride.PickupLng),
		nullFloat(ride.DestinationLat),
		nullFloat(ride.DestinationLng),
		nullFloat(ride.DistanceKm),
		nullTime(ride.ScheduledAt),
		ride.Fare.Cents(),
		nullString(string(ride.VehicleClass)),
		ride.PassengerID,
		nullString(ride.RiderID),
		nullString(ride.SharedCode),
		nullInt(ride.Capacity),
		nullFloat(ride.AcceptLat),
		nullFloat(ride.AcceptLng),
		nullTime(ride.AcceptedAt),
		ride.CreatedAt,
		ride.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

// GetByID retrieves a ride by ID.
func (r *RideRepository) GetByID(ctx context.Context, id string) (*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE id = $1`
	return r.scanRide(r.q.QueryRowContext(ctx, query, id))
}

// GetBySharedCode retrieves a shared ride by its join code.
func (r *RideRepository) GetBySharedCode(ctx context.Context, code string) (*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE shared_code = $1`
	return r.scanRide(r.q.QueryRowContext(ctx, query, code))
}

// SharedCodeExists reports whether any ride already holds the code.
func (r *RideRepository) SharedCodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.q.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM rides WHERE shared_code = $1)`, code,
	).Scan(&exists)
	return exists, err
}

// ListPending retrieves all PENDING rides of the given type, oldest first.
func (r *RideRepository) ListPending(ctx context.Context, rideType domain.RideType) ([]*domain.Ride, error) {
	query := `
		SELECT ` + rideColumns + `
		FROM rides
		WHERE type = $1 AND status = $2
		ORDER BY created_at ASC
	`
	return r.queryRides(ctx, query, rideType, domain.RideStatusPending)
}

// ListByRider retrieves rides accepted by the rider, newest first.
func (r *RideRepository) ListByRider(ctx context.Context, riderID string) ([]*domain.Ride, error) {
	query := `
		SELECT ` + rideColumns + `
		FROM rides
		WHERE rider_id = $1
		ORDER BY created_at DESC
	`
	return r.queryRides(ctx, query, riderID)
}

// ListByParticipant retrieves rides the passenger is joined to, newest join first.
func (r *RideRepository) ListByParticipant(ctx context.Context, passengerID string) ([]*domain.Ride, error) {
	query := `
		SELECT ` + qualifiedRideColumns() + `
		FROM rides r
		JOIN ride_participants p ON p.ride_id = r.id
		WHERE p.passenger_id = $1
		ORDER BY p.joined_at DESC
	`
	return r.queryRides(ctx, query, passengerID)
}

// GetAll retrieves all rides, newest first.
func (r *RideRepository) GetAll(ctx context.Context) ([]*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides ORDER BY created_at DESC`
	return r.queryRides(ctx, query)
}

// Count returns the total number of rides.
func (r *RideRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM rides`).Scan(&count)
	return count, err
}

// AcceptPending atomically claims a PENDING ride for a rider. The status
// predicate in the WHERE clause is what guarantees exactly one winner when
// riders race: the losing update matches zero rows.
func (r *RideRepository) AcceptPending(ctx context.Context, rideID, riderID string, lat, lng float64, at time.Time) (bool, error) {
	query := `
		UPDATE rides
		SET status = $1, rider_id = $2, accept_lat = $3, accept_lng = $4, accepted_at = $5, updated_at = $5
		WHERE id = $6 AND status = $7
	`

	result, err := r.q.ExecContext(ctx, query,
		domain.RideStatusAccepted, riderID, lat, lng, at, rideID, domain.RideStatusPending,
	)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// MarkCompleted moves an ACCEPTED or ONGOING ride to COMPLETED and clears the
// acceptance geo-stamp.
func (r *RideRepository) MarkCompleted(ctx context.Context, rideID string) (bool, error) {
	query := `
		UPDATE rides
		SET status = $1, accept_lat = NULL, accept_lng = NULL, accepted_at = NULL, updated_at = $2
		WHERE id = $3 AND status IN ($4, $5)
	`

	result, err := r.q.ExecContext(ctx, query,
		domain.RideStatusCompleted, time.Now(), rideID,
		domain.RideStatusAccepted, domain.RideStatusOngoing,
	)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// MarkCancelled moves a PENDING or ACCEPTED ride to CANCELLED, optionally
// clearing the assigned rider and acceptance geo-stamp. The status predicate
// keeps a cancellation from overwriting a ride the rider completed first.
func (r *RideRepository) MarkCancelled(ctx context.Context, rideID string, clearRider bool) (bool, error) {
	var query string
	if clearRider {
		query = `
			UPDATE rides
			SET status = $1, rider_id = NULL, accept_lat = NULL, accept_lng = NULL, accepted_at = NULL, updated_at = $2
			WHERE id = $3 AND status IN ($4, $5)
		`
	} else {
		query = `
			UPDATE rides
			SET status = $1, updated_at = $2
			WHERE id = $3 AND status IN ($4, $5)
		`
	}

	result, err := r.q.ExecContext(ctx, query,
		domain.RideStatusCancelled, time.Now(), rideID,
		domain.RideStatusPending, domain.RideStatusAccepted,
	)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// AddParticipant inserts a participant row.
func (r *RideRepository) AddParticipant(ctx context.Context, p *domain.RideParticipant) error {
	query := `
		INSERT INTO ride_participants (ride_id, passenger_id, joined_at)
		VALUES ($1, $2, $3)
	`

	_, err := r.q.ExecContext(ctx, query, p.RideID, p.PassengerID, p.JoinedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

// AddParticipantWithinCapacity inserts a participant row only while the ride
// has a free seat. The ride row is locked for the duration of the recount so
// concurrent joins racing for the last seat serialize on it; the primary key
// on (ride_id, passenger_id) independently turns duplicate joins into
// ErrDuplicate.
func (r *RideRepository) AddParticipantWithinCapacity(ctx context.Context, rideID, passengerID string) (*domain.RideParticipant, error) {
	if r.db == nil {
		return nil, errors.New("participant insert requires a db-backed repository")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var capacity sql.NullInt64
	err = tx.QueryRowContext(ctx,
		`SELECT capacity FROM rides WHERE id = $1 FOR UPDATE`, rideID,
	).Scan(&capacity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = repository.ErrNotFound
		}
		return nil, err
	}

	var count int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM ride_participants WHERE ride_id = $1`, rideID,
	).Scan(&count)
	if err != nil {
		return nil, err
	}

	if capacity.Valid && int64(count) >= capacity.Int64 {
		err = repository.ErrCapacityExceeded
		return nil, err
	}

	p := &domain.RideParticipant{
		RideID:      rideID,
		PassengerID: passengerID,
		JoinedAt:    time.Now(),
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO ride_participants (ride_id, passenger_id, joined_at) VALUES ($1, $2, $3)`,
		p.RideID, p.PassengerID, p.JoinedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			err = repository.ErrDuplicate
		}
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return p, nil
}

// RemoveParticipant deletes a participant row.
func (r *RideRepository) RemoveParticipant(ctx context.Context, rideID, passengerID string) error {
	result, err := r.q.ExecContext(ctx,
		`DELETE FROM ride_participants WHERE ride_id = $1 AND passenger_id = $2`,
		rideID, passengerID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// HasParticipant reports whether the passenger has a row on the ride.
func (r *RideRepository) HasParticipant(ctx context.Context, rideID, passengerID string) (bool, error) {
	var exists bool
	err := r.q.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM ride_participants WHERE ride_id = $1 AND passenger_id = $2)`,
		rideID, passengerID,
	).Scan(&exists)
	return exists, err
}

// ListParticipants retrieves all participant rows for a ride, oldest join first.
func (r *RideRepository) ListParticipants(ctx context.Context, rideID string) ([]*domain.RideParticipant, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT ride_id, passenger_id, joined_at FROM ride_participants WHERE ride_id = $1 ORDER BY joined_at ASC`,
		rideID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participants []*domain.RideParticipant
	for rows.Next() {
		var p domain.RideParticipant
		if err := rows.Scan(&p.RideID, &p.PassengerID, &p.JoinedAt); err != nil {
			return nil, err
		}
		participants = append(participants, &p)
	}
	return participants, rows.Err()
}

// CountParticipants returns the number of participant rows for a ride.
func (r *RideRepository) CountParticipants(ctx context.Context, rideID string) (int, error) {
	var count int
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM ride_participants WHERE ride_id = $1`, rideID,
	).Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *RideRepository) scanRide(row rowScanner) (*domain.Ride, error) {
	var ride domain.Ride
	var (
		pickupLat, pickupLng, destLat, destLng, distanceKm sql.NullFloat64
		scheduledAt, acceptedAt                            sql.NullTime
		fareCents                                          int64
		vehicleClass, riderID, sharedCode                  sql.NullString
		capacity                                           sql.NullInt64
		acceptLat, acceptLng                               sql.NullFloat64
	)

	err := row.Scan(
		&ride.ID,
		&ride.Type,
		&ride.Status,
		&ride.PickupAddress,
		&ride.DestinationAddress,
		&pickupLat,
		&pickupLng,
		&destLat,
		&destLng,
		&distanceKm,
		&scheduledAt,
		&fareCents,
		&vehicleClass,
		&ride.PassengerID,
		&riderID,
		&sharedCode,
		&capacity,
		&acceptLat,
		&acceptLng,
		&acceptedAt,
		&ride.CreatedAt,
		&ride.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	ride.PickupLat = pickupLat.Float64
	ride.PickupLng = pickupLng.Float64
	ride.DestinationLat = destLat.Float64
	ride.DestinationLng = destLng.Float64
	ride.DistanceKm = distanceKm.Float64
	if scheduledAt.Valid {
		ride.ScheduledAt = scheduledAt.Time
	}
	ride.Fare = domain.Fare(fareCents)
	ride.VehicleClass = domain.VehicleClass(vehicleClass.String)
	ride.RiderID = riderID.String
	ride.SharedCode = sharedCode.String
	ride.Capacity = int(capacity.Int64)
	ride.AcceptLat = acceptLat.Float64
	ride.AcceptLng = acceptLng.Float64
	if acceptedAt.Valid {
		ride.AcceptedAt = acceptedAt.Time
	}

	return &ride, nil
}

func (r *RideRepository) queryRides(ctx context.Context, query string, args ...any) ([]*domain.Ride, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rides []*domain.Ride
	for rows.Next() {
		ride, err := r.scanRide(rows)
		if err != nil {
			return nil, err
		}
		rides = append(rides, ride)
	}
	return rides, rows.Err()
}

func qualifiedRideColumns() string {
	return `
		r.id, r.type, r.status, r.pickup_address, r.destination_address,
		r.pickup_lat, r.pickup_lng, r.destination_lat, r.destination_lng,
		r.distance_km, r.scheduled_at, r.fare_cents, r.vehicle_class,
		r.passenger_id, r.rider_id, r.shared_code, r.capacity,
		r.accept_lat, r.accept_lng, r.accepted_at, r.created_at, r.updated_at
	`
}
