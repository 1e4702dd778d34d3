package tests

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"campusride/internal/domain"
	"campusride/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK RIDE REPOSITORY
// ──────────────────────────────────────────────

// MockRideRepository is a mock implementation of RideRepository. The atomic
// primitives (AcceptPending, AddParticipantWithinCapacity) hold the mutex for
// their whole check-then-act sequence, mirroring the serialization the real
// store gets from conditional updates and row locks.
type MockRideRepository struct {
	mu           sync.RWMutex
	rides        map[string]*domain.Ride
	participants map[string]map[string]*domain.RideParticipant

	// Counters for verification
	CreateCallCount int32
	AcceptCallCount int32

	// Error injection
	CreateError error
	AcceptError error
}

// NewMockRideRepository creates a new mock ride repository.
func NewMockRideRepository() *MockRideRepository {
	return &MockRideRepository{
		rides:        make(map[string]*domain.Ride),
		participants: make(map[string]map[string]*domain.RideParticipant),
	}
}

// AddRide adds a ride to the mock repository.
func (m *MockRideRepository) AddRide(ride *domain.Ride) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rides[ride.ID] = ride
}

func (m *MockRideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if ride.SharedCode != "" {
		for _, r := range m.rides {
			if r.SharedCode == ride.SharedCode {
				return repository.ErrDuplicate
			}
		}
	}
	copy := *ride
	m.rides[ride.ID] = &copy
	return nil
}

func (m *MockRideRepository) GetByID(ctx context.Context, id string) (*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ride, ok := m.rides[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *ride
	return &copy, nil
}

func (m *MockRideRepository) GetBySharedCode(ctx context.Context, code string) (*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.rides {
		if r.SharedCode == code {
			copy := *r
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockRideRepository) SharedCodeExists(ctx context.Context, code string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.rides {
		if r.SharedCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockRideRepository) ListPending(ctx context.Context, rideType domain.RideType) ([]*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Ride, 0)
	for _, r := range m.rides {
		if r.Status == domain.RideStatusPending && r.Type == rideType {
			copy := *r
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (m *MockRideRepository) ListByRider(ctx context.Context, riderID string) ([]*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Ride, 0)
	for _, r := range m.rides {
		if r.RiderID == riderID {
			copy := *r
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *MockRideRepository) ListByParticipant(ctx context.Context, passengerID string) ([]*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	type entry struct {
		ride     *domain.Ride
		joinedAt time.Time
	}
	entries := make([]entry, 0)
	for rideID, rows := range m.participants {
		if p, ok := rows[passengerID]; ok {
			if r, exists := m.rides[rideID]; exists {
				copy := *r
				entries = append(entries, entry{ride: &copy, joinedAt: p.JoinedAt})
			}
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].joinedAt.After(entries[j].joinedAt)
	})
	result := make([]*domain.Ride, 0, len(entries))
	for _, e := range entries {
		result = append(result, e.ride)
	}
	return result, nil
}

func (m *MockRideRepository) GetAll(ctx context.Context) ([]*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Ride, 0, len(m.rides))
	for _, r := range m.rides {
		copy := *r
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockRideRepository) Count(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.rides)), nil
}

func (m *MockRideRepository) AcceptPending(ctx context.Context, rideID, riderID string, lat, lng float64, at time.Time) (bool, error) {
	atomic.AddInt32(&m.AcceptCallCount, 1)
	if m.AcceptError != nil {
		return false, m.AcceptError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[rideID]
	if !ok || ride.Status != domain.RideStatusPending {
		return false, nil
	}
	ride.Status = domain.RideStatusAccepted
	ride.RiderID = riderID
	ride.AcceptLat = lat
	ride.AcceptLng = lng
	ride.AcceptedAt = at
	ride.UpdatedAt = at
	return true, nil
}

func (m *MockRideRepository) MarkCompleted(ctx context.Context, rideID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[rideID]
	if !ok {
		return false, nil
	}
	if ride.Status != domain.RideStatusAccepted && ride.Status != domain.RideStatusOngoing {
		return false, nil
	}
	ride.Status = domain.RideStatusCompleted
	ride.AcceptLat = 0
	ride.AcceptLng = 0
	ride.AcceptedAt = time.Time{}
	ride.UpdatedAt = time.Now()
	return true, nil
}

func (m *MockRideRepository) MarkCancelled(ctx context.Context, rideID string, clearRider bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[rideID]
	if !ok {
		return false, nil
	}
	if ride.Status != domain.RideStatusPending && ride.Status != domain.RideStatusAccepted {
		return false, nil
	}
	ride.Status = domain.RideStatusCancelled
	if clearRider {
		ride.RiderID = ""
		ride.AcceptLat = 0
		ride.AcceptLng = 0
		ride.AcceptedAt = time.Time{}
	}
	ride.UpdatedAt = time.Now()
	return true, nil
}

func (m *MockRideRepository) AddParticipant(ctx context.Context, p *domain.RideParticipant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows, ok := m.participants[p.RideID]
	if !ok {
		rows = make(map[string]*domain.RideParticipant)
		m.participants[p.RideID] = rows
	}
	if _, exists := rows[p.PassengerID]; exists {
		return repository.ErrDuplicate
	}
	copy := *p
	rows[p.PassengerID] = &copy
	return nil
}

func (m *MockRideRepository) AddParticipantWithinCapacity(ctx context.Context, rideID, passengerID string) (*domain.RideParticipant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[rideID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	rows, ok := m.participants[rideID]
	if !ok {
		rows = make(map[string]*domain.RideParticipant)
		m.participants[rideID] = rows
	}
	if _, exists := rows[passengerID]; exists {
		return nil, repository.ErrDuplicate
	}
	if ride.Capacity > 0 && len(rows) >= ride.Capacity {
		return nil, repository.ErrCapacityExceeded
	}
	p := &domain.RideParticipant{
		RideID:      rideID,
		PassengerID: passengerID,
		JoinedAt:    time.Now(),
	}
	rows[passengerID] = p
	copy := *p
	return &copy, nil
}

func (m *MockRideRepository) RemoveParticipant(ctx context.Context, rideID, passengerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows, ok := m.participants[rideID]
	if !ok {
		return repository.ErrNotFound
	}
	if _, exists := rows[passengerID]; !exists {
		return repository.ErrNotFound
	}
	delete(rows, passengerID)
	return nil
}

func (m *MockRideRepository) HasParticipant(ctx context.Context, rideID, passengerID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rows, ok := m.participants[rideID]
	if !ok {
		return false, nil
	}
	_, exists := rows[passengerID]
	return exists, nil
}

func (m *MockRideRepository) ListParticipants(ctx context.Context, rideID string) ([]*domain.RideParticipant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rows := m.participants[rideID]
	result := make([]*domain.RideParticipant, 0, len(rows))
	for _, p := range rows {
		copy := *p
		result = append(result, &copy)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].JoinedAt.Before(result[j].JoinedAt)
	})
	return result, nil
}

func (m *MockRideRepository) CountParticipants(ctx context.Context, rideID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.participants[rideID]), nil
}

// GetRide returns the ride by ID (for test assertions).
func (m *MockRideRepository) GetRide(id string) *domain.Ride {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rides[id]
}

// ParticipantCount returns the number of participant rows on a ride.
func (m *MockRideRepository) ParticipantCount(rideID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.participants[rideID])
}

// ──────────────────────────────────────────────
// MOCK USER REPOSITORY
// ──────────────────────────────────────────────

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockUserRepository creates a new mock user repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

// AddUser adds a user to the mock repository.
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if (user.Email != "" && u.Email == user.Email) ||
			(user.Phone != "" && u.Phone == user.Phone) ||
			(user.LicensePlate != "" && u.LicensePlate == user.LicensePlate) {
			return repository.ErrDuplicate
		}
	}
	copy := *user
	m.users[user.ID] = &copy
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *user
	return &copy, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			copy := *u
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockUserRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Phone == phone {
			copy := *u
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockUserRepository) GetAll(ctx context.Context, role domain.Role) ([]*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.User, 0, len(m.users))
	for _, u := range m.users {
		if role != "" && u.Role != role {
			continue
		}
		copy := *u
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockUserRepository) CountByRole(ctx context.Context, role domain.Role) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var count int64
	for _, u := range m.users {
		if u.Role == role {
			count++
		}
	}
	return count, nil
}

func (m *MockUserRepository) UpdatePhotoURL(ctx context.Context, id, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.PhotoURL = url
	return nil
}

// ──────────────────────────────────────────────
// MOCK RATING REPOSITORY
// ──────────────────────────────────────────────

// MockRatingRepository is a mock implementation of RatingRepository.
type MockRatingRepository struct {
	mu      sync.RWMutex
	ratings map[string]*domain.Rating

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockRatingRepository creates a new mock rating repository.
func NewMockRatingRepository() *MockRatingRepository {
	return &MockRatingRepository{
		ratings: make(map[string]*domain.Rating),
	}
}

func (m *MockRatingRepository) Create(ctx context.Context, rating *domain.Rating) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *rating
	m.ratings[rating.ID] = &copy
	return nil
}

func (m *MockRatingRepository) ListByRatee(ctx context.Context, rateeID string) ([]*domain.Rating, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Rating, 0)
	for _, r := range m.ratings {
		if r.RateeID == rateeID {
			copy := *r
			result = append(result, &copy)
		}
	}
	return result, nil
}

// CountRatings returns the number of stored ratings.
func (m *MockRatingRepository) CountRatings() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.ratings)
}
