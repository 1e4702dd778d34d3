package tests

import (
	"context"
	"strings"
	"testing"
	"time"

	"campusride/internal/domain"
	"campusride/internal/service"
)

func newRideService(repo *MockRideRepository) *service.RideService {
	return service.NewRideService(repo, service.NewShareCodeGenerator(repo), nil, nil)
}

func createRequest(passengerID string) service.CreateRideRequest {
	return service.CreateRideRequest{
		PassengerID:        passengerID,
		PickupAddress:      "Hostel Block C",
		DestinationAddress: "Main Gate",
		Fare:               domain.Fare(4550),
	}
}

func TestCreateSingle_StartsPending(t *testing.T) {
	repo := NewMockRideRepository()
	svc := newRideService(repo)

	ride, err := svc.CreateSingle(context.Background(), createRequest("passenger-1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ride.Status != domain.RideStatusPending {
		t.Errorf("expected PENDING, got %s", ride.Status)
	}
	if ride.Type != domain.RideTypeSingle {
		t.Errorf("expected SINGLE, got %s", ride.Type)
	}
	if ride.PassengerID != "passenger-1" {
		t.Errorf("expected passenger-1 as creator, got %s", ride.PassengerID)
	}

	// The creator gets a participant row at creation time.
	if repo.ParticipantCount(ride.ID) != 1 {
		t.Errorf("expected 1 participant row, got %d", repo.ParticipantCount(ride.ID))
	}
}

func TestCreateSingle_RequiresAddresses(t *testing.T) {
	repo := NewMockRideRepository()
	svc := newRideService(repo)

	req := createRequest("passenger-1")
	req.PickupAddress = ""
	if _, err := svc.CreateSingle(context.Background(), req); err != service.ErrInvalidPickupAddress {
		t.Errorf("expected ErrInvalidPickupAddress, got %v", err)
	}

	req = createRequest("passenger-1")
	req.DestinationAddress = ""
	if _, err := svc.CreateSingle(context.Background(), req); err != service.ErrInvalidDestinationAddress {
		t.Errorf("expected ErrInvalidDestinationAddress, got %v", err)
	}
}

func TestCreateShared_AssignsCodeAndCapacity(t *testing.T) {
	repo := NewMockRideRepository()
	svc := newRideService(repo)

	req := createRequest("passenger-1")
	req.VehicleClass = domain.VehicleClassVan

	ride, err := svc.CreateShared(context.Background(), service.CreateSharedRideRequest{
		CreateRideRequest: req,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(ride.SharedCode) != 4 {
		t.Errorf("expected 4-character code, got %q", ride.SharedCode)
	}
	if ride.SharedCode != strings.ToUpper(ride.SharedCode) {
		t.Errorf("expected uppercase code, got %q", ride.SharedCode)
	}
	if ride.Capacity != 10 {
		t.Errorf("expected VAN capacity 10, got %d", ride.Capacity)
	}
}

func TestCreateShared_ExplicitCapacityWins(t *testing.T) {
	repo := NewMockRideRepository()
	svc := newRideService(repo)

	req := createRequest("passenger-1")
	req.VehicleClass = domain.VehicleClassCompact

	ride, err := svc.CreateShared(context.Background(), service.CreateSharedRideRequest{
		CreateRideRequest: req,
		Capacity:          6,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ride.Capacity != 6 {
		t.Errorf("expected explicit capacity 6, got %d", ride.Capacity)
	}
}

func TestCreateShared_CapacityOverridesFromConfig(t *testing.T) {
	repo := NewMockRideRepository()
	svc := service.NewRideService(repo, service.NewShareCodeGenerator(repo), nil,
		map[domain.VehicleClass]int{domain.VehicleClassVan: 12})

	req := createRequest("passenger-1")
	req.VehicleClass = domain.VehicleClassVan

	ride, err := svc.CreateShared(context.Background(), service.CreateSharedRideRequest{
		CreateRideRequest: req,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ride.Capacity != 12 {
		t.Errorf("expected overridden capacity 12, got %d", ride.Capacity)
	}
}

func TestCreateShared_RejectsUnknownVehicleClass(t *testing.T) {
	repo := NewMockRideRepository()
	svc := newRideService(repo)

	req := createRequest("passenger-1")
	req.VehicleClass = "HOVERCRAFT"

	_, err := svc.CreateShared(context.Background(), service.CreateSharedRideRequest{
		CreateRideRequest: req,
	})
	if err != service.ErrInvalidVehicleClass {
		t.Errorf("expected ErrInvalidVehicleClass, got %v", err)
	}
}

func TestAccept_MovesToAcceptedWithGeoStamp(t *testing.T) {
	repo := NewMockRideRepository()
	svc := newRideService(repo)

	ride, err := svc.CreateSingle(context.Background(), createRequest("passenger-1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	details, err := svc.Accept(context.Background(), "rider-1", ride.ID, 12.97, 77.59)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if details.Ride.Status != domain.RideStatusAccepted {
		t.Errorf("expected ACCEPTED, got %s", details.Ride.Status)
	}
	if details.Ride.RiderID != "rider-1" {
		t.Errorf("expected rider-1, got %s", details.Ride.RiderID)
	}
	if details.Ride.AcceptLat != 12.97 || details.Ride.AcceptLng != 77.59 {
		t.Errorf("expected geo-stamp (12.97, 77.59), got (%f, %f)", details.Ride.AcceptLat, details.Ride.AcceptLng)
	}
	if details.Ride.AcceptedAt.IsZero() {
		t.Error("expected AcceptedAt to be set")
	}
}

func TestAccept_FailsWhenNotPending(t *testing.T) {
	repo := NewMockRideRepository()
	svc := newRideService(repo)

	ride, _ := svc.CreateSingle(context.Background(), createRequest("passenger-1"))
	if _, err := svc.Accept(context.Background(), "rider-1", ride.ID, 0, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := svc.Accept(context.Background(), "rider-2", ride.ID, 0, 0)
	if err != service.ErrRideAlreadyTaken {
		t.Errorf("expected ErrRideAlreadyTaken, got %v", err)
	}

	if repo.GetRide(ride.ID).RiderID != "rider-1" {
		t.Errorf("expected rider-1 to keep the ride, got %s", repo.GetRide(ride.ID).RiderID)
	}
}

func TestComplete_ByAssignedRider(t *testing.T) {
	repo := NewMockRideRepository()
	svc := newRideService(repo)

	ride, _ := svc.CreateSingle(context.Background(), createRequest("passenger-1"))
	if _, err := svc.Accept(context.Background(), "rider-1", ride.ID, 12.97, 77.59); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.Complete(context.Background(), "rider-1", ride.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	saved := repo.GetRide(ride.ID)
	if saved.Status != domain.RideStatusCompleted {
		t.Errorf("expected COMPLETED, got %s", saved.Status)
	}
	if !saved.AcceptedAt.IsZero() || saved.AcceptLat != 0 || saved.AcceptLng != 0 {
		t.Error("expected acceptance geo-stamp to be cleared on completion")
	}
}

func TestComplete_RejectsOtherRider(t *testing.T) {
	repo := NewMockRideRepository()
	svc := newRideService(repo)

	ride, _ := svc.CreateSingle(context.Background(), createRequest("passenger-1"))
	svc.Accept(context.Background(), "rider-1", ride.ID, 0, 0)

	err := svc.Complete(context.Background(), "rider-2", ride.ID)
	if err != service.ErrNotAssignedRider {
		t.Errorf("expected ErrNotAssignedRider, got %v", err)
	}
}

func TestComplete_RejectsPendingRide(t *testing.T) {
	repo := NewMockRideRepository()
	svc := newRideService(repo)

	repo.AddRide(&domain.Ride{
		ID:          "ride-1",
		Type:        domain.RideTypeSingle,
		Status:      domain.RideStatusPending,
		PassengerID: "passenger-1",
		RiderID:     "rider-1",
	})

	err := svc.Complete(context.Background(), "rider-1", "ride-1")
	if err != service.ErrRideNotActive {
		t.Errorf("expected ErrRideNotActive, got %v", err)
	}
}

func TestComplete_AllowsOngoingRide(t *testing.T) {
	repo := NewMockRideRepository()
	svc := newRideService(repo)

	repo.AddRide(&domain.Ride{
		ID:          "ride-1",
		Type:        domain.RideTypeSingle,
		Status:      domain.RideStatusOngoing,
		PassengerID: "passenger-1",
		RiderID:     "rider-1",
	})

	if err := svc.Complete(context.Background(), "rider-1", "ride-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.GetRide("ride-1").Status != domain.RideStatusCompleted {
		t.Errorf("expected COMPLETED, got %s", repo.GetRide("ride-1").Status)
	}
}

func TestCancel_PendingSingleByCreator(t *testing.T) {
	repo := NewMockRideRepository()
	svc := newRideService(repo)

	ride, _ := svc.CreateSingle(context.Background(), createRequest("passenger-1"))

	outcome, err := svc.Cancel(context.Background(), "passenger-1", ride.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != service.CancelOutcomeRideCancelled {
		t.Errorf("expected RIDE_CANCELLED, got %s", outcome)
	}
	if repo.GetRide(ride.ID).Status != domain.RideStatusCancelled {
		t.Errorf("expected CANCELLED, got %s", repo.GetRide(ride.ID).Status)
	}
}

func TestCancel_RejectsStranger(t *testing.T) {
	repo := NewMockRideRepository()
	svc := newRideService(repo)

	ride, _ := svc.CreateSingle(context.Background(), createRequest("passenger-1"))

	_, err := svc.Cancel(context.Background(), "passenger-2", ride.ID)
	if err != service.ErrNotRideParticipant {
		t.Errorf("expected ErrNotRideParticipant, got %v", err)
	}
}

func TestCancel_AcceptedClearsRider(t *testing.T) {
	repo := NewMockRideRepository()
	svc := newRideService(repo)

	ride, _ := svc.CreateSingle(context.Background(), createRequest("passenger-1"))
	svc.Accept(context.Background(), "rider-1", ride.ID, 12.97, 77.59)

	outcome, err := svc.Cancel(context.Background(), "passenger-1", ride.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != service.CancelOutcomeRideCancelled {
		t.Errorf("expected RIDE_CANCELLED, got %s", outcome)
	}

	saved := repo.GetRide(ride.ID)
	if saved.Status != domain.RideStatusCancelled {
		t.Errorf("expected CANCELLED, got %s", saved.Status)
	}
	if saved.RiderID != "" {
		t.Errorf("expected rider to be cleared, got %s", saved.RiderID)
	}
	if !saved.AcceptedAt.IsZero() {
		t.Error("expected acceptance geo-stamp to be cleared")
	}
}

func TestCancel_PendingSharedParticipantLeaves(t *testing.T) {
	repo := NewMockRideRepository()
	svc := newRideService(repo)

	req := createRequest("passenger-1")
	req.VehicleClass = domain.VehicleClassCompact
	ride, err := svc.CreateShared(context.Background(), service.CreateSharedRideRequest{
		CreateRideRequest: req,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.Join(context.Background(), "passenger-2", ride.SharedCode); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	outcome, err := svc.Cancel(context.Background(), "passenger-2", ride.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != service.CancelOutcomeLeftRide {
		t.Errorf("expected LEFT_RIDE, got %s", outcome)
	}

	// The ride stays open and the seat is freed.
	if repo.GetRide(ride.ID).Status != domain.RideStatusPending {
		t.Errorf("expected ride to stay PENDING, got %s", repo.GetRide(ride.ID).Status)
	}
	if repo.ParticipantCount(ride.ID) != 1 {
		t.Errorf("expected 1 participant after leave, got %d", repo.ParticipantCount(ride.ID))
	}
}

func TestCancel_PendingSharedCreatorCancelsWhole(t *testing.T) {
	repo := NewMockRideRepository()
	svc := newRideService(repo)

	req := createRequest("passenger-1")
	req.VehicleClass = domain.VehicleClassCompact
	ride, _ := svc.CreateShared(context.Background(), service.CreateSharedRideRequest{
		CreateRideRequest: req,
	})
	svc.Join(context.Background(), "passenger-2", ride.SharedCode)

	outcome, err := svc.Cancel(context.Background(), "passenger-1", ride.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != service.CancelOutcomeRideCancelled {
		t.Errorf("expected RIDE_CANCELLED, got %s", outcome)
	}
	if repo.GetRide(ride.ID).Status != domain.RideStatusCancelled {
		t.Errorf("expected CANCELLED, got %s", repo.GetRide(ride.ID).Status)
	}
}

func TestCancel_TerminalStatesRejected(t *testing.T) {
	repo := NewMockRideRepository()
	svc := newRideService(repo)

	for _, status := range []domain.RideStatus{domain.RideStatusCompleted, domain.RideStatusCancelled} {
		t.Run(string(status), func(t *testing.T) {
			id := "ride-" + string(status)
			repo.AddRide(&domain.Ride{
				ID:          id,
				Type:        domain.RideTypeSingle,
				Status:      status,
				PassengerID: "passenger-1",
			})

			_, err := svc.Cancel(context.Background(), "passenger-1", id)
			if err != service.ErrRideNotActive {
				t.Errorf("expected ErrRideNotActive, got %v", err)
			}
		})
	}
}

// staleStatusRideRepo reports a fixed status from GetByID while the backing
// store holds the real row, mimicking a ride that transitioned between the
// service's read and its conditional write.
type staleStatusRideRepo struct {
	*MockRideRepository
	reported domain.RideStatus
}

func (r *staleStatusRideRepo) GetByID(ctx context.Context, id string) (*domain.Ride, error) {
	ride, err := r.MockRideRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ride.Status = r.reported
	return ride, nil
}

func TestCancel_DoesNotOverwriteConcurrentCompletion(t *testing.T) {
	repo := NewMockRideRepository()
	repo.AddRide(&domain.Ride{
		ID:          "ride-1",
		Type:        domain.RideTypeSingle,
		Status:      domain.RideStatusCompleted,
		PassengerID: "passenger-1",
		RiderID:     "rider-1",
	})

	// The rider completed the ride after the cancel path read it as ACCEPTED.
	stale := &staleStatusRideRepo{MockRideRepository: repo, reported: domain.RideStatusAccepted}
	svc := service.NewRideService(stale, service.NewShareCodeGenerator(stale), nil, nil)

	_, err := svc.Cancel(context.Background(), "passenger-1", "ride-1")
	if err != service.ErrRideNotActive {
		t.Errorf("expected ErrRideNotActive, got %v", err)
	}

	saved := repo.GetRide("ride-1")
	if saved.Status != domain.RideStatusCompleted {
		t.Errorf("expected ride to stay COMPLETED, got %s", saved.Status)
	}
	if saved.RiderID != "rider-1" {
		t.Errorf("expected assigned rider to survive, got %q", saved.RiderID)
	}
}

func TestListByRider_NewestFirst(t *testing.T) {
	repo := NewMockRideRepository()
	svc := newRideService(repo)

	base := time.Now()
	for i, id := range []string{"ride-old", "ride-mid", "ride-new"} {
		repo.AddRide(&domain.Ride{
			ID:          id,
			Type:        domain.RideTypeSingle,
			Status:      domain.RideStatusCompleted,
			PassengerID: "passenger-1",
			RiderID:     "rider-1",
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		})
	}

	rides, err := svc.ListByRider(context.Background(), "rider-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rides) != 3 {
		t.Fatalf("expected 3 rides, got %d", len(rides))
	}
	for i, want := range []string{"ride-new", "ride-mid", "ride-old"} {
		if rides[i].ID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, rides[i].ID)
		}
	}
}

func TestListByParticipant_NewestJoinFirst(t *testing.T) {
	repo := NewMockRideRepository()
	svc := newRideService(repo)

	base := time.Now()
	for i, id := range []string{"ride-old", "ride-mid", "ride-new"} {
		repo.AddRide(&domain.Ride{
			ID:          id,
			Type:        domain.RideTypeShared,
			Status:      domain.RideStatusPending,
			PassengerID: "passenger-9",
		})
		if err := repo.AddParticipant(context.Background(), &domain.RideParticipant{
			RideID:      id,
			PassengerID: "passenger-1",
			JoinedAt:    base.Add(time.Duration(i) * time.Minute),
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	rides, err := svc.ListByParticipant(context.Background(), "passenger-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rides) != 3 {
		t.Fatalf("expected 3 rides, got %d", len(rides))
	}
	for i, want := range []string{"ride-new", "ride-mid", "ride-old"} {
		if rides[i].ID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, rides[i].ID)
		}
	}
}

func TestListAvailable_DropsFullSharedRides(t *testing.T) {
	repo := NewMockRideRepository()
	svc := newRideService(repo)

	req := createRequest("passenger-1")
	req.VehicleClass = domain.VehicleClassCompact
	full, err := svc.CreateShared(context.Background(), service.CreateSharedRideRequest{
		CreateRideRequest: req,
		Capacity:          2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Join(context.Background(), "passenger-2", full.SharedCode); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req2 := createRequest("passenger-3")
	req2.VehicleClass = domain.VehicleClassCompact
	open, err := svc.CreateShared(context.Background(), service.CreateSharedRideRequest{
		CreateRideRequest: req2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	available, err := svc.ListAvailable(context.Background(), domain.RideTypeShared)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(available) != 1 {
		t.Fatalf("expected 1 available ride, got %d", len(available))
	}
	if available[0].Ride.ID != open.ID {
		t.Errorf("expected the open ride, got %s", available[0].Ride.ID)
	}
}

func TestListAvailable_RejectsUnknownType(t *testing.T) {
	repo := NewMockRideRepository()
	svc := newRideService(repo)

	_, err := svc.ListAvailable(context.Background(), "CARGO")
	if err != service.ErrInvalidRideType {
		t.Errorf("expected ErrInvalidRideType, got %v", err)
	}
}
