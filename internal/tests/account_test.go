package tests

import (
	"context"
	"testing"
	"time"

	"campusride/internal/auth"
	"campusride/internal/domain"
	"campusride/internal/service"
)

// Minimum bcrypt cost keeps the hashing fast in tests.
const testBcryptCost = 4

func newAccountService(t *testing.T, repo *MockUserRepository) (*service.AccountService, *auth.TokenIssuer) {
	t.Helper()
	tokens, err := auth.NewTokenIssuer("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("failed to create token issuer: %v", err)
	}
	return service.NewAccountService(repo, tokens, testBcryptCost), tokens
}

func TestRegisterPassenger_IssuesValidToken(t *testing.T) {
	repo := NewMockUserRepository()
	svc, tokens := newAccountService(t, repo)

	result, err := svc.RegisterPassenger(context.Background(), service.RegisterPassengerRequest{
		Name:               "Asha",
		Email:              "asha@campus.edu",
		Phone:              "9876543210",
		RegistrationNumber: "REG-001",
		Password:           "hunter2hunter2",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.User.Role != domain.RolePassenger {
		t.Errorf("expected PASSENGER role, got %s", result.User.Role)
	}
	if result.User.PasswordHash == "hunter2hunter2" {
		t.Error("expected password to be hashed")
	}
	if !auth.CheckPassword("hunter2hunter2", result.User.PasswordHash) {
		t.Error("expected stored hash to verify against the password")
	}

	claims, err := tokens.Verify(result.Token)
	if err != nil {
		t.Fatalf("token failed verification: %v", err)
	}
	if claims.UserID != result.User.ID {
		t.Errorf("expected token for %s, got %s", result.User.ID, claims.UserID)
	}
	if claims.Role != domain.RolePassenger {
		t.Errorf("expected PASSENGER claim, got %s", claims.Role)
	}
}

func TestRegisterPassenger_DuplicateEmail(t *testing.T) {
	repo := NewMockUserRepository()
	svc, _ := newAccountService(t, repo)

	req := service.RegisterPassengerRequest{
		Name:               "Asha",
		Email:              "asha@campus.edu",
		Phone:              "9876543210",
		RegistrationNumber: "REG-001",
		Password:           "hunter2hunter2",
	}

	if _, err := svc.RegisterPassenger(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req.Phone = "9876543211"
	_, err := svc.RegisterPassenger(context.Background(), req)
	if err != service.ErrAccountExists {
		t.Errorf("expected ErrAccountExists, got %v", err)
	}
}

func TestRegisterRider_CarriesLicenseDetails(t *testing.T) {
	repo := NewMockUserRepository()
	svc, _ := newAccountService(t, repo)

	result, err := svc.RegisterRider(context.Background(), service.RegisterRiderRequest{
		Name:          "Ravi",
		Phone:         "9000000001",
		LicenseNumber: "DL-42-2019",
		LicensePlate:  "KA-01-AB-1234",
		Password:      "hunter2hunter2",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.User.Role != domain.RoleRider {
		t.Errorf("expected RIDER role, got %s", result.User.Role)
	}
	if result.User.LicensePlate != "KA-01-AB-1234" {
		t.Errorf("expected license plate, got %s", result.User.LicensePlate)
	}
}

func TestEnsureAdmin_IdempotentOnExistingEmail(t *testing.T) {
	repo := NewMockUserRepository()
	svc, _ := newAccountService(t, repo)

	if err := svc.EnsureAdmin(context.Background(), "Root", "admin@campus.edu", "hunter2hunter2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.EnsureAdmin(context.Background(), "Root", "admin@campus.edu", "hunter2hunter2"); err != nil {
		t.Fatalf("expected second bootstrap to be a no-op, got %v", err)
	}

	count, _ := repo.CountByRole(context.Background(), domain.RoleAdmin)
	if count != 1 {
		t.Errorf("expected 1 admin, got %d", count)
	}

	if _, err := svc.LoginByEmail(context.Background(), "admin@campus.edu", "hunter2hunter2", domain.RoleAdmin); err != nil {
		t.Fatalf("expected admin login to succeed, got %v", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := NewMockUserRepository()
	svc, _ := newAccountService(t, repo)

	if _, err := svc.RegisterPassenger(context.Background(), service.RegisterPassengerRequest{
		Name:               "Asha",
		Email:              "asha@campus.edu",
		Phone:              "9876543210",
		RegistrationNumber: "REG-001",
		Password:           "hunter2hunter2",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := svc.LoginByEmail(context.Background(), "asha@campus.edu", "wrong-password", domain.RolePassenger)
	if err != service.ErrCredentialsInvalid {
		t.Errorf("expected ErrCredentialsInvalid, got %v", err)
	}
}

func TestLogin_UnknownAccount(t *testing.T) {
	repo := NewMockUserRepository()
	svc, _ := newAccountService(t, repo)

	_, err := svc.LoginByEmail(context.Background(), "nobody@campus.edu", "whatever", domain.RolePassenger)
	if err != service.ErrCredentialsInvalid {
		t.Errorf("expected ErrCredentialsInvalid, got %v", err)
	}
}

func TestLogin_RoleMismatch(t *testing.T) {
	repo := NewMockUserRepository()
	svc, _ := newAccountService(t, repo)

	if _, err := svc.RegisterPassenger(context.Background(), service.RegisterPassengerRequest{
		Name:               "Asha",
		Email:              "asha@campus.edu",
		Phone:              "9876543210",
		RegistrationNumber: "REG-001",
		Password:           "hunter2hunter2",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A passenger account must not mint an admin token.
	_, err := svc.LoginByEmail(context.Background(), "asha@campus.edu", "hunter2hunter2", domain.RoleAdmin)
	if err != service.ErrCredentialsInvalid {
		t.Errorf("expected ErrCredentialsInvalid, got %v", err)
	}
}

func TestLoginByPhone_Rider(t *testing.T) {
	repo := NewMockUserRepository()
	svc, _ := newAccountService(t, repo)

	if _, err := svc.RegisterRider(context.Background(), service.RegisterRiderRequest{
		Name:          "Ravi",
		Phone:         "9000000001",
		LicenseNumber: "DL-42-2019",
		LicensePlate:  "KA-01-AB-1234",
		Password:      "hunter2hunter2",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := svc.LoginByPhone(context.Background(), "9000000001", "hunter2hunter2", domain.RoleRider)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Token == "" {
		t.Error("expected a token")
	}
}
