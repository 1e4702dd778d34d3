package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"campusride/internal/auth"
	"campusride/internal/domain"
	"campusride/internal/repository"
)

// AccountService handles registration, login and profile lookups for all
// three roles. Passengers authenticate by email, riders by phone, admins by
// email; each login also asserts the stored role so a passenger token can
// never be minted from a rider account.
type AccountService struct {
	userRepo   repository.UserRepository
	tokens     *auth.TokenIssuer
	bcryptCost int
}

// NewAccountService creates a new AccountService.
func NewAccountService(userRepo repository.UserRepository, tokens *auth.TokenIssuer, bcryptCost int) *AccountService {
	return &AccountService{userRepo: userRepo, tokens: tokens, bcryptCost: bcryptCost}
}

// RegisterPassengerRequest contains the parameters for passenger signup.
type RegisterPassengerRequest struct {
	Name               string
	Email              string
	Phone              string
	Gender             string
	RegistrationNumber string
	Password           string
}

// RegisterRiderRequest contains the parameters for rider signup.
type RegisterRiderRequest struct {
	Name          string
	Phone         string
	LicenseNumber string
	LicensePlate  string
	Password      string
}

// AuthResult is a freshly issued token plus the account it belongs to.
type AuthResult struct {
	Token string
	User  *domain.User
}

// RegisterPassenger creates a passenger account and logs it in.
func (s *AccountService) RegisterPassenger(ctx context.Context, req RegisterPassengerRequest) (*AuthResult, error) {
	hash, err := auth.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:                 uuid.New().String(),
		Name:               req.Name,
		Email:              req.Email,
		Phone:              req.Phone,
		Role:               domain.RolePassenger,
		Gender:             req.Gender,
		RegistrationNumber: req.RegistrationNumber,
		PasswordHash:       hash,
		CreatedAt:          time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAccountExists
		}
		return nil, err
	}

	return s.login(user)
}

// RegisterRider creates a rider account and logs it in.
func (s *AccountService) RegisterRider(ctx context.Context, req RegisterRiderRequest) (*AuthResult, error) {
	hash, err := auth.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:            uuid.New().String(),
		Name:          req.Name,
		Phone:         req.Phone,
		Role:          domain.RoleRider,
		LicenseNumber: req.LicenseNumber,
		LicensePlate:  req.LicensePlate,
		PasswordHash:  hash,
		CreatedAt:     time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAccountExists
		}
		return nil, err
	}

	return s.login(user)
}

// EnsureAdmin creates an admin account unless the email is already taken.
// Used to bootstrap the first admin from configuration at startup.
func (s *AccountService) EnsureAdmin(ctx context.Context, name, email, password string) error {
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return err
	}

	user := &domain.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		Role:         domain.RoleAdmin,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil
		}
		return err
	}
	return nil
}

// LoginByEmail authenticates an email-based account (passengers, admins).
func (s *AccountService) LoginByEmail(ctx context.Context, email, password string, role domain.Role) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	return s.verify(user, err, password, role)
}

// LoginByPhone authenticates a phone-based account (riders).
func (s *AccountService) LoginByPhone(ctx context.Context, phone, password string, role domain.Role) (*AuthResult, error) {
	user, err := s.userRepo.GetByPhone(ctx, phone)
	return s.verify(user, err, password, role)
}

// GetProfile retrieves a user's profile.
func (s *AccountService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *AccountService) verify(user *domain.User, lookupErr error, password string, role domain.Role) (*AuthResult, error) {
	if lookupErr != nil {
		if errors.Is(lookupErr, repository.ErrNotFound) {
			return nil, ErrCredentialsInvalid
		}
		return nil, lookupErr
	}
	if user.Role != role {
		return nil, ErrCredentialsInvalid
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, ErrCredentialsInvalid
	}
	return s.login(user)
}

func (s *AccountService) login(user *domain.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}
