package repository

import (
	"context"

	"campusride/internal/domain"
)

// UserRepository defines the persistence operations for users.
type UserRepository interface {
	// Create persists a new user. ErrDuplicate when the email, phone or
	// license plate is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by email.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetByPhone retrieves a user by phone number.
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)

	// GetAll retrieves users, optionally filtered by role, newest first.
	GetAll(ctx context.Context, role domain.Role) ([]*domain.User, error)

	// CountByRole returns the number of users holding the role.
	CountByRole(ctx context.Context, role domain.Role) (int64, error)

	// UpdatePhotoURL sets the profile photo URL for a user.
	UpdatePhotoURL(ctx context.Context, id, url string) error
}
