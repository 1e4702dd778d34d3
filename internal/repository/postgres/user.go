package postgres

import (
	"context"
	"database/sql"
	"errors"

	"campusride/internal/domain"
	"campusride/internal/repository"
)

// UserRepository is a PostgreSQL implementation of repository.UserRepository.
type UserRepository struct {
	q Querier
}

// NewUserRepository creates a new PostgreSQL user repository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{q: db}
}

const userColumns = `
	id, name, email, phone, role, gender, password_hash,
	registration_number, license_number, license_plate, photo_url, created_at
`

// Create persists a new user.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.q.ExecContext(ctx, query,
		user.ID,
		user.Name,
		nullString(user.Email),
		nullString(user.Phone),
		user.Role,
		nullString(user.Gender),
		user.PasswordHash,
		nullString(user.RegistrationNumber),
		nullString(user.LicenseNumber),
		nullString(user.LicensePlate),
		nullString(user.PhotoURL),
		user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.q.QueryRowContext(ctx, query, id))
}

// GetByEmail retrieves a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.q.QueryRowContext(ctx, query, email))
}

// GetByPhone retrieves a user by phone number.
func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE phone = $1`
	return r.scanUser(r.q.QueryRowContext(ctx, query, phone))
}

// GetAll retrieves users, optionally filtered by role, newest first.
func (r *UserRepository) GetAll(ctx context.Context, role domain.Role) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	var args []any
	if role != "" {
		query += ` WHERE role = $1`
		args = append(args, role)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := r.scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// CountByRole returns the number of users holding the role.
func (r *UserRepository) CountByRole(ctx context.Context, role domain.Role) (int64, error) {
	var count int64
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, role).Scan(&count)
	return count, err
}

// UpdatePhotoURL sets the profile photo URL for a user.
func (r *UserRepository) UpdatePhotoURL(ctx context.Context, id, url string) error {
	result, err := r.q.ExecContext(ctx, `UPDATE users SET photo_url = $1 WHERE id = $2`, nullString(url), id)
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

func (r *UserRepository) scanUser(row rowScanner) (*domain.User, error) {
	var user domain.User
	var email, phone, gender, regNumber, licenseNumber, licensePlate, photoURL sql.NullString

	err := row.Scan(
		&user.ID,
		&user.Name,
		&email,
		&phone,
		&user.Role,
		&gender,
		&user.PasswordHash,
		&regNumber,
		&licenseNumber,
		&licensePlate,
		&photoURL,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	user.Email = email.String
	user.Phone = phone.String
	user.Gender = gender.String
	user.RegistrationNumber = regNumber.String
	user.LicenseNumber = licenseNumber.String
	user.LicensePlate = licensePlate.String
	user.PhotoURL = photoURL.String

	return &user, nil
}
