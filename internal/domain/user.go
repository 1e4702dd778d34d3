package domain

import "time"

// Role represents the kind of account a user holds.
type Role string

const (
	RolePassenger Role = "PASSENGER"
	RoleRider     Role = "RIDER"
	RoleAdmin     Role = "ADMIN"
)

// User represents an account in the system. Passengers carry a campus
// registration number; riders carry license details.
type User struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	Role         Role
	Gender       string
	PasswordHash string

	// Passenger-only.
	RegistrationNumber string

	// Rider-only.
	LicenseNumber string
	LicensePlate  string

	PhotoURL  string
	CreatedAt time.Time
}
