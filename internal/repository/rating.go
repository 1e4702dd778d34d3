package repository

import (
	"context"

	"campusride/internal/domain"
)

// RatingRepository defines the persistence operations for ratings.
type RatingRepository interface {
	// Create persists a new rating.
	Create(ctx context.Context, rating *domain.Rating) error

	// ListByRatee retrieves all ratings received by a user, newest first.
	ListByRatee(ctx context.Context, rateeID string) ([]*domain.Rating, error)
}
