package postgres

import (
	"context"
	"database/sql"

	"campusride/internal/domain"
)

// RatingRepository is a PostgreSQL implementation of repository.RatingRepository.
type RatingRepository struct {
	q Querier
}

// NewRatingRepository creates a new PostgreSQL rating repository.
func NewRatingRepository(db *sql.DB) *RatingRepository {
	return &RatingRepository{q: db}
}

// Create persists a new rating.
func (r *RatingRepository) Create(ctx context.Context, rating *domain.Rating) error {
	query := `
		INSERT INTO ratings (id, ride_id, rater_id, ratee_id, score, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.q.ExecContext(ctx, query,
		rating.ID,
		rating.RideID,
		rating.RaterID,
		rating.RateeID,
		rating.Score,
		rating.CreatedAt,
	)
	return err
}

// ListByRatee retrieves all ratings received by a user, newest first.
func (r *RatingRepository) ListByRatee(ctx context.Context, rateeID string) ([]*domain.Rating, error) {
	query := `
		SELECT id, ride_id, rater_id, ratee_id, score, created_at
		FROM ratings
		WHERE ratee_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.q.QueryContext(ctx, query, rateeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ratings []*domain.Rating
	for rows.Next() {
		var rating domain.Rating
		if err := rows.Scan(
			&rating.ID,
			&rating.RideID,
			&rating.RaterID,
			&rating.RateeID,
			&rating.Score,
			&rating.CreatedAt,
		); err != nil {
			return nil, err
		}
		ratings = append(ratings, &rating)
	}
	return ratings, rows.Err()
}
