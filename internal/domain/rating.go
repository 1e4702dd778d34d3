package domain

import "time"

// Rating is a one-directional integer score between two people who shared a
// completed ride. Nothing prevents repeat ratings for the same pair; whether
// that should be constrained is an open product question.
type Rating struct {
	ID        string
	RideID    string
	RaterID   string
	RateeID   string
	Score     int // 1..5
	CreatedAt time.Time
}

// Rating score bounds.
const (
	MinRatingScore = 1
	MaxRatingScore = 5
)

// ValidRatingScore reports whether the score is inside [1,5].
func ValidRatingScore(score int) bool {
	return score >= MinRatingScore && score <= MaxRatingScore
}
