package service

import (
	"context"
	"math/rand"
	"strings"
)

const (
	shareCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	shareCodeLength   = 4

	// shareCodeMaxAttempts bounds the collision retry loop. With 36^4
	// (~1.68M) possible codes and campus-scale ride volume, a single
	// collision is already rare; six attempts failing in a row means
	// something is badly wrong with the code space.
	shareCodeMaxAttempts = 6
)

// ShareCodeChecker is the slice of the ride store the generator needs.
type ShareCodeChecker interface {
	SharedCodeExists(ctx context.Context, code string) (bool, error)
}

// ShareCodeGenerator issues unique 4-character uppercase alphanumeric join
// codes. Uniqueness is probabilistic-with-verification: draw a random code,
// check it against the store, retry on collision.
type ShareCodeGenerator struct {
	checker ShareCodeChecker
}

// NewShareCodeGenerator creates a new ShareCodeGenerator.
func NewShareCodeGenerator(checker ShareCodeChecker) *ShareCodeGenerator {
	return &ShareCodeGenerator{checker: checker}
}

// Generate returns a code not currently held by any ride, or
// ErrShareCodeExhausted after the retry budget is spent.
func (g *ShareCodeGenerator) Generate(ctx context.Context) (string, error) {
	for i := 0; i < shareCodeMaxAttempts; i++ {
		code := randomShareCode()

		exists, err := g.checker.SharedCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", ErrShareCodeExhausted
}

func randomShareCode() string {
	var b strings.Builder
	b.Grow(shareCodeLength)
	for i := 0; i < shareCodeLength; i++ {
		b.WriteByte(shareCodeAlphabet[rand.Intn(len(shareCodeAlphabet))])
	}
	return b.String()
}

// NormalizeShareCode uppercases a user-supplied join code so lookups are
// case-insensitive.
func NormalizeShareCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
