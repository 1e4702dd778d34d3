package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Fare is a monetary amount in cents. Fares arrive as decimal strings and are
// stored as integers so no floating-point rounding ever touches an amount.
type Fare int64

var (
	// ErrFareMalformed is returned when a fare string cannot be parsed.
	ErrFareMalformed = errors.New("malformed fare amount")

	// ErrFareNegative is returned when a fare is below zero.
	ErrFareNegative = errors.New("fare must be non-negative")
)

// ParseFare parses a decimal string such as "12", "12.5" or "12.50" into a
// Fare. At most two fractional digits are accepted.
func ParseFare(s string) (Fare, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrFareMalformed
	}

	negative := strings.HasPrefix(s, "-")
	if negative {
		return 0, ErrFareNegative
	}

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}

	// Both parts must be bare digit runs; ParseInt alone would let a stray
	// sign inside either part through and silently change the amount.
	if !allDigits(whole) || (frac != "" && !allDigits(frac)) {
		return 0, ErrFareMalformed
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, ErrFareMalformed
	}

	var cents int64
	switch len(frac) {
	case 0:
		cents = 0
	case 1:
		d, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, ErrFareMalformed
		}
		cents = d * 10
	case 2:
		d, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, ErrFareMalformed
		}
		cents = d
	default:
		return 0, ErrFareMalformed
	}

	return Fare(units*100 + cents), nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Cents returns the raw amount in cents.
func (f Fare) Cents() int64 {
	return int64(f)
}

// String renders the fare as a decimal with two fractional digits.
func (f Fare) String() string {
	return fmt.Sprintf("%d.%02d", int64(f)/100, int64(f)%100)
}

// MarshalJSON renders the fare as a JSON string to keep it exact on the wire.
func (f Fare) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(f.String())), nil
}
