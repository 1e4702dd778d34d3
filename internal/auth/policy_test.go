package auth

import (
	"testing"

	"campusride/internal/domain"
)

func TestAllowed(t *testing.T) {
	testCases := []struct {
		name    string
		role    domain.Role
		allowed []domain.Role
		want    bool
	}{
		{"passenger in passenger set", domain.RolePassenger, []domain.Role{domain.RolePassenger}, true},
		{"rider not in passenger set", domain.RoleRider, []domain.Role{domain.RolePassenger}, false},
		{"admin in multi set", domain.RoleAdmin, []domain.Role{domain.RolePassenger, domain.RoleAdmin}, true},
		{"empty role always denied", "", []domain.Role{domain.RolePassenger}, false},
		{"empty allowed set denies", domain.RoleAdmin, nil, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Allowed(tc.role, tc.allowed...); got != tc.want {
				t.Errorf("Allowed(%q, %v) = %v, want %v", tc.role, tc.allowed, got, tc.want)
			}
		})
	}
}
