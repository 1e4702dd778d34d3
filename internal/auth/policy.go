package auth

import "campusride/internal/domain"

// Allowed is the access policy gate: it reports whether the authenticated
// role is in the allowed set. An empty role means the caller never
// authenticated and is always denied.
func Allowed(role domain.Role, allowed ...domain.Role) bool {
	if role == "" {
		return false
	}
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}
