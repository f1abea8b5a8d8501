// Package auth implements the coarse identity check used by the admin
// endpoints. The caller's email arrives in a request header; anyone
// presenting the configured admin email is the admin. There is no
// verification of the header, so this gates convenience, not security.
package auth

import (
	"net/http"
	"strings"
)

// IdentityHeader carries the caller's email
const IdentityHeader = "X-User-Email"

// Service answers admin checks against the configured admin email
type Service struct {
	adminEmail string
}

// New creates a Service. An empty adminEmail disables admin access.
func New(adminEmail string) *Service {
	return &Service{
		adminEmail: strings.ToLower(strings.TrimSpace(adminEmail)),
	}
}

// Identity extracts the caller's email from the request, empty when anonymous
func Identity(r *http.Request) string {
	return strings.ToLower(strings.TrimSpace(r.Header.Get(IdentityHeader)))
}

// IsAdmin reports whether the request carries the admin identity
func (s *Service) IsAdmin(r *http.Request) bool {
	if s.adminEmail == "" {
		return false
	}
	return Identity(r) == s.adminEmail
}
