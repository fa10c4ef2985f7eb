package auth

import "context"

// User represents an authenticated portal user.
type User struct {
	ID             string
	Email          string
	Name           string
	OrganizationID *string
}

// SessionLookup is the interface for resolving session tokens to users.
type SessionLookup interface {
	LookupSession(ctx context.Context, token string) (*User, error)
}

// AdminCheck decides whether an email belongs to a platform administrator.
// The access package supplies the concrete domain-suffix rule so this package
// stays free of authorization policy.
type AdminCheck func(email string) bool
