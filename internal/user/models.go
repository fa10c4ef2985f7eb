package user

import "time"

// User is a portal account. OrganizationID is the legacy single-valued
// "primary organization" column kept from before memberships became
// many-to-many. It is maintained as a derived cache of the membership set:
// always the first-inserted membership, or nil when the user has none. The
// organization_members join table is the source of truth.
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	Name           string    `json:"name"`
	OrganizationID *string   `json:"organization_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreateUserInput holds the fields required to create a new user.
type CreateUserInput struct {
	Email           string   `json:"email"`
	Password        string   `json:"password"`
	Name            string   `json:"name"`
	OrganizationIDs []string `json:"organization_ids"`
}

// UpdateUserInput holds optional fields for a partial user update. Membership
// changes go through ReplaceMemberships instead, so the legacy column cannot
// drift from the join table.
type UpdateUserInput struct {
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
	Name     *string `json:"name,omitempty"`
}

// Session represents an active user session.
type Session struct {
	TokenHash string    `json:"-"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
