package organization

import "time"

// Organization is a client account (tenant). It owns projects, invoices, and
// hour registrations, and users are attached to it through memberships.
type Organization struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateOrganizationInput holds the fields required to create an organization.
type CreateOrganizationInput struct {
	Name string `json:"name"`
}

// UpdateOrganizationInput holds optional fields for a partial update.
type UpdateOrganizationInput struct {
	Name *string `json:"name,omitempty"`
}
