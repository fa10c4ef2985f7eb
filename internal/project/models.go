package project

import (
	"time"

	"github.com/Jurredr/exo-client-portal-sub000/internal/stage"
)

// Operational project statuses. Status is free-form operational state and is
// independent of the lifecycle stage.
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusOnHold    = "on_hold"
	StatusCancelled = "cancelled"
)

// Project is a unit of work owned by one organization. Subtotal is the
// pre-tax amount stored as a decimal string; Stage must be one of the stages
// defined for the project's Kind.
type Project struct {
	ID             string      `json:"id"`
	Title          string      `json:"title"`
	Status         string      `json:"status"`
	Kind           stage.Kind  `json:"kind"`
	Stage          stage.Stage `json:"stage"`
	Subtotal       string      `json:"subtotal"`
	OrganizationID string      `json:"organization_id"`
	StartDate      *time.Time  `json:"start_date"`
	Deadline       *time.Time  `json:"deadline"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// CreateProjectInput holds the fields required to create a project. Stage is
// omitted: new projects always start at the default stage for their kind.
type CreateProjectInput struct {
	Title          string     `json:"title"`
	Kind           stage.Kind `json:"kind"`
	Subtotal       string     `json:"subtotal"`
	OrganizationID string     `json:"organization_id"`
	StartDate      *time.Time `json:"start_date"`
	Deadline       *time.Time `json:"deadline"`
}

// UpdateProjectInput holds optional fields for a partial project update.
type UpdateProjectInput struct {
	Title          *string      `json:"title,omitempty"`
	Status         *string      `json:"status,omitempty"`
	Stage          *stage.Stage `json:"stage,omitempty"`
	Subtotal       *string      `json:"subtotal,omitempty"`
	OrganizationID *string      `json:"organization_id,omitempty"`
	StartDate      *time.Time   `json:"start_date,omitempty"`
	Deadline       *time.Time   `json:"deadline,omitempty"`
}

// ValidStatus reports whether s is a known operational status.
func ValidStatus(s string) bool {
	switch s {
	case StatusActive, StatusCompleted, StatusOnHold, StatusCancelled:
		return true
	}
	return false
}
