package hours

import (
	"errors"
	"time"
)

// Category classifies a block of registered hours. Only CategoryClient hours
// attach to a project; the rest are internal time.
type Category string

const (
	CategoryClient         Category = "client"
	CategoryAdministration Category = "administration"
	CategoryBrainstorming  Category = "brainstorming"
	CategoryResearch       Category = "research"
	CategoryLabs           Category = "labs"
)

var (
	// ErrInvalidCategory is returned for unknown category values.
	ErrInvalidCategory = errors.New("unknown hour category")
	// ErrProjectNotAllowed is returned when a non-client registration
	// carries a project reference.
	ErrProjectNotAllowed = errors.New("only client hours may reference a project")
	// ErrProjectRequired is returned when client hours lack a project.
	ErrProjectRequired = errors.New("client hours require a project")
	// ErrInvalidHours is returned for non-positive hour amounts.
	ErrInvalidHours = errors.New("hours must be greater than zero")
)

// Registration is a block of hours logged by a user on a given date.
type Registration struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Category    Category   `json:"category"`
	ProjectID   *string    `json:"project_id"`
	Hours       float64    `json:"hours"`
	Description string     `json:"description"`
	Date        time.Time  `json:"date"`
	CreatedAt   time.Time  `json:"created_at"`
}

// CreateRegistrationInput holds the fields to log hours.
type CreateRegistrationInput struct {
	UserID      string    `json:"user_id"`
	Category    Category  `json:"category"`
	ProjectID   *string   `json:"project_id"`
	Hours       float64   `json:"hours"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
}

// ValidCategory reports whether c is a known category.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryClient, CategoryAdministration, CategoryBrainstorming,
		CategoryResearch, CategoryLabs:
		return true
	}
	return false
}

// Validate checks a registration input against the category rules.
func (in CreateRegistrationInput) Validate() error {
	if !ValidCategory(in.Category) {
		return ErrInvalidCategory
	}
	if in.Hours <= 0 {
		return ErrInvalidHours
	}
	if in.Category == CategoryClient {
		if in.ProjectID == nil || *in.ProjectID == "" {
			return ErrProjectRequired
		}
	} else if in.ProjectID != nil {
		return ErrProjectNotAllowed
	}
	return nil
}
