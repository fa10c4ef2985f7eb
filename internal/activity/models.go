package activity

import "time"

// Event actions recorded in the activity feed.
const (
	ActionProjectCreated = "project.created"
	ActionProjectUpdated = "project.updated"
	ActionStageChanged   = "project.stage_changed"
	ActionInvoiceCreated = "invoice.created"
	ActionInvoicePaid    = "invoice.paid"
	ActionHoursLogged    = "hours.logged"
	ActionUserLoggedIn   = "user.logged_in"
)

// Event is a single activity feed entry. Detail is a short human-readable
// summary; OrganizationID scopes who may see the event.
type Event struct {
	ID             string    `json:"id"`
	Action         string    `json:"action"`
	ActorID        string    `json:"actor_id"`
	OrganizationID *string   `json:"organization_id"`
	SubjectID      *string   `json:"subject_id"`
	Detail         string    `json:"detail"`
	OccurredAt     time.Time `json:"occurred_at"`
}
