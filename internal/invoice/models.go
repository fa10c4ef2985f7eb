package invoice

import "time"

// Invoice types.
const (
	TypeManual = "manual"
	TypeAuto   = "auto"
)

// Invoice statuses. Manual invoices start open; auto invoices are issued
// directly as sent, because the billing engine dispatches them the moment
// the milestone is reached.
const (
	StatusOpen    = "open"
	StatusSent    = "sent"
	StatusPaid    = "paid"
	StatusOverdue = "overdue"
	StatusVoid    = "void"
)

// Payment milestones for auto invoices. Manual invoices carry no milestone.
const (
	MilestoneFirstPayment = "first_payment"
	MilestoneFinalPayment = "final_payment"
)

// Invoice is a billing document. Number is unique and formatted
// INV-{year}-{sequence}. Amount is the total incl. VAT as a decimal string.
// Milestone is set only on auto invoices and, together with ProjectID, makes
// stage-driven billing idempotent.
type Invoice struct {
	ID             string    `json:"id"`
	Number         string    `json:"number"`
	Amount         string    `json:"amount"`
	Status         string    `json:"status"`
	Type           string    `json:"type"`
	Milestone      *string   `json:"milestone"`
	Description    string    `json:"description"`
	ProjectID      *string   `json:"project_id"`
	OrganizationID string    `json:"organization_id"`
	DueDate        time.Time `json:"due_date"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreateInvoiceInput holds the fields to insert a new invoice row.
type CreateInvoiceInput struct {
	Number         string
	Amount         string
	Status         string
	Type           string
	Milestone      *string
	Description    string
	ProjectID      *string
	OrganizationID string
	DueDate        time.Time
}

// ValidStatus reports whether s is a known invoice status.
func ValidStatus(s string) bool {
	switch s {
	case StatusOpen, StatusSent, StatusPaid, StatusOverdue, StatusVoid:
		return true
	}
	return false
}
