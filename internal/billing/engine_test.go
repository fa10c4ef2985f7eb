package billing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Jurredr/exo-client-portal-sub000/internal/invoice"
	"github.com/Jurredr/exo-client-portal-sub000/internal/project"
	"github.com/Jurredr/exo-client-portal-sub000/internal/stage"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

type mockInvoices struct {
	created []invoice.CreateInvoiceInput
	seq     int

	nextNumberErr error
	createErr     error
	hasLookupErr  error
}

func (m *mockInvoices) NextNumber(ctx context.Context, year int) (string, error) {
	if m.nextNumberErr != nil {
		return "", m.nextNumberErr
	}
	m.seq++
	return fmt.Sprintf("INV-%d-%04d", year, m.seq), nil
}

func (m *mockInvoices) HasAutoInvoice(ctx context.Context, projectID, milestone string) (bool, error) {
	if m.hasLookupErr != nil {
		return false, m.hasLookupErr
	}
	for _, in := range m.created {
		if in.Type == invoice.TypeAuto && in.ProjectID != nil &&
			*in.ProjectID == projectID && in.Milestone != nil && *in.Milestone == milestone {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockInvoices) Create(ctx context.Context, in invoice.CreateInvoiceInput) (*invoice.Invoice, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.created = append(m.created, in)
	return &invoice.Invoice{ID: fmt.Sprintf("inv-%d", len(m.created)), Number: in.Number}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedClock() func() time.Time {
	return func() time.Time {
		return time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	}
}

func clientProject() *project.Project {
	return &project.Project{
		ID:             "p1",
		Title:          "Website Redesign",
		Kind:           stage.KindClient,
		Stage:          stage.PayFirst,
		Subtotal:       "1000",
		OrganizationID: "org-a",
	}
}

func TestOnStageChange_FirstPayment(t *testing.T) {
	invoices := &mockInvoices{}
	engine := NewEngine(invoices, 30, discardLogger(), WithClock(fixedClock()))

	engine.OnStageChange(context.Background(), clientProject(), stage.KickOff, stage.PayFirst)

	if len(invoices.created) != 1 {
		t.Fatalf("expected 1 invoice, got %d", len(invoices.created))
	}
	in := invoices.created[0]
	if in.Number != "INV-2025-0001" {
		t.Errorf("number = %q, want INV-2025-0001", in.Number)
	}
	if in.Amount != "605.00" {
		t.Errorf("amount = %q, want 605.00 (half of 1210 incl. VAT)", in.Amount)
	}
	if in.Type != invoice.TypeAuto {
		t.Errorf("type = %q, want auto", in.Type)
	}
	if in.Status != invoice.StatusSent {
		t.Errorf("status = %q, want sent (auto invoices are dispatched on creation)", in.Status)
	}
	if in.Milestone == nil || *in.Milestone != invoice.MilestoneFirstPayment {
		t.Errorf("milestone = %v, want first_payment", in.Milestone)
	}
	if in.Description != "Payment for Website Redesign - First payment" {
		t.Errorf("unexpected description %q", in.Description)
	}
	wantDue := time.Date(2025, time.April, 9, 12, 0, 0, 0, time.UTC)
	if !in.DueDate.Equal(wantDue) {
		t.Errorf("due date = %v, want %v", in.DueDate, wantDue)
	}
}

func TestOnStageChange_IdempotentPerMilestone(t *testing.T) {
	invoices := &mockInvoices{}
	engine := NewEngine(invoices, 30, discardLogger(), WithClock(fixedClock()))
	ctx := context.Background()
	p := clientProject()

	engine.OnStageChange(ctx, p, stage.KickOff, stage.PayFirst)
	// Project bounces back through revisions and re-enters the same stage.
	engine.OnStageChange(ctx, p, stage.Revise, stage.PayFirst)
	engine.OnStageChange(ctx, p, stage.Deliver, stage.PayFirst)

	if len(invoices.created) != 1 {
		t.Fatalf("re-entering a milestone must not re-invoice, got %d invoices", len(invoices.created))
	}

	// A different milestone is billed independently.
	engine.OnStageChange(ctx, p, stage.Revise, stage.PayFinal)
	if len(invoices.created) != 2 {
		t.Fatalf("expected second invoice for final payment, got %d", len(invoices.created))
	}
	second := invoices.created[1]
	if second.Milestone == nil || *second.Milestone != invoice.MilestoneFinalPayment {
		t.Errorf("milestone = %v, want final_payment", second.Milestone)
	}
	if second.Description != "Payment for Website Redesign - Final payment" {
		t.Errorf("unexpected description %q", second.Description)
	}
}

func TestOnStageChange_NonMilestoneStagesIgnored(t *testing.T) {
	invoices := &mockInvoices{}
	engine := NewEngine(invoices, 30, discardLogger())
	ctx := context.Background()
	p := clientProject()

	engine.OnStageChange(ctx, p, stage.KickOff, stage.Deliver)
	engine.OnStageChange(ctx, p, stage.Deliver, stage.Revise)
	engine.OnStageChange(ctx, p, stage.PayFinal, stage.Completed)
	engine.OnStageChange(ctx, p, stage.PayFirst, stage.PayFirst)

	if len(invoices.created) != 0 {
		t.Fatalf("expected no invoices, got %d", len(invoices.created))
	}
}

func TestOnStageChange_ZeroSubtotalSkips(t *testing.T) {
	invoices := &mockInvoices{}
	var skipped int
	engine := NewEngine(invoices, 30, discardLogger(),
		WithMetricHooks(nil, func() { skipped++ }, nil))

	p := clientProject()
	p.Subtotal = "0"
	engine.OnStageChange(context.Background(), p, stage.KickOff, stage.PayFirst)

	if len(invoices.created) != 0 {
		t.Fatalf("zero subtotal must not invoice, got %d", len(invoices.created))
	}
	if skipped != 1 {
		t.Errorf("skipped hook fired %d times, want 1", skipped)
	}
}

func TestOnStageChange_UnparsableSubtotalSkips(t *testing.T) {
	invoices := &mockInvoices{}
	engine := NewEngine(invoices, 30, discardLogger())

	p := clientProject()
	p.Subtotal = "not-a-number"
	engine.OnStageChange(context.Background(), p, stage.KickOff, stage.PayFirst)

	if len(invoices.created) != 0 {
		t.Fatalf("unparsable subtotal must not invoice, got %d", len(invoices.created))
	}
}

func TestOnStageChange_MissingOrganizationSkips(t *testing.T) {
	invoices := &mockInvoices{}
	engine := NewEngine(invoices, 30, discardLogger())

	p := clientProject()
	p.OrganizationID = ""
	engine.OnStageChange(context.Background(), p, stage.KickOff, stage.PayFirst)

	if len(invoices.created) != 0 {
		t.Fatalf("project without organization must not invoice, got %d", len(invoices.created))
	}
}

func TestOnStageChange_ErrorsAreSuppressed(t *testing.T) {
	invoices := &mockInvoices{createErr: errors.New("disk on fire")}
	var failed int
	engine := NewEngine(invoices, 30, discardLogger(),
		WithMetricHooks(nil, nil, func() { failed++ }))

	// Must not panic or propagate anything.
	engine.OnStageChange(context.Background(), clientProject(), stage.KickOff, stage.PayFirst)

	if failed != 1 {
		t.Errorf("failed hook fired %d times, want 1", failed)
	}
}

func TestOnStageChange_ConstraintRaceIsNoOp(t *testing.T) {
	invoices := &mockInvoices{createErr: &pgconn.PgError{
		Code:           pgerrcode.UniqueViolation,
		ConstraintName: "auto_invoice_once_per_milestone",
	}}
	var created, failed int
	engine := NewEngine(invoices, 30, discardLogger(),
		WithMetricHooks(func() { created++ }, nil, func() { failed++ }))

	engine.OnStageChange(context.Background(), clientProject(), stage.KickOff, stage.PayFirst)

	if failed != 0 {
		t.Errorf("losing the milestone race is not a failure, failed hook fired %d times", failed)
	}
	if created != 1 {
		t.Errorf("created hook fired %d times, want 1", created)
	}
}

func TestOnStageChange_NumberCollisionRetriesOnce(t *testing.T) {
	invoices := &retryingInvoices{}
	engine := NewEngine(invoices, 30, discardLogger(), WithClock(fixedClock()))

	engine.OnStageChange(context.Background(), clientProject(), stage.KickOff, stage.PayFirst)

	if invoices.attempts != 2 {
		t.Fatalf("expected 2 create attempts, got %d", invoices.attempts)
	}
	if len(invoices.created) != 1 {
		t.Fatalf("expected 1 invoice after retry, got %d", len(invoices.created))
	}
}

// retryingInvoices fails the first Create with a number collision.
type retryingInvoices struct {
	mockInvoices
	attempts int
}

func (r *retryingInvoices) Create(ctx context.Context, in invoice.CreateInvoiceInput) (*invoice.Invoice, error) {
	r.attempts++
	if r.attempts == 1 {
		return nil, &pgconn.PgError{
			Code:           pgerrcode.UniqueViolation,
			ConstraintName: "invoices_number_key",
		}
	}
	return r.mockInvoices.Create(ctx, in)
}
