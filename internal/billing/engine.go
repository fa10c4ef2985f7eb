// Package billing turns project stage transitions into invoices. When a
// client project enters a payment milestone stage, the engine issues an auto
// invoice for half of the project total. The engine is best-effort: billing
// failures are logged and never block the stage change that triggered them.
package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Jurredr/exo-client-portal-sub000/internal/invoice"
	"github.com/Jurredr/exo-client-portal-sub000/internal/money"
	"github.com/Jurredr/exo-client-portal-sub000/internal/project"
	"github.com/Jurredr/exo-client-portal-sub000/internal/stage"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// InvoiceWriter is the slice of the invoice store the engine needs.
type InvoiceWriter interface {
	NextNumber(ctx context.Context, year int) (string, error)
	HasAutoInvoice(ctx context.Context, projectID, milestone string) (bool, error)
	Create(ctx context.Context, in invoice.CreateInvoiceInput) (*invoice.Invoice, error)
}

// Engine issues auto invoices on stage transitions.
type Engine struct {
	invoices InvoiceWriter
	dueIn    time.Duration
	logger   *slog.Logger
	now      func() time.Time

	// Optional metric hooks.
	onCreated func()
	onSkipped func()
	onFailed  func()
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the engine's time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithMetricHooks registers counters fired when an invoice is created, when
// billing is skipped, and when it fails.
func WithMetricHooks(created, skipped, failed func()) Option {
	return func(e *Engine) {
		e.onCreated = created
		e.onSkipped = skipped
		e.onFailed = failed
	}
}

// NewEngine creates an Engine. dueDays controls how far in the future auto
// invoices fall due.
func NewEngine(invoices InvoiceWriter, dueDays int, logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		invoices: invoices,
		dueIn:    time.Duration(dueDays) * 24 * time.Hour,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// OnStageChange inspects a completed stage transition and issues an auto
// invoice when the project entered a payment milestone. It never returns an
// error: failures are logged and swallowed so callers are not rolled back.
func (e *Engine) OnStageChange(ctx context.Context, p *project.Project, oldStage, newStage stage.Stage) {
	if oldStage == newStage {
		return
	}
	milestone, ok := milestoneFor(newStage)
	if !ok {
		return
	}

	log := e.logger.With(
		slog.String("project_id", p.ID),
		slog.String("stage", string(newStage)),
		slog.String("milestone", milestone),
	)

	exists, err := e.invoices.HasAutoInvoice(ctx, p.ID, milestone)
	if err != nil {
		log.Error("auto invoice lookup failed", slog.String("error", err.Error()))
		e.fire(e.onFailed)
		return
	}
	if exists {
		log.Info("milestone already invoiced, skipping")
		e.fire(e.onSkipped)
		return
	}

	amount := money.PaymentAmount(p.Subtotal, newStage)
	if amount == nil || *amount <= 0 {
		log.Info("no billable amount for milestone, skipping")
		e.fire(e.onSkipped)
		return
	}

	if p.OrganizationID == "" {
		log.Warn("project has no organization, cannot invoice")
		e.fire(e.onSkipped)
		return
	}

	if err := e.issue(ctx, p, milestone, *amount); err != nil {
		log.Error("auto invoice creation failed", slog.String("error", err.Error()))
		e.fire(e.onFailed)
		return
	}

	log.Info("auto invoice created", slog.Float64("amount", *amount))
	e.fire(e.onCreated)
}

func (e *Engine) issue(ctx context.Context, p *project.Project, milestone string, amount float64) error {
	now := e.now()

	// Retry the number once: a concurrent insert can take the sequence slot
	// between NextNumber and Create.
	for attempt := 0; attempt < 2; attempt++ {
		number, err := e.invoices.NextNumber(ctx, now.Year())
		if err != nil {
			return fmt.Errorf("allocating invoice number: %w", err)
		}

		_, err = e.invoices.Create(ctx, invoice.CreateInvoiceInput{
			Number:         number,
			Amount:         money.FormatAmount(amount),
			Status:         invoice.StatusSent,
			Type:           invoice.TypeAuto,
			Milestone:      &milestone,
			Description:    description(p.Title, milestone),
			ProjectID:      &p.ID,
			OrganizationID: p.OrganizationID,
			DueDate:        now.Add(e.dueIn),
		})
		if err == nil {
			return nil
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			if pgErr.ConstraintName == "auto_invoice_once_per_milestone" {
				// Lost the race to another transition: the milestone is
				// already invoiced, which is the outcome we wanted.
				return nil
			}
			// Number collision, allocate a fresh one.
			continue
		}
		return err
	}
	return fmt.Errorf("invoice number contention for project %s", p.ID)
}

func (e *Engine) fire(hook func()) {
	if hook != nil {
		hook()
	}
}

func milestoneFor(st stage.Stage) (string, bool) {
	switch st {
	case stage.PayFirst:
		return invoice.MilestoneFirstPayment, true
	case stage.PayFinal:
		return invoice.MilestoneFinalPayment, true
	}
	return "", false
}

func description(title, milestone string) string {
	label := "First payment"
	if milestone == invoice.MilestoneFinalPayment {
		label = "Final payment"
	}
	return fmt.Sprintf("Payment for %s - %s", title, label)
}
