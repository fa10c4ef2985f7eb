package invoice

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const invoiceColumns = `id, number, amount, status, type, milestone, description,
	 project_id, organization_id, due_date, created_at`

// Store provides database operations for invoices.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new invoice store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func scanInvoice(scan func(dest ...any) error) (*Invoice, error) {
	inv := &Invoice{}
	err := scan(&inv.ID, &inv.Number, &inv.Amount, &inv.Status, &inv.Type,
		&inv.Milestone, &inv.Description, &inv.ProjectID, &inv.OrganizationID,
		&inv.DueDate, &inv.CreatedAt)
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// Create inserts a new invoice. An empty status defaults to open.
func (s *Store) Create(ctx context.Context, in CreateInvoiceInput) (*Invoice, error) {
	status := in.Status
	if status == "" {
		status = StatusOpen
	}

	inv, err := scanInvoice(func(dest ...any) error {
		return s.pool.QueryRow(ctx,
			`INSERT INTO invoices (number, amount, status, type, milestone, description, project_id, organization_id, due_date)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			 RETURNING `+invoiceColumns,
			in.Number, in.Amount, status, in.Type, in.Milestone,
			in.Description, in.ProjectID, in.OrganizationID, in.DueDate,
		).Scan(dest...)
	})
	if err != nil {
		return nil, fmt.Errorf("creating invoice: %w", err)
	}
	return inv, nil
}

// GetByID retrieves an invoice by primary key.
func (s *Store) GetByID(ctx context.Context, id string) (*Invoice, error) {
	inv, err := scanInvoice(func(dest ...any) error {
		return s.pool.QueryRow(ctx,
			`SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id,
		).Scan(dest...)
	})
	if err != nil {
		return nil, fmt.Errorf("getting invoice: %w", err)
	}
	return inv, nil
}

// List returns all invoices, newest first.
func (s *Store) List(ctx context.Context) ([]*Invoice, error) {
	return s.list(ctx, `SELECT `+invoiceColumns+` FROM invoices ORDER BY created_at DESC`)
}

// ListForOrganization returns the organization's invoices, newest first.
func (s *Store) ListForOrganization(ctx context.Context, orgID string) ([]*Invoice, error) {
	return s.list(ctx,
		`SELECT `+invoiceColumns+` FROM invoices
		 WHERE organization_id = $1 ORDER BY created_at DESC`, orgID)
}

// ListForProject returns the invoices attached to a project, newest first.
func (s *Store) ListForProject(ctx context.Context, projectID string) ([]*Invoice, error) {
	return s.list(ctx,
		`SELECT `+invoiceColumns+` FROM invoices
		 WHERE project_id = $1 ORDER BY created_at DESC`, projectID)
}

func (s *Store) list(ctx context.Context, query string, args ...any) ([]*Invoice, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning invoice row: %w", err)
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// NextNumber returns the next invoice number for the given year, formatted
// INV-{year}-{NNNN}. Sequencing restarts each year at 0001.
func (s *Store) NextNumber(ctx context.Context, year int) (string, error) {
	prefix := fmt.Sprintf("INV-%d-", year)

	var maxSeq int
	err := s.pool.QueryRow(ctx,
		`SELECT COALESCE(MAX(CAST(SUBSTRING(number FROM $1) AS INTEGER)), 0)
		 FROM invoices WHERE number LIKE $2`,
		fmt.Sprintf(`^INV-%d-(\d+)$`, year), prefix+"%",
	).Scan(&maxSeq)
	if err != nil {
		return "", fmt.Errorf("determining next invoice number: %w", err)
	}

	return fmt.Sprintf("%s%04d", prefix, maxSeq+1), nil
}

// HasAutoInvoice reports whether an auto invoice already exists for the
// project and milestone.
func (s *Store) HasAutoInvoice(ctx context.Context, projectID, milestone string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (
		     SELECT 1 FROM invoices
		     WHERE project_id = $1 AND milestone = $2 AND type = 'auto'
		 )`, projectID, milestone,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking for existing auto invoice: %w", err)
	}
	return exists, nil
}

// UpdateStatus sets the invoice status and returns the updated row.
func (s *Store) UpdateStatus(ctx context.Context, id, status string) (*Invoice, error) {
	inv, err := scanInvoice(func(dest ...any) error {
		return s.pool.QueryRow(ctx,
			`UPDATE invoices SET status = $1 WHERE id = $2 RETURNING `+invoiceColumns,
			status, id,
		).Scan(dest...)
	})
	if err != nil {
		return nil, fmt.Errorf("updating invoice status: %w", err)
	}
	return inv, nil
}

// Delete removes an invoice.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting invoice: %w", err)
	}
	return nil
}
