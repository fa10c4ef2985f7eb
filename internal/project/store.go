package project

import (
	"context"
	"fmt"
	"strings"

	"github.com/Jurredr/exo-client-portal-sub000/internal/stage"
	"github.com/jackc/pgx/v5/pgxpool"
)

const projectColumns = `id, title, status, kind, stage, subtotal, organization_id,
	 start_date, deadline, created_at, updated_at`

// Store provides database operations for projects.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new project store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func scanProject(scan func(dest ...any) error) (*Project, error) {
	p := &Project{}
	err := scan(&p.ID, &p.Title, &p.Status, &p.Kind, &p.Stage, &p.Subtotal,
		&p.OrganizationID, &p.StartDate, &p.Deadline, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create inserts a new project at the default stage for its kind.
func (s *Store) Create(ctx context.Context, in CreateProjectInput) (*Project, error) {
	kind := in.Kind
	if kind == "" {
		kind = stage.KindClient
	}

	p, err := scanProject(func(dest ...any) error {
		return s.pool.QueryRow(ctx,
			`INSERT INTO projects (title, status, kind, stage, subtotal, organization_id, start_date, deadline)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 RETURNING `+projectColumns,
			in.Title, StatusActive, kind, stage.DefaultStage(kind), in.Subtotal,
			in.OrganizationID, in.StartDate, in.Deadline,
		).Scan(dest...)
	})
	if err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}
	return p, nil
}

// GetByID retrieves a project by primary key.
func (s *Store) GetByID(ctx context.Context, id string) (*Project, error) {
	p, err := scanProject(func(dest ...any) error {
		return s.pool.QueryRow(ctx,
			`SELECT `+projectColumns+` FROM projects WHERE id = $1`, id,
		).Scan(dest...)
	})
	if err != nil {
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return p, nil
}

// List returns all projects ordered by created_at DESC.
func (s *Store) List(ctx context.Context) ([]*Project, error) {
	return s.list(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY created_at DESC`)
}

// ListForOrganization returns the organization's projects, newest first.
func (s *Store) ListForOrganization(ctx context.Context, orgID string) ([]*Project, error) {
	return s.list(ctx,
		`SELECT `+projectColumns+` FROM projects
		 WHERE organization_id = $1 ORDER BY created_at DESC`, orgID)
}

func (s *Store) list(ctx context.Context, query string, args ...any) ([]*Project, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []*Project
	for rows.Next() {
		p, err := scanProject(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning project row: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// Update performs a partial update on the project with the given id and
// returns the updated row.
func (s *Store) Update(ctx context.Context, id string, in UpdateProjectInput) (*Project, error) {
	var setClauses []string
	var args []any
	argIdx := 1

	add := func(col string, val any) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, argIdx))
		args = append(args, val)
		argIdx++
	}

	if in.Title != nil {
		add("title", *in.Title)
	}
	if in.Status != nil {
		add("status", *in.Status)
	}
	if in.Stage != nil {
		add("stage", *in.Stage)
	}
	if in.Subtotal != nil {
		add("subtotal", *in.Subtotal)
	}
	if in.OrganizationID != nil {
		add("organization_id", *in.OrganizationID)
	}
	if in.StartDate != nil {
		add("start_date", *in.StartDate)
	}
	if in.Deadline != nil {
		add("deadline", *in.Deadline)
	}

	if len(setClauses) == 0 {
		return s.GetByID(ctx, id)
	}

	setClauses = append(setClauses, "updated_at = now()")

	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE projects SET %s WHERE id = $%d RETURNING `+projectColumns,
		strings.Join(setClauses, ", "), argIdx,
	)

	p, err := scanProject(func(dest ...any) error {
		return s.pool.QueryRow(ctx, query, args...).Scan(dest...)
	})
	if err != nil {
		return nil, fmt.Errorf("updating project: %w", err)
	}
	return p, nil
}

// Delete removes a project. Dependent rows (hour registrations, invoices
// referencing it) are handled by the schema's ON DELETE rules.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	return nil
}
