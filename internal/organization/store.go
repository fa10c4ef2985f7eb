package organization

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store provides database operations for organizations.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new organization store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Create inserts a new organization.
func (s *Store) Create(ctx context.Context, in CreateOrganizationInput) (*Organization, error) {
	o := &Organization{}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO organizations (name)
		 VALUES ($1)
		 RETURNING id, name, created_at`,
		in.Name,
	).Scan(&o.ID, &o.Name, &o.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("creating organization: %w", err)
	}
	return o, nil
}

// GetByID retrieves an organization by primary key.
func (s *Store) GetByID(ctx context.Context, id string) (*Organization, error) {
	o := &Organization{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, created_at FROM organizations WHERE id = $1`, id,
	).Scan(&o.ID, &o.Name, &o.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("getting organization: %w", err)
	}
	return o, nil
}

// List returns all organizations ordered by name.
func (s *Store) List(ctx context.Context) ([]*Organization, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, created_at FROM organizations ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing organizations: %w", err)
	}
	defer rows.Close()

	var orgs []*Organization
	for rows.Next() {
		o := &Organization{}
		if err := rows.Scan(&o.ID, &o.Name, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning organization row: %w", err)
		}
		orgs = append(orgs, o)
	}
	return orgs, rows.Err()
}

// Update performs a partial update on the organization with the given id.
func (s *Store) Update(ctx context.Context, id string, in UpdateOrganizationInput) (*Organization, error) {
	if in.Name == nil {
		return s.GetByID(ctx, id)
	}

	o := &Organization{}
	err := s.pool.QueryRow(ctx,
		`UPDATE organizations SET name = $1 WHERE id = $2
		 RETURNING id, name, created_at`,
		*in.Name, id,
	).Scan(&o.ID, &o.Name, &o.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("updating organization: %w", err)
	}
	return o, nil
}

// Delete removes an organization. Membership rows referencing it are removed
// by the schema's ON DELETE CASCADE; member users themselves are kept.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM organizations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting organization: %w", err)
	}
	return nil
}
