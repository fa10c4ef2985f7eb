package hours

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const registrationColumns = `id, user_id, category, project_id, hours, description, date, created_at`

// Store provides database operations for hour registrations.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new hours store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func scanRegistration(scan func(dest ...any) error) (*Registration, error) {
	r := &Registration{}
	err := scan(&r.ID, &r.UserID, &r.Category, &r.ProjectID, &r.Hours,
		&r.Description, &r.Date, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Create validates and inserts a new registration.
func (s *Store) Create(ctx context.Context, in CreateRegistrationInput) (*Registration, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	r, err := scanRegistration(func(dest ...any) error {
		return s.pool.QueryRow(ctx,
			`INSERT INTO hour_registrations (user_id, category, project_id, hours, description, date)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING `+registrationColumns,
			in.UserID, in.Category, in.ProjectID, in.Hours, in.Description, in.Date,
		).Scan(dest...)
	})
	if err != nil {
		return nil, fmt.Errorf("creating hour registration: %w", err)
	}
	return r, nil
}

// GetByID retrieves a registration by primary key.
func (s *Store) GetByID(ctx context.Context, id string) (*Registration, error) {
	r, err := scanRegistration(func(dest ...any) error {
		return s.pool.QueryRow(ctx,
			`SELECT `+registrationColumns+` FROM hour_registrations WHERE id = $1`, id,
		).Scan(dest...)
	})
	if err != nil {
		return nil, fmt.Errorf("getting hour registration: %w", err)
	}
	return r, nil
}

// ListForUser returns the user's registrations, most recent date first.
func (s *Store) ListForUser(ctx context.Context, userID string) ([]*Registration, error) {
	return s.list(ctx,
		`SELECT `+registrationColumns+` FROM hour_registrations
		 WHERE user_id = $1 ORDER BY date DESC, created_at DESC`, userID)
}

// ListForProject returns the hours logged against a project.
func (s *Store) ListForProject(ctx context.Context, projectID string) ([]*Registration, error) {
	return s.list(ctx,
		`SELECT `+registrationColumns+` FROM hour_registrations
		 WHERE project_id = $1 ORDER BY date DESC, created_at DESC`, projectID)
}

func (s *Store) list(ctx context.Context, query string, args ...any) ([]*Registration, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing hour registrations: %w", err)
	}
	defer rows.Close()

	var regs []*Registration
	for rows.Next() {
		r, err := scanRegistration(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning hour registration row: %w", err)
		}
		regs = append(regs, r)
	}
	return regs, rows.Err()
}

// TotalForProject sums the hours logged against a project.
func (s *Store) TotalForProject(ctx context.Context, projectID string) (float64, error) {
	var total float64
	err := s.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(hours), 0) FROM hour_registrations WHERE project_id = $1`,
		projectID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("summing project hours: %w", err)
	}
	return total, nil
}

// Delete removes a registration.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM hour_registrations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting hour registration: %w", err)
	}
	return nil
}
