package activity

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store provides database operations for activity events.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new activity store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// BatchInsert writes a batch of events in a single multi-row INSERT.
func (s *Store) BatchInsert(ctx context.Context, events []Event) error {
	if len(events) == 0 {
		return nil
	}

	query := `INSERT INTO activity_events (action, actor_id, organization_id, subject_id, detail, occurred_at) VALUES `
	args := make([]any, 0, len(events)*6)
	for i, ev := range events {
		if i > 0 {
			query += ", "
		}
		base := i * 6
		query += fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6)
		args = append(args, ev.Action, ev.ActorID, ev.OrganizationID,
			ev.SubjectID, ev.Detail, ev.OccurredAt)
	}

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("batch inserting activity events: %w", err)
	}
	return nil
}

// ListForOrganization returns the organization's most recent events.
func (s *Store) ListForOrganization(ctx context.Context, orgID string, limit int) ([]*Event, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.list(ctx,
		`SELECT id, action, actor_id, organization_id, subject_id, detail, occurred_at
		 FROM activity_events
		 WHERE organization_id = $1
		 ORDER BY occurred_at DESC LIMIT $2`, orgID, limit)
}

// ListRecent returns the most recent events across all organizations.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]*Event, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.list(ctx,
		`SELECT id, action, actor_id, organization_id, subject_id, detail, occurred_at
		 FROM activity_events
		 ORDER BY occurred_at DESC LIMIT $1`, limit)
}

func (s *Store) list(ctx context.Context, query string, args ...any) ([]*Event, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing activity events: %w", err)
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		ev := &Event{}
		err := rows.Scan(&ev.ID, &ev.Action, &ev.ActorID, &ev.OrganizationID,
			&ev.SubjectID, &ev.Detail, &ev.OccurredAt)
		if err != nil {
			return nil, fmt.Errorf("scanning activity event row: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
