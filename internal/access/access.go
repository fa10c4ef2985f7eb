// Package access decides which users may see which projects and
// organizations. Administrators are recognized by their email domain and
// bypass membership checks entirely; everyone else must be a member of the
// owning organization.
package access

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Jurredr/exo-client-portal-sub000/internal/project"
	"github.com/jackc/pgx/v5"
)

// ProjectGetter looks up a project by id.
type ProjectGetter interface {
	GetByID(ctx context.Context, id string) (*project.Project, error)
}

// UserDirectory answers membership questions about users.
type UserDirectory interface {
	IsMemberOf(ctx context.Context, userID, orgID string) (bool, error)
	OrganizationsOf(ctx context.Context, userID string) ([]string, error)
}

// Guard performs access decisions.
type Guard struct {
	adminDomain string
	projects    ProjectGetter
	users       UserDirectory
}

// NewGuard creates a Guard. adminDomain is the bare domain (no "@") whose
// users are treated as platform administrators.
func NewGuard(adminDomain string, projects ProjectGetter, users UserDirectory) *Guard {
	return &Guard{
		adminDomain: strings.ToLower(adminDomain),
		projects:    projects,
		users:       users,
	}
}

// IsPlatformAdmin reports whether the email belongs to the admin domain.
// The comparison is case-insensitive on the full address.
func (g *Guard) IsPlatformAdmin(email string) bool {
	if g.adminDomain == "" {
		return false
	}
	return strings.HasSuffix(strings.ToLower(email), "@"+g.adminDomain)
}

// CanAccessProject reports whether the user may see the given project.
// Admins always may. Non-admins may when they are a member of the project's
// organization. A missing project denies access without error.
func (g *Guard) CanAccessProject(ctx context.Context, userID, userEmail, projectID string) (bool, error) {
	if g.IsPlatformAdmin(userEmail) {
		return true, nil
	}

	p, err := g.projects.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("resolving project for access check: %w", err)
	}

	ok, err := g.users.IsMemberOf(ctx, userID, p.OrganizationID)
	if err != nil {
		return false, fmt.Errorf("checking organization membership: %w", err)
	}
	return ok, nil
}

// OrganizationsOf returns the organizations the user belongs to, combining
// the legacy primary organization with explicit memberships.
func (g *Guard) OrganizationsOf(ctx context.Context, userID string) ([]string, error) {
	return g.users.OrganizationsOf(ctx, userID)
}

// CanAccessOrganization reports whether the user may see the organization's
// data. Admins always may; others must be members.
func (g *Guard) CanAccessOrganization(ctx context.Context, userID, userEmail, orgID string) (bool, error) {
	if g.IsPlatformAdmin(userEmail) {
		return true, nil
	}
	ok, err := g.users.IsMemberOf(ctx, userID, orgID)
	if err != nil {
		return false, fmt.Errorf("checking organization membership: %w", err)
	}
	return ok, nil
}
