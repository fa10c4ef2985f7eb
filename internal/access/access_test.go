package access

import (
	"context"
	"errors"
	"testing"

	"github.com/Jurredr/exo-client-portal-sub000/internal/project"
	"github.com/jackc/pgx/v5"
)

type mockProjects struct {
	projects map[string]*project.Project
	err      error
}

func (m *mockProjects) GetByID(ctx context.Context, id string) (*project.Project, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.projects[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return p, nil
}

type mockUsers struct {
	// memberships maps "userID/orgID" to true.
	memberships map[string]bool
	err         error
}

func (m *mockUsers) IsMemberOf(ctx context.Context, userID, orgID string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.memberships[userID+"/"+orgID], nil
}

func (m *mockUsers) OrganizationsOf(ctx context.Context, userID string) ([]string, error) {
	return nil, nil
}

func newTestGuard() *Guard {
	projects := &mockProjects{projects: map[string]*project.Project{
		"p1": {ID: "p1", OrganizationID: "org-a"},
	}}
	users := &mockUsers{memberships: map[string]bool{
		"u-member/org-a": true,
	}}
	return NewGuard("exomultimedia.nl", projects, users)
}

func TestIsPlatformAdmin(t *testing.T) {
	g := newTestGuard()

	tests := []struct {
		email string
		want  bool
	}{
		{"eva@exomultimedia.nl", true},
		{"EVA@EXOMULTIMEDIA.NL", true},
		{"jan@client.nl", false},
		{"eva@notexomultimedia.nl", false},
		{"exomultimedia.nl", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := g.IsPlatformAdmin(tt.email); got != tt.want {
			t.Errorf("IsPlatformAdmin(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}
}

func TestIsPlatformAdmin_EmptyDomain(t *testing.T) {
	g := NewGuard("", &mockProjects{}, &mockUsers{})
	if g.IsPlatformAdmin("anyone@anywhere.nl") {
		t.Error("empty admin domain must never grant admin")
	}
}

func TestCanAccessProject(t *testing.T) {
	g := newTestGuard()
	ctx := context.Background()

	tests := []struct {
		name      string
		userID    string
		email     string
		projectID string
		want      bool
	}{
		{"admin bypasses membership", "u-outsider", "eva@exomultimedia.nl", "p1", true},
		{"admin on unknown project", "u-outsider", "eva@exomultimedia.nl", "ghost", true},
		{"member of owning org", "u-member", "jan@client.nl", "p1", true},
		{"non-member denied", "u-outsider", "piet@other.nl", "p1", false},
		{"unknown project denied", "u-member", "jan@client.nl", "ghost", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := g.CanAccessProject(ctx, tt.userID, tt.email, tt.projectID)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("CanAccessProject = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanAccessProject_StoreError(t *testing.T) {
	projects := &mockProjects{err: errors.New("connection refused")}
	g := NewGuard("exomultimedia.nl", projects, &mockUsers{})

	ok, err := g.CanAccessProject(context.Background(), "u1", "jan@client.nl", "p1")
	if err == nil {
		t.Fatal("expected error to propagate")
	}
	if ok {
		t.Error("errors must deny access")
	}
}

func TestCanAccessOrganization(t *testing.T) {
	g := newTestGuard()
	ctx := context.Background()

	if ok, _ := g.CanAccessOrganization(ctx, "u-outsider", "eva@exomultimedia.nl", "org-a"); !ok {
		t.Error("admin should access any organization")
	}
	if ok, _ := g.CanAccessOrganization(ctx, "u-member", "jan@client.nl", "org-a"); !ok {
		t.Error("member should access own organization")
	}
	if ok, _ := g.CanAccessOrganization(ctx, "u-member", "jan@client.nl", "org-b"); ok {
		t.Error("member should not access foreign organization")
	}
}
