package api

import (
	"context"
	"net/http"

	"github.com/Jurredr/exo-client-portal-sub000/internal/user"
	"github.com/go-chi/chi/v5"
)

// userDirectory is the slice of the user store the handler needs.
type userDirectory interface {
	List(ctx context.Context) ([]*user.User, error)
	GetByID(ctx context.Context, id string) (*user.User, error)
	Create(ctx context.Context, in user.CreateUserInput) (*user.User, error)
	Update(ctx context.Context, id string, in user.UpdateUserInput) (*user.User, error)
	Delete(ctx context.Context, id string) error
	ReplaceMemberships(ctx context.Context, userID string, orgIDs []string) error
	OrganizationsOf(ctx context.Context, userID string) ([]string, error)
}

// usersHandler groups user management HTTP handlers.
type usersHandler struct {
	store userDirectory
}

func newUsersHandler(store userDirectory) *usersHandler {
	return &usersHandler{store: store}
}

// List handles GET /api/v1/admin/users.
func (h *usersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list users")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

// Get handles GET /api/v1/admin/users/{id}. The response includes the full
// set of organization memberships, not just the legacy primary organization.
func (h *usersHandler) Get(w http.ResponseWriter, r *http.Request) {
	u, err := h.store.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err, "user not found")
		return
	}

	orgs, err := h.store.OrganizationsOf(r.Context(), u.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to resolve organizations")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":          u,
		"organizations": orgs,
	})
}

// Create handles POST /api/v1/admin/users.
func (h *usersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req user.CreateUserInput
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "email and password are required")
		return
	}

	u, err := h.store.Create(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create user")
		return
	}

	auditLog(r, "user.create", "user", u.ID)
	writeJSON(w, http.StatusCreated, u)
}

// Update handles PUT /api/v1/admin/users/{id}.
func (h *usersHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req user.UpdateUserInput
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	u, err := h.store.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeStoreError(w, err, "user not found")
		return
	}

	auditLog(r, "user.update", "user", u.ID)
	writeJSON(w, http.StatusOK, u)
}

// ReplaceMemberships handles PUT /api/v1/admin/users/{id}/memberships.
// The request body carries the complete new set of organization IDs.
func (h *usersHandler) ReplaceMemberships(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrganizationIDs []string `json:"organization_ids"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.store.ReplaceMemberships(r.Context(), id, req.OrganizationIDs); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to replace memberships")
		return
	}

	orgs, err := h.store.OrganizationsOf(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to resolve organizations")
		return
	}

	auditLog(r, "user.replace_memberships", "user", id, "organization_count", len(orgs))
	writeJSON(w, http.StatusOK, map[string]interface{}{"organizations": orgs})
}

// Delete handles DELETE /api/v1/admin/users/{id}.
func (h *usersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.Delete(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to delete user")
		return
	}

	auditLog(r, "user.delete", "user", id)
	w.WriteHeader(http.StatusNoContent)
}
