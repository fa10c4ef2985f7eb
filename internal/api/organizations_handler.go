package api

import (
	"net/http"

	"github.com/Jurredr/exo-client-portal-sub000/internal/organization"
	"github.com/go-chi/chi/v5"
)

// organizationsHandler groups organization HTTP handlers.
type organizationsHandler struct {
	store *organization.Store
}

func newOrganizationsHandler(store *organization.Store) *organizationsHandler {
	return &organizationsHandler{store: store}
}

// List handles GET /api/v1/admin/organizations.
func (h *organizationsHandler) List(w http.ResponseWriter, r *http.Request) {
	orgs, err := h.store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list organizations")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"organizations": orgs})
}

// Get handles GET /api/v1/admin/organizations/{id}.
func (h *organizationsHandler) Get(w http.ResponseWriter, r *http.Request) {
	org, err := h.store.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err, "organization not found")
		return
	}
	writeJSON(w, http.StatusOK, org)
}

// Create handles POST /api/v1/admin/organizations.
func (h *organizationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req organization.CreateOrganizationInput
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "name is required")
		return
	}

	org, err := h.store.Create(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create organization")
		return
	}

	auditLog(r, "organization.create", "organization", org.ID)
	writeJSON(w, http.StatusCreated, org)
}

// Update handles PUT /api/v1/admin/organizations/{id}.
func (h *organizationsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req organization.UpdateOrganizationInput
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	org, err := h.store.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeStoreError(w, err, "organization not found")
		return
	}

	auditLog(r, "organization.update", "organization", org.ID)
	writeJSON(w, http.StatusOK, org)
}

// Delete handles DELETE /api/v1/admin/organizations/{id}.
func (h *organizationsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.Delete(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to delete organization")
		return
	}

	auditLog(r, "organization.delete", "organization", id)
	w.WriteHeader(http.StatusNoContent)
}
