package api

import (
	"net/http"
	"time"

	"github.com/Jurredr/exo-client-portal-sub000/internal/access"
	"github.com/Jurredr/exo-client-portal-sub000/internal/auth"
	"github.com/Jurredr/exo-client-portal-sub000/internal/invoice"
	"github.com/Jurredr/exo-client-portal-sub000/internal/money"
	"github.com/go-chi/chi/v5"
)

// invoicesHandler groups invoice HTTP handlers. Manual invoices are created
// here; auto invoices only ever come from the billing engine.
type invoicesHandler struct {
	store   *invoice.Store
	guard   *access.Guard
	dueDays int
}

func newInvoicesHandler(store *invoice.Store, guard *access.Guard, dueDays int) *invoicesHandler {
	return &invoicesHandler{store: store, guard: guard, dueDays: dueDays}
}

// AdminList handles GET /api/v1/admin/invoices.
func (h *invoicesHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list invoices")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"invoices": invoices})
}

// Create handles POST /api/v1/admin/invoices. The subtotal in the request is
// pre-tax; the stored amount includes VAT.
func (h *invoicesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Subtotal       string  `json:"subtotal"`
		Description    string  `json:"description"`
		ProjectID      *string `json:"project_id"`
		OrganizationID string  `json:"organization_id"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	if req.OrganizationID == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "organization_id is required")
		return
	}

	total := money.Total(req.Subtotal)
	if total <= 0 {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "subtotal must be a positive amount")
		return
	}

	now := time.Now()
	number, err := h.store.NextNumber(r.Context(), now.Year())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to allocate invoice number")
		return
	}

	inv, err := h.store.Create(r.Context(), invoice.CreateInvoiceInput{
		Number:         number,
		Amount:         money.FormatAmount(total),
		Status:         invoice.StatusOpen,
		Type:           invoice.TypeManual,
		Description:    req.Description,
		ProjectID:      req.ProjectID,
		OrganizationID: req.OrganizationID,
		DueDate:        now.AddDate(0, 0, h.dueDays),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create invoice")
		return
	}

	auditLog(r, "invoice.create", "invoice", inv.ID, "number", inv.Number)
	writeJSON(w, http.StatusCreated, inv)
}

// UpdateStatus handles PUT /api/v1/admin/invoices/{id}/status.
func (h *invoicesHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	if !invoice.ValidStatus(req.Status) {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "unknown invoice status")
		return
	}

	inv, err := h.store.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeStoreError(w, err, "invoice not found")
		return
	}

	auditLog(r, "invoice.update_status", "invoice", inv.ID, "status", inv.Status)
	writeJSON(w, http.StatusOK, inv)
}

// Delete handles DELETE /api/v1/admin/invoices/{id}.
func (h *invoicesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.Delete(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to delete invoice")
		return
	}

	auditLog(r, "invoice.delete", "invoice", id)
	w.WriteHeader(http.StatusNoContent)
}

// MemberList handles GET /api/v1/member/invoices — the invoices of the
// organizations the caller belongs to.
func (h *invoicesHandler) MemberList(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())
	if u == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "not authenticated")
		return
	}

	if h.guard.IsPlatformAdmin(u.Email) {
		h.AdminList(w, r)
		return
	}

	orgs, err := h.guard.OrganizationsOf(r.Context(), u.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to resolve organizations")
		return
	}

	var all []*invoice.Invoice
	for _, orgID := range orgs {
		invoices, err := h.store.ListForOrganization(r.Context(), orgID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to list invoices")
			return
		}
		all = append(all, invoices...)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"invoices": all})
}

// MemberListForProject handles GET /api/v1/member/projects/{id}/invoices.
func (h *invoicesHandler) MemberListForProject(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())
	if u == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "not authenticated")
		return
	}

	projectID := chi.URLParam(r, "id")
	ok, err := h.guard.CanAccessProject(r.Context(), u.ID, u.Email, projectID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to check access")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "project not found")
		return
	}

	invoices, err := h.store.ListForProject(r.Context(), projectID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list invoices")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"invoices": invoices})
}
