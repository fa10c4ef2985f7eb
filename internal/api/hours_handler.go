package api

import (
	"errors"
	"net/http"

	"github.com/Jurredr/exo-client-portal-sub000/internal/activity"
	"github.com/Jurredr/exo-client-portal-sub000/internal/auth"
	"github.com/Jurredr/exo-client-portal-sub000/internal/hours"
	"github.com/go-chi/chi/v5"
)

// hoursHandler groups hour registration HTTP handlers.
type hoursHandler struct {
	store     *hours.Store
	collector *activity.Collector
}

func newHoursHandler(store *hours.Store, collector *activity.Collector) *hoursHandler {
	return &hoursHandler{store: store, collector: collector}
}

// Create handles POST /api/v1/admin/hours. Hours are always logged on behalf
// of the authenticated user.
func (h *hoursHandler) Create(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())
	if u == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "not authenticated")
		return
	}

	var req hours.CreateRegistrationInput
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	req.UserID = u.ID

	reg, err := h.store.Create(r.Context(), req)
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to register hours")
		return
	}

	if h.collector != nil {
		h.collector.Record(activity.Event{
			Action:    activity.ActionHoursLogged,
			ActorID:   u.ID,
			SubjectID: &reg.ID,
			Detail:    u.Name + " logged hours",
		})
	}
	auditLog(r, "hours.create", "hour_registration", reg.ID, "category", string(reg.Category))
	writeJSON(w, http.StatusCreated, reg)
}

// ListMine handles GET /api/v1/admin/hours — the caller's registrations.
func (h *hoursHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())
	if u == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "not authenticated")
		return
	}

	regs, err := h.store.ListForUser(r.Context(), u.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list hour registrations")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"registrations": regs})
}

// ListForProject handles GET /api/v1/admin/projects/{id}/hours.
func (h *hoursHandler) ListForProject(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "id")

	regs, err := h.store.ListForProject(r.Context(), projectID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list hour registrations")
		return
	}
	total, err := h.store.TotalForProject(r.Context(), projectID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to sum project hours")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"registrations": regs,
		"total_hours":   total,
	})
}

// Delete handles DELETE /api/v1/admin/hours/{id}.
func (h *hoursHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.Delete(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to delete hour registration")
		return
	}

	auditLog(r, "hours.delete", "hour_registration", id)
	w.WriteHeader(http.StatusNoContent)
}

func isValidationError(err error) bool {
	return errors.Is(err, hours.ErrInvalidCategory) ||
		errors.Is(err, hours.ErrProjectNotAllowed) ||
		errors.Is(err, hours.ErrProjectRequired) ||
		errors.Is(err, hours.ErrInvalidHours)
}
