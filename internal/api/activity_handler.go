package api

import (
	"net/http"
	"strconv"

	"github.com/Jurredr/exo-client-portal-sub000/internal/access"
	"github.com/Jurredr/exo-client-portal-sub000/internal/activity"
	"github.com/Jurredr/exo-client-portal-sub000/internal/auth"
	"github.com/go-chi/chi/v5"
)

// activityHandler groups activity feed HTTP handlers.
type activityHandler struct {
	store *activity.Store
	guard *access.Guard
}

func newActivityHandler(store *activity.Store, guard *access.Guard) *activityHandler {
	return &activityHandler{store: store, guard: guard}
}

// AdminList handles GET /api/v1/admin/activity — recent events across all
// organizations.
func (h *activityHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	events, err := h.store.ListRecent(r.Context(), parseLimit(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list activity")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"events": events})
}

// MemberListForOrganization handles GET /api/v1/member/organizations/{id}/activity.
func (h *activityHandler) MemberListForOrganization(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())
	if u == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "not authenticated")
		return
	}

	orgID := chi.URLParam(r, "id")
	ok, err := h.guard.CanAccessOrganization(r.Context(), u.ID, u.Email, orgID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to check access")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "organization not found")
		return
	}

	events, err := h.store.ListForOrganization(r.Context(), orgID, parseLimit(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list activity")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"events": events})
}

func parseLimit(r *http.Request) int {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
