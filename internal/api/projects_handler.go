package api

import (
	"fmt"
	"net/http"

	"github.com/Jurredr/exo-client-portal-sub000/internal/access"
	"github.com/Jurredr/exo-client-portal-sub000/internal/activity"
	"github.com/Jurredr/exo-client-portal-sub000/internal/auth"
	"github.com/Jurredr/exo-client-portal-sub000/internal/billing"
	"github.com/Jurredr/exo-client-portal-sub000/internal/project"
	"github.com/Jurredr/exo-client-portal-sub000/internal/stage"
	"github.com/go-chi/chi/v5"
)

// projectsHandler groups project HTTP handlers. Stage transitions flow
// through Update, which hands completed transitions to the billing engine.
type projectsHandler struct {
	store     *project.Store
	guard     *access.Guard
	engine    *billing.Engine
	collector *activity.Collector
}

func newProjectsHandler(store *project.Store, guard *access.Guard, engine *billing.Engine, collector *activity.Collector) *projectsHandler {
	return &projectsHandler{store: store, guard: guard, engine: engine, collector: collector}
}

// projectResponse decorates a project with its derived lifecycle fields.
type projectResponse struct {
	*project.Project
	StageLabel string `json:"stage_label"`
	Progress   int    `json:"progress"`
}

func toResponse(p *project.Project) projectResponse {
	return projectResponse{
		Project:    p,
		StageLabel: stage.Label(p.Stage, p.Kind),
		Progress:   stage.ProgressPercent(p.Stage, p.Kind),
	}
}

func toResponseList(projects []*project.Project) []projectResponse {
	out := make([]projectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, toResponse(p))
	}
	return out
}

// AdminList handles GET /api/v1/admin/projects.
func (h *projectsHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	projects, err := h.store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list projects")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"projects": toResponseList(projects)})
}

// Create handles POST /api/v1/admin/projects.
func (h *projectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req project.CreateProjectInput
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	if req.Title == "" || req.OrganizationID == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "title and organization_id are required")
		return
	}
	if req.Kind != "" && req.Kind != stage.KindClient && req.Kind != stage.KindInternal {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "kind must be client or internal")
		return
	}

	p, err := h.store.Create(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create project")
		return
	}

	h.record(r, activity.ActionProjectCreated, p, "created project "+p.Title)
	auditLog(r, "project.create", "project", p.ID)
	writeJSON(w, http.StatusCreated, toResponse(p))
}

// Update handles PATCH /api/v1/admin/projects/{id}. When the update moves the
// project to a new stage, the billing engine runs after the write commits;
// billing problems never fail the update itself.
func (h *projectsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req project.UpdateProjectInput
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	if req.Status != nil && !project.ValidStatus(*req.Status) {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "unknown project status")
		return
	}

	current, err := h.store.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err, "project not found")
		return
	}

	if req.Stage != nil && !stage.Valid(*req.Stage, current.Kind) {
		writeError(w, http.StatusUnprocessableEntity, "validation_error",
			fmt.Sprintf("stage %q is not valid for %s projects", *req.Stage, current.Kind))
		return
	}

	updated, err := h.store.Update(r.Context(), current.ID, req)
	if err != nil {
		writeStoreError(w, err, "project not found")
		return
	}

	if updated.Stage != current.Stage {
		h.engine.OnStageChange(r.Context(), updated, current.Stage, updated.Stage)
		h.record(r, activity.ActionStageChanged, updated,
			fmt.Sprintf("%s moved to %s", updated.Title, stage.Label(updated.Stage, updated.Kind)))
	} else {
		h.record(r, activity.ActionProjectUpdated, updated, "updated project "+updated.Title)
	}

	auditLog(r, "project.update", "project", updated.ID,
		"old_stage", string(current.Stage), "new_stage", string(updated.Stage))
	writeJSON(w, http.StatusOK, toResponse(updated))
}

// Delete handles DELETE /api/v1/admin/projects/{id}.
func (h *projectsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.Delete(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to delete project")
		return
	}

	auditLog(r, "project.delete", "project", id)
	w.WriteHeader(http.StatusNoContent)
}

// MemberList handles GET /api/v1/member/projects — the projects of the
// organizations the caller belongs to. Admins see everything.
func (h *projectsHandler) MemberList(w http.ResponseWriter, r *http.Request) {
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

	var all []*project.Project
	for _, orgID := range orgs {
		projects, err := h.store.ListForOrganization(r.Context(), orgID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to list projects")
			return
		}
		all = append(all, projects...)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"projects": toResponseList(all)})
}

// MemberGet handles GET /api/v1/member/projects/{id}.
func (h *projectsHandler) MemberGet(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())
	if u == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "not authenticated")
		return
	}

	id := chi.URLParam(r, "id")
	ok, err := h.guard.CanAccessProject(r.Context(), u.ID, u.Email, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to check access")
		return
	}
	if !ok {
		// A project the caller may not see reads as absent.
		writeError(w, http.StatusNotFound, "not_found", "project not found")
		return
	}

	p, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "project not found")
		return
	}
	writeJSON(w, http.StatusOK, toResponse(p))
}

func (h *projectsHandler) record(r *http.Request, action string, p *project.Project, detail string) {
	if h.collector == nil {
		return
	}
	actorID := ""
	if u := auth.UserFromContext(r.Context()); u != nil {
		actorID = u.ID
	}
	orgID := p.OrganizationID
	h.collector.Record(activity.Event{
		Action:         action,
		ActorID:        actorID,
		OrganizationID: &orgID,
		SubjectID:      &p.ID,
		Detail:         detail,
	})
}
