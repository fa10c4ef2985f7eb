package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Jurredr/exo-client-portal-sub000/internal/access"
	"github.com/Jurredr/exo-client-portal-sub000/internal/activity"
	"github.com/Jurredr/exo-client-portal-sub000/internal/auth"
	"github.com/Jurredr/exo-client-portal-sub000/internal/billing"
	"github.com/Jurredr/exo-client-portal-sub000/internal/hours"
	"github.com/Jurredr/exo-client-portal-sub000/internal/invoice"
	"github.com/Jurredr/exo-client-portal-sub000/internal/metrics"
	"github.com/Jurredr/exo-client-portal-sub000/internal/organization"
	"github.com/Jurredr/exo-client-portal-sub000/internal/project"
	"github.com/Jurredr/exo-client-portal-sub000/internal/ratelimit"
	"github.com/Jurredr/exo-client-portal-sub000/internal/user"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// RouterDeps holds all dependencies for the API router.
type RouterDeps struct {
	OrgStore      *organization.Store
	UserStore     *user.Store
	ProjectStore  *project.Store
	InvoiceStore  *invoice.Store
	HoursStore    *hours.Store
	ActivityStore *activity.Store
	Collector     *activity.Collector
	Guard         *access.Guard
	Engine        *billing.Engine
	Sessions      auth.SessionLookup
	Limiter       *ratelimit.Limiter
	Metrics       *metrics.Metrics
	CORSOrigins   []string
	DueDays       int
}

// NewRouter builds the chi router with all routes and middleware.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chimw.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(secureHeaders)
	r.Use(corsMiddleware(deps.CORSOrigins))
	r.Use(slogRequestLogger)
	if deps.Metrics != nil {
		r.Use(metricsMiddleware(deps.Metrics))
	}

	isAdmin := auth.AdminCheck(deps.Guard.IsPlatformAdmin)

	// Handlers.
	var onAuthFail, onAuthOK func()
	var onRateReject []func()
	if deps.Metrics != nil {
		onAuthFail = deps.Metrics.AuthFailuresTotal.Inc
		onAuthOK = deps.Metrics.AuthSuccessesTotal.Inc
		onRateReject = append(onRateReject, deps.Metrics.RateLimitRejectionsTotal.Inc)
	}

	authh := newAuthHandler(deps.UserStore, deps.Collector, onAuthFail, onAuthOK)
	orgs := newOrganizationsHandler(deps.OrgStore)
	users := newUsersHandler(deps.UserStore)
	projects := newProjectsHandler(deps.ProjectStore, deps.Guard, deps.Engine, deps.Collector)
	invoices := newInvoicesHandler(deps.InvoiceStore, deps.Guard, deps.DueDays)
	hoursh := newHoursHandler(deps.HoursStore, deps.Collector)
	activityh := newActivityHandler(deps.ActivityStore, deps.Guard)

	// Health check.
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Metrics summary.
	if deps.Metrics != nil {
		r.Get("/metrics", deps.Metrics.Handler())
	}

	// Public auth routes.
	r.Post("/api/v1/auth/login", authh.Login)
	r.Post("/api/v1/auth/logout", authh.Logout)

	// Admin routes (require an admin-domain session).
	r.Route("/api/v1/admin", func(ar chi.Router) {
		ar.Use(auth.AdminAuthMiddleware(deps.Sessions, isAdmin))

		// Organization management.
		ar.Get("/organizations", orgs.List)
		ar.Post("/organizations", orgs.Create)
		ar.Get("/organizations/{id}", orgs.Get)
		ar.Put("/organizations/{id}", orgs.Update)
		ar.Delete("/organizations/{id}", orgs.Delete)

		// User management.
		ar.Get("/users", users.List)
		ar.Post("/users", users.Create)
		ar.Get("/users/{id}", users.Get)
		ar.Put("/users/{id}", users.Update)
		ar.Put("/users/{id}/memberships", users.ReplaceMemberships)
		ar.Delete("/users/{id}", users.Delete)

		// Project management. Stage transitions go through Update.
		ar.Get("/projects", projects.AdminList)
		ar.Post("/projects", projects.Create)
		ar.Patch("/projects/{id}", projects.Update)
		ar.Delete("/projects/{id}", projects.Delete)
		ar.Get("/projects/{id}/hours", hoursh.ListForProject)

		// Invoice management.
		ar.Get("/invoices", invoices.AdminList)
		ar.Post("/invoices", invoices.Create)
		ar.Put("/invoices/{id}/status", invoices.UpdateStatus)
		ar.Delete("/invoices/{id}", invoices.Delete)

		// Hour tracking (internal team).
		ar.Get("/hours", hoursh.ListMine)
		ar.Post("/hours", hoursh.Create)
		ar.Delete("/hours/{id}", hoursh.Delete)

		// Activity feed.
		ar.Get("/activity", activityh.AdminList)
	})

	// Member routes (any authenticated user + rate limiting).
	r.Route("/api/v1/member", func(mr chi.Router) {
		mr.Use(auth.SessionAuthMiddleware(deps.Sessions))
		mr.Use(ratelimit.Middleware(deps.Limiter, onRateReject...))

		mr.Get("/projects", projects.MemberList)
		mr.Get("/projects/{id}", projects.MemberGet)
		mr.Get("/projects/{id}/invoices", invoices.MemberListForProject)
		mr.Get("/invoices", invoices.MemberList)
		mr.Get("/organizations/{id}/activity", activityh.MemberListForOrganization)
	})

	// Authenticated self-service route.
	r.Group(func(gr chi.Router) {
		gr.Use(auth.SessionAuthMiddleware(deps.Sessions))
		gr.Get("/api/v1/auth/me", authh.Me)
	})

	return r
}

// slogRequestLogger is a simple structured logging middleware using slog.
func slogRequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"bytes", ww.BytesWritten(),
		)
	})
}
