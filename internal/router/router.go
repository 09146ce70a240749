// Package router sets up all HTTP routes and middleware chains for the
// faqdesk server. It organizes routes into the token-guarded admin API
// and the open end-user app group.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"faqdesk/internal/handlers"
	"faqdesk/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(adminToken string, admin *handlers.Admin, public *handlers.Public) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	// Health check — no auth, no rate limit.
	r.Get("/health", healthHandler)

	// Admin API — bearer token, generous rate limit.
	r.Route("/admin/api", func(r chi.Router) {
		adminLimiter := middleware.NewRateLimiter(300, time.Minute)
		r.Use(adminLimiter.Middleware)
		r.Use(middleware.RequireToken(adminToken))

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", admin.ListCategories)
			r.Post("/", admin.CreateCategory)
			r.Post("/reorder", admin.ReorderCategories)
			r.Put("/{id}", admin.UpdateCategory)
			r.Delete("/{id}", admin.DeleteCategory)
			r.Post("/{id}/move", admin.MoveCategory)
		})

		r.Route("/questions", func(r chi.Router) {
			r.Get("/", admin.ListQuestions)
			r.Post("/", admin.CreateQuestion)
			r.Post("/reorder", admin.ReorderQuestions)
			r.Put("/{id}", admin.UpdateQuestion)
			r.Delete("/{id}", admin.DeleteQuestion)
			r.Post("/{id}/move", admin.MoveQuestion)
			r.Post("/{id}/attachment", admin.UploadAttachment)
			r.Delete("/{id}/attachment", admin.DeleteAttachment)
			r.Get("/{id}/followups", admin.GetFollowUps)
			r.Put("/{id}/followups", admin.PutFollowUps)
		})

		r.Get("/tree", admin.Tree)
		r.Get("/translations/status", admin.TranslationStatus)

		r.Get("/settings", admin.GetSettings)
		r.Put("/settings", admin.PutSetting)

		r.Post("/flow/next", admin.FlowNext)

		r.Get("/export", admin.Export)
		r.Post("/import", admin.Import)

		// Admin navigation sessions (editor breadcrumb preview).
		r.Route("/nav", func(r chi.Router) {
			r.Post("/", admin.CreateNav)
			r.Get("/{id}", admin.GetNav)
			r.Post("/{id}/category", admin.NavCategory)
			r.Post("/{id}/into", admin.NavInto)
			r.Post("/{id}/breadcrumb", admin.NavBreadcrumb)
			r.Post("/{id}/panel", admin.NavPanel)
		})
	})

	// End-user app — open, tighter rate limit.
	r.Route("/app", func(r chi.Router) {
		appLimiter := middleware.NewRateLimiter(120, time.Minute)
		r.Use(appLimiter.Middleware)

		r.Get("/tree", public.Tree)
		r.Get("/settings", public.Settings)
		r.Get("/health", healthHandler)

		r.Route("/session", func(r chi.Router) {
			r.Post("/", public.CreateSession)
			r.Get("/{id}", public.GetSession)
			r.Post("/{id}/categories", public.ShowCategories)
			r.Post("/{id}/category", public.SelectCategory)
			r.Post("/{id}/select", public.Select)
			r.Post("/{id}/back", public.Back)
			r.Post("/{id}/home", public.Home)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
