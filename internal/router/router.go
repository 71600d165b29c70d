// Package router sets up the HTTP routes and middleware chain for the
// inkpost API server.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"inkpost/internal/handlers"
	"inkpost/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(posts *handlers.Posts, comments *handlers.Comments) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	r.Get("/health", healthHandler)

	r.Route("/post", func(r chi.Router) {
		r.Post("/upload", posts.Upload)
		r.Get("/list", posts.List)
		r.Get("/search", posts.Search)
		r.Get("/tags", posts.Tags)
		r.Get("/tags/filter", posts.FilterByTags)
		r.Post("/batch-delete", posts.BatchDelete)

		// Fixed segments above come first so chi never swallows them
		// into {id}.
		r.Get("/{id}/meta", posts.Meta)
		r.Get("/{id}", posts.Content)
		r.Put("/{id}", posts.Update)
		r.Delete("/{id}", posts.Delete)
	})

	r.Route("/comment", func(r chi.Router) {
		r.Post("/", comments.Create)
		r.Get("/post/{postID}", comments.ListByPost)
		r.Get("/{id}", comments.Get)
		r.Put("/{id}", comments.Update)
		r.Delete("/{id}", comments.Delete)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
