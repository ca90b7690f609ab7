package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/auth/register", h.register)
		r.Post("/api/auth/login", h.login)
	})

	// sync routes require a valid device token
	router.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Get("/api/sync/changes", h.changes)
		r.Post("/api/sync/push", h.push)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
