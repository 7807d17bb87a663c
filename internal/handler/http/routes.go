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
	router.Use(h.withMetrics)

	// mounted sub-routers inherit both handlers, so they are set first
	router.NotFound(notFound)
	router.MethodNotAllowed(CheckHTTPMethod(router))

	router.Handle("/metrics", h.metrics.Handler())

	router.Route("/api", func(r chi.Router) {
		r.Use(withGZip)

		r.Get("/health", h.health)
		r.Get("/version", h.getServerVersion)
		r.Get("/version/build", h.getBuildInfo)

		r.Route("/users", func(r chi.Router) {
			// routes without authorization
			r.Post("/login", h.login)
			r.Post("/token/refresh", h.refresh)

			r.Group(func(r chi.Router) {
				r.Use(h.auth)

				r.Get("/", h.listUsers)
				r.Post("/", h.createUser)
				r.Get("/me", h.me)
				r.Get("/{id}", h.getUser)
				r.Put("/{id}", h.updateUser)
				r.Patch("/{id}", h.updateUser)
				r.Delete("/{id}", h.deleteUser)
			})
		})
	})

	return router
}
