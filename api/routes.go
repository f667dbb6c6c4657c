package api

import (
	"github.com/go-chi/chi/v5"
)

// setupPublicRoutes registers the routes anyone may call
func setupPublicRoutes(r chi.Router, handlers *routeHandlers) {
	r.Get("/healthz", handlers.healthHandler.healthz())
	r.Get("/data", handlers.catalogHandler.getPublicData())

	r.Post("/auth/login", handlers.authHandler.login())
	r.Get("/auth/verify", handlers.authHandler.verify())
}

// setupAdminRoutes registers the routes that require a bearer token
func setupAdminRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.authenticate)

		r.Post("/auth/logout", handlers.authHandler.logout())

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/data", handlers.catalogHandler.getDashboardData())

			// Project Handler endpoints
			r.Post("/projects", handlers.projectHandler.createProject())
			r.Get("/projects/{projectID}", handlers.projectHandler.getProject())
			r.Put("/projects/{projectID}", handlers.projectHandler.updateProject())
			r.Delete("/projects/{projectID}", handlers.projectHandler.deleteProject())

			r.Put("/skills", handlers.catalogHandler.replaceSkills())
			r.Put("/learning", handlers.catalogHandler.replaceLearning())
			r.Post("/refresh-github", handlers.catalogHandler.refreshGitHub())
		})
	})
}
