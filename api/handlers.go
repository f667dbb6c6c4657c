package api

import (
	"time"

	"github.com/rpupo63/portfolio-backend/auth"
	"github.com/rpupo63/portfolio-backend/catalog"
)

// Dependencies are the long-lived objects the handlers work on
type Dependencies struct {
	Store       *catalog.Store
	Tokens      auth.TokenService
	Credentials auth.AdminCredentials
	// Importer is nil when no GitHub account is configured
	Importer refresher
}

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(deps Dependencies, startupTime time.Time) *routeHandlers {
	return &routeHandlers{
		authHandler:    newAuthHandler(deps.Tokens, deps.Credentials),
		catalogHandler: newCatalogHandler(deps.Store, deps.Importer),
		projectHandler: newProjectHandler(deps.Store),
		healthHandler:  newHealthHandler(startupTime),
	}
}
