// Package http provides HTTP routing and middleware configuration
// for the account service.
package http

import (
	"net/http"

	"github.com/vpetrov/accountsvc/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves the
// account API. It applies JSON content-type enforcement and request
// logging, and mounts the account and login endpoints under /api.
//
// Routes:
//
//	POST   /api/login                        → accountHandler.Login
//	POST   /api/accounts                     → accountHandler.Create
//	GET    /api/accounts                     → accountHandler.List
//	GET    /api/accounts/{id}                → accountHandler.GetByID
//	PUT    /api/accounts/{id}                → accountHandler.Update
//	DELETE /api/accounts/{id}                → accountHandler.Delete
//	GET    /api/accounts/username/{username} → accountHandler.GetByUsername
func NewRouter(accountHandler *AccountHandler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	// Mount API routes
	r.Route("/api", func(r chi.Router) {
		r.Post("/login", accountHandler.Login)

		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", accountHandler.Create)
			r.Get("/", accountHandler.List)
			r.Get("/{id}", accountHandler.GetByID)
			r.Put("/{id}", accountHandler.Update)
			r.Delete("/{id}", accountHandler.Delete)
			r.Get("/username/{username}", accountHandler.GetByUsername)
		})
	})

	return r
}
