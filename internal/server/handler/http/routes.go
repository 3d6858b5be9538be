// Package http provides HTTP routing and middleware configuration for the
// identity service.
package http

import (
	"net/http"

	"github.com/avoronov/gotwis/internal/metrics"
	"github.com/avoronov/gotwis/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves the identity
// API. It applies request identification, request logging, and metrics
// instrumentation, and mounts the identity endpoints under /api.
//
// Routes:
//
//	POST /api/register   → identityHandler.Register
//	POST /api/login      → identityHandler.Login
//	POST /api/logout     → identityHandler.Logout
//	PUT  /api/password   → identityHandler.ChangePassword
//	GET  /api/session    → identityHandler.Session
//	GET  /metrics        → Prometheus scrape endpoint
func NewRouter(identityHandler *IdentityHandler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithRequestID)
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(metrics.Instrument)

	r.Route("/api", func(r chi.Router) {
		// Mutating endpoints carry JSON bodies
		r.Group(func(r chi.Router) {
			r.Use(chiMiddleware.AllowContentType("application/json"))

			r.Post("/register", identityHandler.Register)
			r.Post("/login", identityHandler.Login)
			r.Post("/logout", identityHandler.Logout)
			r.Put("/password", identityHandler.ChangePassword)
		})

		r.Get("/session", identityHandler.Session)
	})

	r.Handle("/metrics", metrics.Handler())

	return r
}
