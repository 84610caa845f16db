package routes

import (
	"net/http"
	"time"

	"infinite-experiment/flightlog/internal/api"
	"infinite-experiment/flightlog/internal/logging"
	"infinite-experiment/flightlog/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes builds the HTTP surface. gatherer backs the /metrics endpoint.
func RegisterRoutes(deps *api.Dependencies, upSince time.Time, gatherer prometheus.Gatherer) http.Handler {

	// initialize Chi router
	r := chi.NewRouter()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.MetricsMiddleware(deps.Metrics))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://localhost:8081"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	logging.Info("Router initialized with metrics and logging middleware")

	// health check and metrics
	r.Get("/healthCheck", api.HealthCheckHandler(deps.SQL, deps.Redis, upSince))
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	handlers := api.NewHandlers(deps)
	limiter := middleware.NewIPRateLimiter(20, 40, "127.0.0.1", "::1")

	RegisterAPIRoutes(r, handlers, deps, limiter)

	return r
}

// RegisterAPIRoutes registers all API v1 routes and handlers
func RegisterAPIRoutes(r chi.Router, handlers *api.Handlers, deps *api.Dependencies, limiter *middleware.IPRateLimiter) {
	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(limiter.Middleware)
		v1.Use(middleware.AuthMiddleware(deps.Services.Tokens)) // all routes must carry a bearer token
		v1.Use(middleware.InFlightMiddleware(deps.Metrics, "api_v1"))

		v1.Post("/pireps", handlers.CreatePirep())
		v1.Get("/pireps/{id}", handlers.GetPirep())
		v1.Patch("/pireps/{id}", handlers.EditPirep())
		v1.Get("/pireps/{id}/events", handlers.ListPirepEvents())
		v1.Get("/pilots/{id}/ledger", handlers.GetPilotLedger())
		v1.Get("/pilots/{id}/pireps", handlers.ListPilotPireps())

		// Staff-only group
		v1.Group(func(staff chi.Router) {
			staff.Use(middleware.IsStaffMiddleware())
			staff.Post("/pireps/{id}/approve", handlers.ApprovePirep())
			staff.Post("/pireps/{id}/deny", handlers.DenyPirep())
		})
	})
}
