/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. CORS:       Cross-origin requests for the frontend
  2. httplog:    Structured request logging (ECS schema)
  3. RequestID:  Unique ID per request for tracing
  4. CleanPath:  Normalizes double slashes
  5. Recoverer:  Panic recovery (500 instead of crash)
  6. Heartbeat:  GET /health for load balancers

ROUTE GROUPS:
  /api/employees/*        Employees, provisioning, notifications
  /api/periods/*          Balance, validation, fractions, approval
  /api/holidays/*         Holiday calendar
  /api/collective-rules/* Collective vacation rules
  /api/org-units/*        Org tree
  /api/config, /statuses  System configuration and status catalog
  /api/admin/*            Bulk provisioning, scheduler status
  /api/scenarios/*        Demo scenarios

SECURITY NOTE:
  No authentication middleware. Identity is established upstream.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

// RouterOptions configures NewRouter.
type RouterOptions struct {
	AllowedOrigins []string
	Logger         *slog.Logger
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173"}
	}
	logger := opts.Logger
	if logger == nil {
		logger = h.Logger
	}

	// Middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	r.Route("/api", func(r chi.Router) {
		// Employee routes
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
			r.Get("/{id}", h.GetEmployee)
			r.Post("/{id}/periods", h.ProvisionPeriod)
			r.Get("/{id}/notifications", h.ListNotifications)
		})

		// Period routes
		r.Route("/periods/{id}", func(r chi.Router) {
			r.Get("/", h.GetPeriod)
			r.Get("/balance", h.GetBalance)
			r.Post("/validate", h.ValidateFraction)
			r.Post("/approve", h.ApprovePeriod)
			r.Post("/reject", h.RejectPeriod)

			r.Route("/fractions", func(r chi.Router) {
				r.Post("/", h.SubmitFraction)
				r.Delete("/", h.ClearSchedule)
				r.Put("/{fid}", h.EditFraction)
				r.Delete("/{fid}", h.DeleteFraction)
			})
		})

		// Calendar routes
		r.Route("/holidays", func(r chi.Router) {
			r.Get("/", h.ListHolidays)
			r.Post("/", h.CreateHoliday)
			r.Delete("/{id}", h.DeleteHoliday)
		})
		r.Route("/collective-rules", func(r chi.Router) {
			r.Get("/", h.ListCollectiveRules)
			r.Post("/", h.CreateCollectiveRule)
			r.Delete("/{id}", h.DeleteCollectiveRule)
		})

		r.Route("/org-units", func(r chi.Router) {
			r.Get("/", h.ListOrgUnits)
			r.Post("/", h.CreateOrgUnit)
		})

		// Configuration routes
		r.Get("/config", h.GetConfig)
		r.Put("/config", h.UpdateConfig)
		r.Route("/statuses", func(r chi.Router) {
			r.Get("/", h.ListStatuses)
			r.Post("/", h.UpsertStatus)
			r.Delete("/{id}", h.DeleteStatus)
		})

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Post("/periods/bulk", h.BulkProvision)
			r.Get("/scheduler", h.GetSchedulerStatus)
			r.Post("/scheduler/run", h.RunScheduler)
		})

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetDatabase)
		})
	})

	return r
}
