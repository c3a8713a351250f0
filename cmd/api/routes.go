package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"fintrack/internal/shared/config"
	"fintrack/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler with middleware.
func SetupRoutes(deps *Dependencies, cfg *config.Config, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logging(log))
	r.Use(middleware.CORS)
	if cfg.Telemetry.Enabled {
		r.Use(middleware.Telemetry)
		r.Use(middleware.Tracing)
	}

	r.Get("/health", handleHealth)

	// Public auth routes
	r.Post("/api/auth/register", deps.AuthHandler.Register)
	r.Post("/api/auth/login", deps.AuthHandler.Login)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(deps.JWT))

		r.Delete("/api/users/me", deps.AuthHandler.DeleteAccount)

		r.Post("/api/messages", deps.IngestHandler.IngestMessage)
		r.Get("/api/messages", deps.IngestHandler.ListMessages)
		r.Get("/api/alerts", deps.IngestHandler.ListAlerts)

		r.Post("/api/goals", deps.FinanceHandler.CreateGoal)
		r.Get("/api/goals", deps.FinanceHandler.ListGoals)
		r.Post("/api/goals/{id}/contributions", deps.FinanceHandler.Contribute)
		r.Get("/api/goals/contributions/month", deps.FinanceHandler.MonthlyContribution)

		r.Put("/api/income", deps.FinanceHandler.SetIncome)
		r.Get("/api/income/latest", deps.FinanceHandler.LatestIncome)

		r.Get("/api/expenses", deps.FinanceHandler.ListExpenses)
		r.Get("/api/expenses/summary", deps.FinanceHandler.ExpenseSummary)
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
