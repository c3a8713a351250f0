package main

import (
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"fintrack/internal/domain/fraud"
	"fintrack/internal/domain/ingest"
	"fintrack/internal/domain/ledger"
	"fintrack/internal/domain/message"
	"fintrack/internal/domain/user"
	"fintrack/internal/infrastructure/postgres"
	httphandlers "fintrack/internal/interfaces/http"
	"fintrack/internal/shared/auth"
	"fintrack/internal/shared/cache"
	"fintrack/internal/shared/config"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB    *postgres.DB
	Cache *cache.Cache

	// Handlers
	AuthHandler    *httphandlers.AuthHandler
	IngestHandler  *httphandlers.IngestHandler
	FinanceHandler *httphandlers.FinanceHandler

	// Auth
	JWT *auth.JWT

	// Pipeline (for the scheduler's job provider)
	Pipeline  *ingest.Service
	Generator *message.Generator
}

// NewDependencies initializes all application dependencies.
func NewDependencies(cfg *config.Config, log zerolog.Logger) (*Dependencies, error) {
	// Connect to database
	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}
	log.Info().Msg("connected to database")

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	logRepo := postgres.NewMessageLogRepository(db)
	alertRepo := postgres.NewAlertRepository(db)
	expenseRepo := postgres.NewExpenseRepository(db)
	incomeRepo := postgres.NewIncomeRepository(db)
	goalRepo := postgres.NewGoalRepository(db)

	// Report cache
	reportCache, err := cache.New(cfg.Cache.NumCounters, cfg.Cache.MaxCostBytes, cfg.Cache.TTL)
	if err != nil {
		db.Close()
		return nil, err
	}

	// Initialize domain services. The pipeline invalidates cached reports
	// after routing writes, same as the HTTP write handlers do.
	userService := user.NewService(userRepo)
	ledgerService := ledger.NewService(incomeRepo, goalRepo)
	detector := fraud.NewDetector(logRepo, log)
	pipeline := ingest.NewService(logRepo, alertRepo, expenseRepo, ledgerService, userService, detector, log).
		WithInvalidator(reportCache)

	// Message generator for the simulated feed
	seed := cfg.Ingestion.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	generator := message.NewGenerator(rand.New(rand.NewSource(seed)), cfg.Ingestion.SuspiciousRate)

	// Initialize auth components
	jwt := auth.NewJWT(cfg.JWT.Secret)

	// Initialize handlers
	authHandler := httphandlers.NewAuthHandler(userService, jwt, log)
	ingestHandler := httphandlers.NewIngestHandler(pipeline, logRepo, alertRepo, log)
	financeHandler := httphandlers.NewFinanceHandler(ledgerService, expenseRepo, reportCache, log)

	return &Dependencies{
		DB:             db,
		Cache:          reportCache,
		AuthHandler:    authHandler,
		IngestHandler:  ingestHandler,
		FinanceHandler: financeHandler,
		JWT:            jwt,
		Pipeline:       pipeline,
		Generator:      generator,
	}, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.Cache != nil {
		d.Cache.Close()
	}
	if d.DB != nil {
		d.DB.Close()
	}
}
