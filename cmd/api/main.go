package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fintrack/internal/interfaces/scheduler"
	"fintrack/internal/shared/config"
	"fintrack/internal/shared/logger"
	"fintrack/internal/shared/telemetry"
)

func main() {
	// .env is optional; real deployments use the environment directly.
	_ = godotenv.Load()

	log := logger.New("fintrack-api")

	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("application error")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(cfg.Telemetry.ServiceName)

	ctx := context.Background()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.Init(ctx, telemetry.Config{
			ServiceName:  cfg.Telemetry.ServiceName,
			Environment:  os.Getenv("ENVIRONMENT"),
			OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
			MetricsPort:  "9090",
		}, log)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("telemetry shutdown failed")
			}
		}()
	}

	deps, err := NewDependencies(cfg, log)
	if err != nil {
		return err
	}
	defer deps.Close()

	if err := deps.DB.Migrate(ctx); err != nil {
		return err
	}
	log.Info().Msg("database schema up to date")

	// Simulated message feed
	var sched *scheduler.Scheduler
	if cfg.Ingestion.Enabled {
		sched, err = scheduler.New(scheduler.Config{
			Interval:     cfg.Ingestion.Interval,
			WorkerCount:  cfg.Ingestion.WorkerCount,
			QueueSize:    cfg.Ingestion.QueueSize,
			RunOnStartup: cfg.Ingestion.RunOnStartup,
			JobProvider:  scheduler.IngestBatchProvider(deps.Pipeline, deps.Generator, cfg.Ingestion.BatchSize),
		}, log)
		if err != nil {
			return err
		}
		sched.Start()
	} else {
		log.Info().Msg("message feed disabled")
	}

	handler := SetupRoutes(deps, cfg, log)

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error shutting down http server")
	}

	if sched != nil {
		sched.Stop()
	}

	log.Info().Msg("server stopped")
	return nil
}
