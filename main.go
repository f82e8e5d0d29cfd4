package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"testworth/adapters/postgres"
	"testworth/adapters/rng"
	"testworth/app"
	"testworth/internal"
	"testworth/internal/config"
	"testworth/internal/migration"
	"testworth/internal/profiling"
	"testworth/internal/worker"
	"testworth/ports"
	"testworth/ui"
)

func main() {
	// .env is optional; environment variables win either way
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	logger := internal.NewDefaultLogger()

	var ledger ports.LedgerPort
	if cfg.Database.URL != "" {
		db, err := sqlx.Connect("postgres", cfg.Database.URL)
		if err != nil {
			log.Fatalf("database connection failed: %v", err)
		}
		if err := migration.EnsureSchema(db); err != nil {
			log.Fatalf("schema migration failed: %v", err)
		}
		ledger = postgres.NewCalculationRepository(db)
		logger.Info("calculation ledger enabled")
	} else {
		logger.Info("DATABASE_URL not set, running without a calculation ledger")
	}

	if cfg.Profiling.Enabled {
		profiling.StartDebugServer(cfg.Profiling.Port, logger)
	}

	computeWorker := worker.New(cfg.Engine.WorkerCapacity, logger)
	service := app.NewAnalysisService(computeWorker, rng.NewSystemRNG(), ledger, logger, cfg.Engine.DefaultSamples)

	gin.SetMode(cfg.Server.GinMode)
	server := ui.NewServer(service, ledger, logger)
	if err := server.Run(cfg.Server.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
