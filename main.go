package main

import (
	"context"
	"log"

	"gomediate/adapters/api"
	"gomediate/adapters/estimator"
	"gomediate/adapters/postgres"
	"gomediate/adapters/rng"
	"gomediate/app"
	"gomediate/internal"
	"gomediate/internal/config"
	"gomediate/ports"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	// Load .env if present; real deployments set variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}
	gin.SetMode(cfg.Server.GinMode)

	logger := internal.NewDefaultLogger()

	var runs ports.RunRepository
	if cfg.Database.URL != "" {
		db, err := sqlx.Connect("postgres", cfg.Database.URL)
		if err != nil {
			log.Fatalf("database connection failed: %v", err)
		}
		if err := postgres.EnsureSchema(context.Background(), db); err != nil {
			log.Fatalf("schema setup failed: %v", err)
		}
		runs = postgres.NewRunRepository(db)
		logger.Info("run persistence enabled")
	} else {
		logger.Info("DATABASE_URL not set, run persistence disabled")
	}

	service := app.NewMediationService(estimator.New(), rng.NewDeterministic(), runs, logger)
	server := api.NewServer(service, app.RunOptions{
		Iterations: cfg.Engine.DefaultIterations,
		Workers:    cfg.Engine.Workers,
	}, logger)

	if err := server.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
