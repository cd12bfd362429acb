package main

import (
	"context"
	"net/http"
	"os"

	"goab/adapters/analytic"
	"goab/adapters/montecarlo"
	"goab/adapters/postgres"
	"goab/adapters/rng"
	"goab/app"
	"goab/internal"
	"goab/internal/config"
	"goab/ports"
	"goab/ui"
)

func main() {
	logger := internal.NewDefaultLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("loading configuration: %v", err)
		os.Exit(1)
	}

	var repo ports.ExperimentRepository
	if cfg.Database.URL != "" {
		db, err := postgres.Connect(cfg.Database.URL)
		if err != nil {
			logger.Error("connecting to database: %v", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := postgres.Migrate(context.Background(), db); err != nil {
			logger.Error("migrating database: %v", err)
			os.Exit(1)
		}
		repo = postgres.NewExperimentRepository(db)
		logger.Info("persistence enabled")
	} else {
		logger.Warn("DATABASE_URL not set, running without persistence")
	}

	simulation := montecarlo.NewResamplingReferee(rng.NewDeterministic(), cfg.Analysis.Seed)
	simulation.SetResamples(cfg.Analysis.Resamples)
	simulation.SetWorkers(cfg.Analysis.Workers)

	service, err := app.NewExperimentService(
		[]ports.RefereePort{analytic.NewReferee(), simulation}, repo)
	if err != nil {
		logger.Error("building experiment service: %v", err)
		os.Exit(1)
	}

	server := ui.NewApp(service, repo, logger)
	logger.Info("listening on :%s", cfg.Server.Port)
	if err := http.ListenAndServe(":"+cfg.Server.Port, server.Router()); err != nil {
		logger.Error("server failed: %v", err)
		os.Exit(1)
	}
}
