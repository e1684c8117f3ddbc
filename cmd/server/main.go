package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/alphacapital/riskengine/internal/config"
	"github.com/alphacapital/riskengine/internal/database"
	"github.com/alphacapital/riskengine/internal/modules/analysis"
	"github.com/alphacapital/riskengine/internal/modules/marketdata"
	"github.com/alphacapital/riskengine/internal/modules/optimization"
	"github.com/alphacapital/riskengine/internal/modules/riskmetrics"
	"github.com/alphacapital/riskengine/internal/modules/simulation"
	"github.com/alphacapital/riskengine/internal/modules/universe"
	"github.com/alphacapital/riskengine/internal/scheduler"
	"github.com/alphacapital/riskengine/internal/server"
	"github.com/alphacapital/riskengine/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootstrap := logger.New(logger.Config{Level: "info", Pretty: true})
		bootstrap.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().
		Str("fund", cfg.FundName).
		Float64("aum", cfg.AUM).
		Str("strategy", cfg.Strategy).
		Msg("Starting risk engine")

	// Databases
	universeDB := mustOpenDB(log, cfg.DataDir, "universe")
	defer universeDB.Close()
	historyDB := mustOpenDB(log, cfg.DataDir, "history")
	defer historyDB.Close()
	analysisDB := mustOpenDB(log, cfg.DataDir, "analysis")
	defer analysisDB.Close()

	// Repositories
	universeRepo := universe.NewRepository(universeDB.Conn(), log)
	historyRepo := marketdata.NewRepository(historyDB.Conn(), log)
	analysisRepo := analysis.NewRepository(analysisDB.Conn(), log)

	for _, init := range []func() error{universeRepo.Init, historyRepo.Init, analysisRepo.Init} {
		if err := init(); err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize repositories")
		}
	}

	if err := seedData(log, cfg, universeRepo, historyRepo); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed data")
	}

	// Core services
	engine := riskmetrics.NewEngine(cfg.AUM, cfg.RiskFreeRate, cfg.PeriodsPerYear, log)
	sharpe := optimization.NewSharpeOptimizer(cfg.Tolerance, cfg.MaxIterations, log)
	minVar := optimization.NewMinVarianceOptimizer(log)
	sim := simulation.NewSimulator(cfg.AUM, 0, log)

	analysisService := analysis.NewService(
		analysis.Settings{
			FundName:        cfg.FundName,
			AUM:             cfg.AUM,
			RiskFreeRate:    cfg.RiskFreeRate,
			ConfidenceLevel: cfg.ConfidenceLevel,
			PeriodsPerYear:  cfg.PeriodsPerYear,
			Strategy:        cfg.Strategy,
			Bounds:          optimization.Bounds{Min: cfg.MinWeight, Max: cfg.MaxWeight},
			Trials:          cfg.Trials,
			HorizonPeriods:  cfg.HorizonPeriods,
			Seed:            cfg.Seed,
		},
		engine, sharpe, minVar, sim,
		universeRepo, historyRepo, analysisRepo,
		log,
	)

	// Scheduler and background jobs
	sched := scheduler.New(log)
	jobErr := sched.AddJob("0 0 18 * * MON-FRI", scheduler.NewRefreshAnalysisJob(analysisService, log))
	if jobErr == nil {
		jobErr = sched.AddJob("@hourly", scheduler.NewCheckDatabasesJob(
			[]*database.DB{universeDB, historyDB, analysisDB}, log))
	}
	if jobErr != nil {
		log.Fatal().Err(jobErr).Msg("Failed to register jobs")
	}
	sched.Start()
	defer sched.Stop()

	// HTTP server
	srv := server.New(server.Config{
		Port:            cfg.Port,
		DevMode:         cfg.DevMode,
		Log:             log,
		AnalysisHandler: analysis.NewHandler(analysisService, analysisRepo, log),
		UniverseHandler: universe.NewHandler(universeRepo, log),
		SystemHandlers: server.NewSystemHandlers(
			log, universeRepo, historyRepo, analysisRepo, sched),
	})

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

func mustOpenDB(log zerolog.Logger, dataDir, name string) *database.DB {
	db, err := database.New(database.Config{
		Path: filepath.Join(dataDir, name+".db"),
		Name: name,
	})
	if err != nil {
		log.Fatal().Err(err).Str("database", name).Msg("Failed to open database")
	}
	return db
}

// seedData populates empty databases so a fresh install can run an analysis
// immediately: the reference universe plus a generated return series.
func seedData(
	log zerolog.Logger,
	cfg *config.Config,
	universeRepo *universe.Repository,
	historyRepo *marketdata.Repository,
) error {
	count, err := universeRepo.Count()
	if err != nil {
		return err
	}
	if count == 0 {
		if err := universeRepo.ReplaceAll(universe.Default()); err != nil {
			return err
		}
		log.Info().Msg("Seeded default universe")
	}

	count, err = historyRepo.Count()
	if err != nil {
		return err
	}
	if count == 0 {
		series, err := marketdata.GenerateReturnSeries(marketdata.DefaultGeneratorConfig(cfg.Seed))
		if err != nil {
			return err
		}
		if _, err := historyRepo.Save(series, marketdata.BenchmarkReturns(series, cfg.Seed)); err != nil {
			return err
		}
		log.Info().
			Int("periods", series.Periods()).
			Int("assets", series.Assets()).
			Msg("Seeded generated return series")
	}

	return nil
}
