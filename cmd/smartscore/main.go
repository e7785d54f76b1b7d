// Package main provides the smartscore command line: feed ingestion,
// fixture forecasts, accuracy tracking and the prediction API.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/backtest"
	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/config"
	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/database"
	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/logger"
	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/metrics"
	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/prediction"
	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/repository"
	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var configFile string

// app holds the dependencies shared by every subcommand
type app struct {
	cfg         *config.Config
	log         *logrus.Logger
	db          database.Conn
	repos       *repository.Repositories
	cache       *service.PredictionCache
	predictions *service.PredictionService
	accuracy    *service.AccuracyService
}

var rootCmd = &cobra.Command{
	Use:     "smartscore",
	Short:   "Football match outcome predictions",
	Long:    `Forecasts football fixtures with a Poisson scoreline model and tracks how accurate the forecasts were.`,
	Version: fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate),
}

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, relying on actual environment variables")
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")

	rootCmd.AddCommand(
		newMigrateCmd(),
		newIngestCmd(),
		newPredictCmd(),
		newReportCmd(),
		newAccuracyCmd(),
		newServeCmd(),
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

// loadConfig reads, overlays secrets onto and validates the configuration.
func loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := config.LoadWithDefaults(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := config.LoadSecrets(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to load secrets: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// setup opens the database and builds the services. The caller must Close.
func setup(ctx context.Context) (*app, error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, err
	}

	appLog := logger.New(cfg.App.LogLevel, cfg.App.Environment, os.Stderr)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"version":     Version,
		"driver":      cfg.Database.Driver,
	}).Info("SmartScore starting")

	metrics.InitRegistry()

	db, err := database.Initialize(ctx, &cfg.Database, appLog)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	repos, err := repository.NewRepositories(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize repositories: %w", err)
	}

	params, err := prediction.ParamsFromConfig(&cfg.Model)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("invalid model parameters: %w", err)
	}
	engine, err := prediction.NewEngine(params, appLog)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create prediction engine: %w", err)
	}

	cache := service.NewPredictionCache(cfg.CacheTTL())
	predictions := service.NewPredictionService(engine, repos, cache, cfg.Features.PersistPredictions, appLog)

	trackerCfg, err := backtest.FromConfig(&cfg.Accuracy)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("invalid accuracy configuration: %w", err)
	}
	accuracy, err := service.NewAccuracyService(predictions, trackerCfg, appLog)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &app{
		cfg:         cfg,
		log:         appLog,
		db:          db,
		repos:       repos,
		cache:       cache,
		predictions: predictions,
		accuracy:    accuracy,
	}, nil
}

// Close releases the database connection.
func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		a.log.WithError(err).Error("Failed to close database connection")
	}
}

// withApp runs fn with a fully wired app and a command timeout.
func withApp(timeout time.Duration, fn func(ctx context.Context, a *app) error) error {
	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(ctx, a)
}
