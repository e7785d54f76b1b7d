package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/backtest"
	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/datasource"
	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/metrics"
	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/scheduler"
	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/server"
	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/service"
)

const commandTimeout = 30 * time.Minute

func newIngestionService(a *app) (*service.IngestionService, error) {
	source, err := datasource.NewFromConfig(&a.cfg.Ingestion, a.log)
	if err != nil {
		return nil, fmt.Errorf("failed to create data source: %w", err)
	}
	pause := time.Duration(a.cfg.Ingestion.PauseSeconds) * time.Second
	svc := service.NewIngestionService(source, a.repos.Match, a.cfg.Ingestion.Competitions, pause, a.log)
	return svc.WithPredictionCache(a.cache), nil
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(time.Minute, func(ctx context.Context, a *app) error {
				a.log.WithField("driver", a.db.Driver()).Info("Schema is up to date")
				return nil
			})
		},
	}
}

func newIngestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest",
		Short: "Fetch fixtures and results from the football data feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(commandTimeout, func(ctx context.Context, a *app) error {
				svc, err := newIngestionService(a)
				if err != nil {
					return err
				}
				m, err := svc.Run(ctx)
				if m != nil {
					fmt.Fprintln(cmd.OutOrStdout(), m.String())
				}
				return err
			})
		},
	}
}

func newPredictCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "predict",
		Short: "Forecast upcoming fixtures and store first-time predictions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(commandTimeout, func(ctx context.Context, a *app) error {
				summary, err := a.predictions.PredictUpcoming(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(),
					"Predicted: %d  Stored: %d  Already stored: %d  Invalid: %d  Failed: %d  Rejected records: %d\n",
					summary.Predicted, summary.Stored, summary.Duplicates, summary.Invalid, summary.Failed, summary.Rejected)
				return nil
			})
		},
	}
}

func newReportCmd() *cobra.Command {
	var horizonHours int

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print forecasts for fixtures kicking off soon",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(commandTimeout, func(ctx context.Context, a *app) error {
				horizon := time.Duration(horizonHours) * time.Hour
				return a.predictions.WriteDailyReport(ctx, cmd.OutOrStdout(), time.Now().UTC(), horizon)
			})
		},
	}
	cmd.Flags().IntVar(&horizonHours, "hours", 24, "Report fixtures kicking off within this many hours")
	return cmd
}

func newAccuracyCmd() *cobra.Command {
	var (
		stored bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "accuracy",
		Short: "Measure prediction accuracy against finished matches",
		Long: `By default every finished match is re-predicted from the matches played
before it. With --stored, the predictions saved at forecast time are scored instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(commandTimeout, func(ctx context.Context, a *app) error {
				var (
					report *backtest.Report
					err    error
				)
				if stored {
					report, err = a.accuracy.ScoreStored(ctx)
				} else {
					report, err = a.accuracy.Replay(ctx)
				}
				if err != nil {
					return err
				}

				fmt.Fprint(cmd.OutOrStdout(), backtest.GenerateConsoleReport(report))

				if output == "" {
					output = a.cfg.Accuracy.OutputPath
				}
				if output != "" {
					if err := backtest.GenerateCSVExport(report, output); err != nil {
						return fmt.Errorf("failed to export evaluations: %w", err)
					}
					a.log.WithField("path", output).Info("Evaluations exported")
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&stored, "stored", false, "Score stored predictions instead of replaying history")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write per-match evaluations to this CSV file")
	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the prediction API and scheduled jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			a, err := setup(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			return serve(ctx, cancel, a)
		},
	}
}

func serve(ctx context.Context, cancel context.CancelFunc, a *app) error {
	var sched *scheduler.Scheduler
	if a.cfg.Scheduler.Enabled {
		ingestion, err := newIngestionService(a)
		if err != nil {
			return err
		}
		sched, err = scheduler.FromConfig(&a.cfg.Scheduler, ingestion, a.predictions, a.accuracy, a.log)
		if err != nil {
			return fmt.Errorf("failed to configure scheduler: %w", err)
		}
		if err := sched.Start(); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		a.log.WithField("next_run", sched.GetNextRun()).Info("Scheduler running")
	}

	srvCfg := server.Config{
		ServiceName:  a.cfg.App.Name,
		Version:      Version,
		Commit:       GitCommit,
		Address:      a.cfg.Server.Address,
		ReadTimeout:  time.Duration(a.cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(a.cfg.Server.WriteTimeoutSeconds) * time.Second,
		Logger:       a.log,
		DB:           a.db,
		Accuracy:     a.accuracy,
	}
	if a.cfg.Features.ServeAPI {
		srvCfg.Predictions = a.predictions
	}
	if a.cfg.Metrics.Enabled {
		srvCfg.Metrics = metrics.Handler()
		srvCfg.MetricsPath = a.cfg.Metrics.Path
	}

	srv := server.NewServer(srvCfg)
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	srv.SetReady(true)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	a.log.WithField("signal", sig).Info("Shutdown signal received")

	srv.SetReady(false)
	cancel()

	if sched != nil {
		if err := sched.Stop(); err != nil {
			a.log.WithError(err).Warn("Scheduler did not stop cleanly")
		}
	}
	if err := srv.Shutdown(); err != nil {
		a.log.WithError(err).Warn("Server did not shut down cleanly")
	}

	a.log.WithFields(logrus.Fields{"version": Version}).Info("SmartScore stopped")
	return nil
}
