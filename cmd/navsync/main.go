// Package main provides the NAV-history synchronization daemon and its
// one-shot maintenance commands.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/fund-compare/internal/config"
	"github.com/yourusername/fund-compare/internal/database"
	"github.com/yourusername/fund-compare/internal/health"
	"github.com/yourusername/fund-compare/internal/logger"
	"github.com/yourusername/fund-compare/internal/metrics"
	"github.com/yourusername/fund-compare/internal/provider"
	"github.com/yourusername/fund-compare/internal/repository"
	"github.com/yourusername/fund-compare/internal/scheduler"
	"github.com/yourusername/fund-compare/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile  string
	instruments []string
	appLog      *logrus.Logger
	cfg         *config.Config
	db          *database.DB
	repos       *repository.Repositories
	syncSvc     *service.NAVSyncService
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	runCmd.Flags().StringSliceVar(&instruments, "instruments", nil, "Instrument IDs to sync (default from config)")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
}

var rootCmd = &cobra.Command{
	Use:   "navsync",
	Short: "Synchronize NAV histories into local storage",
	Long:  `Mirrors upstream NAV price histories into PostgreSQL so comparisons can run against local data.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupDependencies(cmd.Context())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			db.Close()
		}
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one synchronization pass and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := instruments
		if len(ids) == 0 {
			ids = cfg.Sync.Instruments
		}
		if len(ids) == 0 {
			return fmt.Errorf("no instruments configured: set sync.instruments or pass --instruments")
		}

		report, err := syncSvc.SyncAll(cmd.Context(), ids)
		if err != nil {
			return err
		}

		fmt.Printf("Synced %d instruments: %d rows written, %d failures in %s\n",
			report.Instruments, report.RowsWritten, report.Failures, report.Duration.Round(time.Millisecond))
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the sync scheduler until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.Sync.Enabled {
			return fmt.Errorf("sync is disabled: set sync.enabled to true")
		}

		metrics.InitRegistry()

		sched := scheduler.NewScheduler(syncSvc, appLog)
		if err := sched.ScheduleNAVSync(cfg.Sync.Schedule, cfg.Sync.Instruments); err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		healthServer := health.NewServer(health.Config{
			ServiceName:   "navsync",
			Version:       Version,
			Commit:        GitCommit,
			Port:          fmt.Sprintf("%d", cfg.Metrics.Port),
			Logger:        appLog,
			DB:            db,
			Scheduler:     sched,
			ExposeMetrics: cfg.Metrics.Enabled,
		})
		if err := healthServer.Start(ctx); err != nil {
			return err
		}

		if err := sched.Start(); err != nil {
			return err
		}
		healthServer.SetReady(true)
		appLog.WithField("next_run", sched.GetNextRun()).Info("NAV sync scheduler running")

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop

		healthServer.SetReady(false)
		return sched.Stop()
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show stored instruments and their freshness",
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := repos.NAVHistory.ListInstruments(cmd.Context())
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			fmt.Println("No NAV history stored")
			return nil
		}

		for _, id := range ids {
			latest, err := repos.NAVHistory.LatestObservation(cmd.Context(), id)
			if err != nil {
				fmt.Printf("%-24s error: %v\n", id, err)
				continue
			}
			fmt.Printf("%-24s latest observation %s\n", id, latest.Format("2006-01-02"))
		}
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func setupDependencies(ctx context.Context) error {
	var err error
	cfg, err = config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err = config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	appLog = logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)

	db, err = database.Initialize(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	repos, err = repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	httpCfg := provider.DefaultHTTPClientConfig()
	httpCfg.Timeout = cfg.ProviderTimeout()
	httpCfg.MaxRetries = cfg.Providers.MaxRetries
	httpCfg.RateLimit = cfg.Providers.RateLimitPerSecond

	httpClient := provider.NewRateLimitedHTTPClient(httpCfg, appLog)
	navClient := provider.NewNAVAPIClient(httpClient, cfg.Providers.BaseURL, cfg.Providers.APIKey, appLog)

	syncSvc = service.NewNAVSyncService(navClient, repos.NAVHistory, appLog)
	return nil
}
