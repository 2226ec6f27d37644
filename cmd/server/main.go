// Package main is the entry point for the moni portfolio dashboard backend.
// It wires configuration, the three SQLite databases, module repositories
// and services, the background scheduler and the HTTP server, then runs
// until a shutdown signal arrives.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/moni-app/moni/internal/config"
	"github.com/moni-app/moni/internal/database"
	"github.com/moni-app/moni/internal/modules/accounts"
	accountshandlers "github.com/moni-app/moni/internal/modules/accounts/handlers"
	"github.com/moni-app/moni/internal/modules/assets"
	assetshandlers "github.com/moni-app/moni/internal/modules/assets/handlers"
	"github.com/moni-app/moni/internal/modules/charts"
	chartshandlers "github.com/moni-app/moni/internal/modules/charts/handlers"
	"github.com/moni-app/moni/internal/modules/holdings"
	holdingshandlers "github.com/moni-app/moni/internal/modules/holdings/handlers"
	"github.com/moni-app/moni/internal/modules/ledger"
	ledgerhandlers "github.com/moni-app/moni/internal/modules/ledger/handlers"
	"github.com/moni-app/moni/internal/modules/portfolio"
	portfoliohandlers "github.com/moni-app/moni/internal/modules/portfolio/handlers"
	"github.com/moni-app/moni/internal/modules/prices"
	"github.com/moni-app/moni/internal/modules/settings"
	settingshandlers "github.com/moni-app/moni/internal/modules/settings/handlers"
	"github.com/moni-app/moni/internal/modules/snapshots"
	snapshotshandlers "github.com/moni-app/moni/internal/modules/snapshots/handlers"
	"github.com/moni-app/moni/internal/reliability"
	"github.com/moni-app/moni/internal/scheduler"
	"github.com/moni-app/moni/internal/server"
	"github.com/moni-app/moni/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().Str("data_dir", cfg.DataDir).Msg("Starting moni")

	// Databases. portfolio.db holds the source of truth, config.db the
	// runtime settings, history.db the rebuildable time series.
	portfolioDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "portfolio.db"),
		Profile: database.ProfileStandard,
		Name:    "portfolio",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open portfolio database")
	}
	defer portfolioDB.Close()

	configDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "config.db"),
		Profile: database.ProfileStandard,
		Name:    "config",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open config database")
	}
	defer configDB.Close()

	historyDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "history.db"),
		Profile: database.ProfileCache,
		Name:    "history",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open history database")
	}
	defer historyDB.Close()

	databases := []*database.DB{portfolioDB, configDB, historyDB}
	for _, db := range databases {
		if err := db.Migrate(); err != nil {
			log.Fatal().Err(err).Str("database", db.Name()).Msg("Failed to migrate database")
		}
	}

	// Settings stored in config.db override environment configuration.
	settingsRepo := settings.NewRepository(configDB.Conn(), log)
	if err := cfg.UpdateFromSettings(settingsRepo); err != nil {
		log.Warn().Err(err).Msg("Failed to apply settings overrides")
	}

	// Repositories.
	assetRepo := assets.NewRepository(portfolioDB.Conn(), log)
	accountRepo := accounts.NewRepository(portfolioDB.Conn(), log)
	holdingRepo := holdings.NewRepository(portfolioDB.Conn(), log)
	ledgerRepo := ledger.NewRepository(portfolioDB.Conn(), log)
	snapshotRepo := snapshots.NewRepository(historyDB.Conn(), log)

	// Price source: stored quotes with the static table as seed data.
	priceSource := prices.NewStoreSource(historyDB.Conn(), log)
	if err := priceSource.Seed(prices.DefaultTable()); err != nil {
		log.Warn().Err(err).Msg("Failed to seed price quotes")
	}

	// Services.
	portfolioSvc := portfolio.NewService(holdingRepo, priceSource, log)
	snapshotSvc := snapshots.NewService(portfolioSvc, snapshotRepo, log)

	chartsDB, err := charts.OpenHistoryReadOnly(historyDB.Path())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open history database for charts")
	}
	defer chartsDB.Close()
	chartsSvc := charts.NewService(chartsDB, log)

	// Off-site backups, when configured.
	var backupSvc *reliability.BackupService
	if cfg.Backup.Enabled() {
		store, err := reliability.NewObjectStore(context.Background(), cfg.Backup, log)
		if err != nil {
			log.Error().Err(err).Msg("Failed to initialize backup object store")
		} else {
			backupSvc = reliability.NewBackupService(
				store, databases, cfg.DataDir, cfg.Backup.Prefix, cfg.Backup.Keep, log)
			log.Info().Str("bucket", cfg.Backup.Bucket).Msg("Backups enabled")
		}
	} else {
		log.Info().Msg("Backups not configured, skipping")
	}

	// Background jobs.
	sched := scheduler.New(log)
	if err := sched.AddJob(cfg.SnapshotSchedule, scheduler.NewSnapshotJob(snapshotSvc, log)); err != nil {
		log.Fatal().Err(err).Msg("Failed to register snapshot job")
	}
	if err := sched.AddJob("@daily", scheduler.NewMaintenanceJob(databases, log)); err != nil {
		log.Fatal().Err(err).Msg("Failed to register maintenance job")
	}
	if backupSvc != nil {
		if err := sched.AddJob(cfg.BackupSchedule, scheduler.NewBackupJob(backupSvc, log)); err != nil {
			log.Fatal().Err(err).Msg("Failed to register backup job")
		}
	}
	sched.Start()
	defer sched.Stop()

	// HTTP server.
	srv := server.New(server.Config{
		Log:    log,
		Config: cfg,
		Modules: []server.RouteRegistrar{
			portfoliohandlers.NewHandler(portfolioSvc, log),
			assetshandlers.NewHandler(assetRepo, log),
			accountshandlers.NewHandler(accountRepo, log),
			holdingshandlers.NewHandler(holdingRepo, log),
			ledgerhandlers.NewHandler(ledgerRepo, log),
			snapshotshandlers.NewHandler(snapshotSvc, log),
			chartshandlers.NewHandler(chartsSvc, log),
			settingshandlers.NewHandler(settingsRepo, log),
		},
		SystemHandlers: server.NewSystemHandlers(log, cfg.DataDir, databases, backupSvc),
		StreamHandler: server.NewStreamHandler(
			portfolioSvc, time.Duration(cfg.StreamInterval)*time.Second, log),
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("HTTP server stopped unexpectedly")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}

	log.Info().Msg("Shutdown complete")
}
