// Package main provides the lead pruner entry point. One invocation is one
// full pruning run: fetch campaigns, analyze, select, back up, delete,
// report. The process exits non-zero when the run fails.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lead-pruner/internal/adapter"
	"github.com/lead-pruner/internal/config"
	"github.com/lead-pruner/internal/logging"
	"github.com/lead-pruner/internal/notify"
	"github.com/lead-pruner/internal/service"
	"github.com/lead-pruner/internal/storage"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	startedAt := time.Now().UTC()
	logger, logPath, err := logging.Setup(logging.Config{
		Level: cfg.Logging.Level,
		Dir:   cfg.Artifacts.Dir,
	}, startedAt)
	if err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	logger.Infof("SmartLead lead pruner starting, log file %s", logPath)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx = logging.WithLogger(ctx, logger)

	// A signal aborts the run between deletions; the report still goes out.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-quit
		logger.Warnf("Received signal %s, aborting run", sig)
		cancel()
	}()

	client := adapter.NewSmartleadClient(cfg.SmartLead, logger)

	filter, err := service.NewCampaignFilter(client, cfg.Pruning, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize campaign filter")
	}

	var notifier service.Notifier
	if cfg.Email.Enabled {
		notifier = notify.NewEmailNotifier(cfg.Email, logger)
	} else {
		logger.Warn("Email notifications are disabled")
	}

	pipeline := service.NewPipeline(
		client,
		filter,
		service.NewCampaignSelector(cfg.Pruning.TargetLeads, logger),
		service.NewBackupCollector(client, logger),
		service.NewDeletionExecutor(client, cfg.Pruning.DeleteDelay, logger),
		service.NewRunReporter(notifier, cfg.Pruning, logger),
		cfg.Artifacts.Dir,
		logger,
	)
	pipeline.LogFile = logPath

	if cfg.Storage.Enabled {
		postgres, err := storage.NewPostgresDB(cfg.Storage.Postgres)
		if err != nil {
			logger.WithError(err).Fatal("Failed to connect to Postgres")
		}
		defer postgres.Close()
		pipeline.Audit = storage.NewAuditStore(postgres)
		logger.Info("Audit database connected")
	}

	// The lock is taken last so no startup failure can leave it held until
	// the TTL expires.
	var lock *storage.RunLock
	if cfg.RunLock.Enabled {
		lock, err = storage.NewRunLock(cfg.RunLock)
		if err != nil {
			logger.WithError(err).Fatal("Failed to connect to Redis")
		}
		defer func() {
			_ = lock.Close()
		}()

		acquired, err := lock.Acquire(ctx)
		if err != nil {
			logger.WithError(err).Fatal("Failed to acquire run lock")
		}
		if !acquired {
			logger.Warn("Another pruning run is in progress, exiting")
			return
		}
		logger.Infof("Run lock acquired (TTL %s)", cfg.RunLock.TTL)
	}

	stats, runErr := pipeline.Run(ctx)

	if lock != nil {
		// Release with a fresh context; ctx may already be cancelled.
		if err := lock.Release(context.Background()); err != nil {
			logger.Warnf("Failed to release run lock: %v", err)
		}
	}

	if runErr != nil {
		logger.Errorf("Pruning run failed: %v", runErr)
		os.Exit(1)
	}
	logger.Infof("Pruning run %s finished: %d leads deleted, %d failed",
		stats.RunID, stats.LeadsDeleted, stats.LeadsFailed)
}
