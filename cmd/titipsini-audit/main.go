package main

import (
	"context"
	"errors"
	"os"

	"titipsini/internal/amqp"
	"titipsini/internal/cli"
	applog "titipsini/internal/log"
	"titipsini/internal/storage"
	"titipsini/internal/worker"
)

func main() {
	cfg, logger := cli.LoadConfig("titipsini-audit")
	logger.Info("Starting titipsini-audit")

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the audit worker")
		os.Exit(1)
	}

	sqliteRepo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	logRecentLogins(logger, sqliteRepo)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, cfg.AMQPRoutingKey)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		_ = sqliteRepo.Close()
		os.Exit(1)
	}

	auditWorker := worker.NewAuditWorker(sqliteRepo)

	consumeCtx, stopConsuming := context.WithCancel(context.Background())
	ctx, done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, func(context.Context) {
		stopConsuming()
		recorded, duplicates := auditWorker.Stats()
		logger.Info("Audit worker stopping", "recorded", recorded, "duplicates", duplicates)
		if err := amqpClient.Close(); err != nil {
			logger.Warn("Failed to close AMQP client", "error", err)
		}
		if err := sqliteRepo.Close(); err != nil {
			logger.Warn("Failed to close SQLite repository", "error", err)
		}
	})

	go func() {
		if err := amqpClient.ConsumeLoginEvents(consumeCtx, auditWorker.HandleLoginEvent); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Message consumption failed", "error", err)
			os.Exit(1)
		}
	}()

	cli.WaitForShutdown(ctx, done)
}

// logRecentLogins reports what the audit table already holds.
func logRecentLogins(logger *applog.Logger, repo *storage.SQLiteRepository) {
	events, err := repo.RecentLoginEvents(context.Background(), 5)
	if err != nil {
		logger.Warn("Failed to read recent login events", "error", err)
		return
	}
	if len(events) == 0 {
		logger.Info("No login events recorded yet")
		return
	}
	logger.Info("Recent login events", "count", len(events), "latest_id", events[0].ID, "latest_email", events[0].Email)
}
