package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"titipsini/internal/amqp"
	"titipsini/internal/backend"
	"titipsini/internal/cache"
	"titipsini/internal/cli"
	"titipsini/internal/core"
	"titipsini/internal/dashboard"
	apphttp "titipsini/internal/http"
	applog "titipsini/internal/log"
	"titipsini/internal/services"
)

func main() {
	cfg, logger := cli.LoadConfig("titipsini")

	anchor, err := cfg.Anchor()
	if err != nil {
		logger.Error("Invalid anchor date", "error", err, "anchor", cfg.AnchorDate)
		os.Exit(1)
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	be, err := backend.NewFactory(logger.Logger).CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize data backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	dashCfg := dashboard.DefaultConfig()
	dashCfg.Anchor = anchor
	dashCfg.OpeningBalance = core.Money{Units: cfg.OpeningBalance}
	dashCfg.CacheTTL = cfg.CacheTTL
	dash := dashboard.NewService(be.Backend, be.Backend, be.Backend, dashCfg)

	cacheManager := cache.NewManager()
	cacheManager.Register("dashboard_summaries", dash.Cache())
	for name, c := range be.Caches {
		cacheManager.Register(name, c)
	}
	cacheManager.StartCleanup(cfg.CacheTTL)

	// SIGHUP re-reads the ledger seed and drops cached summaries.
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	go func() {
		for range hup {
			reloadLedger(logger, be, dash)
		}
	}()

	// Login audit is optional; without a broker the sign-in just skips publishing.
	var publisher services.LoginPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, cfg.AMQPRoutingKey)
		if err != nil {
			logger.Warn("AMQP unavailable, login audit disabled", "error", err)
		} else {
			publisher = client
			logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}
	auth := services.NewAuthService(publisher)

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Dependencies{
		Dashboard:      dash,
		Auth:           auth,
		Ready:          be.Ping,
		Logger:         logger,
		LoginRateLimit: cfg.LoginRateLimit,
	})

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		signal.Stop(hup)
		cacheManager.Stop()
		if err := auth.Close(); err != nil {
			logger.Warn("Failed to close AMQP client", "error", err)
		}
		if err := be.Close(); err != nil {
			logger.Warn("Failed to close data backend", "error", err)
		}
	})

	logger.Info("Starting titipsini server",
		"port", cfg.Port,
		"backend", be.Type.String(),
		"anchor", anchor.String())
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}

func reloadLedger(logger *applog.Logger, be *backend.BackendResult, dash *dashboard.Service) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if be.Reload != nil {
		n, err := be.Reload(ctx)
		if err != nil {
			logger.Error("Ledger reload failed", "error", err, "backend", be.Type.String())
			return
		}
		logger.Info("Ledger reloaded", "backend", be.Type.String(), "transactions", n)
	}
	dash.Invalidate()
	logger.Info("Dashboard cache invalidated")
}
