package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clickonomy/clickonomy-go/internal/api"
	"github.com/clickonomy/clickonomy-go/internal/config"
	"github.com/clickonomy/clickonomy-go/internal/factory"
	"github.com/clickonomy/clickonomy-go/internal/scheduler"
	"github.com/clickonomy/clickonomy-go/internal/services/gate"
	redisstorage "github.com/clickonomy/clickonomy-go/internal/storage/redis"
)

func main() {
	// Resolve configuration: defaults, then the TOML file, then environment.
	// CONFIG_FILE points at an explicit file; otherwise clickonomy.toml in
	// the working directory is picked up when present.
	configPath := os.Getenv("CONFIG_FILE")
	if configPath == "" {
		if _, err := os.Stat("clickonomy.toml"); err == nil {
			configPath = "clickonomy.toml"
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := buildLogger(cfg.Log)
	slog.SetDefault(logger)

	// Build factory config
	appCfg := factory.Config{
		GateConfig: gate.Config{
			SessionDuration: cfg.SessionDuration(),
			StartingBalance: cfg.Auth.StartingBalance,
			StartingTap:     cfg.Auth.StartingTap,
			MinPasswordLen:  cfg.Auth.MinPasswordLen,
		},
		SchedulerConfig: scheduler.Config{
			TickPeriod:  cfg.TickPeriod(),
			MarketEvery: cfg.Simulation.MarketEvery,
		},
		Logger:      logger,
		StorageType: cfg.Storage.Type,
	}

	if cfg.Storage.Type == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.Storage.Redis.URL
		redisCfg.PoolSize = cfg.Storage.Redis.PoolSize
		redisCfg.MinIdleConns = cfg.Storage.Redis.MinIdleConns
		redisCfg.SessionTTL = cfg.SessionDuration()
		appCfg.RedisConfig = &redisCfg
	}

	// Create application factory
	app, err := factory.New(appCfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Create API router
	router := api.NewRouter(api.RouterConfig{
		Logger:             logger,
		Clock:              app.Clock,
		GateService:        app.GateService,
		SettingsService:    app.SettingsService,
		PromoService:       app.PromoService,
		AdminService:       app.AdminService,
		LeaderboardService: app.LeaderboardService,
		Manager:            app.Manager,
		Gateway:            app.Gateway,
	})

	// Create server
	serverCfg := api.DefaultServerConfig()
	serverCfg.Port = cfg.Server.Port
	serverCfg.ReadTimeout = time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second
	serverCfg.ShutdownTimeout = time.Duration(cfg.Server.ShutdownSeconds) * time.Second
	server := api.NewServer(router, serverCfg, logger)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("storage", cfg.Storage.Type),
	)

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
		}
		// Every stopped runtime has already persisted its player on the
		// last completed tick; stopping just halts the loops.
		app.Manager.StopAll()
	}

	logger.Info("server stopped")
}

func buildLogger(cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     cfg.Level,
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}
