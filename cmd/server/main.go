package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/EncryptEx/ichack26/internal"
	"github.com/EncryptEx/ichack26/internal/api"
	"github.com/EncryptEx/ichack26/internal/auth"
	"github.com/EncryptEx/ichack26/internal/cache"
	"github.com/EncryptEx/ichack26/internal/config"
	"github.com/EncryptEx/ichack26/internal/realtime"
	"github.com/EncryptEx/ichack26/internal/seed"
	"github.com/EncryptEx/ichack26/internal/service"
	"github.com/EncryptEx/ichack26/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := internal.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("failed to init storage: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Errorf("failed to flush storage: %v", err)
		}
	}()

	c, err := cache.New(ctx, cfg.CacheBackend, cfg.RedisAddr, logger)
	if err != nil {
		logger.Fatalf("failed to init cache: %v", err)
	}
	defer c.Close()

	hubCtx, stopHub := context.WithCancel(context.Background())
	hub := realtime.NewHub(logger)
	go hub.Run(hubCtx)

	gen := seed.NewGenerator(cfg.SeedMode)
	boards := &service.Leaderboards{
		Gen:    gen,
		Users:  store,
		Cache:  c,
		TTL:    cfg.LeaderboardTTL,
		Logger: logger,
	}
	app := api.NewApplication(logger, store, gen, boards, hub)
	provider := auth.New(cfg, store, logger)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewRouter(app, provider, cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infow("server starting", "addr", cfg.HTTPAddr, "env", cfg.Env, "storage", cfg.DBType, "cache", cfg.CacheBackend, "seed_mode", gen.Mode())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	// Websocket connections are hijacked and not tracked by Shutdown.
	stopHub()
	<-hub.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	}
}
