package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/panupunn/lease-manager/internal/config"
	httpapi "github.com/panupunn/lease-manager/internal/http"
	"github.com/panupunn/lease-manager/internal/service"
	"github.com/panupunn/lease-manager/internal/store"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	cfg := config.Load()

	logger := buildLogger(cfg)
	defer logger.Sync()

	var st store.Store
	switch cfg.Store.Backend {
	case "sheets":
		if cfg.Sheets.BaseURL == "" {
			logger.Fatal("STORE_BACKEND=sheets requires SHEETS_BASE_URL")
		}
		st = store.NewSheetsStore(cfg.Sheets.BaseURL, cfg.Sheets.Token, cfg.Sheets.Worksheet, logger)
	case "memory":
		st = store.NewMemoryStore()
	default:
		st = store.NewExcelStore(cfg.Excel.Path, cfg.Excel.Sheet, logger)
	}
	logger.Info("record store selected", zap.String("backend", cfg.Store.Backend))

	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		var kv store.KV
		if cfg.Cache.Redis.Addr != "" {
			redisClient = redis.NewClient(&redis.Options{
				Addr:     cfg.Cache.Redis.Addr,
				Password: cfg.Cache.Redis.Password,
				DB:       cfg.Cache.Redis.DB,
			})
			kv = store.NewRedisKV(redisClient)
		} else {
			kv = store.NewMemoryKV()
		}
		st = store.NewCachedStore(st, kv, cfg.Cache.TTL, logger)
	}

	svc := service.NewLeaseService(st, logger)
	handler := httpapi.NewLeaseHandler(svc, logger)
	router := httpapi.NewRouter(logger)
	router.RegisterLeaseRoutes(handler)

	srv := service.NewServer(cfg.HTTP.Addr, router, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
	case err := <-errCh:
		logger.Error("HTTP server exited", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
	if redisClient != nil {
		_ = redisClient.Close()
	}
}

func buildLogger(cfg *config.Config) *zap.Logger {
	zc := zap.NewProductionConfig()
	if cfg.Log.Format == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	if level, err := zapcore.ParseLevel(cfg.Log.Level); err == nil {
		zc.Level = zap.NewAtomicLevelAt(level)
	}
	logger, err := zc.Build()
	if err != nil {
		logger, _ = zap.NewProduction()
	}
	return logger
}
