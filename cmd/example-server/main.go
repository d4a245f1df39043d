package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/manenim/excessflow/pkg/config"
	"github.com/manenim/excessflow/pkg/limiter"
	"github.com/manenim/excessflow/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load configuration", "error", err)
		os.Exit(1)
	}
	logger := cfg.NewLogger(os.Stdout)

	client, err := config.NewRedisClient(cfg)
	if err != nil {
		logger.Error("build redis client", "error", err)
		os.Exit(1)
	}
	store := limiter.NewRedisStore(client)
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Timeout())
	err = store.Ping(pingCtx)
	cancel()
	if err != nil {
		logger.Error("redis unreachable", "url", cfg.RedisURL, "error", err)
		os.Exit(1)
	}

	l := limiter.New(store,
		limiter.WithLogger(logger),
		limiter.WithRecorder(metrics.NewRecorder(prometheus.DefaultRegisterer)),
	)

	srv := &http.Server{
		Addr:              ":8080",
		Handler:           newMux(l, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown", "error", err)
		}
	}()

	logger.Info("server listening", "addr", srv.Addr, "redis", cfg.RedisURL, "sentinels", cfg.Sentinels)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("serve", "error", err)
		os.Exit(1)
	}
}
