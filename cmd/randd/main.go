package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/saadrahim/rocRAND/internal/device"
	"github.com/saadrahim/rocRAND/internal/metrics"
	"github.com/saadrahim/rocRAND/internal/randd"
	"github.com/saadrahim/rocRAND/pkg/config"
	"github.com/saadrahim/rocRAND/pkg/logger"
)

func main() {
	var configPath string
	var httpAddr string
	var logLevel string

	flag.StringVar(&configPath, "config", "", "path to YAML config file")
	flag.StringVar(&httpAddr, "http-addr", "", "HTTP listen address (overrides config)")
	flag.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error; overrides config)")
	flag.Parse()

	// .env is optional; flags and config take precedence over defaults.
	_ = godotenv.Load()

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			logger.Error("failed to load config", "path", configPath, "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if httpAddr != "" {
		cfg.HTTPAddr = httpAddr
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	logger.SetDefault(logger.NewText(cfg.LogLevel, os.Stdout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool := device.NewPool(cfg.Device.MemoryLimitMB << 20)
	collector := metrics.NewCollector()
	store := randd.NewJobStore()
	executor := randd.NewExecutor(store, collector, pool, randd.ExecutorConfig{
		Grid: device.Grid{
			Blocks:          cfg.Device.Blocks,
			ThreadsPerBlock: cfg.Device.ThreadsPerBlock,
		},
		DefaultSeed:   cfg.Generator.DefaultSeed,
		DefaultOffset: cfg.Generator.DefaultOffset,
	})
	executor.Start(ctx)

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           randd.NewHTTPServer(store, executor, collector).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		logger.Info("HTTP server listening", "addr", cfg.HTTPAddr,
			"blocks", cfg.Device.Blocks, "threads_per_block", cfg.Device.ThreadsPerBlock)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown requested")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown error", "error", err)
	}
	executor.Stop()
}
