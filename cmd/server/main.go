package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jdkatz21/Prediction-Markets-Public/internal/config"
	"github.com/jdkatz21/Prediction-Markets-Public/internal/store"
	"github.com/jdkatz21/Prediction-Markets-Public/internal/version"
	"github.com/jdkatz21/Prediction-Markets-Public/internal/webapi"
)

func main() {
	configPath := flag.String("config", "configs/markets.yaml", "path to config file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("starting query server",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Serve from Postgres when configured, otherwise from the pipeline's
	// CSV artifacts.
	var backing webapi.Store
	if cfg.Database.Enabled() {
		pool, err := store.Connect(ctx, cfg.Database)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		backing = store.New(pool, logger)
		logger.Info("database connected")
	} else {
		fs, err := store.NewFileStore(cfg.Pipeline.OutputDir, cfg.MarketTypes)
		if err != nil {
			logger.Error("failed to load CSV artifacts", "dir", cfg.Pipeline.OutputDir, "error", err)
			os.Exit(1)
		}
		backing = fs
		logger.Info("serving from CSV artifacts", "dir", cfg.Pipeline.OutputDir)
	}

	srv := webapi.New(backing, cfg.MarketTypes, logger)
	if err := srv.Start(ctx, cfg.Server.Port); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	logger.Info("query server stopped")
}
