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

	"github.com/jdkatz21/Prediction-Markets-Public/internal/api"
	"github.com/jdkatz21/Prediction-Markets-Public/internal/auth"
	"github.com/jdkatz21/Prediction-Markets-Public/internal/config"
	"github.com/jdkatz21/Prediction-Markets-Public/internal/export"
	"github.com/jdkatz21/Prediction-Markets-Public/internal/model"
	"github.com/jdkatz21/Prediction-Markets-Public/internal/store"
	"github.com/jdkatz21/Prediction-Markets-Public/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/markets.yaml", "path to config file")
	marketType := flag.String("market-type", "", "scrape only this market type (default: all)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting scraper",
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

	// The trades feed is public, so a signer is optional.
	var signer api.RequestSigner
	if cfg.API.KeyID != "" && cfg.API.PrivateKeyPath != "" {
		s, err := auth.NewSigner(cfg.API.KeyID, cfg.API.PrivateKeyPath)
		if err != nil {
			logger.Error("failed to load API credentials", "error", err)
			os.Exit(1)
		}
		signer = s
	}

	client := api.NewClient(
		cfg.API.RestURL,
		signer,
		api.WithLogger(logger),
		api.WithTimeout(cfg.API.Timeout),
		api.WithRetries(cfg.API.MaxRetries, time.Second),
	)

	var db *store.Store
	if cfg.Database.Enabled() {
		pool, err := store.Connect(ctx, cfg.Database)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		db = store.New(pool, logger)
		if err := db.EnsureSchema(ctx); err != nil {
			logger.Error("failed to ensure schema", "error", err)
			os.Exit(1)
		}
		logger.Info("database connected")
	}

	exitCode := 0
	for _, mt := range cfg.MarketTypes {
		if *marketType != "" && mt.Name != *marketType {
			continue
		}
		if err := scrapeMarketType(ctx, client, db, mt, cfg.API.PageLimit, cfg.API.TickerPause, logger); err != nil {
			logger.Error("market type scrape failed", "market_type", mt.Name, "error", err)
			exitCode = 1
		}
	}

	logger.Info("scraper finished")
	os.Exit(exitCode)
}

// scrapeMarketType pulls the full trade history for every ticker of one
// market type, writes the combined CSV, and optionally persists to the
// database.
func scrapeMarketType(
	ctx context.Context,
	client *api.Client,
	db *store.Store,
	mt config.MarketTypeConfig,
	pageLimit int,
	tickerPause time.Duration,
	logger *slog.Logger,
) error {
	logger.Info("scraping market type",
		"market_type", mt.Name,
		"tickers", len(mt.Tickers),
	)

	var all []model.TradeRecord
	badRows := 0

	for i, ticker := range mt.Tickers {
		if err := ctx.Err(); err != nil {
			return err
		}
		if i > 0 && tickerPause > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(tickerPause):
			}
		}

		raw, err := client.GetAllTrades(ctx, api.GetTradesOptions{
			Ticker: ticker,
			Limit:  pageLimit,
		})
		if err != nil {
			return fmt.Errorf("fetch trades for %s: %w", ticker, err)
		}

		for _, at := range raw {
			rec, err := at.ToModel()
			if err != nil {
				badRows++
				continue
			}
			all = append(all, rec)
		}

		logger.Info("ticker scraped", "ticker", ticker, "trades", len(raw))
	}

	if badRows > 0 {
		logger.Warn("dropped unparseable trades", "market_type", mt.Name, "count", badRows)
	}

	// Merge into the existing archive so families dropped from the ticker
	// list keep their history.
	added, total, err := export.UpdateTrades(mt.TradesFile, all)
	if err != nil {
		return fmt.Errorf("update trades file: %w", err)
	}
	logger.Info("trades file updated",
		"path", mt.TradesFile,
		"fetched", len(all),
		"added", added,
		"total", total,
	)

	if db != nil {
		inserted, conflicts, err := db.InsertTrades(ctx, all)
		if err != nil {
			return fmt.Errorf("persist trades: %w", err)
		}
		logger.Info("trades persisted", "inserted", inserted, "duplicates", conflicts)
	}

	return nil
}
