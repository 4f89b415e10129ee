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
	"github.com/jdkatz21/Prediction-Markets-Public/internal/export"
	"github.com/jdkatz21/Prediction-Markets-Public/internal/model"
	"github.com/jdkatz21/Prediction-Markets-Public/internal/pipeline"
	"github.com/jdkatz21/Prediction-Markets-Public/internal/store"
	"github.com/jdkatz21/Prediction-Markets-Public/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/markets.yaml", "path to config file")
	marketType := flag.String("market-type", "", "process only this market type (default: all)")
	source := flag.String("source", "csv", `trade input source: "csv" (trade archive) or "db"`)
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

	logger.Info("starting pipeline",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	if *source != "csv" && *source != "db" {
		logger.Error("unknown trade source", "source", *source)
		os.Exit(1)
	}

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("failed to load timezone", "timezone", cfg.Timezone, "error", err)
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

	if *source == "db" && db == nil {
		logger.Error("-source=db requires a database; set database.host in config")
		os.Exit(1)
	}

	exitCode := 0
	for _, mt := range cfg.MarketTypes {
		if *marketType != "" && mt.Name != *marketType {
			continue
		}
		if err := runMarketType(ctx, cfg, mt, loc, db, *source, logger); err != nil {
			logger.Error("market type run failed", "market_type", mt.Name, "error", err)
			exitCode = 1
		}
	}

	logger.Info("pipeline finished")
	os.Exit(exitCode)
}

// runMarketType executes the full stage sequence for one market type and
// writes its distribution and moment outputs. Trades come from the CSV
// archive or, with -source=db, from the trades table.
func runMarketType(
	ctx context.Context,
	cfg *config.Config,
	mt config.MarketTypeConfig,
	loc *time.Location,
	db *store.Store,
	source string,
	logger *slog.Logger,
) error {
	var trades []model.TradeRecord
	if source == "db" {
		var err error
		trades, err = db.TradesForTickers(ctx, mt.Tickers)
		if err != nil {
			return fmt.Errorf("read trades: %w", err)
		}
	} else {
		var skipped int
		var err error
		trades, skipped, err = export.ReadTrades(mt.TradesFile)
		if err != nil {
			return fmt.Errorf("read trades: %w", err)
		}
		if skipped > 0 {
			logger.Warn("skipped unparseable trade rows",
				"market_type", mt.Name,
				"file", mt.TradesFile,
				"count", skipped,
			)
		}
	}

	runner, err := pipeline.NewRunner(
		toSettings(mt, cfg.Pipeline.MaxSmoothPasses, loc),
		cfg.Pipeline.Concurrency,
		logger.With("market_type", mt.Name),
	)
	if err != nil {
		return err
	}

	result, err := runner.Run(ctx, trades)
	if err != nil {
		return err
	}

	distPath := export.DistributionsPath(cfg.Pipeline.OutputDir, mt.Name)
	if err := export.WriteDistributions(distPath, result.Distributions); err != nil {
		return err
	}

	momentsPath := export.MomentsPath(cfg.Pipeline.OutputDir, mt.Name)
	if err := export.WriteMoments(momentsPath, result.Moments); err != nil {
		return err
	}

	logger.Info("outputs written",
		"market_type", mt.Name,
		"distributions", distPath,
		"moments", momentsPath,
	)

	if db != nil {
		if err := db.UpsertDistributions(ctx, mt.Name, result.Distributions); err != nil {
			return err
		}
		if err := db.UpsertMoments(ctx, mt.Name, result.Moments); err != nil {
			return err
		}
		logger.Info("outputs persisted", "market_type", mt.Name)
	}

	return nil
}

// toSettings maps a market type config onto pipeline settings.
func toSettings(mt config.MarketTypeConfig, maxSmoothPasses int, loc *time.Location) pipeline.Settings {
	excluded := make([]pipeline.ExcludedBin, len(mt.ExcludedBins))
	for i, ex := range mt.ExcludedBins {
		excluded[i] = pipeline.ExcludedBin{Family: ex.Family, BinKey: ex.Bin}
	}

	return pipeline.Settings{
		Name:            mt.Name,
		Aggregation:     pipeline.AggregationPolicy(mt.Aggregation),
		Convention:      pipeline.Convention(mt.Convention),
		StrikeInterval:  mt.StrikeInterval,
		WindowDays:      mt.WindowDays,
		HorizonTrimDays: mt.HorizonTrimDays,
		ExcludedBins:    excluded,
		MaxSmoothPasses: maxSmoothPasses,
		Location:        loc,
	}
}
