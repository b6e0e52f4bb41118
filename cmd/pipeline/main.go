package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/kevin1015wang/SentimentAnalyzers/internal/apify"
	"github.com/kevin1015wang/SentimentAnalyzers/internal/cache"
	"github.com/kevin1015wang/SentimentAnalyzers/internal/db"
	"github.com/kevin1015wang/SentimentAnalyzers/internal/report"
	"github.com/kevin1015wang/SentimentAnalyzers/internal/scraper"
	"github.com/kevin1015wang/SentimentAnalyzers/internal/sentiment"
	"github.com/kevin1015wang/SentimentAnalyzers/pkg/config"
	"github.com/kevin1015wang/SentimentAnalyzers/pkg/logging"
	"github.com/kevin1015wang/SentimentAnalyzers/pkg/telemetry"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logging.InitLogger(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.GetLogger().Sync()

	logger := logging.GetLogger()
	logger.Info("Starting collection pipeline")

	// Initialize telemetry
	telemetryShutdown, err := telemetry.Init(&cfg.Telemetry)
	if err != nil {
		logger.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer telemetryShutdown()

	if err := run(cfg); err != nil {
		logger.Fatal("Pipeline failed", zap.Error(err))
	}

	logger.Info("Pipeline finished")
}

func run(cfg *config.Config) error {
	ctx := context.Background()
	logger := logging.GetLogger()

	// Database
	database, err := db.New(&cfg.Database, cfg.Logging.Level)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		return err
	}

	// Optional dedup-key cache
	seen, err := cache.New(&cfg.Redis)
	if err != nil {
		return err
	}
	defer seen.Close()

	// Remote job API
	client, err := apify.New(&cfg.Apify)
	if err != nil {
		return err
	}

	repo := db.NewRepository(database.DB)
	runner := scraper.NewRunner(client, cfg.Poll)

	// Platforms run one after another; a failed platform contributes no
	// rows this cycle and must not stop the other one.
	platforms := []struct {
		platform scraper.Platform
		quota    int
	}{
		{scraper.NewRedditPlatform(repo, seen, cfg.Reddit), cfg.Reddit.DBLimit},
		{scraper.NewInstagramPlatform(repo, seen, cfg.Instagram), cfg.Instagram.DBLimit},
	}

	for _, p := range platforms {
		summary, err := runner.Collect(ctx, p.platform, p.quota)
		if err != nil {
			logger.Error("Platform run failed",
				zap.String("platform", p.platform.Name()),
				zap.Error(err))
			continue
		}
		logger.Info("Platform run complete",
			zap.String("platform", p.platform.Name()),
			zap.Int("added", summary.Added),
			zap.Int("skipped", summary.Skipped),
			zap.Int("errored", summary.Errored))
	}

	// Sentiment scoring
	analyzer := sentiment.NewAnalyzer(repo)
	if err := analyzer.Run(ctx); err != nil {
		return err
	}

	// Reports and chart
	reporter := report.NewReporter(database.DB, cfg.Report.Dir)
	if err := reporter.Run(ctx); err != nil {
		return err
	}

	return nil
}
