// Package main provides the entry point for the fund comparison CLI tool.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/fund-compare/internal/config"
	"github.com/yourusername/fund-compare/internal/database"
	"github.com/yourusername/fund-compare/internal/logger"
	"github.com/yourusername/fund-compare/internal/models"
	"github.com/yourusername/fund-compare/internal/provider"
	"github.com/yourusername/fund-compare/internal/repository"
	"github.com/yourusername/fund-compare/internal/service"
)

func main() {
	var (
		configPath         = flag.String("config", "config/config.yaml", "Path to config file")
		currentID          = flag.String("current", "", "Current instrument ID")
		comparisonID       = flag.String("comparison", "", "Comparison instrument ID")
		currentCategory    = flag.String("current-category", "large_cap", "Current instrument category")
		comparisonCategory = flag.String("comparison-category", "large_cap", "Comparison instrument category")
		mode               = flag.String("mode", "lumpsum", "Investment mode: lumpsum or sip")
		amount             = flag.String("amount", "", "Investment amount (per month for sip)")
		startDate          = flag.String("start-date", "", "Investment start date (YYYY-MM-DD)")
		endDate            = flag.String("end-date", "", "Investment end date (YYYY-MM-DD)")
		benchmark          = flag.String("benchmark", "", "Override benchmark index key")
		includeRisk        = flag.Bool("risk", false, "Include portfolio risk metrics")
		output             = flag.String("output", "", "Output path for the result JSON (default stdout)")
	)
	flag.Parse()

	log := newBootstrapLogger()
	ctx := context.Background()

	cfg := loadConfigWithSecrets(*configPath, log)
	log = logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)

	input, err := buildInput(*currentID, *comparisonID, *currentCategory, *comparisonCategory,
		*mode, *amount, *startDate, *endDate, *benchmark)
	if err != nil {
		log.Fatalf("Invalid arguments: %v", err)
	}
	input.IncludeRisk = *includeRisk || cfg.Comparison.IncludeRisk

	dataProvider, cleanup := buildProvider(ctx, cfg, log)
	defer cleanup()

	svc := service.NewComparisonService(dataProvider, cfg, logger.NewComparisonLogger(log))
	result, err := svc.Compare(ctx, *input)
	if err != nil {
		log.Fatalf("Comparison failed: %v", err)
	}

	if err := writeResult(result, *output); err != nil {
		log.Fatalf("Failed to write result: %v", err)
	}
}

func newBootstrapLogger() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return log
}

func loadConfigWithSecrets(path string, log *logrus.Logger) *config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}

func buildInput(currentID, comparisonID, currentCategory, comparisonCategory,
	mode, amount, startDate, endDate, benchmark string) (*service.CompareInput, error) {

	if currentID == "" || comparisonID == "" {
		return nil, fmt.Errorf("both -current and -comparison are required")
	}

	currentCat := models.Category(currentCategory)
	comparisonCat := models.Category(comparisonCategory)
	if !currentCat.IsValid() || !comparisonCat.IsValid() {
		return nil, fmt.Errorf("unknown instrument category")
	}

	amountValue, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", amount, err)
	}

	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date: %w", err)
	}

	var end time.Time
	if endDate != "" {
		end, err = time.Parse("2006-01-02", endDate)
		if err != nil {
			return nil, fmt.Errorf("invalid end date: %w", err)
		}
	}

	return &service.CompareInput{
		Current:    models.Instrument{ID: currentID, Category: currentCat},
		Comparison: models.Instrument{ID: comparisonID, Category: comparisonCat},
		Request: models.InvestmentRequest{
			Mode:      models.InvestmentMode(mode),
			Amount:    amountValue,
			StartDate: start,
			EndDate:   end,
		},
		BenchmarkIndex: benchmark,
	}, nil
}

// dbSeriesProvider serves instrument series from local storage while
// delegating benchmark and rate lookups to the live provider.
type dbSeriesProvider struct {
	provider.Provider
	repo repository.NAVHistoryRepository
}

func (p *dbSeriesProvider) GetSeries(ctx context.Context, instrumentID string) (models.PriceSeries, error) {
	return p.repo.GetSeries(ctx, instrumentID)
}

func buildProvider(ctx context.Context, cfg *config.Config, log *logrus.Logger) (provider.Provider, func()) {
	httpCfg := provider.DefaultHTTPClientConfig()
	httpCfg.Timeout = cfg.ProviderTimeout()
	httpCfg.MaxRetries = cfg.Providers.MaxRetries
	httpCfg.RateLimit = cfg.Providers.RateLimitPerSecond

	httpClient := provider.NewRateLimitedHTTPClient(httpCfg, log)
	navClient := provider.NewNAVAPIClient(httpClient, cfg.Providers.BaseURL, cfg.Providers.APIKey, log)
	cached := provider.NewCachedProvider(navClient, cfg.ProviderCacheTTL(), log)

	if !cfg.Providers.UseDatabaseSeries {
		return cached, func() {}
	}

	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	repos, err := repository.NewRepositories(db)
	if err != nil {
		log.Fatalf("Failed to initialize repositories: %v", err)
	}

	return &dbSeriesProvider{Provider: cached, repo: repos.NAVHistory}, db.Close
}

func writeResult(result *models.ComparisonResult, outputPath string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}

	if outputPath == "" {
		fmt.Println(string(data))
		return nil
	}

	return os.WriteFile(outputPath, append(data, '\n'), 0o644)
}
