package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/fund-compare/internal/metrics"
	"github.com/yourusername/fund-compare/internal/models"
)

const navAPIProviderName = "nav_api"

// NAVAPIClient implements Provider against a fund/index data HTTP API
type NAVAPIClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	logger     *logrus.Logger
}

// navHistoryEntry is one observation as the API serves it. NAVs arrive as
// strings and are parsed with decimal to reject malformed or non-positive
// values before they reach the engine.
type navHistoryEntry struct {
	Date string `json:"date"`
	NAV  string `json:"nav"`
}

type riskFreeRateResponse struct {
	RatePct float64 `json:"rate_pct"`
	AsOf    string  `json:"as_of"`
}

// NewNAVAPIClient creates a new NAV API client
func NewNAVAPIClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, logger *logrus.Logger) *NAVAPIClient {
	return &NAVAPIClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		logger:     logger,
	}
}

// GetSeries retrieves the full NAV history for an instrument
func (c *NAVAPIClient) GetSeries(ctx context.Context, instrumentID string) (models.PriceSeries, error) {
	url := fmt.Sprintf("%s/funds/%s/nav-history", c.baseURL, instrumentID)
	return c.fetchSeries(ctx, url, instrumentID)
}

// GetBenchmarkSeries retrieves the price history for a benchmark index
func (c *NAVAPIClient) GetBenchmarkSeries(ctx context.Context, indexKey string) (models.PriceSeries, error) {
	url := fmt.Sprintf("%s/indices/%s/history", c.baseURL, indexKey)
	return c.fetchSeries(ctx, url, indexKey)
}

// GetBenchmarkStats retrieves trailing annualized volatility and return for
// a benchmark index.
func (c *NAVAPIClient) GetBenchmarkStats(ctx context.Context, indexKey, period string) (*BenchmarkStats, error) {
	url := fmt.Sprintf("%s/indices/%s/stats?period=%s", c.baseURL, indexKey, period)

	resp, err := c.get(ctx, url)
	if err != nil {
		return nil, models.NewUpstreamDataError(navAPIProviderName, indexKey, err)
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp, indexKey); err != nil {
		return nil, err
	}

	var stats BenchmarkStats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return nil, models.NewUpstreamDataError(navAPIProviderName, indexKey, err)
	}
	if stats.AnnualizedVolatilityPct < 0 {
		return nil, models.NewUpstreamDataError(navAPIProviderName, indexKey,
			fmt.Errorf("negative volatility %v", stats.AnnualizedVolatilityPct))
	}
	stats.IndexKey = indexKey
	stats.Period = period
	return &stats, nil
}

// GetRiskFreeRate retrieves the proxy long-duration government bond yield
func (c *NAVAPIClient) GetRiskFreeRate(ctx context.Context) (float64, error) {
	url := fmt.Sprintf("%s/rates/risk-free", c.baseURL)

	resp, err := c.get(ctx, url)
	if err != nil {
		return 0, models.NewUpstreamDataError(navAPIProviderName, "risk-free", err)
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp, "risk-free"); err != nil {
		return 0, err
	}

	var body riskFreeRateResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, models.NewUpstreamDataError(navAPIProviderName, "risk-free", err)
	}
	return body.RatePct, nil
}

func (c *NAVAPIClient) fetchSeries(ctx context.Context, url, key string) (models.PriceSeries, error) {
	resp, err := c.get(ctx, url)
	if err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues(navAPIProviderName, "error").Inc()
		return nil, models.NewUpstreamDataError(navAPIProviderName, key, err)
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp, key); err != nil {
		return nil, err
	}

	var entries []navHistoryEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues(navAPIProviderName, "malformed").Inc()
		return nil, models.NewUpstreamDataError(navAPIProviderName, key, err)
	}

	series, err := parseSeries(entries, c.logger, key)
	if err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues(navAPIProviderName, "malformed").Inc()
		return nil, err
	}
	metrics.ProviderRequestsTotal.WithLabelValues(navAPIProviderName, "ok").Inc()
	return series, nil
}

func (c *NAVAPIClient) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	}
	req.Header.Set("Accept", "application/json")
	return c.httpClient.Do(ctx, req)
}

func (c *NAVAPIClient) checkStatus(resp *http.Response, key string) error {
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %q: %w", navAPIProviderName, key, models.ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return models.NewUpstreamDataError(navAPIProviderName, key,
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
	return nil
}

// parseSeries converts raw API entries into a validated, sorted series.
// Malformed or non-positive NAVs fail the whole fetch; a second observation
// for an already-seen date is dropped so the engine only ever sees one entry
// per trading date.
func parseSeries(entries []navHistoryEntry, logger *logrus.Logger, key string) (models.PriceSeries, error) {
	series := make(models.PriceSeries, 0, len(entries))
	seen := make(map[time.Time]bool, len(entries))

	for _, entry := range entries {
		observedOn, err := time.Parse("2006-01-02", entry.Date)
		if err != nil {
			return nil, models.NewUpstreamDataError(navAPIProviderName, key, err)
		}
		nav, err := decimal.NewFromString(entry.NAV)
		if err != nil {
			return nil, models.NewUpstreamDataError(navAPIProviderName, key, err)
		}
		if nav.LessThanOrEqual(decimal.Zero) {
			return nil, models.NewUpstreamDataError(navAPIProviderName, key,
				fmt.Errorf("non-positive nav %s on %s", entry.NAV, entry.Date))
		}
		if seen[observedOn] {
			logger.WithFields(logrus.Fields{"key": key, "date": entry.Date}).
				Debug("Dropping duplicate NAV observation")
			continue
		}
		seen[observedOn] = true
		series = append(series, models.PricePoint{Date: observedOn, Price: nav.InexactFloat64()})
	}

	if !series.IsSorted() {
		series = series.Sorted()
	}
	return series, nil
}
