package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/fund-compare/internal/config"
	"github.com/yourusername/fund-compare/internal/logger"
	"github.com/yourusername/fund-compare/internal/models"
	"github.com/yourusername/fund-compare/internal/provider"
)

// MockProvider is a mock implementation of provider.Provider
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) GetSeries(ctx context.Context, instrumentID string) (models.PriceSeries, error) {
	args := m.Called(ctx, instrumentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.PriceSeries), args.Error(1)
}

func (m *MockProvider) GetBenchmarkSeries(ctx context.Context, indexKey string) (models.PriceSeries, error) {
	args := m.Called(ctx, indexKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.PriceSeries), args.Error(1)
}

func (m *MockProvider) GetBenchmarkStats(ctx context.Context, indexKey, period string) (*provider.BenchmarkStats, error) {
	args := m.Called(ctx, indexKey, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.BenchmarkStats), args.Error(1)
}

func (m *MockProvider) GetRiskFreeRate(ctx context.Context) (float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Error(1)
}

func testConfig() *config.Config {
	return &config.Config{
		Risk:       config.RiskConfig{BenchmarkPeriod: "3y"},
		Comparison: config.ComparisonConfig{DefaultBenchmark: "NIFTY50"},
	}
}

func newTestService(p provider.Provider) *ComparisonService {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	svc := NewComparisonService(p, testConfig(), logger.NewComparisonLogger(log))
	return svc.WithClock(func() time.Time {
		return time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	})
}

func monthlySeries(startPrice, monthlyGrowth float64, months int) models.PriceSeries {
	series := make(models.PriceSeries, 0, months)
	price := startPrice
	for i := 0; i < months; i++ {
		series = append(series, models.PricePoint{
			Date:  time.Date(2022, time.Month(1+i), 1, 0, 0, 0, 0, time.UTC),
			Price: price,
		})
		price *= 1 + monthlyGrowth
	}
	return series
}

func lumpSumInput() CompareInput {
	return CompareInput{
		Current:    models.Instrument{ID: "fund-a", Name: "Fund A", Category: models.CategoryLargeCap},
		Comparison: models.Instrument{ID: "fund-b", Name: "Fund B", Category: models.CategoryMidCap},
		Request: models.InvestmentRequest{
			Mode:      models.ModeLumpSum,
			Amount:    decimal.NewFromInt(100000),
			StartDate: time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestCompareWithBenchmark(t *testing.T) {
	mockProvider := new(MockProvider)
	mockProvider.On("GetSeries", mock.Anything, "fund-a").Return(monthlySeries(100, 0.01, 24), nil)
	mockProvider.On("GetSeries", mock.Anything, "fund-b").Return(monthlySeries(50, 0.02, 24), nil)
	mockProvider.On("GetBenchmarkSeries", mock.Anything, "NIFTY50").Return(monthlySeries(17000, 0.005, 24), nil)

	svc := newTestService(mockProvider)
	result, err := svc.Compare(context.Background(), lumpSumInput())

	require.NoError(t, err)
	require.NotNil(t, result.Benchmark)
	assert.Equal(t, "fund-a", result.Current.InstrumentID)
	assert.Equal(t, "fund-b", result.Comparison.InstrumentID)
	assert.Equal(t, "NIFTY50", result.Benchmark.InstrumentID)
	assert.Equal(t, models.ParticipantComparison, result.BestPerformer)
	assert.Greater(t, result.Difference, 0.0)
	assert.NotEmpty(t, result.ChartData)
	mockProvider.AssertExpectations(t)
}

func TestComparePrimaryFailureFailsComparison(t *testing.T) {
	mockProvider := new(MockProvider)
	mockProvider.On("GetSeries", mock.Anything, "fund-a").Return(nil, models.ErrNotFound)
	mockProvider.On("GetSeries", mock.Anything, "fund-b").Return(monthlySeries(50, 0.02, 24), nil).Maybe()
	mockProvider.On("GetBenchmarkSeries", mock.Anything, "NIFTY50").Return(monthlySeries(17000, 0.005, 24), nil).Maybe()

	svc := newTestService(mockProvider)
	result, err := svc.Compare(context.Background(), lumpSumInput())

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestCompareBenchmarkDegradation(t *testing.T) {
	mockProvider := new(MockProvider)
	mockProvider.On("GetSeries", mock.Anything, "fund-a").Return(monthlySeries(100, 0.01, 24), nil)
	mockProvider.On("GetSeries", mock.Anything, "fund-b").Return(monthlySeries(50, 0.02, 24), nil)
	mockProvider.On("GetBenchmarkSeries", mock.Anything, "NIFTY50").
		Return(nil, models.NewUpstreamDataError("nav_api", "NIFTY50", errors.New("http 502")))

	svc := newTestService(mockProvider)
	result, err := svc.Compare(context.Background(), lumpSumInput())

	require.NoError(t, err)
	assert.Nil(t, result.Benchmark)
	assert.Equal(t, models.ParticipantComparison, result.BestPerformer)
	for _, point := range result.ChartData {
		assert.Nil(t, point.BenchmarkValue)
	}
}

func TestCompareRejectsIdenticalInstruments(t *testing.T) {
	input := lumpSumInput()
	input.Comparison = input.Current

	svc := newTestService(new(MockProvider))
	_, err := svc.Compare(context.Background(), input)

	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInvalidRequest))
}

func TestCompareWithRiskMetrics(t *testing.T) {
	mockProvider := new(MockProvider)
	mockProvider.On("GetSeries", mock.Anything, "fund-a").Return(monthlySeries(100, 0.01, 24), nil)
	mockProvider.On("GetSeries", mock.Anything, "fund-b").Return(monthlySeries(50, 0.02, 24), nil)
	mockProvider.On("GetBenchmarkSeries", mock.Anything, "NIFTY50").Return(monthlySeries(17000, 0.005, 24), nil)
	mockProvider.On("GetBenchmarkStats", mock.Anything, "NIFTY50", "3y").
		Return(&provider.BenchmarkStats{IndexKey: "NIFTY50", Period: "3y", AnnualizedVolatilityPct: 14.0, AnnualizedReturnPct: 12.0}, nil)
	mockProvider.On("GetBenchmarkStats", mock.Anything, "NIFTYMIDCAP150", "3y").
		Return(&provider.BenchmarkStats{IndexKey: "NIFTYMIDCAP150", Period: "3y", AnnualizedVolatilityPct: 19.0, AnnualizedReturnPct: 16.0}, nil)
	mockProvider.On("GetRiskFreeRate", mock.Anything).Return(6.5, nil)

	input := lumpSumInput()
	input.IncludeRisk = true

	svc := newTestService(mockProvider)
	result, err := svc.Compare(context.Background(), input)

	require.NoError(t, err)
	require.NotNil(t, result.Risk)
	assert.Greater(t, result.Risk.RiskScore, 0.0)
	assert.NotEmpty(t, result.Risk.RiskLevel)
	assert.NotNil(t, result.Risk.SharpeRatio)
	mockProvider.AssertExpectations(t)
}

func TestCompareRiskUnavailableFails(t *testing.T) {
	mockProvider := new(MockProvider)
	mockProvider.On("GetSeries", mock.Anything, "fund-a").Return(monthlySeries(100, 0.01, 24), nil)
	mockProvider.On("GetSeries", mock.Anything, "fund-b").Return(monthlySeries(50, 0.02, 24), nil)
	mockProvider.On("GetBenchmarkSeries", mock.Anything, "NIFTY50").Return(monthlySeries(17000, 0.005, 24), nil)
	mockProvider.On("GetBenchmarkStats", mock.Anything, "NIFTY50", "3y").
		Return(nil, models.NewUpstreamDataError("nav_api", "NIFTY50", errors.New("http 503")))

	input := lumpSumInput()
	input.IncludeRisk = true

	svc := newTestService(mockProvider)
	result, err := svc.Compare(context.Background(), input)

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, models.ErrRiskUnavailable))
}
