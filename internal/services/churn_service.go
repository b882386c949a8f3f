package services

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"churnlens/internal/analytics"
	"churnlens/internal/config"
	"churnlens/internal/dataset"
	"churnlens/internal/infrastructure"
	"churnlens/pkg/contracts/domain"
)

// DimensionInfo describes a breakdown the dashboard can request
type DimensionInfo struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

// ChurnService answers dashboard queries over the pre-loaded dataset.
// The dataset is never mutated, so a ChurnService is safe for concurrent use.
type ChurnService struct {
	data      *dataset.Dataset
	registry  *analytics.Registry
	threshold float64
	logger    *slog.Logger
	metrics   *infrastructure.ChurnMetrics
}

// NewChurnService creates a churn service over data. A nil data value
// produces a service whose queries fail with ErrDatasetNotLoaded.
func NewChurnService(data *dataset.Dataset, cfg config.AnalysisConfig, logger *slog.Logger, metrics *infrastructure.ChurnMetrics) *ChurnService {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	threshold := cfg.Threshold()
	return &ChurnService{
		data:      data,
		registry:  analytics.NewRegistry(threshold),
		threshold: threshold,
		logger:    infrastructure.WithComponent(logger, "churn_service"),
		metrics:   metrics,
	}
}

// Loaded reports whether a dataset is available
func (s *ChurnService) Loaded() bool {
	return s.data != nil
}

func (s *ChurnService) records(f analytics.Filter) ([]domain.CustomerRecord, error) {
	if s.data == nil {
		return nil, ErrDatasetNotLoaded
	}
	return f.Apply(s.data.Records), nil
}

// Overview returns the headline KPIs of the filtered population
func (s *ChurnService) Overview(ctx context.Context, f analytics.Filter) (domain.ChurnOverview, error) {
	records, err := s.records(f)
	if err != nil {
		return domain.ChurnOverview{}, err
	}
	s.logger.DebugContext(ctx, "computing overview", slog.Int("customers", len(records)))
	return analytics.Overview(records), nil
}

// Segments returns the breakdown of the filtered population along dimension
func (s *ChurnService) Segments(ctx context.Context, dimension string, f analytics.Filter) (domain.DimensionBreakdown, error) {
	dim, ok := s.registry.Lookup(dimension)
	if !ok {
		return domain.DimensionBreakdown{}, fmt.Errorf("%w: %q", ErrUnknownDimension, dimension)
	}
	records, err := s.records(f)
	if err != nil {
		return domain.DimensionBreakdown{}, err
	}

	ctx, span := infrastructure.StartSpan(ctx, "churn.segments", attribute.String("dimension", dimension))
	defer span.End()

	breakdown := dim.Breakdown(records)
	s.metrics.RecordSegments(ctx, dimension)
	s.logger.DebugContext(ctx, "computed segments",
		slog.String("dimension", dimension),
		slog.Int("customers", len(records)),
		slog.Int("segments", len(breakdown.Segments)))
	return breakdown, nil
}

// HighValue compares customers above threshold with the rest.
// A zero threshold selects the configured default.
func (s *ChurnService) HighValue(ctx context.Context, threshold float64, f analytics.Filter) (domain.HighValueComparison, error) {
	if threshold < 0 {
		return domain.HighValueComparison{}, fmt.Errorf("%w: threshold must not be negative", ErrInvalidInput)
	}
	if threshold == 0 {
		threshold = s.threshold
	}
	records, err := s.records(f)
	if err != nil {
		return domain.HighValueComparison{}, err
	}
	return analytics.HighValue(records, threshold), nil
}

// Insights returns the headline findings over the whole dataset
func (s *ChurnService) Insights(ctx context.Context) (domain.ChurnInsights, error) {
	records, err := s.records(analytics.Filter{})
	if err != nil {
		return domain.ChurnInsights{}, err
	}
	return analytics.Insights(records, s.threshold), nil
}

// BalanceByStatus returns mean balances of churned and retained customers
func (s *ChurnService) BalanceByStatus(ctx context.Context, f analytics.Filter) (domain.BalanceByStatus, error) {
	records, err := s.records(f)
	if err != nil {
		return domain.BalanceByStatus{}, err
	}
	return analytics.BalanceByStatus(records), nil
}

// Describe returns descriptive statistics over the whole dataset
func (s *ChurnService) Describe(ctx context.Context) (domain.DatasetDescription, error) {
	records, err := s.records(analytics.Filter{})
	if err != nil {
		return domain.DatasetDescription{}, err
	}
	return analytics.Describe(records), nil
}

// DatasetInfo returns the provenance of the loaded dataset
func (s *ChurnService) DatasetInfo(ctx context.Context) (domain.DatasetInfo, error) {
	if s.data == nil {
		return domain.DatasetInfo{}, ErrDatasetNotLoaded
	}
	return s.data.Info, nil
}

// Dimensions lists the breakdowns available to Segments
func (s *ChurnService) Dimensions() []DimensionInfo {
	names := s.registry.Names()
	out := make([]DimensionInfo, 0, len(names))
	for _, n := range names {
		d, _ := s.registry.Lookup(n)
		out = append(out, DimensionInfo{Name: d.Name, Title: d.Title})
	}
	return out
}

// DimensionNames lists the names accepted by Segments
func (s *ChurnService) DimensionNames() []string {
	return s.registry.Names()
}
