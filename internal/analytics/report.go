package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"churnlens/internal/config"
	apperrors "churnlens/internal/errors"
	"churnlens/internal/infrastructure"
	"churnlens/pkg/contracts"
	"churnlens/pkg/contracts/domain"
)

// ReportBuilder assembles the complete analysis document handed to renderers
type ReportBuilder struct {
	registry   *Registry
	threshold  float64
	dimensions []string
	logger     *slog.Logger
	metrics    *infrastructure.ChurnMetrics
}

// NewReportBuilder creates a builder for the configured dimensions.
// Unknown dimension names are rejected here rather than at Build time.
func NewReportBuilder(cfg config.AnalysisConfig, logger *slog.Logger, metrics *infrastructure.ChurnMetrics) (*ReportBuilder, error) {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	reg := NewRegistry(cfg.Threshold())

	dims := cfg.Dimensions
	if len(dims) == 0 {
		dims = config.DefaultDimensions
	}
	for _, name := range dims {
		if _, ok := reg.Lookup(name); !ok {
			return nil, apperrors.NewConfigError(fmt.Sprintf("unknown dimension %q", name), nil).
				WithContext("available", reg.Names())
		}
	}

	return &ReportBuilder{
		registry:   reg,
		threshold:  cfg.Threshold(),
		dimensions: dims,
		logger:     infrastructure.WithComponent(logger, "report_builder"),
		metrics:    metrics,
	}, nil
}

// Registry exposes the dimension registry the builder was configured with
func (b *ReportBuilder) Registry() *Registry {
	return b.registry
}

// Build computes every figure of the report from records
func (b *ReportBuilder) Build(ctx context.Context, title string, records []domain.CustomerRecord, info domain.DatasetInfo) *domain.ChurnReport {
	start := time.Now()
	ctx, span := infrastructure.StartSpan(ctx, "analytics.build_report")
	defer span.End()

	report := &domain.ChurnReport{
		ID:          uuid.New().String(),
		Title:       title,
		GeneratedAt: time.Now().UTC(),
		Dataset:     info,
		Overview:    Overview(records),
		HighValue:   HighValue(records, b.threshold),
		Balance:     BalanceByStatus(records),
		Insights:    Insights(records, b.threshold),
		Statistics:  Describe(records),
	}

	for _, name := range b.dimensions {
		dim, _ := b.registry.Lookup(name)
		report.Breakdowns = append(report.Breakdowns, dim.Breakdown(records))
		b.metrics.RecordSegments(ctx, name)
	}

	report.Metadata = domain.ReportMetadata{
		ProcessingTime: time.Since(start),
		Dimensions:     append([]string(nil), b.dimensions...),
		Version:        contracts.Version,
		Schema:         contracts.ReportSchemaVersion,
	}

	b.logger.InfoContext(ctx, "report built",
		slog.String("report_id", report.ID),
		slog.Int("customers", report.Overview.TotalCustomers),
		slog.Int("dimensions", len(report.Breakdowns)),
		slog.Duration("duration", report.Metadata.ProcessingTime))

	return report
}
