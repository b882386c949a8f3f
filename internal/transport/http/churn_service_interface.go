package http

import (
	"context"

	"churnlens/internal/analytics"
	"churnlens/internal/services"
	"churnlens/pkg/contracts/domain"
)

// ChurnServiceInterface defines the queries the churn handlers depend on
type ChurnServiceInterface interface {
	Overview(ctx context.Context, f analytics.Filter) (domain.ChurnOverview, error)
	Segments(ctx context.Context, dimension string, f analytics.Filter) (domain.DimensionBreakdown, error)
	HighValue(ctx context.Context, threshold float64, f analytics.Filter) (domain.HighValueComparison, error)
	BalanceByStatus(ctx context.Context, f analytics.Filter) (domain.BalanceByStatus, error)
	Insights(ctx context.Context) (domain.ChurnInsights, error)
	Describe(ctx context.Context) (domain.DatasetDescription, error)
	DatasetInfo(ctx context.Context) (domain.DatasetInfo, error)
	Dimensions() []services.DimensionInfo
	DimensionNames() []string
}

var _ ChurnServiceInterface = (*services.ChurnService)(nil)
