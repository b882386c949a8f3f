package analytics

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"churnlens/internal/config"
	apperrors "churnlens/internal/errors"
	"churnlens/internal/shared/testutil"
	"churnlens/pkg/contracts"
	"churnlens/pkg/contracts/domain"
)

func TestNewReportBuilderRejectsUnknownDimension(t *testing.T) {
	_, err := NewReportBuilder(config.AnalysisConfig{
		HighValueThreshold: 100000,
		Dimensions:         []string{"geography", "tenure"},
	}, nil, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
	assert.Contains(t, err.Error(), "tenure")
}

func TestReportBuilderBuild(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	builder, err := NewReportBuilder(config.AnalysisConfig{
		HighValueThreshold: 100000,
		Dimensions:         []string{DimGeography, DimActivity},
	}, logger, nil)
	require.NoError(t, err)

	info := domain.DatasetInfo{Path: "customers.csv", Rows: 6}
	report := builder.Build(context.Background(), "Churn Report", testutil.SampleCustomers(), info)

	_, err = uuid.Parse(report.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Churn Report", report.Title)
	assert.Equal(t, info, report.Dataset)
	assert.Equal(t, 6, report.Overview.TotalCustomers)
	require.Len(t, report.Breakdowns, 2)
	assert.Equal(t, DimGeography, report.Breakdowns[0].Dimension)
	assert.Equal(t, []string{DimGeography, DimActivity}, report.Metadata.Dimensions)
	assert.Equal(t, contracts.Version, report.Metadata.Version)
	assert.Equal(t, contracts.ReportSchemaVersion, report.Metadata.Schema)
	assert.Equal(t, "Germany", report.Insights.HighestChurnGeography)
	assert.Equal(t, 6, report.Statistics.Rows)

	geo, ok := report.Breakdown(DimGeography)
	require.True(t, ok)
	assert.Len(t, geo.Segments, 3)
	_, ok = report.Breakdown(DimGender)
	assert.False(t, ok)

	assert.True(t, logs.ContainsMessage("report built"))
}

func TestReportBuilderDefaultsDimensions(t *testing.T) {
	builder, err := NewReportBuilder(config.AnalysisConfig{HighValueThreshold: 100000}, nil, nil)
	require.NoError(t, err)

	report := builder.Build(context.Background(), "x", nil, domain.DatasetInfo{})
	assert.Len(t, report.Breakdowns, len(config.DefaultDimensions))
	for _, b := range report.Breakdowns {
		assert.Empty(t, b.Segments)
	}
}

func TestReportBuilderZeroThresholdUsesDefault(t *testing.T) {
	builder, err := NewReportBuilder(config.AnalysisConfig{Dimensions: []string{DimValueTier}}, nil, nil)
	require.NoError(t, err)

	report := builder.Build(context.Background(), "x", testutil.SampleCustomers(), domain.DatasetInfo{})
	assert.Equal(t, config.DefaultHighValueThreshold, report.HighValue.Threshold)
	assert.Equal(t, 2, report.HighValue.HighValueCustomers)
}
