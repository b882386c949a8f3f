package exporter

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"churnlens/internal/analytics"
	"churnlens/internal/config"
	apperrors "churnlens/internal/errors"
	"churnlens/internal/shared/testutil"
	"churnlens/pkg/contracts/domain"
)

func sampleReport(t *testing.T) *domain.ChurnReport {
	t.Helper()
	builder, err := analytics.NewReportBuilder(config.AnalysisConfig{
		HighValueThreshold: config.DefaultHighValueThreshold,
	}, nil, nil)
	require.NoError(t, err)
	return builder.Build(context.Background(), config.DefaultReportTitle, testutil.SampleCustomers(),
		domain.DatasetInfo{Path: "customers.csv", Rows: 6})
}

func TestReportWriter_WriteAllFormats(t *testing.T) {
	paths := newTestPaths(t)
	logger, logs := testutil.NewTestLogger(t)
	writer := NewReportWriter(paths, logger, nil)
	report := sampleReport(t)

	files, err := writer.Write(context.Background(), report, domain.AllReportFormats)
	require.NoError(t, err)
	assert.Len(t, files, len(config.DefaultDimensions)+4)

	for _, name := range []string{JSONFileName, WorkbookFileName, TextFileName, PDFFileName, "segments_geography.csv", "segments_value_tier.csv"} {
		assert.FileExists(t, paths.GetReportPath(name))
	}
	assert.True(t, logs.ContainsMessage("report exported"))
	testutil.AssertNoErrors(t, logs)
}

func TestReportWriter_WriteSelectedFormats(t *testing.T) {
	paths := newTestPaths(t)
	writer := NewReportWriter(paths, nil, nil)

	files, err := writer.Write(context.Background(), sampleReport(t), []domain.ReportFormat{domain.ReportFormatJSON})
	require.NoError(t, err)
	assert.Equal(t, []string{paths.GetReportPath(JSONFileName)}, files)
	assert.NoFileExists(t, paths.GetReportPath(TextFileName))
}

func TestReportWriter_WriteFailsWhenReportsDirIsAFile(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "reports")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))
	paths, err := config.NewPaths(base, "reports", "logs")
	require.NoError(t, err)

	_, err = NewReportWriter(paths, nil, nil).Write(context.Background(), sampleReport(t), domain.AllReportFormats)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeStorage))
}

func TestWriteJSON(t *testing.T) {
	report := sampleReport(t)
	path := filepath.Join(t.TempDir(), "out", JSONFileName)
	require.NoError(t, writeJSON(report, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded domain.ChurnReport
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, report.ID, decoded.ID)
	assert.Equal(t, report.Overview, decoded.Overview)
	assert.Equal(t, report.Breakdowns, decoded.Breakdowns)
}

func TestWriteWorkbook(t *testing.T) {
	report := sampleReport(t)
	path := filepath.Join(t.TempDir(), WorkbookFileName)
	require.NoError(t, writeWorkbook(report, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Equal(t, overviewSheet, sheets[0])
	assert.Contains(t, sheets, "Geography")
	assert.Contains(t, sheets, "Age group")
	assert.Contains(t, sheets, "Statistics")

	label, err := f.GetCellValue(overviewSheet, "A4")
	require.NoError(t, err)
	assert.Equal(t, "Total Customers", label)
	total, err := f.GetCellValue(overviewSheet, "B4")
	require.NoError(t, err)
	assert.Equal(t, "6", total)

	rows, err := f.GetRows("Geography")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Segment", rows[0][0])
	assert.Equal(t, "France", rows[1][0])
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "Geography", sheetName("geography"))
	assert.Equal(t, "Balance segment", sheetName("balance_segment"))
	assert.Len(t, []rune(sheetName(strings.Repeat("x", 40))), 31)
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, sampleReport(t)))

	out := buf.String()
	assert.Contains(t, out, strings.ToUpper(config.DefaultReportTitle))
	assert.Contains(t, out, "OVERALL CHURN")
	assert.Contains(t, out, "Total: 6 | Churned: 3 | Retained: 3 | Rate: 50.00%")
	assert.Contains(t, out, "CHURN BY COUNTRY")
	assert.Contains(t, out, "KEY INSIGHTS")
	assert.Contains(t, out, "Highest churn country: Germany (100.0%)")
}

func TestWriteSummaryMentionsUnknownRows(t *testing.T) {
	report := sampleReport(t)
	report.Dataset.UnknownRows = 2

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, report))
	assert.Contains(t, buf.String(), "2 rows had an unrecognised geography")
}

func TestWriteBreakdown(t *testing.T) {
	report := sampleReport(t)
	geo, ok := report.Breakdown("geography")
	require.True(t, ok)

	var buf bytes.Buffer
	require.NoError(t, WriteBreakdown(&buf, geo))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2+1+len(geo.Segments))
	assert.Equal(t, "CHURN BY COUNTRY", lines[0])
	assert.Contains(t, lines[2], "Balance at Risk")
	assert.Contains(t, buf.String(), "100.00%")
}

func TestWriteDescription(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDescription(&buf, sampleReport(t).Statistics))

	out := buf.String()
	assert.Contains(t, out, "Rows: 6 | Missing values: 0")
	assert.Contains(t, out, "Balance")
	assert.Contains(t, out, "75%")
}

func TestInsightLines(t *testing.T) {
	lines := InsightLines(domain.ChurnInsights{
		OverallChurnRate:       0.2037,
		HighestChurnGeography:  "Germany",
		HighestGeographyRate:   0.3244,
		InactivityGapPoints:    12.5,
		HighValueBalanceAtRisk: 1234567.8,
	})
	assert.Equal(t, []string{
		"Overall churn: 20.4%",
		"Highest churn country: Germany (32.4%)",
		"Inactive members churn 12.5pp more than active members",
		"EUR 1,234,567.80 at risk from high-value customers",
	}, lines)

	lines = InsightLines(domain.ChurnInsights{InactivityGapPoints: -3})
	assert.Len(t, lines, 3)
	assert.Equal(t, "Active members churn 3.0pp more than inactive members", lines[1])
}

func TestRenderPDF(t *testing.T) {
	data, err := renderPDF(sampleReport(t))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestParseFormats(t *testing.T) {
	formats, err := ParseFormats([]string{"csv", "pdf"})
	require.NoError(t, err)
	assert.Equal(t, []domain.ReportFormat{domain.ReportFormatCSV, domain.ReportFormatPDF}, formats)

	_, err = ParseFormats([]string{"json", "docx"})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
	assert.Contains(t, err.Error(), "docx")
}
