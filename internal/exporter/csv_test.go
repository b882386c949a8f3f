package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"churnlens/internal/config"
	"churnlens/internal/shared/testutil"
	"churnlens/pkg/contracts/domain"
)

func newTestPaths(t *testing.T) *config.Paths {
	t.Helper()
	paths, err := config.NewPaths(t.TempDir(), "reports", "logs")
	require.NoError(t, err)
	return paths
}

func readCSV(t *testing.T, path string) (bool, [][]string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	hasBOM := bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	rows, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF}))).ReadAll()
	require.NoError(t, err)
	return hasBOM, rows
}

func TestNewCSVWriter(t *testing.T) {
	paths := newTestPaths(t)
	writer := NewCSVWriter(paths, nil)

	assert.NotNil(t, writer)
	assert.Equal(t, paths, writer.paths)
	assert.NotNil(t, writer.logger)
}

func TestCSVWriter_WriteCSV(t *testing.T) {
	paths := newTestPaths(t)
	writer := NewCSVWriter(paths, nil)

	tests := []struct {
		name    string
		file    string
		options WriteOptions
		bom     bool
		rows    [][]string
	}{
		{
			name: "headers and records",
			file: "plain.csv",
			options: WriteOptions{
				Headers: []string{"Segment", "Customers"},
				Records: [][]string{{"France", "3"}, {"Germany", "2"}},
			},
			rows: [][]string{{"Segment", "Customers"}, {"France", "3"}, {"Germany", "2"}},
		},
		{
			name: "bom prefix",
			file: "bom.csv",
			options: WriteOptions{
				Headers:   []string{"Segment"},
				Records:   [][]string{{"Spain"}},
				BOMPrefix: true,
			},
			bom:  true,
			rows: [][]string{{"Segment"}, {"Spain"}},
		},
		{
			name: "quoted values",
			file: "quoted.csv",
			options: WriteOptions{
				Headers: []string{"Segment", "Note"},
				Records: [][]string{{"Middle Age (30-45)", "comma, inside"}, {"High (100k+)", "\"quoted\""}},
			},
			rows: [][]string{{"Segment", "Note"}, {"Middle Age (30-45)", "comma, inside"}, {"High (100k+)", "\"quoted\""}},
		},
		{
			name:    "headers only",
			file:    "empty.csv",
			options: WriteOptions{Headers: []string{"Segment"}},
			rows:    [][]string{{"Segment"}},
		},
		{
			name: "nested directory",
			file: filepath.Join("nested", "deep.csv"),
			options: WriteOptions{
				Records: [][]string{{"a", "b"}},
			},
			rows: [][]string{{"a", "b"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := writer.WriteCSV(tt.file, tt.options)
			require.NoError(t, err)
			assert.Equal(t, paths.GetReportPath(tt.file), path)

			bom, rows := readCSV(t, path)
			assert.Equal(t, tt.bom, bom)
			assert.Equal(t, tt.rows, rows)
		})
	}
}

func TestCSVWriter_WriteSimpleCSV(t *testing.T) {
	writer := NewCSVWriter(newTestPaths(t), nil)

	path, err := writer.WriteSimpleCSV("simple.csv", []string{"A"}, [][]string{{"1"}})
	require.NoError(t, err)

	bom, rows := readCSV(t, path)
	assert.True(t, bom)
	assert.Equal(t, [][]string{{"A"}, {"1"}}, rows)
}

func TestCSVWriter_ResolvePath(t *testing.T) {
	paths := newTestPaths(t)
	abs := filepath.Join(t.TempDir(), "abs.csv")

	tests := []struct {
		name     string
		writer   *CSVWriter
		input    string
		expected string
	}{
		{"relative goes under reports", NewCSVWriter(paths, nil), "x.csv", filepath.Join(paths.ReportsDir, "x.csv")},
		{"absolute kept", NewCSVWriter(paths, nil), abs, abs},
		{"no paths keeps input", NewCSVWriter(nil, nil), "x.csv", "x.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.writer.resolvePath(tt.input))
		})
	}
}

func TestCSVWriter_WriteCSVFailsOnDirectoryTarget(t *testing.T) {
	paths := newTestPaths(t)
	require.NoError(t, os.MkdirAll(paths.GetReportPath("taken.csv"), 0755))

	_, err := NewCSVWriter(paths, nil).WriteCSV("taken.csv", WriteOptions{Headers: []string{"A"}})
	assert.Error(t, err)
}

func TestExportSegments(t *testing.T) {
	paths := newTestPaths(t)
	writer := NewCSVWriter(paths, nil)

	breakdowns := []domain.DimensionBreakdown{
		{
			Dimension: "geography",
			Title:     "Geography",
			Segments: []domain.SegmentSummary{
				{GroupKey: "France", CustomerCount: 3, ChurnedCount: 1, RetainedCount: 2, ChurnRate: 1.0 / 3, TotalBalanceAtRisk: 120000, AverageBalance: 66666.666},
				{GroupKey: "Germany", CustomerCount: 2, ChurnedCount: 2, ChurnRate: 1, TotalBalanceAtRisk: 190000, AverageBalance: 95000},
			},
		},
		{Dimension: "activity", Title: "Activity"},
	}

	files, err := writer.ExportSegments(breakdowns)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, paths.GetReportPath("segments_geography.csv"), files[0])
	assert.Equal(t, paths.GetReportPath("segments_activity.csv"), files[1])

	bom, rows := readCSV(t, files[0])
	assert.True(t, bom)
	require.Len(t, rows, 3)
	assert.Equal(t, SegmentHeaders, rows[0])
	assert.Equal(t, []string{"France", "3", "1", "2", "33.33", "120000.00", "66666.67"}, rows[1])
	assert.Equal(t, []string{"Germany", "2", "2", "0", "100.00", "190000.00", "95000.00"}, rows[2])

	_, rows = readCSV(t, files[1])
	assert.Equal(t, [][]string{SegmentHeaders}, rows)
}

func TestSegmentFileName(t *testing.T) {
	assert.Equal(t, "segments_age_group.csv", SegmentFileName("age_group"))
}

func TestExportSegmentsLogsNothingOnEmptyInput(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	files, err := NewCSVWriter(newTestPaths(t), logger).ExportSegments(nil)
	require.NoError(t, err)
	assert.Empty(t, files)
	testutil.AssertNoErrors(t, logs)
}

func BenchmarkCSVWriter_WriteCSV(b *testing.B) {
	paths, err := config.NewPaths(b.TempDir(), "reports", "logs")
	require.NoError(b, err)
	writer := NewCSVWriter(paths, nil)

	records := make([][]string, 1000)
	for i := range records {
		records[i] = []string{"France", "3", "1", "2", "33.33", "120000.00", "66666.67"}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := writer.WriteCSV("bench.csv", WriteOptions{Headers: SegmentHeaders, Records: records}); err != nil {
			b.Fatal(err)
		}
	}
}
