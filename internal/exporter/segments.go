package exporter

import (
	"fmt"

	"churnlens/pkg/contracts/domain"
)

// SegmentHeaders is the column layout of a segments_<dimension>.csv file
var SegmentHeaders = []string{
	"Segment", "Customers", "Churned", "Retained", "ChurnRatePct", "BalanceAtRisk", "AvgBalance",
}

// SegmentFileName returns the CSV file name for a dimension breakdown
func SegmentFileName(dimension string) string {
	return fmt.Sprintf("segments_%s.csv", dimension)
}

// segmentRecords converts segment summaries into CSV rows
func segmentRecords(segments []domain.SegmentSummary) [][]string {
	records := make([][]string, 0, len(segments))
	for _, s := range segments {
		records = append(records, []string{
			s.GroupKey,
			formatInt(s.CustomerCount),
			formatInt(s.ChurnedCount),
			formatInt(s.RetainedCount),
			formatFloat(s.ChurnRatePercent()),
			formatFloat(s.TotalBalanceAtRisk),
			formatFloat(s.AverageBalance),
		})
	}
	return records
}

// ExportSegments writes one CSV per breakdown and returns the written paths
func (w *CSVWriter) ExportSegments(breakdowns []domain.DimensionBreakdown) ([]string, error) {
	paths := make([]string, 0, len(breakdowns))
	for _, b := range breakdowns {
		path, err := w.WriteSimpleCSV(SegmentFileName(b.Dimension), SegmentHeaders, segmentRecords(b.Segments))
		if err != nil {
			return paths, fmt.Errorf("export %s segments: %w", b.Dimension, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
