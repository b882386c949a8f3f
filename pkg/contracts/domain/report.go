package domain

import (
	"time"
)

// ChurnReport is the document handed to renderers after an analysis run
type ChurnReport struct {
	ID          string               `json:"id" validate:"required,uuid"`
	Title       string               `json:"title" validate:"required,min=3,max=200"`
	GeneratedAt time.Time            `json:"generated_at"`
	Dataset     DatasetInfo          `json:"dataset"`
	Overview    ChurnOverview        `json:"overview"`
	Breakdowns  []DimensionBreakdown `json:"breakdowns"`
	HighValue   HighValueComparison  `json:"high_value"`
	Balance     BalanceByStatus      `json:"balance_by_status"`
	Insights    ChurnInsights        `json:"insights"`
	Statistics  DatasetDescription   `json:"statistics"`
	Metadata    ReportMetadata       `json:"metadata"`
}

// Breakdown returns the breakdown for the named dimension
func (r *ChurnReport) Breakdown(dimension string) (DimensionBreakdown, bool) {
	for _, b := range r.Breakdowns {
		if b.Dimension == dimension {
			return b, true
		}
	}
	return DimensionBreakdown{}, false
}

// DatasetInfo identifies the source file an analysis was computed from
type DatasetInfo struct {
	Path        string    `json:"path"`
	Rows        int       `json:"rows"`
	UnknownRows int       `json:"unknown_geography_rows"`
	Fingerprint string    `json:"fingerprint"`
	LoadedAt    time.Time `json:"loaded_at"`
}

// ReportFormat defines an output format of the written report
type ReportFormat string

const (
	ReportFormatCSV   ReportFormat = "csv"
	ReportFormatJSON  ReportFormat = "json"
	ReportFormatExcel ReportFormat = "xlsx"
	ReportFormatText  ReportFormat = "txt"
	ReportFormatPDF   ReportFormat = "pdf"
)

// AllReportFormats lists every supported report format
var AllReportFormats = []ReportFormat{
	ReportFormatCSV,
	ReportFormatJSON,
	ReportFormatExcel,
	ReportFormatText,
	ReportFormatPDF,
}

// ReportMetadata contains metadata about a report
type ReportMetadata struct {
	ProcessingTime time.Duration `json:"processing_time"`
	Dimensions     []string      `json:"dimensions"`
	Version        string        `json:"version"`
	Schema         string        `json:"schema"`
}
