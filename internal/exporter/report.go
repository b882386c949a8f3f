package exporter

import (
	"context"
	"fmt"
	"log/slog"

	"churnlens/internal/config"
	"churnlens/internal/errors"
	"churnlens/internal/infrastructure"
	"churnlens/pkg/contracts/domain"
)

// Report file names
const (
	JSONFileName     = "churn_report.json"
	WorkbookFileName = "churn_report.xlsx"
	TextFileName     = "churn_report.txt"
	PDFFileName      = "churn_report.pdf"
)

// ReportWriter writes a churn report in any of the supported formats
type ReportWriter struct {
	paths   *config.Paths
	csv     *CSVWriter
	logger  *slog.Logger
	metrics *infrastructure.ChurnMetrics
}

// NewReportWriter creates a report writer rooted at paths.ReportsDir
func NewReportWriter(paths *config.Paths, logger *slog.Logger, metrics *infrastructure.ChurnMetrics) *ReportWriter {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	logger = infrastructure.WithComponent(logger, "report_writer")
	return &ReportWriter{
		paths:   paths,
		csv:     NewCSVWriter(paths, logger),
		logger:  logger,
		metrics: metrics,
	}
}

// Write renders report in each format and returns every file written
func (w *ReportWriter) Write(ctx context.Context, report *domain.ChurnReport, formats []domain.ReportFormat) ([]string, error) {
	ctx, span := infrastructure.StartSpan(ctx, "exporter.write_report")
	defer span.End()

	if err := w.paths.EnsureDirectories(); err != nil {
		return nil, errors.NewStorageError("prepare report directory", err)
	}

	var written []string
	for _, format := range formats {
		files, err := w.writeFormat(report, format)
		written = append(written, files...)
		if err != nil {
			w.logger.ErrorContext(ctx, "report export failed",
				slog.String("format", string(format)),
				slog.String("error", err.Error()))
			infrastructure.RecordError(span, err)
			return written, errors.NewStorageError(fmt.Sprintf("write %s report", format), err).
				WithContext("format", string(format))
		}
		w.metrics.RecordReport(ctx, string(format))
		w.logger.InfoContext(ctx, "report exported",
			slog.String("format", string(format)),
			slog.Any("files", files))
	}
	return written, nil
}

func (w *ReportWriter) writeFormat(report *domain.ChurnReport, format domain.ReportFormat) ([]string, error) {
	switch format {
	case domain.ReportFormatCSV:
		return w.csv.ExportSegments(report.Breakdowns)
	case domain.ReportFormatJSON:
		path := w.paths.GetReportPath(JSONFileName)
		return []string{path}, writeJSON(report, path)
	case domain.ReportFormatExcel:
		path := w.paths.GetReportPath(WorkbookFileName)
		return []string{path}, writeWorkbook(report, path)
	case domain.ReportFormatText:
		path := w.paths.GetReportPath(TextFileName)
		return []string{path}, writeText(report, path)
	case domain.ReportFormatPDF:
		path := w.paths.GetReportPath(PDFFileName)
		return []string{path}, writePDF(report, path)
	}
	return nil, fmt.Errorf("unsupported report format %q", format)
}

// ParseFormats converts format names into report formats
func ParseFormats(names []string) ([]domain.ReportFormat, error) {
	out := make([]domain.ReportFormat, 0, len(names))
	for _, n := range names {
		f := domain.ReportFormat(n)
		supported := false
		for _, known := range domain.AllReportFormats {
			if f == known {
				supported = true
				break
			}
		}
		if !supported {
			return nil, errors.NewAppValidationError(fmt.Sprintf("unsupported report format %q", n))
		}
		out = append(out, f)
	}
	return out, nil
}
