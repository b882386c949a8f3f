// Package exporter writes a domain.ChurnReport to disk.
//
// ReportWriter dispatches on domain.ReportFormat:
//
//   - csv:  one segments_<dimension>.csv per breakdown, UTF-8 BOM prefixed for Excel
//   - json: churn_report.json, the whole report document
//   - xlsx: churn_report.xlsx with an Overview sheet and one sheet per dimension
//   - txt:  churn_report.txt, the written summary
//   - pdf:  churn_report.pdf, the written summary laid out with maroto
//
// Example usage:
//
//	writer := exporter.NewReportWriter(paths, logger, metrics)
//	files, err := writer.Write(ctx, report, domain.AllReportFormats)
package exporter
