package exporter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"churnlens/pkg/contracts/domain"
)

const rule = "======================================================================"

// WriteSummary renders the written summary of report to out.
// The same text is printed by the CLI and saved as churn_report.txt.
func WriteSummary(out io.Writer, report *domain.ChurnReport) error {
	ew := &errWriter{w: out}

	ew.printf("%s\n%s\n%s\n", rule, strings.ToUpper(report.Title), rule)
	ew.printf("Generated: %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	if report.Dataset.Path != "" {
		ew.printf("Dataset:   %s (%s rows)\n", report.Dataset.Path, formatCount(report.Dataset.Rows))
	}
	if report.Dataset.UnknownRows > 0 {
		ew.printf("Note:      %s rows had an unrecognised geography and are grouped as Unknown\n",
			formatCount(report.Dataset.UnknownRows))
	}

	ov := report.Overview
	ew.printf("\nOVERALL CHURN\n%s\n", rule)
	ew.printf("Total: %s | Churned: %s | Retained: %s | Rate: %s\n",
		formatCount(ov.TotalCustomers), formatCount(ov.Churned), formatCount(ov.Retained), formatPercent(ov.ChurnRate))

	for _, b := range report.Breakdowns {
		ew.printf("\n")
		_ = WriteBreakdown(ew, b)
	}

	hv := report.HighValue
	ew.printf("\nHIGH-VALUE CUSTOMER RISK (balance > %s)\n%s\n", formatMoney(hv.Threshold), rule)
	ew.printf("High-value customers: %s\n", formatCount(hv.HighValueCustomers))
	ew.printf("Their churn rate:     %s (regular: %s)\n", formatPercent(hv.HighValueChurnRate), formatPercent(hv.RegularChurnRate))
	ew.printf("Balance at risk:      EUR %s\n", formatMoney(hv.BalanceAtRisk))

	ew.printf("\nAVERAGE BALANCE BY STATUS\n%s\n", rule)
	ew.printf("Churned:  EUR %s\nRetained: EUR %s\n", formatMoney(report.Balance.ChurnedAverage), formatMoney(report.Balance.RetainedAverage))

	ew.printf("\nKEY INSIGHTS\n%s\n", rule)
	for i, line := range InsightLines(report.Insights) {
		ew.printf("%d. %s\n", i+1, line)
	}
	return ew.err
}

// WriteBreakdown renders one dimension breakdown as an aligned table
func WriteBreakdown(out io.Writer, b domain.DimensionBreakdown) error {
	ew := &errWriter{w: out}
	ew.printf("%s\n%s\n", strings.ToUpper(b.Title), rule)

	tw := tabwriter.NewWriter(ew, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Segment\tCustomers\tChurned\tChurn Rate\tBalance at Risk\t")
	for _, s := range b.Segments {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n",
			s.GroupKey, formatCount(s.CustomerCount), formatCount(s.ChurnedCount),
			formatPercent(s.ChurnRate), formatMoney(s.TotalBalanceAtRisk))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	return ew.err
}

// WriteDescription renders descriptive statistics, one row per numeric column
func WriteDescription(out io.Writer, desc domain.DatasetDescription) error {
	ew := &errWriter{w: out}
	ew.printf("DATASET STATISTICS\n%s\n", rule)
	ew.printf("Rows: %s | Missing values: %s\n\n", formatCount(desc.Rows), formatCount(desc.MissingValues))

	tw := tabwriter.NewWriter(ew, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Column\tcount\tmean\tstd\tmin\t25%\t50%\t75%\tmax\t")
	for _, c := range desc.Columns {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			c.Column, c.Count, formatFloat(c.Mean), formatFloat(c.StdDev), formatFloat(c.Min),
			formatFloat(c.P25), formatFloat(c.Median), formatFloat(c.P75), formatFloat(c.Max))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	return ew.err
}

// InsightLines phrases the headline findings as sentences
func InsightLines(ins domain.ChurnInsights) []string {
	lines := []string{fmt.Sprintf("Overall churn: %.1f%%", ins.OverallChurnRate*100)}
	if ins.HighestChurnGeography != "" {
		lines = append(lines, fmt.Sprintf("Highest churn country: %s (%.1f%%)", ins.HighestChurnGeography, ins.HighestGeographyRate*100))
	}
	if ins.InactivityGapPoints >= 0 {
		lines = append(lines, fmt.Sprintf("Inactive members churn %.1fpp more than active members", ins.InactivityGapPoints))
	} else {
		lines = append(lines, fmt.Sprintf("Active members churn %.1fpp more than inactive members", -ins.InactivityGapPoints))
	}
	lines = append(lines, fmt.Sprintf("EUR %s at risk from high-value customers", formatMoney(ins.HighValueBalanceAtRisk)))
	return lines
}

func writeText(report *domain.ChurnReport, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create summary file: %w", err)
	}
	defer file.Close()

	if err := WriteSummary(file, report); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return file.Close()
}

// errWriter keeps the first write error so rendering code can stay linear
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

func (e *errWriter) printf(format string, args ...interface{}) {
	fmt.Fprintf(e, format, args...)
}
