package exporter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"churnlens/pkg/contracts/domain"
)

const overviewSheet = "Overview"

// writeWorkbook saves the report as an xlsx workbook: an Overview sheet,
// one sheet per breakdown and a Statistics sheet.
func writeWorkbook(report *domain.ChurnReport, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", overviewSheet); err != nil {
		return fmt.Errorf("rename default sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	pct, err := f.NewStyle(&excelize.Style{NumFmt: 10})
	if err != nil {
		return fmt.Errorf("create percent style: %w", err)
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return fmt.Errorf("create money style: %w", err)
	}

	ov := report.Overview
	overview := [][]interface{}{
		{"Metric", "Value"},
		{"Report", report.Title},
		{"Generated", report.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Total Customers", ov.TotalCustomers},
		{"Churned", ov.Churned},
		{"Retained", ov.Retained},
		{"Churn Rate", ov.ChurnRate},
		{"Retention Rate", ov.RetentionRate},
		{"High-Value Customers", report.HighValue.HighValueCustomers},
		{"High-Value Churn Rate", report.HighValue.HighValueChurnRate},
		{"High-Value Balance at Risk", report.HighValue.BalanceAtRisk},
		{"Avg Balance (Churned)", report.Balance.ChurnedAverage},
		{"Avg Balance (Retained)", report.Balance.RetainedAverage},
	}
	if err := setRows(f, overviewSheet, overview); err != nil {
		return err
	}
	f.SetCellStyle(overviewSheet, "A1", "B1", bold)
	f.SetCellStyle(overviewSheet, "B7", "B8", pct)
	f.SetCellStyle(overviewSheet, "B10", "B10", pct)
	f.SetCellStyle(overviewSheet, "B11", "B13", money)
	f.SetColWidth(overviewSheet, "A", "A", 28)
	f.SetColWidth(overviewSheet, "B", "B", 22)

	for _, b := range report.Breakdowns {
		sheet := sheetName(b.Dimension)
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("create sheet %s: %w", sheet, err)
		}
		rows := [][]interface{}{{"Segment", "Customers", "Churned", "Retained", "Churn Rate", "Balance at Risk", "Avg Balance"}}
		for _, s := range b.Segments {
			rows = append(rows, []interface{}{
				s.GroupKey, s.CustomerCount, s.ChurnedCount, s.RetainedCount,
				s.ChurnRate, s.TotalBalanceAtRisk, s.AverageBalance,
			})
		}
		if err := setRows(f, sheet, rows); err != nil {
			return err
		}
		last := len(rows)
		f.SetCellStyle(sheet, "A1", "G1", bold)
		if last > 1 {
			f.SetCellStyle(sheet, "E2", fmt.Sprintf("E%d", last), pct)
			f.SetCellStyle(sheet, "F2", fmt.Sprintf("G%d", last), money)
		}
		f.SetColWidth(sheet, "A", "A", 22)
		f.SetColWidth(sheet, "B", "G", 16)
	}

	if len(report.Statistics.Columns) > 0 {
		const sheet = "Statistics"
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("create sheet %s: %w", sheet, err)
		}
		rows := [][]interface{}{{"Column", "Count", "Mean", "Std", "Min", "25%", "50%", "75%", "Max"}}
		for _, c := range report.Statistics.Columns {
			rows = append(rows, []interface{}{c.Column, c.Count, c.Mean, c.StdDev, c.Min, c.P25, c.Median, c.P75, c.Max})
		}
		if err := setRows(f, sheet, rows); err != nil {
			return err
		}
		f.SetCellStyle(sheet, "A1", "I1", bold)
	}

	f.SetActiveSheet(0)
	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func setRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// sheetName turns a dimension name into a readable sheet title (max 31 chars)
func sheetName(dimension string) string {
	name := []rune(dimension)
	for i, r := range name {
		if r == '_' {
			name[i] = ' '
		}
	}
	if len(name) > 0 && name[0] >= 'a' && name[0] <= 'z' {
		name[0] -= 'a' - 'A'
	}
	if len(name) > 31 {
		name = name[:31]
	}
	return string(name)
}
