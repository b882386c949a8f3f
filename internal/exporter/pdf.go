package exporter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"churnlens/pkg/contracts/domain"
)

// renderPDF lays the written summary out as a PDF document
func renderPDF(report *domain.ChurnReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(16,
		text.NewCol(12, report.Title, props.Text{Size: 18, Style: fontstyle.Bold, Align: align.Left}),
	)
	m.AddRow(8,
		text.NewCol(12, fmt.Sprintf("Generated %s  |  %s customers  |  report %s",
			report.GeneratedAt.Format("2006-01-02 15:04 MST"),
			formatCount(report.Overview.TotalCustomers),
			report.ID), props.Text{Size: 8}),
	)

	ov := report.Overview
	m.AddRow(18,
		kpiCol("Total Customers", formatCount(ov.TotalCustomers)),
		kpiCol("Churned", formatCount(ov.Churned)),
		kpiCol("Retained", formatCount(ov.Retained)),
		kpiCol("Churn Rate", formatPercent(ov.ChurnRate)),
	)

	header := props.Text{Style: fontstyle.Bold, Size: 9}
	headerRight := props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}
	cell := props.Text{Size: 9}
	cellRight := props.Text{Size: 9, Align: align.Right}

	for _, b := range report.Breakdowns {
		m.AddRow(12, text.NewCol(12, b.Title, props.Text{Size: 12, Style: fontstyle.Bold, Top: 4}))
		m.AddRow(7,
			text.NewCol(4, "Segment", header),
			text.NewCol(2, "Customers", headerRight),
			text.NewCol(2, "Churned", headerRight),
			text.NewCol(2, "Churn Rate", headerRight),
			text.NewCol(2, "Balance at Risk", headerRight),
		)
		for _, s := range b.Segments {
			m.AddRow(6,
				text.NewCol(4, s.GroupKey, cell),
				text.NewCol(2, formatCount(s.CustomerCount), cellRight),
				text.NewCol(2, formatCount(s.ChurnedCount), cellRight),
				text.NewCol(2, formatPercent(s.ChurnRate), cellRight),
				text.NewCol(2, formatMoney(s.TotalBalanceAtRisk), cellRight),
			)
		}
	}

	hv := report.HighValue
	m.AddRow(12, text.NewCol(12, "High-Value Customers", props.Text{Size: 12, Style: fontstyle.Bold, Top: 4}))
	m.AddRow(18,
		kpiCol("High-Value Customers", formatCount(hv.HighValueCustomers)),
		kpiCol("HV Churn Rate", formatPercent(hv.HighValueChurnRate)),
		kpiCol("Regular Churn Rate", formatPercent(hv.RegularChurnRate)),
		kpiCol("Balance at Risk (EUR)", formatMoney(hv.BalanceAtRisk)),
	)

	m.AddRow(12, text.NewCol(12, "Key Insights", props.Text{Size: 12, Style: fontstyle.Bold, Top: 4}))
	for i, line := range InsightLines(report.Insights) {
		m.AddRow(6, text.NewCol(12, fmt.Sprintf("%d. %s", i+1, line), cell))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate pdf: %w", err)
	}
	return doc.GetBytes(), nil
}

func kpiCol(label, value string) core.Col {
	return col.New(3).Add(
		text.New(label, props.Text{Size: 8, Align: align.Center}),
		text.New(value, props.Text{Size: 13, Style: fontstyle.Bold, Align: align.Center, Top: 5}),
	)
}

func writePDF(report *domain.ChurnReport, outputPath string) error {
	data, err := renderPDF(report)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	return os.WriteFile(outputPath, data, 0644)
}
