package analytics

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"churnlens/internal/shared/testutil"
	"churnlens/pkg/contracts/domain"
)

func TestOverview(t *testing.T) {
	ov := Overview(testutil.SampleCustomers())
	assert.Equal(t, 6, ov.TotalCustomers)
	assert.Equal(t, 3, ov.Churned)
	assert.Equal(t, 3, ov.Retained)
	assert.Equal(t, 0.5, ov.ChurnRate)
	assert.Equal(t, 0.5, ov.RetentionRate)

	empty := Overview(nil)
	assert.Equal(t, domain.ChurnOverview{}, empty)
}

func TestHighValue(t *testing.T) {
	hv := HighValue(testutil.SampleCustomers(), 100000)

	// 120000 (churned) and 150000 (churned) are above the threshold.
	assert.Equal(t, 100000.0, hv.Threshold)
	assert.Equal(t, 2, hv.HighValueCustomers)
	assert.Equal(t, 4, hv.RegularCustomers)
	assert.Equal(t, 1.0, hv.HighValueChurnRate)
	assert.Equal(t, 0.25, hv.RegularChurnRate)
	assert.Equal(t, 270000.0, hv.BalanceAtRisk)

	none := HighValue(nil, 100000)
	assert.Zero(t, none.HighValueChurnRate)
	assert.Zero(t, none.BalanceAtRisk)
}

func TestBalanceByStatus(t *testing.T) {
	b := BalanceByStatus(testutil.SampleCustomers())
	assert.InDelta(t, (120000.0+150000+40000)/3, b.ChurnedAverage, 1e-9)
	assert.InDelta(t, (0.0+80000+60000)/3, b.RetainedAverage, 1e-9)
}

func TestInsights(t *testing.T) {
	ins := Insights(testutil.SampleCustomers(), 100000)

	assert.Equal(t, 0.5, ins.OverallChurnRate)
	assert.Equal(t, "Germany", ins.HighestChurnGeography)
	assert.Equal(t, 1.0, ins.HighestGeographyRate)
	// Active: 3 customers, 1 churned. Inactive: 3 customers, 2 churned.
	assert.InDelta(t, 1.0/3, ins.ActiveChurnRate, 1e-9)
	assert.InDelta(t, 2.0/3, ins.InactiveChurnRate, 1e-9)
	assert.InDelta(t, 100.0/3, ins.InactivityGapPoints, 1e-9)
	assert.Equal(t, 270000.0, ins.HighValueBalanceAtRisk)
}

func TestInsightsTieBreaksByPresentationOrder(t *testing.T) {
	records := []domain.CustomerRecord{
		record("1", domain.GeographyGermany, 1, true),
		record("2", domain.GeographyFrance, 1, true),
	}
	assert.Equal(t, "France", Insights(records, 100000).HighestChurnGeography)
	assert.Empty(t, Insights(nil, 100000).HighestChurnGeography)
}

func TestFilter(t *testing.T) {
	records := testutil.SampleCustomers()

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"zero filter", Filter{}, []string{"15600001", "15600002", "15600003", "15600004", "15600005", "15600006"}},
		{"all wildcards", Filter{Geography: "All", Gender: "All", Activity: "All", AgeGroup: "All"}, []string{"15600001", "15600002", "15600003", "15600004", "15600005", "15600006"}},
		{"germany", Filter{Geography: "Germany"}, []string{"15600004", "15600005"}},
		{"case insensitive geography", Filter{Geography: "spain"}, []string{"15600006"}},
		{"inactive males", Filter{Gender: "Male", Activity: "Inactive"}, []string{"15600004", "15600006"}},
		{"young", Filter{AgeGroup: AgeYoung}, []string{"15600001", "15600006"}},
		{"no match", Filter{Geography: "Spain", Activity: "Active"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter.Apply(records)
			ids := make([]string, 0, len(got))
			for _, r := range got {
				ids = append(ids, r.CustomerID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestDescribe(t *testing.T) {
	desc := Describe(testutil.SampleCustomers())
	assert.Equal(t, 6, desc.Rows)
	assert.Zero(t, desc.MissingValues)
	assert.Len(t, desc.Columns, len(describeColumns))

	var balance domain.ColumnStatistics
	for _, c := range desc.Columns {
		if c.Column == "Balance" {
			balance = c
		}
		assert.Equal(t, 6, c.Count)
		assert.LessOrEqual(t, c.Min, c.P25, c.Column)
		assert.LessOrEqual(t, c.P25, c.Median, c.Column)
		assert.LessOrEqual(t, c.Median, c.P75, c.Column)
		assert.LessOrEqual(t, c.P75, c.Max, c.Column)
	}
	assert.InDelta(t, 75000.0, balance.Mean, 1e-9)
	assert.Equal(t, 0.0, balance.Min)
	assert.Equal(t, 150000.0, balance.Max)
	assert.InDelta(t, 45000.0, balance.P25, 1e-9)
	assert.InDelta(t, 70000.0, balance.Median, 1e-9)
	assert.InDelta(t, 110000.0, balance.P75, 1e-9)
	assert.Greater(t, balance.StdDev, 0.0)

	assert.Equal(t, domain.DatasetDescription{}, Describe(nil))
}

func TestDescribeQuartilesInterpolate(t *testing.T) {
	var records []domain.CustomerRecord
	for i, b := range []float64{4, 1, 3, 2} {
		records = append(records, testutil.NewCustomer(strconv.Itoa(i)).Balance(b).Build())
	}

	var balance domain.ColumnStatistics
	for _, c := range Describe(records).Columns {
		if c.Column == "Balance" {
			balance = c
		}
	}
	assert.InDelta(t, 1.75, balance.P25, 1e-9)
	assert.InDelta(t, 2.5, balance.Median, 1e-9)
	assert.InDelta(t, 3.25, balance.P75, 1e-9)
}

func TestQuantile(t *testing.T) {
	tests := []struct {
		sorted []float64
		p      float64
		want   float64
	}{
		{[]float64{7}, 0.25, 7},
		{[]float64{1, 2}, 0.5, 1.5},
		{[]float64{1, 2, 3, 4, 5}, 0.75, 4},
		{[]float64{1, 2, 3, 4, 5}, 1, 5},
		{[]float64{10, 20, 30}, 0, 10},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, quantile(tt.sorted, tt.p), 1e-9, "%v p=%g", tt.sorted, tt.p)
	}
	assert.True(t, math.IsNaN(quantile(nil, 0.5)))
}

func TestDescribeSingleRecord(t *testing.T) {
	desc := Describe(testutil.SampleCustomers()[:1])
	for _, c := range desc.Columns {
		assert.Zero(t, c.StdDev, c.Column)
	}
}
