package analytics

import (
	"churnlens/pkg/contracts/domain"
)

// DefaultHighValueThreshold is the balance above which a customer counts as high-value
const DefaultHighValueThreshold = 100000.0

// Overview returns the headline KPIs for records
func Overview(records []domain.CustomerRecord) domain.ChurnOverview {
	churned := 0
	for _, r := range records {
		if r.HasChurned {
			churned++
		}
	}
	total := len(records)
	ov := domain.ChurnOverview{
		TotalCustomers: total,
		Churned:        churned,
		Retained:       total - churned,
		ChurnRate:      rate(churned, total),
	}
	if total > 0 {
		ov.RetentionRate = 1 - ov.ChurnRate
	}
	return ov
}

// HighValue compares customers with balance strictly above threshold against the rest
func HighValue(records []domain.CustomerRecord, threshold float64) domain.HighValueComparison {
	tiers := Aggregate(records, ByValueTier(threshold))
	hv := tiers[TierHighValue]
	reg := tiers[TierRegular]
	return domain.HighValueComparison{
		Threshold:          threshold,
		HighValueCustomers: hv.CustomerCount,
		RegularCustomers:   reg.CustomerCount,
		HighValueChurnRate: hv.ChurnRate,
		RegularChurnRate:   reg.ChurnRate,
		BalanceAtRisk:      hv.TotalBalanceAtRisk,
	}
}

// BalanceByStatus returns the mean balance of churned and retained customers
func BalanceByStatus(records []domain.CustomerRecord) domain.BalanceByStatus {
	groups := Aggregate(records, ByChurnStatus)
	return domain.BalanceByStatus{
		ChurnedAverage:  groups[StatusChurned].AverageBalance,
		RetainedAverage: groups[StatusRetained].AverageBalance,
	}
}

// Insights derives the headline findings for records
func Insights(records []domain.CustomerRecord, threshold float64) domain.ChurnInsights {
	ov := Overview(records)
	activity := Aggregate(records, ByActivity)
	active := activity[ActivityActive].ChurnRate
	inactive := activity[ActivityInactive].ChurnRate

	ins := domain.ChurnInsights{
		OverallChurnRate:       ov.ChurnRate,
		ActiveChurnRate:        active,
		InactiveChurnRate:      inactive,
		InactivityGapPoints:    (inactive - active) * 100,
		HighValueBalanceAtRisk: HighValue(records, threshold).BalanceAtRisk,
	}

	// Presentation order breaks ties so the result does not depend on map iteration.
	geo := NewRegistry(threshold)
	if dim, ok := geo.Lookup(DimGeography); ok {
		for _, s := range dim.Breakdown(records).Segments {
			if ins.HighestChurnGeography == "" || s.ChurnRate > ins.HighestGeographyRate {
				ins.HighestChurnGeography = s.GroupKey
				ins.HighestGeographyRate = s.ChurnRate
			}
		}
	}
	return ins
}
