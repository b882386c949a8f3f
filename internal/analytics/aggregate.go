package analytics

import (
	"churnlens/pkg/contracts/domain"
)

// KeySelector maps a record to the segment it belongs to
type KeySelector func(domain.CustomerRecord) string

// Aggregate groups records by key and summarises each group.
// Only keys that occur in records appear in the result; empty input yields an empty map.
func Aggregate(records []domain.CustomerRecord, key KeySelector) map[string]domain.SegmentSummary {
	type acc struct {
		count, churned int
		balance        float64
		atRisk         float64
	}

	groups := make(map[string]*acc)
	for _, rec := range records {
		k := key(rec)
		g, ok := groups[k]
		if !ok {
			g = &acc{}
			groups[k] = g
		}
		g.count++
		g.balance += rec.Balance
		if rec.HasChurned {
			g.churned++
			g.atRisk += rec.Balance
		}
	}

	out := make(map[string]domain.SegmentSummary, len(groups))
	for k, g := range groups {
		out[k] = domain.SegmentSummary{
			GroupKey:           k,
			CustomerCount:      g.count,
			ChurnedCount:       g.churned,
			RetainedCount:      g.count - g.churned,
			ChurnRate:          rate(g.churned, g.count),
			TotalBalanceAtRisk: g.atRisk,
			AverageBalance:     g.balance / float64(g.count),
		}
	}
	return out
}

// rate returns part/whole, or 0 when whole is 0
func rate(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole)
}
