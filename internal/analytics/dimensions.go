package analytics

import (
	"fmt"
	"sort"
	"strconv"

	"churnlens/pkg/contracts/domain"
)

// Dimension names
const (
	DimGeography      = "geography"
	DimActivity       = "activity"
	DimProducts       = "products"
	DimGender         = "gender"
	DimAgeGroup       = "age_group"
	DimBalanceSegment = "balance_segment"
	DimValueTier      = "value_tier"
	DimChurnStatus    = "churn_status"
)

// Dimension is a named way of partitioning customers
type Dimension struct {
	Name     string
	Title    string
	Selector KeySelector
	// order fixes the presentation order of known keys; unknown keys sort after them.
	order []string
	// numeric sorts keys as integers when no order is given
	numeric bool
}

// Registry holds the dimensions available to the CLI, the report and the API
type Registry struct {
	dims  map[string]Dimension
	names []string
}

// NewRegistry builds the standard dimensions. threshold separates high-value customers.
func NewRegistry(threshold float64) *Registry {
	geoOrder := make([]string, 0, len(domain.KnownGeographies)+1)
	for _, g := range domain.KnownGeographies {
		geoOrder = append(geoOrder, string(g))
	}
	geoOrder = append(geoOrder, string(domain.GeographyUnknown))

	reg := &Registry{dims: make(map[string]Dimension)}
	for _, d := range []Dimension{
		{Name: DimGeography, Title: "Churn by Country", Selector: ByGeography, order: geoOrder},
		{Name: DimActivity, Title: "Churn by Activity Status", Selector: ByActivity, order: []string{ActivityActive, ActivityInactive}},
		{Name: DimProducts, Title: "Churn by Number of Products", Selector: ByProductCount, numeric: true},
		{Name: DimGender, Title: "Churn by Gender", Selector: ByGender},
		{Name: DimAgeGroup, Title: "Churn by Age Group", Selector: ByAgeGroup, order: AgeGroups},
		{Name: DimBalanceSegment, Title: "Churn by Balance Segment", Selector: ByBalanceSegment, order: BalanceSegments},
		{Name: DimValueTier, Title: fmt.Sprintf("High-Value (>%s) vs Regular Customers", compactAmount(threshold)), Selector: ByValueTier(threshold), order: []string{TierHighValue, TierRegular}},
		{Name: DimChurnStatus, Title: "Churned vs Retained", Selector: ByChurnStatus, order: []string{StatusRetained, StatusChurned}},
	} {
		reg.dims[d.Name] = d
		reg.names = append(reg.names, d.Name)
	}
	return reg
}

// Lookup returns the dimension registered under name
func (r *Registry) Lookup(name string) (Dimension, bool) {
	d, ok := r.dims[name]
	return d, ok
}

// Names lists registered dimensions in registration order
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Breakdown aggregates records along d and returns the segments in presentation order
func (d Dimension) Breakdown(records []domain.CustomerRecord) domain.DimensionBreakdown {
	return domain.DimensionBreakdown{
		Dimension: d.Name,
		Title:     d.Title,
		Segments:  d.Sort(Aggregate(records, d.Selector)),
	}
}

// Sort orders a summary map for presentation
func (d Dimension) Sort(summaries map[string]domain.SegmentSummary) []domain.SegmentSummary {
	rank := make(map[string]int, len(d.order))
	for i, k := range d.order {
		rank[k] = i
	}

	out := make([]domain.SegmentSummary, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, s)
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].GroupKey, out[j].GroupKey
		ra, aKnown := rank[a]
		rb, bKnown := rank[b]
		switch {
		case aKnown && bKnown:
			return ra < rb
		case aKnown != bKnown:
			return aKnown
		}
		if d.numeric {
			na, errA := strconv.Atoi(a)
			nb, errB := strconv.Atoi(b)
			if errA == nil && errB == nil {
				return na < nb
			}
		}
		return a < b
	})
	return out
}

// compactAmount renders 100000 as "100k"
func compactAmount(v float64) string {
	if v >= 1000 && v == float64(int64(v/1000))*1000 {
		return strconv.FormatInt(int64(v/1000), 10) + "k"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
