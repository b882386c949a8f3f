package domain

// ChurnOverview holds the headline KPIs for a set of customers
type ChurnOverview struct {
	TotalCustomers int     `json:"total_customers"`
	Churned        int     `json:"churned"`
	Retained       int     `json:"retained"`
	ChurnRate      float64 `json:"churn_rate"`
	RetentionRate  float64 `json:"retention_rate"`
}

// DimensionBreakdown is the full set of segment summaries for one dimension,
// ordered for presentation.
type DimensionBreakdown struct {
	Dimension string           `json:"dimension"`
	Title     string           `json:"title"`
	Segments  []SegmentSummary `json:"segments"`
}

// HighValueComparison contrasts customers above the balance threshold with the rest
type HighValueComparison struct {
	Threshold          float64 `json:"threshold"`
	HighValueCustomers int     `json:"high_value_customers"`
	RegularCustomers   int     `json:"regular_customers"`
	HighValueChurnRate float64 `json:"high_value_churn_rate"`
	RegularChurnRate   float64 `json:"regular_churn_rate"`
	BalanceAtRisk      float64 `json:"balance_at_risk"`
}

// BalanceByStatus holds the mean balance of churned and retained customers
type BalanceByStatus struct {
	ChurnedAverage  float64 `json:"churned_average"`
	RetainedAverage float64 `json:"retained_average"`
}

// ChurnInsights are the headline findings of an analysis run
type ChurnInsights struct {
	OverallChurnRate       float64 `json:"overall_churn_rate"`
	HighestChurnGeography  string  `json:"highest_churn_geography"`
	HighestGeographyRate   float64 `json:"highest_geography_rate"`
	ActiveChurnRate        float64 `json:"active_churn_rate"`
	InactiveChurnRate      float64 `json:"inactive_churn_rate"`
	InactivityGapPoints    float64 `json:"inactivity_gap_points"`
	HighValueBalanceAtRisk float64 `json:"high_value_balance_at_risk"`
}

// ColumnStatistics is a describe() row for one numeric column
type ColumnStatistics struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std"`
	Min    float64 `json:"min"`
	P25    float64 `json:"p25"`
	Median float64 `json:"p50"`
	P75    float64 `json:"p75"`
	Max    float64 `json:"max"`
}

// DatasetDescription is the descriptive statistics of a loaded dataset
type DatasetDescription struct {
	Rows          int                `json:"rows"`
	MissingValues int                `json:"missing_values"`
	Columns       []ColumnStatistics `json:"columns"`
}
