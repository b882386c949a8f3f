package domain

import (
	"strings"
)

// Geography is the customer's country of residence
type Geography string

const (
	GeographyFrance  Geography = "France"
	GeographySpain   Geography = "Spain"
	GeographyGermany Geography = "Germany"

	// GeographyUnknown holds records whose geography value was not recognised at load time.
	GeographyUnknown Geography = "Unknown"
)

// KnownGeographies lists the enumerated geographies in report order
var KnownGeographies = []Geography{GeographyFrance, GeographySpain, GeographyGermany}

// ParseGeography maps a raw cell value onto the enumeration.
// The second return value is false when the value is not recognised.
func ParseGeography(raw string) (Geography, bool) {
	v := strings.TrimSpace(raw)
	for _, g := range KnownGeographies {
		if strings.EqualFold(v, string(g)) {
			return g, true
		}
	}
	return GeographyUnknown, false
}

// IsKnown reports whether g is one of the enumerated geographies
func (g Geography) IsKnown() bool {
	switch g {
	case GeographyFrance, GeographySpain, GeographyGermany:
		return true
	}
	return false
}

// CustomerRecord is one row of the customer table.
// Records are immutable once loaded.
type CustomerRecord struct {
	CustomerID      string    `json:"customer_id" csv:"CustomerId" validate:"required"`
	Surname         string    `json:"surname,omitempty" csv:"Surname"`
	CreditScore     int       `json:"credit_score" csv:"CreditScore"`
	Geography       Geography `json:"geography" csv:"Geography" validate:"required"`
	Gender          string    `json:"gender,omitempty" csv:"Gender"`
	Age             int       `json:"age" csv:"Age" validate:"gte=0"`
	Tenure          int       `json:"tenure" csv:"Tenure" validate:"gte=0"`
	Balance         float64   `json:"balance" csv:"Balance" validate:"gte=0"`
	NumProducts     int       `json:"num_products" csv:"NumOfProducts" validate:"gte=1"`
	HasCreditCard   bool      `json:"has_credit_card" csv:"HasCrCard"`
	IsActive        bool      `json:"is_active" csv:"IsActiveMember"`
	EstimatedSalary float64   `json:"estimated_salary" csv:"EstimatedSalary" validate:"gte=0"`
	HasChurned      bool      `json:"has_churned" csv:"Exited"`
}

// SegmentSummary is the churn breakdown for one partition of the customer population
type SegmentSummary struct {
	GroupKey           string  `json:"group_key"`
	CustomerCount      int     `json:"customer_count"`
	ChurnedCount       int     `json:"churned_count"`
	RetainedCount      int     `json:"retained_count"`
	ChurnRate          float64 `json:"churn_rate"`
	TotalBalanceAtRisk float64 `json:"total_balance_at_risk"`
	AverageBalance     float64 `json:"average_balance"`
}

// ChurnRatePercent returns the churn rate scaled to 0-100
func (s SegmentSummary) ChurnRatePercent() float64 {
	return s.ChurnRate * 100
}
