package analytics

import (
	"strconv"

	"churnlens/pkg/contracts/domain"
)

// Segment labels
const (
	ActivityActive   = "Active"
	ActivityInactive = "Inactive"

	AgeYoung   = "Young (<30)"
	AgeMiddle  = "Middle Age (30-45)"
	AgeSenior  = "Senior (45-60)"
	AgeElderly = "Elderly (60+)"

	BalanceZero   = "Zero Balance"
	BalanceLow    = "Low (<50k)"
	BalanceMedium = "Medium (50k-100k)"
	BalanceHigh   = "High (100k+)"

	TierHighValue = "High-Value"
	TierRegular   = "Regular"

	StatusChurned  = "Churned"
	StatusRetained = "Retained"

	GenderUnknown = "Unknown"
)

// AgeGroups lists the age groups youngest first
var AgeGroups = []string{AgeYoung, AgeMiddle, AgeSenior, AgeElderly}

// BalanceSegments lists the balance segments lowest first
var BalanceSegments = []string{BalanceZero, BalanceLow, BalanceMedium, BalanceHigh}

// AgeGroup buckets an age
func AgeGroup(age int) string {
	switch {
	case age < 30:
		return AgeYoung
	case age < 45:
		return AgeMiddle
	case age < 60:
		return AgeSenior
	default:
		return AgeElderly
	}
}

// BalanceSegment buckets an account balance
func BalanceSegment(balance float64) string {
	switch {
	case balance == 0:
		return BalanceZero
	case balance < 50000:
		return BalanceLow
	case balance < 100000:
		return BalanceMedium
	default:
		return BalanceHigh
	}
}

// ActivityStatus labels the IsActiveMember flag
func ActivityStatus(active bool) string {
	if active {
		return ActivityActive
	}
	return ActivityInactive
}

func ByGeography(r domain.CustomerRecord) string      { return string(r.Geography) }
func ByActivity(r domain.CustomerRecord) string       { return ActivityStatus(r.IsActive) }
func ByProductCount(r domain.CustomerRecord) string   { return strconv.Itoa(r.NumProducts) }
func ByAgeGroup(r domain.CustomerRecord) string       { return AgeGroup(r.Age) }
func ByBalanceSegment(r domain.CustomerRecord) string { return BalanceSegment(r.Balance) }

// ByGender groups by the Gender column; blank values fall under "Unknown"
func ByGender(r domain.CustomerRecord) string {
	if r.Gender == "" {
		return GenderUnknown
	}
	return r.Gender
}

// ByChurnStatus splits churned from retained customers
func ByChurnStatus(r domain.CustomerRecord) string {
	if r.HasChurned {
		return StatusChurned
	}
	return StatusRetained
}

// ByValueTier splits customers whose balance is strictly above threshold from the rest
func ByValueTier(threshold float64) KeySelector {
	return func(r domain.CustomerRecord) string {
		if r.Balance > threshold {
			return TierHighValue
		}
		return TierRegular
	}
}
