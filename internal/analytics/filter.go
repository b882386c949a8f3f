package analytics

import (
	"strings"

	"churnlens/pkg/contracts/domain"
)

// FilterAll is the wildcard accepted by every filter field
const FilterAll = "All"

// Filter narrows the customer population the way the dashboard sidebar does.
// Empty fields and "All" impose no constraint.
type Filter struct {
	Geography string `json:"geography,omitempty" validate:"omitempty,oneof=All France Spain Germany Unknown"`
	AgeGroup  string `json:"age_group,omitempty" validate:"omitempty,oneof=All 'Young (<30)' 'Middle Age (30-45)' 'Senior (45-60)' 'Elderly (60+)'"`
	Gender    string `json:"gender,omitempty" validate:"omitempty,max=32"`
	Activity  string `json:"activity,omitempty" validate:"omitempty,oneof=All Active Inactive"`
}

// IsZero reports whether f matches every record
func (f Filter) IsZero() bool {
	return !active(f.Geography) && !active(f.AgeGroup) && !active(f.Gender) && !active(f.Activity)
}

// Matches reports whether rec satisfies every constraint in f
func (f Filter) Matches(rec domain.CustomerRecord) bool {
	if active(f.Geography) && !strings.EqualFold(f.Geography, string(rec.Geography)) {
		return false
	}
	if active(f.AgeGroup) && f.AgeGroup != AgeGroup(rec.Age) {
		return false
	}
	if active(f.Gender) && !strings.EqualFold(f.Gender, rec.Gender) {
		return false
	}
	if active(f.Activity) && !strings.EqualFold(f.Activity, ActivityStatus(rec.IsActive)) {
		return false
	}
	return true
}

// Apply returns the records matching f. The input slice is returned as-is for a zero filter.
func (f Filter) Apply(records []domain.CustomerRecord) []domain.CustomerRecord {
	if f.IsZero() {
		return records
	}
	out := make([]domain.CustomerRecord, 0, len(records)/2)
	for _, r := range records {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

func active(v string) bool {
	return v != "" && !strings.EqualFold(v, FilterAll)
}
