package domain

import (
	"time"
)

// Filters narrows the row set an analytics computation works over. All fields
// are optional; the zero value applies no restriction. List fields containing
// the FilterAll sentinel are treated as unset.
type Filters struct {
	DateFrom  *time.Time `json:"date_from,omitempty"`
	DateTo    *time.Time `json:"date_to,omitempty" validate:"omitempty,gtefield=DateFrom"`
	Sectors   []string   `json:"sectors,omitempty"`
	Statuses  []string   `json:"statuses,omitempty"`
	Priority  string     `json:"priority,omitempty"`
	RiskLevel string     `json:"risk_level,omitempty"`
	Search    string     `json:"search,omitempty" validate:"max=256"`

	// Analyzer-specific keys.
	ActivitySort         ActivitySort `json:"activity_sort,omitempty" validate:"omitempty,oneof=priority name risk"`
	RecommendationFilter string       `json:"recommendation_filter,omitempty"`
	Year                 int          `json:"year,omitempty" validate:"omitempty,min=2000,max=2100"`
}

// ActivitySort selects the ordering of risk activity records.
type ActivitySort string

const (
	SortByPriority ActivitySort = "priority"
	SortByName     ActivitySort = "name"
	SortByRisk     ActivitySort = "risk"
)

// HasDateRange reports whether both ends of the date range are set.
func (f *Filters) HasDateRange() bool {
	return f != nil && f.DateFrom != nil && f.DateTo != nil
}

// ActiveStatuses returns the status list with the FilterAll sentinel removed,
// or nil when the filter is effectively unset.
func (f *Filters) ActiveStatuses() []string {
	if f == nil {
		return nil
	}
	var out []string
	for _, s := range f.Statuses {
		if s == FilterAll || s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

// ActiveSectors returns the sector list with the FilterAll sentinel removed.
func (f *Filters) ActiveSectors() []string {
	if f == nil {
		return nil
	}
	var out []string
	for _, s := range f.Sectors {
		if s == FilterAll || s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
