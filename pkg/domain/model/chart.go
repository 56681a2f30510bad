package model

import "time"

// ChartKind selects between the two burn chart orientations.
type ChartKind string

const (
	// ChartBurnDown plots remaining points against the ideal descent
	ChartBurnDown ChartKind = "burndown"
	// ChartBurnUp plots completed points against the ideal ascent
	ChartBurnUp ChartKind = "burnup"
)

// IsValid checks if the chart kind is valid
func (k ChartKind) IsValid() bool {
	switch k {
	case ChartBurnDown, ChartBurnUp:
		return true
	default:
		return false
	}
}

// ChartPoint is one per-date row of a burn chart: the calendar-aware ideal
// baseline (Planned) next to the observed progress (Actual). Values carry
// full precision; rounding is a presentation concern.
type ChartPoint struct {
	Date            time.Time `json:"date"`
	Planned         float64   `json:"planned_points"`
	Actual          float64   `json:"actual_points"`
	Remaining       float64   `json:"remaining_points"`
	Completed       float64   `json:"completed_points"`
	TotalScope      float64   `json:"total_points"`
	CompletedIssues int       `json:"completed_issues"`
	TotalIssues     int       `json:"total_issues"`
}

// ChartSeries is a complete burn chart dataset for one period.
type ChartSeries struct {
	Kind        ChartKind         `json:"kind"`
	Period      Period            `json:"period"`
	TotalPoints float64           `json:"total_points"`
	Points      []ChartPoint      `json:"points"`
	Excluded    []ExclusionRecord `json:"excluded,omitempty"`
	Warnings    []ExclusionRecord `json:"warnings,omitempty"`
}
