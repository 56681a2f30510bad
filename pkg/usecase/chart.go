package usecase

import (
	"time"

	"github.com/pbl-lab/pblview/pkg/domain/model"
)

// Chart computes calendar-aware burn chart datasets. The ideal baselines
// spread the total scope evenly over the business days of the period; the
// actual series aggregates completed points per report date.
type Chart struct {
	calendar *model.BusinessDayCalendar
}

// NewChart creates a Chart use case backed by the given calendar.
func NewChart(calendar *model.BusinessDayCalendar) *Chart {
	return &Chart{calendar: calendar}
}

// IdealBurnDown returns the ideal remaining-points value for each report
// date. When the period contains no business days the line is the constant
// totalPoints; there is never a division by zero.
func (c *Chart) IdealBurnDown(totalPoints float64, period model.Period, dates []time.Time) []float64 {
	total := c.calendar.CountBusinessDays(period.Start, period.End)
	out := make([]float64, len(dates))
	if total == 0 {
		for i := range out {
			out[i] = totalPoints
		}
		return out
	}

	perDay := totalPoints / float64(total)
	for i, d := range dates {
		k := c.calendar.CountBusinessDays(period.Start, d)
		out[i] = max(0, totalPoints-float64(k)*perDay)
	}
	return out
}

// IdealBurnUp returns the ideal completed-points value for each report
// date. A period with no business days yields the constant 0.
func (c *Chart) IdealBurnUp(totalPoints float64, period model.Period, dates []time.Time) []float64 {
	total := c.calendar.CountBusinessDays(period.Start, period.End)
	out := make([]float64, len(dates))
	if total == 0 {
		return out
	}

	perDay := totalPoints / float64(total)
	for i, d := range dates {
		k := c.calendar.CountBusinessDays(period.Start, d)
		out[i] = min(totalPoints, float64(k)*perDay)
	}
	return out
}

// BurnDown assembles the full burn-down dataset for a scoped issue set. An
// empty milestone charts every scoped issue.
func (c *Chart) BurnDown(scope model.ScopeFilterResult, period model.Period, milestone string) model.ChartSeries {
	return c.assemble(model.ChartBurnDown, scope, period, milestone)
}

// BurnUp assembles the full burn-up dataset for a scoped issue set.
func (c *Chart) BurnUp(scope model.ScopeFilterResult, period model.Period, milestone string) model.ChartSeries {
	return c.assemble(model.ChartBurnUp, scope, period, milestone)
}

func (c *Chart) assemble(kind model.ChartKind, scope model.ScopeFilterResult, period model.Period, milestone string) model.ChartSeries {
	issues := filterByMilestone(scope.Filtered, milestone)
	totalPoints := model.TotalStoryPoints(issues)
	dates := period.Dates()

	// Burn-down measures against the scope as planned at the start; burn-up
	// tracks scope changes, so an issue created mid-period only joins the
	// total (and the ideal baseline) from its creation date onward.
	var idealDown []float64
	if kind == model.ChartBurnDown {
		idealDown = c.IdealBurnDown(totalPoints, period, dates)
	}
	businessDays := c.calendar.CountBusinessDays(period.Start, period.End)

	points := make([]model.ChartPoint, len(dates))
	for i, d := range dates {
		var completed float64
		var completedCount int
		for _, issue := range issues {
			if issue.CompletedOnOrBefore(d) {
				completed += issue.StoryPoints()
				completedCount++
			}
		}

		totalScope := totalPoints
		totalIssues := len(issues)
		if kind == model.ChartBurnUp {
			totalScope, totalIssues = scopeAsOf(issues, d)
		}

		var planned float64
		var actual float64
		if kind == model.ChartBurnDown {
			planned = idealDown[i]
			actual = totalPoints - completed
		} else {
			if businessDays > 0 {
				k := c.calendar.CountBusinessDays(period.Start, d)
				planned = totalScope * float64(k) / float64(businessDays)
			}
			actual = completed
		}

		points[i] = model.ChartPoint{
			Date:            d,
			Planned:         planned,
			Actual:          actual,
			Remaining:       totalScope - completed,
			Completed:       completed,
			TotalScope:      totalScope,
			CompletedIssues: completedCount,
			TotalIssues:     totalIssues,
		}
	}

	return model.ChartSeries{
		Kind:        kind,
		Period:      period,
		TotalPoints: totalPoints,
		Points:      points,
		Excluded:    scope.Excluded,
		Warnings:    scope.Warnings,
	}
}

// filterByMilestone narrows a chart to one milestone; empty selects all.
func filterByMilestone(issues []model.Issue, milestone string) []model.Issue {
	if milestone == "" {
		return issues
	}
	var out []model.Issue
	for _, issue := range issues {
		if issue.Milestone == milestone {
			out = append(out, issue)
		}
	}
	return out
}

// scopeAsOf returns the points and count of issues already created on the
// given date.
func scopeAsOf(issues []model.Issue, d time.Time) (float64, int) {
	day := model.DateOf(d)
	var points float64
	var count int
	for _, issue := range issues {
		if model.DateOf(issue.CreatedAt).After(day) {
			continue
		}
		points += issue.StoryPoints()
		count++
	}
	return points, count
}
