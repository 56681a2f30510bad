package usecase_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/pbl-lab/pblview/pkg/domain/model"
	"github.com/pbl-lab/pblview/pkg/usecase"
)

func newChart() *usecase.Chart {
	return usecase.NewChart(model.NewBusinessDayCalendar(nil))
}

func TestIdealLines(t *testing.T) {
	chart := newChart()
	// 2025-07-07 (Mon) .. 2025-07-18 (Fri): exactly 10 business days
	period := mustPeriod(t, "2025-07-07", "2025-07-18")

	t.Run("burn-down on the 4th business day", func(t *testing.T) {
		got := chart.IdealBurnDown(50, period, []time.Time{date("2025-07-10")})
		gt.A(t, got).Length(1)
		gt.Equal(t, got[0], 30.0) // 50 - 4*5
	})

	t.Run("burn-up on the 4th business day", func(t *testing.T) {
		got := chart.IdealBurnUp(50, period, []time.Time{date("2025-07-10")})
		gt.Equal(t, got[0], 20.0)
	})

	t.Run("burn-down is monotone non-increasing and non-negative", func(t *testing.T) {
		dates := period.Dates()
		got := chart.IdealBurnDown(100, period, dates)
		for i, v := range got {
			gt.B(t, v >= 0).True()
			if i > 0 {
				gt.B(t, v <= got[i-1]).True()
			}
		}
		gt.Equal(t, got[len(got)-1], 0.0)
	})

	t.Run("burn-up is monotone non-decreasing and capped", func(t *testing.T) {
		dates := period.Dates()
		got := chart.IdealBurnUp(100, period, dates)
		for i, v := range got {
			gt.B(t, v <= 100).True()
			if i > 0 {
				gt.B(t, v >= got[i-1]).True()
			}
		}
		gt.Equal(t, got[len(got)-1], 100.0)
	})

	t.Run("weekend days hold the previous level", func(t *testing.T) {
		// Friday 7/11 and the following Sunday see the same consumed count
		got := chart.IdealBurnDown(50, period, []time.Time{date("2025-07-11"), date("2025-07-13")})
		gt.Equal(t, got[0], got[1])
	})

	t.Run("zero business days yields constant lines", func(t *testing.T) {
		weekend := mustPeriod(t, "2025-07-12", "2025-07-13")
		dates := weekend.Dates()

		down := chart.IdealBurnDown(42, weekend, dates)
		up := chart.IdealBurnUp(42, weekend, dates)
		for i := range dates {
			gt.Equal(t, down[i], 42.0)
			gt.Equal(t, up[i], 0.0)
		}
	})
}

func TestBurnChartAssembly(t *testing.T) {
	chart := newChart()
	period := mustPeriod(t, "2025-07-07", "2025-07-18")

	scope := model.ScopeFilterResult{
		Filtered: []model.Issue{
			{ID: 1, Point: ptrFloat(5), CompletedAt: ptrTime(date("2025-07-09"))},
			{ID: 2, Point: ptrFloat(3), CompletedAt: ptrTime(date("2025-07-15"))},
			{ID: 3, Point: ptrFloat(2)},
		},
	}

	t.Run("burn-down rows", func(t *testing.T) {
		series := chart.BurnDown(scope, period, "")
		gt.Equal(t, series.Kind, model.ChartBurnDown)
		gt.Equal(t, series.TotalPoints, 10.0)
		gt.A(t, series.Points).Length(12) // every calendar day in the period

		first := series.Points[0]
		gt.Equal(t, first.Date, date("2025-07-07"))
		gt.Equal(t, first.Actual, 10.0)
		gt.Equal(t, first.CompletedIssues, 0)
		gt.Equal(t, first.TotalIssues, 3)

		// 7/09: issue 1 done
		gt.Equal(t, series.Points[2].Actual, 5.0)
		gt.Equal(t, series.Points[2].Completed, 5.0)

		last := series.Points[11]
		gt.Equal(t, last.Remaining, 2.0)
		gt.Equal(t, last.CompletedIssues, 2)
	})

	t.Run("burn-up rows", func(t *testing.T) {
		series := chart.BurnUp(scope, period, "")
		gt.Equal(t, series.Kind, model.ChartBurnUp)
		gt.Equal(t, series.Points[0].Actual, 0.0)
		gt.Equal(t, series.Points[11].Actual, 8.0)
		gt.Equal(t, series.Points[11].Planned, 10.0)
	})

	t.Run("burn-up totals follow mid-period scope additions", func(t *testing.T) {
		// Issue created on 7/15 joins the burn-up total from that day on
		late := model.ScopeFilterResult{
			Filtered: []model.Issue{
				{ID: 1, Point: ptrFloat(5), CreatedAt: date("2025-07-15")},
			},
		}
		series := chart.BurnUp(late, period, "")

		first := series.Points[0]
		gt.Equal(t, first.TotalScope, 0.0)
		gt.Equal(t, first.Planned, 0.0)
		gt.Equal(t, first.TotalIssues, 0)

		// 7/15 is the 7th of 10 business days
		joined := series.Points[8]
		gt.Equal(t, joined.Date, date("2025-07-15"))
		gt.Equal(t, joined.TotalScope, 5.0)
		gt.Equal(t, joined.Planned, 3.5)
		gt.Equal(t, joined.TotalIssues, 1)

		last := series.Points[11]
		gt.Equal(t, last.TotalScope, 5.0)
		gt.Equal(t, last.Planned, 5.0)
	})

	t.Run("burn-down keeps the initially planned total", func(t *testing.T) {
		late := model.ScopeFilterResult{
			Filtered: []model.Issue{
				{ID: 1, Point: ptrFloat(5), CreatedAt: date("2025-07-15")},
			},
		}
		series := chart.BurnDown(late, period, "")
		gt.Equal(t, series.Points[0].TotalScope, 5.0)
		gt.Equal(t, series.Points[0].Planned, 5.0)
	})

	t.Run("milestone narrows the chart", func(t *testing.T) {
		mixed := model.ScopeFilterResult{
			Filtered: []model.Issue{
				{ID: 1, Point: ptrFloat(5), Milestone: "sprint-1"},
				{ID: 2, Point: ptrFloat(3), Milestone: "sprint-2"},
			},
		}
		series := chart.BurnDown(mixed, period, "sprint-1")
		gt.Equal(t, series.TotalPoints, 5.0)
		gt.Equal(t, series.Points[0].TotalIssues, 1)

		all := chart.BurnDown(mixed, period, "")
		gt.Equal(t, all.TotalPoints, 8.0)
	})

	t.Run("exclusions travel with the series", func(t *testing.T) {
		withExcluded := scope
		withExcluded.Excluded = []model.ExclusionRecord{{Issue: model.Issue{ID: 9}, Reason: "quarter"}}
		series := chart.BurnDown(withExcluded, period, "")
		gt.A(t, series.Excluded).Length(1)
	})
}
