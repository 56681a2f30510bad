package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/pbl-lab/pblview/pkg/domain/model"
	"github.com/pbl-lab/pblview/pkg/domain/types"
	"github.com/pbl-lab/pblview/pkg/repository"
	"github.com/pbl-lab/pblview/pkg/usecase"
)

// fakeGitLab serves canned issues per quarter and counts calls
type fakeGitLab struct {
	mu     sync.Mutex
	issues map[types.QuarterLabel][]model.Issue
	calls  int
}

func (f *fakeGitLab) ListIssues(ctx context.Context, quarter types.QuarterLabel) ([]model.Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.issues[quarter], nil
}

func newReport(t *testing.T, gl *fakeGitLab) *usecase.Report {
	t.Helper()
	chart := usecase.NewChart(model.NewBusinessDayCalendar(nil))
	return usecase.NewReport(repository.NewMemory(), gl, chart, "team/backlog", usecase.ScopeOptions{})
}

func TestReportQuarters(t *testing.T) {
	uc := newReport(t, &fakeGitLab{})
	period := mustPeriod(t, "2025-06-30", "2025-07-01")

	quarters, err := uc.Quarters(context.Background(), period)
	gt.NoError(t, err)
	gt.Equal(t, quarters, []string{"FY25Q1", "FY25Q2"})
}

func TestReportScopedIssues(t *testing.T) {
	gl := &fakeGitLab{issues: map[types.QuarterLabel][]model.Issue{
		"FY25Q1": {
			q1Issue(1, func(i *model.Issue) { i.Point = ptrFloat(3) }),
			q1Issue(2, func(i *model.Issue) { i.KanbanStatus = types.KanbanStatusTemplate }),
		},
	}}
	uc := newReport(t, gl)
	period := mustPeriod(t, "2025-04-01", "2025-06-30")

	result, err := uc.ScopedIssues(context.Background(), period)
	gt.NoError(t, err)
	gt.A(t, result.Filtered).Length(1)
	gt.A(t, result.Excluded).Length(1)
	gt.Equal(t, gl.calls, 1)
}

func TestReportServesSnapshotOnSecondCall(t *testing.T) {
	gl := &fakeGitLab{issues: map[types.QuarterLabel][]model.Issue{
		"FY25Q1": {q1Issue(1, nil)},
	}}
	uc := newReport(t, gl)
	period := mustPeriod(t, "2025-04-01", "2025-06-30")
	ctx := context.Background()

	_, err := uc.ScopedIssues(ctx, period)
	gt.NoError(t, err)
	_, err = uc.ScopedIssues(ctx, period)
	gt.NoError(t, err)

	// Second call is served from the fresh snapshot
	gt.Equal(t, gl.calls, 1)
}

func TestReportDeduplicatesAcrossQuarters(t *testing.T) {
	shared := q1Issue(1, nil)
	gl := &fakeGitLab{issues: map[types.QuarterLabel][]model.Issue{
		"FY25Q1": {shared, q1Issue(2, nil)},
		"FY25Q2": {shared},
	}}
	uc := newReport(t, gl)
	// Period touching both quarters
	period := mustPeriod(t, "2025-06-01", "2025-07-31")

	result, err := uc.ScopedIssues(context.Background(), period)
	gt.NoError(t, err)
	gt.Equal(t, gl.calls, 2)
	gt.Equal(t, len(result.Filtered)+len(result.Excluded), 2)
}

// blockingGitLab holds every fetch at a gate so concurrent callers overlap
type blockingGitLab struct {
	fakeGitLab
	gate chan struct{}
}

func (b *blockingGitLab) ListIssues(ctx context.Context, quarter types.QuarterLabel) ([]model.Issue, error) {
	issues, err := b.fakeGitLab.ListIssues(ctx, quarter)
	<-b.gate
	return issues, err
}

func TestReportCollapsesConcurrentFetches(t *testing.T) {
	gl := &blockingGitLab{
		fakeGitLab: fakeGitLab{issues: map[types.QuarterLabel][]model.Issue{
			"FY25Q1": {q1Issue(1, nil)},
		}},
		gate: make(chan struct{}),
	}
	chart := usecase.NewChart(model.NewBusinessDayCalendar(nil))
	uc := usecase.NewReport(repository.NewMemory(), gl, chart, "team/backlog", usecase.ScopeOptions{})
	period := mustPeriod(t, "2025-04-01", "2025-06-30")
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := uc.ScopedIssues(ctx, period)
			gt.NoError(t, err)
			gt.A(t, result.Filtered).Length(1)
		}()
	}

	// Let the remaining callers pile onto the in-flight fetch, then release
	time.Sleep(50 * time.Millisecond)
	close(gl.gate)
	wg.Wait()

	gt.Equal(t, gl.calls, 1)
}

func TestReportGenerate(t *testing.T) {
	gl := &fakeGitLab{issues: map[types.QuarterLabel][]model.Issue{
		"FY25Q1": {
			q1Issue(1, func(i *model.Issue) {
				i.Point = ptrFloat(5)
				i.CompletedAt = ptrTime(date("2025-05-01"))
			}),
			q1Issue(2, func(i *model.Issue) { i.Point = ptrFloat(5) }),
		},
	}}
	uc := newReport(t, gl)
	period := mustPeriod(t, "2025-04-01", "2025-06-30")
	ctx := context.Background()

	t.Run("burn-down", func(t *testing.T) {
		series, err := uc.Generate(ctx, model.ChartBurnDown, period, "")
		gt.NoError(t, err)
		gt.Equal(t, series.Kind, model.ChartBurnDown)
		gt.Equal(t, series.TotalPoints, 10.0)
		gt.A(t, series.Points).Length(len(period.Dates()))
	})

	t.Run("burn-up", func(t *testing.T) {
		series, err := uc.Generate(ctx, model.ChartBurnUp, period, "")
		gt.NoError(t, err)
		gt.Equal(t, series.Points[len(series.Points)-1].Completed, 5.0)
	})

	t.Run("unknown kind is rejected", func(t *testing.T) {
		_, err := uc.Generate(ctx, model.ChartKind("pie"), period, "")
		gt.Error(t, err)
	})
}
