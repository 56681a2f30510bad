package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pbl-lab/pblview/pkg/domain/interfaces"
	"github.com/pbl-lab/pblview/pkg/domain/model"
	"github.com/pbl-lab/pblview/pkg/domain/types"
	"github.com/pbl-lab/pblview/pkg/utils/async"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// DefaultSnapshotMaxAge is how long a cached issue snapshot is served
// without triggering a background refresh.
const DefaultSnapshotMaxAge = 15 * time.Minute

// Report orchestrates the reporting flow: resolve the quarters a period
// touches, fetch (or reuse a cached snapshot of) the quarter-tagged issues,
// run the scope filter pipeline, and assemble burn chart datasets.
type Report struct {
	repo           interfaces.Repository
	gitlab         interfaces.GitLabClient
	chart          *Chart
	projectID      string
	scopeOpts      ScopeOptions
	snapshotMaxAge time.Duration
	now            func() time.Time
	fetchGroup     singleflight.Group
}

var _ ReportGenerator = (*Report)(nil)

// NewReport creates a Report use case.
func NewReport(repo interfaces.Repository, gitlab interfaces.GitLabClient, chart *Chart, projectID string, scopeOpts ScopeOptions) *Report {
	return &Report{
		repo:           repo,
		gitlab:         gitlab,
		chart:          chart,
		projectID:      projectID,
		scopeOpts:      scopeOpts,
		snapshotMaxAge: DefaultSnapshotMaxAge,
		now:            time.Now,
	}
}

// Quarters returns the fiscal-quarter labels the period overlaps, as the
// data-fetch layer uses them to narrow upstream queries.
func (uc *Report) Quarters(ctx context.Context, period model.Period) ([]string, error) {
	labels := model.OverlappingQuarters(period)
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = l.String()
	}
	return out, nil
}

// ScopedIssues fetches the period's issues and applies the scope filter
// pipeline.
func (uc *Report) ScopedIssues(ctx context.Context, period model.Period) (model.ScopeFilterResult, error) {
	issues, err := uc.loadIssues(ctx, period)
	if err != nil {
		return model.ScopeFilterResult{}, err
	}
	return ApplyScopeFilters(issues, period, uc.scopeOpts), nil
}

// Generate produces the burn chart dataset of the given kind for the period.
// A non-empty milestone narrows the chart to that milestone's issues.
func (uc *Report) Generate(ctx context.Context, kind model.ChartKind, period model.Period, milestone string) (model.ChartSeries, error) {
	if !kind.IsValid() {
		return model.ChartSeries{}, goerr.New("unknown chart kind", goerr.V("kind", kind))
	}

	scope, err := uc.ScopedIssues(ctx, period)
	if err != nil {
		return model.ChartSeries{}, err
	}

	if kind == model.ChartBurnDown {
		return uc.chart.BurnDown(scope, period, milestone), nil
	}
	return uc.chart.BurnUp(scope, period, milestone), nil
}

// loadIssues serves the latest cached snapshot when it is fresh enough and
// covers the period's quarters; a stale snapshot is served immediately while
// a refresh runs in the background. Only a missing or non-covering snapshot
// blocks on the upstream tracker.
func (uc *Report) loadIssues(ctx context.Context, period model.Period) ([]model.Issue, error) {
	logger := ctxlog.From(ctx)
	quarters := model.OverlappingQuarters(period)

	snapshot, err := uc.repo.GetLatestSnapshot(ctx, uc.projectID)
	if err == nil && snapshot != nil && snapshot.Covers(quarters) {
		if snapshot.Age(uc.now()) <= uc.snapshotMaxAge {
			return snapshot.Issues, nil
		}

		logger.Info("Serving stale snapshot, refreshing in background",
			"snapshotID", snapshot.ID,
			"age", snapshot.Age(uc.now()).String(),
		)
		async.Dispatch(ctx, func(ctx context.Context) error {
			_, err := uc.fetchAndStoreShared(ctx, quarters)
			return err
		})
		return snapshot.Issues, nil
	}

	return uc.fetchAndStoreShared(ctx, quarters)
}

// fetchAndStoreShared collapses concurrent fetches for the same project and
// quarter set into a single upstream round trip; all callers share the
// result.
func (uc *Report) fetchAndStoreShared(ctx context.Context, quarters []types.QuarterLabel) ([]model.Issue, error) {
	labels := make([]string, len(quarters))
	for i, q := range quarters {
		labels[i] = q.String()
	}
	key := uc.projectID + "/" + strings.Join(labels, ",")

	v, err, _ := uc.fetchGroup.Do(key, func() (any, error) {
		return uc.fetchAndStore(ctx, quarters)
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.Issue), nil
}

// fetchAndStore pulls every quarter's issues from the tracker concurrently,
// dedupes them by ID, and persists the merged set as a new snapshot.
func (uc *Report) fetchAndStore(ctx context.Context, quarters []types.QuarterLabel) ([]model.Issue, error) {
	logger := ctxlog.From(ctx)

	results := make([][]model.Issue, len(quarters))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, quarter := range quarters {
		eg.Go(func() error {
			issues, err := uc.gitlab.ListIssues(egCtx, quarter)
			if err != nil {
				return goerr.Wrap(err, "failed to fetch issues for quarter",
					goerr.V("quarter", quarter))
			}
			results[i] = issues
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	// An issue tagged with two of the requested quarters arrives twice
	seen := make(map[types.IssueID]struct{})
	var merged []model.Issue
	for _, issues := range results {
		for _, issue := range issues {
			if _, dup := seen[issue.ID]; dup {
				continue
			}
			seen[issue.ID] = struct{}{}
			merged = append(merged, issue)
		}
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].ID < merged[j].ID })

	snapshot, err := model.NewIssueSnapshot(uc.projectID, quarters, merged)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create issue snapshot")
	}
	if err := uc.repo.PutSnapshot(ctx, snapshot); err != nil {
		return nil, goerr.Wrap(err, "failed to store issue snapshot")
	}

	logger.Info("Fetched issue snapshot",
		"snapshotID", snapshot.ID,
		"quarters", quarters,
		"issueCount", len(merged),
	)
	return merged, nil
}
