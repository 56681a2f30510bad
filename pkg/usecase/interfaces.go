package usecase

import (
	"context"

	"github.com/pbl-lab/pblview/pkg/domain/model"
)

// ReportGenerator is the surface the HTTP controller consumes. *Report
// implements it; tests substitute lighter fakes.
type ReportGenerator interface {
	Quarters(ctx context.Context, period model.Period) ([]string, error)
	ScopedIssues(ctx context.Context, period model.Period) (model.ScopeFilterResult, error)
	Generate(ctx context.Context, kind model.ChartKind, period model.Period, milestone string) (model.ChartSeries, error)
}
