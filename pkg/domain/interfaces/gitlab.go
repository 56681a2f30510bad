package interfaces

import (
	"context"

	"github.com/pbl-lab/pblview/pkg/domain/model"
	"github.com/pbl-lab/pblview/pkg/domain/types"
)

// GitLabClient defines the upstream tracker operations used by the
// data-fetch layer
type GitLabClient interface {
	// ListIssues fetches all issues of the configured project tagged with
	// the given fiscal-quarter label
	ListIssues(ctx context.Context, quarter types.QuarterLabel) ([]model.Issue, error)
}
