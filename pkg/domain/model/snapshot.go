package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pbl-lab/pblview/pkg/domain/types"
)

// IssueSnapshot is one fetched issue set for a project, cached so that
// report endpoints can serve without hitting the upstream tracker on every
// request. Snapshots are immutable once stored.
type IssueSnapshot struct {
	ID        types.SnapshotID     `json:"id" firestore:"id"`
	ProjectID string               `json:"project_id" firestore:"project_id"`
	Quarters  []types.QuarterLabel `json:"quarters" firestore:"quarters"`
	Issues    []Issue              `json:"issues" firestore:"issues"`
	FetchedAt time.Time            `json:"fetched_at" firestore:"fetched_at"`
}

// NewIssueSnapshot creates a snapshot of a fetched issue set.
func NewIssueSnapshot(projectID string, quarters []types.QuarterLabel, issues []Issue) (*IssueSnapshot, error) {
	if projectID == "" {
		return nil, goerr.New("project ID is required")
	}
	return &IssueSnapshot{
		ID:        types.NewSnapshotID(),
		ProjectID: projectID,
		Quarters:  quarters,
		Issues:    issues,
		FetchedAt: time.Now().UTC(),
	}, nil
}

// Covers reports whether the snapshot was fetched for a superset of the
// given quarter labels.
func (s *IssueSnapshot) Covers(quarters []types.QuarterLabel) bool {
	have := make(map[types.QuarterLabel]struct{}, len(s.Quarters))
	for _, q := range s.Quarters {
		have[q] = struct{}{}
	}
	for _, q := range quarters {
		if _, ok := have[q]; !ok {
			return false
		}
	}
	return true
}

// Age returns the time elapsed since the snapshot was fetched.
func (s *IssueSnapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.FetchedAt)
}
