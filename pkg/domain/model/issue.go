package model

import (
	"time"

	"github.com/pbl-lab/pblview/pkg/domain/types"
)

// Issue is an externally supplied tracker issue, read-only to the reporting
// core. Scope correction never mutates an Issue in place; corrected copies
// are produced by value.
type Issue struct {
	ID           types.IssueID      `json:"id"`
	IID          types.IssueIID     `json:"iid"`
	Title        string             `json:"title"`
	Description  string             `json:"description,omitempty"`
	State        types.IssueState   `json:"state"`
	CreatedAt    time.Time          `json:"created_at"`
	CompletedAt  *time.Time         `json:"completed_at,omitempty"`
	DueDate      *time.Time         `json:"due_date,omitempty"`
	Point        *float64           `json:"point,omitempty"`
	KanbanStatus types.KanbanStatus `json:"kanban_status,omitempty"`
	Quarter      types.QuarterLabel `json:"quarter,omitempty"`
	Milestone    string             `json:"milestone,omitempty"`
	Assignee     string             `json:"assignee,omitempty"`
	Service      string             `json:"service,omitempty"`
	IsEpic       bool               `json:"is_epic,omitempty"`
	WebURL       string             `json:"web_url,omitempty"`
}

// StoryPoints returns the point estimate, or 0 when absent.
func (i Issue) StoryPoints() float64 {
	if i.Point == nil {
		return 0
	}
	return *i.Point
}

// IsCompleted reports whether the issue has a completion timestamp.
func (i Issue) IsCompleted() bool {
	return i.CompletedAt != nil
}

// CompletedOnOrBefore reports whether the issue was completed on or before
// the given date. Open issues always report false.
func (i Issue) CompletedOnOrBefore(date time.Time) bool {
	if i.CompletedAt == nil {
		return false
	}
	return !DateOf(*i.CompletedAt).After(DateOf(date))
}

// CorrectDates returns a copy of the issue with its creation date repaired
// against known upstream data-quality defects:
//   - a completion timestamp chronologically before the creation timestamp
//     rewrites the creation timestamp to the completion timestamp;
//   - a creation date earlier than the period start is clamped forward to
//     the period start.
//
// The repair is idempotent.
func (i Issue) CorrectDates(period Period) Issue {
	out := i
	if out.CompletedAt != nil && out.CompletedAt.Before(out.CreatedAt) {
		out.CreatedAt = *out.CompletedAt
	}
	if DateOf(out.CreatedAt).Before(period.Start) {
		out.CreatedAt = period.Start
	}
	return out
}

// TotalStoryPoints sums the point estimates of a set of issues.
func TotalStoryPoints(issues []Issue) float64 {
	var total float64
	for _, issue := range issues {
		total += issue.StoryPoints()
	}
	return total
}
