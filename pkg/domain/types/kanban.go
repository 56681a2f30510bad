package types

// KanbanStatus represents a workflow label attached to an issue. The upstream
// board uses a small fixed vocabulary prefixed with "#"; the administrative
// markers among them denote rows that are not real backlog items. Unknown
// labels are carried through as-is and never match a sentinel, so an upstream
// typo degrades to "unrecognized" instead of silently matching.
type KanbanStatus string

const (
	// KanbanStatusNone means no workflow label was attached
	KanbanStatusNone KanbanStatus = ""
	// KanbanStatusTemplate marks a template row, not real work
	KanbanStatusTemplate KanbanStatus = "#テンプレート"
	// KanbanStatusGoalAnnouncement marks a goal/announcement placeholder
	KanbanStatusGoalAnnouncement KanbanStatus = "#ゴール/アナウンス"
	// KanbanStatusUnnecessary marks an explicitly discarded item
	KanbanStatusUnnecessary KanbanStatus = "#不要"
	// KanbanStatusNotStarted represents work not yet begun
	KanbanStatusNotStarted KanbanStatus = "#未着手"
	// KanbanStatusInProgress represents work underway
	KanbanStatusInProgress KanbanStatus = "#作業中"
	// KanbanStatusInReview represents work under review
	KanbanStatusInReview KanbanStatus = "#レビュー中"
	// KanbanStatusDone represents finished work
	KanbanStatusDone KanbanStatus = "#完了"
	// KanbanStatusAwaitingHandoff represents work done but waiting for release
	KanbanStatusAwaitingHandoff KanbanStatus = "#リリース待ち"
)

// String returns the string representation
func (s KanbanStatus) String() string {
	return string(s)
}

// IsAdministrative reports whether the status marks a non-work row
// (template, goal/announcement, or explicitly unnecessary).
func (s KanbanStatus) IsAdministrative() bool {
	switch s {
	case KanbanStatusTemplate, KanbanStatusGoalAnnouncement, KanbanStatusUnnecessary:
		return true
	default:
		return false
	}
}

// ExclusionReason returns the reason code for an administrative status,
// or ReasonNone for any other status.
func (s KanbanStatus) ExclusionReason() ExclusionReason {
	switch s {
	case KanbanStatusTemplate:
		return ReasonTemplate
	case KanbanStatusGoalAnnouncement:
		return ReasonGoal
	case KanbanStatusUnnecessary:
		return ReasonUnnecessary
	default:
		return ReasonNone
	}
}

// RequiresDueDate reports whether an issue in this status is expected to
// carry a due date. Done and awaiting-handoff items without one are a data
// quality defect surfaced by the scope filter.
func (s KanbanStatus) RequiresDueDate() bool {
	switch s {
	case KanbanStatusDone, KanbanStatusAwaitingHandoff:
		return true
	default:
		return false
	}
}
