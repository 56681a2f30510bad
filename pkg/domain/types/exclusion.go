package types

// ExclusionReason is a fixed code explaining why an issue was removed from
// (or flagged within) a scoped result set. Each issue acquires at most one
// reason per pipeline run; the first disqualifying stage wins.
type ExclusionReason string

const (
	// ReasonNone is the zero value; never attached to a record
	ReasonNone ExclusionReason = ""
	// ReasonQuarter marks an issue tagged for a quarter outside the period
	ReasonQuarter ExclusionReason = "quarter"
	// ReasonTemplate marks a template row
	ReasonTemplate ExclusionReason = "template"
	// ReasonGoal marks a goal/announcement placeholder
	ReasonGoal ExclusionReason = "goal"
	// ReasonUnnecessary marks an explicitly discarded item
	ReasonUnnecessary ExclusionReason = "unnecessary"
	// ReasonPrePeriod marks an issue completed strictly before the period
	ReasonPrePeriod ExclusionReason = "pre-period"
	// ReasonPostPeriod marks an issue completed strictly after the period
	ReasonPostPeriod ExclusionReason = "post-period"
	// ReasonNoDueDate marks a done or awaiting-handoff issue with no due date
	ReasonNoDueDate ExclusionReason = "no-due-date"
)

// String returns the string representation
func (r ExclusionReason) String() string {
	return string(r)
}

// IsValid checks if the exclusion reason is a known code
func (r ExclusionReason) IsValid() bool {
	switch r {
	case ReasonQuarter, ReasonTemplate, ReasonGoal, ReasonUnnecessary,
		ReasonPrePeriod, ReasonPostPeriod, ReasonNoDueDate:
		return true
	default:
		return false
	}
}

// IsDiagnostic reports whether the reason is informational. Diagnostic
// records flag data-quality defects; callers may choose to keep the issue
// in aggregation.
func (r ExclusionReason) IsDiagnostic() bool {
	return r == ReasonNoDueDate
}
