package usecase

import (
	"github.com/pbl-lab/pblview/pkg/domain/model"
	"github.com/pbl-lab/pblview/pkg/domain/types"
)

// ScopeOptions tunes the scope filter pipeline.
type ScopeOptions struct {
	// IncludeMissingDueDate keeps done/awaiting-handoff issues without a
	// due date in the filtered set instead of excluding them. The
	// diagnostic record is reported either way: in Warnings when kept,
	// in Excluded when removed.
	IncludeMissingDueDate bool
}

// scopeStage narrows an issue list, reporting every removal with a reason.
// Stages are pure; the driver folds them so no shared collection is mutated.
type scopeStage func(issues []model.Issue) (kept []model.Issue, excluded []model.ExclusionRecord)

// ApplyScopeFilters runs the five-stage scope correction pipeline over an
// issue list for a reporting period. It is pure, deterministic, and total:
// every input issue ends up in exactly one of Filtered or Excluded, and
// issues removed at one stage never reach later stages.
//
// Stage order: quarter tag, administrative markers, date repair (no
// exclusions), period boundary, due-date diagnostic.
func ApplyScopeFilters(issues []model.Issue, period model.Period, opts ScopeOptions) model.ScopeFilterResult {
	stages := []scopeStage{
		quarterStage(period),
		administrativeMarkerStage,
		dateRepairStage(period),
		periodBoundaryStage(period),
	}

	kept := issues
	var excluded []model.ExclusionRecord
	for _, stage := range stages {
		var removed []model.ExclusionRecord
		kept, removed = stage(kept)
		excluded = append(excluded, removed...)
	}

	result := model.ScopeFilterResult{Excluded: excluded}
	if opts.IncludeMissingDueDate {
		// Flag without removing so the stages' ordering is preserved
		_, flagged := dueDateDiagnosticStage(kept)
		result.Filtered = kept
		result.Warnings = flagged
	} else {
		kept, flagged := dueDateDiagnosticStage(kept)
		result.Filtered = kept
		result.Excluded = append(result.Excluded, flagged...)
	}
	return result
}

// quarterStage removes issues whose quarter tag is empty or names a quarter
// the period does not touch. Upstream data is quarter-tagged, so issues
// tagged for unrelated quarters must never contaminate a period's report
// even when their raw dates are ambiguous.
func quarterStage(period model.Period) scopeStage {
	targets := make(map[types.QuarterLabel]struct{})
	for _, q := range model.OverlappingQuarters(period) {
		targets[q] = struct{}{}
	}

	return func(issues []model.Issue) ([]model.Issue, []model.ExclusionRecord) {
		var kept []model.Issue
		var excluded []model.ExclusionRecord
		for _, issue := range issues {
			if _, ok := targets[issue.Quarter]; !ok {
				excluded = append(excluded, model.ExclusionRecord{Issue: issue, Reason: types.ReasonQuarter})
				continue
			}
			kept = append(kept, issue)
		}
		return kept, excluded
	}
}

// administrativeMarkerStage removes template rows, goal/announcement
// placeholders, and explicitly discarded items regardless of their dates.
func administrativeMarkerStage(issues []model.Issue) ([]model.Issue, []model.ExclusionRecord) {
	var kept []model.Issue
	var excluded []model.ExclusionRecord
	for _, issue := range issues {
		if issue.KanbanStatus.IsAdministrative() {
			excluded = append(excluded, model.ExclusionRecord{
				Issue:  issue,
				Reason: issue.KanbanStatus.ExclusionReason(),
			})
			continue
		}
		kept = append(kept, issue)
	}
	return kept, excluded
}

// dateRepairStage never excludes; it replaces each surviving issue with its
// date-corrected copy so later stages and callers see repaired data.
func dateRepairStage(period model.Period) scopeStage {
	return func(issues []model.Issue) ([]model.Issue, []model.ExclusionRecord) {
		var kept []model.Issue
		for _, issue := range issues {
			kept = append(kept, issue.CorrectDates(period))
		}
		return kept, nil
	}
}

// periodBoundaryStage removes completed issues whose completion date falls
// strictly outside the period. Open issues always survive.
func periodBoundaryStage(period model.Period) scopeStage {
	return func(issues []model.Issue) ([]model.Issue, []model.ExclusionRecord) {
		var kept []model.Issue
		var excluded []model.ExclusionRecord
		for _, issue := range issues {
			if issue.CompletedAt != nil {
				completed := model.DateOf(*issue.CompletedAt)
				if completed.After(period.End) {
					excluded = append(excluded, model.ExclusionRecord{Issue: issue, Reason: types.ReasonPostPeriod})
					continue
				}
				if completed.Before(period.Start) {
					excluded = append(excluded, model.ExclusionRecord{Issue: issue, Reason: types.ReasonPrePeriod})
					continue
				}
			}
			kept = append(kept, issue)
		}
		return kept, excluded
	}
}

// dueDateDiagnosticStage flags done or awaiting-handoff issues that carry no
// due date. The records are diagnostic; the driver decides whether flagged
// issues stay in the filtered set.
func dueDateDiagnosticStage(issues []model.Issue) ([]model.Issue, []model.ExclusionRecord) {
	var kept []model.Issue
	var flagged []model.ExclusionRecord
	for _, issue := range issues {
		if issue.KanbanStatus.RequiresDueDate() && issue.DueDate == nil {
			flagged = append(flagged, model.ExclusionRecord{Issue: issue, Reason: types.ReasonNoDueDate})
			continue
		}
		kept = append(kept, issue)
	}
	return kept, flagged
}
