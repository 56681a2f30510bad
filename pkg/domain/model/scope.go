package model

import (
	"github.com/pbl-lab/pblview/pkg/domain/types"
)

// ExclusionRecord pairs an original (uncorrected) issue with the reason code
// of the stage that removed or flagged it.
type ExclusionRecord struct {
	Issue  Issue                 `json:"issue"`
	Reason types.ExclusionReason `json:"reason"`
}

// ScopeFilterResult is the outcome of the scope filter pipeline.
//
// Invariant: len(Filtered) + len(Excluded) equals the number of input
// issues, and no issue ID appears in both. Warnings hold diagnostic records
// for issues that were flagged but deliberately kept in Filtered; they are
// a subset of Filtered by ID and never counted against the invariant.
type ScopeFilterResult struct {
	Filtered []Issue           `json:"filtered"`
	Excluded []ExclusionRecord `json:"excluded"`
	Warnings []ExclusionRecord `json:"warnings,omitempty"`
}

// ExcludedByReason returns the excluded records carrying the given reason.
func (r ScopeFilterResult) ExcludedByReason(reason types.ExclusionReason) []ExclusionRecord {
	var out []ExclusionRecord
	for _, rec := range r.Excluded {
		if rec.Reason == reason {
			out = append(out, rec)
		}
	}
	return out
}
