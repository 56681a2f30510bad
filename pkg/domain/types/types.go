package types

import (
	"strings"

	"github.com/google/uuid"
)

// IssueID represents a tracker-global issue identifier
type IssueID int64

// Int64 returns the numeric representation
func (id IssueID) Int64() int64 {
	return int64(id)
}

// IssueIID represents a sequence-in-project issue number
type IssueIID int

// Int returns the numeric representation
func (id IssueIID) Int() int {
	return int(id)
}

// SnapshotID represents a fetched issue snapshot identifier
type SnapshotID string

// String returns the string representation
func (id SnapshotID) String() string {
	return string(id)
}

// NewSnapshotID creates a new SnapshotID
func NewSnapshotID() SnapshotID {
	return SnapshotID("snap-" + uuid.New().String())
}

// IssueState represents the lifecycle state of an issue
type IssueState string

const (
	// IssueStateOpened represents an issue still in progress
	IssueStateOpened IssueState = "opened"
	// IssueStateClosed represents a finished issue
	IssueStateClosed IssueState = "closed"
)

// String returns the string representation
func (s IssueState) String() string {
	return string(s)
}

// IsValid checks if the issue state is valid
func (s IssueState) IsValid() bool {
	switch s {
	case IssueStateOpened, IssueStateClosed:
		return true
	default:
		return false
	}
}

// QuarterLabel represents a normalized fiscal-quarter label such as "FY25Q2".
// Upstream tracker labels carry a leading "@" sigil; ParseQuarterLabel strips
// it once at the ingestion boundary so labels from different sources compare
// equal without repeated normalization.
type QuarterLabel string

// String returns the string representation
func (l QuarterLabel) String() string {
	return string(l)
}

// IsZero reports whether the label is empty
func (l QuarterLabel) IsZero() bool {
	return l == ""
}

// ParseQuarterLabel normalizes a raw upstream quarter label. An empty input
// yields the zero label; malformed labels are kept as-is and simply never
// match a computed target set.
func ParseQuarterLabel(raw string) QuarterLabel {
	return QuarterLabel(strings.TrimPrefix(strings.TrimSpace(raw), "@"))
}
