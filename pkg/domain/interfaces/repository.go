package interfaces

import (
	"context"

	"github.com/pbl-lab/pblview/pkg/domain/model"
	"github.com/pbl-lab/pblview/pkg/domain/types"
)

// Repository defines the interface for issue snapshot persistence
type Repository interface {
	// PutSnapshot stores a fetched issue snapshot
	PutSnapshot(ctx context.Context, snapshot *model.IssueSnapshot) error
	// GetSnapshot retrieves a snapshot by ID
	GetSnapshot(ctx context.Context, id types.SnapshotID) (*model.IssueSnapshot, error)
	// GetLatestSnapshot retrieves the most recently fetched snapshot for a project
	GetLatestSnapshot(ctx context.Context, projectID string) (*model.IssueSnapshot, error)
	// ListSnapshots lists snapshots for a project, newest first
	ListSnapshots(ctx context.Context, projectID string, limit int) ([]*model.IssueSnapshot, error)

	// Close closes the repository connection
	Close() error
}
