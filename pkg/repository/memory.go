package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pbl-lab/pblview/pkg/domain/interfaces"
	"github.com/pbl-lab/pblview/pkg/domain/model"
	"github.com/pbl-lab/pblview/pkg/domain/types"
)

// Memory implements Repository interface with in-memory storage
type Memory struct {
	mu        sync.RWMutex
	snapshots map[types.SnapshotID]*model.IssueSnapshot
}

// NewMemory creates a new memory repository
func NewMemory() interfaces.Repository {
	return &Memory{
		snapshots: make(map[types.SnapshotID]*model.IssueSnapshot),
	}
}

// PutSnapshot stores a snapshot in memory
func (m *Memory) PutSnapshot(ctx context.Context, snapshot *model.IssueSnapshot) error {
	if snapshot == nil {
		return goerr.New("snapshot is nil")
	}
	if snapshot.ID == "" {
		return goerr.New("snapshot ID is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Store a copy to prevent external modification
	snapCopy := *snapshot
	m.snapshots[snapshot.ID] = &snapCopy
	return nil
}

// GetSnapshot retrieves a snapshot by ID
func (m *Memory) GetSnapshot(ctx context.Context, id types.SnapshotID) (*model.IssueSnapshot, error) {
	if id == "" {
		return nil, goerr.New("snapshot ID is empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshot, exists := m.snapshots[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrSnapshotNotFound, "no such snapshot",
			goerr.V("snapshotID", id))
	}

	snapCopy := *snapshot
	return &snapCopy, nil
}

// GetLatestSnapshot retrieves the most recently fetched snapshot for a project
func (m *Memory) GetLatestSnapshot(ctx context.Context, projectID string) (*model.IssueSnapshot, error) {
	if projectID == "" {
		return nil, goerr.New("project ID is empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var latest *model.IssueSnapshot
	for _, snapshot := range m.snapshots {
		if snapshot.ProjectID != projectID {
			continue
		}
		if latest == nil || snapshot.FetchedAt.After(latest.FetchedAt) {
			latest = snapshot
		}
	}
	if latest == nil {
		return nil, goerr.Wrap(model.ErrSnapshotNotFound, "no snapshot for project",
			goerr.V("projectID", projectID))
	}

	snapCopy := *latest
	return &snapCopy, nil
}

// ListSnapshots lists snapshots for a project, newest first
func (m *Memory) ListSnapshots(ctx context.Context, projectID string, limit int) ([]*model.IssueSnapshot, error) {
	if projectID == "" {
		return nil, goerr.New("project ID is empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var snapshots []*model.IssueSnapshot
	for _, snapshot := range m.snapshots {
		if snapshot.ProjectID == projectID {
			snapCopy := *snapshot
			snapshots = append(snapshots, &snapCopy)
		}
	}

	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].FetchedAt.After(snapshots[j].FetchedAt)
	})

	if limit > 0 && len(snapshots) > limit {
		snapshots = snapshots[:limit]
	}
	return snapshots, nil
}

// Close closes the repository (no-op for memory)
func (m *Memory) Close() error {
	return nil
}
