package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pbl-lab/pblview/pkg/domain/interfaces"
	"github.com/pbl-lab/pblview/pkg/domain/model"
	"github.com/pbl-lab/pblview/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	snapshotsCollection = "snapshots"

	fieldProjectID = "project_id"
	fieldFetchedAt = "fetched_at"
)

// Firestore implements Repository interface with Firestore
type Firestore struct {
	client *firestore.Client
}

// NewFirestore creates a new Firestore repository
func NewFirestore(ctx context.Context, projectID, databaseID string) (interfaces.Repository, error) {
	logger := ctxlog.From(ctx)

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client")
	}

	// Probe the collection so a bad project ID or missing permission fails
	// at startup instead of on the first report request
	_, err = client.Collection(snapshotsCollection).Limit(1).Documents(ctx).Next()
	if err != nil && err != iterator.Done {
		if status.Code(err) == codes.PermissionDenied || status.Code(err) == codes.Unauthenticated {
			_ = client.Close()
			return nil, goerr.Wrap(err, "failed to connect to firestore project",
				goerr.V("firestore error code", status.Code(err).String()),
			)
		}
		logger.Debug("Firestore connection probe returned error (may be empty collection)",
			"error", err,
			"errorCode", status.Code(err).String(),
		)
	}

	logger.Info("Firestore repository initialized",
		"projectID", projectID,
		"databaseID", databaseID,
	)

	return &Firestore{client: client}, nil
}

// PutSnapshot stores a snapshot in Firestore
func (f *Firestore) PutSnapshot(ctx context.Context, snapshot *model.IssueSnapshot) error {
	if snapshot == nil {
		return goerr.New("snapshot is nil")
	}
	if snapshot.ID == "" {
		return goerr.New("snapshot ID is empty")
	}

	_, err := f.client.Collection(snapshotsCollection).Doc(snapshot.ID.String()).Set(ctx, snapshot)
	if err != nil {
		return goerr.Wrap(err, "failed to save snapshot to firestore",
			goerr.V("snapshotID", snapshot.ID))
	}
	return nil
}

// GetSnapshot retrieves a snapshot by ID
func (f *Firestore) GetSnapshot(ctx context.Context, id types.SnapshotID) (*model.IssueSnapshot, error) {
	if id == "" {
		return nil, goerr.New("snapshot ID is empty")
	}

	doc, err := f.client.Collection(snapshotsCollection).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrSnapshotNotFound, "no such snapshot",
				goerr.V("snapshotID", id))
		}
		return nil, goerr.Wrap(err, "failed to get snapshot from firestore")
	}

	var snapshot model.IssueSnapshot
	if err := doc.DataTo(&snapshot); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal snapshot")
	}
	return &snapshot, nil
}

// GetLatestSnapshot retrieves the most recently fetched snapshot for a project
func (f *Firestore) GetLatestSnapshot(ctx context.Context, projectID string) (*model.IssueSnapshot, error) {
	snapshots, err := f.ListSnapshots(ctx, projectID, 1)
	if err != nil {
		return nil, err
	}
	if len(snapshots) == 0 {
		return nil, goerr.Wrap(model.ErrSnapshotNotFound, "no snapshot for project",
			goerr.V("projectID", projectID))
	}
	return snapshots[0], nil
}

// ListSnapshots lists snapshots for a project, newest first
func (f *Firestore) ListSnapshots(ctx context.Context, projectID string, limit int) ([]*model.IssueSnapshot, error) {
	if projectID == "" {
		return nil, goerr.New("project ID is empty")
	}

	query := f.client.Collection(snapshotsCollection).
		Where(fieldProjectID, "==", projectID).
		OrderBy(fieldFetchedAt, firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var snapshots []*model.IssueSnapshot
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate snapshots",
				goerr.V("projectID", projectID))
		}

		var snapshot model.IssueSnapshot
		if err := doc.DataTo(&snapshot); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal snapshot")
		}
		snapshots = append(snapshots, &snapshot)
	}
	return snapshots, nil
}

// Close closes the Firestore client
func (f *Firestore) Close() error {
	if err := f.client.Close(); err != nil {
		return goerr.Wrap(err, "failed to close firestore client")
	}
	return nil
}
