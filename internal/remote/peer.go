package remote

import (
	"context"

	"github.com/swipemart/syncengine/internal/models"
)

//go:generate moq -out peer_mock.go . Peer

// Peer defines interface to the remote sync side. Implementations are
// opaque to the engine: conflict resolution never happens behind Peer.
type Peer interface {
	// FetchRecords retrieves all records of the user from the remote side
	FetchRecords(ctx context.Context, userID string) ([]*models.SyncRecord, error)

	// PushRecords uploads records to the remote side
	PushRecords(ctx context.Context, records []*models.SyncRecord) error
}
