package store

import (
	"context"
	"errors"

	"github.com/geekskai/exchange-rate-service/internal/models"
)

// ErrSnapshotNotFound is returned by Read when no usable snapshot exists.
// Corrupt or unparseable persisted data is reported the same way so the
// service can treat it as a plain cache miss.
var ErrSnapshotNotFound = errors.New("rate snapshot not found")

// SnapshotStore is the single-slot cache for the current day's snapshot.
// Write replaces the slot wholesale; there is no partial update. Writes may
// race with reads across requests, which is safe because every write is a
// complete snapshot.
type SnapshotStore interface {
	Read(ctx context.Context) (*models.RateSnapshot, error)
	Write(ctx context.Context, snap *models.RateSnapshot) error
}
