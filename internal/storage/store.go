// Package storage provides abstractions for the local snapshot cache.
package storage

import (
	"context"
	"errors"

	"github.com/splitfair/splitfair/internal/models"
)

// ErrNotFound means no snapshot has been cached for the group.
var ErrNotFound = errors.New("snapshot not found")

// Store defines the interface for snapshot persistence. This abstraction
// keeps the service layer independent of the cache backend.
type Store interface {
	// SaveSnapshot persists the group's latest snapshot, replacing any
	// previous one for the same group.
	SaveSnapshot(ctx context.Context, snap *models.Snapshot) error

	// GetSnapshot retrieves the cached snapshot for a group.
	// Returns ErrNotFound when the group has never been cached.
	GetSnapshot(ctx context.Context, groupID string) (*models.Snapshot, error)

	// Close releases any resources held by the store.
	Close() error
}
