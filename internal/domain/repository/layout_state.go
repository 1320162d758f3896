// Package repository defines persistence interfaces for domain entities.
package repository

import (
	"context"

	"github.com/aldegad/artkit/internal/domain/entity"
)

// LayoutStateRepository persists layout snapshots by name.
// The engine never calls this directly; the coordinator drives it from
// its debounced state-changed callback, so persistence stays off the
// gesture critical path.
type LayoutStateRepository interface {
	// SaveSnapshot saves or updates a named layout snapshot.
	SaveSnapshot(ctx context.Context, snapshot *entity.LayoutSnapshot) error

	// GetSnapshot returns the snapshot with the given name.
	// Returns nil (no error) if no such snapshot exists.
	GetSnapshot(ctx context.Context, name string) (*entity.LayoutSnapshot, error)

	// DeleteSnapshot removes a named snapshot.
	DeleteSnapshot(ctx context.Context, name string) error

	// ListSnapshots returns summary info for all saved snapshots.
	ListSnapshots(ctx context.Context) ([]entity.LayoutInfo, error)
}
