package usecase

import (
	"context"
	"fmt"

	"github.com/aldegad/artkit/internal/domain/entity"
	"github.com/aldegad/artkit/internal/domain/repository"
	"github.com/aldegad/artkit/internal/logging"
)

// SnapshotLayoutUseCase persists layout snapshots.
type SnapshotLayoutUseCase struct {
	repo repository.LayoutStateRepository
}

// NewSnapshotLayoutUseCase creates a new snapshot use case.
func NewSnapshotLayoutUseCase(repo repository.LayoutStateRepository) *SnapshotLayoutUseCase {
	return &SnapshotLayoutUseCase{repo: repo}
}

// Save captures the current layout state under the given name and writes
// it through the repository. Transient drag state is never captured.
func (uc *SnapshotLayoutUseCase) Save(ctx context.Context, name string, state *entity.LayoutState) error {
	log := logging.FromContext(ctx)
	if uc.repo == nil {
		return fmt.Errorf("layout state repository is required")
	}
	if name == "" {
		return fmt.Errorf("layout name is required")
	}
	if state == nil {
		return fmt.Errorf("layout state is required")
	}

	snapshot := entity.SnapshotFromState(name, state)

	log.Debug().
		Str("layout", name).
		Int("panel_count", snapshot.CountPanels()).
		Int("window_count", len(snapshot.Windows)).
		Msg("saving layout snapshot")

	if err := uc.repo.SaveSnapshot(ctx, snapshot); err != nil {
		return fmt.Errorf("save layout snapshot: %w", err)
	}
	return nil
}

// Delete removes a named snapshot.
func (uc *SnapshotLayoutUseCase) Delete(ctx context.Context, name string) error {
	if uc.repo == nil {
		return fmt.Errorf("layout state repository is required")
	}
	logging.FromContext(ctx).Debug().Str("layout", name).Msg("deleting layout snapshot")
	return uc.repo.DeleteSnapshot(ctx, name)
}

// List returns summary info for all saved snapshots.
func (uc *SnapshotLayoutUseCase) List(ctx context.Context) ([]entity.LayoutInfo, error) {
	if uc.repo == nil {
		return nil, fmt.Errorf("layout state repository is required")
	}
	return uc.repo.ListSnapshots(ctx)
}
