package usecase

import (
	"context"
	"fmt"

	"github.com/aldegad/artkit/internal/domain/entity"
	"github.com/aldegad/artkit/internal/domain/repository"
	"github.com/aldegad/artkit/internal/logging"
)

// RestoreLayoutUseCase reconstructs layout state from saved snapshots.
type RestoreLayoutUseCase struct {
	repo        repository.LayoutStateRepository
	idGenerator IDGenerator
}

// NewRestoreLayoutUseCase creates a new restore use case.
func NewRestoreLayoutUseCase(repo repository.LayoutStateRepository, idGenerator IDGenerator) *RestoreLayoutUseCase {
	return &RestoreLayoutUseCase{repo: repo, idGenerator: idGenerator}
}

// RestoreInput contains parameters for restoring a layout.
type RestoreInput struct {
	Name         string
	DefaultPanel entity.PanelID // panel for the fallback single-leaf layout
}

// RestoreOutput contains the restored state.
type RestoreOutput struct {
	State    *entity.LayoutState
	Restored bool // false when the fallback default layout was used
}

// Restore loads the named snapshot and rebuilds the layout state from
// it. A missing, corrupt, or invariant-violating snapshot falls back to
// the default single-panel layout; restore never fails the caller over
// bad persisted data.
func (uc *RestoreLayoutUseCase) Restore(ctx context.Context, input RestoreInput) (*RestoreOutput, error) {
	log := logging.FromContext(ctx)
	if input.DefaultPanel == "" {
		return nil, fmt.Errorf("default panel is required")
	}

	fallback := func() *RestoreOutput {
		return &RestoreOutput{
			State: entity.DefaultLayout(input.DefaultPanel, entity.IDGenerator(uc.idGenerator)),
		}
	}

	if uc.repo == nil {
		return fallback(), nil
	}

	snapshot, err := uc.repo.GetSnapshot(ctx, input.Name)
	if err != nil {
		log.Warn().Err(err).Str("layout", input.Name).Msg("failed to load layout snapshot, using default")
		return fallback(), nil
	}
	if snapshot == nil {
		log.Debug().Str("layout", input.Name).Msg("no saved layout, using default")
		return fallback(), nil
	}

	state := entity.StateFromSnapshot(snapshot, entity.IDGenerator(uc.idGenerator))
	if state == nil {
		log.Warn().Str("layout", input.Name).Msg("saved layout is corrupt, using default")
		return fallback(), nil
	}

	log.Info().
		Str("layout", input.Name).
		Int("panel_count", state.PanelCount()).
		Int("window_count", len(state.Windows)).
		Msg("layout restored from snapshot")

	return &RestoreOutput{State: state, Restored: true}, nil
}
