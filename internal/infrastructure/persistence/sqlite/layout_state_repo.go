package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aldegad/artkit/internal/domain/entity"
	"github.com/aldegad/artkit/internal/domain/repository"
	"github.com/aldegad/artkit/internal/logging"
)

type layoutStateRepo struct {
	db *sql.DB
}

// NewLayoutStateRepository creates a new layout state repository.
func NewLayoutStateRepository(db *sql.DB) repository.LayoutStateRepository {
	return &layoutStateRepo{db: db}
}

// SaveSnapshot saves or updates a named layout snapshot.
func (r *layoutStateRepo) SaveSnapshot(ctx context.Context, snapshot *entity.LayoutSnapshot) error {
	log := logging.FromContext(ctx)
	if snapshot == nil {
		return errors.New("layout snapshot cannot be nil")
	}
	if snapshot.Name == "" {
		return errors.New("layout snapshot name cannot be empty")
	}

	stateJSON, err := json.Marshal(snapshot)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal layout snapshot")
		return err
	}

	log.Debug().
		Str("layout", snapshot.Name).
		Int("panel_count", snapshot.CountPanels()).
		Int("window_count", len(snapshot.Windows)).
		Msg("saving layout snapshot")

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			log.Debug().Err(rollbackErr).Msg("snapshot rollback reported non-terminal error")
		}
	}()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO layout_states (name, state_json, version, panel_count, window_count, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			state_json = excluded.state_json,
			version = excluded.version,
			panel_count = excluded.panel_count,
			window_count = excluded.window_count,
			updated_at = excluded.updated_at`,
		snapshot.Name,
		string(stateJSON),
		int64(snapshot.Version),
		int64(snapshot.CountPanels()),
		int64(len(snapshot.Windows)),
		snapshot.SavedAt,
	); err != nil {
		return fmt.Errorf("upsert layout snapshot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot transaction: %w", err)
	}

	return nil
}

// GetSnapshot returns the snapshot with the given name, or nil if none exists.
func (r *layoutStateRepo) GetSnapshot(ctx context.Context, name string) (*entity.LayoutSnapshot, error) {
	var stateJSON string
	err := r.db.QueryRowContext(ctx,
		"SELECT state_json FROM layout_states WHERE name = ?", name,
	).Scan(&stateJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query layout snapshot: %w", err)
	}

	var snapshot entity.LayoutSnapshot
	if err := json.Unmarshal([]byte(stateJSON), &snapshot); err != nil {
		logging.FromContext(ctx).Error().Err(err).
			Str("layout", name).
			Msg("failed to unmarshal layout snapshot")
		return nil, err
	}

	return &snapshot, nil
}

// DeleteSnapshot removes a named snapshot. Deleting a snapshot that does
// not exist is not an error.
func (r *layoutStateRepo) DeleteSnapshot(ctx context.Context, name string) error {
	log := logging.FromContext(ctx)
	log.Debug().Str("layout", name).Msg("deleting layout snapshot")

	if _, err := r.db.ExecContext(ctx, "DELETE FROM layout_states WHERE name = ?", name); err != nil {
		return fmt.Errorf("delete layout snapshot: %w", err)
	}
	return nil
}

// ListSnapshots returns summary info for all saved snapshots, most
// recently updated first.
func (r *layoutStateRepo) ListSnapshots(ctx context.Context) ([]entity.LayoutInfo, error) {
	log := logging.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, `
		SELECT name, panel_count, window_count, updated_at
		FROM layout_states
		ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query layout snapshots: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Debug().Err(closeErr).Msg("failed to close layout snapshot rows")
		}
	}()

	var infos []entity.LayoutInfo
	for rows.Next() {
		var info entity.LayoutInfo
		if err := rows.Scan(&info.Name, &info.PanelCount, &info.WindowCount, &info.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan layout snapshot row: %w", err)
		}
		infos = append(infos, info)
	}

	return infos, rows.Err()
}
