package sqlite_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/aldegad/artkit/internal/domain/entity"
	"github.com/aldegad/artkit/internal/infrastructure/persistence/sqlite"
	"github.com/aldegad/artkit/internal/logging"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCtx() context.Context {
	logger := logging.New(logging.Config{Level: zerolog.DebugLevel, Format: "console"})
	return logging.WithContext(context.Background(), logger)
}

func testIDGen() entity.IDGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("node-%d", n)
	}
}

func testSnapshot(name string) *entity.LayoutSnapshot {
	state := entity.DefaultLayout("canvas", testIDGen())
	state.Windows = append(state.Windows, &entity.FloatingWindow{
		ID:       "win-1",
		Panel:    "tools",
		Position: entity.Point{X: 80, Y: 80},
		Size:     entity.Size{Width: 320, Height: 400},
	})
	snapshot := entity.SnapshotFromState(name, state)
	snapshot.SavedAt = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	return snapshot
}

func TestLayoutStateRepository_SaveAndGet(t *testing.T) {
	ctx := testCtx()
	dbPath := filepath.Join(t.TempDir(), "artkit.db")

	db, err := sqlite.NewConnection(ctx, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := sqlite.NewLayoutStateRepository(db)

	snapshot := testSnapshot("default")
	require.NoError(t, repo.SaveSnapshot(ctx, snapshot))

	got, err := repo.GetSnapshot(ctx, "default")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "default", got.Name)
	assert.Equal(t, entity.LayoutSnapshotVersion, got.Version)
	assert.Equal(t, 1, got.CountPanels())
	require.Len(t, got.Windows, 1)
	assert.Equal(t, entity.PanelID("tools"), got.Windows[0].Panel)
	assert.True(t, got.SavedAt.Equal(snapshot.SavedAt))
}

func TestLayoutStateRepository_GetMissingReturnsNil(t *testing.T) {
	ctx := testCtx()
	db, err := sqlite.NewConnection(ctx, filepath.Join(t.TempDir(), "artkit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := sqlite.NewLayoutStateRepository(db)

	got, err := repo.GetSnapshot(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestLayoutStateRepository_SaveOverwrites(t *testing.T) {
	ctx := testCtx()
	db, err := sqlite.NewConnection(ctx, filepath.Join(t.TempDir(), "artkit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := sqlite.NewLayoutStateRepository(db)

	require.NoError(t, repo.SaveSnapshot(ctx, testSnapshot("default")))

	updated := testSnapshot("default")
	updated.Windows = nil
	updated.SavedAt = time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.SaveSnapshot(ctx, updated))

	got, err := repo.GetSnapshot(ctx, "default")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got.Windows)

	infos, err := repo.ListSnapshots(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, 0, infos[0].WindowCount)
}

func TestLayoutStateRepository_ListOrdersByUpdatedAt(t *testing.T) {
	ctx := testCtx()
	db, err := sqlite.NewConnection(ctx, filepath.Join(t.TempDir(), "artkit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := sqlite.NewLayoutStateRepository(db)

	older := testSnapshot("sketching")
	older.SavedAt = time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.SaveSnapshot(ctx, older))

	newer := testSnapshot("painting")
	newer.SavedAt = time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.SaveSnapshot(ctx, newer))

	infos, err := repo.ListSnapshots(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "painting", infos[0].Name)
	assert.Equal(t, "sketching", infos[1].Name)
	assert.Equal(t, 1, infos[0].PanelCount)
	assert.Equal(t, 1, infos[0].WindowCount)
}

func TestLayoutStateRepository_Delete(t *testing.T) {
	ctx := testCtx()
	db, err := sqlite.NewConnection(ctx, filepath.Join(t.TempDir(), "artkit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := sqlite.NewLayoutStateRepository(db)

	require.NoError(t, repo.SaveSnapshot(ctx, testSnapshot("default")))
	require.NoError(t, repo.DeleteSnapshot(ctx, "default"))

	got, err := repo.GetSnapshot(ctx, "default")
	require.NoError(t, err)
	assert.Nil(t, got)

	// Deleting again is a no-op.
	require.NoError(t, repo.DeleteSnapshot(ctx, "default"))
}

func TestLayoutStateRepository_RejectsNilAndUnnamed(t *testing.T) {
	ctx := testCtx()
	db, err := sqlite.NewConnection(ctx, filepath.Join(t.TempDir(), "artkit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := sqlite.NewLayoutStateRepository(db)

	assert.Error(t, repo.SaveSnapshot(ctx, nil))
	unnamed := testSnapshot("default")
	unnamed.Name = ""
	assert.Error(t, repo.SaveSnapshot(ctx, unnamed))
}
