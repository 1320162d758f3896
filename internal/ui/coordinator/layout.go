// Package coordinator exposes the layout engine's facade. The
// LayoutCoordinator owns the layout state, routes every operation through
// the use cases, and keeps persistence up to date in the background.
package coordinator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aldegad/artkit/internal/application/port"
	"github.com/aldegad/artkit/internal/application/usecase"
	"github.com/aldegad/artkit/internal/domain/entity"
	"github.com/aldegad/artkit/internal/domain/repository"
	"github.com/aldegad/artkit/internal/logging"
	"github.com/aldegad/artkit/internal/ui/gesture"
)

const defaultSnapshotDebounce = 500 * time.Millisecond

// LayoutCoordinatorConfig holds configuration for LayoutCoordinator.
type LayoutCoordinatorConfig struct {
	Repo         repository.LayoutStateRepository // nil disables persistence
	Panels       port.PanelProvider
	LayoutName   string
	DefaultPanel entity.PanelID

	Gesture          gesture.Config
	CascadeOffset    float64
	SnapshotDebounce time.Duration

	// GenerateID overrides the default uuid generator, mainly for tests.
	GenerateID func() string
}

// LayoutCoordinator manages one workspace viewport's layout: the split
// tree, the floating windows, and the active pointer gesture. All public
// methods are safe for concurrent use; internally every mutation runs
// under one mutex since the layout state is a single owned object.
type LayoutCoordinator struct {
	mu    sync.Mutex
	state *entity.LayoutState

	treeUC     *usecase.ManageTreeUseCase
	windowsUC  *usecase.ManageWindowsUseCase
	dockingUC  *usecase.DockingUseCase
	snapshotUC *usecase.SnapshotLayoutUseCase
	gestures   *gesture.Controller
	gestureCfg gesture.Config

	layoutName    string
	cascadeOffset float64
	debounce      time.Duration
	saveTimer     *time.Timer

	onStateChanged func()
}

// NewLayoutCoordinator builds the facade, restoring the named layout from
// the repository or falling back to a single-panel default.
func NewLayoutCoordinator(ctx context.Context, cfg LayoutCoordinatorConfig) (*LayoutCoordinator, error) {
	log := logging.FromContext(ctx)

	genID := cfg.GenerateID
	if genID == nil {
		genID = uuid.NewString
	}
	if cfg.LayoutName == "" {
		cfg.LayoutName = "default"
	}
	if cfg.DefaultPanel == "" {
		cfg.DefaultPanel = "canvas"
	}
	if cfg.SnapshotDebounce <= 0 {
		cfg.SnapshotDebounce = defaultSnapshotDebounce
	}
	cfg.Gesture = withWindowFloors(cfg.Gesture)

	treeUC := usecase.NewManageTreeUseCase(genID)
	windowsUC := usecase.NewManageWindowsUseCase(genID, cfg.Panels)
	dockingUC := usecase.NewDockingUseCase(treeUC, windowsUC)

	restoreUC := usecase.NewRestoreLayoutUseCase(cfg.Repo, usecase.IDGenerator(genID))
	restored, err := restoreUC.Restore(ctx, usecase.RestoreInput{
		Name:         cfg.LayoutName,
		DefaultPanel: cfg.DefaultPanel,
	})
	if err != nil {
		return nil, err
	}

	c := &LayoutCoordinator{
		state:         restored.State,
		treeUC:        treeUC,
		windowsUC:     windowsUC,
		dockingUC:     dockingUC,
		gestures:      gesture.NewController(treeUC, windowsUC, dockingUC, cfg.Gesture),
		gestureCfg:    cfg.Gesture,
		layoutName:    cfg.LayoutName,
		cascadeOffset: cfg.CascadeOffset,
		debounce:      cfg.SnapshotDebounce,
	}
	if cfg.Repo != nil {
		c.snapshotUC = usecase.NewSnapshotLayoutUseCase(cfg.Repo)
	}

	log.Debug().
		Str("layout", cfg.LayoutName).
		Bool("restored", restored.Restored).
		Int("panel_count", c.state.PanelCount()).
		Msg("layout coordinator created")

	return c, nil
}

// SetOnStateChanged sets the callback invoked after every applied
// mutation, after the internal mutex is released.
func (c *LayoutCoordinator) SetOnStateChanged(fn func()) {
	c.mu.Lock()
	c.onStateChanged = fn
	c.mu.Unlock()
}

// SetGestureConfig replaces the pointer tunables, e.g. after a config
// hot reload. Takes effect from the next gesture event.
func (c *LayoutCoordinator) SetGestureConfig(cfg gesture.Config) {
	cfg = withWindowFloors(cfg)
	c.mu.Lock()
	c.gestureCfg = cfg
	c.gestures.SetConfig(cfg)
	c.mu.Unlock()
}

// withWindowFloors fills in the default window minimums when unset, so
// the resize floor is never zero.
func withWindowFloors(cfg gesture.Config) gesture.Config {
	def := gesture.DefaultConfig()
	if cfg.MinWindowWidth <= 0 {
		cfg.MinWindowWidth = def.MinWindowWidth
	}
	if cfg.MinWindowHeight <= 0 {
		cfg.MinWindowHeight = def.MinWindowHeight
	}
	return cfg
}

// State returns a deep copy of the current layout for rendering.
// Transient drag fields are exposed via DropTarget and DraggedWindow.
func (c *LayoutCoordinator) State() *entity.LayoutState {
	c.mu.Lock()
	defer c.mu.Unlock()
	clone := c.state.Clone()
	if c.state.DropTarget != nil {
		target := *c.state.DropTarget
		clone.DropTarget = &target
	}
	clone.DraggedWindowID = c.state.DraggedWindowID
	return clone
}

// InsertPanel docks a new panel beside the leaf hosting the target panel.
func (c *LayoutCoordinator) InsertPanel(ctx context.Context, target, newPanel entity.PanelID, position entity.DropPosition) error {
	c.mu.Lock()
	out, err := c.treeUC.InsertPanel(ctx, usecase.InsertPanelInput{
		Root:     c.state.Root,
		Target:   target,
		NewPanel: newPanel,
		Position: position,
	})
	if err != nil {
		c.mu.Unlock()
		return err
	}
	changed := out.NewNodeID != ""
	if changed {
		c.state.Root = out.Root
		c.windowsUC.ReconcileSnaps(ctx, c.state)
	}
	c.mu.Unlock()

	if changed {
		c.stateChanged(ctx)
	}
	return nil
}

// RemovePanel removes a node from the tree. Removing the last panel is a
// silent no-op; the tree never goes empty.
func (c *LayoutCoordinator) RemovePanel(ctx context.Context, nodeID string) error {
	c.mu.Lock()
	out, err := c.treeUC.RemovePanel(ctx, usecase.RemovePanelInput{
		Root:   c.state.Root,
		NodeID: nodeID,
	})
	if err != nil {
		c.mu.Unlock()
		if errors.Is(err, usecase.ErrLastPanel) {
			return nil
		}
		return err
	}
	changed := out.Removed != nil
	if changed {
		c.state.Root = out.Root
		c.windowsUC.ReconcileSnaps(ctx, c.state)
	}
	c.mu.Unlock()

	if changed {
		c.stateChanged(ctx)
	}
	return nil
}

// UpdateSizes replaces a split's size array.
func (c *LayoutCoordinator) UpdateSizes(ctx context.Context, nodeID string, sizes []float64) error {
	c.mu.Lock()
	out, err := c.treeUC.UpdateSizes(ctx, usecase.UpdateSizesInput{
		Root:   c.state.Root,
		NodeID: nodeID,
		Sizes:  sizes,
	})
	if err != nil {
		c.mu.Unlock()
		return err
	}
	if out.Changed {
		c.state.Root = out.Root
	}
	c.mu.Unlock()

	if out.Changed {
		c.stateChanged(ctx)
	}
	return nil
}

// NudgeSizes moves one divider of a split by a percentage step; the
// keyboard equivalent of a resize-handle drag.
func (c *LayoutCoordinator) NudgeSizes(ctx context.Context, nodeID string, handleIndex int, deltaPercent, minSizePercent float64) error {
	c.mu.Lock()
	node := c.treeUC.FindNode(c.state.Root, nodeID)
	if node == nil || !node.IsSplit() {
		c.mu.Unlock()
		return nil
	}
	out, err := c.treeUC.ResizeSplit(ctx, usecase.ResizeSplitInput{
		Root:           c.state.Root,
		NodeID:         nodeID,
		HandleIndex:    handleIndex,
		StartSizes:     append([]float64(nil), node.Sizes...),
		DeltaPercent:   deltaPercent,
		MinSizePercent: minSizePercent,
	})
	if err != nil {
		c.mu.Unlock()
		return err
	}
	if out.Changed {
		c.state.Root = out.Root
	}
	c.mu.Unlock()

	if out.Changed {
		c.stateChanged(ctx)
	}
	return nil
}

// OpenWindow opens a floating window for a panel, or returns the existing
// one.
func (c *LayoutCoordinator) OpenWindow(ctx context.Context, panel entity.PanelID) (*entity.FloatingWindow, error) {
	c.mu.Lock()
	out, err := c.windowsUC.Open(ctx, usecase.OpenWindowInput{
		State:         c.state,
		Panel:         panel,
		CascadeOffset: c.cascadeOffset,
	})
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}
	window := out.Window.Clone()
	c.mu.Unlock()

	if out.Created {
		c.stateChanged(ctx)
	}
	return window, nil
}

// CloseWindow removes a floating window.
func (c *LayoutCoordinator) CloseWindow(ctx context.Context, windowID string) {
	c.mu.Lock()
	changed := c.windowsUC.Close(ctx, c.state, windowID)
	c.mu.Unlock()

	if changed {
		c.stateChanged(ctx)
	}
}

// MoveWindow repositions a floating window.
func (c *LayoutCoordinator) MoveWindow(ctx context.Context, windowID string, position entity.Point) {
	c.mu.Lock()
	changed := c.windowsUC.Move(ctx, c.state, windowID, position)
	c.mu.Unlock()

	if changed {
		c.stateChanged(ctx)
	}
}

// ResizeWindow resizes a floating window, flooring at the configured
// gesture minimums.
func (c *LayoutCoordinator) ResizeWindow(ctx context.Context, windowID string, size entity.Size) {
	c.mu.Lock()
	changed := c.windowsUC.Resize(ctx, usecase.ResizeWindowInput{
		State:     c.state,
		WindowID:  windowID,
		Size:      size,
		MinWidth:  c.gestureCfg.MinWindowWidth,
		MinHeight: c.gestureCfg.MinWindowHeight,
	})
	c.mu.Unlock()

	if changed {
		c.stateChanged(ctx)
	}
}

// ToggleMinimize flips a window between minimized and expanded, using the
// supplied panel rects to re-anchor snapped windows.
func (c *LayoutCoordinator) ToggleMinimize(ctx context.Context, windowID string, panelRects map[entity.PanelID]entity.Rect) {
	c.mu.Lock()
	changed := c.windowsUC.ToggleMinimize(ctx, usecase.ToggleMinimizeInput{
		State:      c.state,
		WindowID:   windowID,
		PanelRects: panelRects,
	})
	c.mu.Unlock()

	if changed {
		c.stateChanged(ctx)
	}
}

// Dock converts a floating window into a tree panel at the given target.
func (c *LayoutCoordinator) Dock(ctx context.Context, windowID string, target entity.DropTarget) error {
	c.mu.Lock()
	docked, err := c.dockingUC.Dock(ctx, usecase.DockInput{
		State:    c.state,
		WindowID: windowID,
		Target:   target,
	})
	c.mu.Unlock()
	if err != nil {
		return err
	}

	if docked {
		c.stateChanged(ctx)
	}
	return nil
}

// Undock removes a tree leaf and floats its panel. Undocking the last
// panel is a silent no-op.
func (c *LayoutCoordinator) Undock(ctx context.Context, nodeID string) (*entity.FloatingWindow, error) {
	c.mu.Lock()
	out, err := c.dockingUC.Undock(ctx, usecase.UndockInput{
		State:         c.state,
		NodeID:        nodeID,
		CascadeOffset: c.cascadeOffset,
	})
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if out.Window == nil {
		return nil, nil
	}

	c.stateChanged(ctx)
	return out.Window.Clone(), nil
}

// Snapshot writes the current layout to the repository immediately,
// bypassing the debounce.
func (c *LayoutCoordinator) Snapshot(ctx context.Context) error {
	c.mu.Lock()
	if c.saveTimer != nil {
		c.saveTimer.Stop()
		c.saveTimer = nil
	}
	snapshotUC := c.snapshotUC
	state := c.state.Clone()
	c.mu.Unlock()

	if snapshotUC == nil {
		return nil
	}
	return snapshotUC.Save(ctx, c.layoutName, state)
}

// Close flushes the pending snapshot write and releases the coordinator.
func (c *LayoutCoordinator) Close(ctx context.Context) error {
	return c.Snapshot(ctx)
}

// stateChanged schedules a debounced snapshot save and notifies the host.
// Persistence is never on a gesture's critical path.
func (c *LayoutCoordinator) stateChanged(ctx context.Context) {
	c.mu.Lock()
	notify := c.onStateChanged
	if c.snapshotUC != nil {
		if c.saveTimer != nil {
			c.saveTimer.Stop()
		}
		c.saveTimer = time.AfterFunc(c.debounce, func() {
			c.flush(ctx)
		})
	}
	c.mu.Unlock()

	if notify != nil {
		notify()
	}
}

func (c *LayoutCoordinator) flush(ctx context.Context) {
	c.mu.Lock()
	snapshotUC := c.snapshotUC
	state := c.state.Clone()
	c.mu.Unlock()

	if snapshotUC == nil {
		return
	}
	if err := snapshotUC.Save(ctx, c.layoutName, state); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("layout", c.layoutName).Msg("debounced layout save failed")
	}
}
