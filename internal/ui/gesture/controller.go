// Package gesture runs the pointer-driven drag and resize sessions for
// the layout engine. One session is active at a time; starting a new
// gesture while another runs is a no-op by construction.
package gesture

import (
	"context"

	"github.com/aldegad/artkit/internal/application/usecase"
	"github.com/aldegad/artkit/internal/domain/entity"
	"github.com/aldegad/artkit/internal/logging"
)

// Config carries the pointer tunables.
type Config struct {
	SnapThresholdPx  float64
	MinPanePx        float64
	MinWindowWidth   float64
	MinWindowHeight  float64
	EdgeBandFraction float64
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		SnapThresholdPx:  DefaultSnapThreshold,
		MinPanePx:        entity.MinPanePixels,
		MinWindowWidth:   150,
		MinWindowHeight:  100,
		EdgeBandFraction: usecase.DefaultEdgeBandFraction,
	}
}

// Frame is the per-event render geometry: the screen rect of every panel
// currently in the tree. The renderer supplies a fresh one with each
// pointer event since any mutation can move panels.
type Frame struct {
	PanelRects map[entity.PanelID]entity.Rect
}

// session is the tagged state of the one active gesture.
type session interface{ isSession() }

type idle struct{}

type windowDrag struct {
	windowID    string
	grabOffset  entity.Point
	pendingSnap *entity.SnapAnchor
}

type splitResize struct {
	splitID     string
	handleIndex int
	axis        entity.SplitDirection
	startSizes  []float64
	originPx    float64
	containerPx float64
}

type windowResize struct {
	windowID string
	topLeft  entity.Point
}

func (idle) isSession()          {}
func (*windowDrag) isSession()   {}
func (*splitResize) isSession()  {}
func (*windowResize) isSession() {}

// Controller owns the gesture state machine. All methods are synchronous
// and must be called from the single event goroutine; the controller does
// no locking of its own.
type Controller struct {
	tree    *usecase.ManageTreeUseCase
	windows *usecase.ManageWindowsUseCase
	docking *usecase.DockingUseCase
	cfg     Config

	session session
}

// NewController creates a gesture controller over the given use cases.
func NewController(
	tree *usecase.ManageTreeUseCase,
	windows *usecase.ManageWindowsUseCase,
	docking *usecase.DockingUseCase,
	cfg Config,
) *Controller {
	if cfg.SnapThresholdPx <= 0 {
		cfg.SnapThresholdPx = DefaultSnapThreshold
	}
	if cfg.MinPanePx <= 0 {
		cfg.MinPanePx = entity.MinPanePixels
	}
	return &Controller{
		tree:    tree,
		windows: windows,
		docking: docking,
		cfg:     cfg,
		session: idle{},
	}
}

// Active reports whether a gesture session is in progress.
func (c *Controller) Active() bool {
	_, ok := c.session.(idle)
	return !ok
}

// SetConfig replaces the tunables. Must be called from the same
// goroutine (or under the same lock) as the gesture events.
func (c *Controller) SetConfig(cfg Config) {
	if cfg.SnapThresholdPx <= 0 {
		cfg.SnapThresholdPx = DefaultSnapThreshold
	}
	if cfg.MinPanePx <= 0 {
		cfg.MinPanePx = entity.MinPanePixels
	}
	c.cfg = cfg
}

// StartWindowDrag begins dragging a floating window. The grab offset is
// captured so the window does not jump under the pointer. Returns false
// when another gesture is active or the window does not exist.
func (c *Controller) StartWindowDrag(ctx context.Context, state *entity.LayoutState, windowID string, pointer entity.Point) bool {
	if c.Active() || state == nil {
		return false
	}
	window := state.Window(windowID)
	if window == nil {
		return false
	}

	c.session = &windowDrag{
		windowID: windowID,
		grabOffset: entity.Point{
			X: pointer.X - window.Position.X,
			Y: pointer.Y - window.Position.Y,
		},
	}
	state.DraggedWindowID = windowID

	logging.FromContext(ctx).Debug().Str("window_id", windowID).Msg("window drag started")
	return true
}

// SplitResizeInput contains parameters for starting a divider drag.
// ContainerPx is the split's rendered extent along its axis; pixel deltas
// convert to percentage deltas against it.
type SplitResizeInput struct {
	SplitID     string
	HandleIndex int
	Pointer     entity.Point
	ContainerPx float64
}

// StartSplitResize begins dragging a divider between two split siblings.
func (c *Controller) StartSplitResize(ctx context.Context, state *entity.LayoutState, input SplitResizeInput) bool {
	if c.Active() || state == nil || input.ContainerPx <= 0 {
		return false
	}
	node := c.tree.FindNode(state.Root, input.SplitID)
	if node == nil || !node.IsSplit() {
		return false
	}
	if input.HandleIndex < 0 || input.HandleIndex >= len(node.Children)-1 {
		return false
	}

	c.session = &splitResize{
		splitID:     input.SplitID,
		handleIndex: input.HandleIndex,
		axis:        node.SplitDir,
		startSizes:  append([]float64(nil), node.Sizes...),
		originPx:    axisCoord(input.Pointer, node.SplitDir),
		containerPx: input.ContainerPx,
	}

	logging.FromContext(ctx).Debug().
		Str("split_id", input.SplitID).
		Int("handle", input.HandleIndex).
		Msg("split resize started")
	return true
}

// StartWindowResize begins dragging a floating window's resize handle.
func (c *Controller) StartWindowResize(ctx context.Context, state *entity.LayoutState, windowID string) bool {
	if c.Active() || state == nil {
		return false
	}
	window := state.Window(windowID)
	if window == nil {
		return false
	}

	c.session = &windowResize{windowID: windowID, topLeft: window.Position}
	logging.FromContext(ctx).Debug().Str("window_id", windowID).Msg("window resize started")
	return true
}

// Move advances the active session with a new pointer position.
// Idle sessions ignore moves.
func (c *Controller) Move(ctx context.Context, state *entity.LayoutState, pointer entity.Point, frame Frame) {
	if state == nil {
		return
	}
	switch s := c.session.(type) {
	case *windowDrag:
		c.moveWindowDrag(ctx, state, s, pointer, frame)
	case *splitResize:
		c.moveSplitResize(ctx, state, s, pointer)
	case *windowResize:
		c.moveWindowResize(ctx, state, s, pointer)
	}
}

func (c *Controller) moveWindowDrag(ctx context.Context, state *entity.LayoutState, s *windowDrag, pointer entity.Point, frame Frame) {
	window := state.Window(s.windowID)
	if window == nil {
		// Window vanished mid-drag; the session cleans up on End/Cancel.
		return
	}

	position := entity.Point{
		X: pointer.X - s.grabOffset.X,
		Y: pointer.Y - s.grabOffset.Y,
	}
	c.windows.Move(ctx, state, s.windowID, position)

	if window.IsMinimized {
		// Minimized windows snap to panel edges instead of docking.
		state.DropTarget = nil
		snapped, anchor := snapToPanelEdge(frame.PanelRects, pointer, window.Size, window.Position, c.cfg.SnapThresholdPx)
		if anchor != nil {
			c.windows.Move(ctx, state, s.windowID, snapped)
		}
		s.pendingSnap = anchor
		return
	}

	s.pendingSnap = nil
	state.DropTarget = c.docking.ResolveDropTarget(usecase.ResolveDropInput{
		Pointer:      pointer,
		PanelRects:   frame.PanelRects,
		BandFraction: c.cfg.EdgeBandFraction,
	})
}

func (c *Controller) moveSplitResize(ctx context.Context, state *entity.LayoutState, s *splitResize, pointer entity.Point) {
	deltaPx := axisCoord(pointer, s.axis) - s.originPx
	deltaPct := deltaPx / s.containerPx * 100

	out, err := c.tree.ResizeSplit(ctx, usecase.ResizeSplitInput{
		Root:           state.Root,
		NodeID:         s.splitID,
		HandleIndex:    s.handleIndex,
		StartSizes:     s.startSizes,
		DeltaPercent:   deltaPct,
		MinSizePercent: entity.MinSizePercent(s.containerPx, c.cfg.MinPanePx),
	})
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("split_id", s.splitID).Msg("split resize move failed")
		return
	}
	state.Root = out.Root
}

func (c *Controller) moveWindowResize(ctx context.Context, state *entity.LayoutState, s *windowResize, pointer entity.Point) {
	c.windows.Resize(ctx, usecase.ResizeWindowInput{
		State:     state,
		WindowID:  s.windowID,
		Size:      entity.Size{Width: pointer.X - s.topLeft.X, Height: pointer.Y - s.topLeft.Y},
		MinWidth:  c.cfg.MinWindowWidth,
		MinHeight: c.cfg.MinWindowHeight,
	})
}

// End finishes the active session on pointer-up, committing any pending
// dock or snap, then clears the transient drag state.
func (c *Controller) End(ctx context.Context, state *entity.LayoutState) {
	if state == nil {
		c.session = idle{}
		return
	}

	if s, ok := c.session.(*windowDrag); ok {
		c.endWindowDrag(ctx, state, s)
	}
	c.reset(state)
}

func (c *Controller) endWindowDrag(ctx context.Context, state *entity.LayoutState, s *windowDrag) {
	log := logging.FromContext(ctx)

	window := state.Window(s.windowID)
	if window == nil {
		return
	}

	// Drop on an edge zone docks the window into the tree.
	if !window.IsMinimized && state.DropTarget != nil && state.DropTarget.Position.IsEdge() {
		docked, err := c.docking.Dock(ctx, usecase.DockInput{
			State:    state,
			WindowID: s.windowID,
			Target:   *state.DropTarget,
		})
		if err != nil {
			log.Warn().Err(err).Str("window_id", s.windowID).Msg("dock on drag end failed")
		}
		if docked {
			return
		}
	}

	if window.IsMinimized && s.pendingSnap != nil {
		c.windows.SetSnapAnchor(ctx, state, s.windowID, s.pendingSnap)
		return
	}

	// The window landed free of any edge; drop a stale anchor.
	c.windows.SetSnapAnchor(ctx, state, s.windowID, nil)
}

// Cancel aborts the active session on pointer-cancel. It reaches the same
// cleanup as End but commits nothing: no dock, no snap anchor. Size and
// position changes already applied by moves stay, they are valid states.
func (c *Controller) Cancel(ctx context.Context, state *entity.LayoutState) {
	if c.Active() {
		logging.FromContext(ctx).Debug().Msg("gesture cancelled")
	}
	c.reset(state)
}

func (c *Controller) reset(state *entity.LayoutState) {
	c.session = idle{}
	if state != nil {
		state.DropTarget = nil
		state.DraggedWindowID = ""
	}
}

func axisCoord(p entity.Point, dir entity.SplitDirection) float64 {
	if dir == entity.SplitVertical {
		return p.Y
	}
	return p.X
}
