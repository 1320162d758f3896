package usecase

import (
	"context"
	"fmt"

	"github.com/aldegad/artkit/internal/application/port"
	"github.com/aldegad/artkit/internal/domain/entity"
	"github.com/aldegad/artkit/internal/logging"
)

// Default floating window geometry, used when the panel provider has no
// preference and no explicit position is given.
const (
	defaultWindowWidth  = 320.0
	defaultWindowHeight = 400.0
	cascadeBasePosition = 80.0
	cascadeSlots        = 8
)

// ManageWindowsUseCase handles the floating window registry.
type ManageWindowsUseCase struct {
	idGenerator IDGenerator
	panels      port.PanelProvider
}

// NewManageWindowsUseCase creates a new window management use case.
func NewManageWindowsUseCase(idGenerator IDGenerator, panels port.PanelProvider) *ManageWindowsUseCase {
	return &ManageWindowsUseCase{
		idGenerator: idGenerator,
		panels:      panels,
	}
}

// OpenWindowInput contains parameters for opening a floating window.
type OpenWindowInput struct {
	State         *entity.LayoutState
	Panel         entity.PanelID
	Position      *entity.Point // nil: cascade from the window count
	CascadeOffset float64
}

// OpenWindowOutput contains the result of an open operation.
type OpenWindowOutput struct {
	Window  *entity.FloatingWindow
	Created bool
}

// Open opens a floating window for a panel. Opening a panel that is
// already floating returns the existing window untouched, so repeated
// open calls cannot spawn duplicates.
func (uc *ManageWindowsUseCase) Open(ctx context.Context, input OpenWindowInput) (*OpenWindowOutput, error) {
	log := logging.FromContext(ctx)
	if input.State == nil {
		return nil, fmt.Errorf("layout state is required")
	}
	if input.Panel == "" {
		return nil, fmt.Errorf("panel id is required")
	}

	if existing := input.State.WindowForPanel(input.Panel); existing != nil {
		log.Debug().Str("panel_id", string(input.Panel)).Msg("panel already floating")
		return &OpenWindowOutput{Window: existing}, nil
	}

	size := entity.Size{Width: defaultWindowWidth, Height: defaultWindowHeight}
	if uc.panels != nil {
		if preferred := uc.panels.DefaultFloatingSize(input.Panel); preferred.Width > 0 && preferred.Height > 0 {
			size = preferred
		}
	}

	var position entity.Point
	if input.Position != nil {
		position = *input.Position
	} else {
		position = cascadePosition(input.State, input.CascadeOffset)
	}

	window := &entity.FloatingWindow{
		ID:       uc.idGenerator(),
		Panel:    input.Panel,
		Position: position,
		Size:     size,
	}
	input.State.Windows = append(input.State.Windows, window)

	log.Info().
		Str("window_id", window.ID).
		Str("panel_id", string(input.Panel)).
		Float64("x", position.X).
		Float64("y", position.Y).
		Msg("floating window opened")

	return &OpenWindowOutput{Window: window, Created: true}, nil
}

// cascadePosition staggers newly opened windows so they do not stack
// exactly on top of each other. The first unoccupied slot is used, so a
// slot freed by a close is reused before the cascade stacks on a
// surviving window. Slots wrap so a pile of windows cannot march off
// screen.
func cascadePosition(state *entity.LayoutState, offset float64) entity.Point {
	if offset <= 0 {
		offset = 24
	}

	occupied := make(map[entity.Point]bool, len(state.Windows))
	for _, window := range state.Windows {
		occupied[window.Position] = true
	}

	for slot := 0; slot < cascadeSlots; slot++ {
		step := float64(slot) * offset
		candidate := entity.Point{X: cascadeBasePosition + step, Y: cascadeBasePosition + step}
		if !occupied[candidate] {
			return candidate
		}
	}

	step := float64(len(state.Windows)%cascadeSlots) * offset
	return entity.Point{X: cascadeBasePosition + step, Y: cascadeBasePosition + step}
}

// Close removes a floating window. Unknown IDs are a no-op.
//
//nolint:revive // receiver kept for interface consistency
func (uc *ManageWindowsUseCase) Close(ctx context.Context, state *entity.LayoutState, windowID string) bool {
	log := logging.FromContext(ctx)
	if state == nil {
		return false
	}
	if !state.RemoveWindow(windowID) {
		log.Debug().Str("window_id", windowID).Msg("close: window not found")
		return false
	}
	log.Info().Str("window_id", windowID).Msg("floating window closed")
	return true
}

// Move repositions a floating window, clamping to non-negative
// coordinates so a window cannot be dragged fully out of the viewport.
//
//nolint:revive // receiver kept for interface consistency
func (uc *ManageWindowsUseCase) Move(ctx context.Context, state *entity.LayoutState, windowID string, position entity.Point) bool {
	if state == nil {
		return false
	}
	window := state.Window(windowID)
	if window == nil {
		logging.FromContext(ctx).Debug().Str("window_id", windowID).Msg("move: window not found")
		return false
	}
	window.Position = entity.Point{
		X: maxFloat64(position.X, 0),
		Y: maxFloat64(position.Y, 0),
	}
	return true
}

// ResizeWindowInput contains parameters for resizing a floating window.
type ResizeWindowInput struct {
	State     *entity.LayoutState
	WindowID  string
	Size      entity.Size
	MinWidth  float64
	MinHeight float64
}

// Resize changes a window's size, flooring both dimensions.
//
//nolint:revive // receiver kept for interface consistency
func (uc *ManageWindowsUseCase) Resize(ctx context.Context, input ResizeWindowInput) bool {
	if input.State == nil {
		return false
	}
	window := input.State.Window(input.WindowID)
	if window == nil {
		logging.FromContext(ctx).Debug().Str("window_id", input.WindowID).Msg("resize: window not found")
		return false
	}
	window.Size = entity.Size{
		Width:  maxFloat64(input.Size.Width, input.MinWidth),
		Height: maxFloat64(input.Size.Height, input.MinHeight),
	}
	return true
}

// ToggleMinimizeInput contains parameters for minimizing or expanding a
// floating window. PanelRects carries the current rendered rect per
// panel so a snapped window re-anchors against live geometry.
type ToggleMinimizeInput struct {
	State      *entity.LayoutState
	WindowID   string
	PanelRects map[entity.PanelID]entity.Rect
}

// ToggleMinimize flips a window between minimized and expanded.
// Minimizing returns the window to its remembered minimized position when
// one exists. Expanding is dock-aware: a snapped window recomputes its
// position from the referenced panel's current rect before un-minimizing,
// and the pre-expand position is remembered for the next minimize.
//
//nolint:revive // receiver kept for interface consistency
func (uc *ManageWindowsUseCase) ToggleMinimize(ctx context.Context, input ToggleMinimizeInput) bool {
	log := logging.FromContext(ctx)
	if input.State == nil {
		return false
	}
	window := input.State.Window(input.WindowID)
	if window == nil {
		log.Debug().Str("window_id", input.WindowID).Msg("toggle minimize: window not found")
		return false
	}

	if window.IsMinimized {
		expandWindow(window, input.PanelRects)
		log.Debug().Str("window_id", window.ID).Msg("floating window expanded")
		return true
	}

	window.IsMinimized = true
	if window.MinimizedPosition != nil {
		window.Position = *window.MinimizedPosition
	}
	log.Debug().Str("window_id", window.ID).Msg("floating window minimized")
	return true
}

// expandWindow un-minimizes a window. When the window is snapped to a
// panel edge, its position is recomputed from that panel's current rect;
// the panel may have moved or resized since the window minimized.
func expandWindow(window *entity.FloatingWindow, rects map[entity.PanelID]entity.Rect) {
	preExpand := window.Position

	if window.SnappedTo != nil {
		if rect, ok := rects[window.SnappedTo.Panel]; ok {
			window.Position = AnchorPosition(rect, window.SnappedTo.Edge, window.Size, window.Position)
		}
	}

	window.MinimizedPosition = &preExpand
	window.IsMinimized = false
}

// AnchorPosition places a window of the given size flush against a panel
// edge or corner. On a plain edge the free axis keeps the window's
// current coordinate, clamped into the panel's bounds.
func AnchorPosition(rect entity.Rect, edge entity.Edge, size entity.Size, current entity.Point) entity.Point {
	pos := current
	switch edge {
	case entity.EdgeLeft:
		pos.X = rect.X
		pos.Y = clampFloat64(current.Y, rect.Y, maxFloat64(rect.Bottom()-size.Height, rect.Y))
	case entity.EdgeRight:
		pos.X = rect.Right() - size.Width
		pos.Y = clampFloat64(current.Y, rect.Y, maxFloat64(rect.Bottom()-size.Height, rect.Y))
	case entity.EdgeTop:
		pos.Y = rect.Y
		pos.X = clampFloat64(current.X, rect.X, maxFloat64(rect.Right()-size.Width, rect.X))
	case entity.EdgeBottom:
		pos.Y = rect.Bottom() - size.Height
		pos.X = clampFloat64(current.X, rect.X, maxFloat64(rect.Right()-size.Width, rect.X))
	case entity.EdgeTopLeft:
		pos = entity.Point{X: rect.X, Y: rect.Y}
	case entity.EdgeTopRight:
		pos = entity.Point{X: rect.Right() - size.Width, Y: rect.Y}
	case entity.EdgeBottomLeft:
		pos = entity.Point{X: rect.X, Y: rect.Bottom() - size.Height}
	case entity.EdgeBottomRight:
		pos = entity.Point{X: rect.Right() - size.Width, Y: rect.Bottom() - size.Height}
	}
	return pos
}

// SetSnapAnchor records or clears the panel edge a window sticks to.
//
//nolint:revive // receiver kept for interface consistency
func (uc *ManageWindowsUseCase) SetSnapAnchor(ctx context.Context, state *entity.LayoutState, windowID string, anchor *entity.SnapAnchor) bool {
	if state == nil {
		return false
	}
	window := state.Window(windowID)
	if window == nil {
		return false
	}
	window.SnappedTo = anchor
	if anchor != nil {
		logging.FromContext(ctx).Debug().
			Str("window_id", windowID).
			Str("panel_id", string(anchor.Panel)).
			Str("edge", string(anchor.Edge)).
			Msg("window snapped to panel edge")
	}
	return true
}

// ReconcileSnaps clears snap anchors whose panel no longer lives in the
// split tree. Called after every structural mutation.
//
//nolint:revive // receiver kept for interface consistency
func (uc *ManageWindowsUseCase) ReconcileSnaps(ctx context.Context, state *entity.LayoutState) {
	if state == nil || state.Root == nil {
		return
	}
	log := logging.FromContext(ctx)
	for _, window := range state.Windows {
		if window.SnappedTo == nil {
			continue
		}
		if !state.Root.HasPanel(window.SnappedTo.Panel) {
			log.Debug().
				Str("window_id", window.ID).
				Str("panel_id", string(window.SnappedTo.Panel)).
				Msg("snap anchor panel left the tree, clearing anchor")
			window.SnappedTo = nil
		}
	}
}

func maxFloat64(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
