package coordinator

import (
	"context"

	"github.com/aldegad/artkit/internal/domain/entity"
	"github.com/aldegad/artkit/internal/ui/gesture"
)

// Pointer entry points. The renderer forwards its raw pointer stream here
// together with the per-frame panel rects; the gesture controller decides
// what the events mean. Moves mutate state but do not schedule snapshot
// writes; persistence waits until the gesture settles on up or cancel.

// StartWindowDrag begins dragging a floating window.
func (c *LayoutCoordinator) StartWindowDrag(ctx context.Context, windowID string, pointer entity.Point) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gestures.StartWindowDrag(ctx, c.state, windowID, pointer)
}

// StartSplitResize begins dragging a divider between split siblings.
func (c *LayoutCoordinator) StartSplitResize(ctx context.Context, input gesture.SplitResizeInput) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gestures.StartSplitResize(ctx, c.state, input)
}

// StartWindowResize begins dragging a floating window's resize handle.
func (c *LayoutCoordinator) StartWindowResize(ctx context.Context, windowID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gestures.StartWindowResize(ctx, c.state, windowID)
}

// PointerMove advances the active gesture, if any.
func (c *LayoutCoordinator) PointerMove(ctx context.Context, pointer entity.Point, panelRects map[entity.PanelID]entity.Rect) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gestures.Move(ctx, c.state, pointer, gesture.Frame{PanelRects: panelRects})
}

// PointerUp finishes the active gesture, committing any pending dock or
// snap.
func (c *LayoutCoordinator) PointerUp(ctx context.Context) {
	c.mu.Lock()
	active := c.gestures.Active()
	c.gestures.End(ctx, c.state)
	c.mu.Unlock()

	if active {
		c.stateChanged(ctx)
	}
}

// PointerCancel aborts the active gesture without committing dock or
// snap. The state reached by the moves so far is still valid and is
// persisted as-is.
func (c *LayoutCoordinator) PointerCancel(ctx context.Context) {
	c.mu.Lock()
	active := c.gestures.Active()
	c.gestures.Cancel(ctx, c.state)
	c.mu.Unlock()

	if active {
		c.stateChanged(ctx)
	}
}

// GestureActive reports whether a pointer gesture is in progress.
func (c *LayoutCoordinator) GestureActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gestures.Active()
}
