package gesture

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/aldegad/artkit/internal/application/usecase"
	"github.com/aldegad/artkit/internal/domain/entity"
)

func newController() (*Controller, *usecase.ManageWindowsUseCase) {
	counter := 0
	gen := func() string {
		counter++
		return fmt.Sprintf("n%d", counter)
	}
	tree := usecase.NewManageTreeUseCase(gen)
	windows := usecase.NewManageWindowsUseCase(gen, nil)
	docking := usecase.NewDockingUseCase(tree, windows)
	return NewController(tree, windows, docking, DefaultConfig()), windows
}

func singlePanelState() *entity.LayoutState {
	return &entity.LayoutState{Root: entity.NewLeaf("root", "canvas")}
}

func singlePanelFrame() Frame {
	return Frame{PanelRects: map[entity.PanelID]entity.Rect{
		"canvas": {X: 0, Y: 0, Width: 800, Height: 600},
	}}
}

func TestOnlyOneGestureAtATime(t *testing.T) {
	ctx := context.Background()
	c, windows := newController()
	state := singlePanelState()

	out, _ := windows.Open(ctx, usecase.OpenWindowInput{State: state, Panel: "tools"})
	if !c.StartWindowDrag(ctx, state, out.Window.ID, out.Window.Position) {
		t.Fatal("first start should succeed")
	}
	if c.StartWindowDrag(ctx, state, out.Window.ID, out.Window.Position) {
		t.Fatal("second start while active must be a no-op")
	}
	if c.StartWindowResize(ctx, state, out.Window.ID) {
		t.Fatal("cross-kind start while active must be a no-op")
	}
}

func TestWindowDragKeepsGrabOffset(t *testing.T) {
	ctx := context.Background()
	c, windows := newController()
	state := singlePanelState()

	out, _ := windows.Open(ctx, usecase.OpenWindowInput{State: state, Panel: "tools"})
	window := out.Window
	window.Position = entity.Point{X: 100, Y: 100}

	// Grab 20px into the title bar; the window must not jump under the
	// pointer.
	c.StartWindowDrag(ctx, state, window.ID, entity.Point{X: 120, Y: 110})
	c.Move(ctx, state, entity.Point{X: 320, Y: 310}, singlePanelFrame())

	if window.Position.X != 300 || window.Position.Y != 300 {
		t.Fatalf("position = %+v, want {300 300}", window.Position)
	}
	if state.DraggedWindowID != window.ID {
		t.Fatalf("dragged window id = %q", state.DraggedWindowID)
	}
}

func TestWindowDragPublishesDropTarget(t *testing.T) {
	ctx := context.Background()
	c, windows := newController()
	state := singlePanelState()

	out, _ := windows.Open(ctx, usecase.OpenWindowInput{State: state, Panel: "tools"})
	c.StartWindowDrag(ctx, state, out.Window.ID, out.Window.Position)

	// Pointer in the left edge band of the canvas panel.
	c.Move(ctx, state, entity.Point{X: 50, Y: 300}, singlePanelFrame())
	if state.DropTarget == nil || state.DropTarget.Position != entity.DropLeft {
		t.Fatalf("drop target = %+v, want canvas/left", state.DropTarget)
	}

	// Center zone is indicator-only but still published.
	c.Move(ctx, state, entity.Point{X: 400, Y: 300}, singlePanelFrame())
	if state.DropTarget == nil || state.DropTarget.Position != entity.DropCenter {
		t.Fatalf("drop target = %+v, want canvas/center", state.DropTarget)
	}
}

func TestDragEndOverEdgeZoneDocks(t *testing.T) {
	ctx := context.Background()
	c, windows := newController()
	state := singlePanelState()

	out, _ := windows.Open(ctx, usecase.OpenWindowInput{State: state, Panel: "tools"})
	c.StartWindowDrag(ctx, state, out.Window.ID, out.Window.Position)
	c.Move(ctx, state, entity.Point{X: 780, Y: 300}, singlePanelFrame())
	c.End(ctx, state)

	if len(state.Windows) != 0 {
		t.Fatal("window should be docked, not floating")
	}
	if !state.Root.HasPanel("tools") {
		t.Fatal("tools missing from tree after dock")
	}
	if state.DropTarget != nil || state.DraggedWindowID != "" {
		t.Fatal("transient drag state must clear on end")
	}
	if c.Active() {
		t.Fatal("controller should return to idle")
	}
}

func TestDragEndOverCenterStaysFloating(t *testing.T) {
	ctx := context.Background()
	c, windows := newController()
	state := singlePanelState()

	out, _ := windows.Open(ctx, usecase.OpenWindowInput{State: state, Panel: "tools"})
	c.StartWindowDrag(ctx, state, out.Window.ID, out.Window.Position)
	c.Move(ctx, state, entity.Point{X: 400, Y: 300}, singlePanelFrame())
	c.End(ctx, state)

	if len(state.Windows) != 1 {
		t.Fatal("center drop must leave the window floating")
	}
	if state.Root.IsSplit() {
		t.Fatal("center drop must not touch the tree")
	}
}

func TestCancelDoesNotDock(t *testing.T) {
	ctx := context.Background()
	c, windows := newController()
	state := singlePanelState()

	out, _ := windows.Open(ctx, usecase.OpenWindowInput{State: state, Panel: "tools"})
	c.StartWindowDrag(ctx, state, out.Window.ID, out.Window.Position)
	c.Move(ctx, state, entity.Point{X: 780, Y: 300}, singlePanelFrame())
	c.Cancel(ctx, state)

	if len(state.Windows) != 1 || state.Root.IsSplit() {
		t.Fatal("cancel must not commit the dock")
	}
	if state.DropTarget != nil || state.DraggedWindowID != "" {
		t.Fatal("cancel must reach the same cleanup as end")
	}
	if c.Active() {
		t.Fatal("controller should return to idle")
	}
}

func TestMinimizedDragSnapsCornerBeforeEdge(t *testing.T) {
	ctx := context.Background()
	c, windows := newController()
	state := singlePanelState()

	out, _ := windows.Open(ctx, usecase.OpenWindowInput{State: state, Panel: "tools"})
	window := out.Window
	window.IsMinimized = true
	window.Size = entity.Size{Width: 100, Height: 40}

	c.StartWindowDrag(ctx, state, window.ID, window.Position)

	// Pointer within threshold of both the top and right edges: the
	// corner must win over either single edge.
	c.Move(ctx, state, entity.Point{X: 790, Y: 10}, singlePanelFrame())
	c.End(ctx, state)

	if window.SnappedTo == nil {
		t.Fatal("expected a snap anchor after end")
	}
	if window.SnappedTo.Edge != entity.EdgeTopRight {
		t.Fatalf("edge = %s, want top-right corner", window.SnappedTo.Edge)
	}
	if window.Position.X != 700 || window.Position.Y != 0 {
		t.Fatalf("position = %+v, want flush {700 0}", window.Position)
	}
}

func TestMinimizedDragSnapsToPlainEdge(t *testing.T) {
	ctx := context.Background()
	c, windows := newController()
	state := singlePanelState()

	out, _ := windows.Open(ctx, usecase.OpenWindowInput{State: state, Panel: "tools"})
	window := out.Window
	window.IsMinimized = true
	window.Size = entity.Size{Width: 100, Height: 40}

	c.StartWindowDrag(ctx, state, window.ID, window.Position)
	c.Move(ctx, state, entity.Point{X: 795, Y: 300}, singlePanelFrame())
	c.End(ctx, state)

	if window.SnappedTo == nil || window.SnappedTo.Edge != entity.EdgeRight {
		t.Fatalf("anchor = %+v, want right edge", window.SnappedTo)
	}
	if window.Position.X != 700 {
		t.Fatalf("x = %v, want flush against right edge", window.Position.X)
	}
}

func TestMinimizedDragAwayFromEdgesClearsAnchor(t *testing.T) {
	ctx := context.Background()
	c, windows := newController()
	state := singlePanelState()

	out, _ := windows.Open(ctx, usecase.OpenWindowInput{State: state, Panel: "tools"})
	window := out.Window
	window.IsMinimized = true
	window.SnappedTo = &entity.SnapAnchor{Panel: "canvas", Edge: entity.EdgeLeft}

	c.StartWindowDrag(ctx, state, window.ID, window.Position)
	c.Move(ctx, state, entity.Point{X: 400, Y: 300}, singlePanelFrame())
	c.End(ctx, state)

	if window.SnappedTo != nil {
		t.Fatalf("anchor = %+v, want cleared away from every edge", window.SnappedTo)
	}
}

func TestCancelDoesNotCommitSnap(t *testing.T) {
	ctx := context.Background()
	c, windows := newController()
	state := singlePanelState()

	out, _ := windows.Open(ctx, usecase.OpenWindowInput{State: state, Panel: "tools"})
	window := out.Window
	window.IsMinimized = true
	window.Size = entity.Size{Width: 100, Height: 40}

	c.StartWindowDrag(ctx, state, window.ID, window.Position)
	c.Move(ctx, state, entity.Point{X: 795, Y: 300}, singlePanelFrame())
	c.Cancel(ctx, state)

	if window.SnappedTo != nil {
		t.Fatalf("anchor = %+v, want none after cancel", window.SnappedTo)
	}
}

func TestSplitResizeConvertsPixelsToPercent(t *testing.T) {
	ctx := context.Background()
	c, _ := newController()

	state := &entity.LayoutState{
		Root: &entity.Node{
			ID:       "root",
			SplitDir: entity.SplitHorizontal,
			Children: []*entity.Node{
				entity.NewLeaf("a", "canvas"),
				entity.NewLeaf("b", "layers"),
			},
			Sizes: []float64{50, 50},
		},
	}

	if !c.StartSplitResize(ctx, state, SplitResizeInput{
		SplitID:     "root",
		HandleIndex: 0,
		Pointer:     entity.Point{X: 400, Y: 300},
		ContainerPx: 800,
	}) {
		t.Fatal("start split resize failed")
	}

	// 80px right on an 800px container is +10%.
	c.Move(ctx, state, entity.Point{X: 480, Y: 300}, singlePanelFrame())
	if math.Abs(state.Root.Sizes[0]-60) > 0.01 || math.Abs(state.Root.Sizes[1]-40) > 0.01 {
		t.Fatalf("sizes = %v, want [60 40]", state.Root.Sizes)
	}

	// Deltas always apply against the start sizes: moving back to the
	// origin restores 50/50 exactly.
	c.Move(ctx, state, entity.Point{X: 400, Y: 300}, singlePanelFrame())
	if state.Root.Sizes[0] != 50 || state.Root.Sizes[1] != 50 {
		t.Fatalf("sizes = %v, want [50 50] back at origin", state.Root.Sizes)
	}
	c.End(ctx, state)
}

func TestSplitResizeRespectsPixelFloor(t *testing.T) {
	ctx := context.Background()
	c, _ := newController()

	state := &entity.LayoutState{
		Root: &entity.Node{
			ID:       "root",
			SplitDir: entity.SplitHorizontal,
			Children: []*entity.Node{
				entity.NewLeaf("a", "canvas"),
				entity.NewLeaf("b", "layers"),
			},
			Sizes: []float64{50, 50},
		},
	}

	c.StartSplitResize(ctx, state, SplitResizeInput{
		SplitID:     "root",
		HandleIndex: 0,
		Pointer:     entity.Point{X: 500, Y: 300},
		ContainerPx: 1000,
	})

	// Dragging 600px left would drive the first pane negative; the 10px
	// floor (1% of 1000px) stops it.
	c.Move(ctx, state, entity.Point{X: -100, Y: 300}, singlePanelFrame())
	if state.Root.Sizes[0] != 1 || state.Root.Sizes[1] != 99 {
		t.Fatalf("sizes = %v, want [1 99]", state.Root.Sizes)
	}
	c.End(ctx, state)
}

func TestWindowResizeFloorsAtMinimum(t *testing.T) {
	ctx := context.Background()
	c, windows := newController()
	state := singlePanelState()

	out, _ := windows.Open(ctx, usecase.OpenWindowInput{State: state, Panel: "tools"})
	window := out.Window
	window.Position = entity.Point{X: 100, Y: 100}

	c.StartWindowResize(ctx, state, window.ID)
	c.Move(ctx, state, entity.Point{X: 500, Y: 130}, singlePanelFrame())

	if window.Size.Width != 400 {
		t.Fatalf("width = %v, want 400", window.Size.Width)
	}
	if window.Size.Height != DefaultConfig().MinWindowHeight {
		t.Fatalf("height = %v, want floored at minimum", window.Size.Height)
	}
	c.End(ctx, state)
}
