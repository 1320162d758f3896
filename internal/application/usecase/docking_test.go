package usecase

import (
	"context"
	"testing"

	"github.com/aldegad/artkit/internal/domain/entity"
)

func newDockingFixture() (*DockingUseCase, *ManageWindowsUseCase) {
	gen := seqIDGen()
	tree := NewManageTreeUseCase(gen)
	windows := NewManageWindowsUseCase(gen, nil)
	return NewDockingUseCase(tree, windows), windows
}

func TestResolveDropTargetZones(t *testing.T) {
	uc, _ := newDockingFixture()
	rects := map[entity.PanelID]entity.Rect{
		"canvas": {X: 0, Y: 0, Width: 400, Height: 400},
	}

	tests := []struct {
		name    string
		pointer entity.Point
		want    entity.DropPosition
	}{
		{"left band", entity.Point{X: 50, Y: 200}, entity.DropLeft},
		{"right band", entity.Point{X: 350, Y: 200}, entity.DropRight},
		{"top band", entity.Point{X: 200, Y: 50}, entity.DropTop},
		{"bottom band", entity.Point{X: 200, Y: 350}, entity.DropBottom},
		{"center", entity.Point{X: 200, Y: 200}, entity.DropCenter},
		// Corner overlap: the horizontal band wins.
		{"top-left corner", entity.Point{X: 50, Y: 50}, entity.DropLeft},
	}
	for _, tt := range tests {
		target := uc.ResolveDropTarget(ResolveDropInput{Pointer: tt.pointer, PanelRects: rects})
		if target == nil {
			t.Fatalf("%s: target = nil", tt.name)
		}
		if target.Panel != "canvas" || target.Position != tt.want {
			t.Fatalf("%s: target = %+v, want canvas/%s", tt.name, target, tt.want)
		}
	}
}

func TestResolveDropTargetOutsideAllPanels(t *testing.T) {
	uc, _ := newDockingFixture()
	rects := map[entity.PanelID]entity.Rect{
		"canvas": {X: 0, Y: 0, Width: 400, Height: 400},
	}

	if target := uc.ResolveDropTarget(ResolveDropInput{
		Pointer:    entity.Point{X: 900, Y: 900},
		PanelRects: rects,
	}); target != nil {
		t.Fatalf("target = %+v, want nil outside every panel", target)
	}
}

func TestResolveDropTargetPicksPanelUnderPointer(t *testing.T) {
	uc, _ := newDockingFixture()
	rects := map[entity.PanelID]entity.Rect{
		"canvas": {X: 0, Y: 0, Width: 400, Height: 400},
		"layers": {X: 400, Y: 0, Width: 200, Height: 400},
	}

	target := uc.ResolveDropTarget(ResolveDropInput{
		Pointer:    entity.Point{X: 500, Y: 200},
		PanelRects: rects,
	})
	if target == nil || target.Panel != "layers" {
		t.Fatalf("target = %+v, want layers", target)
	}
}

func TestDockMovesWindowIntoTree(t *testing.T) {
	ctx := context.Background()
	uc, windows := newDockingFixture()
	state := newTestState()

	out, _ := windows.Open(ctx, OpenWindowInput{State: state, Panel: "tools"})

	docked, err := uc.Dock(ctx, DockInput{
		State:    state,
		WindowID: out.Window.ID,
		Target:   entity.DropTarget{Panel: "canvas", Position: entity.DropRight},
	})
	if err != nil {
		t.Fatalf("Dock: %v", err)
	}
	if !docked {
		t.Fatal("expected dock to succeed")
	}

	if len(state.Windows) != 0 {
		t.Fatalf("windows = %d, want 0 after dock", len(state.Windows))
	}
	if !state.Root.HasPanel("tools") {
		t.Fatal("tools panel missing from tree after dock")
	}
	if !state.Root.IsSplit() || state.Root.SplitDir != entity.SplitHorizontal {
		t.Fatalf("root = %+v, want horizontal split", state.Root)
	}
}

func TestDockCenterTargetIsNoOp(t *testing.T) {
	ctx := context.Background()
	uc, windows := newDockingFixture()
	state := newTestState()

	out, _ := windows.Open(ctx, OpenWindowInput{State: state, Panel: "tools"})

	docked, err := uc.Dock(ctx, DockInput{
		State:    state,
		WindowID: out.Window.ID,
		Target:   entity.DropTarget{Panel: "canvas", Position: entity.DropCenter},
	})
	if err != nil {
		t.Fatalf("Dock: %v", err)
	}
	if docked {
		t.Fatal("center drop must not dock")
	}
	if len(state.Windows) != 1 {
		t.Fatal("window must stay floating after a center drop")
	}
}

func TestDockMissingTargetLeavesWindowFloating(t *testing.T) {
	ctx := context.Background()
	uc, windows := newDockingFixture()
	state := newTestState()

	out, _ := windows.Open(ctx, OpenWindowInput{State: state, Panel: "tools"})

	docked, err := uc.Dock(ctx, DockInput{
		State:    state,
		WindowID: out.Window.ID,
		Target:   entity.DropTarget{Panel: "ghost", Position: entity.DropLeft},
	})
	if err != nil {
		t.Fatalf("Dock: %v", err)
	}
	if docked {
		t.Fatal("dock against a missing panel must abort")
	}
	if len(state.Windows) != 1 || state.Root.IsSplit() {
		t.Fatal("aborted dock must leave both window and tree untouched")
	}
}

func TestUndockOpensFloatingWindow(t *testing.T) {
	ctx := context.Background()
	uc, _ := newDockingFixture()

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

	out, err := uc.Undock(ctx, UndockInput{State: state, NodeID: "b"})
	if err != nil {
		t.Fatalf("Undock: %v", err)
	}
	if out.Window == nil || out.Window.Panel != "layers" {
		t.Fatalf("window = %+v, want floating layers window", out.Window)
	}

	if !state.Root.IsLeaf() || state.Root.Panel != "canvas" {
		t.Fatalf("root = %+v, want collapsed canvas leaf", state.Root)
	}
	if len(state.Windows) != 1 {
		t.Fatalf("windows = %d, want 1", len(state.Windows))
	}
}

func TestUndockLastPanelIsRejected(t *testing.T) {
	ctx := context.Background()
	uc, _ := newDockingFixture()
	state := newTestState()

	out, err := uc.Undock(ctx, UndockInput{State: state, NodeID: "root"})
	if err != nil {
		t.Fatalf("Undock: %v", err)
	}
	if out.Window != nil {
		t.Fatal("undocking the last panel must be rejected")
	}
	if !state.Root.IsLeaf() || len(state.Windows) != 0 {
		t.Fatal("rejected undock must leave the state untouched")
	}
}

func TestDockUndockRoundTrip(t *testing.T) {
	ctx := context.Background()
	uc, windows := newDockingFixture()
	state := newTestState()

	opened, _ := windows.Open(ctx, OpenWindowInput{State: state, Panel: "tools"})
	docked, err := uc.Dock(ctx, DockInput{
		State:    state,
		WindowID: opened.Window.ID,
		Target:   entity.DropTarget{Panel: "canvas", Position: entity.DropBottom},
	})
	if err != nil || !docked {
		t.Fatalf("Dock: docked=%v err=%v", docked, err)
	}

	leaf := state.Root.FindPanel("tools")
	if leaf == nil {
		t.Fatal("tools leaf missing after dock")
	}

	out, err := uc.Undock(ctx, UndockInput{State: state, NodeID: leaf.ID})
	if err != nil {
		t.Fatalf("Undock: %v", err)
	}
	if out.Window == nil || out.Window.Panel != "tools" {
		t.Fatalf("window = %+v, want tools back floating", out.Window)
	}
	if !state.Root.IsLeaf() || state.Root.Panel != "canvas" {
		t.Fatalf("root = %+v, want single canvas leaf again", state.Root)
	}
}

func TestDockClearsAnchorsOntoDepartedPanels(t *testing.T) {
	ctx := context.Background()
	uc, windows := newDockingFixture()

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

	snapped, _ := windows.Open(ctx, OpenWindowInput{State: state, Panel: "history"})
	windows.SetSnapAnchor(ctx, state, snapped.Window.ID, &entity.SnapAnchor{Panel: "layers", Edge: entity.EdgeTop})

	// Undocking "layers" removes the panel the anchor points at.
	out, err := uc.Undock(ctx, UndockInput{State: state, NodeID: "b"})
	if err != nil {
		t.Fatalf("Undock: %v", err)
	}
	if out.Window == nil {
		t.Fatal("undock should succeed")
	}
	if snapped.Window.SnappedTo != nil {
		t.Fatalf("anchor = %+v, want cleared after its panel left the tree", snapped.Window.SnappedTo)
	}
}
