package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/aldegad/artkit/internal/domain/entity"
)

func seqIDGen() IDGenerator {
	counter := 0
	return func() string {
		counter++
		return fmt.Sprintf("n%d", counter)
	}
}

func assertSizesSum(t *testing.T, root *entity.Node) {
	t.Helper()
	root.Walk(func(node *entity.Node) bool {
		if !node.IsSplit() {
			return true
		}
		sum := 0.0
		for _, size := range node.Sizes {
			sum += size
		}
		if math.Abs(sum-100) > 0.01 {
			t.Fatalf("node %s sizes sum to %v, want 100 (%v)", node.ID, sum, node.Sizes)
		}
		return true
	})
}

func TestInsertPanelReplacesLeafWithFiftyFiftySplit(t *testing.T) {
	ctx := context.Background()
	uc := NewManageTreeUseCase(seqIDGen())
	root := entity.NewLeaf("root", "canvas")

	out, err := uc.InsertPanel(ctx, InsertPanelInput{
		Root:     root,
		Target:   "canvas",
		NewPanel: "layers",
		Position: entity.DropRight,
	})
	if err != nil {
		t.Fatalf("InsertPanel: %v", err)
	}

	if !out.Root.IsSplit() || out.Root.SplitDir != entity.SplitHorizontal {
		t.Fatalf("root = %+v, want horizontal split", out.Root)
	}
	if got := out.Root.Children[0].Panel; got != "canvas" {
		t.Fatalf("first child = %q, want canvas", got)
	}
	if got := out.Root.Children[1].Panel; got != "layers" {
		t.Fatalf("second child = %q, want layers", got)
	}
	if out.Root.Sizes[0] != 50 || out.Root.Sizes[1] != 50 {
		t.Fatalf("sizes = %v, want [50 50]", out.Root.Sizes)
	}
	assertSizesSum(t, out.Root)
}

func TestInsertPanelLeadingPositionGoesFirst(t *testing.T) {
	ctx := context.Background()
	uc := NewManageTreeUseCase(seqIDGen())
	root := entity.NewLeaf("root", "canvas")

	out, err := uc.InsertPanel(ctx, InsertPanelInput{
		Root:     root,
		Target:   "canvas",
		NewPanel: "tools",
		Position: entity.DropTop,
	})
	if err != nil {
		t.Fatalf("InsertPanel: %v", err)
	}

	if out.Root.SplitDir != entity.SplitVertical {
		t.Fatalf("split dir = %v, want vertical", out.Root.SplitDir)
	}
	if got := out.Root.Children[0].Panel; got != "tools" {
		t.Fatalf("first child = %q, want tools (top insert leads)", got)
	}
}

func TestInsertPanelJoinsMatchingParentWithEqualShare(t *testing.T) {
	ctx := context.Background()
	uc := NewManageTreeUseCase(seqIDGen())

	// canvas | layers at 70/30, then insert tools to the right of layers:
	// same axis, so tools joins the split as a third sibling.
	root := &entity.Node{
		ID:       "root",
		SplitDir: entity.SplitHorizontal,
		Children: []*entity.Node{
			entity.NewLeaf("a", "canvas"),
			entity.NewLeaf("b", "layers"),
		},
		Sizes: []float64{70, 30},
	}

	out, err := uc.InsertPanel(ctx, InsertPanelInput{
		Root:     root,
		Target:   "layers",
		NewPanel: "tools",
		Position: entity.DropRight,
	})
	if err != nil {
		t.Fatalf("InsertPanel: %v", err)
	}

	if len(out.Root.Children) != 3 {
		t.Fatalf("children = %d, want 3", len(out.Root.Children))
	}
	if got := out.Root.Children[2].Panel; got != "tools" {
		t.Fatalf("last child = %q, want tools", got)
	}

	// New sibling gets an equal share (100/3), the rest shrink
	// proportionally: 70 and 30 scale by 2/3.
	wantSizes := []float64{46.67, 20, 33.33}
	for i, want := range wantSizes {
		if math.Abs(out.Root.Sizes[i]-want) > 0.01 {
			t.Fatalf("sizes = %v, want %v", out.Root.Sizes, wantSizes)
		}
	}
	assertSizesSum(t, out.Root)
}

func TestInsertPanelCrossAxisWrapsLeaf(t *testing.T) {
	ctx := context.Background()
	uc := NewManageTreeUseCase(seqIDGen())

	root := &entity.Node{
		ID:       "root",
		SplitDir: entity.SplitHorizontal,
		Children: []*entity.Node{
			entity.NewLeaf("a", "canvas"),
			entity.NewLeaf("b", "layers"),
		},
		Sizes: []float64{70, 30},
	}

	// Bottom insert against a horizontal parent wraps the leaf in a new
	// vertical split instead of joining the parent.
	out, err := uc.InsertPanel(ctx, InsertPanelInput{
		Root:     root,
		Target:   "layers",
		NewPanel: "inspector",
		Position: entity.DropBottom,
	})
	if err != nil {
		t.Fatalf("InsertPanel: %v", err)
	}

	if len(out.Root.Children) != 2 {
		t.Fatalf("outer children = %d, want 2", len(out.Root.Children))
	}
	inner := out.Root.Children[1]
	if !inner.IsSplit() || inner.SplitDir != entity.SplitVertical {
		t.Fatalf("inner = %+v, want vertical split", inner)
	}
	if inner.Children[0].Panel != "layers" || inner.Children[1].Panel != "inspector" {
		t.Fatalf("inner children = %q/%q, want layers/inspector",
			inner.Children[0].Panel, inner.Children[1].Panel)
	}
	if out.Root.Sizes[0] != 70 || out.Root.Sizes[1] != 30 {
		t.Fatalf("outer sizes changed: %v", out.Root.Sizes)
	}
	assertSizesSum(t, out.Root)
}

func TestInsertPanelMissingTargetIsNoOp(t *testing.T) {
	ctx := context.Background()
	uc := NewManageTreeUseCase(seqIDGen())
	root := entity.NewLeaf("root", "canvas")

	out, err := uc.InsertPanel(ctx, InsertPanelInput{
		Root:     root,
		Target:   "ghost",
		NewPanel: "layers",
		Position: entity.DropLeft,
	})
	if err != nil {
		t.Fatalf("InsertPanel: %v", err)
	}
	if out.Root != root {
		t.Fatal("expected unchanged root for missing target")
	}
	if out.NewNodeID != "" {
		t.Fatalf("NewNodeID = %q, want empty", out.NewNodeID)
	}
}

func TestInsertPanelDoesNotMutateOldTree(t *testing.T) {
	ctx := context.Background()
	uc := NewManageTreeUseCase(seqIDGen())

	root := &entity.Node{
		ID:       "root",
		SplitDir: entity.SplitHorizontal,
		Children: []*entity.Node{
			entity.NewLeaf("a", "canvas"),
			entity.NewLeaf("b", "layers"),
		},
		Sizes: []float64{50, 50},
	}

	out, err := uc.InsertPanel(ctx, InsertPanelInput{
		Root:     root,
		Target:   "layers",
		NewPanel: "tools",
		Position: entity.DropRight,
	})
	if err != nil {
		t.Fatalf("InsertPanel: %v", err)
	}
	if out.Root == root {
		t.Fatal("expected a rebuilt root")
	}

	if len(root.Children) != 2 || root.Sizes[0] != 50 {
		t.Fatalf("old root mutated: %+v", root)
	}
	// Untouched subtrees stay shared.
	if out.Root.Children[0] != root.Children[0] {
		t.Fatal("untouched leaf should be shared with the old tree")
	}
}

func TestRemovePanelRedistributesProportionally(t *testing.T) {
	ctx := context.Background()
	uc := NewManageTreeUseCase(seqIDGen())

	root := &entity.Node{
		ID:       "root",
		SplitDir: entity.SplitHorizontal,
		Children: []*entity.Node{
			entity.NewLeaf("a", "canvas"),
			entity.NewLeaf("b", "layers"),
			entity.NewLeaf("c", "tools"),
		},
		Sizes: []float64{50, 30, 20},
	}

	out, err := uc.RemovePanel(ctx, RemovePanelInput{Root: root, NodeID: "b"})
	if err != nil {
		t.Fatalf("RemovePanel: %v", err)
	}
	if out.Removed == nil {
		t.Fatal("expected a removed node")
	}

	if len(out.Root.Children) != 2 {
		t.Fatalf("children = %d, want 2", len(out.Root.Children))
	}
	// 50/20 scale by 100/70.
	wantSizes := []float64{71.43, 28.57}
	for i, want := range wantSizes {
		if math.Abs(out.Root.Sizes[i]-want) > 0.01 {
			t.Fatalf("sizes = %v, want %v", out.Root.Sizes, wantSizes)
		}
	}
	assertSizesSum(t, out.Root)
}

func TestRemovePanelCollapsesSingletonSplit(t *testing.T) {
	ctx := context.Background()
	uc := NewManageTreeUseCase(seqIDGen())

	root := &entity.Node{
		ID:       "root",
		SplitDir: entity.SplitVertical,
		Children: []*entity.Node{
			entity.NewLeaf("a", "canvas"),
			entity.NewLeaf("b", "layers"),
		},
		Sizes: []float64{60, 40},
	}

	out, err := uc.RemovePanel(ctx, RemovePanelInput{Root: root, NodeID: "b"})
	if err != nil {
		t.Fatalf("RemovePanel: %v", err)
	}

	if !out.Root.IsLeaf() || out.Root.Panel != "canvas" {
		t.Fatalf("root = %+v, want canvas leaf (split collapsed)", out.Root)
	}
}

func TestRemovePanelRejectsLastPanel(t *testing.T) {
	ctx := context.Background()
	uc := NewManageTreeUseCase(seqIDGen())
	root := entity.NewLeaf("root", "canvas")

	_, err := uc.RemovePanel(ctx, RemovePanelInput{Root: root, NodeID: "root"})
	if !errors.Is(err, ErrLastPanel) {
		t.Fatalf("err = %v, want ErrLastPanel", err)
	}
}

func TestRemovePanelMissingIDIsNoOp(t *testing.T) {
	ctx := context.Background()
	uc := NewManageTreeUseCase(seqIDGen())

	root := &entity.Node{
		ID:       "root",
		SplitDir: entity.SplitHorizontal,
		Children: []*entity.Node{
			entity.NewLeaf("a", "canvas"),
			entity.NewLeaf("b", "layers"),
		},
		Sizes: []float64{50, 50},
	}

	out, err := uc.RemovePanel(ctx, RemovePanelInput{Root: root, NodeID: "ghost"})
	if err != nil {
		t.Fatalf("RemovePanel: %v", err)
	}
	if out.Root != root || out.Removed != nil {
		t.Fatal("expected unchanged root for missing node ID")
	}
}

func TestUpdateSizesLengthMismatchIsNoOp(t *testing.T) {
	ctx := context.Background()
	uc := NewManageTreeUseCase(seqIDGen())

	root := &entity.Node{
		ID:       "root",
		SplitDir: entity.SplitHorizontal,
		Children: []*entity.Node{
			entity.NewLeaf("a", "canvas"),
			entity.NewLeaf("b", "layers"),
		},
		Sizes: []float64{50, 50},
	}

	out, err := uc.UpdateSizes(ctx, UpdateSizesInput{
		Root:   root,
		NodeID: "root",
		Sizes:  []float64{30, 30, 40},
	})
	if err != nil {
		t.Fatalf("UpdateSizes: %v", err)
	}
	if out.Changed {
		t.Fatal("expected no-op on length mismatch")
	}
	if root.Sizes[0] != 50 {
		t.Fatalf("sizes mutated: %v", root.Sizes)
	}
}

func TestUpdateSizesRejectsBadSum(t *testing.T) {
	ctx := context.Background()
	uc := NewManageTreeUseCase(seqIDGen())

	root := &entity.Node{
		ID:       "root",
		SplitDir: entity.SplitHorizontal,
		Children: []*entity.Node{
			entity.NewLeaf("a", "canvas"),
			entity.NewLeaf("b", "layers"),
		},
		Sizes: []float64{50, 50},
	}

	out, err := uc.UpdateSizes(ctx, UpdateSizesInput{
		Root:   root,
		NodeID: "root",
		Sizes:  []float64{80, 30},
	})
	if err != nil {
		t.Fatalf("UpdateSizes: %v", err)
	}
	if out.Changed {
		t.Fatal("expected no-op when sizes do not sum to 100")
	}
}

func TestUpdateSizesAppliesAndRebuildsPath(t *testing.T) {
	ctx := context.Background()
	uc := NewManageTreeUseCase(seqIDGen())

	root := &entity.Node{
		ID:       "root",
		SplitDir: entity.SplitHorizontal,
		Children: []*entity.Node{
			entity.NewLeaf("a", "canvas"),
			entity.NewLeaf("b", "layers"),
		},
		Sizes: []float64{50, 50},
	}

	out, err := uc.UpdateSizes(ctx, UpdateSizesInput{
		Root:   root,
		NodeID: "root",
		Sizes:  []float64{65, 35},
	})
	if err != nil {
		t.Fatalf("UpdateSizes: %v", err)
	}
	if !out.Changed {
		t.Fatal("expected sizes to change")
	}
	if out.Root.Sizes[0] != 65 || out.Root.Sizes[1] != 35 {
		t.Fatalf("sizes = %v, want [65 35]", out.Root.Sizes)
	}
	if root.Sizes[0] != 50 {
		t.Fatal("old tree mutated")
	}
}

func TestResizeSplitClampsAtMinimumShare(t *testing.T) {
	ctx := context.Background()
	uc := NewManageTreeUseCase(seqIDGen())

	root := &entity.Node{
		ID:       "root",
		SplitDir: entity.SplitHorizontal,
		Children: []*entity.Node{
			entity.NewLeaf("a", "canvas"),
			entity.NewLeaf("b", "layers"),
		},
		Sizes: []float64{50, 50},
	}

	// Dragging the divider 60% left would empty the first pane; the
	// floor stops it at the minimum share.
	out, err := uc.ResizeSplit(ctx, ResizeSplitInput{
		Root:           root,
		NodeID:         "root",
		HandleIndex:    0,
		StartSizes:     []float64{50, 50},
		DeltaPercent:   -60,
		MinSizePercent: 2,
	})
	if err != nil {
		t.Fatalf("ResizeSplit: %v", err)
	}
	if out.Root.Sizes[0] != 2 || out.Root.Sizes[1] != 98 {
		t.Fatalf("sizes = %v, want [2 98]", out.Root.Sizes)
	}
	assertSizesSum(t, out.Root)
}

func TestResizeSplitOnlyTouchesAdjacentPair(t *testing.T) {
	ctx := context.Background()
	uc := NewManageTreeUseCase(seqIDGen())

	root := &entity.Node{
		ID:       "root",
		SplitDir: entity.SplitHorizontal,
		Children: []*entity.Node{
			entity.NewLeaf("a", "canvas"),
			entity.NewLeaf("b", "layers"),
			entity.NewLeaf("c", "tools"),
		},
		Sizes: []float64{40, 30, 30},
	}

	out, err := uc.ResizeSplit(ctx, ResizeSplitInput{
		Root:           root,
		NodeID:         "root",
		HandleIndex:    1,
		StartSizes:     []float64{40, 30, 30},
		DeltaPercent:   10,
		MinSizePercent: 2,
	})
	if err != nil {
		t.Fatalf("ResizeSplit: %v", err)
	}
	want := []float64{40, 40, 20}
	for i, w := range want {
		if math.Abs(out.Root.Sizes[i]-w) > 0.01 {
			t.Fatalf("sizes = %v, want %v", out.Root.Sizes, want)
		}
	}
}

func TestFindNode(t *testing.T) {
	uc := NewManageTreeUseCase(seqIDGen())
	root := &entity.Node{
		ID:       "root",
		SplitDir: entity.SplitHorizontal,
		Children: []*entity.Node{
			entity.NewLeaf("a", "canvas"),
			entity.NewLeaf("b", "layers"),
		},
		Sizes: []float64{50, 50},
	}

	if got := uc.FindNode(root, "b"); got == nil || got.Panel != "layers" {
		t.Fatalf("FindNode(b) = %+v, want layers leaf", got)
	}
	if got := uc.FindNode(root, "ghost"); got != nil {
		t.Fatalf("FindNode(ghost) = %+v, want nil", got)
	}
}
