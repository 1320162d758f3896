// Package usecase implements the layout engine's operations over the
// domain entities. All tree operations are copy-on-write: they return a
// new root and never mutate nodes reachable from the input root.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/aldegad/artkit/internal/domain/entity"
	"github.com/aldegad/artkit/internal/logging"
)

// IDGenerator is a function that generates unique IDs.
type IDGenerator func() string

// ErrLastPanel is returned when an operation would remove the final
// panel from the split tree. The tree always hosts at least one panel.
var ErrLastPanel = errors.New("cannot remove last panel")

// ManageTreeUseCase handles split tree mutations.
type ManageTreeUseCase struct {
	idGenerator IDGenerator
}

// NewManageTreeUseCase creates a new tree management use case.
func NewManageTreeUseCase(idGenerator IDGenerator) *ManageTreeUseCase {
	return &ManageTreeUseCase{idGenerator: idGenerator}
}

// FindNode returns the node with the given structural ID, or nil.
//
//nolint:revive // receiver kept for interface consistency
func (uc *ManageTreeUseCase) FindNode(root *entity.Node, id string) *entity.Node {
	if root == nil {
		return nil
	}
	return root.Find(id)
}

// InsertPanelInput contains parameters for inserting a panel next to an
// existing one.
type InsertPanelInput struct {
	Root     *entity.Node
	Target   entity.PanelID      // panel whose leaf the new panel lands beside
	NewPanel entity.PanelID      // panel the new leaf will host
	Position entity.DropPosition // left/right/top/bottom relative to target
}

// InsertPanelOutput contains the result of an insert operation.
type InsertPanelOutput struct {
	Root      *entity.Node
	NewNodeID string // empty when the insert was a no-op
}

// InsertPanel inserts a new leaf beside the leaf hosting the target panel.
// When the target's parent splits along the same axis the new leaf joins
// it as a sibling with an equal share; otherwise the target leaf is
// replaced by a two-way split at 50/50. An absent target leaves the tree
// unchanged.
func (uc *ManageTreeUseCase) InsertPanel(ctx context.Context, input InsertPanelInput) (*InsertPanelOutput, error) {
	log := logging.FromContext(ctx)
	if input.Root == nil {
		return nil, fmt.Errorf("root is required")
	}
	if input.NewPanel == "" {
		return nil, fmt.Errorf("new panel id is required")
	}
	if !input.Position.IsEdge() {
		return nil, fmt.Errorf("invalid insert position: %s", input.Position)
	}

	newLeaf := entity.NewLeaf(uc.idGenerator(), input.NewPanel)

	root, inserted := uc.insert(input.Root, input.Target, newLeaf, input.Position)
	if !inserted {
		log.Debug().
			Str("target_panel", string(input.Target)).
			Msg("insert target not found, tree unchanged")
		return &InsertPanelOutput{Root: input.Root}, nil
	}

	log.Info().
		Str("new_panel", string(input.NewPanel)).
		Str("target_panel", string(input.Target)).
		Str("position", string(input.Position)).
		Msg("panel inserted")

	return &InsertPanelOutput{Root: root, NewNodeID: newLeaf.ID}, nil
}

func (uc *ManageTreeUseCase) insert(
	node *entity.Node,
	target entity.PanelID,
	newLeaf *entity.Node,
	pos entity.DropPosition,
) (*entity.Node, bool) {
	if node.IsLeaf() {
		if node.Panel != target {
			return node, false
		}
		return uc.wrapInSplit(node, newLeaf, pos), true
	}

	// When this split already runs along the insert axis and directly
	// holds the target leaf, the new leaf joins as a sibling.
	if node.SplitDir == pos.SplitAxis() {
		for i, child := range node.Children {
			if child.IsLeaf() && child.Panel == target {
				return insertSibling(node, i, newLeaf, pos), true
			}
		}
	}

	for i, child := range node.Children {
		if rebuilt, ok := uc.insert(child, target, newLeaf, pos); ok {
			return replaceChild(node, i, rebuilt), true
		}
	}
	return node, false
}

// wrapInSplit replaces a target leaf with a two-way split holding the
// new leaf and the target at 50/50.
func (uc *ManageTreeUseCase) wrapInSplit(target, newLeaf *entity.Node, pos entity.DropPosition) *entity.Node {
	split := &entity.Node{
		ID:       uc.idGenerator(),
		SplitDir: pos.SplitAxis(),
		Children: make([]*entity.Node, 2),
		Sizes:    []float64{50, 50},
	}
	if pos.Leading() {
		split.Children[0] = newLeaf
		split.Children[1] = target
	} else {
		split.Children[0] = target
		split.Children[1] = newLeaf
	}
	return split
}

// insertSibling adds the new leaf beside children[index], giving it an
// equal share and shrinking the existing siblings proportionally.
func insertSibling(node *entity.Node, index int, newLeaf *entity.Node, pos entity.DropPosition) *entity.Node {
	insertAt := index
	if !pos.Leading() {
		insertAt = index + 1
	}

	n := float64(len(node.Children))
	newShare := 100 / (n + 1)
	scale := n / (n + 1)

	children := make([]*entity.Node, 0, len(node.Children)+1)
	sizes := make([]float64, 0, len(node.Children)+1)
	for i, child := range node.Children {
		if i == insertAt {
			children = append(children, newLeaf)
			sizes = append(sizes, newShare)
		}
		children = append(children, child)
		sizes = append(sizes, node.Sizes[i]*scale)
	}
	if insertAt == len(node.Children) {
		children = append(children, newLeaf)
		sizes = append(sizes, newShare)
	}

	rebuilt := shallowClone(node)
	rebuilt.Children = children
	rebuilt.Sizes = normalizeSizes(sizes)
	return rebuilt
}

// RemovePanelInput contains parameters for removing a node from the tree.
type RemovePanelInput struct {
	Root   *entity.Node
	NodeID string // structural ID of the leaf or subtree to remove
}

// RemovePanelOutput contains the result of a remove operation.
type RemovePanelOutput struct {
	Root    *entity.Node
	Removed *entity.Node // nil when the ID was not found
}

// RemovePanel removes the node with the given structural ID, hands its
// share to the remaining siblings proportionally, and collapses any split
// left with a single child. Removing the root is rejected with
// ErrLastPanel: the tree always keeps at least one panel.
func (uc *ManageTreeUseCase) RemovePanel(ctx context.Context, input RemovePanelInput) (*RemovePanelOutput, error) {
	log := logging.FromContext(ctx)
	if input.Root == nil {
		return nil, fmt.Errorf("root is required")
	}
	if input.NodeID == input.Root.ID {
		return nil, ErrLastPanel
	}

	root, removed := uc.remove(input.Root, input.NodeID)
	if removed == nil {
		log.Debug().Str("node_id", input.NodeID).Msg("remove target not found, tree unchanged")
		return &RemovePanelOutput{Root: input.Root}, nil
	}

	log.Info().
		Str("node_id", input.NodeID).
		Int("remaining_panels", root.LeafCount()).
		Msg("panel removed")

	return &RemovePanelOutput{Root: root, Removed: removed}, nil
}

func (uc *ManageTreeUseCase) remove(node *entity.Node, id string) (*entity.Node, *entity.Node) {
	if !node.IsSplit() {
		return node, nil
	}

	for i, child := range node.Children {
		if child.ID != id {
			continue
		}

		children := make([]*entity.Node, 0, len(node.Children)-1)
		sizes := make([]float64, 0, len(node.Children)-1)
		freed := node.Sizes[i]
		for j, sibling := range node.Children {
			if j == i {
				continue
			}
			children = append(children, sibling)
			sizes = append(sizes, node.Sizes[j])
		}

		// Singleton split collapses into its remaining child.
		if len(children) == 1 {
			return children[0], child
		}

		scale := 100 / (100 - freed)
		for j := range sizes {
			sizes[j] *= scale
		}

		rebuilt := shallowClone(node)
		rebuilt.Children = children
		rebuilt.Sizes = normalizeSizes(sizes)
		return rebuilt, child
	}

	for i, child := range node.Children {
		if rebuilt, removed := uc.remove(child, id); removed != nil {
			return replaceChild(node, i, rebuilt), removed
		}
	}
	return node, nil
}

// UpdateSizesInput contains parameters for replacing a split's sizes.
type UpdateSizesInput struct {
	Root   *entity.Node
	NodeID string
	Sizes  []float64
}

// UpdateSizesOutput contains the result of a size update.
type UpdateSizesOutput struct {
	Root    *entity.Node
	Changed bool
}

// UpdateSizes replaces the size array of the split with the given ID.
// A missing node, a length mismatch, or sizes that do not sum to 100 all
// leave the tree unchanged.
func (uc *ManageTreeUseCase) UpdateSizes(ctx context.Context, input UpdateSizesInput) (*UpdateSizesOutput, error) {
	log := logging.FromContext(ctx)
	if input.Root == nil {
		return nil, fmt.Errorf("root is required")
	}

	sum := 0.0
	for _, size := range input.Sizes {
		if size < 0 {
			return &UpdateSizesOutput{Root: input.Root}, nil
		}
		sum += size
	}
	if math.Abs(sum-100) > sizeSumTolerance {
		return &UpdateSizesOutput{Root: input.Root}, nil
	}

	root, changed := uc.updateSizes(input.Root, input.NodeID, input.Sizes)
	if changed {
		log.Debug().
			Str("node_id", input.NodeID).
			Floats64("sizes", input.Sizes).
			Msg("split sizes updated")
	}
	return &UpdateSizesOutput{Root: root, Changed: changed}, nil
}

func (uc *ManageTreeUseCase) updateSizes(node *entity.Node, id string, sizes []float64) (*entity.Node, bool) {
	if node.ID == id {
		if !node.IsSplit() || len(sizes) != len(node.Children) {
			return node, false
		}
		rebuilt := shallowClone(node)
		rebuilt.Sizes = normalizeSizes(append([]float64(nil), sizes...))
		return rebuilt, true
	}
	for i, child := range node.Children {
		if rebuilt, ok := uc.updateSizes(child, id, sizes); ok {
			return replaceChild(node, i, rebuilt), true
		}
	}
	return node, false
}

// ResizeSplitInput contains parameters for moving one divider of a split.
// StartSizes is the size array captured when the gesture began; the delta
// is always applied against it so a drag never accumulates rounding.
type ResizeSplitInput struct {
	Root           *entity.Node
	NodeID         string
	HandleIndex    int // divider between children[HandleIndex] and [HandleIndex+1]
	StartSizes     []float64
	DeltaPercent   float64
	MinSizePercent float64
}

// ResizeSplit moves a divider by DeltaPercent, clamping so neither
// adjacent pane drops below the minimum share. Only the two panes
// touching the divider change.
func (uc *ManageTreeUseCase) ResizeSplit(ctx context.Context, input ResizeSplitInput) (*UpdateSizesOutput, error) {
	if input.Root == nil {
		return nil, fmt.Errorf("root is required")
	}

	node := uc.FindNode(input.Root, input.NodeID)
	if node == nil || !node.IsSplit() {
		return &UpdateSizesOutput{Root: input.Root}, nil
	}
	if input.HandleIndex < 0 || input.HandleIndex >= len(node.Children)-1 {
		return &UpdateSizesOutput{Root: input.Root}, nil
	}
	if len(input.StartSizes) != len(node.Children) {
		return &UpdateSizesOutput{Root: input.Root}, nil
	}

	sizes := adjustSizesPair(input.StartSizes, input.HandleIndex, input.DeltaPercent, input.MinSizePercent)
	return uc.UpdateSizes(ctx, UpdateSizesInput{Root: input.Root, NodeID: input.NodeID, Sizes: sizes})
}

// adjustSizesPair grows one side of a divider at the expense of the
// other, clamping both at the minimum share.
func adjustSizesPair(start []float64, index int, delta, minPct float64) []float64 {
	sizes := append([]float64(nil), start...)
	pair := sizes[index] + sizes[index+1]

	// The pair's combined share is fixed; the floor cannot exceed half of it.
	if minPct*2 > pair {
		minPct = pair / 2
	}

	first := clampFloat64(sizes[index]+delta, minPct, pair-minPct)
	sizes[index] = first
	sizes[index+1] = pair - first
	return sizes
}

// shallowClone copies a node without copying its children slices.
// Callers replace Children/Sizes before returning the clone.
func shallowClone(node *entity.Node) *entity.Node {
	clone := &entity.Node{
		ID:       node.ID,
		Panel:    node.Panel,
		SplitDir: node.SplitDir,
		Children: node.Children,
	}
	clone.Sizes = append([]float64(nil), node.Sizes...)
	return clone
}

// replaceChild clones the node with children[index] swapped for the
// rebuilt subtree. Untouched siblings stay shared with the old tree.
func replaceChild(node *entity.Node, index int, child *entity.Node) *entity.Node {
	clone := shallowClone(node)
	clone.Children = make([]*entity.Node, len(node.Children))
	copy(clone.Children, node.Children)
	clone.Children[index] = child
	return clone
}

const (
	sizeRoundFactor  = 100.0
	sizeSumTolerance = 0.01
)

// normalizeSizes rounds each share to two decimals and absorbs the
// rounding drift into the last entry so the array sums to exactly 100.
// Keeps snapshots stable and readable; avoids persisting noisy floats.
func normalizeSizes(sizes []float64) []float64 {
	sum := 0.0
	for i := range sizes[:len(sizes)-1] {
		sizes[i] = math.Round(sizes[i]*sizeRoundFactor) / sizeRoundFactor
		sum += sizes[i]
	}
	sizes[len(sizes)-1] = math.Round((100-sum)*sizeRoundFactor) / sizeRoundFactor
	return sizes
}

func clampFloat64(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}
