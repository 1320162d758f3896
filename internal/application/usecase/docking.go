package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/aldegad/artkit/internal/domain/entity"
	"github.com/aldegad/artkit/internal/logging"
)

// DefaultEdgeBandFraction is the share of a panel's width/height that
// counts as an edge drop zone. The exact value is tunable; anything that
// leaves a usable center zone works.
const DefaultEdgeBandFraction = 0.25

// DockingUseCase bridges floating windows and the split tree.
type DockingUseCase struct {
	tree    *ManageTreeUseCase
	windows *ManageWindowsUseCase
}

// NewDockingUseCase creates a new docking use case.
func NewDockingUseCase(tree *ManageTreeUseCase, windows *ManageWindowsUseCase) *DockingUseCase {
	return &DockingUseCase{tree: tree, windows: windows}
}

// ResolveDropInput contains parameters for drop target detection.
type ResolveDropInput struct {
	Pointer      entity.Point
	PanelRects   map[entity.PanelID]entity.Rect
	BandFraction float64 // 0 means DefaultEdgeBandFraction
}

// ResolveDropTarget maps a pointer position to the panel under it and the
// zone within that panel: a band along each edge docks to that side, the
// remaining center zone is indicator-only. Returns nil when the pointer
// is over no panel.
//
//nolint:revive // receiver kept for interface consistency
func (uc *DockingUseCase) ResolveDropTarget(input ResolveDropInput) *entity.DropTarget {
	band := input.BandFraction
	if band <= 0 || band >= 0.5 {
		band = DefaultEdgeBandFraction
	}

	// Panel rects never overlap within one layout, but map order is
	// random; iterate sorted so ties on shared borders stay stable.
	ids := make([]entity.PanelID, 0, len(input.PanelRects))
	for id := range input.PanelRects {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		rect := input.PanelRects[id]
		if !rect.Contains(input.Pointer) {
			continue
		}
		return &entity.DropTarget{
			Panel:    id,
			Position: zoneWithin(rect, input.Pointer, band),
		}
	}
	return nil
}

// zoneWithin classifies a point inside a rect into one of the four edge
// bands or the center. Left/right bands win over top/bottom on the
// corner overlap.
func zoneWithin(rect entity.Rect, p entity.Point, band float64) entity.DropPosition {
	switch {
	case p.X < rect.X+rect.Width*band:
		return entity.DropLeft
	case p.X > rect.Right()-rect.Width*band:
		return entity.DropRight
	case p.Y < rect.Y+rect.Height*band:
		return entity.DropTop
	case p.Y > rect.Bottom()-rect.Height*band:
		return entity.DropBottom
	default:
		return entity.DropCenter
	}
}

// DockInput contains parameters for docking a floating window.
type DockInput struct {
	State    *entity.LayoutState
	WindowID string
	Target   entity.DropTarget
}

// Dock converts a floating window into a tree panel beside the target.
// The operation is atomic: validation happens before any mutation, and a
// failed insert leaves the window floating. Center targets never dock.
func (uc *DockingUseCase) Dock(ctx context.Context, input DockInput) (bool, error) {
	log := logging.FromContext(ctx)
	if input.State == nil {
		return false, fmt.Errorf("layout state is required")
	}

	window := input.State.Window(input.WindowID)
	if window == nil {
		log.Debug().Str("window_id", input.WindowID).Msg("dock: window not found")
		return false, nil
	}
	if !input.Target.Position.IsEdge() {
		log.Debug().Str("window_id", input.WindowID).Msg("dock: center drop, ignoring")
		return false, nil
	}
	if input.State.Root == nil || !input.State.Root.HasPanel(input.Target.Panel) {
		log.Debug().
			Str("target_panel", string(input.Target.Panel)).
			Msg("dock: target panel not in tree, aborting")
		return false, nil
	}

	out, err := uc.tree.InsertPanel(ctx, InsertPanelInput{
		Root:     input.State.Root,
		Target:   input.Target.Panel,
		NewPanel: window.Panel,
		Position: input.Target.Position,
	})
	if err != nil {
		return false, err
	}
	if out.NewNodeID == "" {
		return false, nil
	}

	input.State.Root = out.Root
	input.State.RemoveWindow(window.ID)
	uc.windows.ReconcileSnaps(ctx, input.State)

	log.Info().
		Str("window_id", window.ID).
		Str("panel_id", string(window.Panel)).
		Str("target_panel", string(input.Target.Panel)).
		Str("position", string(input.Target.Position)).
		Msg("window docked into tree")

	return true, nil
}

// UndockInput contains parameters for undocking a tree panel.
type UndockInput struct {
	State         *entity.LayoutState
	NodeID        string        // structural ID of the leaf to undock
	Position      *entity.Point // nil: cascade
	CascadeOffset float64
}

// UndockOutput contains the result of an undock operation.
type UndockOutput struct {
	Window *entity.FloatingWindow // nil when the undock was rejected
}

// Undock removes a leaf from the tree and opens a floating window for
// its panel. Undocking the last panel is rejected: the tree never goes
// empty.
func (uc *DockingUseCase) Undock(ctx context.Context, input UndockInput) (*UndockOutput, error) {
	log := logging.FromContext(ctx)
	if input.State == nil {
		return nil, fmt.Errorf("layout state is required")
	}
	if input.State.Root == nil {
		return &UndockOutput{}, nil
	}

	node := input.State.Root.Find(input.NodeID)
	if node == nil || !node.IsLeaf() {
		log.Debug().Str("node_id", input.NodeID).Msg("undock: leaf not found")
		return &UndockOutput{}, nil
	}

	out, err := uc.tree.RemovePanel(ctx, RemovePanelInput{
		Root:   input.State.Root,
		NodeID: input.NodeID,
	})
	if err != nil {
		if errors.Is(err, ErrLastPanel) {
			log.Debug().Str("node_id", input.NodeID).Msg("undock rejected: last panel")
			return &UndockOutput{}, nil
		}
		return nil, err
	}
	if out.Removed == nil {
		return &UndockOutput{}, nil
	}

	input.State.Root = out.Root
	uc.windows.ReconcileSnaps(ctx, input.State)

	opened, err := uc.windows.Open(ctx, OpenWindowInput{
		State:         input.State,
		Panel:         node.Panel,
		Position:      input.Position,
		CascadeOffset: input.CascadeOffset,
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("node_id", input.NodeID).
		Str("panel_id", string(node.Panel)).
		Str("window_id", opened.Window.ID).
		Msg("panel undocked to floating window")

	return &UndockOutput{Window: opened.Window}, nil
}
