package entity

import "time"

// LayoutSnapshotVersion is the current schema version for layout snapshots.
// Increment when making breaking changes to the serialization format.
const LayoutSnapshotVersion = 1

// LayoutSnapshot is a complete serializable snapshot of a layout.
// This is serialized to JSON and stored in the database. Transient drag
// state is deliberately absent.
type LayoutSnapshot struct {
	Version int               `json:"version"`
	Name    string            `json:"name"`
	Root    *NodeSnapshot     `json:"root"`
	Windows []*WindowSnapshot `json:"windows,omitempty"`
	SavedAt time.Time         `json:"saved_at"`
}

// NodeSnapshot captures a node in the split tree.
type NodeSnapshot struct {
	ID       string          `json:"id"`
	Panel    PanelID         `json:"panel_id,omitempty"`
	SplitDir SplitDirection  `json:"split_dir"`
	Children []*NodeSnapshot `json:"children,omitempty"`
	Sizes    []float64       `json:"sizes,omitempty"`
}

// WindowSnapshot captures a floating window.
type WindowSnapshot struct {
	Panel             PanelID     `json:"panel_id"`
	Position          Point       `json:"position"`
	Size              Size        `json:"size"`
	IsMinimized       bool        `json:"is_minimized"`
	MinimizedPosition *Point      `json:"minimized_position,omitempty"`
	SnappedTo         *SnapAnchor `json:"snapped_to,omitempty"`
}

// SnapshotFromState creates a LayoutSnapshot from a live layout state.
func SnapshotFromState(name string, state *LayoutState) *LayoutSnapshot {
	snapshot := &LayoutSnapshot{
		Version: LayoutSnapshotVersion,
		Name:    name,
		SavedAt: time.Now(),
	}
	if state == nil {
		return snapshot
	}

	snapshot.Root = snapshotNode(state.Root)
	for _, w := range state.Windows {
		snapshot.Windows = append(snapshot.Windows, snapshotWindow(w))
	}
	return snapshot
}

func snapshotNode(node *Node) *NodeSnapshot {
	if node == nil {
		return nil
	}
	snap := &NodeSnapshot{
		ID:       node.ID,
		Panel:    node.Panel,
		SplitDir: node.SplitDir,
	}
	if len(node.Children) > 0 {
		snap.Children = make([]*NodeSnapshot, 0, len(node.Children))
		for _, child := range node.Children {
			snap.Children = append(snap.Children, snapshotNode(child))
		}
		snap.Sizes = append([]float64(nil), node.Sizes...)
	}
	return snap
}

func snapshotWindow(w *FloatingWindow) *WindowSnapshot {
	snap := &WindowSnapshot{
		Panel:       w.Panel,
		Position:    w.Position,
		Size:        w.Size,
		IsMinimized: w.IsMinimized,
	}
	if w.MinimizedPosition != nil {
		pos := *w.MinimizedPosition
		snap.MinimizedPosition = &pos
	}
	if w.SnappedTo != nil {
		anchor := *w.SnappedTo
		snap.SnappedTo = &anchor
	}
	return snap
}

// StateFromSnapshot reconstructs a layout state from a snapshot.
// Fresh structural IDs are generated for all nodes and windows.
// Returns nil if the snapshot does not describe a valid layout; callers
// fall back to DefaultLayout in that case.
func StateFromSnapshot(snapshot *LayoutSnapshot, idGen IDGenerator) *LayoutState {
	if snapshot == nil || snapshot.Root == nil {
		return nil
	}

	root := nodeFromSnapshot(snapshot.Root, idGen)
	if root == nil || !root.Valid() {
		return nil
	}

	state := &LayoutState{Root: root}
	for _, ws := range snapshot.Windows {
		w := windowFromSnapshot(ws, idGen)
		if w == nil {
			continue
		}
		// One window per panel; drop duplicates from hand-edited blobs.
		if state.WindowForPanel(w.Panel) != nil {
			continue
		}
		state.Windows = append(state.Windows, w)
	}
	return state
}

func nodeFromSnapshot(snap *NodeSnapshot, idGen IDGenerator) *Node {
	if snap == nil {
		return nil
	}

	node := &Node{
		ID:       idGen(),
		Panel:    snap.Panel,
		SplitDir: snap.SplitDir,
	}
	for _, childSnap := range snap.Children {
		child := nodeFromSnapshot(childSnap, idGen)
		if child == nil {
			return nil
		}
		node.Children = append(node.Children, child)
	}
	if len(node.Children) > 0 {
		node.Sizes = append([]float64(nil), snap.Sizes...)
	}
	return node
}

func windowFromSnapshot(snap *WindowSnapshot, idGen IDGenerator) *FloatingWindow {
	if snap == nil || snap.Panel == "" {
		return nil
	}
	w := &FloatingWindow{
		ID:          idGen(),
		Panel:       snap.Panel,
		Position:    snap.Position,
		Size:        snap.Size,
		IsMinimized: snap.IsMinimized,
	}
	if snap.MinimizedPosition != nil {
		pos := *snap.MinimizedPosition
		w.MinimizedPosition = &pos
	}
	if snap.SnappedTo != nil {
		anchor := *snap.SnappedTo
		w.SnappedTo = &anchor
	}
	return w
}

// CountPanels returns the number of panels in the snapshot's split tree.
func (s *LayoutSnapshot) CountPanels() int {
	return countPanelsInNode(s.Root)
}

func countPanelsInNode(node *NodeSnapshot) int {
	if node == nil {
		return 0
	}
	if node.Panel != "" && len(node.Children) == 0 {
		return 1
	}
	count := 0
	for _, child := range node.Children {
		count += countPanelsInNode(child)
	}
	return count
}

// LayoutInfo provides summary information for the layouts manager UI.
type LayoutInfo struct {
	Name        string
	PanelCount  int
	WindowCount int
	UpdatedAt   time.Time
}
