package entity

// LayoutState is the complete layout of one workspace viewport: the split
// tree, the floating windows above it, and the transient drag bookkeeping.
// It is an owned value, not a singleton; the host creates one per viewport.
type LayoutState struct {
	Root    *Node
	Windows []*FloatingWindow

	// Transient drag state, never persisted.
	DropTarget      *DropTarget
	DraggedWindowID string
}

// DefaultLayout returns a layout with a single leaf hosting the given
// panel. Used on first run and as the fallback for corrupt snapshots.
func DefaultLayout(panel PanelID, idGen IDGenerator) *LayoutState {
	return &LayoutState{
		Root: NewLeaf(idGen(), panel),
	}
}

// Window returns the floating window with the given ID, or nil.
func (s *LayoutState) Window(id string) *FloatingWindow {
	for _, w := range s.Windows {
		if w.ID == id {
			return w
		}
	}
	return nil
}

// WindowForPanel returns the floating window hosting the given panel, or nil.
func (s *LayoutState) WindowForPanel(panel PanelID) *FloatingWindow {
	for _, w := range s.Windows {
		if w.Panel == panel {
			return w
		}
	}
	return nil
}

// RemoveWindow removes the window with the given ID.
// Returns false if no such window exists.
func (s *LayoutState) RemoveWindow(id string) bool {
	for i, w := range s.Windows {
		if w.ID == id {
			s.Windows = append(s.Windows[:i], s.Windows[i+1:]...)
			return true
		}
	}
	return false
}

// PanelCount returns the number of panels hosted by the split tree.
func (s *LayoutState) PanelCount() int {
	if s.Root == nil {
		return 0
	}
	return s.Root.LeafCount()
}

// Clone returns a deep copy of the state, excluding transient drag fields.
func (s *LayoutState) Clone() *LayoutState {
	if s == nil {
		return nil
	}
	clone := &LayoutState{Root: s.Root.Clone()}
	if len(s.Windows) > 0 {
		clone.Windows = make([]*FloatingWindow, len(s.Windows))
		for i, w := range s.Windows {
			clone.Windows[i] = w.Clone()
		}
	}
	return clone
}

// IDGenerator is a function that generates unique IDs.
type IDGenerator func() string
