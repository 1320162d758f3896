package entity

// SnapAnchor records which panel edge a minimized floating window sticks
// to. The anchor survives layout changes: when the referenced panel moves
// or resizes, the window re-anchors against the panel's current rect on
// expand. It is cleared when the panel leaves the tree.
type SnapAnchor struct {
	Panel PanelID `json:"panel_id"`
	Edge  Edge    `json:"edge"`
}

// FloatingWindow is a panel floating above the split tree.
// At most one window exists per panel; opening an already-floating panel
// returns the existing window.
type FloatingWindow struct {
	ID       string  `json:"id"`
	Panel    PanelID `json:"panel_id"`
	Position Point   `json:"position"`
	Size     Size    `json:"size"`

	IsMinimized       bool        `json:"is_minimized"`
	MinimizedPosition *Point      `json:"minimized_position,omitempty"`
	SnappedTo         *SnapAnchor `json:"snapped_to,omitempty"`
}

// Clone returns a deep copy of the window.
func (w *FloatingWindow) Clone() *FloatingWindow {
	if w == nil {
		return nil
	}
	clone := *w
	if w.MinimizedPosition != nil {
		pos := *w.MinimizedPosition
		clone.MinimizedPosition = &pos
	}
	if w.SnappedTo != nil {
		anchor := *w.SnappedTo
		clone.SnappedTo = &anchor
	}
	return &clone
}

// DropPosition is the zone of a drop target panel the pointer is over.
type DropPosition string

const (
	DropLeft   DropPosition = "left"
	DropRight  DropPosition = "right"
	DropTop    DropPosition = "top"
	DropBottom DropPosition = "bottom"
	DropCenter DropPosition = "center"
)

// IsEdge reports whether the position docks against a panel edge.
// The center zone is indicator-only; dropping there performs no dock.
func (p DropPosition) IsEdge() bool {
	switch p {
	case DropLeft, DropRight, DropTop, DropBottom:
		return true
	default:
		return false
	}
}

// SplitAxis returns the split orientation a dock at this position produces.
func (p DropPosition) SplitAxis() SplitDirection {
	switch p {
	case DropLeft, DropRight:
		return SplitHorizontal
	case DropTop, DropBottom:
		return SplitVertical
	default:
		return SplitNone
	}
}

// Leading reports whether the docked panel becomes the first child
// (left or top side) of the resulting split.
func (p DropPosition) Leading() bool {
	return p == DropLeft || p == DropTop
}

// DropTarget is the currently highlighted dock destination during a
// window drag. Published for indicator rendering only; the actual dock
// happens on pointer release.
type DropTarget struct {
	Panel    PanelID      `json:"panel_id"`
	Position DropPosition `json:"position"`
}
