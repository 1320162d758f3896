package entity

// Point is a position in viewport pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a width/height pair in viewport pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect is an axis-aligned rectangle in viewport pixels.
// The host reports one per visible panel so the engine can resolve drop
// targets and snap positions against the rendered layout.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width && p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Right returns the X coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the Y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Edge identifies an edge or corner of a panel rectangle that a minimized
// floating window can snap to.
type Edge string

const (
	EdgeLeft        Edge = "left"
	EdgeRight       Edge = "right"
	EdgeTop         Edge = "top"
	EdgeBottom      Edge = "bottom"
	EdgeTopLeft     Edge = "top-left"
	EdgeTopRight    Edge = "top-right"
	EdgeBottomLeft  Edge = "bottom-left"
	EdgeBottomRight Edge = "bottom-right"
)

// IsCorner reports whether the edge is one of the four corners.
func (e Edge) IsCorner() bool {
	switch e {
	case EdgeTopLeft, EdgeTopRight, EdgeBottomLeft, EdgeBottomRight:
		return true
	default:
		return false
	}
}

// MinPanePixels is the fallback minimum pane extent when no configured
// value is available.
const MinPanePixels = 10.0

// MinSizePercent converts a pixel floor into the minimum percentage a pane
// may occupy inside a container of the given extent. A non-positive
// container yields 0, which effectively disables the floor.
func MinSizePercent(containerPx, floorPx float64) float64 {
	if containerPx <= 0 {
		return 0
	}
	pct := floorPx / containerPx * 100
	if pct > 100 {
		return 100
	}
	return pct
}
