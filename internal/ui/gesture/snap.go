package gesture

import (
	"math"
	"sort"

	"github.com/aldegad/artkit/internal/application/usecase"
	"github.com/aldegad/artkit/internal/domain/entity"
)

// DefaultSnapThreshold is the pixel distance within which a dragged
// minimized window sticks to a panel edge.
const DefaultSnapThreshold = 16.0

// snapToPanelEdge tests the pointer against the edges and corners of the
// panel under it. On a hit the window position is placed flush against
// that edge and the matched anchor is returned; otherwise the current
// position and a nil anchor come back.
func snapToPanelEdge(
	rects map[entity.PanelID]entity.Rect,
	pointer entity.Point,
	size entity.Size,
	current entity.Point,
	threshold float64,
) (entity.Point, *entity.SnapAnchor) {
	panel, rect, ok := panelUnder(rects, pointer, threshold)
	if !ok {
		return current, nil
	}

	edge, ok := matchEdge(rect, pointer, threshold)
	if !ok {
		return current, nil
	}

	return usecase.AnchorPosition(rect, edge, size, current), &entity.SnapAnchor{Panel: panel, Edge: edge}
}

// panelUnder finds the panel whose rect contains the pointer, tolerating
// up to threshold pixels outside so edge hits do not require pixel-exact
// hovering. Sorted iteration keeps ties on shared borders stable.
func panelUnder(rects map[entity.PanelID]entity.Rect, p entity.Point, threshold float64) (entity.PanelID, entity.Rect, bool) {
	ids := make([]entity.PanelID, 0, len(rects))
	for id := range rects {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		rect := rects[id]
		if p.X >= rect.X-threshold && p.X <= rect.Right()+threshold &&
			p.Y >= rect.Y-threshold && p.Y <= rect.Bottom()+threshold {
			return id, rect, true
		}
	}
	return "", entity.Rect{}, false
}

// matchEdge classifies the pointer against a rect's corners and edges.
// Corners are tested first: a point near a corner is near two edges at
// once and must resolve to the corner, not an arbitrary one of the two.
func matchEdge(rect entity.Rect, p entity.Point, threshold float64) (entity.Edge, bool) {
	nearLeft := math.Abs(p.X-rect.X) <= threshold
	nearRight := math.Abs(p.X-rect.Right()) <= threshold
	nearTop := math.Abs(p.Y-rect.Y) <= threshold
	nearBottom := math.Abs(p.Y-rect.Bottom()) <= threshold

	switch {
	case nearTop && nearLeft:
		return entity.EdgeTopLeft, true
	case nearTop && nearRight:
		return entity.EdgeTopRight, true
	case nearBottom && nearLeft:
		return entity.EdgeBottomLeft, true
	case nearBottom && nearRight:
		return entity.EdgeBottomRight, true
	case nearLeft:
		return entity.EdgeLeft, true
	case nearRight:
		return entity.EdgeRight, true
	case nearTop:
		return entity.EdgeTop, true
	case nearBottom:
		return entity.EdgeBottom, true
	default:
		return "", false
	}
}
