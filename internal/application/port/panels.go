// Package port defines interfaces to collaborators outside the engine.
package port

import "github.com/aldegad/artkit/internal/domain/entity"

// PanelProvider resolves panel IDs into host-owned attributes.
// The engine stores panel IDs as opaque capabilities; anything beyond
// identity (title, content, preferred size) is resolved through this
// interface at the edges.
type PanelProvider interface {
	// Title returns the display title for a panel.
	Title(panel entity.PanelID) string

	// DefaultFloatingSize returns the size a panel's floating window
	// opens at when no prior geometry exists.
	DefaultFloatingSize(panel entity.PanelID) entity.Size

	// Known reports whether the host can render the panel.
	// Unknown panels in restored snapshots render as placeholders.
	Known(panel entity.PanelID) bool
}
