// Package model provides Bubble Tea models for CLI commands.
package model

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aldegad/artkit/internal/application/port"
	"github.com/aldegad/artkit/internal/cli/styles"
	"github.com/aldegad/artkit/internal/domain/entity"
	"github.com/aldegad/artkit/internal/logging"
	"github.com/aldegad/artkit/internal/ui/coordinator"
)

const (
	pointerStepX = 2
	pointerStepY = 1

	windowStripHeight = 4
	chromeHeight      = 4 // title + status + help
)

// WorkspaceModel is the Bubble Tea model for the interactive workspace
// demo. The terminal cell grid doubles as the viewport coordinate space:
// one cell is one layout pixel, so gestures feed the coordinator the
// same numbers the renderer draws with.
type WorkspaceModel struct {
	theme *styles.Theme
	keys  styles.WorkspaceKeyMap
	help  help.Model

	pointer  entity.Point
	width    int
	height   int
	showHelp bool
	status   string

	ctx       context.Context
	coord     *coordinator.LayoutCoordinator
	panels    port.PanelProvider
	available []entity.PanelID
	openIdx   int
}

// NewWorkspaceModel creates the workspace demo model. The available
// slice lists the panels the open-window key cycles through.
func NewWorkspaceModel(ctx context.Context, coord *coordinator.LayoutCoordinator, panels port.PanelProvider, available []entity.PanelID, theme *styles.Theme) WorkspaceModel {
	log := logging.FromContext(ctx)
	log.Debug().Int("panels", len(available)).Msg("creating workspace model")

	return WorkspaceModel{
		theme:     theme,
		keys:      styles.DefaultWorkspaceKeyMap(),
		help:      styles.NewStyledHelp(theme),
		pointer:   entity.Point{X: 10, Y: 5},
		width:     80,
		height:    24,
		status:    "move the pointer with arrows, grab a window with g",
		ctx:       ctx,
		coord:     coord,
		panels:    panels,
		available: available,
	}
}

// Init implements tea.Model.
func (m WorkspaceModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m WorkspaceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

// handleMouse maps terminal mouse events onto the pointer gesture
// protocol. The tree area starts one row below the title line.
func (m WorkspaceModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	w, h := m.treeArea()
	m.pointer.X = clamp(float64(msg.X), 0, float64(w-1))
	m.pointer.Y = clamp(float64(msg.Y-1), 0, float64(h-1))

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			return m.grab(), nil
		}
	case tea.MouseActionMotion:
		if m.coord.GestureActive() {
			rects, _ := m.panelRects()
			m.coord.PointerMove(m.ctx, m.pointer, rects)
		}
	case tea.MouseActionRelease:
		if m.coord.GestureActive() {
			m.coord.PointerUp(m.ctx)
			m.status = "dropped"
		}
	}
	return m, nil
}

func (m WorkspaceModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if err := m.coord.Close(m.ctx); err != nil {
			logging.FromContext(m.ctx).Warn().Err(err).Msg("failed to flush layout on quit")
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return m, nil

	case key.Matches(msg, m.keys.Up):
		return m.movePointer(0, -pointerStepY), nil
	case key.Matches(msg, m.keys.Down):
		return m.movePointer(0, pointerStepY), nil
	case key.Matches(msg, m.keys.Left):
		return m.movePointer(-pointerStepX, 0), nil
	case key.Matches(msg, m.keys.Right):
		return m.movePointer(pointerStepX, 0), nil

	case key.Matches(msg, m.keys.Grab):
		return m.grab(), nil
	case key.Matches(msg, m.keys.Drop):
		m.coord.PointerUp(m.ctx)
		m.status = "dropped"
		return m, nil
	case key.Matches(msg, m.keys.Cancel):
		m.coord.PointerCancel(m.ctx)
		m.status = "gesture cancelled"
		return m, nil

	case key.Matches(msg, m.keys.Open):
		return m.openNextWindow(), nil
	case key.Matches(msg, m.keys.Close):
		return m.closeWindowUnderPointer(), nil
	case key.Matches(msg, m.keys.Minimize):
		return m.minimizeWindowUnderPointer(), nil
	case key.Matches(msg, m.keys.Undock):
		return m.undockPanelUnderPointer(), nil
	case key.Matches(msg, m.keys.Remove):
		return m.removePanelUnderPointer(), nil

	case key.Matches(msg, m.keys.Grow):
		return m.nudgeRootSplit(5), nil
	case key.Matches(msg, m.keys.Shrink):
		return m.nudgeRootSplit(-5), nil

	case key.Matches(msg, m.keys.Save):
		if err := m.coord.Snapshot(m.ctx); err != nil {
			m.status = "save failed: " + err.Error()
		} else {
			m.status = "layout saved"
		}
		return m, nil
	}
	return m, nil
}

func (m WorkspaceModel) movePointer(dx, dy float64) WorkspaceModel {
	w, h := m.treeArea()
	m.pointer.X = clamp(m.pointer.X+dx, 0, float64(w-1))
	m.pointer.Y = clamp(m.pointer.Y+dy, 0, float64(h-1))
	if m.coord.GestureActive() {
		rects, _ := m.panelRects()
		m.coord.PointerMove(m.ctx, m.pointer, rects)
	}
	return m
}

func (m WorkspaceModel) grab() WorkspaceModel {
	if m.coord.GestureActive() {
		return m
	}
	win := m.windowUnderPointer()
	if win == nil {
		m.status = "no window under pointer"
		return m
	}
	if m.coord.StartWindowDrag(m.ctx, win.ID, m.pointer) {
		m.status = "dragging " + m.panels.Title(win.Panel)
	}
	return m
}

func (m WorkspaceModel) openNextWindow() WorkspaceModel {
	if len(m.available) == 0 {
		return m
	}
	panel := m.available[m.openIdx%len(m.available)]
	m.openIdx++
	win, err := m.coord.OpenWindow(m.ctx, panel)
	if err != nil {
		m.status = "open failed: " + err.Error()
		return m
	}
	m.status = "opened " + m.panels.Title(win.Panel)
	return m
}

func (m WorkspaceModel) closeWindowUnderPointer() WorkspaceModel {
	win := m.windowUnderPointer()
	if win == nil {
		m.status = "no window under pointer"
		return m
	}
	m.coord.CloseWindow(m.ctx, win.ID)
	m.status = "closed " + m.panels.Title(win.Panel)
	return m
}

func (m WorkspaceModel) minimizeWindowUnderPointer() WorkspaceModel {
	win := m.windowUnderPointer()
	if win == nil {
		m.status = "no window under pointer"
		return m
	}
	rects, _ := m.panelRects()
	m.coord.ToggleMinimize(m.ctx, win.ID, rects)
	return m
}

func (m WorkspaceModel) undockPanelUnderPointer() WorkspaceModel {
	rects, nodeIDs := m.panelRects()
	for panel, rect := range rects {
		if !contains(rect, m.pointer) {
			continue
		}
		win, err := m.coord.Undock(m.ctx, nodeIDs[panel])
		if err != nil {
			m.status = "undock failed: " + err.Error()
		} else if win == nil {
			m.status = "cannot undock the last panel"
		} else {
			m.status = "undocked " + m.panels.Title(panel)
		}
		return m
	}
	m.status = "no panel under pointer"
	return m
}

func (m WorkspaceModel) removePanelUnderPointer() WorkspaceModel {
	rects, nodeIDs := m.panelRects()
	for panel, rect := range rects {
		if !contains(rect, m.pointer) {
			continue
		}
		if err := m.coord.RemovePanel(m.ctx, nodeIDs[panel]); err != nil {
			m.status = "remove failed: " + err.Error()
		} else {
			m.status = "removed " + m.panels.Title(panel)
		}
		return m
	}
	m.status = "no panel under pointer"
	return m
}

func (m WorkspaceModel) nudgeRootSplit(deltaPercent float64) WorkspaceModel {
	root := m.coord.State().Root
	if root == nil || len(root.Children) < 2 {
		m.status = "root is not split"
		return m
	}
	if err := m.coord.NudgeSizes(m.ctx, root.ID, 0, deltaPercent, 5); err != nil {
		m.status = "resize failed: " + err.Error()
	}
	return m
}

func (m WorkspaceModel) windowUnderPointer() *entity.FloatingWindow {
	state := m.coord.State()
	// Last window wins, matching render order (later windows sit on top).
	var hit *entity.FloatingWindow
	for _, win := range state.Windows {
		rect := entity.Rect{X: win.Position.X, Y: win.Position.Y, Width: win.Size.Width, Height: win.Size.Height}
		if contains(rect, m.pointer) {
			hit = win
		}
	}
	return hit
}

func (m WorkspaceModel) treeArea() (int, int) {
	w := m.width
	h := m.height - windowStripHeight - chromeHeight
	if w < 20 {
		w = 20
	}
	if h < 6 {
		h = 6
	}
	return w, h
}

// panelRects computes the on-screen rect of every leaf panel plus the
// node ID hosting it, using the same integer splits the renderer uses.
func (m WorkspaceModel) panelRects() (map[entity.PanelID]entity.Rect, map[entity.PanelID]string) {
	w, h := m.treeArea()
	rects := make(map[entity.PanelID]entity.Rect)
	nodeIDs := make(map[entity.PanelID]string)
	collectRects(m.coord.State().Root, 0, 0, w, h, rects, nodeIDs)
	return rects, nodeIDs
}

func collectRects(node *entity.Node, x, y, w, h int, rects map[entity.PanelID]entity.Rect, nodeIDs map[entity.PanelID]string) {
	if node == nil {
		return
	}
	if len(node.Children) == 0 {
		rects[node.Panel] = entity.Rect{X: float64(x), Y: float64(y), Width: float64(w), Height: float64(h)}
		nodeIDs[node.Panel] = node.ID
		return
	}

	extents := splitExtents(node.Sizes, extentFor(node.SplitDir, w, h))
	offset := 0
	for i, child := range node.Children {
		if node.SplitDir == entity.SplitHorizontal {
			collectRects(child, x+offset, y, extents[i], h, rects, nodeIDs)
		} else {
			collectRects(child, x, y+offset, w, extents[i], rects, nodeIDs)
		}
		offset += extents[i]
	}
}

func extentFor(dir entity.SplitDirection, w, h int) int {
	if dir == entity.SplitHorizontal {
		return w
	}
	return h
}

// splitExtents divides total cells by percentage, giving the last child
// whatever rounding leaves over so the extents always sum to total.
func splitExtents(sizes []float64, total int) []int {
	extents := make([]int, len(sizes))
	used := 0
	for i, size := range sizes {
		if i == len(sizes)-1 {
			extents[i] = total - used
			break
		}
		extents[i] = int(size / 100 * float64(total))
		used += extents[i]
	}
	return extents
}

// View implements tea.Model.
func (m WorkspaceModel) View() string {
	state := m.coord.State()
	w, h := m.treeArea()

	title := m.theme.Title.Render("artkit workspace")
	if m.coord.GestureActive() {
		title += "  " + m.theme.Badge.Render("dragging")
	}

	tree := m.renderNode(state, state.Root, w, h)
	windows := m.renderWindowStrip(state)
	status := m.renderStatus(state)
	helpView := m.help.View(m.keys)

	return lipgloss.JoinVertical(lipgloss.Left, title, tree, windows, status, helpView)
}

func (m WorkspaceModel) renderNode(state *entity.LayoutState, node *entity.Node, w, h int) string {
	if node == nil {
		return ""
	}
	if len(node.Children) == 0 {
		return m.renderLeaf(state, node, w, h)
	}

	extents := splitExtents(node.Sizes, extentFor(node.SplitDir, w, h))
	parts := make([]string, len(node.Children))
	for i, child := range node.Children {
		if node.SplitDir == entity.SplitHorizontal {
			parts[i] = m.renderNode(state, child, extents[i], h)
		} else {
			parts[i] = m.renderNode(state, child, w, extents[i])
		}
	}
	if node.SplitDir == entity.SplitHorizontal {
		return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m WorkspaceModel) renderLeaf(state *entity.LayoutState, node *entity.Node, w, h int) string {
	box := m.theme.PanelBox
	title := m.theme.PanelTitle.Render(m.panels.Title(node.Panel))

	if t := state.DropTarget; t != nil && t.Panel == node.Panel {
		box = m.theme.DropZoneBox
		title = m.theme.Highlight.Render(m.panels.Title(node.Panel) + " · " + string(t.Position))
	}
	if !m.panels.Known(node.Panel) {
		title = m.theme.Subtle.Render(string(node.Panel) + " (unknown)")
	}

	inner := lipgloss.Place(w-2, h-2, lipgloss.Center, lipgloss.Center, title)
	return box.Render(inner)
}

func (m WorkspaceModel) renderWindowStrip(state *entity.LayoutState) string {
	if len(state.Windows) == 0 {
		return m.theme.Subtle.Render(" no floating windows, press o to open one")
	}

	parts := make([]string, 0, len(state.Windows))
	for _, win := range state.Windows {
		box := m.theme.WindowBox
		if win.ID == state.DraggedWindowID {
			box = m.theme.WindowGrabbed
		}

		label := m.panels.Title(win.Panel)
		info := fmt.Sprintf("%.0f,%.0f %gx%g", win.Position.X, win.Position.Y, win.Size.Width, win.Size.Height)
		line := m.theme.Normal.Render(label) + " " + m.theme.Subtle.Render(info)
		if win.IsMinimized {
			line += " " + m.theme.BadgeMuted.Render("min")
		}
		if win.SnappedTo != nil {
			line += " " + m.theme.BadgeMuted.Render("snap:"+string(win.SnappedTo.Panel))
		}
		parts = append(parts, box.Render(line))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m WorkspaceModel) renderStatus(state *entity.LayoutState) string {
	left := fmt.Sprintf("pointer %.0f,%.0f · %d panels · %d windows",
		m.pointer.X, m.pointer.Y, state.PanelCount(), len(state.Windows))
	return m.theme.StatusBar.Width(m.width).Render(left + "  " + m.status)
}

func contains(r entity.Rect, p entity.Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
