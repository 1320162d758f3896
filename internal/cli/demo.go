package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/aldegad/artkit/internal/application/port"
	"github.com/aldegad/artkit/internal/cli/model"
	"github.com/aldegad/artkit/internal/cli/styles"
	"github.com/aldegad/artkit/internal/domain/entity"
	"github.com/aldegad/artkit/internal/domain/repository"
	"github.com/aldegad/artkit/internal/infrastructure/config"
	"github.com/aldegad/artkit/internal/infrastructure/persistence/sqlite"
	"github.com/aldegad/artkit/internal/ui/coordinator"
	"github.com/aldegad/artkit/internal/ui/gesture"
)

// NewDemoCmd creates the interactive workspace demo command.
func NewDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Interactive terminal workspace",
		Long: `Run the layout engine in the terminal: grab floating windows,
drop them on pane edges to dock, undock panels, and resize splits.
The layout persists to the database unless --ephemeral is set.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			layoutName, _ := cmd.Flags().GetString("layout")
			ephemeral, _ := cmd.Flags().GetBool("ephemeral")
			return runDemo(layoutName, ephemeral)
		},
	}

	cmd.Flags().String("layout", "", "Layout name to load (defaults to config)")
	cmd.Flags().Bool("ephemeral", false, "Run without persistence")
	return cmd
}

func runDemo(layoutName string, ephemeral bool) error {
	cfg := config.Get()
	ctx := commandContext()

	if layoutName == "" {
		layoutName = cfg.Layout.LayoutName
	}

	var repo repository.LayoutStateRepository
	if !ephemeral {
		db, err := sqlite.NewConnection(ctx, cfg.Storage.DatabasePath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer func() {
			if closeErr := sqlite.Close(db); closeErr != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", closeErr)
			}
		}()
		repo = sqlite.NewLayoutStateRepository(db)
	}

	panels := defaultPanels()
	coord, err := coordinator.NewLayoutCoordinator(ctx, coordinator.LayoutCoordinatorConfig{
		Repo:             repo,
		Panels:           panels,
		LayoutName:       layoutName,
		DefaultPanel:     entity.PanelID(cfg.Layout.DefaultPanel),
		Gesture:          gestureConfigFrom(cfg),
		CascadeOffset:    cfg.Layout.CascadeOffsetPx,
		SnapshotDebounce: cfg.Layout.SnapshotDebounce(),
	})
	if err != nil {
		return fmt.Errorf("failed to create layout coordinator: %w", err)
	}

	// Config edits while the demo runs retune the gesture thresholds live.
	config.OnConfigChange(func(updated *config.Config) {
		coord.SetGestureConfig(gestureConfigFrom(updated))
	})
	if err := config.Watch(); err != nil {
		return fmt.Errorf("failed to watch config: %w", err)
	}

	theme := styles.NewTheme(styles.DefaultDarkPalette())
	m := model.NewWorkspaceModel(ctx, coord, panels, panels.order, theme)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("demo failed: %w", err)
	}
	return nil
}

func gestureConfigFrom(cfg *config.Config) gesture.Config {
	return gesture.Config{
		SnapThresholdPx:  cfg.Layout.SnapThresholdPx,
		MinPanePx:        cfg.Layout.MinPanePx,
		MinWindowWidth:   cfg.Layout.MinWindowWidth,
		MinWindowHeight:  cfg.Layout.MinWindowHeight,
		EdgeBandFraction: cfg.Layout.EdgeBandFraction,
	}
}

type demoPanel struct {
	title string
	size  entity.Size
}

// demoPanels is the fixed panel set the demo can render.
type demoPanels struct {
	byID  map[entity.PanelID]demoPanel
	order []entity.PanelID
}

var _ port.PanelProvider = (*demoPanels)(nil)

func defaultPanels() *demoPanels {
	return &demoPanels{
		byID: map[entity.PanelID]demoPanel{
			"canvas":    {title: "Canvas", size: entity.Size{Width: 40, Height: 14}},
			"layers":    {title: "Layers", size: entity.Size{Width: 24, Height: 10}},
			"brushes":   {title: "Brushes", size: entity.Size{Width: 24, Height: 8}},
			"palette":   {title: "Palette", size: entity.Size{Width: 20, Height: 6}},
			"history":   {title: "History", size: entity.Size{Width: 24, Height: 10}},
			"navigator": {title: "Navigator", size: entity.Size{Width: 20, Height: 8}},
		},
		order: []entity.PanelID{"layers", "brushes", "palette", "history", "navigator"},
	}
}

func (p *demoPanels) Title(panel entity.PanelID) string {
	if info, ok := p.byID[panel]; ok {
		return info.title
	}
	return string(panel)
}

func (p *demoPanels) DefaultFloatingSize(panel entity.PanelID) entity.Size {
	if info, ok := p.byID[panel]; ok {
		return info.size
	}
	return entity.Size{}
}

func (p *demoPanels) Known(panel entity.PanelID) bool {
	_, ok := p.byID[panel]
	return ok
}
