package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aldegad/artkit/internal/cli/styles"
	"github.com/aldegad/artkit/internal/infrastructure/config"
	"github.com/aldegad/artkit/internal/infrastructure/persistence/sqlite"
)

// NewLayoutsCmd creates the layouts management command.
func NewLayoutsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layouts",
		Short: "Manage saved layouts",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List saved layouts",
		RunE: func(_ *cobra.Command, _ []string) error {
			return listLayouts()
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a saved layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return deleteLayout(args[0])
		},
	}

	cmd.AddCommand(listCmd)
	cmd.AddCommand(deleteCmd)
	return cmd
}

func listLayouts() error {
	ctx := commandContext()
	cfg := config.Get()

	db, err := sqlite.NewConnection(ctx, cfg.Storage.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := sqlite.Close(db); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", closeErr)
		}
	}()

	repo := sqlite.NewLayoutStateRepository(db)
	infos, err := repo.ListSnapshots(ctx)
	if err != nil {
		return fmt.Errorf("failed to list layouts: %w", err)
	}

	theme := styles.NewTheme(styles.DefaultDarkPalette())
	if len(infos) == 0 {
		fmt.Println(theme.Subtle.Render("no saved layouts"))
		return nil
	}

	for _, info := range infos {
		line := theme.Title.Render(info.Name) +
			"  " + theme.Subtle.Render(fmt.Sprintf("%d panels, %d windows", info.PanelCount, info.WindowCount)) +
			"  " + theme.Subtle.Render(info.UpdatedAt.Local().Format("2006-01-02 15:04"))
		fmt.Println(line)
	}
	return nil
}

func deleteLayout(name string) error {
	ctx := commandContext()
	cfg := config.Get()

	db, err := sqlite.NewConnection(ctx, cfg.Storage.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := sqlite.Close(db); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", closeErr)
		}
	}()

	repo := sqlite.NewLayoutStateRepository(db)
	if err := repo.DeleteSnapshot(ctx, name); err != nil {
		return fmt.Errorf("failed to delete layout: %w", err)
	}

	fmt.Printf("deleted layout %q\n", name)
	return nil
}
