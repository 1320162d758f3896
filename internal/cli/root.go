// Package cli provides the command-line interface for artkit.
package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/aldegad/artkit/internal/infrastructure/config"
	"github.com/aldegad/artkit/internal/logging"
)

// NewRootCmd creates the root command for artkit.
func NewRootCmd(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "artkit",
		Short: "Workspace pane layout engine for art tools",
		Long: `artkit manages a workspace of dockable panels: a split tree of
panes, floating windows above it, and saved layouts in SQLite.

Run "artkit demo" for an interactive terminal workspace.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if err := config.Init(); err != nil {
				return fmt.Errorf("failed to initialize config: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("artkit %s\n", version)
			fmt.Printf("commit: %s\n", commit)
			fmt.Printf("built: %s\n", buildDate)
		},
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(NewDemoCmd())
	rootCmd.AddCommand(NewLayoutsCmd())

	return rootCmd
}

// commandContext returns a context carrying a logger built from the
// loaded configuration.
func commandContext() context.Context {
	cfg := config.Get()
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := logging.New(logging.Config{
		Level:  level,
		Format: cfg.Logging.Format,
	})
	return logging.WithContext(context.Background(), logger)
}
