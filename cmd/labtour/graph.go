package main

import (
	"fmt"

	"github.com/aretw0/labtour/internal/cli"
	"github.com/aretw0/labtour/internal/presentation/graph"
	"github.com/spf13/cobra"
)

func newGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Export the walkthrough as a Mermaid diagram",
		Long: `Outputs a Mermaid diagram (graph TD) of the scene progression. With --session
the visited and current scenes of that session are highlighted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := cli.NewLogger(cfg, true)
			engine, closeStore, err := cli.NewEngine(cfg, logger)
			if err != nil {
				return err
			}
			defer closeStore()

			var overlay *graph.GraphOverlay
			if sessionID, _ := cmd.Flags().GetString("session"); sessionID != "" {
				state, err := engine.State(cmd.Context(), sessionID)
				if err != nil {
					return fmt.Errorf("error loading session '%s': %w", sessionID, err)
				}
				overlay = graph.OverlayFor(state)
			}

			fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(engine.Catalog(), overlay))
			return nil
		},
	}
	cmd.Flags().StringP("session", "s", "", "Highlight the progress of this session")
	return cmd
}
