package main

import (
	"github.com/aretw0/labtour/internal/cli"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Walk through the lab in the terminal",
		Long: `Starts or resumes a walkthrough session and reads commands from stdin:
next, back, jump <n>, choose <n>, set <key>=<value>, reset, view and quit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			sessionID, _ := cmd.Flags().GetString("session")
			scene, _ := cmd.Flags().GetString("scene")
			jsonMode, _ := cmd.Flags().GetBool("json")
			fresh, _ := cmd.Flags().GetBool("fresh")

			return cli.Execute(cli.RunOptions{
				Config:    cfg,
				SessionID: sessionID,
				Scene:     scene,
				JSON:      jsonMode,
				Fresh:     fresh,
				In:        cmd.InOrStdin(),
				Out:       cmd.OutOrStdout(),
			})
		},
	}
	cmd.Flags().StringP("session", "s", cli.DefaultSessionID, "Session ID to start or resume")
	cmd.Flags().String("scene", "", "Open the session at this scene index (deep link)")
	cmd.Flags().Bool("json", false, "Emit one JSON result per line instead of rendered scenes")
	cmd.Flags().Bool("fresh", false, "Discard the stored session before starting")
	return cmd
}
