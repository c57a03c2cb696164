package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/aretw0/labtour"
	"github.com/spf13/cobra"
)

func newScenesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenes",
		Short: "List the scenes of the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			engine, err := labtour.New(cfg.Dir)
			if err != nil {
				return fmt.Errorf("error loading catalog: %w", err)
			}

			scenes := engine.Catalog().Scenes()
			out := cmd.OutOrStdout()
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(scenes)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "#\tNAME\tKIND\tICON")
			for i, s := range scenes {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, s.DisplayTitle(), s.Kind, s.Icon)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().Bool("json", false, "Print the catalog as JSON")
	return cmd
}
