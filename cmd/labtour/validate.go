package main

import (
	"fmt"

	"github.com/aretw0/labtour"
	"github.com/aretw0/labtour/internal/validator"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [path]",
		Short: "Check the catalog for consistency",
		Long: `Loads the catalog (names must be unique and the list non-empty), then checks
that every scene has a description and that no scene kind is repeated.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			dir := cfg.Dir
			if len(args) > 0 {
				dir = args[0]
			}

			engine, err := labtour.New(dir)
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}

			report := validator.ValidateCatalog(engine.Catalog())
			out := cmd.OutOrStdout()
			for _, w := range report.Warnings {
				fmt.Fprintf(out, "warning: %s\n", w)
			}
			if err := report.Err(); err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
			fmt.Fprintf(out, "Catalog '%s' is valid (%d scenes)\n", engine.Name, engine.Catalog().Len())
			return nil
		},
	}
}
