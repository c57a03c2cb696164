package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/labtour"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of labtour",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "labtour version %s\n", strings.TrimSpace(labtour.Version))
		},
	}
}
