package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/labtour/internal/cli"
	"github.com/aretw0/labtour/pkg/ports"
	"github.com/spf13/cobra"
)

func newSessionCmd() *cobra.Command {
	sessionCmd := &cobra.Command{
		Use:   "session",
		Short: "Manage persistent sessions",
		Long:  `List, inspect, and remove sessions kept by the configured store.`,
	}
	sessionCmd.AddCommand(newSessionLsCmd(), newSessionShowCmd(), newSessionRmCmd())
	return sessionCmd
}

// withStore opens the configured (wrapped) session store for the duration of fn.
func withStore(cmd *cobra.Command, fn func(store ports.StateStore) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	engine, closeStore, err := cli.NewEngine(cfg, cli.NewLogger(cfg, true))
	if err != nil {
		return err
	}
	defer closeStore()
	return fn(engine.Store())
}

func newSessionLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List all sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(store ports.StateStore) error {
				sessions, err := store.List(cmd.Context())
				if err != nil {
					return fmt.Errorf("error listing sessions: %w", err)
				}
				out := cmd.OutOrStdout()
				if len(sessions) == 0 {
					fmt.Fprintln(out, "No active sessions found.")
					return nil
				}
				fmt.Fprintln(out, "Active Sessions:")
				for _, s := range sessions {
					fmt.Fprintln(out, "- "+s)
				}
				return nil
			})
		},
	}
}

func newSessionShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "show <session-id>",
		Aliases: []string{"inspect"},
		Short:   "Print the stored state of a session",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(store ports.StateStore) error {
				state, err := store.Load(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("error loading session '%s': %w", args[0], err)
				}
				data, err := json.MarshalIndent(state, "", "  ")
				if err != nil {
					return fmt.Errorf("error marshaling state: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			})
		},
	}
}

func newSessionRmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <session-id>...",
		Short: "Remove one or more sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			all, _ := cmd.Flags().GetBool("all")
			if !all && len(args) == 0 {
				return errors.New("requires at least one session ID or --all")
			}
			return withStore(cmd, func(store ports.StateStore) error {
				ids := args
				if all {
					listed, err := store.List(cmd.Context())
					if err != nil {
						return fmt.Errorf("error listing sessions: %w", err)
					}
					ids = listed
				}

				var errs []error
				for _, id := range ids {
					if err := store.Delete(cmd.Context(), id); err != nil {
						errs = append(errs, fmt.Errorf("error removing '%s': %w", id, err))
						continue
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Removed session '%s'\n", id)
				}
				return errors.Join(errs...)
			})
		},
	}
	cmd.Flags().Bool("all", false, "Remove every stored session")
	return cmd
}
