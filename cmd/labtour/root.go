package main

import (
	"fmt"
	"os"

	"github.com/aretw0/labtour/internal/config"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "labtour",
		Short: "labtour is a headless guided walkthrough of the virtual lab",
		Long: `labtour walks visitors through the scenes of the virtual lab one at a time,
remembering their choices. Sessions can be driven from the terminal, over HTTP
or by AI agents through MCP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Persistent flags override the LABTOUR_* environment.
	flags := rootCmd.PersistentFlags()
	flags.String("dir", "", "Catalog source: a .yaml/.json file or a scene directory (default: built-in lab)")
	flags.String("store", "", "Session store: memory, file or redis (env LABTOUR_STORE)")
	flags.String("sessions-dir", "", "Directory of the file store (env LABTOUR_SESSIONS_DIR)")
	flags.String("redis-addr", "", "Redis address for the redis store (env LABTOUR_REDIS_ADDR)")
	flags.Bool("debug", false, "Enable debug logging")
	flags.Bool("log-json", false, "Write logs as JSON")

	rootCmd.AddCommand(
		newRunCmd(),
		newServeCmd(),
		newMCPCmd(),
		newScenesCmd(),
		newGraphCmd(),
		newSessionCmd(),
		newValidateCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the environment and applies the flags that were set.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("dir") {
		cfg.Dir, _ = flags.GetString("dir")
	}
	if flags.Changed("store") {
		cfg.Store, _ = flags.GetString("store")
	}
	if flags.Changed("sessions-dir") {
		cfg.SessionsDir, _ = flags.GetString("sessions-dir")
	}
	if flags.Changed("redis-addr") {
		cfg.RedisAddr, _ = flags.GetString("redis-addr")
	}
	if flags.Changed("debug") {
		cfg.Debug, _ = flags.GetBool("debug")
	}
	if flags.Changed("log-json") {
		cfg.LogJSON, _ = flags.GetBool("log-json")
	}
	if flags.Lookup("port") != nil && flags.Changed("port") {
		cfg.Port, _ = flags.GetInt("port")
	}

	return cfg, cfg.Validate()
}
