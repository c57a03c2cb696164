package main

import (
	"fmt"
	"log"
	"os"

	"github.com/aretw0/labtour/internal/cli"
	"github.com/aretw0/labtour/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run the Model Context Protocol (MCP) server",
		Long: `Exposes the walkthrough to AI agents as MCP tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			transport, _ := cmd.Flags().GetString("transport")

			// stdout carries JSON-RPC; logs must stay on stderr.
			log.SetOutput(os.Stderr)
			logger := cli.NewLogger(cfg, false)

			engine, closeStore, err := cli.NewEngine(cfg, logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := closeStore(); err != nil {
					logger.Warn("failed to close store", "err", err)
				}
			}()

			srv := mcp.NewServer(engine, mcp.WithLogger(logger))

			switch transport {
			case "stdio":
				logger.Info("starting labtour MCP server (stdio)")
				return srv.ServeStdio()
			case "sse":
				sigCtx := cli.NewSignalContext(cmd.Context())
				defer sigCtx.Cancel()
				logger.Info("starting labtour MCP server (SSE)", "port", cfg.Port)
				return srv.ServeSSE(sigCtx, cfg.Port)
			default:
				return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
			}
		},
	}
	cmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	cmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
	return cmd
}
