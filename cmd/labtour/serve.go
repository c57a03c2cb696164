package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/labtour"
	"github.com/aretw0/labtour/internal/cli"
	httpAdapter "github.com/aretw0/labtour/pkg/adapters/http"
	"github.com/aretw0/labtour/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long:  `Serves the walkthrough as a JSON API with SSE state updates and Prometheus metrics.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := cli.NewLogger(cfg, false)

			var (
				engineOpts  []labtour.Option
				handlerOpts = []httpAdapter.Option{httpAdapter.WithLogger(logger)}
			)
			if cfg.Metrics {
				reg := prometheus.NewRegistry()
				reg.MustRegister(
					collectors.NewGoCollector(),
					collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
				)
				metrics := observability.NewMetrics(reg)
				engineOpts = append(engineOpts, labtour.WithLifecycleHooks(metrics.Hooks()))
				handlerOpts = append(handlerOpts, httpAdapter.WithMetrics(reg))
			}

			engine, closeStore, err := cli.NewEngine(cfg, logger, engineOpts...)
			if err != nil {
				return err
			}
			defer func() {
				if err := closeStore(); err != nil {
					logger.Warn("failed to close store", "err", err)
				}
			}()

			handlerOpts = append(handlerOpts, httpAdapter.WithName(engine.Name))
			handler, err := httpAdapter.NewHandler(engine, handlerOpts...)
			if err != nil {
				return fmt.Errorf("error building handler: %w", err)
			}

			srv := &http.Server{
				Addr:              fmt.Sprintf(":%d", cfg.Port),
				Handler:           handler,
				ReadHeaderTimeout: 10 * time.Second,
			}

			serverErrors := make(chan error, 1)
			go func() {
				logger.Info("starting labtour server", "addr", srv.Addr, "catalog", engine.Name, "store", cfg.Store)
				serverErrors <- srv.ListenAndServe()
			}()

			sigCtx := cli.NewSignalContext(context.Background())
			defer sigCtx.Cancel()

			select {
			case err := <-serverErrors:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("server error: %w", err)
			case <-sigCtx.Done():
				logger.Info("shutdown started", "signal", fmt.Sprint(sigCtx.Signal()))
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := srv.Shutdown(ctx); err != nil {
					logger.Error("graceful shutdown did not complete", "err", err)
					return srv.Close()
				}
				logger.Info("labtour server stopped gracefully")
				return nil
			}
		},
	}
	cmd.Flags().IntP("port", "p", 8080, "Port to listen on (env LABTOUR_PORT)")
	return cmd
}
