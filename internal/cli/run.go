package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/labtour"
	"github.com/aretw0/labtour/internal/config"
	"github.com/aretw0/labtour/internal/presentation/tui"
	"github.com/aretw0/labtour/pkg/domain"
)

// DefaultSessionID is used by the run command when no session is given.
const DefaultSessionID = "local"

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	Config    config.Config
	SessionID string
	Scene     string
	JSON      bool
	Fresh     bool
	In        io.Reader
	Out       io.Writer
}

// Execute runs an interactive walkthrough session in the terminal.
func Execute(opts RunOptions) error {
	if opts.SessionID == "" {
		opts.SessionID = DefaultSessionID
	}
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	logger := NewLogger(opts.Config, true)
	engine, closeStore, err := NewEngine(opts.Config, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("failed to close store", "err", err)
		}
	}()

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	if opts.Fresh {
		if err := engine.End(sigCtx, opts.SessionID); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
			return fmt.Errorf("failed to reset session: %w", err)
		}
	}

	render := tui.PlainRenderer
	if !opts.JSON && opts.Out == os.Stdout && tui.IsInteractive(os.Stdout) {
		tui.PrintBanner(opts.Out, labtour.Version)
		render = tui.NewRenderer()
	}

	r := &Runner{
		Engine:     engine,
		SessionID:  opts.SessionID,
		StartScene: opts.Scene,
		In:         opts.In,
		Out:        opts.Out,
		Render:     render,
		JSON:       opts.JSON,
		Logger:     logger,
	}
	runErr := r.Run(sigCtx)

	if sig := sigCtx.Signal(); sig != nil && !opts.JSON {
		fmt.Fprintln(opts.Out)
		printSystemMessage(opts.Out, "Interrupted. Progress saved in session '%s'.", opts.SessionID)
	}
	return handleExecutionError(runErr)
}
