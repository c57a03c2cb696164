package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/labtour"
	"github.com/aretw0/labtour/internal/logging"
	"github.com/aretw0/labtour/internal/presentation/tui"
	"github.com/aretw0/labtour/pkg/walkthrough"
)

// Runner drives one walkthrough session from line based input.
type Runner struct {
	Engine    *labtour.Engine
	SessionID string
	// StartScene is an optional deep link, validated like a jump.
	StartScene string
	In         io.Reader
	Out        io.Writer
	// Render formats scene markdown. Defaults to tui.PlainRenderer.
	Render tui.Renderer
	// JSON emits one Result object per line instead of markdown.
	JSON   bool
	Logger *slog.Logger
}

// Run starts or resumes the session and processes commands until the
// walkthrough completes, the input ends, the user quits or ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	if r.Render == nil {
		r.Render = tui.PlainRenderer
	}
	if r.Logger == nil {
		r.Logger = logging.NewNop()
	}

	res, err := r.Engine.Start(ctx, r.SessionID, r.StartScene)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	r.Logger.Info("session active", "session_id", r.SessionID, "index", res.View.Index)
	if err := r.show(res); err != nil {
		return err
	}

	lines := make(chan string)
	readErr := make(chan error, 1)
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		scanner := bufio.NewScanner(r.In)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-stop:
				return
			}
		}
		if err := scanner.Err(); err != nil {
			readErr <- err
			return
		}
		readErr <- io.EOF
	}()

	for {
		r.prompt()
		var line string
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-readErr:
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		case line = <-lines:
		}

		cmd, err := ParseCommand(line)
		if err != nil {
			printSystemMessage(r.Out, "%v", err)
			continue
		}

		done, err := r.exec(ctx, cmd)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// exec applies one command. done is true when the walkthrough is over.
func (r *Runner) exec(ctx context.Context, cmd Command) (bool, error) {
	id := r.SessionID
	var (
		res labtour.Result
		err error
	)

	switch cmd.Verb {
	case VerbQuit:
		printSystemMessage(r.Out, "Progress saved in session '%s'.", id)
		return true, nil
	case VerbHelp:
		fmt.Fprintln(r.Out, Usage)
		return false, nil
	case VerbView:
		view, err := r.Engine.View(ctx, id)
		if err != nil {
			return false, err
		}
		return false, r.show(labtour.Result{View: view})
	case VerbNext:
		res, err = r.Engine.Advance(ctx, id)
	case VerbBack:
		res, err = r.Engine.Retreat(ctx, id)
		if err == nil && !res.Moved {
			printSystemMessage(r.Out, "Already at the first scene.")
			return false, nil
		}
	case VerbJump:
		res, err = r.Engine.JumpTo(ctx, id, cmd.N-1)
		if err == nil && !res.Moved {
			printSystemMessage(r.Out, "No scene %d (1-%d).", cmd.N, r.Engine.Catalog().Len())
			return false, nil
		}
	case VerbChoose:
		res, err = r.choose(ctx, cmd.N)
		if err == nil && res.Diff == nil && !res.Moved {
			return false, nil
		}
	case VerbSet:
		res, err = r.Engine.UpdateState(ctx, id, cmd.Key, cmd.Value)
	case VerbReset:
		res, err = r.Engine.Reset(ctx, id)
	}
	if err != nil {
		if isInterrupted(err) {
			return false, err
		}
		printSystemMessage(r.Out, "%v", err)
		return false, nil
	}

	if res.Complete {
		if r.JSON {
			return true, r.emit(res)
		}
		printSystemMessage(r.Out, "Walkthrough complete. Run again with reset to start over.")
		return true, nil
	}
	return false, r.show(res)
}

// choose selects option n (1-based) of the current scene's panel.
func (r *Runner) choose(ctx context.Context, n int) (labtour.Result, error) {
	view, err := r.Engine.View(ctx, r.SessionID)
	if err != nil {
		return labtour.Result{}, err
	}
	panel := view.Panel
	if panel == nil || panel.ChoiceKey == "" {
		printSystemMessage(r.Out, "This scene has nothing to choose.")
		return labtour.Result{View: view}, nil
	}
	if n < 1 || n > len(panel.Options) {
		printSystemMessage(r.Out, "Pick an option between 1 and %d.", len(panel.Options))
		return labtour.Result{View: view}, nil
	}
	return r.Engine.UpdateState(ctx, r.SessionID, panel.ChoiceKey, panel.Options[n-1].Label)
}

func (r *Runner) show(res labtour.Result) error {
	if r.JSON {
		return r.emit(res)
	}
	out, err := r.Render(tui.SceneMarkdown(res.View))
	if err != nil {
		r.Logger.Warn("render failed", "err", err)
		out = tui.SceneMarkdown(res.View)
	}
	fmt.Fprint(r.Out, out)
	r.hint(res.View)
	return nil
}

func (r *Runner) hint(v walkthrough.View) {
	switch {
	case v.Panel != nil && v.Panel.ChoiceKey != "":
		fmt.Fprintln(r.Out, "(choose <n> to pick an option, enter to continue)")
	case v.Last:
		fmt.Fprintln(r.Out, "(enter to finish)")
	}
}

func (r *Runner) emit(res labtour.Result) error {
	data, err := json.Marshal(res)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(r.Out, string(data))
	return err
}

func (r *Runner) prompt() {
	if !r.JSON {
		fmt.Fprint(r.Out, "> ")
	}
}
