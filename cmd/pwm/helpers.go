package main

import (
	"context"
	"os"
	goruntime "runtime"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/joss/pwm/internal/ai"
	"github.com/joss/pwm/internal/exec"
	"github.com/joss/pwm/internal/github"
	"github.com/joss/pwm/internal/jira"
	"github.com/joss/pwm/internal/provider"
	"github.com/joss/pwm/internal/render"
	"github.com/joss/pwm/internal/tui"
	"github.com/joss/pwm/internal/workflow"
	"github.com/joss/pwm/internal/workspace"
)

// errSilent exits 1 without printing anything.
var errSilent = errors.New("exit 1")

// reportError prints one red line plus a yellow line per hint.
func reportError(w *render.Writer, err error) {
	if errors.Is(err, errSilent) {
		return
	}
	if errors.Is(err, workflow.ErrAborted) || errors.Is(err, tui.ErrCancelled) {
		w.Warn("Aborted.")
		return
	}
	w.Error("%s", err)
	for _, hint := range errors.GetAllHints(err) {
		w.Hint("%s", hint)
	}
}

// resolveWorkspace resolves the context for the current directory.
func resolveWorkspace(ctx context.Context) (*workspace.Context, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "working directory")
	}
	return workspace.Resolve(ctx, cwd)
}

// newSession wires the real collaborators for ws.
func newSession(ws *workspace.Context) (*workflow.Session, error) {
	host, err := github.FromConfig(ws.Config)
	if err != nil {
		return nil, err
	}
	s := workflow.NewSession(ws, jira.FromConfig(ws.Config), host)
	s.AI = ai.New(provider.FromConfig(ws.Config))
	s.Prompt = tui.NewConsole()
	s.OpenURL = openURL
	return s, nil
}

// openURL hands url to the desktop opener without waiting for it.
func openURL(ctx context.Context, url string) error {
	name := "xdg-open"
	switch goruntime.GOOS {
	case "darwin":
		name = "open"
	case "windows":
		return errors.New("opening a browser is not supported on windows")
	}
	_, err := exec.Default.Start(context.WithoutCancel(ctx), name, url)
	return err
}

var sinceLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	time.RFC3339,
}

// parseSince reads a --since value in local time.
func parseSince(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range sinceLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.WithHint(errors.Newf("invalid --since value %q", s),
		"use YYYY-MM-DD or \"YYYY-MM-DD HH:MM\"")
}
