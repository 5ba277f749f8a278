package mux

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Tmux implements the Host interface for tmux.
type Tmux struct{}

// NewTmux creates a new tmux host.
func NewTmux() *Tmux {
	return &Tmux{}
}

// Name returns "tmux".
func (t *Tmux) Name() string {
	return "tmux"
}

// SessionExists reports whether a session with the exact name exists.
// The "=" prefix forces exact matching; tmux otherwise treats the
// target as a name prefix.
func (t *Tmux) SessionExists(ctx context.Context, name string) bool {
	_, err := t.run(ctx, "has-session", "-t", "="+name)
	return err == nil
}

// StartSession starts command as the sole process of a new detached session.
func (t *Tmux) StartSession(ctx context.Context, name string, command ...string) error {
	args := append([]string{"new-session", "-d", "-s", name}, command...)
	if _, err := t.run(ctx, args...); err != nil {
		return fmt.Errorf("tmux new-session -s %s: %w", name, err)
	}
	return nil
}

// SendLine injects text as literal keystrokes followed by Enter.
// Literal mode (-l) prevents tmux from interpreting the text as key names,
// so compiler flags like "C-1" or "-strict=true" pass through untouched.
func (t *Tmux) SendLine(ctx context.Context, name, text string) error {
	if _, err := t.run(ctx, "send-keys", "-t", "="+name, "-l", text); err != nil {
		return fmt.Errorf("tmux send-keys -t %s: %w", name, err)
	}
	if _, err := t.run(ctx, "send-keys", "-t", "="+name, "Enter"); err != nil {
		return fmt.Errorf("tmux send-keys Enter -t %s: %w", name, err)
	}
	return nil
}

// PipeToFile starts appending session output to the file at path.
// pipe-pane forwards bytes as they are emitted; cat does not buffer,
// so the transcript is effectively flushed immediately.
func (t *Tmux) PipeToFile(ctx context.Context, name, path string) error {
	shellCmd := fmt.Sprintf("cat >> %s", shellQuote(path))
	if _, err := t.run(ctx, "pipe-pane", "-t", "="+name, shellCmd); err != nil {
		return fmt.Errorf("tmux pipe-pane -t %s: %w", name, err)
	}
	return nil
}

// StopPipe disables transcript writing. pipe-pane with no command closes
// the existing pipe.
func (t *Tmux) StopPipe(ctx context.Context, name string) error {
	if _, err := t.run(ctx, "pipe-pane", "-t", "="+name); err != nil {
		return fmt.Errorf("tmux pipe-pane (close) -t %s: %w", name, err)
	}
	return nil
}

// run executes a tmux command and returns its stdout.
func (t *Tmux) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "tmux", args...)
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("%w: %s", err, string(exitErr.Stderr))
		}
		return "", err
	}
	return string(out), nil
}

// shellQuote single-quotes a path for the pipe-pane shell command.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
