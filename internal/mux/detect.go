package mux

import (
	"fmt"
	"os/exec"
)

// Detect returns the tmux host if the tmux binary is available.
// fcshctl manages its own detached session, so a running tmux server is
// not required — tmux starts one on first new-session.
func Detect() (Host, error) {
	if _, err := exec.LookPath("tmux"); err != nil {
		return nil, fmt.Errorf("tmux not found in PATH: %w", err)
	}
	return NewTmux(), nil
}
