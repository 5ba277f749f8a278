// Package paths locates fcshctl's per-user runtime files: the transcript
// piped from the fcsh session, the singleton lock, and the invocation log.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

// RuntimeDir returns the per-user directory holding fcshctl's runtime state.
func RuntimeDir() string {
	runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
	if runtimeDir != "" {
		return filepath.Join(runtimeDir, "fcshctl")
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("fcshctl-%d", os.Getuid()))
}

// Transcript returns the path of the session transcript file.
func Transcript() string {
	return filepath.Join(RuntimeDir(), "fcsh.transcript")
}

// Lock returns the path of the singleton lock file.
func Lock() string {
	return filepath.Join(RuntimeDir(), "fcshctl.lock")
}

// History returns the path of the append-only invocation log.
func History() string {
	return filepath.Join(RuntimeDir(), "history.jsonl")
}

// EnsureRuntimeDir creates the runtime directory if it does not exist.
func EnsureRuntimeDir() error {
	return os.MkdirAll(RuntimeDir(), 0o700)
}
