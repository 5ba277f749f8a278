// Package mux provides the terminal multiplexer transport for the fcsh
// session. It is pure plumbing: start a detached session, inject keystrokes,
// pipe session output to a file. All synchronization with the compiler shell
// happens elsewhere, by watching the piped transcript — mux itself never
// reads the stream it pipes, so control operations cannot race the reader.
package mux

import "context"

// Host abstracts the operations fcshctl needs from a terminal multiplexer.
// The only implementation today is tmux.
type Host interface {
	// Name returns the multiplexer name (e.g., "tmux").
	Name() string

	// SessionExists reports whether a session with the exact name exists.
	SessionExists(ctx context.Context, name string) bool

	// StartSession starts command as the sole process of a new detached
	// session. It is an error if the session already exists; callers are
	// expected to check SessionExists first.
	StartSession(ctx context.Context, name string, command ...string) error

	// SendLine injects text plus a trailing newline into the session's
	// input stream, indistinguishably from interactive typing.
	// Fire-and-forget: there is no acknowledgement from the subprocess.
	SendLine(ctx context.Context, name, text string) error

	// PipeToFile starts appending everything the session emits to the
	// file at path, flushed as it arrives.
	PipeToFile(ctx context.Context, name, path string) error

	// StopPipe disables transcript writing without changing the
	// destination file.
	StopPipe(ctx context.Context, name string) error
}
