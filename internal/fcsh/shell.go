// Package fcsh drives the Flex compiler shell hosted in a detached tmux
// session. One long-lived fcsh process serves every fcshctl invocation, so
// compiles skip the JVM startup cost; this package owns the round trip of
// injecting a command line and collecting the response from the session
// transcript.
package fcsh

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/timvw/fcshctl/internal/monitor"
	"github.com/timvw/fcshctl/internal/mux"
)

// Prompt is the sentinel fcsh prints at the end of every response. It is
// written without a trailing newline, so it always appears as the
// unterminated last line of the transcript.
const Prompt = "(fcsh) "

// ErrBinaryNotFound is returned when the session must be started but the
// fcsh binary is not at the configured path.
var ErrBinaryNotFound = errors.New("fcsh binary not found")

// ErrCompileFailed is returned when a compile transcript carries neither
// success marker. The compiler diagnostics themselves are passed through
// to the user, not interpreted.
var ErrCompileFailed = errors.New("compile failed")

// Shell is a handle on the fcsh session.
type Shell struct {
	Host    mux.Host
	Session string

	// FcshPath is the compiler shell binary, used only when the session
	// does not exist yet.
	FcshPath string

	// TranscriptPath is where the session output is piped while a
	// command is in flight.
	TranscriptPath string

	PollInterval  time.Duration
	PromptTimeout time.Duration // 0 = wait forever
}

// EnsureRunning starts the fcsh session if it does not exist.
// The session survives this process; it is never stopped here.
func (s *Shell) EnsureRunning(ctx context.Context) error {
	if s.Host.SessionExists(ctx, s.Session) {
		return nil
	}
	if _, err := os.Stat(s.FcshPath); err != nil {
		return fmt.Errorf("%w at %s (set FLEX_HOME)", ErrBinaryNotFound, s.FcshPath)
	}
	if err := s.Host.StartSession(ctx, s.Session, s.FcshPath); err != nil {
		return fmt.Errorf("starting fcsh session: %w", err)
	}
	return nil
}

// Run injects line into the session and blocks until fcsh prints its
// prompt, returning the raw transcript of the exchange (echoed input
// included; see Filter). The transcript file is truncated first so the
// response contains only this exchange.
func (s *Shell) Run(ctx context.Context, line string) (string, error) {
	if err := s.truncateTranscript(); err != nil {
		return "", err
	}
	if err := s.Host.PipeToFile(ctx, s.Session, s.TranscriptPath); err != nil {
		return "", err
	}
	defer s.Host.StopPipe(context.WithoutCancel(ctx), s.Session)

	if err := s.Host.SendLine(ctx, s.Session, line); err != nil {
		return "", err
	}

	waitCtx := ctx
	if s.PromptTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, s.PromptTimeout)
		defer cancel()
	}

	f := monitor.NewFollower(s.TranscriptPath, s.PollInterval)
	transcript, err := f.AwaitPrompt(waitCtx, Prompt)
	if err != nil {
		return transcript, err
	}
	return transcript, nil
}

// Send injects line without waiting for a response. Used for "quit",
// where fcsh exits instead of printing another prompt.
func (s *Shell) Send(ctx context.Context, line string) error {
	return s.Host.SendLine(ctx, s.Session, line)
}

// ResolveTargetID asks fcsh for its compile target list ("info") and
// returns the id of the first target whose record mentions search.
// Returns 0 when no target matches; valid ids are positive.
func (s *Shell) ResolveTargetID(ctx context.Context, search string) (int, error) {
	transcript, err := s.Run(ctx, "info")
	if err != nil {
		return 0, err
	}
	// Drop the introspection exchange from the transcript so it never
	// leaks into the next command's response.
	if err := s.truncateTranscript(); err != nil {
		return 0, err
	}
	return ParseTargetID(transcript, search), nil
}

// CleanupTranscript removes the transcript file. Called on every exit path
// once an invocation has created it.
func (s *Shell) CleanupTranscript() error {
	err := os.Remove(s.TranscriptPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing transcript: %w", err)
	}
	return nil
}

// truncateTranscript creates or empties the transcript file.
func (s *Shell) truncateTranscript() error {
	if err := os.WriteFile(s.TranscriptPath, nil, 0o644); err != nil {
		return fmt.Errorf("truncating transcript: %w", err)
	}
	return nil
}
