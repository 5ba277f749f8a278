package fcsh

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// fakeHost simulates the tmux transport: while the pipe is on, every
// injected line is echoed into the transcript file followed by the
// scripted response and the fcsh prompt.
type fakeHost struct {
	transcriptPath string
	exists         bool
	piped          bool
	started        [][]string
	sent           []string
	respond        func(line string) string
}

func (h *fakeHost) Name() string { return "fake" }

func (h *fakeHost) SessionExists(ctx context.Context, name string) bool { return h.exists }

func (h *fakeHost) StartSession(ctx context.Context, name string, command ...string) error {
	h.exists = true
	h.started = append(h.started, command)
	return nil
}

func (h *fakeHost) SendLine(ctx context.Context, name, text string) error {
	h.sent = append(h.sent, text)
	if !h.piped || h.respond == nil {
		return nil
	}
	f, err := os.OpenFile(h.transcriptPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	// Terminal echo of the typed command, then the response, then the
	// prompt with no trailing newline — same shape as a real transcript.
	_, err = f.WriteString(Prompt + text + "\n" + h.respond(text) + Prompt)
	return err
}

func (h *fakeHost) PipeToFile(ctx context.Context, name, path string) error {
	h.piped = true
	return nil
}

func (h *fakeHost) StopPipe(ctx context.Context, name string) error {
	h.piped = false
	return nil
}

func newTestShell(t *testing.T, respond func(string) string) (*Shell, *fakeHost) {
	t.Helper()
	dir := t.TempDir()
	transcript := filepath.Join(dir, "fcsh.transcript")
	host := &fakeHost{transcriptPath: transcript, exists: true, respond: respond}
	return &Shell{
		Host:           host,
		Session:        "fcshctl-test",
		FcshPath:       filepath.Join(dir, "fcsh"),
		TranscriptPath: transcript,
		PollInterval:   5 * time.Millisecond,
	}, host
}

func TestEnsureRunningMissingBinary(t *testing.T) {
	shell, host := newTestShell(t, nil)
	host.exists = false

	err := shell.EnsureRunning(context.Background())
	if !errors.Is(err, ErrBinaryNotFound) {
		t.Fatalf("EnsureRunning = %v, want ErrBinaryNotFound", err)
	}
	if len(host.started) != 0 {
		t.Errorf("session was started despite missing binary")
	}
}

func TestEnsureRunningStartsSessionOnce(t *testing.T) {
	shell, host := newTestShell(t, nil)
	host.exists = false
	if err := os.WriteFile(shell.FcshPath, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := shell.EnsureRunning(context.Background()); err != nil {
		t.Fatalf("EnsureRunning: %v", err)
	}
	if len(host.started) != 1 {
		t.Fatalf("started %d sessions, want 1", len(host.started))
	}
	if host.started[0][0] != shell.FcshPath {
		t.Errorf("started command = %v, want %q", host.started[0], shell.FcshPath)
	}

	// Session exists now; a second call must not start another.
	if err := shell.EnsureRunning(context.Background()); err != nil {
		t.Fatalf("second EnsureRunning: %v", err)
	}
	if len(host.started) != 1 {
		t.Errorf("started %d sessions after second call, want 1", len(host.started))
	}
}

func TestRunRoundTrip(t *testing.T) {
	shell, host := newTestShell(t, func(line string) string {
		return "Loading configuration file\n/build/a.swf (1024 bytes)\n"
	})

	transcript, err := shell.Run(context.Background(), "mxmlc ./a.as")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(transcript, "a.swf (1024 bytes)") {
		t.Errorf("transcript missing response: %q", transcript)
	}
	if host.piped {
		t.Error("pipe still enabled after Run")
	}
	if len(host.sent) != 1 || host.sent[0] != "mxmlc ./a.as" {
		t.Errorf("sent = %v", host.sent)
	}

	filtered := Filter(transcript, "mxmlc ./a.as")
	if strings.Contains(filtered, "mxmlc") {
		t.Errorf("filtered transcript still contains echoed command: %q", filtered)
	}
}

func TestRunTimeout(t *testing.T) {
	// No response is ever written, so the prompt never appears.
	shell, _ := newTestShell(t, nil)
	shell.PromptTimeout = 50 * time.Millisecond

	_, err := shell.Run(context.Background(), "mxmlc ./a.as")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run = %v, want context.DeadlineExceeded", err)
	}
}

func TestResolveTargetID(t *testing.T) {
	shell, _ := newTestShell(t, func(line string) string {
		if line != "info" {
			t.Errorf("unexpected command %q", line)
		}
		return "id: 1\nmxmlc: -strict=true ./a.as\nid: 2\ncompc: -output lib.swc\n"
	})

	id, err := shell.ResolveTargetID(context.Background(), "a.as")
	if err != nil {
		t.Fatalf("ResolveTargetID: %v", err)
	}
	if id != 1 {
		t.Errorf("id = %d, want 1", id)
	}

	// The introspection exchange must not leak into the next response.
	info, err := os.Stat(shell.TranscriptPath)
	if err != nil {
		t.Fatalf("stat transcript: %v", err)
	}
	if info.Size() != 0 {
		t.Errorf("transcript not truncated after resolution (%d bytes)", info.Size())
	}
}

func TestResolveTargetIDNotFound(t *testing.T) {
	shell, _ := newTestShell(t, func(line string) string {
		return "id: 1\nmxmlc: ./other.as\n"
	})

	id, err := shell.ResolveTargetID(context.Background(), "missing.as")
	if err != nil {
		t.Fatalf("ResolveTargetID: %v", err)
	}
	if id != 0 {
		t.Errorf("id = %d, want 0 for no match", id)
	}
}

func TestCleanupTranscript(t *testing.T) {
	shell, _ := newTestShell(t, nil)
	if err := os.WriteFile(shell.TranscriptPath, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := shell.CleanupTranscript(); err != nil {
		t.Fatalf("CleanupTranscript: %v", err)
	}
	if _, err := os.Stat(shell.TranscriptPath); !os.IsNotExist(err) {
		t.Error("transcript still exists after cleanup")
	}

	// Removing an already-removed transcript is not an error.
	if err := shell.CleanupTranscript(); err != nil {
		t.Errorf("second CleanupTranscript: %v", err)
	}
}
