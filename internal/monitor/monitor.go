// Package monitor synchronizes with the compiler shell by following its
// transcript file. The shell signals completion of every command by printing
// its prompt, so "command finished" is detected by watching the transcript
// grow until a line starts with the prompt string.
package monitor

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"
)

// DefaultPollInterval is the delay between transcript reads while waiting
// for the prompt.
const DefaultPollInterval = 200 * time.Millisecond

// Follower accumulates a transcript file incrementally, keeping track of
// how far it has read. The file may be empty or mid-write at any poll; a
// partial line simply stays in the tail buffer until more bytes arrive.
type Follower struct {
	path     string
	interval time.Duration

	offset int64
	lines  []string
	tail   string // unterminated final line, if any
}

// NewFollower creates a follower for the transcript at path.
// A non-positive interval falls back to DefaultPollInterval.
func NewFollower(path string, interval time.Duration) *Follower {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Follower{path: path, interval: interval}
}

// AwaitPrompt blocks until a transcript line begins with sentinel, then
// returns the accumulated transcript. The fcsh prompt is written without a
// trailing newline, so the unterminated tail is checked as well as complete
// lines. Returns ctx.Err() if the context is cancelled or times out before
// the sentinel appears; without a deadline on ctx this blocks for as long
// as the subprocess stays silent.
func (f *Follower) AwaitPrompt(ctx context.Context, sentinel string) (string, error) {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return f.Transcript(), fmt.Errorf("waiting for prompt %q: %w", sentinel, ctx.Err())
		case <-ticker.C:
		}

		if err := f.poll(); err != nil {
			// The file may not exist yet (pipe not started, or another
			// process truncating). Treat as "no new data" and keep polling.
			continue
		}
		if f.sawPrompt(sentinel) {
			return f.Transcript(), nil
		}
	}
}

// poll reads any bytes appended since the last poll and splits them into
// lines, carrying an unterminated final line over to the next poll.
func (f *Follower) poll() error {
	file, err := os.Open(f.path)
	if err != nil {
		return err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return err
	}
	size := info.Size()
	if size < f.offset {
		// Truncated behind our back; start over.
		f.offset = 0
		f.lines = nil
		f.tail = ""
	}
	if size == f.offset {
		return nil
	}

	buf := make([]byte, size-f.offset)
	if _, err := file.ReadAt(buf, f.offset); err != nil {
		return err
	}
	f.offset = size

	chunk := f.tail + string(buf)
	parts := strings.Split(chunk, "\n")
	f.tail = parts[len(parts)-1]
	for _, line := range parts[:len(parts)-1] {
		f.lines = append(f.lines, strings.TrimRight(line, "\r"))
	}
	return nil
}

// sawPrompt reports whether the newest transcript line starts with sentinel.
func (f *Follower) sawPrompt(sentinel string) bool {
	if strings.HasPrefix(f.tail, sentinel) {
		return true
	}
	if len(f.lines) > 0 && strings.HasPrefix(f.lines[len(f.lines)-1], sentinel) {
		return true
	}
	return false
}

// Transcript returns everything read so far, complete lines first.
func (f *Follower) Transcript() string {
	if f.tail == "" {
		return strings.Join(f.lines, "\n")
	}
	if len(f.lines) == 0 {
		return f.tail
	}
	return strings.Join(f.lines, "\n") + "\n" + f.tail
}

// Lines returns the complete lines read so far plus the unterminated tail.
func (f *Follower) Lines() []string {
	if f.tail == "" {
		return append([]string(nil), f.lines...)
	}
	return append(append([]string(nil), f.lines...), f.tail)
}
