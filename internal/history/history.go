// Package history keeps an append-only JSONL log of fcshctl invocations:
// what was sent to fcsh, how long it took, and how it turned out.
package history

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	OutcomeOK            = "ok"
	OutcomeCompileFailed = "compile_failed"
	OutcomeNotFound      = "not_found"
	OutcomeError         = "error"
)

// Record is one logged invocation.
type Record struct {
	Mode       string    `json:"mode"`
	Command    string    `json:"command,omitempty"`
	TargetID   int       `json:"target_id,omitempty"`
	Outcome    string    `json:"outcome"`
	DurationMs int64     `json:"duration_ms"`
	TS         time.Time `json:"ts"`
}

func (r Record) Validate() error {
	if strings.TrimSpace(r.Mode) == "" {
		return fmt.Errorf("mode is required")
	}
	if !isValidOutcome(r.Outcome) {
		return fmt.Errorf("invalid outcome %q", r.Outcome)
	}
	if r.TS.IsZero() {
		return fmt.Errorf("ts is required")
	}
	return nil
}

func isValidOutcome(outcome string) bool {
	switch outcome {
	case OutcomeOK, OutcomeCompileFailed, OutcomeNotFound, OutcomeError:
		return true
	default:
		return false
	}
}

// Log is a JSONL file of Records.
type Log struct {
	path string
}

// NewLog creates a log backed by the file at path.
func NewLog(path string) *Log {
	return &Log{path: path}
}

// Append writes one record. The log is best-effort observability; callers
// typically log a warning on error rather than failing the invocation.
func (l *Log) Append(r Record) error {
	if err := r.Validate(); err != nil {
		return fmt.Errorf("invalid history record: %w", err)
	}
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding history record: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening history log: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("appending history record: %w", err)
	}
	return nil
}

// Tail returns the most recent n records, oldest first.
// Unparseable lines (e.g. a line torn by a crash) are skipped.
func (l *Log) Tail(n int) ([]Record, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening history log: %w", err)
	}
	defer f.Close()

	var records []Record
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var r Record
		if err := json.Unmarshal([]byte(line), &r); err != nil {
			continue
		}
		records = append(records, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading history log: %w", err)
	}

	if n > 0 && len(records) > n {
		records = records[len(records)-n:]
	}
	return records, nil
}
