package history

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testRecord(mode, outcome string) Record {
	return Record{
		Mode:       mode,
		Command:    "mxmlc ./a.as",
		Outcome:    outcome,
		DurationMs: 1200,
		TS:         time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}
}

func TestAppendAndTail(t *testing.T) {
	log := NewLog(filepath.Join(t.TempDir(), "history.jsonl"))

	for i, outcome := range []string{OutcomeOK, OutcomeCompileFailed, OutcomeOK} {
		r := testRecord("compile", outcome)
		r.TargetID = i + 1
		if err := log.Append(r); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	records, err := log.Tail(0)
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	if records[0].TargetID != 1 || records[2].TargetID != 3 {
		t.Errorf("records out of order: %+v", records)
	}
	if records[1].Outcome != OutcomeCompileFailed {
		t.Errorf("Outcome: got %q", records[1].Outcome)
	}
}

func TestTailLimitsToNewest(t *testing.T) {
	log := NewLog(filepath.Join(t.TempDir(), "history.jsonl"))

	for i := 0; i < 5; i++ {
		r := testRecord("passthrough", OutcomeOK)
		r.TargetID = i + 1
		if err := log.Append(r); err != nil {
			t.Fatal(err)
		}
	}

	records, err := log.Tail(2)
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].TargetID != 4 || records[1].TargetID != 5 {
		t.Errorf("Tail kept wrong records: %+v", records)
	}
}

func TestTailMissingFile(t *testing.T) {
	log := NewLog(filepath.Join(t.TempDir(), "nope.jsonl"))
	records, err := log.Tail(10)
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if records != nil {
		t.Errorf("got %v, want nil for missing log", records)
	}
}

func TestTailSkipsTornLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	log := NewLog(path)
	if err := log.Append(testRecord("clear", OutcomeNotFound)); err != nil {
		t.Fatal(err)
	}

	// A crash mid-append leaves a torn line; Tail must skip it.
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString(`{"mode":"comp`); err != nil {
		t.Fatal(err)
	}
	f.Close()

	records, err := log.Tail(0)
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].Mode != "clear" {
		t.Errorf("Mode: got %q", records[0].Mode)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Record)
		wantErr bool
	}{
		{"valid", func(r *Record) {}, false},
		{"missing mode", func(r *Record) { r.Mode = "" }, true},
		{"bad outcome", func(r *Record) { r.Outcome = "meh" }, true},
		{"zero ts", func(r *Record) { r.TS = time.Time{} }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := testRecord("compile", OutcomeOK)
			tt.mutate(&r)
			err := r.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
