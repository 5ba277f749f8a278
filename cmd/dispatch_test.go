package cmd

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/timvw/fcshctl/internal/command"
	"github.com/timvw/fcshctl/internal/history"
)

// fakeResolver maps source paths to target ids and records every lookup.
type fakeResolver struct {
	ids   map[string]int
	err   error
	calls []string
}

func (f *fakeResolver) ResolveTargetID(ctx context.Context, search string) (int, error) {
	f.calls = append(f.calls, search)
	if f.err != nil {
		return 0, f.err
	}
	return f.ids[search], nil
}

func TestPlanCompile(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		incremental bool
		ids         map[string]int
		wantKind    command.Kind
		wantLine    string
		wantCalls   int
	}{
		{
			name:        "known target takes the fast path",
			args:        []string{"mxmlc", "-strict=true", "./a.as"},
			incremental: true,
			ids:         map[string]int{"./a.as": 42},
			wantKind:    command.CompileIncremental,
			wantLine:    "compile 42",
			wantCalls:   1,
		},
		{
			name:        "unknown target forwards the literal invocation",
			args:        []string{"mxmlc", "-strict=true", "./a.as"},
			incremental: true,
			ids:         map[string]int{},
			wantKind:    command.CompileDirect,
			wantLine:    "mxmlc -strict=true ./a.as",
			wantCalls:   1,
		},
		{
			name:        "incremental disabled never consults the target list",
			args:        []string{"mxmlc", "-strict=true", "./a.as"},
			incremental: false,
			ids:         map[string]int{"./a.as": 42},
			wantKind:    command.CompileDirect,
			wantLine:    "mxmlc -strict=true ./a.as",
			wantCalls:   0,
		},
		{
			name:        "no source file in the arguments",
			args:        []string{"mxmlc", "-help"},
			incremental: true,
			ids:         map[string]int{},
			wantKind:    command.CompileDirect,
			wantLine:    "mxmlc -help",
			wantCalls:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &fakeResolver{ids: tt.ids}
			c := command.Classify(tt.args)

			got, err := planCompile(context.Background(), c, tt.incremental, r)
			if err != nil {
				t.Fatalf("planCompile: %v", err)
			}
			if got.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", got.Kind, tt.wantKind)
			}
			if got.Line != tt.wantLine {
				t.Errorf("Line = %q, want %q", got.Line, tt.wantLine)
			}
			if len(r.calls) != tt.wantCalls {
				t.Errorf("resolver called %d times, want %d", len(r.calls), tt.wantCalls)
			}
		})
	}
}

func TestPlanCompileResolverError(t *testing.T) {
	r := &fakeResolver{err: errors.New("session gone")}
	c := command.Classify([]string{"mxmlc", "./a.as"})

	got, err := planCompile(context.Background(), c, true, r)
	if err == nil {
		t.Fatal("expected resolver error to propagate")
	}
	if got.Kind != command.CompileDirect || got.Line != c.Line {
		t.Errorf("command mutated on error: %+v", got)
	}
}

func TestPlanCompileSecondInvocationUsesTarget(t *testing.T) {
	// First compile of a fresh file: fcsh has no target yet, so the
	// literal command goes out (and registers the target). The next
	// invocation finds the target and rewrites.
	r := &fakeResolver{ids: map[string]int{}}
	c := command.Classify([]string{"mxmlc", "-strict=true", "./a.as"})

	first, err := planCompile(context.Background(), c, true, r)
	if err != nil {
		t.Fatal(err)
	}
	if first.Kind != command.CompileDirect || first.Line != "mxmlc -strict=true ./a.as" {
		t.Fatalf("first invocation = %+v, want literal forward", first)
	}

	r.ids["./a.as"] = 7

	second, err := planCompile(context.Background(), c, true, r)
	if err != nil {
		t.Fatal(err)
	}
	if second.Kind != command.CompileIncremental || second.Line != "compile 7" {
		t.Fatalf("second invocation = %+v, want compile 7", second)
	}
}

func TestReportIDLookup(t *testing.T) {
	tests := []struct {
		name        string
		id          int
		err         error
		wantOutcome string
		wantMsg     string
	}{
		{"found", 42, nil, history.OutcomeOK, "id: 42"},
		{"not found", 0, nil, history.OutcomeNotFound, "no compile target found"},
		{"transport error", 0, errors.New("tmux send-keys failed"), history.OutcomeError, "tmux send-keys failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome, msg := reportIDLookup("a.as", tt.id, tt.err)
			if outcome != tt.wantOutcome {
				t.Errorf("outcome = %q, want %q", outcome, tt.wantOutcome)
			}
			if !strings.Contains(msg, tt.wantMsg) {
				t.Errorf("msg = %q, want it to contain %q", msg, tt.wantMsg)
			}
		})
	}
}
