package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/timvw/fcshctl/internal/command"
	"github.com/timvw/fcshctl/internal/config"
	"github.com/timvw/fcshctl/internal/fcsh"
	"github.com/timvw/fcshctl/internal/history"
	"github.com/timvw/fcshctl/internal/lock"
	"github.com/timvw/fcshctl/internal/mux"
	telem "github.com/timvw/fcshctl/internal/otel"
	"github.com/timvw/fcshctl/internal/paths"
)

// helpAddendum is appended to fcsh's own help output, documenting what
// fcshctl layers on top.
const helpAddendum = `
fcshctl additions:
  id <search>       look up the compile target id for a file
  clear [target]    clear all targets, one target by id, or one by filename
  history           show recent fcshctl invocations
  session           show whether the fcsh session is running
  quit              stop the fcsh process (the session stays around)

Environment:
  FLEX_HOME             Flex SDK root; fcsh is started from $FLEX_HOME/bin/fcsh
  FCSHCTL_SESSION       tmux session name (default "fcshctl")
  FCSHCTL_INCREMENTAL   set to 0/false to disable incremental compile rewriting`

// dispatch classifies the argument list and runs the resulting command.
func dispatch(ctx context.Context, args []string) error {
	return run(ctx, command.Classify(args))
}

// run is the top-level control flow of one invocation: load config, take
// the singleton lock, make sure fcsh is up, perform the command's exchange,
// and clean up the transcript on every path out.
func run(ctx context.Context, c command.Command) (err error) {
	if c.Kind == command.IDLookup && c.Search == "" {
		// Usage error, not a failure; nothing to ask fcsh.
		fmt.Println("usage: fcshctl id <search>")
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if flagSession != "" {
		cfg.Session = flagSession
	}
	if flagNoIncremental {
		cfg.Incremental = false
	}

	telem.Version = Version
	tel, err := telem.Init(ctx, telem.OTELConfig{
		Endpoint: cfg.OTELEndpoint,
		Headers:  cfg.OTELHeaders,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: otel init failed: %v\n", err)
	}
	if tel != nil {
		defer tel.Shutdown(ctx)
	}

	outcome := history.OutcomeOK
	ctx, span := telem.StartInvocation(ctx, modeName(c.Kind), c.Line)
	defer func() {
		// Failures before the per-mode logic never set outcome themselves.
		if err != nil && outcome == history.OutcomeOK {
			outcome = history.OutcomeError
		}
		span.End(c.Line, outcome)
	}()

	if err := paths.EnsureRuntimeDir(); err != nil {
		return fmt.Errorf("runtime dir: %w", err)
	}

	// Only one invocation may hold a transaction with fcsh at a time.
	guard := lock.New(paths.Lock())
	guard.Logf = func(format string, args ...any) {
		fmt.Fprintln(os.Stderr, mutedStyle.Render(fmt.Sprintf(format, args...)))
	}
	lockStart := time.Now()
	if err := guard.Acquire(ctx); err != nil {
		return err
	}
	defer guard.Release()
	lockWait := time.Since(lockStart)
	span.LockWaited(lockWait)
	if tel != nil {
		tel.Metrics.RecordLockWait(ctx, lockWait)
	}

	host, err := mux.Detect()
	if err != nil {
		return err
	}
	shell := &fcsh.Shell{
		Host:           host,
		Session:        cfg.Session,
		FcshPath:       cfg.FcshPath(),
		TranscriptPath: paths.Transcript(),
		PollInterval:   cfg.PollIntervalDuration,
		PromptTimeout:  cfg.PromptTimeoutDuration,
	}

	// We hold the lock, so an existing transcript can only be left over
	// from a crashed invocation.
	if _, statErr := os.Stat(shell.TranscriptPath); statErr == nil {
		fmt.Fprintln(os.Stderr, mutedStyle.Render("removing orphaned transcript from a previous run"))
	}
	if err := shell.CleanupTranscript(); err != nil {
		return err
	}

	if err := shell.EnsureRunning(ctx); err != nil {
		return err
	}
	defer shell.CleanupTranscript()

	start := time.Now()
	defer func() {
		rec := history.Record{
			Mode:       modeName(c.Kind),
			Command:    c.Line,
			TargetID:   c.TargetID,
			Outcome:    outcome,
			DurationMs: time.Since(start).Milliseconds(),
			TS:         time.Now().UTC(),
		}
		if logErr := history.NewLog(paths.History()).Append(rec); logErr != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", logErr)
		}
		if tel != nil {
			tel.Metrics.RecordCommand(ctx, rec.Mode, rec.Outcome)
			if c.Compiling() {
				tel.Metrics.RecordCompile(ctx, rec.Outcome, c.Kind == command.CompileIncremental)
			}
		}
	}()

	switch c.Kind {
	case command.IDLookup:
		// This mode is informational: it always exits 0, even when the
		// lookup itself failed. Callers inspect the printed text.
		id, lookupErr := shell.ResolveTargetID(ctx, c.Search)
		var msg string
		outcome, msg = reportIDLookup(c.Search, id, lookupErr)
		switch outcome {
		case history.OutcomeError:
			fmt.Fprintln(os.Stderr, errorStyle.Render(msg))
		case history.OutcomeNotFound:
			fmt.Println(warningStyle.Render(msg))
		default:
			c.TargetID = id
			fmt.Println(msg)
		}
		return nil

	case command.ClearByName:
		id, err := shell.ResolveTargetID(ctx, c.Search)
		if err != nil {
			outcome = history.OutcomeError
			return err
		}
		if id == 0 {
			outcome = history.OutcomeNotFound
			fmt.Println(warningStyle.Render(fmt.Sprintf("no compile target found for %q, nothing cleared", c.Search)))
			return nil
		}
		c = c.Resolved(id)

	case command.CompileDirect:
		c, err = planCompile(ctx, c, cfg.Incremental, shell)
		if err != nil {
			outcome = history.OutcomeError
			return err
		}
		fmt.Println(noticeStyle.Render("compiling " + compileLabel(c) + "..."))

	case command.Quit:
		// fcsh exits instead of printing another prompt, so there is
		// nothing to wait for or to read back.
		if err := shell.Send(ctx, c.Line); err != nil {
			outcome = history.OutcomeError
			return err
		}
		return nil
	}

	promptStart := time.Now()
	transcript, err := shell.Run(ctx, c.Line)
	if err != nil {
		outcome = history.OutcomeError
		return err
	}
	promptWait := time.Since(promptStart)
	span.PromptWaited(promptWait)
	if tel != nil {
		tel.Metrics.RecordPromptWait(ctx, modeName(c.Kind), promptWait)
	}

	if c.Kind == command.Help {
		fmt.Println(helpAddendum)
	}
	fmt.Println(fcsh.Filter(transcript, c.Line))

	if c.Compiling() && !fcsh.CompileSucceeded(transcript) {
		outcome = history.OutcomeCompileFailed
		return fcsh.ErrCompileFailed
	}
	return nil
}

// targetResolver resolves a source path to a fcsh compile target id.
// *fcsh.Shell is the production implementation.
type targetResolver interface {
	ResolveTargetID(ctx context.Context, search string) (int, error)
}

// planCompile decides between the incremental fast path and forwarding the
// literal compiler invocation. The target list is only consulted when
// incremental rewriting is enabled and a source file was found in the
// arguments; an unknown file (id 0) falls back to the literal forward,
// which is what registers the target for next time.
func planCompile(ctx context.Context, c command.Command, incremental bool, r targetResolver) (command.Command, error) {
	if !incremental || c.File == "" {
		return c, nil
	}
	id, err := r.ResolveTargetID(ctx, c.File)
	if err != nil {
		return c, err
	}
	if id > 0 {
		return c.Incremental(id), nil
	}
	return c, nil
}

// reportIDLookup maps an id-lookup result to its history outcome and the
// message to print. It returns no error on purpose: id mode never signals
// failure through the exit status, not even for transport failures.
func reportIDLookup(search string, id int, err error) (outcome, msg string) {
	switch {
	case err != nil:
		return history.OutcomeError, fmt.Sprintf("id lookup for %q failed: %v", search, err)
	case id == 0:
		return history.OutcomeNotFound, fmt.Sprintf("no compile target found for %q", search)
	default:
		return history.OutcomeOK, fmt.Sprintf("id: %d", id)
	}
}

// compileLabel names what is being compiled in the "compiling..." notice.
func compileLabel(c command.Command) string {
	switch {
	case c.Kind == command.CompileIncremental:
		return fmt.Sprintf("%s (target %d)", c.File, c.TargetID)
	case c.File != "":
		return c.File
	default:
		return "project"
	}
}

// modeName maps a command kind to the mode label used in history records
// and metrics.
func modeName(k command.Kind) string {
	switch k {
	case command.IDLookup:
		return "id"
	case command.ClearAll, command.ClearByID, command.ClearByName:
		return "clear"
	case command.CompileDirect, command.CompileIncremental:
		return "compile"
	case command.Quit:
		return "quit"
	case command.Help:
		return "help"
	default:
		return "passthrough"
	}
}
