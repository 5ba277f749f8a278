// Package command classifies one fcshctl invocation into a closed set of
// command variants. Classification is pure — no subprocess contact — so the
// dispatcher can decide what work an invocation needs (lock, session,
// target-id resolution) before doing any of it.
package command

import (
	"strconv"
	"strings"
)

// Kind enumerates the command variants fcshctl understands.
type Kind int

const (
	// Passthrough forwards the argument list verbatim to fcsh.
	Passthrough Kind = iota
	// IDLookup resolves a search string to a compile target id and
	// reports it without forwarding anything else.
	IDLookup
	// ClearAll forwards "clear" (drop all compile targets).
	ClearAll
	// ClearByID forwards "clear <n>" for an integer target.
	ClearByID
	// ClearByName needs the filename in Search resolved to a target id
	// before it can be forwarded as "clear <id>".
	ClearByName
	// CompileDirect forwards a full mxmlc/compc invocation.
	CompileDirect
	// CompileIncremental replaces a compiler invocation with
	// "compile <id>", reusing the target fcsh already knows.
	CompileIncremental
	// Quit tells fcsh to exit; there is no response to wait for.
	Quit
	// Help forwards "help" and appends fcshctl's own usage addendum.
	Help
)

// compileHeads are the fcsh subcommands that start a compilation.
var compileHeads = map[string]bool{
	"mxmlc": true,
	"compc": true,
}

// sourceExtensions are the file extensions recognized as compilable sources.
var sourceExtensions = []string{".as", ".mxml"}

// Command is one classified invocation, carried through the dispatch
// pipeline as a value instead of a mutated string.
type Command struct {
	Kind Kind

	// Line is the outgoing command line to inject into fcsh.
	// Empty for IDLookup and for ClearByName before resolution.
	Line string

	// Search is the lookup string for IDLookup, or the filename for
	// ClearByName.
	Search string

	// File is the file under compilation for CompileDirect — the last
	// argument with a recognized source extension, or empty when none
	// was found.
	File string

	// TargetID is the resolved compile target for CompileIncremental
	// and resolved ClearByID commands.
	TargetID int
}

// Classify maps an argument list to a Command. Modes are mutually
// exclusive and checked in priority order: id, clear, compiler
// invocation, quit, help, passthrough. args must be non-empty; the
// no-argument case is handled by the CLI layer before dispatch.
func Classify(args []string) Command {
	head := args[0]

	switch head {
	case "id":
		c := Command{Kind: IDLookup}
		if len(args) > 1 {
			c.Search = args[1]
		}
		return c

	case "clear":
		if len(args) == 1 {
			return Command{Kind: ClearAll, Line: "clear"}
		}
		target := args[1]
		if id, err := strconv.Atoi(target); err == nil {
			return Command{Kind: ClearByID, Line: "clear " + target, TargetID: id}
		}
		return Command{Kind: ClearByName, Search: target}

	case "quit":
		return Command{Kind: Quit, Line: "quit"}

	case "help":
		return Command{Kind: Help, Line: "help"}
	}

	if compileHeads[head] {
		return Command{
			Kind: CompileDirect,
			Line: strings.Join(args, " "),
			File: fileUnderCompilation(args),
		}
	}

	return Command{Kind: Passthrough, Line: strings.Join(args, " ")}
}

// Incremental rewrites a CompileDirect command into the incremental fast
// path: "compile <id>" instead of the full compiler invocation.
func (c Command) Incremental(id int) Command {
	return Command{
		Kind:     CompileIncremental,
		Line:     "compile " + strconv.Itoa(id),
		File:     c.File,
		TargetID: id,
	}
}

// Resolved rewrites a ClearByName command once its filename has been
// resolved to a target id.
func (c Command) Resolved(id int) Command {
	return Command{
		Kind:     ClearByID,
		Line:     "clear " + strconv.Itoa(id),
		Search:   c.Search,
		TargetID: id,
	}
}

// Compiling reports whether the command is a compilation (direct or
// incremental), i.e. whether the response should be checked for the
// compile-success markers.
func (c Command) Compiling() bool {
	return c.Kind == CompileDirect || c.Kind == CompileIncremental
}

// fileUnderCompilation returns the last argument ending in a recognized
// source extension, or "" when the invocation names no source file.
func fileUnderCompilation(args []string) string {
	for i := len(args) - 1; i >= 0; i-- {
		for _, ext := range sourceExtensions {
			if strings.HasSuffix(args[i], ext) {
				return args[i]
			}
		}
	}
	return ""
}
