package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/timvw/fcshctl/internal/fcsh"
)

// Exit codes. Informational modes (id lookups, usage errors) always exit 0;
// callers inspect printed text for those.
const (
	exitCompileFailed  = 2
	exitBinaryNotFound = 3
)

var (
	// Global flags.
	flagSession       string
	flagNoIncremental bool
)

var rootCmd = &cobra.Command{
	Use:   "fcshctl [command ...]",
	Short: "Forward commands to a persistent Flex compiler shell",
	Long: `fcshctl forwards one-shot commands to a long-lived fcsh (Flex compiler
shell) process kept in a detached tmux session, so repeated compiles skip
the compiler's startup cost.

Anything that is not a built-in subcommand is injected into fcsh verbatim:

  fcshctl mxmlc -strict=true ./src/Main.as

Compiler invocations (mxmlc, compc) are rewritten to fcsh's incremental
"compile <id>" fast path when fcsh already has a target for the source
file. Only one invocation talks to fcsh at a time; concurrent runs wait
for each other.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			fmt.Printf("usage: %s\n", cmd.UseLine())
			fmt.Println(`run "fcshctl help" for fcsh's own command list plus fcshctl additions`)
			return nil
		}
		return dispatch(cmd.Context(), args)
	},
}

// Execute runs the root command and maps the error taxonomy to exit codes.
func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, fcsh.ErrCompileFailed):
		// Diagnostics were already printed as transcript passthrough.
		os.Exit(exitCompileFailed)
	case errors.Is(err, fcsh.ErrBinaryNotFound):
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(exitBinaryNotFound)
	default:
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

func init() {
	// Compiler flags must reach fcsh untouched, so flag parsing stops at
	// the first positional argument.
	rootCmd.Flags().SetInterspersed(false)

	rootCmd.PersistentFlags().StringVar(&flagSession, "session", "",
		"tmux session name hosting fcsh (default from config)")
	rootCmd.PersistentFlags().BoolVar(&flagNoIncremental, "no-incremental", false,
		"always forward the full compiler invocation, never rewrite to \"compile <id>\"")
}
