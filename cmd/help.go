package cmd

import (
	"github.com/spf13/cobra"

	"github.com/timvw/fcshctl/internal/command"
)

// helpCmd replaces cobra's built-in help command: "fcshctl help" forwards
// to fcsh so the user sees the compiler shell's own command list, with the
// fcshctl additions appended. Flag help (--help) is unaffected.
var helpCmd = &cobra.Command{
	Use:   "help",
	Short: "Show fcsh's help plus fcshctl additions",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), command.Classify([]string{"help"}))
	},
}

func init() {
	rootCmd.SetHelpCommand(helpCmd)
}
