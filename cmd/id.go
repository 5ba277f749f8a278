package cmd

import (
	"github.com/spf13/cobra"

	"github.com/timvw/fcshctl/internal/command"
)

var idCmd = &cobra.Command{
	Use:   "id <search>",
	Short: "Look up the compile target id for a file",
	Long: `Ask fcsh for its compile target list and print the id of the first
target whose record mentions <search> (typically a source filename).

Prints "no compile target found" when nothing matches. This mode is
informational: it always exits 0, so check the printed output rather
than the exit status.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), command.Classify(append([]string{"id"}, args...)))
	},
}

func init() {
	rootCmd.AddCommand(idCmd)
}
