package cmd

import (
	"github.com/spf13/cobra"

	"github.com/timvw/fcshctl/internal/command"
)

var clearCmd = &cobra.Command{
	Use:   "clear [target]",
	Short: "Clear fcsh compile targets",
	Long: `Forward a clear command to fcsh.

With no argument, all compile targets are cleared. An integer argument
clears that target id. Anything else is treated as a filename and
resolved to a target id first; if no target matches, nothing is sent.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), command.Classify(append([]string{"clear"}, args...)))
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)
}
