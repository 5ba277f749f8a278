package cmd

import (
	"github.com/spf13/cobra"

	"github.com/timvw/fcshctl/internal/command"
)

var quitCmd = &cobra.Command{
	Use:   "quit",
	Short: "Stop the fcsh process",
	Long: `Send "quit" to fcsh. The process exits without printing another
prompt, so fcshctl does not wait for a response. fcsh is the session's
sole process, so the tmux session ends with it; the next invocation
recreates both.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), command.Classify([]string{"quit"}))
	},
}

func init() {
	rootCmd.AddCommand(quitCmd)
}
