package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/timvw/fcshctl/internal/history"
	"github.com/timvw/fcshctl/internal/paths"
)

var flagHistoryCount int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent fcshctl invocations",
	Long: `Print the most recent fcshctl invocations as JSON: what was sent to
fcsh, the outcome, and how long it took. Reads the local invocation log;
no fcsh interaction.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := history.NewLog(paths.History()).Tail(flagHistoryCount)
		if err != nil {
			return err
		}
		if records == nil {
			records = []history.Record{}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	},
}

func init() {
	historyCmd.Flags().IntVarP(&flagHistoryCount, "count", "n", 20, "number of records to show")
	rootCmd.AddCommand(historyCmd)
}
