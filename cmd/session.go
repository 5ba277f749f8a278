package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/timvw/fcshctl/internal/config"
	"github.com/timvw/fcshctl/internal/mux"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Show whether the fcsh session is running",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		if flagSession != "" {
			cfg.Session = flagSession
		}
		host, err := mux.Detect()
		if err != nil {
			return err
		}
		if host.SessionExists(cmd.Context(), cfg.Session) {
			fmt.Println(successStyle.Render(fmt.Sprintf("session %q is running", cfg.Session)))
		} else {
			fmt.Println(mutedStyle.Render(fmt.Sprintf("session %q is not running", cfg.Session)))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
}
