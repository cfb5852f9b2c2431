package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all stored battles and practice sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return fmt.Errorf("reset deletes all history; re-run with --yes to confirm")
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.BattleRepo().Reset(cmd.Context()); err != nil {
			return fmt.Errorf("reset battles: %w", err)
		}
		if err := st.PracticeRepo().Reset(cmd.Context()); err != nil {
			return fmt.Errorf("reset practice sessions: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "All battle and practice history deleted.")
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm deletion")
}
