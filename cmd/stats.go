package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathquest/internal/screens/summary"
	"github.com/abhisek/mathquest/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show battle statistics and recent battles",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		repo := st.BattleRepo()
		stats, err := repo.Stats(cmd.Context())
		if err != nil {
			return fmt.Errorf("load stats: %w", err)
		}
		limit, _ := cmd.Flags().GetInt("limit")
		recent, err := repo.Recent(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("load recent battles: %w", err)
		}
		writeStats(cmd.OutOrStdout(), stats, recent)
		return nil
	},
}

func init() {
	statsCmd.Flags().Int("limit", 10, "Number of recent battles to list")
}

func writeStats(w io.Writer, s store.BattleStats, recent []store.BattleEntry) {
	if s.Battles == 0 {
		fmt.Fprintln(w, "No battles yet. Run `mathquest battle` to fight one.")
		return
	}

	fmt.Fprintf(w, "Battles:    %d (%d won, %d lost, %d retreated)\n", s.Battles, s.Victories, s.Defeats, s.Retreats)
	fmt.Fprintf(w, "Win rate:   %.1f%%\n", s.WinRate())
	fmt.Fprintf(w, "Accuracy:   %.1f%% (%d/%d)\n", s.Accuracy, s.Correct, s.Questions)
	fmt.Fprintf(w, "Best combo: %d\n", s.BestCombo)
	fmt.Fprintf(w, "Damage:     %.1f\n", s.TotalDamage)

	if len(recent) == 0 {
		return
	}
	fmt.Fprintln(w, "\nRecent battles:")
	for _, e := range recent {
		r := e.Record
		fmt.Fprintf(w, "  #%-4d %s  %-11s %3d/%-3d %6s  %s\n",
			e.Sequence,
			r.EndedAt.Local().Format("2006-01-02 15:04"),
			summary.Banner(r.Result),
			r.CorrectCount, r.QuestionCount,
			summary.FormatDuration(r.Duration.Seconds()),
			r.QuestionTypeName,
		)
	}
}
