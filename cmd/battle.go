package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/mathquest/internal/battle"
	"github.com/abhisek/mathquest/internal/problemgen"
	"github.com/abhisek/mathquest/internal/screens/summary"
)

var battleCmd = &cobra.Command{
	Use:   "battle",
	Short: "Fight a timed battle on the command line",
	Long:  "Answer questions before the timer runs out to damage the enemy. Type q to retreat.",
	RunE: func(cmd *cobra.Command, args []string) error {
		qc, err := questionConfigFromFlags(cmd)
		if err != nil {
			return err
		}
		bc := appConfig.Battle
		if cmd.Flags().Changed("enemy-hp") {
			bc.EnemyHP, _ = cmd.Flags().GetFloat64("enemy-hp")
		}
		if cmd.Flags().Changed("question-time") {
			bc.QuestionTime, _ = cmd.Flags().GetFloat64("question-time")
		}
		if err := bc.Validate(); err != nil {
			return fmt.Errorf("invalid battle settings: %w", err)
		}

		logger, err := newLogger(true)
		if err != nil {
			return err
		}
		defer logger.Sync()

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		bs := battleSession{
			Config:    bc,
			Questions: qc,
			Settings:  appConfig.Settings,
			Sounds:    battle.NopSounds{},
			Logger:    logger,
		}
		if appConfig.Settings.SoundEnabled {
			bs.Sounds = battle.NewBellSounds(os.Stderr)
		}
		rec, err := playBattle(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), bs)
		if err != nil {
			return err
		}
		if rec.StartedAt.IsZero() {
			return nil
		}
		if err := st.BattleRepo().Save(context.Background(), rec); err != nil {
			logger.Warn("failed to save battle", zap.String("battle_id", rec.ID), zap.Error(err))
			return fmt.Errorf("save battle: %w", err)
		}
		return nil
	},
}

func init() {
	addQuestionFlags(battleCmd)
	battleCmd.Flags().Float64("enemy-hp", 0, "Enemy starting HP")
	battleCmd.Flags().Float64("question-time", 0, "Seconds to answer each question")
}

// battleSession is everything playBattle needs to run one battle.
type battleSession struct {
	Config    battle.Config
	Questions problemgen.QuestionConfig
	Settings  battle.Settings
	Sounds    battle.SoundHooks
	Logger    *zap.Logger
}

// playBattle runs one battle against answers read from in and returns the
// final record. Cancelling ctx retreats.
func playBattle(ctx context.Context, in io.Reader, out io.Writer, bs battleSession) (battle.Record, error) {
	if bs.Sounds == nil {
		bs.Sounds = battle.NopSounds{}
	}
	if bs.Logger == nil {
		bs.Logger = zap.NewNop()
	}

	ended := make(chan battle.Record, 1)
	gc := problemgen.DefaultConfig()
	gc.Logger = bs.Logger.Named("problemgen")
	engine := battle.New(bs.Config, bs.Questions.TypeID(), bs.Questions.TypeName(),
		battle.GeneratorSupplier(problemgen.New(nil, gc), bs.Questions, bs.Config.QuestionCount),
		battle.WithLogger(bs.Logger.Named("battle")),
		battle.WithSettings(bs.Settings),
		battle.WithSounds(bs.Sounds),
		battle.WithOnEnd(func(rec battle.Record) {
			select {
			case ended <- rec:
			default:
			}
		}),
	)
	runner := battle.NewRunner(engine, 0)

	// The runner outlives ctx so an interrupted battle can still retreat.
	runCtx, stopRunner := context.WithCancel(context.Background())
	defer stopRunner()

	lines := make(chan string)
	go readLines(runCtx, in, lines)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := runner.Run(runCtx); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	var rec battle.Record
	g.Go(func() error {
		defer stopRunner()
		p := newBattlePrinter(out)
		if err := runner.Start(gctx); err != nil {
			return err
		}

		retreat := func() error {
			r, err := runner.Retreat(runCtx)
			if err != nil {
				return err
			}
			rec = r
			drainUpdates(runner, p)
			p.Summary(rec)
			return nil
		}

		for {
			select {
			case <-gctx.Done():
				return retreat()
			case s, ok := <-runner.Updates():
				if !ok {
					return nil
				}
				p.Print(s)
			case r := <-ended:
				rec = r
				drainUpdates(runner, p)
				p.Summary(rec)
				return nil
			case line, ok := <-lines:
				if !ok || strings.EqualFold(line, "q") {
					return retreat()
				}
				if line == "" {
					continue
				}
				answer, err := problemgen.ParseAnswer(line)
				if err != nil {
					fmt.Fprintln(out, "  enter a whole number, or q to retreat")
					continue
				}
				if _, err := runner.Submit(gctx, answer); err != nil {
					if gctx.Err() != nil {
						return retreat()
					}
					return err
				}
			}
		}
	})

	if err := g.Wait(); err != nil {
		return rec, err
	}
	return rec, nil
}

// drainUpdates prints a pending snapshot, if any, so the final log lines are
// shown before the summary.
func drainUpdates(r *battle.Runner, p *battlePrinter) {
	select {
	case s, ok := <-r.Updates():
		if ok {
			p.Print(s)
		}
	default:
	}
}

// readLines forwards trimmed lines from in and closes out at EOF.
func readLines(ctx context.Context, in io.Reader, out chan<- string) {
	defer close(out)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		select {
		case out <- strings.TrimSpace(scanner.Text()):
		case <-ctx.Done():
			return
		}
	}
}

// battlePrinter writes the parts of each snapshot that changed since the
// previous one.
type battlePrinter struct {
	w          io.Writer
	countdown  int
	questionID string
	logLen     int
}

func newBattlePrinter(w io.Writer) *battlePrinter {
	return &battlePrinter{w: w, countdown: -1}
}

func (p *battlePrinter) Print(s battle.State) {
	if s.Phase == battle.PhasePreparing && s.PrepareRemaining != p.countdown {
		p.countdown = s.PrepareRemaining
		fmt.Fprintf(p.w, "Get ready... %d\n", s.PrepareRemaining)
	}

	// A new battle restarts the log.
	if len(s.Log) < p.logLen {
		p.logLen = 0
	}
	for _, entry := range s.Log[p.logLen:] {
		fmt.Fprintf(p.w, "  %s %s\n", logMarker(entry.Kind), entry.Message)
	}
	p.logLen = len(s.Log)

	if s.Phase == battle.PhaseAnswering && s.CurrentQuestion != nil && s.CurrentQuestion.ID != p.questionID {
		p.questionID = s.CurrentQuestion.ID
		fmt.Fprintf(p.w, "\nYOU %5.1f HP | ENEMY %5.1f HP | ATK %.1f | COMBO %d\n",
			s.PlayerHP, s.EnemyHP, s.EnemyAttack, s.Combo)
		fmt.Fprintf(p.w, "%s = ? (%.0fs)\n", s.CurrentQuestion.Expression, s.TimeRemaining)
	}
}

func (p *battlePrinter) Summary(rec battle.Record) {
	fmt.Fprintf(p.w, "\n%s\n", summary.Banner(rec.Result))
	fmt.Fprintf(p.w, "  correct   %d/%d (%.1f%%)\n", rec.CorrectCount, rec.QuestionCount, rec.Accuracy)
	fmt.Fprintf(p.w, "  max combo %d\n", rec.MaxCombo)
	fmt.Fprintf(p.w, "  damage    %.1f\n", rec.TotalDamage)
	fmt.Fprintf(p.w, "  time      %s\n", summary.FormatDuration(rec.Duration.Seconds()))
}

func logMarker(k battle.LogKind) string {
	switch k {
	case battle.LogCorrect, battle.LogVictory:
		return "✓"
	case battle.LogWrong, battle.LogDefeat:
		return "✗"
	case battle.LogTimeout:
		return "⏱"
	case battle.LogAttack:
		return "⚔"
	default:
		return "·"
	}
}
