package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/mathquest/internal/problemgen"
	"github.com/abhisek/mathquest/internal/store"
)

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Answer a set of questions on the command line",
	Long:  "Asks each question in turn and scores your answers. Type q to stop early.",
	RunE: func(cmd *cobra.Command, args []string) error {
		qc, err := questionConfigFromFlags(cmd)
		if err != nil {
			return err
		}

		logger, err := newLogger(false)
		if err != nil {
			return err
		}
		defer logger.Sync()

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		slots := generatorFactory(logger)().GenerateSlots(qc)
		data := runQuiz(cmd.InOrStdin(), cmd.OutOrStdout(), qc, slots, time.Now)
		if len(data.Answers) == 0 {
			return nil
		}
		if err := st.PracticeRepo().AppendPractice(cmd.Context(), data); err != nil {
			logger.Warn("failed to save practice session", zap.Error(err))
			return fmt.Errorf("save practice session: %w", err)
		}
		return nil
	},
}

func init() {
	addQuestionFlags(practiceCmd)
}

// runQuiz asks every generated question read from in and returns the
// finished session. Exhausted slots are skipped.
func runQuiz(in io.Reader, out io.Writer, qc problemgen.QuestionConfig, slots []problemgen.SlotResult, now func() time.Time) store.PracticeData {
	data := store.PracticeData{
		ID:        uuid.New().String(),
		Config:    qc,
		Requested: len(slots),
		StartedAt: now(),
	}
	var questions []*problemgen.Question
	for _, s := range slots {
		if s.Generated() {
			questions = append(questions, s.Question)
		}
	}
	data.Generated = len(questions)

	if len(questions) == 0 {
		fmt.Fprintln(out, "No questions could be generated for these settings.")
		data.EndedAt = now()
		return data
	}

	fmt.Fprintf(out, "%s: %d questions (q to quit)\n\n", qc.TypeName(), len(questions))
	scanner := bufio.NewScanner(in)
	for i, q := range questions {
		fmt.Fprintf(out, "[%d/%d] %s = ", i+1, len(questions), q.Expression)
		asked := now()
		if !scanner.Scan() {
			fmt.Fprintln(out)
			break
		}
		given := strings.TrimSpace(scanner.Text())
		if strings.EqualFold(given, "q") {
			break
		}
		correct := problemgen.CheckAnswer(given, q)
		data.Answers = append(data.Answers, store.PracticeAnswer{
			QuestionID: q.ID,
			Expression: q.Expression,
			Answer:     q.Answer,
			Given:      given,
			Correct:    correct,
			TimeMs:     now().Sub(asked).Milliseconds(),
		})
		if correct {
			data.Correct++
			fmt.Fprintln(out, "  ✓ correct")
		} else {
			fmt.Fprintf(out, "  ✗ the answer is %d\n", q.Answer)
		}
	}
	data.EndedAt = now()

	fmt.Fprintf(out, "\nScore: %d/%d", data.Correct, len(data.Answers))
	if n := len(data.Answers); n > 0 {
		fmt.Fprintf(out, " (%.0f%%)", float64(data.Correct)/float64(n)*100)
	}
	fmt.Fprintln(out)
	return data
}

