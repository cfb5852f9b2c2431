package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathquest/internal/problemgen"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a set of questions",
	Example: `  mathquest generate --ops add,sub --max 50 --count 20
  mathquest generate --operands 3 --ops mul,div --json`,
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

		gc := problemgen.DefaultConfig()
		gc.Logger = logger.Named("problemgen")
		var rng *rand.Rand
		if seed, _ := cmd.Flags().GetUint64("seed"); seed != 0 {
			rng = rand.New(rand.NewPCG(seed, seed))
		}
		slots := problemgen.New(rng, gc).GenerateSlots(qc)

		asJSON, _ := cmd.Flags().GetBool("json")
		return writeQuestions(cmd.OutOrStdout(), qc, slots, asJSON)
	},
}

func init() {
	addQuestionFlags(generateCmd)
	generateCmd.Flags().Bool("json", false, "Print questions as JSON")
	generateCmd.Flags().Uint64("seed", 0, "Seed for reproducible output (0 = random)")
}

// addQuestionFlags registers flags that override the configured question set.
func addQuestionFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("ops", nil, "Operations: add, sub, mul, div (or + - × ÷)")
	cmd.Flags().Int("min", 0, "Smallest allowed answer")
	cmd.Flags().Int("max", 0, "Largest allowed answer")
	cmd.Flags().Int("count", 0, "Number of questions")
	cmd.Flags().String("operands", "", "Numbers per question: 2, 3, 4 or mixed")
}

// questionConfigFromFlags starts from the loaded config and applies any
// flags the user set.
func questionConfigFromFlags(cmd *cobra.Command) (problemgen.QuestionConfig, error) {
	qc := appConfig.Questions
	qc.Operations = append([]problemgen.OperationType(nil), qc.Operations...)
	flags := cmd.Flags()

	if flags.Changed("ops") {
		names, _ := flags.GetStringSlice("ops")
		ops, err := problemgen.ParseOperations(names)
		if err != nil {
			return qc, err
		}
		qc.Operations = ops
	}
	if flags.Changed("min") {
		qc.MinValue, _ = flags.GetInt("min")
	}
	if flags.Changed("max") {
		qc.MaxValue, _ = flags.GetInt("max")
	}
	if flags.Changed("count") {
		qc.QuestionCount, _ = flags.GetInt("count")
	}
	if flags.Changed("operands") {
		s, _ := flags.GetString("operands")
		c, err := problemgen.ParseOperandCount(s)
		if err != nil {
			return qc, err
		}
		qc.OperandCount = c
	}
	if err := qc.Validate(); err != nil {
		return qc, fmt.Errorf("invalid question settings: %w", err)
	}
	return qc, nil
}

// generateOutput is the JSON shape printed by generate --json.
type generateOutput struct {
	Config    problemgen.QuestionConfig `json:"config"`
	Questions []problemgen.Question     `json:"questions"`
	Exhausted int                       `json:"exhausted"`
}

func writeQuestions(w io.Writer, qc problemgen.QuestionConfig, slots []problemgen.SlotResult, asJSON bool) error {
	out := generateOutput{Config: qc, Questions: []problemgen.Question{}}
	for _, s := range slots {
		if s.Generated() {
			out.Questions = append(out.Questions, *s.Question)
		} else {
			out.Exhausted++
		}
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Fprintf(w, "%s\n", qc.TypeName())
	fmt.Fprintln(w, strings.Repeat("─", 40))
	for i, q := range out.Questions {
		fmt.Fprintf(w, "%3d.  %-24s = %d\n", i+1, q.Expression, q.Answer)
	}
	if out.Exhausted > 0 {
		fmt.Fprintf(w, "\n%d slot(s) could not be filled for these settings.\n", out.Exhausted)
	}
	fmt.Fprintf(w, "\n%d questions\n", len(out.Questions))
	return nil
}
