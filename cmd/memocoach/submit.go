package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/memoai-dev/memocoach"
	"github.com/memoai-dev/memocoach/pkg/service"
	"github.com/spf13/cobra"
)

func submitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "submit [file]",
		Short: "Submit text for automated scoring",
		Long: `Reads the text from the given file, or from stdin when no file is
given, submits it for evaluation and prints the scored result.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw []byte
			var err error
			if len(args) == 1 {
				raw, err = os.ReadFile(args[0])
			} else {
				raw, err = io.ReadAll(os.Stdin)
			}
			if err != nil {
				return err
			}
			text := strings.TrimSpace(string(raw))
			if text == "" {
				return fmt.Errorf("nothing to submit")
			}

			return withSession(cmd.Context(), func(app *memocoach.App) error {
				record, err := app.Evaluations.Submit(cmd.Context(), text)
				if err != nil {
					return err
				}
				printEvaluation(record)
				return nil
			})
		},
	}
}

func evaluationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluation",
		Short: "Inspect evaluations",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Fetch an evaluation by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(app *memocoach.App) error {
				res, err := app.EvaluationAPI.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !res.Success {
					return fmt.Errorf("fetch failed: %s", res.Error)
				}
				var payload service.EvaluationPayload
				if err := res.Decode(&payload); err != nil {
					return err
				}
				printEvaluation(&payload.Evaluation)
				return nil
			})
		},
	})
	return cmd
}

func printEvaluation(e *service.EvaluationRecord) {
	success("evaluation %s", e.ID)
	info("overall score:   %.1f", e.OverallScore)
	info("processing time: %.1fs", e.ProcessingTime)
	if len(e.Strengths) > 0 {
		info("strengths:")
		for _, s := range e.Strengths {
			info("  - %s", s)
		}
	}
	if len(e.Opportunities) > 0 {
		info("opportunities:")
		for _, o := range e.Opportunities {
			info("  - %s", o)
		}
	}
	if len(e.RubricScores) > 0 {
		keys := make([]string, 0, len(e.RubricScores))
		for k := range e.RubricScores {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		info("rubric criteria: %s", strings.Join(keys, ", "))
	}
}
