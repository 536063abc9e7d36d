package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"eco-service/internal/scoring"
)

func newScoreCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "score <answers-file>",
		Short: "Score a YAML or JSON answers file (use - for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			answers, err := readAnswers(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			result, err := scoring.ComputeScore(answers)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			return printResult(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

// readAnswers decodes a flat question -> option mapping. JSON input is valid
// YAML, so one decoder serves both.
func readAnswers(stdin io.Reader, path string) (scoring.Answers, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, errors.Wrap(err, "could not read answers")
	}

	var answers scoring.Answers
	if err = yaml.Unmarshal(data, &answers); err != nil {
		return nil, errors.Wrap(err, "could not parse answers")
	}
	return answers, nil
}

func printResult(w io.Writer, result scoring.Result) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "transportation\t%d\n", result.Scores.Transportation)
	fmt.Fprintf(tw, "energy\t%d\n", result.Scores.Energy)
	fmt.Fprintf(tw, "diet\t%d\n", result.Scores.Diet)
	fmt.Fprintf(tw, "waste\t%d\n", result.Scores.Waste)
	fmt.Fprintf(tw, "total\t%d\n", result.TotalScore)
	fmt.Fprintf(tw, "category\t%s\n", result.Category)
	fmt.Fprintf(tw, "table version\t%d\n", result.TableVersion)
	return tw.Flush()
}
