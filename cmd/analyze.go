package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/nikogura/cinescope/pkg/failure"
	"github.com/nikogura/cinescope/pkg/sentiment"
)

//nolint:gochecknoglobals // Cobra boilerplate
var analyzeCmd = &cobra.Command{
	Use:   "analyze [text...]",
	Short: "Score the sentiment of a piece of text",
	Long: `Score the sentiment of text given as arguments, or read from stdin when
no arguments are given.

Example:
  cinescope analyze "I loved this movie, the ending was perfect"
  cat review.txt | cinescope analyze`,
	RunE: runAnalyze,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) (err error) {
	text := strings.Join(args, " ")
	if len(args) == 0 {
		text, err = readAll(cmd.InOrStdin())
		if err != nil {
			return err
		}
	}

	var analyzer *sentiment.Analyzer
	analyzer, err = sentiment.NewAnalyzer()
	if err != nil {
		return err
	}

	var report sentiment.Report
	report, err = analyzer.Analyze(text)
	if err != nil {
		return describeFailure(err)
	}

	if getJSONOutput() {
		return printJSON(report)
	}

	fmt.Printf("%s %s (confidence %.2f%%)\n", report.Emoji, titleCase(report.Sentiment), report.Confidence)
	fmt.Printf("  compound %.4f  positive %.4f  neutral %.4f  negative %.4f\n",
		report.Scores.Compound, report.Scores.Positive, report.Scores.Neutral, report.Scores.Negative)
	fmt.Printf("  polarity %.4f  subjectivity %.4f\n", report.Scores.Polarity, report.Scores.Subjectivity)
	fmt.Printf("  %d characters, %d words\n", report.TextLength, report.WordCount)

	return err
}

func readAll(r io.Reader) (text string, err error) {
	var data []byte
	data, err = io.ReadAll(bufio.NewReader(r))
	if err != nil {
		err = errors.Wrap(err, "failed to read input")
		return text, err
	}
	text = string(data)
	return text, err
}

// describeFailure prints the hint a failure carries and returns it.
func describeFailure(err error) error {
	if fe, ok := failure.As(err); ok && len(fe.Options) > 0 {
		fmt.Fprintf(os.Stderr, "Available: %s\n", strings.Join(fe.Options, ", "))
	}
	return err
}
