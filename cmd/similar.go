package cmd

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/nikogura/cinescope/pkg/recommend"
)

//nolint:gochecknoglobals // Cobra boilerplate
var similarLimit int

//nolint:gochecknoglobals // Cobra boilerplate
var similarCmd = &cobra.Command{
	Use:   "similar <movie-id>",
	Short: "Find movies similar to a catalog entry",
	Long: `Find catalog movies that share genres with the given movie.

Example:
  cinescope similar 3
  cinescope similar 3 --limit 10`,
	Args: cobra.ExactArgs(1),
	RunE: runSimilar,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(similarCmd)
	similarCmd.Flags().IntVar(&similarLimit, "limit", recommend.DefaultSimilarLimit, "Maximum number of similar movies")
}

func runSimilar(cmd *cobra.Command, args []string) (err error) {
	var id int
	id, err = strconv.Atoi(args[0])
	if err != nil {
		err = errors.Errorf("movie id must be an integer: %s", args[0])
		return err
	}

	var app *application
	app, err = loadApp(cmd.Context())
	if err != nil {
		return err
	}

	var report recommend.SimilarReport
	report, err = app.recommender.Similar(id, similarLimit)
	if err != nil {
		return describeFailure(err)
	}

	if getJSONOutput() {
		return printJSON(report)
	}

	fmt.Println("Movies similar to:")
	printMovie(report.Original)
	fmt.Println()

	if len(report.Similar) == 0 {
		fmt.Println("No similar movies found.")
		return err
	}

	for i, m := range report.Similar {
		printScored(i+1, m)
	}

	return err
}
