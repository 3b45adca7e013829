package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nikogura/cinescope/pkg/recommend"
)

//nolint:gochecknoglobals // Cobra boilerplate
var recommendLimit int

//nolint:gochecknoglobals // Cobra boilerplate
var recommendCmd = &cobra.Command{
	Use:   "recommend <mood>",
	Short: "Recommend movies for a mood",
	Long: `Recommend movies from the catalog that suit a mood.

Run 'cinescope moods' to list the moods.

Example:
  cinescope recommend happy
  cinescope recommend excited --limit 3`,
	Args: cobra.ExactArgs(1),
	RunE: runRecommend,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(recommendCmd)
	recommendCmd.Flags().IntVar(&recommendLimit, "limit", recommend.DefaultMoodLimit, "Maximum number of recommendations")
}

func runRecommend(cmd *cobra.Command, args []string) (err error) {
	var app *application
	app, err = loadApp(cmd.Context())
	if err != nil {
		return err
	}

	var report recommend.MoodReport
	report, err = app.recommender.Recommend(args[0], recommendLimit)
	if err != nil {
		return describeFailure(err)
	}

	if getJSONOutput() {
		return printJSON(report)
	}

	fmt.Printf("%s: %s\n", titleCase(report.Mood), report.Description)
	fmt.Printf("Genres: %s\n\n", joinGenres(report.Genres))

	if report.Count == 0 {
		fmt.Println("No movies in the catalog match this mood.")
		return err
	}

	for i, m := range report.Recommendations {
		printScored(i+1, m)
	}

	return err
}
