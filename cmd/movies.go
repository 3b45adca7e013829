package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nikogura/cinescope/pkg/catalog"
)

//nolint:gochecknoglobals // Cobra boilerplate
var moviesSearch string

//nolint:gochecknoglobals // Cobra boilerplate
var moviesGenre string

//nolint:gochecknoglobals // Cobra boilerplate
var moviesTop bool

//nolint:gochecknoglobals // Cobra boilerplate
var moviesLimit int

//nolint:gochecknoglobals // Cobra boilerplate
var moviesCmd = &cobra.Command{
	Use:   "movies",
	Short: "List, search or filter the catalog",
	Long: `List catalog movies. --search matches title or description, --genre
matches a genre exactly, and both may be combined.

Example:
  cinescope movies --genre Comedy
  cinescope movies --search space --limit 5
  cinescope movies --top --limit 10`,
	Args: cobra.NoArgs,
	RunE: runMovies,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(moviesCmd)
	moviesCmd.Flags().StringVar(&moviesSearch, "search", "", "Case-insensitive title or description search")
	moviesCmd.Flags().StringVar(&moviesGenre, "genre", "", "Exact genre filter")
	moviesCmd.Flags().BoolVar(&moviesTop, "top", false, "Sort by rating, highest first")
	moviesCmd.Flags().IntVar(&moviesLimit, "limit", 0, "Maximum number of movies (0 for all)")
}

func runMovies(cmd *cobra.Command, _ []string) (err error) {
	var app *application
	app, err = loadApp(cmd.Context())
	if err != nil {
		return err
	}

	movies := app.store.Find(catalog.Query{
		Search:   moviesSearch,
		Genre:    moviesGenre,
		TopRated: moviesTop,
		Limit:    moviesLimit,
	})

	if getJSONOutput() {
		return printJSON(map[string]interface{}{"count": len(movies), "movies": movies})
	}

	fmt.Printf("%d movie(s)\n", len(movies))
	for _, m := range movies {
		printMovie(m)
	}

	return err
}
