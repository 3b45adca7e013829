package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//nolint:gochecknoglobals // Cobra boilerplate
var moodsCmd = &cobra.Command{
	Use:   "moods",
	Short: "List the moods recommendations can be made for",
	Args:  cobra.NoArgs,
	RunE:  runMoods,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(moodsCmd)
}

func runMoods(cmd *cobra.Command, _ []string) (err error) {
	var app *application
	app, err = loadApp(cmd.Context())
	if err != nil {
		return err
	}

	moods := app.recommender.Moods()

	if getJSONOutput() {
		out := make(map[string]interface{}, len(moods))
		for _, m := range moods {
			out[m.Name] = m
		}
		return printJSON(map[string]interface{}{"moods": out})
	}

	for _, m := range moods {
		fmt.Printf("%-10s %s\n", titleCase(m.Name), m.Description)
		fmt.Printf("%-10s %s\n", "", joinGenres(m.Genres))
	}

	return err
}

func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}
