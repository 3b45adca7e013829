package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nikogura/cinescope/pkg/config"
)

//nolint:gochecknoglobals // Cobra boilerplate
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter configuration file",
	Long: `Write a starter configuration file with every default and the built-in
moods filled in, at --config or $HOME/.cinescope/config.yaml.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(_ *cobra.Command, _ []string) (err error) {
	var path string
	path, err = config.InitConfig(getConfigFile())
	if err != nil {
		return err
	}

	fmt.Printf("Configuration written to %s\n", path)
	fmt.Println("Set catalog.location to your movies.json and ANTHROPIC_API_KEY to enable the assistant.")
	return err
}
