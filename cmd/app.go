package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/nikogura/cinescope/pkg/assistant"
	"github.com/nikogura/cinescope/pkg/catalog"
	"github.com/nikogura/cinescope/pkg/config"
	"github.com/nikogura/cinescope/pkg/logging"
	"github.com/nikogura/cinescope/pkg/metrics"
	"github.com/nikogura/cinescope/pkg/ranking"
	"github.com/nikogura/cinescope/pkg/recommend"
	"github.com/nikogura/cinescope/pkg/sentiment"
)

// application bundles the components every command works with.
type application struct {
	cfg         config.Config
	store       *catalog.Store
	recommender *recommend.Recommender
	analyzer    *sentiment.Analyzer
	assistant   *assistant.Assistant
}

// loadApp reads configuration, configures logging and builds the components.
// A missing catalog is not fatal; commands see an empty one.
func loadApp(ctx context.Context) (app *application, err error) {
	var cfg config.Config
	cfg, err = config.Load(getConfigFile())
	if err != nil {
		err = errors.Wrap(err, "failed to load config")
		return app, err
	}

	logCfg := cfg.LoggingSettings()
	if getVerbose() {
		logCfg.Level = "debug"
		logCfg.Format = "console"
	}
	logging.Init(logCfg)

	var table recommend.Table
	table, err = cfg.MoodTable()
	if err != nil {
		err = errors.Wrap(err, "invalid mood table")
		return app, err
	}

	store := catalog.Load(ctx, cfg.Catalog.Location)
	metrics.SetCatalogSize(store.Len())

	var analyzer *sentiment.Analyzer
	analyzer, err = sentiment.NewAnalyzer()
	if err != nil {
		return app, err
	}

	app = &application{
		cfg:         cfg,
		store:       store,
		recommender: recommend.New(store, ranking.NewEngine(nil), table),
		analyzer:    analyzer,
		assistant:   assistant.New(cfg.AssistantSettings(), store.Snapshot(cfg.Assistant.ContextSize)),
	}
	return app, err
}

// printJSON writes v to stdout, indented.
func printJSON(v interface{}) (err error) {
	var data []byte
	data, err = json.MarshalIndent(v, "", "  ")
	if err != nil {
		err = errors.Wrap(err, "failed to marshal output")
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, string(data))
	return err
}

// printMovie prints one catalog entry on a line.
func printMovie(m catalog.Movie) {
	fmt.Printf("  [%d] %s (%d) - %.1f/10 - %s\n", m.ID, m.Title, m.Year, m.Rating, joinGenres(m.Genres))
}

// printScored prints a ranked entry with its score.
func printScored(rank int, m ranking.ScoredMovie) {
	fmt.Printf("  %d. %s (%d) - %.1f/10 - %s [score %.2f, %d matching]\n",
		rank, m.Title, m.Year, m.Rating, joinGenres(m.Genres), m.RecommendationScore, m.MatchingGenres)
	if m.Description != "" && getVerbose() {
		fmt.Printf("     %s\n", m.Description)
	}
}

func joinGenres(genres []string) string {
	return strings.Join(genres, ", ")
}
