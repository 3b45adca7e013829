package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nikogura/cinescope/pkg/logging"
	"github.com/nikogura/cinescope/pkg/server"
)

//nolint:gochecknoglobals // Cobra boilerplate
var servePort int

//nolint:gochecknoglobals // Cobra boilerplate
var serveStaticDir string

//nolint:gochecknoglobals // Cobra boilerplate
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the CineScope HTTP API until interrupted.

Example:
  cinescope serve
  cinescope serve --port 8080 --static ./web`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Listen port (default from config)")
	serveCmd.Flags().StringVar(&serveStaticDir, "static", "", "Directory of front-end files to serve at /")
}

// errShutdown ends the serve group when a stop signal arrives.
//
//nolint:gochecknoglobals // sentinel error
var errShutdown = errors.New("shutdown requested")

func runServe(cmd *cobra.Command, _ []string) (err error) {
	var app *application
	app, err = loadApp(cmd.Context())
	if err != nil {
		return err
	}

	serverCfg := app.cfg.Server
	if servePort != 0 {
		serverCfg.Port = servePort
	}
	if serveStaticDir != "" {
		serverCfg.StaticDir = serveStaticDir
	}

	srv := server.New(serverCfg, server.Deps{
		Recommender: app.recommender,
		Analyzer:    app.analyzer,
		Assistant:   app.assistant,
	})

	logging.Info().
		Int("movies", app.store.Len()).
		Bool("assistant", app.assistant.Available()).
		Str("addr", srv.Addr()).
		Msg("starting cinescope")

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)

	err = serveUntilSignal(cmd.Context(), srv.Run, sigs)
	return err
}

// serveUntilSignal runs run until a signal arrives on sigs or run fails. A
// signal cancels run's context and counts as a clean stop.
func serveUntilSignal(ctx context.Context, run func(context.Context) error, sigs <-chan os.Signal) (err error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return run(gctx)
	})
	g.Go(func() error {
		select {
		case sig := <-sigs:
			logging.Info().Str("signal", sig.String()).Msg("shutdown requested")
			return errShutdown
		case <-gctx.Done():
			return nil
		}
	})

	err = g.Wait()
	if errors.Is(err, errShutdown) || errors.Is(err, context.Canceled) {
		err = nil
	}
	return err
}
