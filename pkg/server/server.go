// Package server exposes CineScope over HTTP.
package server

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nikogura/cinescope/pkg/assistant"
	"github.com/nikogura/cinescope/pkg/catalog"
	"github.com/nikogura/cinescope/pkg/config"
	"github.com/nikogura/cinescope/pkg/logging"
	"github.com/nikogura/cinescope/pkg/recommend"
	"github.com/nikogura/cinescope/pkg/sentiment"
)

// Recommender serves mood and similarity requests and exposes the catalog.
type Recommender interface {
	Recommend(mood string, limit int) (recommend.MoodReport, error)
	Similar(movieID int, limit int) (recommend.SimilarReport, error)
	Moods() []recommend.MoodSummary
	MoodNames() []string
	Store() *catalog.Store
}

// Analyzer scores text.
type Analyzer interface {
	Analyze(text string) (sentiment.Report, error)
}

// Assistant answers conversational requests.
type Assistant interface {
	Chat(ctx context.Context, message string, history []assistant.Turn) (assistant.Reply, error)
}

// Deps are the components the handlers call.
type Deps struct {
	Recommender Recommender
	Analyzer    Analyzer
	Assistant   Assistant
}

// Server is the HTTP front end. Components are shared across requests and
// must be safe for concurrent use.
type Server struct {
	cfg         config.ServerConfig
	recommender Recommender
	analyzer    Analyzer
	assistant   Assistant
	router      chi.Router
}

// New builds a Server and its routes.
func New(cfg config.ServerConfig, deps Deps) (s *Server) {
	s = &Server{
		cfg:         cfg,
		recommender: deps.Recommender,
		analyzer:    deps.Analyzer,
		assistant:   deps.Assistant,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(accessLog)
	r.Use(recoverer)
	r.Use(corsHandler(s.cfg.CORSOrigins))

	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Use(rateLimit(s.cfg.RateLimit))

		r.Post("/analyze_sentiment", s.handleAnalyzeSentiment)
		r.Post("/get_recommendations", s.handleRecommendations)
		r.Get("/movies", s.handleMovies)
		r.Get("/movies/top", s.handleTopMovies)
		r.Get("/moods", s.handleMoods)
		r.Get("/movie/{id}", s.handleMovie)
		r.Get("/similar/{id}", s.handleSimilar)
		r.Post("/ask_ai", s.handleAskAI)
		r.Get("/health", s.handleHealth)
	})

	if s.cfg.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(s.cfg.StaticDir)))
	}

	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr is the listen address.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
}

// Run serves until ctx is cancelled, then shuts down gracefully within the
// configured shutdown timeout.
func (s *Server) Run(ctx context.Context) (err error) {
	srv := &http.Server{
		Addr:              s.Addr(),
		Handler:           s.router,
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      s.cfg.WriteTimeout,
		IdleTimeout:       2 * time.Minute,
	}

	var ln net.Listener
	ln, err = net.Listen("tcp", srv.Addr)
	if err != nil {
		err = errors.Wrapf(err, "failed to listen on %s", srv.Addr)
		return err
	}

	logging.Info().Str("addr", ln.Addr().String()).Msg("http server listening")

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(ln)
	}()

	select {
	case err = <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	logging.Info().Dur("timeout", timeout).Msg("shutting down http server")
	err = srv.Shutdown(shutdownCtx)
	if err != nil {
		err = errors.Wrap(err, "graceful shutdown failed")
		return err
	}

	err = <-serveErr
	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}
	return err
}
