// Package logging configures the process-wide zerolog logger.
//
// Call Init once from the command that owns the process; before that the
// logger writes JSON at info level to stderr.
//
//	logging.Init(logging.Config{Level: "debug", Format: "console"})
//	logging.Info().Int("movies", n).Msg("catalog loaded")
//	logging.Ctx(ctx).Warn().Err(err).Msg("assistant call failed")
package logging

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logging configuration.
type Config struct {
	// Level is the minimum level: trace, debug, info, warn, error, disabled.
	Level string
	// Format is json or console.
	Format string
	// Caller adds file:line to every event.
	Caller bool
	// Output defaults to os.Stderr.
	Output io.Writer
}

//nolint:gochecknoglobals // process-wide logger
var (
	log zerolog.Logger
	mu  sync.RWMutex
)

//nolint:gochecknoinits // logging must work before Init is called
func init() {
	configure(Config{})
}

// Init reconfigures the global logger. Safe to call more than once.
func Init(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	configure(cfg)
}

// configure must be called with mu held (or from init).
func configure(cfg Config) {
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	zerolog.SetGlobalLevel(ParseLevel(cfg.Level))
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.MessageFieldName = "message"

	output := cfg.Output
	if strings.EqualFold(cfg.Format, "console") {
		output = zerolog.ConsoleWriter{Out: cfg.Output, TimeFormat: "15:04:05"}
	}

	ctx := zerolog.New(output).With().Timestamp()
	if cfg.Caller {
		ctx = ctx.Caller()
	}
	log = ctx.Logger()
}

// ParseLevel converts a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) (lvl zerolog.Level) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		lvl = zerolog.TraceLevel
	case "debug":
		lvl = zerolog.DebugLevel
	case "warn", "warning":
		lvl = zerolog.WarnLevel
	case "error":
		lvl = zerolog.ErrorLevel
	case "disabled", "off":
		lvl = zerolog.Disabled
	default:
		lvl = zerolog.InfoLevel
	}
	return lvl
}

// ValidLevel reports whether ParseLevel understands level.
func ValidLevel(level string) (ok bool) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "disabled", "off":
		ok = true
	}
	return ok
}

// Logger returns a copy of the global logger.
func Logger() (l zerolog.Logger) {
	mu.RLock()
	defer mu.RUnlock()
	l = log
	return l
}

// Debug starts a debug event.
func Debug() *zerolog.Event {
	l := Logger()
	return l.Debug()
}

// Info starts an info event.
func Info() *zerolog.Event {
	l := Logger()
	return l.Info()
}

// Warn starts a warning event.
func Warn() *zerolog.Event {
	l := Logger()
	return l.Warn()
}

// Error starts an error event.
func Error() *zerolog.Event {
	l := Logger()
	return l.Error()
}

type requestIDKey struct{}

// WithRequestID stores a request id for Ctx to pick up.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestID returns the request id stored in ctx, if any.
func RequestID(ctx context.Context) (id string) {
	if ctx == nil {
		return id
	}
	id, _ = ctx.Value(requestIDKey{}).(string)
	return id
}

// Ctx returns the global logger annotated with the request id from ctx.
func Ctx(ctx context.Context) *zerolog.Logger {
	l := Logger()
	if id := RequestID(ctx); id != "" {
		l = l.With().Str("request_id", id).Logger()
	}
	return &l
}
