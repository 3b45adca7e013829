package assistant

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/nikogura/cinescope/pkg/catalog"
	"github.com/nikogura/cinescope/pkg/failure"
	"github.com/nikogura/cinescope/pkg/logging"
	"github.com/nikogura/cinescope/pkg/metrics"
)

// Defaults applied to zero Config fields.
const (
	DefaultMaxTokens       = 300
	DefaultTemperature     = 0.7
	DefaultTimeout         = 30 * time.Second
	DefaultContextSize     = 20
	DefaultBreakerFailures = 5
	DefaultBreakerCooldown = 30 * time.Second
)

const breakerName = "assistant"

// Config controls the hosted model call.
type Config struct {
	APIKey          string
	Model           string
	Endpoint        string
	MaxTokens       int
	Temperature     float64
	Timeout         time.Duration
	ContextSize     int
	BreakerFailures uint32
	BreakerCooldown time.Duration
}

// Assistant answers movie questions. The system prompt is fixed at
// construction, so later catalog changes are not reflected.
type Assistant struct {
	cfg     Config
	client  *Client
	breaker *gobreaker.CircuitBreaker[string]
	system  string
}

// New builds an Assistant grounded on the first ContextSize movies of
// snapshot. Without an API key the assistant reports itself unavailable.
func New(cfg Config, snapshot []catalog.Movie) (a *Assistant) {
	cfg = withDefaults(cfg)

	if len(snapshot) > cfg.ContextSize {
		snapshot = snapshot[:cfg.ContextSize]
	}

	a = &Assistant{
		cfg:    cfg,
		system: buildSystemPrompt(snapshot),
	}

	if cfg.APIKey == "" {
		logging.Warn().Msg("no model API key configured, assistant disabled")
		return a
	}

	a.client = NewClient(cfg.APIKey, cfg.Model, cfg.Endpoint, cfg.Timeout)
	a.breaker = newBreaker(cfg)
	return a
}

func withDefaults(cfg Config) Config {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.ContextSize <= 0 {
		cfg.ContextSize = DefaultContextSize
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = DefaultBreakerFailures
	}
	if cfg.BreakerCooldown <= 0 {
		cfg.BreakerCooldown = DefaultBreakerCooldown
	}
	return cfg
}

func newBreaker(cfg Config) *gobreaker.CircuitBreaker[string] {
	metrics.SetCircuitBreakerState(breakerName, 0)

	return gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
			metrics.SetCircuitBreakerState(name, stateToFloat(to))
		},
		// Bad credentials and caller cancellation say nothing about provider health.
		IsSuccessful: func(err error) bool {
			if err == nil || errors.Is(err, context.Canceled) {
				return true
			}
			var apiErr *APIError
			if errors.As(err, &apiErr) && isCredentialError(apiErr) {
				return true
			}
			return false
		},
	})
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// Available reports whether a model API key is configured.
func (a *Assistant) Available() bool {
	return a.client != nil
}

// SystemPrompt returns the grounding prompt sent with every request.
func (a *Assistant) SystemPrompt() string {
	return a.system
}

// Chat sends message, preceded by history, to the model. When the assistant is
// unavailable the reply explains so and err is nil. On failure the reply still
// carries text suitable for display and err is a classified failure.
func (a *Assistant) Chat(ctx context.Context, message string, history []Turn) (reply Reply, err error) {
	if !a.Available() {
		metrics.RecordAssistant("unavailable", 0)
		reply = Reply{Response: UnavailableText}
		return reply, err
	}

	reply.Available = true

	if strings.TrimSpace(message) == "" {
		err = failure.New(failure.KindValidation, "Message is required")
		reply.Response = GenericFailureText
		return reply, err
	}

	messages := buildMessages(message, history)

	start := time.Now()
	var text string
	text, err = a.breaker.Execute(func() (string, error) {
		return a.client.Send(ctx, a.system, messages, a.cfg.MaxTokens, a.cfg.Temperature)
	})
	elapsed := time.Since(start)

	if err != nil {
		fe, fallback := classify(err)
		metrics.RecordAssistant(string(fe.Kind), elapsed)
		logging.Ctx(ctx).Warn().Err(err).Str("kind", string(fe.Kind)).Msg("assistant request failed")
		reply.Response = fallback
		err = fe
		return reply, err
	}

	metrics.RecordAssistant("ok", elapsed)
	reply.Response = text
	reply.Success = true
	return reply, err
}

// buildMessages keeps user and assistant turns, drops anything before the
// first user turn, and appends message.
func buildMessages(message string, history []Turn) (messages []Message) {
	messages = make([]Message, 0, len(history)+1)
	for _, turn := range history {
		if turn.Role != RoleUser && turn.Role != RoleAssistant {
			continue
		}
		if strings.TrimSpace(turn.Content) == "" {
			continue
		}
		if len(messages) == 0 && turn.Role != RoleUser {
			continue
		}
		messages = append(messages, Message{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, Message{Role: RoleUser, Content: message})
	return messages
}

func isCredentialError(e *APIError) bool {
	return e.StatusCode == 401 || e.StatusCode == 403 ||
		e.Type == "authentication_error" || e.Type == "permission_error"
}

func isRateLimitError(e *APIError) bool {
	return e.StatusCode == 429 || e.Type == "rate_limit_error"
}

// classify maps a model call failure to a failure kind and a display text.
func classify(err error) (fe *failure.Error, fallback string) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch {
		case isCredentialError(apiErr):
			fe = failure.Wrap(failure.KindInvalidCredential, err, "Invalid API key")
			fallback = InvalidKeyText
			return fe, fallback
		case isRateLimitError(apiErr):
			fe = failure.Wrap(failure.KindRateLimited, err, "Rate limit exceeded")
			fallback = RateLimitedText
			return fe, fallback
		}
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		fe = failure.Wrap(failure.KindUpstream, err, "API error: assistant temporarily unavailable")
		fallback = GenericFailureText
		return fe, fallback
	}

	fe = failure.Wrap(failure.KindUpstream, err, "API error: "+err.Error())
	fallback = GenericFailureText
	return fe, fallback
}
