package generator

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/edgard/fitcoachbot/internal/config"
	"github.com/edgard/fitcoachbot/internal/resilience"
)

// Guarded retries transient failures of an inner Generator and stops calling
// it while its circuit is open, so callers fall back without waiting out a
// timeout on every message.
type Guarded struct {
	inner   Generator
	breaker *resilience.CircuitBreaker
	retry   resilience.RetryConfig
	log     *slog.Logger
}

// NewGuarded wraps inner. A zero cfg.Breaker.MaxFailures disables the breaker.
func NewGuarded(inner Generator, cfg config.GeneratorConfig, log *slog.Logger) *Guarded {
	log = log.With("component", "guarded_generator")

	g := &Guarded{
		inner: inner,
		retry: resilience.RetryConfig{
			MaxAttempts:     max(cfg.Retry.Attempts, 1),
			InitialInterval: cfg.Retry.Backoff,
			Multiplier:      2,
			RandomFactor:    0.1,
		},
		log: log,
	}
	if cfg.Breaker.MaxFailures > 0 {
		g.breaker = resilience.NewCircuitBreaker(resilience.BreakerConfig{
			Name:         "generator",
			MaxFailures:  cfg.Breaker.MaxFailures,
			ResetTimeout: cfg.Breaker.ResetTimeout,
			Logger:       log,
		})
	}
	return g
}

// Generate implements Generator.
func (g *Guarded) Generate(ctx context.Context, prompt string, maxTokens int) Result {
	var res Result
	attempt := func(ctx context.Context) error {
		res = g.inner.Generate(ctx, prompt, maxTokens)
		return res.Err()
	}

	call := func(ctx context.Context) error {
		return resilience.WithRetry(ctx, attempt, g.retry, Transient)
	}

	var err error
	if g.breaker != nil {
		err = g.breaker.Execute(ctx, call)
	} else {
		err = call(ctx)
	}

	if err == nil {
		return res
	}
	if resilience.Rejected(err) {
		g.log.DebugContext(ctx, "Generator circuit open, skipping call")
	}
	return Failed(err)
}

// Transient reports whether a generation failure is worth retrying: rate
// limiting, upstream 5xx (including a model that is still loading) and timeouts.
func Transient(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode == http.StatusTooManyRequests || se.StatusCode >= http.StatusInternalServerError
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
