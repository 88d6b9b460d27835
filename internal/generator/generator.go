// Package generator wraps the external text-generation service. A Generator
// issues one blocking call per prompt and reports the outcome as a Result;
// it never returns an error and never substitutes fallback text itself.
package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/edgard/fitcoachbot/internal/config"
	"github.com/edgard/fitcoachbot/internal/text"
)

var (
	// ErrUnrecognizedResponse is returned when the service answers with a
	// JSON shape that carries no generated_text.
	ErrUnrecognizedResponse = errors.New("unrecognized response shape")
	// ErrEmptyResponse is returned when the service answers with empty text.
	ErrEmptyResponse = errors.New("empty generated text")
)

// StatusError reports a non-2xx answer from the generation endpoint.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("generation endpoint returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("generation endpoint returned status %d: %s", e.StatusCode, e.Message)
}

// Generator produces text for a prompt within a max_new_tokens budget.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) Result
}

// finish applies the optional cleanup to raw and reports whether any
// non-whitespace text is left. Without cleanup raw is returned unchanged.
func finish(raw string, clean bool) (string, bool) {
	if clean {
		raw = text.Clean(raw)
	}
	return raw, strings.TrimSpace(raw) != ""
}

// New creates the Generator selected by cfg.Provider, wrapped in a Guarded
// when cfg enables retries or the circuit breaker.
func New(ctx context.Context, cfg config.GeneratorConfig, log *slog.Logger) (Generator, error) {
	if log == nil {
		log = slog.Default()
	}

	var (
		gen Generator
		err error
	)
	switch cfg.Provider {
	case "", "huggingface":
		gen, err = NewHuggingFace(cfg, log)
	case "gemini":
		gen, err = NewGemini(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("unknown generator provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Breaker.MaxFailures > 0 || cfg.Retry.Attempts > 1 {
		return NewGuarded(gen, cfg, log), nil
	}
	return gen, nil
}
