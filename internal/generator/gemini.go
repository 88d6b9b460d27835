package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/genai"

	"github.com/edgard/fitcoachbot/internal/config"
)

// Gemini generates text through Google's Gemini API.
type Gemini struct {
	models  *genai.Models
	model   string
	timeout time.Duration
	clean   bool
	log     *slog.Logger
}

// NewGemini creates a Gemini-backed generator. cfg.Token is the API key and
// cfg.Model the model name.
func NewGemini(ctx context.Context, cfg config.GeneratorConfig, log *slog.Logger) (*Gemini, error) {
	if cfg.Token == "" {
		return nil, errors.New("gemini API key is required")
	}
	if log == nil {
		log = slog.Default()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.Token,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = config.DefaultGeneratorModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultGeneratorTimeout
	}

	logger := log.With("component", "gemini_generator")
	logger.Info("Gemini generator initialized", "model", model, "timeout", timeout)

	return &Gemini{
		models:  client.Models,
		model:   model,
		timeout: timeout,
		clean:   cfg.CleanText,
		log:     logger,
	}, nil
}

// Generate sends prompt as a single user turn.
func (g *Gemini) Generate(ctx context.Context, prompt string, maxTokens int) Result {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	startTime := time.Now()
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		MaxOutputTokens: int32(maxTokens),
	})
	if err != nil {
		g.log.ErrorContext(ctx, "Gemini generation failed", "error", err, "duration", time.Since(startTime))
		return Failed(fmt.Errorf("gemini API call failed: %w", err))
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockedReasonUnspecified {
		err := fmt.Errorf("blocked by safety filter: %v", resp.PromptFeedback.BlockReason)
		g.log.WarnContext(ctx, "Gemini request blocked", "reason", resp.PromptFeedback.BlockReason)
		return Failed(err)
	}

	out, ok := finish(resp.Text(), g.clean)
	if !ok {
		g.log.WarnContext(ctx, "Gemini response is empty", "duration", time.Since(startTime))
		return Failed(ErrEmptyResponse)
	}

	g.log.DebugContext(ctx, "Gemini text generated", "text_length", len(out), "duration", time.Since(startTime))
	return Generated(out)
}
