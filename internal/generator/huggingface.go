package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/edgard/fitcoachbot/internal/config"
	"github.com/edgard/fitcoachbot/internal/text"
)

const maxResponseBytes = 1 << 20

// HuggingFace calls a hosted-inference text-generation endpoint.
type HuggingFace struct {
	httpClient *http.Client
	endpoint   string
	token      string
	stripEcho  bool
	cleanText  bool
	log        *slog.Logger
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfParameters struct {
	MaxNewTokens int `json:"max_new_tokens"`
}

type hfOutput struct {
	GeneratedText *string `json:"generated_text"`
}

type hfError struct {
	Error string `json:"error"`
}

// NewHuggingFace creates a client for cfg.Endpoint authenticated with cfg.Token.
// Every call is bounded by cfg.Timeout.
func NewHuggingFace(cfg config.GeneratorConfig, log *slog.Logger) (*HuggingFace, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("generation endpoint is required")
	}
	if log == nil {
		log = slog.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultGeneratorTimeout
	}

	logger := log.With("component", "huggingface_generator")
	logger.Info("Text generator initialized", "endpoint", cfg.Endpoint, "timeout", timeout)

	return &HuggingFace{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   cfg.Endpoint,
		token:      cfg.Token,
		stripEcho:  cfg.StripPromptEcho,
		cleanText:  cfg.CleanText,
		log:        logger,
	}, nil
}

// Generate posts prompt to the endpoint. Any failure is logged and returned
// as a Failed Result.
func (c *HuggingFace) Generate(ctx context.Context, prompt string, maxTokens int) Result {
	startTime := time.Now()
	c.log.DebugContext(ctx, "Generating text", "prompt_length", len(prompt), "max_new_tokens", maxTokens)

	raw, err := c.generate(ctx, prompt, maxTokens)
	if err != nil {
		c.log.ErrorContext(ctx, "Text generation failed", "error", err, "duration", time.Since(startTime))
		return Failed(err)
	}

	if c.stripEcho {
		raw = text.StripEcho(raw, prompt)
	}
	out, ok := finish(raw, c.cleanText)
	if !ok {
		c.log.WarnContext(ctx, "Generated text is empty")
		return Failed(ErrEmptyResponse)
	}

	c.log.DebugContext(ctx, "Text generated", "text_length", len(out), "duration", time.Since(startTime))
	return Generated(out)
}

func (c *HuggingFace) generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	body, err := json.Marshal(hfRequest{
		Inputs:     prompt,
		Parameters: hfParameters{MaxNewTokens: maxTokens},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := &StatusError{StatusCode: resp.StatusCode}
		var apiErr hfError
		if json.Unmarshal(payload, &apiErr) == nil {
			statusErr.Message = apiErr.Error
		}
		return "", statusErr
	}

	return parseGeneratedText(payload)
}

// parseGeneratedText accepts [{"generated_text": ...}, ...] or
// {"generated_text": ...} and returns the contained string.
func parseGeneratedText(payload []byte) (string, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return "", ErrUnrecognizedResponse
	}

	var out hfOutput
	switch trimmed[0] {
	case '[':
		var items []hfOutput
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return "", fmt.Errorf("failed to decode response: %w", err)
		}
		if len(items) == 0 {
			return "", ErrUnrecognizedResponse
		}
		out = items[0]
	case '{':
		if err := json.Unmarshal(trimmed, &out); err != nil {
			return "", fmt.Errorf("failed to decode response: %w", err)
		}
	default:
		return "", ErrUnrecognizedResponse
	}

	if out.GeneratedText == nil {
		return "", ErrUnrecognizedResponse
	}
	if strings.TrimSpace(*out.GeneratedText) == "" {
		return "", ErrEmptyResponse
	}
	return *out.GeneratedText, nil
}
