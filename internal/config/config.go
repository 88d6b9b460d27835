// Package config provides configuration loading, validation, and defaults
// for the bot. Values come from built-in defaults, an optional YAML file, and
// the process environment, in increasing order of precedence.
package config

import (
	"strconv"
	"time"
)

// Config defines the application configuration parameters for all components.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Generator GeneratorConfig `mapstructure:"generator"`
	Prompts   PromptsConfig   `mapstructure:"prompts"`
	Tokens    TokensConfig    `mapstructure:"tokens"`
	Messages  MessagesConfig  `mapstructure:"messages"`
	Media     MediaConfig     `mapstructure:"media"`
	Scheduled ScheduledConfig `mapstructure:"scheduled"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Mode      ModeConfig      `mapstructure:"mode"`
}

// LoggerConfig controls the slog handler.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds the bot credential and the fixed destination used by
// scheduled sends.
type TelegramConfig struct {
	Token  string `mapstructure:"token"   validate:"required"`
	ChatID string `mapstructure:"chat_id"`
}

// Chat returns the scheduled-send destination in the form the Bot API accepts:
// a numeric id when ChatID parses as one, the raw value (e.g. "@channel") otherwise.
func (t TelegramConfig) Chat() any {
	if id, err := strconv.ParseInt(t.ChatID, 10, 64); err == nil {
		return id
	}
	return t.ChatID
}

// GeneratorConfig selects and configures the text-generation backend.
type GeneratorConfig struct {
	Provider string        `mapstructure:"provider" validate:"oneof=huggingface gemini"`
	Endpoint string        `mapstructure:"endpoint" validate:"required,url"`
	Token    string        `mapstructure:"token"    validate:"required"`
	Model    string        `mapstructure:"model"`
	Timeout  time.Duration `mapstructure:"timeout"  validate:"min=1s,max=10m"`
	// StripPromptEcho drops the prompt when the endpoint returns it in front
	// of the continuation.
	StripPromptEcho bool `mapstructure:"strip_prompt_echo"`
	// CleanText normalizes whitespace and drops invisible characters in the
	// generated text. Off, the text is returned as the endpoint sent it.
	CleanText bool          `mapstructure:"clean_text"`
	Breaker         BreakerConfig `mapstructure:"breaker"`
	Retry           RetryConfig   `mapstructure:"retry"`
}

// BreakerConfig trips the generator circuit after MaxFailures consecutive
// failures; replies then use the fallback text until ResetTimeout has passed.
// MaxFailures of 0 disables the breaker.
type BreakerConfig struct {
	MaxFailures  int           `mapstructure:"max_failures"  validate:"min=0,max=100"`
	ResetTimeout time.Duration `mapstructure:"reset_timeout" validate:"min=0,max=1h"`
}

// RetryConfig retries transient generator failures (HTTP 429 and 5xx).
// Attempts counts the first call.
type RetryConfig struct {
	Attempts int           `mapstructure:"attempts" validate:"min=1,max=5"`
	Backoff  time.Duration `mapstructure:"backoff"  validate:"min=0,max=1m"`
}

// PromptsConfig holds the role preambles sent to the generator. Nutrition
// embeds the user question at {question}; FreeText embeds the raw message at {message}.
type PromptsConfig struct {
	Exercise         string `mapstructure:"exercise"          validate:"required"`
	DailyExercise    string `mapstructure:"daily_exercise"    validate:"required"`
	Nutrition        string `mapstructure:"nutrition"         validate:"required"`
	NutritionDefault string `mapstructure:"nutrition_default" validate:"required"`
	FreeText         string `mapstructure:"free_text"         validate:"required"`
}

// TokensConfig is the max_new_tokens budget per handler.
type TokensConfig struct {
	Exercise  int `mapstructure:"exercise"  validate:"min=1,max=2048"`
	Nutrition int `mapstructure:"nutrition" validate:"min=1,max=2048"`
	FreeText  int `mapstructure:"free_text" validate:"min=1,max=2048"`
}

// MessagesConfig holds the static texts sent to users.
type MessagesConfig struct {
	Start            string `mapstructure:"start"             validate:"required"`
	Fallback         string `mapstructure:"fallback"          validate:"required"`
	ExerciseFallback string `mapstructure:"exercise_fallback" validate:"required"`
}

// MediaConfig configures the placeholder animation.
type MediaConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	OutputDir  string        `mapstructure:"output_dir"  validate:"required"`
	FileName   string        `mapstructure:"file_name"   validate:"required"`
	Frames     int           `mapstructure:"frames"      validate:"min=1,max=100"`
	Size       int           `mapstructure:"size"        validate:"min=64,max=2048"`
	FrameDelay time.Duration `mapstructure:"frame_delay" validate:"min=10ms,max=10s"`
}

// ScheduledConfig configures the one-shot send.
type ScheduledConfig struct {
	AttachAnimation bool `mapstructure:"attach_animation"`
}

// SchedulerConfig lists the in-process cron tasks run in interactive mode.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// TaskConfig enables a registered task on a cron schedule.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// ModeConfig carries the automation signal. Any non-empty value selects
// scheduled one-shot mode.
type ModeConfig struct {
	Automation string `mapstructure:"automation"`
}

// Scheduled reports whether the process should send once and exit.
func (m ModeConfig) Scheduled() bool {
	return m.Automation != ""
}
