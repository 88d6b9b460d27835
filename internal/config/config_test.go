package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// clearEnv unsets every variable LoadConfig looks at so the host environment
// (CI runners set CI and GITHUB_ACTIONS) cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, envs := range envBindings {
		for _, name := range envs {
			t.Setenv(name, "")
			os.Unsetenv(name)
		}
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("TG_BOT_TOKEN", "123:abc")
	t.Setenv("HF_TOKEN", "hf_secret")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Telegram.Token != "123:abc" {
		t.Errorf("Telegram.Token = %q, want %q", cfg.Telegram.Token, "123:abc")
	}
	if cfg.Generator.Token != "hf_secret" {
		t.Errorf("Generator.Token = %q, want %q", cfg.Generator.Token, "hf_secret")
	}
	if cfg.Generator.Endpoint != DefaultGeneratorEndpoint {
		t.Errorf("Generator.Endpoint = %q, want %q", cfg.Generator.Endpoint, DefaultGeneratorEndpoint)
	}
	if cfg.Generator.Timeout != 60*time.Second {
		t.Errorf("Generator.Timeout = %v, want 60s", cfg.Generator.Timeout)
	}
	if cfg.Generator.Breaker.MaxFailures != DefaultBreakerMaxFailures || cfg.Generator.Retry.Attempts != 1 {
		t.Errorf("Generator.Breaker/Retry = %+v/%+v, want defaults", cfg.Generator.Breaker, cfg.Generator.Retry)
	}
	if cfg.Tokens.Exercise != 100 || cfg.Tokens.Nutrition != 150 || cfg.Tokens.FreeText != 150 {
		t.Errorf("Tokens = %+v, want 100/150/150", cfg.Tokens)
	}
	if cfg.Media.FrameDelay != 500*time.Millisecond {
		t.Errorf("Media.FrameDelay = %v, want 500ms", cfg.Media.FrameDelay)
	}
	if cfg.Mode.Scheduled() {
		t.Error("Mode.Scheduled() = true with no automation flag set")
	}
}

func TestLoadConfigFileAndEnvPrecedence(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
logger:
  level: debug
telegram:
  token: from-file
generator:
  token: file-token
  timeout: 15s
tokens:
  exercise: 120
scheduler:
  tasks:
    daily_exercise:
      enabled: true
      schedule: "0 0 8 * * *"
`)
	t.Setenv("TG_BOT_TOKEN", "from-env")
	t.Setenv("BOT_TOKENS_NUTRITION", "90")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Telegram.Token != "from-env" {
		t.Errorf("Telegram.Token = %q, want env value", cfg.Telegram.Token)
	}
	if cfg.Generator.Token != "file-token" {
		t.Errorf("Generator.Token = %q, want file value", cfg.Generator.Token)
	}
	if cfg.Logger.Level != "debug" {
		t.Errorf("Logger.Level = %q, want debug", cfg.Logger.Level)
	}
	if cfg.Generator.Timeout != 15*time.Second {
		t.Errorf("Generator.Timeout = %v, want 15s", cfg.Generator.Timeout)
	}
	if cfg.Tokens.Exercise != 120 {
		t.Errorf("Tokens.Exercise = %d, want 120", cfg.Tokens.Exercise)
	}
	if cfg.Tokens.Nutrition != 90 {
		t.Errorf("Tokens.Nutrition = %d, want 90", cfg.Tokens.Nutrition)
	}
	task, ok := cfg.Scheduler.Tasks[TaskDailyExercise]
	if !ok || !task.Enabled || task.Schedule != "0 0 8 * * *" {
		t.Errorf("Scheduler.Tasks[%s] = %+v, %v", TaskDailyExercise, task, ok)
	}
}

func TestLoadConfigScheduledMode(t *testing.T) {
	clearEnv(t)
	t.Setenv("TG_BOT_TOKEN", "123:abc")
	t.Setenv("HF_TOKEN", "hf_secret")
	t.Setenv("GITHUB_ACTIONS", "true")

	_, err := LoadConfig("")
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("LoadConfig() without chat id error = %v, want ErrConfiguration", err)
	}

	t.Setenv("TG_CHAT_ID", "-100200300")
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if !cfg.Mode.Scheduled() {
		t.Error("Mode.Scheduled() = false with GITHUB_ACTIONS set")
	}
	if got, ok := cfg.Telegram.Chat().(int64); !ok || got != -100200300 {
		t.Errorf("Telegram.Chat() = %v, want int64 -100200300", cfg.Telegram.Chat())
	}
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing telegram token", "generator:\n  token: x\n"},
		{"bad log level", "telegram:\n  token: x\ngenerator:\n  token: x\nlogger:\n  level: loud\n"},
		{"unknown provider", "telegram:\n  token: x\ngenerator:\n  token: x\n  provider: other\n"},
		{"nutrition without placeholder", "telegram:\n  token: x\ngenerator:\n  token: x\nprompts:\n  nutrition: no slot\n"},
		{"zero retry attempts", "telegram:\n  token: x\ngenerator:\n  token: x\n  retry:\n    attempts: 0\n"},
		{"enabled task without schedule", "telegram:\n  token: x\ngenerator:\n  token: x\nscheduler:\n  tasks:\n    daily_exercise:\n      enabled: true\n"},
		{"daily exercise task without chat id", "telegram:\n  token: x\ngenerator:\n  token: x\nscheduler:\n  tasks:\n    daily_exercise:\n      enabled: true\n      schedule: \"0 0 8 * * *\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			_, err := LoadConfig(writeConfig(t, tt.body))
			if !errors.Is(err, ErrConfiguration) {
				t.Errorf("LoadConfig() error = %v, want ErrConfiguration", err)
			}
		})
	}
}

func TestLoadConfigDailyExerciseTask(t *testing.T) {
	clearEnv(t)
	body := "telegram:\n  token: x\n  chat_id: \"42\"\ngenerator:\n  token: x\nscheduler:\n  tasks:\n    daily_exercise:\n      enabled: true\n      schedule: \"0 0 8 * * *\"\n"
	cfg, err := LoadConfig(writeConfig(t, body))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if task := cfg.Scheduler.Tasks[TaskDailyExercise]; !task.Enabled || task.Schedule != "0 0 8 * * *" {
		t.Errorf("Scheduler.Tasks[%s] = %+v", TaskDailyExercise, task)
	}
}

func TestTelegramChat(t *testing.T) {
	t.Parallel()

	if got := (TelegramConfig{ChatID: "@fitness"}).Chat(); got != "@fitness" {
		t.Errorf("Chat() = %v, want @fitness", got)
	}
	if got := (TelegramConfig{ChatID: "42"}).Chat(); got != int64(42) {
		t.Errorf("Chat() = %v, want 42", got)
	}
}
