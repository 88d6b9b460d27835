package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

// ErrConfiguration wraps every error returned by LoadConfig.
var ErrConfiguration = errors.New("configuration error")

// envBindings maps config keys to the environment variables that set them.
// The first variable found wins; BOT_* names keep the generic prefix working
// for keys that also have a short name.
var envBindings = map[string][]string{
	"telegram.token":   {"TG_BOT_TOKEN", "BOT_TELEGRAM_TOKEN"},
	"telegram.chat_id": {"TG_CHAT_ID", "BOT_TELEGRAM_CHAT_ID"},
	"generator.token":  {"HF_TOKEN", "BOT_GENERATOR_TOKEN"},
	"mode.automation":  {"GITHUB_ACTIONS", "CI", "BOT_MODE_AUTOMATION"},
}

// LoadConfig loads and validates configuration from:
// 1. Default values
// 2. the YAML file at path, if it exists
// 3. environment variables (see envBindings, plus BOT_* for every other key)
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, envs := range envBindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("%w: failed to bind env for %s: %v", ErrConfiguration, key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: failed to read config file %s: %v", ErrConfiguration, path, err)
			}
			slog.Debug("Configuration file not found, using defaults and environment", "path", path)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrConfiguration, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	return cfg, nil
}
