package config

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validate checks struct tags, then the rules that depend on more than one field.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	if c.Mode.Scheduled() && c.Telegram.ChatID == "" {
		return errors.New("telegram.chat_id is required in scheduled mode")
	}

	if !strings.Contains(c.Prompts.Nutrition, "{question}") {
		return errors.New("prompts.nutrition must contain the {question} placeholder")
	}
	if !strings.Contains(c.Prompts.FreeText, "{message}") {
		return errors.New("prompts.free_text must contain the {message} placeholder")
	}

	for name, task := range c.Scheduler.Tasks {
		if task.Enabled && task.Schedule == "" {
			return errors.New("scheduler task " + name + " is enabled but has no schedule")
		}
		if task.Enabled && name == TaskDailyExercise && c.Telegram.ChatID == "" {
			return errors.New("scheduler task " + name + " is enabled but telegram.chat_id is empty")
		}
	}

	return nil
}
