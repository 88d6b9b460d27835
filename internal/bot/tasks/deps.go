// Package tasks implements the bot's scheduled tasks and their registry.
package tasks

import (
	"log/slog"

	"github.com/edgard/fitcoachbot/internal/bot/handlers"
	"github.com/edgard/fitcoachbot/internal/config"
	"github.com/edgard/fitcoachbot/internal/router"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Router *router.Router
	Sender handlers.Sender
	Config *config.Config
}
