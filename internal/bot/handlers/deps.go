// Package handlers adapts Telegram updates to the command router: it pulls
// the command token, arguments and reply target out of each update, runs the
// router, and delivers the reply.
package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/fitcoachbot/internal/router"
)

// DefaultTypingInterval is how often the typing indicator is refreshed while
// a reply is being generated.
const DefaultTypingInterval = 4 * time.Second

// Sender is the subset of the Telegram client the handlers need.
// *bot.Bot satisfies it.
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	SendAnimation(ctx context.Context, params *bot.SendAnimationParams) (*models.Message, error)
	SendChatAction(ctx context.Context, params *bot.SendChatActionParams) (bool, error)
}

// HandlerDeps provides dependencies for Telegram command handlers.
type HandlerDeps struct {
	Logger *slog.Logger
	Router *router.Router
	// TypingInterval overrides DefaultTypingInterval when positive.
	TypingInterval time.Duration
}

func (d HandlerDeps) typingInterval() time.Duration {
	if d.TypingInterval > 0 {
		return d.TypingInterval
	}
	return DefaultTypingInterval
}
