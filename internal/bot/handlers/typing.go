package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// sendContinuousTyping keeps the typing indicator on until ctx is done.
func sendContinuousTyping(ctx context.Context, s Sender, target Target, interval time.Duration, log *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if err := sendTypingAction(ctx, s, target); err != nil {
		if ctx.Err() == nil {
			log.DebugContext(ctx, "Failed to send initial typing action", "error", err, "chat_id", target.ChatID)
		}
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := sendTypingAction(ctx, s, target); err != nil {
				if ctx.Err() != nil {
					return
				}
				log.DebugContext(ctx, "Typing action failed", "error", err, "chat_id", target.ChatID)
			}
		}
	}
}

func sendTypingAction(ctx context.Context, s Sender, target Target) error {
	_, err := s.SendChatAction(ctx, &bot.SendChatActionParams{
		ChatID:          target.ChatID,
		MessageThreadID: target.ThreadID,
		Action:          models.ChatActionTyping,
	})
	return err
}
