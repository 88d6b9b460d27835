package handlers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/fitcoachbot/internal/router"
	"github.com/edgard/fitcoachbot/internal/text"
)

// Target is where a reply goes. ChatID is an int64 id or an "@channel" name.
type Target struct {
	ChatID   any
	ThreadID int
}

// SendReply delivers reply.Text, then the animation when reply carries one.
func SendReply(ctx context.Context, s Sender, target Target, reply router.Reply) error {
	_, err := s.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:          target.ChatID,
		MessageThreadID: target.ThreadID,
		Text:            text.Limit(reply.Text, text.MaxMessageLength),
	})
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	if reply.AnimationPath == "" {
		return nil
	}

	f, err := os.Open(reply.AnimationPath)
	if err != nil {
		return fmt.Errorf("failed to open animation: %w", err)
	}
	defer f.Close()

	_, err = s.SendAnimation(ctx, &bot.SendAnimationParams{
		ChatID:          target.ChatID,
		MessageThreadID: target.ThreadID,
		Animation: &models.InputFileUpload{
			Filename: filepath.Base(reply.AnimationPath),
			Data:     f,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send animation: %w", err)
	}
	return nil
}
