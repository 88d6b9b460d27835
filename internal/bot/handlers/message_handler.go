package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/fitcoachbot/internal/router"
)

// NewMessageHandler returns a handler that routes text messages through
// deps.Router. name tags its log lines.
func NewMessageHandler(deps HandlerDeps, name string) bot.HandlerFunc {
	return messageHandler{deps: deps, name: name}.Handle
}

type messageHandler struct {
	deps HandlerDeps
	name string
}

func (h messageHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.handle(ctx, b, update)
}

func (h messageHandler) handle(ctx context.Context, s Sender, update *models.Update) {
	log := h.deps.Logger.With("handler", h.name)

	if update.Message == nil || strings.TrimSpace(update.Message.Text) == "" {
		log.DebugContext(ctx, "Skipping update without message text", "update_id", update.ID)
		return
	}

	msg := update.Message
	target := Target{ChatID: msg.Chat.ID, ThreadID: msg.MessageThreadID}
	in := router.Parse(msg.Text)

	_, cmd, ok := h.deps.Router.Resolve(in)
	if !ok {
		log.DebugContext(ctx, "Ignoring message not routed to this bot", "token", in.Token, "mention", in.Mention, "chat_id", target.ChatID)
		return
	}

	log.InfoContext(ctx, "Handling message", "command", cmd, "chat_id", target.ChatID)

	var reply router.Reply
	if cmd == router.CommandStart {
		reply, _ = h.deps.Router.Dispatch(ctx, in)
	} else {
		typingCtx, stopTyping := context.WithCancel(ctx)
		go sendContinuousTyping(typingCtx, s, target, h.deps.typingInterval(), log)
		reply, _ = h.deps.Router.Dispatch(ctx, in)
		stopTyping()
	}

	if err := SendReply(ctx, s, target, reply); err != nil {
		log.ErrorContext(ctx, "Failed to send reply", "error", err, "command", cmd, "chat_id", target.ChatID)
		return
	}
	log.DebugContext(ctx, "Reply sent", "command", cmd, "chat_id", target.ChatID, "animation", reply.AnimationPath != "")
}
