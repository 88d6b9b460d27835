package handlers

import (
	tgbot "github.com/go-telegram/bot"

	"github.com/edgard/fitcoachbot/internal/router"
)

// RegisteredHandler represents a command handler with its description.
// It encapsulates all information needed to register and document a command.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Description string
	Handler     tgbot.HandlerFunc
	MatchType   tgbot.MatchType
}

// RegisterAllCommands returns the slash commands keyed by "/<command>".
// Free text is not in the map: NewFallbackHandler is installed as the bot's
// default handler instead.
func RegisterAllCommands(deps HandlerDeps) map[string]RegisteredHandler {
	handlers := make(map[string]RegisteredHandler)

	handlers["/start"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     string(router.CommandStart),
		Description: "Show what the bot can do",
		Handler:     NewMessageHandler(deps, "start"),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
	}
	handlers["/exercise"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     string(router.CommandExercise),
		Description: "Get a home workout exercise",
		Handler:     NewMessageHandler(deps, "exercise"),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
	}
	handlers["/nutrition"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     string(router.CommandNutrition),
		Description: "Ask a nutrition question",
		Handler:     NewMessageHandler(deps, "nutrition"),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
	}

	return handlers
}

// NewFallbackHandler returns the default handler: free text and commands
// the pattern matchers missed (e.g. "/exercise@botname") go through the router;
// unregistered commands are dropped there.
func NewFallbackHandler(deps HandlerDeps) tgbot.HandlerFunc {
	return NewMessageHandler(deps, "fallback")
}
