// Package router maps inbound chat messages to handlers. Routing is a pure
// function of the message text, so it runs and is tested without any transport.
package router

import "strings"

// Command is the closed set of things a message can ask for.
type Command string

const (
	CommandStart     Command = "start"
	CommandExercise  Command = "exercise"
	CommandNutrition Command = "nutrition"
	CommandFreeText  Command = "free_text"
)

// Input is an inbound message split into its command token and arguments.
type Input struct {
	// Token is the command keyword without the leading slash or @botname
	// suffix. Empty for non-command messages.
	Token string
	// Mention is the bot username from a "/cmd@username" token, without the @.
	Mention string
	// Args is the whitespace-normalized text after the token, or the whole
	// message for non-command messages.
	Args string
	// IsCommand reports whether the message started with '/'.
	IsCommand bool
	// Raw is the untouched message text.
	Raw string
}

// Parse splits text into an Input.
func Parse(text string) Input {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "/") {
		return Input{Args: trimmed, Raw: text}
	}

	fields := strings.Fields(trimmed)
	token := strings.TrimPrefix(fields[0], "/")
	var mention string
	if at := strings.IndexByte(token, '@'); at >= 0 {
		token, mention = token[:at], token[at+1:]
	}

	return Input{
		Token:     token,
		Mention:   mention,
		Args:      strings.Join(fields[1:], " "),
		IsCommand: true,
		Raw:       text,
	}
}
