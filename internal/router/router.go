package router

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/edgard/fitcoachbot/internal/config"
	"github.com/edgard/fitcoachbot/internal/generator"
)

// Reply is what a handler wants sent back to the originating chat.
type Reply struct {
	Command Command
	// Text is never empty.
	Text string
	// Prompt is what was sent to the generator, empty when nothing was.
	Prompt string
	// AnimationPath is a rendered GIF to send after Text, if any.
	AnimationPath string
}

// Handler builds a Reply for one inbound message.
type Handler func(ctx context.Context, in Input) Reply

// Renderer draws the placeholder animation for a caption.
type Renderer interface {
	Render(caption string, frames int) (string, error)
}

// Options is the explicit configuration of a Router.
type Options struct {
	Prompts  config.PromptsConfig
	Tokens   config.TokensConfig
	Messages config.MessagesConfig
	// AttachAnimation makes /exercise replies carry the rendered GIF.
	AttachAnimation bool
	// BotUsername is matched against "/cmd@username" mentions. While it is
	// empty every mentioned command is ignored.
	BotUsername string
}

// Router resolves commands to handlers. It holds no per-message state and is
// safe for concurrent use as long as its Generator and Renderer are.
type Router struct {
	gen      generator.Generator
	renderer Renderer
	opts     Options
	log      *slog.Logger
	handlers map[string]Handler
	commands map[string]Command
	username atomic.Value // string
}

// New creates a Router. renderer may be nil, in which case no animation is
// ever attached.
func New(gen generator.Generator, renderer Renderer, opts Options, log *slog.Logger) *Router {
	if log == nil {
		log = slog.Default()
	}
	r := &Router{
		gen:      gen,
		renderer: renderer,
		opts:     opts,
		log:      log.With("component", "router"),
	}
	r.SetBotUsername(opts.BotUsername)
	r.handlers = map[string]Handler{
		string(CommandStart):     r.start,
		string(CommandExercise):  r.exercise,
		string(CommandNutrition): r.nutrition,
	}
	r.commands = map[string]Command{
		string(CommandStart):     CommandStart,
		string(CommandExercise):  CommandExercise,
		string(CommandNutrition): CommandNutrition,
	}
	return r
}

// SetBotUsername sets the username commands may be addressed to. It is
// safe to call while messages are being routed.
func (r *Router) SetBotUsername(name string) {
	r.username.Store(strings.TrimPrefix(strings.TrimSpace(name), "@"))
}

// addressedToUs reports whether a command carries no mention or mentions
// this bot (case-insensitively).
func (r *Router) addressedToUs(in Input) bool {
	if in.Mention == "" {
		return true
	}
	own, _ := r.username.Load().(string)
	return own != "" && strings.EqualFold(in.Mention, own)
}

// Resolve picks the handler for in. Registered command tokens match exactly;
// non-empty text that is not a command goes to the free-text handler. Blank
// text, unregistered commands and commands addressed to another bot resolve
// to nothing.
func (r *Router) Resolve(in Input) (Handler, Command, bool) {
	if !in.IsCommand {
		if strings.TrimSpace(in.Args) == "" {
			return nil, "", false
		}
		return r.freeText, CommandFreeText, true
	}
	if !r.addressedToUs(in) {
		return nil, "", false
	}
	h, ok := r.handlers[in.Token]
	if !ok {
		return nil, "", false
	}
	return h, r.commands[in.Token], true
}

// Dispatch resolves and runs the handler for in. It reports false when the
// message is an unregistered command and should be ignored.
func (r *Router) Dispatch(ctx context.Context, in Input) (Reply, bool) {
	h, cmd, ok := r.Resolve(in)
	if !ok {
		r.log.DebugContext(ctx, "Ignoring message", "token", in.Token, "mention", in.Mention)
		return Reply{}, false
	}
	r.log.DebugContext(ctx, "Dispatching message", "command", cmd)
	return h(ctx, in), true
}

// DailyExercise builds the scheduled-send content. attachAnimation renders
// the GIF alongside the text when a renderer is available.
func (r *Router) DailyExercise(ctx context.Context, attachAnimation bool) Reply {
	return r.generateExercise(ctx, r.opts.Prompts.DailyExercise, attachAnimation)
}

func (r *Router) start(_ context.Context, _ Input) Reply {
	return Reply{Command: CommandStart, Text: r.opts.Messages.Start}
}

func (r *Router) exercise(ctx context.Context, _ Input) Reply {
	return r.generateExercise(ctx, r.opts.Prompts.Exercise, r.opts.AttachAnimation)
}

func (r *Router) generateExercise(ctx context.Context, prompt string, attach bool) Reply {
	text := r.gen.Generate(ctx, prompt, r.opts.Tokens.Exercise).Or(r.opts.Messages.ExerciseFallback)
	reply := Reply{Command: CommandExercise, Text: text, Prompt: prompt}

	if attach && r.renderer != nil {
		path, err := r.renderer.Render(text, 0)
		if err != nil {
			r.log.ErrorContext(ctx, "Failed to render exercise animation", "error", err)
		} else {
			reply.AnimationPath = path
		}
	}
	return reply
}

func (r *Router) nutrition(ctx context.Context, in Input) Reply {
	question := in.Args
	if question == "" {
		question = r.opts.Prompts.NutritionDefault
	}
	prompt := strings.ReplaceAll(r.opts.Prompts.Nutrition, "{question}", question)
	text := r.gen.Generate(ctx, prompt, r.opts.Tokens.Nutrition).Or(r.opts.Messages.Fallback)
	return Reply{Command: CommandNutrition, Text: text, Prompt: prompt}
}

func (r *Router) freeText(ctx context.Context, in Input) Reply {
	prompt := strings.ReplaceAll(r.opts.Prompts.FreeText, "{message}", in.Args)
	text := r.gen.Generate(ctx, prompt, r.opts.Tokens.FreeText).Or(r.opts.Messages.Fallback)
	return Reply{Command: CommandFreeText, Text: text, Prompt: prompt}
}
