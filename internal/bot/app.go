package bot

import (
	"context"
	"fmt"
	"log/slog"

	tgbot "github.com/go-telegram/bot"

	"github.com/edgard/fitcoachbot/internal/bot/handlers"
	"github.com/edgard/fitcoachbot/internal/bot/tasks"
	"github.com/edgard/fitcoachbot/internal/config"
	"github.com/edgard/fitcoachbot/internal/logger"
	"github.com/edgard/fitcoachbot/internal/router"
	"github.com/edgard/fitcoachbot/internal/telegram"
)

// LaunchDeps holds what Launch needs to build the Telegram side of the bot.
type LaunchDeps struct {
	Config *config.Config
	Logger *slog.Logger
	Router *router.Router
	// BotOptions are appended to the client options, after the middlewares
	// and the default handler.
	BotOptions []tgbot.Option
}

// Launch creates the Telegram client and runs the mode the configuration
// selects: one scheduled send when an automation environment is detected,
// otherwise the polling loop with the command handlers and the scheduler.
// It returns when the send completes or ctx is cancelled.
func Launch(ctx context.Context, deps LaunchDeps) error {
	cfg, log := deps.Config, deps.Logger
	if log == nil {
		log = slog.Default()
	}

	hDeps := handlers.HandlerDeps{Logger: log, Router: deps.Router}

	opts := append([]tgbot.Option{
		tgbot.WithMiddlewares(logger.Middleware(log), handlers.Recover(log)),
		tgbot.WithDefaultHandler(handlers.NewFallbackHandler(hDeps)),
	}, deps.BotOptions...)

	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, opts...)
	if err != nil {
		return err
	}

	taskMap := tasks.RegisterAllTasks(tasks.TaskDeps{
		Logger: log,
		Router: deps.Router,
		Sender: tg,
		Config: cfg,
	})

	if cfg.Mode.Scheduled() {
		log.Info("Automation environment detected, sending scheduled message", "chat_id", cfg.Telegram.ChatID)
		return NewBot(log, tg, nil, taskMap).RunOnce(ctx, config.TaskDailyExercise)
	}

	// Commands addressed as "/cmd@name" are only answered for our own name.
	me, err := tg.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch bot identity: %w", err)
	}
	deps.Router.SetBotUsername(me.Username)
	log.Info("Bot identity resolved", "username", me.Username)

	cmdHandlers := handlers.RegisterAllCommands(hDeps)
	if err := telegram.RegisterHandlers(tg, log, cmdHandlers); err != nil {
		return fmt.Errorf("failed to register telegram handlers: %w", err)
	}
	if err := telegram.RegisterCommands(ctx, tg, cmdHandlers); err != nil {
		log.Warn("Failed to publish command menu", "error", err)
	}

	sched, err := NewScheduler(log, cfg.Scheduler, taskMap)
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	log.Info("Starting bot in interactive mode...")
	return NewBot(log, tg, sched, taskMap).Run(ctx)
}
