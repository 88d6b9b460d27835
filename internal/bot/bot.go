// Package bot orchestrates the bot's two run modes: long polling with the
// in-process scheduler, or a single scheduled send.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tgbot "github.com/go-telegram/bot"
	"golang.org/x/sync/errgroup"

	"github.com/edgard/fitcoachbot/internal/bot/tasks"
)

// Bot represents the main bot application and manages its components' lifecycle.
type Bot struct {
	logger    *slog.Logger
	tgBot     *tgbot.Bot
	scheduler *Scheduler
	tasks     map[string]tasks.ScheduledTaskFunc
}

// NewBot wires the Telegram client, the optional scheduler and the task
// registry. scheduler may be nil when only RunOnce is used.
func NewBot(logger *slog.Logger, tgBot *tgbot.Bot, scheduler *Scheduler, taskMap map[string]tasks.ScheduledTaskFunc) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bot{
		logger:    logger.With("component", "bot_orchestrator"),
		tgBot:     tgBot,
		scheduler: scheduler,
		tasks:     taskMap,
	}
}

// Run polls Telegram for updates and runs the scheduler until ctx is
// cancelled or a component fails.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("Starting bot orchestrator...")

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		b.logger.Info("Starting Telegram bot listener...")
		b.tgBot.Start(gCtx)
		b.logger.Info("Telegram bot listener stopped.")

		if gCtx.Err() == nil {
			return fmt.Errorf("telegram listener stopped unexpectedly")
		}
		return nil
	})

	if b.scheduler != nil {
		g.Go(func() error {
			if err := b.scheduler.Start(); err != nil {
				return fmt.Errorf("failed to start scheduler: %w", err)
			}

			<-gCtx.Done()
			b.logger.Info("Shutdown signal received, stopping scheduler...")

			if err := b.scheduler.Stop(); err != nil {
				b.logger.Error("Error stopping scheduler", "error", err)
			}
			return nil
		})
	}

	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		b.logger.Error("Bot orchestrator stopped due to error", "error", err)
		return err
	}

	b.logger.Info("Bot orchestrator stopped gracefully.")
	return nil
}

// RunOnce executes the named task a single time without polling.
func (b *Bot) RunOnce(ctx context.Context, name string) error {
	task, ok := b.tasks[name]
	if !ok {
		return fmt.Errorf("task %q is not registered", name)
	}

	b.logger.Info("Running one-shot task", "task_name", name)
	if err := task(ctx); err != nil {
		return fmt.Errorf("one-shot task %q failed: %w", name, err)
	}
	b.logger.Info("One-shot task completed", "task_name", name)
	return nil
}
