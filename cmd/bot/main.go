// Package main contains the entrypoint for the fitness coach Telegram bot.
package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/edgard/fitcoachbot/internal/bot"
	"github.com/edgard/fitcoachbot/internal/config"
	"github.com/edgard/fitcoachbot/internal/generator"
	"github.com/edgard/fitcoachbot/internal/logger"
	"github.com/edgard/fitcoachbot/internal/media"
	"github.com/edgard/fitcoachbot/internal/router"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run wires config, logger, generator and router, then hands over to
// bot.Launch for the selected mode. It returns the exit code.
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	envPath := flag.String("env", ".env", "Path to an optional dotenv file")
	flag.Parse()

	if err := godotenv.Load(*envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("Failed to load env file", "path", *envPath, "error", err)
		return 1
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	gen, err := generator.New(ctx, cfg.Generator, log)
	if err != nil {
		log.Error("Failed to initialize text generator", "provider", cfg.Generator.Provider, "error", err)
		return 1
	}

	var renderer router.Renderer
	if cfg.Media.Enabled || cfg.Scheduled.AttachAnimation {
		renderer = media.NewRenderer(cfg.Media, log)
	}

	rt := router.New(gen, renderer, router.Options{
		Prompts:         cfg.Prompts,
		Tokens:          cfg.Tokens,
		Messages:        cfg.Messages,
		AttachAnimation: cfg.Media.Enabled,
	}, log)

	if err := bot.Launch(ctx, bot.LaunchDeps{Config: cfg, Logger: log, Router: rt}); err != nil {
		log.Error("Bot stopped due to error", "scheduled", cfg.Mode.Scheduled(), "error", err)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	return 0
}
