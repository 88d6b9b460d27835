package tasks

import (
	"context"
	"fmt"

	"github.com/edgard/fitcoachbot/internal/bot/handlers"
	"github.com/edgard/fitcoachbot/internal/config"
)

// newDailyExerciseTask sends one generated exercise, and the animation when
// scheduled.attach_animation is set, to telegram.chat_id.
func newDailyExerciseTask(deps TaskDeps) ScheduledTaskFunc {
	return func(ctx context.Context) error {
		log := deps.Logger.With("task", config.TaskDailyExercise)

		if deps.Config.Telegram.ChatID == "" {
			return fmt.Errorf("%s: telegram chat id is not configured", config.TaskDailyExercise)
		}

		reply := deps.Router.DailyExercise(ctx, deps.Config.Scheduled.AttachAnimation)
		target := handlers.Target{ChatID: deps.Config.Telegram.Chat()}

		if err := handlers.SendReply(ctx, deps.Sender, target, reply); err != nil {
			return fmt.Errorf("%s: %w", config.TaskDailyExercise, err)
		}

		log.InfoContext(ctx, "Daily exercise sent",
			"chat_id", deps.Config.Telegram.ChatID,
			"with_animation", reply.AnimationPath != "")
		return nil
	}
}
