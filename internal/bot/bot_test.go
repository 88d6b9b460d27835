package bot

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/edgard/fitcoachbot/internal/bot/tasks"
	"github.com/edgard/fitcoachbot/internal/config"
	"github.com/edgard/fitcoachbot/internal/telegram/telegramtest"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunOnce(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	taskMap := map[string]tasks.ScheduledTaskFunc{
		config.TaskDailyExercise: func(context.Context) error {
			calls.Add(1)
			return nil
		},
		"failing": func(context.Context) error { return errors.New("send failed") },
	}
	b := NewBot(quietLogger(), nil, nil, taskMap)

	if err := b.RunOnce(context.Background(), config.TaskDailyExercise); err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("task ran %d times, want 1", n)
	}
	if err := b.RunOnce(context.Background(), "failing"); err == nil {
		t.Error("RunOnce(failing) error = nil, want task error")
	}
	if err := b.RunOnce(context.Background(), "missing"); err == nil {
		t.Error("RunOnce(missing) error = nil, want not registered")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	t.Parallel()

	srv := telegramtest.NewServer(t)
	sched, err := NewScheduler(quietLogger(), config.SchedulerConfig{
		Tasks: map[string]config.TaskConfig{
			config.TaskDailyExercise: {Enabled: true, Schedule: "0 0 8 * * *"},
		},
	}, map[string]tasks.ScheduledTaskFunc{
		config.TaskDailyExercise: func(context.Context) error { return nil },
	})
	if err != nil {
		t.Fatalf("NewScheduler() error = %v", err)
	}

	b := NewBot(quietLogger(), srv.Bot(t), sched, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v, want nil after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after context cancellation")
	}
}

func TestSchedulerStart(t *testing.T) {
	t.Parallel()

	noop := func(context.Context) error { return nil }
	sched, err := NewScheduler(quietLogger(), config.SchedulerConfig{
		Tasks: map[string]config.TaskConfig{
			config.TaskDailyExercise: {Enabled: true, Schedule: "0 30 7 * * *"},
			"disabled":               {Enabled: false, Schedule: "* * * * * *"},
			"unregistered":           {Enabled: true, Schedule: "* * * * * *"},
			"no_schedule":            {Enabled: true},
			"bad_schedule":           {Enabled: true, Schedule: "every morning"},
		},
	}, map[string]tasks.ScheduledTaskFunc{
		config.TaskDailyExercise: noop,
		"disabled":               noop,
		"no_schedule":            noop,
		"bad_schedule":           noop,
	})
	if err != nil {
		t.Fatalf("NewScheduler() error = %v", err)
	}

	if err := sched.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := sched.Start(); err == nil {
		t.Error("second Start() error = nil, want already running")
	}
	if n := sched.Jobs(); n != 1 {
		t.Errorf("Jobs() = %d, want 1", n)
	}
	if err := sched.Stop(); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
	if err := sched.Stop(); err != nil {
		t.Errorf("second Stop() error = %v", err)
	}
}
