package schedule

import (
	"context"
	"log/slog"
	"time"
)

// Forever runs the task, sleeps, and repeats until the context is
// cancelled. A failing cycle is logged and never terminates the loop.
func Forever(ctx context.Context, task Task, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := task.Run(ctx); err != nil {
			slog.Error("task cycle failed", "task", task.Name(), "error", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
