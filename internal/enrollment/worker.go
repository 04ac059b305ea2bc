package enrollment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/verenigingen/membership-api/internal/config"

	"github.com/robfig/cron/v3"
)

// Worker runs the outbox sweep on a fixed schedule.
type Worker struct {
	outbox   *OutboxService
	interval string
	cron     *cron.Cron
}

func NewWorker(outbox *OutboxService, cfg *config.Config) *Worker {
	return &Worker{
		outbox:   outbox,
		interval: fmt.Sprintf("@every %s", cfg.Application.OutboxInterval),
	}
}

// Start schedules the sweep. The returned error only covers schedule parsing.
func (w *Worker) Start() error {
	w.cron = cron.New()

	_, err := w.cron.AddFunc(w.interval, func() {
		if err := w.outbox.ProcessDue(context.Background()); err != nil {
			slog.Error("enrollment outbox sweep failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule outbox sweep: %w", err)
	}

	w.cron.Start()
	slog.Info("enrollment outbox worker started", "schedule", w.interval)
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (w *Worker) Stop() {
	if w.cron == nil {
		return
	}
	ctx := w.cron.Stop()
	<-ctx.Done()
	slog.Info("enrollment outbox worker stopped")
}
