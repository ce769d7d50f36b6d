// Package scheduler runs the daemon's periodic jobs, currently autosave.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/talgya/ambition/internal/sim"
)

// Scheduler wraps a cron runner bound to the pipeline.
type Scheduler struct {
	Cron     *cron.Cron
	Pipeline *sim.Pipeline
}

// New creates a scheduler for the pipeline.
func New(p *sim.Pipeline) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(),
		Pipeline: p,
	}
}

// RegisterAutosave schedules a save on the given cron expression. Saves skip
// quietly when another save/load is in flight or no game has started.
func (s *Scheduler) RegisterAutosave(spec string) error {
	_, err := s.Cron.AddFunc(spec, func() {
		if s.Pipeline.Husband() == nil {
			return
		}
		if err := s.Pipeline.SaveGame(context.Background()); err != nil {
			if errors.Is(err, sim.ErrBusy) {
				slog.Info("autosave skipped, save/load in flight")
				return
			}
			slog.Error("autosave failed", "error", err)
			return
		}
		slog.Info("autosave complete", "turn", s.Pipeline.CurrentTurn())
	})
	if err != nil {
		return fmt.Errorf("register autosave: %w", err)
	}
	return nil
}

// Start begins running scheduled jobs.
func (s *Scheduler) Start() { s.Cron.Start() }

// Stop halts the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.Cron.Stop()
	<-ctx.Done()
}
