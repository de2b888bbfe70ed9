package session

import (
	"context"
	"time"

	"drishti/internal/workers"
)

// SweepWorker periodically removes idle sessions from a Manager. It runs
// under the shared worker scheduler.
type SweepWorker struct {
	*workers.BaseWorker
	manager *Manager
}

func NewSweepWorker(manager *Manager, interval time.Duration) *SweepWorker {
	return &SweepWorker{
		BaseWorker: workers.NewBaseWorker("session-sweep", interval, true),
		manager:    manager,
	}
}

func (w *SweepWorker) Run(ctx context.Context) error {
	start := time.Now()
	if removed := w.manager.Sweep(); removed > 0 {
		w.Log().Infow("Removed idle sessions", "count", removed)
	}
	w.RecordRun(time.Since(start))
	return nil
}
