package workers

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-todo-keeper/internal/logger"
)

// Workers runs a set of workers side by side.
type Workers struct {
	workers []Worker
}

func NewWorkers(workers ...Worker) *Workers {
	return &Workers{workers: workers}
}

// Run starts every worker on its own goroutine and returns once all of them
// have stopped.
func (w *Workers) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, worker := range w.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker.Run(ctx)
		}()
	}
	wg.Wait()
}

// Sweeper is anything that can drop entries idle for longer than a duration.
type Sweeper interface {
	Sweep(idle time.Duration) int
}

// SweepWorker calls Sweep on a fixed interval.
type SweepWorker struct {
	name     string
	target   Sweeper
	interval time.Duration
	idle     time.Duration
	logger   *logger.Logger
}

// NewSweepWorker returns a worker that every interval removes the entries of
// target that were idle for longer than idle.
func NewSweepWorker(name string, target Sweeper, interval, idle time.Duration, logger *logger.Logger) *SweepWorker {
	return &SweepWorker{
		name:     name,
		target:   target,
		interval: interval,
		idle:     idle,
		logger:   logger,
	}
}

func (s *SweepWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.target.Sweep(s.idle); removed > 0 {
				s.logger.Debug().Str("worker", s.name).Int("removed", removed).Msg("idle entries swept")
			}
		}
	}
}
