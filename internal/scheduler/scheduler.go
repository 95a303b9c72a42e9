package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/dcpatrol/patrol/internal/domain/ports"
	"github.com/dcpatrol/patrol/internal/observability"
)

// Scheduler owns the periodic triggers the engine itself never
// carries: the hourly daily-reset check and the per-minute document
// refresh. A missed tick has no correctness impact; the next tick
// re-evaluates full state.
type Scheduler struct {
	svc          ports.InspectionService
	resetEvery   time.Duration
	refreshEvery time.Duration
	logger       observability.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a scheduler over the inspection service
func New(svc ports.InspectionService, resetEvery, refreshEvery time.Duration) *Scheduler {
	return &Scheduler{
		svc:          svc,
		resetEvery:   resetEvery,
		refreshEvery: refreshEvery,
		logger:       observability.New("scheduler", ""),
	}
}

// Start launches the background tickers. Call Stop to shut them down.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.run(ctx, s.resetEvery, func() {
		applied, err := s.svc.CheckDailyReset(ctx)
		if err != nil {
			s.logger.Errorw("scheduled reset check failed", "error", err)
			return
		}
		if applied {
			s.logger.Infow("scheduled daily reset applied")
		}
	})

	s.wg.Add(1)
	go s.run(ctx, s.refreshEvery, func() {
		if err := s.svc.Refresh(ctx); err != nil {
			s.logger.Warnw("periodic refresh failed", "error", err)
		}
	})
}

func (s *Scheduler) run(ctx context.Context, every time.Duration, tick func()) {
	defer s.wg.Done()
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tick()
		}
	}
}

// Stop cancels the tickers and waits for them to exit
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}
