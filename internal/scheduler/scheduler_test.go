package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcpatrol/patrol/internal/adapters/memory"
	"github.com/dcpatrol/patrol/internal/domain/service"
)

// countingService wraps the real engine to observe scheduler ticks
type countingService struct {
	*service.Engine
	resetChecks int64
	refreshes   int64
}

func (s *countingService) CheckDailyReset(ctx context.Context) (bool, error) {
	atomic.AddInt64(&s.resetChecks, 1)
	return s.Engine.CheckDailyReset(ctx)
}

func (s *countingService) Refresh(ctx context.Context) error {
	atomic.AddInt64(&s.refreshes, 1)
	return s.Engine.Refresh(ctx)
}

func TestScheduler_TicksBothLoops(t *testing.T) {
	engine, err := service.NewEngine(context.Background(), memory.NewStore())
	require.NoError(t, err)
	svc := &countingService{Engine: engine}

	sched := New(svc, 10*time.Millisecond, 10*time.Millisecond)
	sched.Start(context.Background())

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if atomic.LoadInt64(&svc.resetChecks) > 0 && atomic.LoadInt64(&svc.refreshes) > 0 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	sched.Stop()

	assert.Positive(t, atomic.LoadInt64(&svc.resetChecks))
	assert.Positive(t, atomic.LoadInt64(&svc.refreshes))
}

func TestScheduler_StopIsIdempotentlySafe(t *testing.T) {
	engine, err := service.NewEngine(context.Background(), memory.NewStore())
	require.NoError(t, err)

	sched := New(engine, time.Hour, time.Hour)
	sched.Start(context.Background())
	sched.Stop()
	// A second Stop must not panic or hang
	sched.Stop()
}
