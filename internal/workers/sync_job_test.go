// SPDX-License-Identifier: Apache-2.0

package workers

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpetrenko/fieldstore/internal/logger"
	"github.com/mpetrenko/fieldstore/internal/service"
)

// spySyncEngine counts cycles and returns a scripted error.
type spySyncEngine struct {
	calls atomic.Int64
	err   error
}

func (s *spySyncEngine) RunCycle(_ context.Context) error {
	s.calls.Add(1)
	return s.err
}

func (s *spySyncEngine) State() service.SyncState {
	return service.SyncIdle
}

func TestSyncJob_Start_RunsCyclesOnTicker(t *testing.T) {
	spy := &spySyncEngine{}
	job := NewSyncJob(spy, logger.Nop())

	job.Start(context.Background(), 10*time.Millisecond)
	time.Sleep(55 * time.Millisecond)
	job.Stop()

	got := spy.calls.Load()
	assert.GreaterOrEqual(t, got, int64(3), "expected several cycles, got %d", got)
}

func TestSyncJob_Stop_StopsGoroutine(t *testing.T) {
	spy := &spySyncEngine{}
	job := NewSyncJob(spy, logger.Nop())

	job.Start(context.Background(), 10*time.Millisecond)
	time.Sleep(25 * time.Millisecond)
	job.Stop()

	settled := spy.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, settled, spy.calls.Load(), "no cycles may run after Stop")
}

func TestSyncJob_Stop_WithoutStartIsNoop(t *testing.T) {
	job := NewSyncJob(&spySyncEngine{}, logger.Nop())
	job.Stop()
	job.Stop()
}

func TestSyncJob_Kick_TriggersImmediateCycle(t *testing.T) {
	spy := &spySyncEngine{}
	job := NewSyncJob(spy, logger.Nop())

	// a long interval so only kicks produce cycles
	job.Start(context.Background(), time.Hour)
	defer job.Stop()

	job.Kick()

	require.Eventually(t, func() bool {
		return spy.calls.Load() >= 1
	}, time.Second, 5*time.Millisecond)
}

func TestSyncJob_Kick_Coalesces(t *testing.T) {
	job := NewSyncJob(&spySyncEngine{}, logger.Nop())

	// not started: kicks must not block
	job.Kick()
	job.Kick()
	job.Kick()
}

func TestSyncJob_SwallowsOverlapError(t *testing.T) {
	spy := &spySyncEngine{err: service.ErrSyncInProgress}
	job := NewSyncJob(spy, logger.Nop())

	job.Start(context.Background(), 10*time.Millisecond)
	time.Sleep(35 * time.Millisecond)
	job.Stop()

	assert.GreaterOrEqual(t, spy.calls.Load(), int64(1))
}

func TestWorkers_RunAllWorkers(t *testing.T) {
	w1 := &countingWorker{}
	w2 := &countingWorker{}

	NewWorkers(w1, w2).Run()

	assert.Equal(t, 1, w1.runs)
	assert.Equal(t, 1, w2.runs)
}

func TestWorkers_RunEmpty(t *testing.T) {
	NewWorkers().Run()
}

type countingWorker struct {
	runs int
}

func (c *countingWorker) Run() {
	c.runs++
}
