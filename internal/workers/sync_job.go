// SPDX-License-Identifier: Apache-2.0

package workers

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/mpetrenko/fieldstore/internal/logger"
	"github.com/mpetrenko/fieldstore/internal/service"
)

// SyncJob drives the sync engine on a ticker. The job is idle until
// Start is called; Kick requests an immediate out-of-cadence cycle
// (after connectivity returns, or when the user asks for a manual
// sync).
type SyncJob struct {
	engine service.SyncEngine

	kick chan struct{}

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger *logger.Logger
}

// NewSyncJob creates a SyncJob over the given engine. The job is idle
// until Start is called.
func NewSyncJob(engine service.SyncEngine, logger *logger.Logger) *SyncJob {
	return &SyncJob{
		engine: engine,
		kick:   make(chan struct{}, 1),
		logger: logger,
	}
}

// Start stops any previously running job, then launches a background
// goroutine that runs one sync cycle every interval and whenever Kick
// fires. If interval is zero or negative it defaults to 5 minutes. The
// goroutine exits when ctx is cancelled or Stop is called.
func (j *SyncJob) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				j.runCycle(jobCtx)
			case <-j.kick:
				j.runCycle(jobCtx)
			}
		}
	}()
}

// Kick requests an immediate sync cycle. Non-blocking; a kick arriving
// while one is already queued is coalesced.
func (j *SyncJob) Kick() {
	select {
	case j.kick <- struct{}{}:
	default:
	}
}

// Stop cancels the background goroutine's context and blocks until the
// goroutine has fully exited. Safe to call when the job is not running.
func (j *SyncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}

func (j *SyncJob) runCycle(ctx context.Context) {
	err := j.engine.RunCycle(ctx)
	switch {
	case err == nil, errors.Is(err, service.ErrSyncInProgress), errors.Is(err, context.Canceled):
	default:
		// Transient by assumption: the next tick retries, queued
		// mutations are never lost.
		j.logger.Err(err).Str("func", "SyncJob.runCycle").Msg("sync cycle failed")
	}
}
