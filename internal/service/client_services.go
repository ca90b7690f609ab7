// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"fmt"

	"github.com/mpetrenko/fieldstore/internal/adapter"
	"github.com/mpetrenko/fieldstore/internal/config"
	"github.com/mpetrenko/fieldstore/internal/logger"
	"github.com/mpetrenko/fieldstore/internal/queue"
	"github.com/mpetrenko/fieldstore/internal/quota"
	"github.com/mpetrenko/fieldstore/internal/store"
)

// ClientServices is the agent-side service container: everything the
// on-device application needs, wired over a single local cache
// connection.
type ClientServices struct {
	Documents DocumentFacade
	Sync      SyncEngine
	Session   *UserSession
	Notifier  *Notifier
	Quota     *quota.Manager
	Queue     queue.MutationQueue
}

// NewClientServices assembles the agent's service graph: local cache,
// mutation queue (sharing the cache connection), quota manager seeded
// from stored usage, the storage facade and the sync engine.
func NewClientServices(cfg *config.AgentConfig, remote adapter.RemoteStore, log *logger.Logger) (*ClientServices, error) {
	storages, err := store.NewClientStorages(config.Local{Path: cfg.Storage.Path}, log)
	if err != nil {
		return nil, fmt.Errorf("init client storages: %w", err)
	}

	q, err := queue.New(storages.DB, cfg.Sync, log)
	if err != nil {
		return nil, fmt.Errorf("init mutation queue: %w", err)
	}

	qm := quota.NewManager(cfg.Quota, q)

	usage, err := storages.Documents.UsageByTier(context.Background())
	if err != nil {
		return nil, fmt.Errorf("seed quota usage: %w", err)
	}
	qm.Seed(usage)

	session := NewUserSession(cfg.Tier.RecencyWindow)
	notifier := NewNotifier()

	return &ClientServices{
		Documents: NewDocumentFacade(storages.Documents, q, qm, session, notifier, log),
		Sync:      NewSyncEngine(remote, storages.Documents, q, qm, session, notifier, cfg.Sync, log),
		Session:   session,
		Notifier:  notifier,
		Quota:     qm,
		Queue:     q,
	}, nil
}
